package account

import (
	"github.com/amirasaad/accounts/pkg/domain/account"
)

// Account represents an account record in the database.
type Account struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"uniqueIndex:idx_accounts_name;not null"`
	Email       string `gorm:"uniqueIndex:idx_accounts_email;not null"`
	PhoneNumber string `gorm:"not null"`
	Address     string `gorm:"not null"`
	City        string `gorm:"not null"`
	PostalCode  string `gorm:"not null"`
	Country     string `gorm:"not null"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "Accounts"
}

func mapInputToModel(in account.Input) Account {
	return Account{
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		City:        in.City,
		PostalCode:  in.PostalCode,
		Country:     in.Country,
	}
}

func mapModelToDomain(m *Account) *account.Account {
	acc := account.Account{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Address:     m.Address,
		City:        m.City,
		PostalCode:  m.PostalCode,
		Country:     m.Country,
	}
	return &acc
}
