// Package account holds the account record types, the field validator and
// the errors the account service reports.
package account

import "strings"

// Input carries the seven fields submitted to create an account, before an
// id is assigned.
type Input struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

// Account is a persisted account record.
//
// Invariants:
//   - ID is assigned by storage, unique and never changed afterwards.
//   - Name and Email are unique across all accounts.
type Account struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	Country     string `json:"country"`
}

// New builds the Account stored under id for the given input.
func New(id int64, in Input) Account {
	return Account{
		ID:          id,
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Address:     in.Address,
		City:        in.City,
		PostalCode:  in.PostalCode,
		Country:     in.Country,
	}
}

// Input returns the creation fields of the account.
func (a Account) Input() Input {
	return Input{
		Name:        a.Name,
		Email:       a.Email,
		PhoneNumber: a.PhoneNumber,
		Address:     a.Address,
		City:        a.City,
		PostalCode:  a.PostalCode,
		Country:     a.Country,
	}
}

// Normalize trims every field, lower-cases the email and upper-cases the
// postal code.
func (in Input) Normalize() Input {
	return Input{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		PostalCode:  strings.ToUpper(strings.TrimSpace(in.PostalCode)),
		Country:     strings.TrimSpace(in.Country),
	}
}
