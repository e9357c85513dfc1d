package infra

import (
	"context"
	"fmt"

	accountrepo "github.com/amirasaad/accounts/infra/repository/account"
	"github.com/amirasaad/accounts/pkg/repository"
	"github.com/amirasaad/accounts/pkg/repository/account"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories obtained inside Do share its transaction.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn in a transaction, providing a UoW bound to it. The transaction
// is rolled back when fn returns an error or panics.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.session().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

// AccountRepository returns the account repository on the current session.
func (u *UoW) AccountRepository() (account.Repository, error) {
	session := u.session()
	if session == nil {
		return nil, fmt.Errorf("unit of work: no database session")
	}
	return accountrepo.New(session), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

var _ repository.UnitOfWork = (*UoW)(nil)
