package repository

import (
	"context"

	"github.com/amirasaad/accounts/pkg/repository/account"
)

// UnitOfWork defines the contract for transactional work and repository
// access.
//
// Do runs fn inside one transaction; a non-nil error from fn rolls it back.
// AccountRepository returns the repository bound to the current session, so
// calls made through the UnitOfWork passed to fn share the transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	AccountRepository() (account.Repository, error)
}
