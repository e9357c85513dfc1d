package account

import (
	"context"

	"github.com/amirasaad/accounts/pkg/domain/account"
)

// Repository defines the storage operations on the accounts table. Lookups
// return nil, nil when no row matches.
type Repository interface {
	// Create inserts a row for in and returns it with its assigned id.
	Create(ctx context.Context, in account.Input) (*account.Account, error)

	// Get retrieves an account by its id.
	Get(ctx context.Context, id int64) (*account.Account, error)

	// GetByName retrieves an account by exact name.
	GetByName(ctx context.Context, name string) (*account.Account, error)

	// GetByEmail retrieves an account by exact email.
	GetByEmail(ctx context.Context, email string) (*account.Account, error)

	// List returns every account ordered by ascending id.
	List(ctx context.Context) ([]account.Account, error)
}
