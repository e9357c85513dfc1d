package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/amirasaad/accounts/pkg/domain/account"
)

// AccountCache defines the interface for caching persisted accounts.
// Get returns nil, nil on a miss.
type AccountCache interface {
	Get(ctx context.Context, key string) (*account.Account, error)
	Set(ctx context.Context, key string, acc *account.Account, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IDKey returns the cache key of an account looked up by id.
func IDKey(id int64) string { return "id:" + strconv.FormatInt(id, 10) }

// NameKey returns the cache key of an account looked up by name.
func NameKey(name string) string { return "name:" + name }

// EmailKey returns the cache key of an account looked up by email.
func EmailKey(email string) string { return "email:" + email }

// Keys returns every key under which acc is cached.
func Keys(acc *account.Account) []string {
	return []string{IDKey(acc.ID), NameKey(acc.Name), EmailKey(acc.Email)}
}
