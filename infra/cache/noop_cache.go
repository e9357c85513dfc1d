package cache

import (
	"context"
	"time"

	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/domain/account"
)

// NoopCache never stores anything; every Get is a miss.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*account.Account, error) { return nil, nil }

func (NoopCache) Set(context.Context, string, *account.Account, time.Duration) error { return nil }

func (NoopCache) Delete(context.Context, string) error { return nil }

var _ cache.AccountCache = NoopCache{}
