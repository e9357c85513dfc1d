package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/config"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/eventbus"
	"github.com/amirasaad/accounts/pkg/repository"
	accountsvc "github.com/amirasaad/accounts/pkg/service/account"
)

// Deps contains the infrastructure the application services are built on.
type Deps struct {
	Uow      repository.UnitOfWork
	Cache    cache.AccountCache
	EventBus eventbus.Bus
	Logger   *slog.Logger
	// Closers are released by Close in reverse order.
	Closers []io.Closer
}

// Close releases every registered closer and joins their errors.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.Closers) - 1; i >= 0; i-- {
		if err := d.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.Closers = nil
	return errors.Join(errs...)
}

type App struct {
	Deps           *Deps
	Config         *config.App
	AccountService *accountsvc.Service
}

func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	region := account.DefaultRegion
	if cfg.Validation != nil && cfg.Validation.PhoneRegion != "" {
		region = cfg.Validation.PhoneRegion
	}
	opts := []accountsvc.Option{
		accountsvc.WithValidator(account.NewValidator(region)),
	}
	if deps.Cache != nil {
		ttl := config.DefaultCacheTTL
		if cfg.Cache != nil {
			ttl = cfg.Cache.TTL
		}
		opts = append(opts, accountsvc.WithCache(deps.Cache, ttl))
	}
	if deps.EventBus != nil {
		opts = append(opts, accountsvc.WithEventBus(deps.EventBus))
	}
	app.AccountService = accountsvc.New(deps.Uow, deps.Logger, opts...)
	return app
}
