// Package account provides the account registry: validated creation with
// duplicate detection, and lookups by id, name and email.
// Writes run inside a unit of work; found rows are cached read-through.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/accounts/pkg/cache"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/amirasaad/accounts/pkg/eventbus"
	"github.com/amirasaad/accounts/pkg/repository"
	accountrepo "github.com/amirasaad/accounts/pkg/repository/account"
	"golang.org/x/sync/singleflight"
)

// Service provides business logic for account operations.
type Service struct {
	uow       repository.UnitOfWork
	validator *account.Validator
	cache     cache.AccountCache
	cacheTTL  time.Duration
	bus       eventbus.Bus
	logger    *slog.Logger
	group     singleflight.Group
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithValidator replaces the default (region CA) validator.
func WithValidator(v *account.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// WithCache enables the read-through cache.
func WithCache(c cache.AccountCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithEventBus makes Add emit an AccountCreated event after commit.
func WithEventBus(bus eventbus.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:       uow,
		validator: account.NewValidator(account.DefaultRegion),
		logger:    logger.With("service", "account"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validator returns the validator used by Add and Check.
func (s *Service) Validator() *account.Validator {
	return s.validator
}

// Add validates in, rejects duplicate names and emails and inserts the
// account, all in one transaction.
//
// Errors carry one of the account error kinds: ErrValidation, ErrDuplicate,
// ErrConflict (the insert lost a race on a unique column) or ErrStorage.
func (s *Service) Add(
	ctx context.Context,
	in account.Input,
) (acc *account.Account, err error) {
	if errs := s.validator.ErrorList(in); len(errs) > 0 {
		return nil, account.NewValidationError(errs[0])
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if dup, err := duplicateField(ctx, repo, in); err != nil {
			return err
		} else if dup != "" {
			return account.NewDuplicateError(dup)
		}
		acc, err = repo.Create(ctx, in)
		return err
	})
	if err != nil {
		s.logger.Debug("add account failed", "name", in.Name, "error", err)
		return nil, classify(err)
	}

	s.logger.Info("account created", "id", acc.ID, "name", acc.Name)
	s.afterCreate(ctx, acc)
	return acc, nil
}

// Check returns every validation failure of in followed by the duplicate
// name and email entries. An empty, non-nil slice means in can be added.
func (s *Service) Check(
	ctx context.Context,
	in account.Input,
) ([]account.FieldError, error) {
	errs := append([]account.FieldError{}, s.validator.ErrorList(in)...)

	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.NewStorageError(err)
	}
	byName, err := repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, account.NewStorageError(err)
	}
	if byName != nil {
		errs = append(errs, account.DuplicateFieldError(account.FieldName))
	}
	byEmail, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, account.NewStorageError(err)
	}
	if byEmail != nil {
		errs = append(errs, account.DuplicateFieldError(account.FieldEmail))
	}
	return errs, nil
}

// FindByID returns the account with the given id, or nil when absent.
func (s *Service) FindByID(ctx context.Context, id int64) (*account.Account, error) {
	return s.lookup(ctx, cache.IDKey(id), func(repo accountrepo.Repository) (*account.Account, error) {
		return repo.Get(ctx, id)
	})
}

// FindByName returns the account with exactly this name, or nil when absent.
func (s *Service) FindByName(ctx context.Context, name string) (*account.Account, error) {
	return s.lookup(ctx, cache.NameKey(name), func(repo accountrepo.Repository) (*account.Account, error) {
		return repo.GetByName(ctx, name)
	})
}

// FindByEmail returns the account with exactly this email, or nil when absent.
func (s *Service) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	return s.lookup(ctx, cache.EmailKey(email), func(repo accountrepo.Repository) (*account.Account, error) {
		return repo.GetByEmail(ctx, email)
	})
}

// AllAccounts returns every account in ascending id order.
func (s *Service) AllAccounts(ctx context.Context) ([]account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, account.NewStorageError(err)
	}
	accs, err := repo.List(ctx)
	if err != nil {
		return nil, account.NewStorageError(err)
	}
	if accs == nil {
		accs = []account.Account{}
	}
	return accs, nil
}

func (s *Service) lookup(
	ctx context.Context,
	key string,
	get func(repo accountrepo.Repository) (*account.Account, error),
) (*account.Account, error) {
	if acc := s.cached(ctx, key); acc != nil {
		return acc, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		repo, err := s.uow.AccountRepository()
		if err != nil {
			return nil, account.NewStorageError(err)
		}
		acc, err := get(repo)
		if err != nil {
			return nil, account.NewStorageError(err)
		}
		if acc != nil {
			s.store(ctx, acc)
		}
		return acc, nil
	})
	if err != nil {
		return nil, err
	}
	acc, _ := v.(*account.Account)
	if acc == nil {
		return nil, nil
	}
	// the result is shared by every caller of the flight
	found := *acc
	return &found, nil
}

func (s *Service) cached(ctx context.Context, key string) *account.Account {
	if s.cache == nil {
		return nil
	}
	acc, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("account cache get failed", "key", key, "error", err)
		return nil
	}
	return acc
}

func (s *Service) store(ctx context.Context, acc *account.Account) {
	if s.cache == nil {
		return
	}
	for _, key := range cache.Keys(acc) {
		if err := s.cache.Set(ctx, key, acc, s.cacheTTL); err != nil {
			s.logger.Warn("account cache set failed", "key", key, "error", err)
		}
	}
}

// afterCreate runs once the insert is committed; its failures are logged.
func (s *Service) afterCreate(ctx context.Context, acc *account.Account) {
	s.store(ctx, acc)
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, events.NewAccountCreated(*acc)); err != nil {
		s.logger.Error("failed to emit account created event", "id", acc.ID, "error", err)
	}
}

// duplicateField returns the first of name and email already taken in
// storage, or "" when both are free.
func duplicateField(ctx context.Context, repo accountrepo.Repository, in account.Input) (string, error) {
	byName, err := repo.GetByName(ctx, in.Name)
	if err != nil {
		return "", err
	}
	if byName != nil {
		return account.FieldName, nil
	}
	byEmail, err := repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if byEmail != nil {
		return account.FieldEmail, nil
	}
	return "", nil
}

// classify keeps duplicate and conflict errors and wraps anything else as a
// storage failure.
func classify(err error) error {
	if errors.Is(err, account.ErrDuplicate) ||
		errors.Is(err, account.ErrConflict) ||
		errors.Is(err, account.ErrStorage) {
		return err
	}
	return account.NewStorageError(err)
}
