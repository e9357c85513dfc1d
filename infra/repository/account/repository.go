package account

import (
	"context"
	"errors"

	infrarepo "github.com/amirasaad/accounts/infra/repository"
	"github.com/amirasaad/accounts/pkg/domain/account"
	repo "github.com/amirasaad/accounts/pkg/repository/account"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates an account repository on the given session.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements account.Repository.
func (r *repository) Create(ctx context.Context, in account.Input) (*account.Account, error) {
	m := mapInputToModel(in)
	if err := infrarepo.WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	}); err != nil {
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

// Get implements account.Repository.
func (r *repository) Get(ctx context.Context, id int64) (*account.Account, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByName implements account.Repository.
func (r *repository) GetByName(ctx context.Context, name string) (*account.Account, error) {
	return r.first(ctx, "name = ?", name)
}

// GetByEmail implements account.Repository.
func (r *repository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return r.first(ctx, "email = ?", email)
}

// List implements account.Repository.
func (r *repository) List(ctx context.Context) ([]account.Account, error) {
	var rows []Account
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]account.Account, 0, len(rows))
	for i := range rows {
		result = append(result, *mapModelToDomain(&rows[i]))
	}
	return result, nil
}

func (r *repository) first(ctx context.Context, query string, arg any) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapModelToDomain(&m), nil
}

var _ repo.Repository = (*repository)(nil)
