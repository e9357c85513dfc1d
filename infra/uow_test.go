package infra

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockUoW(t *testing.T) (*UoW, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewUoW(db), mock
}

func TestUoW_AccountRepository(t *testing.T) {
	uow, _ := newMockUoW(t)
	repo, err := uow.AccountRepository()
	require.NoError(t, err)
	assert.NotNil(t, repo)

	_, err = (&UoW{}).AccountRepository()
	assert.Error(t, err)
}

func TestUoW_Do_Commit(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "Accounts" WHERE name = \$1`).
		WithArgs("Nicolas", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`INSERT INTO "Accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	var created *account.Account
	err := uow.Do(context.Background(), func(txUow repository.UnitOfWork) error {
		repo, err := txUow.AccountRepository()
		if err != nil {
			return err
		}
		existing, err := repo.GetByName(context.Background(), "Nicolas")
		if err != nil || existing != nil {
			return errors.New("unexpected existing account")
		}
		created, err = repo.Create(context.Background(), account.Input{Name: "Nicolas"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_Do_Rollback(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	errFn := errors.New("fn failed")
	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		return errFn
	})
	assert.ErrorIs(t, err, errFn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_Do_BeginError(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin().WillReturnError(errors.New("begin error"))

	called := false
	err := uow.Do(context.Background(), func(repository.UnitOfWork) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestUoW_Do_CommitError(t *testing.T) {
	uow, mock := newMockUoW(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("commit error"))

	err := uow.Do(context.Background(), func(repository.UnitOfWork) error { return nil })
	assert.EqualError(t, err, "commit error")
}
