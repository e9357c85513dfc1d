package account_test

import (
	"errors"
	"testing"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc    string
		err     error
		kind    error
		field   string
		message string
	}{
		{
			desc:    "validation",
			err:     account.NewValidationError(account.FieldError{Field: "name", Message: "Name length should be between 2 and 40 chars"}),
			kind:    account.ErrValidation,
			field:   "name",
			message: "Name length should be between 2 and 40 chars",
		},
		{
			desc:    "duplicate name",
			err:     account.NewDuplicateError(account.FieldName),
			kind:    account.ErrDuplicate,
			field:   "name",
			message: "An account with this name already exist in database",
		},
		{
			desc:    "duplicate email",
			err:     account.NewDuplicateError(account.FieldEmail),
			kind:    account.ErrDuplicate,
			field:   "email",
			message: "An account with this email already exist in database",
		},
		{
			desc:    "conflict on email",
			err:     account.NewConflictError(account.FieldEmail),
			kind:    account.ErrConflict,
			field:   "email",
			message: "Concurrent write conflict: an account with this email already exist in database",
		},
		{
			desc:    "conflict on unknown column",
			err:     account.NewConflictError(""),
			kind:    account.ErrConflict,
			message: "Concurrent write conflict: an account with this name or email already exist in database",
		},
	}

	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tc.err, tc.kind)
			assert.EqualError(t, tc.err, tc.message)

			var accErr *account.Error
			require.ErrorAs(t, tc.err, &accErr)
			assert.Equal(t, tc.field, accErr.Field)
		})
	}
}

func TestNewStorageError(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := account.NewStorageError(cause)

	assert.ErrorIs(t, err, account.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, account.ErrConflict)
}

func TestAccount_Input(t *testing.T) {
	t.Parallel()
	in := validInput()
	acc := account.New(7, in)

	assert.Equal(t, int64(7), acc.ID)
	assert.Equal(t, in, acc.Input())
}
