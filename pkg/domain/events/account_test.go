package events_test

import (
	"encoding/json"
	"testing"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/amirasaad/accounts/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountCreated(t *testing.T) {
	t.Parallel()
	acc := account.Account{ID: 1, Name: "Nicolas", Email: "nicolas@domain.com"}

	evt := events.NewAccountCreated(acc)

	assert.NotEqual(t, uuid.Nil, evt.ID)
	assert.Equal(t, acc, evt.Account)
	assert.False(t, evt.OccurredAt.IsZero())
	assert.Equal(t, "Account.Created", evt.Type())
}

func TestEventTypes_DecodeAccountCreated(t *testing.T) {
	t.Parallel()
	evt := events.NewAccountCreated(account.Account{ID: 3, Name: "Nicolas"})
	data, err := json.Marshal(evt)
	require.NoError(t, err)

	ctor, ok := events.EventTypes[evt.Type()]
	require.True(t, ok)
	decoded := ctor()
	require.NoError(t, json.Unmarshal(data, decoded))

	got, ok := decoded.(*events.AccountCreated)
	require.True(t, ok)
	assert.Equal(t, evt.ID, got.ID)
	assert.Equal(t, evt.Account, got.Account)
}
