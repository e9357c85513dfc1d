package events

import (
	"time"

	"github.com/amirasaad/accounts/pkg/domain/account"
	"github.com/google/uuid"
)

// AccountCreated is emitted after a new account has been persisted.
type AccountCreated struct {
	ID         uuid.UUID       `json:"id"`
	Account    account.Account `json:"account"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewAccountCreated builds the event for acc with a fresh event id.
func NewAccountCreated(acc account.Account) *AccountCreated {
	return &AccountCreated{
		ID:         uuid.New(),
		Account:    acc,
		OccurredAt: time.Now().UTC(),
	}
}

func (e *AccountCreated) Type() string {
	return EventTypeAccountCreated.String()
}
