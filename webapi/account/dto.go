package account

import (
	"github.com/amirasaad/accounts/pkg/domain/account"
)

// CreateAccountRequest represents the request body for creating an account
// or checking its parameters. Every field must be present; values are
// checked by the account validator, not here.
type CreateAccountRequest struct {
	Name        *string `json:"name" validate:"required" example:"Nicolas"`
	Email       *string `json:"email" validate:"required" example:"nicolas@domain.com"`
	PhoneNumber *string `json:"phone_number" validate:"required" example:"611-611-6111"`
	Address     *string `json:"address" validate:"required" example:"1 Main St"`
	City        *string `json:"city" validate:"required" example:"Ottawa"`
	PostalCode  *string `json:"postal_code" validate:"required" example:"K1S0A8"`
	Country     *string `json:"country" validate:"required" example:"Canada"`
}

// ToInput normalises the request: every value is trimmed, the email is
// lower-cased and the postal code upper-cased.
func (r *CreateAccountRequest) ToInput() account.Input {
	return account.Input{
		Name:        deref(r.Name),
		Email:       deref(r.Email),
		PhoneNumber: deref(r.PhoneNumber),
		Address:     deref(r.Address),
		City:        deref(r.City),
		PostalCode:  deref(r.PostalCode),
		Country:     deref(r.Country),
	}.Normalize()
}

// ParameterErrors lists field errors as single-key objects:
// [{"name": "..."}, {"email": "..."}].
type ParameterErrors []map[string]string

func toParameterErrors(errs []account.FieldError) ParameterErrors {
	out := make(ParameterErrors, 0, len(errs))
	for _, fe := range errs {
		out = append(out, map[string]string{fe.Field: fe.Message})
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
