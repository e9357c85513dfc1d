package account

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the kind of errors raised when an input field breaks a
	// validation rule.
	ErrValidation = errors.New("invalid account parameters")
	// ErrDuplicate is the kind of errors raised when the name or email is
	// already taken at lookup time.
	ErrDuplicate = errors.New("account already exists")
	// ErrConflict is the kind of errors raised when storage rejects the insert
	// on a unique constraint after the lookups passed.
	ErrConflict = errors.New("concurrent write conflict")
	// ErrStorage wraps any other storage failure.
	ErrStorage = errors.New("account storage failure")
)

// Field names, in the order the validator reports them.
const (
	FieldName        = "name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldAddress     = "address"
	FieldCity        = "city"
	FieldPostalCode  = "postal_code"
	FieldCountry     = "country"
)

// Fields lists every input field in reporting order.
var Fields = []string{
	FieldName,
	FieldEmail,
	FieldPhoneNumber,
	FieldAddress,
	FieldCity,
	FieldPostalCode,
	FieldCountry,
}

// FieldError pairs a field name with a human readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Message
}

// Error is returned by the account service for validation, duplicate and
// conflict failures. Kind is one of ErrValidation, ErrDuplicate or
// ErrConflict, so callers can use errors.Is on the returned error.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NewValidationError reports the given field error as a validation failure.
func NewValidationError(fe FieldError) *Error {
	return &Error{Kind: ErrValidation, Field: fe.Field, Message: fe.Message}
}

// NewDuplicateError reports that an account with the same field value
// already exists.
func NewDuplicateError(field string) *Error {
	return &Error{Kind: ErrDuplicate, Field: field, Message: duplicateMessage(field)}
}

// NewConflictError reports a unique constraint violation raised by storage.
// field may be empty when the driver error does not name the column.
func NewConflictError(field string) *Error {
	subject := "name or email"
	if field != "" {
		subject = field
	}
	msg := fmt.Sprintf("Concurrent write conflict: an account with this %s already exist in database", subject)
	return &Error{Kind: ErrConflict, Field: field, Message: msg}
}

// NewStorageError wraps err with ErrStorage.
func NewStorageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// DuplicateFieldError returns the field error listed by the parameter check
// when the field value is already taken.
func DuplicateFieldError(field string) FieldError {
	return FieldError{Field: field, Message: duplicateMessage(field)}
}

func duplicateMessage(field string) string {
	return fmt.Sprintf("An account with this %s already exist in database", field)
}
