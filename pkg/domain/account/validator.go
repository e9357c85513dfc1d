package account

import (
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the region phone numbers are parsed against when the
// number carries no international prefix.
const DefaultRegion = "CA"

// Validator checks account inputs against the field rules. It performs no
// I/O and never checks uniqueness.
type Validator struct {
	region   string
	validate *validator.Validate
}

// NewValidator returns a Validator parsing phone numbers for region. An empty
// region falls back to DefaultRegion.
func NewValidator(region string) *Validator {
	if region == "" {
		region = DefaultRegion
	}
	return &Validator{region: region, validate: validator.New()}
}

// Region returns the phone number region used by the validator.
func (v *Validator) Region() string {
	return v.region
}

type lengthRule struct {
	field    string
	min, max int // min exclusive, max inclusive
	message  string
}

var lengthRules = map[string]lengthRule{
	FieldName:       {FieldName, 2, 40, "Name length should be between 2 and 40 chars"},
	FieldAddress:    {FieldAddress, 0, 400, "Address length should be between 1 and 400 chars"},
	FieldCity:       {FieldCity, 0, 50, "City length should be between 1 and 50 chars"},
	FieldPostalCode: {FieldPostalCode, 0, 10, "Postal code length should be between 1 and 10 chars"},
	FieldCountry:    {FieldCountry, 0, 30, "Country length should be between 1 and 30 chars"},
}

func (r lengthRule) check(value string) (FieldError, bool) {
	n := utf8.RuneCountInString(value)
	if n > r.min && n <= r.max {
		return FieldError{}, true
	}
	return FieldError{Field: r.field, Message: r.message}, false
}

// ErrorList returns every rule in violation, ordered name, email,
// phone_number, address, city, postal_code, country. An empty result means
// the input is structurally valid.
func (v *Validator) ErrorList(in Input) []FieldError {
	var errs []FieldError
	add := func(fe FieldError, ok bool) {
		if !ok {
			errs = append(errs, fe)
		}
	}

	add(lengthRules[FieldName].check(in.Name))
	if err := v.validate.Var(in.Email, "required,email"); err != nil {
		errs = append(errs, FieldError{Field: FieldEmail, Message: "Invalid email"})
	}
	if !v.parsesAsPhone(in.PhoneNumber) {
		errs = append(errs, FieldError{Field: FieldPhoneNumber, Message: "Invalid phone number"})
	}
	add(lengthRules[FieldAddress].check(in.Address))
	add(lengthRules[FieldCity].check(in.City))
	add(lengthRules[FieldPostalCode].check(in.PostalCode))
	add(lengthRules[FieldCountry].check(in.Country))
	return errs
}

// IsValid reports whether ErrorList is empty.
func (v *Validator) IsValid(in Input) bool {
	return len(v.ErrorList(in)) == 0
}

// parsesAsPhone reports whether number parses for the validator region. Any
// parser failure, including a panic inside the parser, counts as invalid.
func (v *Validator) parsesAsPhone(number string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	_, err := phonenumbers.Parse(number, v.region)
	return err == nil
}

var defaultValidator = NewValidator(DefaultRegion)

// ErrorList validates in with the default region.
func ErrorList(in Input) []FieldError {
	return defaultValidator.ErrorList(in)
}

// IsValid validates in with the default region.
func IsValid(in Input) bool {
	return defaultValidator.IsValid(in)
}
