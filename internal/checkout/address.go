package checkout

import (
	"errors"
	"fmt"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldMessages carries the per-field copy shown next to the inputs.
var fieldMessages = map[string]string{
	"FullName":     "Name is required",
	"AddressLine1": "Address is required",
	"City":         "City is required",
	"State":        "State is required",
	"PostalCode":   "Postal code is required",
	"Country":      "Country is required",
	"Phone":        "Phone is required",
}

// ValidationError reports address schema failures field by field. It is
// locally recoverable: the workflow stays in COLLECTING_ADDRESS and the
// caller re-prompts.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("address validation failed: %d invalid field(s)", len(e.Fields))
}

// ValidateAddress checks the shipping address schema. Returns nil when
// valid, a *ValidationError otherwise.
func ValidateAddress(addr *domain.Address) error {
	err := validate.Struct(addr)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
