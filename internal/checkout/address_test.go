package checkout

import (
	"testing"

	"github.com/Raj-3200/depthndecoy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress_Valid(t *testing.T) {
	assert.NoError(t, ValidateAddress(validAddress()))
}

func TestValidateAddress_EmptyReportsAllFields(t *testing.T) {
	err := ValidateAddress(&domain.Address{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	expected := map[string]string{
		"FullName":     "Name is required",
		"AddressLine1": "Address is required",
		"City":         "City is required",
		"State":        "State is required",
		"PostalCode":   "Postal code is required",
		"Country":      "Country is required",
		"Phone":        "Phone is required",
	}
	assert.Equal(t, expected, verr.Fields)
}

func TestValidateAddress_TooShortFields(t *testing.T) {
	addr := validAddress()
	addr.AddressLine1 = "14"
	addr.PostalCode = "40"

	var verr *ValidationError
	require.ErrorAs(t, ValidateAddress(addr), &verr)
	assert.Len(t, verr.Fields, 2)
	assert.Contains(t, verr.Fields, "AddressLine1")
	assert.Contains(t, verr.Fields, "PostalCode")
}

func TestValidateAddress_Line2Optional(t *testing.T) {
	addr := validAddress()
	addr.AddressLine2 = ""
	assert.NoError(t, ValidateAddress(addr))
}
