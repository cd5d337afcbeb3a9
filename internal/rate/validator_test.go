package rate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bocrates/internal/domain"
)

func TestValidateCodeNormalizes(t *testing.T) {
	v := NewValidator([]string{"USD", "eur", " CNY "})

	code, err := v.ValidateCode(" usd ")
	require.NoError(t, err)
	require.Equal(t, "USD", code)

	code, err = v.ValidateCode("EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", code)
}

func TestValidateCodeRejectsUnknown(t *testing.T) {
	v := NewValidator([]string{"USD", "CNY"})

	_, err := v.ValidateCode("XXX")
	require.ErrorIs(t, err, domain.ErrUnsupportedCurrency)

	_, err = v.ValidateCode("")
	require.ErrorIs(t, err, domain.ErrUnsupportedCurrency)
}

func TestSupportedCodesSortedCopy(t *testing.T) {
	v := NewValidator([]string{"JPY", "USD", "EUR"})

	codes := v.SupportedCodes()
	require.Equal(t, []string{"EUR", "JPY", "USD"}, codes)

	codes[0] = "mutated"
	require.Equal(t, []string{"EUR", "JPY", "USD"}, v.SupportedCodes())
}
