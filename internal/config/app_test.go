package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseList(t *testing.T) {
	require.Equal(t, []string{"USD", "EUR", "CNY"}, ParseList("USD, EUR ,CNY"))
	require.Equal(t, []string{"USD"}, ParseList("USD,,"))
	require.Nil(t, ParseList("   "))
	require.Nil(t, ParseList(""))
}

func TestParseDict(t *testing.T) {
	names := ParseDict("USD:美元, EUR:欧元,GBP : 英镑")
	require.Equal(t, map[string]string{
		"USD": "美元",
		"EUR": "欧元",
		"GBP": "英镑",
	}, names)
}

func TestParseDictSkipsMalformedItems(t *testing.T) {
	names := ParseDict("USD:美元,novalue,:orphan,EUR:")
	require.Equal(t, map[string]string{"USD": "美元"}, names)
}

func TestRatesHelpers(t *testing.T) {
	r := Rates{SupportedCodes: "USD,EUR", CurrencyNames: "USD:美元"}
	require.Equal(t, []string{"USD", "EUR"}, r.Supported())
	require.Equal(t, map[string]string{"USD": "美元"}, r.Names())
}
