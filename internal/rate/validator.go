package rate

import (
	"fmt"
	"slices"
	"strings"

	"bocrates/internal/domain"
)

// CurrencyValidator checks caller-supplied currency codes against the
// configured supported set.
type CurrencyValidator struct {
	supportedSet map[string]struct{} // read only copy
	supportedLst []string            // read only copy
}

// ValidateCode normalizes a caller-supplied code and checks it against the
// supported set.
func (v *CurrencyValidator) ValidateCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: empty currency code", domain.ErrUnsupportedCurrency)
	}
	if _, ok := v.supportedSet[code]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, code)
	}
	return code, nil
}

func (v *CurrencyValidator) SupportedCodes() []string {
	return slices.Clone(v.supportedLst)
}

func NewValidator(supported []string) *CurrencyValidator {
	set := make(map[string]struct{}, len(supported))
	for _, code := range supported {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			set[code] = struct{}{}
		}
	}
	lst := make([]string, 0, len(set))
	for code := range set {
		lst = append(lst, code)
	}
	slices.Sort(lst)

	return &CurrencyValidator{supportedSet: set, supportedLst: lst}
}
