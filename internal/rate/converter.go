package rate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bocrates/internal/domain"
)

// RatePolicy selects which of the published rate columns drives conversions.
// The page quotes buying and selling from the bank's point of view; the
// middle rate is the default reference for two-way conversions.
type RatePolicy string

const (
	PolicyMiddle RatePolicy = "middle"
	PolicySell   RatePolicy = "sell"
	PolicyBuy    RatePolicy = "buy"
)

const (
	baseCurrency = "CNY"
	// The source page quotes every rate as CNY per 100 units of the
	// foreign currency.
	quoteUnits = 100

	resultPlaces = 2
	ratePlaces   = 4
)

var hundred = decimal.NewFromInt(quoteUnits)

// Converter computes conversions between quoted currencies through the CNY
// base. All arithmetic is decimal; the final value is rounded half away from
// zero, which is round-half-up for the non-negative amounts allowed here.
type Converter struct {
	policy RatePolicy
}

func NewConverter(policy RatePolicy) *Converter {
	switch policy {
	case PolicyMiddle, PolicySell, PolicyBuy:
	default:
		policy = PolicyMiddle
	}
	return &Converter{policy: policy}
}

func (cv *Converter) Convert(snap *domain.RateSnapshot, amount decimal.Decimal, from, to string) (domain.ConversionResult, error) {
	if amount.IsNegative() {
		return domain.ConversionResult{}, fmt.Errorf("%w: %s", domain.ErrInvalidAmount, amount)
	}

	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	res := domain.ConversionResult{
		From:      from,
		To:        to,
		Amount:    amount,
		FetchedAt: snap.FetchedAt,
		Status:    snap.Status,
	}

	if from == to {
		// Identity conversion never consults quotes.
		res.Converted = amount
		res.Rate = decimal.NewFromInt(1)
		return res, nil
	}

	fromRate, err := cv.perUnitRate(snap, from)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	toRate, err := cv.perUnitRate(snap, to)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	rate := fromRate.Div(toRate)
	res.Rate = rate.Round(ratePlaces)
	res.Converted = amount.Mul(rate).Round(resultPlaces)
	return res, nil
}

// perUnitRate returns the CNY value of one unit of code. CNY itself is the
// base with an implicit rate of 1.
func (cv *Converter) perUnitRate(snap *domain.RateSnapshot, code string) (decimal.Decimal, error) {
	if code == baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	q, ok := snap.Quote(code)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, code)
	}

	var published decimal.Decimal
	switch cv.policy {
	case PolicySell:
		published = q.Sell
	case PolicyBuy:
		published = q.Buy
	default:
		published = q.Middle
	}
	return published.Div(hundred), nil
}
