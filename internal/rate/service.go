package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bocrates/internal/domain"
)

// Service is the inbound surface consumed by the command layer. Caller-input
// errors (unsupported currency, invalid amount) propagate; transient fetch and
// parse failures are absorbed by the snapshot cache.
type Service struct {
	cache     *SnapshotCache
	converter *Converter
	validator *CurrencyValidator
}

func (s *Service) Snapshot(ctx context.Context) (*domain.RateSnapshot, error) {
	return s.cache.GetSnapshot(ctx)
}

// QuoteFor returns the quote for a single currency code together with the
// snapshot it came from.
func (s *Service) QuoteFor(ctx context.Context, code string) (domain.RateQuote, *domain.RateSnapshot, error) {
	code, err := s.validator.ValidateCode(code)
	if err != nil {
		return domain.RateQuote{}, nil, err
	}
	snap, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		return domain.RateQuote{}, nil, err
	}
	q, ok := snap.Quote(code)
	if !ok {
		return domain.RateQuote{}, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCurrency, code)
	}
	return q, snap, nil
}

func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (domain.ConversionResult, error) {
	from, err := s.validator.ValidateCode(from)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	to, err = s.validator.ValidateCode(to)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	snap, err := s.cache.GetSnapshot(ctx)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	return s.converter.Convert(snap, amount, from, to)
}

func (s *Service) SupportedCodes() []string {
	return s.validator.SupportedCodes()
}

// NextRefresh reports when the cached snapshot becomes eligible for refresh.
func (s *Service) NextRefresh() time.Time {
	return s.cache.ExpiresAt()
}

func NewService(cache *SnapshotCache, converter *Converter, validator *CurrencyValidator) *Service {
	return &Service{cache: cache, converter: converter, validator: validator}
}
