package adapters

import (
	"context"

	"bocrates/internal/domain"
)

type PageFetcher interface {
	FetchPage(ctx context.Context) (string, error)
}

type QuoteParser interface {
	Parse(html string) ([]domain.RateQuote, error)
}

// UpdateDedup remembers Telegram update IDs that were already processed, so
// redelivered webhook updates are not handled twice.
type UpdateDedup interface {
	Seen(updateID int) bool
	Mark(updateID int)
}
