package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNoDataAvailable     = errors.New("no exchange rate data available")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// FetchError reports a failed attempt to retrieve the source page.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that the rate table could not be extracted from the page.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse rate table: %s: %v", e.Reason, e.Err)
	}
	return "parse rate table: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }
