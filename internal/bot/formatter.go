package bot

import (
	"fmt"
	"strings"
	"time"

	"bocrates/internal/domain"
)

const messageTimeLayout = "2006-01-02 15:04:05"

const (
	msgConvertUsage = "❓ Usage: /convert <from> <to> <amount>\n" +
		"Example: /convert USD EUR 100"
	msgCNYConvertUsage = "❓ Usage: /cny_convert <from> <amount>\n" +
		"Example: /cny_convert USD 100"
	msgInvalidAmount       = "❌ Invalid amount. Please enter a valid non-negative number."
	msgUnsupportedCurrency = "❌ Unsupported currency. Please check the currency codes and try again.\n" +
		"Use /currency to list supported currencies."
	msgNoData = "❌ Exchange rate data is unavailable right now. Please try again later."
)

func formatWelcome() string {
	return "👋 Welcome to the Bank of China exchange rate bot!\n\n" +
		"Available commands:\n" +
		"/rate - current exchange rates\n" +
		"/rate <code> - rate for one currency\n" +
		"/convert <from> <to> <amount> - convert between currencies\n" +
		"/cny_convert <from> <amount> - convert to RMB\n" +
		"/currency - list supported currencies"
}

func formatConversion(res domain.ConversionResult, nextRefresh time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💱 Currency conversion:\n")
	fmt.Fprintf(&b, "%s %s = %s %s\n", res.Amount.StringFixed(2), res.From, res.Converted.StringFixed(2), res.To)
	fmt.Fprintf(&b, "(Rate: 1 %s = %s %s)\n", res.From, res.Rate.StringFixed(4), res.To)
	writeSnapshotFooter(&b, res.FetchedAt, res.Status, nextRefresh)
	return b.String()
}

func formatCNYConversion(res domain.ConversionResult, nextRefresh time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💱 Conversion to RMB:\n")
	fmt.Fprintf(&b, "%s %s = %s CNY\n", res.Amount.StringFixed(2), res.From, res.Converted.StringFixed(2))
	fmt.Fprintf(&b, "(Rate: 1 %s = %s CNY)\n", res.From, res.Rate.StringFixed(4))
	writeSnapshotFooter(&b, res.FetchedAt, res.Status, nextRefresh)
	return b.String()
}

// formatRateList renders the full rate table in the configured currency
// order. Rates are shown exactly as published: CNY per 100 units.
func formatRateList(snap *domain.RateSnapshot, codes []string, names map[string]string, nextRefresh time.Time) string {
	var b strings.Builder
	b.WriteString("📈 Exchange Rates (CNY per 100 units)\n\n")

	for _, code := range codes {
		if code == "CNY" {
			continue
		}
		q, ok := snap.Quote(code)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s", code, q.Middle.String())
		if name := names[code]; name != "" {
			fmt.Fprintf(&b, " %s", name)
		}
		b.WriteByte('\n')
	}

	writeSnapshotFooter(&b, snap.FetchedAt, snap.Status, nextRefresh)
	return b.String()
}

func formatSingleRate(q domain.RateQuote, name string, snap *domain.RateSnapshot, nextRefresh time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s", q.Code)
	if name != "" {
		fmt.Fprintf(&b, " (%s)", name)
	}
	b.WriteString(" per 100 units:\n")
	fmt.Fprintf(&b, "Buying: %s CNY\n", q.Buy.String())
	fmt.Fprintf(&b, "Selling: %s CNY\n", q.Sell.String())
	fmt.Fprintf(&b, "Middle: %s CNY\n", q.Middle.String())
	if !q.PubTime.IsZero() {
		fmt.Fprintf(&b, "Published: %s\n", q.PubTime.Format(messageTimeLayout))
	}
	writeSnapshotFooter(&b, snap.FetchedAt, snap.Status, nextRefresh)
	return b.String()
}

func formatCurrencyList(codes []string, names map[string]string) string {
	var b strings.Builder
	b.WriteString("💰 Supported currencies:\n\n")
	for _, code := range codes {
		b.WriteString(code)
		if name := names[code]; name != "" {
			b.WriteString(" - " + name)
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nUse /rate, /convert or /cny_convert to get rates and convert currencies.")
	return b.String()
}

func writeSnapshotFooter(b *strings.Builder, fetchedAt time.Time, status domain.SnapshotStatus, nextRefresh time.Time) {
	fmt.Fprintf(b, "\nRates fetched: %s\n", fetchedAt.Format(messageTimeLayout))
	if status == domain.StatusStaleFallback {
		b.WriteString("⚠️ Rates are stale; a refresh will be attempted shortly\n")
	}
	if !nextRefresh.IsZero() {
		fmt.Fprintf(b, "Next update: %s", nextRefresh.Format(messageTimeLayout))
	}
}
