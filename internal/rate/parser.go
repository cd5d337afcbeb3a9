package rate

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"bocrates/internal/domain"
)

const pubTimeLayout = "2006.01.02 15:04:05"

// Header captions of the table columns we read from the published page.
const (
	colCurrencyName = "Currency Name"
	colBuying       = "Buying Rate"
	colSelling      = "Selling Rate"
	colMiddle       = "Middle Rate"
	colPubTime      = "Pub Time"
)

// Parser extracts per-currency quotes from the source page. The upstream HTML
// format is a versionless external dependency; everything that can evolve with
// it stays behind this one type.
type Parser struct {
	codeByName map[string]string // display name -> currency code
	supported  map[string]struct{}
}

func (p *Parser) Parse(html string) ([]domain.RateQuote, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &domain.ParseError{Reason: "invalid html", Err: err}
	}

	table := doc.Find(`table[bgcolor="#EAEAEA"]`).First()
	if table.Length() == 0 {
		return nil, &domain.ParseError{Reason: "rate table not found"}
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil, &domain.ParseError{Reason: "rate table has no data rows"}
	}

	cols, err := headerIndices(rows.First())
	if err != nil {
		return nil, err
	}

	var quotes []domain.RateQuote
	rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= cols.max() {
			return
		}

		name := strings.TrimSpace(cells.Eq(cols.name).Text())
		code := p.resolveCode(name)
		if code == "" {
			return // not a supported currency, fine to skip
		}

		buy, buyErr := parseRate(cells.Eq(cols.buy).Text())
		sell, sellErr := parseRate(cells.Eq(cols.sell).Text())
		middle, midErr := parseRate(cells.Eq(cols.middle).Text())
		if buyErr != nil || sellErr != nil || midErr != nil {
			logrus.Warnf("Skipping rate row for %q: unparseable rate value", name)
			return
		}

		q := domain.RateQuote{Code: code, Buy: buy, Sell: sell, Middle: middle}
		if cols.pubTime >= 0 {
			raw := strings.TrimSpace(cells.Eq(cols.pubTime).Text())
			if ts, tErr := time.ParseInLocation(pubTimeLayout, raw, time.Local); tErr == nil {
				q.PubTime = ts
			}
		}
		quotes = append(quotes, q)
	})

	if len(quotes) == 0 {
		return nil, &domain.ParseError{Reason: "no usable quotes in rate table"}
	}
	return quotes, nil
}

// resolveCode maps a table cell to a supported currency code. The page lists
// currencies by display name, but a code-labelled variant is accepted too.
func (p *Parser) resolveCode(name string) string {
	if name == "" {
		return ""
	}
	if code, ok := p.codeByName[name]; ok {
		if _, sup := p.supported[code]; sup {
			return code
		}
		return ""
	}
	code := strings.ToUpper(name)
	if _, sup := p.supported[code]; sup {
		return code
	}
	return ""
}

type columnSet struct {
	name    int
	buy     int
	sell    int
	middle  int
	pubTime int // -1 when the page omits it; fetch time is used instead
}

func (c columnSet) max() int {
	m := c.name
	for _, i := range []int{c.buy, c.sell, c.middle, c.pubTime} {
		if i > m {
			m = i
		}
	}
	return m
}

func headerIndices(header *goquery.Selection) (columnSet, error) {
	idx := make(map[string]int)
	header.Find("th").Each(func(i int, th *goquery.Selection) {
		idx[strings.TrimSpace(th.Text())] = i
	})

	cols := columnSet{name: -1, buy: -1, sell: -1, middle: -1, pubTime: -1}
	if i, ok := idx[colCurrencyName]; ok {
		cols.name = i
	}
	if i, ok := idx[colBuying]; ok {
		cols.buy = i
	}
	if i, ok := idx[colSelling]; ok {
		cols.sell = i
	}
	if i, ok := idx[colMiddle]; ok {
		cols.middle = i
	}
	if i, ok := idx[colPubTime]; ok {
		cols.pubTime = i
	}

	if cols.name < 0 || cols.buy < 0 || cols.sell < 0 || cols.middle < 0 {
		return cols, &domain.ParseError{Reason: "required columns missing from rate table"}
	}
	return cols, nil
}

// parseRate parses one published rate value. The page uses thousands
// separators for large quotes ("2,330.12").
func parseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty rate value")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("rate must be positive, got %s", d)
	}
	return d, nil
}

func NewParser(supported []string, names map[string]string) *Parser {
	sup := make(map[string]struct{}, len(supported))
	for _, code := range supported {
		sup[strings.ToUpper(strings.TrimSpace(code))] = struct{}{}
	}
	byName := make(map[string]string, len(names))
	for code, name := range names {
		byName[name] = strings.ToUpper(code)
	}
	return &Parser{codeByName: byName, supported: sup}
}
