// Package scrape implements the rendered-page fallback provider. When the
// amendments API is down, the member-request listing is usually still served
// as a plain HTML table; this provider parses it.
package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/openlegis/amendmap/internal/transport"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/record"
)

// SourceTag is the provenance tag stamped on records from this provider.
const SourceTag = "legislative-system-scrape"

// Provider parses budget amendments out of the server-rendered HTML listing.
type Provider struct {
	endpoint  string
	transport *transport.Client
}

// New creates the scrape provider for a listing URL containing a %d year slot.
func New(endpoint string) *Provider {
	return &Provider{
		endpoint:  endpoint,
		transport: transport.New(""),
	}
}

// ID implements sources.Provider.
func (p *Provider) ID() string { return "scrape" }

// Fetch downloads the listing page for a year and extracts the amendments
// table. A page without the table is a provider failure, so the chain falls
// through instead of publishing an empty run.
func (p *Provider) Fetch(ctx context.Context, year int) ([]record.Raw, error) {
	url := fmt.Sprintf(p.endpoint, year)
	body, err := p.transport.Get(ctx, url)
	if err != nil {
		return nil, errors.NewSourceError(p.ID(), "fetch listing", err)
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.WrapParse("html", url, err)
	}

	records := p.extract(doc, year)
	if len(records) == 0 {
		return nil, errors.NewSourceError(p.ID(), "amendments table not found", nil)
	}

	logging.Debug().
		Int("year", year).
		Int("records", len(records)).
		Msg("Scrape extracted amendments")
	return records, nil
}

// extract walks each table row and maps its cells onto a record. The listing
// column order has been stable for years: patron, district, amount, title.
func (p *Provider) extract(doc *goquery.Document, year int) []record.Raw {
	var out []record.Raw

	doc.Find("table.amendments tr, table#amendments tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return // header or separator row
		}

		sponsor := strings.TrimSpace(cells.Eq(0).Text())
		district := strings.TrimSpace(cells.Eq(1).Text())
		amountText := strings.TrimSpace(cells.Eq(2).Text())
		title := ""
		if cells.Length() > 3 {
			title = strings.TrimSpace(cells.Eq(3).Text())
		}

		amount, ok := parseDollars(amountText)
		if !ok {
			return // skip rows without a usable amount
		}

		out = append(out, record.Raw{
			Sponsor:   sponsor,
			District:  district,
			Amount:    amount,
			Title:     title,
			Year:      year,
			Source:    SourceTag,
			AmountSet: true,
		})
	})
	return out
}
