// Package lis implements the live legislative-system API provider, the head
// of the acquisition fallback chain.
package lis

import (
	"context"
	"fmt"
	"sync"

	"github.com/openlegis/amendmap/internal/transport"
	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/record"
)

// SourceTag is the provenance tag stamped on records from this provider.
const SourceTag = "legislative-system"

// page is the API's paged amendments response.
type page struct {
	Amendments []record.Raw `json:"amendments"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

// Provider fetches budget amendments from the legislative system's JSON API.
type Provider struct {
	endpoint  string
	transport *transport.Client
}

// New creates the live API provider. apiKey may be empty; the amendments
// endpoint is public, but some mirrors require a token.
func New(endpoint, apiKey string) *Provider {
	return &Provider{
		endpoint:  endpoint,
		transport: transport.New(apiKey),
	}
}

// ID implements sources.Provider.
func (p *Provider) ID() string { return "lis" }

// Fetch retrieves every page of amendments for a year. Page one is fetched
// alone to learn the page count; the rest run through a small worker pool so
// at most constants.MaxInflightFetches requests are in flight.
func (p *Provider) Fetch(ctx context.Context, year int) ([]record.Raw, error) {
	first, err := p.fetchPage(ctx, year, 1)
	if err != nil {
		return nil, errors.NewSourceError(p.ID(), "first page", err)
	}
	if first.TotalPages < 0 {
		return nil, errors.NewSourceError(p.ID(),
			fmt.Sprintf("response reports %d total pages", first.TotalPages), nil)
	}

	// A zero page count means the endpoint does not paginate.
	pages := []page{*first}
	if first.TotalPages > 1 {
		pages = make([]page, first.TotalPages)
		pages[0] = *first
		if err := p.fetchRemaining(ctx, year, pages); err != nil {
			return nil, errors.NewSourceError(p.ID(), "paging", err)
		}
	}

	var out []record.Raw
	for _, pg := range pages {
		out = append(out, pg.Amendments...)
	}
	for i := range out {
		if out[i].Source == "" {
			out[i].Source = SourceTag
		}
		if out[i].Year == 0 {
			out[i].Year = year
		}
	}

	logging.Debug().
		Int("year", year).
		Int("pages", len(pages)).
		Int("records", len(out)).
		Msg("LIS fetch complete")
	return out, nil
}

// fetchRemaining fills pages[1:] with a bounded worker pool. Results land at
// their page index, so output order stays deterministic regardless of which
// request finished first.
func (p *Provider) fetchRemaining(ctx context.Context, year int, pages []page) error {
	sem := make(chan struct{}, constants.MaxInflightFetches)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var firstErr error

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for n := 2; n <= len(pages); n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			pg, err := p.fetchPage(ctx, year, n)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("page %d: %w", n, err)
				}
				mu.Unlock()
				cancel()
				return
			}
			pages[n-1] = *pg
		}(n)
	}

	wg.Wait()
	return firstErr
}

func (p *Provider) fetchPage(ctx context.Context, year, n int) (*page, error) {
	url := fmt.Sprintf("%s?year=%d&page=%d", p.endpoint, year, n)
	var pg page
	if err := p.transport.GetJSON(ctx, url, &pg); err != nil {
		return nil, err
	}
	return &pg, nil
}
