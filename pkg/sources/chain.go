package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/record"
)

// Attempt records how one provider fared during a chain execution.
type Attempt struct {
	Provider string        `json:"provider"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Outcome describes a finished chain execution for the run summary.
type Outcome struct {
	State     State     `json:"state"`
	Succeeded string    `json:"succeeded,omitempty"`
	Attempts  []Attempt `json:"attempts"`
}

// Chain is an ordered list of providers executed first-success-wins.
type Chain struct {
	providers []Provider
	timeout   time.Duration
}

// Option configures a Chain.
type Option func(*Chain)

// WithTimeout sets the per-provider timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Chain) { c.timeout = d }
}

// NewChain creates a fallback chain over providers, tried in the given order.
func NewChain(providers []Provider, opts ...Option) *Chain {
	c := &Chain{
		providers: providers,
		timeout:   constants.ProviderFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch walks the chain until a provider returns a non-empty record set.
// A provider error or an empty result both fall through; the chain only
// fails once every provider has been exhausted, which the caller must treat
// as fatal before aggregation.
func (c *Chain) Fetch(ctx context.Context, year int) ([]record.Raw, *Outcome, error) {
	outcome := &Outcome{State: StateAttempting}

	for _, p := range c.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		records, err := p.Fetch(attemptCtx, year)
		cancel()

		attempt := Attempt{
			Provider: p.ID(),
			Records:  len(records),
			Duration: time.Since(start),
		}

		switch {
		case err != nil:
			attempt.Error = err.Error()
			logging.Warn().
				Str("provider", p.ID()).
				Err(err).
				Msg("Provider failed, falling through")
		case len(records) == 0:
			attempt.Error = "no records"
			logging.Warn().
				Str("provider", p.ID()).
				Int("year", year).
				Msg("Provider returned no records, falling through")
		default:
			outcome.Attempts = append(outcome.Attempts, attempt)
			outcome.State = StateSucceeded
			outcome.Succeeded = p.ID()
			logging.Info().
				Str("provider", p.ID()).
				Int("records", len(records)).
				Msg("Acquisition succeeded")
			return records, outcome, nil
		}
		outcome.Attempts = append(outcome.Attempts, attempt)

		if ctx.Err() != nil {
			break
		}
	}

	outcome.State = StateExhausted
	return nil, outcome, fmt.Errorf("%w after %d attempts", errors.ErrExhausted, len(outcome.Attempts))
}
