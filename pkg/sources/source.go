// Package sources defines the capability interface for raw-record providers
// and the ordered fallback chain the pipeline acquires its input through.
//
// Providers are unequal: a live API beats a rendered scrape beats a manual
// file drop beats the last known-good snapshot. The chain tries them in
// order with a per-provider timeout and hands the pipeline exactly one
// record set for the run, or fails outright. The pipeline places no ordering
// or timeout requirements on how that set was produced; it only refuses to
// aggregate an empty one.
package sources

import (
	"context"

	"github.com/openlegis/amendmap/pkg/record"
)

// Provider is one way of obtaining the raw amendment records for a year.
type Provider interface {
	// ID identifies the provider in logs and run summaries.
	ID() string

	// Fetch retrieves the raw records for a year. Implementations must
	// honor ctx cancellation; the chain cancels a provider on timeout
	// before falling through to the next one.
	Fetch(ctx context.Context, year int) ([]record.Raw, error)
}

// State tracks a chain execution through its small state machine.
type State string

// Chain states.
const (
	StateAttempting State = "attempting"
	StateSucceeded  State = "succeeded"
	StateExhausted  State = "exhausted"
)
