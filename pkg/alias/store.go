// Package alias persists the mapping from raw observed sponsor names to
// canonical roster names, together with the append-only ledger of names no
// heuristic could place. The alias map and the ledger are the only state
// that survives and grows across runs; everything else in the pipeline is
// stateless per run.
package alias

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds the alias map and the unmatched ledger for one run. It is not
// safe for concurrent use; the pipeline is a single synchronous pass.
type Store struct {
	aliases   map[string]string
	unmatched map[string]LedgerEntry // keyed by raw name for dedupe
	added     int                    // aliases added since load
}

// UnmatchedContext carries enough of the offending record for a human to
// curate an alias later.
type UnmatchedContext struct {
	Amount decimal.Decimal
	Year   int
	Source string
}

// LedgerEntry is one unmatched raw name retained for human review. Entries
// are never silently discarded; an empty ledger is the release gate.
type LedgerEntry struct {
	ReferenceID string          `json:"reference_id"`
	RawName     string          `json:"raw_name"`
	Amount      decimal.Decimal `json:"amount"`
	Year        int             `json:"year,omitempty"`
	Source      string          `json:"source,omitempty"`
	Occurrences int             `json:"occurrences"`
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		aliases:   make(map[string]string),
		unmatched: make(map[string]LedgerEntry),
	}
}

// Lookup returns the canonical name previously recorded for a raw name.
// Raw names are compared after trimming only: aliases map the exact spelling
// a source emits, so curation stays reviewable against the source.
func (s *Store) Lookup(rawName string) (string, bool) {
	canonical, ok := s.aliases[strings.TrimSpace(rawName)]
	return canonical, ok
}

// Merge adds alias entries that do not already exist. Existing entries are
// never overwritten: the first recorded mapping wins, so an automated pass
// can never silently correct an alias a human curated. This is a deliberate
// policy, not an optimization.
func (s *Store) Merge(newAliases map[string]string) int {
	added := 0
	for raw, canonical := range newAliases {
		raw = strings.TrimSpace(raw)
		canonical = strings.TrimSpace(canonical)
		if raw == "" || canonical == "" {
			continue
		}
		if _, exists := s.aliases[raw]; exists {
			continue
		}
		s.aliases[raw] = canonical
		added++
	}
	s.added += added
	return added
}

// RecordUnmatched appends a raw name to the unmatched ledger. The append is
// idempotent per raw name: repeat sightings bump the occurrence count and
// accumulate the amount instead of duplicating the entry.
func (s *Store) RecordUnmatched(rawName string, ctx UnmatchedContext) {
	rawName = strings.TrimSpace(rawName)
	if rawName == "" {
		return
	}
	if entry, ok := s.unmatched[rawName]; ok {
		entry.Occurrences++
		entry.Amount = entry.Amount.Add(ctx.Amount)
		s.unmatched[rawName] = entry
		return
	}
	s.unmatched[rawName] = LedgerEntry{
		ReferenceID: uuid.NewString(),
		RawName:     rawName,
		Amount:      ctx.Amount,
		Year:        ctx.Year,
		Source:      ctx.Source,
		Occurrences: 1,
	}
}

// SeedUnmatched merges a previously published ledger into the store, so an
// entry survives runs whose input no longer contains the offending record.
// Merging is by raw name; the earlier entry keeps its reference id and later
// sightings fold into its occurrence count and amount.
func (s *Store) SeedUnmatched(entries []LedgerEntry) {
	for _, e := range entries {
		name := strings.TrimSpace(e.RawName)
		if name == "" {
			continue
		}
		if existing, ok := s.unmatched[name]; ok {
			existing.Occurrences += e.Occurrences
			existing.Amount = existing.Amount.Add(e.Amount)
			s.unmatched[name] = existing
			continue
		}
		e.RawName = name
		s.unmatched[name] = e
	}
}

// Aliases returns a copy of the alias map.
func (s *Store) Aliases() map[string]string {
	out := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}
	return out
}

// Added returns how many aliases this run added beyond the loaded set.
func (s *Store) Added() int {
	return s.added
}

// Unmatched returns the ledger sorted by raw name for deterministic output.
func (s *Store) Unmatched() []LedgerEntry {
	out := make([]LedgerEntry, 0, len(s.unmatched))
	for _, e := range s.unmatched {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RawName < out[j].RawName })
	return out
}

// UnmatchedCount returns how many distinct raw names are in the ledger.
func (s *Store) UnmatchedCount() int {
	return len(s.unmatched)
}
