// Package pipeline runs the reconciliation core: resolve every raw record
// against the roster, fold the resolved ones into district, legislator, and
// recipient buckets, and account for everything that could not be placed.
//
// The whole pass is single-threaded and synchronous over data already in
// memory. Determinism is the binding constraint: the same records, roster,
// and alias store must produce identical buckets and identical counters on
// every run.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/openlegis/amendmap/pkg/aggregate"
	"github.com/openlegis/amendmap/pkg/alias"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/normalize"
	"github.com/openlegis/amendmap/pkg/record"
	"github.com/openlegis/amendmap/pkg/resolve"
	"github.com/openlegis/amendmap/pkg/roster"
)

// Result holds the three bucket kinds of one pass plus the run counters.
type Result struct {
	Districts   *aggregate.Totals
	Legislators *aggregate.Totals
	Recipients  *aggregate.Totals
	Counters    resolve.Counters

	// ResolvedSum is the exact sum of amounts over records that resolved to
	// a roster member; the district and legislator bucket sums must equal it.
	ResolvedSum string `json:"resolved_sum"`
}

// Run executes one reconciliation pass. records must be non-empty and idx
// non-nil; both conditions are fatal guards, checked here so no caller can
// aggregate thin air.
func Run(records []record.Raw, idx *roster.Index, store *alias.Store) (*Result, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, fmt.Errorf("%w: roster", errors.ErrMissingInput)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: refusing to aggregate empty input", errors.ErrEmptyFetch)
	}

	resolver := resolve.New(idx, store)

	// districtRecs and legislatorRecs are rewritten copies carrying the
	// canonical keys; the raw inputs are never mutated.
	var districtRecs, legislatorRecs, recipientRecs []record.Raw

	for _, rec := range records {
		if !rec.AmountSet || !rec.Resolvable() {
			resolver.CountMalformed()
			continue
		}

		if key := recipientKey(rec); key != "" {
			// Recipient aggregation needs no name resolution, so even
			// records whose sponsor stays unresolved contribute here.
			copyRec := rec
			copyRec.Recipient = key
			recipientRecs = append(recipientRecs, copyRec)
		}

		if strings.TrimSpace(rec.Sponsor) == "" {
			continue
		}

		res := resolver.Resolve(rec)
		if res.Status != resolve.StatusResolved {
			continue
		}

		districtKey := res.Member.District
		if districtKey == "" {
			districtKey = normalize.District(rec.District)
		}
		if districtKey != "" {
			copyRec := rec
			copyRec.District = districtKey
			districtRecs = append(districtRecs, copyRec)
		}

		copyRec := rec
		copyRec.Sponsor = res.Member.CanonicalName
		legislatorRecs = append(legislatorRecs, copyRec)
	}

	result := &Result{
		Districts: aggregate.Aggregate(districtRecs, func(r record.Raw) (string, bool) {
			return r.District, r.District != ""
		}),
		Legislators: aggregate.Aggregate(legislatorRecs, func(r record.Raw) (string, bool) {
			return r.Sponsor, r.Sponsor != ""
		}),
		Recipients: aggregate.Aggregate(recipientRecs, func(r record.Raw) (string, bool) {
			return r.Recipient, r.Recipient != ""
		}),
		Counters: resolver.Counters(),
	}
	result.ResolvedSum = result.Legislators.Sum().String()

	for _, b := range result.Districts.Buckets() {
		if m, ok := idx.ByDistrict(b.Key); ok {
			result.Districts.SetLabel(b.Key, m.CanonicalName)
		}
	}

	c := result.Counters
	logging.Info().
		Int("records", len(records)).
		Int("resolved_by_alias", c.ResolvedByAlias).
		Int("resolved_by_exact", c.ResolvedByExact).
		Int("resolved_by_heuristic", c.ResolvedByHeuristic).
		Int("ambiguous", c.Ambiguous).
		Int("unresolved", c.Unresolved).
		Int("malformed", c.Malformed).
		Msg("Reconciliation pass complete")

	return result, nil
}

// recipientKey picks the recipient bucket key for a record: the explicit
// recipient, falling back to the agency.
func recipientKey(rec record.Raw) string {
	if r := strings.TrimSpace(rec.Recipient); r != "" {
		return r
	}
	return strings.TrimSpace(rec.Agency)
}
