// Package resolve maps raw sponsor names onto canonical roster members.
//
// Resolution is deliberately rule-based, in a fixed order with first success
// winning: curated alias, exact normalized match, then a last-name plus
// first-initial heuristic. A last name shared by more than one distinct
// roster member is excluded from the heuristic entirely for the run;
// ambiguity is never resolved to "the first match".
package resolve

import (
	"github.com/openlegis/amendmap/pkg/alias"
	"github.com/openlegis/amendmap/pkg/normalize"
	"github.com/openlegis/amendmap/pkg/record"
	"github.com/openlegis/amendmap/pkg/roster"
)

// Rule identifies which resolution rule placed a record.
type Rule string

// Resolution rules, in the order they are attempted.
const (
	RuleAlias     Rule = "alias"
	RuleExact     Rule = "exact"
	RuleHeuristic Rule = "heuristic"
)

// Status classifies the outcome of resolving one record.
type Status int

// Resolution outcomes.
const (
	// StatusResolved means the record maps to exactly one roster member.
	StatusResolved Status = iota
	// StatusAmbiguous means the last name maps to multiple distinct members.
	StatusAmbiguous
	// StatusUnresolved means no rule produced a match.
	StatusUnresolved
)

// Result is the outcome of resolving one raw record.
type Result struct {
	Status Status
	Member *roster.Member // set only when Status == StatusResolved
	Rule   Rule           // set only when Status == StatusResolved
}

// Counters accumulates recoverable conditions across a run. They surface in
// the run summary as counts, never as errors.
type Counters struct {
	ResolvedByAlias     int `json:"resolved_by_alias"`
	ResolvedByExact     int `json:"resolved_by_exact"`
	ResolvedByHeuristic int `json:"resolved_by_heuristic"`
	Ambiguous           int `json:"ambiguous"`
	Unresolved          int `json:"unresolved"`
	Malformed           int `json:"malformed"`
}

// Resolver resolves raw records against an immutable roster index, consulting
// the alias store before any heuristic and recording failures to its ledger.
type Resolver struct {
	idx      *roster.Index
	aliases  *alias.Store
	counters Counters

	// ambiguousLast holds normalized last names carried by more than one
	// distinct roster member. Computed once at construction; the heuristic
	// never guesses among them.
	ambiguousLast map[string]bool
}

// New builds a resolver over a roster index and an alias store.
func New(idx *roster.Index, aliases *alias.Store) *Resolver {
	r := &Resolver{
		idx:           idx,
		aliases:       aliases,
		ambiguousLast: make(map[string]bool),
	}
	seen := make(map[string]string) // last name -> first canonical name seen
	for _, m := range idx.Members() {
		key := normalize.Name(m.CanonicalName)
		last := normalize.LastName(key)
		if prev, ok := seen[last]; ok && prev != key {
			r.ambiguousLast[last] = true
			continue
		}
		seen[last] = key
	}
	return r
}

// Resolve maps one raw record to a roster member. Unresolved and ambiguous
// sponsors are recorded to the unmatched ledger with enough context for
// curation; the record stays eligible for recipient/agency aggregation,
// which needs no name resolution.
func (r *Resolver) Resolve(rec record.Raw) Result {
	// Rule 1: curated alias, exact raw spelling.
	if canonical, ok := r.aliases.Lookup(rec.Sponsor); ok {
		if m, ok := r.idx.ByNormalizedName(normalize.Name(canonical)); ok {
			r.counters.ResolvedByAlias++
			return Result{Status: StatusResolved, Member: m, Rule: RuleAlias}
		}
		// Alias points at a name missing from this year's roster; fall
		// through to the remaining rules rather than failing the record.
	}

	key := normalize.Name(rec.Sponsor)
	if key == "" {
		r.recordUnmatched(rec)
		r.counters.Unresolved++
		return Result{Status: StatusUnresolved}
	}

	// Rule 2: exact normalized match.
	if m, ok := r.idx.ByNormalizedName(key); ok {
		r.counters.ResolvedByExact++
		return Result{Status: StatusResolved, Member: m, Rule: RuleExact}
	}

	// Rule 3: last name plus first initial.
	last := normalize.LastName(key)
	if r.ambiguousLast[last] {
		r.counters.Ambiguous++
		r.recordUnmatched(rec)
		return Result{Status: StatusAmbiguous}
	}

	if candidates := r.idx.ByLastName(last); len(candidates) > 0 {
		m := candidates[0]
		if firstNameCompatible(key, normalize.Name(m.CanonicalName)) {
			r.counters.ResolvedByHeuristic++
			return Result{Status: StatusResolved, Member: m, Rule: RuleHeuristic}
		}
	}

	r.counters.Unresolved++
	r.recordUnmatched(rec)
	return Result{Status: StatusUnresolved}
}

// Counters returns the run counters accumulated so far.
func (r *Resolver) Counters() Counters {
	return r.counters
}

// CountMalformed counts a record skipped before resolution.
func (r *Resolver) CountMalformed() {
	r.counters.Malformed++
}

func (r *Resolver) recordUnmatched(rec record.Raw) {
	r.aliases.RecordUnmatched(rec.Sponsor, alias.UnmatchedContext{
		Amount: rec.Amount,
		Year:   rec.Year,
		Source: rec.Source,
	})
}

// firstNameCompatible reports whether the raw key's first name is consistent
// with the candidate's: absent (surname-only raw), sharing the first initial,
// or equal outright.
func firstNameCompatible(rawKey, memberKey string) bool {
	rawFirst := normalize.FirstName(rawKey)
	if rawFirst == "" {
		return true
	}
	memberFirst := normalize.FirstName(memberKey)
	if memberFirst == "" {
		return false
	}
	if rawFirst == memberFirst {
		return true
	}
	return rawFirst[0] == memberFirst[0]
}
