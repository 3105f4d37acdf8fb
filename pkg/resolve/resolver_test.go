package resolve_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlegis/amendmap/pkg/alias"
	"github.com/openlegis/amendmap/pkg/record"
	"github.com/openlegis/amendmap/pkg/resolve"
	"github.com/openlegis/amendmap/pkg/roster"
)

func testIndex() *roster.Index {
	return roster.NewIndex([]roster.Member{
		{CanonicalName: "Creigh Deeds", District: "SD-25", Chamber: roster.ChamberUpper},
		{CanonicalName: "Luke Torian", District: "52"},
		{CanonicalName: "David Jordan", District: "14"},
		{CanonicalName: "Michael Jordan", District: "77"},
	})
}

func rawSponsor(name string) record.Raw {
	return record.Raw{
		Sponsor:   name,
		Amount:    decimal.NewFromInt(500000),
		Year:      2024,
		Source:    "legislative-system",
		AmountSet: true,
	}
}

func TestResolveAliasWinsFirst(t *testing.T) {
	store := alias.NewStore()
	// Curation maps a spelling the heuristic would mis-handle.
	store.Merge(map[string]string{"Jordan (Dist. 14)": "David Jordan"})
	r := resolve.New(testIndex(), store)

	res := r.Resolve(rawSponsor("Jordan (Dist. 14)"))
	require.Equal(t, resolve.StatusResolved, res.Status)
	assert.Equal(t, resolve.RuleAlias, res.Rule)
	assert.Equal(t, "David Jordan", res.Member.CanonicalName)
	assert.Equal(t, 1, r.Counters().ResolvedByAlias)
}

func TestResolveExactNormalizedMatch(t *testing.T) {
	r := resolve.New(testIndex(), alias.NewStore())

	for _, raw := range []string{"Creigh Deeds", "Deeds, Creigh", "Sen. Creigh Deeds"} {
		res := r.Resolve(rawSponsor(raw))
		require.Equal(t, resolve.StatusResolved, res.Status, "raw=%q", raw)
		assert.Equal(t, resolve.RuleExact, res.Rule)
		assert.Equal(t, "Creigh Deeds", res.Member.CanonicalName)
	}
}

func TestResolveLastNameHeuristic(t *testing.T) {
	r := resolve.New(testIndex(), alias.NewStore())

	// Surname only, single candidate: resolves.
	res := r.Resolve(rawSponsor("Deeds"))
	require.Equal(t, resolve.StatusResolved, res.Status)
	assert.Equal(t, resolve.RuleHeuristic, res.Rule)
	assert.Equal(t, "25", res.Member.District)

	// First initial agreeing with the single candidate: resolves.
	res = r.Resolve(rawSponsor("C. Deeds"))
	require.Equal(t, resolve.StatusResolved, res.Status)

	// First initial contradicting the single candidate: unresolved.
	res = r.Resolve(rawSponsor("Z. Deeds"))
	assert.Equal(t, resolve.StatusUnresolved, res.Status)
}

func TestResolveAmbiguousLastNameGuessesNeither(t *testing.T) {
	store := alias.NewStore()
	r := resolve.New(testIndex(), store)

	// Two Jordans on the roster: a bare "Jordan" must resolve to neither and
	// must land in the unmatched ledger.
	res := r.Resolve(rawSponsor("Jordan"))
	assert.Equal(t, resolve.StatusAmbiguous, res.Status)
	assert.Nil(t, res.Member)
	assert.Equal(t, 1, r.Counters().Ambiguous)

	entries := store.Unmatched()
	require.Len(t, entries, 1)
	assert.Equal(t, "Jordan", entries[0].RawName)

	// The exclusion covers the whole last name: even an initial that would
	// single out one member is not guessed.
	res = r.Resolve(rawSponsor("D. Jordan"))
	assert.Equal(t, resolve.StatusAmbiguous, res.Status)
}

func TestResolveUnresolvedGoesToLedger(t *testing.T) {
	store := alias.NewStore()
	r := resolve.New(testIndex(), store)

	res := r.Resolve(rawSponsor("Committee Substitute"))
	assert.Equal(t, resolve.StatusUnresolved, res.Status)
	require.Equal(t, 1, store.UnmatchedCount())

	entry := store.Unmatched()[0]
	assert.Equal(t, "Committee Substitute", entry.RawName)
	assert.True(t, entry.Amount.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, 2024, entry.Year)
	assert.Equal(t, "legislative-system", entry.Source)
}

func TestResolveAliasToDepartedMemberFallsThrough(t *testing.T) {
	store := alias.NewStore()
	store.Merge(map[string]string{"Deeds, C.": "Retired Member"})
	r := resolve.New(testIndex(), store)

	// The alias target left the roster; the normalized spelling still
	// matches, so the record is not lost.
	res := r.Resolve(rawSponsor("Deeds, C."))
	require.Equal(t, resolve.StatusResolved, res.Status)
	assert.Equal(t, resolve.RuleHeuristic, res.Rule)
	assert.Equal(t, "Creigh Deeds", res.Member.CanonicalName)
}

func TestResolveFullFirstNameBeatsInitial(t *testing.T) {
	r := resolve.New(testIndex(), alias.NewStore())

	res := r.Resolve(rawSponsor("Luke E. Torian"))
	require.Equal(t, resolve.StatusResolved, res.Status)
	assert.Equal(t, resolve.RuleHeuristic, res.Rule)
	assert.Equal(t, "Luke Torian", res.Member.CanonicalName)
}
