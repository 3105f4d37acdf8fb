package pipeline_test

import (
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlegis/amendmap/internal/pipeline"
	"github.com/openlegis/amendmap/pkg/alias"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/record"
	"github.com/openlegis/amendmap/pkg/roster"
)

func TestMain(m *testing.M) {
	// Every pass logs its counter summary; keep test output readable.
	logging.SetDefault(logging.Nop)
	os.Exit(m.Run())
}

func testRoster() *roster.Index {
	return roster.NewIndex([]roster.Member{
		{CanonicalName: "Creigh Deeds", District: "HD-25"},
		{CanonicalName: "Luke Torian", District: "52"},
		{CanonicalName: "David Jordan", District: "14"},
		{CanonicalName: "Michael Jordan", District: "77"},
	})
}

func raw(sponsor string, amount int64) record.Raw {
	return record.Raw{
		Sponsor:   sponsor,
		Amount:    decimal.NewFromInt(amount),
		Year:      2024,
		Source:    "legislative-system",
		AmountSet: true,
	}
}

func TestRunDeedsScenario(t *testing.T) {
	// Sponsor "Deeds", no district on the record, roster
	// carries HD-25. The bucket lands on canonical key "25".
	records := []record.Raw{raw("Deeds", 500000)}

	res, err := pipeline.Run(records, testRoster(), alias.NewStore())
	require.NoError(t, err)

	b, ok := res.Districts.Get("25")
	require.True(t, ok)
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, 1, b.ItemCount)
	assert.Equal(t, "Creigh Deeds", b.Label)
}

func TestRunConservationAcrossBucketKinds(t *testing.T) {
	records := []record.Raw{
		raw("Creigh Deeds", 120000),
		raw("Deeds, Creigh", -20000),
		raw("Luke Torian", 300000),
		raw("Jordan", 999999), // ambiguous: excluded from name-keyed buckets
	}

	res, err := pipeline.Run(records, testRoster(), alias.NewStore())
	require.NoError(t, err)

	resolved := decimal.NewFromInt(400000)
	assert.True(t, res.Legislators.Sum().Equal(resolved), "legislator sum == resolved records sum")
	assert.True(t, res.Districts.Sum().Equal(resolved), "district sum == resolved records sum")

	assert.Equal(t, 1, res.Counters.Ambiguous)
	assert.Equal(t, "400000", res.ResolvedSum)
}

func TestRunAmbiguousSponsorExcludedButLedgered(t *testing.T) {
	store := alias.NewStore()
	records := []record.Raw{raw("Jordan", 500000)}

	res, err := pipeline.Run(records, testRoster(), store)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Legislators.Len())
	assert.Equal(t, 0, res.Districts.Len())
	require.Equal(t, 1, store.UnmatchedCount())
	assert.Equal(t, "Jordan", store.Unmatched()[0].RawName)
}

func TestRunUnresolvedStillAggregatesByRecipient(t *testing.T) {
	rec := raw("Unknown Person", 75000)
	rec.Agency = "Dept of Health"

	res, err := pipeline.Run([]record.Raw{rec}, testRoster(), alias.NewStore())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Legislators.Len())
	b, ok := res.Recipients.Get("Dept of Health")
	require.True(t, ok)
	assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(75000)))
}

func TestRunMalformedRecordsSkippedAndCounted(t *testing.T) {
	noAmount := record.Raw{Sponsor: "Creigh Deeds", Year: 2024}
	noNames := record.Raw{Amount: decimal.NewFromInt(5), AmountSet: true}

	res, err := pipeline.Run([]record.Raw{noAmount, noNames, raw("Deeds", 1)}, testRoster(), alias.NewStore())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Counters.Malformed)
	assert.Equal(t, 1, res.Legislators.Len())
}

func TestRunFatalGuards(t *testing.T) {
	_, err := pipeline.Run(nil, testRoster(), alias.NewStore())
	assert.ErrorIs(t, err, errors.ErrEmptyFetch)

	_, err = pipeline.Run([]record.Raw{raw("Deeds", 1)}, nil, alias.NewStore())
	assert.ErrorIs(t, err, errors.ErrMissingInput)
}

func TestRunIdempotent(t *testing.T) {
	records := []record.Raw{
		raw("Creigh Deeds", 120000),
		raw("Luke Torian", 300000),
		raw("Torian", -5000),
	}

	first, err := pipeline.Run(records, testRoster(), alias.NewStore())
	require.NoError(t, err)
	second, err := pipeline.Run(records, testRoster(), alias.NewStore())
	require.NoError(t, err)

	fb, sb := first.Districts.Buckets(), second.Districts.Buckets()
	require.Equal(t, len(fb), len(sb))
	for i := range fb {
		assert.Equal(t, fb[i].Key, sb[i].Key)
		assert.True(t, fb[i].TotalAmount.Equal(sb[i].TotalAmount))
		assert.Equal(t, fb[i].ItemCount, sb[i].ItemCount)
	}
	assert.Equal(t, first.Counters, second.Counters)
}
