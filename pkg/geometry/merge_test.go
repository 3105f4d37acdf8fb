package geometry_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlegis/amendmap/pkg/geometry"
)

func feature(props map[string]any) *geometry.Feature {
	return &geometry.Feature{
		Type:       "Feature",
		Properties: props,
		Geometry:   json.RawMessage(`{"type":"Polygon","coordinates":[]}`),
	}
}

func collection(features ...*geometry.Feature) *geometry.FeatureCollection {
	return &geometry.FeatureCollection{Type: "FeatureCollection", Features: features}
}

func totals(m map[string]int64) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = decimal.NewFromInt(v)
	}
	return out
}

func TestMergeMatchesNormalizedKeys(t *testing.T) {
	fc := collection(
		feature(map[string]any{"district": "HD-07"}),
		feature(map[string]any{"DISTRICT": float64(25)}), // GeoJSON numbers decode as float64
		feature(map[string]any{"name": "District 52"}),
	)

	diag := geometry.Merge(fc, totals(map[string]int64{"7": 100, "25": 250, "52": 520}))

	assert.Equal(t, 3, diag.MatchedFeatures)
	assert.Equal(t, 0, diag.UnmatchedFeatures)
	assert.Equal(t, json.Number("100"), fc.Features[0].Properties["budget_total"])
	assert.Equal(t, json.Number("250"), fc.Features[1].Properties["budget_total"])
	assert.Equal(t, json.Number("520"), fc.Features[2].Properties["budget_total"])
	assert.Equal(t, "870", diag.InjectedSum)
}

func TestMergeMissGetsZeroAndDiagnostics(t *testing.T) {
	fc := collection(
		feature(map[string]any{"district": "7"}),
		feature(map[string]any{"district": "99"}),
		feature(map[string]any{"unrelated": true}),
	)

	diag := geometry.Merge(fc, totals(map[string]int64{"7": 100}))

	assert.Equal(t, 1, diag.MatchedFeatures)
	assert.Equal(t, 2, diag.UnmatchedFeatures)
	assert.Len(t, diag.UnmatchedSample, 2)
	assert.Equal(t, json.Number("0"), fc.Features[1].Properties["budget_total"])
	assert.Equal(t, json.Number("0"), fc.Features[2].Properties["budget_total"])

	// Features are never created or destroyed.
	assert.Len(t, fc.Features, 3)
}

func TestMergeConservation(t *testing.T) {
	fc := collection(
		feature(map[string]any{"district": "7"}),
		feature(map[string]any{"district": "25"}),
	)
	in := totals(map[string]int64{"7": 100, "25": 250, "99": 400})

	diag := geometry.Merge(fc, in)

	// Unmatched totals are dropped from the geometry sum, not invented.
	assert.Equal(t, "350", diag.InjectedSum)
	assert.Equal(t, 1, diag.UnmatchedTotalKeys)
}

func TestMergeAllUnmatched(t *testing.T) {
	fc := collection(feature(map[string]any{"district": "1"}))
	diag := geometry.Merge(fc, totals(map[string]int64{"99": 400}))

	assert.Equal(t, 0, diag.MatchedFeatures)
	assert.Equal(t, "0", diag.InjectedSum)
	assert.Equal(t, 1, diag.UnmatchedTotalKeys)
}

func TestMergeDuplicateKeyGetsFullTotalEach(t *testing.T) {
	// Two features normalize to the same district (split shapes). Each gets
	// the full total; the duplication is counted, never split.
	fc := collection(
		feature(map[string]any{"district": "HD-07"}),
		feature(map[string]any{"district": "7"}),
	)

	diag := geometry.Merge(fc, totals(map[string]int64{"7": 100}))

	assert.Equal(t, json.Number("100"), fc.Features[0].Properties["budget_total"])
	assert.Equal(t, json.Number("100"), fc.Features[1].Properties["budget_total"])
	assert.Equal(t, 1, diag.DuplicateKeyFeatures)
	assert.Equal(t, "200", diag.InjectedSum)
}

func TestMergeSampleIsBounded(t *testing.T) {
	var features []*geometry.Feature
	for i := 0; i < 50; i++ {
		features = append(features, feature(map[string]any{"district": "UNKNOWN"}))
	}
	diag := geometry.Merge(collection(features...), totals(nil))

	assert.Equal(t, 50, diag.UnmatchedFeatures)
	assert.LessOrEqual(t, len(diag.UnmatchedSample), 10)
}

func TestMergeCustomPropertyAndCandidates(t *testing.T) {
	fc := collection(feature(map[string]any{"SLDL_DIST": "007"}))
	diag := geometry.Merge(fc, totals(map[string]int64{"7": 42}),
		geometry.WithCandidates("SLDL_DIST"),
		geometry.WithProperty("amendment_total"),
	)

	require.Equal(t, 1, diag.MatchedFeatures)
	assert.Equal(t, json.Number("42"), fc.Features[0].Properties["amendment_total"])
}
