package geometry

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/normalize"
)

// DefaultProperty is the numeric property injected into each feature.
const DefaultProperty = "budget_total"

// DefaultCandidates is the ordered list of property names searched for a
// district-like value. First present, non-empty property wins.
var DefaultCandidates = []string{
	"district", "District", "DISTRICT",
	"district_number", "districtNumber",
	"DIST", "dist",
	"name", "Name", "NAME",
	"label",
}

// Options configures a merge.
type Options struct {
	// Property is the name of the injected numeric property.
	Property string
	// Candidates is the ordered district-property search list.
	Candidates []string
	// SampleSize bounds the unmatched sample kept in diagnostics.
	SampleSize int
}

// Option mutates merge Options.
type Option func(*Options)

// WithProperty sets the name of the injected property.
func WithProperty(name string) Option {
	return func(o *Options) { o.Property = name }
}

// WithCandidates replaces the district-property search list.
func WithCandidates(names ...string) Option {
	return func(o *Options) { o.Candidates = names }
}

// defaults returns merge options with every Option applied.
func defaults(opts ...Option) Options {
	o := Options{
		Property:   DefaultProperty,
		Candidates: DefaultCandidates,
		SampleSize: constants.UnmatchedSampleSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Diagnostics reports how a merge went. Regenerated every run and published
// next to the merged geometry; never persisted across runs.
type Diagnostics struct {
	MatchedFeatures      int      `json:"matched_features"`
	UnmatchedFeatures    int      `json:"unmatched_features"`
	DuplicateKeyFeatures int      `json:"duplicate_key_features"`
	UnmatchedTotalKeys   int      `json:"unmatched_total_keys"`
	InjectedSum          string   `json:"injected_sum"`
	UnmatchedSample      []string `json:"unmatched_sample,omitempty"`
}

// Merge attaches district totals onto features in place and returns
// diagnostics. Every feature survives: a hit receives its total, a miss
// receives zero and lands in the bounded unmatched sample. When several
// features normalize to the same key (rare), each receives the full total;
// the duplication is counted, never split.
//
// Conservation: each matched total enters injected_sum once per feature that
// carries its key, so with duplicate-key features injected_sum exceeds the
// matched totals by exactly the duplicated amounts, and duplicate_key_features
// says how many. Totals whose key no feature carries are dropped from the
// geometry sum (and counted), never invented onto some other feature.
func Merge(fc *FeatureCollection, totals map[string]decimal.Decimal, opts ...Option) Diagnostics {
	o := defaults(opts...)

	diag := Diagnostics{}
	matchedKeys := make(map[string]int)
	injected := decimal.Zero

	for _, f := range fc.Features {
		if f.Properties == nil {
			f.Properties = make(map[string]any)
		}

		key := districtKey(f, o.Candidates)
		total, ok := totals[key]
		if key == "" || !ok {
			f.Properties[o.Property] = json.Number("0")
			diag.UnmatchedFeatures++
			if len(diag.UnmatchedSample) < o.SampleSize {
				diag.UnmatchedSample = append(diag.UnmatchedSample, describeFeature(f, key))
			}
			continue
		}

		f.Properties[o.Property] = json.Number(total.String())
		injected = injected.Add(total)
		diag.MatchedFeatures++
		matchedKeys[key]++
		if matchedKeys[key] > 1 {
			diag.DuplicateKeyFeatures++
		}
	}

	for key := range totals {
		if matchedKeys[key] == 0 {
			diag.UnmatchedTotalKeys++
		}
	}

	diag.InjectedSum = injected.String()
	return diag
}

// districtKey extracts and normalizes the district identity of a feature.
func districtKey(f *Feature, candidates []string) string {
	for _, name := range candidates {
		v, ok := f.Properties[name]
		if !ok || v == nil {
			continue
		}
		if key := normalize.District(v); key != "" {
			return key
		}
	}
	return ""
}

// describeFeature renders a short identity string for the unmatched sample.
func describeFeature(f *Feature, key string) string {
	if key != "" {
		return key
	}
	if f.ID != nil {
		return fmt.Sprintf("feature id=%v", f.ID)
	}
	return fmt.Sprintf("feature with properties %v", propertyNames(f.Properties))
}

func propertyNames(props map[string]any) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
