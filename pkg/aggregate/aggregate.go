// Package aggregate folds resolved, amount-bearing records into keyed
// accumulators and layers independently-produced sidecar datasets onto them
// without double counting.
//
// Two laws bind everything here. Conservation: the sum of TotalAmount across
// the buckets of one pass equals the sum of the amounts folded in, exactly.
// Determinism: input order never changes totals, and bucket output is sorted
// by key ascending, so re-running the same input is byte-for-byte identical.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/openlegis/amendmap/pkg/record"
)

// KeyFunc extracts the bucket key for a record. Returning ok=false excludes
// the record from this bucket kind (an unresolved sponsor still aggregates
// by agency, for example).
type KeyFunc func(record.Raw) (key string, ok bool)

// Bucket is one keyed accumulator. AddAmount and ReduceAmount label amounts
// by sign; the source data does not always distinguish a real reduction from
// a negative correction, so they are best-effort labels. TotalAmount is the
// authoritative figure.
type Bucket struct {
	Key            string
	Label          string // optional display name (e.g. the delegate for a district key)
	TotalAmount    decimal.Decimal
	PositiveAmount decimal.Decimal
	NegativeAmount decimal.Decimal
	ItemCount      int
	sources        map[string]struct{}
	Sidecars       []Attachment
}

// Sources returns the provenance set sorted for deterministic output.
func (b *Bucket) Sources() []string {
	out := make([]string, 0, len(b.sources))
	for s := range b.sources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (b *Bucket) addSource(s string) {
	if s == "" {
		return
	}
	if b.sources == nil {
		b.sources = make(map[string]struct{})
	}
	b.sources[s] = struct{}{}
}

// add folds one amount into the bucket.
func (b *Bucket) add(amount decimal.Decimal, source string) {
	b.TotalAmount = b.TotalAmount.Add(amount)
	if amount.Sign() >= 0 {
		b.PositiveAmount = b.PositiveAmount.Add(amount)
	} else {
		b.NegativeAmount = b.NegativeAmount.Add(amount.Abs())
	}
	b.ItemCount++
	b.addSource(source)
}

// Totals is the result of one aggregation pass: one bucket per distinct key.
type Totals struct {
	buckets map[string]*Bucket
}

// New creates an empty Totals.
func New() *Totals {
	return &Totals{buckets: make(map[string]*Bucket)}
}

// Aggregate folds records into buckets in a single pass. Accumulation is
// addition only, so input order cannot affect the result.
func Aggregate(records []record.Raw, keyFn KeyFunc) *Totals {
	t := New()
	for _, rec := range records {
		key, ok := keyFn(rec)
		if !ok || key == "" {
			continue
		}
		t.bucket(key).add(rec.Amount, rec.Source)
	}
	return t
}

func (t *Totals) bucket(key string) *Bucket {
	b, ok := t.buckets[key]
	if !ok {
		b = &Bucket{Key: key}
		t.buckets[key] = b
	}
	return b
}

// Get returns the bucket for a key, if present.
func (t *Totals) Get(key string) (*Bucket, bool) {
	b, ok := t.buckets[key]
	return b, ok
}

// Len returns the number of distinct keys.
func (t *Totals) Len() int {
	return len(t.buckets)
}

// SetLabel attaches a display name to a bucket if it exists.
func (t *Totals) SetLabel(key, label string) {
	if b, ok := t.buckets[key]; ok {
		b.Label = label
	}
}

// Buckets returns every bucket sorted by key ascending. The order is the
// documented deterministic output order: key order survives amount changes
// between runs, which keeps artifact diffs reviewable.
func (t *Totals) Buckets() []*Bucket {
	out := make([]*Bucket, 0, len(t.buckets))
	for _, b := range t.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Sum returns the grand total of TotalAmount across all buckets. Used by the
// conservation checks and the run summary.
func (t *Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, b := range t.buckets {
		sum = sum.Add(b.TotalAmount)
	}
	return sum
}

// AmountByKey returns the key -> TotalAmount map the geometry merge stage
// consumes.
func (t *Totals) AmountByKey() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.buckets))
	for k, b := range t.buckets {
		out[k] = b.TotalAmount
	}
	return out
}
