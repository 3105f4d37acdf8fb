package aggregate

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openlegis/amendmap/pkg/errors"
)

// Row is one entry of a sidecar dataset, already keyed by the same entity
// kind as the buckets it will be layered onto.
type Row struct {
	Key    string          `json:"key"`
	Label  string          `json:"label,omitempty"`
	Amount decimal.Decimal `json:"amount"`
}

// Attachment is a sidecar dataset's contribution to one bucket, attached
// side-by-side rather than summed into the primary total.
type Attachment struct {
	Source    string          `json:"source"`
	Total     decimal.Decimal `json:"total"`
	Breakdown []Row           `json:"breakdown,omitempty"`
}

// LoadRows reads a sidecar dataset from a JSON array of rows. Keys are
// trimmed but otherwise left alone; callers re-key district-keyed datasets
// through the district normalizer before attaching.
func LoadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	out := rows[:0]
	for _, row := range rows {
		row.Key = strings.TrimSpace(row.Key)
		if row.Key == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// AttachSidecar layers an independently-produced dataset onto the buckets.
//
// The default treats the sidecar as overlapping provenance: its per-key total
// and breakdown attach as metadata and its name joins the bucket's source
// set, but nothing is added to TotalAmount. Only datasets proven disjoint by
// construction (the GF and NGF legs of the same amendments) may pass
// disjoint=true, which folds rows in as primary amounts instead.
//
// Keys present only in the sidecar still get a bucket, with a zero primary
// total, so sidecar-only recipients remain visible in the rollup.
func (t *Totals) AttachSidecar(source string, rows []Row, disjoint bool) {
	if disjoint {
		for _, row := range rows {
			if row.Key == "" {
				continue
			}
			b := t.bucket(row.Key)
			if b.Label == "" {
				b.Label = row.Label
			}
			b.add(row.Amount, source)
		}
		return
	}

	// Group rows per key first so each bucket gets one attachment per source.
	byKey := make(map[string][]Row)
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		byKey[row.Key] = append(byKey[row.Key], row)
	}

	for key, group := range byKey {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Label != group[j].Label {
				return group[i].Label < group[j].Label
			}
			return group[i].Amount.Cmp(group[j].Amount) < 0
		})

		total := decimal.Zero
		for _, row := range group {
			total = total.Add(row.Amount)
		}

		b := t.bucket(key)
		if b.Label == "" && len(group) > 0 {
			b.Label = group[0].Label
		}
		b.addSource(source)
		b.Sidecars = append(b.Sidecars, Attachment{
			Source:    source,
			Total:     total,
			Breakdown: group,
		})
		sort.Slice(b.Sidecars, func(i, j int) bool { return b.Sidecars[i].Source < b.Sidecars[j].Source })
	}
}
