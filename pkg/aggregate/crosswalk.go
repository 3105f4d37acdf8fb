package aggregate

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/normalize"
)

// Crosswalk maps locality names onto the district codes they overlap. Some
// sidecar sources report by locality rather than by district; the crosswalk
// re-keys those rows so they can attach to district buckets.
type Crosswalk map[string][]string

// LoadCrosswalk reads a JSON object {"locality": ["district", ...]}. District
// codes are normalized on the way in; locality names are matched
// case-insensitively after trimming.
func LoadCrosswalk(path string) (Crosswalk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var raw map[string][]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	cw := make(Crosswalk, len(raw))
	for locality, codes := range raw {
		key := strings.ToLower(strings.TrimSpace(locality))
		if key == "" {
			continue
		}
		normalized := make([]string, 0, len(codes))
		for _, c := range codes {
			if d := normalize.District(c); d != "" {
				normalized = append(normalized, d)
			}
		}
		cw[key] = normalized
	}
	return cw, nil
}

// Districts returns the district keys for a locality name, or nil when the
// locality is unknown.
func (cw Crosswalk) Districts(locality string) []string {
	return cw[strings.ToLower(strings.TrimSpace(locality))]
}

// Expand re-keys locality-keyed sidecar rows onto districts. A locality that
// spans several districts contributes its full amount to each of them, which
// is why expanded rows may only ever be attached as metadata, never folded
// into a primary total. Rows whose locality is not in the crosswalk are
// returned separately for diagnostics.
func (cw Crosswalk) Expand(rows []Row) (expanded []Row, unmapped []Row) {
	for _, row := range rows {
		districts := cw.Districts(row.Key)
		if len(districts) == 0 {
			unmapped = append(unmapped, row)
			continue
		}
		for _, d := range districts {
			expanded = append(expanded, Row{
				Key:    d,
				Label:  row.Label,
				Amount: row.Amount,
			})
		}
	}
	return expanded, unmapped
}
