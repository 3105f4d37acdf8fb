package artifact

import (
	"encoding/json"
	"strconv"

	"github.com/openlegis/amendmap/pkg/aggregate"
	"github.com/openlegis/amendmap/pkg/roster"
)

// Row is one rollup entry. The same shape serves the district, legislator,
// and recipient rollups; unused key fields stay empty and are omitted.
// Amounts render as JSON numbers via json.Number so the dashboard never
// parses quoted decimals.
type Row struct {
	District     string       `json:"district,omitempty"`
	DelegateName string       `json:"delegate_name,omitempty"`
	Recipient    string       `json:"recipient,omitempty"`
	TotalAmount  json.Number  `json:"total_amount"`
	AddAmount    json.Number  `json:"add_amount"`
	ReduceAmount json.Number  `json:"reduce_amount"`
	Count        int          `json:"amendments_count"`
	Sources      []string     `json:"sources,omitempty"`
	Sidecars     []SidecarOut `json:"sidecars,omitempty"`
}

// SidecarOut is a sidecar attachment rendered for output.
type SidecarOut struct {
	Source    string         `json:"source"`
	Total     json.Number    `json:"total"`
	Breakdown []BreakdownOut `json:"breakdown,omitempty"`
}

// BreakdownOut is one sidecar line item.
type BreakdownOut struct {
	Label  string      `json:"label,omitempty"`
	Amount json.Number `json:"amount"`
}

// DistrictRows renders district buckets, joining the delegate name from the
// roster index. Bucket order (key ascending) is preserved.
func DistrictRows(totals *aggregate.Totals, idx *roster.Index) []Row {
	buckets := totals.Buckets()
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		row := Row{
			District:     b.Key,
			TotalAmount:  json.Number(b.TotalAmount.String()),
			AddAmount:    json.Number(b.PositiveAmount.String()),
			ReduceAmount: json.Number(b.NegativeAmount.String()),
			Count:        b.ItemCount,
		}
		if m, ok := idx.ByDistrict(b.Key); ok {
			row.DelegateName = m.CanonicalName
		}
		row.Sidecars = sidecarsOut(b)
		rows = append(rows, row)
	}
	return rows
}

// LegislatorRows renders legislator buckets keyed by canonical name.
func LegislatorRows(totals *aggregate.Totals) []Row {
	buckets := totals.Buckets()
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, Row{
			DelegateName: b.Key,
			TotalAmount:  json.Number(b.TotalAmount.String()),
			AddAmount:    json.Number(b.PositiveAmount.String()),
			ReduceAmount: json.Number(b.NegativeAmount.String()),
			Count:        b.ItemCount,
		})
	}
	return rows
}

// RecipientRows renders recipient buckets with provenance and any sidecar
// attachments.
func RecipientRows(totals *aggregate.Totals) []Row {
	buckets := totals.Buckets()
	rows := make([]Row, 0, len(buckets))
	for _, b := range buckets {
		row := Row{
			Recipient:    b.Key,
			TotalAmount:  json.Number(b.TotalAmount.String()),
			AddAmount:    json.Number(b.PositiveAmount.String()),
			ReduceAmount: json.Number(b.NegativeAmount.String()),
			Count:        b.ItemCount,
			Sources:      b.Sources(),
			Sidecars:     sidecarsOut(b),
		}
		rows = append(rows, row)
	}
	return rows
}

func sidecarsOut(b *aggregate.Bucket) []SidecarOut {
	outs := make([]SidecarOut, 0, len(b.Sidecars))
	for _, att := range b.Sidecars {
		out := SidecarOut{Source: att.Source, Total: json.Number(att.Total.String())}
		for _, item := range att.Breakdown {
			out.Breakdown = append(out.Breakdown, BreakdownOut{
				Label:  item.Label,
				Amount: json.Number(item.Amount.String()),
			})
		}
		outs = append(outs, out)
	}
	if len(outs) == 0 {
		return nil
	}
	return outs
}

// districtCSVHeader matches the district Row JSON field order exactly.
var districtCSVHeader = []string{"district", "delegate_name", "total_amount", "add_amount", "reduce_amount", "amendments_count"}

// DistrictCSV renders district rows for the CSV artifact, column order
// matching the JSON field order.
func DistrictCSV(rows []Row) (header []string, out [][]string) {
	out = make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.District,
			r.DelegateName,
			r.TotalAmount.String(),
			r.AddAmount.String(),
			r.ReduceAmount.String(),
			strconv.Itoa(r.Count),
		})
	}
	return districtCSVHeader, out
}
