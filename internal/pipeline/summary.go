package pipeline

import (
	"github.com/openlegis/amendmap/pkg/resolve"
	"github.com/openlegis/amendmap/pkg/sources"
)

// Summary is the run-summary artifact: recoverable conditions as counts,
// never stack traces, plus the conservation sums a reviewer checks first.
type Summary struct {
	Year         int              `json:"year"`
	Records      int              `json:"records"`
	Counters     resolve.Counters `json:"counters"`
	UnmatchedLed int              `json:"unmatched_ledger_entries"`
	AliasesAdded int              `json:"aliases_added"`
	ResolvedSum  string           `json:"resolved_sum"`
	DistrictSum  string           `json:"district_sum"`
	RecipientSum string           `json:"recipient_sum"`
	Acquisition  *sources.Outcome `json:"acquisition,omitempty"`
}

// NewSummary assembles the summary for a finished pass.
func NewSummary(year, records int, res *Result, unmatched, aliasesAdded int, acq *sources.Outcome) Summary {
	return Summary{
		Year:         year,
		Records:      records,
		Counters:     res.Counters,
		UnmatchedLed: unmatched,
		AliasesAdded: aliasesAdded,
		ResolvedSum:  res.ResolvedSum,
		DistrictSum:  res.Districts.Sum().String(),
		RecipientSum: res.Recipients.Sum().String(),
		Acquisition:  acq,
	}
}
