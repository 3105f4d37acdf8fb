package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlegis/amendmap/internal/artifact"
	"github.com/openlegis/amendmap/internal/pipeline"
	"github.com/openlegis/amendmap/pkg/aggregate"
	"github.com/openlegis/amendmap/pkg/alias"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/normalize"
	"github.com/openlegis/amendmap/pkg/record"
	"github.com/openlegis/amendmap/pkg/roster"
	"github.com/openlegis/amendmap/pkg/sources"
)

// newAggregateCmd builds the aggregate command, the reconciliation core of a
// refresh: raw records in, rollup artifacts out.
func newAggregateCmd() *cobra.Command {
	var (
		year            int
		inputFile       string
		rosterFile      string
		aliasesFile     string
		acquisitionFile string
		earmarksFile    string
		budgetFile      string
		ngfFile         string
		crosswalkFile   string
		strictUnmatched bool
		outDir          string
	)

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Reconcile raw records and write the rollup artifacts",
		Long: `Aggregate resolves every record's sponsor against the member roster
(alias table first, then exact normalized match, then the last-name
heuristic), folds the resolved records into district, legislator, and
recipient rollups, and writes the artifact set in one atomic commit.

Sidecar datasets layer on after the fold: member earmark requests attach to
recipient buckets as metadata, budget-office locality totals attach to
district buckets through the locality crosswalk, and the non-general-fund
leg folds into district totals as primary amounts.

Sponsors that no rule can place are never dropped silently; they land in
the unmatched ledger for alias triage, and --strict-unmatched turns any
ledger growth into a failed run.`,
		Example: `  amendmap aggregate --year 2024 --input data/amendments-2024.json \
      --roster roster.json --aliases aliases.json --out out/`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if inputFile == "" {
				inputFile = fmt.Sprintf("data/amendments-%d.json", year)
			}
			records, err := loadRecords(inputFile)
			if err != nil {
				return err
			}

			idx, err := roster.Load(rosterFile)
			if err != nil {
				return err
			}
			store, err := alias.Load(aliasesFile)
			if err != nil {
				return err
			}
			// Carry the previous run's ledger forward; it only ever shrinks
			// through alias curation, never through input churn.
			if err := store.LoadLedger(filepath.Join(outDir, "unmatched-ledger.json")); err != nil {
				return err
			}

			start := time.Now()
			res, err := pipeline.Run(records, idx, store)
			if err != nil {
				return err
			}

			if earmarksFile != "" {
				rows, err := aggregate.LoadRows(earmarksFile)
				if err != nil {
					return err
				}
				res.Recipients.AttachSidecar("earmark-requests", rows, false)
			}
			if budgetFile != "" {
				if err := attachBudgetOffice(res.Districts, budgetFile, crosswalkFile); err != nil {
					return err
				}
			}
			if ngfFile != "" {
				rows, err := aggregate.LoadRows(ngfFile)
				if err != nil {
					return err
				}
				for i := range rows {
					rows[i].Key = normalize.District(rows[i].Key)
				}
				res.Districts.AttachSidecar("non-general-fund", rows, true)
			}

			acq, err := loadAcquisition(acquisitionFile)
			if err != nil {
				return err
			}

			w, err := artifact.NewWriter(outDir)
			if err != nil {
				return err
			}
			defer w.Discard()

			districtRows := artifact.DistrictRows(res.Districts, idx)
			if err := w.JSON("district-totals.json", districtRows); err != nil {
				return err
			}
			header, csvRows := artifact.DistrictCSV(districtRows)
			if err := w.CSV("district-totals.csv", header, csvRows); err != nil {
				return err
			}
			if err := w.JSON("legislator-totals.json", artifact.LegislatorRows(res.Legislators)); err != nil {
				return err
			}
			if err := w.JSON("recipient-totals.json", artifact.RecipientRows(res.Recipients)); err != nil {
				return err
			}
			if err := w.JSON("unmatched-ledger.json", store.Unmatched()); err != nil {
				return err
			}
			summary := pipeline.NewSummary(year, len(records), res, store.UnmatchedCount(), store.Added(), acq)
			if err := w.JSON("run-summary.json", summary); err != nil {
				return err
			}
			if err := w.Commit(); err != nil {
				return err
			}

			logging.Info().
				Int("year", year).
				Int("records", len(records)).
				Str("resolved_sum", res.ResolvedSum).
				Dur("elapsed", time.Since(start)).
				Msg("Aggregation complete")

			if n := store.UnmatchedCount(); n > 0 {
				if strictUnmatched {
					return fmt.Errorf("%d sponsors unmatched, see unmatched-ledger.json", n)
				}
				logging.Warn().Int("unmatched", n).Msg("Some sponsors need alias triage, see unmatched-ledger.json")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "budget year being aggregated")
	cmd.Flags().StringVar(&inputFile, "input", "", "raw records file (default data/amendments-<year>.json)")
	cmd.Flags().StringVar(&rosterFile, "roster", "roster.json", "member roster file")
	cmd.Flags().StringVar(&aliasesFile, "aliases", "aliases.json", "alias table file")
	cmd.Flags().StringVar(&acquisitionFile, "acquisition", "", "acquisition report to echo into the run summary")
	cmd.Flags().StringVar(&earmarksFile, "earmarks", "", "earmark request sidecar, recipient-keyed")
	cmd.Flags().StringVar(&budgetFile, "budget-office", "", "budget office sidecar, locality- or district-keyed")
	cmd.Flags().StringVar(&ngfFile, "ngf", "", "non-general-fund sidecar, district-keyed, summed in")
	cmd.Flags().StringVar(&crosswalkFile, "crosswalk", "", "locality-to-district crosswalk for --budget-office")
	cmd.Flags().BoolVar(&strictUnmatched, "strict-unmatched", false, "fail the run when any sponsor goes unmatched")
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")

	return cmd
}

// attachBudgetOffice layers the budget-office dataset onto district buckets.
// With a crosswalk the rows are locality-keyed and expand to every district
// the locality overlaps, which forces metadata-only attachment; without one
// the rows are taken as district-keyed already.
func attachBudgetOffice(districts *aggregate.Totals, path, crosswalkPath string) error {
	rows, err := aggregate.LoadRows(path)
	if err != nil {
		return err
	}

	if crosswalkPath != "" {
		cw, err := aggregate.LoadCrosswalk(crosswalkPath)
		if err != nil {
			return err
		}
		var unmapped []aggregate.Row
		rows, unmapped = cw.Expand(rows)
		if len(unmapped) > 0 {
			logging.Warn().
				Int("rows", len(unmapped)).
				Str("first", unmapped[0].Key).
				Msg("Budget office rows with no crosswalk entry were skipped")
		}
	} else {
		for i := range rows {
			rows[i].Key = normalize.District(rows[i].Key)
		}
	}

	districts.AttachSidecar("budget-office", rows, false)
	return nil
}

func loadRecords(path string) ([]record.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var records []record.Raw
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return records, nil
}

func loadAcquisition(path string) (*sources.Outcome, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var outcome sources.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return &outcome, nil
}
