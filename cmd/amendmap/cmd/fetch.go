package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openlegis/amendmap/internal/artifact"
	internalsources "github.com/openlegis/amendmap/internal/sources"
	"github.com/openlegis/amendmap/internal/sources/snapshot"
	"github.com/openlegis/amendmap/pkg/logging"
	"github.com/openlegis/amendmap/pkg/sources"
)

// newFetchCmd builds the fetch command, which runs the acquisition chain for
// one budget year and writes the raw record set.
func newFetchCmd() *cobra.Command {
	var (
		year        int
		sourcesFile string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Acquire raw amendment records for a budget year",
		Long: `Fetch walks the configured acquisition chain in order until one source
returns records: the legislative API first, then the HTML scrape, then the
manual file drop, then the committed snapshot. The winning record set is
written as amendments-<year>.json alongside an acquisition report, and the
snapshot is refreshed whenever a live source won.`,
		Example: `  amendmap fetch --year 2024 --sources sources.yaml --out data/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sources.LoadConfig(sourcesFile)
			if err != nil {
				return err
			}
			chain, err := internalsources.BuildChain(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			records, outcome, err := chain.Fetch(cmd.Context(), year)
			if err != nil {
				return err
			}
			logging.Info().
				Int("year", year).
				Int("records", len(records)).
				Str("provider", outcome.Succeeded).
				Dur("elapsed", time.Since(start)).
				Msg("Acquisition complete")

			w, err := artifact.NewWriter(outDir)
			if err != nil {
				return err
			}
			defer w.Discard()

			if err := w.JSON(fmt.Sprintf("amendments-%d.json", year), records); err != nil {
				return err
			}
			if err := w.JSON(fmt.Sprintf("acquisition-%d.json", year), outcome); err != nil {
				return err
			}
			if err := w.Commit(); err != nil {
				return err
			}

			// Keep the snapshot current so the chain's last resort reflects
			// the most recent successful live fetch.
			if path := internalsources.SnapshotPath(cfg); path != "" && outcome.Succeeded != snapshot.ProviderID {
				if err := snapshot.Write(path, records); err != nil {
					logging.Warn().Str("path", path).Err(err).Msg("Snapshot refresh failed")
				} else {
					logging.Info().Str("path", path).Msg("Snapshot refreshed")
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "budget year to fetch")
	cmd.Flags().StringVar(&sourcesFile, "sources", "sources.yaml", "acquisition chain config")
	cmd.Flags().StringVar(&outDir, "out", "data", "output directory")

	return cmd
}
