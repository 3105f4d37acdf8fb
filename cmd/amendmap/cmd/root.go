// Package cmd implements the amendmap CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/openlegis/amendmap/internal/config"
	"github.com/openlegis/amendmap/pkg/constants"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
)

var (
	configFile string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "amendmap",
	Short: "Budget amendment reconciliation pipeline",
	Long: `Amendmap ingests budget-amendment records from the legislature's public
systems, reconciles sponsors and districts against the member roster, and
produces the per-district, per-legislator, and per-recipient rollups the
public dashboard serves.

Each stage is a subcommand; a typical refresh is:

  amendmap fetch --year 2024 --sources sources.yaml --out data/
  amendmap aggregate --year 2024 --input data/amendments-2024.json \
      --roster roster.json --aliases aliases.json --out out/
  amendmap geomerge --totals out/district-totals.json \
      --geometry districts.geojson --out out/`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the CLI with signal handling for graceful shutdown.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A refresh that runs this long is wedged, not slow.
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Run failed")
		if errors.IsFatal(err) || errors.IsExhausted(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// setup loads .env and wires Viper before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is fine; an unreadable one is not worth failing a
	// data run over either.
	_ = godotenv.Load()

	if err := config.Init(configFile); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return config.BindFlags(cmd.Flags())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (optional)")

	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newAggregateCmd())
	rootCmd.AddCommand(newGeomergeCmd())
	rootCmd.AddCommand(newAliasesCmd())
}
