package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/openlegis/amendmap/pkg/alias"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/logging"
)

// newAliasesCmd builds the aliases command group for curating the alias table
// that resolves unmatched sponsor spellings.
func newAliasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aliases",
		Short: "Curate the sponsor alias table",
		Long: `The alias table maps exact raw sponsor spellings onto canonical roster
names and is consulted before any other resolution rule. Entries typically
come from triaging the unmatched ledger after an aggregate run.`,
	}

	cmd.AddCommand(newAliasesMergeCmd())
	cmd.AddCommand(newAliasesListCmd())
	return cmd
}

func newAliasesMergeCmd() *cobra.Command {
	var (
		fromFile    string
		aliasesFile string
	)

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge new alias entries into the alias table",
		Long: `Merge folds a JSON object of {"raw spelling": "Canonical Name"} entries
into the alias table. Existing entries always win: a curated mapping is never
silently overwritten by a later import. The table is rewritten in place.`,
		Example: `  amendmap aliases merge --from triaged.json --aliases aliases.json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := os.ReadFile(fromFile)
			if err != nil {
				return errors.WrapIO("read", fromFile, err)
			}
			var entries map[string]string
			if err := json.Unmarshal(data, &entries); err != nil {
				return errors.WrapParse("json", fromFile, err)
			}

			store, err := alias.Load(aliasesFile)
			if err != nil {
				return err
			}
			added := store.Merge(entries)
			if err := store.Save(aliasesFile); err != nil {
				return err
			}

			logging.Info().
				Int("added", added).
				Int("skipped", len(entries)-added).
				Str("file", aliasesFile).
				Msg("Alias table updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFile, "from", "", "JSON file of alias entries to merge")
	cmd.Flags().StringVar(&aliasesFile, "aliases", "aliases.json", "alias table file")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func newAliasesListCmd() *cobra.Command {
	var aliasesFile string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the alias table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := alias.Load(aliasesFile)
			if err != nil {
				return err
			}

			aliases := store.Aliases()
			raws := make([]string, 0, len(aliases))
			for raw := range aliases {
				raws = append(raws, raw)
			}
			sort.Strings(raws)

			for _, raw := range raws {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", raw, aliases[raw])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&aliasesFile, "aliases", "aliases.json", "alias table file")
	return cmd
}
