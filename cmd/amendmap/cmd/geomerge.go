package cmd

import (
	"encoding/json"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/openlegis/amendmap/internal/artifact"
	"github.com/openlegis/amendmap/pkg/errors"
	"github.com/openlegis/amendmap/pkg/geometry"
	"github.com/openlegis/amendmap/pkg/logging"
)

// newGeomergeCmd builds the geomerge command, which joins the district rollup
// onto a GeoJSON district map for the choropleth layer.
func newGeomergeCmd() *cobra.Command {
	var (
		totalsFile   string
		geometryFile string
		property     string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "geomerge",
		Short: "Join district totals onto a GeoJSON district map",
		Long: `Geomerge reads the district rollup and a GeoJSON feature collection,
matches features to totals by normalized district key, and writes the merged
collection plus a diagnostics report. Features with no matching total keep
their geometry and get a zero, so the map never loses shapes; totals with no
matching feature are counted, never redistributed.`,
		Example: `  amendmap geomerge --totals out/district-totals.json \
      --geometry districts.geojson --out out/`,
		RunE: func(_ *cobra.Command, _ []string) error {
			totals, err := loadDistrictTotals(totalsFile)
			if err != nil {
				return err
			}
			fc, err := geometry.Load(geometryFile)
			if err != nil {
				return err
			}

			diag := geometry.Merge(fc, totals, geometry.WithProperty(property))
			logging.Info().
				Int("matched", diag.MatchedFeatures).
				Int("unmatched_features", diag.UnmatchedFeatures).
				Int("unmatched_totals", diag.UnmatchedTotalKeys).
				Str("injected_sum", diag.InjectedSum).
				Msg("Geometry merge complete")

			merged, err := json.Marshal(fc)
			if err != nil {
				return errors.WrapParse("json", geometryFile, err)
			}

			w, err := artifact.NewWriter(outDir)
			if err != nil {
				return err
			}
			defer w.Discard()

			if err := w.Bytes("district-map.geojson", merged); err != nil {
				return err
			}
			if err := w.JSON("district-map.diagnostics.json", diag); err != nil {
				return err
			}
			return w.Commit()
		},
	}

	cmd.Flags().StringVar(&totalsFile, "totals", "out/district-totals.json", "district rollup file")
	cmd.Flags().StringVar(&geometryFile, "geometry", "", "GeoJSON district boundaries")
	cmd.Flags().StringVar(&property, "property", geometry.DefaultProperty, "name of the injected total property")
	cmd.Flags().StringVar(&outDir, "out", "out", "output directory")
	_ = cmd.MarkFlagRequired("geometry")

	return cmd
}

// loadDistrictTotals reads the district rollup back into a key-to-amount map.
func loadDistrictTotals(path string) (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var rows []artifact.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		if row.District == "" {
			continue
		}
		amount, err := decimal.NewFromString(row.TotalAmount.String())
		if err != nil {
			return nil, errors.WrapParse("decimal", path, err)
		}
		totals[row.District] = amount
	}
	return totals, nil
}
