package main

import (
	"fmt"

	"github.com/spf13/cobra"

	insight "github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004"
)

func newCorrelateCmd(a *app) *cobra.Command {
	var (
		dataPath    string
		summaryPath string
		xColumn     string
		yColumn     string
		matrix      []string
		numeric     bool
		sample      int
		seed        uint64
	)

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Pearson correlation and least-squares line between columns",
		Example: `  insight-cli correlate --data sales.json -x spend -y revenue --sample 500
  insight-cli correlate --data sales.json --matrix spend,revenue,units
  insight-cli correlate --data sales.json --numeric`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}
			ds, err := loadDataset(dataPath, summaryPath)
			if err != nil {
				return err
			}

			if numeric {
				matrix = ds.Summary().NumericColumns()
				if len(matrix) < 2 {
					return fmt.Errorf("--numeric needs at least two numeric columns, found %d", len(matrix))
				}
			}
			if len(matrix) > 0 {
				pairs, err := insight.CorrelationMatrix(cmd.Context(), ds, matrix)
				if err != nil {
					return err
				}
				if a.format == formatJSON {
					return writeJSON(a.out, pairs)
				}
				renderMatrix(a.out, pairs)
				return nil
			}

			if xColumn == "" || yColumn == "" {
				return fmt.Errorf("both -x and -y are required unless --matrix or --numeric is given")
			}
			opts := []insight.CorrelationOption{
				insight.WithProgress(func(n int) {
					a.logger.Debug("correlation progress", "rows", n)
				}),
			}
			if sample > 0 {
				opts = append(opts, insight.WithSampler(insight.NewReservoir(sample, seed)))
			}

			res, err := insight.Correlate(cmd.Context(), ds, xColumn, yColumn, opts...)
			if err != nil {
				return err
			}
			if a.format == formatJSON {
				return writeJSON(a.out, res)
			}
			renderCorrelation(a.out, res)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataPath, "data", "", "JSON array of row objects (\"-\" for stdin)")
	f.StringVar(&summaryPath, "summary", "", "JSON column summary (inferred when omitted)")
	f.StringVarP(&xColumn, "x", "x", "", "x column")
	f.StringVarP(&yColumn, "y", "y", "", "y column")
	f.StringSliceVar(&matrix, "matrix", nil, "correlate every pair of these columns")
	f.BoolVar(&numeric, "numeric", false, "correlate every pair of numeric columns")
	f.IntVar(&sample, "sample", 0, "keep a uniform sample of at most this many points")
	f.Uint64Var(&seed, "seed", 0, "sampler seed (0 uses sample_seed from config)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
