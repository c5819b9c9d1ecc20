package main

import (
	"fmt"

	"github.com/spf13/cobra"

	insight "github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		dataPath string
		columns  []string
		preview  int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Profile the columns of a row file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}
			ds, err := loadDataset(dataPath, "")
			if err != nil {
				return err
			}

			summary := insight.Summarize(ds, columns...)
			if a.format == formatJSON {
				return writeJSON(a.out, summary)
			}
			renderSummary(a.out, summary)

			if preview >= 0 {
				head := insight.Preview(ds, preview)
				fmt.Fprintf(a.out, "\nFirst %d of %d rows\n", head.ReturnedRows, head.TotalRows)
				renderDataset(a.out, insight.NewDataset(head.Rows, ds.Summary()))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataPath, "data", "", "JSON array of row objects (\"-\" for stdin)")
	f.StringSliceVar(&columns, "column", nil, "profile only these columns")
	f.IntVar(&preview, "preview", -1, "also print the first N rows (0 uses preview_limit from config)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
