package main

import (
	"fmt"

	"github.com/spf13/cobra"

	insight "github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004"
)

type runResult struct {
	RunID   string                   `json:"run_id"`
	Trace   []string                 `json:"trace"`
	Rows    []map[string]interface{} `json:"rows"`
	Metrics *insight.MetricsSummary  `json:"metrics,omitempty"`
}

func newRunCmd(a *app) *cobra.Command {
	var dataPath, queryPath, summaryPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Apply a query descriptor to a row file",
		Example: `  insight-cli run --data sales.json --query monthly.json
  insight-cli run --data sales.json --query monthly.json --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(a.format); err != nil {
				return err
			}
			ds, err := loadDataset(dataPath, summaryPath)
			if err != nil {
				return err
			}
			q, err := loadDescriptor(queryPath)
			if err != nil {
				return err
			}

			exec, err := insight.NewExecutorFromConfig(a.cfg, insight.WithLogger(a.logger))
			if err != nil {
				return err
			}

			insight.ResetMetrics()
			res, err := exec.Execute(cmd.Context(), ds, q)
			if err != nil {
				return err
			}

			var metrics *insight.MetricsSummary
			if insight.MetricsEnabled() {
				s := insight.MetricsReport()
				metrics = &s
				a.logger.Info("stage metrics",
					"stages", s.TotalStages,
					"duration", s.TotalDuration,
					"rows_dropped", s.RowsDropped)
			}

			if a.format == formatJSON {
				return writeJSON(a.out, runResult{
					RunID:   res.RunID.String(),
					Trace:   res.Trace,
					Rows:    res.Data.ToMaps(),
					Metrics: metrics,
				})
			}

			for i, step := range res.Trace {
				fmt.Fprintf(a.out, "%d. %s\n", i+1, step)
			}
			renderDataset(a.out, res.Data)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "JSON array of row objects (\"-\" for stdin)")
	cmd.Flags().StringVar(&queryPath, "query", "", "JSON query descriptor")
	cmd.Flags().StringVar(&summaryPath, "summary", "", "JSON column summary (inferred when omitted)")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
