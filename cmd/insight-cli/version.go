package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(_ *cobra.Command, _ []string) error {
			info := version.Info()
			if a.format == formatJSON {
				return writeJSON(a.out, info)
			}
			fmt.Fprint(a.out, info.String())
			if !version.IsRelease() {
				fmt.Fprintln(a.out, "Pre-release build")
			}
			if arrow, ok := info.Dependency("github.com/apache/arrow-go/v18"); ok {
				fmt.Fprintf(a.out, "Arrow: %s\n", arrow.Version)
			}
			return nil
		},
	}
}
