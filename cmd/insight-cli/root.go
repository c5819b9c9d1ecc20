package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	insight "github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/config"
	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/logging"
)

// app carries state shared by every subcommand once the configuration has
// been loaded.
type app struct {
	out    io.Writer
	cfg    config.Config
	logger *slog.Logger

	cfgFile string
	envFile string
	verbose bool
	format  string
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: logging.Discard()}

	root := &cobra.Command{
		Use:           "insight-cli",
		Short:         "Filter, aggregate and correlate tabular rows",
		Long:          `insight-cli applies query descriptors (filters, grouped aggregation, top/bottom, sort, limit) to JSON row files, derives and converts columns, and computes streaming Pearson correlations with a bounded scatter sample.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.loadConfig()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgFile, "config", "", "config file (.json, .yaml or .yml)")
	f.StringVar(&a.envFile, "env-file", "", "load INSIGHT_* variables from this .env file")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	f.StringVar(&a.format, "format", formatTable, "output format: table or json")

	root.AddCommand(
		newRunCmd(a),
		newCorrelateCmd(a),
		newSummaryCmd(a),
		newDeriveCmd(a),
		newConvertCmd(a),
		newVersionCmd(a),
	)
	return root
}

// loadConfig layers environment, .env file, config file and flags, in that
// order: a later source overrides only the keys it sets. The result becomes
// the global configuration.
func (a *app) loadConfig() error {
	cfg := config.LoadFromEnv()
	if a.envFile != "" {
		// LoadEnvFile re-reads the environment, so it already includes cfg.
		loaded, err := config.LoadEnvFile(a.envFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.cfgFile != "" {
		merged, err := cfg.MergeFile(a.cfgFile)
		if err != nil {
			return err
		}
		cfg = merged
	}
	if a.verbose {
		cfg.VerboseLogging = true
	}

	cfg, warnings, err := config.NewValidator().Validate(cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(cfg)
	for _, w := range warnings {
		a.logger.Debug("configuration", "note", w)
	}
	return insight.Configure(cfg)
}
