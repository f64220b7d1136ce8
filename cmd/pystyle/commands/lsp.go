package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pystyle/pkg/lsp"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
	"github.com/Sumatoshi-tech/pystyle/pkg/version"
)

// NewLSPCommand creates the language server command.
func NewLSPCommand() *cobra.Command {
	var verbosity int

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server on stdio",
		Long: `Start a Language Server Protocol server on stdio.

Open, changed and saved Python documents are analyzed and their naming,
docstring, annotation and syntax findings published as diagnostics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			providers, err := initObservability(cmd, cfg, observability.ModeLSP)
			if err != nil {
				return err
			}
			defer shutdownProviders(providers)

			stopDiagnostics, err := startDiagnostics(providers, cfg.Telemetry.MetricsAddr)
			if err != nil {
				return err
			}
			defer stopDiagnostics()

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			analysisMetrics, err := observability.NewAnalysisMetrics(providers.Meter)
			if err != nil {
				return err
			}

			opts, err := cfg.StyleOptions()
			if err != nil {
				return err
			}

			srv := lsp.NewServer(lsp.ServerDeps{
				Analyzer:  stylecheck.New(opts, providers.Tracer, analysisMetrics),
				Logger:    providers.Logger,
				Metrics:   red,
				Tracer:    providers.Tracer,
				Version:   version.Version,
				Verbosity: verbosity,
			})

			return srv.Run()
		},
	}

	cmd.Flags().IntVar(&verbosity, "log-verbosity", 0, "Transport log verbosity (0 = errors only)")

	return cmd
}
