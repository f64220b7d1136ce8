package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pystyle/pkg/mcp"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes pystyle checks as tools that AI agents can discover
and invoke:
  - pystyle_check: structured report document for inline Python code
  - pystyle_report: rendered report (text, json, yaml or table)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// stdout carries the protocol, so logs are always JSON on stderr.
			cfg.Logging.JSON = true
			if debug {
				cfg.Logging.Level = "debug"
			}

			providers, err := initObservability(cmd, cfg, observability.ModeMCP)
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

			srv := mcp.NewServer(mcp.ServerDeps{
				Options:  &opts,
				Version:  version.Version,
				Logger:   providers.Logger,
				Metrics:  red,
				Analysis: analysisMetrics,
				Tracer:   providers.Tracer,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}
