// Package commands implements CLI command handlers for pystyle.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pystyle/pkg/config"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/report"
	"github.com/Sumatoshi-tech/pystyle/pkg/version"
)

// Persistent flag names.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// Exit codes.
const (
	exitError      = 1
	exitViolations = 2
)

// ErrViolationsFound is returned by check when --fail-on-violations is set
// and at least one finding was reported.
var ErrViolationsFound = errors.New("style violations found")

// ExitCode maps a command error to the process exit status: 2 for findings
// and invalid reports, 1 otherwise.
func ExitCode(err error) int {
	if errors.Is(err, ErrViolationsFound) || errors.Is(err, report.ErrInvalidReport) {
		return exitViolations
	}

	return exitError
}

// NewRootCommand creates the pystyle root command with all subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pystyle",
		Short: "Python source style checker",
		Long: `pystyle reports on the structure and style of Python source files.

Commands:
  check     Analyze files and write style reports
  validate  Validate a JSON report against the report schema
  lsp       Start the language server
  mcp       Start the MCP server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "Config file (default: .pystyle.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP(flagQuiet, "q", false, "suppress output")

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewLSPCommand())
	rootCmd.AddCommand(NewMCPCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadConfig reads the config named by --config, or the default search path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig) //nolint:errcheck // absent when run without the root command.

	return config.LoadConfig(path)
}

func boolFlag(cmd *cobra.Command, name string) bool {
	value, _ := cmd.Flags().GetBool(name) //nolint:errcheck // absent when run without the root command.

	return value
}

// initObservability builds providers for mode from cfg, honoring the
// standard OTEL_EXPORTER_OTLP_HEADERS variable and the verbosity flags.
func initObservability(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) (observability.Providers, error) {
	obsCfg := cfg.ObservabilityConfig(mode, version.Version)
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))

	switch {
	case boolFlag(cmd, flagVerbose):
		obsCfg.LogLevel = slog.LevelDebug
	case boolFlag(cmd, flagQuiet):
		obsCfg.LogLevel = slog.LevelError
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}

func shutdownProviders(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}

// startDiagnostics serves health and metrics on addr when both an address
// and a Prometheus handler are available. The returned func stops it.
func startDiagnostics(providers observability.Providers, addr string) (func(), error) {
	if addr == "" || providers.MetricsHandler == nil {
		return func() {}, nil
	}

	diag, err := observability.NewDiagnosticsServer(addr, providers.MetricsHandler, providers.Tracer)
	if err != nil {
		return nil, err
	}

	providers.Logger.Info("diagnostics listening", "addr", diag.Addr())

	return func() {
		closeErr := diag.Close()
		if closeErr != nil {
			providers.Logger.Warn("diagnostics close failed", "error", closeErr)
		}
	}, nil
}
