package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/pystyle/pkg/config"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/report"
	"github.com/Sumatoshi-tech/pystyle/pkg/source"
	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

// ErrNoFiles is returned when the given paths contain no Python files.
var ErrNoFiles = errors.New("no Python files found")

const reportFileMode = 0o644

// CheckCommand holds the flags of the check command.
type CheckCommand struct {
	stdout           bool
	format           string
	outputDir        string
	failOnViolations bool
	noNotes          bool
	strict           bool
	workers          int
	metricsAddr      string
}

// fileOutcome is the rendered report of one input, or the reason it failed.
type fileOutcome struct {
	path     string
	name     string
	rendered []byte
	findings bool
	err      error
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cc := &CheckCommand{}

	cmd := &cobra.Command{
		Use:   "check FILE|DIR...",
		Short: "Analyze Python files and write style reports",
		Long: `Analyze Python files and write one style report per file.

Directories are searched for .py files; dot paths and vendored trees are
skipped. Each report is written as style_report_<file>.<ext> into the output
directory, or to stdout with --stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cc.run,
	}

	cmd.Flags().BoolVar(&cc.stdout, "stdout", false, "Write reports to stdout instead of files")
	cmd.Flags().StringVarP(&cc.format, "format", "f", "",
		"Report format: "+strings.Join(formatNames(), ", ")+" (default from config: text)")
	cmd.Flags().StringVarP(&cc.outputDir, "output-dir", "o", "", "Directory for report files (default from config: .)")
	cmd.Flags().BoolVar(&cc.failOnViolations, "fail-on-violations", false, "Exit with status 2 when any finding is reported")
	cmd.Flags().BoolVar(&cc.noNotes, "no-notes", false, "Omit the Analysis Notes section of text reports")
	cmd.Flags().BoolVar(&cc.strict, "strict", false, "Do not fall back to the line scan when a file does not parse")
	cmd.Flags().IntVarP(&cc.workers, "workers", "w", 0, "Files analyzed concurrently (default from config: 4)")
	cmd.Flags().StringVar(&cc.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	return cmd
}

func formatNames() []string {
	formats := report.Formats()
	names := make([]string, 0, len(formats))

	for _, f := range formats {
		names = append(names, string(f))
	}

	return names
}

// applyFlags overrides config values with explicitly set flags.
func (cc *CheckCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Output.Format = cc.format
	}

	if flags.Changed("output-dir") {
		cfg.Output.Dir = cc.outputDir
	}

	if flags.Changed("no-notes") {
		cfg.Output.Notes = !cc.noNotes
	}

	if flags.Changed("strict") {
		cfg.Analysis.Tolerant = !cc.strict
	}

	if flags.Changed("workers") {
		cfg.Analysis.Workers = cc.workers
	}

	if flags.Changed("metrics-addr") {
		cfg.Telemetry.MetricsAddr = cc.metricsAddr
	}

	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("check flags: %w", err)
	}

	return nil
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	err = cc.applyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	providers, err := initObservability(cmd, cfg, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer shutdownProviders(providers)

	stopDiagnostics, err := startDiagnostics(providers, cfg.Telemetry.MetricsAddr)
	if err != nil {
		return err
	}
	defer stopDiagnostics()

	logger := providers.Logger.With(observability.AttrRunID, uuid.NewString())

	files, err := source.Collect(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("%w in %s", ErrNoFiles, strings.Join(args, ", "))
	}

	analysisMetrics, err := observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		return err
	}

	opts, err := cfg.StyleOptions()
	if err != nil {
		return err
	}

	runner := &checkRunner{
		cfg:      cfg,
		analyzer: stylecheck.New(opts, providers.Tracer, analysisMetrics),
		logger:   logger,
	}

	runner.format, err = cfg.OutputFormat()
	if err != nil {
		return err
	}

	runner.maxSize, err = cfg.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	logger.Info("check started", "files", len(files), "workers", cfg.Analysis.Workers,
		"format", runner.format, "max_file_size", humanize.IBytes(runner.maxSize))

	start := time.Now()
	outcomes := runner.analyzeAll(cmd.Context(), files)

	err = cc.emit(cmd, cfg, outcomes, logger)

	logger.Info("check finished", "files", len(files), "duration", time.Since(start).String())

	return err
}

type checkRunner struct {
	cfg      *config.Config
	analyzer *stylecheck.Analyzer
	logger   *slog.Logger
	format   report.Format
	maxSize  uint64
}

// analyzeAll analyzes files concurrently and returns outcomes in input order.
// A failing file does not stop the others.
func (r *checkRunner) analyzeAll(ctx context.Context, files []string) []fileOutcome {
	if ctx == nil {
		ctx = context.Background()
	}

	outcomes := make([]fileOutcome, len(files))

	var group errgroup.Group

	group.SetLimit(r.cfg.Analysis.Workers)

	for i, path := range files {
		group.Go(func() error {
			outcomes[i] = r.analyzeOne(ctx, path)

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // workers record failures in their outcome.

	return outcomes
}

func (r *checkRunner) analyzeOne(ctx context.Context, path string) fileOutcome {
	outcome := fileOutcome{path: path}

	file, err := source.Load(path, r.maxSize)
	if err != nil {
		outcome.err = err

		return outcome
	}

	outcome.name = file.Name()

	res, err := r.analyzer.Analyze(ctx, file)
	if err != nil {
		outcome.err = err

		return outcome
	}

	if res.ParseErr != nil {
		r.logger.WarnContext(ctx, "syntax error, partial report",
			observability.AttrFileName, file.Name(), observability.AttrParseErrorLine, res.ParseErr.Line,
			"error", res.ParseErr.Msg)
	}

	var buf bytes.Buffer

	err = report.Write(&buf, res, r.format, report.Options{Notes: r.cfg.Output.Notes})
	if err != nil {
		outcome.err = fmt.Errorf("%s: %w", path, err)

		return outcome
	}

	outcome.rendered = buf.Bytes()
	outcome.findings = res.HasFindings()

	r.logger.DebugContext(ctx, "file analyzed", "path", path,
		observability.AttrFileName, file.Name(), observability.AttrStrategy, string(res.Summary.Strategy),
		"findings", res.Counts())

	return outcome
}

// emit writes successful reports and joins the failures.
func (cc *CheckCommand) emit(cmd *cobra.Command, cfg *config.Config, outcomes []fileOutcome, logger *slog.Logger) error {
	var (
		errs     []error
		findings bool
	)

	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}

	quiet := boolFlag(cmd, flagQuiet)
	names := newNameAllocator()

	for _, outcome := range outcomes {
		if outcome.err != nil {
			logger.Error("file skipped", "path", outcome.path, "error", outcome.err)
			errs = append(errs, outcome.err)

			continue
		}

		findings = findings || outcome.findings

		if cc.stdout {
			_, err = cmd.OutOrStdout().Write(outcome.rendered)
			if err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			continue
		}

		target := filepath.Join(cfg.Output.Dir, names.allocate(report.FileName(outcome.name, format)))

		err = writeReportFile(target, outcome.rendered)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		progressf(quiet, cmd.ErrOrStderr(), "report written to %s", target)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if findings && cc.failOnViolations {
		return ErrViolationsFound
	}

	return nil
}

func writeReportFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	err = os.WriteFile(path, data, reportFileMode)
	if err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	return nil
}

func progressf(quiet bool, w io.Writer, format string, args ...any) {
	if quiet {
		return
	}

	fmt.Fprintf(w, format+"\n", args...)
}

// nameAllocator keeps report file names unique when inputs from different
// directories share a base name.
type nameAllocator struct {
	seen map[string]int
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{seen: make(map[string]int)}
}

func (a *nameAllocator) allocate(name string) string {
	a.seen[name]++

	count := a.seen[name]
	if count == 1 {
		return name
	}

	ext := filepath.Ext(name)

	return strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(count) + ext
}
