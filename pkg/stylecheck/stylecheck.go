// Package stylecheck runs every analyzer over one source file and merges
// their outputs into a single Result.
package stylecheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/annotations"
	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/docstrings"
	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/naming"
	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/structure"
	"github.com/Sumatoshi-tech/pystyle/pkg/lexscan"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
	"github.com/Sumatoshi-tech/pystyle/pkg/source"
)

const tracerName = "pystyle"

// Finding kinds used in counts and metrics.
const (
	KindNaming     = "naming"
	KindDocstring  = "docstring"
	KindAnnotation = "annotation"
)

// Options configures the analyzers.
type Options struct {
	Naming      naming.Rules
	Annotations annotations.Options
	// Tolerant reports the line scan's structural lists when the syntax
	// tree cannot be built.
	Tolerant bool
}

// DefaultOptions returns the conventional rules in tolerant mode.
func DefaultOptions() Options {
	return Options{
		Naming:      naming.DefaultRules(),
		Annotations: annotations.DefaultOptions(),
		Tolerant:    true,
	}
}

// Result is the merged outcome of all analyzers for one file.
type Result struct {
	File string

	// Summary is the reported structural summary. Its Strategy names the
	// analysis that produced the lists.
	Summary structure.Summary
	// LineSummary is the line scan's summary, computed on every run.
	LineSummary structure.Summary
	// Mismatches lists the fields on which both strategies disagree. Only
	// set when the tree was built.
	Mismatches []structure.Mismatch

	Naming      naming.Result
	Docs        []docstrings.Entry
	Annotations annotations.Result

	// ParseErr is set when the syntax tree could not be built. Docs and
	// Annotations are then not computed.
	ParseErr *pyast.ParseError

	// StructureComputed is false when the tree failed in strict mode: only
	// the line count of Summary is meaningful.
	StructureComputed bool
}

// TreeBuilt reports whether the tree-dependent sections were computed.
func (r *Result) TreeBuilt() bool {
	return r.ParseErr == nil
}

// Counts returns the number of findings per kind.
func (r *Result) Counts() map[string]int {
	return map[string]int{
		KindNaming:     len(r.Naming.Classes) + len(r.Naming.Functions),
		KindDocstring:  docstrings.Missing(r.Docs),
		KindAnnotation: len(r.Annotations.Gaps),
	}
}

// HasFindings reports whether any naming, docstring or annotation issue
// was found.
func (r *Result) HasFindings() bool {
	for _, n := range r.Counts() {
		if n > 0 {
			return true
		}
	}

	return false
}

// Analyzer runs the analyzers with fixed options. It holds no per-file
// state and is safe for concurrent use.
type Analyzer struct {
	opts    Options
	tracer  trace.Tracer
	metrics *observability.AnalysisMetrics
}

// New returns an Analyzer. A nil tracer uses the global provider; nil
// metrics disables recording.
func New(opts Options, tracer trace.Tracer, metrics *observability.AnalysisMetrics) *Analyzer {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	return &Analyzer{opts: opts, tracer: tracer, metrics: metrics}
}

// Analyze runs every analyzer over file. A syntax error is not an error
// of Analyze: it is reported in Result.ParseErr with a partial result.
func (a *Analyzer) Analyze(ctx context.Context, file *source.File) (*Result, error) {
	start := time.Now()

	ctx, span := a.tracer.Start(ctx, "pystyle.analyze",
		trace.WithAttributes(attribute.String(observability.AttrFileName, file.Name())))
	defer span.End()

	_, classifySpan := a.tracer.Start(ctx, observability.SpanClassify)
	classified := lexscan.Classify(file)
	classifySpan.End()

	res := &Result{
		File:        file.Name(),
		LineSummary: structure.NewLineSummarizer(file, classified).Summarize(),
		Naming:      naming.Validate(classified, a.opts.Naming),
	}

	parseCtx, parseSpan := a.tracer.Start(ctx, observability.SpanParse)
	mod, err := pyast.Parse(parseCtx, file.Text())
	parseSpan.End()

	switch {
	case err == nil:
		a.fromTree(res, file, mod)
	case errors.As(err, &res.ParseErr):
		a.fromLines(res)
		span.SetAttributes(attribute.Int(observability.AttrParseErrorLine, res.ParseErr.Line))
	default:
		span.SetStatus(codes.Error, err.Error())

		return nil, fmt.Errorf("analyze %s: %w", file.Name(), err)
	}

	span.SetAttributes(attribute.String(observability.AttrStrategy, string(res.Summary.Strategy)))

	a.metrics.RecordFile(ctx, observability.FileStats{
		Strategy:    string(res.Summary.Strategy),
		Violations:  res.Counts(),
		Duration:    time.Since(start),
		ParseFailed: res.ParseErr != nil,
	})

	return res, nil
}

func (a *Analyzer) fromTree(res *Result, file *source.File, mod *pyast.Module) {
	res.Summary = structure.NewTreeSummarizer(file, mod).Summarize()
	res.StructureComputed = true
	res.Mismatches = structure.Compare(res.Summary, res.LineSummary)
	res.Docs = docstrings.Extract(mod)
	res.Annotations = annotations.Check(mod, a.opts.Annotations)
}

func (a *Analyzer) fromLines(res *Result) {
	if a.opts.Tolerant {
		res.Summary = res.LineSummary
		res.StructureComputed = true

		return
	}

	res.Summary = structure.Summary{NonEmptyLines: res.LineSummary.NonEmptyLines}
}
