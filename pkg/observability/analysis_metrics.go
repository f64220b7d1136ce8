package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal         = "pystyle.analysis.files.total"
	metricParseFailuresTotal = "pystyle.analysis.parse_failures.total"
	metricViolationsTotal    = "pystyle.analysis.violations.total"
	metricFileDuration       = "pystyle.analysis.file.duration.seconds"

	attrStrategy = "strategy"
	attrKind     = "kind"
)

var fileBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// AnalysisMetrics holds the instruments of per-file analysis.
type AnalysisMetrics struct {
	files         metric.Int64Counter
	parseFailures metric.Int64Counter
	violations    metric.Int64Counter
	duration      metric.Float64Histogram
}

// FileStats is the outcome of analyzing one file.
type FileStats struct {
	// Strategy is the structural summary strategy that was reported.
	Strategy string
	// Violations counts findings by kind (naming, docstring, annotation).
	Violations  map[string]int
	Duration    time.Duration
	ParseFailed bool
}

// NewAnalysisMetrics creates analysis instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	b := newMetricBuilder(mt)

	am := &AnalysisMetrics{
		files:         b.counter(metricFilesTotal, "Files analyzed", "{file}"),
		parseFailures: b.counter(metricParseFailuresTotal, "Files whose syntax tree could not be built", "{file}"),
		violations:    b.counter(metricViolationsTotal, "Style findings by kind", "{finding}"),
		duration:      b.histogram(metricFileDuration, "Per-file analysis duration in seconds", "s", fileBuckets...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return am, nil
}

// RecordFile records one analyzed file. Safe on a nil receiver.
func (am *AnalysisMetrics) RecordFile(ctx context.Context, stats FileStats) {
	if am == nil {
		return
	}

	strategy := metric.WithAttributes(attribute.String(attrStrategy, stats.Strategy))

	am.files.Add(ctx, 1, strategy)
	am.duration.Record(ctx, stats.Duration.Seconds(), strategy)

	if stats.ParseFailed {
		am.parseFailures.Add(ctx, 1)
	}

	for kind, n := range stats.Violations {
		if n > 0 {
			am.violations.Add(ctx, int64(n), metric.WithAttributes(attribute.String(attrKind, kind)))
		}
	}
}
