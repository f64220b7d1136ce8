// Package config provides YAML-based configuration for pystyle.
package config

import (
	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/annotations"
	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/naming"
)

// Naming defaults.
const (
	DefaultNamingClassPattern    = naming.DefaultClassPattern
	DefaultNamingFunctionPattern = naming.DefaultFunctionPattern
)

// Annotation defaults.
const (
	DefaultAnnotationsInitializer = annotations.DefaultInitializer
)

// Analysis defaults.
const (
	DefaultAnalysisTolerant    = true
	DefaultAnalysisMaxFileSize = "1MiB"
	DefaultAnalysisWorkers     = 4
)

// Output defaults.
const (
	DefaultOutputFormat = "text"
	DefaultOutputDir    = "."
	DefaultOutputNotes  = true
)

// Logging defaults.
const (
	DefaultLoggingLevel = "info"
	DefaultLoggingJSON  = false
)

// Telemetry defaults.
const (
	DefaultTelemetryOTLPEndpoint = ""
	DefaultTelemetryOTLPInsecure = false
	DefaultTelemetryMetricsAddr  = ""
)

// DefaultAnnotationsReceivers returns the receiver names exempt from typing.
func DefaultAnnotationsReceivers() []string {
	return annotations.DefaultReceivers()
}
