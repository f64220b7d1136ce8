package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"

	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/annotations"
	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/naming"
	"github.com/Sumatoshi-tech/pystyle/pkg/observability"
	"github.com/Sumatoshi-tech/pystyle/pkg/report"
	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

// Sentinel validation errors.
var (
	ErrInvalidPattern  = errors.New("invalid naming pattern")
	ErrInvalidSize     = errors.New("invalid file size")
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidField    = errors.New("invalid field")
)

// Config is the top-level pystyle configuration.
type Config struct {
	Naming      NamingConfig      `mapstructure:"naming"`
	Annotations AnnotationsConfig `mapstructure:"annotations"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Output      OutputConfig      `mapstructure:"output"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

// NamingConfig holds the identifier patterns.
type NamingConfig struct {
	ClassPattern    string `mapstructure:"class_pattern"    validate:"required"`
	FunctionPattern string `mapstructure:"function_pattern" validate:"required"`
}

// AnnotationsConfig holds the annotation check exemptions.
type AnnotationsConfig struct {
	Receivers   []string `mapstructure:"receivers"   validate:"dive,required"`
	Initializer string   `mapstructure:"initializer" validate:"required"`
}

// AnalysisConfig controls how files are analyzed.
type AnalysisConfig struct {
	Tolerant    bool   `mapstructure:"tolerant"`
	MaxFileSize string `mapstructure:"max_file_size" validate:"required"`
	Workers     int    `mapstructure:"workers"       validate:"gte=1,lte=256"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"required"`
	Dir    string `mapstructure:"dir"    validate:"required"`
	Notes  bool   `mapstructure:"notes"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig controls trace and metric export.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint" validate:"omitempty,hostname_port"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsAddr  string `mapstructure:"metrics_addr"  validate:"omitempty,hostname_port"`
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints first, then the values that need parsing.
func (c *Config) Validate() error {
	err := structValidator.Struct(c)
	if err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]

			return fmt.Errorf("%w: %s failed %q", ErrInvalidField, first.Namespace(), first.Tag())
		}

		return fmt.Errorf("validate fields: %w", err)
	}

	_, err = c.NamingRules()
	if err != nil {
		return err
	}

	_, err = c.MaxFileSizeBytes()
	if err != nil {
		return err
	}

	_, err = c.OutputFormat()
	if err != nil {
		return err
	}

	_, err = observability.ParseLevel(c.Logging.Level)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogLevel, err)
	}

	return nil
}

// NamingRules compiles the configured patterns.
func (c *Config) NamingRules() (naming.Rules, error) {
	class, err := regexp.Compile(c.Naming.ClassPattern)
	if err != nil {
		return naming.Rules{}, fmt.Errorf("%w: class_pattern: %w", ErrInvalidPattern, err)
	}

	function, err := regexp.Compile(c.Naming.FunctionPattern)
	if err != nil {
		return naming.Rules{}, fmt.Errorf("%w: function_pattern: %w", ErrInvalidPattern, err)
	}

	return naming.Rules{Class: class, Function: function}, nil
}

// MaxFileSizeBytes parses the human-readable size limit, e.g. "1MiB".
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	size, err := humanize.ParseBytes(c.Analysis.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSize, c.Analysis.MaxFileSize, err)
	}

	if size == 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidSize, c.Analysis.MaxFileSize)
	}

	return size, nil
}

// OutputFormat parses the configured report format.
func (c *Config) OutputFormat() (report.Format, error) {
	format, err := report.ParseFormat(c.Output.Format)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	return format, nil
}

// StyleOptions converts the configuration into analyzer options.
func (c *Config) StyleOptions() (stylecheck.Options, error) {
	rules, err := c.NamingRules()
	if err != nil {
		return stylecheck.Options{}, err
	}

	return stylecheck.Options{
		Naming: rules,
		Annotations: annotations.Options{
			Receivers:   c.Annotations.Receivers,
			Initializer: c.Annotations.Initializer,
		},
		Tolerant: c.Analysis.Tolerant,
	}, nil
}

// ObservabilityConfig converts the logging and telemetry sections for the
// given mode. An unparseable level falls back to info.
func (c *Config) ObservabilityConfig(mode observability.AppMode, version string) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	obsCfg.Prometheus = c.Telemetry.MetricsAddr != ""
	obsCfg.LogJSON = c.Logging.JSON

	level, err := observability.ParseLevel(c.Logging.Level)
	if err == nil {
		obsCfg.LogLevel = level
	}

	return obsCfg
}
