package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	configName      = ".pystyle"
	configType      = "yaml"
	envPrefix       = "PYSTYLE"
	envKeySeparator = "_"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or env var is set.
func Default() *Config {
	return &Config{
		Naming: NamingConfig{
			ClassPattern:    DefaultNamingClassPattern,
			FunctionPattern: DefaultNamingFunctionPattern,
		},
		Annotations: AnnotationsConfig{
			Receivers:   DefaultAnnotationsReceivers(),
			Initializer: DefaultAnnotationsInitializer,
		},
		Analysis: AnalysisConfig{
			Tolerant:    DefaultAnalysisTolerant,
			MaxFileSize: DefaultAnalysisMaxFileSize,
			Workers:     DefaultAnalysisWorkers,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
			Dir:    DefaultOutputDir,
			Notes:  DefaultOutputNotes,
		},
		Logging: LoggingConfig{
			Level: DefaultLoggingLevel,
			JSON:  DefaultLoggingJSON,
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: DefaultTelemetryOTLPEndpoint,
			OTLPInsecure: DefaultTelemetryOTLPInsecure,
			MetricsAddr:  DefaultTelemetryMetricsAddr,
		},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("naming.class_pattern", DefaultNamingClassPattern)
	viperCfg.SetDefault("naming.function_pattern", DefaultNamingFunctionPattern)

	viperCfg.SetDefault("annotations.receivers", DefaultAnnotationsReceivers())
	viperCfg.SetDefault("annotations.initializer", DefaultAnnotationsInitializer)

	viperCfg.SetDefault("analysis.tolerant", DefaultAnalysisTolerant)
	viperCfg.SetDefault("analysis.max_file_size", DefaultAnalysisMaxFileSize)
	viperCfg.SetDefault("analysis.workers", DefaultAnalysisWorkers)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.dir", DefaultOutputDir)
	viperCfg.SetDefault("output.notes", DefaultOutputNotes)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	viperCfg.SetDefault("telemetry.metrics_addr", DefaultTelemetryMetricsAddr)
}
