package observability

import (
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ExportBuildResource exposes buildResource for testing.
func ExportBuildResource(cfg Config) (*resource.Resource, error) {
	return buildResource(cfg)
}

// ExportSampler exposes selectSampler for testing.
func ExportSampler(cfg Config) sdktrace.Sampler {
	return selectSampler(cfg)
}
