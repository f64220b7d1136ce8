package report

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// ErrInvalidReport is returned when a JSON report does not match the schema.
var ErrInvalidReport = errors.New("invalid report")

// Schema returns the JSON Schema of the JSON report format.
func Schema() string {
	return schemaJSON
}

// ValidateJSON checks a JSON report against the embedded schema. Every
// violation is listed in the returned error.
func ValidateJSON(data []byte) error {
	problems, err := Violations(data)
	if err != nil {
		return err
	}

	if len(problems) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(problems, "; "))
}

// Violations returns one description per schema violation of a JSON
// report. The error is set only when data is not JSON at all.
func Violations(data []byte) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate report: %w", err)
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return problems, nil
}
