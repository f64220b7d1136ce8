// Package report renders analysis results as text, JSON, YAML or a
// terminal table, and names the report files.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

const fileNamePrefix = "style_report_"

// ErrUnsupportedFormat indicates the requested output format is not supported.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTable}
}

// ParseFormat canonicalizes a user-provided format name. "yml" is accepted
// for YAML.
func ParseFormat(name string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "yml" {
		normalized = FormatYAML
	}

	if !slices.Contains(Formats(), normalized) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	return normalized, nil
}

// Extension returns the file extension of the format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatText, FormatTable:
		return ".txt"
	default:
		return ".txt"
	}
}

// FileName returns the report file name for an analyzed file:
// "style_report_<name>" plus the format extension.
func FileName(name string, format Format) string {
	return fileNamePrefix + name + format.Extension()
}

// Options tunes rendering.
type Options struct {
	// Notes appends the Analysis Notes section to text reports.
	Notes bool
}

// Write renders res in format to w.
func Write(w io.Writer, res *stylecheck.Result, format Format, opts Options) error {
	var err error

	switch format {
	case FormatText:
		_, err = io.WriteString(w, Text(res, opts))
	case FormatJSON:
		var data []byte

		data, err = NewDocument(res).JSON()
		if err == nil {
			_, err = w.Write(data)
		}
	case FormatYAML:
		var data []byte

		data, err = NewDocument(res).YAML()
		if err == nil {
			_, err = w.Write(data)
		}
	case FormatTable:
		err = Table(w, res)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if err != nil {
		return fmt.Errorf("write %s report: %w", format, err)
	}

	return nil
}
