package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/pystyle/pkg/source"
)

// Tool name constants.
const (
	ToolNameCheck  = "pystyle_check"
	ToolNameReport = "pystyle_report"
)

// Input limits and defaults.
const (
	// MaxCodeInputBytes is the maximum allowed size for inline code input (1 MB).
	MaxCodeInputBytes = 1 << 20

	defaultFilename = "snippet.py"
)

// Sentinel errors for tool input validation.
var (
	// ErrCodeTooLarge indicates the code input exceeds the size limit.
	ErrCodeTooLarge = errors.New("code input exceeds maximum size")
	// ErrInvalidFilename indicates a filename that is not a Python file.
	ErrInvalidFilename = errors.New("filename must end in .py")
)

// CheckInput is the input schema for the pystyle_check tool.
type CheckInput struct {
	Code     string `json:"code"               jsonschema:"Python source code to check"`
	Filename string `json:"filename,omitempty" jsonschema:"file name shown in the result (default: snippet.py)"`
	Strict   bool   `json:"strict,omitempty"   jsonschema:"report structure as not computed when the code does not parse"`
}

// ReportInput is the input schema for the pystyle_report tool.
type ReportInput struct {
	Code     string `json:"code"               jsonschema:"Python source code to report on"`
	Filename string `json:"filename,omitempty" jsonschema:"file name shown in the report (default: snippet.py)"`
	Format   string `json:"format,omitempty"   jsonschema:"text, json, yaml or table (default: text)"`
	NoNotes  bool   `json:"no_notes,omitempty" jsonschema:"omit the Analysis Notes section of the text report"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// textResult builds a CallToolResult with plain text content.
func textResult(text string) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: text},
		},
	}, ToolOutput{Data: text}, nil
}

// loadInput validates the inline code and wraps it as a source file. Empty
// code is a valid empty module.
func loadInput(code, filename string) (*source.File, error) {
	if len(code) > MaxCodeInputBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrCodeTooLarge, len(code), MaxCodeInputBytes)
	}

	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = defaultFilename
	}

	if !strings.HasSuffix(filename, source.Extension) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFilename, filename)
	}

	file, err := source.New(filename, []byte(code))
	if err != nil {
		return nil, fmt.Errorf("load code: %w", err)
	}

	return file, nil
}
