package lsp

import (
	"fmt"
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Sumatoshi-tech/pystyle/pkg/safeconv"
	"github.com/Sumatoshi-tech/pystyle/pkg/source"
	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

// Source is the diagnostic source shown by editors.
const Source = "pystyle"

// Diagnostic codes, one per finding kind.
const (
	CodeClassName    = "class-name"
	CodeFunctionName = "function-name"
	CodeDocstring    = "missing-docstring"
	CodeAnnotation   = "missing-annotation"
	CodeSyntax       = "syntax-error"
)

const byteOrderMark = "\ufeff"

// Diagnostics converts one analysis result into LSP diagnostics. Lines in
// res are 1-based; LSP positions are 0-based.
func Diagnostics(file *source.File, res *stylecheck.Result) []protocol.Diagnostic {
	diags := make([]protocol.Diagnostic, 0)

	if res.ParseErr != nil {
		pe := res.ParseErr
		start := protocol.Position{Line: zeroBased(pe.Line), Character: utf16Column(file, pe.Line, pe.Column)}

		diags = append(diags, newDiagnostic(
			protocol.Range{Start: start, End: start},
			protocol.DiagnosticSeverityError, CodeSyntax, "Syntax error: "+pe.Msg,
		))
	}

	for _, v := range res.Naming.Classes {
		diags = append(diags, newDiagnostic(lineRange(file, v.Line),
			protocol.DiagnosticSeverityWarning, CodeClassName,
			fmt.Sprintf("Class name %q does not follow the CamelCase convention", v.Name)))
	}

	for _, v := range res.Naming.Functions {
		diags = append(diags, newDiagnostic(lineRange(file, v.Line),
			protocol.DiagnosticSeverityWarning, CodeFunctionName,
			fmt.Sprintf("Function name %q does not follow the snake_case convention", v.Name)))
	}

	for _, entry := range res.Docs {
		if entry.Present {
			continue
		}

		diags = append(diags, newDiagnostic(lineRange(file, entry.Line),
			protocol.DiagnosticSeverityInformation, CodeDocstring,
			entry.Name+": DocString not found"))
	}

	for _, gap := range res.Annotations.Gaps {
		diags = append(diags, newDiagnostic(lineRange(file, gap.Line),
			protocol.DiagnosticSeverityWarning, CodeAnnotation, gapMessage(gap.Name, gap.Untyped, gap.MissingReturn)))
	}

	return diags
}

func gapMessage(name string, untyped []string, missingReturn bool) string {
	var parts []string

	if len(untyped) > 0 {
		parts = append(parts, "untyped parameters: "+strings.Join(untyped, ", "))
	}

	if missingReturn {
		parts = append(parts, "no return type")
	}

	return fmt.Sprintf("Function %q lacks type annotations (%s)", name, strings.Join(parts, "; "))
}

func newDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, code, msg string) protocol.Diagnostic {
	src := Source

	return protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &src,
		Message:  msg,
	}
}

// lineRange spans the whole of a 1-based line, measured in UTF-16 units.
func lineRange(file *source.File, line int) protocol.Range {
	var width protocol.UInteger

	lines := file.Lines()
	if line >= 1 && line <= len(lines) {
		width = safeconv.ClampIntToUint32(len(utf16.Encode([]rune(lines[line-1].Text))))
	}

	return protocol.Range{
		Start: protocol.Position{Line: zeroBased(line)},
		End:   protocol.Position{Line: zeroBased(line), Character: width},
	}
}

// utf16Column converts a 1-based byte column of a 1-based line into a
// 0-based LSP character offset. The parser does not see a leading byte
// order mark, so it is dropped from the first line before measuring.
func utf16Column(file *source.File, line, column int) protocol.UInteger {
	lines := file.Lines()
	if line < 1 || line > len(lines) {
		return zeroBased(column)
	}

	text := lines[line-1].Text
	if line == 1 {
		text = strings.TrimPrefix(text, byteOrderMark)
	}

	prefix := text[:min(max(column-1, 0), len(text))]

	return safeconv.ClampIntToUint32(len(utf16.Encode([]rune(prefix))))
}

func zeroBased(n int) protocol.UInteger {
	return safeconv.ClampIntToUint32(n - 1)
}
