// Package structure produces the structural summary of a file: non-empty
// line count, imports, classes and top-level functions. Two strategies are
// available, one over the syntax tree and one over classified lines.
package structure

import (
	"github.com/Sumatoshi-tech/pystyle/pkg/lexscan"
	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
	"github.com/Sumatoshi-tech/pystyle/pkg/source"
)

// Strategy names the analysis that produced a summary.
type Strategy string

// Strategies.
const (
	StrategyTree  Strategy = "syntax_tree"
	StrategyLines Strategy = "line_scan"
)

// Label returns a human readable strategy name.
func (s Strategy) Label() string {
	switch s {
	case StrategyTree:
		return "syntax tree"
	case StrategyLines:
		return "line scan"
	default:
		return string(s)
	}
}

// Summary is the structural digest of one file.
type Summary struct {
	Strategy      Strategy
	Imports       []string
	Classes       []string
	Functions     []string
	NonEmptyLines int
}

// Summarizer produces a Summary.
type Summarizer interface {
	Summarize() Summary
}

// TreeSummarizer reads the lists from the direct module body.
type TreeSummarizer struct {
	file *source.File
	mod  *pyast.Module
}

// NewTreeSummarizer returns a summarizer over a parsed module.
func NewTreeSummarizer(file *source.File, mod *pyast.Module) *TreeSummarizer {
	return &TreeSummarizer{file: file, mod: mod}
}

// Summarize implements Summarizer. Async functions are not listed.
func (ts *TreeSummarizer) Summarize() Summary {
	sum := Summary{Strategy: StrategyTree, NonEmptyLines: ts.file.NonEmptyLineCount()}

	for _, stmt := range ts.mod.Body() {
		switch def := stmt.(type) {
		case *pyast.ImportStmt:
			sum.Imports = append(sum.Imports, def.Display())
		case *pyast.ClassDef:
			sum.Classes = append(sum.Classes, def.Name)
		case *pyast.FunctionDef:
			if !def.Async {
				sum.Functions = append(sum.Functions, def.Name)
			}
		}
	}

	return sum
}

// LineSummarizer reads the lists from classified lines. Only unindented
// import and class lines count, and functions follow the classifier's
// top-level flag.
type LineSummarizer struct {
	file  *source.File
	lines []lexscan.Classified
}

// NewLineSummarizer returns a summarizer over classified lines.
func NewLineSummarizer(file *source.File, lines []lexscan.Classified) *LineSummarizer {
	return &LineSummarizer{file: file, lines: lines}
}

// Summarize implements Summarizer. Headers without a name are skipped.
func (ls *LineSummarizer) Summarize() Summary {
	sum := Summary{Strategy: StrategyLines, NonEmptyLines: ls.file.NonEmptyLineCount()}

	for _, line := range ls.lines {
		switch {
		case line.Kind == lexscan.KindImport && line.Depth == 0:
			if display, ok := lexscan.ImportDisplay(line.Text); ok {
				sum.Imports = append(sum.Imports, display)
			}
		case line.Kind == lexscan.KindClass && line.Depth == 0:
			if name, err := lexscan.HeaderName(line.Text); err == nil {
				sum.Classes = append(sum.Classes, name)
			}
		case line.Kind == lexscan.KindFunction && line.TopLevel:
			if name, err := lexscan.HeaderName(line.Text); err == nil {
				sum.Functions = append(sum.Functions, name)
			}
		}
	}

	return sum
}
