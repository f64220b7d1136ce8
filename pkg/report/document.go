package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

const yamlIndent = 2

// Document is the structured form of a report, shared by the JSON and
// YAML formats and the MCP tools.
type Document struct {
	File        string             `json:"file"                          yaml:"file"`
	Structure   StructureSection   `json:"structure"                     yaml:"structure"`
	Counts      Counts             `json:"counts"                        yaml:"counts"`
	Docstrings  DocstringSection   `json:"docstrings"                    yaml:"docstrings"`
	Naming      NamingSection      `json:"naming"                        yaml:"naming"`
	Annotations AnnotationSection  `json:"annotations"                   yaml:"annotations"`
	Mismatches  []StrategyMismatch `json:"strategy_mismatches,omitempty" yaml:"strategy_mismatches,omitempty"`
	ParseError  *ParseErrorInfo    `json:"parse_error,omitempty"         yaml:"parse_error,omitempty"`
}

// StructureSection is the structural summary.
type StructureSection struct {
	Strategy          string   `json:"strategy"            yaml:"strategy"`
	Imports           []string `json:"imports"             yaml:"imports"`
	Classes           []string `json:"classes"             yaml:"classes"`
	TopLevelFunctions []string `json:"top_level_functions" yaml:"top_level_functions"`
	NonEmptyLines     int      `json:"non_empty_lines"     yaml:"non_empty_lines"`
	Computed          bool     `json:"computed"            yaml:"computed"`
}

// Counts are the per-category totals.
type Counts struct {
	NonEmptyLines     int `json:"non_empty_lines"     yaml:"non_empty_lines"`
	Imports           int `json:"imports"             yaml:"imports"`
	Classes           int `json:"classes"             yaml:"classes"`
	TopLevelFunctions int `json:"top_level_functions" yaml:"top_level_functions"`
	NamingViolations  int `json:"naming_violations"   yaml:"naming_violations"`
	MissingDocstrings int `json:"missing_docstrings"  yaml:"missing_docstrings"`
	AnnotationGaps    int `json:"annotation_gaps"     yaml:"annotation_gaps"`
}

// DocstringSection lists the docstring entries.
type DocstringSection struct {
	Entries  []DocstringEntry `json:"entries"  yaml:"entries"`
	Computed bool             `json:"computed" yaml:"computed"`
}

// DocstringEntry is one class, method or function docstring.
type DocstringEntry struct {
	Name    string `json:"name"           yaml:"name"`
	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
	Line    int    `json:"line"           yaml:"line"`
	Present bool   `json:"present"        yaml:"present"`
}

// NamingSection lists naming violations.
type NamingSection struct {
	Classes          []NamedLine `json:"classes"           yaml:"classes"`
	Functions        []NamedLine `json:"functions"         yaml:"functions"`
	MalformedHeaders int         `json:"malformed_headers" yaml:"malformed_headers"`
}

// NamedLine is a name and its 1-based line.
type NamedLine struct {
	Name string `json:"name" yaml:"name"`
	Line int    `json:"line" yaml:"line"`
}

// AnnotationSection lists annotation gaps.
type AnnotationSection struct {
	Message  string          `json:"message"  yaml:"message"`
	Gaps     []AnnotationGap `json:"gaps"     yaml:"gaps"`
	Computed bool            `json:"computed" yaml:"computed"`
}

// AnnotationGap is one function missing annotations.
type AnnotationGap struct {
	Name          string   `json:"name"                      yaml:"name"`
	Untyped       []string `json:"untyped_params,omitempty"  yaml:"untyped_params,omitempty"`
	Line          int      `json:"line"                      yaml:"line"`
	MissingReturn bool     `json:"missing_return"            yaml:"missing_return"`
}

// StrategyMismatch is a summary field on which the two strategies disagree.
type StrategyMismatch struct {
	Field string   `json:"field"      yaml:"field"`
	Tree  []string `json:"syntax_tree" yaml:"syntax_tree"`
	Lines []string `json:"line_scan"  yaml:"line_scan"`
	Diff  string   `json:"diff"       yaml:"diff"`
}

// ParseErrorInfo locates a syntax error.
type ParseErrorInfo struct {
	Message string `json:"message" yaml:"message"`
	Line    int    `json:"line"    yaml:"line"`
	Column  int    `json:"column"  yaml:"column"`
}

// NewDocument converts a result. Lists are never nil so that empty
// sections encode as [] rather than null.
func NewDocument(res *stylecheck.Result) *Document {
	doc := &Document{
		File: res.File,
		Structure: StructureSection{
			Strategy:          string(res.Summary.Strategy),
			Imports:           orEmpty(res.Summary.Imports),
			Classes:           orEmpty(res.Summary.Classes),
			TopLevelFunctions: orEmpty(res.Summary.Functions),
			NonEmptyLines:     res.Summary.NonEmptyLines,
			Computed:          res.StructureComputed,
		},
		Docstrings:  DocstringSection{Entries: []DocstringEntry{}, Computed: res.TreeBuilt()},
		Naming:      NamingSection{Classes: []NamedLine{}, Functions: []NamedLine{}, MalformedHeaders: res.Naming.Malformed},
		Annotations: AnnotationSection{Gaps: []AnnotationGap{}, Computed: res.TreeBuilt()},
	}

	for _, e := range res.Docs {
		doc.Docstrings.Entries = append(doc.Docstrings.Entries,
			DocstringEntry{Name: e.Name, Text: e.Text, Line: e.Line, Present: e.Present})
	}

	for _, v := range res.Naming.Classes {
		doc.Naming.Classes = append(doc.Naming.Classes, NamedLine{Name: v.Name, Line: v.Line})
	}

	for _, v := range res.Naming.Functions {
		doc.Naming.Functions = append(doc.Naming.Functions, NamedLine{Name: v.Name, Line: v.Line})
	}

	if res.TreeBuilt() {
		doc.Annotations.Message = res.Annotations.Message()
	} else {
		doc.Annotations.Message = notComputed(res)
	}

	for _, g := range res.Annotations.Gaps {
		doc.Annotations.Gaps = append(doc.Annotations.Gaps,
			AnnotationGap{Name: g.Name, Untyped: g.Untyped, Line: g.Line, MissingReturn: g.MissingReturn})
	}

	for _, m := range res.Mismatches {
		doc.Mismatches = append(doc.Mismatches,
			StrategyMismatch{Field: m.Field, Tree: orEmpty(m.Tree), Lines: orEmpty(m.Lines), Diff: m.Diff})
	}

	if res.ParseErr != nil {
		doc.ParseError = &ParseErrorInfo{Message: res.ParseErr.Msg, Line: res.ParseErr.Line, Column: res.ParseErr.Column}
	}

	counts := res.Counts()
	doc.Counts = Counts{
		NonEmptyLines:     res.Summary.NonEmptyLines,
		Imports:           len(res.Summary.Imports),
		Classes:           len(res.Summary.Classes),
		TopLevelFunctions: len(res.Summary.Functions),
		NamingViolations:  counts[stylecheck.KindNaming],
		MissingDocstrings: counts[stylecheck.KindDocstring],
		AnnotationGaps:    counts[stylecheck.KindAnnotation],
	}

	return doc
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}

	return items
}

// JSON encodes the document with two-space indentation and a trailing
// newline.
func (d *Document) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return append(data, '\n'), nil
}

// YAML encodes the document.
func (d *Document) YAML() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)

	err := enc.Encode(d)
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	err = enc.Close()
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}
