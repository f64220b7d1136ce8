// Package source holds the immutable text of one Python file and the
// line views derived from it.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/pystyle/pkg/textutil"
)

// Extension is the only file extension accepted for analysis.
const Extension = ".py"

// ErrNotPython is returned for file names without the Python extension.
var ErrNotPython = errors.New("not a python source file")

// Line is one physical line of a File.
type Line struct {
	// Text is the raw line without its terminator.
	Text string
	// Index is the 1-based line number.
	Index int
	// Depth is the width of the leading whitespace.
	Depth int
}

// Stripped returns the line with surrounding whitespace removed.
func (l Line) Stripped() string {
	return textutil.Strip(l.Text)
}

// IsBlank reports whether the line has no content after stripping.
func (l Line) IsBlank() bool {
	return textutil.IsBlank(l.Text)
}

// File is the raw text of one source file. It is never mutated after New.
type File struct {
	name  string
	text  string
	lines []Line
}

// New validates name and wraps content. Line terminators are normalized
// to "\n".
func New(name string, content []byte) (*File, error) {
	if !strings.HasSuffix(name, Extension) {
		return nil, fmt.Errorf("%w: %s", ErrNotPython, name)
	}

	text := textutil.NormalizeNewlines(string(content))

	return &File{
		name:  filepath.Base(name),
		text:  text,
		lines: splitLines(text),
	}, nil
}

// Name returns the bare file name.
func (f *File) Name() string { return f.name }

// Text returns the normalized source text.
func (f *File) Text() string { return f.text }

// Lines returns the physical lines. The returned slice must not be modified.
func (f *File) Lines() []Line { return f.lines }

// NonEmptyLineCount returns the number of lines whose stripped form is
// non-empty. It never depends on the file being parseable.
func (f *File) NonEmptyLineCount() int {
	count := 0

	for _, line := range f.lines {
		if !line.IsBlank() {
			count++
		}
	}

	return count
}

func splitLines(text string) []Line {
	if text == "" {
		return nil
	}

	raw := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	lines := make([]Line, 0, len(raw))

	for i, item := range raw {
		lines = append(lines, Line{
			Text:  item,
			Index: i + 1,
			Depth: len(item) - len(textutil.LeftStrip(item)),
		})
	}

	return lines
}
