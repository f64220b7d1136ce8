// Package lexscan classifies raw source lines by textual prefix rules only.
// It never fails: lines it cannot make sense of are classified as other.
package lexscan

import (
	"strings"

	"github.com/Sumatoshi-tech/pystyle/pkg/source"
)

// Kind is the classification of one line.
type Kind int

// Line kinds.
const (
	KindOther Kind = iota
	KindImport
	KindClass
	KindFunction
)

const (
	importPrefix     = "import "
	fromImportPrefix = "from "
	classPrefix      = "class "
	defPrefix        = "def "
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindClass:
		return "class"
	case KindFunction:
		return "function"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Classified is a line together with its classification.
type Classified struct {
	source.Line

	Kind Kind

	// TopLevel is set on function lines seen outside a class body whose raw
	// text starts with the def keyword.
	TopLevel bool
}

// Classify scans every line of file once. The inside-class flag is raised
// by a class header and cleared by the next blank line, so a class body
// that contains a blank line is only tracked up to that line.
func Classify(file *source.File) []Classified {
	lines := file.Lines()
	out := make([]Classified, 0, len(lines))
	insideClass := false

	for _, line := range lines {
		stripped := line.Stripped()
		item := Classified{Line: line, Kind: KindOther}

		switch {
		case strings.HasPrefix(stripped, importPrefix), strings.HasPrefix(stripped, fromImportPrefix):
			item.Kind = KindImport
		case strings.HasPrefix(stripped, classPrefix):
			item.Kind = KindClass
			insideClass = true
		case strings.HasPrefix(stripped, defPrefix):
			item.Kind = KindFunction
			item.TopLevel = !insideClass && strings.HasPrefix(line.Text, defPrefix)
		case stripped == "":
			insideClass = false
		}

		out = append(out, item)
	}

	return out
}
