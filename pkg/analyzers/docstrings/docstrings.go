// Package docstrings extracts the documentation string of every class,
// method and top-level function.
package docstrings

import (
	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
)

// NotFound is rendered in place of an absent docstring.
const NotFound = "DocString not found"

// Entry is the docstring of one definition.
type Entry struct {
	// Name is the class or function name, "Class.method" for methods.
	Name    string
	Text    string
	Line    int
	Present bool
}

// Render returns "name:\ntext\n" or "name: DocString not found\n".
func (e Entry) Render() string {
	if !e.Present {
		return e.Name + ": " + NotFound + "\n"
	}

	return e.Name + ":\n" + e.Text + "\n"
}

// Extract walks the module body in source order. A class yields its own
// entry followed by one entry per method; a function yields one entry.
func Extract(mod *pyast.Module) []Entry {
	var entries []Entry

	for _, stmt := range mod.Body() {
		switch def := stmt.(type) {
		case *pyast.ClassDef:
			entries = append(entries, Entry{Name: def.Name, Text: def.Doc, Line: def.Line, Present: def.HasDoc})

			for _, method := range def.Methods() {
				entries = append(entries, entryOf(def.Name+"."+method.Name, method))
			}
		case *pyast.FunctionDef:
			if !def.Async {
				entries = append(entries, entryOf(def.Name, def))
			}
		}
	}

	return entries
}

// Missing counts entries without a docstring.
func Missing(entries []Entry) int {
	n := 0

	for _, e := range entries {
		if !e.Present {
			n++
		}
	}

	return n
}

func entryOf(name string, fn *pyast.FunctionDef) Entry {
	return Entry{Name: name, Text: fn.Doc, Line: fn.Line, Present: fn.HasDoc}
}
