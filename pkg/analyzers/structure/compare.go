package structure

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary fields compared between strategies.
const (
	FieldImports   = "imports"
	FieldClasses   = "classes"
	FieldFunctions = "top_level_functions"
)

// Mismatch is one summary field on which the two strategies disagree.
type Mismatch struct {
	Field string
	Tree  []string
	Lines []string
	// Diff lists the entries only the tree saw with "-" and the entries only
	// the line scan saw with "+", common entries with a leading space.
	Diff string
}

// Compare returns the fields on which tree and lines disagree, in
// imports, classes, functions order.
func Compare(tree, lines Summary) []Mismatch {
	fields := []struct {
		name        string
		tree, lines []string
	}{
		{FieldImports, tree.Imports, lines.Imports},
		{FieldClasses, tree.Classes, lines.Classes},
		{FieldFunctions, tree.Functions, lines.Functions},
	}

	var out []Mismatch

	for _, field := range fields {
		if slices.Equal(field.tree, field.lines) {
			continue
		}

		out = append(out, Mismatch{
			Field: field.name,
			Tree:  field.tree,
			Lines: field.lines,
			Diff:  lineDiff(field.tree, field.lines),
		})
	}

	return out
}

func lineDiff(tree, lines []string) string {
	dmp := diffmatchpatch.New()

	treeText, linesText, lineArray := dmp.DiffLinesToChars(joinLines(tree), joinLines(lines))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(treeText, linesText, false), lineArray)

	var sb strings.Builder

	for _, diff := range diffs {
		marker := " "

		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			marker = "-"
		case diffmatchpatch.DiffInsert:
			marker = "+"
		case diffmatchpatch.DiffEqual:
		}

		for entry := range strings.SplitSeq(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			sb.WriteString(marker)
			sb.WriteString(entry)
			sb.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func joinLines(items []string) string {
	if len(items) == 0 {
		return ""
	}

	return strings.Join(items, "\n") + "\n"
}
