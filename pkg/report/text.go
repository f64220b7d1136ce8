package report

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

const (
	rule              = "==========================="
	noneSentinel      = "None"
	notComputedPrefix = "Not computed: "

	classesSatisfied   = "All class names follow the CamelCase convention."
	functionsSatisfied = "All function names follow the snake_case convention."
)

// Text renders the plain text report: header, structural summary,
// docstrings, naming issues and the annotation check, in that order,
// followed by the Analysis Notes section when opts.Notes is set.
func Text(res *stylecheck.Result, opts Options) string {
	var sb strings.Builder

	writeSection(&sb, "Python File Analysis Report")
	writeSummary(&sb, res)
	writeSection(&sb, "Docstrings:")
	writeDocstrings(&sb, res)
	writeSection(&sb, "Naming Convention Issues:")
	writeNaming(&sb, res)
	writeSection(&sb, "Type Annotation Check:")
	writeAnnotations(&sb, res)

	if opts.Notes {
		sb.WriteString("\n")
		writeSection(&sb, "Analysis Notes:")
		writeNotes(&sb, res)
	}

	return sb.String()
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(title + "\n" + rule + "\n")
}

func writeSummary(sb *strings.Builder, res *stylecheck.Result) {
	fmt.Fprintf(sb, "Total non-empty lines: %d\n", res.Summary.NonEmptyLines)

	lists := []struct {
		label string
		items []string
	}{
		{"Packages imported", res.Summary.Imports},
		{"Classes defined", res.Summary.Classes},
		{"Top-level functions", res.Summary.Functions},
	}

	for _, list := range lists {
		fmt.Fprintf(sb, "%s: %s\n", list.label, joinOrNone(list.items, res))
	}

	sb.WriteString("\n")
}

func joinOrNone(items []string, res *stylecheck.Result) string {
	switch {
	case !res.StructureComputed:
		return notComputed(res)
	case len(items) == 0:
		return noneSentinel
	default:
		return strings.Join(items, ", ")
	}
}

func notComputed(res *stylecheck.Result) string {
	if res.ParseErr == nil {
		return notComputedPrefix + "syntax tree unavailable"
	}

	return notComputedPrefix + "syntax error at " + res.ParseErr.Error()
}

func writeDocstrings(sb *strings.Builder, res *stylecheck.Result) {
	if !res.TreeBuilt() {
		sb.WriteString(notComputed(res) + "\n\n")

		return
	}

	for _, entry := range res.Docs {
		sb.WriteString(entry.Render() + "\n")
	}
}

func writeNaming(sb *strings.Builder, res *stylecheck.Result) {
	writeViolations(sb, "Incorrect Class Names:", res.Naming.ClassNames(), classesSatisfied)
	writeViolations(sb, "Incorrect Function Names:", res.Naming.FunctionNames(), functionsSatisfied)
}

func writeViolations(sb *strings.Builder, heading string, names []string, satisfied string) {
	if len(names) == 0 {
		sb.WriteString(satisfied + "\n")

		return
	}

	sb.WriteString(heading + "\n")

	for _, name := range names {
		sb.WriteString("- " + name + "\n")
	}
}

func writeAnnotations(sb *strings.Builder, res *stylecheck.Result) {
	if !res.TreeBuilt() {
		sb.WriteString(notComputed(res) + "\n")

		return
	}

	sb.WriteString(res.Annotations.Message() + "\n")
}

func writeNotes(sb *strings.Builder, res *stylecheck.Result) {
	switch {
	case !res.StructureComputed:
		sb.WriteString("Structure source: none\n")
	case res.TreeBuilt():
		sb.WriteString("Structure source: " + res.Summary.Strategy.Label() + "\n")
	default:
		sb.WriteString("Structure source: " + res.Summary.Strategy.Label() + " (syntax tree unavailable)\n")
	}

	if res.TreeBuilt() && len(res.Mismatches) == 0 {
		sb.WriteString("Line scan agrees with the syntax tree.\n")
	}

	for _, mismatch := range res.Mismatches {
		fmt.Fprintf(sb, "Line scan disagrees on %s (- syntax tree, + line scan):\n%s\n", mismatch.Field, mismatch.Diff)
	}

	if res.ParseErr != nil {
		sb.WriteString("Parse error: " + res.ParseErr.Error() + "\n")
		sb.WriteString("Sections not computed: docstrings, type annotations\n")
	}

	if res.Naming.Malformed > 0 {
		fmt.Fprintf(sb, "Headers skipped by the naming check: %d\n", res.Naming.Malformed)
	}
}
