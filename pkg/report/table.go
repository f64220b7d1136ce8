package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/Sumatoshi-tech/pystyle/pkg/stylecheck"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
)

// Table renders the report as terminal tables: a summary followed by one
// table per finding category. Colors follow fatih/color's terminal
// detection.
func Table(w io.Writer, res *stylecheck.Result) error {
	sections := []string{
		summaryTable(res),
		docstringTable(res),
		namingTable(res),
		annotationTable(res),
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	if err != nil {
		return fmt.Errorf("write table: %w", err)
	}

	return nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.SetTitle(title)

	return tbl
}

func summaryTable(res *stylecheck.Result) string {
	tbl := newTable(res.File)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRow(table.Row{"Non-empty lines", res.Summary.NonEmptyLines})
	tbl.AppendRow(table.Row{"Packages imported", joinOrNone(res.Summary.Imports, res)})
	tbl.AppendRow(table.Row{"Classes defined", joinOrNone(res.Summary.Classes, res)})
	tbl.AppendRow(table.Row{"Top-level functions", joinOrNone(res.Summary.Functions, res)})

	source := "-"
	if res.StructureComputed {
		source = res.Summary.Strategy.Label()
	}

	tbl.AppendFooter(table.Row{"Source", source})

	return tbl.Render()
}

func docstringTable(res *stylecheck.Result) string {
	tbl := newTable("Docstrings")
	tbl.AppendHeader(table.Row{"Line", "Name", "Status"})

	if !res.TreeBuilt() {
		tbl.AppendRow(table.Row{"-", notComputed(res), failColor.Sprint("skipped")})

		return tbl.Render()
	}

	for _, entry := range res.Docs {
		status := okColor.Sprint("present")
		if !entry.Present {
			status = warnColor.Sprint("missing")
		}

		tbl.AppendRow(table.Row{entry.Line, entry.Name, status})
	}

	tbl.AppendFooter(table.Row{"", "Missing", strconv.Itoa(countMissing(res))})

	return tbl.Render()
}

func countMissing(res *stylecheck.Result) int {
	return res.Counts()[stylecheck.KindDocstring]
}

func namingTable(res *stylecheck.Result) string {
	tbl := newTable("Naming Convention Issues")
	tbl.AppendHeader(table.Row{"Line", "Kind", "Name"})

	for _, v := range res.Naming.Classes {
		tbl.AppendRow(table.Row{v.Line, "class", warnColor.Sprint(v.Name)})
	}

	for _, v := range res.Naming.Functions {
		tbl.AppendRow(table.Row{v.Line, "function", warnColor.Sprint(v.Name)})
	}

	if res.Naming.Empty() {
		tbl.AppendRow(table.Row{"-", "-", okColor.Sprint("none")})
	}

	return tbl.Render()
}

func annotationTable(res *stylecheck.Result) string {
	tbl := newTable("Type Annotation Check")
	tbl.AppendHeader(table.Row{"Line", "Function", "Untyped parameters", "Return type"})

	if !res.TreeBuilt() {
		tbl.AppendRow(table.Row{"-", notComputed(res), "", failColor.Sprint("skipped")})

		return tbl.Render()
	}

	for _, gap := range res.Annotations.Gaps {
		ret := okColor.Sprint("declared")
		if gap.MissingReturn {
			ret = warnColor.Sprint("missing")
		}

		tbl.AppendRow(table.Row{gap.Line, gap.Name, strings.Join(gap.Untyped, ", "), ret})
	}

	tbl.AppendFooter(table.Row{"", res.Annotations.Message(), "", ""})

	return tbl.Render()
}
