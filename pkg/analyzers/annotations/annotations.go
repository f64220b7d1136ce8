// Package annotations verifies that functions declare parameter and return
// types.
package annotations

import (
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
)

// Default receiver names and initializer.
const (
	DefaultInitializer = "__init__"

	satisfiedMessage = "All functions and methods use type annotations."
	gapsPrefix       = "Functions without type annotations: "
)

// DefaultReceivers returns the receiver names exempt from typing. Only the
// instance receiver is exempt by default; class receivers such as cls are
// opt-in.
func DefaultReceivers() []string {
	return []string{"self"}
}

// Options configures the check.
type Options struct {
	// Receivers are first-parameter names of methods exempt from typing.
	Receivers []string
	// Initializer is the function name exempt from the return type rule.
	Initializer string
}

// DefaultOptions returns the conventional receivers and initializer.
func DefaultOptions() Options {
	return Options{Receivers: DefaultReceivers(), Initializer: DefaultInitializer}
}

// Gap is one function missing at least one annotation.
type Gap struct {
	Name string
	// Untyped lists the non-receiver parameters without a declared type.
	Untyped       []string
	Line          int
	MissingReturn bool
}

// Result holds the gaps in walk order.
type Result struct {
	Gaps []Gap
}

// Names returns the names of the functions with gaps.
func (r Result) Names() []string {
	out := make([]string, 0, len(r.Gaps))
	for _, g := range r.Gaps {
		out = append(out, g.Name)
	}

	return out
}

// Message returns the one-line verdict.
func (r Result) Message() string {
	if len(r.Gaps) == 0 {
		return satisfiedMessage
	}

	return gapsPrefix + strings.Join(r.Names(), ", ")
}

// Check visits every non-async function at any depth, breadth-first by
// nesting level.
func Check(mod *pyast.Module, opts Options) Result {
	var res Result

	for _, fn := range pyast.Functions(mod) {
		if fn.Async {
			continue
		}

		if gap, ok := inspect(fn, opts); ok {
			res.Gaps = append(res.Gaps, gap)
		}
	}

	return res
}

func inspect(fn *pyast.FunctionDef, opts Options) (Gap, bool) {
	gap := Gap{Name: fn.Name, Line: fn.Line}

	for i, param := range fn.Params {
		if i == 0 && fn.InClass && slices.Contains(opts.Receivers, param.Name) {
			continue
		}

		if !param.HasType {
			gap.Untyped = append(gap.Untyped, param.Name)
		}
	}

	gap.MissingReturn = !fn.HasReturns && fn.Name != opts.Initializer

	return gap, gap.MissingReturn || len(gap.Untyped) > 0
}
