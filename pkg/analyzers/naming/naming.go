// Package naming checks class and function identifiers against naming
// conventions using classified lines only.
package naming

import (
	"regexp"

	"github.com/Sumatoshi-tech/pystyle/pkg/lexscan"
)

// Default patterns: CamelCase classes and snake_case functions.
const (
	DefaultClassPattern    = `^[A-Z][a-zA-Z0-9]*$`
	DefaultFunctionPattern = `^[a-z_][a-z0-9_]*$`
)

// Rules holds the compiled naming patterns.
type Rules struct {
	Class    *regexp.Regexp
	Function *regexp.Regexp
}

// DefaultRules returns the CamelCase and snake_case rules.
func DefaultRules() Rules {
	return Rules{
		Class:    regexp.MustCompile(DefaultClassPattern),
		Function: regexp.MustCompile(DefaultFunctionPattern),
	}
}

// Violation is one identifier that breaks its convention.
type Violation struct {
	Name string
	Line int
}

// Result lists the violations in file order.
type Result struct {
	Classes   []Violation
	Functions []Violation
	// Malformed counts headers skipped because no identifier could be read.
	Malformed int
}

// Empty reports whether no violation was found.
func (r Result) Empty() bool {
	return len(r.Classes) == 0 && len(r.Functions) == 0
}

// ClassNames returns the offending class names.
func (r Result) ClassNames() []string {
	return names(r.Classes)
}

// FunctionNames returns the offending function names.
func (r Result) FunctionNames() []string {
	return names(r.Functions)
}

func names(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Name)
	}

	return out
}

// Validate tests every class and def header, at any nesting. A header whose
// stripped text was already seen is not tested again.
func Validate(lines []lexscan.Classified, rules Rules) Result {
	var res Result

	seen := make(map[string]struct{})

	for _, line := range lines {
		if line.Kind != lexscan.KindClass && line.Kind != lexscan.KindFunction {
			continue
		}

		header := line.Stripped()
		if _, dup := seen[header]; dup {
			continue
		}

		seen[header] = struct{}{}

		name, err := lexscan.HeaderName(line.Text)
		if err != nil {
			res.Malformed++

			continue
		}

		violation := Violation{Name: name, Line: line.Index}

		switch line.Kind {
		case lexscan.KindClass:
			if !rules.Class.MatchString(name) {
				res.Classes = append(res.Classes, violation)
			}
		case lexscan.KindFunction:
			if !rules.Function.MatchString(name) {
				res.Functions = append(res.Functions, violation)
			}
		case lexscan.KindImport, lexscan.KindOther:
		}
	}

	return res
}
