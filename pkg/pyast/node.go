// Package pyast builds a small syntax tree of Python modules: imports,
// classes and functions with their parameters, return types and
// docstrings. Everything else in the source is skipped.
package pyast

import "strings"

// Node carries the position data shared by every statement.
type Node struct {
	// Line and Column are 1-based.
	Line   int
	Column int

	// Level is the syntactic nesting level: statements of the module body
	// are level 1, the body of a def or class adds one, and compound
	// statements add one per block (two for except and case clauses).
	Level int

	// Guarded is set when the statement sits inside a compound statement
	// (if, for, while, try, with, match) of its scope instead of directly in
	// the scope body.
	Guarded bool
}

func (n *Node) node() *Node { return n }

// Stmt is a statement kept in the tree: *ImportStmt, *ClassDef or *FunctionDef.
type Stmt interface {
	node() *Node
}

// Module is the root of a parsed file.
type Module struct {
	// Stmts holds every statement of the module scope in source order,
	// including those inside compound statements.
	Stmts []Stmt
}

// Body returns the statements directly in the module body.
func (m *Module) Body() []Stmt {
	return direct(m.Stmts)
}

// ImportName is one imported name and its optional alias.
type ImportName struct {
	Name  string
	Alias string
}

// ImportStmt is a plain import or a from-import.
type ImportStmt struct {
	Node

	// Module is the source module of a from-import, without leading dots.
	Module string
	// RelativeLevel is the number of leading dots of a relative import.
	RelativeLevel int
	Names         []ImportName
	From          bool
}

// Display renders the statement as "a, b" or "module: a, b". Aliases are
// not shown; relative imports without a module render as ": name".
func (s *ImportStmt) Display() string {
	names := make([]string, 0, len(s.Names))
	for _, item := range s.Names {
		names = append(names, item.Name)
	}

	joined := strings.Join(names, ", ")
	if !s.From {
		return joined
	}

	return s.Module + ": " + joined
}

// ClassDef is a class definition.
type ClassDef struct {
	Node

	Name string
	// Stmts holds the definitions of the class scope in source order.
	Stmts []Stmt
	// Doc is the cleaned docstring, valid when HasDoc is set.
	Doc    string
	HasDoc bool
	// Depth counts the enclosing class and def scopes.
	Depth int
}

// Body returns the statements directly in the class body.
func (c *ClassDef) Body() []Stmt {
	return direct(c.Stmts)
}

// Methods returns the non-async functions defined directly in the class body.
func (c *ClassDef) Methods() []*FunctionDef {
	var methods []*FunctionDef

	for _, stmt := range c.Body() {
		if fn, ok := stmt.(*FunctionDef); ok && !fn.Async {
			methods = append(methods, fn)
		}
	}

	return methods
}

// ParamKind tells how a parameter binds arguments.
type ParamKind int

// Parameter kinds.
const (
	ParamPositional ParamKind = iota
	ParamPositionalOnly
	ParamVarPositional
	ParamKeywordOnly
	ParamVarKeyword
)

// Param is one named parameter of a function.
type Param struct {
	Name    string
	Type    string
	Kind    ParamKind
	HasType bool
}

// FunctionDef is a function or method definition.
type FunctionDef struct {
	Node

	Name    string
	Params  []Param
	Returns string
	// Stmts holds the definitions nested in the function in source order.
	Stmts []Stmt
	Doc   string
	// Depth counts the enclosing class and def scopes: 0 for top-level
	// functions, 1 for methods.
	Depth      int
	HasReturns bool
	HasDoc     bool
	// InClass is set when the enclosing scope is a class body.
	InClass bool
	Async   bool
}

func direct(stmts []Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))

	for _, stmt := range stmts {
		if !stmt.node().Guarded {
			out = append(out, stmt)
		}
	}

	return out
}
