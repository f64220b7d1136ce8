package pyast

import "slices"

// Inspect calls fn for every statement of the tree in source order,
// descending into class and function scopes.
func Inspect(mod *Module, fn func(Stmt)) {
	inspectAll(mod.Stmts, fn)
}

func inspectAll(stmts []Stmt, fn func(Stmt)) {
	for _, stmt := range stmts {
		fn(stmt)

		switch def := stmt.(type) {
		case *ClassDef:
			inspectAll(def.Stmts, fn)
		case *FunctionDef:
			inspectAll(def.Stmts, fn)
		}
	}
}

// Functions returns every function of the tree, async ones included,
// breadth-first by nesting level and in source order within a level.
func Functions(mod *Module) []*FunctionDef {
	var fns []*FunctionDef

	Inspect(mod, func(stmt Stmt) {
		if fn, ok := stmt.(*FunctionDef); ok {
			fns = append(fns, fn)
		}
	})

	slices.SortStableFunc(fns, func(a, b *FunctionDef) int {
		return a.Level - b.Level
	})

	return fns
}
