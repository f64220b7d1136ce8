package pyast

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

const (
	typeModule          = "module"
	typePrintStatement  = "print_statement"
	typeExecStatement   = "exec_statement"
	typeArgumentList    = "argument_list"
	typeListSplatArg    = "list_splat"
	typeDictSplatArg    = "dictionary_splat"
	typeKeywordArgument = "keyword_argument"
)

// Messages match the wording CPython uses for the same errors.
const (
	msgNullByte         = "source code cannot contain null bytes"
	msgPrint            = "Missing parentheses in call to 'print'. Did you mean print(...)?"
	msgExec             = "Missing parentheses in call to 'exec'. Did you mean exec(...)?"
	msgUnexpectedIndent = "unexpected indent"
	msgUnindent         = "unindent does not match any outer indentation level"
	msgUnpackOrder      = "iterable argument unpacking follows keyword argument unpacking"
	msgPositionalAfter  = "positional argument follows keyword argument"
	msgPositionalUnpack = "positional argument follows keyword argument unpacking"
)

// validate rejects constructs the grammar accepts but Python 3 does not:
// Python 2 print and exec statements, statements of one suite that start
// on different columns, and call arguments out of order. It reports the
// first offending node in source order.
func validate(n sitter.Node) *ParseError {
	switch n.Type() {
	case typePrintStatement:
		return errorAt(n, msgPrint)
	case typeExecStatement:
		return errorAt(n, msgExec)
	}

	var check func(child sitter.Node) *ParseError

	switch n.Type() {
	case typeModule, typeBlock:
		check = suiteChecker(n)
	case typeArgumentList:
		check = argumentChecker()
	}

	for i := range n.ChildCount() {
		child := n.Child(i)

		if check != nil && child.IsNamed() && !child.IsExtra() {
			if perr := check(child); perr != nil {
				return perr
			}
		}

		if perr := validate(child); perr != nil {
			return perr
		}
	}

	return nil
}

// suiteChecker verifies that every statement opening a new line starts on
// the suite's column. Module statements belong on column zero; a block
// takes the column of its first statement. Statements after a semicolon
// share the previous statement's line and are not checked.
func suiteChecker(suite sitter.Node) func(sitter.Node) *ParseError {
	var (
		column  uint
		started = suite.Type() == typeModule
		lastRow uint
		hasLast bool
	)

	return func(stmt sitter.Node) *ParseError {
		start := stmt.StartPoint()
		defer func() {
			lastRow = stmt.EndPoint().Row
			hasLast = true
		}()

		if hasLast && start.Row == lastRow {
			return nil
		}

		if !started {
			column = start.Column
			started = true

			return nil
		}

		switch {
		case start.Column > column:
			return errorAt(stmt, msgUnexpectedIndent)
		case start.Column < column:
			return errorAt(stmt, msgUnindent)
		}

		return nil
	}
}

// argumentChecker enforces Python 3 argument order: no positional argument
// after a keyword argument or **mapping, and no *iterable after **mapping.
func argumentChecker() func(sitter.Node) *ParseError {
	var keyword, mappingUnpacked bool

	return func(arg sitter.Node) *ParseError {
		switch arg.Type() {
		case typeKeywordArgument:
			keyword = true
		case typeDictSplatArg:
			mappingUnpacked = true
		case typeListSplatArg:
			if mappingUnpacked {
				return errorAt(arg, msgUnpackOrder)
			}
		default:
			if mappingUnpacked {
				return errorAt(arg, msgPositionalUnpack)
			}

			if keyword {
				return errorAt(arg, msgPositionalAfter)
			}
		}

		return nil
	}
}

func errorAt(n sitter.Node, msg string) *ParseError {
	pt := n.StartPoint()

	return &ParseError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Msg: msg}
}
