package pyast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

const (
	typeBlock            = "block"
	typeComment          = "comment"
	typeError            = "ERROR"
	typeIdentifier       = "identifier"
	typeDottedName       = "dotted_name"
	typeAliasedImport    = "aliased_import"
	typeWildcardImport   = "wildcard_import"
	typeRelativeImport   = "relative_import"
	typeImportPrefix     = "import_prefix"
	typeListSplat        = "list_splat_pattern"
	typeDictSplat        = "dictionary_splat_pattern"
	typeElifClause       = "elif_clause"
	typeElseClause       = "else_clause"
	typeExceptClause     = "except_clause"
	typeExceptGroup      = "except_group_clause"
	typeFinallyClause    = "finally_clause"
	typeCaseClause       = "case_clause"
	futureModule         = "__future__"
	utf8ByteOrderMark    = "\ufeff"
	exceptBodyLevelShift = 2
)

var (
	errNoRootNode = errors.New("parser returned no root node")
	errPoolType   = errors.New("unexpected parser pool type")
)

var (
	languageOnce sync.Once
	language     *sitter.Language

	parserPool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(pythonLanguage())

			return tsParser
		},
	}
)

func pythonLanguage() *sitter.Language {
	languageOnce.Do(func() {
		language = sitter.NewLanguage(python.GetLanguage())
	})

	return language
}

// Parse builds the tree for text. Invalid source yields a *ParseError and
// no tree.
func Parse(ctx context.Context, text string) (*Module, error) {
	tsParser, ok := parserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer parserPool.Put(tsParser)

	content := []byte(strings.TrimPrefix(text, utf8ByteOrderMark))

	if perr := nullByteError(content); perr != nil {
		return nil, perr
	}

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("pyast: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	if root.HasError() {
		return nil, newParseError(root)
	}

	if perr := validate(root); perr != nil {
		return nil, perr
	}

	b := &builder{src: content}

	return &Module{Stmts: b.statements(root, scope{level: 1})}, nil
}

// nullByteError reports the first NUL byte. The grammar's lexer treats it
// as end of input, so it must be caught before parsing.
func nullByteError(content []byte) *ParseError {
	at := bytes.IndexByte(content, 0)
	if at < 0 {
		return nil
	}

	before := content[:at]

	return &ParseError{
		Line:   bytes.Count(before, []byte{'\n'}) + 1,
		Column: at - bytes.LastIndexByte(before, '\n'),
		Msg:    msgNullByte,
	}
}

func newParseError(root sitter.Node) *ParseError {
	bad, found := firstError(root)
	if !found {
		return &ParseError{Line: 1, Column: 1, Msg: "invalid syntax"}
	}

	pt := bad.StartPoint()
	msg := "invalid syntax"

	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %q", bad.Type())
	}

	return &ParseError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Msg: msg}
}

// firstError returns the first ERROR or MISSING node in pre-order.
func firstError(n sitter.Node) (sitter.Node, bool) {
	if n.Type() == typeError || n.IsMissing() {
		return n, true
	}

	if !n.HasError() {
		return sitter.Node{}, false
	}

	for i := range n.ChildCount() {
		if bad, found := firstError(n.Child(i)); found {
			return bad, true
		}
	}

	return sitter.Node{}, false
}

// scope describes where a block of statements sits.
type scope struct {
	level   int
	depth   int
	guarded bool
	inClass bool
}

type builder struct {
	src []byte
}

func (b *builder) text(n sitter.Node) string {
	return string(b.src[n.StartByte():n.EndByte()])
}

func position(n sitter.Node, sc scope) Node {
	pt := n.StartPoint()

	return Node{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1, Level: sc.level, Guarded: sc.guarded}
}

// statements collects the kept statements of a module or block node.
func (b *builder) statements(block sitter.Node, sc scope) []Stmt {
	var out []Stmt

	for i := range block.NamedChildCount() {
		out = append(out, b.statement(block.NamedChild(i), sc)...)
	}

	return out
}

func (b *builder) statement(n sitter.Node, sc scope) []Stmt {
	switch n.Type() {
	case "import_statement", "import_from_statement", "future_import_statement":
		return []Stmt{b.importStmt(n, sc)}
	case "class_definition":
		return []Stmt{b.classDef(n, sc)}
	case "function_definition":
		return []Stmt{b.functionDef(n, sc)}
	case "decorated_definition":
		def := n.ChildByFieldName("definition")
		if def.IsNull() {
			return nil
		}

		switch def.Type() {
		case "class_definition":
			return []Stmt{b.classDef(def, sc)}
		case "function_definition":
			return []Stmt{b.functionDef(def, sc)}
		}

		return nil
	case "if_statement":
		return b.ifStatement(n, sc)
	case "for_statement", "while_statement", "with_statement":
		return b.clauses(n, sc)
	case "try_statement":
		return b.tryStatement(n, sc)
	case "match_statement":
		return b.matchStatement(n, sc)
	default:
		return nil
	}
}

func nested(sc scope, shift int) scope {
	sc.level += shift
	sc.guarded = true

	return sc
}

// blockOf returns the first block child of n.
func blockOf(n sitter.Node) (sitter.Node, bool) {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Type() == typeBlock {
			return child, true
		}
	}

	return sitter.Node{}, false
}

// clauses handles statements with a main block and an optional else clause.
func (b *builder) clauses(n sitter.Node, sc scope) []Stmt {
	var out []Stmt

	if body, ok := blockOf(n); ok {
		out = append(out, b.statements(body, nested(sc, 1))...)
	}

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Type() != typeElseClause {
			continue
		}

		if body, ok := blockOf(child); ok {
			out = append(out, b.statements(body, nested(sc, 1))...)
		}
	}

	return out
}

// ifStatement descends into every branch. Each elif is a further nested if
// in the orelse branch, so it shifts the level of everything after it.
func (b *builder) ifStatement(n sitter.Node, sc scope) []Stmt {
	var out []Stmt

	if body, ok := blockOf(n); ok {
		out = append(out, b.statements(body, nested(sc, 1))...)
	}

	elifs := 0

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)

		switch child.Type() {
		case typeElifClause:
			elifs++

			if body, ok := blockOf(child); ok {
				out = append(out, b.statements(body, nested(sc, elifs+1))...)
			}
		case typeElseClause:
			if body, ok := blockOf(child); ok {
				out = append(out, b.statements(body, nested(sc, elifs+1))...)
			}
		}
	}

	return out
}

func (b *builder) tryStatement(n sitter.Node, sc scope) []Stmt {
	var out []Stmt

	if body, ok := blockOf(n); ok {
		out = append(out, b.statements(body, nested(sc, 1))...)
	}

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)

		shift := 0

		switch child.Type() {
		case typeExceptClause, typeExceptGroup:
			shift = exceptBodyLevelShift
		case typeElseClause, typeFinallyClause:
			shift = 1
		default:
			continue
		}

		if body, ok := blockOf(child); ok {
			out = append(out, b.statements(body, nested(sc, shift))...)
		}
	}

	return out
}

func (b *builder) matchStatement(n sitter.Node, sc scope) []Stmt {
	var out []Stmt

	cases, ok := blockOf(n)
	if !ok {
		return nil
	}

	for i := range cases.NamedChildCount() {
		child := cases.NamedChild(i)
		if child.Type() != typeCaseClause {
			continue
		}

		if body, ok := blockOf(child); ok {
			out = append(out, b.statements(body, nested(sc, exceptBodyLevelShift))...)
		}
	}

	return out
}

func (b *builder) importStmt(n sitter.Node, sc scope) *ImportStmt {
	stmt := &ImportStmt{Node: position(n, sc)}

	var moduleStart uint

	hasModule := false

	switch n.Type() {
	case "import_from_statement":
		stmt.From = true

		module := n.ChildByFieldName("module_name")
		if !module.IsNull() {
			hasModule = true
			moduleStart = module.StartByte()
			stmt.Module, stmt.RelativeLevel = b.moduleName(module)
		}
	case "future_import_statement":
		stmt.From = true
		stmt.Module = futureModule
	}

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if hasModule && child.StartByte() == moduleStart {
			continue
		}

		switch child.Type() {
		case typeDottedName:
			stmt.Names = append(stmt.Names, ImportName{Name: b.text(child)})
		case typeAliasedImport:
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")

			item := ImportName{}
			if !name.IsNull() {
				item.Name = b.text(name)
			}

			if !alias.IsNull() {
				item.Alias = b.text(alias)
			}

			stmt.Names = append(stmt.Names, item)
		case typeWildcardImport:
			stmt.Names = append(stmt.Names, ImportName{Name: "*"})
		}
	}

	return stmt
}

// moduleName returns the dotted module of a from-import and its relative level.
func (b *builder) moduleName(n sitter.Node) (string, int) {
	if n.Type() != typeRelativeImport {
		return b.text(n), 0
	}

	module := ""
	level := 0

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)

		switch child.Type() {
		case typeImportPrefix:
			level = strings.Count(b.text(child), ".")
		case typeDottedName:
			module = b.text(child)
		}
	}

	return module, level
}

func (b *builder) classDef(n sitter.Node, sc scope) *ClassDef {
	class := &ClassDef{Node: position(n, sc), Depth: sc.depth}

	if name := n.ChildByFieldName("name"); !name.IsNull() {
		class.Name = b.text(name)
	}

	body := n.ChildByFieldName("body")
	if body.IsNull() {
		return class
	}

	class.Doc, class.HasDoc = b.docstring(body)
	class.Stmts = b.statements(body, scope{level: sc.level + 1, depth: sc.depth + 1, inClass: true})

	return class
}

func (b *builder) functionDef(n sitter.Node, sc scope) *FunctionDef {
	fn := &FunctionDef{Node: position(n, sc), Depth: sc.depth, InClass: sc.inClass}

	if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		fn.Async = true
	}

	if name := n.ChildByFieldName("name"); !name.IsNull() {
		fn.Name = b.text(name)
	}

	if params := n.ChildByFieldName("parameters"); !params.IsNull() {
		fn.Params = b.parameters(params)
	}

	if ret := n.ChildByFieldName("return_type"); !ret.IsNull() {
		fn.Returns = b.text(ret)
		fn.HasReturns = true
	}

	body := n.ChildByFieldName("body")
	if body.IsNull() {
		return fn
	}

	fn.Doc, fn.HasDoc = b.docstring(body)
	fn.Stmts = b.statements(body, scope{level: sc.level + 1, depth: sc.depth + 1})

	return fn
}

func (b *builder) parameters(n sitter.Node) []Param {
	var params []Param

	keywordOnly := false

	kind := func() ParamKind {
		if keywordOnly {
			return ParamKeywordOnly
		}

		return ParamPositional
	}

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)

		switch child.Type() {
		case typeIdentifier:
			params = append(params, Param{Name: b.text(child), Kind: kind()})
		case "default_parameter":
			params = append(params, Param{Name: b.fieldText(child, "name"), Kind: kind()})
		case "typed_default_parameter":
			params = append(params, Param{
				Name:    b.fieldText(child, "name"),
				Type:    b.fieldText(child, "type"),
				HasType: true,
				Kind:    kind(),
			})
		case "typed_parameter":
			param := Param{Type: b.fieldText(child, "type"), HasType: true, Kind: kind()}

			if child.NamedChildCount() > 0 {
				inner := child.NamedChild(0)
				param.Name, param.Kind = b.splatName(inner, param.Kind)

				if param.Kind == ParamVarPositional {
					keywordOnly = true
				}
			}

			params = append(params, param)
		case typeListSplat, typeDictSplat:
			param := Param{}
			param.Name, param.Kind = b.splatName(child, kind())

			if param.Kind == ParamVarPositional {
				keywordOnly = true
			}

			params = append(params, param)
		case "keyword_separator":
			keywordOnly = true
		case "positional_separator":
			for j := range params {
				params[j].Kind = ParamPositionalOnly
			}
		}
	}

	return params
}

// splatName returns the bound name of an identifier or splat pattern and
// the kind it implies.
func (b *builder) splatName(n sitter.Node, fallback ParamKind) (string, ParamKind) {
	switch n.Type() {
	case typeListSplat:
		return b.firstIdentifier(n), ParamVarPositional
	case typeDictSplat:
		return b.firstIdentifier(n), ParamVarKeyword
	default:
		return b.text(n), fallback
	}
}

func (b *builder) firstIdentifier(n sitter.Node) string {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Type() == typeIdentifier {
			return b.text(child)
		}
	}

	return strings.TrimLeft(b.text(n), "*")
}

func (b *builder) fieldText(n sitter.Node, field string) string {
	child := n.ChildByFieldName(field)
	if child.IsNull() {
		return ""
	}

	return b.text(child)
}

// docstring returns the cleaned docstring of a body block. An empty
// docstring counts as absent.
func (b *builder) docstring(body sitter.Node) (string, bool) {
	for i := range body.NamedChildCount() {
		stmt := body.NamedChild(i)
		if stmt.Type() == typeComment {
			continue
		}

		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return "", false
		}

		raw, ok := b.stringLiteral(stmt.NamedChild(0))
		if !ok {
			return "", false
		}

		doc := CleanDoc(raw)

		return doc, doc != ""
	}

	return "", false
}

func (b *builder) stringLiteral(n sitter.Node) (string, bool) {
	switch n.Type() {
	case "string":
		return DecodeLiteral(b.text(n))
	case "concatenated_string":
		var sb strings.Builder

		for i := range n.NamedChildCount() {
			part := n.NamedChild(i)
			if part.Type() == typeComment {
				continue
			}

			text, ok := DecodeLiteral(b.text(part))
			if !ok {
				return "", false
			}

			sb.WriteString(text)
		}

		return sb.String(), true
	default:
		return "", false
	}
}
