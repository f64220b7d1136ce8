package pyast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
)

func parse(t *testing.T, text string) *pyast.Module {
	t.Helper()

	mod, err := pyast.Parse(context.Background(), text)
	require.NoError(t, err)

	return mod
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	mod := parse(t, "")
	assert.Empty(t, mod.Stmts)
}

func TestParse_Imports(t *testing.T) {
	t.Parallel()

	mod := parse(t, `import os
import os.path, sys as system
from typing import List, Dict as D
from . import sibling
from ..pkg import (a,
    b)
from x import *
from __future__ import annotations
`)

	var displays []string

	for _, stmt := range mod.Body() {
		imp, ok := stmt.(*pyast.ImportStmt)
		require.True(t, ok)

		displays = append(displays, imp.Display())
	}

	assert.Equal(t, []string{
		"os",
		"os.path, sys",
		"typing: List, Dict",
		": sibling",
		"pkg: a, b",
		"x: *",
		"__future__: annotations",
	}, displays)

	rel, ok := mod.Body()[4].(*pyast.ImportStmt)
	require.True(t, ok)
	assert.Equal(t, 2, rel.RelativeLevel)

	aliased, ok := mod.Body()[1].(*pyast.ImportStmt)
	require.True(t, ok)
	assert.Equal(t, pyast.ImportName{Name: "sys", Alias: "system"}, aliased.Names[1])
}

func TestParse_ClassAndMethods(t *testing.T) {
	t.Parallel()

	mod := parse(t, `class Shape(Base):
    """A shape.

    With details.
    """

    def __init__(self, size: int) -> None:
        self.size = size

    # comment before docstring
    def area(self):
        # leading comment
        'Area.'
        return 0

    async def fetch(self):
        pass
`)

	require.Len(t, mod.Body(), 1)

	class, ok := mod.Body()[0].(*pyast.ClassDef)
	require.True(t, ok)

	assert.Equal(t, "Shape", class.Name)
	assert.Equal(t, 1, class.Line)
	assert.True(t, class.HasDoc)
	assert.Equal(t, "A shape.\n\nWith details.", class.Doc)

	methods := class.Methods()
	require.Len(t, methods, 2)

	initFn := methods[0]
	assert.Equal(t, "__init__", initFn.Name)
	assert.Equal(t, 1, initFn.Depth)
	assert.True(t, initFn.InClass)
	assert.True(t, initFn.HasReturns)
	assert.Equal(t, "None", initFn.Returns)
	assert.False(t, initFn.HasDoc)
	require.Len(t, initFn.Params, 2)
	assert.Equal(t, pyast.Param{Name: "self", Kind: pyast.ParamPositional}, initFn.Params[0])
	assert.Equal(t, pyast.Param{Name: "size", Type: "int", HasType: true, Kind: pyast.ParamPositional}, initFn.Params[1])

	area := methods[1]
	assert.True(t, area.HasDoc)
	assert.Equal(t, "Area.", area.Doc)
	assert.Equal(t, 11, area.Line)

	fns := pyast.Functions(mod)
	require.Len(t, fns, 3)
	assert.True(t, fns[2].Async)
}

func TestParse_Parameters(t *testing.T) {
	t.Parallel()

	mod := parse(t, "def f(a, b: int, c=1, d: str = 'x', /, e=2, *args: int, g, h: int = 3, **kw) -> bool:\n    pass\n"+
		"def g(*, k):\n    pass\n"+
		"def h(*rest, **opts: str):\n    pass\n")

	fns := pyast.Functions(mod)
	require.Len(t, fns, 3)

	params := fns[0].Params
	require.Len(t, params, 9)

	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}

	assert.Equal(t, []string{"a", "b", "c", "d", "e", "args", "g", "h", "kw"}, names)
	assert.Equal(t, pyast.ParamPositionalOnly, params[0].Kind)
	assert.Equal(t, pyast.ParamPositionalOnly, params[3].Kind)
	assert.True(t, params[3].HasType)
	assert.Equal(t, pyast.ParamPositional, params[4].Kind)
	assert.Equal(t, pyast.ParamVarPositional, params[5].Kind)
	assert.True(t, params[5].HasType)
	assert.Equal(t, pyast.ParamKeywordOnly, params[6].Kind)
	assert.Equal(t, pyast.ParamKeywordOnly, params[7].Kind)
	assert.Equal(t, pyast.ParamVarKeyword, params[8].Kind)
	assert.False(t, params[8].HasType)
	assert.Equal(t, "bool", fns[0].Returns)

	require.Len(t, fns[1].Params, 1)
	assert.Equal(t, pyast.Param{Name: "k", Kind: pyast.ParamKeywordOnly}, fns[1].Params[0])

	require.Len(t, fns[2].Params, 2)
	assert.Equal(t, "rest", fns[2].Params[0].Name)
	assert.Equal(t, pyast.ParamVarKeyword, fns[2].Params[1].Kind)
	assert.Equal(t, "str", fns[2].Params[1].Type)
}

func TestParse_DecoratedDefinitions(t *testing.T) {
	t.Parallel()

	mod := parse(t, "@dataclass\nclass Point:\n    x: int\n\n@staticmethod\ndef helper():\n    pass\n")

	body := mod.Body()
	require.Len(t, body, 2)

	class, ok := body[0].(*pyast.ClassDef)
	require.True(t, ok)
	assert.Equal(t, "Point", class.Name)
	assert.Equal(t, 2, class.Line)

	fn, ok := body[1].(*pyast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "helper", fn.Name)
}

func TestParse_GuardedDefinitions(t *testing.T) {
	t.Parallel()

	mod := parse(t, `import os
try:
    import json
except ImportError:
    def fallback():
        pass
if os.name == "nt":
    def windows():
        pass
elif os.name == "posix":
    def posix():
        pass
else:
    def other():
        pass
def top():
    def inner():
        pass
`)

	body := mod.Body()
	require.Len(t, body, 2, "only direct module statements")

	fns := pyast.Functions(mod)

	names := make([]string, 0, len(fns))
	levels := make([]int, 0, len(fns))

	for _, fn := range fns {
		names = append(names, fn.Name)
		levels = append(levels, fn.Level)
	}

	assert.Equal(t, []string{"top", "windows", "inner", "fallback", "posix", "other"}, names)
	assert.Equal(t, []int{1, 2, 2, 3, 3, 3}, levels)

	for _, fn := range fns {
		if fn.Name == "windows" {
			assert.True(t, fn.Guarded)
			assert.Equal(t, 0, fn.Depth)
		}

		if fn.Name == "inner" {
			assert.False(t, fn.Guarded)
			assert.Equal(t, 1, fn.Depth)
			assert.False(t, fn.InClass)
		}
	}
}

func TestParse_DocstringVariants(t *testing.T) {
	t.Parallel()

	mod := parse(t, `def a():
    "part one " 'part two'

def b():
    b"bytes"

def c():
    f"formatted"

def d():
    x = "not a docstring"

def e():
    """"""

def f():
    r"""raw \n text"""
`)

	fns := pyast.Functions(mod)
	require.Len(t, fns, 6)

	assert.Equal(t, "part one part two", fns[0].Doc)
	assert.True(t, fns[0].HasDoc)

	for _, fn := range fns[1:5] {
		assert.False(t, fn.HasDoc, fn.Name)
	}

	assert.Equal(t, `raw \n text`, fns[5].Doc)
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := pyast.Parse(context.Background(), "import os\n\ndef broken(:\n    pass\n")
	require.ErrorIs(t, err, pyast.ErrParse)

	var parseErr *pyast.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Positive(t, parseErr.Column)
	assert.Contains(t, parseErr.Error(), "line 3")
}

func TestParse_ByteOrderMark(t *testing.T) {
	t.Parallel()

	mod := parse(t, "\ufeffimport os\n")
	require.Len(t, mod.Body(), 1)
}

func TestParse_RejectsPython3SyntaxErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		text   string
		line   int
		column int
		msg    string
	}{
		{
			name: "print statement", text: "def f():\n    print \"hi\"\n",
			line: 2, column: 5, msg: "Missing parentheses in call to 'print'",
		},
		{
			name: "exec statement", text: "exec \"x = 1\"\n",
			line: 1, column: 1, msg: "Missing parentheses in call to 'exec'",
		},
		{
			name: "inconsistent dedent", text: "def f():\n        x = 1\n    y = 2\n",
			line: 3, column: 5, msg: "indent",
		},
		{
			name: "iterable after mapping unpacking", text: "f(**a, *b)\n",
			line: 1, column: 8, msg: "iterable argument unpacking",
		},
		{
			name: "positional after keyword", text: "f(a=1, b)\n",
			line: 1, column: 8, msg: "positional argument follows keyword argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := pyast.Parse(context.Background(), tt.text)
			require.ErrorIs(t, err, pyast.ErrParse)

			var parseErr *pyast.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
			assert.Equal(t, tt.column, parseErr.Column)
			assert.Contains(t, parseErr.Msg, tt.msg)
		})
	}
}

func TestParse_AcceptsPython3Forms(t *testing.T) {
	t.Parallel()

	for name, text := range map[string]string{
		"print call":          "print(\"hi\")\n",
		"exec call":           "exec(\"x = 1\")\n",
		"semicolons":          "x = 1; y = 2\nif x:\n    a = 1; b = 2\n    c = 3\n",
		"one-line suite":      "if x: pass\nclass A: pass\n",
		"continuation":        "x = 1 + \\\n    2\ny = 3\n",
		"comment indentation": "def f():\n        # odd comment\n    return 1\n# trailing\n",
		"argument order":      "f(a, *b, c=1, *d, **e, g=2)\n",
	} {
		_, err := pyast.Parse(context.Background(), text)
		require.NoError(t, err, name)
	}
}

func TestParse_NullByte(t *testing.T) {
	t.Parallel()

	_, err := pyast.Parse(context.Background(), "import os\nx = 'a\x00b'\n")
	require.ErrorIs(t, err, pyast.ErrParse)

	var parseErr *pyast.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.Line)
	assert.Equal(t, 7, parseErr.Column)
	assert.Contains(t, parseErr.Msg, "null bytes")
}
