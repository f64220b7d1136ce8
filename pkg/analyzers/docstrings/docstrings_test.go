package docstrings_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/docstrings"
	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
)

func extract(t *testing.T, text string) []docstrings.Entry {
	t.Helper()

	mod, err := pyast.Parse(context.Background(), text)
	require.NoError(t, err)

	return docstrings.Extract(mod)
}

func TestExtract_OrderAndQualifiedNames(t *testing.T) {
	t.Parallel()

	entries := extract(t, `def first():
    """First function."""

class Widget:
    """A widget."""

    def draw(self):
        pass

    def resize(self, w):
        """Resize it."""

def last():
    pass
`)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}

	assert.Equal(t, []string{"first", "Widget", "Widget.draw", "Widget.resize", "last"}, names)
	assert.Equal(t, "First function.", entries[0].Text)
	assert.True(t, entries[1].Present)
	assert.False(t, entries[2].Present)
	assert.Equal(t, 7, entries[2].Line)
	assert.Equal(t, "Resize it.", entries[3].Text)
	assert.Equal(t, 2, docstrings.Missing(entries))
}

func TestExtract_EntryCountIdentity(t *testing.T) {
	t.Parallel()

	mod, err := pyast.Parse(context.Background(), `class A:
    def a1(self): pass
    def a2(self): pass
    class Inner:
        def hidden(self): pass

class B:
    pass

def f(): pass
def g():
    def nested(): pass
`)
	require.NoError(t, err)

	classes, functions, methods := 0, 0, 0

	for _, stmt := range mod.Body() {
		switch def := stmt.(type) {
		case *pyast.ClassDef:
			classes++
			methods += len(def.Methods())
		case *pyast.FunctionDef:
			functions++
		}
	}

	entries := docstrings.Extract(mod)
	assert.Len(t, entries, classes+functions+methods)
	assert.Len(t, entries, 6)
}

func TestExtract_ClassFooScenario(t *testing.T) {
	t.Parallel()

	entries := extract(t, "class foo:\n    def Bar(self, x):\n        pass\n")

	require.Len(t, entries, 2)
	assert.Equal(t, "foo: DocString not found\n", entries[0].Render())
	assert.Equal(t, "foo.Bar: DocString not found\n", entries[1].Render())
}

func TestExtract_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, extract(t, ""))
}

func TestEntry_RenderPresent(t *testing.T) {
	t.Parallel()

	e := docstrings.Entry{Name: "Widget.draw", Text: "Draw it.\n\nMore.", Present: true}
	assert.Equal(t, "Widget.draw:\nDraw it.\n\nMore.\n", e.Render())
}
