package structure_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/structure"
	"github.com/Sumatoshi-tech/pystyle/pkg/lexscan"
	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
	"github.com/Sumatoshi-tech/pystyle/pkg/source"
)

func summaries(t *testing.T, text string) (structure.Summary, structure.Summary) {
	t.Helper()

	file, err := source.New("sample.py", []byte(text))
	require.NoError(t, err)

	mod, err := pyast.Parse(context.Background(), text)
	require.NoError(t, err)

	tree := structure.NewTreeSummarizer(file, mod).Summarize()
	lines := structure.NewLineSummarizer(file, lexscan.Classify(file)).Summarize()

	return tree, lines
}

const wellFormed = `import os
import os.path, sys
from typing import List, Dict as D

class Shape:
    def area(self):
        return 0
    def name(self):
        return "shape"

class Square(Shape):
    pass

def build(kind):
    return Shape()

def _helper():
    pass
`

func TestSummarize_StrategiesAgreeOnWellFormedInput(t *testing.T) {
	t.Parallel()

	tree, lines := summaries(t, wellFormed)

	assert.Equal(t, structure.StrategyTree, tree.Strategy)
	assert.Equal(t, structure.StrategyLines, lines.Strategy)
	assert.Equal(t, 14, tree.NonEmptyLines)
	assert.Equal(t, []string{"os", "os.path, sys", "typing: List, Dict"}, tree.Imports)
	assert.Equal(t, []string{"Shape", "Square"}, tree.Classes)
	assert.Equal(t, []string{"build", "_helper"}, tree.Functions)

	assert.Equal(t, tree.NonEmptyLines, lines.NonEmptyLines)
	assert.Equal(t, tree.Imports, lines.Imports)
	assert.Equal(t, tree.Classes, lines.Classes)
	assert.Equal(t, tree.Functions, lines.Functions)
	assert.Empty(t, structure.Compare(tree, lines))
}

func TestSummarize_EmptyFile(t *testing.T) {
	t.Parallel()

	tree, lines := summaries(t, "")

	assert.Zero(t, tree.NonEmptyLines)
	assert.Empty(t, tree.Imports)
	assert.Empty(t, tree.Classes)
	assert.Empty(t, tree.Functions)
	assert.Empty(t, structure.Compare(tree, lines))
}

func TestSummarize_BlankLineInsideClassBody(t *testing.T) {
	t.Parallel()

	tree, lines := summaries(t, "class A:\n    def one(self):\n        pass\n\n    def two(self):\n        pass\n")

	assert.Empty(t, tree.Functions)
	assert.Empty(t, lines.Functions, "indented defs never count as top level")

	tree, lines = summaries(t, "class A:\n    x = 1\ndef one():\n    pass\n")

	assert.Equal(t, []string{"one"}, tree.Functions)
	assert.Empty(t, lines.Functions, "class flag still raised without a blank line")

	mismatches := structure.Compare(tree, lines)
	require.Len(t, mismatches, 1)
	assert.Equal(t, structure.FieldFunctions, mismatches[0].Field)
	assert.Equal(t, "-one", mismatches[0].Diff)
}

func TestSummarize_AsyncAndNestedExcluded(t *testing.T) {
	t.Parallel()

	tree, _ := summaries(t, "async def fetch():\n    pass\n\nif True:\n    def guarded():\n        pass\n")

	assert.Empty(t, tree.Functions)
}

func TestSummarize_MultilineImport(t *testing.T) {
	t.Parallel()

	tree, lines := summaries(t, "from os import (path,\n    sep)\n")

	assert.Equal(t, []string{"os: path, sep"}, tree.Imports)
	assert.Equal(t, []string{"os: path"}, lines.Imports)

	mismatches := structure.Compare(tree, lines)
	require.Len(t, mismatches, 1)
	assert.Equal(t, structure.FieldImports, mismatches[0].Field)
	assert.Equal(t, "-os: path, sep\n+os: path", mismatches[0].Diff)
}

func TestStrategy_Label(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "syntax tree", structure.StrategyTree.Label())
	assert.Equal(t, "line scan", structure.StrategyLines.Label())
	assert.Equal(t, "custom", structure.Strategy("custom").Label())
}
