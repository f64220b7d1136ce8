package annotations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/pystyle/pkg/analyzers/annotations"
	"github.com/Sumatoshi-tech/pystyle/pkg/pyast"
)

func check(t *testing.T, text string) annotations.Result {
	t.Helper()

	mod, err := pyast.Parse(context.Background(), text)
	require.NoError(t, err)

	return annotations.Check(mod, annotations.DefaultOptions())
}

func TestCheck_InitializerExemptFromReturn(t *testing.T) {
	t.Parallel()

	res := check(t, "class Point:\n    def __init__(self, x: int, y: int):\n        pass\n")

	assert.Empty(t, res.Gaps)
	assert.Equal(t, "All functions and methods use type annotations.", res.Message())
}

func TestCheck_InitializerStillNeedsParameterTypes(t *testing.T) {
	t.Parallel()

	res := check(t, "class Point:\n    def __init__(self, x: int, y):\n        pass\n")

	require.Len(t, res.Gaps, 1)
	assert.Equal(t, annotations.Gap{Name: "__init__", Line: 2, Untyped: []string{"y"}}, res.Gaps[0])
	assert.Equal(t, "Functions without type annotations: __init__", res.Message())
}

func TestCheck_ClassFooScenario(t *testing.T) {
	t.Parallel()

	res := check(t, "class foo:\n    def Bar(self, x):\n        pass\n")

	require.Len(t, res.Gaps, 1)
	assert.Equal(t, "Bar", res.Gaps[0].Name)
	assert.Equal(t, []string{"x"}, res.Gaps[0].Untyped)
	assert.True(t, res.Gaps[0].MissingReturn)
}

func TestCheck_ReceiverOnlyExemptInClass(t *testing.T) {
	t.Parallel()

	res := check(t, `def free(self) -> None:
    pass

class A:
    def method(self) -> None:
        pass

    @classmethod
    def build(cls) -> "A":
        pass

    def other(this) -> None:
        pass
`)

	assert.Equal(t, []string{"free", "build", "other"}, res.Names())
}

func TestCheck_ClassReceiverIsOptIn(t *testing.T) {
	t.Parallel()

	const text = "class C:\n    @classmethod\n    def m(cls) -> None:\n        pass\n"

	res := check(t, text)
	require.Len(t, res.Gaps, 1)
	assert.Equal(t, []string{"cls"}, res.Gaps[0].Untyped)
	assert.Equal(t, "Functions without type annotations: m", res.Message())

	mod, err := pyast.Parse(context.Background(), text)
	require.NoError(t, err)

	opts := annotations.DefaultOptions()
	opts.Receivers = append(opts.Receivers, "cls")
	assert.Empty(t, annotations.Check(mod, opts).Gaps)
}

func TestCheck_AllParameterKinds(t *testing.T) {
	t.Parallel()

	res := check(t, "def f(a: int, *args, k: int, **kw) -> int:\n    return a\n")

	require.Len(t, res.Gaps, 1)
	assert.Equal(t, []string{"args", "kw"}, res.Gaps[0].Untyped)
	assert.False(t, res.Gaps[0].MissingReturn)
}

func TestCheck_WalkOrderAndNesting(t *testing.T) {
	t.Parallel()

	res := check(t, `def outer():
    def inner():
        pass

if True:
    def guarded():
        pass

class K:
    def m(self):
        pass

async def skipped():
    def inside_async():
        pass

def typed() -> None:
    pass
`)

	assert.Equal(t, []string{"outer", "inner", "guarded", "m", "inside_async"}, res.Names())
	assert.Equal(t, "Functions without type annotations: outer, inner, guarded, m, inside_async", res.Message())
}

func TestCheck_CustomOptions(t *testing.T) {
	t.Parallel()

	mod, err := pyast.Parse(context.Background(), "class A:\n    def setup(me, x: int):\n        pass\n")
	require.NoError(t, err)

	res := annotations.Check(mod, annotations.Options{Receivers: []string{"me"}, Initializer: "setup"})
	assert.Empty(t, res.Gaps)
}

func TestCheck_Empty(t *testing.T) {
	t.Parallel()

	res := check(t, "")

	assert.Empty(t, res.Gaps)
	assert.Equal(t, "All functions and methods use type annotations.", res.Message())
}
