package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/pystyle/pkg/textutil"
)

func TestNormalizeNewlines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "unix", in: "a\nb\n", want: "a\nb\n"},
		{name: "windows", in: "a\r\nb\r\n", want: "a\nb\n"},
		{name: "classic mac", in: "a\rb\r", want: "a\nb\n"},
		{name: "mixed", in: "a\r\nb\rc\n", want: "a\nb\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, textutil.NormalizeNewlines(tt.in))
		})
	}
}

func TestStrip_PythonWhitespace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x", textutil.Strip(" \t\f\vx  "))
	assert.Equal(t, "x", textutil.Strip("\x1cx\x1f"))
	assert.Equal(t, "x  ", textutil.LeftStrip("  x  "))
	assert.True(t, textutil.IsBlank(" \t "))
	assert.False(t, textutil.IsBlank(" # "))
}

func TestExpandTabs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "        x", textutil.ExpandTabs("\tx", 8))
	assert.Equal(t, "ab      x", textutil.ExpandTabs("ab\tx", 8))
	assert.Equal(t, "a\n        b", textutil.ExpandTabs("a\n\tb", 8))
	assert.Equal(t, "plain", textutil.ExpandTabs("plain", 8))
}
