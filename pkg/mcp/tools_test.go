package mcp //nolint:testpackage // tests unexported input validation.

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInput(t *testing.T) {
	t.Parallel()

	file, err := loadInput("", "  ")
	require.NoError(t, err)
	assert.Equal(t, defaultFilename, file.Name())
	assert.Zero(t, file.NonEmptyLineCount())

	file, err = loadInput("x = 1\n", "pkg/mod.py")
	require.NoError(t, err)
	assert.Equal(t, "mod.py", file.Name())

	_, err = loadInput("x = 1\n", "mod.pyi")
	require.ErrorIs(t, err, ErrInvalidFilename)

	_, err = loadInput(strings.Repeat("x", MaxCodeInputBytes+1), "")
	require.ErrorIs(t, err, ErrCodeTooLarge)
}
