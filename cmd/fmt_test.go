package cmd

import (
	"os"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonicalSpec = "* {\n   x: 0px;\n   y: 0px;\n   width: 100%;\n   height: 100%;\n}\n"

func TestFmt_Stdout(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "* { height: 100%; width: 100%; y: 0px; x: 0px; }", "fmt")
	require.NoError(t, err)
	assert.Equal(t, canonicalSpec, out)
}

func TestFmt_Write(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile(t, "a.area", validSpec)

	out, err := env.run(t, "", "fmt", "--write", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, canonicalSpec, string(data))

	out, err = env.run(t, "", "fmt", "-w", path)
	require.NoError(t, err)
	assert.Empty(t, out, "canonical files are left alone")
}

func TestFmt_InvalidInputUntouched(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile(t, "bad.area", "* { x: 1px;")

	_, err := env.run(t, "", "fmt", "--write", path)
	require.ErrorIs(t, err, errCheckFailed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "* { x: 1px;", string(data))
}

func TestFmt_Diff(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeFile(t, "a.area", validSpec+"\n")

	out, err := env.run(t, "", "fmt", "--diff", path)
	require.NoError(t, err)
	assert.Contains(t, out, "--- "+path)
	assert.Contains(t, out, "-"+validSpec)
	assert.Contains(t, out, "+   width: 100%;")
}

func TestLineDiff(t *testing.T) {
	out := ansi.Strip(lineDiff("f", "a\nb\nc\n", "a\nB\nc\n"))
	assert.Equal(t, "--- f\n+++ f (formatted)\n a\n-b\n+B\n c\n", out)
}

func TestCanonical_Empty(t *testing.T) {
	out, err := canonical("\n\n")
	require.NoError(t, err)
	assert.Empty(t, out)
}
