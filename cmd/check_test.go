package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumos-rgb/lumos/internal/presentation"
)

func TestCheck_Files(t *testing.T) {
	env := newTestEnv(t)
	good := env.writeFile(t, "good.area", validSpec)
	bad := env.writeFile(t, "bad.area", "* { x: 0px; }")

	out, err := env.run(t, "", "check", good)
	require.NoError(t, err)
	assert.Equal(t, good+": ok (1 area)\n", out)

	out, err = env.run(t, "", "check", good, bad)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, good+": ok (1 area)")
	assert.Contains(t, out, bad+": missing 'y'")
}

func TestCheck_JSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "* {\n  x: 0px;\n  x: 1px;\n}", "check", "--json")
	require.ErrorIs(t, err, errCheckFailed)

	var results []presentation.CheckResultDTO
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Equal(t, 3, results[0].Line)
	assert.Equal(t, 3, results[0].Col)
	assert.Contains(t, results[0].Error, "defined twice")
}

func TestCheck_EmptyInputIsValid(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "   \n", "check", "-")
	require.NoError(t, err)
	assert.Equal(t, "<stdin>: ok (0 areas)\n", out)
}

func TestCheck_MaxInputLength(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("LUMOS_PARSER_MAX_INPUT_LENGTH", "10")

	out, err := env.run(t, validSpec, "check")
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "input exceeds maximum length")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "0 areas", plural(0, "area"))
	assert.Equal(t, "1 area", plural(1, "area"))
	assert.Equal(t, "2 profiles", plural(2, "profile"))
}
