package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels_WriteJSONLines(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("inf", map[string]any{"a": 1})
	Warn("wrn", map[string]any{"b": "two"})
	Error("err", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "inf", first["message"])
	assert.EqualValues(t, 1, first["a"])

	assert.Contains(t, lines[1], `"level":"warn"`)
	assert.Contains(t, lines[1], `"b":"two"`)
	assert.Contains(t, lines[2], `"level":"error"`)
}

func TestGlobalLevel_FiltersDebug(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.DebugLevel) })

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden", nil)
	assert.Empty(t, buf.String())
}
