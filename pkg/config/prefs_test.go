package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestLoadPrefsMissingFile(t *testing.T) {
	p := LoadPrefs(filepath.Join(t.TempDir(), "prefs.json"))
	assert.Zero(t, p.TextSpeed)
	assert.False(t, p.MutedMusic)
}

func TestSetPrefRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	require.NoError(t, SetPref(path, "text_speed", 55))
	require.NoError(t, SetPref(path, "muted.music", true))
	require.NoError(t, SetPref(path, "muted.voice", true))

	p := LoadPrefs(path)
	assert.Equal(t, 55.0, p.TextSpeed)
	assert.True(t, p.MutedMusic)
	assert.False(t, p.MutedSound)
	assert.True(t, p.MutedVoice)
}

func TestSetPrefPreservesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme": "dark", "muted": {"music": true}}`), 0o644))

	require.NoError(t, SetPref(path, "text_speed", 20))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", gjson.GetBytes(data, "theme").String(), "fields written by other tools survive")
	assert.True(t, gjson.GetBytes(data, "muted.music").Bool())
	assert.Equal(t, 20.0, gjson.GetBytes(data, "text_speed").Float())
}
