package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "project.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProjectDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, `{"entry": "main.cvn"}`)

	proj, err := LoadProject(path)
	require.NoError(t, err)

	assert.Equal(t, "main.cvn", proj.Entry)
	assert.Equal(t, 1280, proj.Window.Width)
	assert.Equal(t, 720, proj.Window.Height)
	assert.Equal(t, 60, proj.Window.FPS)
	assert.True(t, proj.Window.Resizable)
	assert.Equal(t, "saves", proj.Saves)
	assert.Equal(t, "auto", proj.VideoBackend)
	assert.True(t, proj.VideoAudio)
	assert.Equal(t, dir, proj.Root)

	assert.Equal(t, filepath.Join(dir, "main.cvn"), proj.EntryPath())
	assert.Equal(t, filepath.Join(dir, "saves"), proj.SavesDir())

	ui := proj.UI
	assert.Equal(t, 40.0, ui.TextSpeed)
	assert.Equal(t, 0.72, ui.BoxOpacity)
	assert.False(t, ui.TitleMenuEnabled)
	assert.True(t, ui.PauseMenuEnabled)
	assert.Equal(t, 9, ui.PauseMenuSlots)
	assert.Equal(t, 3, ui.PauseMenuColumns)
	assert.True(t, ui.CallAutoLoading)
	assert.Equal(t, "Loading...", ui.CallLoadingText)
	assert.Equal(t, 120, ui.CallLoadingThresholdMS)
	assert.Equal(t, 140, ui.CallLoadingMinShowMS)
}

func TestLoadProjectOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, `{
		"name": "Demo",
		"debug": true,
		"entry": "scripts/entry.cvn",
		"window": {"width": 800, "height": 600, "fps": 30, "resizable": false},
		"assets": {"bg": "art/bg", "audio": "snd"},
		"saves": "state",
		"video_backend": "none",
		"features": {
			"items": {"use": true, "path": "scripts/items.cvn"},
			"maps": {"use": false}
		},
		"ui": {"pause_menu_enabled": false, "text_speed": 80, "title_menu_enabled": true}
	}`)

	proj, err := LoadProject(path)
	require.NoError(t, err)

	assert.Equal(t, "Demo", proj.Name)
	assert.True(t, proj.Debug)
	assert.Equal(t, 800, proj.Window.Width)
	assert.False(t, proj.Window.Resizable)
	assert.Equal(t, "none", proj.VideoBackend)
	assert.Equal(t, filepath.Join(dir, "state"), proj.SavesDir())

	assert.True(t, proj.FeatureOn("items"))
	assert.False(t, proj.FeatureOn("maps"))
	assert.False(t, proj.FeatureOn("hud"))

	assert.Equal(t, filepath.Join(dir, "art", "bg"), proj.AssetRoot("bg"))
	assert.Equal(t, filepath.Join(dir, "snd"), proj.AssetRoot("audio"))
	assert.Equal(t, dir, proj.AssetRoot("sprites"), "unset root falls back to project root")

	assert.False(t, proj.UI.PauseMenuEnabled, "explicit false must beat the default")
	assert.True(t, proj.UI.TitleMenuEnabled)
	assert.Equal(t, 80.0, proj.UI.TextSpeed)
	assert.Equal(t, 0.72, proj.UI.BoxOpacity, "untouched ui fields keep defaults")
}

func TestLoadProjectRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"missing entry", `{"name": "x"}`},
		{"wrong entry type", `{"entry": 5}`},
		{"wrong window type", `{"entry": "main.cvn", "window": {"width": "wide"}}`},
		{"bad video backend", `{"entry": "main.cvn", "video_backend": "ffmpeg"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProject(t, dir, tt.content)
			_, err := LoadProject(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid project config")
		})
	}
}

func TestLoadProjectMissingFile(t *testing.T) {
	_, err := LoadProject(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
