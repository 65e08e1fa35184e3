// Package config loads the project configuration, menu definitions and
// player preferences. project.json is validated against an embedded JSON
// Schema before decoding; menu and preference files are read tolerantly,
// falling back to built-in defaults field by field.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed project.schema.json
var projectSchema string

// Window describes the game window.
type Window struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	FPS       int  `json:"fps"`
	Resizable bool `json:"resizable"`
}

// AssetRoots holds the directory roots per asset kind, relative to the
// project root. An empty root means the project root itself.
type AssetRoots struct {
	BG      string `json:"bg"`
	Sprites string `json:"sprites"`
	Audio   string `json:"audio"`
	Video   string `json:"video"`
}

// Feature is an optional subsystem toggle with an optional script that is
// merged into the entry script under the feature's name.
type Feature struct {
	Use  bool   `json:"use"`
	Path string `json:"path"`
}

// Project is the decoded project.json.
type Project struct {
	Name           string             `json:"name"`
	Debug          bool               `json:"debug"`
	Entry          string             `json:"entry"`
	Window         Window             `json:"window"`
	Assets         AssetRoots         `json:"assets"`
	Prefetch       string             `json:"prefetch"`
	Saves          string             `json:"saves"`
	VideoBackend   string             `json:"video_backend"`
	VideoAudio     bool               `json:"video_audio"`
	VideoFramedrop string             `json:"video_framedrop"`
	Features       map[string]Feature `json:"features"`
	UI             UiConfig           `json:"ui"`

	// Root is the directory containing project.json, set by LoadProject.
	Root string `json:"-"`
}

// Default returns a Project with every optional field at its default.
func Default() Project {
	return Project{
		Window:         Window{Width: 1280, Height: 720, FPS: 60, Resizable: true},
		Saves:          "saves",
		VideoBackend:   "auto",
		VideoAudio:     true,
		VideoFramedrop: "auto",
		UI:             DefaultUiConfig(),
	}
}

// LoadProject reads and validates a project.json. Absent optional fields
// take their defaults; Root is set to the file's directory.
func LoadProject(path string) (*Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve project path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read project config: %w", err)
	}
	if err := validateProject(data); err != nil {
		return nil, err
	}

	proj := Default()
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("decode project config: %w", err)
	}
	proj.Root = filepath.Dir(abs)
	return &proj, nil
}

func validateProject(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(projectSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate project config: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid project config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// EntryPath returns the absolute path of the entry script.
func (p *Project) EntryPath() string {
	return filepath.Join(p.Root, filepath.FromSlash(p.Entry))
}

// SavesDir returns the absolute saves directory.
func (p *Project) SavesDir() string {
	return filepath.Join(p.Root, filepath.FromSlash(p.Saves))
}

// AssetRoot returns the absolute directory for an asset kind. Unknown
// kinds resolve to the project root.
func (p *Project) AssetRoot(kind string) string {
	var rel string
	switch kind {
	case "bg":
		rel = p.Assets.BG
	case "sprites", "sprite":
		rel = p.Assets.Sprites
	case "audio", "sound", "sounds", "music", "voice":
		rel = p.Assets.Audio
	case "video":
		rel = p.Assets.Video
	}
	if rel == "" {
		return p.Root
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// FeatureOn reports whether a feature flag is enabled.
func (p *Project) FeatureOn(name string) bool {
	f, ok := p.Features[name]
	return ok && f.Use
}
