package runtime

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/parser"
)

// MockSurface is a mock implementation of Surface for testing
type MockSurface struct {
	w, h int
}

func (m *MockSurface) Size() (int, int) { return m.w, m.h }

// musicCall records one PlayMusic invocation
type musicCall struct {
	Path string
	Loop bool
}

// MockAssets is a mock implementation of AssetManager for testing. Every
// call is recorded so tests can assert on playback and cache traffic.
type MockAssets struct {
	loadedImages  []string
	playedSounds  []string
	playedMusic   []musicCall
	playedEchoes  []string
	echoStops     int
	playedVoices  []string
	voicePlaying  bool
	mutedTargets  []string
	imageClears   int
	soundClears   int
	allClears     int
	keptImages    []string
	keptSounds    []string
	pinnedImages  []string
	pinnedSounds  []string
	preloadImages []string
	preloadSounds []string
}

// NewMockAssets creates a new mock asset manager
func NewMockAssets() *MockAssets {
	return &MockAssets{}
}

func (m *MockAssets) LoadImage(path, kind string) Surface {
	m.loadedImages = append(m.loadedImages, path)
	return &MockSurface{w: 64, h: 64}
}

func (m *MockAssets) ResolvePath(path, kind string) string { return path }

func (m *MockAssets) MakeColorSurface(color string, w, h int) Surface {
	return &MockSurface{w: w, h: h}
}

func (m *MockAssets) MakeRectSurface(color string, w, h int) Surface {
	return &MockSurface{w: w, h: h}
}

func (m *MockAssets) PlaySound(path string) { m.playedSounds = append(m.playedSounds, path) }

func (m *MockAssets) PlayMusic(path string, loop bool) {
	m.playedMusic = append(m.playedMusic, musicCall{Path: path, Loop: loop})
}

func (m *MockAssets) PlayEcho(path string)  { m.playedEchoes = append(m.playedEchoes, path) }
func (m *MockAssets) StopEcho()             { m.echoStops++ }
func (m *MockAssets) PlayVoice(path string) { m.playedVoices = append(m.playedVoices, path) }
func (m *MockAssets) IsVoicePlaying() bool  { return m.voicePlaying }
func (m *MockAssets) Mute(target string)    { m.mutedTargets = append(m.mutedTargets, target) }
func (m *MockAssets) ClearImages()          { m.imageClears++ }
func (m *MockAssets) ClearSounds()          { m.soundClears++ }
func (m *MockAssets) ClearAll()             { m.allClears++ }

func (m *MockAssets) PruneImages(keep []string) { m.keptImages = append([]string(nil), keep...) }
func (m *MockAssets) PruneSounds(keep []string) { m.keptSounds = append([]string(nil), keep...) }

func (m *MockAssets) PinImage(path, kind string) { m.pinnedImages = append(m.pinnedImages, path) }

func (m *MockAssets) UnpinImage(path, kind string) {
	m.pinnedImages = removeString(m.pinnedImages, path)
}

func (m *MockAssets) PinSound(path string)   { m.pinnedSounds = append(m.pinnedSounds, path) }
func (m *MockAssets) UnpinSound(path string) { m.pinnedSounds = removeString(m.pinnedSounds, path) }

func (m *MockAssets) PreloadImage(path, kind string) {
	m.preloadImages = append(m.preloadImages, path)
}

func (m *MockAssets) PreloadSound(path string) {
	m.preloadSounds = append(m.preloadSounds, path)
}

// MockPlayback is a mock implementation of Playback for testing
type MockPlayback struct {
	path        string
	loop        bool
	updates     int
	finishAfter int
	failAfter   int
	closes      int
}

// Update returns a fresh frame each call, finishing after finishAfter
// updates when that is set and the stream does not loop
func (m *MockPlayback) Update(nowMS float64) (Surface, bool, error) {
	m.updates++
	if m.failAfter > 0 && m.updates >= m.failAfter {
		return nil, false, errors.New("mock decode error")
	}
	if m.finishAfter > 0 && m.updates >= m.finishAfter && !m.loop {
		return nil, true, nil
	}
	return &MockSurface{w: 320, h: 240}, false, nil
}

func (m *MockPlayback) Close() { m.closes++ }

// MockVideoBackend is a mock implementation of VideoBackend for testing
type MockVideoBackend struct {
	shouldFail  bool
	finishAfter int
	playbacks   []*MockPlayback
}

// NewMockVideoBackend creates a new mock video backend
func NewMockVideoBackend() *MockVideoBackend {
	return &MockVideoBackend{}
}

func (m *MockVideoBackend) CreatePlayback(path string, loop bool) (Playback, error) {
	if m.shouldFail {
		return nil, errors.New("mock playback error")
	}
	pb := &MockPlayback{path: path, loop: loop, finishAfter: m.finishAfter}
	m.playbacks = append(m.playbacks, pb)
	return pb, nil
}

// testProject returns a project rooted in a temp dir with the interactive
// feature flags enabled and the title menu off, so scripts execute from
// the first step.
func testProject(t *testing.T) *config.Project {
	t.Helper()
	proj := config.Default()
	proj.Root = t.TempDir()
	proj.Entry = "scripts/main.cvn"
	proj.UI.TitleMenuEnabled = false
	proj.Features = map[string]config.Feature{
		"hud":   {Use: true},
		"items": {Use: true},
		"maps":  {Use: true},
	}
	return &proj
}

// newTestRuntime writes source as the project's entry script and builds
// a runtime around mock collaborators.
func newTestRuntime(t *testing.T, source string) (*Runtime, *MockAssets) {
	t.Helper()
	return newTestRuntimeWith(t, source, testProject(t))
}

func newTestRuntimeWith(t *testing.T, source string, proj *config.Project) (*Runtime, *MockAssets) {
	t.Helper()
	entry := writeEntryScript(t, proj, source)
	loader := parser.NewLoader()
	prog, err := loader.Load(entry)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	assets := NewMockAssets()
	rt := New(prog, entry, Options{
		Loader:    loader,
		Assets:    assets,
		Project:   proj,
		TitleMenu: config.DefaultTitleMenu(),
		PauseMenu: config.DefaultPauseMenu(),
	})
	return rt, assets
}

// writeEntryScript puts source on disk at the project's entry path so
// saves can reload it.
func writeEntryScript(t *testing.T, proj *config.Project, source string) string {
	t.Helper()
	entry := proj.EntryPath()
	if err := os.MkdirAll(filepath.Dir(entry), 0o755); err != nil {
		t.Fatalf("mkdir scripts: %v", err)
	}
	if err := os.WriteFile(entry, []byte(source), 0o644); err != nil {
		t.Fatalf("write entry script: %v", err)
	}
	return entry
}

// stepUntil drives the runtime one frame at a time until pred holds or
// the frame budget runs out
func stepUntil(t *testing.T, rt *Runtime, pred func() bool) {
	t.Helper()
	now := rt.lastNowMS
	for i := 0; i < 200; i++ {
		if pred() {
			return
		}
		now += 16
		if err := rt.Step(now, nil); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	t.Fatal("condition not reached within frame budget")
}

// mustStep advances one frame and fails the test on any fatal error
func mustStep(t *testing.T, rt *Runtime, nowMS float64, events ...Event) {
	t.Helper()
	if err := rt.Step(nowMS, events); err != nil {
		t.Fatalf("step at %v: %v", nowMS, err)
	}
}
