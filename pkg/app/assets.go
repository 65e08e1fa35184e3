package app

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoding
	_ "image/png"  // register PNG decoding
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	_ "golang.org/x/image/bmp" // register BMP decoding

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/fileutil"
	"github.com/cpyvn/cpyvn/pkg/graphics"
	"github.com/cpyvn/cpyvn/pkg/logger"
	"github.com/cpyvn/cpyvn/pkg/runtime"
)

// sampleRate is the shared mixing rate for every audio stream.
const sampleRate = 44100

type imageEntry struct {
	path    string
	surface *imageSurface
	pinned  bool
}

type soundEntry struct {
	data   []byte
	pinned bool
}

// Assets loads images and plays audio for the runtime and the renderer.
// Images cache as GPU textures keyed by asset kind and script path, so
// the renderer can re-request them every frame. Sounds cache as raw file
// bytes and decode per playback.
//
// A nil audio context (headless mode) keeps all cache bookkeeping but
// skips playback entirely.
type Assets struct {
	project  *config.Project
	log      *slog.Logger
	audioCtx *audio.Context

	images   map[string]*imageEntry
	fills    map[string]*imageSurface
	resolved map[string]string
	sounds   map[string]*soundEntry

	oneShots []*audio.Player
	music    *audio.Player
	echo     *audio.Player
	voice    *audio.Player

	muted map[string]bool

	mu sync.Mutex
}

// NewAssets builds the asset manager. headless suppresses the audio
// context so no device is opened.
func NewAssets(project *config.Project, prefs config.Prefs, headless bool) *Assets {
	a := &Assets{
		project:  project,
		log:      logger.GetLogger(),
		images:   make(map[string]*imageEntry),
		fills:    make(map[string]*imageSurface),
		resolved: make(map[string]string),
		sounds:   make(map[string]*soundEntry),
		muted: map[string]bool{
			"music": prefs.MutedMusic,
			"sound": prefs.MutedSound,
			"voice": prefs.MutedVoice,
		},
	}
	if !headless {
		a.audioCtx = audio.NewContext(sampleRate)
	}
	return a
}

func imageKey(path, kind string) string { return kind + "|" + path }

// LoadImage returns the cached surface for path under the given asset
// kind, decoding it on first use. Failures are remembered so a missing
// file costs one disk probe, not one per frame.
func (a *Assets) LoadImage(path, kind string) runtime.Surface {
	a.mu.Lock()
	defer a.mu.Unlock()
	e := a.loadImageLocked(path, kind)
	if e == nil || e.surface == nil {
		return nil
	}
	return e.surface
}

func (a *Assets) loadImageLocked(path, kind string) *imageEntry {
	key := imageKey(path, kind)
	if e, ok := a.images[key]; ok {
		return e
	}
	e := &imageEntry{path: path}
	a.images[key] = e

	full := a.resolveLocked(path, kind)
	f, err := os.Open(full)
	if err != nil {
		a.log.Warn("image not found", "path", path, "kind", kind, "resolved", full)
		return e
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		a.log.Warn("image decode failed", "path", path, "error", err)
		return e
	}
	e.surface = &imageSurface{img: ebiten.NewImageFromImage(img)}
	a.log.Debug("image loaded", "path", path, "kind", kind)
	return e
}

// ResolvePath maps a script asset path to an absolute file path under
// the project's root for that kind. The lookup ignores case, matching
// assets authored on case-insensitive filesystems.
func (a *Assets) ResolvePath(path, kind string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.resolveLocked(path, kind)
}

func (a *Assets) resolveLocked(path, kind string) string {
	if filepath.IsAbs(path) {
		return path
	}
	key := imageKey(path, kind)
	if full, ok := a.resolved[key]; ok {
		return full
	}
	root := a.project.AssetRoot(kind)
	full, err := fileutil.ResolveCaseInsensitive(root, filepath.FromSlash(path))
	if err != nil {
		full = filepath.Join(root, filepath.FromSlash(path))
	}
	a.resolved[key] = full
	return full
}

// MakeColorSurface builds (and caches) a solid fill of the given color.
func (a *Assets) MakeColorSurface(colorStr string, w, h int) runtime.Surface {
	return a.fillSurface(colorStr, w, h)
}

// MakeRectSurface builds a solid rectangle surface.
func (a *Assets) MakeRectSurface(colorStr string, w, h int) runtime.Surface {
	return a.fillSurface(colorStr, w, h)
}

func (a *Assets) fillSurface(colorStr string, w, h int) runtime.Surface {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	key := fmt.Sprintf("%s|%dx%d", colorStr, w, h)
	if s, ok := a.fills[key]; ok {
		return s
	}
	img := ebiten.NewImage(w, h)
	img.Fill(graphics.ParseColor(colorStr))
	s := &imageSurface{img: img}
	a.fills[key] = s
	return s
}

// PlaySound fires one non-looping effect. Overlapping sounds mix.
func (a *Assets) PlaySound(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sweepOneShots()
	p := a.startPlayerLocked(path, false, "sound")
	if p != nil {
		a.oneShots = append(a.oneShots, p)
	}
}

// PlayMusic replaces the background music track.
func (a *Assets) PlayMusic(path string, loop bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.music != nil {
		a.music.Close()
		a.music = nil
	}
	a.music = a.startPlayerLocked(path, loop, "music")
}

// PlayEcho replaces the ambient loop.
func (a *Assets) PlayEcho(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.echo != nil {
		a.echo.Close()
		a.echo = nil
	}
	a.echo = a.startPlayerLocked(path, true, "echo")
}

// StopEcho stops the ambient loop.
func (a *Assets) StopEcho() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.echo != nil {
		a.echo.Close()
		a.echo = nil
	}
}

// PlayVoice replaces the current voice line.
func (a *Assets) PlayVoice(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.voice != nil {
		a.voice.Close()
		a.voice = nil
	}
	a.voice = a.startPlayerLocked(path, false, "voice")
}

// IsVoicePlaying reports whether a voice line is still audible.
func (a *Assets) IsVoicePlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.voice != nil && a.voice.IsPlaying()
}

// startPlayerLocked decodes path and starts a player at the category's
// current volume. Returns nil without audio output (headless, missing or
// undecodable file); the script keeps running either way.
func (a *Assets) startPlayerLocked(path string, loop bool, category string) *audio.Player {
	data := a.soundDataLocked(path)
	if data == nil || a.audioCtx == nil {
		return nil
	}
	stream, err := decodeAudio(path, data)
	if err != nil {
		a.log.Warn("audio decode failed", "path", path, "error", err)
		return nil
	}
	var src io.Reader = stream
	if loop {
		src = audio.NewInfiniteLoop(stream, stream.Length())
	}
	p, err := a.audioCtx.NewPlayer(src)
	if err != nil {
		a.log.Warn("audio player failed", "path", path, "error", err)
		return nil
	}
	p.SetVolume(a.volumeLocked(category))
	p.Play()
	return p
}

// lengthStream is a decoded stream with a known byte length, as the
// infinite loop wrapper requires.
type lengthStream interface {
	io.ReadSeeker
	Length() int64
}

func decodeAudio(path string, data []byte) (lengthStream, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ogg":
		return vorbis.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	case ".wav":
		return wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
}

// soundDataLocked returns the cached file bytes for path, reading them
// on first use. Failures cache as empty entries.
func (a *Assets) soundDataLocked(path string) []byte {
	if e, ok := a.sounds[path]; ok {
		return e.data
	}
	e := &soundEntry{}
	a.sounds[path] = e
	full := a.resolveLocked(path, "audio")
	data, err := os.ReadFile(full)
	if err != nil {
		a.log.Warn("sound not found", "path", path, "resolved", full)
		return nil
	}
	e.data = data
	return data
}

func (a *Assets) sweepOneShots() {
	kept := a.oneShots[:0]
	for _, p := range a.oneShots {
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		p.Close()
	}
	a.oneShots = kept
}

// Mute toggles one audio target: music, sound, voice, echo or all. Live
// players pick the change up immediately.
func (a *Assets) Mute(target string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted[target] = !a.muted[target]
	a.applyVolumesLocked()
}

func (a *Assets) volumeLocked(category string) float64 {
	if a.muted["all"] || a.muted[category] {
		return 0
	}
	return 1
}

func (a *Assets) applyVolumesLocked() {
	if a.music != nil {
		a.music.SetVolume(a.volumeLocked("music"))
	}
	if a.echo != nil {
		a.echo.SetVolume(a.volumeLocked("echo"))
	}
	if a.voice != nil {
		a.voice.SetVolume(a.volumeLocked("voice"))
	}
	for _, p := range a.oneShots {
		p.SetVolume(a.volumeLocked("sound"))
	}
}

// ClearImages drops every cached image, pinned or not.
func (a *Assets) ClearImages() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearImagesLocked()
}

func (a *Assets) clearImagesLocked() {
	for _, e := range a.images {
		if e.surface != nil {
			e.surface.img.Deallocate()
		}
	}
	a.images = make(map[string]*imageEntry)
}

// ClearSounds drops every cached sound.
func (a *Assets) ClearSounds() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sounds = make(map[string]*soundEntry)
}

// ClearAll drops both caches.
func (a *Assets) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearImagesLocked()
	a.sounds = make(map[string]*soundEntry)
}

// PruneImages drops cached images whose script paths are neither in keep
// nor pinned.
func (a *Assets) PruneImages(keep []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}
	for key, e := range a.images {
		if e.pinned || keepSet[e.path] {
			continue
		}
		if e.surface != nil {
			e.surface.img.Deallocate()
		}
		delete(a.images, key)
	}
}

// PruneSounds is the audio counterpart of PruneImages.
func (a *Assets) PruneSounds(keep []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	keepSet := make(map[string]bool, len(keep))
	for _, p := range keep {
		keepSet[p] = true
	}
	for path, e := range a.sounds {
		if e.pinned || keepSet[path] {
			continue
		}
		delete(a.sounds, path)
	}
}

// PinImage loads an image and protects it from pruning.
func (a *Assets) PinImage(path, kind string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e := a.loadImageLocked(path, kind); e != nil {
		e.pinned = true
	}
}

// UnpinImage removes the pruning protection.
func (a *Assets) UnpinImage(path, kind string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.images[imageKey(path, kind)]; ok {
		e.pinned = false
	}
}

// PinSound loads a sound and protects it from pruning.
func (a *Assets) PinSound(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.soundDataLocked(path)
	if e, ok := a.sounds[path]; ok {
		e.pinned = true
	}
}

// UnpinSound removes the pruning protection.
func (a *Assets) UnpinSound(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.sounds[path]; ok {
		e.pinned = false
	}
}

// PreloadImage warms the image cache without pinning.
func (a *Assets) PreloadImage(path, kind string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loadImageLocked(path, kind)
}

// PreloadSound warms the sound cache without pinning.
func (a *Assets) PreloadSound(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.soundDataLocked(path)
}

// StopAll stops every active player. Called on shutdown.
func (a *Assets) StopAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, p := range a.oneShots {
		p.Close()
	}
	a.oneShots = nil
	for _, p := range []*audio.Player{a.music, a.echo, a.voice} {
		if p != nil {
			p.Close()
		}
	}
	a.music, a.echo, a.voice = nil, nil, nil
}
