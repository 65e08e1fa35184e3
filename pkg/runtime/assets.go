package runtime

// Surface is an opaque handle to a loaded image. The runtime never draws;
// it only stores and hands surfaces to the caller's renderer.
type Surface interface {
	// Size returns the pixel dimensions.
	Size() (w, h int)
}

// AssetManager abstracts image and audio loading so the runtime can be
// driven headless in tests. Missing files are the manager's concern; its
// methods must not panic and the runtime keeps stepping regardless.
type AssetManager interface {
	// LoadImage returns the surface for path under the given asset kind
	// (bg, sprites, ...), or nil when the file cannot be loaded.
	LoadImage(path, kind string) Surface

	// ResolvePath maps a project-relative asset path to an absolute one.
	ResolvePath(path, kind string) string

	// MakeColorSurface builds a solid fill of the given #rrggbb color.
	MakeColorSurface(color string, w, h int) Surface

	// MakeRectSurface builds a solid rectangle surface.
	MakeRectSurface(color string, w, h int) Surface

	PlaySound(path string)
	PlayMusic(path string, loop bool)
	PlayEcho(path string)
	StopEcho()
	PlayVoice(path string)

	// IsVoicePlaying reports whether a voice line is still audible.
	IsVoicePlaying() bool

	// Mute toggles an audio target: music, sound, voice, echo or all.
	Mute(target string)

	ClearImages()
	ClearSounds()
	ClearAll()

	// PruneImages drops cached images whose paths are not in keep and
	// not pinned. PruneSounds is the audio counterpart.
	PruneImages(keep []string)
	PruneSounds(keep []string)

	PinImage(path, kind string)
	UnpinImage(path, kind string)
	PinSound(path string)
	UnpinSound(path string)

	PreloadImage(path, kind string)
	PreloadSound(path string)
}

// Playback is one in-flight video decode session owned by the backend.
type Playback interface {
	// Update polls for the newest decoded frame. frame is nil when no new
	// frame is ready; finished reports end of a non-looping stream.
	Update(nowMS float64) (frame Surface, finished bool, err error)

	// Close releases decoder resources. Safe to call more than once.
	Close()
}

// VideoBackend creates playback sessions. A nil backend disables the
// video commands (they log and skip).
type VideoBackend interface {
	CreatePlayback(path string, loop bool) (Playback, error)
}
