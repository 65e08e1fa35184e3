package runtime

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// execCacheClear implements the cache clear kinds. "scripts" empties the
// parse memoization only; "runtime" is the full soft reset short of
// discarding variables; "script" evicts one parse entry and, when it is
// the running script, drops sprites and dialogue but keeps variables.
func (r *Runtime) execCacheClear(c script.CacheClear) {
	switch c.Kind {
	case "images":
		r.assets.ClearImages()
	case "scripts":
		if r.loader != nil {
			r.loader.Clear()
		}
	case "runtime":
		if r.loader != nil {
			r.loader.Clear()
		}
		r.resetWorld()
		r.camera = defaultCamera()
		r.background = defaultBackground()
	case "script":
		abs := filepath.Join(filepath.Dir(r.scriptPath), filepath.FromSlash(c.Path))
		if r.loader != nil {
			r.loader.Remove(abs)
		}
		if abs == r.scriptPath {
			r.sprites = make(map[string]*Sprite)
			r.spriteOrder = nil
			r.tracks = make(map[trackKey]*Track)
			r.dialogue = nil
		}
	}
}

// collectGarbage prunes unpinned assets the scene no longer references:
// the keep set is the current script's manifest plus everything live
// state still points at.
func (r *Runtime) collectGarbage() {
	keepImages := append([]string(nil), r.program.Manifest.Images...)
	if r.background.Kind == "image" && r.background.Value != "" {
		keepImages = append(keepImages, r.background.Value)
	}
	for _, name := range r.spriteOrder {
		if sp, ok := r.sprites[name]; ok && sp.Kind == "image" && sp.Value != "" {
			keepImages = append(keepImages, sp.Value)
		}
	}
	for _, id := range r.itemOrder {
		if it, ok := r.items[id]; ok && it.Icon != "" {
			keepImages = append(keepImages, it.Icon)
		}
	}
	for i := range r.hudButtons {
		if r.hudButtons[i].Icon != "" {
			keepImages = append(keepImages, r.hudButtons[i].Icon)
		}
	}
	if r.mapState.Image != "" {
		keepImages = append(keepImages, r.mapState.Image)
	}

	keepSounds := append([]string(nil), r.program.Manifest.Sounds...)
	if r.music != nil && r.music.Path != "" {
		keepSounds = append(keepSounds, r.music.Path)
	}
	if r.echoPath != "" {
		keepSounds = append(keepSounds, r.echoPath)
	}

	r.assets.PruneImages(keepImages)
	r.assets.PruneSounds(keepSounds)
}

// applyPrefetch honors the project's prefetch manifest at startup: pins
// listed assets and warms listed scripts through the loader cache. The
// file is read tolerantly; a missing or malformed manifest is skipped.
func (r *Runtime) applyPrefetch(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Debug("no prefetch manifest", "path", path)
		return
	}
	gjson.GetBytes(data, "pin").ForEach(func(_, entry gjson.Result) bool {
		kind := entry.Get("kind").String()
		p := entry.Get("path").String()
		if p == "" {
			return true
		}
		if kindIsAudio(kind) {
			r.assets.PinSound(p)
			r.assets.PreloadSound(p)
		} else {
			r.assets.PinImage(p, kind)
			r.assets.PreloadImage(p, kind)
		}
		return true
	})
	if r.loader == nil {
		return
	}
	gjson.GetBytes(data, "warm_scripts").ForEach(func(_, entry gjson.Result) bool {
		rel := entry.String()
		if rel == "" {
			return true
		}
		abs := filepath.Join(r.project.Root, filepath.FromSlash(rel))
		if _, err := r.loader.Load(abs); err != nil {
			r.log.Warn("prefetch warm parse failed", "script", rel, "error", err)
		}
		return true
	})
}
