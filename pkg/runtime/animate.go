package runtime

import "github.com/cpyvn/cpyvn/pkg/script"

// trackKey identifies one animation slot. Starting a new track for the
// same key cancels the previous one with no partial blend.
type trackKey struct {
	Sprite string
	Action string
}

// Track is one timed interpolation over a sprite property. From and To
// are two-component vectors; alpha tracks use component 0 only.
type Track struct {
	Sprite       string
	Action       string
	From         [2]float64
	To           [2]float64
	ElapsedMS    float64
	DurationMS   float64
	Ease         string
	RemoveOnDone bool
}

func (r *Runtime) execAnimate(c script.Animate) {
	if c.Action == "stop" {
		r.removeTracks(c.Name)
		return
	}
	sp, ok := r.sprites[c.Name]
	if !ok {
		r.log.Warn("animate of unknown sprite", "name", c.Name, "action", c.Action)
		return
	}
	switch c.Action {
	case "move":
		r.startTrack(c.Name, "move", [2]float64{sp.Pos.X, sp.Pos.Y}, [2]float64{c.V1, c.V2}, c.Seconds, c.Ease, false)
	case "size":
		if sp.Size == nil {
			// No current size to interpolate from; snap.
			sp.Size = &script.Size{W: c.V1, H: c.V2}
			return
		}
		r.startTrack(c.Name, "size", [2]float64{sp.Size.W, sp.Size.H}, [2]float64{c.V1, c.V2}, c.Seconds, c.Ease, false)
	case "alpha":
		r.startTrack(c.Name, "alpha", [2]float64{sp.Alpha}, [2]float64{clamp01(c.V1)}, c.Seconds, c.Ease, false)
	}
}

func (r *Runtime) startTrack(sprite, action string, from, to [2]float64, seconds float64, ease string, removeOnDone bool) {
	if seconds <= 0 {
		r.applyTrackValue(sprite, action, to)
		if removeOnDone {
			r.removeSprite(sprite)
		}
		return
	}
	if ease == "" {
		ease = "linear"
	}
	r.tracks[trackKey{Sprite: sprite, Action: action}] = &Track{
		Sprite:       sprite,
		Action:       action,
		From:         from,
		To:           to,
		DurationMS:   seconds * 1000,
		Ease:         ease,
		RemoveOnDone: removeOnDone,
	}
}

// removeTracks drops every track of one sprite without touching the
// animated values.
func (r *Runtime) removeTracks(sprite string) {
	for key := range r.tracks {
		if key.Sprite == sprite {
			delete(r.tracks, key)
		}
	}
}

// advanceTracks moves every active track forward by dt, applies the
// eased value, and on completion snaps to the final value and removes
// the track.
func (r *Runtime) advanceTracks(dt float64) {
	var done []trackKey
	for key, t := range r.tracks {
		t.ElapsedMS += dt
		ratio := 1.0
		if t.DurationMS > 0 {
			ratio = t.ElapsedMS / t.DurationMS
		}
		if ratio >= 1 {
			r.applyTrackValue(t.Sprite, t.Action, t.To)
			done = append(done, key)
			continue
		}
		eased := easeValue(t.Ease, ratio)
		r.applyTrackValue(t.Sprite, t.Action, [2]float64{
			t.From[0] + (t.To[0]-t.From[0])*eased,
			t.From[1] + (t.To[1]-t.From[1])*eased,
		})
	}
	for _, key := range done {
		t := r.tracks[key]
		delete(r.tracks, key)
		if t != nil && t.RemoveOnDone {
			r.removeSprite(t.Sprite)
		}
	}
}

func (r *Runtime) applyTrackValue(sprite, action string, v [2]float64) {
	sp, ok := r.sprites[sprite]
	if !ok {
		return
	}
	switch action {
	case "move":
		sp.Pos = script.Point{X: v[0], Y: v[1]}
	case "size":
		sp.Size = &script.Size{W: v[0], H: v[1]}
	case "alpha":
		sp.Alpha = clamp01(v[0])
	}
}

// easeValue maps a progress ratio in [0, 1] through the named curve.
// Every curve is monotonic and stays inside [0, 1].
func easeValue(kind string, t float64) float64 {
	t = clamp01(t)
	switch kind {
	case "in":
		return t * t
	case "out":
		return 1 - (1-t)*(1-t)
	case "inout":
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - (2-2*t)*(2-2*t)/2
	}
	return t
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ActiveTracks reports the number of running animation tracks.
func (r *Runtime) ActiveTracks() int { return len(r.tracks) }
