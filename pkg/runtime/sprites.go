package runtime

import (
	"math"

	"github.com/cpyvn/cpyvn/pkg/script"
)

func (r *Runtime) execScene(c script.Scene) {
	bg := Background{Kind: c.Kind, Value: c.Value}
	if c.FloatAmp != nil {
		bg.FloatAmp = *c.FloatAmp
	}
	if c.FloatSpeed != nil {
		bg.FloatSpeed = *c.FloatSpeed
	}
	r.background = bg
	if c.Kind == "image" {
		r.assets.LoadImage(c.Value, "bg")
	}
	if c.TransitionStyle != "" && c.TransitionSeconds != nil {
		r.blendState = &BlendEffect{Style: c.TransitionStyle, RemainingMS: *c.TransitionSeconds * 1000}
	}
}

func (r *Runtime) execShow(c script.Show) {
	r.removeTracks(c.Name)
	sp := r.ensureSprite(c.Name)
	sp.Kind = c.Kind
	sp.Value = c.Value
	sp.Anchor = c.Anchor
	sp.Alpha = 1
	if c.Z != nil {
		sp.Z = *c.Z
	}
	if c.Pos != nil {
		sp.Pos = *c.Pos
	}
	if c.Size != nil {
		size := *c.Size
		sp.Size = &size
	}
	if c.FloatAmp != nil {
		sp.FloatAmp = *c.FloatAmp
	}
	if c.FloatSpeed != nil {
		sp.FloatSpeed = *c.FloatSpeed
	}
	if c.Kind == "image" {
		r.assets.LoadImage(c.Value, "sprites")
	}
	r.fadeIn(sp, c.Fade, c.TransitionSeconds)
}

// execShowChar places a character sprite, filling every unset field from
// the character's declared defaults. Explicit fields always win. An
// unknown expression falls back to the "default" sprite entry.
func (r *Runtime) execShowChar(c script.ShowChar) {
	ch, ok := r.characters[c.Ident]
	if !ok {
		r.log.Warn("show of undeclared character", "ident", c.Ident)
		return
	}
	value, ok := ch.Sprites[c.Expression]
	if !ok {
		value, ok = ch.Sprites["default"]
	}
	if !ok {
		r.log.Warn("character has no sprite for expression", "ident", c.Ident, "expression", c.Expression)
		return
	}

	r.removeTracks(c.Ident)
	sp := r.ensureSprite(c.Ident)
	sp.Kind = "image"
	sp.Value = value
	sp.Alpha = 1

	sp.Anchor = c.Anchor
	if sp.Anchor == "" {
		sp.Anchor = ch.Anchor
	}
	switch {
	case c.Z != nil:
		sp.Z = *c.Z
	case ch.Z != nil:
		sp.Z = *ch.Z
	}
	switch {
	case c.Pos != nil:
		sp.Pos = *c.Pos
	case ch.Pos != nil:
		sp.Pos = *ch.Pos
	}
	switch {
	case c.FloatAmp != nil:
		sp.FloatAmp = *c.FloatAmp
	case ch.FloatAmp != nil:
		sp.FloatAmp = *ch.FloatAmp
	}
	switch {
	case c.FloatSpeed != nil:
		sp.FloatSpeed = *c.FloatSpeed
	case ch.FloatSpeed != nil:
		sp.FloatSpeed = *ch.FloatSpeed
	}

	r.assets.LoadImage(value, "sprites")
	r.fadeIn(sp, c.Fade, c.TransitionSeconds)
}

func (r *Runtime) execHide(c script.Hide) {
	sp, ok := r.sprites[c.Name]
	if !ok {
		return
	}
	secs := fadeSeconds(c.Fade, c.TransitionSeconds)
	if secs > 0 {
		r.startTrack(c.Name, "alpha", [2]float64{sp.Alpha}, [2]float64{0}, secs, "linear", true)
		return
	}
	r.removeSprite(c.Name)
}

// fadeIn ramps a freshly shown sprite's alpha from zero when a fade or
// transition duration is present.
func (r *Runtime) fadeIn(sp *Sprite, fade, transition *float64) {
	secs := fadeSeconds(fade, transition)
	if secs <= 0 {
		return
	}
	sp.Alpha = 0
	r.startTrack(sp.Name, "alpha", [2]float64{0}, [2]float64{1}, secs, "linear", false)
}

func fadeSeconds(fade, transition *float64) float64 {
	if fade != nil {
		return *fade
	}
	if transition != nil {
		return *transition
	}
	return 0
}

// ensureSprite returns the record for name, creating it at the back of
// the draw-insertion order on first use.
func (r *Runtime) ensureSprite(name string) *Sprite {
	if sp, ok := r.sprites[name]; ok {
		return sp
	}
	sp := &Sprite{Name: name, Alpha: 1}
	r.sprites[name] = sp
	r.spriteOrder = append(r.spriteOrder, name)
	return sp
}

func (r *Runtime) removeSprite(name string) {
	if _, ok := r.sprites[name]; !ok {
		return
	}
	delete(r.sprites, name)
	r.spriteOrder = removeString(r.spriteOrder, name)
	r.removeTracks(name)
}

// Sprites returns the live sprites in insertion order. The renderer
// sorts by Z on its side; insertion order breaks ties.
func (r *Runtime) Sprites() []*Sprite {
	out := make([]*Sprite, 0, len(r.spriteOrder))
	for _, name := range r.spriteOrder {
		if sp, ok := r.sprites[name]; ok {
			out = append(out, sp)
		}
	}
	return out
}

// SpriteByName returns one sprite record, or nil.
func (r *Runtime) SpriteByName(name string) *Sprite {
	return r.sprites[name]
}

// Background returns the current backdrop.
func (r *Runtime) Background() Background { return r.background }

// Dialogue returns the active text-box line, or nil.
func (r *Runtime) Dialogue() *Dialogue { return r.dialogue }

// FloatOffset computes the ambient bob offset for a float animation with
// the given amplitude and speed at the current clock.
func (r *Runtime) FloatOffset(amp, speed float64) float64 {
	if amp == 0 || speed == 0 {
		return 0
	}
	return amp * math.Sin(2*math.Pi*speed*r.floatClockMS/1000)
}
