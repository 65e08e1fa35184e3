package runtime

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cpyvn/cpyvn/pkg/script"
)

// executeCurrent dispatches the command at the current index. blocked
// reports that stepping must stop for this frame; the handler has
// already positioned the index for the resume.
func (r *Runtime) executeCurrent() (blocked bool, err error) {
	cmd := r.program.Commands[r.index]
	switch c := cmd.(type) {
	case script.Label:
		r.index++
		return false, nil

	case script.Say:
		r.execSay(c)
		r.index++
		return true, nil

	case script.Jump:
		jumped, err := r.jump(c.Target)
		if err != nil {
			return false, err
		}
		if !jumped {
			r.index++
		}
		return false, nil

	case script.Choice:
		r.execChoice(c)
		r.index++
		return true, nil

	case script.Scene:
		r.execScene(c)
		r.index++
		return false, nil

	case script.Show:
		r.execShow(c)
		r.index++
		return false, nil

	case script.ShowChar:
		r.execShowChar(c)
		r.index++
		return false, nil

	case script.Hide:
		r.execHide(c)
		r.index++
		return false, nil

	case script.CameraSet:
		r.camera = Camera{PanX: c.PanX, PanY: c.PanY, Zoom: c.Zoom}
		r.index++
		return false, nil

	case script.Animate:
		r.execAnimate(c)
		r.index++
		return false, nil

	case script.Music:
		r.assets.PlayMusic(c.Path, c.Loop)
		r.music = &MusicState{Path: c.Path, Loop: c.Loop}
		r.index++
		return false, nil

	case script.Sound:
		r.assets.PlaySound(c.Path)
		r.index++
		return false, nil

	case script.Echo:
		if c.Action == "start" {
			r.assets.PlayEcho(c.Path)
			r.echoPath = c.Path
		} else {
			r.assets.StopEcho()
			r.echoPath = ""
		}
		r.index++
		return false, nil

	case script.Voice:
		r.assets.PlayVoice(r.voicePath(c))
		r.index++
		return false, nil

	case script.Mute:
		r.assets.Mute(c.Target)
		r.index++
		return false, nil

	case script.Preload:
		if kindIsAudio(c.Kind) {
			r.assets.PreloadSound(c.Path)
		} else {
			r.assets.PreloadImage(c.Path, c.Kind)
		}
		r.index++
		return false, nil

	case script.CacheClear:
		r.execCacheClear(c)
		r.index++
		return false, nil

	case script.CachePin:
		if kindIsAudio(c.Kind) {
			r.assets.PinSound(c.Path)
		} else {
			r.assets.PinImage(c.Path, c.Kind)
		}
		r.index++
		return false, nil

	case script.CacheUnpin:
		if kindIsAudio(c.Kind) {
			r.assets.UnpinSound(c.Path)
		} else {
			r.assets.UnpinImage(c.Path, c.Kind)
		}
		r.index++
		return false, nil

	case script.GarbageCollect:
		r.collectGarbage()
		r.index++
		return false, nil

	case script.Wait:
		r.index++
		if c.Seconds <= 0 {
			return false, nil
		}
		r.wait = waitTimer
		r.timerRemainMS = c.Seconds * 1000
		return true, nil

	case script.WaitVoice:
		r.index++
		if !r.assets.IsVoicePlaying() {
			return false, nil
		}
		r.wait = waitVoice
		return true, nil

	case script.WaitVideo:
		r.index++
		if r.videoState == nil {
			return false, nil
		}
		r.wait = waitVideo
		return true, nil

	case script.Notify:
		r.notifyState = &Notification{Text: r.interpolate(c.Text), RemainingMS: c.Seconds * 1000}
		r.index++
		return false, nil

	case script.Blend:
		if c.Style == "none" {
			r.blendState = nil
		} else {
			r.blendState = &BlendEffect{Style: c.Style, RemainingMS: c.Seconds * 1000}
		}
		r.index++
		return false, nil

	case script.Save:
		if err := r.SaveSlot(c.Slot); err != nil {
			r.log.Warn("save failed", "slot", c.Slot, "error", err)
		}
		r.index++
		return false, nil

	case script.Load:
		if r.LoadSlot(c.Slot) {
			// State replaced; the loop re-enters at the restored index.
			return false, nil
		}
		r.index++
		return false, nil

	case script.SetVar:
		r.execSetVar(c)
		r.index++
		return false, nil

	case script.AddVar:
		cur, ok := r.vars[c.Name].AsNumber()
		if !ok {
			cur = 0
		}
		r.vars[c.Name] = script.NumberValue(cur + c.Amount)
		r.index++
		return false, nil

	case script.IfJump:
		if r.evalCondition(c) {
			jumped, err := r.jump(c.Target)
			if err != nil {
				return false, err
			}
			if jumped {
				return false, nil
			}
		}
		r.index++
		return false, nil

	case script.Call:
		return false, r.execCall(c)

	case script.Loading:
		if c.Action == "start" {
			r.loading = LoadingOverlay{Active: true, Text: r.interpolate(c.Text)}
		} else {
			r.loading = LoadingOverlay{}
		}
		r.index++
		return false, nil

	case script.CharacterDef:
		r.characters[c.Ident] = characterFromDef(c)
		r.index++
		return false, nil

	case script.Input:
		r.wait = waitInput
		r.input = &InputState{Variable: c.Variable, Prompt: r.interpolate(c.Prompt), Default: c.Default}
		r.index++
		return true, nil

	case script.Phone:
		return r.execPhone(c), nil

	case script.Meter:
		r.execMeter(c)
		r.index++
		return false, nil

	case script.Item:
		r.execItem(c)
		r.index++
		return false, nil

	case script.Map:
		return r.execMap(c), nil

	case script.Video:
		if c.Action == "play" {
			r.startVideo(c)
		} else {
			r.stopVideo()
		}
		r.index++
		return false, nil

	case script.HotspotAdd:
		rect := c.Rect
		r.putHotspot(Hotspot{Name: c.Name, Rect: &rect, Target: c.Target})
		r.index++
		return false, nil

	case script.HotspotPoly:
		r.putHotspot(Hotspot{Name: c.Name, Points: c.Points, Target: c.Target})
		r.index++
		return false, nil

	case script.HotspotRemove:
		r.removeHotspot(c.Name)
		r.index++
		return false, nil

	case script.HotspotDebug:
		r.hotspotDbg = c.Enabled
		r.index++
		return false, nil

	case script.HudAdd:
		r.putHudButton(HudButton{Name: c.Name, Style: c.Style, Text: c.Text, Icon: c.Icon, Rect: c.Rect, Target: c.Target})
		r.index++
		return false, nil

	case script.HudRemove:
		r.removeHudButton(c.Name)
		r.index++
		return false, nil
	}

	return false, fmt.Errorf("unhandled command %T at %s index %d", cmd, r.scriptPath, r.index)
}

func (r *Runtime) execSay(c script.Say) {
	d := &Dialogue{Speaker: c.Speaker, Text: r.interpolate(c.Text)}
	if ch, ok := r.characters[c.Speaker]; ok {
		if ch.DisplayName != "" {
			d.Speaker = ch.DisplayName
		}
		d.Color = ch.Color
	}
	r.dialogue = d
}

func (r *Runtime) execChoice(c script.Choice) {
	cs := &ChoiceState{Prompt: r.interpolate(c.Prompt)}
	cs.Options = make([]script.ChoiceOption, len(c.Options))
	for i, opt := range c.Options {
		cs.Options[i] = script.ChoiceOption{Text: r.interpolate(opt.Text), Target: opt.Target}
	}
	if c.TimeoutSeconds != nil && c.TimeoutDefault != nil {
		ms := *c.TimeoutSeconds * 1000
		idx := *c.TimeoutDefault
		cs.TimeoutMS = &ms
		cs.TimeoutDefault = &idx
	}
	r.wait = waitChoice
	r.choice = cs
}

func (r *Runtime) execSetVar(c script.SetVar) {
	if ref, ok := c.Value.Ref(); ok {
		if v, exists := r.vars[ref]; exists {
			r.vars[c.Name] = v
			return
		}
	}
	r.vars[c.Name] = c.Value
}

// voicePath prefixes the character's voice tag when the path is a bare
// file name. Paths that already carry a directory play as written.
func (r *Runtime) voicePath(c script.Voice) string {
	if c.Character == "" || strings.ContainsAny(c.Path, "/\\") {
		return c.Path
	}
	ch, ok := r.characters[c.Character]
	if !ok || ch.VoiceTag == "" {
		return c.Path
	}
	return ch.VoiceTag + "/" + c.Path
}

func (r *Runtime) execPhone(c script.Phone) (blocked bool) {
	switch c.Action {
	case "open":
		r.phone = &PhoneState{Contact: c.Contact}
		r.index++
		return false
	case "msg":
		if r.phone == nil {
			r.log.Warn("phone msg outside an open conversation")
			r.index++
			return false
		}
		r.phone.Messages = append(r.phone.Messages, PhoneMessage{Side: c.Side, Text: r.interpolate(c.Text)})
		r.phone.WaitingAdvance = true
		r.index++
		return true
	default:
		r.phone = nil
		r.index++
		return false
	}
}

func (r *Runtime) execMeter(c script.Meter) {
	switch c.Action {
	case "show":
		if _, ok := r.meters[c.Var]; !ok {
			r.meterOrder = append(r.meterOrder, c.Var)
		}
		r.meters[c.Var] = &MeterState{Var: c.Var, Label: c.Label, Min: c.Min, Max: c.Max, Color: c.Color}
		r.refreshMeters()
	case "update":
		r.refreshMeters()
	case "hide":
		if _, ok := r.meters[c.Var]; ok {
			delete(r.meters, c.Var)
			r.meterOrder = removeString(r.meterOrder, c.Var)
		}
	case "clear":
		r.meters = make(map[string]*MeterState)
		r.meterOrder = nil
	}
}

func (r *Runtime) execItem(c script.Item) {
	switch c.Action {
	case "add":
		if it, ok := r.items[c.ID]; ok {
			it.Count += c.Amount
		} else {
			r.items[c.ID] = &InventoryItem{Name: c.Name, Desc: c.Desc, Icon: c.Icon, Count: c.Amount}
			r.itemOrder = append(r.itemOrder, c.ID)
			if c.Icon != "" {
				r.assets.PreloadImage(c.Icon, "sprites")
			}
		}
	case "remove":
		if it, ok := r.items[c.ID]; ok {
			it.Count -= c.Amount
			if it.Count <= 0 {
				delete(r.items, c.ID)
				r.itemOrder = removeString(r.itemOrder, c.ID)
			}
		}
	case "clear":
		r.items = make(map[string]*InventoryItem)
		r.itemOrder = nil
	}
	r.clampInventoryPage()
}

// execMap handles show/poi/hide. A show consumes the poi commands that
// directly follow it into the overlay's point list and blocks with the
// overlay active. A poi reached on its own is skipped.
func (r *Runtime) execMap(c script.Map) (blocked bool) {
	switch c.Action {
	case "show":
		if !r.project.FeatureOn("maps") {
			r.log.Warn("map command ignored, maps feature is off")
			r.index = r.skipMapPois(r.index + 1)
			return false
		}
		ms := MapState{Active: true, Image: c.Image}
		i := r.index + 1
		for i < len(r.program.Commands) {
			poi, ok := r.program.Commands[i].(script.Map)
			if !ok || poi.Action != "poi" {
				break
			}
			ms.Points = append(ms.Points, MapPoint{Label: poi.Label, Pos: poi.Pos, Target: poi.Target})
			i++
		}
		r.mapState = ms
		r.index = i
		if c.Image != "" {
			r.assets.LoadImage(c.Image, "bg")
		}
		return true
	case "poi":
		r.index++
		return false
	default:
		r.mapState = MapState{}
		r.index++
		return false
	}
}

func (r *Runtime) skipMapPois(from int) int {
	for from < len(r.program.Commands) {
		poi, ok := r.program.Commands[from].(script.Map)
		if !ok || poi.Action != "poi" {
			break
		}
		from++
	}
	return from
}

// execCall switches execution into another script at a label. The path
// resolves against the current script's directory and the parse is
// memoized by the loader. A slow parse auto-shows the loading overlay.
func (r *Runtime) execCall(c script.Call) error {
	if r.loader == nil {
		return fmt.Errorf("call %q: no script loader configured", c.Path)
	}
	abs := filepath.Join(filepath.Dir(r.scriptPath), filepath.FromSlash(c.Path))

	started := time.Now()
	prog, err := r.loader.Load(abs)
	if err != nil {
		return fmt.Errorf("call %q: %w", c.Path, err)
	}
	elapsed := float64(time.Since(started).Milliseconds())
	if !r.loading.Active && r.ui.CallAutoLoading && elapsed > float64(r.ui.CallLoadingThresholdMS) {
		r.loading = LoadingOverlay{
			Active:      true,
			Text:        r.ui.CallLoadingText,
			auto:        true,
			minRemainMS: float64(r.ui.CallLoadingMinShowMS),
		}
	}

	target := strings.TrimPrefix(c.Label, "::")
	idx, ok := prog.Labels[target]
	if !ok {
		return &UnknownLabelError{Label: target, Script: abs}
	}
	r.program = prog
	r.scriptPath = abs
	r.index = idx
	return nil
}

func characterFromDef(c script.CharacterDef) *Character {
	ch := &Character{
		DisplayName: c.DisplayName,
		Color:       c.Color,
		VoiceTag:    c.VoiceTag,
		Anchor:      c.Anchor,
		Sprites:     make(map[string]string, len(c.Sprites)),
	}
	for k, v := range c.Sprites {
		ch.Sprites[k] = v
	}
	if c.Pos != nil {
		p := *c.Pos
		ch.Pos = &p
	}
	if c.Z != nil {
		z := *c.Z
		ch.Z = &z
	}
	if c.FloatAmp != nil {
		a := *c.FloatAmp
		ch.FloatAmp = &a
	}
	if c.FloatSpeed != nil {
		s := *c.FloatSpeed
		ch.FloatSpeed = &s
	}
	return ch
}

func kindIsAudio(kind string) bool {
	switch kind {
	case "audio", "sound", "sounds", "voice", "music":
		return true
	}
	return false
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
