package runtime

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpyvn/cpyvn/pkg/fileutil"
	"github.com/cpyvn/cpyvn/pkg/script"
)

// saveVersion is the snapshot schema version this codec reads and
// writes. Other versions load as a warned no-op.
const saveVersion = 2

// SaveData is the full serialized interpreter state.
type SaveData struct {
	SaveVersion   int                      `json:"save_version"`
	ScriptPath    string                   `json:"script_path"`
	Index         int                      `json:"index"`
	Background    Background               `json:"background"`
	Vars          map[string]script.Value  `json:"vars"`
	Sprites       []SpriteSave             `json:"sprites,omitempty"`
	Inventory     map[string]ItemSave      `json:"inventory,omitempty"`
	InventoryPage int                      `json:"inventory_page,omitempty"`
	InventoryOpen bool                     `json:"inventory_open,omitempty"`
	Meters        map[string]MeterSave     `json:"meters,omitempty"`
	HudButtons    []HudButtonSave          `json:"hud_buttons,omitempty"`
	Music         *MusicState              `json:"music,omitempty"`
	Waiting       *WaitingSave             `json:"waiting,omitempty"`
	Characters    map[string]CharacterSave `json:"characters,omitempty"`
	Hotspots      []HotspotSave            `json:"hotspots,omitempty"`
	HotspotDebug  bool                     `json:"hotspot_debug,omitempty"`
	Map           MapSave                  `json:"map"`
	Camera        Camera                   `json:"camera"`
}

// SpriteSave carries one sprite in draw-insertion order.
type SpriteSave struct {
	Name       string       `json:"name"`
	Kind       string       `json:"kind"`
	Value      string       `json:"value"`
	Anchor     string       `json:"anchor,omitempty"`
	Z          int          `json:"z,omitempty"`
	Alpha      float64      `json:"alpha"`
	Pos        script.Point `json:"pos"`
	Size       *script.Size `json:"size,omitempty"`
	FloatAmp   float64      `json:"float_amp,omitempty"`
	FloatSpeed float64      `json:"float_speed,omitempty"`
}

// ItemSave is one inventory stack.
type ItemSave struct {
	Name  string `json:"name"`
	Desc  string `json:"desc,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Count int    `json:"count"`
}

// MeterSave is one gauge keyed by its variable.
type MeterSave struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// HudButtonSave is one hud button.
type HudButtonSave struct {
	Name   string      `json:"name"`
	Style  string      `json:"style"`
	Text   string      `json:"text,omitempty"`
	Icon   string      `json:"icon,omitempty"`
	Rect   script.Rect `json:"rect"`
	Target string      `json:"target"`
}

// CharacterSave is one declared character.
type CharacterSave struct {
	DisplayName string            `json:"display_name,omitempty"`
	Color       string            `json:"color,omitempty"`
	VoiceTag    string            `json:"voice_tag,omitempty"`
	Pos         *script.Point     `json:"pos,omitempty"`
	Anchor      string            `json:"anchor,omitempty"`
	Z           *int              `json:"z,omitempty"`
	FloatAmp    *float64          `json:"float_amp,omitempty"`
	FloatSpeed  *float64          `json:"float_speed,omitempty"`
	Sprites     map[string]string `json:"sprites,omitempty"`
}

// HotspotSave is one clickable region.
type HotspotSave struct {
	Name   string         `json:"name"`
	Rect   *script.Rect   `json:"rect,omitempty"`
	Points []script.Point `json:"points,omitempty"`
	Target string         `json:"target"`
}

// MapSave is the map overlay.
type MapSave struct {
	Active bool       `json:"active"`
	Image  string     `json:"image,omitempty"`
	Points []MapPoint `json:"points,omitempty"`
}

// WaitingSave is the blocking-wait record. Type selects which fields
// apply: timer, choice, input, voice or video.
type WaitingSave struct {
	Type        string   `json:"type"`
	RemainingMS *float64 `json:"remaining_ms,omitempty"`

	Prompt           string                `json:"prompt,omitempty"`
	Options          []script.ChoiceOption `json:"options,omitempty"`
	Selected         int                   `json:"selected,omitempty"`
	TimeoutMS        *float64              `json:"timeout_ms,omitempty"`
	TimeoutDefault   *int                  `json:"timeout_default,omitempty"`
	TimeoutElapsedMS float64               `json:"timeout_elapsed_ms,omitempty"`

	Variable string `json:"variable,omitempty"`
	Default  string `json:"default,omitempty"`
	Buffer   string `json:"buffer,omitempty"`

	Path string `json:"path,omitempty"`
	Loop bool   `json:"loop,omitempty"`
	Fit  string `json:"fit,omitempty"`
}

// QuickSave writes the quick slot.
func (r *Runtime) QuickSave() error {
	return r.saveTo(r.quickSavePath())
}

// QuickLoad restores the quick slot. It reports success; any failure is
// a warned no-op that leaves the current state untouched.
func (r *Runtime) QuickLoad() bool {
	return r.loadFrom(r.quickSavePath())
}

// SaveSlot writes a named slot file in the saves directory. The name
// "quick" (or empty) aliases the quick slot.
func (r *Runtime) SaveSlot(name string) error {
	return r.saveTo(r.slotPath(name))
}

// LoadSlot restores a named slot, reporting success.
func (r *Runtime) LoadSlot(name string) bool {
	return r.loadFrom(r.slotPath(name))
}

func (r *Runtime) slotPath(name string) string {
	if name == "" || name == "quick" {
		return r.quickSavePath()
	}
	return filepath.Join(r.savesDir(), filepath.Base(name)+".json")
}

// saveTo snapshots the full state and writes it atomically, so a crash
// mid-write can never leave a truncated save behind.
func (r *Runtime) saveTo(path string) error {
	sd := r.snapshot()
	data, err := json.MarshalIndent(sd, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	r.log.Info("state saved", "path", path)
	return nil
}

func (r *Runtime) loadFrom(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		r.log.Warn("save not readable", "path", path, "error", err)
		return false
	}
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		r.log.Warn("save not parseable, keeping current state", "path", path, "error", err)
		return false
	}
	if sd.SaveVersion != saveVersion {
		r.log.Warn("save version mismatch, keeping current state", "path", path, "version", sd.SaveVersion)
		return false
	}
	if !r.restore(&sd) {
		return false
	}
	r.log.Info("state restored", "path", path)
	return true
}

// snapshot captures every piece of mutable state into the v2 schema.
// The script path is stored project-relative with forward slashes.
func (r *Runtime) snapshot() *SaveData {
	sd := &SaveData{
		SaveVersion:   saveVersion,
		ScriptPath:    r.relScriptPath(),
		Index:         r.index,
		Background:    r.background,
		Vars:          make(map[string]script.Value, len(r.vars)),
		InventoryPage: r.inventoryPage,
		InventoryOpen: r.inventoryOpen,
		HotspotDebug:  r.hotspotDbg,
		Camera:        r.camera,
		Map: MapSave{
			Active: r.mapState.Active,
			Image:  r.mapState.Image,
			Points: append([]MapPoint(nil), r.mapState.Points...),
		},
	}
	for k, v := range r.vars {
		sd.Vars[k] = v
	}
	for _, name := range r.spriteOrder {
		sp, ok := r.sprites[name]
		if !ok {
			continue
		}
		ss := SpriteSave{
			Name: sp.Name, Kind: sp.Kind, Value: sp.Value, Anchor: sp.Anchor,
			Z: sp.Z, Alpha: sp.Alpha, Pos: sp.Pos,
			FloatAmp: sp.FloatAmp, FloatSpeed: sp.FloatSpeed,
		}
		if sp.Size != nil {
			size := *sp.Size
			ss.Size = &size
		}
		sd.Sprites = append(sd.Sprites, ss)
	}
	if len(r.items) > 0 {
		sd.Inventory = make(map[string]ItemSave, len(r.items))
		for id, it := range r.items {
			sd.Inventory[id] = ItemSave{Name: it.Name, Desc: it.Desc, Icon: it.Icon, Count: it.Count}
		}
	}
	if len(r.meters) > 0 {
		sd.Meters = make(map[string]MeterSave, len(r.meters))
		for v, m := range r.meters {
			sd.Meters[v] = MeterSave{Label: m.Label, Min: m.Min, Max: m.Max, Value: m.Value, Color: m.Color}
		}
	}
	for _, b := range r.hudButtons {
		sd.HudButtons = append(sd.HudButtons, HudButtonSave(b))
	}
	if r.music != nil {
		m := *r.music
		sd.Music = &m
	}
	if len(r.characters) > 0 {
		sd.Characters = make(map[string]CharacterSave, len(r.characters))
		for id, ch := range r.characters {
			sd.Characters[id] = characterToSave(ch)
		}
	}
	for i := range r.hotspots {
		hs := r.hotspots[i]
		save := HotspotSave{Name: hs.Name, Target: hs.Target}
		if hs.Rect != nil {
			rect := *hs.Rect
			save.Rect = &rect
		}
		save.Points = append([]script.Point(nil), hs.Points...)
		sd.Hotspots = append(sd.Hotspots, save)
	}
	sd.Waiting = r.snapshotWaiting()
	return sd
}

func (r *Runtime) snapshotWaiting() *WaitingSave {
	switch r.wait {
	case waitTimer:
		remain := r.timerRemainMS
		return &WaitingSave{Type: "timer", RemainingMS: &remain}
	case waitChoice:
		c := r.choice
		ws := &WaitingSave{
			Type:             "choice",
			Prompt:           c.Prompt,
			Options:          append([]script.ChoiceOption(nil), c.Options...),
			Selected:         c.Selected,
			TimeoutElapsedMS: c.TimeoutElapsedMS,
		}
		if c.TimeoutMS != nil {
			ms := *c.TimeoutMS
			ws.TimeoutMS = &ms
		}
		if c.TimeoutDefault != nil {
			idx := *c.TimeoutDefault
			ws.TimeoutDefault = &idx
		}
		return ws
	case waitInput:
		in := r.input
		return &WaitingSave{
			Type:     "input",
			Prompt:   in.Prompt,
			Variable: in.Variable,
			Default:  in.Default,
			Buffer:   string(in.Buffer),
		}
	case waitVoice:
		return &WaitingSave{Type: "voice"}
	case waitVideo:
		if r.videoState == nil {
			return nil
		}
		return &WaitingSave{
			Type: "video",
			Path: r.videoState.Path,
			Loop: r.videoState.Loop,
			Fit:  r.videoState.Fit,
		}
	}
	return nil
}

func (r *Runtime) relScriptPath() string {
	rel, err := filepath.Rel(r.project.Root, r.scriptPath)
	if err != nil {
		return filepath.ToSlash(r.scriptPath)
	}
	return filepath.ToSlash(rel)
}

// restore replaces the interpreter state with the snapshot. The target
// script re-parses through the loader cache; any failure leaves the
// current state untouched.
func (r *Runtime) restore(sd *SaveData) bool {
	abs := filepath.Join(r.project.Root, filepath.FromSlash(sd.ScriptPath))
	prog, ok := r.restoreProgram(abs)
	if !ok {
		return false
	}
	if sd.Index < 0 || sd.Index > len(prog.Commands) {
		r.log.Warn("save index out of range, keeping current state", "index", sd.Index)
		return false
	}

	r.program = prog
	r.scriptPath = abs
	r.index = sd.Index
	r.background = sd.Background
	r.camera = sd.Camera
	if r.camera.Zoom == 0 {
		r.camera.Zoom = 1
	}

	r.vars = make(map[string]script.Value, len(sd.Vars))
	for k, v := range sd.Vars {
		r.vars[k] = v
	}

	r.sprites = make(map[string]*Sprite, len(sd.Sprites))
	r.spriteOrder = nil
	r.tracks = make(map[trackKey]*Track)
	for _, ss := range sd.Sprites {
		sp := &Sprite{
			Name: ss.Name, Kind: ss.Kind, Value: ss.Value, Anchor: ss.Anchor,
			Z: ss.Z, Alpha: ss.Alpha, Pos: ss.Pos,
			FloatAmp: ss.FloatAmp, FloatSpeed: ss.FloatSpeed,
		}
		if ss.Size != nil {
			size := *ss.Size
			sp.Size = &size
		}
		r.sprites[ss.Name] = sp
		r.spriteOrder = append(r.spriteOrder, ss.Name)
		if sp.Kind == "image" {
			r.assets.LoadImage(sp.Value, "sprites")
		}
	}

	r.items = make(map[string]*InventoryItem, len(sd.Inventory))
	r.itemOrder = nil
	for _, id := range sortedKeys(sd.Inventory) {
		it := sd.Inventory[id]
		r.items[id] = &InventoryItem{Name: it.Name, Desc: it.Desc, Icon: it.Icon, Count: it.Count}
		r.itemOrder = append(r.itemOrder, id)
	}
	r.inventoryPage = sd.InventoryPage
	r.inventoryOpen = sd.InventoryOpen
	r.clampInventoryPage()

	r.meters = make(map[string]*MeterState, len(sd.Meters))
	r.meterOrder = nil
	for _, v := range sortedKeys(sd.Meters) {
		m := sd.Meters[v]
		r.meters[v] = &MeterState{Var: v, Label: m.Label, Min: m.Min, Max: m.Max, Value: m.Value, Color: m.Color}
		r.meterOrder = append(r.meterOrder, v)
	}

	r.hudButtons = nil
	for _, b := range sd.HudButtons {
		r.hudButtons = append(r.hudButtons, HudButton(b))
	}

	r.characters = make(map[string]*Character, len(sd.Characters))
	for id, cs := range sd.Characters {
		r.characters[id] = characterFromSave(cs)
	}

	r.hotspots = nil
	for _, hs := range sd.Hotspots {
		h := Hotspot{Name: hs.Name, Target: hs.Target}
		if hs.Rect != nil {
			rect := *hs.Rect
			h.Rect = &rect
		}
		h.Points = append([]script.Point(nil), hs.Points...)
		r.hotspots = append(r.hotspots, h)
	}
	r.hotspotDbg = sd.HotspotDebug

	r.mapState = MapState{
		Active: sd.Map.Active,
		Image:  sd.Map.Image,
		Points: append([]MapPoint(nil), sd.Map.Points...),
	}

	r.stopVideo()
	r.dialogue = nil
	r.notifyState = nil
	r.blendState = nil
	r.loading = LoadingOverlay{}
	r.phone = nil

	r.music = nil
	if sd.Music != nil {
		m := *sd.Music
		r.music = &m
		r.assets.PlayMusic(m.Path, m.Loop)
	}

	r.restoreWaiting(sd.Waiting)
	if r.background.Kind == "image" && r.background.Value != "" {
		r.assets.LoadImage(r.background.Value, "bg")
	}
	return true
}

func (r *Runtime) restoreProgram(abs string) (*script.Program, bool) {
	if r.loader != nil {
		prog, err := r.loader.Load(abs)
		if err != nil {
			r.log.Warn("save script failed to parse, keeping current state", "script", abs, "error", err)
			return nil, false
		}
		return prog, true
	}
	if abs == r.scriptPath {
		return r.program, true
	}
	r.log.Warn("no loader to re-parse save script, keeping current state", "script", abs)
	return nil, false
}

func (r *Runtime) restoreWaiting(ws *WaitingSave) {
	r.wait = waitNone
	r.choice = nil
	r.input = nil
	r.timerRemainMS = 0
	if ws == nil {
		return
	}
	switch ws.Type {
	case "timer":
		if ws.RemainingMS != nil && *ws.RemainingMS > 0 {
			r.wait = waitTimer
			r.timerRemainMS = *ws.RemainingMS
		}
	case "choice":
		c := &ChoiceState{
			Prompt:           ws.Prompt,
			Options:          append([]script.ChoiceOption(nil), ws.Options...),
			Selected:         ws.Selected,
			TimeoutElapsedMS: ws.TimeoutElapsedMS,
		}
		if ws.TimeoutMS != nil {
			ms := *ws.TimeoutMS
			c.TimeoutMS = &ms
		}
		if ws.TimeoutDefault != nil {
			idx := *ws.TimeoutDefault
			c.TimeoutDefault = &idx
		}
		r.wait = waitChoice
		r.choice = c
	case "input":
		r.wait = waitInput
		r.input = &InputState{
			Variable: ws.Variable,
			Prompt:   ws.Prompt,
			Default:  ws.Default,
			Buffer:   []rune(ws.Buffer),
		}
	case "voice":
		r.wait = waitVoice
	case "video":
		if r.video == nil {
			r.log.Warn("save carried a video wait but no backend is configured", "path", ws.Path)
			return
		}
		pb, err := r.video.CreatePlayback(ws.Path, ws.Loop)
		if err != nil {
			r.log.Warn("video restore failed", "path", ws.Path, "error", err)
			return
		}
		r.videoState = &VideoState{Path: ws.Path, Loop: ws.Loop, Fit: ws.Fit, playback: pb}
		r.wait = waitVideo
	}
}

func characterToSave(ch *Character) CharacterSave {
	cs := CharacterSave{
		DisplayName: ch.DisplayName,
		Color:       ch.Color,
		VoiceTag:    ch.VoiceTag,
		Anchor:      ch.Anchor,
		Sprites:     ch.Sprites,
	}
	if ch.Pos != nil {
		p := *ch.Pos
		cs.Pos = &p
	}
	if ch.Z != nil {
		z := *ch.Z
		cs.Z = &z
	}
	if ch.FloatAmp != nil {
		a := *ch.FloatAmp
		cs.FloatAmp = &a
	}
	if ch.FloatSpeed != nil {
		s := *ch.FloatSpeed
		cs.FloatSpeed = &s
	}
	return cs
}

func characterFromSave(cs CharacterSave) *Character {
	ch := &Character{
		DisplayName: cs.DisplayName,
		Color:       cs.Color,
		VoiceTag:    cs.VoiceTag,
		Anchor:      cs.Anchor,
		Sprites:     make(map[string]string, len(cs.Sprites)),
	}
	for k, v := range cs.Sprites {
		ch.Sprites[k] = v
	}
	if cs.Pos != nil {
		p := *cs.Pos
		ch.Pos = &p
	}
	if cs.Z != nil {
		z := *cs.Z
		ch.Z = &z
	}
	if cs.FloatAmp != nil {
		a := *cs.FloatAmp
		ch.FloatAmp = &a
	}
	if cs.FloatSpeed != nil {
		s := *cs.FloatSpeed
		ch.FloatSpeed = &s
	}
	return ch
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
