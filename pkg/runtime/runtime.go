// Package runtime implements the frame-stepped script interpreter: it
// executes a parsed Program against mutable world state, routes input
// events to the active overlay, advances timers and animation tracks,
// and serializes the full state through the save codec.
//
// The interpreter is single threaded. The owner calls Step once per
// frame with a monotonic clock and that frame's input events; Step never
// blocks and never spawns goroutines. External collaborators (asset
// manager, video backend) are polled, not waited on.
package runtime

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/logger"
	"github.com/cpyvn/cpyvn/pkg/parser"
	"github.com/cpyvn/cpyvn/pkg/script"
)

// maxStepsPerFrame bounds the execute loop so a label-only jump cycle
// cannot hang the frame loop.
const maxStepsPerFrame = 1000

// quickSaveFile is the well-known quick save slot inside the saves dir.
const quickSaveFile = "quick.json"

// Options carries the collaborators and configuration the runtime needs.
// Assets must be set; Video may be nil to disable the video commands.
type Options struct {
	Loader    *parser.Loader
	Assets    AssetManager
	Video     VideoBackend
	Project   *config.Project
	TitleMenu config.TitleMenu
	PauseMenu config.PauseMenu
	Prefs     config.Prefs
}

// Runtime is the interpreter instance. All fields are owned exclusively
// by the single goroutine that calls Step.
type Runtime struct {
	log     *slog.Logger
	loader  *parser.Loader
	assets  AssetManager
	video   VideoBackend
	project *config.Project
	ui      config.UiConfig
	prefs   config.Prefs

	titleMenu config.TitleMenu
	pauseMenu config.PauseMenu

	// Program position. entryProgram/entryPath are kept for new_game.
	program      *script.Program
	scriptPath   string
	index        int
	entryProgram *script.Program
	entryPath    string

	// World state.
	vars        map[string]script.Value
	background  Background
	sprites     map[string]*Sprite
	spriteOrder []string
	characters  map[string]*Character
	dialogue    *Dialogue
	music       *MusicState
	echoPath    string
	notifyState *Notification
	blendState  *BlendEffect
	loading     LoadingOverlay
	meters      map[string]*MeterState
	meterOrder  []string
	items       map[string]*InventoryItem
	itemOrder   []string
	hudButtons  []HudButton
	hotspots    []Hotspot
	hotspotDbg  bool
	mapState    MapState
	camera      Camera
	tracks      map[trackKey]*Track
	videoState  *VideoState

	// Blocking wait dimension.
	wait          waitKind
	timerRemainMS float64
	choice        *ChoiceState
	input         *InputState

	// Overlay dimension. Menus stack on top of the wait state.
	titleActive   bool
	pauseActive   bool
	prefsActive   bool
	inventoryOpen bool
	inventoryPage int
	phone         *PhoneState
	title         titleState
	pause         pauseState
	prefsUI       prefsState

	// Clocks. All durations count down (or up) by frame delta, so saves
	// never store absolute instants.
	lastNowMS    float64
	clockStarted bool
	floatClockMS float64

	quit  bool
	fatal error
}

// New builds a runtime positioned at the start of prog. The initial
// state is the title menu when one is configured, otherwise running at
// index 0.
func New(prog *script.Program, scriptPath string, opts Options) *Runtime {
	project := opts.Project
	if project == nil {
		d := config.Default()
		project = &d
	}
	r := &Runtime{
		log:          logger.GetLogger(),
		loader:       opts.Loader,
		assets:       opts.Assets,
		video:        opts.Video,
		project:      project,
		ui:           project.UI,
		prefs:        opts.Prefs,
		titleMenu:    opts.TitleMenu,
		pauseMenu:    opts.PauseMenu,
		program:      prog,
		scriptPath:   scriptPath,
		entryProgram: prog,
		entryPath:    scriptPath,
		vars:         make(map[string]script.Value),
		background:   defaultBackground(),
		sprites:      make(map[string]*Sprite),
		characters:   make(map[string]*Character),
		meters:       make(map[string]*MeterState),
		items:        make(map[string]*InventoryItem),
		tracks:       make(map[trackKey]*Track),
		camera:       defaultCamera(),
	}
	if r.ui.TitleMenuEnabled {
		r.titleActive = true
	}
	if project.Prefetch != "" {
		r.applyPrefetch(filepath.Join(project.Root, filepath.FromSlash(project.Prefetch)))
	}
	return r
}

// Step advances the interpreter by one frame. nowMS is a monotonic
// millisecond clock supplied by the caller; events are this frame's
// inputs in arrival order. The only fatal condition is an unresolved
// jump target, returned as an UnknownLabelError.
func (r *Runtime) Step(nowMS float64, events []Event) error {
	if r.fatal != nil {
		return r.fatal
	}
	dt := r.frameDelta(nowMS)

	for _, ev := range events {
		if err := r.routeEvent(ev); err != nil {
			return r.halt(err)
		}
	}

	if !r.clockFrozen() {
		if err := r.advanceClocks(dt, nowMS); err != nil {
			return r.halt(err)
		}
	}

	if err := r.executeReady(); err != nil {
		return r.halt(err)
	}
	return nil
}

func (r *Runtime) frameDelta(nowMS float64) float64 {
	if !r.clockStarted {
		r.clockStarted = true
		r.lastNowMS = nowMS
		return 0
	}
	dt := nowMS - r.lastNowMS
	r.lastNowMS = nowMS
	if dt < 0 {
		return 0
	}
	return dt
}

func (r *Runtime) halt(err error) error {
	r.fatal = err
	r.log.Error("runtime halted", "error", err)
	return err
}

// clockFrozen reports whether menus or modal overlays pause the world
// clocks. The phone overlay deliberately keeps clocks running; it is
// part of the story flow, not a pause screen.
func (r *Runtime) clockFrozen() bool {
	return r.titleActive || r.pauseActive || r.prefsActive || r.inventoryOpen || r.mapState.Active
}

// execFrozen reports whether command execution is skipped this frame.
func (r *Runtime) execFrozen() bool {
	if r.clockFrozen() {
		return true
	}
	return r.phone != nil && r.phone.WaitingAdvance
}

// routeEvent hands one event to whatever currently has input focus.
func (r *Runtime) routeEvent(ev Event) error {
	switch {
	case r.prefsActive:
		r.handlePrefsEvent(ev)
	case r.titleActive:
		return r.handleTitleEvent(ev)
	case r.pauseActive:
		return r.handlePauseEvent(ev)
	case r.mapState.Active:
		return r.handleMapEvent(ev)
	case r.inventoryOpen:
		r.handleInventoryEvent(ev)
	case r.phone != nil:
		r.handlePhoneEvent(ev)
	case r.wait == waitChoice:
		return r.handleChoiceEvent(ev)
	case r.wait == waitInput:
		r.handleInputEvent(ev)
	default:
		return r.handleWorldEvent(ev)
	}
	return nil
}

// handleWorldEvent covers the un-overlaid running state: dialogue
// advancement, pause/inventory shortcuts and hud/hotspot clicks.
func (r *Runtime) handleWorldEvent(ev Event) error {
	if ev.Kind == EventKey {
		switch ev.Key {
		case KeyEscape:
			if r.ui.PauseMenuEnabled {
				r.openPauseMenu()
			}
			return nil
		case KeyInventory:
			r.toggleInventory()
			return nil
		}
	}
	if ev.isAdvance() {
		if r.dialogue != nil {
			r.dialogue = nil
			return nil
		}
		if ev.Kind == EventClick {
			return r.handleWorldClick(ev.X, ev.Y)
		}
	}
	return nil
}

func (r *Runtime) handleWorldClick(x, y float64) error {
	if r.project.FeatureOn("hud") {
		for i := range r.hudButtons {
			if pointInRect(x, y, r.hudButtons[i].Rect) {
				jumped, err := r.jump(r.hudButtons[i].Target)
				if jumped {
					r.releaseWait()
				}
				return err
			}
		}
	}
	if hs := r.hitHotspot(x, y); hs != nil {
		jumped, err := r.jump(hs.Target)
		if jumped {
			r.releaseWait()
		}
		return err
	}
	return nil
}

// releaseWait interrupts a timer, voice or video wait so a click-driven
// jump resumes execution this frame.
func (r *Runtime) releaseWait() {
	r.wait = waitNone
	r.timerRemainMS = 0
}

// advanceClocks moves every time-based piece of state forward by dt.
func (r *Runtime) advanceClocks(dt, nowMS float64) error {
	r.floatClockMS += dt
	r.advanceTracks(dt)
	r.refreshMeters()

	if r.notifyState != nil {
		r.notifyState.RemainingMS -= dt
		if r.notifyState.RemainingMS <= 0 {
			r.notifyState = nil
		}
	}
	if r.blendState != nil {
		r.blendState.RemainingMS -= dt
		if r.blendState.RemainingMS <= 0 {
			r.blendState = nil
		}
	}
	if r.loading.Active && r.loading.auto {
		r.loading.minRemainMS -= dt
		if r.loading.minRemainMS <= 0 {
			r.loading = LoadingOverlay{}
		}
	}

	r.advanceVideo(nowMS)

	switch r.wait {
	case waitTimer:
		r.timerRemainMS -= dt
		if r.timerRemainMS <= 0 {
			r.timerRemainMS = 0
			r.wait = waitNone
		}
	case waitVoice:
		if !r.assets.IsVoicePlaying() {
			r.wait = waitNone
		}
	case waitVideo:
		if r.videoState == nil {
			r.wait = waitNone
		}
	case waitChoice:
		if err := r.advanceChoiceTimeout(dt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runtime) advanceChoiceTimeout(dt float64) error {
	c := r.choice
	if c == nil || c.TimeoutMS == nil || c.TimeoutDefault == nil {
		return nil
	}
	c.TimeoutElapsedMS += dt
	if c.TimeoutElapsedMS < *c.TimeoutMS {
		return nil
	}
	idx := *c.TimeoutDefault
	if idx < 0 || idx >= len(c.Options) {
		r.log.Warn("choice timeout default out of range", "index", idx, "options", len(c.Options))
		r.wait = waitNone
		r.choice = nil
		return nil
	}
	return r.resolveChoice(idx)
}

func (r *Runtime) advanceVideo(nowMS float64) {
	v := r.videoState
	if v == nil || v.playback == nil {
		return
	}
	frame, finished, err := v.playback.Update(nowMS)
	if err != nil {
		r.log.Warn("video playback failed", "path", v.Path, "error", err)
		r.stopVideo()
		return
	}
	if frame != nil {
		v.Frame = frame
	}
	if finished && !v.Loop {
		r.stopVideo()
	}
}

// executeReady runs commands until one blocks, the program ends, or the
// per-frame valve trips.
func (r *Runtime) executeReady() error {
	steps := 0
	for r.canExecute() {
		if steps >= maxStepsPerFrame {
			r.log.Warn("frame step valve tripped", "script", r.scriptPath, "index", r.index)
			return nil
		}
		steps++
		blocked, err := r.executeCurrent()
		if err != nil {
			return err
		}
		if blocked {
			return nil
		}
	}
	return nil
}

func (r *Runtime) canExecute() bool {
	if r.execFrozen() || r.quit || r.fatal != nil {
		return false
	}
	if r.wait != waitNone || r.dialogue != nil {
		return false
	}
	return r.index >= 0 && r.index < len(r.program.Commands)
}

// jump resolves a label target and repositions the command index. A
// leading :: forces the root namespace and is stripped before lookup.
// The reserved pseudo-target inventory_toggle flips the inventory
// overlay instead of moving; it reports jumped=false.
func (r *Runtime) jump(target string) (jumped bool, err error) {
	target = strings.TrimPrefix(target, "::")
	if target == "inventory_toggle" {
		r.toggleInventory()
		return false, nil
	}
	idx, ok := r.program.Labels[target]
	if !ok {
		return false, &UnknownLabelError{Label: target, Script: r.scriptPath}
	}
	r.index = idx
	return true, nil
}

// State reports the dominant interpreter state, menus first.
func (r *Runtime) State() State {
	switch {
	case r.prefsActive:
		return StatePrefsOverlay
	case r.titleActive:
		return StateTitleMenu
	case r.pauseActive:
		return StatePauseMenu
	case r.mapState.Active:
		return StateMapOverlay
	case r.inventoryOpen:
		return StateInventoryOverlay
	case r.phone != nil:
		return StatePhoneOverlay
	}
	switch r.wait {
	case waitTimer:
		return StateWaitingTimer
	case waitChoice:
		return StateWaitingChoice
	case waitInput:
		return StateWaitingInput
	case waitVoice:
		return StateWaitingVoice
	case waitVideo:
		return StateWaitingVideo
	}
	return StateRunning
}

// Finished reports that the program ran off its end with nothing left to
// wait for. Headless runs use it as their exit condition.
func (r *Runtime) Finished() bool {
	return r.index >= len(r.program.Commands) &&
		r.wait == waitNone && r.dialogue == nil &&
		!r.titleActive && !r.pauseActive && !r.prefsActive &&
		!r.mapState.Active && !r.inventoryOpen && r.phone == nil
}

// QuitRequested reports that a menu quit action fired.
func (r *Runtime) QuitRequested() bool { return r.quit }

func (r *Runtime) savesDir() string { return r.project.SavesDir() }

func (r *Runtime) quickSavePath() string {
	return filepath.Join(r.savesDir(), quickSaveFile)
}

func (r *Runtime) prefsPath() string {
	return filepath.Join(r.savesDir(), "prefs.json")
}

// EffectiveTextSpeed returns the prefs override when set, else the
// project UI value.
func (r *Runtime) EffectiveTextSpeed() float64 {
	if r.prefs.TextSpeed > 0 {
		return r.prefs.TextSpeed
	}
	return r.ui.TextSpeed
}

// resetWorld drops transient scene state: sprites, hotspots, video,
// dialogue, notification. Variables are untouched.
func (r *Runtime) resetWorld() {
	r.sprites = make(map[string]*Sprite)
	r.spriteOrder = nil
	r.tracks = make(map[trackKey]*Track)
	r.hotspots = nil
	r.dialogue = nil
	r.notifyState = nil
	r.stopVideo()
}

// newGame resets every piece of mutable state and restarts the entry
// program from index 0.
func (r *Runtime) newGame() {
	r.program = r.entryProgram
	r.scriptPath = r.entryPath
	r.index = 0
	r.vars = make(map[string]script.Value)
	r.background = defaultBackground()
	r.resetWorld()
	r.characters = make(map[string]*Character)
	r.music = nil
	r.echoPath = ""
	r.blendState = nil
	r.loading = LoadingOverlay{}
	r.meters = make(map[string]*MeterState)
	r.meterOrder = nil
	r.items = make(map[string]*InventoryItem)
	r.itemOrder = nil
	r.hudButtons = nil
	r.hotspotDbg = false
	r.mapState = MapState{}
	r.camera = defaultCamera()
	r.wait = waitNone
	r.choice = nil
	r.input = nil
	r.phone = nil
	r.inventoryOpen = false
	r.inventoryPage = 0
}
