package runtime

import (
	"fmt"
	"os"

	"github.com/cpyvn/cpyvn/pkg/config"
)

// Menu pane names shared by the title and pause menus.
const (
	paneMain = "main"
	paneSave = "save"
	paneLoad = "load"
)

// titleState is the title menu's navigation state.
type titleState struct {
	Pane     string
	Selected int
	Slot     int
}

// pauseState is the pause menu's navigation state.
type pauseState struct {
	Pane     string
	Selected int
	Slot     int
}

// prefsState is the cursor inside the preferences overlay. Rows are
// text speed, mute music, mute sound, mute voice.
type prefsState struct {
	Selected int
}

const prefsRowCount = 4

func (r *Runtime) openPauseMenu() {
	r.pauseActive = true
	r.pause = pauseState{Pane: paneMain}
}

func (r *Runtime) handleTitleEvent(ev Event) error {
	if r.title.Pane == paneLoad {
		if done, err := r.handleSlotPane(ev, &r.title.Slot, false); done || err != nil {
			return err
		}
		return nil
	}
	buttons := r.titleMenu.Buttons
	switch ev.Kind {
	case EventKey:
		switch ev.Key {
		case KeyUp:
			r.title.Selected = wrapIndex(r.title.Selected-1, len(buttons))
		case KeyDown:
			r.title.Selected = wrapIndex(r.title.Selected+1, len(buttons))
		case KeyEnter, KeySpace:
			return r.dispatchTitleAction(buttonAction(buttons, r.title.Selected))
		}
	case EventChoose:
		if ev.Index >= 0 && ev.Index < len(buttons) {
			r.title.Selected = ev.Index
			return r.dispatchTitleAction(buttons[ev.Index].Action)
		}
	}
	return nil
}

func (r *Runtime) dispatchTitleAction(action string) error {
	switch action {
	case "new_game":
		r.titleActive = false
		r.newGame()
	case "continue":
		if r.QuickLoad() {
			r.titleActive = false
		}
	case "open_load":
		r.title.Pane = paneLoad
		r.title.Slot = 0
	case "open_prefs":
		r.prefsActive = true
		r.prefsUI = prefsState{}
	case "quit":
		r.quit = true
	case "":
	default:
		r.log.Warn("unknown title menu action", "action", action)
	}
	return nil
}

func (r *Runtime) handlePauseEvent(ev Event) error {
	if r.pause.Pane == paneSave || r.pause.Pane == paneLoad {
		saving := r.pause.Pane == paneSave
		if done, err := r.handleSlotPane(ev, &r.pause.Slot, saving); done || err != nil {
			return err
		}
		return nil
	}
	buttons := r.pauseMenu.Buttons
	switch ev.Kind {
	case EventKey:
		switch ev.Key {
		case KeyUp:
			r.pause.Selected = wrapIndex(r.pause.Selected-1, len(buttons))
		case KeyDown:
			r.pause.Selected = wrapIndex(r.pause.Selected+1, len(buttons))
		case KeyEnter, KeySpace:
			return r.dispatchPauseAction(buttonAction(buttons, r.pause.Selected))
		case KeyEscape:
			r.pauseActive = false
		}
	case EventChoose:
		if ev.Index >= 0 && ev.Index < len(buttons) {
			r.pause.Selected = ev.Index
			return r.dispatchPauseAction(buttons[ev.Index].Action)
		}
	}
	return nil
}

func (r *Runtime) dispatchPauseAction(action string) error {
	switch action {
	case "resume":
		r.pauseActive = false
	case "quick_save":
		if err := r.QuickSave(); err != nil {
			r.log.Warn("quick save failed", "error", err)
		} else {
			r.notifyState = &Notification{Text: "Saved", RemainingMS: 1500}
		}
	case "quick_load":
		if r.QuickLoad() {
			r.pauseActive = false
		}
	case "open_save":
		r.pause.Pane = paneSave
		r.pause.Slot = 0
	case "open_load":
		r.pause.Pane = paneLoad
		r.pause.Slot = 0
	case "open_prefs":
		r.prefsActive = true
		r.prefsUI = prefsState{}
	case "quit":
		r.quit = true
	case "":
	default:
		r.log.Warn("unknown pause menu action", "action", action)
	}
	return nil
}

// handleSlotPane navigates the numbered save-slot grid shared by the
// pause save/load panes and the title load pane. done reports that the
// pane handled the event terminally (slot committed or pane closed).
func (r *Runtime) handleSlotPane(ev Event, slot *int, saving bool) (done bool, err error) {
	total := r.ui.PauseMenuSlots
	cols := r.ui.PauseMenuColumns
	if total <= 0 {
		total = 1
	}
	if cols <= 0 {
		cols = 1
	}
	switch ev.Kind {
	case EventKey:
		switch ev.Key {
		case KeyLeft:
			*slot = clampIndex(*slot-1, total)
		case KeyRight:
			*slot = clampIndex(*slot+1, total)
		case KeyUp:
			*slot = clampIndex(*slot-cols, total)
		case KeyDown:
			*slot = clampIndex(*slot+cols, total)
		case KeyEnter, KeySpace:
			return true, r.commitSlot(*slot+1, saving)
		case KeyEscape:
			r.closeSlotPane()
			return true, nil
		}
	case EventChoose:
		if ev.Index >= 0 && ev.Index < total {
			*slot = ev.Index
			return true, r.commitSlot(ev.Index+1, saving)
		}
	}
	return false, nil
}

func (r *Runtime) commitSlot(n int, saving bool) error {
	name := fmt.Sprintf("slot_%d", n)
	if saving {
		if err := r.SaveSlot(name); err != nil {
			r.log.Warn("slot save failed", "slot", n, "error", err)
		} else {
			r.notifyState = &Notification{Text: fmt.Sprintf("Saved to slot %d", n), RemainingMS: 1500}
		}
		return nil
	}
	if r.LoadSlot(name) {
		r.titleActive = false
		r.pauseActive = false
	}
	return nil
}

func (r *Runtime) closeSlotPane() {
	if r.titleActive {
		r.title.Pane = paneMain
	}
	if r.pauseActive {
		r.pause.Pane = paneMain
	}
}

// handlePrefsEvent drives the preferences overlay: text speed adjusts
// with left/right, mute rows toggle with enter or either arrow. Every
// change persists immediately through the prefs file.
func (r *Runtime) handlePrefsEvent(ev Event) {
	if ev.Kind != EventKey {
		return
	}
	switch ev.Key {
	case KeyEscape:
		r.prefsActive = false
	case KeyUp:
		r.prefsUI.Selected = wrapIndex(r.prefsUI.Selected-1, prefsRowCount)
	case KeyDown:
		r.prefsUI.Selected = wrapIndex(r.prefsUI.Selected+1, prefsRowCount)
	case KeyLeft, KeyRight, KeyEnter:
		r.adjustPrefsRow(r.prefsUI.Selected, ev.Key)
	}
}

func (r *Runtime) adjustPrefsRow(row int, key Key) {
	switch row {
	case 0:
		if key == KeyEnter {
			return
		}
		delta := 5.0
		if key == KeyLeft {
			delta = -5.0
		}
		speed := r.EffectiveTextSpeed() + delta
		if speed < 5 {
			speed = 5
		}
		if speed > 200 {
			speed = 200
		}
		r.prefs.TextSpeed = speed
		r.writePref("text_speed", speed)
	case 1:
		r.prefs.MutedMusic = !r.prefs.MutedMusic
		r.assets.Mute("music")
		r.writePref("muted.music", r.prefs.MutedMusic)
	case 2:
		r.prefs.MutedSound = !r.prefs.MutedSound
		r.assets.Mute("sound")
		r.writePref("muted.sound", r.prefs.MutedSound)
	case 3:
		r.prefs.MutedVoice = !r.prefs.MutedVoice
		r.assets.Mute("voice")
		r.writePref("muted.voice", r.prefs.MutedVoice)
	}
}

func (r *Runtime) writePref(key string, value any) {
	if err := os.MkdirAll(r.savesDir(), 0o755); err != nil {
		r.log.Warn("preference write failed", "key", key, "error", err)
		return
	}
	if err := config.SetPref(r.prefsPath(), key, value); err != nil {
		r.log.Warn("preference write failed", "key", key, "error", err)
	}
}

func buttonAction(buttons []config.MenuButton, idx int) string {
	if idx < 0 || idx >= len(buttons) {
		return ""
	}
	return buttons[idx].Action
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// TitleActive reports whether the title menu has focus.
func (r *Runtime) TitleActive() bool { return r.titleActive }

// PauseActive reports whether the pause menu has focus.
func (r *Runtime) PauseActive() bool { return r.pauseActive }

// PrefsActive reports whether the preferences overlay has focus.
func (r *Runtime) PrefsActive() bool { return r.prefsActive }

// TitleMenuConfig returns the title menu layout for the renderer.
func (r *Runtime) TitleMenuConfig() config.TitleMenu { return r.titleMenu }

// PauseMenuConfig returns the pause menu layout for the renderer.
func (r *Runtime) PauseMenuConfig() config.PauseMenu { return r.pauseMenu }

// TitleSelection returns the title menu pane and cursor. The cursor is
// the slot index while the load pane is open.
func (r *Runtime) TitleSelection() (pane string, index int) {
	if r.title.Pane == paneLoad {
		return r.title.Pane, r.title.Slot
	}
	return paneMain, r.title.Selected
}

// PauseSelection returns the pause menu pane and cursor.
func (r *Runtime) PauseSelection() (pane string, index int) {
	if r.pause.Pane == paneSave || r.pause.Pane == paneLoad {
		return r.pause.Pane, r.pause.Slot
	}
	return paneMain, r.pause.Selected
}

// PrefsSelection returns the preferences cursor row.
func (r *Runtime) PrefsSelection() int { return r.prefsUI.Selected }

// PrefsValues returns the current preference values.
func (r *Runtime) PrefsValues() config.Prefs { return r.prefs }
