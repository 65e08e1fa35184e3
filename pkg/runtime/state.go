package runtime

import (
	"github.com/cpyvn/cpyvn/pkg/script"
)

// State is the dominant interpreter state for one frame, in priority
// order: menus over overlays over waits over plain running.
type State uint8

const (
	StateRunning State = iota
	StateWaitingTimer
	StateWaitingChoice
	StateWaitingInput
	StateWaitingVoice
	StateWaitingVideo
	StateTitleMenu
	StatePauseMenu
	StateMapOverlay
	StatePhoneOverlay
	StateInventoryOverlay
	StatePrefsOverlay
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateWaitingTimer:
		return "waiting_timer"
	case StateWaitingChoice:
		return "waiting_choice"
	case StateWaitingInput:
		return "waiting_input"
	case StateWaitingVoice:
		return "waiting_voice"
	case StateWaitingVideo:
		return "waiting_video"
	case StateTitleMenu:
		return "title_menu"
	case StatePauseMenu:
		return "pause_menu"
	case StateMapOverlay:
		return "map_overlay"
	case StatePhoneOverlay:
		return "phone_overlay"
	case StateInventoryOverlay:
		return "inventory_overlay"
	case StatePrefsOverlay:
		return "prefs_overlay"
	}
	return "unknown"
}

// waitKind is the blocking-wait dimension of the state. Menus and
// overlays stack on top of it without discarding it.
type waitKind uint8

const (
	waitNone waitKind = iota
	waitTimer
	waitChoice
	waitInput
	waitVoice
	waitVideo
)

// Background is the current scene backdrop.
type Background struct {
	Kind       string  `json:"kind"`
	Value      string  `json:"value"`
	FloatAmp   float64 `json:"float_amp,omitempty"`
	FloatSpeed float64 `json:"float_speed,omitempty"`
}

func defaultBackground() Background {
	return Background{Kind: "color", Value: "#000000"}
}

// Sprite is the mutable per-identifier display record. Position and size
// are in background-world coordinates; Alpha is 0..1.
type Sprite struct {
	Name       string
	Kind       string
	Value      string
	Anchor     string
	Z          int
	Alpha      float64
	Pos        script.Point
	Size       *script.Size
	FloatAmp   float64
	FloatSpeed float64
}

// Character holds the display defaults declared by a character block.
type Character struct {
	DisplayName string
	Color       string
	VoiceTag    string
	Pos         *script.Point
	Anchor      string
	Z           *int
	FloatAmp    *float64
	FloatSpeed  *float64
	Sprites     map[string]string
}

// Dialogue is the line currently shown in the text box. The runtime
// blocks stepping until an advance event clears it.
type Dialogue struct {
	Speaker string
	Color   string
	Text    string
}

// MusicState records the active background music for saves and GC.
type MusicState struct {
	Path string `json:"path"`
	Loop bool   `json:"loop"`
}

// Notification is a transient toast; it expires during clock advancement.
type Notification struct {
	Text        string
	RemainingMS float64
}

// BlendEffect is a non-blocking full-screen transition for the renderer.
type BlendEffect struct {
	Style       string
	RemainingMS float64
}

// LoadingOverlay is shown between Loading(start) and Loading(end), or
// automatically around slow calls. auto marks the automatic case, which
// honors a minimum visible duration.
type LoadingOverlay struct {
	Active      bool
	Text        string
	auto        bool
	minRemainMS float64
}

// MeterState is an on-screen gauge bound to a variable. Value tracks the
// variable, clamped to [Min, Max], and refreshes every frame.
type MeterState struct {
	Var   string
	Label string
	Min   float64
	Max   float64
	Color string
	Value float64
}

// InventoryItem is one stacked inventory entry.
type InventoryItem struct {
	Name  string
	Desc  string
	Icon  string
	Count int
}

// HudButton is a persistent screen-space button.
type HudButton struct {
	Name   string
	Style  string
	Text   string
	Icon   string
	Rect   script.Rect
	Target string
}

// Hotspot is a clickable world-space region. Exactly one of Rect or
// Points is set.
type Hotspot struct {
	Name   string
	Rect   *script.Rect
	Points []script.Point
	Target string
}

// MapPoint is one point of interest on the map overlay, positioned in
// overlay-local screen coordinates.
type MapPoint struct {
	Label  string       `json:"label"`
	Pos    script.Point `json:"pos"`
	Target string       `json:"target"`
}

// MapState is the map overlay. While Active, input routes to the overlay
// and command execution is frozen.
type MapState struct {
	Active bool
	Image  string
	Points []MapPoint
}

// ChoiceState is the active choice prompt. TimeoutElapsedMS accumulates
// only while the choice has input focus, so pausing freezes the clock.
type ChoiceState struct {
	Prompt           string
	Options          []script.ChoiceOption
	Selected         int
	TimeoutMS        *float64
	TimeoutDefault   *int
	TimeoutElapsedMS float64
}

// InputState is the active text-entry prompt.
type InputState struct {
	Variable string
	Prompt   string
	Default  string
	Buffer   []rune
}

// PhoneMessage is one revealed line of a phone conversation.
type PhoneMessage struct {
	Side string
	Text string
}

// PhoneState is the phone conversation overlay. WaitingAdvance blocks
// stepping until the player advances to the next message.
type PhoneState struct {
	Contact        string
	Messages       []PhoneMessage
	WaitingAdvance bool
}

// VideoState is the active playback session.
type VideoState struct {
	Path     string
	Loop     bool
	Fit      string
	playback Playback
	Frame    Surface
}

// Camera is the world-to-screen transform: screen = (world - pan) * zoom.
type Camera struct {
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
	Zoom float64 `json:"zoom"`
}

func defaultCamera() Camera {
	return Camera{Zoom: 1.0}
}
