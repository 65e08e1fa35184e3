// Package script defines the command vocabulary shared by the parser and
// the runtime: the closed set of immutable command values, the Program
// container, and the typed variable Value.
package script

// Command is a single parsed script instruction. The set of implementations
// is closed; the runtime dispatches over it with an exhaustive type switch.
type Command interface {
	aCommand()
}

// command is embedded by every concrete Command.
type command struct{}

func (command) aCommand() {}

// Point is a coordinate pair in world or screen space depending on context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle, position plus extent.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Label names an entry point. The parser registers its command index in the
// Program's label table.
type Label struct {
	command
	Name string
}

// Say displays one line of dialogue. Speaker may be a character identifier
// or a bare display name such as "narrator".
type Say struct {
	command
	Speaker string
	Text    string
}

// Jump transfers control to a label.
type Jump struct {
	command
	Target string
}

// ChoiceOption is one selectable branch of a Choice.
type ChoiceOption struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

// Choice presents a prompt with ordered options. TimeoutSeconds and
// TimeoutDefault are set together or not at all.
type Choice struct {
	command
	Prompt         string
	Options        []ChoiceOption
	TimeoutSeconds *float64
	TimeoutDefault *int
}

// Scene replaces the background. Kind is "image" or "color". Optional
// fields stay nil when the statement omits them.
type Scene struct {
	command
	Kind              string
	Value             string
	Fade              *float64
	FloatAmp          *float64
	FloatSpeed        *float64
	TransitionStyle   string
	TransitionSeconds *float64
}

// Show places a free sprite (kind "image" or "rect") under a name.
type Show struct {
	command
	Kind              string
	Name              string
	Value             string
	Anchor            string
	Z                 *int
	Fade              *float64
	TransitionStyle   string
	TransitionSeconds *float64
	FloatAmp          *float64
	FloatSpeed        *float64
	Size              *Size
	Pos               *Point
}

// ShowChar places a character sprite by identifier and expression. Unset
// fields inherit the CharacterDef defaults at execution time.
type ShowChar struct {
	command
	Ident             string
	Expression        string
	Anchor            string
	Z                 *int
	Fade              *float64
	TransitionStyle   string
	TransitionSeconds *float64
	FloatAmp          *float64
	FloatSpeed        *float64
	Pos               *Point
}

// Hide removes a sprite or character from the scene.
type Hide struct {
	command
	Name              string
	Fade              *float64
	TransitionStyle   string
	TransitionSeconds *float64
}

// CameraSet replaces the world-to-screen transform. "camera reset" parses
// to the identity (0, 0, 1.0).
type CameraSet struct {
	command
	PanX float64
	PanY float64
	Zoom float64
}

// Animate starts a timed track on a sprite. Action is one of "move",
// "size", "alpha" or "stop"; "alpha" uses V1 only and "stop" uses none.
type Animate struct {
	command
	Name    string
	Action  string
	V1      float64
	V2      float64
	Seconds float64
	Ease    string
}

// Music starts background music. Loop defaults to true in the grammar.
type Music struct {
	command
	Path string
	Loop bool
}

// Sound plays a one-shot effect.
type Sound struct {
	command
	Path string
}

// Echo controls the looping ambient channel. Action "stop" carries no path.
type Echo struct {
	command
	Action string
	Path   string
}

// Voice plays a voice line. Character is empty for characterless voice;
// when set, the runtime resolves the path under the character's voice tag.
type Voice struct {
	command
	Character string
	Path      string
}

// Mute silences an audio target (music, sound, voice, echo or all).
type Mute struct {
	command
	Target string
}

// Preload warms an asset ahead of use. Kind selects the asset root.
type Preload struct {
	command
	Kind string
	Path string
}

// CacheClear drops cached state. Kind is one of "images", "scripts",
// "runtime" or "script"; only "script" carries a path. The surface kind
// "scene" normalizes to "runtime" at parse time.
type CacheClear struct {
	command
	Kind string
	Path string
}

// CachePin protects an asset from garbage collection.
type CachePin struct {
	command
	Kind string
	Path string
}

// CacheUnpin releases a pin.
type CacheUnpin struct {
	command
	Kind string
	Path string
}

// GarbageCollect prunes unpinned assets not referenced by the live scene.
type GarbageCollect struct {
	command
}

// Wait blocks for a duration.
type Wait struct {
	command
	Seconds float64
}

// WaitVoice blocks until the current voice line finishes.
type WaitVoice struct {
	command
}

// WaitVideo blocks until the current video playback finishes.
type WaitVideo struct {
	command
}

// Notify shows a transient toast message.
type Notify struct {
	command
	Text    string
	Seconds float64
}

// Blend runs a full-screen transition effect without blocking.
type Blend struct {
	command
	Style   string
	Seconds float64
}

// Save writes a named save slot.
type Save struct {
	command
	Slot string
}

// Load restores a named save slot.
type Load struct {
	command
	Slot string
}

// SetVar assigns a variable. A Value whose whole string is a single $ref
// copies the referenced variable at execution time.
type SetVar struct {
	command
	Name  string
	Value Value
}

// AddVar adds a signed amount to a numeric variable. A non-numeric current
// value resets to the amount.
type AddVar struct {
	command
	Name   string
	Amount float64
}

// IfJump jumps when the named variable compares true against Value.
// Op is one of ==, !=, >, >=, <, <=.
type IfJump struct {
	command
	Name   string
	Op     string
	Value  Value
	Target string
}

// Call transfers control into another script file at a label. The path is
// resolved relative to the calling script's directory.
type Call struct {
	command
	Path  string
	Label string
}

// Loading brackets a slow region with an overlay. Action is "start" or
// "end"; only "start" carries text.
type Loading struct {
	command
	Action string
	Text   string
}

// CharacterDef declares a character's display defaults. It places nothing
// on screen by itself.
type CharacterDef struct {
	command
	Ident       string
	DisplayName string
	Color       string
	VoiceTag    string
	Pos         *Point
	Anchor      string
	Z           *int
	FloatAmp    *float64
	FloatSpeed  *float64
	Sprites     map[string]string
}

// Input prompts for a line of text bound to a variable.
type Input struct {
	command
	Variable string
	Prompt   string
	Default  string
}

// Phone drives the phone conversation overlay. Action is "open", "msg" or
// "close"; "msg" carries Side ("left"/"right") and Text.
type Phone struct {
	command
	Action  string
	Contact string
	Side    string
	Text    string
}

// Meter manages an on-screen gauge bound to a variable. Action is "show",
// "hide", "update" or "clear".
type Meter struct {
	command
	Action string
	Var    string
	Label  string
	Min    float64
	Max    float64
	Color  string
}

// Item manages the inventory. Action is "add", "remove" or "clear".
type Item struct {
	command
	Action string
	ID     string
	Name   string
	Desc   string
	Icon   string
	Amount int
}

// Map drives the map overlay. Action "show" carries Image, "poi" carries
// Label/Pos/Target, "hide" carries nothing. Poi commands directly after a
// show are consumed into that overlay's point list.
type Map struct {
	command
	Action string
	Image  string
	Label  string
	Pos    Point
	Target string
}

// Video controls video playback. Action is "play" or "stop". Loop defaults
// to false and Fit to "contain".
type Video struct {
	command
	Action string
	Path   string
	Loop   bool
	Fit    string
}

// HotspotAdd defines a rectangular clickable region in world coordinates.
type HotspotAdd struct {
	command
	Name   string
	Rect   Rect
	Target string
}

// HotspotPoly defines a polygonal clickable region in world coordinates.
type HotspotPoly struct {
	command
	Name   string
	Points []Point
	Target string
}

// HotspotRemove removes one hotspot, or all of them when Name is empty.
type HotspotRemove struct {
	command
	Name string
}

// HotspotDebug toggles hotspot outline drawing.
type HotspotDebug struct {
	command
	Enabled bool
}

// HudAdd places a persistent screen-space button. Style is "text", "icon"
// or "both".
type HudAdd struct {
	command
	Name   string
	Style  string
	Text   string
	Icon   string
	Rect   Rect
	Target string
}

// HudRemove removes one hud button, or all of them when Name is empty.
type HudRemove struct {
	command
	Name string
}
