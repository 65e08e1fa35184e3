package runtime

// EventKind discriminates the input events the caller feeds into Step.
type EventKind uint8

const (
	// EventClick is a pointer press at screen coordinates X, Y.
	EventClick EventKind = iota
	// EventKey is a non-printable key press.
	EventKey
	// EventRune is a printable character, used by the input overlay.
	EventRune
	// EventChoose selects entry Index of the active choice or menu
	// directly. The caller translates pointer hits on its own layout
	// into this event.
	EventChoose
)

// Key identifies the non-printable keys the runtime reacts to.
type Key uint8

const (
	KeyNone Key = iota
	KeyEnter
	KeySpace
	KeyEscape
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyInventory
)

// Event is one frame input. Only the fields matching Kind are meaningful.
type Event struct {
	Kind  EventKind
	X, Y  float64
	Key   Key
	Rune  rune
	Index int
}

// ClickEvent builds a pointer press event.
func ClickEvent(x, y float64) Event { return Event{Kind: EventClick, X: x, Y: y} }

// KeyEvent builds a key press event.
func KeyEvent(k Key) Event { return Event{Kind: EventKey, Key: k} }

// RuneEvent builds a printable character event.
func RuneEvent(r rune) Event { return Event{Kind: EventRune, Rune: r} }

// ChooseEvent builds a direct selection event.
func ChooseEvent(i int) Event { return Event{Kind: EventChoose, Index: i} }

// isAdvance reports whether the event advances dialogue and phone
// messages: a click or the enter/space keys.
func (e Event) isAdvance() bool {
	if e.Kind == EventClick {
		return true
	}
	return e.Kind == EventKey && (e.Key == KeyEnter || e.Key == KeySpace)
}
