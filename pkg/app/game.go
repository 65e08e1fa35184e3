package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/runtime"
)

// keyBindings maps the physical keys the player can press to the
// runtime's key vocabulary.
var keyBindings = []struct {
	key ebiten.Key
	out runtime.Key
}{
	{ebiten.KeyEnter, runtime.KeyEnter},
	{ebiten.KeyNumpadEnter, runtime.KeyEnter},
	{ebiten.KeySpace, runtime.KeySpace},
	{ebiten.KeyEscape, runtime.KeyEscape},
	{ebiten.KeyBackspace, runtime.KeyBackspace},
	{ebiten.KeyArrowUp, runtime.KeyUp},
	{ebiten.KeyArrowDown, runtime.KeyDown},
	{ebiten.KeyArrowLeft, runtime.KeyLeft},
	{ebiten.KeyArrowRight, runtime.KeyRight},
	{ebiten.KeyI, runtime.KeyInventory},
}

// Game drives the runtime from the ebiten frame loop: Update gathers
// this frame's input, translates pointer hits on menu layouts into
// choose events and steps the interpreter; Draw renders the world state.
type Game struct {
	rt      *runtime.Runtime
	assets  *Assets
	project *config.Project
	log     *slog.Logger

	timeout time.Duration
	debug   bool
	start   time.Time

	events []runtime.Event
	runes  []rune

	// Typewriter clock. Reset whenever the dialogue line changes.
	dlg        *runtime.Dialogue
	dlgStartMS float64
}

// NewGame wires a game around an already constructed runtime.
func NewGame(rt *runtime.Runtime, assets *Assets, project *config.Project, log *slog.Logger, timeout time.Duration, debug bool) *Game {
	return &Game{
		rt:      rt,
		assets:  assets,
		project: project,
		log:     log,
		timeout: timeout,
		debug:   debug,
		start:   time.Now(),
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.timeout > 0 && time.Since(g.start) >= g.timeout {
		g.log.Info("timeout reached, shutting down")
		return ebiten.Termination
	}

	nowMS := time.Since(g.start).Seconds() * 1000
	g.events = g.events[:0]
	g.collectKeys()
	g.collectRunes()
	g.collectClick()

	if err := g.rt.Step(nowMS, g.events); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}

	if d := g.rt.Dialogue(); d != g.dlg {
		g.dlg = d
		g.dlgStartMS = nowMS
	}

	if g.rt.Finished() || g.rt.QuitRequested() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) collectKeys() {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.events = append(g.events, runtime.KeyEvent(b.out))
		}
	}
}

// collectRunes forwards typed characters, but only while the text-entry
// overlay has focus; printable input means nothing anywhere else.
func (g *Game) collectRunes() {
	if g.rt.ActiveInput() == nil {
		return
	}
	g.runes = ebiten.AppendInputChars(g.runes[:0])
	for _, r := range g.runes {
		g.events = append(g.events, runtime.RuneEvent(r))
	}
}

// collectClick translates a pointer press into the event the focused
// layer expects. Menus and choices get a choose event carrying the index
// of the hit row; everything else receives the raw click.
func (g *Game) collectClick() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	w, h := float64(g.project.Window.Width), float64(g.project.Window.Height)

	if idx, ok := g.menuHit(x, y, w, h); ok {
		g.events = append(g.events, runtime.ChooseEvent(idx))
		return
	}
	g.events = append(g.events, runtime.ClickEvent(x, y))
}

// menuHit resolves a pointer position against whichever menu layout has
// input focus, in the same precedence order the runtime routes events.
func (g *Game) menuHit(x, y, w, h float64) (int, bool) {
	switch {
	case g.rt.PrefsActive():
		return 0, false
	case g.rt.TitleActive():
		if pane, _ := g.rt.TitleSelection(); pane == "load" {
			return hitOrMiss(slotGridRects(g.project.UI, w, h), x, y)
		}
		return hitOrMiss(titleButtonRects(g.rt.TitleMenuConfig()), x, y)
	case g.rt.PauseActive():
		if pane, _ := g.rt.PauseSelection(); pane == "save" || pane == "load" {
			return hitOrMiss(slotGridRects(g.project.UI, w, h), x, y)
		}
		return hitOrMiss(pauseButtonRects(g.rt.PauseMenuConfig(), w, h), x, y)
	case g.rt.ActiveChoice() != nil && !g.rt.MapOverlay().Active && !g.rt.InventoryOpen() && g.rt.Phone() == nil:
		return hitOrMiss(choiceRects(len(g.rt.ActiveChoice().Options), w, h), x, y)
	}
	return 0, false
}

func hitOrMiss(rects []rect, x, y float64) (int, bool) {
	idx := hitIndex(rects, x, y)
	return idx, idx >= 0
}

// Layout implements ebiten.Game; ebiten scales and letterboxes the
// logical surface into whatever window the player drags out.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.project.Window.Width, g.project.Window.Height
}
