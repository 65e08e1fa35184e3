package app

import (
	"log/slog"
	"os"
	"testing"

	"github.com/cpyvn/cpyvn/pkg/config"
	"github.com/cpyvn/cpyvn/pkg/parser"
	"github.com/cpyvn/cpyvn/pkg/runtime"
)

// buildGame parses source as the entry script of a default project and
// wraps the runtime in a Game with headless assets.
func buildGame(t *testing.T, source string, mutate func(*config.Project)) *Game {
	t.Helper()
	proj := config.Default()
	proj.Root = t.TempDir()
	proj.Entry = "main.cvn"
	proj.UI.TitleMenuEnabled = false
	if mutate != nil {
		mutate(&proj)
	}
	entry := proj.EntryPath()
	if err := os.WriteFile(entry, []byte(source), 0o644); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	ld := parser.NewLoader()
	prog, err := ld.Load(entry)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	assets := NewAssets(&proj, config.Prefs{}, true)
	rt := runtime.New(prog, entry, runtime.Options{
		Loader:    ld,
		Assets:    assets,
		Project:   &proj,
		TitleMenu: config.DefaultTitleMenu(),
		PauseMenu: config.DefaultPauseMenu(),
	})
	return NewGame(rt, assets, &proj, slog.Default(), 0, false)
}

func step(t *testing.T, g *Game, nowMS float64, events ...runtime.Event) {
	t.Helper()
	if err := g.rt.Step(nowMS, events); err != nil {
		t.Fatalf("step at %v: %v", nowMS, err)
	}
}

func TestMenuHitTitleButtons(t *testing.T) {
	g := buildGame(t, `narrator "x";`, func(p *config.Project) {
		p.UI.TitleMenuEnabled = true
	})
	if !g.rt.TitleActive() {
		t.Fatal("title menu should be active at startup")
	}

	menu := config.DefaultTitleMenu()
	rects := titleButtonRects(menu)

	idx, ok := g.menuHit(rects[0].x+10, rects[0].y+10, testW, testH)
	if !ok || idx != 0 {
		t.Errorf("button 0 hit = (%d, %v), want (0, true)", idx, ok)
	}
	idx, ok = g.menuHit(rects[3].x+10, rects[3].y+10, testW, testH)
	if !ok || idx != 3 {
		t.Errorf("button 3 hit = (%d, %v), want (3, true)", idx, ok)
	}
	if _, ok := g.menuHit(10, 10, testW, testH); ok {
		t.Error("a click off the menu should not choose")
	}
}

func TestMenuHitChoiceRows(t *testing.T) {
	g := buildGame(t, `ask "Pick" ["A" -> a; "B" -> b;]; label a: label b:`, nil)
	step(t, g, 0)
	if g.rt.ActiveChoice() == nil {
		t.Fatal("choice should be active")
	}

	rows := choiceRects(2, testW, testH)
	idx, ok := g.menuHit(rows[1].x+5, rows[1].y+5, testW, testH)
	if !ok || idx != 1 {
		t.Errorf("row 1 hit = (%d, %v), want (1, true)", idx, ok)
	}
	if _, ok := g.menuHit(rows[0].x, rows[0].y-20, testW, testH); ok {
		t.Error("a click between prompt and rows should not choose")
	}
}

func TestMenuHitPauseMenuAndSlots(t *testing.T) {
	g := buildGame(t, `narrator "hi";`, nil)
	step(t, g, 0)
	step(t, g, 16, runtime.KeyEvent(runtime.KeyEscape))
	if !g.rt.PauseActive() {
		t.Fatal("escape should open the pause menu")
	}

	menu := config.DefaultPauseMenu()
	buttons := pauseButtonRects(menu, testW, testH)
	idx, ok := g.menuHit(buttons[0].x+5, buttons[0].y+5, testW, testH)
	if !ok || idx != 0 {
		t.Errorf("pause button hit = (%d, %v), want (0, true)", idx, ok)
	}

	// Button 3 is "Save": the panel switches to the slot grid.
	step(t, g, 32, runtime.ChooseEvent(3))
	if pane, _ := g.rt.PauseSelection(); pane != "save" {
		t.Fatalf("pane = %q, want save", pane)
	}
	slots := slotGridRects(g.project.UI, testW, testH)
	idx, ok = g.menuHit(slots[4].x+5, slots[4].y+5, testW, testH)
	if !ok || idx != 4 {
		t.Errorf("slot hit = (%d, %v), want (4, true)", idx, ok)
	}
}

func TestMenuHitPrefsIgnoresPointer(t *testing.T) {
	g := buildGame(t, `narrator "hi";`, nil)
	step(t, g, 0)
	step(t, g, 16, runtime.KeyEvent(runtime.KeyEscape))
	step(t, g, 32, runtime.ChooseEvent(5))
	if !g.rt.PrefsActive() {
		t.Fatal("settings action should open the preferences overlay")
	}

	if _, ok := g.menuHit(testW/2, testH/2, testW, testH); ok {
		t.Error("the preferences overlay is keyboard-only")
	}
}

func TestMenuHitNothingFocused(t *testing.T) {
	g := buildGame(t, `set x 1;`, nil)
	step(t, g, 0)

	if _, ok := g.menuHit(testW/2, testH/2, testW, testH); ok {
		t.Error("no focused menu should mean no choose event")
	}
}
