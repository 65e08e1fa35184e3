package app

import (
	"github.com/cpyvn/cpyvn/pkg/config"
)

// The hit-testing in Update and the drawing in Draw share these layout
// functions, so a clickable region is always exactly the drawn one.

type rect struct {
	x, y, w, h float64
}

func (r rect) contains(px, py float64) bool {
	return px >= r.x && px < r.x+r.w && py >= r.y && py < r.y+r.h
}

const (
	dialogueMargin  = 24
	dialogueHeight  = 190
	choiceWidth     = 0.56
	choiceRowHeight = 52
	choiceRowGap    = 12
	pauseButtonH    = 52
	pauseButtonGap  = 10
	pausePadding    = 28
	slotCellW       = 150
	slotCellH       = 100
	slotCellGap     = 16
)

// dialogueBoxRect is the text box strip along the bottom edge.
func dialogueBoxRect(w, h float64) rect {
	return rect{
		x: dialogueMargin,
		y: h - dialogueHeight - dialogueMargin,
		w: w - 2*dialogueMargin,
		h: dialogueHeight,
	}
}

// choiceRects stacks n option rows in a centered column above the
// dialogue box.
func choiceRects(n int, w, h float64) []rect {
	cw := w * choiceWidth
	x := (w - cw) / 2
	total := float64(n)*choiceRowHeight + float64(n-1)*choiceRowGap
	box := dialogueBoxRect(w, h)
	y := box.y - 40 - total
	out := make([]rect, n)
	for i := range out {
		out[i] = rect{x: x, y: y + float64(i)*(choiceRowHeight+choiceRowGap), w: cw, h: choiceRowHeight}
	}
	return out
}

// titleButtonRects lays the title menu buttons out exactly as its config
// describes them.
func titleButtonRects(menu config.TitleMenu) []rect {
	out := make([]rect, len(menu.Buttons))
	for i := range out {
		out[i] = rect{
			x: menu.MenuX,
			y: menu.MenuY + float64(i)*(menu.ButtonHeight+menu.ButtonGap),
			w: menu.MenuWidth,
			h: menu.ButtonHeight,
		}
	}
	return out
}

// pausePanelRect centers the pause panel, sized to its button stack.
func pausePanelRect(menu config.PauseMenu, w, h float64) rect {
	pw := menu.PanelWidth
	if pw <= 0 {
		pw = 420
	}
	n := float64(len(menu.Buttons))
	ph := 2*pausePadding + 56 + n*pauseButtonH + (n-1)*pauseButtonGap
	return rect{x: (w - pw) / 2, y: (h - ph) / 2, w: pw, h: ph}
}

// pauseButtonRects stacks the pause buttons inside the panel, below its
// title line.
func pauseButtonRects(menu config.PauseMenu, w, h float64) []rect {
	panel := pausePanelRect(menu, w, h)
	out := make([]rect, len(menu.Buttons))
	for i := range out {
		out[i] = rect{
			x: panel.x + pausePadding,
			y: panel.y + pausePadding + 56 + float64(i)*(pauseButtonH+pauseButtonGap),
			w: panel.w - 2*pausePadding,
			h: pauseButtonH,
		}
	}
	return out
}

// slotGridRects centers the save-slot grid laid out per the UI config.
func slotGridRects(ui config.UiConfig, w, h float64) []rect {
	total := ui.PauseMenuSlots
	cols := ui.PauseMenuColumns
	if total <= 0 {
		total = 1
	}
	if cols <= 0 {
		cols = 1
	}
	rows := (total + cols - 1) / cols
	gw := float64(cols)*slotCellW + float64(cols-1)*slotCellGap
	gh := float64(rows)*slotCellH + float64(rows-1)*slotCellGap
	x0 := (w - gw) / 2
	y0 := (h - gh) / 2
	out := make([]rect, total)
	for i := range out {
		col := i % cols
		row := i / cols
		out[i] = rect{
			x: x0 + float64(col)*(slotCellW+slotCellGap),
			y: y0 + float64(row)*(slotCellH+slotCellGap),
			w: slotCellW,
			h: slotCellH,
		}
	}
	return out
}

// hitIndex returns the index of the rect containing the point, or -1.
func hitIndex(rects []rect, x, y float64) int {
	for i, r := range rects {
		if r.contains(x, y) {
			return i
		}
	}
	return -1
}
