package app

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/cpyvn/cpyvn/pkg/graphics"
)

var (
	panelColor     = color.RGBA{0x14, 0x16, 0x20, 0xff}
	rowColor       = color.RGBA{0x22, 0x26, 0x34, 0xff}
	rowActiveColor = color.RGBA{0x3a, 0x46, 0x66, 0xff}
	accentColor    = color.RGBA{0xff, 0xd8, 0x6a, 0xff}
	textWhite      = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	textDim        = color.RGBA{0xa8, 0xa8, 0xb4, 0xff}
	markerColor    = color.RGBA{0xff, 0x5a, 0x5a, 0xff}
)

// Draw implements ebiten.Game. Layers render back to front; whichever
// overlay holds input focus is drawn last, mirroring the runtime's event
// routing order.
func (g *Game) Draw(screen *ebiten.Image) {
	w := float64(g.project.Window.Width)
	h := float64(g.project.Window.Height)

	if g.rt.TitleActive() {
		g.drawTitleMenu(screen, w, h)
		g.drawOverlayStack(screen, w, h)
		return
	}

	g.drawBackground(screen, w, h)
	g.drawSprites(screen)
	g.drawVideo(screen, w, h)
	if g.rt.HotspotDebugEnabled() {
		g.drawHotspotDebug(screen)
	}
	g.drawHud(screen)
	g.drawMeters(screen)
	g.drawDialogue(screen, w, h)
	g.drawChoice(screen, w, h)
	g.drawInput(screen, w, h)
	g.drawPhone(screen, w, h)
	g.drawMap(screen, w, h)
	g.drawInventory(screen, w, h)
	g.drawBlend(screen, w, h)
	g.drawNotify(screen, w)
	g.drawLoading(screen, w, h)
	g.drawOverlayStack(screen, w, h)
}

// drawOverlayStack renders the pause menu, preferences and the perf line,
// which sit on top of both the world and the title menu.
func (g *Game) drawOverlayStack(screen *ebiten.Image, w, h float64) {
	if g.rt.PauseActive() {
		g.drawPauseMenu(screen, w, h)
	}
	if g.rt.PrefsActive() {
		g.drawPrefs(screen, w, h)
	}
	if g.project.UI.ShowPerf || g.debug {
		g.drawPerf(screen)
	}
}

func (g *Game) drawBackground(screen *ebiten.Image, w, h float64) {
	bg := g.rt.Background()
	bob := g.rt.FloatOffset(bg.FloatAmp, bg.FloatSpeed)
	switch bg.Kind {
	case "image":
		img := ebitenImage(g.assets.LoadImage(bg.Value, "bg"))
		if img == nil {
			screen.Fill(color.Black)
			return
		}
		graphics.DrawCover(screen, img, w, h, bob)
	default:
		screen.Fill(graphics.ParseColor(bg.Value))
	}
}

func (g *Game) drawSprites(screen *ebiten.Image) {
	sprites := g.rt.Sprites()
	sort.SliceStable(sprites, func(i, j int) bool { return sprites[i].Z < sprites[j].Z })

	cam := g.rt.Camera()
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	for _, sp := range sprites {
		var img *ebiten.Image
		switch sp.Kind {
		case "rect":
			w, h := 64.0, 64.0
			if sp.Size != nil {
				w, h = sp.Size.W, sp.Size.H
			}
			img = ebitenImage(g.assets.MakeRectSurface(sp.Value, int(w), int(h)))
		default:
			img = ebitenImage(g.assets.LoadImage(sp.Value, "sprites"))
		}
		if img == nil {
			continue
		}
		b := img.Bounds()
		nw, nh := float64(b.Dx()), float64(b.Dy())
		if nw == 0 || nh == 0 {
			continue
		}

		dw, dh := nw, nh
		if sp.Size != nil {
			dw, dh = sp.Size.W, sp.Size.H
		}
		ax, ay := anchorFractions(sp.Anchor)
		bob := g.rt.FloatOffset(sp.FloatAmp, sp.FloatSpeed)
		sx, sy := cam.WorldToScreen(sp.Pos.X-dw*ax, sp.Pos.Y-dh*ay+bob)

		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(dw/nw*zoom, dh/nh*zoom)
		op.GeoM.Translate(sx, sy)
		op.ColorScale.ScaleAlpha(float32(sp.Alpha))
		screen.DrawImage(img, op)
	}
}

// anchorFractions maps anchor words to the fraction of the sprite's size
// subtracted from its position per axis. No words means top-left.
func anchorFractions(anchor string) (ax, ay float64) {
	for _, word := range strings.Fields(anchor) {
		switch word {
		case "left":
			ax = 0
		case "center":
			ax = 0.5
		case "right":
			ax = 1
		case "top":
			ay = 0
		case "middle":
			ay = 0.5
		case "bottom":
			ay = 1
		}
	}
	return ax, ay
}

func (g *Game) drawVideo(screen *ebiten.Image, w, h float64) {
	vs := g.rt.ActiveVideo()
	if vs == nil || vs.Frame == nil {
		return
	}
	img := ebitenImage(vs.Frame)
	if img == nil {
		return
	}
	if vs.Fit == "cover" {
		graphics.DrawCover(screen, img, w, h, 0)
		return
	}
	graphics.FillRect(screen, 0, 0, w, h, color.Black)
	graphics.DrawContain(screen, img, w, h)
}

func (g *Game) drawHotspotDebug(screen *ebiten.Image) {
	cam := g.rt.Camera()
	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	for _, hs := range g.rt.Hotspots() {
		if hs.Rect != nil {
			x, y := cam.WorldToScreen(hs.Rect.X, hs.Rect.Y)
			graphics.StrokeRect(screen, x, y, hs.Rect.W*zoom, hs.Rect.H*zoom, 2, accentColor)
			graphics.DrawText(screen, hs.Name, graphics.Face(16), x+4, y+4, accentColor)
			continue
		}
		for i := range hs.Points {
			p1 := hs.Points[i]
			p2 := hs.Points[(i+1)%len(hs.Points)]
			x1, y1 := cam.WorldToScreen(p1.X, p1.Y)
			x2, y2 := cam.WorldToScreen(p2.X, p2.Y)
			vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 2, accentColor, false)
		}
		if len(hs.Points) > 0 {
			x, y := cam.WorldToScreen(hs.Points[0].X, hs.Points[0].Y)
			graphics.DrawText(screen, hs.Name, graphics.Face(16), x+4, y+4, accentColor)
		}
	}
}

func (g *Game) drawHud(screen *ebiten.Image) {
	if !g.project.FeatureOn("hud") {
		return
	}
	f := graphics.Face(18)
	for _, b := range g.rt.HudButtons() {
		r := b.Rect
		graphics.FillRect(screen, r.X, r.Y, r.W, r.H, graphics.WithAlpha(rowColor, 0.85))
		graphics.StrokeRect(screen, r.X, r.Y, r.W, r.H, 1, textDim)
		if b.Icon != "" {
			if img := ebitenImage(g.assets.LoadImage(b.Icon, "sprites")); img != nil {
				ib := img.Bounds()
				scale := (r.H - 8) / float64(ib.Dy())
				op := &ebiten.DrawImageOptions{}
				op.Filter = ebiten.FilterLinear
				op.GeoM.Scale(scale, scale)
				op.GeoM.Translate(r.X+4, r.Y+4)
				screen.DrawImage(img, op)
			}
		}
		if b.Text != "" {
			graphics.DrawTextCentered(screen, b.Text, f, r.X+r.W/2, r.Y+(r.H-f.Size)/2, textWhite)
		}
	}
}

func (g *Game) drawMeters(screen *ebiten.Image) {
	const barW, barH, gap = 220.0, 22.0, 10.0
	f := graphics.Face(15)
	y := 16.0
	for _, m := range g.rt.Meters() {
		span := m.Max - m.Min
		ratio := 0.0
		if span > 0 {
			ratio = (m.Value - m.Min) / span
		}
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		graphics.FillRect(screen, 16, y, barW, barH, graphics.WithAlpha(panelColor, 0.8))
		graphics.FillRect(screen, 16, y, barW*ratio, barH, graphics.ParseColor(m.Color))
		graphics.StrokeRect(screen, 16, y, barW, barH, 1, textDim)
		label := m.Label
		if label == "" {
			label = m.Var
		}
		graphics.DrawText(screen, label, f, 22, y+(barH-f.Size)/2, textWhite)
		y += barH + gap
	}
}

func (g *Game) drawDialogue(screen *ebiten.Image, w, h float64) {
	d := g.rt.Dialogue()
	if d == nil {
		return
	}
	ui := g.project.UI
	box := dialogueBoxRect(w, h)
	fillRect(screen, box, graphics.WithAlpha(panelColor, ui.BoxOpacity))

	textX := box.x + 28
	textY := box.y + 20
	if d.Speaker != "" {
		nameClr := textWhite
		if d.Color != "" {
			nameClr = graphics.ParseColor(d.Color)
		}
		nf := graphics.BoldFace(ui.NameFontSize)
		graphics.DrawText(screen, d.Speaker, nf, textX, textY, nameClr)
		textY += nf.Size + 12
	}

	f := graphics.Face(ui.FontSize)
	visible := g.visibleDialogueText(d.Text)
	for _, line := range graphics.WrapText(visible, f, box.w-56) {
		graphics.DrawText(screen, line, f, textX, textY, textWhite)
		textY += f.Size * 1.35
	}
}

// visibleDialogueText clips the line to the typewriter reveal front at
// the effective characters-per-second speed.
func (g *Game) visibleDialogueText(full string) string {
	speed := g.rt.EffectiveTextSpeed()
	if speed <= 0 {
		return full
	}
	elapsed := time.Since(g.start).Seconds()*1000 - g.dlgStartMS
	n := int(speed * elapsed / 1000)
	runes := []rune(full)
	if n >= len(runes) {
		return full
	}
	if n < 0 {
		n = 0
	}
	return string(runes[:n])
}

func (g *Game) drawChoice(screen *ebiten.Image, w, h float64) {
	c := g.rt.ActiveChoice()
	if c == nil {
		return
	}
	ui := g.project.UI
	rows := choiceRects(len(c.Options), w, h)
	f := graphics.Face(ui.ChoiceFontSize)

	if c.Prompt != "" && len(rows) > 0 {
		graphics.DrawTextCentered(screen, c.Prompt, graphics.BoldFace(ui.ChoiceFontSize), w/2, rows[0].y-46, textWhite)
	}
	for i, r := range rows {
		bg := rowColor
		if i == c.Selected {
			bg = rowActiveColor
		}
		fillRect(screen, r, graphics.WithAlpha(bg, 0.94))
		if i == c.Selected {
			graphics.StrokeRect(screen, r.x, r.y, r.w, r.h, 2, accentColor)
		}
		graphics.DrawTextCentered(screen, c.Options[i].Text, f, r.x+r.w/2, r.y+(r.h-f.Size)/2, textWhite)
	}

	// Timeout gutter under the last row, draining left to right.
	if c.TimeoutMS != nil && *c.TimeoutMS > 0 && len(rows) > 0 {
		last := rows[len(rows)-1]
		remain := 1 - c.TimeoutElapsedMS / *c.TimeoutMS
		if remain < 0 {
			remain = 0
		}
		graphics.FillRect(screen, last.x, last.y+last.h+8, last.w*remain, 6, accentColor)
	}
}

func (g *Game) drawInput(screen *ebiten.Image, w, h float64) {
	in := g.rt.ActiveInput()
	if in == nil {
		return
	}
	panel := rect{w/2 - 300, h/2 - 90, 600, 180}
	fillRect(screen, panel, graphics.WithAlpha(panelColor, 0.96))
	graphics.StrokeRect(screen, panel.x, panel.y, panel.w, panel.h, 2, accentColor)

	f := graphics.Face(g.project.UI.FontSize)
	graphics.DrawText(screen, in.Prompt, f, panel.x+24, panel.y+22, textWhite)

	field := rect{panel.x + 24, panel.y + 78, panel.w - 48, 44}
	fillRect(screen, field, rowColor)
	entered := string(in.Buffer)
	if entered == "" && in.Default != "" {
		graphics.DrawText(screen, in.Default, f, field.x+10, field.y+(field.h-f.Size)/2, textDim)
	} else {
		graphics.DrawText(screen, entered+"_", f, field.x+10, field.y+(field.h-f.Size)/2, textWhite)
	}
	graphics.DrawText(screen, "enter to confirm", graphics.Face(15), panel.x+24, panel.y+panel.h-30, textDim)
}

func (g *Game) drawPhone(screen *ebiten.Image, w, h float64) {
	p := g.rt.Phone()
	if p == nil {
		return
	}
	const panelW = 380.0
	panel := rect{w - panelW - 32, 32, panelW, h - 64}
	fillRect(screen, panel, graphics.WithAlpha(panelColor, 0.96))
	graphics.StrokeRect(screen, panel.x, panel.y, panel.w, panel.h, 2, textDim)

	hf := graphics.BoldFace(20)
	graphics.DrawTextCentered(screen, p.Contact, hf, panel.x+panel.w/2, panel.y+14, textWhite)
	vector.StrokeLine(screen, float32(panel.x+16), float32(panel.y+48), float32(panel.x+panel.w-16), float32(panel.y+48), 1, textDim, false)

	// Newest messages win the space; draw bottom-up until the header.
	f := graphics.Face(17)
	const bubbleMax = panelW - 80
	y := panel.y + panel.h - 24
	if p.WaitingAdvance {
		graphics.DrawTextCentered(screen, "click to continue", graphics.Face(14), panel.x+panel.w/2, y-16, textDim)
		y -= 34
	}
	for i := len(p.Messages) - 1; i >= 0; i-- {
		msg := p.Messages[i]
		lines := graphics.WrapText(msg.Text, f, bubbleMax-24)
		bh := float64(len(lines))*f.Size*1.3 + 16
		bw := 0.0
		for _, line := range lines {
			if adv := text.Advance(line, f); adv > bw {
				bw = adv
			}
		}
		bw += 24
		y -= bh
		if y < panel.y+60 {
			break
		}
		bx := panel.x + 16
		bg := rowColor
		if msg.Side == "right" {
			bx = panel.x + panel.w - 16 - bw
			bg = rowActiveColor
		}
		fillRect(screen, rect{bx, y, bw, bh}, bg)
		ty := y + 8
		for _, line := range lines {
			graphics.DrawText(screen, line, f, bx+12, ty, textWhite)
			ty += f.Size * 1.3
		}
		y -= 10
	}
}

func (g *Game) drawMap(screen *ebiten.Image, w, h float64) {
	m := g.rt.MapOverlay()
	if !m.Active {
		return
	}
	graphics.FillRect(screen, 0, 0, w, h, graphics.WithAlpha(color.RGBA{}, 0.6))
	if img := ebitenImage(g.assets.LoadImage(m.Image, "bg")); img != nil {
		graphics.DrawContain(screen, img, w, h)
	}
	f := graphics.Face(16)
	for _, pt := range m.Points {
		vector.DrawFilledCircle(screen, float32(pt.Pos.X), float32(pt.Pos.Y), mapMarkerRadius, graphics.WithAlpha(markerColor, 0.85), true)
		vector.StrokeCircle(screen, float32(pt.Pos.X), float32(pt.Pos.Y), mapMarkerRadius, 2, textWhite, true)
		graphics.DrawTextCentered(screen, pt.Label, f, pt.Pos.X, pt.Pos.Y+mapMarkerRadius+6, textWhite)
	}
}

// mapMarkerRadius mirrors the runtime's clickable radius so the drawn
// marker is exactly the hit region.
const mapMarkerRadius = 24.0

func (g *Game) drawInventory(screen *ebiten.Image, w, h float64) {
	if !g.rt.InventoryOpen() {
		return
	}
	panel := rect{w/2 - 330, h/2 - 240, 660, 480}
	fillRect(screen, panel, graphics.WithAlpha(panelColor, 0.96))
	graphics.StrokeRect(screen, panel.x, panel.y, panel.w, panel.h, 2, textDim)
	graphics.DrawTextCentered(screen, "Inventory", graphics.BoldFace(24), panel.x+panel.w/2, panel.y+18, textWhite)

	nf := graphics.Face(18)
	df := graphics.Face(14)
	y := panel.y + 64
	for _, entry := range g.rt.InventoryPageItems() {
		row := rect{panel.x + 20, y, panel.w - 40, 56}
		fillRect(screen, row, rowColor)
		textX := row.x + 14
		if entry.Item.Icon != "" {
			if img := ebitenImage(g.assets.LoadImage(entry.Item.Icon, "sprites")); img != nil {
				ib := img.Bounds()
				scale := 44 / float64(ib.Dy())
				op := &ebiten.DrawImageOptions{}
				op.Filter = ebiten.FilterLinear
				op.GeoM.Scale(scale, scale)
				op.GeoM.Translate(row.x+8, row.y+6)
				screen.DrawImage(img, op)
			}
			textX += 52
		}
		name := entry.Item.Name
		if entry.Item.Count > 1 {
			name = fmt.Sprintf("%s x%d", name, entry.Item.Count)
		}
		graphics.DrawText(screen, name, nf, textX, row.y+8, textWhite)
		graphics.DrawText(screen, entry.Item.Desc, df, textX, row.y+32, textDim)
		y += 64
	}

	footer := fmt.Sprintf("page %d", g.rt.InventoryPage()+1)
	graphics.DrawTextCentered(screen, footer, df, panel.x+panel.w/2, panel.y+panel.h-30, textDim)
}

func (g *Game) drawBlend(screen *ebiten.Image, w, h float64) {
	b := g.rt.ActiveBlend()
	if b == nil || b.Style == "none" {
		return
	}
	alpha := b.RemainingMS / 500
	if alpha > 1 {
		alpha = 1
	}
	if alpha <= 0 {
		return
	}
	clr := color.RGBA{}
	if b.Style == "flash" {
		clr = color.RGBA{R: 0xff, G: 0xff, B: 0xff}
	}
	graphics.FillRect(screen, 0, 0, w, h, graphics.WithAlpha(clr, alpha))
}

func (g *Game) drawNotify(screen *ebiten.Image, w float64) {
	n := g.rt.Notification()
	if n == nil {
		return
	}
	f := graphics.Face(g.project.UI.NotifyFontSize)
	tw := text.Advance(n.Text, f)
	pill := rect{(w - tw - 48) / 2, 24, tw + 48, f.Size + 24}
	alpha := 1.0
	if n.RemainingMS < 300 {
		alpha = n.RemainingMS / 300
	}
	fillRect(screen, pill, graphics.WithAlpha(panelColor, 0.92*alpha))
	graphics.DrawText(screen, n.Text, f, pill.x+24, pill.y+12, graphics.WithAlpha(textWhite, alpha))
}

func (g *Game) drawLoading(screen *ebiten.Image, w, h float64) {
	l := g.rt.Loading()
	if !l.Active {
		return
	}
	graphics.FillRect(screen, 0, 0, w, h, graphics.WithAlpha(color.RGBA{}, 0.55))
	graphics.DrawTextCentered(screen, l.Text, graphics.BoldFace(28), w/2, h/2-14, textWhite)
}

func (g *Game) drawTitleMenu(screen *ebiten.Image, w, h float64) {
	menu := g.rt.TitleMenuConfig()

	switch menu.Background.Kind {
	case "image":
		if img := ebitenImage(g.assets.LoadImage(menu.Background.Value, "bg")); img != nil {
			graphics.DrawCover(screen, img, w, h, 0)
		} else {
			screen.Fill(color.Black)
		}
	default:
		screen.Fill(graphics.ParseColor(menu.Background.Value))
	}
	if menu.Background.OverlayAlpha > 0 {
		graphics.FillRect(screen, 0, 0, w, h, graphics.WithAlpha(color.RGBA{}, menu.Background.OverlayAlpha))
	}

	title := menu.Title
	if title == "" {
		title = g.project.Name
	}
	graphics.DrawTextCentered(screen, title, graphics.BoldFace(52), w/2, h*0.18, textWhite)
	if menu.Subtitle != "" {
		graphics.DrawTextCentered(screen, menu.Subtitle, graphics.Face(22), w/2, h*0.18+70, textDim)
	}

	pane, sel := g.rt.TitleSelection()
	if pane == "load" {
		g.drawSlotGrid(screen, w, h, "Load", sel)
		return
	}
	f := graphics.Face(22)
	for i, r := range titleButtonRects(menu) {
		bg := rowColor
		if i == sel {
			bg = rowActiveColor
		}
		fillRect(screen, r, graphics.WithAlpha(bg, 0.94))
		if i == sel {
			graphics.StrokeRect(screen, r.x, r.y, r.w, r.h, 2, accentColor)
		}
		graphics.DrawTextCentered(screen, menu.Buttons[i].Label, f, r.x+r.w/2, r.y+(r.h-f.Size)/2, textWhite)
	}
}

func (g *Game) drawPauseMenu(screen *ebiten.Image, w, h float64) {
	graphics.FillRect(screen, 0, 0, w, h, graphics.WithAlpha(color.RGBA{}, 0.55))

	menu := g.rt.PauseMenuConfig()
	pane, sel := g.rt.PauseSelection()
	if pane == "save" || pane == "load" {
		title := "Load"
		if pane == "save" {
			title = "Save"
		}
		g.drawSlotGrid(screen, w, h, title, sel)
		return
	}

	panel := pausePanelRect(menu, w, h)
	fillRect(screen, panel, graphics.WithAlpha(panelColor, 0.97))
	graphics.StrokeRect(screen, panel.x, panel.y, panel.w, panel.h, 2, textDim)
	graphics.DrawTextCentered(screen, menu.Title, graphics.BoldFace(26), panel.x+panel.w/2, panel.y+18, textWhite)

	f := graphics.Face(20)
	for i, r := range pauseButtonRects(menu, w, h) {
		bg := rowColor
		if i == sel {
			bg = rowActiveColor
		}
		fillRect(screen, r, bg)
		if i == sel {
			graphics.StrokeRect(screen, r.x, r.y, r.w, r.h, 2, accentColor)
		}
		graphics.DrawTextCentered(screen, menu.Buttons[i].Label, f, r.x+r.w/2, r.y+(r.h-f.Size)/2, textWhite)
	}
}

func (g *Game) drawSlotGrid(screen *ebiten.Image, w, h float64, title string, sel int) {
	graphics.DrawTextCentered(screen, title, graphics.BoldFace(30), w/2, h*0.1, textWhite)
	f := graphics.Face(18)
	for i, r := range slotGridRects(g.project.UI, w, h) {
		bg := rowColor
		if i == sel {
			bg = rowActiveColor
		}
		fillRect(screen, r, graphics.WithAlpha(bg, 0.95))
		if i == sel {
			graphics.StrokeRect(screen, r.x, r.y, r.w, r.h, 2, accentColor)
		}
		graphics.DrawTextCentered(screen, fmt.Sprintf("Slot %d", i+1), f, r.x+r.w/2, r.y+(r.h-f.Size)/2, textWhite)
	}
	graphics.DrawTextCentered(screen, "escape to go back", graphics.Face(15), w/2, h*0.9, textDim)
}

func (g *Game) drawPrefs(screen *ebiten.Image, w, h float64) {
	graphics.FillRect(screen, 0, 0, w, h, graphics.WithAlpha(color.RGBA{}, 0.55))
	panel := rect{w/2 - 280, h/2 - 170, 560, 340}
	fillRect(screen, panel, graphics.WithAlpha(panelColor, 0.97))
	graphics.StrokeRect(screen, panel.x, panel.y, panel.w, panel.h, 2, textDim)
	graphics.DrawTextCentered(screen, "Settings", graphics.BoldFace(26), panel.x+panel.w/2, panel.y+18, textWhite)

	prefs := g.rt.PrefsValues()
	rows := []struct {
		label string
		value string
	}{
		{"Text speed", fmt.Sprintf("%.0f", g.rt.EffectiveTextSpeed())},
		{"Music", onOff(!prefs.MutedMusic)},
		{"Sound", onOff(!prefs.MutedSound)},
		{"Voice", onOff(!prefs.MutedVoice)},
	}
	sel := g.rt.PrefsSelection()
	f := graphics.Face(20)
	y := panel.y + 72
	for i, row := range rows {
		r := rect{panel.x + 24, y, panel.w - 48, 48}
		bg := rowColor
		if i == sel {
			bg = rowActiveColor
		}
		fillRect(screen, r, bg)
		graphics.DrawText(screen, row.label, f, r.x+16, r.y+(r.h-f.Size)/2, textWhite)
		adv := text.Advance(row.value, f)
		graphics.DrawText(screen, row.value, f, r.x+r.w-16-adv, r.y+(r.h-f.Size)/2, accentColor)
		y += 58
	}
	graphics.DrawTextCentered(screen, "arrows to change, escape to close", graphics.Face(15), panel.x+panel.w/2, panel.y+panel.h-32, textDim)
}

func (g *Game) drawPerf(screen *ebiten.Image) {
	line := fmt.Sprintf("fps %.0f  tps %.0f  sprites %d  tracks %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), len(g.rt.Sprites()), g.rt.ActiveTracks())
	graphics.DrawText(screen, line, graphics.Face(14), 8, 6, accentColor)
}

func fillRect(dst *ebiten.Image, r rect, clr color.RGBA) {
	graphics.FillRect(dst, r.x, r.y, r.w, r.h, clr)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
