package runtime

// inventoryPageSize is how many items one inventory page shows.
const inventoryPageSize = 10

// mapMarkerRadius is the clickable radius around a map point, in
// overlay-local screen pixels.
const mapMarkerRadius = 24.0

// handleChoiceEvent routes input while a choice prompt is open. The
// pointer selects through ChooseEvent; the caller owns option layout.
func (r *Runtime) handleChoiceEvent(ev Event) error {
	c := r.choice
	if c == nil || len(c.Options) == 0 {
		return nil
	}
	switch ev.Kind {
	case EventKey:
		switch ev.Key {
		case KeyUp:
			c.Selected = (c.Selected + len(c.Options) - 1) % len(c.Options)
		case KeyDown:
			c.Selected = (c.Selected + 1) % len(c.Options)
		case KeyEnter, KeySpace:
			return r.resolveChoice(c.Selected)
		case KeyEscape:
			if r.ui.PauseMenuEnabled {
				r.openPauseMenu()
			}
		}
	case EventChoose:
		if ev.Index >= 0 && ev.Index < len(c.Options) {
			return r.resolveChoice(ev.Index)
		}
	}
	return nil
}

// resolveChoice commits option idx: the wait clears and control jumps to
// the option's target.
func (r *Runtime) resolveChoice(idx int) error {
	c := r.choice
	target := c.Options[idx].Target
	c.Selected = idx
	r.wait = waitNone
	r.choice = nil
	_, err := r.jump(target)
	return err
}

// handleInputEvent edits the text-entry buffer. Enter commits the buffer
// (or the default when empty); escape cancels to the default.
func (r *Runtime) handleInputEvent(ev Event) {
	in := r.input
	if in == nil {
		return
	}
	switch ev.Kind {
	case EventRune:
		in.Buffer = append(in.Buffer, ev.Rune)
	case EventKey:
		switch ev.Key {
		case KeyBackspace:
			if len(in.Buffer) > 0 {
				in.Buffer = in.Buffer[:len(in.Buffer)-1]
			}
		case KeyEnter:
			r.commitInput(string(in.Buffer))
		case KeyEscape:
			r.commitInput("")
		}
	}
}

func (r *Runtime) commitInput(text string) {
	in := r.input
	if text == "" {
		text = in.Default
	}
	r.setStringVar(in.Variable, text)
	r.wait = waitNone
	r.input = nil
}

// handleMapEvent routes clicks on the map overlay. A hit on a point
// deactivates the overlay and jumps; execution resumes the same frame.
func (r *Runtime) handleMapEvent(ev Event) error {
	switch ev.Kind {
	case EventClick:
		for _, pt := range r.mapState.Points {
			dx, dy := ev.X-pt.Pos.X, ev.Y-pt.Pos.Y
			if dx*dx+dy*dy <= mapMarkerRadius*mapMarkerRadius {
				r.mapState.Active = false
				_, err := r.jump(pt.Target)
				return err
			}
		}
	case EventKey:
		if ev.Key == KeyEscape {
			r.mapState.Active = false
		}
	}
	return nil
}

// handlePhoneEvent advances the conversation one message per advance
// input. Escape still opens the pause menu mid-conversation.
func (r *Runtime) handlePhoneEvent(ev Event) {
	if ev.isAdvance() {
		r.phone.WaitingAdvance = false
		return
	}
	if ev.Kind == EventKey && ev.Key == KeyEscape && r.ui.PauseMenuEnabled {
		r.openPauseMenu()
	}
}

// handleInventoryEvent pages and closes the inventory overlay.
func (r *Runtime) handleInventoryEvent(ev Event) {
	if ev.Kind != EventKey {
		return
	}
	switch ev.Key {
	case KeyEscape, KeyInventory:
		r.inventoryOpen = false
	case KeyLeft:
		r.inventoryPage--
		r.clampInventoryPage()
	case KeyRight:
		r.inventoryPage++
		r.clampInventoryPage()
	}
}

// toggleInventory flips the inventory overlay. It is a no-op when the
// items feature is off.
func (r *Runtime) toggleInventory() {
	if !r.project.FeatureOn("items") {
		return
	}
	r.inventoryOpen = !r.inventoryOpen
	r.clampInventoryPage()
}

func (r *Runtime) clampInventoryPage() {
	max := r.inventoryMaxPage()
	if r.inventoryPage > max {
		r.inventoryPage = max
	}
	if r.inventoryPage < 0 {
		r.inventoryPage = 0
	}
}

func (r *Runtime) inventoryMaxPage() int {
	if len(r.itemOrder) == 0 {
		return 0
	}
	return (len(r.itemOrder) - 1) / inventoryPageSize
}

// InventoryEntry pairs an item id with its record for display.
type InventoryEntry struct {
	ID   string
	Item *InventoryItem
}

// InventoryPageItems returns the entries of the current page in
// acquisition order.
func (r *Runtime) InventoryPageItems() []InventoryEntry {
	start := r.inventoryPage * inventoryPageSize
	if start >= len(r.itemOrder) {
		return nil
	}
	end := start + inventoryPageSize
	if end > len(r.itemOrder) {
		end = len(r.itemOrder)
	}
	out := make([]InventoryEntry, 0, end-start)
	for _, id := range r.itemOrder[start:end] {
		if it, ok := r.items[id]; ok {
			out = append(out, InventoryEntry{ID: id, Item: it})
		}
	}
	return out
}

// InventoryOpen reports whether the inventory overlay is shown.
func (r *Runtime) InventoryOpen() bool { return r.inventoryOpen }

// InventoryPage returns the current zero-based page index.
func (r *Runtime) InventoryPage() int { return r.inventoryPage }

// InventoryCount returns the number of distinct item stacks.
func (r *Runtime) InventoryCount() int { return len(r.itemOrder) }

// refreshMeters re-reads every meter's variable and clamps it into the
// meter's range. A value that cannot coerce shows the minimum.
func (r *Runtime) refreshMeters() {
	for name, m := range r.meters {
		n, ok := r.vars[name].AsNumber()
		if !ok {
			n = m.Min
		}
		if n < m.Min {
			n = m.Min
		}
		if n > m.Max {
			n = m.Max
		}
		m.Value = n
	}
}

// Meters returns the visible meters in declaration order.
func (r *Runtime) Meters() []*MeterState {
	out := make([]*MeterState, 0, len(r.meterOrder))
	for _, name := range r.meterOrder {
		if m, ok := r.meters[name]; ok {
			out = append(out, m)
		}
	}
	return out
}

// putHudButton replaces a same-named button in place or appends.
func (r *Runtime) putHudButton(b HudButton) {
	if b.Icon != "" {
		r.assets.PreloadImage(b.Icon, "sprites")
	}
	for i := range r.hudButtons {
		if r.hudButtons[i].Name == b.Name {
			r.hudButtons[i] = b
			return
		}
	}
	r.hudButtons = append(r.hudButtons, b)
}

func (r *Runtime) removeHudButton(name string) {
	if name == "" {
		r.hudButtons = nil
		return
	}
	for i := range r.hudButtons {
		if r.hudButtons[i].Name == name {
			r.hudButtons = append(r.hudButtons[:i], r.hudButtons[i+1:]...)
			return
		}
	}
}

// HudButtons returns the hud buttons in insertion order.
func (r *Runtime) HudButtons() []HudButton { return r.hudButtons }

// ActiveChoice returns the open choice prompt, or nil.
func (r *Runtime) ActiveChoice() *ChoiceState { return r.choice }

// ActiveInput returns the open text-entry prompt, or nil.
func (r *Runtime) ActiveInput() *InputState { return r.input }

// Phone returns the phone overlay, or nil when closed.
func (r *Runtime) Phone() *PhoneState { return r.phone }

// MapOverlay returns the map overlay state.
func (r *Runtime) MapOverlay() MapState { return r.mapState }

// Notification returns the active toast, or nil.
func (r *Runtime) Notification() *Notification { return r.notifyState }

// ActiveBlend returns the running transition effect, or nil.
func (r *Runtime) ActiveBlend() *BlendEffect { return r.blendState }

// Loading returns the loading overlay state.
func (r *Runtime) Loading() LoadingOverlay { return r.loading }

// Music returns the recorded background music, or nil.
func (r *Runtime) Music() *MusicState { return r.music }
