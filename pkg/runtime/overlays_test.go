package runtime

import (
	"testing"
)

func TestChoiceKeyboardSelection(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		ask "Stay or go?" ["Stay" -> stay; "Go" -> leave;];
		label stay:
		set picked "stay";
		go done;
		label leave:
		set picked "leave";
		label done:
	`)
	mustStep(t, rt, 0)
	if rt.State() != StateWaitingChoice {
		t.Fatalf("state = %v", rt.State())
	}
	c := rt.ActiveChoice()
	if c.Prompt != "Stay or go?" || len(c.Options) != 2 {
		t.Fatalf("choice = %#v", c)
	}

	mustStep(t, rt, 16, KeyEvent(KeyDown))
	if rt.ActiveChoice().Selected != 1 {
		t.Fatalf("selected = %d", rt.ActiveChoice().Selected)
	}
	mustStep(t, rt, 32, KeyEvent(KeyEnter))
	if v, _ := rt.VarValue("picked"); v.Str != "leave" {
		t.Errorf("picked = %q, want leave", v.Str)
	}
	if rt.ActiveChoice() != nil {
		t.Error("choice should be gone after resolution")
	}
}

func TestChoiceSelectionWrapsBothWays(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		ask "Pick" ["A" -> a; "B" -> b; "C" -> c;];
		label a:
		label b:
		label c:
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, KeyEvent(KeyUp))
	if got := rt.ActiveChoice().Selected; got != 2 {
		t.Errorf("selected = %d, want wrap to the last option", got)
	}
	mustStep(t, rt, 32, KeyEvent(KeyDown))
	if got := rt.ActiveChoice().Selected; got != 0 {
		t.Errorf("selected = %d, want wrap back to the first", got)
	}
}

func TestChooseEventCommitsDirectly(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		ask "Pick" ["A" -> a; "B" -> b;];
		label a:
		set picked "a";
		go done;
		label b:
		set picked "b";
		label done:
	`)
	mustStep(t, rt, 0)
	// Out-of-range indices are ignored.
	mustStep(t, rt, 16, ChooseEvent(5))
	if rt.ActiveChoice() == nil {
		t.Fatal("out-of-range choose must not resolve")
	}
	mustStep(t, rt, 32, ChooseEvent(1))
	if v, _ := rt.VarValue("picked"); v.Str != "b" {
		t.Errorf("picked = %q, want b", v.Str)
	}
}

func TestChoiceTimeoutResolvesDefault(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		ask "Quick!" timeout 0.2 default 1 ["Dodge" -> dodge; "Freeze" -> freeze;];
		label dodge:
		set picked "dodge";
		go done;
		label freeze:
		set picked "freeze";
		label done:
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 100)
	if rt.ActiveChoice() == nil {
		t.Fatal("timed out too early")
	}
	mustStep(t, rt, 250)
	if v, _ := rt.VarValue("picked"); v.Str != "freeze" {
		t.Errorf("picked = %q, want the timeout default", v.Str)
	}
}

func TestChoiceTimeoutFreezesWhilePaused(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		ask "Quick!" timeout 0.2 default 0 ["A" -> a;];
		label a:
		set picked "a";
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 100)

	// Pause right before expiry; a long stretch passes without resolving.
	mustStep(t, rt, 116, KeyEvent(KeyEscape))
	mustStep(t, rt, 5000)
	if rt.ActiveChoice() == nil {
		t.Fatal("timeout ran down while the pause menu was open")
	}

	// Resume; the remaining ~100ms still has to elapse.
	mustStep(t, rt, 5016, KeyEvent(KeyEscape))
	mustStep(t, rt, 5050)
	if rt.ActiveChoice() == nil {
		t.Fatal("resolved before the remainder elapsed")
	}
	mustStep(t, rt, 5200)
	if _, ok := rt.VarValue("picked"); !ok {
		t.Error("timeout should resolve after the paused remainder")
	}
}

func TestInputTypingAndCommit(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		input hero_name "Your name?" [default "Yuki"];
		narrator "hi ${hero_name}";
	`)
	mustStep(t, rt, 0)
	if rt.State() != StateWaitingInput {
		t.Fatalf("state = %v", rt.State())
	}

	mustStep(t, rt, 16, RuneEvent('A'), RuneEvent('y'), RuneEvent('v'))
	mustStep(t, rt, 32, KeyEvent(KeyBackspace))
	mustStep(t, rt, 48, RuneEvent('u'), KeyEvent(KeyEnter))

	if v, _ := rt.VarValue("hero_name"); v.Str != "Ayu" {
		t.Fatalf("hero_name = %q, want Ayu", v.Str)
	}
	if rt.Dialogue() == nil || rt.Dialogue().Text != "hi Ayu" {
		t.Errorf("dialogue = %#v, want the committed name interpolated", rt.Dialogue())
	}
}

func TestInputEmptyCommitFallsBackToDefault(t *testing.T) {
	rt, _ := newTestRuntime(t, `input hero_name "Your name?" [default "Yuki"];`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, KeyEvent(KeyEnter))
	if v, _ := rt.VarValue("hero_name"); v.Str != "Yuki" {
		t.Errorf("hero_name = %q, want the default", v.Str)
	}
}

func TestInputEscapeCancelsToDefault(t *testing.T) {
	rt, _ := newTestRuntime(t, `input hero_name "Your name?" [default "Yuki"];`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, RuneEvent('Z'), KeyEvent(KeyEscape))
	if v, _ := rt.VarValue("hero_name"); v.Str != "Yuki" {
		t.Errorf("hero_name = %q, want escape to discard the buffer", v.Str)
	}
	if rt.ActiveInput() != nil {
		t.Error("input overlay should be closed")
	}
}

func TestMapShowConsumesFollowingPois(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		map show "maps/town.png";
		map poi "School" 320 180 -> school_gate;
		map poi "Cafe" 500 400 -> cafe_door;
		label school_gate:
		set at "school";
		go end;
		label cafe_door:
		set at "cafe";
		label end:
	`)
	mustStep(t, rt, 0)

	ms := rt.MapOverlay()
	if !ms.Active || ms.Image != "maps/town.png" {
		t.Fatalf("map = %#v", ms)
	}
	if len(ms.Points) != 2 || ms.Points[0].Label != "School" || ms.Points[1].Label != "Cafe" {
		t.Fatalf("points = %#v", ms.Points)
	}
	if rt.State() != StateMapOverlay {
		t.Errorf("state = %v", rt.State())
	}
}

func TestMapPointClickJumpsAndResumesSameFrame(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		map show "maps/town.png";
		map poi "School" 320 180 -> school_gate;
		label school_gate:
		set at "school";
	`)
	mustStep(t, rt, 0)
	// Click within the marker radius.
	mustStep(t, rt, 16, ClickEvent(330, 190))

	if rt.MapOverlay().Active {
		t.Error("map should close on a point hit")
	}
	if v, _ := rt.VarValue("at"); v.Str != "school" {
		t.Errorf("at = %q, want the destination reached this frame", v.Str)
	}
}

func TestMapClickOutsideMarkersDoesNothing(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		map show "maps/town.png";
		map poi "School" 320 180 -> school_gate;
		label school_gate:
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, ClickEvent(600, 600))
	if !rt.MapOverlay().Active {
		t.Error("a miss must leave the map open")
	}
}

func TestMapEscapeClosesWithoutJump(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		map show "maps/town.png";
		map poi "School" 320 180 -> school_gate;
		set after true;
		go end;
		label school_gate:
		set at "school";
		label end:
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, KeyEvent(KeyEscape))
	if rt.MapOverlay().Active {
		t.Fatal("escape should close the map")
	}
	if _, ok := rt.VarValue("after"); !ok {
		t.Error("execution should continue past the map block")
	}
	if _, ok := rt.VarValue("at"); ok {
		t.Error("no point was chosen, no jump expected")
	}
}

func TestMapFeatureOffSkipsBlock(t *testing.T) {
	proj := testProject(t)
	delete(proj.Features, "maps")
	rt, _ := newTestRuntimeWith(t, `
		map show "maps/town.png";
		map poi "School" 320 180 -> school_gate;
		set after true;
		label school_gate:
	`, proj)
	mustStep(t, rt, 0)
	if rt.MapOverlay().Active {
		t.Error("map must not open with the feature off")
	}
	if _, ok := rt.VarValue("after"); !ok {
		t.Error("the whole map block should be skipped")
	}
}

func TestStrayPoiIsSkipped(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		map poi "School" 320 180 -> school_gate;
		set after true;
		label school_gate:
	`)
	mustStep(t, rt, 0)
	if _, ok := rt.VarValue("after"); !ok {
		t.Error("a poi without a preceding show must be inert")
	}
}

func TestPhoneConversationRevealsMessageByMessage(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		phone open "Mika";
		phone msg left "where are you?";
		phone msg right "omw";
		phone close;
		set done true;
	`)
	mustStep(t, rt, 0)

	ph := rt.Phone()
	if ph == nil || ph.Contact != "Mika" {
		t.Fatalf("phone = %#v", ph)
	}
	if len(ph.Messages) != 1 || ph.Messages[0].Text != "where are you?" || ph.Messages[0].Side != "left" {
		t.Fatalf("messages = %#v, want only the first revealed", ph.Messages)
	}
	if !ph.WaitingAdvance {
		t.Fatal("conversation should be waiting for an advance")
	}

	mustStep(t, rt, 16, ClickEvent(0, 0))
	if got := len(rt.Phone().Messages); got != 2 {
		t.Fatalf("messages after advance = %d, want 2", got)
	}

	mustStep(t, rt, 32, KeyEvent(KeySpace))
	if rt.Phone() != nil {
		t.Error("close should clear the overlay")
	}
	if _, ok := rt.VarValue("done"); !ok {
		t.Error("script should continue past the conversation")
	}
}

func TestPhoneMsgWithoutOpenIsSkipped(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		phone msg left "hello?";
		set done true;
	`)
	mustStep(t, rt, 0)
	if rt.Phone() != nil {
		t.Error("no overlay should appear")
	}
	if _, ok := rt.VarValue("done"); !ok {
		t.Error("stray msg must not block the script")
	}
}

func TestInventoryAddRemoveAndStacking(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		item add coin "Coin" "Money.";
		item add coin "Coin" "Money." amount 4;
		item add key "Brass Key" "Opens the cellar." icon "items/key.png" amount 2;
		item remove key;
		item remove key;
		narrator "x";
	`)
	mustStep(t, rt, 0)

	if rt.InventoryCount() != 1 {
		t.Fatalf("stacks = %d, want the key gone and the coins stacked", rt.InventoryCount())
	}
	page := rt.InventoryPageItems()
	if len(page) != 1 || page[0].ID != "coin" || page[0].Item.Count != 5 {
		t.Errorf("page = %#v, want 5 coins", page)
	}
}

func TestInventoryIconPreloads(t *testing.T) {
	rt, assets := newTestRuntime(t, `
		item add key "Brass Key" "Opens the cellar." icon "items/key.png";
		narrator "x";
	`)
	mustStep(t, rt, 0)
	found := false
	for _, p := range assets.preloadImages {
		if p == "items/key.png" {
			found = true
		}
	}
	if !found {
		t.Errorf("preloads = %v, want the icon warmed", assets.preloadImages)
	}
}

func TestInventoryPaging(t *testing.T) {
	src := ""
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		src += "item add " + id + " \"Item " + id + "\" \"desc\";\n"
	}
	src += "narrator \"x\";\n"
	rt, _ := newTestRuntime(t, src)
	mustStep(t, rt, 0)

	if rt.InventoryCount() != 12 {
		t.Fatalf("stacks = %d", rt.InventoryCount())
	}
	if got := len(rt.InventoryPageItems()); got != 10 {
		t.Fatalf("page 0 size = %d, want 10", got)
	}

	mustStep(t, rt, 16, KeyEvent(KeyInventory))
	if !rt.InventoryOpen() {
		t.Fatal("inventory should open on its key")
	}
	mustStep(t, rt, 32, KeyEvent(KeyRight))
	if rt.InventoryPage() != 1 {
		t.Fatalf("page = %d, want 1", rt.InventoryPage())
	}
	if got := len(rt.InventoryPageItems()); got != 2 {
		t.Errorf("page 1 size = %d, want the remainder", got)
	}
	mustStep(t, rt, 48, KeyEvent(KeyRight))
	if rt.InventoryPage() != 1 {
		t.Errorf("page = %d, want clamped at the last page", rt.InventoryPage())
	}
	mustStep(t, rt, 64, KeyEvent(KeyEscape))
	if rt.InventoryOpen() {
		t.Error("escape should close the inventory")
	}
}

func TestInventoryRequiresFeatureFlag(t *testing.T) {
	proj := testProject(t)
	delete(proj.Features, "items")
	rt, _ := newTestRuntimeWith(t, `narrator "x";`, proj)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, KeyEvent(KeyInventory))
	if rt.InventoryOpen() {
		t.Error("inventory must stay closed with the feature off")
	}
}

func TestMeterTracksAndClampsVariable(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set trust 50;
		meter show trust "Trust" 0 100 color #44cc88;
		set trust 150;
		meter update trust;
		narrator "x";
	`)
	mustStep(t, rt, 0)

	ms := rt.Meters()
	if len(ms) != 1 {
		t.Fatalf("meters = %d", len(ms))
	}
	m := ms[0]
	if m.Label != "Trust" || m.Min != 0 || m.Max != 100 || m.Color != "#44cc88" {
		t.Errorf("meter = %#v", m)
	}
	if m.Value != 100 {
		t.Errorf("value = %v, want clamped to max", m.Value)
	}
}

func TestMeterNonNumericShowsMinimum(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		set trust "friendly";
		meter show trust "Trust" 10 100;
		narrator "x";
	`)
	mustStep(t, rt, 0)
	if got := rt.Meters()[0].Value; got != 10 {
		t.Errorf("value = %v, want the minimum", got)
	}
}

func TestMeterHideAndClear(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		meter show trust "Trust" 0 100;
		meter show fear "Fear" 0 100;
		meter hide trust;
		narrator "x";
	`)
	mustStep(t, rt, 0)
	ms := rt.Meters()
	if len(ms) != 1 || ms[0].Var != "fear" {
		t.Errorf("meters = %#v, want only fear", ms)
	}
}

func TestHudAddReplaceAndRemove(t *testing.T) {
	rt, assets := newTestRuntime(t, `
		hud add bag icon "ui/bag.png" 1200 10 48 48 -> inventory_toggle;
		hud add menu text "Menu" 10 10 120 40 -> open_menu;
		hud add menu text "Menu!" 10 10 120 40 -> open_menu2;
		hud remove bag;
		narrator "x";
		label open_menu:
		label open_menu2:
	`)
	mustStep(t, rt, 0)

	hb := rt.HudButtons()
	if len(hb) != 1 || hb[0].Name != "menu" || hb[0].Text != "Menu!" || hb[0].Target != "open_menu2" {
		t.Errorf("hud = %#v, want the replaced menu button only", hb)
	}
	found := false
	for _, p := range assets.preloadImages {
		if p == "ui/bag.png" {
			found = true
		}
	}
	if !found {
		t.Error("icon buttons should preload their image")
	}
}

func TestHudClickTogglesInventoryViaReservedTarget(t *testing.T) {
	rt, _ := newTestRuntime(t, `
		hud add bag icon "ui/bag.png" 100 100 48 48 -> inventory_toggle;
		wait 60;
	`)
	mustStep(t, rt, 0)
	mustStep(t, rt, 16, ClickEvent(120, 120))
	if !rt.InventoryOpen() {
		t.Error("the reserved target should open the inventory")
	}
	if rt.State() != StateInventoryOverlay {
		t.Errorf("state = %v", rt.State())
	}
}
