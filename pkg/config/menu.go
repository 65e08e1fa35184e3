package config

import (
	"os"

	"github.com/tidwall/gjson"
)

// MenuButton is one entry in a title or pause menu.
type MenuButton struct {
	Label  string
	Action string
}

// MenuBackground describes a menu backdrop, image path or flat color,
// dimmed by OverlayAlpha.
type MenuBackground struct {
	Kind         string
	Value        string
	OverlayAlpha float64
}

// TitleMenu is the decoded title menu definition. An empty Title falls
// back to the project name at render time.
type TitleMenu struct {
	Title        string
	Subtitle     string
	Background   MenuBackground
	MenuX        float64
	MenuY        float64
	MenuWidth    float64
	ButtonHeight float64
	ButtonGap    float64
	Buttons      []MenuButton
}

// PauseMenu is the decoded pause menu definition.
type PauseMenu struct {
	Title      string
	Subtitle   string
	PanelWidth float64
	Buttons    []MenuButton
}

// DefaultTitleMenu returns the built-in title menu.
func DefaultTitleMenu() TitleMenu {
	return TitleMenu{
		Background:   MenuBackground{Kind: "color", Value: "#101020", OverlayAlpha: 0.35},
		MenuX:        480,
		MenuY:        340,
		MenuWidth:    320,
		ButtonHeight: 56,
		ButtonGap:    14,
		Buttons: []MenuButton{
			{Label: "New Game", Action: "new_game"},
			{Label: "Continue", Action: "continue"},
			{Label: "Load", Action: "open_load"},
			{Label: "Settings", Action: "open_prefs"},
			{Label: "Quit", Action: "quit"},
		},
	}
}

// DefaultPauseMenu returns the built-in pause menu.
func DefaultPauseMenu() PauseMenu {
	return PauseMenu{
		Title:      "Paused",
		PanelWidth: 420,
		Buttons: []MenuButton{
			{Label: "Resume", Action: "resume"},
			{Label: "Quick Save", Action: "quick_save"},
			{Label: "Quick Load", Action: "quick_load"},
			{Label: "Save", Action: "open_save"},
			{Label: "Load", Action: "open_load"},
			{Label: "Settings", Action: "open_prefs"},
			{Label: "Quit", Action: "quit"},
		},
	}
}

// LoadTitleMenu reads a title menu file, keeping defaults for anything the
// file omits. A missing or unreadable file yields the defaults.
func LoadTitleMenu(path string) TitleMenu {
	menu := DefaultTitleMenu()
	data, err := os.ReadFile(path)
	if err != nil {
		return menu
	}

	if v := gjson.GetBytes(data, "title"); v.Exists() {
		menu.Title = v.String()
	}
	if v := gjson.GetBytes(data, "subtitle"); v.Exists() {
		menu.Subtitle = v.String()
	}
	if v := gjson.GetBytes(data, "background.kind"); v.Exists() {
		menu.Background.Kind = v.String()
	}
	if v := gjson.GetBytes(data, "background.value"); v.Exists() {
		menu.Background.Value = v.String()
	}
	if v := gjson.GetBytes(data, "background.overlay_alpha"); v.Exists() {
		menu.Background.OverlayAlpha = v.Float()
	}
	if v := gjson.GetBytes(data, "layout.menu_x"); v.Exists() {
		menu.MenuX = v.Float()
	}
	if v := gjson.GetBytes(data, "layout.menu_y"); v.Exists() {
		menu.MenuY = v.Float()
	}
	if v := gjson.GetBytes(data, "layout.menu_width"); v.Exists() {
		menu.MenuWidth = v.Float()
	}
	if v := gjson.GetBytes(data, "layout.button_height"); v.Exists() {
		menu.ButtonHeight = v.Float()
	}
	if v := gjson.GetBytes(data, "layout.button_gap"); v.Exists() {
		menu.ButtonGap = v.Float()
	}
	if buttons := decodeButtons(data); buttons != nil {
		menu.Buttons = buttons
	}
	return menu
}

// LoadPauseMenu reads a pause menu file, keeping defaults for anything the
// file omits. A missing or unreadable file yields the defaults.
func LoadPauseMenu(path string) PauseMenu {
	menu := DefaultPauseMenu()
	data, err := os.ReadFile(path)
	if err != nil {
		return menu
	}

	if v := gjson.GetBytes(data, "title"); v.Exists() {
		menu.Title = v.String()
	}
	if v := gjson.GetBytes(data, "subtitle"); v.Exists() {
		menu.Subtitle = v.String()
	}
	if v := gjson.GetBytes(data, "panel_width"); v.Exists() {
		menu.PanelWidth = v.Float()
	}
	if buttons := decodeButtons(data); buttons != nil {
		menu.Buttons = buttons
	}
	return menu
}

func decodeButtons(data []byte) []MenuButton {
	v := gjson.GetBytes(data, "buttons")
	if !v.Exists() || !v.IsArray() {
		return nil
	}
	var buttons []MenuButton
	for _, b := range v.Array() {
		buttons = append(buttons, MenuButton{
			Label:  b.Get("label").String(),
			Action: b.Get("action").String(),
		})
	}
	return buttons
}
