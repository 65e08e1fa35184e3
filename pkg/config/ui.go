package config

// UiConfig tunes the dialogue box, menus and the loading overlay. All
// fields are optional in project.json; absent ones keep these defaults.
type UiConfig struct {
	TextSpeed      float64 `json:"text_speed"`
	BoxOpacity     float64 `json:"box_opacity"`
	FontSize       int     `json:"font_size"`
	NameFontSize   int     `json:"name_font_size"`
	ChoiceFontSize int     `json:"choice_font_size"`
	NotifyFontSize int     `json:"notify_font_size"`
	ShowPerf       bool    `json:"show_perf"`

	TitleMenuEnabled bool   `json:"title_menu_enabled"`
	TitleMenuFile    string `json:"title_menu_file"`
	PauseMenuEnabled bool   `json:"pause_menu_enabled"`
	PauseMenuFile    string `json:"pause_menu_file"`
	PauseMenuSlots   int    `json:"pause_menu_slots"`
	PauseMenuColumns int    `json:"pause_menu_columns"`

	CallAutoLoading        bool   `json:"call_auto_loading"`
	CallLoadingText        string `json:"call_loading_text"`
	CallLoadingThresholdMS int    `json:"call_loading_threshold_ms"`
	CallLoadingMinShowMS   int    `json:"call_loading_min_show_ms"`
}

// DefaultUiConfig returns the built-in UI defaults.
func DefaultUiConfig() UiConfig {
	return UiConfig{
		TextSpeed:      40,
		BoxOpacity:     0.72,
		FontSize:       30,
		NameFontSize:   26,
		ChoiceFontSize: 28,
		NotifyFontSize: 26,

		TitleMenuFile:    "title_menu.json",
		PauseMenuEnabled: true,
		PauseMenuFile:    "pause_menu.json",
		PauseMenuSlots:   9,
		PauseMenuColumns: 3,

		CallAutoLoading:        true,
		CallLoadingText:        "Loading...",
		CallLoadingThresholdMS: 120,
		CallLoadingMinShowMS:   140,
	}
}
