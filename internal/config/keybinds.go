package config

// Keybinds holds all keybinding configuration. Values are plain strings
// matching the tcell.EventKey.Name() format (e.g. "Rune[j]", "Ctrl+W", "Enter").
type Keybinds struct {
	Quit string `toml:"quit"`

	Composer ComposerKeybinds `toml:"composer"`
	Picker   PickerKeybinds   `toml:"picker"`
}

// ComposerKeybinds holds keybindings for the composer input area.
type ComposerKeybinds struct {
	Send          string `toml:"send"`
	Newline       string `toml:"newline"`
	TabComplete   string `toml:"tab_complete"`
	OpenPicker    string `toml:"open_picker"`
	InsertTrigger string `toml:"insert_trigger"`
	ReloadCatalog string `toml:"reload_catalog"`
	Cancel        string `toml:"cancel"`
}

// PickerKeybinds holds keybindings for the emoji picker popup.
type PickerKeybinds struct {
	Close        string `toml:"close"`
	Up           string `toml:"up"`
	Down         string `toml:"down"`
	PrevCategory string `toml:"prev_category"`
	NextCategory string `toml:"next_category"`
	Select       string `toml:"select"`
}
