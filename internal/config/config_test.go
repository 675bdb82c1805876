package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
)

func TestDefaultPath(t *testing.T) {
	p := DefaultPath()
	if p == "" {
		t.Fatal("DefaultPath returned empty string")
	}
	if filepath.Base(p) != "config.toml" {
		t.Errorf("DefaultPath should end with config.toml, got %s", p)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// File should have been created.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file was not created: %v", err)
	}

	if cfg.Trigger != "@" {
		t.Errorf("expected trigger=@, got %q", cfg.Trigger)
	}
	if cfg.TriggerRune() != '@' {
		t.Errorf("expected trigger rune @, got %q", cfg.TriggerRune())
	}
	if cfg.Catalog.MaxEntries != 50 {
		t.Errorf("expected catalog.max_entries=50, got %d", cfg.Catalog.MaxEntries)
	}
	if cfg.Catalog.Timeout != 20*time.Second {
		t.Errorf("expected catalog.timeout=20s, got %s", cfg.Catalog.Timeout)
	}
	if cfg.Keybinds.Quit != "Ctrl+C" {
		t.Errorf("expected keybinds.quit=Ctrl+C, got %s", cfg.Keybinds.Quit)
	}
	if cfg.Keybinds.Composer.OpenPicker != "Ctrl+E" {
		t.Errorf("expected keybinds.composer.open_picker=Ctrl+E, got %s", cfg.Keybinds.Composer.OpenPicker)
	}
}

func TestLoadPartialOverridePreservesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	partial := []byte("trigger = \"+\"\n[catalog]\nsource = \"offline\"\n")
	if err := os.WriteFile(path, partial, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Trigger != "+" {
		t.Errorf("expected trigger=+, got %q", cfg.Trigger)
	}
	if cfg.Catalog.Source != SourceOffline {
		t.Errorf("expected catalog.source=offline, got %q", cfg.Catalog.Source)
	}

	// Defaults should be preserved.
	if cfg.Catalog.Parallelism != 4 {
		t.Errorf("expected catalog.parallelism=4 from defaults, got %d", cfg.Catalog.Parallelism)
	}
	if cfg.Keybinds.Picker.NextCategory != "Right" {
		t.Errorf("expected keybinds.picker.next_category=Right, got %s", cfg.Keybinds.Picker.NextCategory)
	}
}

func TestValidationRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"trigger too long", "trigger = \"@@\"\n"},
		{"trigger alphanumeric", "trigger = \"a\"\n"},
		{"trigger space", "trigger = \" \"\n"},
		{"unknown renderer", "renderer = \"sixel\"\n"},
		{"unknown source", "[catalog]\nsource = \"ftp\"\n"},
		{"max_entries too high", "[catalog]\nmax_entries = 51\n"},
		{"max_entries negative", "[catalog]\nmax_entries = -1\n"},
		{"parallelism negative", "[catalog]\nparallelism = -2\n"},
		{"rps negative", "[catalog]\nrequests_per_second = -1\n"},
		{"autocomplete_limit negative", "autocomplete_limit = -1\n"},
		{"picker_columns zero", "picker_columns = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.toml")
			if err := os.WriteFile(path, []byte(tt.config), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestInvalidTOMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("not valid [[ toml"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid TOML, got nil")
	}
}

func TestNamesFileHomeExpansion(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("names_file = \"~/names.txt\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := filepath.Join(home, "names.txt")
	if cfg.NamesFile != want {
		t.Errorf("expected names_file=%s, got %s", want, cfg.NamesFile)
	}
}

func TestEmbeddedConfigIsValidTOML(t *testing.T) {
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		t.Fatalf("embedded config.toml is not valid TOML: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("embedded defaults should validate: %v", err)
	}
}

func TestPresetLoading(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := []byte("[theme]\npreset = \"monokai\"\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	monokai := BuiltinTheme("monokai")
	if cfg.Theme.Picker.ActiveHeader.Tag() != monokai.Picker.ActiveHeader.Tag() {
		t.Errorf("expected monokai header tag %q, got %q",
			monokai.Picker.ActiveHeader.Tag(), cfg.Theme.Picker.ActiveHeader.Tag())
	}
}

func TestPresetWithOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := []byte(`[theme]
preset = "monokai"

[theme.mentions.selected]
foreground = "red"
attributes = "bold"
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := cfg.Theme.Mentions.Selected.Tag(); got != "[#ff0000:-:b]" {
		t.Errorf("expected overridden tag [#ff0000:-:b], got %q", got)
	}

	// Rest of monokai should be preserved.
	monokai := BuiltinTheme("monokai")
	if cfg.Theme.Picker.Selected.Tag() != monokai.Picker.Selected.Tag() {
		t.Errorf("non-overridden field should keep monokai value, got %q vs %q",
			cfg.Theme.Picker.Selected.Tag(), monokai.Picker.Selected.Tag())
	}
}

func TestStringToAttrMask(t *testing.T) {
	if _, err := stringToAttrMask("bold|underline"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := stringToAttrMask("sparkly"); err == nil {
		t.Error("expected error for unknown attribute")
	}
}
