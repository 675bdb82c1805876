package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/m96-chan/inkpick/internal/consts"
)

//go:embed config.toml
var defaultConfig []byte

// Renderer names accepted by the renderer key.
const (
	RendererUnicode = "unicode"
	RendererTwemoji = "twemoji"
)

// Catalog source names accepted by catalog.source.
const (
	SourceEmojiAPI = "emoji_api"
	SourceOffline  = "offline"
)

// maxEntriesCeiling bounds catalog.max_entries; categories never hold more.
const maxEntriesCeiling = 50

// Config holds the application configuration.
type Config struct {
	Mouse             bool     `toml:"mouse"`
	Trigger           string   `toml:"trigger"`
	Renderer          string   `toml:"renderer"`
	TwemojiBaseURL    string   `toml:"twemoji_base_url"`
	FallbackGlyph     string   `toml:"fallback_glyph"`
	AutocompleteLimit int      `toml:"autocomplete_limit"`
	PickerColumns     int      `toml:"picker_columns"`
	Names             []string `toml:"names"`
	NamesFile         string   `toml:"names_file"`

	Catalog CatalogConfig `toml:"catalog"`
	Slack   SlackConfig   `toml:"slack"`

	Keybinds Keybinds `toml:"keybinds"`
	Theme    Theme    `toml:"theme"`
}

// CatalogConfig controls where and how the emoji catalog is fetched.
type CatalogConfig struct {
	Source            string        `toml:"source"`
	BaseURL           string        `toml:"base_url"`
	MaxEntries        int           `toml:"max_entries"`
	Parallelism       int           `toml:"parallelism"`
	RequestsPerSecond int           `toml:"requests_per_second"`
	Timeout           time.Duration `toml:"timeout"`
}

// SlackConfig controls loading workspace members as mention candidates.
type SlackConfig struct {
	Enabled bool `toml:"enabled"`
}

// TriggerRune returns the mention trigger as a rune. Load guarantees the
// trigger is exactly one rune.
func (c *Config) TriggerRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Trigger)
	return r
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, consts.Name, "config.toml")
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	cfg.Theme = BuiltinTheme(cfg.Theme.Preset)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Load reads the config from the given path. If the file does not exist,
// it writes the default config and loads that. Config loading is two-phase:
// embedded defaults are applied first, then the user file overlays on top.
func Load(path string) (*Config, error) {
	// Phase 1: unmarshal embedded defaults.
	var cfg Config
	if err := toml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}

	// Write default config if file does not exist.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, defaultConfig, 0o600); err != nil {
			return nil, err
		}
	}

	// Phase 2: overlay user file on top of defaults.
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// A preset replaces the whole theme; decode the file again so explicit
	// theme overrides still win over the preset.
	if cfg.Theme.Preset != "" {
		cfg.Theme = BuiltinTheme(cfg.Theme.Preset)
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// applyDefaults resolves computed defaults that can't be expressed in TOML.
func applyDefaults(cfg *Config) {
	if cfg.Trigger == "" {
		cfg.Trigger = "@"
	}
	if cfg.Renderer == "" {
		cfg.Renderer = RendererUnicode
	}
	if cfg.FallbackGlyph == "" {
		cfg.FallbackGlyph = "�"
	}
	if cfg.Catalog.Source == "" {
		cfg.Catalog.Source = SourceEmojiAPI
	}
	if cfg.Catalog.MaxEntries == 0 {
		cfg.Catalog.MaxEntries = maxEntriesCeiling
	}
	if cfg.Catalog.Parallelism == 0 {
		cfg.Catalog.Parallelism = 1
	}

	// Names file paths may start with ~.
	if len(cfg.NamesFile) > 1 && cfg.NamesFile[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.NamesFile = filepath.Join(home, cfg.NamesFile[2:])
		}
	}
}

// validate checks that config values are within acceptable ranges.
func validate(cfg *Config) error {
	if utf8.RuneCountInString(cfg.Trigger) != 1 {
		return fmt.Errorf("trigger must be a single character, got %q", cfg.Trigger)
	}
	if r := cfg.TriggerRune(); unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
		return fmt.Errorf("trigger must not be a letter, digit or space, got %q", cfg.Trigger)
	}
	switch cfg.Renderer {
	case RendererUnicode, RendererTwemoji:
	default:
		return fmt.Errorf("renderer must be %q or %q, got %q", RendererUnicode, RendererTwemoji, cfg.Renderer)
	}
	switch cfg.Catalog.Source {
	case SourceEmojiAPI, SourceOffline:
	default:
		return fmt.Errorf("catalog.source must be %q or %q, got %q", SourceEmojiAPI, SourceOffline, cfg.Catalog.Source)
	}
	if cfg.AutocompleteLimit < 0 {
		return fmt.Errorf("autocomplete_limit must be >= 0, got %d", cfg.AutocompleteLimit)
	}
	if cfg.PickerColumns < 1 || cfg.PickerColumns > 20 {
		return fmt.Errorf("picker_columns must be between 1 and 20, got %d", cfg.PickerColumns)
	}
	if cfg.Catalog.MaxEntries < 1 || cfg.Catalog.MaxEntries > maxEntriesCeiling {
		return fmt.Errorf("catalog.max_entries must be between 1 and %d, got %d", maxEntriesCeiling, cfg.Catalog.MaxEntries)
	}
	if cfg.Catalog.Parallelism < 1 {
		return fmt.Errorf("catalog.parallelism must be >= 1, got %d", cfg.Catalog.Parallelism)
	}
	if cfg.Catalog.RequestsPerSecond < 0 {
		return fmt.Errorf("catalog.requests_per_second must be >= 0, got %d", cfg.Catalog.RequestsPerSecond)
	}
	if cfg.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must be >= 0, got %s", cfg.Catalog.Timeout)
	}
	return nil
}
