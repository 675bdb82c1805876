package app

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/m96-chan/inkpick/internal/config"
)

// ErrUnknownOption is returned for option names missing from the registry.
var ErrUnknownOption = errors.New("unknown option")

// RuntimeOption is a config value that can be changed while the composer
// runs, through /set or the --set flag.
type RuntimeOption struct {
	Name string
	// Values lists the accepted values of an enumerated option, in cycle
	// order. It is empty for numeric options.
	Values []string
	Get    func(*config.Config) string
	// Set receives a normalized value and leaves cfg unchanged on error.
	Set func(*config.Config, string) error
}

var onOff = []string{"on", "off"}

// runtimeOptions is the registry of runtime-settable options.
var runtimeOptions = []RuntimeOption{
	{
		Name:   "renderer",
		Values: []string{config.RendererUnicode, config.RendererTwemoji},
		Get:    func(c *config.Config) string { return c.Renderer },
		Set:    func(c *config.Config, v string) error { c.Renderer = v; return nil },
	},
	{
		Name:   "source",
		Values: []string{config.SourceEmojiAPI, config.SourceOffline},
		Get:    func(c *config.Config) string { return c.Catalog.Source },
		Set:    func(c *config.Config, v string) error { c.Catalog.Source = v; return nil },
	},
	{
		Name: "autocomplete_limit",
		Get:  func(c *config.Config) string { return strconv.Itoa(c.AutocompleteLimit) },
		Set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return fmt.Errorf("autocomplete_limit must be a number >= 0, got %q", v)
			}
			c.AutocompleteLimit = n
			return nil
		},
	},
	{
		Name:   "mouse",
		Values: onOff,
		Get:    func(c *config.Config) string { return boolString(c.Mouse) },
		Set:    func(c *config.Config, v string) error { c.Mouse = v == "on"; return nil },
	},
	{
		Name:   "slack",
		Values: onOff,
		Get:    func(c *config.Config) string { return boolString(c.Slack.Enabled) },
		Set:    func(c *config.Config, v string) error { c.Slack.Enabled = v == "on"; return nil },
	},
}

// SetCommand is a parsed /set argument.
//
//	"name=value", "name value"  assign
//	"name?"                     query
//	"name"                      cycle to the next value
type SetCommand struct {
	Option string
	Value  string
	Query  bool
}

func findOption(name string) (*RuntimeOption, error) {
	for i := range runtimeOptions {
		if runtimeOptions[i].Name == name {
			return &runtimeOptions[i], nil
		}
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownOption, name, strings.Join(RuntimeOptionNames(), ", "))
}

func boolString(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// ParseBoolValue parses on/off, true/false or yes/no, case-insensitively.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid value %q: use on/off, true/false, or yes/no", s)
	}
}

// ParseSetCommand splits the arguments of /set. Values are checked when the
// command is applied, against the option's type.
func ParseSetCommand(args string) (SetCommand, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return SetCommand{}, errors.New("no option specified")
	}

	if name, ok := strings.CutSuffix(args, "?"); ok {
		return SetCommand{Option: strings.TrimSpace(name), Query: true}, nil
	}

	if name, value, ok := strings.Cut(args, "="); ok {
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" || value == "" {
			return SetCommand{}, fmt.Errorf("invalid syntax: %q", args)
		}
		return SetCommand{Option: name, Value: value}, nil
	}

	switch parts := strings.Fields(args); len(parts) {
	case 1:
		return SetCommand{Option: parts[0]}, nil
	case 2:
		return SetCommand{Option: parts[0], Value: parts[1]}, nil
	default:
		return SetCommand{}, fmt.Errorf("invalid syntax: %q", args)
	}
}

// normalize maps a user-supplied value onto one of opt's accepted values.
func (opt *RuntimeOption) normalize(value string) (string, error) {
	if len(opt.Values) == 0 {
		return value, nil
	}
	if slices.Equal(opt.Values, onOff) {
		b, err := ParseBoolValue(value)
		if err != nil {
			return "", err
		}
		return boolString(b), nil
	}
	for _, v := range opt.Values {
		if strings.EqualFold(v, value) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%s must be one of %s, got %q", opt.Name, strings.Join(opt.Values, ", "), value)
}

// next returns the value after current in cycle order.
func (opt *RuntimeOption) next(current string) (string, error) {
	if len(opt.Values) == 0 {
		return "", fmt.Errorf("%s needs a value", opt.Name)
	}
	i := slices.Index(opt.Values, current)
	return opt.Values[(i+1)%len(opt.Values)], nil
}

// ApplySetCommand runs c against cfg and returns a feedback message of the
// form "name = value". Queries leave cfg unchanged.
func ApplySetCommand(cfg *config.Config, c SetCommand) (string, error) {
	opt, err := findOption(c.Option)
	if err != nil {
		return "", err
	}

	if !c.Query {
		var value string
		if c.Value == "" {
			value, err = opt.next(opt.Get(cfg))
		} else {
			value, err = opt.normalize(c.Value)
		}
		if err != nil {
			return "", err
		}
		if err := opt.Set(cfg, value); err != nil {
			return "", err
		}
	}

	return fmt.Sprintf("%s = %s", opt.Name, opt.Get(cfg)), nil
}

// ListRuntimeOptions formats every option with its current value on one
// line, for the status bar.
func ListRuntimeOptions(cfg *config.Config) string {
	var b strings.Builder
	b.WriteString("options:")
	for _, opt := range runtimeOptions {
		fmt.Fprintf(&b, "  %s = %s", opt.Name, opt.Get(cfg))
	}
	return b.String()
}

// RuntimeOptionNames returns the option names in registry order.
func RuntimeOptionNames() []string {
	names := make([]string, len(runtimeOptions))
	for i, opt := range runtimeOptions {
		names[i] = opt.Name
	}
	return names
}
