package config

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// StyleWrapper wraps tcell.Style and implements TOML unmarshalling.
// In TOML it is represented as a table with optional "foreground",
// "background", and "attributes" string fields.
type StyleWrapper struct {
	tcell.Style
}

// UnmarshalTOML implements the toml.Unmarshaler interface.
func (s *StyleWrapper) UnmarshalTOML(data any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("expected table for style, got %T", data)
	}

	style := tcell.StyleDefault

	if fg, ok := m["foreground"].(string); ok && fg != "" {
		style = style.Foreground(tcell.GetColor(fg))
	}
	if bg, ok := m["background"].(string); ok && bg != "" {
		style = style.Background(tcell.GetColor(bg))
	}
	if attrs, ok := m["attributes"].(string); ok && attrs != "" {
		mask, err := stringToAttrMask(attrs)
		if err != nil {
			return err
		}
		style = style.Attributes(mask)
	}

	s.Style = style
	return nil
}

// Tag returns the style as a tview color tag, e.g. "[red:-:b]".
func (s StyleWrapper) Tag() string {
	fg, bg, attrs := s.Style.Decompose()
	return fmt.Sprintf("[%s:%s:%s]", colorName(fg), colorName(bg), attrLetters(attrs))
}

func colorName(c tcell.Color) string {
	if c == tcell.ColorDefault {
		return "-"
	}
	return fmt.Sprintf("#%06x", c.Hex())
}

func attrLetters(mask tcell.AttrMask) string {
	var b strings.Builder
	for _, a := range []struct {
		mask   tcell.AttrMask
		letter byte
	}{
		{tcell.AttrBold, 'b'},
		{tcell.AttrItalic, 'i'},
		{tcell.AttrUnderline, 'u'},
		{tcell.AttrDim, 'd'},
		{tcell.AttrReverse, 'r'},
		{tcell.AttrBlink, 'l'},
		{tcell.AttrStrikeThrough, 's'},
	} {
		if mask&a.mask != 0 {
			b.WriteByte(a.letter)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

// stringToAttrMask parses a pipe-separated list of attribute names into
// a tcell.AttrMask. For example: "bold|underline".
func stringToAttrMask(s string) (tcell.AttrMask, error) {
	var mask tcell.AttrMask
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(strings.ToLower(part))
		switch part {
		case "bold":
			mask |= tcell.AttrBold
		case "italic":
			mask |= tcell.AttrItalic
		case "underline":
			mask |= tcell.AttrUnderline
		case "dim":
			mask |= tcell.AttrDim
		case "reverse":
			mask |= tcell.AttrReverse
		case "blink":
			mask |= tcell.AttrBlink
		case "strikethrough":
			mask |= tcell.AttrStrikeThrough
		case "none", "":
			// no-op
		default:
			return 0, fmt.Errorf("unknown style attribute: %q", part)
		}
	}
	return mask, nil
}

// Theme holds the complete theme configuration.
type Theme struct {
	Preset    string         `toml:"preset"`
	Border    BorderTheme    `toml:"border"`
	Title     TitleTheme     `toml:"title"`
	Input     InputTheme     `toml:"input"`
	Picker    PickerTheme    `toml:"picker"`
	Mentions  MentionsTheme  `toml:"mentions"`
	StatusBar StatusBarTheme `toml:"status_bar"`
}

// BorderTheme configures border styling.
type BorderTheme struct {
	Focused StyleWrapper `toml:"focused"`
	Normal  StyleWrapper `toml:"normal"`
}

// TitleTheme configures title bar styling.
type TitleTheme struct {
	Focused StyleWrapper `toml:"focused"`
	Normal  StyleWrapper `toml:"normal"`
}

// InputTheme configures the composer input styling.
type InputTheme struct {
	Text        StyleWrapper `toml:"text"`
	Placeholder StyleWrapper `toml:"placeholder"`
}

// PickerTheme configures the emoji picker styling.
type PickerTheme struct {
	Header       StyleWrapper `toml:"header"`
	ActiveHeader StyleWrapper `toml:"active_header"`
	Selected     StyleWrapper `toml:"selected"`
	SearchField  StyleWrapper `toml:"search_field"`
}

// MentionsTheme configures the mention dropdown styling.
type MentionsTheme struct {
	Item     StyleWrapper `toml:"item"`
	Selected StyleWrapper `toml:"selected"`
}

// StatusBarTheme configures the status bar styling.
type StatusBarTheme struct {
	Text       StyleWrapper `toml:"text"`
	Background StyleWrapper `toml:"background"`
}

// BuiltinTheme returns a fully populated Theme for the given preset name.
// Unknown names fall back to "default".
func BuiltinTheme(name string) Theme {
	switch name {
	case "monokai":
		return monokaiTheme()
	default:
		return defaultTheme()
	}
}

func defaultTheme() Theme {
	return Theme{
		Preset: "default",
		Border: BorderTheme{
			Focused: makeStyle("blue", "", ""),
			Normal:  makeStyle("gray", "", ""),
		},
		Title: TitleTheme{
			Focused: makeStyle("white", "", "b"),
			Normal:  makeStyle("gray", "", ""),
		},
		Input: InputTheme{
			Text:        makeStyle("white", "", ""),
			Placeholder: makeStyle("gray", "", ""),
		},
		Picker: PickerTheme{
			Header:       makeStyle("white", "", ""),
			ActiveHeader: makeStyle("yellow", "", "b"),
			Selected:     makeStyle("black", "blue", ""),
			SearchField:  makeStyle("white", "darkslategray", ""),
		},
		Mentions: MentionsTheme{
			Item:     makeStyle("white", "", ""),
			Selected: makeStyle("black", "yellow", ""),
		},
		StatusBar: StatusBarTheme{
			Text:       makeStyle("white", "", ""),
			Background: makeStyle("", "darkblue", ""),
		},
	}
}

func monokaiTheme() Theme {
	return Theme{
		Preset: "monokai",
		Border: BorderTheme{
			Focused: makeStyle("#a6e22e", "", ""),
			Normal:  makeStyle("#75715e", "", ""),
		},
		Title: TitleTheme{
			Focused: makeStyle("#f8f8f2", "", "b"),
			Normal:  makeStyle("#75715e", "", ""),
		},
		Input: InputTheme{
			Text:        makeStyle("#f8f8f2", "", ""),
			Placeholder: makeStyle("#75715e", "", ""),
		},
		Picker: PickerTheme{
			Header:       makeStyle("#f8f8f2", "", ""),
			ActiveHeader: makeStyle("#fd971f", "", "b"),
			Selected:     makeStyle("#272822", "#66d9ef", ""),
			SearchField:  makeStyle("#f8f8f2", "#49483e", ""),
		},
		Mentions: MentionsTheme{
			Item:     makeStyle("#f8f8f2", "", ""),
			Selected: makeStyle("#272822", "#e6db74", ""),
		},
		StatusBar: StatusBarTheme{
			Text:       makeStyle("#f8f8f2", "", ""),
			Background: makeStyle("", "#49483e", ""),
		},
	}
}

// makeStyle builds a StyleWrapper from color names and tview-style attribute
// letters ("b", "u", "d", ...).
func makeStyle(fg, bg, attrs string) StyleWrapper {
	style := tcell.StyleDefault
	if fg != "" {
		style = style.Foreground(tcell.GetColor(fg))
	}
	if bg != "" {
		style = style.Background(tcell.GetColor(bg))
	}
	var mask tcell.AttrMask
	for _, c := range attrs {
		switch c {
		case 'b':
			mask |= tcell.AttrBold
		case 'i':
			mask |= tcell.AttrItalic
		case 'u':
			mask |= tcell.AttrUnderline
		case 'd':
			mask |= tcell.AttrDim
		case 'r':
			mask |= tcell.AttrReverse
		}
	}
	return StyleWrapper{Style: style.Attributes(mask)}
}
