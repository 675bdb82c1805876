// Package glyph turns emoji codes into the markup written into a document.
package glyph

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/kyokomi/emoji/v2"
	"github.com/rivo/uniseg"
)

// DefaultFallback is drawn for codes that are not emoji.
const DefaultFallback = "�"

// Renderer maps a standardized emoji code to displayable markup. Render is
// pure and total: unknown codes yield a fallback, never an error.
type Renderer interface {
	Render(code string) string
}

// Unicode renders emoji as the characters themselves, which is what a
// terminal displays. ":shortcode:" codes are resolved first.
type Unicode struct {
	Fallback string
}

// Render implements Renderer.
func (u Unicode) Render(code string) string {
	if s, ok := resolveShortcode(code); ok {
		return s
	}
	if IsEmoji(code) {
		return code
	}
	return u.fallback()
}

func (u Unicode) fallback() string {
	if u.Fallback == "" {
		return DefaultFallback
	}
	return u.Fallback
}

// Twemoji renders emoji as <img> tags pointing at Twemoji artwork.
type Twemoji struct {
	// BaseURL is the asset directory, ending in "/".
	BaseURL  string
	Fallback string
}

// Render implements Renderer.
func (t Twemoji) Render(code string) string {
	if s, ok := resolveShortcode(code); ok {
		code = s
	}
	if !IsEmoji(code) {
		fb := t.Fallback
		if fb == "" {
			fb = DefaultFallback
		}
		return `<span class="emoji-fallback">` + html.EscapeString(fb) + `</span>`
	}
	return fmt.Sprintf(`<img class="emoji" draggable="false" alt="%s" src="%s%s.svg">`,
		html.EscapeString(code), t.BaseURL, Codepoints(code))
}

// Codepoints returns the lowercase hex code points of code joined by "-".
// The VS16 selector is dropped unless the sequence contains a ZWJ, matching
// Twemoji's file naming.
func Codepoints(code string) string {
	const (
		vs16 = '️'
		zwj  = '‍'
	)
	hasZWJ := strings.ContainsRune(code, zwj)

	parts := make([]string, 0, len(code))
	for _, r := range code {
		if !hasZWJ && r == vs16 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%x", r))
	}
	return strings.Join(parts, "-")
}

// IsEmoji reports whether code is a single grapheme cluster that is an emoji.
func IsEmoji(code string) bool {
	if code == "" || uniseg.GraphemeClusterCount(code) != 1 {
		return false
	}
	if gomoji.ContainsEmoji(code) {
		return true
	}
	for _, r := range code {
		if unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return uniseg.StringWidth(s)
}

var (
	shortcodeTable     map[string]string
	shortcodeTableOnce sync.Once
)

// resolveShortcode looks up ":name:" codes.
func resolveShortcode(code string) (string, bool) {
	if len(code) < 3 || code[0] != ':' || code[len(code)-1] != ':' {
		return "", false
	}
	shortcodeTableOnce.Do(func() {
		codeMap := emoji.CodeMap()
		shortcodeTable = make(map[string]string, len(codeMap))
		for k, v := range codeMap {
			shortcodeTable[k] = strings.TrimSpace(v)
		}
	})
	s, ok := shortcodeTable[code]
	return s, ok
}

// New returns the renderer named by kind ("unicode" or "twemoji").
func New(kind, baseURL, fallback string) (Renderer, error) {
	switch kind {
	case "", "unicode":
		return Unicode{Fallback: fallback}, nil
	case "twemoji":
		return Twemoji{BaseURL: baseURL, Fallback: fallback}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", kind)
	}
}
