package insert

import (
	"fmt"

	"github.com/m96-chan/inkpick/internal/caret"
	"github.com/m96-chan/inkpick/internal/glyph"
	"github.com/m96-chan/inkpick/internal/mention"
)

// Surface is the text buffer the composer edits. Offsets are byte offsets
// into Text.
type Surface interface {
	Text() string
	AppendMarkup(markup string) error
	ReplaceRange(start, end int, text string) error
	Focus()
	Node() caret.Node
}

// Bridge turns a chosen emoji or name into a single surface mutation
// followed by a caret reset. It holds no state of its own.
type Bridge struct {
	Surface  Surface
	Renderer glyph.Renderer
	Trigger  rune
}

// RenderEmoji returns the markup for code.
func (b Bridge) RenderEmoji(code string) string {
	return b.Renderer.Render(code)
}

// CommitEmoji appends the rendered emoji and moves the caret after it.
func (b Bridge) CommitEmoji(code string) error {
	if err := b.Surface.AppendMarkup(b.RenderEmoji(code)); err != nil {
		return fmt.Errorf("append emoji: %w", err)
	}
	caret.CollapseToEnd(b.Surface.Node())
	return nil
}

// CommitMention replaces the trigger and search text of q with name and a
// trailing space, then moves the caret to the end.
func (b Bridge) CommitMention(q mention.Query, name string) error {
	start, end := q.Span(b.Trigger)
	if err := b.Surface.ReplaceRange(start, end, name+" "); err != nil {
		return fmt.Errorf("replace mention: %w", err)
	}
	caret.CollapseToEnd(b.Surface.Node())
	return nil
}
