// Package surface provides an in-memory document surface for headless use
// and tests.
package surface

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/m96-chan/inkpick/internal/caret"
)

// ErrRange is returned for a replacement range outside the text.
var ErrRange = errors.New("range out of bounds")

// Buffer is a plain-text document surface. The zero value is an empty
// document with the caret at 0.
type Buffer struct {
	text     string
	selStart int
	selEnd   int
	focused  bool

	// FailNext makes the next mutating call fail with this error.
	FailNext error
}

// NewBuffer returns a buffer holding text with the caret at its end.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, selStart: len(text), selEnd: len(text)}
}

// Text returns the plain text of the document.
func (b *Buffer) Text() string {
	return b.text
}

// AppendMarkup appends markup at the end of the document.
func (b *Buffer) AppendMarkup(markup string) error {
	if err := b.takeFailure(); err != nil {
		return err
	}
	b.text += markup
	return nil
}

// ReplaceRange replaces the bytes in [start, end) with text.
func (b *Buffer) ReplaceRange(start, end int, text string) error {
	if err := b.takeFailure(); err != nil {
		return err
	}
	if start < 0 || end < start || end > len(b.text) {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", ErrRange, start, end, len(b.text))
	}
	b.text = b.text[:start] + text + b.text[end:]
	b.clampSelection()
	return nil
}

// Focus marks the buffer focused.
func (b *Buffer) Focus() {
	b.focused = true
}

// Focused reports whether Focus was called.
func (b *Buffer) Focused() bool {
	return b.focused
}

// Node returns the buffer itself as the caret node.
func (b *Buffer) Node() caret.Node {
	return b
}

// GetTextLength implements caret.Node.
func (b *Buffer) GetTextLength() int {
	return len(b.text)
}

// Select implements caret.Node. Offsets are clamped to the text.
func (b *Buffer) Select(start, end int) {
	b.selStart, b.selEnd = start, end
	b.clampSelection()
}

// Selection returns the current selection; start == end is a caret.
func (b *Buffer) Selection() (start, end int) {
	return b.selStart, b.selEnd
}

// Type appends text as if typed at the end and moves the caret after it.
func (b *Buffer) Type(s string) {
	b.text += s
	b.selStart, b.selEnd = len(b.text), len(b.text)
}

// Backspace removes the last rune, if any.
func (b *Buffer) Backspace() {
	_, size := utf8.DecodeLastRuneInString(b.text)
	if size == 0 {
		return
	}
	b.text = b.text[:len(b.text)-size]
	b.clampSelection()
}

func (b *Buffer) clampSelection() {
	n := len(b.text)
	b.selStart = max(0, min(b.selStart, n))
	b.selEnd = max(b.selStart, min(b.selEnd, n))
}

func (b *Buffer) takeFailure() error {
	err := b.FailNext
	b.FailNext = nil
	return err
}
