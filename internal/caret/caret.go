// Package caret restores the caret after programmatic edits.
package caret

import "github.com/rivo/tview"

// Node is a text node whose selection can be set.
type Node interface {
	GetTextLength() int
	Select(start, end int)
}

// CollapseToEnd selects the whole content of n and collapses the selection
// to its end, leaving the caret after the last character. Calling it again
// leaves the caret where it is. A nil node is ignored.
func CollapseToEnd(n Node) {
	if n == nil {
		return
	}
	end := n.GetTextLength()
	n.Select(end, end)
}

// TextArea adapts a tview.TextArea to Node.
type TextArea struct {
	*tview.TextArea
}

// Select implements Node.
func (t TextArea) Select(start, end int) {
	t.TextArea.Select(start, end)
}
