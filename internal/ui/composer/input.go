package composer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/inkpick/internal/caret"
	"github.com/m96-chan/inkpick/internal/config"
	"github.com/m96-chan/inkpick/internal/insert"
	"github.com/m96-chan/inkpick/internal/surface"
	"github.com/m96-chan/inkpick/internal/ui/keys"
)

// OnSendFunc is called with the trimmed text when the user sends.
type OnSendFunc func(text string)

// Input wraps tview.TextArea and is the document surface the insertion
// controller edits.
type Input struct {
	*tview.TextArea
	cfg      *config.Config
	ctrl     *insert.Controller
	mentions *MentionsList

	// mutating suppresses change events while the controller edits the text.
	mutating bool

	onSend   OnSendFunc
	onReload func()
	onFocus  func()
	onError  func(error)
}

// NewInput creates the composer input.
func NewInput(cfg *config.Config) *Input {
	in := &Input{
		TextArea: tview.NewTextArea(),
		cfg:      cfg,
	}

	in.SetBorder(true).SetTitle(" Compose ")
	in.SetPlaceholder(fmt.Sprintf("Type a message, %s to mention, %s for emoji...",
		cfg.Trigger, cfg.Keybinds.Composer.OpenPicker))
	in.SetTextStyle(cfg.Theme.Input.Text.Style)
	in.SetPlaceholderStyle(cfg.Theme.Input.Placeholder.Style)

	in.SetInputCapture(in.handleInput)
	in.SetChangedFunc(in.onTextChanged)

	return in
}

// SetController attaches the insertion controller driven by this input.
func (in *Input) SetController(c *insert.Controller) {
	in.ctrl = c
}

// SetMentionsList sets the dropdown used while searching mentions.
func (in *Input) SetMentionsList(ml *MentionsList) {
	in.mentions = ml
}

// SetOnSend sets the callback for the send action.
func (in *Input) SetOnSend(fn OnSendFunc) {
	in.onSend = fn
}

// SetOnReload sets the callback for the reload-catalog action.
func (in *Input) SetOnReload(fn func()) {
	in.onReload = fn
}

// SetOnFocus sets the callback that moves keyboard focus to the input.
func (in *Input) SetOnFocus(fn func()) {
	in.onFocus = fn
}

// SetOnError sets the callback for errors from composer actions.
func (in *Input) SetOnError(fn func(error)) {
	in.onError = fn
}

// Surface returns the insert.Surface view of the input. It is a separate
// value because Surface.Focus differs from tview.Primitive.Focus.
func (in *Input) Surface() insert.Surface {
	return inputSurface{in: in}
}

// AppendMarkup inserts markup at the end of the text.
func (in *Input) AppendMarkup(markup string) error {
	n := in.GetTextLength()
	return in.ReplaceRange(n, n, markup)
}

// ReplaceRange replaces the bytes [start, end) with text without
// notifying the controller.
func (in *Input) ReplaceRange(start, end int, text string) error {
	n := in.GetTextLength()
	if start < 0 || end < start || end > n {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", surface.ErrRange, start, end, n)
	}

	in.mutating = true
	in.Replace(start, end, text)
	in.mutating = false

	// The hint is only useful until something has been inserted.
	in.SetPlaceholder("")
	return nil
}

// inputSurface adapts Input to insert.Surface.
type inputSurface struct {
	in *Input
}

var (
	_ insert.Surface  = inputSurface{}
	_ tview.Primitive = (*Input)(nil)
)

func (s inputSurface) Text() string {
	return s.in.GetText()
}

func (s inputSurface) AppendMarkup(markup string) error {
	return s.in.AppendMarkup(markup)
}

func (s inputSurface) ReplaceRange(start, end int, text string) error {
	return s.in.ReplaceRange(start, end, text)
}

func (s inputSurface) Focus() {
	if s.in.onFocus != nil {
		s.in.onFocus()
	}
}

func (s inputSurface) Node() caret.Node {
	return caret.TextArea{TextArea: s.in.TextArea}
}

// handleInput processes keybindings for the input area.
func (in *Input) handleInput(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())
	kb := in.cfg.Keybinds.Composer

	// Dropdown navigation while a mention search is active. With no
	// candidates shown the arrow keys keep moving the caret.
	if in.ctrl != nil && in.ctrl.Mode() == insert.ModeMentionSearching && in.mentions != nil {
		listed := in.mentions.Selected() >= 0
		switch {
		case name == kb.TabComplete:
			in.report(in.ctrl.PickCandidate(in.mentions.Selected()))
			return nil
		case event.Key() == tcell.KeyUp && listed:
			in.mentions.SelectPrev()
			return nil
		case event.Key() == tcell.KeyDown && listed:
			in.mentions.SelectNext()
			return nil
		}
	}

	switch name {
	case kb.Send:
		in.send()
		return nil

	case kb.Newline:
		return tcell.NewEventKey(tcell.KeyEnter, '\n', tcell.ModNone)

	case kb.OpenPicker:
		if in.ctrl != nil {
			in.ctrl.OpenPicker()
		}
		return nil

	case kb.InsertTrigger:
		if in.ctrl != nil {
			in.report(in.ctrl.InsertTrigger())
		}
		return nil

	case kb.ReloadCatalog:
		if in.onReload != nil {
			in.onReload()
		}
		return nil

	case kb.Cancel:
		if in.ctrl != nil && in.ctrl.Mode() != insert.ModeIdle {
			in.ctrl.Dismiss()
			return nil
		}
		return event
	}

	return event
}

// send dispatches the current text and clears the input.
func (in *Input) send() {
	text := strings.TrimSpace(in.GetText())
	if text == "" {
		return
	}
	if in.ctrl != nil {
		in.ctrl.Dismiss()
	}
	if in.onSend != nil {
		in.onSend(text)
	}
	in.mutating = true
	in.SetText("", false)
	in.mutating = false
}

// onTextChanged forwards user edits to the controller.
func (in *Input) onTextChanged() {
	if in.mutating || in.ctrl == nil {
		return
	}
	in.ctrl.TextChanged()
}

// report forwards err to the error callback. An empty selection only
// dismisses the search.
func (in *Input) report(err error) {
	if errors.Is(err, insert.ErrEmptySelection) {
		return
	}
	if err != nil && in.onError != nil {
		in.onError(err)
	}
}
