package composer

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/m96-chan/inkpick/internal/catalog"
	"github.com/m96-chan/inkpick/internal/config"
	"github.com/m96-chan/inkpick/internal/glyph"
	"github.com/m96-chan/inkpick/internal/insert"
	"github.com/m96-chan/inkpick/internal/ui/keys"
)

// maxSearchResults bounds the entries shown for a picker search.
const maxSearchResults = 50

// cellWidth is the number of terminal cells every grid entry is padded to.
const cellWidth = 2

// EmojiPicker is a modal popup with a category header row, a grid of
// entries and a search field.
type EmojiPicker struct {
	*tview.Flex
	cfg    *config.Config
	ctrl   *insert.Controller
	header *tview.Table
	input  *tview.InputField
	grid   *tview.Table

	headers  []string
	category int
	entries  []catalog.Entry
	selected int

	onError func(error)
}

// NewEmojiPicker creates the emoji picker.
func NewEmojiPicker(cfg *config.Config) *EmojiPicker {
	ep := &EmojiPicker{cfg: cfg}

	ep.header = tview.NewTable()
	ep.header.SetSelectable(false, true)
	ep.header.SetSelectedFunc(func(_, col int) {
		ep.selectCategory(col)
	})

	ep.input = tview.NewInputField()
	ep.input.SetLabel(" Search: ")
	ep.input.SetFieldStyle(cfg.Theme.Picker.SearchField.Style)
	ep.input.SetChangedFunc(ep.onInputChanged)
	ep.input.SetInputCapture(ep.handleInput)

	ep.grid = tview.NewTable()
	ep.grid.SetSelectable(true, true)
	ep.grid.SetSelectedStyle(cfg.Theme.Picker.Selected.Style)
	ep.grid.SetSelectionChangedFunc(func(row, col int) {
		if i := ep.indexAt(row, col); i >= 0 {
			ep.selected = i
		}
	})
	ep.grid.SetSelectedFunc(func(row, col int) {
		if i := ep.indexAt(row, col); i >= 0 {
			ep.pick(i)
		}
	})

	ep.Flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ep.header, 1, 0, false).
		AddItem(ep.input, 1, 0, true).
		AddItem(ep.grid, 0, 1, false)
	ep.SetBorder(true).SetTitle(" Emoji ")

	return ep
}

// SetController attaches the insertion controller.
func (ep *EmojiPicker) SetController(c *insert.Controller) {
	ep.ctrl = c
}

// SetOnError sets the callback for errors from picker actions.
func (ep *EmojiPicker) SetOnError(fn func(error)) {
	ep.onError = fn
}

// Render draws the picker part of st.
func (ep *EmojiPicker) Render(st insert.State) {
	// The field keeps the user's spacing; the state holds the trimmed query.
	if strings.TrimSpace(ep.input.GetText()) != st.Search {
		ep.input.SetText(st.Search)
	}

	ep.headers = st.Headers
	ep.category = st.Category
	ep.header.Clear()
	for i, code := range st.Headers {
		style := ep.cfg.Theme.Picker.Header.Style
		if i == st.Category && st.Search == "" {
			style = ep.cfg.Theme.Picker.ActiveHeader.Style
		}
		ep.header.SetCell(0, i, tview.NewTableCell(pad(code)).SetStyle(style))
	}

	ep.entries = st.Entries
	ep.selected = 0
	ep.grid.Clear()
	cols := ep.columns()
	for i, e := range st.Entries {
		ep.grid.SetCell(i/cols, i%cols, tview.NewTableCell(pad(e.Code)))
	}
	ep.grid.ScrollToBeginning()
	if len(st.Entries) > 0 {
		ep.grid.Select(0, 0)
	}
}

// Selected returns the index of the highlighted entry.
func (ep *EmojiPicker) Selected() int {
	return ep.selected
}

// handleInput processes keybindings for the picker search field.
func (ep *EmojiPicker) handleInput(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())
	kb := ep.cfg.Keybinds.Picker
	cols := ep.columns()

	switch {
	case name == kb.Close:
		if ep.ctrl != nil {
			ep.ctrl.Dismiss()
		}
		return nil
	case name == kb.Select:
		ep.pick(ep.selected)
		return nil
	case name == kb.PrevCategory:
		ep.selectCategory(ep.category - 1)
		return nil
	case name == kb.NextCategory:
		ep.selectCategory(ep.category + 1)
		return nil
	case name == kb.Up:
		ep.move(-cols)
		return nil
	case name == kb.Down:
		ep.move(cols)
		return nil
	case event.Key() == tcell.KeyTab:
		ep.move(1)
		return nil
	case event.Key() == tcell.KeyBacktab:
		ep.move(-1)
		return nil
	}

	return event
}

// onInputChanged filters the picker by the search text.
func (ep *EmojiPicker) onInputChanged(text string) {
	if ep.ctrl != nil {
		ep.ctrl.SearchPicker(strings.TrimSpace(text), maxSearchResults)
	}
}

// selectCategory switches to category i, wrapping around the header row.
func (ep *EmojiPicker) selectCategory(i int) {
	if ep.ctrl == nil || len(ep.headers) == 0 {
		return
	}
	n := len(ep.headers)
	i = ((i % n) + n) % n
	ep.report(ep.ctrl.SelectCategory(i))
}

// move shifts the highlighted entry by delta, staying inside the grid.
func (ep *EmojiPicker) move(delta int) {
	i := ep.selected + delta
	if i < 0 || i >= len(ep.entries) {
		return
	}
	ep.selected = i
	cols := ep.columns()
	ep.grid.Select(i/cols, i%cols)
}

func (ep *EmojiPicker) pick(i int) {
	if ep.ctrl == nil || i < 0 || i >= len(ep.entries) {
		return
	}
	ep.report(ep.ctrl.PickEntry(i))
}

func (ep *EmojiPicker) report(err error) {
	if err != nil && ep.onError != nil {
		ep.onError(err)
	}
}

// indexAt maps a grid cell to an entry index, or -1 for an empty cell.
func (ep *EmojiPicker) indexAt(row, col int) int {
	i := row*ep.columns() + col
	if row < 0 || col < 0 || i >= len(ep.entries) {
		return -1
	}
	return i
}

func (ep *EmojiPicker) columns() int {
	if ep.cfg.PickerColumns > 0 {
		return ep.cfg.PickerColumns
	}
	return 10
}

// pad right-fills code with spaces so every cell is cellWidth wide.
func pad(code string) string {
	if w := glyph.Width(code); w < cellWidth {
		return code + strings.Repeat(" ", cellWidth-w)
	}
	return code
}
