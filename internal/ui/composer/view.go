// Package composer is the terminal message composer: a text input with
// an emoji picker popup and a mention dropdown.
package composer

import (
	"github.com/rivo/tview"

	"github.com/m96-chan/inkpick/internal/config"
	"github.com/m96-chan/inkpick/internal/insert"
)

const (
	pageMain   = "main"
	pagePicker = "picker"
)

// View is the composer layout containing all panels.
type View struct {
	*tview.Pages
	app *tview.Application
	cfg *config.Config

	Input     *Input
	Picker    *EmojiPicker
	Mentions  *MentionsList
	StatusBar *StatusBar

	mainFlex *tview.Flex
	// drawn is the revision of the last state rendered.
	drawn uint64
}

// New creates the composer view.
//
// Layout:
//
//	Pages
//	├── main (FlexRow)
//	│   ├── Input (proportional)
//	│   ├── Mentions (0 rows when hidden)
//	│   └── StatusBar (fixed 1 row)
//	└── picker (centered modal over main)
func New(app *tview.Application, cfg *config.Config) *View {
	v := &View{
		app:       app,
		cfg:       cfg,
		Input:     NewInput(cfg),
		Picker:    NewEmojiPicker(cfg),
		Mentions:  NewMentionsList(cfg),
		StatusBar: NewStatusBar(cfg),
	}
	v.Input.SetMentionsList(v.Mentions)
	v.Input.SetOnFocus(func() {
		v.app.SetFocus(v.Input)
	})

	v.mainFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.Input, 0, 1, true).
		AddItem(v.Mentions, 0, 0, false).
		AddItem(v.StatusBar, 1, 0, false)

	v.Pages = tview.NewPages().
		AddPage(pageMain, v.mainFlex, true, true).
		AddPage(pagePicker, modal(v.Picker, pickerWidth(cfg), 14), true, false)

	v.applyBorderStyles(false)
	return v
}

// SetController attaches the insertion controller to every panel.
func (v *View) SetController(c *insert.Controller) {
	v.Input.SetController(c)
	v.Picker.SetController(c)
}

// Render draws st. States older than the last one drawn are dropped.
func (v *View) Render(st insert.State) {
	if st.Revision != 0 && st.Revision <= v.drawn {
		return
	}
	v.drawn = st.Revision

	v.StatusBar.SetMode(st.Mode.String())

	switch st.Mode {
	case insert.ModePickerOpen:
		v.hideMentions()
		v.Picker.Render(st)
		v.ShowPage(pagePicker)
		v.applyBorderStyles(true)
		v.app.SetFocus(v.Picker)

	case insert.ModeMentionSearching:
		v.HidePage(pagePicker)
		v.applyBorderStyles(false)
		n := v.Mentions.SetCandidates(st.Candidates, v.cfg.AutocompleteLimit)
		if n > 0 {
			v.mainFlex.ResizeItem(v.Mentions, n+2, 0)
		} else {
			v.hideMentions()
		}

	default:
		v.hideMentions()
		v.HidePage(pagePicker)
		v.applyBorderStyles(false)
		v.app.SetFocus(v.Input)
	}
}

// Drawn returns the revision of the last rendered state.
func (v *View) Drawn() uint64 {
	return v.drawn
}

// PickerVisible reports whether the emoji picker is shown.
func (v *View) PickerVisible() bool {
	name, _ := v.GetFrontPage()
	return name == pagePicker
}

// MentionsVisible reports whether the mention dropdown has rows.
func (v *View) MentionsVisible() bool {
	return v.Mentions.Selected() >= 0
}

func (v *View) hideMentions() {
	v.Mentions.SetCandidates(nil, 0)
	v.mainFlex.ResizeItem(v.Mentions, 0, 0)
}

// applyBorderStyles highlights the picker border while it is open and the
// input border otherwise.
func (v *View) applyBorderStyles(pickerOpen bool) {
	focusedFg, _, _ := v.cfg.Theme.Border.Focused.Style.Decompose()
	normalFg, _, _ := v.cfg.Theme.Border.Normal.Style.Decompose()
	focusedTitleFg, _, _ := v.cfg.Theme.Title.Focused.Style.Decompose()
	normalTitleFg, _, _ := v.cfg.Theme.Title.Normal.Style.Decompose()

	panels := []struct {
		box     *tview.Box
		focused bool
	}{
		{v.Input.Box, !pickerOpen},
		{v.Picker.Box, pickerOpen},
	}

	for _, p := range panels {
		if p.focused {
			p.box.SetBorderColor(focusedFg)
			p.box.SetTitleColor(focusedTitleFg)
		} else {
			p.box.SetBorderColor(normalFg)
			p.box.SetTitleColor(normalTitleFg)
		}
	}
}

// modal centers p in a box of the given size.
func modal(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// pickerWidth fits picker_columns cells plus table padding and borders.
func pickerWidth(cfg *config.Config) int {
	cols := cfg.PickerColumns
	if cols <= 0 {
		cols = 10
	}
	return max(cols*(cellWidth+1)+2, 24)
}
