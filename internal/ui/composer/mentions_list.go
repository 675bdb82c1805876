package composer

import (
	"github.com/rivo/tview"

	"github.com/m96-chan/inkpick/internal/config"
)

// MentionsList displays mention candidates in a dropdown.
type MentionsList struct {
	*tview.List
	cfg   *config.Config
	names []string
}

// NewMentionsList creates a new mentions dropdown.
func NewMentionsList(cfg *config.Config) *MentionsList {
	ml := &MentionsList{
		List: tview.NewList(),
		cfg:  cfg,
	}

	ml.ShowSecondaryText(false)
	ml.SetHighlightFullLine(true)
	ml.SetWrapAround(false)
	ml.SetBorder(true).SetTitle(" Mention ")
	ml.SetMainTextStyle(cfg.Theme.Mentions.Item.Style)
	ml.SetSelectedStyle(cfg.Theme.Mentions.Selected.Style)

	return ml
}

// SetCandidates replaces the list with at most limit candidates and
// selects the first. Returns the number of rows shown.
func (ml *MentionsList) SetCandidates(names []string, limit int) int {
	ml.Clear()

	count := len(names)
	if limit > 0 && count > limit {
		count = limit
	}
	ml.names = names[:count]

	for _, name := range ml.names {
		ml.AddItem(tview.Escape(name), "", 0, nil)
	}
	if count > 0 {
		ml.SetCurrentItem(0)
	}
	return count
}

// Selected returns the index of the highlighted candidate, or -1.
func (ml *MentionsList) Selected() int {
	if len(ml.names) == 0 {
		return -1
	}
	return ml.GetCurrentItem()
}

// SelectNext moves selection to the next candidate.
func (ml *MentionsList) SelectNext() {
	cur := ml.GetCurrentItem()
	if cur < ml.GetItemCount()-1 {
		ml.SetCurrentItem(cur + 1)
	}
}

// SelectPrev moves selection to the previous candidate.
func (ml *MentionsList) SelectPrev() {
	cur := ml.GetCurrentItem()
	if cur > 0 {
		ml.SetCurrentItem(cur - 1)
	}
}
