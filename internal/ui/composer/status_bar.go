package composer

import (
	"github.com/rivo/tview"

	"github.com/m96-chan/inkpick/internal/config"
)

// StatusBar displays catalog status, the active mode and the last message.
type StatusBar struct {
	*tview.TextView
	cfg           *config.Config
	catalogStatus string
	modeText      string
	message       string
}

// NewStatusBar creates a themed status bar.
func NewStatusBar(cfg *config.Config) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)

	_, bg, _ := cfg.Theme.StatusBar.Background.Style.Decompose()
	fg, _, _ := cfg.Theme.StatusBar.Text.Style.Decompose()
	tv.SetBackgroundColor(bg)
	tv.SetTextColor(fg)

	return &StatusBar{
		TextView: tv,
		cfg:      cfg,
	}
}

// SetCatalogStatus updates the catalog load status text.
func (sb *StatusBar) SetCatalogStatus(s string) {
	sb.catalogStatus = s
	sb.render()
}

// SetMode updates the insertion mode text.
func (sb *StatusBar) SetMode(s string) {
	sb.modeText = s
	sb.render()
}

// SetMessage updates the feedback message.
func (sb *StatusBar) SetMessage(s string) {
	sb.message = s
	sb.render()
}

// render rebuilds the status bar text from current state.
func (sb *StatusBar) render() {
	text := " " + sb.catalogStatus
	if sb.modeText != "" {
		text += "  |  " + sb.modeText
	}
	if sb.message != "" {
		text += "  |  " + tview.Escape(sb.message)
	}
	sb.TextView.SetText(text)
}
