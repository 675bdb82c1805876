// Package insert drives the emoji picker and mention completion modes of
// the composer.
package insert

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/m96-chan/inkpick/internal/caret"
	"github.com/m96-chan/inkpick/internal/catalog"
	"github.com/m96-chan/inkpick/internal/mention"
)

// ErrEmptySelection is returned when a candidate is committed while none is
// available. The active mode is dismissed.
var ErrEmptySelection = errors.New("no candidate to select")

// Mode is the active insertion mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModePickerOpen
	ModeMentionSearching
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePickerOpen:
		return "picker"
	case ModeMentionSearching:
		return "mention"
	default:
		return "unknown"
	}
}

// State is a snapshot of what the composer should display.
type State struct {
	Mode Mode
	// Revision increases on every state change. Renderers drop states
	// older than the last one drawn.
	Revision uint64

	// Picker. While Search is non-empty, Entries holds the search results
	// instead of the entries of Category.
	Headers  []string
	Category int
	Search   string
	Entries  []catalog.Entry

	// Mention search.
	Query      mention.Query
	Candidates []string
}

// CatalogProvider returns the installed catalog, or nil before the first
// successful load.
type CatalogProvider interface {
	Current() *catalog.Catalog
}

// Controller owns the insertion state machine. All methods must be called
// from the UI goroutine.
type Controller struct {
	bridge   Bridge
	catalogs CatalogProvider
	names    mention.Directory
	onRender func(State)

	state State
	// picker is the catalog the open picker was built from, so a reload
	// does not shift indices under it.
	picker *catalog.Catalog
}

// NewController creates a controller. onRender is called once per state
// change and may be nil.
func NewController(bridge Bridge, catalogs CatalogProvider, names mention.Directory, onRender func(State)) *Controller {
	if bridge.Trigger == 0 {
		bridge.Trigger = '@'
	}
	return &Controller{
		bridge:   bridge,
		catalogs: catalogs,
		names:    names,
		onRender: onRender,
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode {
	return c.state.Mode
}

// Trigger returns the mention trigger character.
func (c *Controller) Trigger() rune {
	return c.bridge.Trigger
}

// OpenPicker opens the emoji picker on the first category. It does nothing
// until a catalog has been loaded. An active mention search is dismissed
// first.
func (c *Controller) OpenPicker() {
	var cat *catalog.Catalog
	if c.catalogs != nil {
		cat = c.catalogs.Current()
	}
	if cat.Len() == 0 {
		slog.Debug("picker requested before catalog loaded")
		return
	}

	if c.state.Mode == ModeMentionSearching {
		c.Dismiss()
	}

	entries, err := cat.EntriesOf(0)
	if err != nil {
		slog.Error("failed to read first category", "error", err)
		return
	}

	c.picker = cat
	c.set(State{
		Mode:     ModePickerOpen,
		Headers:  cat.Headers(),
		Category: 0,
		Entries:  entries,
	})
}

// SelectCategory shows the entries of category i in the open picker.
func (c *Controller) SelectCategory(i int) error {
	if c.state.Mode != ModePickerOpen {
		return nil
	}
	entries, err := c.picker.EntriesOf(i)
	if err != nil {
		return err
	}

	next := c.state
	next.Category = i
	next.Search = ""
	next.Entries = entries
	c.set(next)
	return nil
}

// SearchPicker filters the open picker by name across all categories.
// An empty query shows the selected category again.
func (c *Controller) SearchPicker(query string, limit int) {
	if c.state.Mode != ModePickerOpen || query == c.state.Search {
		return
	}

	next := c.state
	next.Search = query
	if query == "" {
		entries, err := c.picker.EntriesOf(c.state.Category)
		if err != nil {
			slog.Error("failed to read category", "category", c.state.Category, "error", err)
			return
		}
		next.Entries = entries
	} else {
		next.Entries = c.picker.Search(query, limit)
	}
	c.set(next)
}

// PickEntry inserts entry i of the visible category and closes the picker.
func (c *Controller) PickEntry(i int) error {
	if c.state.Mode != ModePickerOpen {
		return nil
	}
	if i < 0 || i >= len(c.state.Entries) {
		return fmt.Errorf("%w: entry %d of %d", catalog.ErrIndexOutOfRange, i, len(c.state.Entries))
	}

	code := c.state.Entries[i].Code
	err := c.bridge.CommitEmoji(code)
	c.reset()
	if err != nil {
		slog.Error("failed to insert emoji", "code", code, "error", err)
		return err
	}
	c.bridge.Surface.Focus()
	return nil
}

// InsertTrigger types the trigger character at the end of the text and
// evaluates the result as if the user had typed it.
func (c *Controller) InsertTrigger() error {
	if err := c.bridge.Surface.AppendMarkup(string(c.bridge.Trigger)); err != nil {
		c.reset()
		slog.Error("failed to insert trigger", "error", err)
		return err
	}
	caret.CollapseToEnd(c.bridge.Surface.Node())
	c.bridge.Surface.Focus()
	c.TextChanged()
	return nil
}

// TextChanged re-evaluates the surface text after an edit.
func (c *Controller) TextChanged() {
	switch c.state.Mode {
	case ModePickerOpen:
		return
	case ModeIdle:
		if !mention.Triggered(c.bridge.Surface.Text(), c.bridge.Trigger) {
			return
		}
	}
	c.search()
}

// PickCandidate replaces the mention being typed with candidate i.
func (c *Controller) PickCandidate(i int) error {
	if c.state.Mode != ModeMentionSearching {
		return nil
	}

	q, ok := mention.ComputeQuery(c.bridge.Surface.Text(), c.bridge.Trigger)
	if !ok || i < 0 || i >= len(c.state.Candidates) {
		c.Dismiss()
		return ErrEmptySelection
	}

	name := c.state.Candidates[i]
	err := c.bridge.CommitMention(q, name)
	c.reset()
	if err != nil {
		slog.Error("failed to insert mention", "name", name, "error", err)
		return err
	}
	c.bridge.Surface.Focus()
	return nil
}

// Dismiss leaves the active mode without touching the text.
func (c *Controller) Dismiss() {
	if c.state.Mode == ModeIdle {
		return
	}
	c.reset()
}

// SetDirectory replaces the names offered for mentions.
func (c *Controller) SetDirectory(names mention.Directory) {
	c.names = names
	if c.state.Mode == ModeMentionSearching {
		c.search()
	}
}

// search recomputes the query and candidates from scratch.
func (c *Controller) search() {
	next := State{Mode: ModeMentionSearching}
	if q, ok := mention.ComputeQuery(c.bridge.Surface.Text(), c.bridge.Trigger); ok {
		next.Query = q
		next.Candidates = mention.Filter(c.names, q.SearchText)
	}
	c.set(next)
}

func (c *Controller) reset() {
	c.picker = nil
	c.set(State{Mode: ModeIdle})
}

func (c *Controller) set(next State) {
	next.Revision = c.state.Revision + 1
	c.state = next
	if c.onRender != nil {
		c.onRender(next)
	}
}
