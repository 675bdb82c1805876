package insert

import (
	"errors"
	"slices"
	"testing"

	"github.com/m96-chan/inkpick/internal/catalog"
	"github.com/m96-chan/inkpick/internal/glyph"
	"github.com/m96-chan/inkpick/internal/mention"
	"github.com/m96-chan/inkpick/internal/surface"
)

type staticCatalog struct {
	cat *catalog.Catalog
}

func (s *staticCatalog) Current() *catalog.Catalog { return s.cat }

type testHarness struct {
	ctrl    *Controller
	buf     *surface.Buffer
	cats    *staticCatalog
	renders []State
}

func newTestCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Category{
		{Slug: "smileys", Entries: []catalog.Entry{{Code: "😀", Name: "grinning-face"}, {Code: "😄", Name: "smile"}}},
		{Slug: "animals", Entries: []catalog.Entry{{Code: "🐶", Name: "dog-face"}, {Code: "🐱", Name: "cat-face"}}},
	})
}

func newTestHarness(text string, cat *catalog.Catalog, names ...string) *testHarness {
	h := &testHarness{
		buf:  surface.NewBuffer(text),
		cats: &staticCatalog{cat: cat},
	}
	bridge := Bridge{Surface: h.buf, Renderer: glyph.Unicode{}, Trigger: '@'}
	h.ctrl = NewController(bridge, h.cats, mention.Directory(names), func(s State) {
		h.renders = append(h.renders, s)
	})
	return h
}

// typeText simulates keystrokes, notifying the controller after each one.
func (h *testHarness) typeText(s string) {
	for _, r := range s {
		h.buf.Type(string(r))
		h.ctrl.TextChanged()
	}
}

func (h *testHarness) assertCaretAtEnd(t *testing.T) {
	t.Helper()
	start, end := h.buf.Selection()
	n := len(h.buf.Text())
	if start != n || end != n {
		t.Errorf("selection = [%d, %d), want caret at %d", start, end, n)
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeIdle, "idle"},
		{ModePickerOpen, "picker"},
		{ModeMentionSearching, "mention"},
		{Mode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestMentionCommitReplacesTriggerAndSearch(t *testing.T) {
	h := newTestHarness("hello ", nil, "Alice", "alan", "Bob")
	h.typeText("@al")

	st := h.ctrl.State()
	if st.Mode != ModeMentionSearching {
		t.Fatalf("mode = %v, want mention", st.Mode)
	}
	if st.Query != (mention.Query{TriggerIndex: 6, SearchText: "al"}) {
		t.Errorf("query = %+v", st.Query)
	}
	if !slices.Equal(st.Candidates, []string{"Alice", "alan"}) {
		t.Errorf("candidates = %v", st.Candidates)
	}

	if err := h.ctrl.PickCandidate(1); err != nil {
		t.Fatalf("PickCandidate: %v", err)
	}
	if got := h.buf.Text(); got != "hello alan " {
		t.Errorf("text = %q, want %q", got, "hello alan ")
	}
	h.assertCaretAtEnd(t)
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
	if !h.buf.Focused() {
		t.Error("surface should be focused after commit")
	}
}

func TestTriggerOnEmptyDocument(t *testing.T) {
	h := newTestHarness("", nil, "Alice", "Bob")
	h.typeText("@")

	st := h.ctrl.State()
	if st.Mode != ModeMentionSearching {
		t.Fatalf("mode = %v, want mention", st.Mode)
	}
	if !slices.Equal(st.Candidates, []string{"Alice", "Bob"}) {
		t.Errorf("candidates = %v, want all names", st.Candidates)
	}
}

func TestTriggerMidWordIgnored(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("mail@")

	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
	if len(h.renders) != 0 {
		t.Errorf("got %d renders, want none", len(h.renders))
	}
}

func TestInsertTrigger(t *testing.T) {
	h := newTestHarness("hi ", nil, "Alice")

	if err := h.ctrl.InsertTrigger(); err != nil {
		t.Fatalf("InsertTrigger: %v", err)
	}
	if got := h.buf.Text(); got != "hi @" {
		t.Errorf("text = %q", got)
	}
	h.assertCaretAtEnd(t)
	if h.ctrl.Mode() != ModeMentionSearching {
		t.Errorf("mode = %v, want mention", h.ctrl.Mode())
	}
}

func TestInsertTriggerFailureRevertsToIdle(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("@")
	h.buf.FailNext = errors.New("boom")

	if err := h.ctrl.InsertTrigger(); err == nil {
		t.Fatal("expected error")
	}
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
	if got := h.buf.Text(); got != "@" {
		t.Errorf("text = %q, want unchanged", got)
	}
}

func TestMentionRecomputesOnEveryKeystroke(t *testing.T) {
	h := newTestHarness("", nil, "Alice", "alan", "Bob")
	h.typeText("@a")
	if got := h.ctrl.State().Candidates; len(got) != 2 {
		t.Fatalf("candidates = %v", got)
	}

	h.typeText("li")
	if got := h.ctrl.State().Candidates; !slices.Equal(got, []string{"Alice"}) {
		t.Errorf("candidates = %v", got)
	}

	h.buf.Backspace()
	h.buf.Backspace()
	h.ctrl.TextChanged()
	if got := h.ctrl.State().Candidates; len(got) != 2 {
		t.Errorf("after backspace candidates = %v, want 2", got)
	}
}

func TestMentionTriggerDeletedClearsCandidates(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("@")
	h.buf.Backspace()
	h.ctrl.TextChanged()

	st := h.ctrl.State()
	if st.Mode != ModeMentionSearching {
		t.Errorf("mode = %v, want mention", st.Mode)
	}
	if len(st.Candidates) != 0 {
		t.Errorf("candidates = %v, want none", st.Candidates)
	}

	if err := h.ctrl.PickCandidate(0); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("PickCandidate err = %v, want ErrEmptySelection", err)
	}
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
}

func TestPickCandidateEmptySelection(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("@zz")

	if err := h.ctrl.PickCandidate(0); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if got := h.buf.Text(); got != "@zz" {
		t.Errorf("text = %q, want unchanged", got)
	}
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
}

func TestPickCandidateFailureRevertsToIdle(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("@A")
	h.buf.FailNext = errors.New("boom")

	if err := h.ctrl.PickCandidate(0); err == nil {
		t.Fatal("expected error")
	}
	if got := h.buf.Text(); got != "@A" {
		t.Errorf("text = %q, want unchanged", got)
	}
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
}

func TestDismissDoesNotMutate(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("@Al")
	h.ctrl.Dismiss()

	if got := h.buf.Text(); got != "@Al" {
		t.Errorf("text = %q", got)
	}
	if st := h.ctrl.State(); st.Mode != ModeIdle || len(st.Candidates) != 0 {
		t.Errorf("state = %+v, want empty idle", st)
	}

	n := len(h.renders)
	h.ctrl.Dismiss()
	if len(h.renders) != n {
		t.Error("dismiss in idle should not render")
	}
}

func TestSetDirectoryRecomputes(t *testing.T) {
	h := newTestHarness("", nil, "Alice")
	h.typeText("@b")
	if got := h.ctrl.State().Candidates; len(got) != 0 {
		t.Fatalf("candidates = %v", got)
	}

	h.ctrl.SetDirectory(mention.Directory{"bob", "Bea"})
	if got := h.ctrl.State().Candidates; !slices.Equal(got, []string{"bob", "Bea"}) {
		t.Errorf("candidates = %v", got)
	}
}

func TestOpenPickerBeforeLoadIsNoop(t *testing.T) {
	h := newTestHarness("", nil)
	h.ctrl.OpenPicker()

	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
	if len(h.renders) != 0 {
		t.Errorf("got %d renders, want none", len(h.renders))
	}
	if err := h.ctrl.PickEntry(0); err != nil {
		t.Errorf("PickEntry while idle = %v, want nil", err)
	}
	if h.buf.Text() != "" {
		t.Error("text should be untouched")
	}
}

func TestOpenPickerShowsFirstCategory(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()

	st := h.ctrl.State()
	if st.Mode != ModePickerOpen {
		t.Fatalf("mode = %v, want picker", st.Mode)
	}
	if !slices.Equal(st.Headers, []string{"😀", "🐶"}) {
		t.Errorf("headers = %v", st.Headers)
	}
	if st.Category != 0 || len(st.Entries) != 2 || st.Entries[0].Code != "😀" {
		t.Errorf("category %d entries %v", st.Category, st.Entries)
	}
}

func TestSelectCategory(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()

	if err := h.ctrl.SelectCategory(1); err != nil {
		t.Fatalf("SelectCategory: %v", err)
	}
	st := h.ctrl.State()
	if st.Category != 1 || st.Entries[0].Code != "🐶" {
		t.Errorf("category %d entries %v", st.Category, st.Entries)
	}

	before := h.ctrl.State()
	if err := h.ctrl.SelectCategory(2); !errors.Is(err, catalog.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if after := h.ctrl.State(); after.Revision != before.Revision || after.Category != 1 {
		t.Error("failed selection must not change state")
	}
}

func TestPickEntryCommitsEmoji(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()

	if err := h.ctrl.PickEntry(0); err != nil {
		t.Fatalf("PickEntry: %v", err)
	}
	if got, want := h.buf.Text(), (glyph.Unicode{}).Render("😀"); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	h.assertCaretAtEnd(t)
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
}

func TestPickEntryOutOfRange(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()

	if err := h.ctrl.PickEntry(5); !errors.Is(err, catalog.ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
	if h.ctrl.Mode() != ModePickerOpen {
		t.Errorf("mode = %v, want picker to stay open", h.ctrl.Mode())
	}
}

func TestPickEntryFailureRevertsToIdle(t *testing.T) {
	h := newTestHarness("abc", newTestCatalog())
	h.ctrl.OpenPicker()
	h.buf.FailNext = errors.New("boom")

	if err := h.ctrl.PickEntry(0); err == nil {
		t.Fatal("expected error")
	}
	if got := h.buf.Text(); got != "abc" {
		t.Errorf("text = %q, want unchanged", got)
	}
	if h.ctrl.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", h.ctrl.Mode())
	}
}

func TestOpenPickerDismissesMentionFirst(t *testing.T) {
	h := newTestHarness("", newTestCatalog(), "Alice")
	h.typeText("@")
	h.renders = nil

	h.ctrl.OpenPicker()

	if len(h.renders) != 2 {
		t.Fatalf("got %d renders, want dismiss then open", len(h.renders))
	}
	if h.renders[0].Mode != ModeIdle || h.renders[1].Mode != ModePickerOpen {
		t.Errorf("modes = %v, %v", h.renders[0].Mode, h.renders[1].Mode)
	}
	if got := h.buf.Text(); got != "@" {
		t.Errorf("text = %q, want unchanged", got)
	}
}

func TestTypingWhilePickerOpenKeepsPicker(t *testing.T) {
	h := newTestHarness("", newTestCatalog(), "Alice")
	h.ctrl.OpenPicker()
	h.typeText("@")

	if h.ctrl.Mode() != ModePickerOpen {
		t.Errorf("mode = %v, want picker", h.ctrl.Mode())
	}
}

func TestOpenPickerKeepsSnapshotAcrossReload(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()

	h.cats.cat = catalog.New([]catalog.Category{
		{Slug: "only", Entries: []catalog.Entry{{Code: "🍎"}}},
	})

	if err := h.ctrl.SelectCategory(1); err != nil {
		t.Fatalf("SelectCategory on open picker: %v", err)
	}
	if got := h.ctrl.State().Entries[0].Code; got != "🐶" {
		t.Errorf("entry = %q, want entry from the catalog the picker opened with", got)
	}
}

func TestSearchPicker(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()

	h.ctrl.SearchPicker("dog", 10)
	st := h.ctrl.State()
	if st.Search != "dog" || len(st.Entries) != 1 || st.Entries[0].Code != "🐶" {
		t.Fatalf("search state = %+v", st)
	}

	if err := h.ctrl.PickEntry(0); err != nil {
		t.Fatalf("PickEntry: %v", err)
	}
	if got := h.buf.Text(); got != "🐶" {
		t.Errorf("text = %q", got)
	}
}

func TestSearchPickerClearRestoresCategory(t *testing.T) {
	h := newTestHarness("", newTestCatalog())
	h.ctrl.OpenPicker()
	_ = h.ctrl.SelectCategory(1)

	h.ctrl.SearchPicker("smile", 10)
	h.ctrl.SearchPicker("", 10)

	st := h.ctrl.State()
	if st.Search != "" || st.Category != 1 || st.Entries[0].Code != "🐶" {
		t.Errorf("state = %+v", st)
	}
}

func TestRevisionIncreasesPerRender(t *testing.T) {
	h := newTestHarness("", newTestCatalog(), "Alice")
	h.typeText("@A")
	h.ctrl.OpenPicker()
	_ = h.ctrl.SelectCategory(1)
	h.ctrl.Dismiss()

	for i, r := range h.renders {
		if r.Revision != uint64(i+1) {
			t.Errorf("render %d revision = %d, want %d", i, r.Revision, i+1)
		}
	}
	if got := h.ctrl.State().Revision; got != uint64(len(h.renders)) {
		t.Errorf("state revision = %d, want %d", got, len(h.renders))
	}
}

func TestNewControllerDefaultsTrigger(t *testing.T) {
	c := NewController(Bridge{Surface: surface.NewBuffer(""), Renderer: glyph.Unicode{}}, nil, nil, nil)
	if c.Trigger() != '@' {
		t.Errorf("trigger = %q, want '@'", c.Trigger())
	}
	c.OpenPicker()
	if c.Mode() != ModeIdle {
		t.Error("nil catalog provider should leave the picker closed")
	}
}
