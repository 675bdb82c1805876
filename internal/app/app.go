package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/m96-chan/inkpick/internal/catalog"
	"github.com/m96-chan/inkpick/internal/catalog/emojiapi"
	"github.com/m96-chan/inkpick/internal/catalog/gomojisrc"
	"github.com/m96-chan/inkpick/internal/clipboard"
	"github.com/m96-chan/inkpick/internal/config"
	"github.com/m96-chan/inkpick/internal/glyph"
	"github.com/m96-chan/inkpick/internal/insert"
	"github.com/m96-chan/inkpick/internal/keyring"
	"github.com/m96-chan/inkpick/internal/mention"
	slackclient "github.com/m96-chan/inkpick/internal/slack"
	"github.com/m96-chan/inkpick/internal/ui/composer"
	"github.com/m96-chan/inkpick/internal/ui/keys"
)

// App is the top-level application struct.
type App struct {
	Config *config.Config
	// Output receives the sent messages and any unsent draft on exit.
	Output io.Writer

	tview  *tview.Application
	view   *composer.View
	ctrl   *insert.Controller
	store  *catalog.Store
	ctx    context.Context
	cancel context.CancelFunc

	// Name sources, merged in this order. Only touched on the UI goroutine.
	fileNames  mention.Directory
	slackNames mention.Directory

	mu   sync.Mutex
	sent []string
}

// New creates a new App with the given config.
func New(cfg *config.Config) *App {
	return &App{
		Config: cfg,
		Output: os.Stdout,
		tview:  tview.NewApplication(),
		store:  &catalog.Store{},
	}
}

// Run builds the composer, starts the background loaders and runs the TUI
// event loop until the user quits.
func (a *App) Run() error {
	a.tview.EnableMouse(a.Config.Mouse)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	defer a.cancel()

	// Set up OS signal handling for graceful shutdown.
	sigCtx, sigStop := signal.NotifyContext(a.ctx, syscall.SIGINT, syscall.SIGTERM)
	defer sigStop()
	go func() {
		<-sigCtx.Done()
		if a.ctx.Err() == nil {
			a.shutdown()
		}
	}()

	a.build()
	a.tview.SetInputCapture(a.handleGlobalKey)
	a.tview.SetRoot(a.view, true)

	a.reloadCatalog()
	a.startNamesWatcher()
	a.startSlackDirectory()

	err := a.tview.Run()
	a.writeTranscript()
	return err
}

// build wires the composer view to a fresh insertion controller.
func (a *App) build() {
	a.view = composer.New(a.tview, a.Config)

	if a.Config.NamesFile != "" {
		names, err := mention.LoadFile(a.Config.NamesFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to read names file", "path", a.Config.NamesFile, "error", err)
		}
		a.fileNames = names
	}

	bridge := insert.Bridge{
		Surface:  a.view.Input.Surface(),
		Renderer: configRenderer{cfg: a.Config},
		Trigger:  a.Config.TriggerRune(),
	}
	a.ctrl = insert.NewController(bridge, a.store, a.directory(), a.view.Render)
	a.view.SetController(a.ctrl)

	a.view.Input.SetOnSend(a.onSend)
	a.view.Input.SetOnReload(a.reloadCatalog)
	a.view.Input.SetOnError(a.reportError)
	a.view.Picker.SetOnError(a.reportError)
	a.view.StatusBar.SetMode(insert.ModeIdle.String())
}

// shutdown stops background work and the event loop.
func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	a.tview.Stop()
}

// handleGlobalKey processes global keybindings. It returns nil to consume the
// event or the original event to let it propagate.
func (a *App) handleGlobalKey(event *tcell.EventKey) *tcell.EventKey {
	name := keys.Normalize(event.Name())

	if name == a.Config.Keybinds.Quit {
		a.shutdown()
		return nil
	}

	return event
}

// directory merges every name source.
func (a *App) directory() mention.Directory {
	return mention.Merge(a.Config.Names, a.fileNames, a.slackNames)
}

// newSource returns the catalog source selected by the config. The emoji
// API needs an access key; without one the bundled table is used.
func (a *App) newSource() catalog.Source {
	if a.Config.Catalog.Source == config.SourceOffline {
		return gomojisrc.New()
	}

	key, err := keyring.GetEmojiAPIKey()
	if err != nil {
		if !errors.Is(err, gokeyring.ErrNotFound) {
			slog.Warn("error reading emoji api key", "error", err)
		}
		slog.Info("no emoji api key, using offline emoji table")
		return gomojisrc.New()
	}

	return emojiapi.New(key,
		emojiapi.WithBaseURL(a.Config.Catalog.BaseURL),
		emojiapi.WithHTTPClient(&http.Client{Timeout: a.Config.Catalog.Timeout}),
	)
}

// reloadCatalog starts a catalog load in the background. A newer reload
// supersedes one still in flight.
func (a *App) reloadCatalog() {
	src := a.newSource()
	opts := catalog.LoadOptions{
		MaxEntries:        a.Config.Catalog.MaxEntries,
		Parallelism:       a.Config.Catalog.Parallelism,
		RequestsPerSecond: a.Config.Catalog.RequestsPerSecond,
	}
	a.view.StatusBar.SetCatalogStatus("catalog: loading")

	go func() {
		ctx, cancel := a.ctx, context.CancelFunc(func() {})
		if a.Config.Catalog.Timeout > 0 {
			ctx, cancel = context.WithTimeout(a.ctx, a.Config.Catalog.Timeout)
		}
		defer cancel()

		cat, err := a.store.Load(ctx, src, opts)
		if errors.Is(err, catalog.ErrSuperseded) {
			return
		}

		var status string
		if err != nil {
			slog.Warn("failed to load emoji catalog", "error", err)
			status = "catalog: unavailable"
			if a.store.Current() != nil {
				status = "catalog: reload failed"
			}
		} else {
			slog.Info("emoji catalog loaded", "categories", cat.Len())
			status = fmt.Sprintf("catalog: %d categories", cat.Len())
		}

		a.tview.QueueUpdateDraw(func() {
			a.view.StatusBar.SetCatalogStatus(status)
		})
	}()
}

// startNamesWatcher reloads mention names whenever the names file changes.
func (a *App) startNamesWatcher() {
	if a.Config.NamesFile == "" {
		return
	}

	w, err := mention.NewWatcher(a.Config.NamesFile, func(names mention.Directory) {
		a.tview.QueueUpdateDraw(func() {
			a.fileNames = names
			a.ctrl.SetDirectory(a.directory())
		})
	})
	if err != nil {
		slog.Warn("failed to watch names file", "path", a.Config.NamesFile, "error", err)
		return
	}

	go func() {
		if err := w.Run(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("names watcher stopped", "error", err)
		}
	}()
}

// startSlackDirectory adds workspace members to the mention names.
func (a *App) startSlackDirectory() {
	if !a.Config.Slack.Enabled {
		return
	}

	token, err := keyring.GetSlackToken()
	if err != nil {
		if !errors.Is(err, gokeyring.ErrNotFound) {
			slog.Warn("error reading slack token", "error", err)
		}
		a.view.StatusBar.SetMessage("slack: no token")
		return
	}

	go func() {
		client, err := slackclient.New(a.ctx, token)
		if err != nil {
			slog.Error("failed to connect to slack", "error", err)
			a.queueMessage("slack: connection failed")
			return
		}

		names, err := client.Members(a.ctx)
		if err != nil {
			slog.Error("failed to list slack members", "error", err)
			a.queueMessage("slack: member list failed")
			return
		}

		slog.Info("slack members loaded", "team", client.TeamName, "count", len(names))
		a.tview.QueueUpdateDraw(func() {
			a.slackNames = names
			a.ctrl.SetDirectory(a.directory())
			a.view.StatusBar.SetMessage(fmt.Sprintf("slack: %d names from %s", len(names), client.TeamName))
		})
	}()
}

// onSend handles the send action: /set commands are applied, anything else
// is recorded and copied to the clipboard.
func (a *App) onSend(text string) {
	if args, ok := strings.CutPrefix(text, "/set"); ok && (args == "" || args[0] == ' ') {
		a.runSetCommand(args)
		return
	}

	a.mu.Lock()
	a.sent = append(a.sent, text)
	a.mu.Unlock()

	if !clipboard.Available() {
		a.view.StatusBar.SetMessage("sent (no clipboard command found)")
		return
	}
	go func() {
		if err := clipboard.WriteText(text); err != nil {
			slog.Error("failed to copy to clipboard", "error", err)
			a.queueMessage("sent (clipboard unavailable)")
			return
		}
		a.queueMessage("sent, copied to clipboard")
	}()
}

// runSetCommand applies a /set command and reacts to the changed option.
func (a *App) runSetCommand(args string) {
	if strings.TrimSpace(args) == "" {
		a.view.StatusBar.SetMessage(ListRuntimeOptions(a.Config))
		return
	}

	c, err := ParseSetCommand(args)
	if err != nil {
		a.reportError(err)
		return
	}
	msg, err := ApplySetCommand(a.Config, c)
	if err != nil {
		a.reportError(err)
		return
	}
	a.view.StatusBar.SetMessage(msg)
	if c.Query {
		return
	}

	switch c.Option {
	case "mouse":
		a.tview.EnableMouse(a.Config.Mouse)
	case "source":
		a.reloadCatalog()
	case "slack":
		if a.Config.Slack.Enabled {
			a.startSlackDirectory()
		} else {
			a.slackNames = nil
			a.ctrl.SetDirectory(a.directory())
		}
	}
}

// reportError shows err in the status bar. Must be called on the UI goroutine.
func (a *App) reportError(err error) {
	slog.Debug("composer action failed", "error", err)
	a.view.StatusBar.SetMessage(err.Error())
}

// queueMessage shows msg in the status bar from any goroutine.
func (a *App) queueMessage(msg string) {
	a.tview.QueueUpdateDraw(func() {
		a.view.StatusBar.SetMessage(msg)
	})
}

// writeTranscript prints the sent messages and the unsent draft.
func (a *App) writeTranscript() {
	if a.Output == nil {
		return
	}

	a.mu.Lock()
	lines := append([]string(nil), a.sent...)
	a.mu.Unlock()

	if a.view != nil {
		if draft := strings.TrimSpace(a.view.Input.GetText()); draft != "" {
			lines = append(lines, draft)
		}
	}
	for _, line := range lines {
		fmt.Fprintln(a.Output, line)
	}
}

// configRenderer renders with the renderer currently named in the config,
// so /set renderer takes effect on the next insertion.
type configRenderer struct {
	cfg *config.Config
}

func (r configRenderer) Render(code string) string {
	g, err := glyph.New(r.cfg.Renderer, r.cfg.TwemojiBaseURL, r.cfg.FallbackGlyph)
	if err != nil {
		g = glyph.Unicode{Fallback: r.cfg.FallbackGlyph}
	}
	return g.Render(code)
}
