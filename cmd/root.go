package cmd

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m96-chan/inkpick/internal/app"
	"github.com/m96-chan/inkpick/internal/config"
	"github.com/m96-chan/inkpick/internal/consts"
	"github.com/m96-chan/inkpick/internal/keyring"
	"github.com/m96-chan/inkpick/internal/logger"
)

// Build information, set from main.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// options holds the parsed command line.
type options struct {
	configPath  string
	logPath     string
	logLevel    string
	namesFile   string
	offline     bool
	sets        []string
	storeSecret string
	version     bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(consts.Name, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config-path", config.DefaultPath(), "path to config file")
	fs.StringVar(&opts.logPath, "log-path", logger.DefaultPath(), "path to log file")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&opts.namesFile, "names-file", "", "file with one mention name per line (overrides names_file)")
	fs.BoolVar(&opts.offline, "offline", false, "use the bundled emoji table instead of the emoji API")
	fs.Func("set", "set a runtime option, e.g. -set renderer=twemoji (repeatable)", func(s string) error {
		opts.sets = append(opts.sets, s)
		return nil
	})
	fs.StringVar(&opts.storeSecret, "store-secret", "", "read a secret from stdin and store it in the keyring (emoji-api-key or slack-token)")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// applyOverrides applies command line overrides on top of the loaded config.
func applyOverrides(cfg *config.Config, opts *options) error {
	if opts.namesFile != "" {
		cfg.NamesFile = opts.namesFile
	}
	if opts.offline {
		cfg.Catalog.Source = config.SourceOffline
	}
	for _, s := range opts.sets {
		c, err := app.ParseSetCommand(s)
		if err != nil {
			return fmt.Errorf("-set %s: %w", s, err)
		}
		if c.Query {
			return fmt.Errorf("-set %s: queries are only available inside the composer", s)
		}
		if _, err := app.ApplySetCommand(cfg, c); err != nil {
			return fmt.Errorf("-set %s: %w", s, err)
		}
	}
	return nil
}

// storeSecret reads one line from r and saves it under name.
func storeSecret(name string, r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	secret := strings.TrimSpace(line)
	if secret == "" {
		return errors.New("empty secret on stdin")
	}

	switch name {
	case "emoji-api-key":
		return keyring.SetEmojiAPIKey(secret)
	case "slack-token":
		return keyring.SetSlackToken(secret)
	default:
		return fmt.Errorf("unknown secret %q (use emoji-api-key or slack-token)", name)
	}
}

// Run parses CLI flags, sets up logging and config, and starts the app.
func Run() error {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if opts.version {
		fmt.Printf("%s %s (%s, %s)\n", consts.Name, Version, Commit, Date)
		return nil
	}
	if opts.storeSecret != "" {
		return storeSecret(opts.storeSecret, os.Stdin)
	}

	closer, err := logger.Setup(opts.logPath, logger.ParseLevel(opts.logLevel))
	if err != nil {
		return err
	}
	defer closer.Close()

	slog.Info("starting "+consts.Name, "version", Version, "config", opts.configPath, "log", opts.logPath)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	return app.New(cfg).Run()
}
