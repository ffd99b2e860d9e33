// Package cli is the command line: the bare command opens the terminal UI and
// the subcommands cover the same operations for scripting.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jask/expensetracker/internal/app"
	"github.com/jask/expensetracker/internal/config"
	"github.com/jask/expensetracker/internal/logger"
	"github.com/jask/expensetracker/internal/session"
	"github.com/jask/expensetracker/internal/tui"
)

// Options replace the process defaults, mainly for tests.
type Options struct {
	// Config skips config.Load when set.
	Config *config.Config
	// Logger replaces the stderr logger used by subcommands.
	Logger    *zerolog.Logger
	Overrides app.Overrides
	// ReadPassword defaults to a no-echo read from the terminal.
	ReadPassword func(prompt string) (string, error)
}

type runner struct {
	opts       Options
	configPath string
	logLevel   string
}

// NewRootCommand builds the command tree.
func NewRootCommand(opts Options) *cobra.Command {
	r := &runner{opts: opts}
	root := &cobra.Command{
		Use:           "expensetracker",
		Short:         "Track income and expenses from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.runTUI(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&r.configPath, "config", "", "config file (default $HOME/.config/expensetracker/config.toml)")
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		r.loginCommand(),
		r.logoutCommand(),
		r.whoamiCommand(),
		r.transactionsCommand(),
		r.reportCommand(),
		r.configCommand(),
	)
	return root
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute(ctx context.Context) int {
	root := NewRootCommand(Options{})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (r *runner) loadConfig() (config.Config, error) {
	var cfg config.Config
	if r.opts.Config != nil {
		cfg = *r.opts.Config
	} else {
		if r.configPath != "" {
			if err := os.Setenv("EXPENSETRACKER_CONFIG", r.configPath); err != nil {
				return cfg, err
			}
		}
		var err error
		if cfg, err = config.Load(); err != nil {
			return cfg, err
		}
		if err := cfg.Validate(); err != nil {
			return cfg, err
		}
	}
	if r.logLevel != "" {
		cfg.Log.Level = r.logLevel
	}
	return cfg, nil
}

// build assembles the app for a subcommand, logging to stderr.
func (r *runner) build(ctx context.Context) (*app.App, error) {
	cfg, err := r.loadConfig()
	if err != nil {
		return nil, err
	}
	var log zerolog.Logger
	if r.opts.Logger != nil {
		log = *r.opts.Logger
	} else {
		log = logger.New().Level(logger.ParseLevel(cfg.Log.Level))
	}
	return app.Build(ctx, cfg, log, r.opts.Overrides)
}

func (r *runner) runTUI(ctx context.Context) error {
	cfg, err := r.loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := logger.NewFile(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closer.Close()
	ctx = logger.WithContext(ctx, log)
	log.Info().Msg("starting")

	a, err := app.Build(ctx, cfg, log, r.opts.Overrides)
	if err != nil {
		return err
	}
	defer a.Close()

	watch, err := session.NewWatcher(a.Session, cfg.Session.WatchInterval, logger.Component(log, "watcher"), nil)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Deps{
		Session:   a.Session,
		Ledger:    a.Ledger,
		Reporter:  a.Reporter,
		Accounts:  a.Accounts,
		Dashboard: a.Dashboard,
		UI:        cfg.UI,
		Log:       log,
		Logout:    a.Logout,
	}, watch)
}

// withApp builds the app, runs fn with the command logger on its context
// and closes the cache.
func (r *runner) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	a, err := r.build(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	log := logger.Component(a.Log, "cli").With().Str("command", cmd.CommandPath()).Logger()
	ctx := logger.WithContext(cmd.Context(), log)
	if err := fn(ctx, a); err != nil {
		log.Debug().Err(err).Msg("command failed")
		return err
	}
	return nil
}

// requireLogin fails early with a hint rather than letting the API refuse.
func requireLogin(a *app.App) error {
	if !a.Session.IsLoggedIn() {
		return errors.New("not logged in; run `expensetracker login` first")
	}
	return nil
}

func (r *runner) readPassword(cmd *cobra.Command, prompt string) (string, error) {
	if r.opts.ReadPassword != nil {
		return r.opts.ReadPassword(prompt)
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(cmd.InOrStdin())
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
