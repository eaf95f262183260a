// Package cli is the `tasks` command line: one-shot commands over the task
// store, plus the entry points for the terminal UI and the web server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/exitcode"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Version is reported by `tasks --version`.
var Version = "dev"

// usageError marks bad invocations: wrong arguments, unknown commands or flags.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, a ...any) error {
	return usageError{fmt.Errorf(format, a...)}
}

// reported wraps an error whose message was already printed as a notification.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// app holds the state shared by one invocation's commands.
type app struct {
	in          io.Reader
	out, errOut io.Writer

	configPath string
	verbose    bool
	theme      string
	noColor    bool
	group      bool
	showIDs    bool

	cfg     *config.Config
	logger  *log.Logger
	store   *store.Store
	notes   []string
	closers []func() error
}

// Run executes the command line in args and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		in:     stdin,
		out:    stdout,
		errOut: stderr,
		logger: log.New(io.Discard, "", 0),
	}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	var r reported
	if err != nil && !errors.As(err, &r) {
		ui.Fail(stderr, err.Error())
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var ue usageError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &ue),
		errors.Is(err, ErrTaskRefRequired),
		errors.Is(err, store.ErrValidation),
		errors.Is(err, store.ErrNotFound):
		return exitcode.Usage
	}
	return exitcode.Failure
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tasks",
		Short: "A small task list: add, edit, complete and delete tasks",
		Long: `tasks keeps a list of short text tasks.

Run without a command to list them. Tasks are referred to by their position
in that list (1, 2, ...) or by id (id:<n>).`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              noArgs,
		PersistentPreRunE: a.setup,
		RunE:              a.runList,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: ~/.tasks/config.yaml and ./.tasks/config.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log storage warnings to stderr")
	pf.StringVar(&a.theme, "theme", "", "color theme: classic, neon or mono")
	pf.BoolVar(&a.noColor, "no-color", false, "plain ASCII output (same as --theme mono)")

	root.AddCommand(
		a.addCmd(),
		a.editCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.lsCmd(),
		a.uiCmd(),
		a.serveCmd(),
		a.exportCmd(),
		a.authCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads the configuration, then applies the theme and the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.applyTheme(cfg.UI.Theme)
	return a.setupLog(cmd.Name() == "ui")
}

func (a *app) applyTheme(fallback string) {
	theme := fallback
	if a.theme != "" {
		theme = a.theme
	}
	if a.noColor {
		theme = "mono"
	}
	ui.SetTheme(theme)
}

// setupLog sends the log to log.file when set. Otherwise --verbose logs to
// stderr, except under the terminal UI which owns the screen.
func (a *app) setupLog(tui bool) error {
	switch {
	case a.cfg.Log.File != "":
		f, err := tea.LogToFile(a.cfg.Log.File, "tasks")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f.Close)
		a.logger = log.Default()
	case a.verbose && !tui:
		a.logger = log.New(a.errOut, "tasks: ", log.LstdFlags)
	}
	return nil
}

// open returns the initialized store, opening the configured backend once.
func (a *app) open(ctx context.Context) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s := a.cfg.Storage
	b, err := store.OpenBackend(ctx, s.Driver, s.Path, s.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	st := store.New(b,
		store.WithKey(s.Key),
		store.WithLogger(a.logger),
		store.WithNotifier(store.NotifierFunc(a.note)),
	)
	a.closers = append(a.closers, st.Close)
	st.Initialize(ctx)
	a.store = st
	a.logger.Printf("storage: %s, %d tasks", s.Driver, len(st.Tasks()))
	return st, nil
}

func (a *app) note(msg string) { a.notes = append(a.notes, msg) }

// report prints the notifications collected since the last call: to stdout
// on success, to stderr on failure. A failure that produced notifications
// comes back as reported so Run does not print it twice.
func (a *app) report(err error) error {
	notes := a.notes
	a.notes = nil
	for _, n := range notes {
		if err != nil {
			ui.Fail(a.errOut, n)
		} else {
			ui.OK(a.out, n)
		}
	}
	if err != nil && len(notes) > 0 {
		return reported{err}
	}
	return err
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Printf("close: %v", err)
		}
	}
	a.closers = nil
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return usagef("usage: %s", cmd.UseLine())
		}
		return nil
	}
}
