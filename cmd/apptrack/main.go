// apptrack is a terminal client for the job-application tracker.
//
// Usage:
//
//	apptrack                      # interactive board when stdout is a TTY
//	apptrack ls -q acme --status INTERVIEW
//	apptrack board --more APPLIED
//	apptrack move 42 OFFER
//	apptrack fake-server --addr :8080
//
// Output modes (auto-detected):
//
//	terminal  styled output (default when TTY)
//	plain     tab-separated text (default when piped)
//	json      structured JSON for automation
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dkoosis/apptrack/internal/config"
	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/logger"
	"github.com/dkoosis/apptrack/pkg/api"
	"github.com/dkoosis/apptrack/pkg/render"
	"github.com/dkoosis/apptrack/pkg/store"
)

// errUsage marks command-line mistakes; they exit with code 2.
var errUsage = errors.New("usage error")

const (
	annotationOffline     = "offline"
	annotationInteractive = "interactive"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries the state shared by every command in one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	flags  config.CliFlags
	format string

	cfg         *config.ResolvedConfig
	client      *api.Client
	store       *store.Store
	out         render.Renderer
	interactive bool
}

// run executes the CLI and returns the exit code, so tests can call it
// without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdout: stdout, stderr: stderr, now: time.Now}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	logger.Cleanup()
	if err == nil {
		return 0
	}
	a.fail(err)
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "apptrack",
		Short: "Track job applications from the terminal",
		Long: `apptrack talks to the job-application tracker's REST API.

With no command it opens the interactive board when stdout is a terminal and
prints the application list otherwise.

Configuration is read from ./.apptrack.yaml or $XDG_CONFIG_HOME/apptrack/.apptrack.yaml,
then APPTRACK_* environment variables (a .env file is loaded first), then flags.`,
		Args:              noArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.interactive {
				return a.runTUI(cmd.Context(), false)
			}
			return a.list(cmd.Context(), listOptions{})
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Mark(err, errUsage)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.APIURL, "api-url", "", "tracker base URL (env APPTRACK_API_URL)")
	pf.StringVar(&a.flags.Token, "token", "", "bearer token (env APPTRACK_TOKEN)")
	pf.IntVar(&a.flags.PageSize, "page-size", 0, "rows per list page")
	pf.BoolVar(&a.flags.ShowArchived, "show-archived", false, "include archived applications (default: account preference)")
	pf.StringVar(&a.flags.Theme, "theme", "", "terminal theme: default, orca, mono")
	pf.BoolVar(&a.flags.NoColor, "no-color", false, "disable colors")
	pf.BoolVar(&a.flags.Debug, "debug", false, "debug logging")
	pf.StringVar(&a.format, "format", "auto", "output format: auto, terminal, plain, json")

	root.AddCommand(
		a.lsCmd(),
		a.boardCmd(),
		a.showCmd(),
		a.addCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.moveCmd(),
		a.archiveCmd(true),
		a.archiveCmd(false),
		a.notesCmd(),
		a.contactsCmd(),
		a.remindersCmd(),
		a.activityCmd(),
		a.statsCmd(),
		a.prefsCmd(),
		a.tuiCmd(),
		a.fakeServerCmd(),
		a.versionCmd(),
	)
	return root
}

// setup resolves configuration, then builds the logger, renderer and client
// for cmd.
func (a *app) setup(cmd *cobra.Command) error {
	f := cmd.Flags()
	a.flags.ShowArchivedSet = f.Changed("show-archived")
	a.flags.NoColorSet = f.Changed("no-color")
	a.flags.DebugSet = f.Changed("debug")
	a.interactive = cmd.Annotations[annotationInteractive] == "true" ||
		(!cmd.HasParent() && isTTYWriter(a.stdout))

	mode, err := resolveFormat(a.format, a.stdout)
	if err != nil {
		return err
	}

	if cmd.Annotations[annotationOffline] == "true" {
		a.out = render.New(mode, render.ThemeByName(a.flags.Theme), 80)
		return logger.Initialize(logger.Options{Debug: a.flags.Debug, Writer: a.stderr})
	}

	cfg, err := config.Resolve(a.flags)
	if err != nil {
		return errors.Wrap(err, "load configuration")
	}
	a.cfg = cfg

	theme := render.ThemeByName(cfg.Theme)
	if cfg.NoColor {
		theme = render.MonoTheme()
	}
	width, _ := termSize(a.stdout)
	a.out = render.New(mode, theme, width)

	logOpts := logger.Options{JSON: mode == render.FormatJSON, Debug: cfg.Debug, Writer: a.stderr}
	if a.interactive {
		logOpts = logger.Options{Debug: cfg.Debug, File: cfg.LogFile}
	}
	if err := logger.Initialize(logOpts); err != nil {
		return errors.Wrap(err, "initialize logger")
	}
	logger.Logger.Debugw("configuration resolved",
		"config", cfg.ConfigPath,
		"api_url", cfg.APIURL,
		"api_url_source", cfg.APIURLSource,
		"token_source", cfg.TokenSource,
		"page_size_source", cfg.PageSizeSource,
	)

	client, err := api.New(cfg.APIURL,
		api.WithToken(cfg.Token),
		api.WithTimeout(cfg.Timeout),
		api.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		api.WithLogger(logger.Named("api")),
	)
	if err != nil {
		return err
	}
	a.client = client
	a.store = store.New()
	return nil
}

// showArchived is the configured visibility, falling back to the account
// preference.
func (a *app) showArchived(ctx context.Context) bool {
	if a.cfg.ShowArchived != nil {
		return *a.cfg.ShowArchived
	}
	me, err := a.client.Me(ctx)
	if err != nil {
		logger.Logger.Debugw("account preferences unavailable", "error", err)
		return false
	}
	return me.ShowArchivedApps
}

func (a *app) print(sections ...render.Section) {
	fmt.Fprint(a.stdout, a.out.Render(sections...))
}

// fail writes err to stderr in the active output format.
func (a *app) fail(err error) {
	out := a.out
	if out == nil {
		out = render.NewPlain()
	}
	fmt.Fprint(a.stderr, out.Render(render.Message{
		Kind:  "error",
		Text:  err.Error(),
		Hints: a.hints(err),
	}))
}

func (a *app) hints(err error) []string {
	hints := errors.GetAllHints(err)
	apiURL := config.DefaultAPIURL
	if a.cfg != nil {
		apiURL = a.cfg.APIURL
	}
	switch {
	case errors.Is(err, errUsage):
		hints = append(hints, "run 'apptrack --help' for usage")
	case errors.Is(err, errors.ErrUnauthorized):
		hints = append(hints, "set APPTRACK_TOKEN or pass --token")
	case errors.Is(err, errors.ErrNetwork):
		hints = append(hints,
			fmt.Sprintf("check that the tracker is reachable at %s", apiURL),
			"'apptrack fake-server' serves a local demo backend")
	case errors.Is(err, errors.ErrNotFound):
		hints = append(hints, "'apptrack ls' lists current ids")
	}
	return hints
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		if cmd.HasSubCommands() {
			return errors.Mark(errors.Newf("unknown command %q for %q", args[0], cmd.CommandPath()), errUsage)
		}
		return errors.Mark(errors.Newf("%s takes no arguments", cmd.CommandPath()), errUsage)
	}
	return nil
}

func exactArgs(n int, names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return errors.Mark(errors.Newf("%s expects %d argument(s): %v, got %d", cmd.CommandPath(), n, names, len(args)), errUsage)
		}
		return nil
	}
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

func resolveFormat(format string, w io.Writer) (render.Format, error) {
	switch format {
	case "auto", "":
		if isTTYWriter(w) {
			return render.FormatTerminal, nil
		}
		return render.FormatPlain, nil
	case string(render.FormatTerminal), string(render.FormatPlain), string(render.FormatJSON):
		return render.Format(format), nil
	default:
		return "", errors.Mark(errors.Newf("unknown format %q (expected auto, terminal, plain, json)", format), errUsage)
	}
}
