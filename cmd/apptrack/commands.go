package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkoosis/apptrack/internal/fakeapi"
	"github.com/dkoosis/apptrack/internal/version"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/render"
	"github.com/dkoosis/apptrack/pkg/tui"
	"github.com/dkoosis/apptrack/pkg/view"
)

func (a *app) statsCmd() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Status counts, conversion rates and applications per week",
		Long: `stats prints the server's analytics. With --local the same figures are
derived from the fetched application list instead.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			now := a.now()
			if local {
				if _, err := a.store.Ensure(ctx, a.client); err != nil {
					return err
				}
				a.print(render.StatsView{
					Analytics: view.Summarize(a.store.Snapshot(), now),
					Weeks:     view.WeekLabels(now),
					Source:    "local",
				})
				return nil
			}
			an, err := a.client.Analytics(ctx)
			if err != nil {
				return err
			}
			a.print(render.StatsView{Analytics: an, Weeks: weeksOf(an, now), Source: "server"})
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "derive from the fetched list instead of the server")
	return cmd
}

// weeksOf orders the server's week labels. The server uses the same labels as
// the local summary; unrecognised labels are sorted after them.
func weeksOf(an record.Analytics, now time.Time) []string {
	var out []string
	seen := make(map[string]bool, len(an.AppsPerWeek))
	for _, w := range view.WeekLabels(now) {
		if _, ok := an.AppsPerWeek[w]; ok {
			out = append(out, w)
			seen[w] = true
		}
	}
	var rest []string
	for w := range an.AppsPerWeek {
		if !seen[w] {
			rest = append(rest, w)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func (a *app) prefsCmd() *cobra.Command {
	var archived, notify, autoArchive bool
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change account preferences",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			f := cmd.Flags()
			var p record.Preferences
			if f.Changed("archived") {
				p.ShowArchivedApps = &archived
			}
			if f.Changed("email-notifications") {
				p.EmailNotifications = &notify
			}
			if f.Changed("auto-archive") {
				p.AutoArchiveOldApps = &autoArchive
			}

			var (
				u   record.User
				err error
			)
			changed := p != record.Preferences{}
			if changed {
				u, err = a.client.UpdatePreferences(ctx, p)
			} else {
				u, err = a.client.Me(ctx)
			}
			if err != nil {
				return err
			}
			text := fmt.Sprintf("%s <%s>: show archived %t, email notifications %t, auto-archive %t",
				u.Name, u.Email, u.ShowArchivedApps, u.EmailNotifications, u.AutoArchiveOldApps)
			kind := "info"
			if changed {
				kind = "success"
			}
			a.print(render.Message{Kind: kind, Text: text})
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&archived, "archived", false, "show archived applications by default")
	f.BoolVar(&notify, "email-notifications", false, "email reminders")
	f.BoolVar(&autoArchive, "auto-archive", false, "archive stale applications automatically")
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	var board bool
	cmd := &cobra.Command{
		Use:         "tui",
		Short:       "Interactive list and board",
		Args:        noArgs,
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context(), board)
		},
	}
	cmd.Flags().BoolVar(&board, "board", false, "start on the board instead of the list")
	return cmd
}

func (a *app) runTUI(ctx context.Context, board bool) error {
	theme := tui.DefaultTheme()
	if a.cfg.NoColor {
		theme = tui.MonoTheme()
	}
	return tui.Run(ctx, tui.Options{
		Store:        a.store,
		Backend:      a.client,
		Theme:        theme,
		PageSize:     a.cfg.PageSize,
		BoardWindow:  a.cfg.BoardWindow,
		ShowArchived: a.showArchived(ctx),
		Board:        board,
	})
}

func (a *app) fakeServerCmd() *cobra.Command {
	var (
		addr, token string
		empty       bool
	)
	cmd := &cobra.Command{
		Use:         "fake-server",
		Short:       "Serve an in-memory tracker backend for local use",
		Args:        noArgs,
		Annotations: map[string]string{annotationOffline: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []fakeapi.Option
			if token != "" {
				opts = append(opts, fakeapi.WithToken(token))
			}
			if !empty {
				opts = append(opts, fakeapi.WithRecords(fakeapi.Demo(a.now())...))
			}
			a.print(render.Message{Kind: "info", Text: fmt.Sprintf("fake backend on %s (ctrl-c to stop)", addr)})
			return fakeapi.New(opts...).Run(cmd.Context(), addr)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "localhost:8080", "listen address")
	f.StringVar(&token, "require-token", "", "reject requests without this bearer token")
	f.BoolVar(&empty, "empty", false, "start without demo applications")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        noArgs,
		Annotations: map[string]string{annotationOffline: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}
