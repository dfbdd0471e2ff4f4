package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/pkg/optimistic"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/render"
	"github.com/dkoosis/apptrack/pkg/view"
)

// filterFlags are the selectors shared by ls and board.
type filterFlags struct {
	query    string
	status   string
	priority string
	company  string
	since    int
}

func (ff *filterFlags) register(f *pflag.FlagSet, withStatus bool) {
	f.StringVarP(&ff.query, "query", "q", "", "search company, role and location")
	if withStatus {
		f.StringVar(&ff.status, "status", "", "only this status (SAVED, APPLIED, OA, INTERVIEW, OFFER, REJECTED)")
		f.StringVar(&ff.priority, "priority", "", "only this priority (LOW, MEDIUM, HIGH)")
	}
	f.StringVar(&ff.company, "company", "", "company name contains")
	f.IntVar(&ff.since, "since", 0, "applied within the last N days")
}

func (ff filterFlags) criteria(now time.Time) (view.Criteria, error) {
	c := view.Criteria{
		Query:        ff.query,
		Company:      ff.company,
		AppliedSince: view.SinceDays(now, ff.since),
	}
	if ff.status != "" {
		s, err := parseStatusSelector(ff.status)
		if err != nil {
			return c, err
		}
		c.Status = s
	}
	if ff.priority != "" {
		if strings.EqualFold(ff.priority, view.All) {
			c.Priority = view.All
		} else {
			p, ok := record.ParsePriority(ff.priority)
			if !ok {
				return c, errors.WithHint(errors.Validationf("unknown priority %q", ff.priority), "use LOW, MEDIUM or HIGH")
			}
			c.Priority = p
		}
	}
	return c, nil
}

func parseStatusSelector(v string) (record.Status, error) {
	if strings.EqualFold(v, view.All) {
		return view.All, nil
	}
	return parseStatus(v)
}

func parseStatus(v string) (record.Status, error) {
	s, ok := record.ParseStatus(v)
	if !ok {
		return "", errors.WithHint(errors.Validationf("unknown status %q", v), statusHint())
	}
	return s, nil
}

func statusHint() string {
	names := make([]string, len(record.Statuses))
	for i, s := range record.Statuses {
		names[i] = string(s)
	}
	return "use one of " + strings.Join(names, ", ")
}

type listOptions struct {
	criteria view.Criteria
	page     int
}

func (a *app) lsCmd() *cobra.Command {
	var (
		ff   filterFlags
		page int
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List applications one page at a time",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := ff.criteria(a.now())
			if err != nil {
				return err
			}
			return a.list(cmd.Context(), listOptions{criteria: c, page: page})
		},
	}
	ff.register(cmd.Flags(), true)
	cmd.Flags().IntVar(&page, "page", 1, "page number, clamped to the last page")
	return cmd
}

func (a *app) list(ctx context.Context, opts listOptions) error {
	if _, err := a.store.Ensure(ctx, a.client); err != nil {
		return err
	}
	l := view.NewList(a.cfg.PageSize).WithCriteria(opts.criteria)
	if opts.page > 1 {
		l = l.GoTo(opts.page)
	}
	_, page := l.Derive(a.store.Snapshot(), a.showArchived(ctx))
	a.print(render.ListView{Criteria: opts.criteria, Page: page})
	return nil
}

func (a *app) boardCmd() *cobra.Command {
	var (
		ff   filterFlags
		more []string
	)
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show applications in status columns",
		Long: `board groups applications into one column per status. Each column shows
the first cards of its window; --more STATUS reveals one more window of that
column and may be repeated.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := ff.criteria(a.now())
			if err != nil {
				return err
			}
			b := view.NewBoard(a.cfg.BoardWindow).WithCriteria(c)
			for _, m := range more {
				s, err := parseStatus(m)
				if err != nil {
					return err
				}
				b = b.More(s)
			}
			ctx := cmd.Context()
			if _, err := a.store.Ensure(ctx, a.client); err != nil {
				return err
			}
			a.print(render.BoardView{Columns: b.Derive(a.store.Snapshot(), a.showArchived(ctx))})
			return nil
		},
	}
	ff.register(cmd.Flags(), false)
	cmd.Flags().StringArrayVar(&more, "more", nil, "reveal one more window of STATUS (repeatable)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one application with its notes, contacts, reminders and activity",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.detail(cmd.Context(), args[0], detailAll)
			if err != nil {
				return err
			}
			a.print(d)
			return nil
		},
	}
}

type detailParts int

const (
	detailNotes detailParts = 1 << iota
	detailContacts
	detailReminders
	detailActivity

	detailAll = detailNotes | detailContacts | detailReminders | detailActivity
)

func (a *app) detail(ctx context.Context, id string, parts detailParts) (render.DetailView, error) {
	var (
		d   render.DetailView
		err error
	)
	if d.Record, err = a.client.GetApp(ctx, id); err != nil {
		return d, err
	}
	if parts&detailNotes != 0 {
		if d.Notes, err = a.client.Notes(ctx, id); err != nil {
			return d, err
		}
	}
	if parts&detailContacts != 0 {
		if d.Contacts, err = a.client.Contacts(ctx, id); err != nil {
			return d, err
		}
	}
	if parts&detailReminders != 0 {
		if d.Reminders, err = a.client.Reminders(ctx, id); err != nil {
			return d, err
		}
	}
	if parts&detailActivity != 0 {
		if d.Activity, err = a.client.Activity(ctx, id); err != nil {
			return d, err
		}
	}
	return d, nil
}

// inputFlags are the writable fields accepted by add and edit.
type inputFlags struct {
	company  string
	role     string
	location string
	status   string
	priority string
	applied  string
	url      string
}

func (in *inputFlags) register(f *pflag.FlagSet) {
	f.StringVar(&in.company, "company", "", "company name")
	f.StringVar(&in.role, "role", "", "role title")
	f.StringVar(&in.location, "location", "", "location")
	f.StringVar(&in.status, "status", "", "status (default SAVED)")
	f.StringVar(&in.priority, "priority", "", "priority (default MEDIUM)")
	f.StringVar(&in.applied, "applied", "", "date applied: YYYY-MM-DD, 'today', or 'none'")
	f.StringVar(&in.url, "url", "", "job posting URL")
}

// apply copies the flags that changed onto dst.
func (in inputFlags) apply(f *pflag.FlagSet, dst *record.Input, now time.Time) error {
	if f.Changed("company") {
		dst.Company = in.company
	}
	if f.Changed("role") {
		dst.Role = in.role
	}
	if f.Changed("location") {
		dst.Location = in.location
	}
	if f.Changed("url") {
		dst.JobURL = in.url
	}
	if f.Changed("status") {
		s, err := parseStatus(in.status)
		if err != nil {
			return err
		}
		dst.Status = s
	}
	if f.Changed("priority") {
		p, ok := record.ParsePriority(in.priority)
		if !ok {
			return errors.WithHint(errors.Validationf("unknown priority %q", in.priority), "use LOW, MEDIUM or HIGH")
		}
		dst.Priority = p
	}
	if f.Changed("applied") {
		d, err := parseDate(in.applied, now)
		if err != nil {
			return err
		}
		dst.DateApplied = d
	}
	return nil
}

// parseDate reads a calendar day in local time. "none" clears the date.
func parseDate(v string, now time.Time) (*time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "":
		return nil, nil
	case "today":
		d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &d, nil
	}
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(v), now.Location())
	if err != nil {
		return nil, errors.WithHint(errors.Validationf("invalid date %q", v), "use YYYY-MM-DD")
	}
	return &d, nil
}

func (a *app) addCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an application",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input record.Input
			if err := in.apply(cmd.Flags(), &input, a.now()); err != nil {
				return err
			}
			r, err := a.client.CreateApp(cmd.Context(), input)
			if err != nil {
				return err
			}
			a.print(
				render.Message{Kind: "success", Text: fmt.Sprintf("created %s", r.ID)},
				render.DetailView{Record: r},
			)
			return nil
		},
	}
	in.register(cmd.Flags())
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of an application",
		Long:  "edit sends the application back with only the given flags changed.",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cur, err := a.client.GetApp(ctx, args[0])
			if err != nil {
				return err
			}
			input := record.InputOf(cur)
			if err := in.apply(cmd.Flags(), &input, a.now()); err != nil {
				return err
			}
			r, err := a.client.UpdateApp(ctx, cur.ID, input)
			if err != nil {
				return err
			}
			a.print(
				render.Message{Kind: "success", Text: fmt.Sprintf("updated %s", r.ID)},
				render.DetailView{Record: r},
			)
			return nil
		},
	}
	in.register(cmd.Flags())
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete an application",
		Args:    exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteApp(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.print(render.Message{Kind: "success", Text: fmt.Sprintf("deleted %s", args[0])})
			return nil
		},
	}
}

func (a *app) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move ID STATUS",
		Short: "Move an application to another status",
		Args:  exactArgs(2, "ID", "STATUS"),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseStatus(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := a.store.Ensure(ctx, a.client); err != nil {
				return err
			}
			return a.move(ctx, args[0], to)
		},
	}
}

func (a *app) move(ctx context.Context, id string, to record.Status) error {
	coord := optimistic.New(a.store, a.client)
	res, err := coord.Move(ctx, id, to)
	if errors.Is(err, optimistic.ErrNoChange) {
		a.print(render.Message{Kind: "info", Text: fmt.Sprintf("%s is already %s", id, to.Label())})
		return nil
	}
	if err != nil {
		return err
	}
	return a.reportMove(res)
}

// reportMove prints a committed move or turns a failed one into an error.
func (a *app) reportMove(res optimistic.Result) error {
	switch res.Outcome {
	case optimistic.Committed:
		a.print(render.Message{Kind: "success", Text: fmt.Sprintf("moved %s from %s to %s", res.ID, res.From.Label(), res.To.Label())})
		return nil
	case optimistic.Gone:
		return errors.WithHint(res.Err, "the application was deleted elsewhere")
	case optimistic.Reverted:
		return errors.WithHintf(res.Err, "%s is still %s", res.ID, res.From.Label())
	case optimistic.Superseded:
		a.print(render.Message{Kind: "info", Text: fmt.Sprintf("move of %s to %s was replaced by a later move", res.ID, res.To.Label())})
		return nil
	default:
		return errors.Newf("move %s to %s: unexpected outcome %s", res.ID, res.To, res.Outcome)
	}
}

func (a *app) archiveCmd(archived bool) *cobra.Command {
	use, verb := "archive", "archived"
	short := "Hide an application from default views"
	if !archived {
		use, verb = "unarchive", "unarchived"
		short = "Return an archived application to default views"
	}
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.client.SetArchived(cmd.Context(), args[0], archived)
			if err != nil {
				return err
			}
			a.print(render.Message{Kind: "success", Text: fmt.Sprintf("%s %s (%s, %s)", verb, r.ID, r.Company, r.Role)})
			return nil
		},
	}
}
