package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/render"
)

func (a *app) notesCmd() *cobra.Command {
	var add, rm string
	cmd := &cobra.Command{
		Use:   "notes ID",
		Short: "List, add or remove notes on an application",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var msgs []render.Section
			if cmd.Flags().Changed("add") {
				n, err := a.client.AddNote(ctx, args[0], add)
				if err != nil {
					return err
				}
				msgs = append(msgs, render.Message{Kind: "success", Text: "added note " + n.ID})
			}
			if rm != "" {
				if err := a.client.DeleteNote(ctx, args[0], rm); err != nil {
					return err
				}
				msgs = append(msgs, render.Message{Kind: "success", Text: "removed note " + rm})
			}
			d, err := a.detail(ctx, args[0], detailNotes)
			if err != nil {
				return err
			}
			a.print(append(msgs, d)...)
			return nil
		},
	}
	cmd.Flags().StringVar(&add, "add", "", "add a note with this text")
	cmd.Flags().StringVar(&rm, "rm", "", "remove the note with this id")
	return cmd
}

func (a *app) contactsCmd() *cobra.Command {
	var (
		in record.ContactInput
		rm string
	)
	cmd := &cobra.Command{
		Use:   "contacts ID",
		Short: "List, add or remove contacts on an application",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var msgs []render.Section
			if cmd.Flags().Changed("add") {
				c, err := a.client.AddContact(ctx, args[0], in)
				if err != nil {
					return err
				}
				msgs = append(msgs, render.Message{Kind: "success", Text: fmt.Sprintf("added contact %s (%s)", c.ID, c.Name)})
			}
			if rm != "" {
				if err := a.client.DeleteContact(ctx, args[0], rm); err != nil {
					return err
				}
				msgs = append(msgs, render.Message{Kind: "success", Text: "removed contact " + rm})
			}
			d, err := a.detail(ctx, args[0], detailContacts)
			if err != nil {
				return err
			}
			a.print(append(msgs, d)...)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "add", "", "add a contact with this name")
	f.StringVar(&in.Email, "email", "", "email of the added contact")
	f.StringVar(&in.Phone, "phone", "", "phone of the added contact")
	f.StringVar(&in.LinkedinURL, "linkedin", "", "LinkedIn URL of the added contact")
	f.StringVar(&in.Notes, "note", "", "free text about the added contact")
	f.StringVar(&rm, "rm", "", "remove the contact with this id")
	return cmd
}

func (a *app) remindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List every reminder, or manage them with a subcommand",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.AllReminders(cmd.Context())
			if err != nil {
				return err
			}
			a.print(render.ReminderList{Label: "All reminders", Reminders: list})
			return nil
		},
	}

	var days int
	due := &cobra.Command{
		Use:   "due",
		Short: "Reminders due within the next days",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.DueReminders(cmd.Context(), days)
			if err != nil {
				return err
			}
			a.print(render.ReminderList{Label: fmt.Sprintf("Due within %d days", days), Reminders: list})
			return nil
		},
	}
	due.Flags().IntVar(&days, "days", 7, "look-ahead window in days")

	ls := &cobra.Command{
		Use:   "ls ID",
		Short: "Reminders of one application",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.client.Reminders(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(render.ReminderList{Label: "Reminders for " + args[0], Reminders: list})
			return nil
		},
	}

	var at, in, message string
	add := &cobra.Command{
		Use:   "add ID",
		Short: "Schedule a reminder for an application",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := parseWhen(at, in, a.now())
			if err != nil {
				return err
			}
			r, err := a.client.AddReminder(cmd.Context(), args[0], when, message)
			if err != nil {
				return err
			}
			a.print(render.Message{Kind: "success", Text: fmt.Sprintf("reminder %s set for %s", r.ID, r.RemindAt.Local().Format("2006-01-02 15:04"))})
			return nil
		},
	}
	add.Flags().StringVar(&at, "at", "", "time: YYYY-MM-DD, 'YYYY-MM-DD HH:MM' or RFC 3339")
	add.Flags().StringVar(&in, "in", "", "offset from now: 3d, 2h, 90m")
	add.Flags().StringVarP(&message, "message", "m", "", "reminder text")

	done := &cobra.Command{
		Use:   "done REMINDER_ID",
		Short: "Mark a reminder completed",
		Args:  exactArgs(1, "REMINDER_ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.client.CompleteReminder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.print(render.Message{Kind: "success", Text: "completed reminder " + r.ID})
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID REMINDER_ID",
		Short: "Delete a reminder",
		Args:  exactArgs(2, "ID", "REMINDER_ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.DeleteReminder(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			a.print(render.Message{Kind: "success", Text: "removed reminder " + args[1]})
			return nil
		},
	}

	cmd.AddCommand(due, ls, add, done, rm)
	return cmd
}

// parseWhen resolves --at or --in into an absolute time. Exactly one must be
// given.
func parseWhen(at, in string, now time.Time) (time.Time, error) {
	switch {
	case at != "" && in != "":
		return time.Time{}, errors.Mark(errors.New("use either --at or --in, not both"), errUsage)
	case in != "":
		d, err := parseOffset(in)
		if err != nil {
			return time.Time{}, err
		}
		return now.Add(d), nil
	case at != "":
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
			if t, err := time.ParseInLocation(layout, at, now.Location()); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.WithHint(errors.Validationf("invalid time %q", at), "use YYYY-MM-DD, 'YYYY-MM-DD HH:MM' or RFC 3339")
	default:
		return time.Time{}, errors.Mark(errors.New("reminder time required: pass --at or --in"), errUsage)
	}
}

// parseOffset accepts Go durations plus a day suffix ("3d").
func parseOffset(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if n, ok := strings.CutSuffix(v, "d"); ok {
		days, err := strconv.Atoi(n)
		if err == nil && days >= 0 {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, errors.WithHint(errors.Validationf("invalid offset %q", v), "use 3d, 2h or 90m")
	}
	return d, nil
}

func (a *app) activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity ID",
		Short: "Show the server-side history of an application",
		Args:  exactArgs(1, "ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.detail(cmd.Context(), args[0], detailActivity)
			if err != nil {
				return err
			}
			a.print(d)
			return nil
		},
	}
}
