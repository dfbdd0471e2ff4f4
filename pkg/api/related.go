package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/pkg/record"
)

func appPath(id, child string) string {
	return "/apps/" + escape(id) + "/" + child
}

// Notes lists an application's notes.
func (c *Client) Notes(ctx context.Context, appID string) ([]record.Note, error) {
	var out []record.Note
	if err := c.do(ctx, "GET", appPath(appID, "notes"), nil, nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list notes for %s", appID)
	}
	return nonNil(out), nil
}

// AddNote attaches a note.
func (c *Client) AddNote(ctx context.Context, appID, content string) (record.Note, error) {
	if strings.TrimSpace(content) == "" {
		return record.Note{}, errors.Validationf("note content is empty")
	}
	body := struct {
		Content string `json:"content"`
	}{content}
	var n record.Note
	if err := c.do(ctx, "POST", appPath(appID, "notes"), nil, body, &n); err != nil {
		return record.Note{}, errors.Wrapf(err, "add note to %s", appID)
	}
	return n, nil
}

// DeleteNote removes a note.
func (c *Client) DeleteNote(ctx context.Context, appID, noteID string) error {
	if err := c.do(ctx, "DELETE", appPath(appID, "notes/"+escape(noteID)), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "delete note %s", noteID)
	}
	return nil
}

// Contacts lists an application's contacts.
func (c *Client) Contacts(ctx context.Context, appID string) ([]record.Contact, error) {
	var out []record.Contact
	if err := c.do(ctx, "GET", appPath(appID, "contacts"), nil, nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list contacts for %s", appID)
	}
	return nonNil(out), nil
}

// AddContact attaches a contact.
func (c *Client) AddContact(ctx context.Context, appID string, in record.ContactInput) (record.Contact, error) {
	if strings.TrimSpace(in.Name) == "" {
		return record.Contact{}, errors.Validationf("contact name is empty")
	}
	var ct record.Contact
	if err := c.do(ctx, "POST", appPath(appID, "contacts"), nil, in, &ct); err != nil {
		return record.Contact{}, errors.Wrapf(err, "add contact to %s", appID)
	}
	return ct, nil
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, appID, contactID string) error {
	if err := c.do(ctx, "DELETE", appPath(appID, "contacts/"+escape(contactID)), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "delete contact %s", contactID)
	}
	return nil
}

// Reminders lists an application's reminders.
func (c *Client) Reminders(ctx context.Context, appID string) ([]record.Reminder, error) {
	var out []record.Reminder
	if err := c.do(ctx, "GET", appPath(appID, "reminders"), nil, nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list reminders for %s", appID)
	}
	return nonNil(out), nil
}

// AddReminder schedules a reminder.
func (c *Client) AddReminder(ctx context.Context, appID string, at time.Time, message string) (record.Reminder, error) {
	if at.IsZero() {
		return record.Reminder{}, errors.Validationf("reminder time is required")
	}
	body := struct {
		RemindAt time.Time `json:"remindAt"`
		Message  string    `json:"message"`
	}{at, message}
	var r record.Reminder
	if err := c.do(ctx, "POST", appPath(appID, "reminders"), nil, body, &r); err != nil {
		return record.Reminder{}, errors.Wrapf(err, "add reminder to %s", appID)
	}
	return r, nil
}

// DeleteReminder removes a reminder.
func (c *Client) DeleteReminder(ctx context.Context, appID, reminderID string) error {
	if err := c.do(ctx, "DELETE", appPath(appID, "reminders/"+escape(reminderID)), nil, nil, nil); err != nil {
		return errors.Wrapf(err, "delete reminder %s", reminderID)
	}
	return nil
}

// DueReminders lists incomplete reminders due within days.
func (c *Client) DueReminders(ctx context.Context, days int) ([]record.Reminder, error) {
	if days < 0 {
		return nil, errors.Validationf("days must not be negative")
	}
	q := url.Values{"days": {strconv.Itoa(days)}}
	var out []record.Reminder
	if err := c.do(ctx, "GET", "/reminders/due", q, nil, &out); err != nil {
		return nil, errors.Wrap(err, "list due reminders")
	}
	return nonNil(out), nil
}

// AllReminders lists every reminder across applications.
func (c *Client) AllReminders(ctx context.Context) ([]record.Reminder, error) {
	var out []record.Reminder
	if err := c.do(ctx, "GET", "/reminders/all", nil, nil, &out); err != nil {
		return nil, errors.Wrap(err, "list reminders")
	}
	return nonNil(out), nil
}

// CompleteReminder marks a reminder done.
func (c *Client) CompleteReminder(ctx context.Context, reminderID string) (record.Reminder, error) {
	var r record.Reminder
	if err := c.do(ctx, "PATCH", "/reminders/"+escape(reminderID)+"/complete", nil, nil, &r); err != nil {
		return record.Reminder{}, errors.Wrapf(err, "complete reminder %s", reminderID)
	}
	return r, nil
}

// Activity lists an application's audit trail.
func (c *Client) Activity(ctx context.Context, appID string) ([]record.Activity, error) {
	var out []record.Activity
	if err := c.do(ctx, "GET", appPath(appID, "activity"), nil, nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list activity for %s", appID)
	}
	return nonNil(out), nil
}

// Analytics fetches the server-side dashboard summary.
func (c *Client) Analytics(ctx context.Context) (record.Analytics, error) {
	var a record.Analytics
	if err := c.do(ctx, "GET", "/analytics", nil, nil, &a); err != nil {
		return record.Analytics{}, errors.Wrap(err, "fetch analytics")
	}
	return a, nil
}

// Me fetches the signed-in user and their preferences.
func (c *Client) Me(ctx context.Context) (record.User, error) {
	var u record.User
	if err := c.do(ctx, "GET", "/auth/me", nil, nil, &u); err != nil {
		return record.User{}, errors.Wrap(err, "fetch current user")
	}
	return u, nil
}

// UpdatePreferences applies a partial preference update.
func (c *Client) UpdatePreferences(ctx context.Context, p record.Preferences) (record.User, error) {
	var u record.User
	if err := c.do(ctx, "PUT", "/auth/preferences", nil, p, &u); err != nil {
		return record.User{}, errors.Wrap(err, "update preferences")
	}
	return u, nil
}
