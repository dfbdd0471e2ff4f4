package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/fakeapi"
	"github.com/dkoosis/apptrack/pkg/record"
)

func TestNotes_AddListDelete(t *testing.T) {
	t.Parallel()
	_, c := newFake(t, fakeapi.WithRecords(seed(1)...))
	ctx := context.Background()

	empty, err := c.Notes(ctx, "app-000")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	n, err := c.AddNote(ctx, "app-000", "recruiter called")
	require.NoError(t, err)
	notes, err := c.Notes(ctx, "app-000")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "recruiter called", notes[0].Content)

	require.NoError(t, c.DeleteNote(ctx, "app-000", n.ID))
	assert.ErrorIs(t, c.DeleteNote(ctx, "app-000", n.ID), errors.ErrNotFound)

	_, err = c.AddNote(ctx, "app-000", "  ")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestContacts_AddListDelete(t *testing.T) {
	t.Parallel()
	_, c := newFake(t, fakeapi.WithRecords(seed(1)...))
	ctx := context.Background()

	ct, err := c.AddContact(ctx, "app-000", record.ContactInput{Name: "Dana", Email: "dana@example.com"})
	require.NoError(t, err)
	list, err := c.Contacts(ctx, "app-000")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "dana@example.com", list[0].Email)

	require.NoError(t, c.DeleteContact(ctx, "app-000", ct.ID))
	_, err = c.AddContact(ctx, "app-000", record.ContactInput{})
	assert.ErrorIs(t, err, errors.ErrValidation)
	_, err = c.Contacts(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestReminders_DueAndComplete(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	_, c := newFake(t, fakeapi.WithRecords(seed(1)...), fakeapi.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	soon, err := c.AddReminder(ctx, "app-000", now.Add(48*time.Hour), "follow up")
	require.NoError(t, err)
	_, err = c.AddReminder(ctx, "app-000", now.Add(30*24*time.Hour), "check in")
	require.NoError(t, err)

	due, err := c.DueReminders(ctx, 7)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, soon.ID, due[0].ID)

	done, err := c.CompleteReminder(ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	due, err = c.DueReminders(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, due)

	all, err := c.AllReminders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = c.AddReminder(ctx, "app-000", time.Time{}, "x")
	assert.ErrorIs(t, err, errors.ErrValidation)
	_, err = c.DueReminders(ctx, -1)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestAnalytics_CountsByStatus(t *testing.T) {
	t.Parallel()
	recs := seed(3)
	recs[2].Status = record.StatusOffer
	_, c := newFake(t, fakeapi.WithRecords(recs...))

	a, err := c.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, a.StatusCounts["APPLIED"])
	assert.Equal(t, 1, a.StatusCounts["OFFER"])
	assert.InDelta(t, 100.0/3, a.ConversionRates.AppliedToOffer, 0.01)
}

func TestPreferences_UpdateShowArchived(t *testing.T) {
	t.Parallel()
	_, c := newFake(t)
	ctx := context.Background()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.False(t, me.ShowArchivedApps)

	on := true
	me, err = c.UpdatePreferences(ctx, record.Preferences{ShowArchivedApps: &on})
	require.NoError(t, err)
	assert.True(t, me.ShowArchivedApps)
	assert.False(t, me.EmailNotifications)
}
