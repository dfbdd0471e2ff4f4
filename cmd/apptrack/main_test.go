package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/apptrack/internal/errors"
	"github.com/dkoosis/apptrack/internal/fakeapi"
	"github.com/dkoosis/apptrack/pkg/optimistic"
	"github.com/dkoosis/apptrack/pkg/record"
	"github.com/dkoosis/apptrack/pkg/render"
	"github.com/dkoosis/apptrack/pkg/view"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func day(daysAgo int) *time.Time {
	d := time.Now().AddDate(0, 0, -daysAgo)
	return &d
}

func fixture() []record.Record {
	return []record.Record{
		{ID: "a1", Company: "Acme", Role: "Backend Engineer", Status: record.StatusApplied, Priority: record.PriorityHigh, DateApplied: day(2)},
		{ID: "a2", Company: "Globex", Role: "SRE", Status: record.StatusInterview, Priority: record.PriorityMedium, DateApplied: day(10)},
		{ID: "a3", Company: "Initech", Role: "Go Developer", Status: record.StatusSaved, Priority: record.PriorityLow},
		{ID: "a4", Company: "Hooli", Role: "Platform", Status: record.StatusRejected, Priority: record.PriorityLow, Archived: true, DateApplied: day(90)},
	}
}

// isolate runs in an empty directory with no config files or APPTRACK_*
// environment.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	for _, k := range []string{
		"APPTRACK_API_URL", "APPTRACK_TOKEN", "APPTRACK_PAGE_SIZE",
		"APPTRACK_SHOW_ARCHIVED", "APPTRACK_THEME", "APPTRACK_DEBUG", "NO_COLOR",
	} {
		t.Setenv(k, "")
	}
}

// newCLI starts a fake backend seeded with fixture() and returns a runner
// pointed at it with plain output.
func newCLI(t *testing.T, opts ...fakeapi.Option) (*fakeapi.Server, func(args ...string) result) {
	t.Helper()
	isolate(t)
	srv := fakeapi.New(append([]fakeapi.Option{fakeapi.WithRecords(fixture()...)}, opts...)...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, func(args ...string) result {
		var stdout, stderr bytes.Buffer
		full := append([]string{"--api-url", ts.URL, "--format", "plain"}, args...)
		code := run(full, &stdout, &stderr)
		return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
	}
}

func TestRun_ListsVisibleApplications_When_PlainFormat(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# page 1/1 total 3")
	assert.Contains(t, res.stdout, "a1\tAcme\tBackend Engineer\tAPPLIED\tHIGH\t")
	assert.NotContains(t, res.stdout, "Hooli")
}

func TestRun_ListsByDefault_When_NoCommandAndNotTTY(t *testing.T) {
	_, cli := newCLI(t)

	res := cli()
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 3")
}

func TestRun_ShowsArchived_When_AccountPreferenceOn(t *testing.T) {
	srv, cli := newCLI(t)
	srv.SetShowArchived(true)

	res := cli("ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 4")

	res = cli("--show-archived=false", "ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 3")
}

func TestRun_FiltersList_When_SelectorsGiven(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("ls", "--status", "interview")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 1")
	assert.Contains(t, res.stdout, "Globex")

	res = cli("ls", "-q", "ACME")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 1")
	assert.Contains(t, res.stdout, "a1\t")

	res = cli("ls", "--since", "7")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 1")
}

func TestRun_PaginatesList_When_PageSizeSmall(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("--page-size", "2", "ls", "--page", "2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# page 2/2 total 3")

	res = cli("--page-size", "2", "ls", "--page", "9")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# page 2/2 total 3")
}

func TestRun_ReportsValidation_When_StatusUnknown(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("ls", "--status", "ghosted")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `ERROR: unknown status "ghosted"`)
	assert.Contains(t, res.stderr, "HINT: use one of SAVED, APPLIED, OA, INTERVIEW, OFFER, REJECTED")
}

func TestRun_ExitsTwo_When_UsageIsWrong(t *testing.T) {
	_, cli := newCLI(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown command", []string{"frobnicate"}, "unknown command"},
		{"unknown flag", []string{"ls", "--nope"}, "unknown flag"},
		{"missing argument", []string{"show"}, "expects 1 argument"},
		{"bad format", []string{"--format", "xml", "ls"}, "unknown format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := cli(tt.args...)
			assert.Equal(t, 2, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.Contains(t, res.stderr, "apptrack --help")
		})
	}
}

func TestRun_RendersBoardJSON_When_FormatJSON(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("--format", "json", "board")
	require.Equal(t, 0, res.code, res.stderr)

	var out struct {
		Version  string `json:"version"`
		Sections []struct {
			Type string `json:"type"`
			Data struct {
				Columns []struct {
					Status string `json:"status"`
					Total  int    `json:"total"`
				} `json:"columns"`
			} `json:"data"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.Len(t, out.Sections, 1)
	assert.Equal(t, "board", out.Sections[0].Type)

	cols := out.Sections[0].Data.Columns
	require.Len(t, cols, len(record.Statuses))
	totals := map[string]int{}
	for _, c := range cols {
		totals[c.Status] = c.Total
	}
	assert.Equal(t, 1, totals["APPLIED"])
	assert.Equal(t, 1, totals["INTERVIEW"])
	assert.Equal(t, 0, totals["REJECTED"], "archived card hidden")
}

func TestRun_RevealsMoreCards_When_MoreRepeated(t *testing.T) {
	isolate(t)
	var recs []record.Record
	for i := 0; i < 12; i++ {
		recs = append(recs, record.Record{Company: "C", Role: "R", Status: record.StatusApplied})
	}
	ts := httptest.NewServer(fakeapi.New(fakeapi.WithRecords(recs...)).Handler())
	t.Cleanup(ts.Close)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--api-url", ts.URL, "--format", "plain", "board", "--more", "applied"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "## APPLIED 12")
	assert.Contains(t, stdout.String(), "+2 more")
}

func TestRun_SendsNothing_When_AddMissesRequiredFields(t *testing.T) {
	srv, cli := newCLI(t)

	res := cli("add", "--company", "Acme")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "role")
	assert.Equal(t, 0, srv.Requests())
}

func TestRun_CreatesApplication_When_AddIsComplete(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("add", "--company", "Umbrella", "--role", "Go Developer", "--status", "applied", "--applied", "2024-03-01")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "SUCCESS: created ")
	assert.Contains(t, res.stdout, "company\tUmbrella")
	assert.Contains(t, res.stdout, "status\tAPPLIED")
	assert.Contains(t, res.stdout, "applied\t2024-03-01")
}

func TestRun_EditKeepsOtherFields_When_OneFlagGiven(t *testing.T) {
	srv, cli := newCLI(t)

	res := cli("edit", "a1", "--location", "Remote")
	require.Equal(t, 0, res.code, res.stderr)

	r, ok := srv.Record("a1")
	require.True(t, ok)
	assert.Equal(t, "Remote", r.Location)
	assert.Equal(t, "Acme", r.Company)
	assert.Equal(t, record.StatusApplied, r.Status)
	assert.Equal(t, record.PriorityHigh, r.Priority)
}

func TestRun_MovesApplication_When_ServerAccepts(t *testing.T) {
	srv, cli := newCLI(t)

	res := cli("move", "a1", "interview")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "SUCCESS: moved a1 from Applied to Interview")

	r, _ := srv.Record("a1")
	assert.Equal(t, record.StatusInterview, r.Status)

	res = cli("activity", "a1")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "STATUS_CHANGED")
}

func TestRun_ReportsRevert_When_ServerRejectsMove(t *testing.T) {
	srv, cli := newCLI(t)
	srv.FailNext("a1", http.StatusInternalServerError)

	res := cli("move", "a1", "OFFER")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "move a1 to OFFER")
	assert.Contains(t, res.stderr, "HINT: a1 is still Applied")

	r, _ := srv.Record("a1")
	assert.Equal(t, record.StatusApplied, r.Status)
}

func TestRun_ReportsNoChange_When_MoveToCurrentStatus(t *testing.T) {
	srv, cli := newCLI(t)

	res := cli("move", "a1", "applied")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "INFO: a1 is already Applied")
	assert.Equal(t, 1, srv.Requests(), "only the list fetch")
}

func TestReportMove_HintsOnlyOnRevert_When_OutcomeDiffers(t *testing.T) {
	ticket := optimistic.Ticket{ID: "a1", Seq: 1, From: record.StatusApplied, To: record.StatusOffer}
	failure := errors.Mark(errors.New("move a1 to OFFER: boom"), errors.ErrServer)

	tests := []struct {
		name      string
		res       optimistic.Result
		wantErr   bool
		wantHint  string
		wantPrint string
	}{
		{"committed", optimistic.Result{Ticket: ticket, Outcome: optimistic.Committed}, false, "", "moved a1 from Applied to Offer"},
		{"reverted", optimistic.Result{Ticket: ticket, Outcome: optimistic.Reverted, Err: failure}, true, "a1 is still Applied", ""},
		{"gone", optimistic.Result{Ticket: ticket, Outcome: optimistic.Gone, Err: failure}, true, "the application was deleted elsewhere", ""},
		{"superseded", optimistic.Result{Ticket: ticket, Outcome: optimistic.Superseded}, false, "", "replaced by a later move"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			a := &app{stdout: &stdout, out: render.NewPlain()}

			err := a.reportMove(tt.res)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Contains(t, stdout.String(), tt.wantPrint)
				assert.NotContains(t, stdout.String(), "is still")
				return
			}
			require.Error(t, err)
			assert.Equal(t, []string{tt.wantHint}, errors.GetAllHints(err))
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_HintsAtList_When_ApplicationMissing(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("rm", "nope")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "HINT: 'apptrack ls' lists current ids")
}

func TestRun_HintsAtToken_When_Unauthorized(t *testing.T) {
	_, cli := newCLI(t, fakeapi.WithToken("secret"))

	res := cli("ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "HINT: set APPTRACK_TOKEN or pass --token")

	res = cli("--token", "secret", "ls")
	assert.Equal(t, 0, res.code, res.stderr)
}

func TestRun_HintsAtFakeServer_When_BackendUnreachable(t *testing.T) {
	isolate(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{"--api-url", url, "--format", "plain", "ls"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "reachable at "+url)
	assert.Contains(t, stderr.String(), "apptrack fake-server")
}

func TestRun_ManagesNotes(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("notes", "a1", "--add", "recruiter called")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "SUCCESS: added note ")
	assert.Contains(t, res.stdout, "recruiter called")

	res = cli("notes", "a1", "--add", "")
	assert.Equal(t, 1, res.code)
}

func TestRun_ManagesContacts(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("contacts", "a2", "--add", "Dana", "--email", "dana@example.com")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "contact\t")
	assert.Contains(t, res.stdout, "Dana\tdana@example.com")
}

func TestRun_ListsDueReminders_When_AddedWithinWindow(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("reminders", "add", "a1", "--in", "2d", "-m", "follow up")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "SUCCESS: reminder ")

	res = cli("reminders", "add", "a2", "--in", "30d", "-m", "later")
	require.Equal(t, 0, res.code, res.stderr)

	res = cli("reminders", "due", "--days", "7")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# due within 7 days 1")
	assert.Contains(t, res.stdout, "follow up")

	res = cli("reminders")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "# all reminders 2")
}

func TestRun_ExitsTwo_When_ReminderTimeMissing(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("reminders", "add", "a1", "-m", "x")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "--at or --in")
}

func TestRun_DerivesStats_When_Local(t *testing.T) {
	_, cli := newCLI(t)

	res := cli("stats", "--local")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "status\tAPPLIED\t1")
	assert.Contains(t, res.stdout, "status\tINTERVIEW\t1")
	assert.Contains(t, res.stdout, "week\tWeek of ")

	server := cli("stats")
	require.Equal(t, 0, server.code, server.stderr)
	assert.Contains(t, server.stdout, "status\tAPPLIED\t1")
}

func TestRun_TogglesArchivePreference(t *testing.T) {
	srv, cli := newCLI(t)

	res := cli("archive", "a1")
	require.Equal(t, 0, res.code, res.stderr)
	r, _ := srv.Record("a1")
	assert.True(t, r.Archived)

	res = cli("prefs", "--archived")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "show archived true")

	res = cli("ls")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "total 4")
}

func TestRun_PrintsVersion_When_ConfigInvalid(t *testing.T) {
	isolate(t)
	t.Setenv("APPTRACK_API_URL", "not a url")

	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "apptrack dev")
}

func TestParseWhen(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	got, err := parseWhen("", "3d", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(72*time.Hour), got)

	got, err = parseWhen("", "90m", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(90*time.Minute), got)

	got, err = parseWhen("2024-03-12 14:30", "", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 12, 14, 30, 0, 0, time.UTC), got)

	_, err = parseWhen("2024-03-12", "1d", now)
	assert.True(t, errors.Is(err, errUsage))

	_, err = parseWhen("next tuesday", "", now)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = parseWhen("", "-2h", now)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestParseDate_ClearsDate_When_None(t *testing.T) {
	now := time.Date(2024, 3, 10, 17, 45, 0, 0, time.UTC)

	d, err := parseDate("none", now)
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDate("today", now)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), *d)

	_, err = parseDate("03/10/2024", now)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestWeeksOf_OrdersKnownLabelsFirst(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	labels := view.WeekLabels(now)
	an := record.Analytics{AppsPerWeek: map[string]int{
		"zz":                  1,
		labels[len(labels)-1]: 2,
		"aa":                  3,
		labels[0]:             4,
	}}

	got := weeksOf(an, now)
	assert.Equal(t, []string{labels[0], labels[len(labels)-1], "aa", "zz"}, got)
}
