package view

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/apptrack/pkg/record"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	return &t
}

func fixture() []record.Record {
	return []record.Record{
		{ID: "a1", Company: "Google", Role: "SWE", Location: "Zurich", Status: record.StatusApplied, Priority: record.PriorityHigh, DateApplied: day(2024, 3, 1)},
		{ID: "a2", Company: "Stripe", Role: "Backend Engineer", Location: "Remote", Status: record.StatusInterview, Priority: record.PriorityMedium, DateApplied: day(2024, 3, 20)},
		{ID: "a3", Company: "Acme", Role: "Platform", Location: "Berlin", Status: record.StatusSaved, Priority: record.PriorityLow},
		{ID: "a4", Company: "Globex", Role: "SRE", Location: "googleplex", Status: record.StatusOffer, Priority: record.PriorityHigh, Archived: true, DateApplied: day(2024, 2, 1)},
		{ID: "a5", Company: "Initech", Role: "Go Developer", Status: record.Status("WITHDRAWN"), Priority: record.PriorityMedium},
		{ID: "a6", Company: "Hooli", Role: "Data", Status: record.StatusRejected, Priority: record.Priority("URGENT"), DateApplied: day(2024, 3, 25)},
	}
}

func ids(rs []record.Record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilter_ReturnsSubset_When_AnyCriteria(t *testing.T) {
	t.Parallel()

	all := fixture()
	byID := make(map[string]record.Record)
	for _, r := range all {
		byID[r.ID] = r
	}
	criteria := []Criteria{
		{},
		{Query: "g"},
		{Status: record.StatusApplied},
		{Priority: record.PriorityHigh, Query: "zz"},
		{Company: "o", AppliedSince: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range criteria {
		for _, show := range []bool{true, false} {
			got := Filter(all, c, show)
			for _, r := range got {
				assert.Equal(t, byID[r.ID], r, "filter must not invent or alter records")
			}
			assert.LessOrEqual(t, len(got), len(all))
		}
	}
}

func TestFilter_ExcludesArchived_When_PreferenceOff(t *testing.T) {
	t.Parallel()

	got := Filter(fixture(), Criteria{Status: record.StatusOffer}, false)
	assert.Empty(t, got)

	got = Filter(fixture(), Criteria{Status: record.StatusOffer}, true)
	assert.Equal(t, []string{"a4"}, ids(got))
}

func TestFilter_SearchIsCaseInsensitive_When_MixedCaseQuery(t *testing.T) {
	t.Parallel()

	got := Filter(fixture(), Criteria{Query: "gOOgle"}, true)
	assert.Equal(t, []string{"a1", "a4"}, ids(got), "company Google and location googleplex both match")
}

func TestFilter_SearchMatchesRoleAndLocation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a2"}, ids(Filter(fixture(), Criteria{Query: "backend"}, false)))
	assert.Equal(t, []string{"a3"}, ids(Filter(fixture(), Criteria{Query: "BERLIN"}, false)))
	assert.Len(t, Filter(fixture(), Criteria{Query: "   "}, false), 5)
}

func TestFilter_StatusSelectorsReconstructVisibleSet(t *testing.T) {
	t.Parallel()

	all := fixture()
	for _, show := range []bool{true, false} {
		visible := Filter(all, Criteria{Status: All}, show)
		assert.Equal(t, ids(Filter(all, Criteria{}, show)), ids(visible))

		seen := make(map[string]bool)
		for _, s := range record.Statuses {
			for _, r := range Filter(all, Criteria{Status: s}, show) {
				assert.Equal(t, s, r.Status)
				seen[r.ID] = true
			}
		}
		for _, r := range visible {
			if r.Status.Known() {
				assert.True(t, seen[r.ID], r.ID)
			}
		}
	}
}

func TestFilter_UnknownStatusStaysVisible_When_NoStatusFilter(t *testing.T) {
	t.Parallel()

	got := Filter(fixture(), Criteria{Query: "initech"}, false)
	assert.Equal(t, []string{"a5"}, ids(got))
}

func TestFilter_PriorityAndCompany(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a1"}, ids(Filter(fixture(), Criteria{Priority: record.PriorityHigh}, false)))
	assert.Equal(t, []string{"a1", "a4"}, ids(Filter(fixture(), Criteria{Company: "g", Priority: All}, true)))
}

func TestFilter_AppliedSinceDropsUndated(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	got := Filter(fixture(), Criteria{AppliedSince: SinceDays(now, 20)}, true)
	assert.Equal(t, []string{"a2", "a6"}, ids(got))

	got = Filter(fixture(), Criteria{AppliedSince: SinceDays(now, 30)}, true)
	assert.Equal(t, []string{"a1", "a2", "a6"}, ids(got))
	assert.True(t, SinceDays(now, 0).IsZero())
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	in := fixture()
	before := ids(in)
	_ = Filter(in, Criteria{Query: "stripe"}, false)
	assert.Equal(t, before, ids(in))
	assert.NotNil(t, Filter(nil, Criteria{}, false))
}

func TestPartition_KeepsEveryStatusKey_When_BucketsEmpty(t *testing.T) {
	t.Parallel()

	got := Partition(nil, record.Statuses)
	require.Len(t, got, len(record.Statuses))
	for _, s := range record.Statuses {
		assert.NotNil(t, got[s])
		assert.Empty(t, got[s])
	}
}

func TestPartition_DropsUnknownStatus_When_NotInList(t *testing.T) {
	t.Parallel()

	got := Partition(fixture(), record.Statuses)
	total := 0
	for _, s := range record.Statuses {
		total += len(got[s])
		for _, r := range got[s] {
			assert.NotEqual(t, "a5", r.ID)
		}
	}
	assert.Equal(t, 5, total)
	_, has := got[record.Status("WITHDRAWN")]
	assert.False(t, has)
}

func TestPartition_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	rs := []record.Record{
		{ID: "x", Status: record.StatusApplied},
		{ID: "y", Status: record.StatusSaved},
		{ID: "z", Status: record.StatusApplied},
	}
	got := Partition(rs, record.Statuses)
	assert.Equal(t, []string{"x", "z"}, ids(got[record.StatusApplied]))
}

func TestGroup_GivesUnknownStatusOwnBucket(t *testing.T) {
	t.Parallel()

	order, groups := Group(fixture())
	assert.Equal(t, []record.Status{
		record.StatusSaved, record.StatusApplied, record.StatusInterview,
		record.StatusOffer, record.StatusRejected, record.Status("WITHDRAWN"),
	}, order)
	assert.Equal(t, []string{"a5"}, ids(groups[record.Status("WITHDRAWN")]))
}

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginate_ReturnsNoPages_When_Empty(t *testing.T) {
	t.Parallel()

	for _, page := range []int{-1, 0, 1, 99} {
		got := Paginate([]int{}, page, 10)
		assert.Empty(t, got.Items)
		assert.NotNil(t, got.Items)
		assert.Equal(t, 0, got.TotalPages)
		assert.Equal(t, 0, got.Number)
	}
}

func TestPaginate_LastPartialPage(t *testing.T) {
	t.Parallel()

	got := Paginate(numbers(25), 3, 10)
	assert.Equal(t, []int{21, 22, 23, 24, 25}, got.Items)
	assert.Equal(t, 3, got.TotalPages)
	assert.Equal(t, 3, got.Number)
	assert.False(t, got.HasNext())
	assert.True(t, got.HasPrev())
}

func TestPaginate_ClampsOutOfRangePage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Paginate(numbers(25), 3, 10), Paginate(numbers(25), 99, 10))
	assert.Equal(t, Paginate(numbers(25), 1, 10), Paginate(numbers(25), -4, 10))
}

func TestPaginate_SinglePage_When_SizeNotPositive(t *testing.T) {
	t.Parallel()

	got := Paginate(numbers(7), 2, 0)
	assert.Len(t, got.Items, 7)
	assert.Equal(t, 1, got.TotalPages)
}

func TestPaginate_SinglePage_When_SizeHuge(t *testing.T) {
	t.Parallel()

	for _, page := range []int{math.MinInt, 1, math.MaxInt} {
		got := Paginate([]int{1, 2, 3}, page, math.MaxInt)
		assert.Equal(t, []int{1, 2, 3}, got.Items)
		assert.Equal(t, 1, got.TotalPages)
		assert.Equal(t, 1, got.Number)
	}
}

func TestList_Derive_SinglePage_When_PageSizeHuge(t *testing.T) {
	t.Parallel()

	l, page := NewList(math.MaxInt).GoTo(3).Derive(manyRecords(30), true)
	assert.Len(t, page.Items, 30)
	assert.Equal(t, 1, l.Page())
	assert.False(t, page.HasNext())
}

func TestReveal_GrowsOneColumnOnly(t *testing.T) {
	t.Parallel()

	r := NewReveal(5)
	r2 := r.More(record.StatusApplied).More(record.StatusApplied)

	assert.Equal(t, 15, r2.Visible(record.StatusApplied))
	assert.Equal(t, 5, r2.Visible(record.StatusSaved))
	assert.Equal(t, 5, r.Visible(record.StatusApplied), "earlier value unchanged")

	r3 := r2.More(record.StatusSaved)
	assert.Equal(t, 15, r3.Visible(record.StatusApplied), "other column's growth does not reset")
}

func TestReveal_Slice(t *testing.T) {
	t.Parallel()

	items := make([]record.Record, 12)
	visible, remaining := NewReveal(5).Slice(record.StatusOA, items)
	assert.Len(t, visible, 5)
	assert.Equal(t, 7, remaining)

	visible, remaining = NewReveal(0).More(record.StatusOA).More(record.StatusOA).Slice(record.StatusOA, items)
	assert.Len(t, visible, 12)
	assert.Equal(t, 0, remaining)
}

func TestReveal_More_Saturates_When_WindowHuge(t *testing.T) {
	t.Parallel()

	r := NewReveal(math.MaxInt).More(record.StatusOA).More(record.StatusOA)
	assert.Equal(t, math.MaxInt, r.Visible(record.StatusOA))

	visible, remaining := r.Slice(record.StatusOA, make([]record.Record, 3))
	assert.Len(t, visible, 3)
	assert.Zero(t, remaining)
}

func manyRecords(n int) []record.Record {
	out := make([]record.Record, n)
	for i := range out {
		out[i] = record.Record{
			ID:       fmt.Sprintf("r%02d", i),
			Company:  fmt.Sprintf("Company %02d", i),
			Role:     "Engineer",
			Status:   record.Statuses[i%len(record.Statuses)],
			Priority: record.PriorityMedium,
		}
	}
	return out
}

func TestList_ResetsToFirstPage_When_CriteriaChange(t *testing.T) {
	t.Parallel()

	l := NewList(0).GoTo(3)
	assert.Equal(t, 3, l.Page())
	assert.Equal(t, DefaultPageSize, l.PageSize())

	assert.Equal(t, 1, l.WithQuery("acme").Page())
	assert.Equal(t, 1, l.WithStatus(record.StatusOA).Page())
	assert.Equal(t, 3, l.WithCriteria(l.Criteria()).Page(), "unchanged criteria keep the page")
}

func TestList_Derive_ClampsPage(t *testing.T) {
	t.Parallel()

	l, page := NewList(12).GoTo(9).Derive(manyRecords(30), false)
	assert.Equal(t, 3, page.Number)
	assert.Len(t, page.Items, 6)
	assert.Equal(t, 3, l.Page())

	l, page = l.Prev().Derive(manyRecords(30), false)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 2, l.Page())

	l, page = l.WithQuery("nothing matches").Derive(manyRecords(30), false)
	assert.Equal(t, 0, page.Number)
	assert.Equal(t, 1, l.Page())
}

func TestBoard_Derive_RevealsPerColumn(t *testing.T) {
	t.Parallel()

	records := manyRecords(48) // 8 per column
	b := NewBoard(5)
	cols := b.Derive(records, false)
	require.Len(t, cols, 6)
	for _, c := range cols {
		assert.Equal(t, 8, c.Total)
		assert.Len(t, c.Cards, 5)
		assert.Equal(t, 3, c.Remaining)
	}

	cols = b.More(record.StatusOA).WithQuery("company").Derive(records, false)
	assert.Len(t, cols[2].Cards, 8)
	assert.Len(t, cols[0].Cards, 5)
	assert.Equal(t, 48, Visible(cols))
}

func TestBoard_IgnoresStatusSelector(t *testing.T) {
	t.Parallel()

	b := NewBoard(5).WithCriteria(Criteria{Status: record.StatusOffer, Priority: record.PriorityLow})
	assert.Equal(t, 48, Visible(b.Derive(manyRecords(48), false)))
}

func TestSummarize_MatchesServerFormula(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 30, 12, 0, 0, 0, time.UTC)
	got := Summarize(fixture(), now)

	assert.Equal(t, 1, got.StatusCounts["APPLIED"])
	assert.Equal(t, 1, got.StatusCounts["WITHDRAWN"])
	// applied pipeline = APPLIED+INTERVIEW+OFFER = 3; interviews = 2; offers = 1
	assert.InDelta(t, 66.67, got.ConversionRates.AppliedToInterview, 0.01)
	assert.InDelta(t, 50.0, got.ConversionRates.InterviewToOffer, 0.01)
	assert.InDelta(t, 33.33, got.ConversionRates.AppliedToOffer, 0.01)

	labels := WeekLabels(now)
	require.Len(t, labels, 12)
	total := 0
	for _, l := range labels {
		total += got.AppsPerWeek[l]
	}
	// a6 (Mar 25) falls after the last bucket, which ends before the current week.
	assert.Equal(t, 3, total)
}

func TestSummarize_ZeroRates_When_Empty(t *testing.T) {
	t.Parallel()

	got := Summarize(nil, time.Now())
	assert.Zero(t, got.ConversionRates.AppliedToOffer)
	assert.Empty(t, got.StatusCounts)
}
