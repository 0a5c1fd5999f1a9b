package verify

import (
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/roominglist-verifier/internal/fixture"
	"github.com/nekogravitycat/roominglist-verifier/internal/oracle"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/store/storetest"
)

var fastSettle = Config{SettleWindow: 40 * time.Millisecond, SettleInterval: 2 * time.Millisecond}

type recorded struct {
	name          string
	discrepancies int
	err           error
}

type fakeRecorder struct {
	runs []recorded
}

func (r *fakeRecorder) ScenarioFinished(name string, discrepancies int, err error, _ time.Duration) {
	r.runs = append(r.runs, recorded{name, discrepancies, err})
}

func TestRunSuiteAgainstHealthyDashboard(t *testing.T) {
	s := storetest.Sample(t)
	dash := newFakeDashboard(s)
	rec := &fakeRecorder{}
	h := NewHarness(s, dash, fastSettle, WithRecorder(rec))

	suite := DefaultSuite([]string{"Acc", "xyz", "housing"})
	report := h.RunSuite(context.Background(), suite)

	for _, sc := range report.Scenarios {
		assert.Empty(t, sc.Discrepancies, sc.Name)
		assert.NoError(t, sc.Err, sc.Name)
	}
	assert.True(t, report.Passed())
	assert.Len(t, report.Scenarios, len(suite.Scenarios()))
	assert.Equal(t, len(report.Scenarios), dash.reloads, "every scenario starts from a reload")
	assert.Len(t, rec.runs, len(report.Scenarios))
	assert.Empty(t, dash.snapshots)
}

func TestCheckSearchWaitsForDebounce(t *testing.T) {
	s := storetest.Sample(t)
	dash := newFakeDashboard(s)
	dash.lagProbes = 3
	h := NewHarness(s, dash, Config{SettleWindow: time.Second, SettleInterval: time.Millisecond})

	got, err := h.CheckSearch(context.Background(), "Acc")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheckSearchNoResults(t *testing.T) {
	s := storetest.Sample(t)
	h := NewHarness(s, newFakeDashboard(s), fastSettle)

	got, err := h.CheckSearch(context.Background(), "xyz")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCheckEventGroups(t *testing.T) {
	s := storetest.Sample(t)
	ctx := context.Background()

	t.Run("Grouped", func(t *testing.T) {
		h := NewHarness(s, newFakeDashboard(s), fastSettle)
		got, err := h.CheckEventGroups(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Follows Search", func(t *testing.T) {
		h := NewHarness(s, newFakeDashboard(s), fastSettle)
		_, err := h.CheckSearch(ctx, "DJ")
		require.NoError(t, err)
		got, err := h.CheckEventGroups(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Wrong Heading", func(t *testing.T) {
		dash := newFakeDashboard(s)
		dash.headings = []string{"Austin City Limits", "Ultra Music Festival"}
		h := NewHarness(s, dash, fastSettle)
		got, err := h.CheckEventGroups(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, KindMissing, got[0].Kind)
		assert.Equal(t, "Ultra Musical Festival", got[0].Subject)
		assert.Equal(t, KindUnexpected, got[1].Kind)
		assert.Equal(t, "Ultra Music Festival", got[1].Subject)
	})

	t.Run("Wrong Order", func(t *testing.T) {
		dash := newFakeDashboard(s)
		dash.headings = []string{"Ultra Musical Festival", "Austin City Limits"}
		h := NewHarness(s, dash, fastSettle)
		got, err := h.CheckEventGroups(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, KindOrder, got[0].Kind)
	})
}

func TestCheckBookingDetailsReportsWrongPhone(t *testing.T) {
	s := storetest.Sample(t)
	dash := newFakeDashboard(s)
	dash.wrongPhone = true
	h := NewHarness(s, dash, fastSettle)

	got, err := h.CheckBookingDetails(context.Background())
	require.NoError(t, err)
	// one wrong row per card that has bookings
	require.Len(t, got, 3)
	assert.Equal(t, Discrepancy{
		Kind:     KindFieldMismatch,
		Subject:  "ACL Executive Accommodations",
		Index:    1,
		Field:    "guest_phone_number",
		Expected: "555-5678",
		Observed: "000-0000",
	}, got[0])
}

func TestCheckBookingDetailsAbortsOnDanglingReference(t *testing.T) {
	set := storetest.SampleSet()
	set.Join[0].BookingID = fixture.ID("999")
	s := storetest.MustLoad(t, set)
	h := NewHarness(s, newFakeDashboard(s), fastSettle)

	_, err := h.CheckBookingDetails(context.Background())
	require.ErrorIs(t, err, oracle.ErrDanglingReference)
	assert.Contains(t, err.Error(), "999")
}

func TestApplyFilterReportsHiddenStatus(t *testing.T) {
	s := storetest.Sample(t)
	dash := newFakeDashboard(s)
	dash.hideStatus = store.StatusCancelled
	h := NewHarness(s, dash, fastSettle)

	got, err := h.ApplyFilter(context.Background(), store.NewStatusSet(store.StatusCancelled))
	require.NoError(t, err)

	kinds := make([]Kind, len(got))
	for i, d := range got {
		kinds[i] = d.Kind
	}
	assert.Equal(t, []Kind{KindMissing, KindEmptyState}, kinds)
	assert.Equal(t, "Ultra Staff Housing", got[0].Subject)
	assert.Equal(t, store.NewStatusSet(store.StatusCancelled), h.Machine().Applied())
	assert.False(t, h.Machine().IsOpen())
}

func TestApplyFilterUnchecksPreviousSelection(t *testing.T) {
	s := storetest.Sample(t)
	dash := newFakeDashboard(s)
	h := NewHarness(s, dash, fastSettle)
	ctx := context.Background()

	_, err := h.ApplyFilter(ctx, store.NewStatusSet(store.StatusActive, store.StatusClosed))
	require.NoError(t, err)
	got, err := h.ApplyFilter(ctx, store.NewStatusSet(store.StatusActive))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, store.NewStatusSet(store.StatusActive), dash.applied)
}

func TestCheckFilterPersistence(t *testing.T) {
	s := storetest.Sample(t)
	set := store.NewStatusSet(store.StatusActive, store.StatusClosed)

	t.Run("Persisted", func(t *testing.T) {
		h := NewHarness(s, newFakeDashboard(s), fastSettle)
		got, err := h.CheckFilterPersistence(context.Background(), set)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.False(t, h.Machine().IsOpen())
		assert.Equal(t, set, h.Machine().Applied())
	})

	t.Run("Forgotten", func(t *testing.T) {
		dash := newFakeDashboard(s)
		dash.forgetFilter = true
		h := NewHarness(s, dash, fastSettle)
		got, err := h.CheckFilterPersistence(context.Background(), set)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, KindFilterPanel, got[0].Kind)
		assert.Equal(t, "{Active, Closed}", got[0].Expected)
		assert.Equal(t, "{}", got[0].Observed)
	})
}

func TestCheckSearchAndFilter(t *testing.T) {
	s := storetest.Sample(t)
	h := NewHarness(s, newFakeDashboard(s), fastSettle)

	got, err := h.CheckSearchAndFilter(context.Background(), "housing", store.NewStatusSet(store.StatusClosed))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRunSuiteCapturesEvidenceForFailures(t *testing.T) {
	s := storetest.Sample(t)
	dash := newFakeDashboard(s)
	dash.wrongPhone = true
	rec := &fakeRecorder{}
	h := NewHarness(s, dash, fastSettle, WithRecorder(rec))

	report := h.RunSuite(context.Background(), Suite{Cards: true, Bookings: true})

	assert.False(t, report.Passed())
	require.Len(t, report.Failed(), 1)
	failed := report.Failed()[0]
	assert.Equal(t, "booking details", failed.Name)
	assert.Equal(t, "evidence/booking details.png", failed.Evidence)
	assert.Equal(t, []string{"booking details"}, dash.snapshots)
	assert.Equal(t, 3, report.DiscrepancyCount())
	assert.Equal(t, []recorded{{"cards", 0, nil}, {"booking details", 3, nil}}, rec.runs)
}

func TestReportRendersEmptyDiscrepancies(t *testing.T) {
	s := storetest.Sample(t)
	h := NewHarness(s, newFakeDashboard(s), fastSettle)

	report := h.RunSuite(context.Background(), Suite{Cards: true})
	require.Len(t, report.Scenarios, 1)
	assert.NotNil(t, report.Scenarios[0].Discrepancies)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"discrepancies":[]`)
	assert.NotContains(t, string(data), "null")
}

func TestRunSuiteStopsWhenCancelled(t *testing.T) {
	s := storetest.Sample(t)
	h := NewHarness(s, newFakeDashboard(s), fastSettle)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := h.RunSuite(ctx, DefaultSuite([]string{"Acc"}))
	assert.Empty(t, report.Scenarios)
	assert.True(t, report.Interrupted)
	assert.False(t, report.Passed())
}

func TestDefaultSuiteScenarioNames(t *testing.T) {
	var names []string
	for _, sc := range DefaultSuite([]string{"Acc"}).Scenarios() {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{
		"cards",
		"event groups",
		"booking details",
		`search "Acc"`,
		"filter {Cancelled}",
		"filter {Active, Closed}",
		"filter {Active}",
		"filter persistence {Active, Closed}",
		`search "Acc" with filter {Active}`,
	}, names)
}
