package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
	"github.com/nekogravitycat/roominglist-verifier/internal/store/storetest"
	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
)

func requireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests skipped in short mode")
	}
	for _, name := range []string{"headless-shell", "chromium", "chromium-browser", "google-chrome", "google-chrome-stable"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("no Chrome or Chromium binary on PATH")
}

func newTestObserver(t *testing.T) *Observer {
	t.Helper()
	requireBrowser(t)

	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	t.Cleanup(srv.Close)

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	obs, err := New(context.Background(), Options{
		DashboardURL: srv.URL + "/dashboard.html",
		Selectors:    DefaultSelectors(),
		StepTimeout:  10 * time.Second,
		Evidence:     storage.NewEvidence(local),
	})
	require.NoError(t, err)
	t.Cleanup(obs.Close)
	return obs
}

func TestObserverReadsDashboard(t *testing.T) {
	obs := newTestObserver(t)
	ctx := context.Background()
	require.NoError(t, obs.Reload(ctx))

	cards, err := obs.Cards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 4)
	assert.Equal(t, verify.ObservedCard{
		RFPName:       "ACL Executive Accommodations",
		AgreementType: "Leisure",
		CutOffDay:     30,
		BookingCount:  2,
		Status:        "Active",
	}, cards[0])

	headings, err := obs.EventHeadings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Austin City Limits", "Ultra Musical Festival"}, headings)

	rows, err := obs.Bookings(ctx, "ACL Executive Accommodations")
	require.NoError(t, err)
	assert.Equal(t, []verify.ObservedBooking{
		{GuestName: "Jane Smith", GuestPhoneNumber: "555-5678", CheckIn: "10/10/2025", CheckOut: "10/14/2025"},
		{GuestName: "John Doe", GuestPhoneNumber: "555-1234", CheckIn: "10/10/2025", CheckOut: "10/13/2025"},
	}, rows)

	_, err = obs.Bookings(ctx, "Nope")
	assert.ErrorIs(t, err, ErrElementNotFound)

	path, err := obs.Snapshot(ctx, "cards")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
}

func TestObserverPassesDefaultSuite(t *testing.T) {
	obs := newTestObserver(t)
	s := storetest.Sample(t)

	h := verify.NewHarness(s, obs, verify.Config{SettleWindow: 3 * time.Second, SettleInterval: 50 * time.Millisecond})
	report := h.RunSuite(context.Background(), verify.DefaultSuite([]string{"Acc", "xyz", "housing"}))

	for _, sc := range report.Scenarios {
		assert.NoError(t, sc.Err, sc.Name)
		assert.Empty(t, sc.Discrepancies, sc.Name)
	}
	assert.True(t, report.Passed())
}
