// Package storetest builds small in-memory data stores for tests.
package storetest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/roominglist-verifier/internal/fixture"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// SampleSet mirrors the dashboard's festival data: two events, four rooming
// lists, five bookings. "Ultra Staff Housing" has no bookings.
func SampleSet() *fixture.Set {
	return &fixture.Set{
		RoomingLists: []fixture.RoomingListRecord{
			{RoomingListID: "1", EventName: "Austin City Limits", RFPName: "ACL Executive Accommodations", AgreementType: "leisure", CutOffDate: "2025-09-30", Status: "active"},
			{RoomingListID: "2", EventName: "Austin City Limits", RFPName: "ACL Artist Housing", AgreementType: "artist", CutOffDate: "2025-09-15", Status: "closed"},
			{RoomingListID: "3", EventName: "Ultra Musical Festival", RFPName: "Ultra DJ Accommodations", AgreementType: "artist", CutOffDate: "2026-02-28", Status: "active"},
			{RoomingListID: "4", EventName: "Ultra Musical Festival", RFPName: "Ultra Staff Housing", AgreementType: "staff", CutOffDate: "2026-02-01", Status: "cancelled"},
		},
		Bookings: []fixture.BookingRecord{
			{GuestName: "John Doe", GuestPhoneNumber: "555-1234", CheckInDate: "2025-10-10T00:00:00.000Z", CheckOutDate: "2025-10-13T00:00:00.000Z"},
			{GuestName: "Jane Smith", GuestPhoneNumber: "555-5678", CheckInDate: "2025-10-10T00:00:00.000Z", CheckOutDate: "2025-10-14T00:00:00.000Z"},
			{GuestName: "Marcus Lee", GuestPhoneNumber: "555-2468", CheckInDate: "2025-10-09T18:30:00.000Z", CheckOutDate: "2025-10-12T11:00:00.000Z"},
			{GuestName: "Ana Torres", GuestPhoneNumber: "555-1357", CheckInDate: "2026-03-27T00:00:00.000Z", CheckOutDate: "2026-03-30T00:00:00.000Z"},
			{GuestName: "Kenji Sato", GuestPhoneNumber: "555-8642", CheckInDate: "2026-03-26T00:00:00.000Z", CheckOutDate: "2026-03-31T00:00:00.000Z"},
		},
		Join: []fixture.JoinRecord{
			{RoomingListID: "1", BookingID: "2"},
			{RoomingListID: "1", BookingID: "1"},
			{RoomingListID: "2", BookingID: "3"},
			{RoomingListID: "3", BookingID: "4"},
			{RoomingListID: "3", BookingID: "5"},
		},
	}
}

// WithBookings returns a set with n generated bookings and no rooming lists.
func WithBookings(n int) *fixture.Set {
	set := &fixture.Set{}
	for i := 1; i <= n; i++ {
		set.Bookings = append(set.Bookings, fixture.BookingRecord{
			GuestName:        fmt.Sprintf("Guest %d", i),
			GuestPhoneNumber: fmt.Sprintf("555-%04d", i),
			CheckInDate:      "2025-01-01T00:00:00Z",
			CheckOutDate:     "2025-01-02T00:00:00Z",
		})
	}
	return set
}

// MustLoad builds a store or fails the test.
func MustLoad(t testing.TB, set *fixture.Set) *store.Store {
	t.Helper()
	s, err := store.Load(set)
	require.NoError(t, err)
	return s
}

// Sample is MustLoad(t, SampleSet()).
func Sample(t testing.TB) *store.Store {
	t.Helper()
	return MustLoad(t, SampleSet())
}
