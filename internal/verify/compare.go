package verify

import (
	"strconv"
	"strings"

	"github.com/nekogravitycat/roominglist-verifier/internal/filter"
	"github.com/nekogravitycat/roominglist-verifier/internal/oracle"
	"github.com/nekogravitycat/roominglist-verifier/internal/query"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
	"github.com/nekogravitycat/roominglist-verifier/internal/view"
)

// VerifyBookingDetails compares the modal rows with the oracle's output row
// by row. A count mismatch is reported alone.
func VerifyBookingDetails(expected []oracle.BookingView, observed []ObservedBooking) []Discrepancy {
	if len(expected) != len(observed) {
		return []Discrepancy{{
			Kind:     KindCountMismatch,
			Field:    "bookings",
			Expected: strconv.Itoa(len(expected)),
			Observed: strconv.Itoa(len(observed)),
		}}
	}

	var out []Discrepancy
	for i := range expected {
		e, o := expected[i], observed[i]
		fields := []struct{ name, want, got string }{
			{"guest_name", e.GuestName, o.GuestName},
			{"guest_phone_number", e.GuestPhoneNumber, o.GuestPhoneNumber},
			{"check_in", e.CheckInFormatted, o.CheckIn},
			{"check_out", e.CheckOutFormatted, o.CheckOut},
		}
		for _, f := range fields {
			if f.want != f.got {
				out = append(out, Discrepancy{Kind: KindFieldMismatch, Index: i + 1, Field: f.name, Expected: f.want, Observed: f.got})
			}
		}
	}
	return out
}

// VerifyVisibleSet compares the rendered card names with the expected rooming
// lists, ignoring order. Duplicated names count.
func VerifyVisibleSet(expected []store.RoomingList, observedNames []string) []Discrepancy {
	names := make([]string, len(expected))
	for i, rl := range expected {
		names[i] = rl.RFPName
	}
	return diffNames(names, observedNames, KindMissing, KindUnexpected)
}

// VerifyEventHeadings compares the rendered event headings with the expected
// groups. When both hold the same headings, the first out-of-place heading is
// reported as an order discrepancy.
func VerifyEventHeadings(expected, observed []string) []Discrepancy {
	if out := diffNames(expected, observed, KindMissing, KindUnexpected); len(out) > 0 {
		for i := range out {
			out[i].Field = "event_heading"
		}
		return out
	}
	for i := range expected {
		if expected[i] != observed[i] {
			return []Discrepancy{{Kind: KindOrder, Index: i + 1, Field: "event_heading", Expected: expected[i], Observed: observed[i]}}
		}
	}
	return nil
}

// VerifyNotGrown reports every name in after that was not in before.
func VerifyNotGrown(before, after []string) []Discrepancy {
	seen := make(map[string]bool, len(before))
	for _, n := range before {
		seen[n] = true
	}
	var out []Discrepancy
	for _, n := range after {
		if !seen[n] {
			out = append(out, Discrepancy{Kind: KindGrew, Subject: n, Expected: "absent", Observed: "visible"})
		}
	}
	return out
}

func diffNames(expected, observed []string, missing, unexpected Kind) []Discrepancy {
	remaining := make(map[string]int, len(observed))
	for _, n := range observed {
		remaining[n]++
	}

	var out []Discrepancy
	for _, n := range expected {
		if remaining[n] > 0 {
			remaining[n]--
			continue
		}
		out = append(out, Discrepancy{Kind: missing, Subject: n, Expected: "visible", Observed: "absent"})
	}
	for _, n := range observed {
		if remaining[n] > 0 {
			remaining[n]--
			out = append(out, Discrepancy{Kind: unexpected, Subject: n, Expected: "absent", Observed: "visible"})
		}
	}
	return out
}

// VerifyCards checks the visible set and then every field of each matched
// card, including the booking count on its button.
func VerifyCards(expected []view.Card, observed []ObservedCard) []Discrepancy {
	want := make([]string, len(expected))
	for i, c := range expected {
		want[i] = c.RFPName
	}
	got := make([]string, len(observed))
	byName := make(map[string][]ObservedCard, len(observed))
	for i, c := range observed {
		got[i] = c.RFPName
		byName[c.RFPName] = append(byName[c.RFPName], c)
	}

	out := diffNames(want, got, KindMissing, KindUnexpected)
	for _, e := range expected {
		queue := byName[e.RFPName]
		if len(queue) == 0 {
			continue
		}
		o := queue[0]
		byName[e.RFPName] = queue[1:]

		if !strings.EqualFold(e.AgreementType, o.AgreementType) {
			out = append(out, Discrepancy{Kind: KindFieldMismatch, Subject: e.RFPName, Field: "agreement_type", Expected: e.AgreementType, Observed: o.AgreementType})
		}
		if e.CutOffDay != o.CutOffDay {
			out = append(out, Discrepancy{Kind: KindFieldMismatch, Subject: e.RFPName, Field: "cut_off_day", Expected: strconv.Itoa(e.CutOffDay), Observed: strconv.Itoa(o.CutOffDay)})
		}
		if e.BookingCount != o.BookingCount {
			out = append(out, Discrepancy{Kind: KindCountMismatch, Subject: e.RFPName, Field: "booking_count", Expected: strconv.Itoa(e.BookingCount), Observed: strconv.Itoa(o.BookingCount)})
		}
		if st, err := store.ParseStatus(o.Status); o.Status != "" && (err != nil || st != e.Status) {
			out = append(out, Discrepancy{Kind: KindFieldMismatch, Subject: e.RFPName, Field: "status", Expected: e.Status.String(), Observed: o.Status})
		}
	}
	return out
}

// VerifyEmptyState checks that the empty-state message is shown exactly when
// the query ran and matched nothing.
func VerifyEmptyState(result query.Result, emptyStateShown bool) []Discrepancy {
	want := result.NoResults()
	if want == emptyStateShown {
		return nil
	}
	return []Discrepancy{{
		Kind:     KindEmptyState,
		Subject:  "No rooming lists found",
		Expected: strconv.FormatBool(want),
		Observed: strconv.FormatBool(emptyStateShown),
	}}
}

// VerifyFilterPanel compares the rendered dropdown with the machine's panel.
// The checked boxes must equal the pending selection.
func VerifyFilterPanel(expected filter.Panel, observed ObservedPanel) []Discrepancy {
	if expected.IsOpen != observed.IsOpen {
		return []Discrepancy{{Kind: KindFilterPanel, Field: "is_open", Expected: strconv.FormatBool(expected.IsOpen), Observed: strconv.FormatBool(observed.IsOpen)}}
	}
	if !expected.IsOpen {
		return nil
	}

	want := store.NewStatusSet(expected.Pending...)
	got, err := store.ParseStatusSet(observed.Checked)
	if err != nil {
		return []Discrepancy{{Kind: KindFilterPanel, Field: "checked", Expected: want.String(), Observed: strings.Join(observed.Checked, ", ")}}
	}
	if want != got {
		return []Discrepancy{{Kind: KindFilterPanel, Field: "checked", Expected: want.String(), Observed: got.String()}}
	}
	return nil
}

// VerifyStatuses checks that every rendered status badge is accepted by the
// applied selection.
func VerifyStatuses(accepted store.StatusSet, observedStatuses []string) []Discrepancy {
	var out []Discrepancy
	for i, raw := range observedStatuses {
		s, err := store.ParseStatus(raw)
		if err == nil && accepted.Accepts(s) {
			continue
		}
		out = append(out, Discrepancy{Kind: KindStatus, Index: i + 1, Field: "status", Expected: accepted.String(), Observed: strings.TrimSpace(raw)})
	}
	return out
}
