package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stadium/internal/domain"
)

func bk(id, occupant, start, end string, sections ...int) domain.Booking {
	return domain.Booking{
		ID: id, FacilityType: domain.FacilityTrack6, Date: day("2024-06-03"),
		StartTime: start, EndTime: end, Sections: sections, Occupant: occupant,
	}
}

func apply(bookings []domain.Booking, plan ReorganizePlan) []domain.Booking {
	out := make([]domain.Booking, len(bookings))
	copy(out, bookings)
	for _, u := range plan.Updates {
		for i := range out {
			if out[i].ID == u.Booking.ID {
				out[i].Sections = u.Sections
			}
		}
	}
	return out
}

func TestReorganize_PacksByLabel(t *testing.T) {
	p := track6(t)
	bookings := []domain.Booking{
		bk("1", "Zeta", "09:00", "10:00", 1),
		bk("2", "Alpha", "09:00", "10:00", 4, 5),
		bk("3", "Mid", "09:00", "10:00", 6),
	}

	plan := Reorganize(bookings, p)
	assert.Empty(t, plan.Warnings)

	got := apply(bookings, plan)
	assert.Equal(t, []int{1, 2}, got[1].Sections)
	assert.Equal(t, []int{3}, got[2].Sections)
	assert.Equal(t, []int{4}, got[0].Sections)
	assert.Len(t, plan.Updates, 3)

	again := Reorganize(got, p)
	assert.Empty(t, again.Updates)
}

func TestReorganize_OnlyChangedBookingsCount(t *testing.T) {
	p := track6(t)
	bookings := []domain.Booking{
		bk("1", "Alpha", "09:00", "10:00", 1, 2),
		bk("2", "Beta", "09:00", "10:00", 5),
	}
	plan := Reorganize(bookings, p)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "2", plan.Updates[0].Booking.ID)
	assert.Equal(t, []int{3}, plan.Updates[0].Sections)
}

func TestReorganize_TiesBrokenById(t *testing.T) {
	p := track6(t)
	bookings := []domain.Booking{
		bk("b", "Same", "09:00", "10:00", 1),
		bk("a", "Same", "09:00", "10:00", 2),
	}
	got := apply(bookings, Reorganize(bookings, p))
	assert.Equal(t, []int{2}, got[0].Sections)
	assert.Equal(t, []int{1}, got[1].Sections)
}

func TestReorganize_ClosedRepairedAndSkipped(t *testing.T) {
	p := track6(t)
	closed := bk("c", "", "12:00", "13:00", 1, 2)
	closed.Closed = true
	closed.ClosedReason = "Meeting"

	plan := Reorganize([]domain.Booking{closed}, p)
	require.Len(t, plan.Updates, 1)
	assert.Equal(t, p.AllSections(), plan.Updates[0].Sections)

	closed.Sections = p.AllSections()
	assert.Empty(t, Reorganize([]domain.Booking{closed}, p).Updates)
}

func TestReorganize_OverflowLeavesBookingAndKeepsCursor(t *testing.T) {
	p, ok := domain.Facility(domain.FacilityRugby)
	require.True(t, ok)

	mk := func(id, occupant string, sections ...int) domain.Booking {
		b := bk(id, occupant, "09:00", "10:00", sections...)
		b.FacilityType = domain.FacilityRugby
		return b
	}
	// bad data: the group asks for three halves
	bookings := []domain.Booking{
		mk("1", "A", 2),
		mk("2", "B", 1, 2),
		mk("3", "C", 1),
	}

	plan := Reorganize(bookings, p)
	require.Len(t, plan.Warnings, 3)
	assert.Equal(t, "2", plan.Warnings[0].BookingID)
	// C is offered section 2 since B did not advance the cursor, but B
	// still holds it
	assert.Equal(t, "3", plan.Warnings[1].BookingID)
	// A moved onto section 1, which B and C keep, so the group stays put
	assert.Equal(t, "1", plan.Warnings[2].BookingID)
	assert.Contains(t, plan.Warnings[2].Reason, "group left unchanged")
	assert.Empty(t, plan.Updates)
}

func TestReorganize_DoesNotLandOnOverlappingWindow(t *testing.T) {
	p := track6(t)
	bookings := []domain.Booking{
		bk("a", "Alpha", "09:00", "10:00", 3),
		bk("b", "Beta", "09:30", "10:30", 1),
	}
	plan := Reorganize(bookings, p)
	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "a", plan.Warnings[0].BookingID)
}

func TestReorganize_GroupsByExactWindowAndDate(t *testing.T) {
	p := track6(t)
	other := bk("x", "Alpha", "09:00", "10:00", 5)
	other.Date = day("2024-06-04")
	bookings := []domain.Booking{
		bk("a", "Alpha", "09:00", "10:00", 4),
		bk("b", "Alpha", "10:00", "11:00", 6),
		other,
	}
	got := apply(bookings, Reorganize(bookings, p))
	for _, b := range got {
		assert.Equal(t, []int{1}, b.Sections, b.ID)
	}
}

func TestReorganize_SkippedBookingDoesNotAdvanceCursor(t *testing.T) {
	p := track6(t)
	bookings := []domain.Booking{
		bk("a", "A", "09:00", "10:00", 1, 2, 3, 4),
		bk("b", "B", "09:00", "10:00", 1, 2, 3),
		bk("c", "C", "09:00", "10:00", 5),
	}
	plan := Reorganize(bookings, p)
	assert.Empty(t, plan.Updates)
	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "b", plan.Warnings[0].BookingID)
}

func TestReorganize_SkippedMemberRollsBackGroup(t *testing.T) {
	p := track6(t)
	bookings := []domain.Booking{
		bk("a", "A", "09:00", "10:00", 1),
		bk("c", "C", "09:00", "10:00", 2),
		bk("b", "B", "09:00", "10:00", 4),
		bk("o", "O", "09:30", "10:30", 3),
		bk("z", "Z", "12:00", "13:00", 5),
		bk("y", "Y", "12:00", "13:00", 6),
	}

	plan := Reorganize(bookings, p)
	got := apply(bookings, plan)
	assertNoSharedSections(t, got)

	assert.Equal(t, []int{1}, got[0].Sections)
	assert.Equal(t, []int{2}, got[1].Sections)
	assert.Equal(t, []int{4}, got[2].Sections)
	assert.Equal(t, []int{3}, got[3].Sections)
	// the unrelated group is still packed
	assert.Equal(t, []int{2}, got[4].Sections)
	assert.Equal(t, []int{1}, got[5].Sections)
	require.Len(t, plan.Updates, 2)

	var ids []string
	for _, w := range plan.Warnings {
		ids = append(ids, w.BookingID)
	}
	assert.Contains(t, ids, "c")
	assert.Contains(t, ids, "b")

	again := Reorganize(got, p)
	assert.Empty(t, again.Updates)
}

func assertNoSharedSections(t *testing.T, bookings []domain.Booking) {
	t.Helper()
	for i, a := range bookings {
		for _, b := range bookings[i+1:] {
			if !domain.SameDate(a.Date, b.Date) || a.StartTime >= b.EndTime || b.StartTime >= a.EndTime {
				continue
			}
			for _, s := range a.Sections {
				assert.False(t, b.HasSection(s), "%s and %s both hold section %d", a.ID, b.ID, s)
			}
		}
	}
}
