package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stadium/internal/database"
	"stadium/internal/domain"
	"stadium/internal/modules/booking"
	"stadium/internal/repository"
)

var june3 = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *repository.BookingRepository) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:archive_%s?mode=memory&cache=shared", name), database.Options{Silent: true})
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))

	bookings := repository.NewBookingRepository(db)
	weeks := booking.NewService(bookings, repository.NewReorganizationRepository(db), nil, booking.AllocationIncremental)
	svc := NewService(repository.NewArchiveRepository(db), weeks)
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC) }
	return svc, bookings
}

func seed(t *testing.T, repo *repository.BookingRepository, bs ...domain.Booking) {
	t.Helper()
	require.NoError(t, repo.CreateBatch(context.Background(), bs))
}

func track6(id, occupant string, date time.Time, start, end string, sections ...int) domain.Booking {
	return domain.Booking{
		ID: id, FacilityType: domain.FacilityTrack6, Date: date,
		StartTime: start, EndTime: end, Sections: sections, Occupant: occupant,
		Category: string(domain.CategoryRunningGroup),
	}
}

func TestService_SaveCopiesWeek(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	seed(t, repo,
		track6("a", "AKL", june3, "09:00", "10:00", 1, 2),
		track6("b", "KS", june3.AddDate(0, 0, 4), "18:00", "19:00", 3),
		track6("c", "AKL", june3.AddDate(0, 0, 7), "09:00", "10:00", 1),
	)

	snap, err := svc.Save(ctx, "track-6", "2024-06-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-03", snap.WeekStart)
	assert.Equal(t, "2024-06-09", snap.WeekEnd)
	assert.Equal(t, domain.FacilityTrack6, snap.FacilityType)
	require.Len(t, snap.Bookings, 2)
	assert.Equal(t, "a", snap.Bookings[0].ID)

	// saving the same week again replaces the snapshot
	seed(t, repo, track6("d", "SGH", june3.AddDate(0, 0, 1), "07:00", "08:00", 6))
	again, err := svc.Save(ctx, "track-6", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, snap.ID, again.ID)
	assert.Len(t, again.Bookings, 3)

	list, err := svc.List(ctx, "track-6")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_SaveErrors(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Save(ctx, "track-6", "03.06.2024")
	assert.ErrorIs(t, err, ErrInvalidWeek)

	_, err = svc.Save(ctx, "pool", "2024-06-03")
	assert.ErrorIs(t, err, booking.ErrUnknownFacility)

	_, err = svc.List(ctx, "pool")
	assert.ErrorIs(t, err, ErrUnknownFacility)
}

func TestService_GetAndDelete(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	snap, err := svc.Save(ctx, "rugby", "2024-06-03")
	require.NoError(t, err)
	assert.Empty(t, snap.Bookings)

	got, err := svc.Get(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FacilityRugby, got.FacilityType)

	require.NoError(t, svc.Delete(ctx, snap.ID))
	assert.ErrorIs(t, svc.Delete(ctx, snap.ID), ErrNotFound)
	_, err = svc.Get(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteCSV(t *testing.T) {
	closed := track6("z", "", june3, "07:00", "08:00", 1, 2, 3, 4, 5, 6)
	closed.Closed = true
	closed.Category = ""
	snaps := []domain.ArchiveSnapshot{
		{
			WeekStart: "2024-05-27", WeekEnd: "2024-06-02", FacilityType: domain.FacilityTrack6,
			Bookings: []domain.Booking{track6("x", "AKL", june3.AddDate(0, 0, -7), "09:00", "10:00", 1)},
		},
		{
			WeekStart: "2024-06-03", WeekEnd: "2024-06-09", FacilityType: domain.FacilityTrack6,
			Bookings: []domain.Booking{track6("y", "KS", june3, "10:00", "11:00", 3, 4), closed},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, snaps, time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)))
	require.True(t, strings.HasPrefix(buf.String(), "\ufeff"))

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff")))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Booking archive"}, rows[0])
	assert.Equal(t, []string{"Generated: 10.06.2024 08:30"}, rows[1])
	assert.Equal(t, make([]string, len(csvHeader)), rows[2])
	assert.Equal(t, csvHeader, rows[3])

	// newest week first, closed block sorted before the 10:00 booking
	assert.Equal(t, []string{"6-lane running track", "03.06 - 09.06.2024", "03.06.2024", "07:00 - 08:00", "1, 2, 3, 4, 5, 6", "CLOSED", ""}, rows[4])
	assert.Equal(t, []string{"", "", "03.06.2024", "10:00 - 11:00", "3, 4", "KS", "running-group"}, rows[5])
	assert.Equal(t, make([]string, len(csvHeader)), rows[6])
	assert.Equal(t, "27.05 - 02.06.2024", rows[7][1])
}

func TestHandler_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo := setup(t)
	seed(t, repo, track6("a", "AKL", june3, "09:00", "10:00", 1, 2))

	r := gin.New()
	v1 := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(v1, v1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/facilities/track-6/weeks/2024-06-03/archive", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"week_start":"2024-06-03"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/archives/export.csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "archive_2024-06-10_08-30.csv")
	assert.Contains(t, w.Body.String(), "AKL")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/archives/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/facilities/track-6/weeks/june/archive", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
