package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stadium/internal/domain"
)

// Mock repositories
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) List(ctx context.Context, facility domain.FacilityType, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, facility, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListAll(ctx context.Context, facility domain.FacilityType) ([]domain.Booking, error) {
	args := m.Called(ctx, facility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CreateBatch(ctx context.Context, bookings []domain.Booking) error {
	args := m.Called(ctx, bookings)
	return args.Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) DeleteAll(ctx context.Context, facility domain.FacilityType) (int64, error) {
	args := m.Called(ctx, facility)
	return args.Get(0).(int64), args.Error(1)
}

type MockReorganizationRepository struct {
	mock.Mock
}

func (m *MockReorganizationRepository) Apply(ctx context.Context, snapshot domain.ReorganizationSnapshot, updates []domain.SectionChange) error {
	args := m.Called(ctx, snapshot, updates)
	return args.Error(0)
}

func (m *MockReorganizationRepository) Latest(ctx context.Context, facility domain.FacilityType) (*domain.ReorganizationSnapshot, error) {
	args := m.Called(ctx, facility)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReorganizationSnapshot), args.Error(1)
}

func (m *MockReorganizationRepository) Restore(ctx context.Context, snapshot domain.ReorganizationSnapshot) (int, error) {
	args := m.Called(ctx, snapshot)
	return args.Int(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ev domain.ScheduleEvent) {
	m.Called(ev)
}

func newTestService(mode AllocationMode) (*Service, *MockBookingRepository, *MockReorganizationRepository, *MockPublisher) {
	bookings := new(MockBookingRepository)
	reorgs := new(MockReorganizationRepository)
	pub := new(MockPublisher)
	svc := NewService(bookings, reorgs, pub, mode)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, bookings, reorgs, pub
}

func weeklyRequest(count int) BatchRequest {
	return BatchRequest{
		DateFrom: "2024-06-03",
		DateTo:   "2024-06-16",
		Patterns: []domain.WeekdayPattern{{Weekday: 1, StartTime: "09:00", EndTime: "10:00", RequestedCount: count}},
		Occupant: "AKL",
	}
}

func TestService_CreateBatch_Success(t *testing.T) {
	svc, repo, _, pub := newTestService(AllocationIncremental)
	ctx := context.Background()

	existing := []domain.Booking{bk("a", "KS", "09:00", "10:00", 1, 2)}
	repo.On("List", ctx, domain.FacilityTrack6, day("2024-06-03"), day("2024-06-16")).Return(existing, nil)
	repo.On("CreateBatch", ctx, mock.MatchedBy(func(bs []domain.Booking) bool { return len(bs) == 2 })).Return(nil)
	pub.On("Publish", mock.MatchedBy(func(ev domain.ScheduleEvent) bool {
		return ev.Type == domain.EventBookingsCreated && ev.Count == 2 &&
			assert.ObjectsAreEqual([]string{"2024-06-03", "2024-06-10"}, ev.Dates)
	})).Return()

	out, err := svc.CreateBatch(ctx, "track-6", weeklyRequest(3))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, []int{3, 4, 5}, out[0].Sections)
	assert.Equal(t, []int{1, 2, 3}, out[1].Sections)
	for _, b := range out {
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, "AKL", b.Occupant)
	}

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_CreateBatch_ClosedBlockPassesBookingChecks(t *testing.T) {
	svc, repo, _, pub := newTestService(AllocationIncremental)
	ctx := context.Background()

	repo.On("List", ctx, domain.FacilityTrack6, day("2024-06-03"), day("2024-06-16")).Return([]domain.Booking{}, nil)
	repo.On("CreateBatch", ctx, mock.Anything).Return(nil)
	pub.On("Publish", mock.Anything).Return()

	req := weeklyRequest(0)
	req.Occupant = ""
	reason := ""
	req.ClosedReason = &reason

	out, err := svc.CreateBatch(ctx, "track-6", req)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, b := range out {
		assert.True(t, b.Closed)
		assert.Equal(t, domain.DefaultClosedLabel, b.Label())
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, b.Sections)
	}
}

func TestService_CreateBatch_AllOrNothing(t *testing.T) {
	svc, repo, _, pub := newTestService(AllocationIncremental)
	ctx := context.Background()

	// only the second Monday is full
	full := bk("full", "KS", "09:00", "10:00", 1, 2, 3, 4, 5, 6)
	full.Date = day("2024-06-10")
	repo.On("List", ctx, domain.FacilityTrack6, mock.Anything, mock.Anything).Return([]domain.Booking{full}, nil)

	_, err := svc.CreateBatch(ctx, "track-6", weeklyRequest(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientAvailability)

	var rejected *BatchRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, 1, rejected.Failed)
	assert.Equal(t, 2, rejected.Total)
	assert.Equal(t, []string{"2024-06-10 09:00-10:00: no sections free"}, rejected.Messages)

	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestService_CreateBatch_FirstThreeMessages(t *testing.T) {
	svc, repo, _, _ := newTestService(AllocationIncremental)
	ctx := context.Background()
	repo.On("List", ctx, domain.FacilityTrack6, mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	req := weeklyRequest(7)
	req.DateTo = "2024-06-30"
	_, err := svc.CreateBatch(ctx, "track-6", req)

	var rejected *BatchRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, 4, rejected.Failed)
	assert.Len(t, rejected.Messages, MaxBatchMessages)
	assert.Contains(t, rejected.Messages[0], "2024-06-03")
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestService_CreateBatch_UniqueViolationIsOverbooking(t *testing.T) {
	svc, repo, _, pub := newTestService(AllocationSnapshot)
	ctx := context.Background()
	repo.On("List", ctx, domain.FacilityTrack6, mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	repo.On("CreateBatch", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.CreateBatch(ctx, "track-6", weeklyRequest(2))
	assert.ErrorIs(t, err, ErrOverbooking)
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestService_CreateBatch_StoreErrorPropagates(t *testing.T) {
	svc, repo, _, _ := newTestService(AllocationIncremental)
	ctx := context.Background()
	boom := errors.New("connection reset")
	repo.On("List", ctx, domain.FacilityTrack6, mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	repo.On("CreateBatch", ctx, mock.Anything).Return(boom)

	_, err := svc.CreateBatch(ctx, "track-6", weeklyRequest(2))
	assert.ErrorIs(t, err, boom)
}

func TestService_CreateBatch_Validation(t *testing.T) {
	svc, repo, _, _ := newTestService(AllocationIncremental)
	ctx := context.Background()

	_, err := svc.CreateBatch(ctx, "pool", weeklyRequest(1))
	assert.ErrorIs(t, err, ErrUnknownFacility)

	req := weeklyRequest(1)
	req.DateFrom = "03.06.2024"
	_, err = svc.CreateBatch(ctx, "track-6", req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req = weeklyRequest(1)
	req.Patterns[0].Weekday = 5
	req.DateTo = "2024-06-06"
	_, err = svc.CreateBatch(ctx, "track-6", req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Availability(t *testing.T) {
	svc, repo, _, _ := newTestService(AllocationIncremental)
	ctx := context.Background()
	repo.On("List", ctx, domain.FacilityTrack6, day("2024-06-03"), day("2024-06-03")).
		Return([]domain.Booking{bk("a", "KS", "09:00", "10:00", 1, 2)}, nil)

	out, err := svc.Availability(ctx, "track-6", AvailabilityRequest{
		Date: "2024-06-03", StartTime: "09:30", EndTime: "10:30", Count: 2, Consecutive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5, 6}, out.Free)
	assert.Equal(t, []int{3, 4}, out.Sections)
}

func TestService_Delete(t *testing.T) {
	svc, repo, _, pub := newTestService(AllocationIncremental)
	ctx := context.Background()
	b := bk("a", "KS", "09:00", "10:00", 1)
	repo.On("Delete", ctx, "a").Return(&b, nil)
	repo.On("Delete", ctx, "missing").Return(nil, nil)
	pub.On("Publish", mock.AnythingOfType("domain.ScheduleEvent")).Return()

	require.NoError(t, svc.Delete(ctx, "a"))
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestService_Reorganize(t *testing.T) {
	svc, repo, reorgs, pub := newTestService(AllocationIncremental)
	ctx := context.Background()
	repo.On("ListAll", ctx, domain.FacilityTrack6).Return([]domain.Booking{
		bk("a", "Beta", "09:00", "10:00", 5, 6),
		bk("b", "Alpha", "09:00", "10:00", 2),
	}, nil)
	reorgs.On("Apply", ctx,
		mock.MatchedBy(func(s domain.ReorganizationSnapshot) bool {
			return s.FacilityType == domain.FacilityTrack6 && len(s.Changes) == 2 &&
				s.Changes[0].BookingID == "b" && assert.ObjectsAreEqual([]int{2}, s.Changes[0].Sections)
		}),
		[]domain.SectionChange{{BookingID: "b", Sections: []int{1}}, {BookingID: "a", Sections: []int{2, 3}}},
	).Return(nil)
	pub.On("Publish", mock.Anything).Return()

	out, err := svc.Reorganize(ctx, "track-6")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Updated)
	assert.Empty(t, out.Warnings)
	reorgs.AssertExpectations(t)
}

func TestService_Reorganize_SkippedGroupKeepsOtherGroups(t *testing.T) {
	svc, repo, reorgs, pub := newTestService(AllocationIncremental)
	ctx := context.Background()
	repo.On("ListAll", ctx, domain.FacilityTrack6).Return([]domain.Booking{
		bk("a", "A", "09:00", "10:00", 1),
		bk("c", "C", "09:00", "10:00", 2),
		bk("b", "B", "09:00", "10:00", 4),
		bk("o", "O", "09:30", "10:30", 3),
		bk("z", "Z", "12:00", "13:00", 5),
		bk("y", "Y", "12:00", "13:00", 6),
	}, nil)
	reorgs.On("Apply", ctx, mock.Anything,
		[]domain.SectionChange{{BookingID: "y", Sections: []int{1}}, {BookingID: "z", Sections: []int{2}}},
	).Return(nil)
	pub.On("Publish", mock.Anything).Return()

	out, err := svc.Reorganize(ctx, "track-6")
	require.NoError(t, err)
	assert.Equal(t, 2, out.Updated)
	assert.NotEmpty(t, out.Warnings)
	reorgs.AssertExpectations(t)
}

func TestService_Reorganize_NothingToChange(t *testing.T) {
	svc, repo, reorgs, pub := newTestService(AllocationIncremental)
	ctx := context.Background()
	repo.On("ListAll", ctx, domain.FacilityTrack6).Return([]domain.Booking{bk("a", "Alpha", "09:00", "10:00", 1)}, nil)

	out, err := svc.Reorganize(ctx, "track-6")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Updated)
	reorgs.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything, mock.Anything)
	pub.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestService_UndoReorganization(t *testing.T) {
	svc, _, reorgs, pub := newTestService(AllocationIncremental)
	ctx := context.Background()

	reorgs.On("Latest", ctx, domain.FacilityRugby).Return(nil, nil)
	_, err := svc.UndoReorganization(ctx, "rugby")
	assert.ErrorIs(t, err, ErrNothingToUndo)

	snap := &domain.ReorganizationSnapshot{ID: 7, FacilityType: domain.FacilityTrack6}
	reorgs.On("Latest", ctx, domain.FacilityTrack6).Return(snap, nil)
	reorgs.On("Restore", ctx, *snap).Return(3, nil)
	pub.On("Publish", mock.Anything).Return()

	n, err := svc.UndoReorganization(ctx, "track-6")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
