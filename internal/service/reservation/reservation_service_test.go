package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/stayhub/internal/domain"
	"github.com/Domenick1991/stayhub/internal/kafka"
	"github.com/Domenick1991/stayhub/internal/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) FindReservedDates(ctx context.Context, accommodationID int64, checkIn, checkOut time.Time) ([]domain.ReservedDate, error) {
	args := m.Called(ctx, accommodationID, checkIn, checkOut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReservedDate), args.Error(1)
}

func (m *MockReservationRepository) CreatePendingDates(ctx context.Context, accommodationID int64, nights []time.Time) error {
	args := m.Called(ctx, accommodationID, nights)
	return args.Error(0)
}

func (m *MockReservationRepository) CreateConfirmed(ctx context.Context, reservation *domain.Reservation) (int64, error) {
	args := m.Called(ctx, reservation)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Delete(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockAccommodationRepository struct {
	mock.Mock
}

func (m *MockAccommodationRepository) List(ctx context.Context) ([]domain.Accommodation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Accommodation), args.Error(1)
}

func (m *MockAccommodationRepository) GetByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Accommodation), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var (
	testCheckIn  = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	testCheckOut = time.Date(2025, 6, 22, 0, 0, 0, 0, time.UTC)
)

type serviceFixture struct {
	service        *ReservationService
	reservations   *MockReservationRepository
	accommodations *MockAccommodationRepository
	members        *MockMemberRepository
	producer       *MockProducer
	coordinator    *lock.MemoryCoordinator
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		reservations:   &MockReservationRepository{},
		accommodations: &MockAccommodationRepository{},
		members:        &MockMemberRepository{},
		producer:       &MockProducer{},
		coordinator:    lock.NewMemoryCoordinator(),
	}
	f.service = NewReservationService(
		f.reservations,
		f.accommodations,
		f.members,
		f.coordinator,
		f.producer,
		time.Minute,
		15*time.Minute,
		zap.NewNop(),
		WithEventsTopic("booking-events"),
	)
	return f
}

func (f *serviceFixture) leasesHeld(ctx context.Context, accommodationID int64) int {
	held := 0
	for _, night := range domain.NightsIn(testCheckIn, testCheckOut) {
		owner, _ := f.coordinator.CurrentOwner(ctx, lock.NightKey(accommodationID, night))
		if owner != "" {
			held++
		}
	}
	return held
}

func TestTentativelyReserve_Admits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1, BasePrice: 100}, nil).Once()
	f.reservations.On("FindReservedDates", ctx, int64(1), testCheckIn, testCheckOut).Return([]domain.ReservedDate{}, nil).Once()
	f.reservations.On("CreatePendingDates", ctx, int64(1), domain.NightsIn(testCheckIn, testCheckOut)).Return(nil).Once()

	admitted, err := f.service.TentativelyReserve(ctx, 1, 7, testCheckIn, testCheckOut)

	require.NoError(t, err)
	assert.True(t, admitted)
	assert.Zero(t, f.leasesHeld(ctx, 1), "leases must be released once the hold is durable")
	f.reservations.AssertExpectations(t)
}

func TestTentativelyReserve_DurableConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1}, nil).Once()
	f.reservations.On("FindReservedDates", ctx, int64(1), testCheckIn, testCheckOut).
		Return([]domain.ReservedDate{{AccommodationID: 1, ReservedAt: testCheckIn, Status: domain.ReservedDateStatusConfirmed}}, nil).Once()

	admitted, err := f.service.TentativelyReserve(ctx, 1, 7, testCheckIn, testCheckOut)

	require.NoError(t, err)
	assert.False(t, admitted)
	f.reservations.AssertNotCalled(t, "CreatePendingDates", mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, f.leasesHeld(ctx, 1))
}

func TestTentativelyReserve_UniqueConstraintLosesRace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1}, nil).Once()
	f.reservations.On("FindReservedDates", ctx, int64(1), testCheckIn, testCheckOut).Return([]domain.ReservedDate{}, nil).Once()
	f.reservations.On("CreatePendingDates", ctx, int64(1), mock.Anything).Return(domain.ErrAlreadyReserved).Once()

	admitted, err := f.service.TentativelyReserve(ctx, 1, 7, testCheckIn, testCheckOut)

	require.NoError(t, err, "losing on the constraint is contention, not an error")
	assert.False(t, admitted)
}

func TestTentativelyReserve_LockContention(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// A competitor holds the second night.
	_, err := f.coordinator.TryAcquire(ctx, lock.NightKey(1, testCheckIn.AddDate(0, 0, 1)), "competitor", time.Minute)
	require.NoError(t, err)

	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1}, nil).Once()

	admitted, err := f.service.TentativelyReserve(ctx, 1, 7, testCheckIn, testCheckOut)

	require.NoError(t, err)
	assert.False(t, admitted)
	f.reservations.AssertNotCalled(t, "FindReservedDates", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Only the competitor's lease remains.
	assert.Equal(t, 1, f.leasesHeld(ctx, 1))
}

func TestTentativelyReserve_AccommodationNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.accommodations.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrAccommodationNotFound).Once()

	admitted, err := f.service.TentativelyReserve(ctx, 99, 7, testCheckIn, testCheckOut)

	assert.ErrorIs(t, err, domain.ErrAccommodationNotFound)
	assert.False(t, admitted)
}

func TestTentativelyReserve_InvalidRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	admitted, err := f.service.TentativelyReserve(ctx, 1, 7, testCheckOut, testCheckIn)

	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	assert.False(t, admitted)
	f.accommodations.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTentativelyReserve_ReleasesLeasesOnStoreFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1}, nil).Once()
	f.reservations.On("FindReservedDates", ctx, int64(1), testCheckIn, testCheckOut).
		Return(nil, assert.AnError).Once()

	admitted, err := f.service.TentativelyReserve(ctx, 1, 7, testCheckIn, testCheckOut)

	assert.Error(t, err)
	assert.False(t, admitted)
	assert.Zero(t, f.leasesHeld(ctx, 1), "leases must not leak when the durable store fails")
}

func TestConfirm_CreatesReservationAndPublishes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.members.On("GetByID", ctx, int64(7)).Return(&domain.Member{ID: 7}, nil).Once()
	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1, BasePrice: 150}, nil).Once()
	f.reservations.On("CreateConfirmed", ctx, mock.AnythingOfType("*domain.Reservation")).
		Run(func(args mock.Arguments) {
			res := args.Get(1).(*domain.Reservation)
			assert.Equal(t, int64(300), res.TotalPrice, "2 nights at 150")
			assert.Equal(t, "see you there", res.Message)
		}).
		Return(int64(42), nil).Once()
	f.producer.On("Publish", ctx, "booking-events", "1", mock.Anything).Return(nil).Once()

	id, err := f.service.Confirm(ctx, ConfirmInput{
		AccommodationID: 1,
		MemberID:        7,
		CheckIn:         testCheckIn,
		CheckOut:        testCheckOut,
		Message:         "see you there",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	f.producer.AssertExpectations(t)
}

func TestConfirm_WithoutHoldFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.members.On("GetByID", ctx, int64(7)).Return(&domain.Member{ID: 7}, nil).Once()
	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1, BasePrice: 150}, nil).Once()
	f.reservations.On("CreateConfirmed", ctx, mock.Anything).Return(int64(0), domain.ErrHoldNotFound).Once()

	_, err := f.service.Confirm(ctx, ConfirmInput{
		AccommodationID: 1,
		MemberID:        7,
		CheckIn:         testCheckIn,
		CheckOut:        testCheckOut,
	})

	assert.ErrorIs(t, err, domain.ErrHoldNotFound)
	f.producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_MemberNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.members.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrMemberNotFound).Once()

	_, err := f.service.Confirm(ctx, ConfirmInput{
		AccommodationID: 1,
		MemberID:        99,
		CheckIn:         testCheckIn,
		CheckOut:        testCheckOut,
	})

	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestConfirm_InvalidRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.Confirm(ctx, ConfirmInput{
		AccommodationID: 1,
		MemberID:        7,
		CheckIn:         testCheckOut,
		CheckOut:        testCheckIn,
	})

	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	f.members.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestConfirm_PublishFailureDoesNotFailConfirm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.members.On("GetByID", ctx, int64(7)).Return(&domain.Member{ID: 7}, nil).Once()
	f.accommodations.On("GetByID", ctx, int64(1)).Return(&domain.Accommodation{ID: 1, BasePrice: 150}, nil).Once()
	f.reservations.On("CreateConfirmed", ctx, mock.Anything).Return(int64(42), nil).Once()
	f.producer.On("Publish", ctx, "booking-events", "1", mock.Anything).Return(assert.AnError).Once()

	id, err := f.service.Confirm(ctx, ConfirmInput{
		AccommodationID: 1,
		MemberID:        7,
		CheckIn:         testCheckIn,
		CheckOut:        testCheckOut,
	})

	require.NoError(t, err, "the event is fire-and-forget")
	assert.Equal(t, int64(42), id)
}

func TestCancel_DeletesAndPublishes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	reservation := &domain.Reservation{ID: 42, AccommodationID: 1, CheckIn: testCheckIn, CheckOut: testCheckOut}
	f.reservations.On("GetByID", ctx, int64(42)).Return(reservation, nil).Once()
	f.reservations.On("Delete", ctx, reservation).Return(nil).Once()
	f.producer.On("Publish", ctx, "booking-events", "1", mock.Anything).Return(nil).Once()

	err := f.service.Cancel(ctx, 42)

	require.NoError(t, err)
	f.reservations.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.reservations.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrReservationNotFound).Once()

	err := f.service.Cancel(ctx, 99)

	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	f.reservations.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestExpireStaleHolds(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.reservations.On("DeleteStalePending", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

	swept, err := f.service.ExpireStaleHolds(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), swept)
}

var _ Producer = (*kafka.Producer)(nil)
