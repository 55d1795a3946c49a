package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type MockReservationEventStore struct {
	mock.Mock
}

func (m *MockReservationEventStore) GetByID(id uint) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockReservationEventStore) MarkExpired(id uint, galleryExpiresAt time.Time) error {
	args := m.Called(id, galleryExpiresAt)
	return args.Error(0)
}

func (m *MockReservationEventStore) CompareAndSwapCounters(id uint, expectCaptures, expectReserved int, set models.EventCounterUpdate) (bool, error) {
	args := m.Called(id, expectCaptures, expectReserved, set)
	return args.Bool(0), args.Error(1)
}

var reservationNow = time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)

func newReservationService(store *MockReservationEventStore) *ReservationService {
	svc := NewReservationService(store, 15, zap.NewNop())
	svc.now = func() time.Time { return reservationNow }
	return svc
}

func activeEvent() *models.Event {
	return &models.Event{
		ID:           7,
		Title:        "Summer Wedding",
		Status:       models.EventStatusActive,
		PhotoLimit:   100,
		CaptureCount: 3,
		StartDate:    reservationNow.Add(-2 * time.Hour),
		EndDate:      reservationNow.Add(4 * time.Hour),
	}
}

func TestReserveGranted(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	store.On("GetByID", uint(7)).Return(event, nil)
	store.On("CompareAndSwapCounters", uint(7), 3, 0, mock.MatchedBy(func(set models.EventCounterUpdate) bool {
		return set.CaptureCount == 4 &&
			set.Status == models.EventStatusActive &&
			set.Analytics.TotalCaptures == 1 &&
			set.Analytics.LastCaptureHour == 18
	})).Return(true, nil)

	result, err := svc.Reserve(7)

	assert.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, 4, result.CaptureNumber)
	assert.Equal(t, 4, result.Event.CaptureCount)
	store.AssertExpectations(t)
}

func TestReserveLimitReachedDoesNotWrite(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.CaptureCount = 100
	store.On("GetByID", uint(7)).Return(event, nil)

	result, err := svc.Reserve(7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationLimitReached, result.Code)
	assert.Equal(t, 100, result.Event.CaptureCount)
	store.AssertNotCalled(t, "CompareAndSwapCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "MarkExpired", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestReserveFinalSlotExpiresEvent(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.PhotoLimit = 10
	event.CaptureCount = 9
	wantExpiry := reservationNow.AddDate(0, 0, 15)
	store.On("GetByID", uint(7)).Return(event, nil)
	store.On("CompareAndSwapCounters", uint(7), 9, 0, mock.MatchedBy(func(set models.EventCounterUpdate) bool {
		return set.CaptureCount == 10 &&
			set.Status == models.EventStatusExpired &&
			set.GalleryExpiresAt != nil &&
			set.GalleryExpiresAt.Equal(wantExpiry)
	})).Return(true, nil)

	result, err := svc.Reserve(7)

	assert.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, 10, result.CaptureNumber)
	assert.Equal(t, models.EventStatusExpired, result.Event.Status)
	store.AssertExpectations(t)
}

func TestReserveConflictIsRetryableResult(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	store.On("GetByID", uint(7)).Return(activeEvent(), nil)
	store.On("CompareAndSwapCounters", uint(7), 3, 0, mock.Anything).Return(false, nil).Once()

	result, err := svc.Reserve(7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationConflict, result.Code)
	assert.False(t, result.Granted())
	// The service never retries on its own.
	store.AssertNumberOfCalls(t, "CompareAndSwapCounters", 1)
	store.AssertExpectations(t)
}

func TestReserveEndedMarksExpired(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.EndDate = reservationNow.Add(-time.Minute)
	wantExpiry := reservationNow.AddDate(0, 0, 15)
	store.On("GetByID", uint(7)).Return(event, nil)
	store.On("MarkExpired", uint(7), wantExpiry).Return(nil)

	result, err := svc.Reserve(7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationEnded, result.Code)
	assert.Equal(t, models.EventStatusExpired, result.Event.Status)
	store.AssertNotCalled(t, "CompareAndSwapCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestReservePreconditionOrder(t *testing.T) {
	tests := []struct {
		name  string
		event *models.Event
		want  models.ReservationCode
	}{
		{
			name: "draft event",
			event: func() *models.Event {
				e := activeEvent()
				e.Status = models.EventStatusDraft
				return e
			}(),
			want: models.ReservationNotActive,
		},
		{
			name: "not started",
			event: func() *models.Event {
				e := activeEvent()
				e.StartDate = reservationNow.Add(time.Hour)
				return e
			}(),
			want: models.ReservationNotStarted,
		},
		{
			name: "cleaned event",
			event: func() *models.Event {
				e := activeEvent()
				e.Status = models.EventStatusCleaned
				return e
			}(),
			want: models.ReservationNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockReservationEventStore)
			svc := newReservationService(store)
			store.On("GetByID", uint(7)).Return(tt.event, nil)

			result, err := svc.Reserve(7)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, result.Code)
			store.AssertNotCalled(t, "CompareAndSwapCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReserveEventNotFound(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	store.On("GetByID", uint(99)).Return(nil, models.ErrNotFound)

	result, err := svc.Reserve(99)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationNotFound, result.Code)
	assert.Nil(t, result.Event)
}

func TestReserveStorageError(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	store.On("GetByID", uint(7)).Return(nil, errors.New("connection refused"))

	result, err := svc.Reserve(7)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestReserveBufferedProvisionalNumber(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.ReservedCount = 1
	store.On("GetByID", uint(7)).Return(event, nil)
	store.On("CompareAndSwapCounters", uint(7), 3, 1, mock.MatchedBy(func(set models.EventCounterUpdate) bool {
		// Buffering bumps the reservation only; the capture counter and
		// analytics stay untouched until confirmation.
		return set.CaptureCount == 3 && set.ReservedCount == 2 && set.Analytics.TotalCaptures == 0
	})).Return(true, nil)

	result, err := svc.ReserveBuffered(7)

	assert.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, 5, result.CaptureNumber)
	store.AssertExpectations(t)
}

func TestReserveBufferedCountsPendingAgainstLimit(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.PhotoLimit = 10
	event.CaptureCount = 7
	event.ReservedCount = 3
	store.On("GetByID", uint(7)).Return(event, nil)

	result, err := svc.ReserveBuffered(7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationLimitReached, result.Code)
	store.AssertNotCalled(t, "CompareAndSwapCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmReservation(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.ReservedCount = 2
	store.On("GetByID", uint(7)).Return(event, nil)
	store.On("CompareAndSwapCounters", uint(7), 3, 2, mock.MatchedBy(func(set models.EventCounterUpdate) bool {
		return set.CaptureCount == 4 && set.ReservedCount == 1 && set.Analytics.TotalCaptures == 1
	})).Return(true, nil)

	result, err := svc.ConfirmReservation(7)

	assert.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, 4, result.CaptureNumber)
	store.AssertExpectations(t)
}

func TestConfirmWithoutBuffer(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	store.On("GetByID", uint(7)).Return(activeEvent(), nil)

	result, err := svc.ConfirmReservation(7)

	assert.NoError(t, err)
	assert.Equal(t, models.ReservationNoneBuffered, result.Code)
	store.AssertNotCalled(t, "CompareAndSwapCounters", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmFinalSlotExpiresEvent(t *testing.T) {
	store := new(MockReservationEventStore)
	svc := newReservationService(store)

	event := activeEvent()
	event.PhotoLimit = 4
	event.CaptureCount = 3
	event.ReservedCount = 1
	store.On("GetByID", uint(7)).Return(event, nil)
	store.On("CompareAndSwapCounters", uint(7), 3, 1, mock.MatchedBy(func(set models.EventCounterUpdate) bool {
		return set.CaptureCount == 4 &&
			set.ReservedCount == 0 &&
			set.Status == models.EventStatusExpired &&
			set.GalleryExpiresAt != nil
	})).Return(true, nil)

	result, err := svc.ConfirmReservation(7)

	assert.NoError(t, err)
	assert.True(t, result.Granted())
	assert.Equal(t, models.EventStatusExpired, result.Event.Status)
	store.AssertExpectations(t)
}
