package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pixbooth/pixbooth-backend/internal/models"
)

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Create(event *models.Event) (*models.Event, error) {
	args := m.Called(event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) GetByID(id uint) (*models.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) GetBySlug(slug string) (*models.Event, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventStore) GetByOperatorID(operatorID uint) ([]models.Event, error) {
	args := m.Called(operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventStore) SlugExists(slug string) (bool, error) {
	args := m.Called(slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventStore) Update(event *models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventStore) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestCreateEventSnapshotsPlan(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	store.On("SlugExists", mock.Anything).Return(false, nil)
	store.On("Create", mock.MatchedBy(func(event *models.Event) bool {
		return event.PlanTier == models.PlanBasic &&
			event.PhotoLimit == 100 &&
			event.ValidityDays == 14 &&
			event.HasCloudAlbum &&
			event.Status == models.EventStatusDraft &&
			event.GalleryToken != "" &&
			len(event.Slug) == slugLength
	})).Return(&models.Event{ID: 1}, nil)

	event, err := svc.CreateEvent(4, models.CreateEventRequest{
		Title: "Birthday Bash",
		Plan:  models.PlanBasic,
	})

	assert.NoError(t, err)
	assert.NotNil(t, event)
	store.AssertExpectations(t)
}

func TestCreateEventUnknownPlan(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	event, err := svc.CreateEvent(4, models.CreateEventRequest{
		Title: "Birthday Bash",
		Plan:  models.PlanTier("platinum"),
	})

	assert.ErrorIs(t, err, models.ErrPrecondition)
	assert.Nil(t, event)
	store.AssertNotCalled(t, "Create", mock.Anything)
}

func TestPublishEventStampsSchedule(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	draft := &models.Event{
		ID:           1,
		OperatorID:   4,
		Status:       models.EventStatusDraft,
		ValidityDays: 14,
	}
	store.On("GetByID", uint(1)).Return(draft, nil)
	store.On("Update", mock.MatchedBy(func(event *models.Event) bool {
		return event.Status == models.EventStatusActive &&
			!event.StartDate.IsZero() &&
			event.EndDate.Equal(event.StartDate.AddDate(0, 0, 14))
	})).Return(nil)

	event, err := svc.PublishEvent(1, 4)

	assert.NoError(t, err)
	assert.Equal(t, models.EventStatusActive, event.Status)
	store.AssertExpectations(t)
}

func TestPublishEventKeepsExplicitSchedule(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	start := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 2, 22, 0, 0, 0, time.UTC)
	draft := &models.Event{
		ID:         1,
		OperatorID: 4,
		Status:     models.EventStatusDraft,
		StartDate:  start,
		EndDate:    end,
	}
	store.On("GetByID", uint(1)).Return(draft, nil)
	store.On("Update", mock.Anything).Return(nil)

	event, err := svc.PublishEvent(1, 4)

	assert.NoError(t, err)
	assert.Equal(t, start, event.StartDate)
	assert.Equal(t, end, event.EndDate)
}

func TestPublishEventOnlyFromDraft(t *testing.T) {
	for _, status := range []models.EventStatus{
		models.EventStatusActive,
		models.EventStatusExpired,
		models.EventStatusCleaned,
	} {
		t.Run(string(status), func(t *testing.T) {
			store := new(MockEventStore)
			svc := NewEventService(store, nil)

			store.On("GetByID", uint(1)).Return(&models.Event{ID: 1, OperatorID: 4, Status: status}, nil)

			event, err := svc.PublishEvent(1, 4)

			assert.ErrorIs(t, err, models.ErrPrecondition)
			assert.Nil(t, event)
			store.AssertNotCalled(t, "Update", mock.Anything)
		})
	}
}

func TestPublishEventWrongOperator(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	store.On("GetByID", uint(1)).Return(&models.Event{ID: 1, OperatorID: 9, Status: models.EventStatusDraft}, nil)

	event, err := svc.PublishEvent(1, 4)

	assert.ErrorIs(t, err, models.ErrPermission)
	assert.Nil(t, event)
}

func TestDeleteEventRejectsLiveStates(t *testing.T) {
	for _, status := range []models.EventStatus{
		models.EventStatusActive,
		models.EventStatusExpired,
	} {
		t.Run(string(status), func(t *testing.T) {
			store := new(MockEventStore)
			svc := NewEventService(store, nil)

			store.On("GetByID", uint(1)).Return(&models.Event{ID: 1, OperatorID: 4, Status: status}, nil)

			err := svc.DeleteEvent(1, 4)

			assert.ErrorIs(t, err, models.ErrPrecondition)
			store.AssertNotCalled(t, "Delete", mock.Anything)
		})
	}
}

func TestDeleteEventDraft(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	store.On("GetByID", uint(1)).Return(&models.Event{ID: 1, OperatorID: 4, Status: models.EventStatusDraft}, nil)
	store.On("Delete", uint(1)).Return(nil)

	err := svc.DeleteEvent(1, 4)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCreateEventRetriesSlugCollisions(t *testing.T) {
	store := new(MockEventStore)
	svc := NewEventService(store, nil)

	store.On("SlugExists", mock.Anything).Return(true, nil).Twice()
	store.On("SlugExists", mock.Anything).Return(false, nil).Once()
	store.On("Create", mock.Anything).Return(&models.Event{ID: 1}, nil)

	event, err := svc.CreateEvent(4, models.CreateEventRequest{
		Title: "Birthday Bash",
		Plan:  models.PlanFree,
	})

	assert.NoError(t, err)
	assert.NotNil(t, event)
	store.AssertNumberOfCalls(t, "SlugExists", 3)
}
