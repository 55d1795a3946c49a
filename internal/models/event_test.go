package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatusCanTransition(t *testing.T) {
	statuses := []EventStatus{
		EventStatusDraft,
		EventStatusActive,
		EventStatusExpired,
		EventStatusCleaned,
	}

	allowed := map[EventStatus]EventStatus{
		EventStatusDraft:   EventStatusActive,
		EventStatusActive:  EventStatusExpired,
		EventStatusExpired: EventStatusCleaned,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
}

func TestEventStatusNoBackwardTransitions(t *testing.T) {
	assert.False(t, EventStatusExpired.CanTransition(EventStatusActive))
	assert.False(t, EventStatusCleaned.CanTransition(EventStatusExpired))
	assert.False(t, EventStatusActive.CanTransition(EventStatusDraft))
}

func TestNewEventResponseTokenVisibility(t *testing.T) {
	event := &Event{ID: 1, Slug: "abc123", GalleryToken: "secret"}

	assert.Equal(t, "secret", NewEventResponse(event, true).GalleryToken)
	assert.Empty(t, NewEventResponse(event, false).GalleryToken)
}
