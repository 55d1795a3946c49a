package models

import (
	"time"
)

type EventStatus string

const (
	EventStatusDraft   EventStatus = "draft"
	EventStatusActive  EventStatus = "active"
	EventStatusExpired EventStatus = "expired"
	EventStatusCleaned EventStatus = "cleaned"
)

// CanTransition reports whether moving from s to next is a legal lifecycle
// step. Transitions are strictly forward: draft→active is operator-initiated,
// active→expired and expired→cleaned are system-initiated.
func (s EventStatus) CanTransition(next EventStatus) bool {
	switch {
	case s == EventStatusDraft && next == EventStatusActive:
		return true
	case s == EventStatusActive && next == EventStatusExpired:
		return true
	case s == EventStatusExpired && next == EventStatusCleaned:
		return true
	}
	return false
}

// EventAnalytics is an opaque rollup stored as a JSON column on the event.
// It is written together with the capture counter and carries no guarantee
// under concurrent writers beyond the counter CAS itself.
type EventAnalytics struct {
	TotalCaptures   int        `json:"total_captures"`
	LastCaptureAt   *time.Time `json:"last_capture_at,omitempty"`
	LastCaptureHour int        `json:"last_capture_hour"`
}

type Event struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	OperatorID       uint           `json:"operator_id" gorm:"not null;index"`
	Title            string         `json:"title" gorm:"not null"`
	Slug             string         `json:"slug" gorm:"unique;not null"`
	GalleryToken     string         `json:"-" gorm:"not null"`
	PlanTier         PlanTier       `json:"plan_tier" gorm:"not null"`
	PhotoLimit       int            `json:"photo_limit" gorm:"not null"`
	ValidityDays     int            `json:"validity_days" gorm:"not null"`
	HasCloudAlbum    bool           `json:"has_cloud_album" gorm:"not null;default:false"`
	StartDate        time.Time      `json:"start_date"`
	EndDate          time.Time      `json:"end_date"`
	Status           EventStatus    `json:"status" gorm:"not null;default:'draft'"`
	CaptureCount     int            `json:"capture_count" gorm:"not null;default:0"`
	ReservedCount    int            `json:"reserved_count" gorm:"not null;default:0"`
	Analytics        EventAnalytics `json:"analytics" gorm:"type:json;serializer:json"`
	GalleryExpiresAt *time.Time     `json:"gallery_expires_at,omitempty"`
	ArchiveBuiltAt   *time.Time     `json:"-"`
	ExpiryWarnedAt   *time.Time     `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// EventCounterUpdate is the full field set written by the conditional
// counter update. The write succeeds only if the counters on the row still
// match the values the caller read.
type EventCounterUpdate struct {
	CaptureCount     int
	ReservedCount    int
	Analytics        EventAnalytics
	Status           EventStatus
	GalleryExpiresAt *time.Time
}

type CreateEventRequest struct {
	Title     string    `json:"title" validate:"required"`
	Plan      PlanTier  `json:"plan" validate:"required,plan_tier"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type EventResponse struct {
	ID               uint        `json:"id"`
	Title            string      `json:"title"`
	Slug             string      `json:"slug"`
	GalleryToken     string      `json:"gallery_token,omitempty"`
	PlanTier         PlanTier    `json:"plan_tier"`
	PhotoLimit       int         `json:"photo_limit"`
	HasCloudAlbum    bool        `json:"has_cloud_album"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          time.Time   `json:"end_date"`
	Status           EventStatus `json:"status"`
	CaptureCount     int         `json:"capture_count"`
	ReservedCount    int         `json:"reserved_count"`
	GalleryExpiresAt *time.Time  `json:"gallery_expires_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
}

// NewEventResponse includes the gallery token only for the owning operator.
func NewEventResponse(event *Event, includeToken bool) EventResponse {
	resp := EventResponse{
		ID:               event.ID,
		Title:            event.Title,
		Slug:             event.Slug,
		PlanTier:         event.PlanTier,
		PhotoLimit:       event.PhotoLimit,
		HasCloudAlbum:    event.HasCloudAlbum,
		StartDate:        event.StartDate,
		EndDate:          event.EndDate,
		Status:           event.Status,
		CaptureCount:     event.CaptureCount,
		ReservedCount:    event.ReservedCount,
		GalleryExpiresAt: event.GalleryExpiresAt,
		CreatedAt:        event.CreatedAt,
	}
	if includeToken {
		resp.GalleryToken = event.GalleryToken
	}
	return resp
}
