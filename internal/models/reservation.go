package models

// ReservationCode enumerates the outcomes of a slot claim. Every failed
// precondition is a distinct result, not an error; only storage failures
// surface as errors from the reservation service.
type ReservationCode string

const (
	ReservationGranted      ReservationCode = "granted"
	ReservationNotFound     ReservationCode = "not_found"
	ReservationNotActive    ReservationCode = "not_active"
	ReservationNotStarted   ReservationCode = "not_started"
	ReservationEnded        ReservationCode = "ended"
	ReservationLimitReached ReservationCode = "limit_reached"
	ReservationNoneBuffered ReservationCode = "no_reservation"
	// ReservationConflict means the conditional counter write lost a race.
	// The caller may retry; the service never retries internally.
	ReservationConflict ReservationCode = "conflict"
)

type EventCounters struct {
	CaptureCount int         `json:"captureCount"`
	PhotoLimit   int         `json:"photoLimit"`
	Status       EventStatus `json:"status"`
}

type ReservationResult struct {
	Code          ReservationCode
	CaptureNumber int
	Message       string
	Event         *EventCounters
}

func (r *ReservationResult) Granted() bool {
	return r.Code == ReservationGranted
}

type ReservationResponse struct {
	Success       bool           `json:"success"`
	CaptureNumber int            `json:"captureNumber,omitempty"`
	Message       string         `json:"message,omitempty"`
	Event         *EventCounters `json:"event,omitempty"`
}

func NewReservationResponse(result *ReservationResult) ReservationResponse {
	return ReservationResponse{
		Success:       result.Granted(),
		CaptureNumber: result.CaptureNumber,
		Message:       result.Message,
		Event:         result.Event,
	}
}
