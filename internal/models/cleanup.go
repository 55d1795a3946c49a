package models

import (
	"time"
)

// CleanupRun is the append-only summary of one cleanup invocation. It is
// persisted after the batch regardless of per-event failures; Fatal marks
// invocations that could not even query the candidate set.
type CleanupRun struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	StartedAt       time.Time `json:"started_at" gorm:"not null"`
	FinishedAt      time.Time `json:"finished_at"`
	Processed       int       `json:"processed" gorm:"not null;default:0"`
	Succeeded       int       `json:"succeeded" gorm:"not null;default:0"`
	Failed          int       `json:"failed" gorm:"not null;default:0"`
	PhotosDeleted   int       `json:"photos_deleted" gorm:"not null;default:0"`
	ArchivesDeleted int       `json:"archives_deleted" gorm:"not null;default:0"`
	Fatal           bool      `json:"fatal" gorm:"not null;default:false"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// CleanupError records one failed event inside a run. Never mutated.
type CleanupError struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	RunID      uint      `json:"run_id" gorm:"not null;index"`
	EventID    uint      `json:"event_id" gorm:"not null"`
	EventTitle string    `json:"event_title"`
	Message    string    `json:"message" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
