package models

import (
	"time"
)

type Capture struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	EventID       uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_captures_event_number"`
	CaptureNumber int       `json:"capture_number" gorm:"not null;uniqueIndex:idx_captures_event_number"`
	FileName      string    `json:"file_name" gorm:"not null"`
	FileSize      int64     `json:"file_size" gorm:"not null"`
	MimeType      string    `json:"mime_type" gorm:"not null"`
	StorageKey    string    `json:"-" gorm:"not null"`
	CloudUploaded bool      `json:"cloud_uploaded" gorm:"default:false"`
	UploadedAt    time.Time `json:"uploaded_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CaptureResponse struct {
	ID            uint      `json:"id"`
	EventID       uint      `json:"event_id"`
	CaptureNumber int       `json:"capture_number"`
	FileName      string    `json:"file_name"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

func NewCaptureResponse(capture *Capture) CaptureResponse {
	return CaptureResponse{
		ID:            capture.ID,
		EventID:       capture.EventID,
		CaptureNumber: capture.CaptureNumber,
		FileName:      capture.FileName,
		FileSize:      capture.FileSize,
		MimeType:      capture.MimeType,
		UploadedAt:    capture.UploadedAt,
	}
}
