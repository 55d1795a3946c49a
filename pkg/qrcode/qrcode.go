package qrcode

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRService renders the QR entry point attendees scan to reach an event.
type QRService struct {
	joinBaseURL string
}

func NewQRService(joinBaseURL string) *QRService {
	return &QRService{
		joinBaseURL: joinBaseURL,
	}
}

// GenerateJoinCode returns a PNG QR code pointing at the event's join URL.
func (s *QRService) GenerateJoinCode(slug string, size int) ([]byte, error) {
	fullURL := fmt.Sprintf("%s%s", s.joinBaseURL, slug)

	png, err := qrcode.Encode(fullURL, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code PNG: %w", err)
	}

	return png, nil
}
