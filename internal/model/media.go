package model

import (
	"time"

	"github.com/google/uuid"
)

// MediaType categorizes an uploaded file.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypePDF   MediaType = "pdf"
	MediaTypeOther MediaType = "other"
)

// Media is the bookkeeping record for an uploaded file.
type Media struct {
	ID         uuid.UUID `json:"id"`
	Type       MediaType `json:"type"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedBy *int      `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
