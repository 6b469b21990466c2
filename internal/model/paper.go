package model

import (
	"time"

	"github.com/google/uuid"
)

// Paper is a previous-exam question paper available for download.
type Paper struct {
	ID            uuid.UUID `json:"id"`
	CategoryKey   string    `json:"category_key"`
	SubcategoryID string    `json:"subcategory_id"`
	Title         string    `json:"title"`
	Logo          string    `json:"logo,omitempty"`
	Month         string    `json:"month,omitempty"`
	Year          int       `json:"year,omitempty"`
	PDFURL        string    `json:"pdf_url"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PaperListing pairs the full paper list with the recent sidebar entries
// for the same subcategory.
type PaperListing struct {
	Papers       []Paper `json:"papers"`
	RecentPapers []Paper `json:"recent_papers"`
}

// CreatePaperRequest is the admin payload for creating a paper.
type CreatePaperRequest struct {
	Title  string `json:"title" binding:"required,min=1,max=500"`
	Logo   string `json:"logo" binding:"omitempty,max=500"`
	Month  string `json:"month" binding:"omitempty,max=20"`
	Year   int    `json:"year" binding:"omitempty,min=1900,max=2100"`
	PDFURL string `json:"pdf_url" binding:"required,max=500"`
}
