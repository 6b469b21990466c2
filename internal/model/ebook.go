package model

import (
	"time"

	"github.com/google/uuid"
)

// Ebook is a downloadable e-book under a category/subcategory.
type Ebook struct {
	ID            uuid.UUID `json:"id"`
	CategoryKey   string    `json:"category_key"`
	SubcategoryID string    `json:"subcategory_id"`
	Title         string    `json:"title"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	Language      string    `json:"language"`
	// Validity is display copy like "Lifetime access".
	Validity      string    `json:"validity,omitempty"`
	IsPaid        bool      `json:"is_paid"`
	PDFURL        string    `json:"pdf_url"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EbookFilter narrows public e-book listings.
type EbookFilter struct {
	Language string
	// Query is a case-insensitive title substring search.
	Query string
}

// CreateEbookRequest is the admin payload for creating an e-book.
type CreateEbookRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=500"`
	Thumbnail string `json:"thumbnail" binding:"omitempty,max=500"`
	Language  string `json:"language" binding:"omitempty,max=40"`
	Validity  string `json:"validity" binding:"omitempty,max=100"`
	IsPaid    bool   `json:"is_paid"`
	PDFURL    string `json:"pdf_url" binding:"required,max=500"`
}
