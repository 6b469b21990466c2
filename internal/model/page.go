package model

import "time"

// Page is a CMS page keyed by slug + language (one "about-us" per language).
type Page struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	Language string `json:"language"`
	Title    string `json:"title"`
	// Content is rich-text HTML.
	Content   string    `json:"content,omitempty"`
	Images    []string  `json:"images,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpsertPageRequest is the admin payload for creating or updating a page.
type UpsertPageRequest struct {
	Slug     string   `json:"slug" binding:"required,min=1,max=255"`
	Language string   `json:"language" binding:"omitempty,max=10"`
	Title    string   `json:"title" binding:"required,min=1,max=500"`
	Content  string   `json:"content" binding:"omitempty"`
	Images   []string `json:"images" binding:"omitempty,dive,max=500"`
}
