package model

import (
	"time"

	"github.com/google/uuid"
)

// Article is a current-affairs content item under a category/subcategory.
type Article struct {
	ID            uuid.UUID `json:"id"`
	CategoryKey   string    `json:"category_key"`
	SubcategoryID string    `json:"subcategory_id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	// Body is rich-text HTML produced by the admin editor.
	Body      string    `json:"body,omitempty"`
	Language  string    `json:"language"`
	Month     string    `json:"month,omitempty"`
	Date      time.Time `json:"date"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	IsPaid    bool      `json:"is_paid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticleFilter narrows public article listings.
type ArticleFilter struct {
	Month    string
	Language string
	// PaidOnly=false hides paid content from anonymous listings.
	IncludePaid bool
}

// CreateArticleRequest is the admin payload for creating an article.
type CreateArticleRequest struct {
	Title     string     `json:"title" binding:"required,min=3,max=500"`
	Slug      string     `json:"slug" binding:"required,min=1,max=255"`
	Body      string     `json:"body" binding:"omitempty"`
	Language  string     `json:"language" binding:"omitempty,max=40"`
	Month     string     `json:"month" binding:"omitempty,max=20"`
	Date      *time.Time `json:"date" binding:"omitempty"`
	Thumbnail string     `json:"thumbnail" binding:"omitempty,max=500"`
	IsPaid    bool       `json:"is_paid"`
}
