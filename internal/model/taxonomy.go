package model

import "time"

// Section identifies which content vertical a category tree belongs to.
// Every taxonomy query is scoped to exactly one section, so the four
// hierarchies (current affairs, e-books, papers, quizzes) never mix.
type Section string

const (
	SectionAffairs Section = "affairs"
	SectionEbooks  Section = "ebooks"
	SectionPapers  Section = "papers"
	SectionQuizzes Section = "quizzes"
)

// Category is a top-level content grouping within a section.
// The ID is a caller-chosen slug (e.g. "banking-exams").
type Category struct {
	ID          string    `json:"id"`
	Section     Section   `json:"-"`
	Title       string    `json:"title"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Subcategory is a second-level grouping under a category.
type Subcategory struct {
	ID          string    `json:"id"`
	Section     Section   `json:"-"`
	CategoryKey string    `json:"category_key"`
	Title       string    `json:"title"`
	Logo        string    `json:"logo,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryWithSubs is the nested directory view used by "all categories"
// landing endpoints.
type CategoryWithSubs struct {
	Category
	Subcategories []Subcategory `json:"subcategories"`
}

// CreateCategoryRequest is the payload for creating or updating a category.
type CreateCategoryRequest struct {
	ID          string `json:"id" binding:"required,min=1,max=64"`
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateCategoryRequest is the payload for updating a category in place.
type UpdateCategoryRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// CreateSubcategoryRequest is the payload for creating a subcategory.
type CreateSubcategoryRequest struct {
	ID          string `json:"id" binding:"required,min=1,max=64"`
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Logo        string `json:"logo" binding:"omitempty,max=500"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}
