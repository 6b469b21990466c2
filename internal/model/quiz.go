package model

import (
	"time"

	"github.com/google/uuid"
)

// Question is a single multiple-choice question embedded in a quiz.
// CorrectOptionIndex is zero-based into Options.
type Question struct {
	ID                 uuid.UUID `json:"id"`
	QuestionText       string    `json:"question_text"`
	Options            []string  `json:"options"`
	CorrectOptionIndex int       `json:"correct_option_index"`
	Explanation        string    `json:"explanation,omitempty"`
}

// Quiz is a named, ordered set of multiple-choice questions with a uniform
// per-question mark value. Once published it is immutable from the scoring
// engine's perspective; only the admin API mutates it.
type Quiz struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	CategoryKey   string     `json:"category_key"`
	SubcategoryID string     `json:"subcategory_id"`
	Month         string     `json:"month,omitempty"`
	Language      string     `json:"language"`
	Date          time.Time  `json:"date"`
	Description   string     `json:"description,omitempty"`
	// ParticipationInfo is display-only copy shown before starting.
	ParticipationInfo string `json:"participation_info,omitempty"`
	DurationMinutes   int    `json:"duration_minutes"`
	// MarksPerQuestion is a quiz-wide scalar; there is no per-question
	// weighting.
	MarksPerQuestion float64 `json:"marks_per_question"`
	// TotalMarks is computed at creation time from the question count.
	// Scoring never reads it back; it always recounts the live questions.
	TotalMarks float64 `json:"total_marks"`
	// TotalQuestionsCount is the admin-entered display value. It may
	// disagree with len(Questions) and must never be used for scoring.
	TotalQuestionsCount *int       `json:"total_questions_count,omitempty"`
	IsPaid              bool       `json:"is_paid"`
	Questions           []Question `json:"questions,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// QuizMeta is the list/detail view without questions.
type QuizMeta struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	CategoryKey       string    `json:"category_key"`
	SubcategoryID     string    `json:"subcategory_id"`
	Month             string    `json:"month,omitempty"`
	Language          string    `json:"language"`
	Date              time.Time `json:"date"`
	Description       string    `json:"description,omitempty"`
	ParticipationInfo string    `json:"participation_info,omitempty"`
	DurationMinutes   int       `json:"duration_minutes"`
	MarksPerQuestion  float64   `json:"marks_per_question"`
	TotalMarks        float64   `json:"total_marks"`
	TotalQuestions    int       `json:"total_questions"`
	IsPaid            bool      `json:"is_paid"`
	CreatedAt         time.Time `json:"created_at"`
}

// SanitizedQuestion is a question stripped of the answer key and
// explanation, safe to hand to a quiz taker.
type SanitizedQuestion struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	Options      []string  `json:"options"`
}

// SanitizedQuiz is the quiz-taking payload returned by the start endpoint.
type SanitizedQuiz struct {
	ID                uuid.UUID           `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	ParticipationInfo string              `json:"participation_info,omitempty"`
	DurationMinutes   int                 `json:"duration_minutes"`
	MarksPerQuestion  float64             `json:"marks_per_question"`
	TotalMarks        float64             `json:"total_marks"`
	Questions         []SanitizedQuestion `json:"questions"`
}

// QuestionInput is a question as submitted by the admin create/update API.
type QuestionInput struct {
	QuestionText       string   `json:"question_text" binding:"required,min=1"`
	Options            []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectOptionIndex *int     `json:"correct_option_index" binding:"required,min=0"`
	Explanation        string   `json:"explanation" binding:"omitempty"`
}

// CreateQuizRequest is the admin payload for creating a quiz under a
// category/subcategory pair.
type CreateQuizRequest struct {
	Title               string          `json:"title" binding:"required,min=3,max=255"`
	Month               string          `json:"month" binding:"omitempty,max=20"`
	Language            string          `json:"language" binding:"omitempty,max=40"`
	Date                *time.Time      `json:"date" binding:"omitempty"`
	Description         string          `json:"description" binding:"omitempty"`
	ParticipationInfo   string          `json:"participation_info" binding:"omitempty"`
	DurationMinutes     int             `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	MarksPerQuestion    float64         `json:"marks_per_question" binding:"omitempty,gt=0"`
	TotalQuestionsCount *int            `json:"total_questions_count" binding:"omitempty,min=0"`
	IsPaid              bool            `json:"is_paid"`
	Questions           []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}
