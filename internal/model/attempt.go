package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerSubmission is one submitted (questionIndex, selectedOption) pair.
// Both indices are zero-based; neither is validated strictly — an
// out-of-range question index is scored as wrong, not rejected.
type AnswerSubmission struct {
	QuestionIndex  int `json:"question_index"`
	SelectedOption int `json:"selected_option"`
}

// Attempt is one persisted, scored submission of answers to a quiz by an
// identified user. Attempts are append-only: never mutated or deleted.
type Attempt struct {
	ID             uuid.UUID `json:"id"`
	QuizID         uuid.UUID `json:"quiz_id"`
	UserID         int       `json:"user_id"`
	Score          float64   `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	WrongAnswers   int       `json:"wrong_answers"`
	// TimeTakenSeconds is caller-supplied and trusted as-is; it is only
	// used as the rank tie-breaker.
	TimeTakenSeconds int `json:"time_taken_seconds"`
	// UserResponses is the verbatim submitted answer sequence, kept for
	// audit and replay.
	UserResponses []AnswerSubmission `json:"user_responses"`
	CreatedAt     time.Time          `json:"created_at"`
}

// SubmitQuizRequest is the payload for submitting quiz answers.
type SubmitQuizRequest struct {
	Answers          []AnswerSubmission `json:"answers" binding:"required"`
	TimeTakenSeconds int                `json:"time_taken_seconds" binding:"min=0"`
}

// SubmitQuizResult is the scored outcome returned to the submitter.
// Rank is nil on the guest path.
type SubmitQuizResult struct {
	Score             float64 `json:"score"`
	MaxScore          float64 `json:"max_score"`
	TotalQuestions    int     `json:"total_questions"`
	CorrectAnswers    int     `json:"correct_answers"`
	WrongAnswers      int     `json:"wrong_answers"`
	Percentage        int     `json:"percentage"`
	Rank              *int64  `json:"rank"`
	TotalParticipants int64   `json:"total_participants"`
	IsGuest           bool    `json:"is_guest"`
}
