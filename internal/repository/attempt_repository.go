package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// AttemptRepository handles quiz attempt data access. The attempts table is
// append-only: attempts are inserted once and never updated or deleted.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Insert persists a new attempt. The store assigns the ID and timestamp.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.Attempt) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO attempts (quiz_id, user_id, score, total_questions,
		                       correct_answers, wrong_answers, time_taken_seconds, user_responses)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		a.QuizID, a.UserID, a.Score, a.TotalQuestions,
		a.CorrectAnswers, a.WrongAnswers, a.TimeTakenSeconds, a.UserResponses,
	).Scan(&a.ID, &a.CreatedAt)
}

// CountBetterScore counts attempts on a quiz with a strictly greater score.
// The strict inequality means a just-inserted attempt never counts itself.
func (r *AttemptRepository) CountBetterScore(ctx context.Context, quizID uuid.UUID, score float64) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE quiz_id = $1 AND score > $2`,
		quizID, score,
	).Scan(&n)
	return n, err
}

// CountSameScoreFaster counts attempts on a quiz with an equal score and a
// strictly lower elapsed time. Again self-exclusive by construction.
func (r *AttemptRepository) CountSameScoreFaster(ctx context.Context, quizID uuid.UUID, score float64, timeTakenSeconds int) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts
		 WHERE quiz_id = $1 AND score = $2 AND time_taken_seconds < $3`,
		quizID, score, timeTakenSeconds,
	).Scan(&n)
	return n, err
}

// CountByQuiz counts all attempts for a quiz.
func (r *AttemptRepository) CountByQuiz(ctx context.Context, quizID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM attempts WHERE quiz_id = $1`, quizID,
	).Scan(&n)
	return n, err
}

// ListByUser retrieves a user's attempt history, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID, limit int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, quiz_id, user_id, score, total_questions, correct_answers,
		        wrong_answers, time_taken_seconds, user_responses, created_at
		 FROM attempts WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.UserID, &a.Score, &a.TotalQuestions,
			&a.CorrectAnswers, &a.WrongAnswers, &a.TimeTakenSeconds,
			&a.UserResponses, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
