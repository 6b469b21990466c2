package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// QuizRepository handles quiz data access. Questions are embedded in the
// quiz row as JSONB: a quiz is always read and written as a whole, which
// is what the scoring engine's read-once invariant requires.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves a quiz with its full question set.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, category_key, subcategory_id, title, month, language, date,
		        description, participation_info, duration_minutes,
		        marks_per_question, total_marks, total_questions_count,
		        is_paid, questions, created_at, updated_at
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.CategoryKey, &q.SubcategoryID, &q.Title, &q.Month, &q.Language, &q.Date,
		&q.Description, &q.ParticipationInfo, &q.DurationMinutes,
		&q.MarksPerQuestion, &q.TotalMarks, &q.TotalQuestionsCount,
		&q.IsPaid, &q.Questions, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListBySubcategory retrieves quiz metadata (no questions) for a
// category/subcategory pair, newest first, optionally filtered by month.
func (r *QuizRepository) ListBySubcategory(ctx context.Context, categoryKey, subID, month string) ([]model.QuizMeta, error) {
	query := `SELECT id, category_key, subcategory_id, title, month, language, date,
	                 description, participation_info, duration_minutes,
	                 marks_per_question, total_marks,
	                 jsonb_array_length(questions) AS total_questions,
	                 is_paid, created_at
	          FROM quizzes WHERE category_key = $1 AND subcategory_id = $2`
	args := []interface{}{categoryKey, subID}
	if month != "" {
		query += ` AND month = $3`
		args = append(args, month)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []model.QuizMeta
	for rows.Next() {
		var m model.QuizMeta
		if err := rows.Scan(&m.ID, &m.CategoryKey, &m.SubcategoryID, &m.Title, &m.Month, &m.Language, &m.Date,
			&m.Description, &m.ParticipationInfo, &m.DurationMinutes,
			&m.MarksPerQuestion, &m.TotalMarks, &m.TotalQuestions,
			&m.IsPaid, &m.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, m)
	}
	return quizzes, rows.Err()
}

// Create inserts a new quiz.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (category_key, subcategory_id, title, month, language, date,
		                      description, participation_info, duration_minutes,
		                      marks_per_question, total_marks, total_questions_count,
		                      is_paid, questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		q.CategoryKey, q.SubcategoryID, q.Title, q.Month, q.Language, q.Date,
		q.Description, q.ParticipationInfo, q.DurationMinutes,
		q.MarksPerQuestion, q.TotalMarks, q.TotalQuestionsCount,
		q.IsPaid, q.Questions,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update replaces a quiz's content, including its question set.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET title = $1, month = $2, language = $3, date = $4,
		        description = $5, participation_info = $6, duration_minutes = $7,
		        marks_per_question = $8, total_marks = $9, total_questions_count = $10,
		        is_paid = $11, questions = $12, updated_at = NOW()
		 WHERE id = $13`,
		q.Title, q.Month, q.Language, q.Date,
		q.Description, q.ParticipationInfo, q.DurationMinutes,
		q.MarksPerQuestion, q.TotalMarks, q.TotalQuestionsCount,
		q.IsPaid, q.Questions, q.ID,
	)
	return err
}

// Delete removes a quiz. Reports whether a row was deleted.
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
