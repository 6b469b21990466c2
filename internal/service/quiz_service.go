package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// Domain Errors
var (
	ErrQuizNotFound          = errors.New("quiz not found")
	ErrQuizHasNoQuestions    = errors.New("quiz has no questions")
	ErrCorrectOptionTooLarge = errors.New("correct_option_index exceeds the option count")
)

// QuizStore is the quiz persistence contract. The engine never mutates a
// quiz through it; Create/Update/Delete serve the admin API only.
type QuizStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	ListBySubcategory(ctx context.Context, categoryKey, subID, month string) ([]model.QuizMeta, error)
	Create(ctx context.Context, q *model.Quiz) error
	Update(ctx context.Context, q *model.Quiz) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// AttemptStore is the attempt persistence contract. Inserts are
// append-only; the two count predicates are strict so a just-inserted
// attempt never counts itself.
type AttemptStore interface {
	Insert(ctx context.Context, a *model.Attempt) error
	CountBetterScore(ctx context.Context, quizID uuid.UUID, score float64) (int64, error)
	CountSameScoreFaster(ctx context.Context, quizID uuid.UUID, score float64, timeTakenSeconds int) (int64, error)
	CountByQuiz(ctx context.Context, quizID uuid.UUID) (int64, error)
	ListByUser(ctx context.Context, userID, limit int) ([]model.Attempt, error)
}

// QuizService handles quiz delivery, scoring and ranking.
type QuizService struct {
	quizzes  QuizStore
	attempts AttemptStore
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizzes QuizStore, attempts AttemptStore, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizzes:  quizzes,
		attempts: attempts,
		rdb:      rdb,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// GetByID retrieves the full quiz, answer key included. Callers that hand
// the result to a quiz taker must go through StartQuiz instead.
func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

// ListBySubcategory retrieves quiz metadata for a subcategory, optionally
// filtered by month.
func (s *QuizService) ListBySubcategory(ctx context.Context, categoryKey, subID, month string) ([]model.QuizMeta, error) {
	quizzes, err := s.quizzes.ListBySubcategory(ctx, categoryKey, subID, month)
	if err != nil {
		return nil, err
	}
	if quizzes == nil {
		quizzes = []model.QuizMeta{}
	}
	return quizzes, nil
}

// GetMeta retrieves a single quiz's metadata with the live question count.
func (s *QuizService) GetMeta(ctx context.Context, id uuid.UUID) (*model.QuizMeta, error) {
	quiz, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.QuizMeta{
		ID:                quiz.ID,
		Title:             quiz.Title,
		CategoryKey:       quiz.CategoryKey,
		SubcategoryID:     quiz.SubcategoryID,
		Month:             quiz.Month,
		Language:          quiz.Language,
		Date:              quiz.Date,
		Description:       quiz.Description,
		ParticipationInfo: quiz.ParticipationInfo,
		DurationMinutes:   quiz.DurationMinutes,
		MarksPerQuestion:  quiz.MarksPerQuestion,
		TotalMarks:        quiz.TotalMarks,
		TotalQuestions:    len(quiz.Questions),
		IsPaid:            quiz.IsPaid,
		CreatedAt:         quiz.CreatedAt,
	}, nil
}

// StartQuiz returns the quiz-taking payload with the answer key and
// explanations stripped. The sanitized payload is cached in Redis and
// invalidated whenever the admin API touches the quiz.
func (s *QuizService) StartQuiz(ctx context.Context, id uuid.UUID) (*model.SanitizedQuiz, error) {
	cacheKey := config.CacheKey.QuizPayloadKey(id.String())

	if data, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var cached model.SanitizedQuiz
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		s.rdb.Del(ctx, cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Payload cache read failed")
	}

	quiz, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sanitized := sanitizeQuiz(quiz)

	if data, err := json.Marshal(sanitized); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, data, 0).Err(); err != nil {
			s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Payload cache write failed")
		}
	}

	return sanitized, nil
}

func sanitizeQuiz(quiz *model.Quiz) *model.SanitizedQuiz {
	questions := make([]model.SanitizedQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = model.SanitizedQuestion{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      q.Options,
		}
	}
	return &model.SanitizedQuiz{
		ID:                quiz.ID,
		Title:             quiz.Title,
		Description:       quiz.Description,
		ParticipationInfo: quiz.ParticipationInfo,
		DurationMinutes:   quiz.DurationMinutes,
		MarksPerQuestion:  pointsPerQuestion(quiz),
		TotalMarks:        quiz.TotalMarks,
		Questions:         questions,
	}
}

func pointsPerQuestion(quiz *model.Quiz) float64 {
	if quiz.MarksPerQuestion > 0 {
		return quiz.MarksPerQuestion
	}
	return 1
}

// SubmitQuiz scores a submission against the live question set and, for
// authenticated identities, persists the attempt and computes its rank.
//
// Scoring is a pure function of the quiz and the answers. An out-of-range
// questionIndex finds no question and is counted as wrong rather than
// rejected. Rank is a point-in-time snapshot taken after the insert is
// durable; it is never recomputed as later attempts arrive.
func (s *QuizService) SubmitQuiz(ctx context.Context, quizID uuid.UUID, req *model.SubmitQuizRequest, identity Identity) (*model.SubmitQuizResult, error) {
	quiz, err := s.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}

	points := pointsPerQuestion(quiz)
	totalQuestions := len(quiz.Questions)
	maxScore := float64(totalQuestions) * points

	var score float64
	var correct, wrong int
	for _, ans := range req.Answers {
		if ans.QuestionIndex >= 0 && ans.QuestionIndex < totalQuestions &&
			quiz.Questions[ans.QuestionIndex].CorrectOptionIndex == ans.SelectedOption {
			score += points
			correct++
		} else {
			wrong++
		}
	}

	percentage := 0
	if maxScore > 0 {
		percentage = int(math.Round(score / maxScore * 100))
	}

	result := &model.SubmitQuizResult{
		Score:          score,
		MaxScore:       maxScore,
		TotalQuestions: totalQuestions,
		CorrectAnswers: correct,
		WrongAnswers:   wrong,
		Percentage:     percentage,
	}

	userID, authed := identity.UserID()
	if !authed {
		total, err := s.attempts.CountByQuiz(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("count participants: %w", err)
		}
		result.TotalParticipants = total
		result.IsGuest = true
		return result, nil
	}

	attempt := &model.Attempt{
		QuizID:           quizID,
		UserID:           userID,
		Score:            score,
		TotalQuestions:   totalQuestions,
		CorrectAnswers:   correct,
		WrongAnswers:     wrong,
		TimeTakenSeconds: req.TimeTakenSeconds,
		UserResponses:    req.Answers,
	}
	if err := s.attempts.Insert(ctx, attempt); err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	// Both predicates are strict, so the attempt just inserted cannot
	// match either of them. The counts therefore rank it against every
	// other attempt without self-counting.
	better, err := s.attempts.CountBetterScore(ctx, quizID, score)
	if err != nil {
		return nil, fmt.Errorf("count better scores: %w", err)
	}
	faster, err := s.attempts.CountSameScoreFaster(ctx, quizID, score, req.TimeTakenSeconds)
	if err != nil {
		return nil, fmt.Errorf("count same-score faster: %w", err)
	}
	total, err := s.attempts.CountByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	rank := better + faster + 1
	result.Rank = &rank
	result.TotalParticipants = total

	s.log.Info().
		Str("quiz_id", quizID.String()).
		Int("user_id", userID).
		Float64("score", score).
		Int64("rank", rank).
		Msg("Attempt scored")

	return result, nil
}

// GetSolutions returns the full quiz with answers and explanations for
// post-submission review.
func (s *QuizService) GetSolutions(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return s.GetByID(ctx, id)
}

// ListAttemptsByUser retrieves a user's attempt history, newest first.
func (s *QuizService) ListAttemptsByUser(ctx context.Context, userID, limit int) ([]model.Attempt, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	attempts, err := s.attempts.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	return attempts, nil
}

// Create builds a quiz from the admin payload. TotalMarks is fixed at
// creation from the question count; scoring always recounts live questions
// and never reads it back.
func (s *QuizService) Create(ctx context.Context, categoryKey, subID string, req *model.CreateQuizRequest) (*model.Quiz, error) {
	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	marks := req.MarksPerQuestion
	if marks <= 0 {
		marks = 1
	}
	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	quiz := &model.Quiz{
		Title:               req.Title,
		CategoryKey:         categoryKey,
		SubcategoryID:       subID,
		Month:               req.Month,
		Language:            req.Language,
		Date:                date,
		Description:         req.Description,
		ParticipationInfo:   req.ParticipationInfo,
		DurationMinutes:     req.DurationMinutes,
		MarksPerQuestion:    marks,
		TotalMarks:          float64(len(questions)) * marks,
		TotalQuestionsCount: req.TotalQuestionsCount,
		IsPaid:              req.IsPaid,
		Questions:           questions,
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(questions)).
		Msg("Quiz created")
	return quiz, nil
}

// Update replaces a quiz's content and invalidates its cached payload.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	marks := req.MarksPerQuestion
	if marks <= 0 {
		marks = 1
	}

	quiz.Title = req.Title
	quiz.Month = req.Month
	quiz.Language = req.Language
	if req.Date != nil {
		quiz.Date = *req.Date
	}
	quiz.Description = req.Description
	quiz.ParticipationInfo = req.ParticipationInfo
	quiz.DurationMinutes = req.DurationMinutes
	quiz.MarksPerQuestion = marks
	quiz.TotalMarks = float64(len(questions)) * marks
	quiz.TotalQuestionsCount = req.TotalQuestionsCount
	quiz.IsPaid = req.IsPaid
	quiz.Questions = questions

	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, err
	}
	s.invalidatePayload(ctx, id)

	return quiz, nil
}

// Delete removes a quiz and invalidates its cached payload. Attempts on
// the quiz are kept; they are historical records.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.quizzes.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuizNotFound
	}
	s.invalidatePayload(ctx, id)
	return nil
}

func (s *QuizService) invalidatePayload(ctx context.Context, id uuid.UUID) {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(id.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Payload cache invalidation failed")
	}
}

func buildQuestions(inputs []model.QuestionInput) ([]model.Question, error) {
	if len(inputs) == 0 {
		return nil, ErrQuizHasNoQuestions
	}
	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		if *in.CorrectOptionIndex >= len(in.Options) {
			return nil, ErrCorrectOptionTooLarge
		}
		questions[i] = model.Question{
			ID:                 uuid.New(),
			QuestionText:       in.QuestionText,
			Options:            in.Options,
			CorrectOptionIndex: *in.CorrectOptionIndex,
			Explanation:        in.Explanation,
		}
	}
	return questions, nil
}
