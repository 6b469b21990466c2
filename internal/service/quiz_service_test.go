package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/service"
)

type fakeQuizStore struct {
	quizzes map[uuid.UUID]*model.Quiz
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: make(map[uuid.UUID]*model.Quiz)}
}

func (s *fakeQuizStore) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	q, ok := s.quizzes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *q
	return &cp, nil
}

func (s *fakeQuizStore) ListBySubcategory(_ context.Context, categoryKey, subID, month string) ([]model.QuizMeta, error) {
	return nil, nil
}

func (s *fakeQuizStore) Create(_ context.Context, q *model.Quiz) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	s.quizzes[q.ID] = q
	return nil
}

func (s *fakeQuizStore) Update(_ context.Context, q *model.Quiz) error {
	s.quizzes[q.ID] = q
	return nil
}

func (s *fakeQuizStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.quizzes[id]; !ok {
		return false, nil
	}
	delete(s.quizzes, id)
	return true, nil
}

type fakeAttemptStore struct {
	attempts  []model.Attempt
	insertErr error
	countErr  error
}

func (s *fakeAttemptStore) Insert(_ context.Context, a *model.Attempt) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	a.ID = uuid.New()
	s.attempts = append(s.attempts, *a)
	return nil
}

func (s *fakeAttemptStore) CountBetterScore(_ context.Context, quizID uuid.UUID, score float64) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	var n int64
	for _, a := range s.attempts {
		if a.QuizID == quizID && a.Score > score {
			n++
		}
	}
	return n, nil
}

func (s *fakeAttemptStore) CountSameScoreFaster(_ context.Context, quizID uuid.UUID, score float64, timeTakenSeconds int) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	var n int64
	for _, a := range s.attempts {
		if a.QuizID == quizID && a.Score == score && a.TimeTakenSeconds < timeTakenSeconds {
			n++
		}
	}
	return n, nil
}

func (s *fakeAttemptStore) CountByQuiz(_ context.Context, quizID uuid.UUID) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	var n int64
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			n++
		}
	}
	return n, nil
}

func (s *fakeAttemptStore) ListByUser(_ context.Context, userID, limit int) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(t *testing.T) (*service.QuizService, *fakeQuizStore, *fakeAttemptStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	quizzes := newFakeQuizStore()
	attempts := &fakeAttemptStore{}
	svc := service.NewQuizService(quizzes, attempts, rdb, zerolog.Nop())
	return svc, quizzes, attempts, mr
}

// fourQuestionQuiz has correct answers 0, 1, 2, 3 and two marks each.
func fourQuestionQuiz() *model.Quiz {
	questions := make([]model.Question, 4)
	for i := range questions {
		questions[i] = model.Question{
			ID:                 uuid.New(),
			QuestionText:       "q",
			Options:            []string{"a", "b", "c", "d"},
			CorrectOptionIndex: i,
			Explanation:        "because",
		}
	}
	return &model.Quiz{
		ID:               uuid.New(),
		Title:            "Weekly GK",
		CategoryKey:      "gk",
		SubcategoryID:    "weekly",
		MarksPerQuestion: 2,
		TotalMarks:       8,
		Questions:        questions,
	}
}

func TestSubmitQuizScoring(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	req := &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{
			{QuestionIndex: 0, SelectedOption: 0},
			{QuestionIndex: 1, SelectedOption: 1},
			{QuestionIndex: 2, SelectedOption: 2},
			{QuestionIndex: 3, SelectedOption: 0}, // wrong
		},
		TimeTakenSeconds: 120,
	}

	result, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Authenticated(1))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 6 {
		t.Fatalf("expected score 6, got %v", result.Score)
	}
	if result.MaxScore != 8 {
		t.Fatalf("expected max score 8, got %v", result.MaxScore)
	}
	if result.CorrectAnswers != 3 || result.WrongAnswers != 1 {
		t.Fatalf("expected 3 correct / 1 wrong, got %d / %d", result.CorrectAnswers, result.WrongAnswers)
	}
	if result.Percentage != 75 {
		t.Fatalf("expected percentage 75, got %d", result.Percentage)
	}
	if result.Rank == nil || *result.Rank != 1 {
		t.Fatalf("expected rank 1, got %v", result.Rank)
	}
	if result.TotalParticipants != 1 {
		t.Fatalf("expected 1 participant, got %d", result.TotalParticipants)
	}
}

func TestSubmitQuizOutOfRangeIndexCountsWrong(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	req := &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{
			{QuestionIndex: 99, SelectedOption: 0},
			{QuestionIndex: -1, SelectedOption: 0},
			{QuestionIndex: 0, SelectedOption: 0},
		},
	}

	result, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Guest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.CorrectAnswers != 1 || result.WrongAnswers != 2 {
		t.Fatalf("expected 1 correct / 2 wrong, got %d / %d", result.CorrectAnswers, result.WrongAnswers)
	}
}

func TestSubmitQuizGuestNotPersisted(t *testing.T) {
	svc, quizzes, attempts, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	attempts.attempts = []model.Attempt{
		{QuizID: quiz.ID, UserID: 7, Score: 8, TimeTakenSeconds: 60},
	}

	req := &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{{QuestionIndex: 0, SelectedOption: 0}},
	}
	result, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Guest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !result.IsGuest {
		t.Fatal("expected guest result")
	}
	if result.Rank != nil {
		t.Fatalf("expected nil rank for guest, got %d", *result.Rank)
	}
	if result.TotalParticipants != 1 {
		t.Fatalf("expected participant count 1, got %d", result.TotalParticipants)
	}
	if len(attempts.attempts) != 1 {
		t.Fatalf("guest submission must not persist an attempt, store has %d", len(attempts.attempts))
	}
}

func TestSubmitQuizRankTieBreak(t *testing.T) {
	svc, quizzes, attempts, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	// One higher score, one same score but faster, one same score slower.
	attempts.attempts = []model.Attempt{
		{QuizID: quiz.ID, UserID: 2, Score: 8, TimeTakenSeconds: 300},
		{QuizID: quiz.ID, UserID: 3, Score: 6, TimeTakenSeconds: 100},
		{QuizID: quiz.ID, UserID: 4, Score: 6, TimeTakenSeconds: 500},
	}

	req := &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{
			{QuestionIndex: 0, SelectedOption: 0},
			{QuestionIndex: 1, SelectedOption: 1},
			{QuestionIndex: 2, SelectedOption: 2},
		},
		TimeTakenSeconds: 200,
	}
	result, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Authenticated(1))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 6 {
		t.Fatalf("expected score 6, got %v", result.Score)
	}
	// Behind the 8-pointer and the faster 6-pointer, ahead of the slower one.
	if result.Rank == nil || *result.Rank != 3 {
		t.Fatalf("expected rank 3, got %v", result.Rank)
	}
	if result.TotalParticipants != 4 {
		t.Fatalf("expected 4 participants, got %d", result.TotalParticipants)
	}
}

func TestSubmitQuizRankIsSnapshot(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quiz.MarksPerQuestion = 1
	quizzes.quizzes[quiz.ID] = quiz

	answers := []model.AnswerSubmission{
		{QuestionIndex: 0, SelectedOption: 0},
		{QuestionIndex: 1, SelectedOption: 1},
		{QuestionIndex: 2, SelectedOption: 2},
	}

	slow, err := svc.SubmitQuiz(context.Background(), quiz.ID, &model.SubmitQuizRequest{
		Answers: answers, TimeTakenSeconds: 120,
	}, service.Authenticated(1))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if *slow.Rank != 1 {
		t.Fatalf("first submitter expected rank 1, got %d", *slow.Rank)
	}

	fast, err := svc.SubmitQuiz(context.Background(), quiz.ID, &model.SubmitQuizRequest{
		Answers: answers, TimeTakenSeconds: 90,
	}, service.Authenticated(2))
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if *fast.Rank != 1 {
		t.Fatalf("faster equal score expected rank 1, got %d", *fast.Rank)
	}
	// The earlier result keeps its submission-time rank even though a
	// recomputation would now place it second.
	if *slow.Rank != 1 {
		t.Fatalf("earlier rank mutated to %d", *slow.Rank)
	}
}

func TestSubmitQuizEmptyQuizZeroPercentage(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := &model.Quiz{ID: uuid.New(), Title: "empty", MarksPerQuestion: 2}
	quizzes.quizzes[quiz.ID] = quiz

	result, err := svc.SubmitQuiz(context.Background(), quiz.ID, &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{{QuestionIndex: 0, SelectedOption: 0}},
	}, service.Guest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.MaxScore != 0 || result.Percentage != 0 {
		t.Fatalf("expected zero max score and percentage, got %v / %d", result.MaxScore, result.Percentage)
	}
	if result.WrongAnswers != 1 {
		t.Fatalf("expected the dangling answer counted wrong, got %d", result.WrongAnswers)
	}
}

func TestSubmitQuizDefaultMarks(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quiz.MarksPerQuestion = 0
	quizzes.quizzes[quiz.ID] = quiz

	result, err := svc.SubmitQuiz(context.Background(), quiz.ID, &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{{QuestionIndex: 0, SelectedOption: 0}},
	}, service.Guest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 1 || result.MaxScore != 4 {
		t.Fatalf("expected score 1 of 4 with default marks, got %v of %v", result.Score, result.MaxScore)
	}
}

func TestSubmitQuizFailsClosedOnStoreError(t *testing.T) {
	svc, quizzes, attempts, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	req := &model.SubmitQuizRequest{
		Answers: []model.AnswerSubmission{{QuestionIndex: 0, SelectedOption: 0}},
	}

	attempts.insertErr = errors.New("connection reset")
	if _, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Authenticated(1)); err == nil {
		t.Fatal("expected error when insert fails")
	}

	attempts.insertErr = nil
	attempts.countErr = errors.New("connection reset")
	if _, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Authenticated(1)); err == nil {
		t.Fatal("expected error when rank counts fail")
	}
	// The guest path needs the participant count too.
	if _, err := svc.SubmitQuiz(context.Background(), quiz.ID, req, service.Guest()); err == nil {
		t.Fatal("expected error when guest participant count fails")
	}
}

func TestSubmitQuizUnknownQuiz(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.SubmitQuiz(context.Background(), uuid.New(), &model.SubmitQuizRequest{}, service.Guest())
	if !errors.Is(err, service.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestStartQuizStripsAnswers(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	payload, err := svc.StartQuiz(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(payload.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(payload.Questions))
	}
	for i, q := range payload.Questions {
		if q.ID != quiz.Questions[i].ID {
			t.Fatalf("question %d lost its id", i)
		}
		if len(q.Options) != len(quiz.Questions[i].Options) {
			t.Fatalf("question %d lost options", i)
		}
	}
	if payload.MarksPerQuestion != 2 {
		t.Fatalf("expected marks per question 2, got %v", payload.MarksPerQuestion)
	}
}

func TestStartQuizServesFromCache(t *testing.T) {
	svc, quizzes, _, _ := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	if _, err := svc.StartQuiz(context.Background(), quiz.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// A deleted row no longer matters once the payload is cached.
	delete(quizzes.quizzes, quiz.ID)
	payload, err := svc.StartQuiz(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("cached start failed: %v", err)
	}
	if payload.ID != quiz.ID {
		t.Fatalf("expected cached payload for %s, got %s", quiz.ID, payload.ID)
	}
}

func TestUpdateInvalidatesCachedPayload(t *testing.T) {
	svc, quizzes, _, mr := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	if _, err := svc.StartQuiz(context.Background(), quiz.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(mr.Keys()) == 0 {
		t.Fatal("expected cached payload")
	}

	idx := 0
	_, err := svc.Update(context.Background(), quiz.ID, &model.CreateQuizRequest{
		Title: "Weekly GK v2",
		Questions: []model.QuestionInput{
			{QuestionText: "q", Options: []string{"a", "b"}, CorrectOptionIndex: &idx},
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected cache invalidated, keys: %v", mr.Keys())
	}

	payload, err := svc.StartQuiz(context.Background(), quiz.ID)
	if err != nil {
		t.Fatalf("start after update failed: %v", err)
	}
	if len(payload.Questions) != 1 {
		t.Fatalf("expected refreshed payload with 1 question, got %d", len(payload.Questions))
	}
}

func TestDeleteInvalidatesCachedPayload(t *testing.T) {
	svc, quizzes, _, mr := newTestService(t)
	quiz := fourQuestionQuiz()
	quizzes.quizzes[quiz.ID] = quiz

	if _, err := svc.StartQuiz(context.Background(), quiz.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := svc.Delete(context.Background(), quiz.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("expected cache invalidated, keys: %v", mr.Keys())
	}
	if err := svc.Delete(context.Background(), quiz.ID); !errors.Is(err, service.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound on second delete, got %v", err)
	}
}

func TestCreateQuizValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "gk", "weekly", &model.CreateQuizRequest{Title: "empty"})
	if !errors.Is(err, service.ErrQuizHasNoQuestions) {
		t.Fatalf("expected ErrQuizHasNoQuestions, got %v", err)
	}

	idx := 5
	_, err = svc.Create(context.Background(), "gk", "weekly", &model.CreateQuizRequest{
		Title: "bad index",
		Questions: []model.QuestionInput{
			{QuestionText: "q", Options: []string{"a", "b"}, CorrectOptionIndex: &idx},
		},
	})
	if !errors.Is(err, service.ErrCorrectOptionTooLarge) {
		t.Fatalf("expected ErrCorrectOptionTooLarge, got %v", err)
	}
}

func TestCreateQuizComputesTotals(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	zero := 0
	one := 1
	quiz, err := svc.Create(context.Background(), "gk", "weekly", &model.CreateQuizRequest{
		Title:            "totals",
		MarksPerQuestion: 2,
		Questions: []model.QuestionInput{
			{QuestionText: "q1", Options: []string{"a", "b"}, CorrectOptionIndex: &zero},
			{QuestionText: "q2", Options: []string{"a", "b"}, CorrectOptionIndex: &one},
			{QuestionText: "q3", Options: []string{"a", "b"}, CorrectOptionIndex: &zero},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if quiz.TotalMarks != 6 {
		t.Fatalf("expected total marks 6, got %v", quiz.TotalMarks)
	}
	for i, q := range quiz.Questions {
		if q.ID == uuid.Nil {
			t.Fatalf("question %d has no id", i)
		}
	}
}
