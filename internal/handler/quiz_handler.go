package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepnest/prepnest-backend/internal/middleware"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// QuizHandler handles quiz taking, scoring and administration endpoints.
type QuizHandler struct {
	quizService     *service.QuizService
	taxonomyService *service.TaxonomyService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, taxonomyService *service.TaxonomyService) *QuizHandler {
	return &QuizHandler{
		quizService:     quizService,
		taxonomyService: taxonomyService,
	}
}

// ListQuizzes godoc
// GET /api/v1/quizzes/:category/:subcategory
// Lists quiz metadata for a subcategory, optionally filtered by ?month=.
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	if err := h.taxonomyService.RequireSubcategory(c.Request.Context(),
		model.SectionQuizzes, c.Param("category"), c.Param("subcategory")); err != nil {
		failTaxonomy(c, err)
		return
	}

	quizzes, err := h.quizService.ListBySubcategory(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), c.Query("month"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// GetQuizMeta godoc
// GET /api/v1/quizzes/items/:quiz_id/meta
// Returns the quiz's list-view fields plus the live question count.
func (h *QuizHandler) GetQuizMeta(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	meta, err := h.quizService.GetMeta(c.Request.Context(), quizID)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": meta})
}

// StartQuiz godoc
// GET /api/v1/quizzes/items/:quiz_id/start
// Returns the quiz-taking payload with the answer key stripped.
func (h *QuizHandler) StartQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.StartQuiz(c.Request.Context(), quizID)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// SubmitQuiz godoc
// POST /api/v1/quizzes/items/:quiz_id/submit
// Scores a submission. Runs behind OptionalJWT: authenticated callers get
// a persisted attempt and a rank, guests get the score only.
func (h *QuizHandler) SubmitQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.quizService.SubmitQuiz(c.Request.Context(), quizID, &req, middleware.Identity(c))
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetSolutions godoc
// GET /api/v1/quizzes/items/:quiz_id/solutions
// Returns the full quiz with answers and explanations. Requires auth.
func (h *QuizHandler) GetSolutions(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetSolutions(c.Request.Context(), quizID)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// ListMyAttempts godoc
// GET /api/v1/quizzes/attempts
// Returns the caller's attempt history.
func (h *QuizHandler) ListMyAttempts(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	attempts, err := h.quizService.ListAttemptsByUser(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

// CreateQuiz godoc
// POST /api/v1/admin/quizzes/:category/:subcategory
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	if err := h.taxonomyService.RequireSubcategory(c.Request.Context(),
		model.SectionQuizzes, c.Param("category"), c.Param("subcategory")); err != nil {
		failTaxonomy(c, err)
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), &req)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// UpdateQuiz godoc
// PUT /api/v1/admin/quizzes/items/:quiz_id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), quizID, &req)
	if err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteQuiz godoc
// DELETE /api/v1/admin/quizzes/items/:quiz_id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID); err != nil {
		failQuiz(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func failQuiz(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrQuizHasNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrCorrectOptionTooLarge):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
	default:
		if failConstraint(c, err) {
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func failTaxonomy(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound), errors.Is(err, service.ErrSubcategoryNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrCategoryInUse):
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
	default:
		if failConstraint(c, err) {
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
