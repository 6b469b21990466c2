package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// ArticleHandler handles current-affairs endpoints.
type ArticleHandler struct {
	articleService *service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articleService *service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// CategoryLanding godoc
// GET /api/v1/currentaffairs/:category
// Returns the category's subcategories with their article counts.
func (h *ArticleHandler) CategoryLanding(c *gin.Context) {
	subs, err := h.articleService.CategoryLanding(c.Request.Context(), c.Param("category"))
	if err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subcategories": subs})
}

// ListArticles godoc
// GET /api/v1/currentaffairs/:category/:subcategory
// Filters: ?month=, ?language=, ?include_paid=true.
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	filter := model.ArticleFilter{
		Month:       c.Query("month"),
		Language:    c.Query("language"),
		IncludePaid: c.Query("include_paid") == "true",
	}

	articles, err := h.articleService.ListBySubcategory(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"articles": articles})
}

// GetArticle godoc
// GET /api/v1/currentaffairs/articles/:article_id
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	article, err := h.articleService.GetByID(c.Request.Context(), id)
	if err != nil {
		failArticle(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"article": article})
}

// CreateArticle godoc
// POST /api/v1/admin/currentaffairs/:category/:subcategory/articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req model.CreateArticleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	article, err := h.articleService.Create(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), &req)
	if err != nil {
		failArticle(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"article": article})
}

// UpdateArticle godoc
// PUT /api/v1/admin/currentaffairs/articles/:article_id
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateArticleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failArticle(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"article": article})
}

// DeleteArticle godoc
// DELETE /api/v1/admin/currentaffairs/articles/:article_id
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("article_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		failArticle(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func failArticle(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSubcategoryNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		if failConstraint(c, err) {
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
