package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// PageHandler handles CMS page endpoints.
type PageHandler struct {
	pageService *service.PageService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(pageService *service.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

// GetPage godoc
// GET /api/v1/pages/:slug?language=
func (h *PageHandler) GetPage(c *gin.Context) {
	page, err := h.pageService.GetBySlug(c.Request.Context(), c.Param("slug"), c.Query("language"))
	if err != nil {
		failPage(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"page": page})
}

// ListPages godoc
// GET /api/v1/admin/pages
func (h *PageHandler) ListPages(c *gin.Context) {
	pages, err := h.pageService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pages": pages})
}

// UpsertPage godoc
// PUT /api/v1/admin/pages
// Creates or replaces the page with the payload's slug + language.
func (h *PageHandler) UpsertPage(c *gin.Context) {
	var req model.UpsertPageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	page, err := h.pageService.Upsert(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"page": page})
}

// DeletePage godoc
// DELETE /api/v1/admin/pages/:slug?language=
func (h *PageHandler) DeletePage(c *gin.Context) {
	if err := h.pageService.Delete(c.Request.Context(), c.Param("slug"), c.Query("language")); err != nil {
		failPage(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func failPage(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPageNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	if failConstraint(c, err) {
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
