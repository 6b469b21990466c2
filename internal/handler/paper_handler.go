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

// PaperHandler handles previous-paper endpoints.
type PaperHandler struct {
	paperService *service.PaperService
}

// NewPaperHandler creates a new PaperHandler.
func NewPaperHandler(paperService *service.PaperService) *PaperHandler {
	return &PaperHandler{paperService: paperService}
}

// ListPapers godoc
// GET /api/v1/papers/:category/:subcategory
// Returns the filtered list plus the ten newest papers for the sidebar.
// Filter: ?month=.
func (h *PaperHandler) ListPapers(c *gin.Context) {
	listing, err := h.paperService.ListBySubcategory(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), c.Query("month"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

// TrackDownload godoc
// POST /api/v1/papers/items/:paper_id/download
func (h *PaperHandler) TrackDownload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.paperService.TrackDownload(c.Request.Context(), id)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pdf_url": paper.PDFURL})
}

// CreatePaper godoc
// POST /api/v1/admin/papers/:category/:subcategory/items
func (h *PaperHandler) CreatePaper(c *gin.Context) {
	var req model.CreatePaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	paper, err := h.paperService.Create(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), &req)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"paper": paper})
}

// UpdatePaper godoc
// PUT /api/v1/admin/papers/items/:paper_id
func (h *PaperHandler) UpdatePaper(c *gin.Context) {
	id, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreatePaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	paper, err := h.paperService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// DeletePaper godoc
// DELETE /api/v1/admin/papers/items/:paper_id
func (h *PaperHandler) DeletePaper(c *gin.Context) {
	id, err := uuid.Parse(c.Param("paper_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.paperService.Delete(c.Request.Context(), id); err != nil {
		failPaper(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func failPaper(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPaperNotFound),
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
