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

// EbookHandler handles e-book catalog endpoints.
type EbookHandler struct {
	ebookService *service.EbookService
}

// NewEbookHandler creates a new EbookHandler.
func NewEbookHandler(ebookService *service.EbookService) *EbookHandler {
	return &EbookHandler{ebookService: ebookService}
}

// ListEbooks godoc
// GET /api/v1/ebooks/:category/:subcategory
// Filters: ?language=, ?q= (title search).
func (h *EbookHandler) ListEbooks(c *gin.Context) {
	filter := model.EbookFilter{
		Language: c.Query("language"),
		Query:    c.Query("q"),
	}

	ebooks, err := h.ebookService.ListBySubcategory(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ebooks": ebooks})
}

// GetEbook godoc
// GET /api/v1/ebooks/items/:ebook_id
func (h *EbookHandler) GetEbook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ebook_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ebook, err := h.ebookService.GetByID(c.Request.Context(), id)
	if err != nil {
		failEbook(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ebook": ebook})
}

// TrackDownload godoc
// POST /api/v1/ebooks/items/:ebook_id/download
// Registers a download and returns the PDF URL. The counter increment is
// applied asynchronously by the download worker.
func (h *EbookHandler) TrackDownload(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ebook_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	ebook, err := h.ebookService.TrackDownload(c.Request.Context(), id)
	if err != nil {
		failEbook(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"pdf_url": ebook.PDFURL})
}

// CreateEbook godoc
// POST /api/v1/admin/ebooks/:category/:subcategory/items
func (h *EbookHandler) CreateEbook(c *gin.Context) {
	var req model.CreateEbookRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ebook, err := h.ebookService.Create(c.Request.Context(),
		c.Param("category"), c.Param("subcategory"), &req)
	if err != nil {
		failEbook(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"ebook": ebook})
}

// UpdateEbook godoc
// PUT /api/v1/admin/ebooks/items/:ebook_id
func (h *EbookHandler) UpdateEbook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ebook_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.CreateEbookRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ebook, err := h.ebookService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failEbook(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ebook": ebook})
}

// DeleteEbook godoc
// DELETE /api/v1/admin/ebooks/items/:ebook_id
func (h *EbookHandler) DeleteEbook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ebook_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.ebookService.Delete(c.Request.Context(), id); err != nil {
		failEbook(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func failEbook(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEbookNotFound),
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
