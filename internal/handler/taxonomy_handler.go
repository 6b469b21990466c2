package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/response"
	"github.com/prepnest/prepnest-backend/internal/service"
	"github.com/prepnest/prepnest-backend/internal/validator"
)

// TaxonomyHandler exposes one section's category/subcategory tree. The
// same handler is registered once per content vertical.
type TaxonomyHandler struct {
	section         model.Section
	taxonomyService *service.TaxonomyService
}

// NewTaxonomyHandler creates a TaxonomyHandler bound to a section.
func NewTaxonomyHandler(section model.Section, taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{section: section, taxonomyService: taxonomyService}
}

// ListCategories godoc
// GET /api/v1/<section>/categories
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	cats, err := h.taxonomyService.ListCategoriesWithSubs(c.Request.Context(), h.section)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": cats})
}

// ListSubcategories godoc
// GET /api/v1/<section>/categories/:category/subcategories
func (h *TaxonomyHandler) ListSubcategories(c *gin.Context) {
	subs, err := h.taxonomyService.ListSubcategories(c.Request.Context(), h.section, c.Param("category"))
	if err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subcategories": subs})
}

// CreateCategory godoc
// POST /api/v1/admin/<section>/categories
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cat, err := h.taxonomyService.CreateCategory(c.Request.Context(), h.section, &req)
	if err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"category": cat})
}

// UpdateCategory godoc
// PUT /api/v1/admin/<section>/categories/:category
func (h *TaxonomyHandler) UpdateCategory(c *gin.Context) {
	var req model.UpdateCategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cat, err := h.taxonomyService.UpdateCategory(c.Request.Context(), h.section, c.Param("category"), &req)
	if err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"category": cat})
}

// DeleteCategory godoc
// DELETE /api/v1/admin/<section>/categories/:category
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	if err := h.taxonomyService.DeleteCategory(c.Request.Context(), h.section, c.Param("category")); err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CreateSubcategory godoc
// POST /api/v1/admin/<section>/categories/:category/subcategories
func (h *TaxonomyHandler) CreateSubcategory(c *gin.Context) {
	var req model.CreateSubcategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.taxonomyService.CreateSubcategory(c.Request.Context(), h.section, c.Param("category"), &req)
	if err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subcategory": sub})
}

// UpdateSubcategory godoc
// PUT /api/v1/admin/<section>/categories/:category/subcategories/:subcategory
func (h *TaxonomyHandler) UpdateSubcategory(c *gin.Context) {
	var req model.CreateSubcategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	sub, err := h.taxonomyService.UpdateSubcategory(c.Request.Context(),
		h.section, c.Param("category"), c.Param("subcategory"), &req)
	if err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subcategory": sub})
}

// DeleteSubcategory godoc
// DELETE /api/v1/admin/<section>/categories/:category/subcategories/:subcategory
func (h *TaxonomyHandler) DeleteSubcategory(c *gin.Context) {
	if err := h.taxonomyService.DeleteSubcategory(c.Request.Context(), h.section, c.Param("subcategory")); err != nil {
		failTaxonomy(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
