package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

// Taxonomy errors.
var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrCategoryInUse       = errors.New("category still has subcategories")
)

// TaxonomyService manages the section-scoped category/subcategory trees.
type TaxonomyService struct {
	repo *repository.TaxonomyRepository
	log  zerolog.Logger
}

// NewTaxonomyService creates a new TaxonomyService.
func NewTaxonomyService(repo *repository.TaxonomyRepository, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{
		repo: repo,
		log:  log.With().Str("component", "taxonomy_service").Logger(),
	}
}

// ListCategories returns all categories in a section.
func (s *TaxonomyService) ListCategories(ctx context.Context, section model.Section) ([]model.Category, error) {
	cats, err := s.repo.ListCategories(ctx, section)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}

// ListCategoriesWithSubs returns the nested directory view for a section.
func (s *TaxonomyService) ListCategoriesWithSubs(ctx context.Context, section model.Section) ([]model.CategoryWithSubs, error) {
	cats, err := s.repo.ListCategories(ctx, section)
	if err != nil {
		return nil, err
	}
	subs, err := s.repo.ListAllSubcategories(ctx, section)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]model.Subcategory, len(cats))
	for _, sub := range subs {
		byCategory[sub.CategoryKey] = append(byCategory[sub.CategoryKey], sub)
	}

	out := make([]model.CategoryWithSubs, len(cats))
	for i, c := range cats {
		children := byCategory[c.ID]
		if children == nil {
			children = []model.Subcategory{}
		}
		out[i] = model.CategoryWithSubs{Category: c, Subcategories: children}
	}
	return out, nil
}

// GetCategory retrieves one category in a section.
func (s *TaxonomyService) GetCategory(ctx context.Context, section model.Section, id string) (*model.Category, error) {
	cat, err := s.repo.GetCategory(ctx, section, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return cat, nil
}

// CreateCategory adds a category to a section.
func (s *TaxonomyService) CreateCategory(ctx context.Context, section model.Section, req *model.CreateCategoryRequest) (*model.Category, error) {
	cat := &model.Category{
		ID:          req.ID,
		Section:     section,
		Title:       req.Title,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := s.repo.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	s.log.Info().Str("section", string(section)).Str("category", cat.ID).Msg("Category created")
	return cat, nil
}

// UpdateCategory modifies a category in place.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, section model.Section, id string, req *model.UpdateCategoryRequest) (*model.Category, error) {
	cat := &model.Category{
		ID:          id,
		Section:     section,
		Title:       req.Title,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := s.repo.UpdateCategory(ctx, cat); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return cat, nil
}

// DeleteCategory removes a category. Categories with subcategories cannot
// be removed until the subcategories are deleted first.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, section model.Section, id string) error {
	subs, err := s.repo.ListSubcategories(ctx, section, id)
	if err != nil {
		return fmt.Errorf("list subcategories: %w", err)
	}
	if len(subs) > 0 {
		return ErrCategoryInUse
	}

	deleted, err := s.repo.DeleteCategory(ctx, section, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

// ListSubcategories returns the subcategories under a category.
func (s *TaxonomyService) ListSubcategories(ctx context.Context, section model.Section, categoryKey string) ([]model.Subcategory, error) {
	if _, err := s.GetCategory(ctx, section, categoryKey); err != nil {
		return nil, err
	}
	subs, err := s.repo.ListSubcategories(ctx, section, categoryKey)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.Subcategory{}
	}
	return subs, nil
}

// CreateSubcategory adds a subcategory under an existing category.
func (s *TaxonomyService) CreateSubcategory(ctx context.Context, section model.Section, categoryKey string, req *model.CreateSubcategoryRequest) (*model.Subcategory, error) {
	if _, err := s.GetCategory(ctx, section, categoryKey); err != nil {
		return nil, err
	}

	sub := &model.Subcategory{
		ID:          req.ID,
		Section:     section,
		CategoryKey: categoryKey,
		Title:       req.Title,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := s.repo.CreateSubcategory(ctx, sub); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("section", string(section)).
		Str("category", categoryKey).
		Str("subcategory", sub.ID).
		Msg("Subcategory created")
	return sub, nil
}

// UpdateSubcategory modifies a subcategory in place.
func (s *TaxonomyService) UpdateSubcategory(ctx context.Context, section model.Section, categoryKey, id string, req *model.CreateSubcategoryRequest) (*model.Subcategory, error) {
	sub := &model.Subcategory{
		ID:          id,
		Section:     section,
		CategoryKey: categoryKey,
		Title:       req.Title,
		Logo:        req.Logo,
		Description: req.Description,
	}
	if err := s.repo.UpdateSubcategory(ctx, sub); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

// DeleteSubcategory removes a subcategory.
func (s *TaxonomyService) DeleteSubcategory(ctx context.Context, section model.Section, id string) error {
	deleted, err := s.repo.DeleteSubcategory(ctx, section, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSubcategoryNotFound
	}
	return nil
}

// RequireSubcategory verifies a category/subcategory pair exists in a
// section. Content services call this before attaching items.
func (s *TaxonomyService) RequireSubcategory(ctx context.Context, section model.Section, categoryKey, subID string) error {
	ok, err := s.repo.SubcategoryExists(ctx, section, categoryKey, subID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSubcategoryNotFound
	}
	return nil
}
