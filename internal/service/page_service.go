package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

var ErrPageNotFound = errors.New("page not found")

// defaultPageLanguage is assumed when a request omits the language.
const defaultPageLanguage = "en"

// PageService handles CMS pages keyed by slug + language.
type PageService struct {
	repo *repository.PageRepository
	log  zerolog.Logger
}

// NewPageService creates a new PageService.
func NewPageService(repo *repository.PageRepository, log zerolog.Logger) *PageService {
	return &PageService{
		repo: repo,
		log:  log.With().Str("component", "page_service").Logger(),
	}
}

// GetBySlug retrieves a page.
func (s *PageService) GetBySlug(ctx context.Context, slug, language string) (*model.Page, error) {
	if language == "" {
		language = defaultPageLanguage
	}
	page, err := s.repo.GetBySlug(ctx, slug, language)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return page, nil
}

// List retrieves all pages for the admin panel.
func (s *PageService) List(ctx context.Context) ([]model.Page, error) {
	pages, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []model.Page{}
	}
	return pages, nil
}

// Upsert creates or replaces the page with the request's slug + language.
func (s *PageService) Upsert(ctx context.Context, req *model.UpsertPageRequest) (*model.Page, error) {
	language := req.Language
	if language == "" {
		language = defaultPageLanguage
	}

	page := &model.Page{
		Slug:     req.Slug,
		Language: language,
		Title:    req.Title,
		Content:  req.Content,
		Images:   req.Images,
	}
	if err := s.repo.Upsert(ctx, page); err != nil {
		return nil, err
	}

	s.log.Info().Str("slug", page.Slug).Str("language", page.Language).Msg("Page upserted")
	return page, nil
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, slug, language string) error {
	if language == "" {
		language = defaultPageLanguage
	}
	deleted, err := s.repo.Delete(ctx, slug, language)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPageNotFound
	}
	return nil
}
