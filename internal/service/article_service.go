package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

var ErrArticleNotFound = errors.New("article not found")

// SubcategoryCount pairs a subcategory with its article count for the
// category landing view.
type SubcategoryCount struct {
	model.Subcategory
	ArticleCount int64 `json:"article_count"`
}

// ArticleService handles current-affairs content.
type ArticleService struct {
	repo     *repository.ArticleRepository
	taxonomy *TaxonomyService
	log      zerolog.Logger
}

// NewArticleService creates a new ArticleService.
func NewArticleService(repo *repository.ArticleRepository, taxonomy *TaxonomyService, log zerolog.Logger) *ArticleService {
	return &ArticleService{
		repo:     repo,
		taxonomy: taxonomy,
		log:      log.With().Str("component", "article_service").Logger(),
	}
}

// GetByID retrieves one article.
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	article, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return article, nil
}

// ListBySubcategory retrieves articles under a category/subcategory pair.
func (s *ArticleService) ListBySubcategory(ctx context.Context, categoryKey, subID string, filter model.ArticleFilter) ([]model.Article, error) {
	articles, err := s.repo.ListBySubcategory(ctx, categoryKey, subID, filter)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

// CategoryLanding returns a category's subcategories annotated with their
// article counts.
func (s *ArticleService) CategoryLanding(ctx context.Context, categoryKey string) ([]SubcategoryCount, error) {
	subs, err := s.taxonomy.ListSubcategories(ctx, model.SectionAffairs, categoryKey)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountBySubcategories(ctx, categoryKey)
	if err != nil {
		return nil, err
	}

	out := make([]SubcategoryCount, len(subs))
	for i, sub := range subs {
		out[i] = SubcategoryCount{Subcategory: sub, ArticleCount: counts[sub.ID]}
	}
	return out, nil
}

// Create attaches a new article to an existing subcategory.
func (s *ArticleService) Create(ctx context.Context, categoryKey, subID string, req *model.CreateArticleRequest) (*model.Article, error) {
	if err := s.taxonomy.RequireSubcategory(ctx, model.SectionAffairs, categoryKey, subID); err != nil {
		return nil, err
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	article := &model.Article{
		CategoryKey:   categoryKey,
		SubcategoryID: subID,
		Title:         req.Title,
		Slug:          req.Slug,
		Body:          req.Body,
		Language:      req.Language,
		Month:         req.Month,
		Date:          date,
		Thumbnail:     req.Thumbnail,
		IsPaid:        req.IsPaid,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, err
	}

	s.log.Info().Str("article_id", article.ID.String()).Str("slug", article.Slug).Msg("Article created")
	return article, nil
}

// Update modifies an existing article.
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, req *model.CreateArticleRequest) (*model.Article, error) {
	article, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	article.Title = req.Title
	article.Slug = req.Slug
	article.Body = req.Body
	article.Language = req.Language
	article.Month = req.Month
	if req.Date != nil {
		article.Date = *req.Date
	}
	article.Thumbnail = req.Thumbnail
	article.IsPaid = req.IsPaid

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article.
func (s *ArticleService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrArticleNotFound
	}
	return nil
}
