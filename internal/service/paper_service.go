package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

var ErrPaperNotFound = errors.New("paper not found")

// recentPapersLimit caps the sidebar list on the papers page.
const recentPapersLimit = 10

// PaperService handles the previous-paper catalog and download tracking.
type PaperService struct {
	repo     *repository.PaperRepository
	taxonomy *TaxonomyService
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewPaperService creates a new PaperService.
func NewPaperService(repo *repository.PaperRepository, taxonomy *TaxonomyService, rdb *redis.Client, log zerolog.Logger) *PaperService {
	return &PaperService{
		repo:     repo,
		taxonomy: taxonomy,
		rdb:      rdb,
		log:      log.With().Str("component", "paper_service").Logger(),
	}
}

// GetByID retrieves one paper.
func (s *PaperService) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	paper, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaperNotFound
		}
		return nil, err
	}
	return paper, nil
}

// ListBySubcategory returns the filtered paper list together with the
// newest papers for the same subcategory.
func (s *PaperService) ListBySubcategory(ctx context.Context, categoryKey, subID, month string) (*model.PaperListing, error) {
	papers, err := s.repo.ListBySubcategory(ctx, categoryKey, subID, month)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListRecent(ctx, categoryKey, subID, recentPapersLimit)
	if err != nil {
		return nil, err
	}

	if papers == nil {
		papers = []model.Paper{}
	}
	if recent == nil {
		recent = []model.Paper{}
	}
	return &model.PaperListing{Papers: papers, RecentPapers: recent}, nil
}

// TrackDownload enqueues a download-counter increment for the worker.
func (s *PaperService) TrackDownload(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	paper, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(model.DownloadEvent{Kind: model.DownloadKindPaper, ID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.DownloadCountsQueue, raw).Err(); err != nil {
		return nil, fmt.Errorf("enqueue download: %w", err)
	}

	return paper, nil
}

// Create attaches a new paper to an existing subcategory.
func (s *PaperService) Create(ctx context.Context, categoryKey, subID string, req *model.CreatePaperRequest) (*model.Paper, error) {
	if err := s.taxonomy.RequireSubcategory(ctx, model.SectionPapers, categoryKey, subID); err != nil {
		return nil, err
	}

	paper := &model.Paper{
		CategoryKey:   categoryKey,
		SubcategoryID: subID,
		Title:         req.Title,
		Logo:          req.Logo,
		Month:         req.Month,
		Year:          req.Year,
		PDFURL:        req.PDFURL,
	}
	if err := s.repo.Create(ctx, paper); err != nil {
		return nil, err
	}

	s.log.Info().Str("paper_id", paper.ID.String()).Msg("Paper created")
	return paper, nil
}

// Update modifies an existing paper.
func (s *PaperService) Update(ctx context.Context, id uuid.UUID, req *model.CreatePaperRequest) (*model.Paper, error) {
	paper, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paper.Title = req.Title
	paper.Logo = req.Logo
	paper.Month = req.Month
	paper.Year = req.Year
	paper.PDFURL = req.PDFURL

	if err := s.repo.Update(ctx, paper); err != nil {
		return nil, err
	}
	return paper, nil
}

// Delete removes a paper.
func (s *PaperService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPaperNotFound
	}
	return nil
}
