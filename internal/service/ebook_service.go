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

var ErrEbookNotFound = errors.New("ebook not found")

// EbookService handles the e-book catalog and download tracking.
type EbookService struct {
	repo     *repository.EbookRepository
	taxonomy *TaxonomyService
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewEbookService creates a new EbookService.
func NewEbookService(repo *repository.EbookRepository, taxonomy *TaxonomyService, rdb *redis.Client, log zerolog.Logger) *EbookService {
	return &EbookService{
		repo:     repo,
		taxonomy: taxonomy,
		rdb:      rdb,
		log:      log.With().Str("component", "ebook_service").Logger(),
	}
}

// GetByID retrieves one e-book.
func (s *EbookService) GetByID(ctx context.Context, id uuid.UUID) (*model.Ebook, error) {
	ebook, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEbookNotFound
		}
		return nil, err
	}
	return ebook, nil
}

// ListBySubcategory retrieves e-books under a category/subcategory pair.
func (s *EbookService) ListBySubcategory(ctx context.Context, categoryKey, subID string, filter model.EbookFilter) ([]model.Ebook, error) {
	ebooks, err := s.repo.ListBySubcategory(ctx, categoryKey, subID, filter)
	if err != nil {
		return nil, err
	}
	if ebooks == nil {
		ebooks = []model.Ebook{}
	}
	return ebooks, nil
}

// TrackDownload enqueues a download-counter increment for the worker.
// The write is deferred so the download path never waits on PostgreSQL.
func (s *EbookService) TrackDownload(ctx context.Context, id uuid.UUID) (*model.Ebook, error) {
	ebook, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(model.DownloadEvent{Kind: model.DownloadKindEbook, ID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.DownloadCountsQueue, raw).Err(); err != nil {
		return nil, fmt.Errorf("enqueue download: %w", err)
	}

	return ebook, nil
}

// Create attaches a new e-book to an existing subcategory.
func (s *EbookService) Create(ctx context.Context, categoryKey, subID string, req *model.CreateEbookRequest) (*model.Ebook, error) {
	if err := s.taxonomy.RequireSubcategory(ctx, model.SectionEbooks, categoryKey, subID); err != nil {
		return nil, err
	}

	ebook := &model.Ebook{
		CategoryKey:   categoryKey,
		SubcategoryID: subID,
		Title:         req.Title,
		Thumbnail:     req.Thumbnail,
		Language:      req.Language,
		Validity:      req.Validity,
		IsPaid:        req.IsPaid,
		PDFURL:        req.PDFURL,
	}
	if err := s.repo.Create(ctx, ebook); err != nil {
		return nil, err
	}

	s.log.Info().Str("ebook_id", ebook.ID.String()).Msg("Ebook created")
	return ebook, nil
}

// Update modifies an existing e-book.
func (s *EbookService) Update(ctx context.Context, id uuid.UUID, req *model.CreateEbookRequest) (*model.Ebook, error) {
	ebook, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ebook.Title = req.Title
	ebook.Thumbnail = req.Thumbnail
	ebook.Language = req.Language
	ebook.Validity = req.Validity
	ebook.IsPaid = req.IsPaid
	ebook.PDFURL = req.PDFURL

	if err := s.repo.Update(ctx, ebook); err != nil {
		return nil, err
	}
	return ebook, nil
}

// Delete removes an e-book.
func (s *EbookService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEbookNotFound
	}
	return nil
}
