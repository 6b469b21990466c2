package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrMediaNotFound       = errors.New("media not found")
)

// Allowed upload MIME types. Images feed thumbnails and page bodies;
// PDFs back e-books and papers.
var allowedMIMETypes = map[string]struct {
	ext  string
	kind model.MediaType
}{
	"image/jpeg":      {".jpg", model.MediaTypeImage},
	"image/png":       {".png", model.MediaTypeImage},
	"image/gif":       {".gif", model.MediaTypeImage},
	"image/webp":      {".webp", model.MediaTypeImage},
	"application/pdf": {".pdf", model.MediaTypePDF},
}

// MediaService handles file uploads and their bookkeeping records.
type MediaService struct {
	cfg  *config.Config
	repo *repository.MediaRepository
	log  zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, repo *repository.MediaRepository, log zerolog.Logger) *MediaService {
	return &MediaService{
		cfg:  cfg,
		repo: repo,
		log:  log.With().Str("component", "media_service").Logger(),
	}
}

// SaveUpload saves an uploaded file to local storage with a UUID filename
// and records it in the media table.
func (s *MediaService) SaveUpload(ctx context.Context, file multipart.File, header *multipart.FileHeader, uploadedBy *int) (*model.Media, error) {
	contentType := header.Header.Get("Content-Type")
	typ, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	filename := uuid.New().String() + typ.ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	media := &model.Media{
		Type:       typ.kind,
		URL:        "/uploads/" + filename,
		Filename:   header.Filename,
		Size:       header.Size,
		UploadedBy: uploadedBy,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("record media: %w", err)
	}

	s.log.Info().
		Str("media_id", media.ID.String()).
		Str("type", string(media.Type)).
		Int64("size", media.Size).
		Msg("File uploaded")
	return media, nil
}

// List retrieves a page of media records plus the total count.
func (s *MediaService) List(ctx context.Context, page, perPage int) ([]model.Media, int64, error) {
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}
	if page < 1 {
		page = 1
	}
	items, err := s.repo.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []model.Media{}
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Delete removes a media record and its file on disk.
func (s *MediaService) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrMediaNotFound
		}
		return err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMediaNotFound
	}

	path := filepath.Join(s.cfg.UploadDir, filepath.Base(media.URL))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", path).Msg("Uploaded file removal failed")
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
