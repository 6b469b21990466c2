package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// MediaRepository handles upload bookkeeping records.
type MediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// Create inserts a media record.
func (r *MediaRepository) Create(ctx context.Context, m *model.Media) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO media (type, url, filename, size, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		m.Type, m.URL, m.Filename, m.Size, m.UploadedBy,
	).Scan(&m.ID, &m.CreatedAt)
}

// GetByID retrieves a media record by ID.
func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Media, error) {
	m := &model.Media{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, url, filename, size, uploaded_by, created_at
		 FROM media WHERE id = $1`, id,
	).Scan(&m.ID, &m.Type, &m.URL, &m.Filename, &m.Size, &m.UploadedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// List retrieves media records newest first with limit/offset pagination.
func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]model.Media, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, url, filename, size, uploaded_by, created_at
		 FROM media ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.Media
	for rows.Next() {
		var m model.Media
		if err := rows.Scan(&m.ID, &m.Type, &m.URL, &m.Filename, &m.Size, &m.UploadedBy, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Count returns the total number of media records.
func (r *MediaRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}

// Delete removes a media record. Reports whether a row was deleted.
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
