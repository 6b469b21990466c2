package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// PageRepository handles CMS page data access.
type PageRepository struct {
	pool *pgxpool.Pool
}

// NewPageRepository creates a new PageRepository.
func NewPageRepository(pool *pgxpool.Pool) *PageRepository {
	return &PageRepository{pool: pool}
}

// GetBySlug retrieves a page by its slug and language.
func (r *PageRepository) GetBySlug(ctx context.Context, slug, language string) (*model.Page, error) {
	p := &model.Page{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, slug, language, title, content, images, updated_at
		 FROM pages WHERE slug = $1 AND language = $2`, slug, language,
	).Scan(&p.ID, &p.Slug, &p.Language, &p.Title, &p.Content, &p.Images, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List retrieves all pages, newest first.
func (r *PageRepository) List(ctx context.Context) ([]model.Page, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, slug, language, title, content, images, updated_at
		 FROM pages ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		var p model.Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Language, &p.Title, &p.Content, &p.Images, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Upsert creates a page or replaces the existing one with the same
// slug + language pair.
func (r *PageRepository) Upsert(ctx context.Context, p *model.Page) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO pages (slug, language, title, content, images)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (slug, language) DO UPDATE SET
		   title = EXCLUDED.title,
		   content = EXCLUDED.content,
		   images = EXCLUDED.images,
		   updated_at = NOW()
		 RETURNING id, updated_at`,
		p.Slug, p.Language, p.Title, p.Content, p.Images,
	).Scan(&p.ID, &p.UpdatedAt)
}

// Delete removes a page. Reports whether a row was deleted.
func (r *PageRepository) Delete(ctx context.Context, slug, language string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM pages WHERE slug = $1 AND language = $2`, slug, language)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
