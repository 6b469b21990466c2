package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// PaperRepository handles previous-paper data access.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

const paperColumns = `id, category_key, subcategory_id, title, logo, month,
	year, pdf_url, download_count, created_at, updated_at`

func scanPaper(row pgx.Row, p *model.Paper) error {
	return row.Scan(&p.ID, &p.CategoryKey, &p.SubcategoryID, &p.Title, &p.Logo, &p.Month,
		&p.Year, &p.PDFURL, &p.DownloadCount, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a paper by ID.
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	p := &model.Paper{}
	err := scanPaper(r.pool.QueryRow(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE id = $1`, id), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListBySubcategory retrieves papers for a category/subcategory pair,
// newest first, optionally filtered by month.
func (r *PaperRepository) ListBySubcategory(ctx context.Context, categoryKey, subID, month string) ([]model.Paper, error) {
	query := `SELECT ` + paperColumns + ` FROM papers
	          WHERE category_key = $1 AND subcategory_id = $2`
	args := []interface{}{categoryKey, subID}
	if month != "" {
		query += ` AND month = $3`
		args = append(args, month)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPapers(rows)
}

// ListRecent retrieves the newest papers for a subcategory, used for the
// sidebar on the listing page.
func (r *PaperRepository) ListRecent(ctx context.Context, categoryKey, subID string, limit int) ([]model.Paper, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paperColumns+` FROM papers
		 WHERE category_key = $1 AND subcategory_id = $2
		 ORDER BY created_at DESC LIMIT $3`, categoryKey, subID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPapers(rows)
}

func collectPapers(rows pgx.Rows) ([]model.Paper, error) {
	var papers []model.Paper
	for rows.Next() {
		var p model.Paper
		if err := scanPaper(rows, &p); err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// Create inserts a new paper.
func (r *PaperRepository) Create(ctx context.Context, p *model.Paper) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO papers (category_key, subcategory_id, title, logo, month, year, pdf_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, download_count, created_at, updated_at`,
		p.CategoryKey, p.SubcategoryID, p.Title, p.Logo, p.Month, p.Year, p.PDFURL,
	).Scan(&p.ID, &p.DownloadCount, &p.CreatedAt, &p.UpdatedAt)
}

// Update modifies an existing paper.
func (r *PaperRepository) Update(ctx context.Context, p *model.Paper) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE papers SET title = $1, logo = $2, month = $3, year = $4,
		        pdf_url = $5, updated_at = NOW()
		 WHERE id = $6`,
		p.Title, p.Logo, p.Month, p.Year, p.PDFURL, p.ID,
	)
	return err
}

// Delete removes a paper. Reports whether a row was deleted.
func (r *PaperRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
