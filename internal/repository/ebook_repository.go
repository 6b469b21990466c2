package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// EbookRepository handles e-book data access.
type EbookRepository struct {
	pool *pgxpool.Pool
}

// NewEbookRepository creates a new EbookRepository.
func NewEbookRepository(pool *pgxpool.Pool) *EbookRepository {
	return &EbookRepository{pool: pool}
}

const ebookColumns = `id, category_key, subcategory_id, title, thumbnail,
	language, validity, is_paid, pdf_url, download_count, created_at, updated_at`

func scanEbook(row pgx.Row, e *model.Ebook) error {
	return row.Scan(&e.ID, &e.CategoryKey, &e.SubcategoryID, &e.Title, &e.Thumbnail,
		&e.Language, &e.Validity, &e.IsPaid, &e.PDFURL, &e.DownloadCount,
		&e.CreatedAt, &e.UpdatedAt)
}

// GetByID retrieves an e-book by ID.
func (r *EbookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Ebook, error) {
	e := &model.Ebook{}
	err := scanEbook(r.pool.QueryRow(ctx,
		`SELECT `+ebookColumns+` FROM ebooks WHERE id = $1`, id), e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListBySubcategory retrieves e-books for a category/subcategory pair,
// newest first, narrowed by language and title search.
func (r *EbookRepository) ListBySubcategory(ctx context.Context, categoryKey, subID string, filter model.EbookFilter) ([]model.Ebook, error) {
	query := `SELECT ` + ebookColumns + ` FROM ebooks
	          WHERE category_key = $1 AND subcategory_id = $2`
	args := []interface{}{categoryKey, subID}

	if filter.Language != "" {
		args = append(args, filter.Language)
		query += ` AND language = $` + strconv.Itoa(len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		query += ` AND title ILIKE $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []model.Ebook
	for rows.Next() {
		var e model.Ebook
		if err := scanEbook(rows, &e); err != nil {
			return nil, err
		}
		books = append(books, e)
	}
	return books, rows.Err()
}

// Create inserts a new e-book.
func (r *EbookRepository) Create(ctx context.Context, e *model.Ebook) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO ebooks (category_key, subcategory_id, title, thumbnail,
		                     language, validity, is_paid, pdf_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, download_count, created_at, updated_at`,
		e.CategoryKey, e.SubcategoryID, e.Title, e.Thumbnail,
		e.Language, e.Validity, e.IsPaid, e.PDFURL,
	).Scan(&e.ID, &e.DownloadCount, &e.CreatedAt, &e.UpdatedAt)
}

// Update modifies an existing e-book.
func (r *EbookRepository) Update(ctx context.Context, e *model.Ebook) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE ebooks SET title = $1, thumbnail = $2, language = $3, validity = $4,
		        is_paid = $5, pdf_url = $6, updated_at = NOW()
		 WHERE id = $7`,
		e.Title, e.Thumbnail, e.Language, e.Validity, e.IsPaid, e.PDFURL, e.ID,
	)
	return err
}

// Delete removes an e-book. Reports whether a row was deleted.
func (r *EbookRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ebooks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
