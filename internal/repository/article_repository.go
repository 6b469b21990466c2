package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// ArticleRepository handles current-affairs article data access.
type ArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

const articleColumns = `id, category_key, subcategory_id, title, slug, body,
	language, month, date, thumbnail, is_paid, created_at, updated_at`

func scanArticle(row pgx.Row, a *model.Article) error {
	return row.Scan(&a.ID, &a.CategoryKey, &a.SubcategoryID, &a.Title, &a.Slug, &a.Body,
		&a.Language, &a.Month, &a.Date, &a.Thumbnail, &a.IsPaid, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID retrieves an article by ID.
func (r *ArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Article, error) {
	a := &model.Article{}
	err := scanArticle(r.pool.QueryRow(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = $1`, id), a)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListBySubcategory retrieves articles for a category/subcategory pair,
// newest first, narrowed by the given filter.
func (r *ArticleRepository) ListBySubcategory(ctx context.Context, categoryKey, subID string, filter model.ArticleFilter) ([]model.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
	          WHERE category_key = $1 AND subcategory_id = $2`
	args := []interface{}{categoryKey, subID}

	if filter.Month != "" {
		args = append(args, filter.Month)
		query += ` AND month = $` + strconv.Itoa(len(args))
	}
	if filter.Language != "" {
		args = append(args, filter.Language)
		query += ` AND language = $` + strconv.Itoa(len(args))
	}
	if !filter.IncludePaid {
		query += ` AND is_paid = FALSE`
	}
	query += ` ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		if err := scanArticle(rows, &a); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CountBySubcategories returns free-article counts grouped by subcategory,
// used for the category landing view.
func (r *ArticleRepository) CountBySubcategories(ctx context.Context, categoryKey string) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT subcategory_id, COUNT(*) FROM articles
		 WHERE category_key = $1 AND is_paid = FALSE
		 GROUP BY subcategory_id`, categoryKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var subID string
		var n int64
		if err := rows.Scan(&subID, &n); err != nil {
			return nil, err
		}
		counts[subID] = n
	}
	return counts, rows.Err()
}

// Create inserts a new article.
func (r *ArticleRepository) Create(ctx context.Context, a *model.Article) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO articles (category_key, subcategory_id, title, slug, body,
		                       language, month, date, thumbnail, is_paid)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		a.CategoryKey, a.SubcategoryID, a.Title, a.Slug, a.Body,
		a.Language, a.Month, a.Date, a.Thumbnail, a.IsPaid,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update modifies an existing article.
func (r *ArticleRepository) Update(ctx context.Context, a *model.Article) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE articles SET title = $1, slug = $2, body = $3, language = $4,
		        month = $5, date = $6, thumbnail = $7, is_paid = $8, updated_at = NOW()
		 WHERE id = $9`,
		a.Title, a.Slug, a.Body, a.Language, a.Month, a.Date, a.Thumbnail, a.IsPaid, a.ID,
	)
	return err
}

// Delete removes an article. Reports whether a row was deleted.
func (r *ArticleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
