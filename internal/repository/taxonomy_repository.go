package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prepnest/prepnest-backend/internal/model"
)

// TaxonomyRepository handles category/subcategory data access for all
// content sections. One table pair backs every section; each query is
// scoped by the section column.
type TaxonomyRepository struct {
	pool *pgxpool.Pool
}

// NewTaxonomyRepository creates a new TaxonomyRepository.
func NewTaxonomyRepository(pool *pgxpool.Pool) *TaxonomyRepository {
	return &TaxonomyRepository{pool: pool}
}

// ListCategories retrieves all categories of a section ordered by title.
func (r *TaxonomyRepository) ListCategories(ctx context.Context, section model.Section) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, section, title, logo, description, created_at, updated_at
		 FROM categories WHERE section = $1 ORDER BY title`, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Section, &c.Title, &c.Logo, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCategory retrieves one category by section and ID.
func (r *TaxonomyRepository) GetCategory(ctx context.Context, section model.Section, id string) (*model.Category, error) {
	c := &model.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, section, title, logo, description, created_at, updated_at
		 FROM categories WHERE section = $1 AND id = $2`, section, id,
	).Scan(&c.ID, &c.Section, &c.Title, &c.Logo, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCategory inserts a new category.
func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO categories (id, section, title, logo, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		c.ID, c.Section, c.Title, c.Logo, c.Description,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// UpdateCategory modifies an existing category. Returns pgx.ErrNoRows if
// the category does not exist in the section.
func (r *TaxonomyRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	return r.pool.QueryRow(ctx,
		`UPDATE categories SET title = $1, logo = $2, description = $3, updated_at = NOW()
		 WHERE section = $4 AND id = $5
		 RETURNING created_at, updated_at`,
		c.Title, c.Logo, c.Description, c.Section, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// DeleteCategory removes a category. Reports whether a row was deleted.
func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, section model.Section, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE section = $1 AND id = $2`, section, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListSubcategories retrieves subcategories of a category ordered by title.
func (r *TaxonomyRepository) ListSubcategories(ctx context.Context, section model.Section, categoryKey string) ([]model.Subcategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, section, category_key, title, logo, description, created_at, updated_at
		 FROM subcategories WHERE section = $1 AND category_key = $2 ORDER BY title`,
		section, categoryKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubcategories(rows)
}

// ListAllSubcategories retrieves every subcategory of a section, used to
// build the nested directory view.
func (r *TaxonomyRepository) ListAllSubcategories(ctx context.Context, section model.Section) ([]model.Subcategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, section, category_key, title, logo, description, created_at, updated_at
		 FROM subcategories WHERE section = $1 ORDER BY title`, section)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubcategories(rows)
}

// CreateSubcategory inserts a new subcategory.
func (r *TaxonomyRepository) CreateSubcategory(ctx context.Context, s *model.Subcategory) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subcategories (id, section, category_key, title, logo, description)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		s.ID, s.Section, s.CategoryKey, s.Title, s.Logo, s.Description,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// UpdateSubcategory modifies an existing subcategory.
func (r *TaxonomyRepository) UpdateSubcategory(ctx context.Context, s *model.Subcategory) error {
	return r.pool.QueryRow(ctx,
		`UPDATE subcategories SET title = $1, logo = $2, description = $3, updated_at = NOW()
		 WHERE section = $4 AND id = $5
		 RETURNING category_key, created_at, updated_at`,
		s.Title, s.Logo, s.Description, s.Section, s.ID,
	).Scan(&s.CategoryKey, &s.CreatedAt, &s.UpdatedAt)
}

// DeleteSubcategory removes a subcategory. Reports whether a row was deleted.
func (r *TaxonomyRepository) DeleteSubcategory(ctx context.Context, section model.Section, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM subcategories WHERE section = $1 AND id = $2`, section, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SubcategoryExists checks that a subcategory exists under the given
// category within a section.
func (r *TaxonomyRepository) SubcategoryExists(ctx context.Context, section model.Section, categoryKey, subID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM subcategories WHERE section = $1 AND category_key = $2 AND id = $3
		 )`, section, categoryKey, subID,
	).Scan(&exists)
	return exists, err
}

func scanSubcategories(rows pgx.Rows) ([]model.Subcategory, error) {
	var subs []model.Subcategory
	for rows.Next() {
		var s model.Subcategory
		if err := rows.Scan(&s.ID, &s.Section, &s.CategoryKey, &s.Title, &s.Logo, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
