package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/backbonehq/catalog-service/internal/domain"
	"github.com/backbonehq/catalog-service/pkg/database"
	apperrors "github.com/backbonehq/catalog-service/pkg/errors"
)

const productColumns = "id, category, title, sub_title, brand, rating, short_description, description"

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	ctx, end := database.TraceQuery(ctx, "GetByID", query)
	p, err := r.scanProduct(ctx, query, id)
	end(err)
	return p, err
}

// List returns one page of the full catalog, ordered by id so pages are
// stable between calls.
func (r *ProductRepository) List(ctx context.Context, page, size int) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY id LIMIT $1 OFFSET $2`, productColumns)

	ctx, end := database.TraceQuery(ctx, "List", query)
	products, err := r.scanProducts(ctx, query, size, page*size)
	end(err)
	return products, err
}

// ListByCategory returns one page of products in the given category.
func (r *ProductRepository) ListByCategory(ctx context.Context, category string, page, size int) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE category = $1 ORDER BY id LIMIT $2 OFFSET $3`, productColumns)

	ctx, end := database.TraceQuery(ctx, "ListByCategory", query)
	products, err := r.scanProducts(ctx, query, category, size, page*size)
	end(err)
	return products, err
}

// DistinctCategories returns the distinct category strings. No ORDER BY is
// imposed; callers get whatever order the store's distinct projection yields.
func (r *ProductRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM products`

	ctx, end := database.TraceQuery(ctx, "DistinctCategories", query)
	defer func() { end(nil) }()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

// Upsert inserts the product when its id is zero, letting the store assign a
// new id, and overwrites the existing row otherwise.
func (r *ProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	if p.ID == 0 {
		query := `
			INSERT INTO products (category, title, sub_title, brand, rating, short_description, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`

		ctx, end := database.TraceQuery(ctx, "Insert", query)
		err := r.db.QueryRow(ctx, query,
			p.Category, p.Title, p.SubTitle, p.Brand, p.Rating, p.ShortDescription, p.Description,
		).Scan(&p.ID)
		end(err)
		if err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO products (id, category, title, sub_title, brand, rating, short_description, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			title = EXCLUDED.title,
			sub_title = EXCLUDED.sub_title,
			brand = EXCLUDED.brand,
			rating = EXCLUDED.rating,
			short_description = EXCLUDED.short_description,
			description = EXCLUDED.description`

	ctx, end := database.TraceQuery(ctx, "Upsert", query)
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Category, p.Title, p.SubTitle, p.Brand, p.Rating, p.ShortDescription, p.Description,
	)
	end(err)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}

	return nil
}

// Delete removes a product by its ID. Deleting an absent id is a no-op:
// the operation is idempotent at this layer.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "Delete", query)
	_, err := r.db.Exec(ctx, query, id)
	end(err)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	return nil
}

func (r *ProductRepository) scanProduct(ctx context.Context, query string, args ...any) (*domain.Product, error) {
	var p domain.Product

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.Category,
		&p.Title,
		&p.SubTitle,
		&p.Brand,
		&p.Rating,
		&p.ShortDescription,
		&p.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	return &p, nil
}

func (r *ProductRepository) scanProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Category,
			&p.Title,
			&p.SubTitle,
			&p.Brand,
			&p.Rating,
			&p.ShortDescription,
			&p.Description,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}
