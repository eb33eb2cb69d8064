package repository

import (
	"context"

	"github.com/backbonehq/catalog-service/internal/domain"
)

// ProductRepository defines the persistence surface the aggregation service
// builds on. Implementations must distinguish "absent" (apperrors.ErrNotFound)
// from genuine store failures.
type ProductRepository interface {
	// GetByID retrieves a product by its identifier.
	GetByID(ctx context.Context, id int) (*domain.Product, error)

	// List returns one page of the full catalog. Page numbering starts at 0.
	// An empty slice means the requested range is beyond available data.
	List(ctx context.Context, page, size int) ([]domain.Product, error)

	// ListByCategory returns one page of products in the given category.
	ListByCategory(ctx context.Context, category string, page, size int) ([]domain.Product, error)

	// DistinctCategories returns the distinct category strings in store order.
	DistinctCategories(ctx context.Context) ([]string, error)

	// Upsert inserts the product when its id is zero (the store assigns a new
	// id, written back into p) and overwrites the existing row otherwise.
	Upsert(ctx context.Context, p *domain.Product) error

	// Delete removes a product. Deleting an absent id is a silent no-op.
	Delete(ctx context.Context, id int) error
}
