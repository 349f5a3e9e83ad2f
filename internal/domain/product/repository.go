package product

import "context"

// Repository defines the interface for product catalogue reads.
type Repository interface {
	// Create creates a product
	Create(ctx context.Context, p *Product) error

	// Get retrieves a product by ID. Returns a not-found error for unknown IDs.
	Get(ctx context.Context, id string) (*Product, error)

	// GetByIDs retrieves products for a set of IDs; unknown IDs are skipped
	GetByIDs(ctx context.Context, ids []string) ([]*Product, error)
}
