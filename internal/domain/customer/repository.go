package customer

import "context"

// Repository defines the interface for customer persistence.
type Repository interface {
	// Create creates a customer
	Create(ctx context.Context, c *Customer) error

	// Get retrieves a customer by ID. Returns a not-found error for unknown IDs.
	Get(ctx context.Context, id string) (*Customer, error)
}
