package prescription

import "context"

// Repository defines the interface for prescription persistence operations.
type Repository interface {
	// Create creates a new prescription with its prescribed products
	Create(ctx context.Context, p *Prescription) error

	// Get retrieves a prescription by ID including its prescribed products.
	// Returns a not-found error for unknown IDs.
	Get(ctx context.Context, id string) (*Prescription, error)

	// GetByKitID retrieves a prescription by its human-facing kit ID
	GetByKitID(ctx context.Context, kitID string) (*Prescription, error)

	// GetActiveByCustomer retrieves the customer's single active
	// prescription, most recently prescribed first. Returns a not-found
	// error when the customer has none.
	GetActiveByCustomer(ctx context.Context, customerID string) (*Prescription, error)

	// Update persists changes to an existing prescription
	Update(ctx context.Context, p *Prescription) error

	// DeactivateByCustomer marks all of the customer's active prescriptions
	// inactive
	DeactivateByCustomer(ctx context.Context, customerID string) error

	// ListProducts returns the prescribed products for a prescription,
	// ordered by kit number
	ListProducts(ctx context.Context, prescriptionID string) ([]*Product, error)

	// ListProductsByKit returns the prescribed products for one kit of a
	// prescription, optionally only the required ones
	ListProductsByKit(ctx context.Context, prescriptionID string, kitNumber int, requiredOnly bool) ([]*Product, error)
}
