package calllog

import "context"

// Repository defines the interface for hair-coach call persistence.
type Repository interface {
	// Create records a call attempt
	Create(ctx context.Context, call *HairCoachCall) error

	// CountConnected counts the customer's connected hair-coach calls
	CountConnected(ctx context.Context, customerID string) (int, error)

	// ListByCustomer returns the customer's calls ordered by CalledAt ascending
	ListByCustomer(ctx context.Context, customerID string) ([]*HairCoachCall, error)
}
