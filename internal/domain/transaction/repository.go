package transaction

import "context"

// Repository defines the interface for transaction persistence.
type Repository interface {
	// Create records a transaction
	Create(ctx context.Context, txn *Transaction) error

	// ListProcessedRefunds returns the customer's processed refund
	// transactions ordered by ProcessedAt ascending
	ListProcessedRefunds(ctx context.Context, customerID string) ([]*Transaction, error)
}
