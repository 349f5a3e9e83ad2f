package testutil

import (
	"context"

	"github.com/tressahealth/moneyback/internal/domain/transaction"
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// InMemoryTransactionStore implements transaction.Repository
type InMemoryTransactionStore struct {
	*InMemoryStore[*transaction.Transaction]
}

// NewInMemoryTransactionStore creates a new in-memory transaction store
func NewInMemoryTransactionStore() *InMemoryTransactionStore {
	return &InMemoryTransactionStore{
		InMemoryStore: NewInMemoryStore[*transaction.Transaction](),
	}
}

func copyTransaction(t *transaction.Transaction) *transaction.Transaction {
	if t == nil {
		return nil
	}
	copied := *t
	copied.ProcessedAt = copyTimePtr(t.ProcessedAt)
	return &copied
}

func (s *InMemoryTransactionStore) Create(ctx context.Context, txn *transaction.Transaction) error {
	if txn == nil {
		return ierr.NewError("transaction cannot be nil").
			WithHint("Transaction cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, txn.ID, copyTransaction(txn))
}

func (s *InMemoryTransactionStore) ListProcessedRefunds(ctx context.Context, customerID string) ([]*transaction.Transaction, error) {
	txns, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, t *transaction.Transaction, _ interface{}) bool {
		return t.CustomerID == customerID && t.IsRefund && t.IsProcessed
	}, func(a, b *transaction.Transaction) bool {
		if a.ProcessedAt == nil || b.ProcessedAt == nil {
			return a.ProcessedAt != nil
		}
		return a.ProcessedAt.Before(*b.ProcessedAt)
	})
	if err != nil {
		return nil, err
	}
	result := make([]*transaction.Transaction, len(txns))
	for i, t := range txns {
		result[i] = copyTransaction(t)
	}
	return result, nil
}
