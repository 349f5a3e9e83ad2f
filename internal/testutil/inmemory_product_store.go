package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/tressahealth/moneyback/internal/domain/product"
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

// NewInMemoryProductStore creates a new in-memory product store
func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

func copyProduct(p *product.Product) *product.Product {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyProduct(p))
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("product not found").
			WithHint("Product not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (s *InMemoryProductStore) GetByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	products, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *product.Product, _ interface{}) bool {
		return lo.Contains(ids, p.ID)
	}, func(a, b *product.Product) bool {
		return a.Name < b.Name
	})
	if err != nil {
		return nil, err
	}
	result := make([]*product.Product, len(products))
	for i, p := range products {
		result[i] = copyProduct(p)
	}
	return result, nil
}
