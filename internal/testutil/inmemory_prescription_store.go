package testutil

import (
	"context"
	"sort"

	"github.com/tressahealth/moneyback/internal/domain/prescription"
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// InMemoryPrescriptionStore implements prescription.Repository
type InMemoryPrescriptionStore struct {
	*InMemoryStore[*prescription.Prescription]
}

// NewInMemoryPrescriptionStore creates a new in-memory prescription store
func NewInMemoryPrescriptionStore() *InMemoryPrescriptionStore {
	return &InMemoryPrescriptionStore{
		InMemoryStore: NewInMemoryStore[*prescription.Prescription](),
	}
}

func copyPrescription(p *prescription.Prescription) *prescription.Prescription {
	if p == nil {
		return nil
	}
	copied := *p
	copied.PlanStartedAt = copyTimePtr(p.PlanStartedAt)
	copied.ExpectedCompletionDate = copyTimePtr(p.ExpectedCompletionDate)
	copied.ActualCompletionDate = copyTimePtr(p.ActualCompletionDate)
	copied.CompletedAt = copyTimePtr(p.CompletedAt)
	copied.Products = make([]*prescription.Product, len(p.Products))
	for i, pp := range p.Products {
		ppCopy := *pp
		copied.Products[i] = &ppCopy
	}
	return &copied
}

func (s *InMemoryPrescriptionStore) Create(ctx context.Context, p *prescription.Prescription) error {
	if p == nil {
		return ierr.NewError("prescription cannot be nil").
			WithHint("Prescription cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, copyPrescription(p))
}

func (s *InMemoryPrescriptionStore) Get(ctx context.Context, id string) (*prescription.Prescription, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("prescription not found").
			WithHint("Prescription not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyPrescription(p), nil
}

func (s *InMemoryPrescriptionStore) GetByKitID(ctx context.Context, kitID string) (*prescription.Prescription, error) {
	matches, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *prescription.Prescription, _ interface{}) bool {
		return p.KitID == kitID
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ierr.NewError("prescription not found").
			WithHintf("No prescription found for kit ID %s", kitID).
			Mark(ierr.ErrNotFound)
	}
	return copyPrescription(matches[0]), nil
}

func (s *InMemoryPrescriptionStore) GetActiveByCustomer(ctx context.Context, customerID string) (*prescription.Prescription, error) {
	matches, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *prescription.Prescription, _ interface{}) bool {
		return p.CustomerID == customerID && p.IsActive
	}, func(a, b *prescription.Prescription) bool {
		return a.PrescribedAt.After(b.PrescribedAt)
	})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ierr.NewError("no active prescription").
			WithHintf("Customer %s has no active prescription", customerID).
			Mark(ierr.ErrNotFound)
	}
	return copyPrescription(matches[0]), nil
}

func (s *InMemoryPrescriptionStore) Update(ctx context.Context, p *prescription.Prescription) error {
	if p == nil {
		return ierr.NewError("prescription cannot be nil").
			WithHint("Prescription cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, p.ID, copyPrescription(p))
}

func (s *InMemoryPrescriptionStore) DeactivateByCustomer(ctx context.Context, customerID string) error {
	active, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, p *prescription.Prescription, _ interface{}) bool {
		return p.CustomerID == customerID && p.IsActive
	}, nil)
	if err != nil {
		return err
	}
	for _, p := range active {
		p.IsActive = false
		if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryPrescriptionStore) ListProducts(ctx context.Context, prescriptionID string) ([]*prescription.Product, error) {
	p, err := s.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	products := p.Products
	sort.Slice(products, func(i, j int) bool {
		return products[i].KitNumber < products[j].KitNumber
	})
	return products, nil
}

func (s *InMemoryPrescriptionStore) ListProductsByKit(ctx context.Context, prescriptionID string, kitNumber int, requiredOnly bool) ([]*prescription.Product, error) {
	all, err := s.ListProducts(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}
	result := make([]*prescription.Product, 0, len(all))
	for _, pp := range all {
		if pp.KitNumber != kitNumber {
			continue
		}
		if requiredOnly && !pp.IsRequired {
			continue
		}
		result = append(result, pp)
	}
	return result, nil
}
