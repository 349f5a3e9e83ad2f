package postgres

import (
	"context"
	"database/sql"

	"github.com/tressahealth/moneyback/internal/domain/customer"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
)

type customerRepository struct {
	client *postgres.Client
	logger *logger.Logger
}

// NewCustomerRepository creates a postgres-backed customer repository
func NewCustomerRepository(client *postgres.Client, log *logger.Logger) customer.Repository {
	return &customerRepository{client: client, logger: log}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Email, c.Phone,
		c.Status, c.CreatedAt, c.UpdatedAt, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create customer").
			WithReportableDetails(map[string]interface{}{
				"id": c.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT id, name, email, phone, status, created_at, updated_at, created_by, updated_by
		FROM customers
		WHERE id = $1 AND status != 'deleted'`,
		id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone,
		&c.Status, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("customer not found").
			WithHintf("Customer with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}
