package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tressahealth/moneyback/internal/domain/order"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
	"github.com/tressahealth/moneyback/internal/types"
)

type orderRepository struct {
	client *postgres.Client
	logger *logger.Logger
}

// NewOrderRepository creates a postgres-backed order repository
func NewOrderRepository(client *postgres.Client, log *logger.Logger) order.Repository {
	return &orderRepository{client: client, logger: log}
}

const orderColumns = `id, order_number, customer_id, prescription_id, product_id,
	quantity, price, total_amount, payment_mode, ordered_at, delivered_at,
	is_delivered, is_void, is_free_kit, notes,
	status, created_at, updated_at, created_by, updated_by`

func scanOrder(row interface{ Scan(...interface{}) error }) (*order.Order, error) {
	var o order.Order
	var prescriptionID, notes sql.NullString
	var deliveredAt sql.NullTime
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &prescriptionID, &o.ProductID,
		&o.Quantity, &o.Price, &o.TotalAmount, &o.PaymentMode, &o.OrderedAt, &deliveredAt,
		&o.IsDelivered, &o.IsVoid, &o.IsFreeKit, &notes,
		&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.CreatedBy, &o.UpdatedBy)
	if err != nil {
		return nil, err
	}
	o.PrescriptionID = prescriptionID.String
	o.Notes = notes.String
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		o.ID, o.OrderNumber, o.CustomerID, nullString(o.PrescriptionID), o.ProductID,
		o.Quantity, o.Price, o.TotalAmount, o.PaymentMode, o.OrderedAt, o.DeliveredAt,
		o.IsDelivered, o.IsVoid, o.IsFreeKit, nullString(o.Notes),
		o.Status, o.CreatedAt, o.UpdatedAt, o.CreatedBy, o.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create order").
			WithReportableDetails(map[string]interface{}{
				"id": o.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	row := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1 AND status != 'deleted'`,
		id,
	)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("order not found").
			WithHintf("Order with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get order").
			Mark(ierr.ErrDatabase)
	}
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	res, err := r.client.Conn(ctx).ExecContext(ctx, `
		UPDATE orders
		SET delivered_at = $2, is_delivered = $3, is_void = $4, notes = $5,
			total_amount = $6, updated_at = $7, updated_by = $8
		WHERE id = $1 AND status != 'deleted'`,
		o.ID, o.DeliveredAt, o.IsDelivered, o.IsVoid, nullString(o.Notes),
		o.TotalAmount, o.UpdatedAt, o.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update order").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("order not found").
			WithHintf("Order with ID %s was not found", o.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *orderRepository) List(ctx context.Context, filter *order.Filter) ([]*order.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE status != 'deleted'`
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter != nil {
		if filter.CustomerID != "" {
			addCondition("customer_id = $%d", filter.CustomerID)
		}
		if filter.PrescriptionID != "" {
			addCondition("prescription_id = $%d", filter.PrescriptionID)
		}
		if filter.IsDelivered != nil {
			addCondition("is_delivered = $%d", *filter.IsDelivered)
		}
		if filter.IsVoid != nil {
			addCondition("is_void = $%d", *filter.IsVoid)
		}
		if filter.IsFreeKit != nil {
			addCondition("is_free_kit = $%d", *filter.IsFreeKit)
		}
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ordered_at ASC"
	if limit := filter.GetLimit(); limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, filter.GetOffset())
	}

	rows, err := r.client.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list orders").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan order").
				Mark(ierr.ErrDatabase)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list orders").
			Mark(ierr.ErrDatabase)
	}
	return orders, nil
}

func (r *orderRepository) CountByPaymentMode(ctx context.Context, customerID string, mode types.PaymentMode) (int, error) {
	var count int
	err := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM orders
		WHERE customer_id = $1 AND payment_mode = $2 AND is_void = false AND status != 'deleted'`,
		customerID, mode,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count orders by payment mode").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
