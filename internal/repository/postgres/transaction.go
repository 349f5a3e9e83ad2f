package postgres

import (
	"context"
	"database/sql"

	"github.com/tressahealth/moneyback/internal/domain/transaction"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
)

type transactionRepository struct {
	client *postgres.Client
	logger *logger.Logger
}

// NewTransactionRepository creates a postgres-backed transaction repository
func NewTransactionRepository(client *postgres.Client, log *logger.Logger) transaction.Repository {
	return &transactionRepository{client: client, logger: log}
}

func (r *transactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		INSERT INTO transactions
			(id, transaction_number, customer_id, order_id, amount, payment_mode,
			is_refund, is_processed, processed_at, metadata,
			status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		txn.ID, txn.TransactionNumber, txn.CustomerID, nullString(txn.OrderID), txn.Amount, txn.PaymentMode,
		txn.IsRefund, txn.IsProcessed, txn.ProcessedAt, nullString(txn.Metadata),
		txn.Status, txn.CreatedAt, txn.UpdatedAt, txn.CreatedBy, txn.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record transaction").
			WithReportableDetails(map[string]interface{}{
				"id": txn.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *transactionRepository) ListProcessedRefunds(ctx context.Context, customerID string) ([]*transaction.Transaction, error) {
	rows, err := r.client.Conn(ctx).QueryContext(ctx, `
		SELECT id, transaction_number, customer_id, order_id, amount, payment_mode,
			is_refund, is_processed, processed_at, metadata,
			status, created_at, updated_at, created_by, updated_by
		FROM transactions
		WHERE customer_id = $1 AND is_refund = true AND is_processed = true AND status != 'deleted'
		ORDER BY processed_at ASC`,
		customerID,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list refunds").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		var t transaction.Transaction
		var orderID, metadata sql.NullString
		var processedAt sql.NullTime
		err := rows.Scan(&t.ID, &t.TransactionNumber, &t.CustomerID, &orderID, &t.Amount, &t.PaymentMode,
			&t.IsRefund, &t.IsProcessed, &processedAt, &metadata,
			&t.Status, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan transaction").
				Mark(ierr.ErrDatabase)
		}
		t.OrderID = orderID.String
		t.Metadata = metadata.String
		if processedAt.Valid {
			t.ProcessedAt = &processedAt.Time
		}
		txns = append(txns, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list refunds").
			Mark(ierr.ErrDatabase)
	}
	return txns, nil
}
