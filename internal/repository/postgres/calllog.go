package postgres

import (
	"context"
	"database/sql"

	"github.com/tressahealth/moneyback/internal/domain/calllog"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
)

type callLogRepository struct {
	client *postgres.Client
	logger *logger.Logger
}

// NewCallLogRepository creates a postgres-backed hair-coach call repository
func NewCallLogRepository(client *postgres.Client, log *logger.Logger) calllog.Repository {
	return &callLogRepository{client: client, logger: log}
}

func (r *callLogRepository) Create(ctx context.Context, call *calllog.HairCoachCall) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		INSERT INTO hair_coach_calls
			(id, customer_id, hair_coach_id, is_connected, called_at, duration_seconds, notes,
			status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		call.ID, call.CustomerID, nullString(call.HairCoachID), call.IsConnected,
		call.CalledAt, call.DurationSeconds, nullString(call.Notes),
		call.Status, call.CreatedAt, call.UpdatedAt, call.CreatedBy, call.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record call").
			WithReportableDetails(map[string]interface{}{
				"id": call.ID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *callLogRepository) CountConnected(ctx context.Context, customerID string) (int, error) {
	var count int
	err := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM hair_coach_calls
		WHERE customer_id = $1 AND is_connected = true AND status != 'deleted'`,
		customerID,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count connected calls").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *callLogRepository) ListByCustomer(ctx context.Context, customerID string) ([]*calllog.HairCoachCall, error) {
	rows, err := r.client.Conn(ctx).QueryContext(ctx, `
		SELECT id, customer_id, hair_coach_id, is_connected, called_at, duration_seconds, notes,
			status, created_at, updated_at, created_by, updated_by
		FROM hair_coach_calls
		WHERE customer_id = $1 AND status != 'deleted'
		ORDER BY called_at ASC`,
		customerID,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list calls").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var calls []*calllog.HairCoachCall
	for rows.Next() {
		var c calllog.HairCoachCall
		var hairCoachID, notes sql.NullString
		err := rows.Scan(&c.ID, &c.CustomerID, &hairCoachID, &c.IsConnected,
			&c.CalledAt, &c.DurationSeconds, &notes,
			&c.Status, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan call").
				Mark(ierr.ErrDatabase)
		}
		c.HairCoachID = hairCoachID.String
		c.Notes = notes.String
		calls = append(calls, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list calls").
			Mark(ierr.ErrDatabase)
	}
	return calls, nil
}
