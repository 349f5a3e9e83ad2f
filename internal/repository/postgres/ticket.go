package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tressahealth/moneyback/internal/domain/ticket"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
)

type ticketRepository struct {
	client *postgres.Client
	logger *logger.Logger
}

// NewTicketRepository creates a postgres-backed ticket repository
func NewTicketRepository(client *postgres.Client, log *logger.Logger) ticket.Repository {
	return &ticketRepository{client: client, logger: log}
}

const ticketColumns = `id, ticket_number, customer_id, prescription_id,
	category, subcategory, source, ticket_status, reason,
	is_eligible, ineligibility_reason, eligible_refund_amount,
	assigned_to, assigned_to_role, estimated_tat_hours, is_approved, engagement_id,
	status, created_at, updated_at, created_by, updated_by`

func scanTicket(row interface{ Scan(...interface{}) error }) (*ticket.Ticket, error) {
	var t ticket.Ticket
	var prescriptionID, ineligibilityReason, engagementID sql.NullString
	err := row.Scan(&t.ID, &t.TicketNumber, &t.CustomerID, &prescriptionID,
		&t.Category, &t.Subcategory, &t.Source, &t.Status, &t.Reason,
		&t.IsEligible, &ineligibilityReason, &t.EligibleRefundAmount,
		&t.AssignedTo, &t.AssignedToRole, &t.EstimatedTATHours, &t.IsApproved, &engagementID,
		&t.BaseModel.Status, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy, &t.UpdatedBy)
	if err != nil {
		return nil, err
	}
	t.PrescriptionID = prescriptionID.String
	t.IneligibilityReason = ineligibilityReason.String
	t.EngagementID = engagementID.String
	return &t, nil
}

func (r *ticketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		INSERT INTO tickets (`+ticketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		t.ID, t.TicketNumber, t.CustomerID, nullString(t.PrescriptionID),
		t.Category, t.Subcategory, t.Source, t.Status, t.Reason,
		t.IsEligible, nullString(t.IneligibilityReason), t.EligibleRefundAmount,
		t.AssignedTo, t.AssignedToRole, t.EstimatedTATHours, t.IsApproved, nullString(t.EngagementID),
		t.BaseModel.Status, t.CreatedAt, t.UpdatedAt, t.CreatedBy, t.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create ticket").
			WithReportableDetails(map[string]interface{}{
				"id":            t.ID,
				"ticket_number": t.TicketNumber,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *ticketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	row := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE id = $1 AND status != 'deleted'`,
		id,
	)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("ticket not found").
			WithHintf("Ticket with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get ticket").
			Mark(ierr.ErrDatabase)
	}
	return t, nil
}

func (r *ticketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	res, err := r.client.Conn(ctx).ExecContext(ctx, `
		UPDATE tickets
		SET ticket_status = $2, assigned_to = $3, assigned_to_role = $4,
			is_approved = $5, updated_at = $6, updated_by = $7
		WHERE id = $1 AND status != 'deleted'`,
		t.ID, t.Status, t.AssignedTo, t.AssignedToRole,
		t.IsApproved, t.UpdatedAt, t.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update ticket").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("ticket not found").
			WithHintf("Ticket with ID %s was not found", t.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter *ticket.Filter) ([]*ticket.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE status != 'deleted'`
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
		if filter.Category != "" {
			addCondition("category = $%d", filter.Category)
		}
		if filter.Status != "" {
			addCondition("ticket_status = $%d", filter.Status)
		}
		if filter.AssignedTo != "" {
			addCondition("assigned_to = $%d", filter.AssignedTo)
		}
		if filter.IsApproved != nil {
			addCondition("is_approved = $%d", *filter.IsApproved)
		}
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if limit := filter.GetLimit(); limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, filter.GetOffset())
	}

	rows, err := r.client.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tickets").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan ticket").
				Mark(ierr.ErrDatabase)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tickets").
			Mark(ierr.ErrDatabase)
	}
	return tickets, nil
}

func (r *ticketRepository) CountApproved(ctx context.Context, customerID string) (int, error) {
	var count int
	err := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM tickets
		WHERE customer_id = $1 AND is_approved = true AND status != 'deleted'`,
		customerID,
	).Scan(&count)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count approved tickets").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
