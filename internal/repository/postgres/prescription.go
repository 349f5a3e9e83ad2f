package postgres

import (
	"context"
	"database/sql"

	"github.com/tressahealth/moneyback/internal/domain/prescription"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
)

type prescriptionRepository struct {
	client *postgres.Client
	logger *logger.Logger
}

// NewPrescriptionRepository creates a postgres-backed prescription repository
func NewPrescriptionRepository(client *postgres.Client, log *logger.Logger) prescription.Repository {
	return &prescriptionRepository{client: client, logger: log}
}

const prescriptionColumns = `id, prescription_number, kit_id, customer_id, prescribed_by_doctor_id,
	plan_type, treatment_duration_months, required_kits, is_active,
	prescribed_at, plan_started_at, expected_completion_date, actual_completion_date, completed_at, notes,
	status, created_at, updated_at, created_by, updated_by`

func scanPrescription(row interface{ Scan(...interface{}) error }) (*prescription.Prescription, error) {
	var p prescription.Prescription
	var doctorID, notes sql.NullString
	var planStartedAt, expectedCompletion, actualCompletion, completedAt sql.NullTime
	err := row.Scan(&p.ID, &p.PrescriptionNumber, &p.KitID, &p.CustomerID, &doctorID,
		&p.PlanType, &p.TreatmentDurationMonths, &p.RequiredKits, &p.IsActive,
		&p.PrescribedAt, &planStartedAt, &expectedCompletion, &actualCompletion, &completedAt, &notes,
		&p.Status, &p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy)
	if err != nil {
		return nil, err
	}
	p.PrescribedByDoctorID = doctorID.String
	p.Notes = notes.String
	if planStartedAt.Valid {
		p.PlanStartedAt = &planStartedAt.Time
	}
	if expectedCompletion.Valid {
		p.ExpectedCompletionDate = &expectedCompletion.Time
	}
	if actualCompletion.Valid {
		p.ActualCompletionDate = &actualCompletion.Time
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return &p, nil
}

func (r *prescriptionRepository) Create(ctx context.Context, p *prescription.Prescription) error {
	return r.client.WithTx(ctx, func(ctx context.Context) error {
		_, err := r.client.Conn(ctx).ExecContext(ctx, `
			INSERT INTO prescriptions (`+prescriptionColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
			p.ID, p.PrescriptionNumber, p.KitID, p.CustomerID, nullString(p.PrescribedByDoctorID),
			p.PlanType, p.TreatmentDurationMonths, p.RequiredKits, p.IsActive,
			p.PrescribedAt, p.PlanStartedAt, p.ExpectedCompletionDate, p.ActualCompletionDate, p.CompletedAt, nullString(p.Notes),
			p.Status, p.CreatedAt, p.UpdatedAt, p.CreatedBy, p.UpdatedBy,
		)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create prescription").
				WithReportableDetails(map[string]interface{}{
					"id": p.ID,
				}).
				Mark(ierr.ErrDatabase)
		}
		for _, pp := range p.Products {
			if err := r.createProduct(ctx, pp); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *prescriptionRepository) createProduct(ctx context.Context, pp *prescription.Product) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		INSERT INTO prescription_products
			(id, prescription_id, product_id, kit_number, quantity, is_required,
			frequency, instructions, days_to_exhaust,
			status, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		pp.ID, pp.PrescriptionID, pp.ProductID, pp.KitNumber, pp.Quantity, pp.IsRequired,
		nullString(pp.Frequency), nullString(pp.Instructions), pp.DaysToExhaust,
		pp.Status, pp.CreatedAt, pp.UpdatedAt, pp.CreatedBy, pp.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create prescription product").
			WithReportableDetails(map[string]interface{}{
				"prescription_id": pp.PrescriptionID,
				"product_id":      pp.ProductID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id string) (*prescription.Prescription, error) {
	row := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE id = $1 AND status != 'deleted'`,
		id,
	)
	p, err := scanPrescription(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("prescription not found").
			WithHintf("Prescription with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get prescription").
			Mark(ierr.ErrDatabase)
	}
	p.Products, err = r.ListProducts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *prescriptionRepository) GetByKitID(ctx context.Context, kitID string) (*prescription.Prescription, error) {
	row := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE kit_id = $1 AND status != 'deleted'`,
		kitID,
	)
	p, err := scanPrescription(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("prescription not found").
			WithHintf("No prescription found for kit ID %s", kitID).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get prescription by kit ID").
			Mark(ierr.ErrDatabase)
	}
	p.Products, err = r.ListProducts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *prescriptionRepository) GetActiveByCustomer(ctx context.Context, customerID string) (*prescription.Prescription, error) {
	row := r.client.Conn(ctx).QueryRowContext(ctx, `
		SELECT `+prescriptionColumns+`
		FROM prescriptions
		WHERE customer_id = $1 AND is_active = true AND status != 'deleted'
		ORDER BY prescribed_at DESC
		LIMIT 1`,
		customerID,
	)
	p, err := scanPrescription(row)
	if err == sql.ErrNoRows {
		return nil, ierr.NewError("no active prescription").
			WithHintf("Customer %s has no active prescription", customerID).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get active prescription").
			Mark(ierr.ErrDatabase)
	}
	p.Products, err = r.ListProducts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *prescription.Prescription) error {
	res, err := r.client.Conn(ctx).ExecContext(ctx, `
		UPDATE prescriptions
		SET kit_id = $2, plan_type = $3, treatment_duration_months = $4, required_kits = $5,
			is_active = $6, plan_started_at = $7, expected_completion_date = $8,
			actual_completion_date = $9, completed_at = $10, notes = $11,
			updated_at = $12, updated_by = $13
		WHERE id = $1 AND status != 'deleted'`,
		p.ID, p.KitID, p.PlanType, p.TreatmentDurationMonths, p.RequiredKits,
		p.IsActive, p.PlanStartedAt, p.ExpectedCompletionDate,
		p.ActualCompletionDate, p.CompletedAt, nullString(p.Notes),
		p.UpdatedAt, p.UpdatedBy,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update prescription").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("prescription not found").
			WithHintf("Prescription with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *prescriptionRepository) DeactivateByCustomer(ctx context.Context, customerID string) error {
	_, err := r.client.Conn(ctx).ExecContext(ctx, `
		UPDATE prescriptions
		SET is_active = false
		WHERE customer_id = $1 AND is_active = true AND status != 'deleted'`,
		customerID,
	)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to deactivate prescriptions").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *prescriptionRepository) ListProducts(ctx context.Context, prescriptionID string) ([]*prescription.Product, error) {
	return r.listProducts(ctx, `
		SELECT id, prescription_id, product_id, kit_number, quantity, is_required,
			frequency, instructions, days_to_exhaust,
			status, created_at, updated_at, created_by, updated_by
		FROM prescription_products
		WHERE prescription_id = $1 AND status != 'deleted'
		ORDER BY kit_number ASC`,
		prescriptionID)
}

func (r *prescriptionRepository) ListProductsByKit(ctx context.Context, prescriptionID string, kitNumber int, requiredOnly bool) ([]*prescription.Product, error) {
	query := `
		SELECT id, prescription_id, product_id, kit_number, quantity, is_required,
			frequency, instructions, days_to_exhaust,
			status, created_at, updated_at, created_by, updated_by
		FROM prescription_products
		WHERE prescription_id = $1 AND kit_number = $2 AND status != 'deleted'`
	if requiredOnly {
		query += ` AND is_required = true`
	}
	query += ` ORDER BY kit_number ASC`
	return r.listProducts(ctx, query, prescriptionID, kitNumber)
}

func (r *prescriptionRepository) listProducts(ctx context.Context, query string, args ...interface{}) ([]*prescription.Product, error) {
	rows, err := r.client.Conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list prescription products").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var products []*prescription.Product
	for rows.Next() {
		var pp prescription.Product
		var frequency, instructions sql.NullString
		err := rows.Scan(&pp.ID, &pp.PrescriptionID, &pp.ProductID, &pp.KitNumber, &pp.Quantity, &pp.IsRequired,
			&frequency, &instructions, &pp.DaysToExhaust,
			&pp.Status, &pp.CreatedAt, &pp.UpdatedAt, &pp.CreatedBy, &pp.UpdatedBy)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan prescription product").
				Mark(ierr.ErrDatabase)
		}
		pp.Frequency = frequency.String
		pp.Instructions = instructions.String
		products = append(products, &pp)
	}
	if err := rows.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list prescription products").
			Mark(ierr.ErrDatabase)
	}
	return products, nil
}
