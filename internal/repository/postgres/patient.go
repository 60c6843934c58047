package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, first_name, last_name, dob, gender, contact_number, email,
			language, longitude, latitude, next_followup, relative_name, relative_phone_number,
			id_image_url, address, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.DOB,
		patient.Gender,
		patient.ContactNumber,
		patient.Email,
		patient.Language,
		patient.Longitude,
		patient.Latitude,
		patient.NextFollowup,
		patient.RelativeName,
		patient.RelativePhoneNumber,
		patient.IDImageURL,
		patient.Address,
		patient.CreatedBy,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

// Get excludes soft-deleted rows, matching the list behaviour.
func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1 AND deleted_at IS NULL`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE deleted_at IS NULL ORDER BY created_at DESC`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*model.Patient, error) {
	query := `SELECT * FROM patients WHERE created_by = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// Update keeps the stored image reference when no new one is supplied.
func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			first_name = $1,
			last_name = $2,
			dob = $3,
			gender = $4,
			contact_number = $5,
			email = $6,
			language = $7,
			longitude = $8,
			latitude = $9,
			next_followup = $10,
			relative_name = $11,
			relative_phone_number = $12,
			address = $13,
			id_image_url = COALESCE($14, id_image_url),
			updated_at = NOW()
		WHERE id = $15 AND deleted_at IS NULL
		RETURNING *
	`
	var updated model.Patient
	err := r.db.GetContext(ctx, &updated, query,
		patient.FirstName,
		patient.LastName,
		patient.DOB,
		patient.Gender,
		patient.ContactNumber,
		patient.Email,
		patient.Language,
		patient.Longitude,
		patient.Latitude,
		patient.NextFollowup,
		patient.RelativeName,
		patient.RelativePhoneNumber,
		patient.Address,
		patient.IDImageURL,
		patient.ID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}
	*patient = updated
	return nil
}

func (r *patientRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE patients SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
