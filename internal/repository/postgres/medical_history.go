package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
)

type medicalHistoryRepository struct {
	db *sqlx.DB
}

func NewMedicalHistoryRepository(db *sqlx.DB) repository.MedicalHistoryRepository {
	return &medicalHistoryRepository{db: db}
}

func (r *medicalHistoryRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalHistory, error) {
	query := `SELECT * FROM medical_history WHERE patient_id = $1 AND deleted_at IS NULL ORDER BY created_at`
	histories := []*model.MedicalHistory{}
	if err := r.db.SelectContext(ctx, &histories, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medical history: %w", err)
	}
	if len(histories) == 0 {
		return nil, repository.ErrNotFound
	}
	return histories, nil
}

func (r *medicalHistoryRepository) GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*model.MedicalHistory, error) {
	query := `
		SELECT * FROM medical_history
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY created_at
		LIMIT 1
	`
	var history model.MedicalHistory
	if err := r.db.GetContext(ctx, &history, query, patientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medical history: %w", err)
	}
	return &history, nil
}

func (r *medicalHistoryRepository) Get(ctx context.Context, historyID uuid.UUID) (*model.MedicalHistory, error) {
	query := `SELECT * FROM medical_history WHERE history_id = $1 AND deleted_at IS NULL`
	var history model.MedicalHistory
	if err := r.db.GetContext(ctx, &history, query, historyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medical history: %w", err)
	}
	return &history, nil
}

// Upsert keeps a single active questionnaire row per patient: repeated
// submissions update the existing record instead of inserting duplicates.
func (r *medicalHistoryRepository) Upsert(ctx context.Context, history *model.MedicalHistory) (*model.MedicalHistory, error) {
	existing, err := r.GetActiveByPatient(ctx, history.PatientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return r.insert(ctx, history)
	}

	history.HistoryID = existing.HistoryID
	history.UpdatedBy = history.RecordedBy
	if err := r.Update(ctx, history); err != nil {
		return nil, err
	}
	return r.Get(ctx, existing.HistoryID)
}

func (r *medicalHistoryRepository) insert(ctx context.Context, history *model.MedicalHistory) (*model.MedicalHistory, error) {
	query := `
		INSERT INTO medical_history (history_id, patient_id, recorded_by, medications, allergies,
			eye_injuries, eye_surgeries, social_history, family_history, diabetes, hypertension,
			nearsightedness, farsightedness, eye_glasses_or_lenses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING *
	`
	var created model.MedicalHistory
	err := r.db.GetContext(ctx, &created, query,
		history.HistoryID,
		history.PatientID,
		history.RecordedBy,
		history.Medications,
		history.Allergies,
		history.EyeInjuries,
		history.EyeSurgeries,
		history.SocialHistory,
		history.FamilyHistory,
		history.Diabetes,
		history.Hypertension,
		history.Nearsightedness,
		history.Farsightedness,
		history.EyeGlassesOrLenses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create medical history: %w", err)
	}
	return &created, nil
}

func (r *medicalHistoryRepository) Update(ctx context.Context, history *model.MedicalHistory) error {
	query := `
		UPDATE medical_history SET
			medications = $1,
			allergies = $2,
			eye_injuries = $3,
			eye_surgeries = $4,
			social_history = $5,
			family_history = $6,
			diabetes = $7,
			hypertension = $8,
			nearsightedness = $9,
			farsightedness = $10,
			eye_glasses_or_lenses = $11,
			updated_by = $12,
			updated_at = NOW()
		WHERE history_id = $13 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		history.Medications,
		history.Allergies,
		history.EyeInjuries,
		history.EyeSurgeries,
		history.SocialHistory,
		history.FamilyHistory,
		history.Diabetes,
		history.Hypertension,
		history.Nearsightedness,
		history.Farsightedness,
		history.EyeGlassesOrLenses,
		history.UpdatedBy,
		history.HistoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical history: %w", err)
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
