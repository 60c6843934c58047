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

type symptomRepository struct {
	db *sqlx.DB
}

func NewSymptomRepository(db *sqlx.DB) repository.SymptomRepository {
	return &symptomRepository{db: db}
}

// Attach links a symptom to a history record inside one transaction so the
// tracker always equals the live association count. Linking an already
// linked symptom is a no-op and does not touch the tracker.
func (r *symptomRepository) Attach(ctx context.Context, historyID uuid.UUID, symptomName string) (*model.AttachResult, error) {
	var result model.AttachResult

	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var symptomID uuid.UUID
		err := tx.GetContext(ctx, &symptomID,
			`SELECT symptom_id FROM symptoms WHERE symptom_name = $1 FOR UPDATE`, symptomName)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			symptomID = uuid.New()
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO symptoms (symptom_id, symptom_name, tracker) VALUES ($1, $2, 1)`,
				symptomID, symptomName); err != nil {
				return fmt.Errorf("failed to create symptom: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up symptom: %w", err)
		default:
			var linked bool
			if err := tx.GetContext(ctx, &linked,
				`SELECT EXISTS (SELECT 1 FROM medical_history_symptoms WHERE history_id = $1 AND symptom_id = $2)`,
				historyID, symptomID); err != nil {
				return fmt.Errorf("failed to check association: %w", err)
			}
			if linked {
				result = model.AttachResult{SymptomID: symptomID, AlreadyLinked: true}
				return nil
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE symptoms SET tracker = tracker + 1 WHERE symptom_id = $1`, symptomID); err != nil {
				return fmt.Errorf("failed to increment tracker: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO medical_history_symptoms (history_symptom_id, history_id, symptom_id) VALUES ($1, $2, $3)`,
			uuid.New(), historyID, symptomID); err != nil {
			return fmt.Errorf("failed to link symptom: %w", err)
		}

		result = model.AttachResult{SymptomID: symptomID}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Detach removes the association and decrements the tracker, clamped at zero.
func (r *symptomRepository) Detach(ctx context.Context, historyID uuid.UUID, symptomName string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var symptomID uuid.UUID
		err := tx.GetContext(ctx, &symptomID,
			`SELECT symptom_id FROM symptoms WHERE symptom_name = $1 FOR UPDATE`, symptomName)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrSymptomNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to look up symptom: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM medical_history_symptoms WHERE history_id = $1 AND symptom_id = $2`,
			historyID, symptomID)
		if err != nil {
			return fmt.Errorf("failed to unlink symptom: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrAssociationNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE symptoms SET tracker = GREATEST(tracker - 1, 0) WHERE symptom_id = $1`, symptomID); err != nil {
			return fmt.Errorf("failed to decrement tracker: %w", err)
		}
		return nil
	})
}

func (r *symptomRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Symptom, error) {
	query := `
		SELECT s.symptom_id, s.symptom_name, s.tracker
		FROM symptoms s
		JOIN medical_history_symptoms mhs ON s.symptom_id = mhs.symptom_id
		JOIN medical_history mh ON mh.history_id = mhs.history_id
		WHERE mh.patient_id = $1
		ORDER BY s.symptom_name
	`
	symptoms := []*model.Symptom{}
	if err := r.db.SelectContext(ctx, &symptoms, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}
	if len(symptoms) == 0 {
		return nil, repository.ErrNotFound
	}
	return symptoms, nil
}

func (r *symptomRepository) Search(ctx context.Context, query string) ([]*model.Symptom, error) {
	symptoms := []*model.Symptom{}
	err := r.db.SelectContext(ctx, &symptoms,
		`SELECT * FROM symptoms WHERE symptom_name ILIKE $1 ORDER BY tracker DESC`,
		"%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search symptoms: %w", err)
	}
	return symptoms, nil
}

func (r *symptomRepository) Top(ctx context.Context, limit int) ([]*model.Symptom, error) {
	symptoms := []*model.Symptom{}
	err := r.db.SelectContext(ctx, &symptoms,
		`SELECT * FROM symptoms ORDER BY tracker DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top symptoms: %w", err)
	}
	return symptoms, nil
}

func (r *symptomRepository) ListNames(ctx context.Context) ([]string, error) {
	names := []string{}
	err := r.db.SelectContext(ctx, &names,
		`SELECT symptom_name FROM symptoms ORDER BY symptom_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symptom names: %w", err)
	}
	return names, nil
}

func (r *symptomRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	return tx.Commit()
}
