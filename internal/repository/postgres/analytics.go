package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
)

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) repository.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SymptomCounts(ctx context.Context, names []string) ([]*model.SymptomCount, error) {
	query := `
		SELECT s.symptom_name,
		       COUNT(DISTINCT mh.patient_id) AS patient_count
		FROM medical_history_symptoms mhs
		JOIN symptoms s ON mhs.symptom_id = s.symptom_id
		JOIN medical_history mh ON mhs.history_id = mh.history_id
		WHERE s.symptom_name = ANY($1)
		GROUP BY s.symptom_name
		ORDER BY patient_count DESC
	`
	counts := []*model.SymptomCount{}
	if err := r.db.SelectContext(ctx, &counts, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to fetch symptom counts: %w", err)
	}
	return counts, nil
}

func (r *analyticsRepository) RegistrationsPerMonth(ctx context.Context) ([]*model.MonthlyRegistrations, error) {
	query := `
		SELECT TO_CHAR(created_at, 'YYYY-MM') AS month,
		       COUNT(*) AS count
		FROM patients
		WHERE created_at IS NOT NULL
		GROUP BY month
		ORDER BY month
	`
	months := []*model.MonthlyRegistrations{}
	if err := r.db.SelectContext(ctx, &months, query); err != nil {
		return nil, fmt.Errorf("failed to fetch monthly registrations: %w", err)
	}
	return months, nil
}
