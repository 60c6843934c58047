package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/model"
)

// Sentinel errors surfaced by repositories so services can translate them
// into the API error taxonomy.
var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrSymptomNotFound     = errors.New("symptom not found")
	ErrAssociationNotFound = errors.New("symptom association not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, excludeID uuid.UUID) ([]*model.UserSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context) ([]*model.Patient, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type MedicalHistoryRepository interface {
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalHistory, error)
	GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*model.MedicalHistory, error)
	Get(ctx context.Context, historyID uuid.UUID) (*model.MedicalHistory, error)
	Upsert(ctx context.Context, history *model.MedicalHistory) (*model.MedicalHistory, error)
	Update(ctx context.Context, history *model.MedicalHistory) error
}

type SymptomRepository interface {
	Attach(ctx context.Context, historyID uuid.UUID, symptomName string) (*model.AttachResult, error)
	Detach(ctx context.Context, historyID uuid.UUID, symptomName string) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Symptom, error)
	Search(ctx context.Context, query string) ([]*model.Symptom, error)
	Top(ctx context.Context, limit int) ([]*model.Symptom, error)
	ListNames(ctx context.Context) ([]string, error)
}

type AnalyticsRepository interface {
	SymptomCounts(ctx context.Context, names []string) ([]*model.SymptomCount, error)
	RegistrationsPerMonth(ctx context.Context) ([]*model.MonthlyRegistrations, error)
}

// TokenStore keeps issued refresh tokens until they expire or are revoked.
type TokenStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Exists(ctx context.Context, token string) (bool, error)
	Delete(ctx context.Context, token string) error
}
