package medical

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
	apperrors "github.com/irisclinic/clinic-api/pkg/errors"
)

const topSymptomsLimit = 25

type Service struct {
	historyRepo repository.MedicalHistoryRepository
	symptomRepo repository.SymptomRepository
}

func NewService(historyRepo repository.MedicalHistoryRepository, symptomRepo repository.SymptomRepository) *Service {
	return &Service{
		historyRepo: historyRepo,
		symptomRepo: symptomRepo,
	}
}

func (s *Service) GetHistory(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalHistory, error) {
	histories, err := s.historyRepo.ListByPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medical history", err)
		}
		return nil, apperrors.Internal(err)
	}
	return histories, nil
}

// CreateHistory upserts the patient's single active questionnaire row, so a
// double-tapped submit cannot produce duplicates.
func (s *Service) CreateHistory(ctx context.Context, actor uuid.UUID, req *model.CreateHistoryRequest) (*model.MedicalHistory, error) {
	history := &model.MedicalHistory{
		HistoryID:  uuid.New(),
		PatientID:  req.PatientID,
		RecordedBy: &actor,
	}
	applyFields(history, &req.HistoryFields)

	created, err := s.historyRepo.Upsert(ctx, history)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return created, nil
}

func (s *Service) UpdateHistory(ctx context.Context, actor uuid.UUID, historyID uuid.UUID, req *model.UpdateHistoryRequest) (*model.MedicalHistory, error) {
	history, err := s.historyRepo.Get(ctx, historyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medical history record", err)
		}
		return nil, apperrors.Internal(err)
	}

	applyFields(history, &req.HistoryFields)
	history.UpdatedBy = &actor

	if err := s.historyRepo.Update(ctx, history); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medical history record", err)
		}
		return nil, apperrors.Internal(err)
	}
	return s.historyRepo.Get(ctx, historyID)
}

func (s *Service) ListSymptomsForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Symptom, error) {
	symptoms, err := s.symptomRepo.ListByPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("symptoms for this patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return symptoms, nil
}

// AddSymptom resolves the patient's history record and links the named
// symptom to it. Re-adding a linked symptom succeeds without touching the
// association or the tracker.
func (s *Service) AddSymptom(ctx context.Context, req *model.AddSymptomRequest) (*model.AttachResult, error) {
	history, err := s.historyRepo.GetActiveByPatient(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("medical history record for this patient", err)
		}
		return nil, apperrors.Internal(err)
	}

	result, err := s.symptomRepo.Attach(ctx, history.HistoryID, req.SymptomName)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return result, nil
}

func (s *Service) RemoveSymptom(ctx context.Context, patientID uuid.UUID, symptomName string) error {
	history, err := s.historyRepo.GetActiveByPatient(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("medical history record for this patient", err)
		}
		return apperrors.Internal(err)
	}

	if err := s.symptomRepo.Detach(ctx, history.HistoryID, symptomName); err != nil {
		switch {
		case errors.Is(err, repository.ErrSymptomNotFound):
			return apperrors.NotFound("symptom", err)
		case errors.Is(err, repository.ErrAssociationNotFound):
			return apperrors.NotFound("symptom association", err)
		default:
			return apperrors.Internal(err)
		}
	}
	return nil
}

func (s *Service) SearchSymptoms(ctx context.Context, query string) ([]*model.Symptom, error) {
	if query == "" {
		return nil, apperrors.BadRequest("missing search query parameter 'q'", nil)
	}
	symptoms, err := s.symptomRepo.Search(ctx, query)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return symptoms, nil
}

func (s *Service) TopSymptoms(ctx context.Context) ([]*model.Symptom, error) {
	symptoms, err := s.symptomRepo.Top(ctx, topSymptomsLimit)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return symptoms, nil
}

func applyFields(history *model.MedicalHistory, fields *model.HistoryFields) {
	history.Medications = fields.Medications
	history.Allergies = fields.Allergies
	history.EyeInjuries = fields.EyeInjuries
	history.EyeSurgeries = fields.EyeSurgeries
	history.SocialHistory = fields.SocialHistory
	history.FamilyHistory = fields.FamilyHistory
	history.Diabetes = fields.Diabetes
	history.Hypertension = fields.Hypertension
	history.Nearsightedness = fields.Nearsightedness
	history.Farsightedness = fields.Farsightedness
	history.EyeGlassesOrLenses = fields.EyeGlassesOrLenses
}
