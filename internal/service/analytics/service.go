package analytics

import (
	"context"

	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
	apperrors "github.com/irisclinic/clinic-api/pkg/errors"
)

const maxSelectedSymptoms = 5

// Service computes read-only rollups from current data on every call.
type Service struct {
	analyticsRepo repository.AnalyticsRepository
	symptomRepo   repository.SymptomRepository
}

func NewService(analyticsRepo repository.AnalyticsRepository, symptomRepo repository.SymptomRepository) *Service {
	return &Service{
		analyticsRepo: analyticsRepo,
		symptomRepo:   symptomRepo,
	}
}

func (s *Service) SymptomsList(ctx context.Context) ([]string, error) {
	names, err := s.symptomRepo.ListNames(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return names, nil
}

func (s *Service) SymptomCounts(ctx context.Context, names []string) ([]*model.SymptomCount, error) {
	if len(names) == 0 || len(names) > maxSelectedSymptoms {
		return nil, apperrors.BadRequest("please provide 1 to 5 symptoms", nil)
	}

	counts, err := s.analyticsRepo.SymptomCounts(ctx, names)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return counts, nil
}

func (s *Service) PatientsPerMonth(ctx context.Context) ([]*model.MonthlyRegistrations, error) {
	months, err := s.analyticsRepo.RegistrationsPerMonth(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return months, nil
}
