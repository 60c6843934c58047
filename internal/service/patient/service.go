package patient

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/authz"
	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
	apperrors "github.com/irisclinic/clinic-api/pkg/errors"
	"github.com/irisclinic/clinic-api/pkg/upload"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo    repository.PatientRepository
	policy  *authz.Policy
	storage upload.Storage
}

func NewService(repo repository.PatientRepository, policy *authz.Policy, storage upload.Storage) *Service {
	return &Service{
		repo:    repo,
		policy:  policy,
		storage: storage,
	}
}

// CreatePatient registers a patient owned by the acting doctor or staff
// member. Admins manage users, not patients.
func (s *Service) CreatePatient(ctx context.Context, actor authz.Actor, form *model.PatientForm, image *multipart.FileHeader) (*model.Patient, error) {
	if !s.policy.CanCreatePatient(actor) {
		return nil, apperrors.Forbidden("only doctors and staff can register patients", nil)
	}

	patient, err := s.fromForm(form)
	if err != nil {
		return nil, err
	}

	if !hasLocation(patient) {
		return nil, apperrors.BadRequest("either an address or both coordinates are required", nil)
	}

	if image != nil {
		url, err := s.storage.Save(image)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		patient.IDImageURL = &url
	}

	patient.ID = uuid.New()
	patient.CreatedBy = &actor.UserID

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

// ListPatients returns every active patient for admins, and only the
// actor's own registrations otherwise.
func (s *Service) ListPatients(ctx context.Context, actor authz.Actor) ([]*model.Patient, error) {
	var (
		patients []*model.Patient
		err      error
	)
	if actor.IsAdmin() {
		patients, err = s.repo.List(ctx)
	} else {
		patients, err = s.repo.ListByCreator(ctx, actor.UserID)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return patients, nil
}

func (s *Service) GetPatient(ctx context.Context, actor authz.Actor, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}

	if !s.policy.CanAccessPatient(actor, patient) {
		return nil, apperrors.Forbidden("access denied", nil)
	}
	return patient, nil
}

// UpdatePatient replaces all mutable fields. The stored ID image is kept
// unless a new one is uploaded.
func (s *Service) UpdatePatient(ctx context.Context, actor authz.Actor, id uuid.UUID, form *model.PatientForm, image *multipart.FileHeader) (*model.Patient, error) {
	existing, err := s.GetPatient(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	patient, err := s.fromForm(form)
	if err != nil {
		return nil, err
	}
	patient.ID = existing.ID

	if image != nil {
		url, err := s.storage.Save(image)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		patient.IDImageURL = &url
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}
	return patient, nil
}

// DeletePatient soft-deletes, applying the same admin-or-creator rule as
// reads and updates.
func (s *Service) DeletePatient(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	if _, err := s.GetPatient(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) fromForm(form *model.PatientForm) (*model.Patient, error) {
	dob, err := time.Parse(dateLayout, form.DOB)
	if err != nil {
		return nil, apperrors.BadRequest("invalid dob, expected YYYY-MM-DD", err)
	}

	patient := &model.Patient{
		FirstName:           form.FirstName,
		LastName:            form.LastName,
		DOB:                 dob,
		Gender:              form.Gender,
		ContactNumber:       form.ContactNumber,
		Email:               form.Email,
		Language:            form.Language,
		Longitude:           form.Longitude,
		Latitude:            form.Latitude,
		RelativeName:        form.RelativeName,
		RelativePhoneNumber: form.RelativePhoneNumber,
		Address:             form.Address,
	}
	if patient.Language == "" {
		patient.Language = "EN"
	}

	if form.NextFollowup != nil && *form.NextFollowup != "" {
		followup, err := time.Parse(dateLayout, *form.NextFollowup)
		if err != nil {
			return nil, apperrors.BadRequest("invalid next_followup, expected YYYY-MM-DD", err)
		}
		patient.NextFollowup = &followup
	}

	return patient, nil
}

func hasLocation(p *model.Patient) bool {
	if p.Address != nil && *p.Address != "" {
		return true
	}
	return p.Longitude != nil && p.Latitude != nil
}
