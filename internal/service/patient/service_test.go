package patient

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisclinic/clinic-api/internal/authz"
	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
	apperrors "github.com/irisclinic/clinic-api/pkg/errors"
)

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, patient *model.Patient) error {
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	clone := *patient
	r.patients[patient.ID] = &clone
	return nil
}

func (r *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, ok := r.patients[id]
	if !ok || patient.DeletedAt != nil {
		return nil, repository.ErrNotFound
	}
	clone := *patient
	return &clone, nil
}

func (r *fakePatientRepo) List(_ context.Context) ([]*model.Patient, error) {
	out := []*model.Patient{}
	for _, p := range r.patients {
		if p.DeletedAt == nil {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) ListByCreator(_ context.Context, userID uuid.UUID) ([]*model.Patient, error) {
	out := []*model.Patient{}
	for _, p := range r.patients {
		if p.DeletedAt == nil && p.CreatedBy != nil && *p.CreatedBy == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakePatientRepo) Update(_ context.Context, patient *model.Patient) error {
	existing, ok := r.patients[patient.ID]
	if !ok || existing.DeletedAt != nil {
		return repository.ErrNotFound
	}
	// Mirrors the COALESCE on id_image_url: absent uploads keep the stored
	// reference.
	if patient.IDImageURL == nil {
		patient.IDImageURL = existing.IDImageURL
	}
	patient.CreatedBy = existing.CreatedBy
	patient.CreatedAt = existing.CreatedAt
	patient.UpdatedAt = time.Now()
	clone := *patient
	r.patients[patient.ID] = &clone
	return nil
}

func (r *fakePatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	patient, ok := r.patients[id]
	if !ok || patient.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	patient.DeletedAt = &now
	return nil
}

type fakeStorage struct {
	saved int
}

func (s *fakeStorage) Save(_ *multipart.FileHeader) (string, error) {
	s.saved++
	return "/uploads/fake-image.png", nil
}

func fileHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("id_image", "id.png")
	require.NoError(t, err)
	_, err = io.WriteString(part, "img")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["id_image"][0]
}

func strPtr(s string) *string { return &s }

func validForm() *model.PatientForm {
	return &model.PatientForm{
		FirstName:     "Asha",
		LastName:      "Patel",
		DOB:           "1985-06-12",
		Gender:        model.GenderFemale,
		ContactNumber: "+1-555-0100",
		Address:       strPtr("12 Clinic Road"),
	}
}

func newTestService() (*Service, *fakePatientRepo, *fakeStorage) {
	repo := newFakePatientRepo()
	storage := &fakeStorage{}
	return NewService(repo, authz.NewPolicy(), storage), repo, storage
}

func doctor() authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: model.RoleDoctor}
}

func TestCreatePatient(t *testing.T) {
	svc, _, _ := newTestService()
	actor := doctor()

	created, err := svc.CreatePatient(context.Background(), actor, validForm(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, actor.UserID, *created.CreatedBy)
	assert.Equal(t, "EN", created.Language)
}

func TestCreatePatientForbiddenForAdmin(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreatePatient(context.Background(), authz.Actor{UserID: uuid.New(), Role: model.RoleAdmin}, validForm(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestCreatePatientRequiresLocation(t *testing.T) {
	svc, _, _ := newTestService()
	form := validForm()
	form.Address = nil

	_, err := svc.CreatePatient(context.Background(), doctor(), form, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	// Coordinates alone satisfy the location requirement.
	lon, lat := 72.8777, 19.076
	form.Longitude = &lon
	form.Latitude = &lat
	_, err = svc.CreatePatient(context.Background(), doctor(), form, nil)
	assert.NoError(t, err)
}

func TestCreatePatientRejectsBadDate(t *testing.T) {
	svc, _, _ := newTestService()
	form := validForm()
	form.DOB = "12/06/1985"

	_, err := svc.CreatePatient(context.Background(), doctor(), form, nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestCreatePatientSavesImage(t *testing.T) {
	svc, _, storage := newTestService()

	created, err := svc.CreatePatient(context.Background(), doctor(), validForm(), fileHeader(t))
	require.NoError(t, err)
	assert.Equal(t, 1, storage.saved)
	require.NotNil(t, created.IDImageURL)
	assert.Equal(t, "/uploads/fake-image.png", *created.IDImageURL)
}

func TestListPatientsScopedByOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	alice := doctor()
	bob := doctor()

	_, err := svc.CreatePatient(context.Background(), alice, validForm(), nil)
	require.NoError(t, err)
	_, err = svc.CreatePatient(context.Background(), bob, validForm(), nil)
	require.NoError(t, err)

	mine, err := svc.ListPatients(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.ListPatients(context.Background(), authz.Actor{UserID: uuid.New(), Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetPatientOwnershipEnforced(t *testing.T) {
	svc, _, _ := newTestService()
	owner := doctor()

	created, err := svc.CreatePatient(context.Background(), owner, validForm(), nil)
	require.NoError(t, err)

	_, err = svc.GetPatient(context.Background(), owner, created.ID)
	assert.NoError(t, err)

	_, err = svc.GetPatient(context.Background(), doctor(), created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))

	_, err = svc.GetPatient(context.Background(), authz.Actor{UserID: uuid.New(), Role: model.RoleAdmin}, created.ID)
	assert.NoError(t, err)
}

func TestGetPatientNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetPatient(context.Background(), doctor(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestUpdatePatientKeepsImageWithoutUpload(t *testing.T) {
	svc, _, _ := newTestService()
	owner := doctor()

	created, err := svc.CreatePatient(context.Background(), owner, validForm(), fileHeader(t))
	require.NoError(t, err)
	require.NotNil(t, created.IDImageURL)

	form := validForm()
	form.FirstName = "Asha Updated"
	updated, err := svc.UpdatePatient(context.Background(), owner, created.ID, form, nil)
	require.NoError(t, err)

	assert.Equal(t, "Asha Updated", updated.FirstName)
	require.NotNil(t, updated.IDImageURL)
	assert.Equal(t, *created.IDImageURL, *updated.IDImageURL)
}

func TestDeletePatientHidesFromReads(t *testing.T) {
	svc, _, _ := newTestService()
	owner := doctor()

	created, err := svc.CreatePatient(context.Background(), owner, validForm(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePatient(context.Background(), owner, created.ID))

	_, err = svc.GetPatient(context.Background(), owner, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	patients, err := svc.ListPatients(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, patients)

	// Deleting again reports not found rather than succeeding silently.
	err = svc.DeletePatient(context.Background(), owner, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDeletePatientOwnershipEnforced(t *testing.T) {
	svc, _, _ := newTestService()
	owner := doctor()

	created, err := svc.CreatePatient(context.Background(), owner, validForm(), nil)
	require.NoError(t, err)

	err = svc.DeletePatient(context.Background(), doctor(), created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}
