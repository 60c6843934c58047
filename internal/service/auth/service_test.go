package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
	"github.com/irisclinic/clinic-api/pkg/auth"
	apperrors "github.com/irisclinic/clinic-api/pkg/errors"
	"github.com/irisclinic/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context, excludeID uuid.UUID) ([]*model.UserSummary, error) {
	summaries := []*model.UserSummary{}
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		summaries = append(summaries, &model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	return summaries, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeTokenStore struct {
	tokens map[string]uuid.UUID
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]uuid.UUID)}
}

func (s *fakeTokenStore) Save(_ context.Context, token string, userID uuid.UUID, _ time.Duration) error {
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) Exists(_ context.Context, token string) (bool, error) {
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

type fakeEmailService struct {
	sentTo []string
}

func (s *fakeEmailService) SendPasswordReset(to string, _ string) error {
	s.sentTo = append(s.sentTo, to)
	return nil
}

type testEnv struct {
	svc    *Service
	users  *fakeUserRepo
	tokens *fakeTokenStore
	email  *fakeEmailService
	jwtSvc auth.JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:  newFakeUserRepo(),
		tokens: newFakeTokenStore(),
		email:  &fakeEmailService{},
		jwtSvc: auth.NewJWTService(auth.Config{Secret: "s", RefreshSecret: "rs"}),
	}
	env.svc = NewService(env.users, env.tokens, env.jwtSvc, env.email, time.Hour)
	return env
}

func (e *testEnv) seedUser(t *testing.T, email, password, role string) *model.User {
	t.Helper()
	hash, err := security.NewBcryptHasher(4).Hash(password)
	require.NoError(t, err)
	user := &model.User{ID: uuid.New(), Name: "Test User", Email: email, PasswordHash: hash, Role: role}
	e.users.users[user.ID] = user
	return user
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Dr. Rivera", Email: "rivera@clinic.test", Password: "password123", Role: model.RoleDoctor,
	})
	require.NoError(t, err)
	assert.Equal(t, "rivera@clinic.test", summary.Email)
	assert.Equal(t, model.RoleDoctor, summary.Role)

	stored := env.users.users[summary.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "taken@clinic.test", "password123", model.RoleStaff)

	_, err := env.svc.Register(context.Background(), &model.RegisterRequest{
		Name: "Other", Email: "taken@clinic.test", Password: "password123", Role: model.RoleStaff,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "doc@clinic.test", "password123", model.RoleDoctor)

	resp, err := env.svc.Login(context.Background(), "doc@clinic.test", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, user.ID, resp.User.ID)

	// The refresh token is recorded so it can later be revoked.
	known, err := env.tokens.Exists(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.True(t, known)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "doc@clinic.test", "password123", model.RoleDoctor)

	_, errUnknown := env.svc.Login(context.Background(), "nobody@clinic.test", "password123")
	_, errWrongPw := env.svc.Login(context.Background(), "doc@clinic.test", "wrong-password")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
	assert.True(t, apperrors.Is(errUnknown, apperrors.ErrBadRequest))
	assert.True(t, apperrors.Is(errWrongPw, apperrors.ErrBadRequest))
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "doc@clinic.test", "password123", model.RoleDoctor)

	resp, err := env.svc.Login(context.Background(), "doc@clinic.test", "password123")
	require.NoError(t, err)

	accessToken, err := env.svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)

	claims, err := env.jwtSvc.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "doc@clinic.test", "password123", model.RoleDoctor)

	// A structurally valid refresh token that was never issued through login
	// must be rejected.
	token, err := env.jwtSvc.GenerateRefreshToken(user.ID)
	require.NoError(t, err)

	_, err = env.svc.Refresh(context.Background(), token)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "doc@clinic.test", "password123", model.RoleDoctor)

	resp, err := env.svc.Login(context.Background(), "doc@clinic.test", "password123")
	require.NoError(t, err)

	require.NoError(t, env.svc.Logout(context.Background(), resp.RefreshToken))

	_, err = env.svc.Refresh(context.Background(), resp.RefreshToken)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
}

func TestLogoutIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	assert.NoError(t, env.svc.Logout(context.Background(), "never-issued"))
	assert.NoError(t, env.svc.Logout(context.Background(), "never-issued"))
}

func TestListUsersExcludesActor(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@clinic.test", "password123", model.RoleAdmin)
	other := env.seedUser(t, "staff@clinic.test", "password123", model.RoleStaff)

	users, err := env.svc.ListUsers(context.Background(), admin.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, other.ID, users[0].ID)
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@clinic.test", "password123", model.RoleAdmin)
	target := env.seedUser(t, "staff@clinic.test", "password123", model.RoleStaff)

	require.NoError(t, env.svc.DeleteUser(context.Background(), admin.ID, target.ID))
	_, ok := env.users.users[target.ID]
	assert.False(t, ok)
}

func TestDeleteUserRejectsSelf(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@clinic.test", "password123", model.RoleAdmin)

	err := env.svc.DeleteUser(context.Background(), admin.ID, admin.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestDeleteUserNotFound(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@clinic.test", "password123", model.RoleAdmin)

	err := env.svc.DeleteUser(context.Background(), admin.ID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.svc.ForgotPassword(context.Background(), "nobody@clinic.test"))
	assert.Empty(t, env.email.sentTo)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "doc@clinic.test", "password123", model.RoleDoctor)

	require.NoError(t, env.svc.ForgotPassword(context.Background(), "doc@clinic.test"))
	require.Equal(t, []string{"doc@clinic.test"}, env.email.sentTo)

	token, err := env.jwtSvc.GenerateResetToken(user.ID)
	require.NoError(t, err)

	require.NoError(t, env.svc.ResetPassword(context.Background(), token, "new-password-1"))

	_, err = env.svc.Login(context.Background(), "doc@clinic.test", "password123")
	assert.Error(t, err)
	_, err = env.svc.Login(context.Background(), "doc@clinic.test", "new-password-1")
	assert.NoError(t, err)
}

func TestResetPasswordRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.ResetPassword(context.Background(), "garbage", "new-password-1")
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}
