package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/irisclinic/clinic-api/internal/email"
	"github.com/irisclinic/clinic-api/internal/model"
	"github.com/irisclinic/clinic-api/internal/repository"
	"github.com/irisclinic/clinic-api/pkg/auth"
	apperrors "github.com/irisclinic/clinic-api/pkg/errors"
	"github.com/irisclinic/clinic-api/pkg/security"
)

const bcryptCost = 10

// invalidCredentials is returned identically for unknown emails and wrong
// passwords so the endpoint cannot be used to enumerate accounts.
func invalidCredentials() *apperrors.AppError {
	return apperrors.BadRequest("invalid email or password", nil)
}

type Service struct {
	userRepo   repository.UserRepository
	tokenStore repository.TokenStore
	jwtSvc     auth.JWTService
	hasher     security.PasswordHasher
	emailSvc   email.Service
	refreshTTL time.Duration
}

func NewService(userRepo repository.UserRepository, tokenStore repository.TokenStore,
	jwtSvc auth.JWTService, emailSvc email.Service, refreshTTL time.Duration) *Service {
	return &Service{
		userRepo:   userRepo,
		tokenStore: tokenStore,
		jwtSvc:     jwtSvc,
		hasher:     security.NewBcryptHasher(bcryptCost),
		emailSvc:   emailSvc,
		refreshTTL: refreshTTL,
	}
}

// Register creates a user with the given role. The admin-only gate is
// enforced by the caller through the authorization policy.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSummary, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.BadRequest("invalid password", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("email already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	return &model.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

func (s *Service) Login(ctx context.Context, loginEmail, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, loginEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	accessToken, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate access token: %w", err))
	}

	refreshToken, err := s.jwtSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to generate refresh token: %w", err))
	}

	if err := s.tokenStore.Save(ctx, refreshToken, user.ID, s.refreshTTL); err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &model.UserSummary{ID: user.ID, Email: user.Email, Role: user.Role},
	}, nil
}

// Refresh issues a new access token. The refresh token must both verify and
// still be present in the store; revoked or unknown tokens are rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	known, err := s.tokenStore.Exists(ctx, refreshToken)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if !known {
		return "", apperrors.Forbidden("access denied", nil)
	}

	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.Forbidden("invalid refresh token", err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return "", apperrors.Forbidden("access denied", err)
	}

	accessToken, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", apperrors.Internal(fmt.Errorf("failed to generate access token: %w", err))
	}
	return accessToken, nil
}

// Logout revokes the refresh token; revoking an unknown token succeeds.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenStore.Delete(ctx, refreshToken); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ListUsers returns every user except the actor, without password hashes.
func (s *Service) ListUsers(ctx context.Context, actorID uuid.UUID) ([]*model.UserSummary, error) {
	users, err := s.userRepo.List(ctx, actorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return users, nil
}

func (s *Service) DeleteUser(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return apperrors.BadRequest("you cannot delete your own account", nil)
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}

// ForgotPassword emails a reset link. Unknown emails are silently accepted
// so the endpoint does not reveal which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, userEmail string) error {
	user, err := s.userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return apperrors.Internal(err)
	}

	token, err := s.jwtSvc.GenerateResetToken(user.ID)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to generate reset token: %w", err))
	}

	if err := s.emailSvc.SendPasswordReset(user.Email, token); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.jwtSvc.ValidateResetToken(token)
	if err != nil {
		return apperrors.BadRequest("invalid or expired reset token", err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.BadRequest("invalid password", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return apperrors.Internal(err)
	}
	return nil
}
