package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/aarogyahq/booking-api/internal/model"
	"github.com/aarogyahq/booking-api/internal/repository"
	"github.com/aarogyahq/booking-api/pkg/auth"
	apperrors "github.com/aarogyahq/booking-api/pkg/errors"
)

type Service struct {
	userRepo repository.UserRepository
	jwt      auth.JWTService
}

func NewService(userRepo repository.UserRepository, jwt auth.JWTService) *Service {
	return &Service{userRepo: userRepo, jwt: jwt}
}

// Signup registers a patient account and logs it in.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: string(hash),
		Address:      req.Address,
	}

	if err := s.userRepo.Create(ctx, user, []model.Role{model.RolePatient}); err != nil {
		if err == repository.ErrDuplicateUser {
			return nil, apperrors.Conflict("email or mobile already registered", err)
		}
		return nil, apperrors.Internal(err)
	}

	return s.authResponse(user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err == repository.ErrNotFound {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	return s.authResponse(user)
}

// Refresh exchanges a valid refresh token for a fresh pair. Roles are
// reloaded so revocations take effect on rotation.
func (s *Service) Refresh(ctx context.Context, req *model.RefreshTokenRequest) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err == repository.ErrNotFound {
		return nil, apperrors.Unauthorized(err)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return s.tokenPair(user)
}

func (s *Service) authResponse(user *model.User) (*model.AuthResponse, error) {
	tokens, err := s.tokenPair(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Tokens: tokens}, nil
}

func (s *Service) tokenPair(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}
