package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// AuthService handles registration, credential login and session-token
// resolution.
type AuthService interface {
	Register(ctx context.Context, name, password string) (*model.User, string, error)
	Login(ctx context.Context, name, password string) (*model.User, string, error)
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a user with a hashed password and issues its first
// session token.
func (s *authService) Register(ctx context.Context, name, password string) (*model.User, string, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	existing, err := s.userRepo.FindByName(ctx, name)
	if err == nil && existing != nil {
		return nil, "", apperrors.ErrUsernameInUse
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("check user existence: %w", err)
	}

	user, err := model.NewUser(name, hashed)
	if err != nil {
		return nil, "", err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", apperrors.ErrUsernameInUse
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks name and password and issues a session token.
func (s *authService) Login(ctx context.Context, name, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.IssueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser resolves the owner of a session token. An unverifiable token
// yields ErrUnauthorized; a verified token whose user is gone yields
// ErrUserNotFound.
func (s *authService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtService.VerifyToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return findUser(ctx, s.userRepo, claims.UserID)
}

func findUser(ctx context.Context, users repository.UserRepository, id string) (*model.User, error) {
	user, err := users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
