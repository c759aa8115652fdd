package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
	"github.com/Crook1Boss35/valutatrade-hub/internal/utils"
)

// ErrInvalidCredentials is returned when a login attempt fails; the message is
// identical for unknown usernames and wrong passwords.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService handles registration and authentication.
type UserService struct {
	userRepo      portsrepo.UserRepositoryFacade
	portfolioRepo portsrepo.PortfolioWriter
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, portfolioRepo portsrepo.PortfolioWriter) *UserService {
	return &UserService{userRepo: userRepo, portfolioRepo: portfolioRepo}
}

// Ensure UserService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*UserService)(nil)

// Register creates a new user with a bcrypt-hashed password and an empty
// portfolio. A taken username yields apperrors.ErrDuplicate.
func (s *UserService) Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username must not be empty", apperrors.ErrValidation)
	}
	if len(req.Password) < 4 {
		return nil, fmt.Errorf("%w: password must be at least 4 characters", apperrors.ErrValidation)
	}

	existing, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username '%s' is already taken", apperrors.ErrDuplicate, username)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.portfolioRepo.SavePortfolio(ctx, *domain.NewPortfolio(user.UserID)); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	logger.Info("User registered", slog.String("user_id", user.UserID), slog.String("username", username))
	return &user, nil
}

// Authenticate verifies a username/password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by primary key.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}
