package services

import (
	"context"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
)

// UserSvcFacade defines registration and authentication operations.
type UserSvcFacade interface {
	// Register creates a new user with a hashed password and an empty portfolio.
	// A taken username yields apperrors.ErrDuplicate.
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// Authenticate verifies username and password and returns the user record.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetUserByID retrieves a user by primary key.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
