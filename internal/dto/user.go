package dto

import (
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
)

// RegisterUserRequest defines the payload for creating a new user account.
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=64"`
	Password string `json:"password" binding:"required,min=4"`
}

// LoginRequest defines the payload for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the signed token returned on successful login.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse defines the structure for API responses containing user details.
// The password hash is never exposed.
type UserResponse struct {
	UserID    string    `json:"userID"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:    user.UserID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}
