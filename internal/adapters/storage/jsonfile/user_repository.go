package jsonfile

import (
	"context"
	"fmt"
	"time"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
)

// UserRepository stores user records in a single JSON array file.
type UserRepository struct {
	path string
}

// NewUserRepository creates a UserRepository writing to the given file path.
func NewUserRepository(path string) *UserRepository {
	return &UserRepository{path: path}
}

// Ensure UserRepository implements the repository facade.
var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

// userRecord is the on-disk shape of one user.
type userRecord struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserRecord(user domain.User) userRecord {
	return userRecord{
		UserID:       user.UserID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
}

func (rec userRecord) toDomain() *domain.User {
	return &domain.User{
		UserID:       rec.UserID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

// FindUserByID retrieves a user by primary key.
func (r *UserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	users, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range users {
		if rec.UserID == userID {
			return rec.toDomain(), nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, userID)
}

// FindUserByUsername retrieves a user by unique username.
func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	users, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range users {
		if rec.Username == username {
			return rec.toDomain(), nil
		}
	}
	return nil, fmt.Errorf("%w: user '%s'", apperrors.ErrNotFound, username)
}

// SaveUser appends a new user record. Usernames are unique; saving an existing
// username fails with apperrors.ErrDuplicate.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	users, err := r.readAll()
	if err != nil {
		return err
	}
	for _, rec := range users {
		if rec.Username == user.Username {
			return fmt.Errorf("%w: username '%s'", apperrors.ErrDuplicate, user.Username)
		}
	}
	return writeJSONFileAtomic(r.path, append(users, toUserRecord(user)))
}

func (r *UserRepository) readAll() ([]userRecord, error) {
	var users []userRecord
	if err := readJSONFile(r.path, &users); err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	return users, nil
}
