package repository

import (
	"context"

	"github.com/akarpov/usersvc/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, hashedPassword string) (models.User, error)

	// Get user by username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// Ownership scoped reads and writes: the record is only reachable when
	// its username equals owner, the id alone is not enough
	// If no such record must return apperrors.ErrUserNotFound
	GetOwnedUser(ctx context.Context, id int64, owner string) (models.User, error)
	UpdateOwnedUser(ctx context.Context, id int64, owner string, username string, email string) (models.User, error)
	DeleteOwnedUser(ctx context.Context, id int64, owner string) error

	// Return every user record
	ListUsers(ctx context.Context) ([]models.User, error)
}
