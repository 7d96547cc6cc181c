package user

import (
	"context"

	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/repository"
)

// Account operations scoped by the ownership rule: a record is reachable
// only when its username equals the owner (the token subject)
type UserService struct {
	userRepo repository.UserRepo
}

func NewService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetOwned(ctx context.Context, id int64, owner string) (models.User, error) {
	return s.userRepo.GetOwnedUser(ctx, id, owner)
}

// UpdateOwned overwrites username and email of the owned record
// The password is not touched here, that's the original contract
func (s *UserService) UpdateOwned(ctx context.Context, id int64, owner string, username string, email string) (models.User, error) {
	return s.userRepo.UpdateOwnedUser(ctx, id, owner, username, email)
}

func (s *UserService) DeleteOwned(ctx context.Context, id int64, owner string) error {
	return s.userRepo.DeleteOwnedUser(ctx, id, owner)
}

// ListAll returns every record, any authenticated caller may ask for it
func (s *UserService) ListAll(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}
