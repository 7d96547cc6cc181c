package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/akarpov/usersvc/internal/apperrors"
	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/repository"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Issues and verifies access tokens
type TokenManager interface {
	Issue(subject string) (models.IssuedToken, error)
	Parse(access string) (subject string, err error)
}

type Config struct {
	// Hasher to use during registration or login
	// DefaultHasher is used when not set
	Hasher PasswordHasher
}

// Auth service: registration, credential verification, request authentication
type AuthService struct {
	token  TokenManager
	hasher PasswordHasher

	// Hash compared against on unknown usernames, so login takes the same
	// time whether the user exists or not
	dummyHash string

	userRepo repository.UserRepo
}

func NewService(cfg Config, token TokenManager, userRepo repository.UserRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil || userRepo == nil {
		return nil, errors.New("token manager and user repo must not be nil")
	}

	dummyHash, err := hasher.Hash("usersvc-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("error while preparing dummy hash. Err: %w", err)
	}

	return &AuthService{
		token:     token,
		hasher:    hasher,
		dummyHash: dummyHash,
		userRepo:  userRepo,
	}, nil
}

// Register new user and issue a token for the fresh subject
func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (models.User, models.IssuedToken, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.IssuedToken{}, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return models.User{}, models.IssuedToken{}, err
	}

	token, err := s.token.Issue(user.Username)
	if err != nil {
		return models.User{}, models.IssuedToken{}, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and issues a token for the subject
// Unknown username and wrong password are indistinguishable to the caller
func (s *AuthService) Login(ctx context.Context, username string, password string) (models.IssuedToken, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		// Burn a compare anyway, the miss must cost as much as a mismatch
		_ = s.hasher.Compare(s.dummyHash, password)
		return models.IssuedToken{}, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.token.Issue(user.Username)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("token could not be issued. Err: %w", err)
	}

	return token, nil
}

// Authenticate request by its bearer token, return the token subject
func (s *AuthService) Authenticate(r *http.Request) (string, error) {
	access, err := readBearerToken(r)
	if err != nil {
		return "", err
	}

	return s.token.Parse(access)
}

// Read token from 'Authorization: Bearer <token>' header
func readBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", fmt.Errorf("%w. Err: bearer token not found in request", apperrors.ErrTokenInvalid)
	}

	return token, nil
}
