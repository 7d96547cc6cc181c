package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/akarpov/usersvc/internal/apperrors"
	"github.com/akarpov/usersvc/internal/models"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at, username, email, password_hash
`

func (r *UserRepo) CreateUser(ctx context.Context, username string, email string, hashedPassword string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUser, username, email, hashedPassword)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return user, apperrors.ErrUserAlreadyExists
		}
	}

	return user, err
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT id, created_at, username, email, password_hash FROM users
WHERE username = $1
`

func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByUsername, username)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return user, apperrors.ErrUserNotFound
	}

	return user, err
}

const getOwnedUser = `-- name: GetOwnedUser
SELECT id, created_at, username, email, password_hash FROM users
WHERE id = $1 AND username = $2
`

func (r *UserRepo) GetOwnedUser(ctx context.Context, id int64, owner string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getOwnedUser, id, owner)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return user, apperrors.ErrUserNotFound
	}

	return user, err
}

const updateOwnedUser = `-- name: UpdateOwnedUser
UPDATE users
SET username = $3, email = $4
WHERE id = $1 AND username = $2
RETURNING id, created_at, username, email, password_hash
`

func (r *UserRepo) UpdateOwnedUser(ctx context.Context, id int64, owner string, username string, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, updateOwnedUser, id, owner, username, email)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return user, apperrors.ErrUserNotFound
		case errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
			return user, apperrors.ErrUserAlreadyExists
		}
	}

	return user, err
}

const deleteOwnedUser = `-- name: DeleteOwnedUser
DELETE FROM users
WHERE id = $1 AND username = $2
`

func (r *UserRepo) DeleteOwnedUser(ctx context.Context, id int64, owner string) error {
	tag, err := r.DB.Exec(ctx, deleteOwnedUser, id, owner)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

const listUsers = `-- name: ListUsers
SELECT id, created_at, username, email, password_hash FROM users
ORDER BY id
`

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, _ := r.DB.Query(ctx, listUsers)
	return pgx.CollectRows(rows, rowToUser)
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Username, &u.Email, &u.HashedPassword)
	return u, err
}
