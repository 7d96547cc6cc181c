package user

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/usersvc/internal/apperrors"
	"github.com/akarpov/usersvc/internal/models"
	"github.com/akarpov/usersvc/internal/repository/postgres"
	"github.com/akarpov/usersvc/internal/testutil"
)

func Test_UserService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	withService := func(t *testing.T, fn func(s *UserService, repo *postgres.UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := &postgres.UserRepo{DB: tx}
			fn(NewService(repo), repo)
		})
	}

	createUser := func(t *testing.T, repo *postgres.UserRepo, username string) models.User {
		t.Helper()
		user, err := repo.CreateUser(t.Context(), username, username+"@x.com", "hash")
		require.NoError(t, err)
		return user
	}

	t.Run("owner reaches own record", func(t *testing.T) {
		withService(t, func(s *UserService, repo *postgres.UserRepo) {
			alice := createUser(t, repo, "alice")

			got, err := s.GetOwned(t.Context(), alice.ID, "alice")

			require.NoError(t, err)
			assert.Equal(t, alice.ID, got.ID)
		})
	})

	t.Run("foreign record is invisible", func(t *testing.T) {
		withService(t, func(s *UserService, repo *postgres.UserRepo) {
			alice := createUser(t, repo, "alice")
			createUser(t, repo, "bob")

			// Bob holds a valid identity but supplies alice's id
			_, err := s.GetOwned(t.Context(), alice.ID, "bob")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = s.UpdateOwned(t.Context(), alice.ID, "bob", "hacked", "h@x.com")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			err = s.DeleteOwned(t.Context(), alice.ID, "bob")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("update keeps password hash", func(t *testing.T) {
		withService(t, func(s *UserService, repo *postgres.UserRepo) {
			alice := createUser(t, repo, "alice")

			got, err := s.UpdateOwned(t.Context(), alice.ID, "alice", "alice2", "new@x.com")

			require.NoError(t, err)
			assert.Equal(t, "alice2", got.Username)
			assert.Equal(t, "new@x.com", got.Email)
			assert.Equal(t, alice.HashedPassword, got.HashedPassword)
		})
	})

	t.Run("delete twice reports not found", func(t *testing.T) {
		withService(t, func(s *UserService, repo *postgres.UserRepo) {
			alice := createUser(t, repo, "alice")

			require.NoError(t, s.DeleteOwned(t.Context(), alice.ID, "alice"))
			assert.ErrorIs(t, s.DeleteOwned(t.Context(), alice.ID, "alice"), apperrors.ErrUserNotFound)
		})
	})

	t.Run("list returns everyone", func(t *testing.T) {
		withService(t, func(s *UserService, repo *postgres.UserRepo) {
			createUser(t, repo, "alice")
			createUser(t, repo, "bob")

			users, err := s.ListAll(t.Context())

			require.NoError(t, err)
			assert.Len(t, users, 2)
		})
	})
}
