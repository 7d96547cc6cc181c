package users

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/usersvc/internal/testutil"
	"github.com/akarpov/usersvc/tests/e2e"
)

const (
	RegisterURL = "/users/register"
	LoginURL    = "/users/login"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Send request with optional bearer token, return status code and read body
func do(t *testing.T, method string, url string, token string, data string) (int, string) {
	t.Helper()

	var reader io.Reader
	if data != "" {
		reader = strings.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp.StatusCode, string(body)
}

// Register user over http using a token issued for any subject and return its access token
func registerUser(t *testing.T, srvURL string, s e2e.Services, username string) (userResponse, string) {
	t.Helper()

	gate, err := s.TokenManager.Issue("bootstrap")
	require.NoError(t, err)

	data := fmt.Sprintf(`{"username": %q, "email": %q, "password": "StrongEnoughPassword"}`, username, username+"@example.com")
	code, body := do(t, "POST", srvURL+RegisterURL, gate.Value, data)
	require.Equalf(t, http.StatusOK, code, "register failed. Body: %s", body)

	var payload struct {
		AccessToken string       `json:"access_token"`
		User        userResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload.User, payload.AccessToken
}

func Test_UserLifecycle(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("full account lifecycle", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				// Register and receive a working token right away
				alice, token := registerUser(t, srvURL, s, "alice")
				require.NotEmpty(t, token)

				// The fresh token reads the own record
				code, body := do(t, "GET", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), token, "")
				require.Equal(t, http.StatusOK, code)
				require.JSONEq(t, fmt.Sprintf(`{"id": %d, "username": "alice", "email": "alice@example.com"}`, alice.ID), body)

				// Login again with the same credentials
				code, body = do(t, "POST", srvURL+LoginURL, "", `{"username": "alice", "password": "StrongEnoughPassword"}`)
				require.Equalf(t, http.StatusOK, code, "login failed. Body: %s", body)

				var loginResp tokenResponse
				require.NoError(t, json.Unmarshal([]byte(body), &loginResp))
				require.Equal(t, "bearer", loginResp.TokenType)

				// Update the profile with the login token
				code, body = do(t, "PUT", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), loginResp.AccessToken,
					`{"username": "alice", "email": "new@example.com"}`)
				require.Equal(t, http.StatusOK, code)
				require.JSONEq(t, fmt.Sprintf(`{"id": %d, "username": "alice", "email": "new@example.com"}`, alice.ID), body)

				// Delete the account
				code, body = do(t, "DELETE", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), loginResp.AccessToken, "")
				require.Equal(t, http.StatusOK, code)
				require.JSONEq(t, `{"message": "User deleted successfully"}`, body)

				// The record is gone
				code, _ = do(t, "GET", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), loginResp.AccessToken, "")
				require.Equal(t, http.StatusNotFound, code)

				// And the credentials don't work anymore
				code, body = do(t, "POST", srvURL+LoginURL, "", `{"username": "alice", "password": "StrongEnoughPassword"}`)
				require.Equal(t, http.StatusUnauthorized, code)
				require.JSONEq(t, `{"error": "service_error", "message": "Invalid credentials"}`, body)
			})
		})

		t.Run("rename changes the login name", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				alice, token := registerUser(t, srvURL, s, "alice")

				code, _ := do(t, "PUT", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), token,
					`{"username": "alice2", "email": "alice@example.com"}`)
				require.Equal(t, http.StatusOK, code)

				// Old name no longer logs in, new one does with the unchanged password
				code, _ = do(t, "POST", srvURL+LoginURL, "", `{"username": "alice", "password": "StrongEnoughPassword"}`)
				require.Equal(t, http.StatusUnauthorized, code)

				code, _ = do(t, "POST", srvURL+LoginURL, "", `{"username": "alice2", "password": "StrongEnoughPassword"}`)
				require.Equal(t, http.StatusOK, code)
			})
		})

		t.Run("token issued before rename stops working", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				alice, token := registerUser(t, srvURL, s, "alice")

				code, _ := do(t, "PUT", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), token,
					`{"username": "alice2", "email": "alice@example.com"}`)
				require.Equal(t, http.StatusOK, code)

				// The old token still authenticates but names a subject that owns nothing now
				code, _ = do(t, "GET", fmt.Sprintf("%s/users/%d", srvURL, alice.ID), token, "")
				require.Equal(t, http.StatusNotFound, code)
			})
		})
	})
}
