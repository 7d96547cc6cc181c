package middleware

import (
	"net/http"

	"github.com/akarpov/usersvc/internal/handlers/authctx"
	"github.com/akarpov/usersvc/internal/handlers/render"
)

type authService interface {
	// Authenticate request by its bearer token, return the token subject
	Authenticate(r *http.Request) (string, error)
}

// Auth rejects requests without a valid bearer token and puts the token
// subject into the request context for the handlers downstream
func Auth(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := as.Authenticate(r)
			if err != nil {
				render.ServiceError(w, "Invalid authentication credentials", http.StatusUnauthorized)
				return
			}

			ctx := authctx.New(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
