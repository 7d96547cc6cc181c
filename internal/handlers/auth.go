package handlers

import (
	"errors"
	"net/http"

	"github.com/akarpov/usersvc/internal/apperrors"
	"github.com/akarpov/usersvc/internal/handlers/render"
	"github.com/akarpov/usersvc/internal/logger"
)

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}
	type response struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		Message     string       `json:"message"`
		User        userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, token, err := authService.Register(r.Context(), data.Username, data.Email, data.Password)

		switch {
		case err == nil:
			render.JSON(w, response{
				AccessToken: token.Value,
				TokenType:   "bearer",
				Message:     "User registered successfully",
				User:        userResponse{ID: user.ID, Username: user.Username, Email: user.Email},
			})
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		token, err := authService.Login(r.Context(), data.Username, data.Password)

		switch {
		case err == nil:
			render.JSON(w, response{AccessToken: token.Value, TokenType: "bearer"})
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
