package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/akarpov/usersvc/internal/apperrors"
	"github.com/akarpov/usersvc/internal/handlers/authctx"
	"github.com/akarpov/usersvc/internal/handlers/render"
	"github.com/akarpov/usersvc/internal/logger"
)

// Public shape of a user record, the password hash never leaves the service
type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func handleGetUser(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := authctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			// A non numeric id can't name a record, same as a missing one
			render.ServiceError(w, "User not found", http.StatusNotFound)
			return
		}

		user, err := userService.GetOwned(r.Context(), id, subject)

		switch {
		case err == nil:
			render.JSON(w, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to get user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleUpdateUser(userService userService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required,min=2,max=50"`
		Email    string `json:"email" validate:"required,email"`
		// Accepted for surface compatibility, the update never touches it
		Password string `json:"password"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := authctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "User not found", http.StatusNotFound)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := userService.UpdateOwned(r.Context(), id, subject, data.Username, data.Email)

		switch {
		case err == nil:
			render.JSON(w, userResponse{ID: user.ID, Username: user.Username, Email: user.Email})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User already exists", http.StatusConflict)
		default:
			l.Error("Failed to update user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeleteUser(userService userService, l logger.Logger) http.Handler {
	type response struct {
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := authctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "User not found", http.StatusNotFound)
			return
		}

		err = userService.DeleteOwned(r.Context(), id, subject)

		switch {
		case err == nil:
			render.JSON(w, response{Message: "User deleted successfully"})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusNotFound)
		default:
			l.Error("Failed to delete user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListUsers(userService userService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.ListAll(r.Context())
		if err != nil {
			l.Error("Failed to list users", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		res := make([]userResponse, 0, len(users))
		for _, u := range users {
			res = append(res, userResponse{ID: u.ID, Username: u.Username, Email: u.Email})
		}
		render.JSON(w, res)
	})
}
