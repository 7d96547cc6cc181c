package handlers

import (
	"context"
	"net/http"

	"github.com/akarpov/usersvc/internal/handlers/middleware"
	"github.com/akarpov/usersvc/internal/logger"
	"github.com/akarpov/usersvc/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	l logger.Logger,
	rateLimit func(next http.Handler) http.Handler,
) http.Handler {
	if rateLimit == nil {
		rateLimit = func(next http.Handler) http.Handler { return next }
	}

	withAuth := middleware.Auth(authService)

	users := http.NewServeMux()

	// Register keeps the original contract: a new account may only be
	// created by a caller already holding a valid token
	users.Handle("POST /register", rateLimit(withAuth(handleRegister(authService, l))))
	users.Handle("POST /login", rateLimit(handleLogin(authService, l)))

	// '/all' is a literal so it wins over '/{id}' regardless of order
	users.Handle("GET /all", withAuth(handleListUsers(userService, l)))
	users.Handle("GET /{id}", withAuth(handleGetUser(userService, l)))
	users.Handle("PUT /{id}", withAuth(handleUpdateUser(userService, l)))
	users.Handle("DELETE /{id}", withAuth(handleDeleteUser(userService, l)))

	root := http.NewServeMux()
	root.Handle("/users/", http.StripPrefix("/users", users))

	return chain(root,
		middleware.Logger(l),
	)
}

type authService interface {
	// Register user, has to return apperrors.ErrUserAlreadyExists if username is taken
	Register(ctx context.Context, username string, email string, password string) (models.User, models.IssuedToken, error)

	// Verify credentials and issue a token
	// Has to return apperrors.ErrInvalidCredentials on any credential failure
	Login(ctx context.Context, username string, password string) (models.IssuedToken, error)

	// Authenticate request by its bearer token, return the token subject
	Authenticate(r *http.Request) (string, error)
}

type userService interface {
	// Ownership scoped operations: apperrors.ErrUserNotFound when the record
	// is absent or owned by someone else
	GetOwned(ctx context.Context, id int64, owner string) (models.User, error)
	UpdateOwned(ctx context.Context, id int64, owner string, username string, email string) (models.User, error)
	DeleteOwned(ctx context.Context, id int64, owner string) error

	ListAll(ctx context.Context) ([]models.User, error)
}
