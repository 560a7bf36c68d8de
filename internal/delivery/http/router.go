package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventlistings/internal/delivery/http/controllers"
	"eventlistings/internal/delivery/http/middleware"
	"eventlistings/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(authController *controllers.AuthController, eventController *controllers.EventController, authenticator domain.TokenAuthenticator, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(authenticator, logger)

	// Auth
	mux.HandleFunc("POST /users/register", authController.Register)
	mux.HandleFunc("POST /users/login", authController.Login)
	mux.HandleFunc("GET /users/logout", requireAuth(authController.Logout))
	mux.HandleFunc("POST /users/logout", requireAuth(authController.Logout))

	// Events
	mux.HandleFunc("GET /events", requireAuth(eventController.List))
	mux.HandleFunc("POST /events", requireAuth(eventController.Create))
	mux.HandleFunc("GET /events/{eventID}", requireAuth(eventController.Get))
	mux.HandleFunc("PUT /events/{eventID}", requireAuth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", requireAuth(eventController.Delete))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
