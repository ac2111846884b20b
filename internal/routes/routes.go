package routes

import (
	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/handlers"
	"github.com/arjunmehra/coursegate/internal/middleware"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	adminHandler *handlers.AdminHandler,
	sessionManager *auth.SessionManager,
) {
	// Rate limiting for the public login endpoints
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no session required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/request-otp", authHandler.RequestOTP)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/verify-otp", authHandler.VerifyOTP)

	// Protected routes - valid session cookie required
	router.Group(func(r chi.Router) {
		r.Use(auth.SessionMiddleware(sessionManager))

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/session", authHandler.Session)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))
			r.Get("/admin/users", adminHandler.ListUsers)
		})
	})
}
