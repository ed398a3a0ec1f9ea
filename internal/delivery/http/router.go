package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"blitzweek/internal/delivery/http/controllers"
	"blitzweek/internal/delivery/http/middleware"
	"blitzweek/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Administrative routes are gated behind the admin bearer token.
func NewRouter(
	registrationController *controllers.RegistrationController,
	adminController *controllers.AdminController,
	statsController *controllers.StatsController,
	healthController *controllers.HealthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	admin := middleware.RequireAdmin(verifier)

	// Public routes
	mux.HandleFunc("POST /api/register", registrationController.Register)
	mux.HandleFunc("GET /api/check-registration/{identifier}", registrationController.CheckRegistration)

	// Stats
	mux.HandleFunc("GET /api/stats", statsController.Overview)
	mux.HandleFunc("GET /api/stats/live-count", statsController.LiveCount)
	mux.HandleFunc("GET /api/stats/event/{eventName}", statsController.EventStats)

	// Admin
	mux.HandleFunc("POST /api/admin/login", adminController.Login)
	mux.HandleFunc("GET /api/registrations", admin(adminController.List))
	mux.HandleFunc("GET /api/registrations/export", admin(adminController.Export))
	mux.HandleFunc("GET /api/registration/{registrationNumber}", admin(adminController.GetByNumber))
	mux.HandleFunc("PUT /api/registration/{registrationNumber}/status", admin(adminController.UpdateStatus))
	mux.HandleFunc("DELETE /api/registration/{registrationNumber}", admin(adminController.Delete))

	// Health
	mux.HandleFunc("GET /health", healthController.Health)
	mux.HandleFunc("GET /api/health", healthController.Health)

	// Observability and docs
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
