package api

import (
	"net/http"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/api/handler"
	"github.com/jigyasu-kalyan/cp-nexus/internal/app/service"
	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
	"github.com/jigyasu-kalyan/cp-nexus/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	profileService *service.ProfileService,
	syncService *service.SyncService,
	dashboardService *service.DashboardService,
	contestService *service.ContestService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the token found in "Authorization: Bearer T" and puts claims
	// in context; route groups opt in to enforcement via the Authenticator.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{
			"status":  "UP",
			"message": "CP-Nexus API is running",
		})
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		v1.Route("/users", userHandler.RegisterRoutes)

		profileHandler := handler.NewProfileHandler(profileService, syncService)
		v1.Route("/profiles", profileHandler.RegisterRoutes)

		dashboardHandler := handler.NewDashboardHandler(dashboardService)
		v1.Route("/dashboard", dashboardHandler.RegisterRoutes)

		contestHandler := handler.NewContestHandler(contestService)
		v1.Route("/contests", contestHandler.RegisterRoutes)
	})

	return r
}
