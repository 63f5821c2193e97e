package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/reviewpilot/reviewpilot/internal/api/handlers"
	"github.com/reviewpilot/reviewpilot/internal/api/middleware"
	"github.com/reviewpilot/reviewpilot/internal/auth"
	"github.com/reviewpilot/reviewpilot/internal/database/models"
	"github.com/reviewpilot/reviewpilot/internal/responder"
	"github.com/reviewpilot/reviewpilot/internal/sentiment"
	"github.com/reviewpilot/reviewpilot/internal/tenant"
	"github.com/reviewpilot/reviewpilot/pkg/config"
	"github.com/reviewpilot/reviewpilot/pkg/crypto"
	"gorm.io/gorm"
)

// RouterConfig carries every dependency the HTTP surface needs. Redis is
// optional; without it the rate limiter is skipped (tests run this way).
type RouterConfig struct {
	DB        *gorm.DB
	Logger    *slog.Logger
	Config    *config.Config
	Auth      auth.Authenticator
	JWT       auth.TokenService
	Tenants   *tenant.Service
	Generator responder.Generator
	Analyzer  *sentiment.Analyzer
	Encryptor *crypto.Encryptor
	Queue     *asynq.Client
	Redis     *redis.Client
}

func NewRouter(rc RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rc.Logger))
	r.Use(middleware.Logging(rc.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if rc.Redis != nil {
		r.Use(middleware.RateLimit(rc.Redis, &rc.Config.RateLimit))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	authHandler := handlers.NewAuthHandler(rc.Auth, rc.Tenants, rc.Logger, rc.Config.JWT.Expiry(), rc.Config.Server.IsProduction())
	reviewHandler := handlers.NewReviewHandler(rc.DB, rc.Auth, rc.Tenants, rc.Logger)
	aiHandler := handlers.NewAIHandler(rc.DB, rc.Auth, rc.Tenants, rc.Generator, rc.Analyzer, rc.Queue, rc.Logger)
	dashboardHandler := handlers.NewDashboardHandler(rc.DB, rc.Auth, rc.Tenants, rc.Logger)
	connectionHandler := handlers.NewConnectionHandler(rc.DB, rc.Auth, rc.Tenants, rc.Encryptor, rc.Queue, &rc.Config.OAuth, rc.Logger)
	importHandler := handlers.NewImportHandler(rc.DB, rc.Auth, rc.Tenants, rc.Analyzer, rc.Logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(rc.DB, rc.Auth, rc.Tenants, rc.Logger)
	adminHandler := handlers.NewAdminHandler(rc.DB, rc.Logger)
	seedHandler := handlers.NewSeedHandler(rc.DB, rc.Auth, rc.Tenants, rc.Analyzer, &rc.Config.Server, rc.Logger)
	healthHandler := handlers.NewHealthHandler(rc.DB)

	// Public routes
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rc.JWT))

			r.Get("/me", authHandler.Me)

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviewHandler.List)
				r.Post("/", reviewHandler.Create)
				r.Get("/{id}", reviewHandler.Get)
				r.Patch("/{id}", reviewHandler.Update)
				r.Delete("/{id}", reviewHandler.Delete)
			})

			r.Route("/ai", func(r chi.Router) {
				r.Post("/respond", aiHandler.GenerateResponse)
				r.Post("/sentiment", aiHandler.AnalyzeSentiment)
				r.Post("/sentiment/batch", aiHandler.EnqueueSentimentBatch)
			})

			r.Get("/dashboard/stats", dashboardHandler.Stats)
			r.Get("/subscription", subscriptionHandler.Get)

			r.Route("/connections", func(r chi.Router) {
				r.Get("/", connectionHandler.List)
				r.Post("/", connectionHandler.Create)
				r.Delete("/{id}", connectionHandler.Delete)
				r.Get("/{id}/oauth-url", connectionHandler.OAuthURL)
				r.Post("/{id}/sync", connectionHandler.Sync)
				r.Post("/{id}/schedules", connectionHandler.CreateSchedule)
			})

			r.Post("/import/csv", importHandler.ImportCSV)
			r.Post("/seed", seedHandler.Seed)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rc.JWT))
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Get("/admin/users", adminHandler.ListUsers)
		})
	})

	return r
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
