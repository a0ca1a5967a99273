package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/mileapp-task-api/internal/middleware"
	"github.com/BuzzLyutic/mileapp-task-api/internal/service"
	"github.com/BuzzLyutic/mileapp-task-api/pkg/respond"
)

const apiVersion = "1.0.0"

// RouterDeps - всё, что нужно для сборки HTTP-слоя.
type RouterDeps struct {
	Auth        *service.AuthService
	Tasks       *service.TaskService
	Verifier    middleware.TokenVerifier
	Limiter     *middleware.RateLimiter // nil - без ограничения
	CORSOrigins []string
	Logger      *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	authHandler := NewAuthHandler(deps.Auth, deps.Logger)
	taskHandler := NewTaskHandler(deps.Tasks, deps.Logger)
	gate := middleware.Authenticate(deps.Verifier)

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]any{
			"success": true,
			"message": "Welcome to MileApp API",
			"version": apiVersion,
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if deps.Limiter != nil {
				r.Use(deps.Limiter.Middleware)
			}
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
		})
		r.With(gate).Get("/me", authHandler.Me)
	})

	r.Route("/api/tasks", func(r chi.Router) {
		r.Use(gate)
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
		r.Get("/stats", taskHandler.Stats)
		r.Get("/{id}", taskHandler.Get)
		r.Put("/{id}", taskHandler.Update)
		r.Delete("/{id}", taskHandler.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
