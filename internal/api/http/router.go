package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	auth "github.com/mind-engage/mindengage-batches/internal/auth/middleware"
	"github.com/mind-engage/mindengage-batches/internal/rbac"
	"github.com/mind-engage/mindengage-batches/internal/storage"
	"github.com/mind-engage/mindengage-batches/internal/topics"
)

type RouterConfig struct {
	Auth            *auth.AuthService
	Accounts        auth.Accounts
	EnableLocalAuth bool
	CORSOrigins     []string

	Plans      PlanHandlers
	TopicStore topics.Store
	Blobs      storage.BlobStore
	Runs       RunLister // mounted at /runs when set

	Metrics http.Handler                // mounted at /metrics when set
	Ready   func(context.Context) error // backs /readyz when set
}

func NewRouter(c RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if c.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(c.Auth, c.Accounts))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if c.Ready != nil {
			if err := c.Ready(r.Context()); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	if c.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", c.Metrics)
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(c.Auth))

		pr.With(rbac.Require("topics:view")).
			Get("/topics", ListTopicsHandler(c.Plans.Topics))
		if c.TopicStore != nil {
			pr.With(rbac.Require("topics:manage")).
				Put("/topics", ReplaceTopicsHandler(c.TopicStore))
		}

		pr.With(rbac.Require("plan:create")).
			Post("/plans", c.Plans.Create())
		pr.Route("/plans/{planID}", func(pl chi.Router) {
			pl.With(rbac.RequireAny("plan:view", "plan:export")).Get("/", c.Plans.Get())
			pl.With(rbac.Require("plan:export")).Get("/assignments.csv", c.Plans.AssignmentsCSV())
			pl.With(rbac.Require("plan:export")).Get("/batches.zip", c.Plans.BatchesZip())
			pl.With(rbac.Require("plan:export")).Get("/batches.xlsx", c.Plans.BatchesXLSX())
		})

		if c.Runs != nil {
			pr.With(rbac.Require("runs:view")).
				Get("/runs", ListRunsHandler(c.Runs))
		}

		if c.Blobs != nil {
			pr.Route("/artifacts", func(ar chi.Router) {
				ar.Use(rbac.Require("plan:export"))
				MountArtifacts(ar, c.Blobs)
			})
		}
	})

	return r
}
