package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/scoutline/scoutline"
	apimiddleware "github.com/scoutline/scoutline/infrastructure/api/middleware"
	v1 "github.com/scoutline/scoutline/infrastructure/api/v1"
	"github.com/scoutline/scoutline/internal/log"
)

// APIServer provides an HTTP API backed by a scoutline Client.
//
// The surface splits three ways: the tokened response endpoints are
// public (the single-use token is the credential), the admin endpoints
// require an X-API-KEY, and the batch endpoints require the scheduler's
// X-Batch-Secret.
type APIServer struct {
	client      *scoutline.Client
	apiKeys     []string
	batchSecret string
	server      *Server
	router      chi.Router
	logger      *log.Logger
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *scoutline.Client, apiKeys []string, batchSecret string) *APIServer {
	return &APIServer{
		client:      client,
		apiKeys:     apiKeys,
		batchSecret: batchSecret,
		logger:      client.Logger(),
	}
}

// mountRoutes wires up all v1 API routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	respondRouter := v1.NewRespondRouter(c)
	introsRouter := v1.NewIntroductionsRouter(c)
	checkinsRouter := v1.NewCheckInsRouter(c)
	flagsRouter := v1.NewFlagsRouter(c)
	placementsRouter := v1.NewPlacementsRouter(c)
	batchRouter := v1.NewBatchRouter(c)

	router.Use(apimiddleware.Logging(a.logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		// Public tokened endpoints. Candidates respond from email links,
		// so these allow cross-origin browser calls. Registered as exact
		// routes so they win over the admin mounts below.
		r.Group(func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Content-Type"},
			}))
			r.Post("/introductions/respond", respondRouter.IntroductionRespond)
			r.Post("/checkins/respond", respondRouter.CheckInRespond)
		})

		// Admin endpoints.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.RequireKey(apimiddleware.NewAuthConfigWithKeys(a.apiKeys)))
			r.Mount("/introductions", introsRouter.Routes())
			r.Mount("/checkins", checkinsRouter.Routes())
			r.Mount("/flags", flagsRouter.Routes())
			r.Mount("/placements", placementsRouter.Routes())
		})

		// Batch endpoints for the external scheduler.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.RequireBatchSecret(a.batchSecret))
			r.Mount("/batch", batchRouter.Routes())
		})
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server
	a.mountRoutes(server.Router())
	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom
// servers and tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.router = chi.NewRouter()
		a.router.Use(chimiddleware.RequestID)
		a.router.Use(chimiddleware.Recoverer)
		a.mountRoutes(a.router)
	}
	return a.router
}
