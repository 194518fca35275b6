package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"glossary-backend/application/ports"
	"glossary-backend/infrastructure/config"
	"glossary-backend/infrastructure/openai"
	"glossary-backend/infrastructure/persistence"
	"glossary-backend/interfaces/http/rest/handlers"
	"glossary-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the Glossary API HTTP router.
type Router struct {
	cfg    *config.Config
	store  ports.TermStore
	mode   persistence.Mode
	ai     openai.Client
	logger *zap.Logger
}

// NewRouter creates a new router instance.
func NewRouter(
	cfg *config.Config,
	store ports.TermStore,
	mode persistence.Mode,
	ai openai.Client,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:    cfg,
		store:  store,
		mode:   mode,
		ai:     ai,
		logger: logger,
	}
}

// Setup configures all routes and middleware.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		// The API is only reachable through the gateway in production;
		// an open policy keeps direct development access working.
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.Route("/api", func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(rt.cfg, rt.mode, rt.logger)
		r.Get("/health", healthHandler.Health)

		termHandler := handlers.NewTermHandler(rt.store, rt.logger)
		r.Route("/terms", func(r chi.Router) {
			r.Get("/", termHandler.ListTerms)
			r.Post("/", termHandler.CreateTerm)
			r.Get("/{id}", termHandler.GetTerm)
			r.Put("/{id}", termHandler.UpdateTerm)
			r.Delete("/{id}", termHandler.DeleteTerm)
		})
		r.Get("/search", termHandler.SearchTerms)

		aiHandler := handlers.NewAIHandler(rt.ai, rt.cfg, rt.logger)
		r.Group(func(r chi.Router) {
			// Refill is spread evenly across the minute.
			r.Use(middleware.RateLimit(rt.cfg.AIRateLimit, time.Minute/time.Duration(max(rt.cfg.AIRateLimit, 1)), rt.logger))
			r.Post("/ai-request", aiHandler.GenerateExplanation)
			r.Post("/explain-term", aiHandler.ExplainTerm)
		})
	})

	// Unknown routes get a structured body instead of the default text.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"NotFound","message":"Route not found"}`))
	})

	return router
}
