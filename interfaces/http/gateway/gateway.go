// Package gateway is the single externally reachable surface: static
// assets, SPA fallback, and transparent forwarding of /api traffic to the
// internal Glossary API process.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"glossary-backend/interfaces/http/rest/middleware"
	"glossary-backend/pkg/utils"
)

// Gateway multiplexes static serving and API forwarding on one listener
// so only one port needs to be exposed.
type Gateway struct {
	apiTarget *url.URL
	staticDir string
	proxy     *httputil.ReverseProxy
	logger    *zap.Logger
}

// New builds a gateway that forwards /api paths to apiURL and serves
// files from staticDir.
func New(apiURL, staticDir string, logger *zap.Logger) (*Gateway, error) {
	target, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("parse api target %q: %w", apiURL, err)
	}

	g := &Gateway{
		apiTarget: target,
		staticDir: staticDir,
		logger:    logger,
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	baseDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		baseDirector(req)
		// The backend routes under /api; if a mux in front of the proxy
		// stripped the prefix, every forwarded call would 404, so
		// re-attach it before dispatch.
		if !strings.HasPrefix(req.URL.Path, "/api") {
			req.URL.Path = "/api" + req.URL.Path
		}
		logger.Debug("Forwarding to API",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		)
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Error("API forwarding failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"BadGateway","message":"API backend unavailable"}`))
	}
	g.proxy = proxy

	return g, nil
}

// Handler assembles the gateway routes.
func (g *Gateway) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(g.logger))

	// Liveness independent of the API's own health endpoint.
	router.Get("/health", g.health)

	// The proxy owns the whole /api subtree; backend status codes pass
	// through untouched.
	router.Handle("/api", g.proxy)
	router.Handle("/api/*", g.proxy)

	// Everything else is a static asset or a client-routed page.
	router.NotFound(g.serveStatic)

	return router
}

type healthResponse struct {
	Status    string `json:"status"`
	Gateway   bool   `json:"gateway"`
	Timestamp string `json:"timestamp"`
}

func (g *Gateway) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(healthResponse{
		Status:    "ok",
		Gateway:   true,
		Timestamp: utils.NowRFC3339(),
	}); err != nil {
		g.logger.Error("Failed to encode health response", zap.Error(err))
	}
}

// serveStatic serves an existing file, or the single-page entry document
// for client-side routes. API-prefixed paths never fall through to the
// document.
func (g *Gateway) serveStatic(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"NotFound"}`))
		return
	}

	path := filepath.Join(g.staticDir, filepath.Clean("/"+r.URL.Path))
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		http.ServeFile(w, r, path)
		return
	}

	http.ServeFile(w, r, filepath.Join(g.staticDir, "index.html"))
}
