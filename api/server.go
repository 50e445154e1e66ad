// Package api provides the HTTP trigger boundary for dailybrief.
//
// It exposes a health check and a run trigger; the briefing itself is
// executed by the orchestrator and remains guarded by the daily gate
// regardless of how often the trigger is hit.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/minsukang/dailybrief/internal/config"
	"github.com/minsukang/dailybrief/pkg/models"
	"github.com/minsukang/dailybrief/pkg/utils"
)

// Runner executes one briefing invocation.
type Runner interface {
	Run(ctx context.Context, force bool) models.RunOutcome
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	runner Runner
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, runner Runner) *Server {
	srv := &Server{
		cfg:    cfg,
		runner: runner,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// Run trigger; GET kept for cron services that can only fire GETs.
	r.Get("/run", s.handleRun)
	r.Post("/run", s.handleRun)

	return r
}

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// handleHealth reports liveness. It never touches the gate or the
// orchestrator, so a monitoring probe cannot consume the daily run slot.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":   "ok",
			"time_kst": utils.FormatDateTimeKST(utils.NowKST()),
		},
	})
}

// handleRun triggers a briefing run. Query parameters:
//   - force=true bypasses the once-per-day gate
//   - token must match the configured API token when one is set
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.cfg.API.Token != "" && r.URL.Query().Get("token") != s.cfg.API.Token {
		writeError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	force := r.URL.Query().Get("force") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	outcome := s.runner.Run(ctx, force)

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    outcome,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
