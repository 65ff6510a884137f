// Package httpapi exposes the controller's command surface over REST.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"wakelightd/internal/effect"
)

// Controller is the command surface the API drives. Implementations must
// serialize calls into the effect scheduler's goroutine.
type Controller interface {
	SetAlarm(hour, minute int) error
	ToggleAlarm(enabled bool)
	ManualOn()
	ManualOff()
	SetBrightness(warm, cool int) error
	SetAutoOff(enabled bool, minutes int) error
	Status() effect.Status
}

// Server is the REST API server.
type Server struct {
	addr       string
	ctrl       Controller
	limiter    *rate.Limiter
	httpServer *http.Server
}

// NewServer creates a new API server.
func NewServer(host string, port int, rateLimitRPS float64, ctrl Controller) *Server {
	return &Server{
		addr:    fmt.Sprintf("%s:%d", host, port),
		ctrl:    ctrl,
		limiter: rate.NewLimiter(rate.Limit(rateLimitRPS), int(rateLimitRPS)),
	}
}

// Run starts the API server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	log.Info().Str("addr", s.addr).Msg("Starting API server")

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("API server shutdown error")
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Handler assembles the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /set-alarm", s.handleSetAlarm)
	mux.HandleFunc("GET /get-alarm", s.handleGetAlarm)
	mux.HandleFunc("POST /toggle-alarm", s.handleToggleAlarm)
	mux.HandleFunc("POST /manual-on", s.handleManualOn)
	mux.HandleFunc("POST /manual-off", s.handleManualOff)
	mux.HandleFunc("POST /set-brightness", s.handleSetBrightness)
	mux.HandleFunc("POST /set-auto-off", s.handleSetAutoOff)
	mux.HandleFunc("GET /get-auto-off", s.handleGetAutoOff)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withRequestLog(s.withCORS(s.withRateLimit(mux)))
}

// withCORS allows browser clients from any origin and answers preflight
// requests, matching the device's open LAN API.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects command bursts beyond the configured rate.
// Read-only endpoints are not limited.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRequestLog tags each request with an ID and logs it.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestID).
			Dur("duration", time.Since(start)).
			Msg("Handled API request")
	})
}
