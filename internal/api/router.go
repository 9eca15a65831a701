// Package api serves the simulation's health, status and metrics over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/simulation"
)

// StatusSource provides the last completed step.
type StatusSource interface {
	Latest() (simulation.StepReport, bool)
}

// RouterConfig holds the dependencies of NewRouter.
type RouterConfig struct {
	Status   StatusSource
	Gatherer prometheus.Gatherer // nil uses prometheus.DefaultGatherer

	// RequestsPerSecond and Burst bound the whole server; 0 disables limiting.
	RequestsPerSecond float64
	Burst             int

	CORSOrigins []string // nil allows localhost only

	// DisableLogging disables the request logger middleware (useful in tests).
	DisableLogging bool
}

// StatusResponse is the JSON body of GET /status.
type StatusResponse struct {
	Ready     bool                   `json:"ready"`
	Status    string                 `json:"status"`
	Elapsed   string                 `json:"elapsed"`
	Report    *simulation.StepReport `json:"report,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewRouter builds the observability router:
//
//	GET /healthz  liveness
//	GET /status   last step report as JSON
//	GET /metrics  Prometheus exposition
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	if cfg.RequestsPerSecond > 0 {
		r.Use(rateLimit(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1))))
	}

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/status", statusHandler(cfg.Status))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func statusHandler(src StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{Timestamp: time.Now().UTC()}
		if src != nil {
			if rep, ok := src.Latest(); ok {
				resp.Ready = true
				resp.Status = rep.Mode.Status()
				resp.Elapsed = rep.ElapsedText()
				resp.Report = &rep
			}
		}
		if !resp.Ready {
			resp.Status = "waiting for first step"
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// rateLimit rejects requests beyond the shared limiter's budget with 429.
func rateLimit(l *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
