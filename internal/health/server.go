// Package health serves the daemon's liveness and readiness probes and
// the Prometheus scrape endpoint.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wheelz27/sharp-sniper/internal/metrics"
)

// DatabasePinger is the readiness view of the pick store: reachable or
// not. Scans themselves can run without it.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// probeResponse is the JSON body for every probe endpoint. Fields not
// relevant to a given probe stay empty.
type probeResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version,omitempty"`
	Commit  string            `json:"commit,omitempty"`
	Uptime  string            `json:"uptime,omitempty"`
	Sports  []string          `json:"sports,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Config holds the probe server settings.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Sports      []string
	Logger      *logrus.Logger
	DB          DatabasePinger
}

// Server exposes /health, /live, /ready and /metrics for the daemon.
// Readiness flips on once the scheduler is running and off again during
// shutdown so an orchestrator stops routing before jobs drain.
type Server struct {
	cfg       Config
	startedAt time.Time
	server    *http.Server
	logger    *logrus.Logger

	mu    sync.RWMutex
	ready bool
}

// NewServer creates a probe server. Port resolution order: config,
// HEALTH_PORT, 8080.
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = os.Getenv("HEALTH_PORT")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return &Server{
		cfg:       cfg,
		startedAt: time.Now().UTC(),
		logger:    cfg.Logger,
	}
}

// SetReady marks the daemon as ready (or not) for traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady reports the current readiness flag.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves probes in the background until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", metrics.Handler())

	s.server = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"port":    s.cfg.Port,
				"service": s.cfg.ServiceName,
			}).Info("Probe server starting")
		}

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.WithError(err).Error("Probe server error")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown stops the probe server, allowing in-flight scrapes 5 seconds
// to finish.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("Probe server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// handleHealth reports build identity and uptime alongside liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, probeResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
		Commit:  s.cfg.Commit,
		Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
		Sports:  s.cfg.Sports,
	})
}

// handleLive is the minimal liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, probeResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
	})
}

// handleReady checks the readiness flag and, when a pick store is
// wired, database reachability.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)
	healthy := true

	if s.IsReady() {
		checks["scheduler"] = "ok"
	} else {
		healthy = false
		checks["scheduler"] = "not_ready"
	}

	if s.cfg.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := s.cfg.DB.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	body := probeResponse{
		Service: s.cfg.ServiceName,
		Checks:  checks,
	}

	if healthy {
		body.Status = "ok"
		s.writeJSON(w, http.StatusOK, body)
		return
	}
	body.Status = "not_ready"
	s.writeJSON(w, http.StatusServiceUnavailable, body)
}
