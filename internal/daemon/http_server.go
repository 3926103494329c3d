package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/sitecomposer/internal/configtree"
	"git.home.luguber.info/inful/sitecomposer/internal/logfields"
	"git.home.luguber.info/inful/sitecomposer/internal/metrics"
)

// HTTPServer is the daemon's admin listener: health, status, metrics and
// the composed documents as JSON.
type HTTPServer struct {
	server *http.Server
	daemon *Daemon
}

// Status is the admin /status payload.
type Status struct {
	StartedAt time.Time `json:"started_at"`
	LastRunID string    `json:"last_run_id,omitempty"`
	LastRunAt time.Time `json:"last_run_at,omitempty"`
	Runs      int       `json:"runs"`
	Locales   []string  `json:"locales,omitempty"`
	Warnings  int       `json:"warnings"`
	Hash      string    `json:"hash,omitempty"`
}

// NewHTTPServer wires the admin routes.
func NewHTTPServer(listen string, d *Daemon) *HTTPServer {
	s := &HTTPServer{daemon: d}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /locales/{locale}", s.handleLocale)
	mux.Handle("GET /metrics", metrics.HTTPHandler(d.Registry()))

	s.server = &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving in the background.
func (s *HTTPServer) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Admin HTTP server failed", logfields.Error(err))
		}
	}()
	slog.Info("Admin HTTP server listening", "addr", s.server.Addr)
	return nil
}

// Stop shuts the listener down gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *HTTPServer) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.daemon.statusSnapshot())
}

func (s *HTTPServer) handleLocale(w http.ResponseWriter, r *http.Request) {
	locale := r.PathValue("locale")
	result := s.daemon.Latest()
	if result == nil {
		http.Error(w, "no composition available yet", http.StatusServiceUnavailable)
		return
	}

	doc, ok := result.Locales[locale]
	if !ok {
		http.Error(w, "unknown locale", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, configtree.ToAny(doc))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("Failed to encode JSON response", logfields.Error(err))
	}
}

// statusSnapshot assembles the admin status payload under the read lock.
func (d *Daemon) statusSnapshot() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := Status{
		StartedAt: d.startTime,
		LastRunID: d.lastRunID,
		LastRunAt: d.lastRunAt,
		Runs:      d.runs,
	}
	if d.latest != nil {
		status.Locales = d.latest.Order
		status.Warnings = len(d.latest.Warnings)
		status.Hash = d.latest.Hash
	}
	return status
}
