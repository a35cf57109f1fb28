package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tldread/tldr-bot/internal/biz/domain"
	"github.com/tldread/tldr-bot/internal/biz/repo"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "logserver_requests_total",
		Help: "Requests served by the audit-log API, by endpoint.",
	},
	[]string{"endpoint"},
)

// Server provides the read-only HTTP API and dashboard over the audit log
type Server struct {
	reader repo.AuditReader
	server *http.Server
	port   int
}

// NewServer creates a new API server
func NewServer(reader repo.AuditReader, port int) *Server {
	return &Server{
		reader: reader,
		port:   port,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/logs", s.withCORS("logs", s.handleLogs))
	mux.HandleFunc("/api/logs/", s.withCORS("logs_filtered", s.handleLogsSub))
	mux.HandleFunc("/api", s.withCORS("index", s.handleIndex))
	mux.HandleFunc("/api/", s.withCORS("index", s.handleIndex))

	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/dashboard", s.handleDashboard)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: mux,
	}

	fmt.Printf("[API] Starting audit-log server on port %d\n", s.port)
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Shutdown(context.Background())
	}
	return nil
}

// withCORS opens the endpoint to any origin and counts the request.
// The read API carries no authentication.
func (s *Server) withCORS(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		requestsTotal.WithLabelValues(endpoint).Inc()
		next(w, r)
	}
}

// handleLogs serves all records plus aggregate stats
func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs, stats, err := s.reader.All(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"logs":  emptyIfNil(logs),
		"stats": stats,
	})
}

// handleLogsSub routes /api/logs/recent/{n}, /api/logs/events/{name}
// and /api/logs/user/{id}
func (s *Server) handleLogsSub(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/logs/")
	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	ctx := r.Context()

	switch parts[0] {
	case "recent":
		limit, err := strconv.Atoi(parts[1])
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		logs, err := s.reader.Recent(ctx, limit)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, map[string]interface{}{"logs": emptyIfNil(logs)})

	case "events":
		logs, err := s.reader.ByEvent(ctx, parts[1])
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, map[string]interface{}{"logs": emptyIfNil(logs)})

	case "user":
		userID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			http.Error(w, "invalid user id", http.StatusBadRequest)
			return
		}
		logs, err := s.reader.ByUser(ctx, userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, map[string]interface{}{"logs": emptyIfNil(logs)})

	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleIndex serves the machine-readable endpoint listing
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api" && r.URL.Path != "/api/" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"message": "TL;DR Bot Logs API",
		"version": "1.0.0",
		"endpoints": []string{
			"GET /api/logs - Get all logs with stats",
			"GET /api/logs/recent/<limit> - Get recent logs",
			"GET /api/logs/events/<event_type> - Get logs by event type",
			"GET /api/logs/user/<user_id> - Get logs by user ID",
			"GET /dashboard - View HTML dashboard",
			"GET /metrics - Prometheus metrics",
		},
	})
}

// handleDashboard serves the embedded HTML dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/dashboard" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	requestsTotal.WithLabelValues("dashboard").Inc()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(dashboardHTML)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func emptyIfNil(logs []domain.AuditEvent) []domain.AuditEvent {
	if logs == nil {
		return []domain.AuditEvent{}
	}
	return logs
}
