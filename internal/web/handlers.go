package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"traceroute-monitor/internal/models"
)

// maxHours is the widest /api/results window that fits in a time.Duration
const maxHours = math.MaxInt64 / int64(time.Hour)

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// handleIndex renders the status page on demand
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	names, err := s.connections()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page, err := s.gen.Generate(r.Context(), names)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// handleConnections handles /api/connections requests
func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	names, err := s.connections()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, names)
}

// handleAverages handles /api/averages requests
func (s *Server) handleAverages(w http.ResponseWriter, r *http.Request) {
	var names []string
	if c := r.URL.Query().Get("connection"); c != "" {
		names = []string{c}
	} else {
		var err error
		if names, err = s.connections(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	summaries := make([]models.ConnectionSummary, 0, len(names))
	for _, name := range names {
		summaries = append(summaries, s.gen.Summary(name))
	}
	s.writeJSON(w, summaries)
}

// handleResults handles /api/results requests
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	hours := int64(24)
	if h := r.URL.Query().Get("hours"); h != "" {
		parsed, err := strconv.ParseInt(h, 10, 64)
		if err != nil || parsed <= 0 {
			http.Error(w, "hours must be a positive integer", http.StatusBadRequest)
			return
		}
		if parsed > maxHours {
			http.Error(w, fmt.Sprintf("hours must not exceed %d", maxHours), http.StatusBadRequest)
			return
		}
		hours = parsed
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	results, err := s.db.GetRecent(since, r.URL.Query().Get("connection"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, results)
}
