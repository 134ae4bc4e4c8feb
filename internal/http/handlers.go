package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"bilancio/internal/core"
)

// handlerTimeout bounds one analysis pass behind a request.
const handlerTimeout = 15 * time.Second

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	today, err := analysisDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	if snapshot, ok := s.snapshotCache.Get(today.ISO()); ok {
		writeJSON(w, http.StatusOK, snapshot)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	snapshot, err := s.provider.Snapshot(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "Dashboard snapshot failed", "error", err, "date", today.ISO())
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	s.snapshotCache.Set(today.ISO(), snapshot)
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	today, err := analysisDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	alerts, err := s.provider.GenerateAllAlerts(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "Alert generation failed", "error", err, "date", today.ISO())
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	// An empty pass still renders as a list, not null.
	if alerts == nil {
		alerts = []core.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

func (s *Server) handleAlertsSummary(w http.ResponseWriter, r *http.Request) {
	today, err := analysisDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
	defer cancel()

	summary, err := s.provider.AlertsSummary(ctx, today)
	if err != nil {
		slog.ErrorContext(ctx, "Alerts summary failed", "error", err, "date", today.ISO())
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
