package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"bridge-lite/internal/logging"
)

type HTTPHandler struct {
	ledger       Service
	defaultLimit int
	logger       *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(ledgerService Service, defaultLimit int, logger *zap.Logger) *HTTPHandler {
	logger = logging.Or(logger)
	return &HTTPHandler{
		ledger:       ledgerService,
		defaultLimit: clampLimit(defaultLimit),
		logger:       logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ledger/recent", h.handleRecent)
	mux.HandleFunc("/api/ledger/records/", h.handleRecord)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), h.defaultLimit)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListRecent(ctx, limit)
	if err != nil {
		h.logger.Warn("list recent failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query recent recommendations failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

// handleRecord returns one record with its decoded recommendation.
func (h *HTTPHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/ledger/records/"))
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	rec, err := h.ledger.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "recommendation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "query recommendation failed")
		return
	}
	decoded, err := rec.Recommendation()
	if err != nil {
		h.logger.Warn("decode payload failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "decode recommendation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record":         rec,
		"recommendation": decoded,
	})
}

func parseLimit(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return clampLimit(n)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
