package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"bridge-lite/advisor"
	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/card"
	"bridge-lite/hand"
	"bridge-lite/internal/logging"
	"bridge-lite/session"
	"bridge-lite/system"
)

const maxImageBytes = 8 << 20

type HTTPHandler struct {
	rec           *Recommender
	recognizer    Recognizer
	defaultSystem string
	logger        *zap.Logger
}

type errorResponse struct {
	Error   string                  `json:"error"`
	Session *session.SessionError   `json:"session,omitempty"`
	Legal   []auction.Call          `json:"legalCalls,omitempty"`
	Engine  *noRecommendationDetail `json:"engine,omitempty"`
}

type noRecommendationDetail struct {
	Phase  bidding.Phase `json:"phase"`
	Status string        `json:"status"`
	Reason string        `json:"reason"`
}

type recommendRequest struct {
	session.Spec
	ForceExternal bool `json:"forceExternal,omitempty"`
}

type legalCallsResponse struct {
	Ended          bool              `json:"ended"`
	NextSeat       *auction.Seat     `json:"nextSeat,omitempty"`
	LegalCalls     []auction.Call    `json:"legalCalls"`
	Interpretation []bidding.Meaning `json:"interpretation"`
}

type systemInfo struct {
	Name          string   `json:"name"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	MinorTiebreak string   `json:"minorTiebreak"`
	Conventions   []string `json:"conventions"`
}

// NewHTTPHandler wires the handlers. recognizer may be nil.
func NewHTTPHandler(rec *Recommender, recognizer Recognizer, defaultSystem string, logger *zap.Logger) *HTTPHandler {
	logger = logging.Or(logger)
	return &HTTPHandler{
		rec:           rec,
		recognizer:    recognizer,
		defaultSystem: defaultSystem,
		logger:        logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/recommend", h.handleRecommend)
	mux.HandleFunc("/api/legal-calls", h.handleLegalCalls)
	mux.HandleFunc("/api/recognize", h.handleRecognize)
	mux.HandleFunc("/api/systems", h.handleSystems)
}

func (h *HTTPHandler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req recommendRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s, err := session.Normalize(req.Spec, h.defaultSystem)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	rec, err := h.rec.Recommend(r.Context(), s, req.ForceExternal)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) handleLegalCalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var spec session.Spec
	if !decodeBody(w, r, &spec) {
		return
	}
	// The acting seat is implied by the auction, so a missing seat is fine.
	if strings.TrimSpace(spec.Seat) == "" {
		spec.Seat = auction.North.String()
	}
	s, err := session.Normalize(spec, h.defaultSystem)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	engine, err := h.rec.Engine(s.System)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	resp := legalCallsResponse{
		Ended:          s.Auction.Ended(),
		LegalCalls:     []auction.Call{},
		Interpretation: engine.Interpret(s.Auction),
	}
	if !resp.Ended {
		next := s.Auction.NextSeat()
		resp.NextSeat = &next
		resp.LegalCalls = s.Auction.LegalCalls(next)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRecognize takes the raw image as the request body.
func (h *HTTPHandler) handleRecognize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.recognizer == nil {
		writeError(w, http.StatusServiceUnavailable, "card recognition is not configured")
		return
	}
	mimeType := strings.TrimSpace(strings.Split(r.Header.Get("Content-Type"), ";")[0])
	if !strings.HasPrefix(mimeType, "image/") {
		writeError(w, http.StatusUnsupportedMediaType, "expected an image body")
		return
	}
	image, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImageBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()
	cards, err := h.recognizer.Recognize(ctx, image, mimeType)
	if err != nil {
		h.logger.Warn("recognize failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "card recognition failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cards":    card.Codes(cards),
		"complete": len(cards) == card.HandSize,
	})
}

func (h *HTTPHandler) handleSystems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	systems := h.rec.Systems()
	items := make([]systemInfo, 0, len(systems))
	for _, sys := range systems {
		items = append(items, systemInfo{
			Name:          sys.Name,
			Title:         sys.Title,
			Description:   sys.Description,
			MinorTiebreak: fmt.Sprintf("3-3 %s, 4-4 %s", sys.MinorTiebreak.ThreeThree, sys.MinorTiebreak.FourFour),
			Conventions:   conventionNames(sys),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default":  h.defaultSystem,
		"external": h.rec.ExternalEnabled(),
		"items":    items,
	})
}

func conventionNames(sys *system.System) []string {
	out := make([]string, 0, len(sys.Conventions))
	for name := range sys.Conventions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// writeDomainError maps engine and session errors to HTTP statuses.
func (h *HTTPHandler) writeDomainError(w http.ResponseWriter, err error) {
	var sessErr *session.SessionError
	var illegal *advisor.IllegalCallError
	var noRec *advisor.NoRecommendationError
	switch {
	case errors.As(err, &sessErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: sessErr.Message, Session: sessErr})
	case errors.Is(err, system.ErrUnknownSystem):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, hand.ErrMalformedHand):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auction.ErrAuctionEnded), errors.Is(err, auction.ErrOutOfTurn):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &noRec):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "no recommendation",
			Engine: &noRecommendationDetail{Phase: noRec.Phase, Status: noRec.Status.String(), Reason: noRec.Reason},
		})
	case errors.As(err, &illegal):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: illegal.Error(), Legal: illegal.Legal})
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "external advisor timed out")
	default:
		h.logger.Warn("recommend failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "external advisor failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
