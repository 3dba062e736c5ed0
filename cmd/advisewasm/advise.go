//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"

	"bridge-lite/advisor"
	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/session"
	"bridge-lite/system"
)

const defaultSystem = "sayc"

type adviseRequest struct {
	Spec session.Spec `json:"spec"`
}

type adviseResponse struct {
	OK             bool                    `json:"ok"`
	Recommendation *advisor.Recommendation `json:"recommendation,omitempty"`
	// NoMatch is set when the tables have no answer; the browser may then
	// ask the server's external advisor.
	NoMatch *noMatch              `json:"noMatch,omitempty"`
	Error   *session.SessionError `json:"error,omitempty"`
}

type noMatch struct {
	Phase  bidding.Phase `json:"phase"`
	Status string        `json:"status"`
	Reason string        `json:"reason"`
}

type legalResponse struct {
	OK             bool                  `json:"ok"`
	Ended          bool                  `json:"ended"`
	NextSeat       *auction.Seat         `json:"nextSeat,omitempty"`
	LegalCalls     []auction.Call        `json:"legalCalls,omitempty"`
	Interpretation []bidding.Meaning     `json:"interpretation,omitempty"`
	Error          *session.SessionError `json:"error,omitempty"`
}

func newRegistry() (*system.Registry, error) {
	return system.NewRegistry(system.DefaultCacheSize)
}

func handleAdvise(registry *system.Registry, raw string) adviseResponse {
	var req adviseRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return adviseResponse{Error: &session.SessionError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()}}
	}
	s, err := session.Normalize(req.Spec, defaultSystem)
	if err != nil {
		return adviseResponse{Error: asSessionError(err, "invalid_spec")}
	}
	sys, err := registry.Get(s.System)
	if err != nil {
		return adviseResponse{Error: asSessionError(err, "invalid_system")}
	}

	arbiter := advisor.NewArbiter(bidding.New(sys), nil, nil)
	rec, err := arbiter.Recommend(context.Background(), s.Request(false))
	if err != nil {
		var noRec *advisor.NoRecommendationError
		if errors.As(err, &noRec) {
			return adviseResponse{OK: true, NoMatch: &noMatch{Phase: noRec.Phase, Status: noRec.Status.String(), Reason: noRec.Reason}}
		}
		return adviseResponse{Error: asSessionError(err, "advise_failed")}
	}
	return adviseResponse{OK: true, Recommendation: rec}
}

func handleLegal(registry *system.Registry, raw string) legalResponse {
	var req adviseRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return legalResponse{Error: &session.SessionError{StepIndex: -1, Reason: "invalid_json", Message: err.Error()}}
	}
	if req.Spec.Seat == "" {
		req.Spec.Seat = auction.North.String()
	}
	s, err := session.Normalize(req.Spec, defaultSystem)
	if err != nil {
		return legalResponse{Error: asSessionError(err, "invalid_spec")}
	}
	sys, err := registry.Get(s.System)
	if err != nil {
		return legalResponse{Error: asSessionError(err, "invalid_system")}
	}
	resp := legalResponse{
		OK:             true,
		Ended:          s.Auction.Ended(),
		Interpretation: bidding.New(sys).Interpret(s.Auction),
	}
	if !resp.Ended {
		next := s.Auction.NextSeat()
		resp.NextSeat = &next
		resp.LegalCalls = s.Auction.LegalCalls(next)
	}
	return resp
}

func asSessionError(err error, reason string) *session.SessionError {
	var sessErr *session.SessionError
	if errors.As(err, &sessErr) {
		return sessErr
	}
	return &session.SessionError{StepIndex: -1, Reason: reason, Message: err.Error()}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		fallback := adviseResponse{
			Error: &session.SessionError{StepIndex: -1, Reason: "marshal_failed", Message: err.Error()},
		}
		b2, _ := json.Marshal(fallback)
		return string(b2)
	}
	return string(b)
}
