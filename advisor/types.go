// Package advisor arbitrates between the deterministic bidding engine and an
// external advisor, and validates whatever the external side returns.
package advisor

import (
	"context"

	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/card"
	"bridge-lite/hand"
)

type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceExternal      Source = "external"
)

// Guidance explains one convention in play.
type Guidance struct {
	Name       string `json:"name"`
	WhenToUse  string `json:"whenToUse"`
	WhyUsedNow string `json:"whyUsedNow"`
}

// AnalysisEntry is the textual reading of one auction call.
type AnalysisEntry struct {
	Seat    string `json:"seat"`
	Call    string `json:"call"`
	Meaning string `json:"meaning"`
}

// Recommendation is the arbiter's answer. Bid is always legal for the
// acting seat.
type Recommendation struct {
	ID                 string                 `json:"id"`
	Seat               auction.Seat           `json:"seat"`
	Bid                auction.Call           `json:"bid"`
	Explanation        string                 `json:"explanation"`
	AppliedConventions []string               `json:"appliedConventions"`
	ConventionGuidance []Guidance             `json:"conventionGuidance"`
	AuctionAnalysis    []AnalysisEntry        `json:"auctionAnalysis"`
	Continuations      []bidding.Continuation `json:"continuations,omitempty"`
	Source             Source                 `json:"source"`
	Overridden         bool                   `json:"overridden,omitempty"`
	Phase              bidding.Phase          `json:"phase"`
	// Note carries the engine's reason when the external path was taken.
	Note string `json:"note,omitempty"`
}

// Request is one recommendation request. The auction is caller-owned and is
// only read.
type Request struct {
	Hand          []card.Card
	Auction       *auction.Auction
	Seat          auction.Seat
	Vulnerability auction.Vulnerability
	// ForceExternal skips the deterministic answer even when one exists.
	ForceExternal bool
}

// ExternalRequest is everything an external advisor is given.
type ExternalRequest struct {
	SystemName    string
	SystemText    string
	Hand          []card.Card
	Facts         hand.Facts
	Dealer        auction.Seat
	Seat          auction.Seat
	Vulnerability auction.Vulnerability
	Auction       []auction.Entry
	LegalCalls    []auction.Call
	// EngineNote is the engine's reason for not answering, if any.
	EngineNote string
}

// ExternalResult is untrusted; every field is validated before use.
type ExternalResult struct {
	Bid                string          `json:"bid"`
	Explanation        string          `json:"explanation"`
	AppliedConventions []string        `json:"appliedConventions"`
	ConventionGuidance []Guidance      `json:"conventionGuidance"`
	AuctionAnalysis    []AnalysisEntry `json:"auctionAnalysis"`
}

// External is an out-of-process advisor, typically an LLM.
type External interface {
	Advise(ctx context.Context, req ExternalRequest) (*ExternalResult, error)
}
