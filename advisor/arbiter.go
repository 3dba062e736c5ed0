package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/hand"
	"bridge-lite/internal/logging"
	"bridge-lite/system"
)

// Arbiter holds no per-request state; one instance serves all requests for a
// system.
type Arbiter struct {
	engine   *bidding.Engine
	external External
	logger   *zap.Logger
}

// NewArbiter builds an arbiter. external may be nil, in which case only
// deterministic answers are produced.
func NewArbiter(engine *bidding.Engine, external External, logger *zap.Logger) *Arbiter {
	logger = logging.Or(logger)
	return &Arbiter{engine: engine, external: external, logger: logger}
}

func (a *Arbiter) System() *system.System { return a.engine.System() }

// Recommend returns a call for req.Seat. The deterministic engine answers
// first; the external advisor is asked at most once, and only when the
// engine has no answer or the caller forces it.
func (a *Arbiter) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	if req.Auction == nil {
		return nil, ErrNoAuction
	}
	facts, err := hand.Compute(req.Hand)
	if err != nil {
		return nil, err
	}
	res, err := a.engine.Match(facts, req.Auction, req.Seat)
	if err != nil {
		return nil, err
	}
	analysis := a.analysis(req.Auction)

	if res.Matched() && !req.ForceExternal {
		rec := a.fromResult(res, facts)
		rec.Seat = req.Seat
		rec.AuctionAnalysis = analysis
		a.logger.Debug("deterministic recommendation",
			zap.String("seat", req.Seat.String()),
			zap.String("phase", res.Phase.String()),
			zap.String("call", rec.Bid.String()))
		return rec, nil
	}

	if a.external == nil {
		return nil, &NoRecommendationError{Phase: res.Phase, Status: res.Status, Reason: res.Reason}
	}

	legal := req.Auction.LegalCalls(req.Seat)
	sys := a.engine.System()
	out, err := a.external.Advise(ctx, ExternalRequest{
		SystemName:    sys.Name,
		SystemText:    sys.PromptText(),
		Hand:          req.Hand,
		Facts:         facts,
		Dealer:        req.Auction.Dealer,
		Seat:          req.Seat,
		Vulnerability: req.Vulnerability,
		Auction:       req.Auction.Entries(),
		LegalCalls:    legal,
		EngineNote:    res.Reason,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: external advice: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("advisor: external advice: empty result")
	}

	cand, perr := auction.ParseCall(out.Bid)
	if perr != nil || !req.Auction.IsLegal(req.Seat, cand) {
		a.logger.Warn("external call rejected",
			zap.String("seat", req.Seat.String()),
			zap.String("candidate", out.Bid),
			zap.String("legal", auction.JoinCalls(legal)))
		return nil, &IllegalCallError{Seat: req.Seat, Candidate: out.Bid, Legal: legal}
	}

	if key, _, ok := a.engine.RebidContext(req.Auction, req.Seat); ok && cand.IsBid() &&
		!a.engine.RebidAccepts(facts, key, cand) && res.Matched() && res.Phase == bidding.PhaseRebid {
		rec := a.fromResult(res, facts)
		rec.Seat = req.Seat
		rec.AuctionAnalysis = analysis
		rec.Overridden = true
		rec.Explanation = fmt.Sprintf("%s External suggestion %s does not fit the %s rebid table.", rec.Explanation, cand, key)
		a.logger.Info("external rebid overridden",
			zap.String("sequence", key.String()),
			zap.String("external", cand.String()),
			zap.String("call", rec.Bid.String()))
		return rec, nil
	}

	f := claimFilter{engine: a.engine, auction: req.Auction, seat: req.Seat, call: cand}
	kept, dropped := f.filter(out.AppliedConventions)
	if len(dropped) > 0 {
		a.logger.Info("convention claims dropped",
			zap.String("call", cand.String()),
			zap.Strings("dropped", dropped))
	}

	rec := &Recommendation{
		ID:                 uuid.NewString(),
		Seat:               req.Seat,
		Bid:                cand,
		Explanation:        strings.TrimSpace(out.Explanation),
		AppliedConventions: nonNil(kept),
		ConventionGuidance: f.guidance(out.ConventionGuidance, kept),
		AuctionAnalysis:    analysis,
		Source:             SourceExternal,
		Phase:              res.Phase,
		Note:               res.Reason,
	}
	if rec.ConventionGuidance == nil {
		rec.ConventionGuidance = []Guidance{}
	}
	a.logger.Debug("external recommendation",
		zap.String("seat", req.Seat.String()),
		zap.String("phase", res.Phase.String()),
		zap.String("call", cand.String()))
	return rec, nil
}

func (a *Arbiter) fromResult(res bidding.Result, f hand.Facts) *Recommendation {
	r := res.Rule
	rec := &Recommendation{
		ID:                 uuid.NewString(),
		Bid:                res.Call,
		Explanation:        explain(res, f),
		AppliedConventions: []string{},
		ConventionGuidance: []Guidance{},
		Continuations:      a.engine.Continuations(res),
		Source:             SourceDeterministic,
		Phase:              res.Phase,
	}
	if r != nil && r.Convention != "" {
		name, desc, _ := a.engine.System().Convention(r.Convention)
		rec.AppliedConventions = []string{name}
		rec.ConventionGuidance = []Guidance{{Name: name, WhenToUse: desc, WhyUsedNow: r.TriggerText()}}
	}
	return rec
}

func (a *Arbiter) analysis(au *auction.Auction) []AnalysisEntry {
	meanings := a.engine.Interpret(au)
	out := make([]AnalysisEntry, 0, len(meanings))
	for _, m := range meanings {
		out = append(out, AnalysisEntry{Seat: m.Seat.String(), Call: m.Call.String(), Meaning: m.Meaning})
	}
	return out
}

var phaseLabel = map[bidding.Phase]string{
	bidding.PhaseOpening:  "Opening",
	bidding.PhaseResponse: "Response",
	bidding.PhaseRebid:    "Rebid",
}

func explain(res bidding.Result, f hand.Facts) string {
	what := res.Call.String()
	if res.Rule != nil && res.Rule.Description != "" {
		what = res.Rule.Description
	}
	shape := f.Distribution()
	if f.Balanced {
		shape += " balanced"
	}
	text := fmt.Sprintf("%s %s: %s. Hand: %d HCP, %s.", phaseLabel[res.Phase], res.Call, what, f.HCP, shape)
	if res.HasKey {
		text += " Sequence " + res.Key.String() + "."
	}
	return text
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
