package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	genai "google.golang.org/genai"

	"bridge-lite/advisor"
	"bridge-lite/auction"
	"bridge-lite/card"
	"bridge-lite/internal/logging"
)

const advisePrompt = `You are a contract bridge bidding assistant.
Recommend exactly one call for the seat to act, following the bidding system below.

Return ONLY strict JSON in this format:
{
  "auctionAnalysis": [{"seat": "N", "call": "1NT", "meaning": "15-17 balanced"}],
  "appliedConventions": ["Stayman"],
  "conventionGuidance": [{"name": "Stayman", "whenToUse": "...", "whyUsedNow": "..."}],
  "bid": "2C",
  "explanation": "..."
}

Rules:
- "bid" must be one of the LEGAL CALLS listed below, written as Pass, X, XX or level+strain (1C..7NT).
- Only name conventions from the system's CONVENTIONS section.
- No extra text.`

// Advisor asks a Generator for a call. It implements advisor.External.
type Advisor struct {
	gen    Generator
	logger *zap.Logger
}

func NewAdvisor(gen Generator, logger *zap.Logger) *Advisor {
	logger = logging.Or(logger)
	return &Advisor{gen: gen, logger: logger}
}

var _ advisor.External = (*Advisor)(nil)

func (a *Advisor) Advise(ctx context.Context, req advisor.ExternalRequest) (*advisor.ExternalResult, error) {
	prompt := BuildAdvicePrompt(req)
	raw, err := a.gen.GenerateJSON(ctx, []*genai.Part{{Text: prompt}})
	if err != nil {
		return nil, fmt.Errorf("llm: %s: %w", a.gen.Name(), err)
	}
	var out advisor.ExternalResult
	if err := decode(raw, &out); err != nil {
		a.logger.Warn("undecodable advice", zap.String("model", a.gen.Name()), zap.Int("bytes", len(raw)))
		return nil, err
	}
	out.Bid = strings.TrimSpace(out.Bid)
	a.logger.Debug("advice received", zap.String("model", a.gen.Name()), zap.String("bid", out.Bid))
	return &out, nil
}

// BuildAdvicePrompt renders the full prompt text for one request.
func BuildAdvicePrompt(req advisor.ExternalRequest) string {
	var b strings.Builder
	b.WriteString(advisePrompt)
	b.WriteString("\n\n")
	b.WriteString(req.SystemText)

	b.WriteString("\n\nBOARD\n")
	fmt.Fprintf(&b, "Dealer: %s\n", req.Dealer)
	fmt.Fprintf(&b, "Vulnerability: %s\n", req.Vulnerability)
	fmt.Fprintf(&b, "Seat to act: %s (%s)\n", req.Seat, vulText(req.Vulnerability, req.Seat))
	fmt.Fprintf(&b, "Hand: %s\n", strings.Join(card.Codes(req.Hand), " "))
	f := req.Facts
	fmt.Fprintf(&b, "HCP: %d, shape %s (S-H-D-C %s)", f.HCP, f.Shape, f.Distribution())
	if f.Balanced {
		b.WriteString(", balanced")
	}
	b.WriteString("\n")

	b.WriteString("\nAUCTION\n")
	if len(req.Auction) == 0 {
		b.WriteString("(no calls yet)\n")
	}
	for _, e := range req.Auction {
		fmt.Fprintf(&b, "%d. %s %s\n", e.Index+1, e.Seat, e.Call)
	}

	fmt.Fprintf(&b, "\nLEGAL CALLS: %s\n", auction.JoinCalls(req.LegalCalls))
	if req.EngineNote != "" {
		fmt.Fprintf(&b, "ENGINE NOTE: %s\n", req.EngineNote)
	}
	return b.String()
}

func vulText(v auction.Vulnerability, seat auction.Seat) string {
	if v.Vulnerable(seat) {
		return "vulnerable"
	}
	return "not vulnerable"
}
