// Package bidding matches a hand and an auction against a system's rule
// tables. The engine is stateless: every call receives the auction and the
// hand facts and returns a fresh result.
package bidding

import (
	"fmt"
	"sort"

	"bridge-lite/auction"
	"bridge-lite/card"
	"bridge-lite/hand"
	"bridge-lite/system"
)

type Engine struct {
	sys *system.System
}

func New(sys *system.System) *Engine {
	return &Engine{sys: sys}
}

func (e *Engine) System() *system.System { return e.sys }

// Match chooses at most one call for seat. It errors only when seat is not
// on turn or the auction is over; "no rule applies" and "opponents
// interfered" are reported through Result.Status.
func (e *Engine) Match(f hand.Facts, a *auction.Auction, seat auction.Seat) (Result, error) {
	if a.Ended() {
		return Result{}, auction.ErrAuctionEnded
	}
	if next := a.NextSeat(); next != seat {
		return Result{}, fmt.Errorf("%w: %s to act, asked for %s", auction.ErrOutOfTurn, next, seat)
	}

	ctx := auction.Analyze(a, seat)
	res := Result{Role: ctx.Role, Phase: phaseOf(ctx)}

	switch {
	case ctx.OpponentsOpened:
		res.Status = StatusNoMatch
		res.Reason = fmt.Sprintf("opponents opened %s; no tables for competitive bidding", ctx.Opening.Call)
		return res, nil
	case ctx.Interference:
		ie := ctx.InterferenceEntry
		res.Status = StatusInterference
		res.Reason = fmt.Sprintf("disabled due to interference: %s by %s after the opening", ie.Call, ie.Seat)
		return res, nil
	}

	switch res.Phase {
	case PhaseOpening:
		e.matchOpening(f, &res)
	case PhaseResponse:
		e.matchResponse(f, ctx.Opening.Call, &res)
	case PhaseRebid:
		e.matchRebid(f, system.SequenceKey{Opening: ctx.Opening.Call, Response: ctx.PartnerCalls[0].Call}, &res)
	default:
		res.Status = StatusNoMatch
		res.Reason = "auction is past the opening, response and rebid tables"
	}

	if res.Matched() && !a.IsLegal(seat, res.Call) {
		res.Status = StatusNoMatch
		res.Reason = fmt.Sprintf("table call %s is not legal here", res.Call)
		res.Rule = nil
	}
	return res, nil
}

func phaseOf(ctx auction.Context) Phase {
	switch {
	case ctx.Opening == nil:
		return PhaseOpening
	case ctx.OpponentsOpened:
		return PhaseCompetitive
	case ctx.Opening.Seat == ctx.Seat.Partner() && len(ctx.OwnCalls) == 0:
		return PhaseResponse
	case ctx.Opening.Seat == ctx.Seat && len(ctx.OwnCalls) == 1 &&
		len(ctx.PartnerCalls) == 1 && ctx.PartnerCalls[0].Call.IsBid():
		return PhaseRebid
	}
	return PhaseUnsupported
}

func (e *Engine) matchOpening(f hand.Facts, res *Result) {
	var matches []system.Rule
	for _, r := range e.sys.Openings {
		if r.Conditions.Match(f, nil) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		res.Status = StatusNoMatch
		res.Reason = "no opening rule matches"
		return
	}
	chosen := pickOpening(matches, f, e.sys.MinorTiebreak)
	res.Status = StatusMatched
	res.Rule = &chosen
	res.Call = chosen.Call
}

// pickOpening applies, in order: the balanced 1NT preference, the minor
// tiebreak when both one-level minors match, then table order.
func pickOpening(matches []system.Rule, f hand.Facts, tb system.MinorTiebreak) system.Rule {
	oneNT := auction.Bid(1, auction.NoTrump)
	for _, r := range matches {
		if r.Call == oneNT && r.Conditions.Balanced != nil && *r.Conditions.Balanced {
			return r
		}
	}

	var clubs, diamonds *system.Rule
	for i := range matches {
		switch matches[i].Call {
		case auction.Bid(1, auction.Clubs):
			clubs = &matches[i]
		case auction.Bid(1, auction.Diamonds):
			diamonds = &matches[i]
		}
	}
	if clubs != nil && diamonds != nil {
		if ChooseMinor(f, tb) == card.Club {
			return *clubs
		}
		return *diamonds
	}
	return matches[0]
}

// ChooseMinor picks the minor to open when both are biddable. Unequal
// lengths open the longer; 3-3 and 4-4 follow the configured mode, where a
// strength tie falls back to clubs at 3-3 and diamonds at 4-4; longer equal
// minors open diamonds.
func ChooseMinor(f hand.Facts, tb system.MinorTiebreak) card.Suit {
	c, d := f.Length(card.Club), f.Length(card.Diamond)
	if c != d {
		if c > d {
			return card.Club
		}
		return card.Diamond
	}

	var mode system.TiebreakMode
	var fallback card.Suit
	switch c {
	case 3:
		mode, fallback = tb.ThreeThree, card.Club
	case 4:
		mode, fallback = tb.FourFour, card.Diamond
	default:
		return card.Diamond
	}

	switch mode {
	case system.TiebreakClubs:
		return card.Club
	case system.TiebreakDiamonds:
		return card.Diamond
	}
	cs, ds := f.SuitStrength(card.Club), f.SuitStrength(card.Diamond)
	switch {
	case cs > ds:
		return card.Club
	case ds > cs:
		return card.Diamond
	}
	return fallback
}

func (e *Engine) matchResponse(f hand.Facts, opening auction.Call, res *Result) {
	res.Key.Opening = opening
	rules := e.sys.ResponsesTo(opening)
	if len(rules) == 0 {
		res.Status = StatusNoMatch
		res.Reason = fmt.Sprintf("no response table for %s", opening)
		return
	}
	sorted := append([]system.Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority < sorted[j].Priority
		}
		return sorted[i].Call.Level < sorted[j].Call.Level
	})

	fit := fitSuit(opening)
	for i := range sorted {
		if sorted[i].Conditions.Match(f, fit) {
			r := sorted[i]
			res.Status = StatusMatched
			res.Rule = &r
			res.Call = r.Call
			return
		}
	}
	res.Status = StatusNoMatch
	res.Reason = fmt.Sprintf("no response to %s matches", opening)
}

func (e *Engine) matchRebid(f hand.Facts, key system.SequenceKey, res *Result) {
	res.Key, res.HasKey = key, true
	rules, ok := e.sys.Rebids(key)
	if !ok || len(rules) == 0 {
		res.Status = StatusNoMatch
		res.Reason = fmt.Sprintf("no rebid table for %s", key)
		return
	}
	fit := fitSuit(key.Response)
	var matches []system.Rule
	for _, r := range rules {
		if r.Conditions.Match(f, fit) {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		res.Status = StatusNoMatch
		res.Reason = fmt.Sprintf("no rebid after %s matches", key)
		return
	}
	sortRebids(matches, key.Response)
	chosen := matches[0]
	res.Status = StatusMatched
	res.Rule = &chosen
	res.Call = chosen.Call
}

// sortRebids orders by declared priority; within a priority, raises of
// partner's suit come first and the cheapest call wins.
func sortRebids(rules []system.Rule, response auction.Call) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		ra, rb := isRaise(a.Call, response), isRaise(b.Call, response)
		if ra != rb {
			return ra
		}
		return callOrder(a.Call) < callOrder(b.Call)
	})
}

func isRaise(c, response auction.Call) bool {
	if !c.IsBid() || response.Strain == auction.NoTrump {
		return false
	}
	return c.Strain == response.Strain && c.Level > response.Level
}

// callOrder puts Pass below every contract call.
func callOrder(c auction.Call) int {
	if !c.IsBid() {
		return -1
	}
	return (c.Level-1)*5 + int(c.Strain)
}

func fitSuit(c auction.Call) *card.Suit {
	if s, ok := c.Strain.Suit(); ok {
		return &s
	}
	return nil
}

// RebidContext reports the opener-rebid structure: seat opened, has made no
// other call, and partner made exactly one contract response for which the
// system has a rebid table.
func (e *Engine) RebidContext(a *auction.Auction, seat auction.Seat) (system.SequenceKey, []system.Rule, bool) {
	ctx := auction.Analyze(a, seat)
	if ctx.Interference || phaseOf(ctx) != PhaseRebid {
		return system.SequenceKey{}, nil, false
	}
	key := system.SequenceKey{Opening: ctx.Opening.Call, Response: ctx.PartnerCalls[0].Call}
	rules, ok := e.sys.Rebids(key)
	if !ok || len(rules) == 0 {
		return key, nil, false
	}
	return key, rules, true
}

// RebidAccepts reports whether the rebid table for key has an entry bidding c
// whose conditions hold for f.
func (e *Engine) RebidAccepts(f hand.Facts, key system.SequenceKey, c auction.Call) bool {
	rules, _ := e.sys.Rebids(key)
	fit := fitSuit(key.Response)
	for _, r := range rules {
		if r.Call == c && r.Conditions.Match(f, fit) {
			return true
		}
	}
	return false
}
