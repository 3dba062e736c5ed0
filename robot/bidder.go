// Package robot fills the seats a practising player does not sit in:
// opponents pass, partner bids from the system tables.
package robot

import (
	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/card"
	"bridge-lite/hand"
)

// View is a read-only projection of the board visible to one robot seat.
type View struct {
	Seat       auction.Seat
	Hand       []card.Card
	Auction    *auction.Auction
	LegalCalls []auction.Call
}

// Bidder is implemented by every robot type.
type Bidder interface {
	// Decide is called when it's the robot's turn.
	Decide(view View) auction.Call
	// Name returns a human-readable identifier for logs.
	Name() string
}

// PassBidder always passes.
type PassBidder struct{}

func (PassBidder) Decide(View) auction.Call { return auction.Pass }

func (PassBidder) Name() string { return "pass" }

// SystemBidder follows the deterministic engine and passes whenever the
// tables have nothing to say.
type SystemBidder struct {
	engine *bidding.Engine
}

func NewSystemBidder(engine *bidding.Engine) *SystemBidder {
	return &SystemBidder{engine: engine}
}

func (b *SystemBidder) Decide(view View) auction.Call {
	f, err := hand.Compute(view.Hand)
	if err != nil {
		return auction.Pass
	}
	res, err := b.engine.Match(f, view.Auction, view.Seat)
	if err != nil || !res.Matched() {
		return auction.Pass
	}
	return res.Call
}

func (b *SystemBidder) Name() string { return "system:" + b.engine.System().Name }
