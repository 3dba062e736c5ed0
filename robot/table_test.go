package robot

import (
	"testing"

	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/card"
	"bridge-lite/system"
)

func engine(t *testing.T) *bidding.Engine {
	t.Helper()
	reg, err := system.NewRegistry(system.DefaultCacheSize)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	sys, err := reg.Get("sayc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return bidding.New(sys)
}

func mustHand(t *testing.T, raw string) []card.Card {
	t.Helper()
	cards, err := card.ParseHandString(raw)
	if err != nil {
		t.Fatalf("parse hand: %v", err)
	}
	return cards
}

type fixedBidder struct{ call auction.Call }

func (b fixedBidder) Decide(View) auction.Call { return b.call }
func (b fixedBidder) Name() string { return "fixed" }

func TestAutoAdvanceStopsAtHumanSeat(t *testing.T) {
	e := engine(t)
	tbl := NewTable(nil)
	tbl.Sit(auction.North, mustHand(t, "AS KS QS 4S KH 7H 3H QD 8D 5D KC 9C 2C"), NewSystemBidder(e))
	tbl.Sit(auction.East, nil, PassBidder{})
	tbl.Sit(auction.West, nil, PassBidder{})

	a := auction.New(auction.North)
	made, err := tbl.AutoAdvance(a)
	if err != nil {
		t.Fatalf("AutoAdvance failed: %v", err)
	}
	if len(made) != 2 || made[0].Call.String() != "1NT" || made[1].Call != auction.Pass {
		t.Fatalf("unexpected robot calls %+v", made)
	}
	if a.NextSeat() != auction.South {
		t.Fatalf("expected South to act, got %s", a.NextSeat())
	}
}

func TestIllegalRobotCallBecomesPass(t *testing.T) {
	tbl := NewTable(nil)
	tbl.Sit(auction.East, nil, fixedBidder{call: auction.MustParseCall("1C")})
	a := auction.MustFromStrings(auction.North, "1S")
	c, err := tbl.OnTurn(a, auction.East)
	if err != nil {
		t.Fatalf("OnTurn failed: %v", err)
	}
	if c != auction.Pass {
		t.Fatalf("expected Pass, got %s", c)
	}
	if _, err := tbl.OnTurn(a, auction.South); err == nil {
		t.Fatalf("expected error for a human seat")
	}
}

func TestAutoAdvancePassesOut(t *testing.T) {
	tbl := NewTable(nil)
	for _, s := range auction.Rotation {
		tbl.Sit(s, nil, PassBidder{})
	}
	a := auction.New(auction.East)
	made, err := tbl.AutoAdvance(a)
	if err != nil {
		t.Fatalf("AutoAdvance failed: %v", err)
	}
	if len(made) != 4 || !a.Ended() {
		t.Fatalf("expected passed-out auction, got %d calls", len(made))
	}
}

func TestNewPracticeSeatsPartnerAndOpponents(t *testing.T) {
	tbl, ours := NewPractice(engine(t), auction.South, 42, nil)
	if len(ours) != card.HandSize {
		t.Fatalf("expected 13 cards, got %d", len(ours))
	}
	if tbl.IsRobot(auction.South) {
		t.Fatalf("our seat must stay human")
	}
	for _, s := range []auction.Seat{auction.North, auction.East, auction.West} {
		if !tbl.IsRobot(s) {
			t.Fatalf("%s should be a robot", s)
		}
	}
	a := auction.New(auction.North)
	if _, err := tbl.AutoAdvance(a); err != nil {
		t.Fatalf("AutoAdvance failed: %v", err)
	}
	if a.NextSeat() != auction.South && !a.Ended() {
		t.Fatalf("robots should stop at South")
	}
	for _, e := range a.Entries() {
		if !e.Seat.SameSide(auction.South) && !e.Call.IsPass() {
			t.Fatalf("opponents should only pass, got %s by %s", e.Call, e.Seat)
		}
	}
}

func TestDealIsSeeded(t *testing.T) {
	a, b := Deal(7), Deal(7)
	for _, s := range auction.Rotation {
		if len(a[s]) != card.HandSize {
			t.Fatalf("seat %s got %d cards", s, len(a[s]))
		}
		for i := range a[s] {
			if a[s][i] != b[s][i] {
				t.Fatalf("same seed should deal the same hands")
			}
		}
	}
}
