package robot

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/card"
	"bridge-lite/internal/logging"
)

// Robot is a bidder seated at a table.
type Robot struct {
	Seat   auction.Seat
	Hand   []card.Card
	Bidder Bidder
}

// Table tracks which seats are robots.
type Table struct {
	mu     sync.RWMutex
	robots map[auction.Seat]*Robot
	logger *zap.Logger
}

func NewTable(logger *zap.Logger) *Table {
	logger = logging.Or(logger)
	return &Table{robots: make(map[auction.Seat]*Robot), logger: logger}
}

// Sit seats a robot, replacing any robot already in that seat.
func (t *Table) Sit(seat auction.Seat, cards []card.Card, bidder Bidder) *Robot {
	r := &Robot{Seat: seat, Hand: cards, Bidder: bidder}
	t.mu.Lock()
	t.robots[seat] = r
	t.mu.Unlock()
	t.logger.Debug("robot seated", zap.String("seat", seat.String()), zap.String("bidder", bidder.Name()))
	return r
}

func (t *Table) Leave(seat auction.Seat) {
	t.mu.Lock()
	delete(t.robots, seat)
	t.mu.Unlock()
}

func (t *Table) IsRobot(seat auction.Seat) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.robots[seat] != nil
}

// OnTurn asks the robot in seat for a call. Calls outside the legal set
// become Pass.
func (t *Table) OnTurn(a *auction.Auction, seat auction.Seat) (auction.Call, error) {
	t.mu.RLock()
	r := t.robots[seat]
	t.mu.RUnlock()
	if r == nil {
		return auction.Call{}, fmt.Errorf("no robot at %s", seat)
	}

	view := View{Seat: seat, Hand: r.Hand, Auction: a.Clone(), LegalCalls: a.LegalCalls(seat)}
	c := r.Bidder.Decide(view)
	if !a.IsLegal(seat, c) {
		t.logger.Warn("robot call not legal, passing",
			zap.String("seat", seat.String()),
			zap.String("bidder", r.Bidder.Name()),
			zap.String("call", c.String()))
		c = auction.Pass
	}
	return c, nil
}

// AutoAdvance lets robots call until a human seat is on turn or the auction
// ends, and returns the calls made.
func (t *Table) AutoAdvance(a *auction.Auction) ([]auction.Entry, error) {
	var made []auction.Entry
	for !a.Ended() {
		seat := a.NextSeat()
		if !t.IsRobot(seat) {
			break
		}
		c, err := t.OnTurn(a, seat)
		if err != nil {
			return made, err
		}
		if err := a.Append(seat, c); err != nil {
			return made, fmt.Errorf("robot %s: %w", seat, err)
		}
		made = append(made, auction.Entry{Index: a.Len() - 1, Seat: seat, Call: c})
	}
	return made, nil
}

// Deal returns four seeded hands keyed by seat.
func Deal(seed int64) map[auction.Seat][]card.Card {
	hands := card.Deal(seed)
	out := make(map[auction.Seat][]card.Card, 4)
	for i, seat := range auction.Rotation {
		out[seat] = hands[i]
	}
	return out
}

// NewPractice deals a board and seats robots around ours: partner bids from
// the engine, opponents pass.
func NewPractice(engine *bidding.Engine, ours auction.Seat, seed int64, logger *zap.Logger) (*Table, []card.Card) {
	hands := Deal(seed)
	t := NewTable(logger)
	for _, seat := range auction.Rotation {
		switch {
		case seat == ours:
		case seat == ours.Partner():
			t.Sit(seat, hands[seat], NewSystemBidder(engine))
		default:
			t.Sit(seat, hands[seat], PassBidder{})
		}
	}
	return t, hands[ours]
}
