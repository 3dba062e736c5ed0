package auction

import "fmt"

// Entry is one call in the auction history.
type Entry struct {
	Index int  `json:"index"`
	Seat  Seat `json:"seat"`
	Call  Call `json:"call"`
}

// Auction is the append-only call history for one board.
// The zero value is an empty auction dealt by North.
type Auction struct {
	Dealer  Seat
	entries []Entry
}

func New(dealer Seat) *Auction {
	return &Auction{Dealer: dealer}
}

// FromCalls replays calls in rotation order, validating each one.
func FromCalls(dealer Seat, calls ...Call) (*Auction, error) {
	a := New(dealer)
	for i, c := range calls {
		if err := a.Append(a.NextSeat(), c); err != nil {
			return nil, fmt.Errorf("call %d: %w", i, err)
		}
	}
	return a, nil
}

// MustFromStrings is for tests and literal fixtures.
func MustFromStrings(dealer Seat, calls ...string) *Auction {
	parsed := make([]Call, 0, len(calls))
	for _, raw := range calls {
		parsed = append(parsed, MustParseCall(raw))
	}
	a, err := FromCalls(dealer, parsed...)
	if err != nil {
		panic(err)
	}
	return a
}

// Entries returns a copy of the history.
func (a *Auction) Entries() []Entry {
	out := make([]Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

func (a *Auction) Len() int { return len(a.entries) }

// Clone returns an independent copy.
func (a *Auction) Clone() *Auction {
	return &Auction{Dealer: a.Dealer, entries: a.Entries()}
}

// NextSeat is the seat whose turn it is.
func (a *Auction) NextSeat() Seat {
	return TurnSeat(a.Dealer, len(a.entries))
}

// Ended reports whether at least four calls exist and the last three are
// passes. This covers both a passed-out board and a completed contract.
func (a *Auction) Ended() bool {
	n := len(a.entries)
	if n < 4 {
		return false
	}
	for _, e := range a.entries[n-3:] {
		if !e.Call.IsPass() {
			return false
		}
	}
	return true
}

// LastContract returns the most recent contract call.
func (a *Auction) LastContract() (Entry, bool) {
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].Call.IsBid() {
			return a.entries[i], true
		}
	}
	return Entry{}, false
}

// FirstContract returns the opening bid.
func (a *Auction) FirstContract() (Entry, bool) {
	for _, e := range a.entries {
		if e.Call.IsBid() {
			return e, true
		}
	}
	return Entry{}, false
}

// TrailingPasses counts the passes at the end of the history.
func (a *Auction) TrailingPasses() int {
	_, passes, _ := a.lastNonPass()
	return passes
}

// lastNonPass returns the most recent non-pass call and how many passes
// followed it.
func (a *Auction) lastNonPass() (Entry, int, bool) {
	passes := 0
	for i := len(a.entries) - 1; i >= 0; i-- {
		if !a.entries[i].Call.IsPass() {
			return a.entries[i], passes, true
		}
		passes++
	}
	return Entry{}, passes, false
}

// LegalCalls is a pure projection of the history: nothing is cached, so it
// always agrees with Append.
//
// Empty when the auction has ended or it is not the acting seat's turn.
// Otherwise Pass, then Double / Redouble when eligible, then every contract
// call above the last one in ascending order.
func (a *Auction) LegalCalls(acting Seat) []Call {
	if a.Ended() || a.NextSeat() != acting {
		return nil
	}
	out := []Call{Pass}

	if last, passes, ok := a.lastNonPass(); ok && (passes == 0 || passes == 2) && !last.Seat.SameSide(acting) {
		switch last.Call.Kind {
		case CallBid:
			out = append(out, Double)
		case CallDouble:
			out = append(out, Redouble)
		}
	}

	lastBid, hasBid := a.LastContract()
	for _, c := range AllBids() {
		if !hasBid || c.Higher(lastBid.Call) {
			out = append(out, c)
		}
	}
	return out
}

// IsLegal reports whether the call is currently legal for the acting seat.
func (a *Auction) IsLegal(acting Seat, c Call) bool {
	for _, l := range a.LegalCalls(acting) {
		if l == c {
			return true
		}
	}
	return false
}

// Append records a call; seat must be the seat whose turn it is.
func (a *Auction) Append(seat Seat, c Call) error {
	if a.Ended() {
		return ErrAuctionEnded
	}
	if seat != a.NextSeat() {
		return fmt.Errorf("%w: %s called, %s to act", ErrOutOfTurn, seat, a.NextSeat())
	}
	if !a.IsLegal(seat, c) {
		return &IllegalCallError{Seat: seat, Call: c, Legal: a.LegalCalls(seat)}
	}
	a.entries = append(a.entries, Entry{Index: len(a.entries), Seat: seat, Call: c})
	return nil
}

// Undo removes the last call.
func (a *Auction) Undo() (Entry, error) {
	n := len(a.entries)
	if n == 0 {
		return Entry{}, ErrEmptyAuction
	}
	last := a.entries[n-1]
	a.entries = a.entries[:n-1]
	return last, nil
}

// Reset clears the history, optionally moving the dealer.
func (a *Auction) Reset(dealer Seat) {
	a.Dealer = dealer
	a.entries = nil
}

// CallsBy returns the non-pass calls made by seat, in order.
func (a *Auction) CallsBy(seat Seat) []Entry {
	var out []Entry
	for _, e := range a.entries {
		if e.Seat == seat && !e.Call.IsPass() {
			out = append(out, e)
		}
	}
	return out
}
