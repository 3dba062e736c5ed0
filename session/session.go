// Package session holds the caller-owned state of one practice board: the
// system in use, our seat, the hand and the auction so far. The engine never
// keeps any of this between calls.
package session

import (
	"fmt"
	"strings"

	"bridge-lite/advisor"
	"bridge-lite/auction"
	"bridge-lite/card"
	"bridge-lite/hand"
)

// Spec is the JSON shape clients send. Seats on calls are optional and, when
// present, must agree with the rotation.
type Spec struct {
	System        string     `json:"system,omitempty"`
	Dealer        string     `json:"dealer"`
	Seat          string     `json:"seat"`
	Vulnerability string     `json:"vulnerability,omitempty"`
	Hand          []string   `json:"hand,omitempty"`
	Auction       []CallSpec `json:"auction,omitempty"`
}

type CallSpec struct {
	Seat string `json:"seat,omitempty"`
	Call string `json:"call"`
}

// Session is mutated by exactly one owner, e.g. one websocket read loop.
type Session struct {
	System        string
	Seat          auction.Seat
	Vulnerability auction.Vulnerability
	Hand          []card.Card
	Auction       *auction.Auction

	facts    hand.Facts
	hasFacts bool
}

func New(system string, dealer, seat auction.Seat) *Session {
	return &Session{System: system, Seat: seat, Auction: auction.New(dealer)}
}

// SetHand validates and stores a 13-card hand.
func (s *Session) SetHand(cards []card.Card) error {
	f, err := hand.Compute(cards)
	if err != nil {
		return err
	}
	s.Hand = append([]card.Card(nil), cards...)
	card.Sort(s.Hand)
	s.facts, s.hasFacts = f, true
	return nil
}

// Facts returns the facts of the current hand.
func (s *Session) Facts() (hand.Facts, error) {
	if !s.hasFacts {
		return hand.Facts{}, fmt.Errorf("%w: no hand set", hand.ErrMalformedHand)
	}
	return s.facts, nil
}

// Call appends c for whichever seat is on turn.
func (s *Session) Call(c auction.Call) (auction.Entry, error) {
	seat := s.Auction.NextSeat()
	if err := s.Auction.Append(seat, c); err != nil {
		return auction.Entry{}, err
	}
	entries := s.Auction.Entries()
	return entries[len(entries)-1], nil
}

func (s *Session) Undo() (auction.Entry, error) { return s.Auction.Undo() }

// Reset clears the auction; the hand is kept.
func (s *Session) Reset(dealer auction.Seat) { s.Auction.Reset(dealer) }

// OurTurn reports whether our seat is to call.
func (s *Session) OurTurn() bool {
	return !s.Auction.Ended() && s.Auction.NextSeat() == s.Seat
}

// Request builds an advisor request for our seat.
func (s *Session) Request(forceExternal bool) advisor.Request {
	return advisor.Request{
		Hand:          s.Hand,
		Auction:       s.Auction,
		Seat:          s.Seat,
		Vulnerability: s.Vulnerability,
		ForceExternal: forceExternal,
	}
}

// Spec renders the session back to its wire form with explicit seats.
func (s *Session) Spec() Spec {
	out := Spec{
		System:        s.System,
		Dealer:        s.Auction.Dealer.String(),
		Seat:          s.Seat.String(),
		Vulnerability: s.Vulnerability.String(),
		Hand:          card.Codes(s.Hand),
	}
	for _, e := range s.Auction.Entries() {
		out.Auction = append(out.Auction, CallSpec{Seat: e.Seat.String(), Call: e.Call.String()})
	}
	return out
}

// Normalize validates a Spec and builds a Session. Empty system names fall
// back to defaultSystem; a missing hand is allowed (legal-call queries do not
// need one).
func Normalize(spec Spec, defaultSystem string) (*Session, error) {
	system := strings.ToLower(strings.TrimSpace(spec.System))
	if system == "" {
		system = strings.ToLower(defaultSystem)
	}
	if system == "" {
		return nil, headerError("invalid_system", "system name is required")
	}

	dealer := auction.North
	if strings.TrimSpace(spec.Dealer) != "" {
		d, err := auction.ParseSeat(spec.Dealer)
		if err != nil {
			return nil, headerError("invalid_dealer", "%v", err)
		}
		dealer = d
	}
	seat, err := auction.ParseSeat(spec.Seat)
	if err != nil {
		return nil, headerError("invalid_seat", "%v", err)
	}
	s := New(system, dealer, seat)

	if strings.TrimSpace(spec.Vulnerability) != "" {
		v, err := auction.ParseVulnerability(spec.Vulnerability)
		if err != nil {
			return nil, headerError("invalid_vulnerability", "%v", err)
		}
		s.Vulnerability = v
	}

	if len(spec.Hand) > 0 {
		cards, err := card.ParseHand(spec.Hand)
		if err != nil {
			return nil, headerError("invalid_hand", "%v", err)
		}
		if err := s.SetHand(cards); err != nil {
			return nil, headerError("invalid_hand", "%v", err)
		}
	}

	for i, cs := range spec.Auction {
		if err := s.replay(i, cs); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) replay(i int, cs CallSpec) error {
	a := s.Auction
	if a.Ended() {
		return &SessionError{StepIndex: i, Reason: "auction_ended", Message: "auction already ended"}
	}
	expected := a.NextSeat()
	c, err := auction.ParseCall(cs.Call)
	if err != nil {
		return &SessionError{StepIndex: i, Reason: "invalid_call", Message: err.Error()}
	}
	if strings.TrimSpace(cs.Seat) != "" {
		seat, err := auction.ParseSeat(cs.Seat)
		if err != nil {
			return &SessionError{StepIndex: i, Reason: "invalid_call_seat", Message: err.Error()}
		}
		if seat != expected {
			return &SessionError{
				StepIndex: i,
				Reason:    "out_of_turn",
				Message:   fmt.Sprintf("call %d is %s's turn, got %s", i, expected, seat),
				Expected:  &ExpectedState{Seat: expected, LegalCalls: a.LegalCalls(expected)},
			}
		}
	}
	if !a.IsLegal(expected, c) {
		return &SessionError{
			StepIndex: i,
			Reason:    "illegal_call",
			Message:   fmt.Sprintf("%s may not call %s here", expected, c),
			Expected:  &ExpectedState{Seat: expected, LegalCalls: a.LegalCalls(expected)},
		}
	}
	return a.Append(expected, c)
}
