package bidding

import (
	"fmt"

	"bridge-lite/auction"
	"bridge-lite/system"
)

// Phase is the stage of the auction from the acting seat's point of view.
type Phase byte

const (
	PhaseOpening     Phase = 1
	PhaseResponse    Phase = 2
	PhaseRebid       Phase = 3
	PhaseCompetitive Phase = 4 // opponents opened
	PhaseUnsupported Phase = 5 // deeper than the tables reach
)

var PhaseDictionary = map[Phase]string{
	PhaseOpening:     "opening",
	PhaseResponse:    "response",
	PhaseRebid:       "rebid",
	PhaseCompetitive: "competitive",
	PhaseUnsupported: "unsupported",
}

func (p Phase) String() string { return PhaseDictionary[p] }

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*p = 0
		return nil
	}
	for k, v := range PhaseDictionary {
		if v == string(b) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("invalid phase: %q", b)
}

// Status is the outcome of one match request.
type Status byte

const (
	StatusMatched      Status = 1
	StatusNoMatch      Status = 2
	StatusInterference Status = 3
)

var StatusDictionary = map[Status]string{
	StatusMatched:      "matched",
	StatusNoMatch:      "no_match",
	StatusInterference: "interference",
}

func (s Status) String() string { return StatusDictionary[s] }

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Result of Match. Rule and Call are only meaningful when Status is
// StatusMatched.
type Result struct {
	Status Status
	Phase  Phase
	Role   auction.Role
	Call   auction.Call
	Rule   *system.Rule
	// Key.Opening is set in the response phase; the full key, with HasKey,
	// in the rebid phase.
	Key    system.SequenceKey
	HasKey bool
	Reason string
}

func (r Result) Matched() bool { return r.Status == StatusMatched }

// Continuation is one guidance line for a convention in play.
type Continuation struct {
	Call     auction.Call `json:"call"`
	Trigger  string       `json:"trigger"`
	Sequence string       `json:"sequence"`
}

// Meaning is the interpretation of one auction entry.
type Meaning struct {
	Index   int          `json:"index"`
	Seat    auction.Seat `json:"seat"`
	Call    auction.Call `json:"call"`
	Meaning string       `json:"meaning"`
}
