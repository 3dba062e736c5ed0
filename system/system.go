// Package system holds declarative bidding systems: opening, response and
// rebid tables of condition-based rules plus the convention glossary.
package system

import (
	"fmt"
	"sort"
	"strings"

	"bridge-lite/auction"
)

// Rule is one table entry. Lower Priority values are preferred.
type Rule struct {
	Call        auction.Call
	Priority    int
	Convention  string
	Description string
	// Trigger overrides the generated condition summary in guidance output.
	Trigger    string
	Forcing    bool
	Conditions Conditions
}

// TriggerText describes when the rule applies.
func (r Rule) TriggerText() string {
	if r.Trigger != "" {
		return r.Trigger
	}
	return r.Conditions.Summary()
}

// SequenceKey identifies an opening and partner's first response, "1S-2C".
type SequenceKey struct {
	Opening  auction.Call
	Response auction.Call
}

func (k SequenceKey) String() string {
	return k.Opening.String() + "-" + k.Response.String()
}

// ParseSequenceKey fails on anything but two contract calls joined by "-"
// with the response above the opening.
func ParseSequenceKey(raw string) (SequenceKey, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return SequenceKey{}, &SequenceKeyError{Key: raw, Reason: "want exactly two calls joined by '-'"}
	}
	opening, err := auction.ParseCall(parts[0])
	if err != nil {
		return SequenceKey{}, &SequenceKeyError{Key: raw, Reason: err.Error()}
	}
	response, err := auction.ParseCall(parts[1])
	if err != nil {
		return SequenceKey{}, &SequenceKeyError{Key: raw, Reason: err.Error()}
	}
	if !opening.IsBid() || !response.IsBid() {
		return SequenceKey{}, &SequenceKeyError{Key: raw, Reason: "both calls must be contract calls"}
	}
	if !response.Higher(opening) {
		return SequenceKey{}, &SequenceKeyError{Key: raw, Reason: "response must outrank the opening"}
	}
	return SequenceKey{Opening: opening, Response: response}, nil
}

// TiebreakMode decides between two equal-length minors.
type TiebreakMode string

const (
	TiebreakStrength TiebreakMode = "strength"
	TiebreakClubs    TiebreakMode = "clubs"
	TiebreakDiamonds TiebreakMode = "diamonds"
)

func (m TiebreakMode) valid() bool {
	switch m {
	case TiebreakStrength, TiebreakClubs, TiebreakDiamonds:
		return true
	}
	return false
}

// MinorTiebreak configures the 3-3 and 4-4 minor choice.
type MinorTiebreak struct {
	ThreeThree TiebreakMode
	FourFour   TiebreakMode
}

// System is read-only once compiled; share it freely between goroutines.
type System struct {
	Name        string
	Title       string
	Description string

	Openings      []Rule
	Responses     map[auction.Call][]Rule
	Conventions   map[string]string
	MinorTiebreak MinorTiebreak

	rebids map[SequenceKey][]Rule
}

// ResponsesTo returns the first-response table for an opening call.
func (s *System) ResponsesTo(opening auction.Call) []Rule {
	return s.Responses[opening]
}

// Rebids returns the opener-rebid table for a sequence.
func (s *System) Rebids(key SequenceKey) ([]Rule, bool) {
	rules, ok := s.rebids[key]
	return rules, ok
}

// RebidsFor is the string-keyed lookup used by external data; malformed keys
// are an error rather than an empty result.
func (s *System) RebidsFor(raw string) ([]Rule, error) {
	key, err := ParseSequenceKey(raw)
	if err != nil {
		return nil, err
	}
	rules, _ := s.Rebids(key)
	return rules, nil
}

// RebidKeys lists rebid sequences in contract order.
func (s *System) RebidKeys() []SequenceKey {
	keys := make([]SequenceKey, 0, len(s.rebids))
	for k := range s.rebids {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Opening != keys[j].Opening {
			return keys[j].Opening.Higher(keys[i].Opening)
		}
		return keys[j].Response.Higher(keys[i].Response)
	})
	return keys
}

// ResponseOpenings lists the openings that have a response table, ascending.
func (s *System) ResponseOpenings() []auction.Call {
	out := make([]auction.Call, 0, len(s.Responses))
	for c := range s.Responses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Higher(out[i]) })
	return out
}

// Opening returns the opening rule for a call, if the table has one.
func (s *System) Opening(c auction.Call) (Rule, bool) {
	for _, r := range s.Openings {
		if r.Call == c {
			return r, true
		}
	}
	return Rule{}, false
}

// Convention looks a convention up case-insensitively and returns its
// canonical name.
func (s *System) Convention(name string) (string, string, bool) {
	want := NormalizeConvention(name)
	for k, v := range s.Conventions {
		if NormalizeConvention(k) == want {
			return k, v, true
		}
	}
	return "", "", false
}

// NormalizeConvention folds case, spacing, hyphens and "the" so that
// "Jacoby transfer", "jacoby-transfers" and "JACOBY TRANSFER" compare equal.
func NormalizeConvention(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	out := strings.TrimPrefix(b.String(), "the")
	return strings.TrimSuffix(out, "s")
}

func (s *System) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Title)
}
