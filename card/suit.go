package card

import (
	"fmt"
	"strings"
)

// Suit 花色, ordered by bridge rank (clubs lowest).
type Suit byte

const (
	Club    Suit = iota // ♣
	Diamond             // ♦
	Heart               // ♥
	Spade               // ♠
)

// Suits lists the four suits in display order (spades first).
var Suits = [4]Suit{Spade, Heart, Diamond, Club}

func (s Suit) String() string {
	switch s {
	case Club:
		return "C"
	case Diamond:
		return "D"
	case Heart:
		return "H"
	case Spade:
		return "S"
	}
	return "?"
}

// Symbol returns the suit glyph used in explanations.
func (s Suit) Symbol() string {
	switch s {
	case Club:
		return "♣"
	case Diamond:
		return "♦"
	case Heart:
		return "♥"
	case Spade:
		return "♠"
	}
	return "?"
}

func (s Suit) Valid() bool { return s <= Spade }

// ParseSuit accepts a letter (S/H/D/C), a glyph or a full English name.
func ParseSuit(raw string) (Suit, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "C", "♣", "CLUB", "CLUBS":
		return Club, nil
	case "D", "♦", "DIAMOND", "DIAMONDS":
		return Diamond, nil
	case "H", "♥", "HEART", "HEARTS":
		return Heart, nil
	case "S", "♠", "SPADE", "SPADES":
		return Spade, nil
	}
	return 0, fmt.Errorf("invalid suit: %q", raw)
}

// MarshalText encodes the suit as its letter so suits can key YAML and JSON maps.
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid suit: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
