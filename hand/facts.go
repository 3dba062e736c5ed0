// Package hand derives the facts bidding rules are written against from a
// 13-card hand. Everything here is a pure function of the cards.
package hand

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"bridge-lite/card"
)

var ErrMalformedHand = errors.New("malformed hand")

// balancedShapes are the three shapes bidding systems call balanced.
var balancedShapes = map[string]struct{}{
	"4-3-3-3": {},
	"4-4-3-2": {},
	"5-3-3-2": {},
}

// Facts is derived data; recompute it when the hand changes.
type Facts struct {
	HCP      int        `json:"hcp"`
	Lengths  [4]int     `json:"lengths"` // indexed by card.Suit
	Shape    string     `json:"shape"`
	Balanced bool       `json:"balanced"`
	Aces     int        `json:"aces"`
	Controls int        `json:"controls"`
	Strength [4]float64 `json:"strength"` // honor-weighted, indexed by card.Suit
}

// Compute rejects anything but 13 distinct valid cards before computing.
func Compute(cards []card.Card) (Facts, error) {
	var f Facts
	if len(cards) != card.HandSize {
		return f, fmt.Errorf("%w: expected %d cards, got %d", ErrMalformedHand, card.HandSize, len(cards))
	}
	seen := make(map[card.Card]struct{}, len(cards))
	for i, c := range cards {
		if !c.Valid() {
			return Facts{}, fmt.Errorf("%w: card %d is not a valid card", ErrMalformedHand, i)
		}
		if _, dup := seen[c]; dup {
			return Facts{}, fmt.Errorf("%w: duplicate card %s", ErrMalformedHand, c)
		}
		seen[c] = struct{}{}

		s := c.Suit()
		f.Lengths[s]++
		f.HCP += HighCardPoints(c.Rank())
		f.Strength[s] += honorWeight(c.Rank())
		switch c.Rank() {
		case card.RankAce:
			f.Aces++
			f.Controls += 2
		case card.RankKing:
			f.Controls++
		}
	}
	f.Shape = shapeOf(f.Lengths)
	_, f.Balanced = balancedShapes[f.Shape]
	return f, nil
}

// HighCardPoints uses the 4-3-2-1 scale.
func HighCardPoints(r card.Rank) int {
	switch r {
	case card.RankAce:
		return 4
	case card.RankKing:
		return 3
	case card.RankQueen:
		return 2
	case card.RankJack:
		return 1
	}
	return 0
}

// honorWeight extends 4-3-2-1 with half a point for the ten; used to compare
// the quality of equal-length suits.
func honorWeight(r card.Rank) float64 {
	if r == card.RankTen {
		return 0.5
	}
	return float64(HighCardPoints(r))
}

func shapeOf(lengths [4]int) string {
	sorted := lengths
	sort.Sort(sort.Reverse(sort.IntSlice(sorted[:])))
	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-")
}

func (f Facts) Length(s card.Suit) int { return f.Lengths[s] }

// SuitStrength is the honor-weighted point count of one suit.
func (f Facts) SuitStrength(s card.Suit) float64 { return f.Strength[s] }

func (f Facts) HasFourCardMajor() bool {
	return f.Lengths[card.Heart] >= 4 || f.Lengths[card.Spade] >= 4
}

func (f Facts) HasFiveCardMajor() bool {
	return f.Lengths[card.Heart] >= 5 || f.Lengths[card.Spade] >= 5
}

// ShortIn reports a singleton or void.
func (f Facts) ShortIn(s card.Suit) bool { return f.Lengths[s] <= 1 }

// Distribution renders lengths in S-H-D-C order, e.g. "5-4-2-2".
func (f Facts) Distribution() string {
	parts := make([]string, 0, 4)
	for _, s := range card.Suits {
		parts = append(parts, strconv.Itoa(f.Lengths[s]))
	}
	return strings.Join(parts, "-")
}
