package system

import (
	"fmt"
	"strings"

	"bridge-lite/card"
	"bridge-lite/hand"
)

// Conditions is the validated predicate record of a rule. A nil pointer or an
// absent map entry means "no constraint"; every present predicate must hold.
type Conditions struct {
	MinHCP *int
	MaxHCP *int

	MinLength map[card.Suit]int
	MaxLength map[card.Suit]int

	Balanced *bool
	// ShortIn requires a singleton or void in each listed suit.
	ShortIn []card.Suit

	// FourCardMajor / FiveCardMajor: true requires one, false denies one.
	FourCardMajor *bool
	FiveCardMajor *bool

	Support *Support

	MinAces *int
	MaxAces *int
}

// Support bounds the length held in the fit suit. Suit overrides the fit
// suit implied by the auction.
type Support struct {
	Suit *card.Suit
	Min  *int
	Max  *int
}

// Match evaluates the record against hand facts. fit is the suit implied by
// the auction for support predicates, nil when partner's call was no-trump.
func (c Conditions) Match(f hand.Facts, fit *card.Suit) bool {
	if !within(f.HCP, c.MinHCP, c.MaxHCP) {
		return false
	}
	for s, n := range c.MinLength {
		if f.Lengths[s] < n {
			return false
		}
	}
	for s, n := range c.MaxLength {
		if f.Lengths[s] > n {
			return false
		}
	}
	if c.Balanced != nil && f.Balanced != *c.Balanced {
		return false
	}
	for _, s := range c.ShortIn {
		if !f.ShortIn(s) {
			return false
		}
	}
	if c.FourCardMajor != nil && f.HasFourCardMajor() != *c.FourCardMajor {
		return false
	}
	if c.FiveCardMajor != nil && f.HasFiveCardMajor() != *c.FiveCardMajor {
		return false
	}
	if c.Support != nil {
		suit := fit
		if c.Support.Suit != nil {
			suit = c.Support.Suit
		}
		if suit == nil || !within(f.Lengths[*suit], c.Support.Min, c.Support.Max) {
			return false
		}
	}
	return within(f.Aces, c.MinAces, c.MaxAces)
}

func within(v int, lo, hi *int) bool {
	if lo != nil && v < *lo {
		return false
	}
	if hi != nil && v > *hi {
		return false
	}
	return true
}

// Summary renders a short trigger description such as "8+ HCP, 5+♥".
func (c Conditions) Summary() string {
	var parts []string
	if r := rangeText(c.MinHCP, c.MaxHCP, " HCP"); r != "" {
		parts = append(parts, r)
	}
	if c.Balanced != nil {
		if *c.Balanced {
			parts = append(parts, "balanced")
		} else {
			parts = append(parts, "unbalanced")
		}
	}
	for _, s := range card.Suits {
		var lo, hi *int
		if n, ok := c.MinLength[s]; ok {
			lo = &n
		}
		if n, ok := c.MaxLength[s]; ok {
			hi = &n
		}
		if r := rangeText(lo, hi, s.Symbol()); r != "" {
			parts = append(parts, r)
		}
	}
	for _, s := range c.ShortIn {
		parts = append(parts, "short "+s.Symbol())
	}
	parts = appendMajorText(parts, c.FourCardMajor, "4-card major")
	parts = appendMajorText(parts, c.FiveCardMajor, "5-card major")
	if c.Support != nil {
		label := " support"
		if c.Support.Suit != nil {
			label = c.Support.Suit.Symbol() + " support"
		}
		if r := rangeText(c.Support.Min, c.Support.Max, label); r != "" {
			parts = append(parts, r)
		}
	}
	if r := rangeText(c.MinAces, c.MaxAces, " aces"); r != "" {
		parts = append(parts, r)
	}
	if len(parts) == 0 {
		return "any hand"
	}
	return strings.Join(parts, ", ")
}

func appendMajorText(parts []string, flag *bool, label string) []string {
	if flag == nil {
		return parts
	}
	if *flag {
		return append(parts, label)
	}
	return append(parts, "no "+label)
}

func rangeText(lo, hi *int, unit string) string {
	switch {
	case lo != nil && hi != nil && *lo == *hi:
		return fmt.Sprintf("%d%s", *lo, unit)
	case lo != nil && hi != nil:
		return fmt.Sprintf("%d-%d%s", *lo, *hi, unit)
	case lo != nil:
		return fmt.Sprintf("%d+%s", *lo, unit)
	case hi != nil:
		return fmt.Sprintf("≤%d%s", *hi, unit)
	}
	return ""
}
