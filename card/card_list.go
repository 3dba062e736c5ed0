package card

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// HandSize is the number of cards each seat holds.
const HandSize = 13

type CardList []Card

// NewDeck returns the 52 cards ordered clubs to spades, two to ace.
func NewDeck() CardList {
	deck := make(CardList, 0, 52)
	for s := Club; s <= Spade; s++ {
		for r := RankTwo; r <= RankAce; r++ {
			deck = append(deck, New(s, r))
		}
	}
	return deck
}

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

// Shuffle 洗牌; a nil rng falls back to the global source.
func (ds CardList) Shuffle(rng *rand.Rand) {
	swap := func(i, j int) { ds[i], ds[j] = ds[j], ds[i] }
	if rng == nil {
		rand.Shuffle(len(ds), swap)
		return
	}
	rng.Shuffle(len(ds), swap)
}

func (ds *CardList) PopCards(size int) ([]Card, bool) {
	if size > ds.Count() {
		return nil, false
	}
	cards := make([]Card, size)
	copy(cards, (*ds)[:size])
	*ds = (*ds)[size:]
	return cards, true
}

// Deal shuffles a fresh deck and splits it into four 13-card hands.
// A zero seed is time based (global source); any other seed is reproducible.
func Deal(seed int64) [4][]Card {
	deck := NewDeck()
	if seed != 0 {
		deck.Shuffle(rand.New(rand.NewSource(seed)))
	} else {
		deck.Shuffle(nil)
	}
	var hands [4][]Card
	for i := range hands {
		cards, _ := deck.PopCards(HandSize)
		Sort(cards)
		hands[i] = cards
	}
	return hands
}

// Sort orders cards for display: spades first, high ranks first.
func Sort(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		si, sj := cards[i].Suit(), cards[j].Suit()
		if si != sj {
			return si > sj
		}
		return cards[i].Rank() > cards[j].Rank()
	})
}

// Codes renders cards as their two-character codes.
func Codes(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}

// ParseCodes parses up to 13 distinct card codes, the shape a recognizer
// returns for a photographed hand.
func ParseCodes(codes []string) ([]Card, error) {
	if len(codes) > HandSize {
		return nil, fmt.Errorf("too many cards: got %d, max %d", len(codes), HandSize)
	}
	out := make([]Card, 0, len(codes))
	seen := make(map[Card]struct{}, len(codes))
	for i, code := range codes {
		c, err := Parse(code)
		if err != nil {
			return nil, fmt.Errorf("cards[%d]: %w", i, err)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("cards[%d]: duplicate card %s", i, c)
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

// ParseHand parses exactly 13 distinct card codes.
func ParseHand(codes []string) ([]Card, error) {
	if len(codes) != HandSize {
		return nil, fmt.Errorf("hand must contain exactly %d cards, got %d", HandSize, len(codes))
	}
	return ParseCodes(codes)
}

// ParseHandString splits on whitespace or commas, e.g. "AS KS QS 4S ...".
func ParseHandString(raw string) ([]Card, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	return ParseHand(fields)
}
