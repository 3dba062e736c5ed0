package card

import (
	"fmt"
	"strings"
)

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Club, 1:Diamond, 2:Heart, 3:Spade)
// - 低4位: 点数 (2..9, 10:T, 11:J, 12:Q, 13:K, 14:A)
type Card byte

// Rank 点数 2..14 (A=14)
type Rank byte

const (
	RankTwo   Rank = 2
	RankTen   Rank = 10
	RankJack  Rank = 11
	RankQueen Rank = 12
	RankKing  Rank = 13
	RankAce   Rank = 14
)

func (r Rank) String() string {
	switch r {
	case RankAce:
		return "A"
	case RankKing:
		return "K"
	case RankQueen:
		return "Q"
	case RankJack:
		return "J"
	case RankTen:
		return "T"
	}
	if r >= RankTwo && r < RankTen {
		return fmt.Sprintf("%d", r)
	}
	return "?"
}

// New builds a card from suit and rank.
func New(s Suit, r Rank) Card {
	return Card(byte(s)<<4 | byte(r))
}

// String returns the two-character code, rank then suit ("AS", "TD").
func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return c.Rank().String() + c.Suit().String()
}

func (c Card) Rank() Rank {
	return Rank(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) Valid() bool {
	r := c.Rank()
	return c.Suit().Valid() && r >= RankTwo && r <= RankAce
}

// Parse 将字符串 (如 "AS", "Td", "10h", "♠K") 转换为 Card
//
// Rank-then-suit is the canonical order; a leading suit glyph or letter is
// also accepted since recognizers sometimes emit it that way.
func Parse(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return CardInvalid, fmt.Errorf("invalid card code: %q", code)
	}

	rankStr, suitStr := splitCode(code)
	suit, err := ParseSuit(suitStr)
	if err != nil {
		return CardInvalid, fmt.Errorf("invalid card code %q: %w", code, err)
	}
	rank, err := parseRank(rankStr)
	if err != nil {
		return CardInvalid, fmt.Errorf("invalid card code %q: %w", code, err)
	}
	return New(suit, rank), nil
}

func splitCode(code string) (rankStr, suitStr string) {
	runes := []rune(code)
	last := string(runes[len(runes)-1])
	if _, err := ParseSuit(last); err == nil {
		return string(runes[:len(runes)-1]), last
	}
	return string(runes[1:]), string(runes[0])
}

func parseRank(raw string) (Rank, error) {
	switch strings.ToUpper(raw) {
	case "A":
		return RankAce, nil
	case "K":
		return RankKing, nil
	case "Q":
		return RankQueen, nil
	case "J":
		return RankJack, nil
	case "T", "10":
		return RankTen, nil
	}
	if len(raw) == 1 && raw[0] >= '2' && raw[0] <= '9' {
		return Rank(raw[0] - '0'), nil
	}
	return 0, fmt.Errorf("invalid rank: %q", raw)
}
