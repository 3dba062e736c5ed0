package auction

import (
	"fmt"
	"strings"

	"bridge-lite/card"
)

// Strain 花色/无将, ordered C < D < H < S < NT.
type Strain byte

const (
	Clubs Strain = iota
	Diamonds
	Hearts
	Spades
	NoTrump
)

var StrainDictionary = map[Strain]string{
	Clubs:    "C",
	Diamonds: "D",
	Hearts:   "H",
	Spades:   "S",
	NoTrump:  "NT",
}

func (s Strain) String() string {
	if name, ok := StrainDictionary[s]; ok {
		return name
	}
	return "?"
}

// Suit maps a suit strain to its card suit; ok is false for no-trump.
func (s Strain) Suit() (card.Suit, bool) {
	if s >= NoTrump {
		return 0, false
	}
	return card.Suit(s), true
}

func StrainOf(s card.Suit) Strain { return Strain(s) }

func parseStrain(raw string) (Strain, error) {
	switch strings.ToUpper(raw) {
	case "NT", "N", "NOTRUMP", "SA":
		return NoTrump, nil
	}
	suit, err := card.ParseSuit(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid strain: %q", raw)
	}
	return StrainOf(suit), nil
}

// CallKind 叫品类型：0-PASS 1-DOUBLE 2-REDOUBLE 3-BID
type CallKind byte

const (
	CallPass     CallKind = 0
	CallDouble   CallKind = 1
	CallRedouble CallKind = 2
	CallBid      CallKind = 3
)

// Call is Pass, Double, Redouble or a contract call (Level 1-7 + Strain).
type Call struct {
	Kind   CallKind
	Level  int
	Strain Strain
}

var (
	Pass     = Call{Kind: CallPass}
	Double   = Call{Kind: CallDouble}
	Redouble = Call{Kind: CallRedouble}
)

// Bid builds a contract call; it does not validate the level.
func Bid(level int, strain Strain) Call {
	return Call{Kind: CallBid, Level: level, Strain: strain}
}

func (c Call) IsBid() bool { return c.Kind == CallBid }

func (c Call) IsPass() bool { return c.Kind == CallPass }

// rank is the position of a contract call in the total order (1C=0 .. 7NT=34).
func (c Call) rank() int {
	return (c.Level-1)*5 + int(c.Strain)
}

// Higher reports whether contract call c outranks contract call o.
func (c Call) Higher(o Call) bool {
	return c.rank() > o.rank()
}

func (c Call) Valid() bool {
	switch c.Kind {
	case CallPass, CallDouble, CallRedouble:
		return c.Level == 0 && c.Strain == 0
	case CallBid:
		return c.Level >= 1 && c.Level <= 7 && c.Strain <= NoTrump
	}
	return false
}

// String returns the canonical form: Pass, X, XX, 1C .. 7NT.
func (c Call) String() string {
	switch c.Kind {
	case CallPass:
		return "Pass"
	case CallDouble:
		return "X"
	case CallRedouble:
		return "XX"
	}
	return fmt.Sprintf("%d%s", c.Level, c.Strain)
}

// Symbol renders contract calls with suit glyphs for explanations.
func (c Call) Symbol() string {
	if !c.IsBid() {
		return c.String()
	}
	if suit, ok := c.Strain.Suit(); ok {
		return fmt.Sprintf("%d%s", c.Level, suit.Symbol())
	}
	return c.String()
}

// ParseCall normalizes the spellings seen in UIs and model output:
// "P", "pass", "X", "dbl", "XX", "rdbl", "1NT", "1N", "1 nt", "2♠", "3s".
func ParseCall(raw string) (Call, error) {
	s := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	switch s {
	case "P", "PASS", "-":
		return Pass, nil
	case "X", "DBL", "DOUBLE":
		return Double, nil
	case "XX", "RDBL", "REDOUBLE":
		return Redouble, nil
	}
	if len(s) < 2 || s[0] < '1' || s[0] > '7' {
		return Call{}, fmt.Errorf("invalid call: %q", raw)
	}
	strain, err := parseStrain(s[1:])
	if err != nil {
		return Call{}, fmt.Errorf("invalid call %q: %w", raw, err)
	}
	return Bid(int(s[0]-'0'), strain), nil
}

// MustParseCall is for tables and tests built from literals.
func MustParseCall(raw string) Call {
	c, err := ParseCall(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Call) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid call: %+v", c)
	}
	return []byte(c.String()), nil
}

func (c *Call) UnmarshalText(b []byte) error {
	v, err := ParseCall(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// AllBids lists the 35 contract calls in ascending order.
func AllBids() []Call {
	out := make([]Call, 0, 35)
	for level := 1; level <= 7; level++ {
		for s := Clubs; s <= NoTrump; s++ {
			out = append(out, Bid(level, s))
		}
	}
	return out
}
