package auction

import (
	"fmt"
	"strings"
)

// Seat 座位, in clockwise rotation order.
type Seat byte

const (
	North Seat = iota
	East
	South
	West
)

// Rotation is the fixed clockwise seat order.
var Rotation = [4]Seat{North, East, South, West}

var SeatDictionary = map[Seat]string{
	North: "N",
	East:  "E",
	South: "S",
	West:  "W",
}

func (s Seat) String() string {
	if name, ok := SeatDictionary[s]; ok {
		return name
	}
	return "?"
}

func (s Seat) Valid() bool { return s <= West }

// Next returns the seat to the left.
func (s Seat) Next() Seat { return (s + 1) % 4 }

func (s Seat) Partner() Seat { return (s + 2) % 4 }

// SameSide reports whether two seats are partners (or the same seat).
func (s Seat) SameSide(o Seat) bool { return s%2 == o%2 }

// TurnSeat returns the seat that makes call number n (0-based) when dealer
// calls first.
func TurnSeat(dealer Seat, n int) Seat {
	return Rotation[(int(dealer)+n)%4]
}

func ParseSeat(raw string) (Seat, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "N", "NORTH":
		return North, nil
	case "E", "EAST":
		return East, nil
	case "S", "SOUTH":
		return South, nil
	case "W", "WEST":
		return West, nil
	}
	return 0, fmt.Errorf("invalid seat: %q", raw)
}

func (s Seat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid seat: %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Seat) UnmarshalText(b []byte) error {
	v, err := ParseSeat(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Vulnerability 局况
type Vulnerability byte

const (
	VulNone Vulnerability = iota
	VulNS
	VulEW
	VulBoth
)

var VulnerabilityDictionary = map[Vulnerability]string{
	VulNone: "NONE",
	VulNS:   "NS",
	VulEW:   "EW",
	VulBoth: "BOTH",
}

func (v Vulnerability) String() string {
	if name, ok := VulnerabilityDictionary[v]; ok {
		return name
	}
	return "?"
}

// Vulnerable reports whether the seat's side is vulnerable.
func (v Vulnerability) Vulnerable(s Seat) bool {
	switch v {
	case VulBoth:
		return true
	case VulNS:
		return s.SameSide(North)
	case VulEW:
		return s.SameSide(East)
	}
	return false
}

func ParseVulnerability(raw string) (Vulnerability, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "", "NONE", "-", "LOVE":
		return VulNone, nil
	case "NS", "N-S":
		return VulNS, nil
	case "EW", "E-W":
		return VulEW, nil
	case "BOTH", "ALL":
		return VulBoth, nil
	}
	return 0, fmt.Errorf("invalid vulnerability: %q", raw)
}
