package auction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAuctionEnded = errors.New("auction already ended")
	ErrOutOfTurn    = errors.New("call out of turn")
	ErrEmptyAuction = errors.New("auction has no calls")
)

// IllegalCallError is returned when a call is not in the legal set for the
// acting seat.
type IllegalCallError struct {
	Seat  Seat
	Call  Call
	Legal []Call
}

func (e *IllegalCallError) Error() string {
	return fmt.Sprintf("illegal call %s by %s (legal: %s)", e.Call, e.Seat, JoinCalls(e.Legal))
}

// JoinCalls renders calls as a space-separated list.
func JoinCalls(calls []Call) string {
	parts := make([]string, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}
