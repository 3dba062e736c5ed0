package advisor

import (
	"errors"
	"fmt"

	"bridge-lite/auction"
	"bridge-lite/bidding"
)

var ErrNoAuction = errors.New("advisor: request has no auction")

// IllegalCallError rejects an external candidate that is not in the legal set.
// There is no fallback: the caller decides whether to ask again.
type IllegalCallError struct {
	Seat      auction.Seat
	Candidate string
	Legal     []auction.Call
}

func (e *IllegalCallError) Error() string {
	return fmt.Sprintf("external call %q is not legal for %s (legal: %s)", e.Candidate, e.Seat, auction.JoinCalls(e.Legal))
}

// NoRecommendationError means the engine had no answer and there was no
// external advisor to ask.
type NoRecommendationError struct {
	Phase  bidding.Phase
	Status bidding.Status
	Reason string
}

func (e *NoRecommendationError) Error() string {
	return fmt.Sprintf("no recommendation (%s, %s): %s", e.Phase, e.Status, e.Reason)
}
