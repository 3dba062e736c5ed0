package advisor

import (
	"bridge-lite/auction"
	"bridge-lite/bidding"
	"bridge-lite/system"
)

// shapeChecks validate conventions that no rule table entry carries. A claim
// for a convention with neither a table entry nor a shape check is dropped.
var shapeChecks = map[string]func(*auction.Auction, auction.Seat, auction.Call) bool{
	system.NormalizeConvention("Fourth Suit Forcing"): FourthSuitForcing,
	system.NormalizeConvention("Blackwood"):           Blackwood,
}

// FourthSuitForcing reports whether c is a fourth-suit call: the
// partnership's last three non-pass calls named three different suits and c
// names the remaining one.
func FourthSuitForcing(a *auction.Auction, seat auction.Seat, c auction.Call) bool {
	if !c.IsBid() || c.Strain == auction.NoTrump {
		return false
	}
	calls := auction.PartnershipCalls(a, seat)
	if len(calls) < 3 {
		return false
	}
	seen := make(map[auction.Strain]bool, 3)
	for _, e := range calls[len(calls)-3:] {
		if !e.Call.IsBid() || e.Call.Strain == auction.NoTrump {
			return false
		}
		seen[e.Call.Strain] = true
	}
	return len(seen) == 3 && !seen[c.Strain]
}

// Blackwood reports whether c is an ace-asking 4NT: the partnership has bid
// a suit and partner's last call was not in no-trump, which would make 4NT
// quantitative.
func Blackwood(a *auction.Auction, seat auction.Seat, c auction.Call) bool {
	if c != auction.Bid(4, auction.NoTrump) {
		return false
	}
	calls := auction.PartnershipCalls(a, seat)
	suitBid := false
	var partnerLast *auction.Entry
	for i := range calls {
		e := calls[i]
		if e.Call.IsBid() && e.Call.Strain != auction.NoTrump {
			suitBid = true
		}
		if e.Seat == seat.Partner() {
			partnerLast = &calls[i]
		}
	}
	if partnerLast != nil && partnerLast.Call.IsBid() && partnerLast.Call.Strain == auction.NoTrump {
		return false
	}
	return suitBid
}

// claimFilter drops convention claims that do not fit the auction.
type claimFilter struct {
	engine  *bidding.Engine
	auction *auction.Auction
	seat    auction.Seat
	call    auction.Call
}

// filter returns the canonical names of the valid claims and the dropped
// raw names.
func (f claimFilter) filter(claims []string) (kept, dropped []string) {
	sys := f.engine.System()
	seen := make(map[string]bool)
	for _, raw := range claims {
		name, _, ok := sys.Convention(raw)
		if !ok || !f.valid(name) {
			dropped = append(dropped, raw)
			continue
		}
		if !seen[name] {
			seen[name] = true
			kept = append(kept, name)
		}
	}
	return kept, dropped
}

func (f claimFilter) valid(name string) bool {
	if check, ok := shapeChecks[system.NormalizeConvention(name)]; ok {
		return check(f.auction, f.seat, f.call)
	}
	calls, covered := f.engine.ConventionCalls(f.auction, f.seat, name)
	if !covered {
		return false
	}
	for _, c := range calls {
		if c == f.call {
			return true
		}
	}
	return false
}

// guidance keeps the records whose name matches a kept convention, renamed
// to the canonical form.
func (f claimFilter) guidance(in []Guidance, kept []string) []Guidance {
	byKey := make(map[string]string, len(kept))
	for _, k := range kept {
		byKey[system.NormalizeConvention(k)] = k
	}
	var out []Guidance
	for _, g := range in {
		name, ok := byKey[system.NormalizeConvention(g.Name)]
		if !ok {
			continue
		}
		g.Name = name
		out = append(out, g)
	}
	return out
}
