package auction

// Role is a seat's relationship to the opening bid.
type Role byte

const (
	RoleNone       Role = 0 // not yet involved
	RoleOpener     Role = 1
	RoleResponder  Role = 2
	RoleOvercaller Role = 3
)

var RoleDictionary = map[Role]string{
	RoleNone:       "none",
	RoleOpener:     "opener",
	RoleResponder:  "responder",
	RoleOvercaller: "overcaller",
}

func (r Role) String() string { return RoleDictionary[r] }

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// DeriveRole classifies seat against the first contract call. A seat that
// has made no non-pass call is not yet involved, whoever opened.
func DeriveRole(a *Auction, seat Seat) Role {
	first, ok := a.FirstContract()
	if !ok {
		return RoleNone
	}
	if first.Seat == seat {
		return RoleOpener
	}
	if len(a.CallsBy(seat)) == 0 {
		return RoleNone
	}
	if first.Seat == seat.Partner() {
		return RoleResponder
	}
	return RoleOvercaller
}

// Context is the per-request view of the auction from one seat. It is
// recomputed on every request and never stored.
type Context struct {
	Seat    Seat
	Role    Role
	Opening *Entry

	// OwnCalls and PartnerCalls hold non-pass calls only.
	OwnCalls     []Entry
	PartnerCalls []Entry

	// OpponentsOpened is set when the first contract call came from the
	// other side.
	OpponentsOpened bool
	// Interference is set when our side opened and an opponent made any
	// non-pass call afterwards.
	Interference      bool
	InterferenceEntry *Entry
}

// Analyze builds the Context for seat.
func Analyze(a *Auction, seat Seat) Context {
	ctx := Context{
		Seat:         seat,
		Role:         DeriveRole(a, seat),
		OwnCalls:     a.CallsBy(seat),
		PartnerCalls: a.CallsBy(seat.Partner()),
	}
	first, ok := a.FirstContract()
	if !ok {
		return ctx
	}
	ctx.Opening = &first
	if !first.Seat.SameSide(seat) {
		ctx.OpponentsOpened = true
		return ctx
	}
	for _, e := range a.entries[first.Index+1:] {
		if !e.Seat.SameSide(seat) && !e.Call.IsPass() {
			e := e
			ctx.Interference = true
			ctx.InterferenceEntry = &e
			break
		}
	}
	return ctx
}

// PartnershipCalls returns the non-pass calls made by seat and partner in
// auction order.
func PartnershipCalls(a *Auction, seat Seat) []Entry {
	var out []Entry
	for _, e := range a.entries {
		if e.Seat.SameSide(seat) && !e.Call.IsPass() {
			out = append(out, e)
		}
	}
	return out
}
