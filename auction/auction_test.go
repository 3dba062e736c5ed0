package auction

import (
	"errors"
	"testing"
)

func TestTurnSeatFollowsRotation(t *testing.T) {
	for d, dealer := range Rotation {
		for n := 0; n < 8; n++ {
			want := Rotation[(d+n)%4]
			if got := TurnSeat(dealer, n); got != want {
				t.Fatalf("TurnSeat(%s,%d) = %s, want %s", dealer, n, got, want)
			}
		}
	}
	if got := TurnSeat(West, 5); got != North {
		t.Fatalf("sixth call after West deals should be North, got %s", got)
	}
}

func TestParseCallNormalizesSpellings(t *testing.T) {
	cases := map[string]Call{
		"p":        Pass,
		"Pass":     Pass,
		"X":        Double,
		"dbl":      Double,
		"XX":       Redouble,
		"Rdbl":     Redouble,
		"1NT":      Bid(1, NoTrump),
		"1n":       Bid(1, NoTrump),
		"3 nt":     Bid(3, NoTrump),
		"2♠":       Bid(2, Spades),
		"4h":       Bid(4, Hearts),
		"7C":       Bid(7, Clubs),
		"2diamond": Bid(2, Diamonds),
	}
	for raw, want := range cases {
		got, err := ParseCall(raw)
		if err != nil {
			t.Fatalf("ParseCall(%q) failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCall(%q) = %s, want %s", raw, got, want)
		}
	}
	for _, bad := range []string{"", "8S", "0NT", "1Z", "XXX"} {
		if _, err := ParseCall(bad); err == nil {
			t.Fatalf("ParseCall(%q) should fail", bad)
		}
	}
}

func TestContractOrder(t *testing.T) {
	bids := AllBids()
	if len(bids) != 35 {
		t.Fatalf("expected 35 contract calls, got %d", len(bids))
	}
	for i := 1; i < len(bids); i++ {
		if !bids[i].Higher(bids[i-1]) {
			t.Fatalf("%s should outrank %s", bids[i], bids[i-1])
		}
	}
	if !Bid(1, NoTrump).Higher(Bid(1, Spades)) || Bid(1, NoTrump).Higher(Bid(2, Clubs)) {
		t.Fatalf("strain order broken around 1NT")
	}
}

func TestLegalCallsEmptyWhenNotYourTurn(t *testing.T) {
	a := MustFromStrings(North, "1H")
	if calls := a.LegalCalls(South); len(calls) != 0 {
		t.Fatalf("South is not on turn, got %v", calls)
	}
}

func TestLegalCallsAlwaysHavePassAndOnlyHigherBids(t *testing.T) {
	a := MustFromStrings(North, "1H", "Pass", "2H")
	calls := a.LegalCalls(West)
	if len(calls) == 0 || calls[0] != Pass {
		t.Fatalf("Pass must be legal on turn, got %v", calls)
	}
	for _, c := range calls {
		if c.IsBid() && !c.Higher(Bid(2, Hearts)) {
			t.Fatalf("contract %s is not above 2H", c)
		}
	}
	if calls[1] != Double {
		t.Fatalf("West may double the opposing 2H, got %v", calls[:3])
	}
	if calls[2] != Bid(2, Spades) {
		t.Fatalf("lowest legal bid should be 2S, got %s", calls[2])
	}
}

func TestDoubleEligibility(t *testing.T) {
	cases := []struct {
		name   string
		calls  []string
		acting Seat
		want   bool
	}{
		{"directly after opponent's bid", []string{"1S"}, East, true},
		{"after one full round", []string{"1S", "Pass", "Pass"}, West, true},
		{"partner's bid", []string{"1S", "Pass"}, South, false},
		{"partner's raise after one pass", []string{"1S", "Pass", "2S", "Pass"}, North, false},
		{"over a double", []string{"1S", "X"}, South, false},
		{"nothing to double", []string{"Pass"}, East, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := MustFromStrings(North, tc.calls...)
			got := a.IsLegal(tc.acting, Double)
			if got != tc.want {
				t.Fatalf("double legal = %v, want %v (legal: %s)", got, tc.want, JoinCalls(a.LegalCalls(tc.acting)))
			}
		})
	}
}

func TestRedoubleEligibility(t *testing.T) {
	a := MustFromStrings(North, "1S", "X")
	if !a.IsLegal(South, Redouble) {
		t.Fatalf("South may redouble East's double")
	}
	a = MustFromStrings(North, "1S", "X", "Pass", "Pass")
	if !a.IsLegal(North, Redouble) {
		t.Fatalf("North may redouble after two passes")
	}
	a = MustFromStrings(North, "1S", "X", "Pass")
	if a.IsLegal(West, Redouble) {
		t.Fatalf("West cannot redouble own side's double")
	}
	a = MustFromStrings(North, "1S", "X", "XX")
	if a.IsLegal(West, Double) || a.IsLegal(West, Redouble) {
		t.Fatalf("no double or redouble over a redouble")
	}
}

func TestAuctionEnded(t *testing.T) {
	cases := []struct {
		calls []string
		want  bool
	}{
		{[]string{"Pass", "Pass", "Pass"}, false},
		{[]string{"Pass", "Pass", "Pass", "Pass"}, true},
		{[]string{"1S", "Pass", "Pass"}, false},
		{[]string{"1S", "Pass", "Pass", "Pass"}, true},
		{[]string{"Pass", "1S", "Pass", "Pass"}, false},
		{[]string{"1C", "1H", "Pass", "Pass", "Pass"}, true},
	}
	for _, tc := range cases {
		a := MustFromStrings(North, tc.calls...)
		if got := a.Ended(); got != tc.want {
			t.Fatalf("Ended(%v) = %v, want %v", tc.calls, got, tc.want)
		}
	}
}

func TestTrailingPasses(t *testing.T) {
	if got := New(North).TrailingPasses(); got != 0 {
		t.Fatalf("empty auction: got %d", got)
	}
	if got := MustFromStrings(North, "Pass", "Pass").TrailingPasses(); got != 2 {
		t.Fatalf("all passes: got %d", got)
	}
	if got := MustFromStrings(North, "1D", "Pass", "1S", "Pass", "Pass").TrailingPasses(); got != 2 {
		t.Fatalf("after 1S: got %d", got)
	}
	if got := MustFromStrings(North, "1D", "X").TrailingPasses(); got != 0 {
		t.Fatalf("after double: got %d", got)
	}
}

func TestAppendRejectsOutOfTurnIllegalAndAfterEnd(t *testing.T) {
	a := New(North)
	if err := a.Append(East, Pass); !errors.Is(err, ErrOutOfTurn) {
		t.Fatalf("expected ErrOutOfTurn, got %v", err)
	}
	if err := a.Append(North, Bid(1, Hearts)); err != nil {
		t.Fatalf("1H should be legal: %v", err)
	}
	err := a.Append(East, Bid(1, Diamonds))
	var illegal *IllegalCallError
	if !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalCallError, got %v", err)
	}
	if illegal.Seat != East || len(illegal.Legal) == 0 {
		t.Fatalf("illegal call error should carry seat and legal list: %+v", illegal)
	}
	for _, s := range []Seat{East, South, West} {
		if err := a.Append(s, Pass); err != nil {
			t.Fatalf("pass by %s failed: %v", s, err)
		}
	}
	if err := a.Append(North, Pass); !errors.Is(err, ErrAuctionEnded) {
		t.Fatalf("expected ErrAuctionEnded, got %v", err)
	}
}

func TestUndoAndReset(t *testing.T) {
	a := MustFromStrings(South, "1C", "Pass")
	last, err := a.Undo()
	if err != nil || last.Seat != West || !last.Call.IsPass() {
		t.Fatalf("unexpected undo result %+v err=%v", last, err)
	}
	if a.NextSeat() != West {
		t.Fatalf("West should be on turn again")
	}
	a.Reset(East)
	if a.Len() != 0 || a.NextSeat() != East {
		t.Fatalf("reset should clear history and move the dealer")
	}
	if _, err := a.Undo(); !errors.Is(err, ErrEmptyAuction) {
		t.Fatalf("expected ErrEmptyAuction, got %v", err)
	}
}

func TestDeriveRole(t *testing.T) {
	a := MustFromStrings(North, "Pass", "Pass", "1NT", "Pass")
	if got := DeriveRole(a, South); got != RoleOpener {
		t.Fatalf("South opened, got %s", got)
	}
	if got := DeriveRole(a, North); got != RoleNone {
		t.Fatalf("North has only passed, got %s", got)
	}
	if got := DeriveRole(a, East); got != RoleNone {
		t.Fatalf("East has only passed, got %s", got)
	}

	a = MustFromStrings(North, "1D", "1S", "2C")
	if got := DeriveRole(a, South); got != RoleResponder {
		t.Fatalf("South responded to partner, got %s", got)
	}
	if got := DeriveRole(a, East); got != RoleOvercaller {
		t.Fatalf("East overcalled, got %s", got)
	}
	if got := DeriveRole(New(North), North); got != RoleNone {
		t.Fatalf("empty auction, got %s", got)
	}
}

func TestAnalyzeDetectsInterference(t *testing.T) {
	a := MustFromStrings(North, "1NT", "2H")
	ctx := Analyze(a, South)
	if !ctx.Interference || ctx.InterferenceEntry == nil || ctx.InterferenceEntry.Seat != East {
		t.Fatalf("expected interference by East, got %+v", ctx)
	}

	a = MustFromStrings(North, "1NT", "Pass")
	if ctx := Analyze(a, South); ctx.Interference || ctx.OpponentsOpened {
		t.Fatalf("quiet auction flagged: %+v", ctx)
	}

	a = MustFromStrings(North, "Pass", "1S")
	if ctx := Analyze(a, South); !ctx.OpponentsOpened {
		t.Fatalf("East opened, South should see opponents opened")
	}
}
