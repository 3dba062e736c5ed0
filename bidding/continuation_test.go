package bidding

import (
	"strings"
	"testing"

	"bridge-lite/auction"
)

func TestContinuationsFollowTheResponse(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	a := auction.MustFromStrings(auction.North, "1NT", "P")
	res := mustMatch(t, e, facts(t, "KS 8S 6S AH JH 9H 5H 7D 5D 4D 8C 3C 2C"), a, auction.South)
	if res.Call.String() != "2C" || res.Rule.Convention != "Stayman" {
		t.Fatalf("expected Stayman, got %+v", res)
	}
	got := e.Continuations(res)
	var calls []string
	for _, c := range got {
		if c.Sequence != "1NT-2C" {
			t.Fatalf("unexpected sequence %q", c.Sequence)
		}
		if c.Trigger == "" {
			t.Fatalf("continuation %s has no trigger", c.Call)
		}
		calls = append(calls, c.Call.String())
	}
	if strings.Join(calls, " ") != "2H 2S 2D" {
		t.Fatalf("unexpected continuations %v", calls)
	}
}

func TestContinuationsFallBackToSystemAndCap(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	a := auction.MustFromStrings(auction.North, "1S", "P")
	res := mustMatch(t, e, facts(t, "KS QS 8S 5S AH 8H 6H 3H AD 9D 7D 4D 2C"), a, auction.South)
	if res.Call.String() != "4C" || res.Rule.Convention != "Splinter" {
		t.Fatalf("expected splinter, got %+v", res)
	}
	got := e.Continuations(res)
	if len(got) != MaxContinuations {
		t.Fatalf("expected %d continuations, got %d", MaxContinuations, len(got))
	}
	if got[0].Sequence != "1H" || got[0].Call.String() != "3S" {
		t.Fatalf("system-wide scan should start at the lowest opening: %+v", got[0])
	}
	seen := map[string]bool{}
	for _, c := range got {
		id := c.Call.String() + "|" + c.Sequence
		if seen[id] {
			t.Fatalf("duplicate continuation %s", id)
		}
		seen[id] = true
	}
}

func TestContinuationsNeedAConvention(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	res := mustMatch(t, e, facts(t, "AS KS 8S 6S 3S QH 9H 5H 4H KD 7D 8C 2C"), auction.New(auction.North), auction.North)
	if got := e.Continuations(res); got != nil {
		t.Fatalf("natural 1S should carry no continuations, got %v", got)
	}
}

func TestConventionCalls(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	a := auction.MustFromStrings(auction.North, "1NT", "P")
	calls, covered := e.ConventionCalls(a, auction.South, "Stayman")
	if !covered || len(calls) != 1 || calls[0].String() != "2C" {
		t.Fatalf("unexpected Stayman calls %v covered=%v", calls, covered)
	}
	calls, covered = e.ConventionCalls(a, auction.South, "Splinter")
	if !covered || len(calls) != 0 {
		t.Fatalf("splinter is not available over 1NT: %v", calls)
	}
	if _, covered := e.ConventionCalls(a, auction.South, "Blackwood"); covered {
		t.Fatalf("untabled conventions cannot be checked")
	}
	deep := auction.MustFromStrings(auction.North, "1D", "P", "1H", "P", "1S", "P")
	calls, covered = e.ConventionCalls(deep, auction.South, "Stayman")
	if !covered || len(calls) != 0 {
		t.Fatalf("no table reaches this far: %v covered=%v", calls, covered)
	}
}

func TestInterpretNamesConventions(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	a := auction.MustFromStrings(auction.North, "1NT", "P", "2C", "2S", "P")
	got := e.Interpret(a)
	if len(got) != 5 {
		t.Fatalf("expected 5 meanings, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].Meaning, "15-17 balanced") {
		t.Fatalf("opening meaning = %q", got[0].Meaning)
	}
	if got[1].Meaning != "Pass" {
		t.Fatalf("pass meaning = %q", got[1].Meaning)
	}
	if !strings.HasPrefix(got[2].Meaning, "Stayman: Asks for a four-card major") || !strings.HasSuffix(got[2].Meaning, "forcing") {
		t.Fatalf("Stayman meaning = %q", got[2].Meaning)
	}
	if got[3].Meaning != "Overcall" || got[3].Seat != auction.West {
		t.Fatalf("overcall meaning = %+v", got[3])
	}
}

func TestInterpretRebid(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	a := auction.MustFromStrings(auction.North, "1NT", "P", "2D", "P", "2H")
	got := e.Interpret(a)
	if !strings.HasPrefix(got[4].Meaning, "Jacoby Transfer: Completes the transfer") {
		t.Fatalf("rebid meaning = %q", got[4].Meaning)
	}
}

func TestRebidAccepts(t *testing.T) {
	e := New(loadSystem(t, "sayc"))
	a := auction.MustFromStrings(auction.North, "1S", "P", "2C", "P")
	key, _, ok := e.RebidContext(a, auction.North)
	if !ok {
		t.Fatalf("expected a rebid context")
	}
	f := facts(t, "AS KS 8S 6S 3S QH 9H 5H 4H KD 7D 8C 2C")
	if !e.RebidAccepts(f, key, auction.MustParseCall("2H")) {
		t.Fatalf("2H shows the hearts this hand holds")
	}
	if e.RebidAccepts(f, key, auction.MustParseCall("3NT")) {
		t.Fatalf("3NT needs 18-19 balanced")
	}
}
