package system

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bridge-lite/auction"
	"bridge-lite/card"
	"bridge-lite/hand"
)

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(4)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	return r
}

func TestRegistryServesEmbeddedSystems(t *testing.T) {
	r := newRegistry(t)
	names := r.Names()
	if strings.Join(names, ",") != "acol,sayc" {
		t.Fatalf("unexpected systems: %v", names)
	}
	sys, err := r.Get("SAYC")
	if err != nil {
		t.Fatalf("Get(SAYC) failed: %v", err)
	}
	if sys.Name != "sayc" || len(sys.Openings) == 0 {
		t.Fatalf("unexpected system: %+v", sys)
	}
	again, _ := r.Get("sayc")
	if again != sys {
		t.Fatalf("expected cached system to be reused")
	}
}

func TestRegistryUnknownSystemIsFatal(t *testing.T) {
	r := newRegistry(t)
	_, err := r.Get("precision")
	if !errors.Is(err, ErrUnknownSystem) {
		t.Fatalf("expected ErrUnknownSystem, got %v", err)
	}
}

func TestRegistryRebuildsEvictedSystems(t *testing.T) {
	r, err := NewRegistry(1)
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	a, err := r.Get("acol")
	if err != nil {
		t.Fatalf("Get(acol) failed: %v", err)
	}
	s, err := r.Get("sayc")
	if err != nil {
		t.Fatalf("Get(sayc) failed: %v", err)
	}
	if a.Name != "acol" || s.Name != "sayc" {
		t.Fatalf("wrong systems returned")
	}
}

func TestRegistryLoadDirOverridesByName(t *testing.T) {
	dir := t.TempDir()
	src := `
name: sayc
title: Trimmed
conventions: {}
openings:
  - call: Pass
    when: { max_hcp: 37 }
`
	if err := os.WriteFile(filepath.Join(dir, "sayc.yaml"), []byte(src), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	r := newRegistry(t)
	names, err := r.LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	if len(names) != 1 || names[0] != "sayc" {
		t.Fatalf("unexpected loaded names: %v", names)
	}
	sys, _ := r.Get("sayc")
	if sys.Title != "Trimmed" || len(sys.Openings) != 1 {
		t.Fatalf("override not applied: %+v", sys)
	}
}

func TestRebidsForFailsLoudlyOnMalformedKeys(t *testing.T) {
	sys, err := newRegistry(t).Get("sayc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	rules, err := sys.RebidsFor("1S-2C")
	if err != nil || len(rules) == 0 {
		t.Fatalf("expected 1S-2C rebids, got %d err=%v", len(rules), err)
	}
	if rules, err := sys.RebidsFor("1S-2D"); err != nil || len(rules) != 0 {
		t.Fatalf("well-formed key without table should be empty, got %d err=%v", len(rules), err)
	}
	for _, bad := range []string{"1S", "1S-2C-2H", "1S-X", "2C-1S", "banana"} {
		_, err := sys.RebidsFor(bad)
		var keyErr *SequenceKeyError
		if !errors.As(err, &keyErr) {
			t.Fatalf("RebidsFor(%q) should fail with SequenceKeyError, got %v", bad, err)
		}
	}
}

func TestParseRejectsInvalidTables(t *testing.T) {
	cases := map[string]string{
		"undeclared convention": `
name: x
openings:
  - call: 1NT
    convention: Nope
`,
		"inverted hcp": `
name: x
openings:
  - call: 1NT
    when: { min_hcp: 17, max_hcp: 15 }
`,
		"support on opening": `
name: x
openings:
  - call: 1S
    when: { support: { min: 3 } }
`,
		"no-trump support without suit": `
name: x
openings:
  - call: 1NT
responses:
  1NT:
    - call: 2C
      when: { support: { min: 3 } }
`,
		"double in table": `
name: x
openings:
  - call: X
`,
		"response below opening": `
name: x
openings:
  - call: 1S
responses:
  1S:
    - call: 1H
`,
		"bad tiebreak": `
name: x
minor_tiebreak: { four_four: coinflip }
openings:
  - call: Pass
`,
		"duplicate response table": `
name: x
openings:
  - call: 1NT
responses:
  1N:
    - call: 2C
  1NT:
    - call: 3NT
`,
		"duplicate rebid table": `
name: x
openings:
  - call: 1S
rebids:
  1S-2C:
    - call: 2S
  1s-2c:
    - call: 2H
`,
		"bad rebid key": `
name: x
openings:
  - call: 1S
rebids:
  1S:
    - call: 2S
`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
	if _, err := Parse([]byte("name: x\nopenings: []\nbogus: 1\n")); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}

func TestConditionsMatchUsesFitSuitUnlessOverridden(t *testing.T) {
	cards, err := card.ParseHandString("AS KS 8S 6S QH JH 5H 4H AD TD 7D QC 2C")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f, err := hand.Compute(cards)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	four := 4
	spade := card.Spade
	club := card.Club
	cond := Conditions{Support: &Support{Min: &four}}

	if !cond.Match(f, &spade) {
		t.Fatalf("four spades should satisfy support with spade fit")
	}
	if cond.Match(f, &club) {
		t.Fatalf("two clubs should not satisfy support with club fit")
	}
	if cond.Match(f, nil) {
		t.Fatalf("support without a fit suit should not match")
	}
	cond.Support.Suit = &spade
	if !cond.Match(f, &club) {
		t.Fatalf("explicit reference suit should override the implied fit")
	}

	yes := true
	if (Conditions{FiveCardMajor: &yes}).Match(f, nil) {
		t.Fatalf("hand has no five-card major")
	}
	if !(Conditions{ShortIn: nil, FourCardMajor: &yes}).Match(f, nil) {
		t.Fatalf("hand has a four-card major")
	}
}

func TestConditionsSummary(t *testing.T) {
	sys, err := newRegistry(t).Get("sayc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	rules := sys.ResponsesTo(auction.Bid(1, auction.NoTrump))
	var stayman Rule
	for _, r := range rules {
		if r.Convention == "Stayman" {
			stayman = r
		}
	}
	if got := stayman.TriggerText(); got != "8+ HCP, 4-card major" {
		t.Fatalf("Stayman trigger = %q", got)
	}
	open, ok := sys.Opening(auction.Bid(1, auction.NoTrump))
	if !ok || open.TriggerText() != "15-17 HCP, balanced" {
		t.Fatalf("1NT trigger = %q", open.TriggerText())
	}
}

func TestPromptTextListsStructure(t *testing.T) {
	sys, err := newRegistry(t).Get("sayc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	text := sys.PromptText()
	for _, want := range []string{"OPENING STRUCTURE", "• 1NT = 15-17 HCP, balanced", "After 1NT:", "• Stayman:"} {
		if !strings.Contains(text, want) {
			t.Fatalf("prompt text missing %q:\n%s", want, text)
		}
	}
}

func TestNormalizeConvention(t *testing.T) {
	if NormalizeConvention("Jacoby Transfers") != NormalizeConvention("jacoby-transfer") {
		t.Fatalf("plural and hyphenated forms should fold together")
	}
	sys, err := newRegistry(t).Get("sayc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	name, _, ok := sys.Convention("fourth suit forcing")
	if !ok || name != "Fourth Suit Forcing" {
		t.Fatalf("convention lookup failed: %q %v", name, ok)
	}
}
