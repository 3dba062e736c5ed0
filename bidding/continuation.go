package bidding

import (
	"bridge-lite/auction"
	"bridge-lite/system"
)

// MaxContinuations caps the guidance lines per convention.
const MaxContinuations = 6

// Continuations lists what comes next after a conventional call: the table
// entries tagged with the same convention in the context the call leads to,
// or the whole system when that context has none.
func (e *Engine) Continuations(res Result) []Continuation {
	if !res.Matched() || res.Rule == nil || res.Rule.Convention == "" {
		return nil
	}
	conv := res.Rule.Convention

	var t tracker
	switch res.Phase {
	case PhaseOpening:
		t.addTable(res.Call.String(), e.sys.ResponsesTo(res.Call), conv)
	case PhaseResponse:
		if res.Call.IsBid() {
			key := system.SequenceKey{Opening: res.Key.Opening, Response: res.Call}
			rules, _ := e.sys.Rebids(key)
			t.addTable(key.String(), rules, conv)
		}
	case PhaseRebid:
		rules, _ := e.sys.Rebids(res.Key)
		t.addTable(res.Key.String(), rules, conv)
	}
	if len(t.out) == 0 {
		e.systemWide(&t, conv)
	}
	return t.out
}

func (e *Engine) systemWide(t *tracker, conv string) {
	for _, opening := range e.sys.ResponseOpenings() {
		t.addTable(opening.String(), e.sys.ResponsesTo(opening), conv)
	}
	for _, key := range e.sys.RebidKeys() {
		rules, _ := e.sys.Rebids(key)
		t.addTable(key.String(), rules, conv)
	}
}

type tracker struct {
	out  []Continuation
	seen map[string]bool
}

func (t *tracker) addTable(sequence string, rules []system.Rule, conv string) {
	for _, r := range rules {
		if len(t.out) >= MaxContinuations {
			return
		}
		if r.Convention != conv {
			continue
		}
		id := r.Call.String() + "|" + sequence
		if t.seen[id] {
			continue
		}
		if t.seen == nil {
			t.seen = make(map[string]bool)
		}
		t.seen[id] = true
		t.out = append(t.out, Continuation{Call: r.Call, Trigger: r.TriggerText(), Sequence: sequence})
	}
}

// ConventionCalls returns the calls tagged with convention in the table that
// governs seat's next call. A seat past the tables, or facing interference,
// reaches no table and gets no calls. covered is false only when the
// convention is not tabled anywhere in the system, in which case the tables
// say nothing about a claim.
func (e *Engine) ConventionCalls(a *auction.Auction, seat auction.Seat, convention string) (calls []auction.Call, covered bool) {
	if !e.tabled(convention) {
		return nil, false
	}
	ctx := auction.Analyze(a, seat)
	if ctx.Interference {
		return nil, true
	}
	var rules []system.Rule
	switch phaseOf(ctx) {
	case PhaseOpening:
		rules = e.sys.Openings
	case PhaseResponse:
		rules = e.sys.ResponsesTo(ctx.Opening.Call)
	case PhaseRebid:
		rules, _ = e.sys.Rebids(system.SequenceKey{Opening: ctx.Opening.Call, Response: ctx.PartnerCalls[0].Call})
	}
	for _, r := range rules {
		if r.Convention == convention {
			calls = append(calls, r.Call)
		}
	}
	return calls, true
}

func (e *Engine) tabled(convention string) bool {
	has := func(rules []system.Rule) bool {
		for _, r := range rules {
			if r.Convention == convention {
				return true
			}
		}
		return false
	}
	if has(e.sys.Openings) {
		return true
	}
	for _, rules := range e.sys.Responses {
		if has(rules) {
			return true
		}
	}
	for _, key := range e.sys.RebidKeys() {
		if rules, _ := e.sys.Rebids(key); has(rules) {
			return true
		}
	}
	return false
}
