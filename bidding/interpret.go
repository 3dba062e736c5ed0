package bidding

import (
	"fmt"

	"bridge-lite/auction"
	"bridge-lite/system"
)

// Interpret explains every call of the auction from the system tables. Calls
// the tables do not describe get a generic label.
func (e *Engine) Interpret(a *auction.Auction) []Meaning {
	entries := a.Entries()
	out := make([]Meaning, 0, len(entries))

	var (
		opening    *auction.Entry
		response   *auction.Entry
		disturbed  bool
		openerNext bool
	)
	for i := range entries {
		en := entries[i]
		m := Meaning{Index: en.Index, Seat: en.Seat, Call: en.Call}

		switch {
		case en.Call.IsPass():
			m.Meaning = "Pass"
		case opening == nil:
			opening = &entries[i]
			m.Meaning = "Opening bid"
			if r, ok := e.sys.Opening(en.Call); ok {
				m.Meaning = describe(r)
			}
		case !en.Seat.SameSide(opening.Seat):
			disturbed = true
			m.Meaning = describeCompetitive(en.Call)
		case en.Seat == opening.Seat.Partner() && response == nil:
			response = &entries[i]
			openerNext = en.Call.IsBid()
			m.Meaning = "Response"
			if r, ok := findRule(e.sys.ResponsesTo(opening.Call), en.Call); ok && !disturbed {
				m.Meaning = describe(r)
			}
		case en.Seat == opening.Seat && openerNext:
			openerNext = false
			m.Meaning = "Rebid"
			rules, _ := e.sys.Rebids(system.SequenceKey{Opening: opening.Call, Response: response.Call})
			if r, ok := findRule(rules, en.Call); ok && !disturbed {
				m.Meaning = describe(r)
			}
		default:
			m.Meaning = "Natural"
		}
		out = append(out, m)
	}
	return out
}

// findRule returns the most preferred rule bidding c.
func findRule(rules []system.Rule, c auction.Call) (system.Rule, bool) {
	var best system.Rule
	found := false
	for _, r := range rules {
		if r.Call != c {
			continue
		}
		if !found || r.Priority < best.Priority {
			best, found = r, true
		}
	}
	return best, found
}

func describe(r system.Rule) string {
	text := r.Description
	if text == "" {
		text = r.Call.String()
	}
	if trig := r.TriggerText(); trig != "" {
		text = fmt.Sprintf("%s (%s)", text, trig)
	}
	if r.Convention != "" {
		text = r.Convention + ": " + text
	}
	if r.Forcing {
		text += ", forcing"
	}
	return text
}

func describeCompetitive(c auction.Call) string {
	switch c.Kind {
	case auction.CallDouble:
		return "Double"
	case auction.CallRedouble:
		return "Redouble"
	}
	return "Overcall"
}
