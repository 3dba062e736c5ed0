package system

import (
	"fmt"
	"sort"
	"strings"
)

// PromptText renders the system as plain text for an external advisor:
// opening structure, response structure and the convention glossary.
func (s *System) PromptText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "BIDDING SYSTEM: %s\n", s.Title)
	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n", s.Description)
	}

	b.WriteString("\nOPENING STRUCTURE:\n")
	for _, r := range s.Openings {
		writeRuleLine(&b, r)
	}

	b.WriteString("\nRESPONSES:\n")
	for _, opening := range s.ResponseOpenings() {
		fmt.Fprintf(&b, "After %s:\n", opening)
		for _, r := range s.Responses[opening] {
			b.WriteString("  ")
			writeRuleLine(&b, r)
		}
	}

	if len(s.Conventions) > 0 {
		b.WriteString("\nCONVENTIONS:\n")
		names := make([]string, 0, len(s.Conventions))
		for name := range s.Conventions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "• %s: %s\n", name, s.Conventions[name])
		}
	}
	return b.String()
}

func writeRuleLine(b *strings.Builder, r Rule) {
	fmt.Fprintf(b, "• %s = %s", r.Call, r.TriggerText())
	if r.Description != "" {
		fmt.Fprintf(b, " (%s)", r.Description)
	}
	if r.Convention != "" {
		fmt.Fprintf(b, " [%s]", r.Convention)
	}
	if r.Forcing {
		b.WriteString(" forcing")
	}
	b.WriteString("\n")
}
