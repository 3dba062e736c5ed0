package system

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bridge-lite/auction"
	"bridge-lite/card"
)

// File layout of a system definition. Everything is kept as strings here and
// converted once by compile so evaluation never sees unchecked input.
type fileSystem struct {
	Name          string                `yaml:"name"`
	Title         string                `yaml:"title"`
	Description   string                `yaml:"description"`
	MinorTiebreak fileTiebreak          `yaml:"minor_tiebreak"`
	Conventions   map[string]string     `yaml:"conventions"`
	Openings      []fileRule            `yaml:"openings"`
	Responses     map[string][]fileRule `yaml:"responses"`
	Rebids        map[string][]fileRule `yaml:"rebids"`
}

type fileTiebreak struct {
	ThreeThree string `yaml:"three_three"`
	FourFour   string `yaml:"four_four"`
}

type fileRule struct {
	Call        string         `yaml:"call"`
	Priority    int            `yaml:"priority"`
	Convention  string         `yaml:"convention"`
	Description string         `yaml:"description"`
	Trigger     string         `yaml:"trigger"`
	Forcing     bool           `yaml:"forcing"`
	When        fileConditions `yaml:"when"`
}

type fileConditions struct {
	MinHCP        *int           `yaml:"min_hcp"`
	MaxHCP        *int           `yaml:"max_hcp"`
	MinLength     map[string]int `yaml:"min_length"`
	MaxLength     map[string]int `yaml:"max_length"`
	Balanced      *bool          `yaml:"balanced"`
	ShortIn       []string       `yaml:"short_in"`
	FourCardMajor *bool          `yaml:"four_card_major"`
	FiveCardMajor *bool          `yaml:"five_card_major"`
	Support       *fileSupport   `yaml:"support"`
	MinAces       *int           `yaml:"min_aces"`
	MaxAces       *int           `yaml:"max_aces"`
}

type fileSupport struct {
	Suit string `yaml:"suit"`
	Min  *int   `yaml:"min"`
	Max  *int   `yaml:"max"`
}

// Parse decodes and validates a YAML system definition.
func Parse(data []byte) (*System, error) {
	var raw fileSystem
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse system yaml: %w", err)
	}
	return compile(raw)
}

type compiler struct {
	name        string
	conventions map[string]string
}

func (c *compiler) errorf(path, format string, args ...any) error {
	return &ConfigError{System: c.name, Path: path, Message: fmt.Sprintf(format, args...)}
}

func compile(raw fileSystem) (*System, error) {
	name := strings.ToLower(strings.TrimSpace(raw.Name))
	c := &compiler{name: name, conventions: raw.Conventions}
	if name == "" {
		return nil, c.errorf("name", "system name is required")
	}
	if len(raw.Openings) == 0 {
		return nil, c.errorf("openings", "opening table is empty")
	}

	sys := &System{
		Name:        name,
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Conventions: make(map[string]string, len(raw.Conventions)),
		Responses:   make(map[auction.Call][]Rule, len(raw.Responses)),
		rebids:      make(map[SequenceKey][]Rule, len(raw.Rebids)),
	}
	if sys.Title == "" {
		sys.Title = name
	}
	for k, v := range raw.Conventions {
		sys.Conventions[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	tb, err := c.tiebreak(raw.MinorTiebreak)
	if err != nil {
		return nil, err
	}
	sys.MinorTiebreak = tb

	seenOpening := make(map[auction.Call]struct{}, len(raw.Openings))
	for i, fr := range raw.Openings {
		path := fmt.Sprintf("openings[%d]", i)
		rule, err := c.rule(path, fr, nil, false)
		if err != nil {
			return nil, err
		}
		if _, dup := seenOpening[rule.Call]; dup {
			return nil, c.errorf(path, "duplicate opening %s", rule.Call)
		}
		seenOpening[rule.Call] = struct{}{}
		sys.Openings = append(sys.Openings, rule)
	}

	for key, list := range raw.Responses {
		opening, err := auction.ParseCall(key)
		if err != nil || !opening.IsBid() {
			return nil, c.errorf("responses."+key, "response table key must be a contract call")
		}
		if _, dup := sys.Responses[opening]; dup {
			return nil, c.errorf("responses."+key, "duplicate response table for %s", opening)
		}
		fit := suitOf(opening)
		rules := make([]Rule, 0, len(list))
		for i, fr := range list {
			path := fmt.Sprintf("responses.%s[%d]", key, i)
			rule, err := c.rule(path, fr, fit, true)
			if err != nil {
				return nil, err
			}
			if rule.Call.IsBid() && !rule.Call.Higher(opening) {
				return nil, c.errorf(path, "response %s does not outrank opening %s", rule.Call, opening)
			}
			rules = append(rules, rule)
		}
		sys.Responses[opening] = rules
	}

	for rawKey, list := range raw.Rebids {
		key, err := ParseSequenceKey(rawKey)
		if err != nil {
			return nil, c.errorf("rebids."+rawKey, "%v", err)
		}
		if _, dup := sys.rebids[key]; dup {
			return nil, c.errorf("rebids."+rawKey, "duplicate rebid table for %s", key)
		}
		fit := suitOf(key.Response)
		rules := make([]Rule, 0, len(list))
		for i, fr := range list {
			path := fmt.Sprintf("rebids.%s[%d]", rawKey, i)
			rule, err := c.rule(path, fr, fit, true)
			if err != nil {
				return nil, err
			}
			if rule.Call.IsBid() && !rule.Call.Higher(key.Response) {
				return nil, c.errorf(path, "rebid %s does not outrank response %s", rule.Call, key.Response)
			}
			rules = append(rules, rule)
		}
		sys.rebids[key] = rules
	}
	return sys, nil
}

func suitOf(c auction.Call) *card.Suit {
	if s, ok := c.Strain.Suit(); ok {
		return &s
	}
	return nil
}

func (c *compiler) tiebreak(raw fileTiebreak) (MinorTiebreak, error) {
	out := MinorTiebreak{ThreeThree: TiebreakStrength, FourFour: TiebreakStrength}
	if v := strings.ToLower(strings.TrimSpace(raw.ThreeThree)); v != "" {
		out.ThreeThree = TiebreakMode(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.FourFour)); v != "" {
		out.FourFour = TiebreakMode(v)
	}
	if !out.ThreeThree.valid() {
		return out, c.errorf("minor_tiebreak.three_three", "unknown mode %q", out.ThreeThree)
	}
	if !out.FourFour.valid() {
		return out, c.errorf("minor_tiebreak.four_four", "unknown mode %q", out.FourFour)
	}
	return out, nil
}

// rule converts one table entry. fit is the suit support predicates default
// to; supportAllowed is false for openings, which have no partner suit.
func (c *compiler) rule(path string, fr fileRule, fit *card.Suit, supportAllowed bool) (Rule, error) {
	call, err := auction.ParseCall(fr.Call)
	if err != nil {
		return Rule{}, c.errorf(path+".call", "%v", err)
	}
	if call.Kind == auction.CallDouble || call.Kind == auction.CallRedouble {
		return Rule{}, c.errorf(path+".call", "tables hold contract calls and Pass only")
	}
	if fr.Priority < 0 {
		return Rule{}, c.errorf(path+".priority", "priority must be >= 0")
	}
	convention := strings.TrimSpace(fr.Convention)
	if convention != "" {
		if _, ok := c.conventions[convention]; !ok {
			return Rule{}, c.errorf(path+".convention", "convention %q is not declared", convention)
		}
	}
	cond, err := c.conditions(path+".when", fr.When, fit, supportAllowed)
	if err != nil {
		return Rule{}, err
	}
	return Rule{
		Call:        call,
		Priority:    fr.Priority,
		Convention:  convention,
		Description: strings.TrimSpace(fr.Description),
		Trigger:     strings.TrimSpace(fr.Trigger),
		Forcing:     fr.Forcing,
		Conditions:  cond,
	}, nil
}

func (c *compiler) conditions(path string, fc fileConditions, fit *card.Suit, supportAllowed bool) (Conditions, error) {
	out := Conditions{
		MinHCP:        fc.MinHCP,
		MaxHCP:        fc.MaxHCP,
		Balanced:      fc.Balanced,
		FourCardMajor: fc.FourCardMajor,
		FiveCardMajor: fc.FiveCardMajor,
		MinAces:       fc.MinAces,
		MaxAces:       fc.MaxAces,
	}
	if err := c.bounds(path+".hcp", fc.MinHCP, fc.MaxHCP, 0, 37); err != nil {
		return out, err
	}
	if err := c.bounds(path+".aces", fc.MinAces, fc.MaxAces, 0, 4); err != nil {
		return out, err
	}

	var err error
	if out.MinLength, err = c.lengths(path+".min_length", fc.MinLength); err != nil {
		return out, err
	}
	if out.MaxLength, err = c.lengths(path+".max_length", fc.MaxLength); err != nil {
		return out, err
	}
	for s, lo := range out.MinLength {
		if hi, ok := out.MaxLength[s]; ok && lo > hi {
			return out, c.errorf(path, "min_length %s (%d) exceeds max_length (%d)", s, lo, hi)
		}
	}

	for i, raw := range fc.ShortIn {
		s, err := card.ParseSuit(raw)
		if err != nil {
			return out, c.errorf(fmt.Sprintf("%s.short_in[%d]", path, i), "%v", err)
		}
		out.ShortIn = append(out.ShortIn, s)
	}

	if fc.Support != nil {
		if !supportAllowed {
			return out, c.errorf(path+".support", "support needs a partner suit")
		}
		sp := &Support{Min: fc.Support.Min, Max: fc.Support.Max}
		if strings.TrimSpace(fc.Support.Suit) != "" {
			s, err := card.ParseSuit(fc.Support.Suit)
			if err != nil {
				return out, c.errorf(path+".support.suit", "%v", err)
			}
			sp.Suit = &s
		} else if fit == nil {
			return out, c.errorf(path+".support", "no-trump sequence needs an explicit support suit")
		}
		if sp.Min == nil && sp.Max == nil {
			return out, c.errorf(path+".support", "support needs min or max")
		}
		if err := c.bounds(path+".support", sp.Min, sp.Max, 0, 13); err != nil {
			return out, err
		}
		out.Support = sp
	}
	return out, nil
}

func (c *compiler) bounds(path string, lo, hi *int, floor, ceil int) error {
	if lo != nil && (*lo < floor || *lo > ceil) {
		return c.errorf(path, "minimum %d outside [%d,%d]", *lo, floor, ceil)
	}
	if hi != nil && (*hi < floor || *hi > ceil) {
		return c.errorf(path, "maximum %d outside [%d,%d]", *hi, floor, ceil)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return c.errorf(path, "minimum %d exceeds maximum %d", *lo, *hi)
	}
	return nil
}

func (c *compiler) lengths(path string, raw map[string]int) (map[card.Suit]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[card.Suit]int, len(raw))
	for _, k := range keys {
		s, err := card.ParseSuit(k)
		if err != nil {
			return nil, c.errorf(path+"."+k, "%v", err)
		}
		n := raw[k]
		if n < 0 || n > 13 {
			return nil, c.errorf(path+"."+k, "length %d outside [0,13]", n)
		}
		out[s] = n
	}
	return out, nil
}
