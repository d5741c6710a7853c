// Package intent classifies a natural-language command into the tool
// groups it will need. It is a best-effort keyword heuristic, not a
// guarantee: downstream stages must tolerate under- and
// over-classification, which the capability-escalation handshake in
// the runtime exists to correct.
package intent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taskgrid/copilot/pkg/catalog"
)

// Classification is the once-per-command intent result. It is
// immutable after creation; escalation merges a re-derived
// classification instead of mutating this one.
type Classification struct {
	Groups     []catalog.Group
	Confidence float64
	Entities   []string
	Actions    []string
	Reasoning  string
}

// HasGroup reports whether the classification includes a group.
func (c Classification) HasGroup(g catalog.Group) bool {
	for _, have := range c.Groups {
		if have == g {
			return true
		}
	}
	return false
}

// HasWriteAction reports whether any detected action mutates data.
func (c Classification) HasWriteAction() bool {
	for _, a := range c.Actions {
		switch catalog.Action(a) {
		case catalog.ActionCreate, catalog.ActionUpdate, catalog.ActionDelete, catalog.ActionOrganize:
			return true
		}
	}
	return false
}

// Merge unions another classification into a new value, keeping the
// higher confidence. Used by the escalation handshake.
func (c Classification) Merge(other Classification) Classification {
	merged := Classification{
		Confidence: c.Confidence,
		Reasoning:  c.Reasoning + "; " + other.Reasoning,
	}
	if other.Confidence > merged.Confidence {
		merged.Confidence = other.Confidence
	}
	merged.Groups = unionGroups(c.Groups, other.Groups)
	merged.Entities = unionStrings(c.Entities, other.Entities)
	merged.Actions = unionStrings(c.Actions, other.Actions)
	return merged
}

// Classify derives the tool groups a command needs.
func Classify(command string) Classification {
	lower := strings.ToLower(strings.TrimSpace(command))

	// Compound phrasings short-circuit with high confidence; first
	// match wins.
	for _, sp := range specialPatterns {
		if sp.re.MatchString(lower) {
			return Classification{
				Groups:     append([]catalog.Group{}, sp.groups...),
				Confidence: sp.confidence,
				Actions:    append([]string{}, sp.actions...),
				Reasoning:  sp.reasoning,
			}
		}
	}

	entities := detectEntities(lower)
	actions := detectActions(lower)

	// A pure lookup gets the smallest safe capability set: the core
	// tools can already search every entity.
	if len(actions) > 0 && allSearch(actions) && !hasWritePhrasing(lower) {
		return Classification{
			Groups:     []catalog.Group{catalog.GroupCore},
			Confidence: 0.85,
			Entities:   entities,
			Actions:    actions,
			Reasoning:  "search-only command, core tools suffice",
		}
	}

	groups := []catalog.Group{catalog.GroupCore}
	for _, entity := range entities {
		if entity == "project" && projectIsIncidental(lower) {
			continue
		}
		if g, ok := catalog.GroupForEntity(entity); ok && g != catalog.GroupCore {
			groups = appendGroup(groups, g)
		}
	}

	confidence := 0.5 + 0.25*float64(len(entities)) + 0.15*float64(len(actions))
	if confidence > 1.0 {
		confidence = 1.0
	}

	return Classification{
		Groups:     groups,
		Confidence: confidence,
		Entities:   entities,
		Actions:    actions,
		Reasoning:  fmt.Sprintf("entities %v, actions %v", entities, actions),
	}
}

// MentionsEntity reports whether the command's literal text contains
// an entity keyword, used to re-expand tools after narrow-to-intent.
func MentionsEntity(command, entity string) bool {
	lower := strings.ToLower(command)
	if p, ok := entityPatterns[entity]; ok {
		return p.MatchString(lower)
	}
	return false
}

func detectEntities(lower string) []string {
	var entities []string
	for _, name := range entityOrder {
		if entityPatterns[name].MatchString(lower) {
			entities = append(entities, name)
		}
	}
	return entities
}

func detectActions(lower string) []string {
	var actions []string
	for _, row := range actionPatterns {
		if row.re.MatchString(lower) {
			actions = append(actions, string(row.action))
		}
	}
	return actions
}

func allSearch(actions []string) bool {
	for _, a := range actions {
		if a != string(catalog.ActionSearch) {
			return false
		}
	}
	return true
}

func appendGroup(groups []catalog.Group, g catalog.Group) []catalog.Group {
	for _, have := range groups {
		if have == g {
			return groups
		}
	}
	return append(groups, g)
}

func unionGroups(a, b []catalog.Group) []catalog.Group {
	out := append([]catalog.Group{}, a...)
	for _, g := range b {
		out = appendGroup(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
