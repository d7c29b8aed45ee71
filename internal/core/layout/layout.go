// Package layout deterministically arranges a topic snapshot into display lines.
// It is rendering-agnostic: callers turn Lines into chat components, terminal
// rows, or JSON however they like.
package layout

import (
	"fmt"
	"sort"
)

// Item is the layout engine's view of a topic
type Item struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
	// Line/Col of (0,0) means automatic flow placement; any other Line pins
	// the item to that display row at the given column slot
	Line int `json:"line"`
	Col  int `json:"col"`
	// Incomplete items (empty content) are never shown
	Incomplete bool `json:"-"`
}

// Kind discriminates the emitted line types
type Kind uint8

const (
	// KindTopics is a row of topics
	KindTopics Kind = iota
	// KindHeader is a separator announcing a non-default group
	KindHeader
	// KindBlank is the terminating empty line
	KindBlank
)

// Line is one emitted display row
type Line struct {
	Kind  Kind   `json:"kind"`
	Group string `json:"group,omitempty"`
	Items []Item `json:"items,omitempty"`
}

// Options configures an arrangement
type Options struct {
	// DefaultGroup is always visible and always ordered first
	DefaultGroup string
	// MaxPerLine caps auto-flow rows; pinned rows are never split
	MaxPerLine int
	// CanSee gates non-default groups; nil hides all non-default groups
	CanSee func(group string) bool
}

// Arrange partitions items into visible groups and lays each group out:
// pinned rows first (ascending line, then column), then auto-flow packing.
// The same inputs always produce the same lines.
func Arrange(items []Item, opt Options) []Line {
	if opt.MaxPerLine <= 0 {
		panic(fmt.Sprintf("layout: MaxPerLine must be positive, got %d", opt.MaxPerLine))
	}

	// memoized visibility so the predicate runs once per group
	seen := map[string]bool{}
	visible := func(group string) bool {
		if group == opt.DefaultGroup {
			return true
		}
		if v, ok := seen[group]; ok {
			return v
		}
		v := opt.CanSee != nil && opt.CanSee(group)
		seen[group] = v
		return v
	}

	byGroup := map[string][]Item{}
	for _, it := range items {
		if it.Incomplete || !visible(it.Group) {
			continue
		}
		byGroup[it.Group] = append(byGroup[it.Group], it)
	}

	groups := make([]string, 0, len(byGroup))
	for g := range byGroup {
		groups = append(groups, g)
	}
	// default group first, the rest in ascending lexicographic order
	sort.Slice(groups, func(i, j int) bool {
		if groups[i] == opt.DefaultGroup {
			return true
		}
		if groups[j] == opt.DefaultGroup {
			return false
		}
		return groups[i] < groups[j]
	})

	var out []Line
	for _, g := range groups {
		if g != opt.DefaultGroup {
			out = append(out, Line{Kind: KindHeader, Group: g})
		}
		out = append(out, arrangeGroup(g, byGroup[g], opt.MaxPerLine)...)
	}

	return append(out, Line{Kind: KindBlank})
}

// arrangeGroup emits pinned rows then packs the auto-flow remainder
func arrangeGroup(group string, items []Item, maxPerLine int) []Line {
	var auto []Item
	pinned := map[int][]Item{}
	for _, it := range items {
		if it.Line == 0 {
			auto = append(auto, it)
		} else {
			pinned[it.Line] = append(pinned[it.Line], it)
		}
	}

	rows := make([]int, 0, len(pinned))
	for row := range pinned {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	var out []Line
	for _, row := range rows {
		cols := pinned[row]
		sort.SliceStable(cols, func(i, j int) bool { return cols[i].Col < cols[j].Col })
		// one emitted row per distinct pinned line; never merged with flow
		out = append(out, Line{Kind: KindTopics, Group: group, Items: cols})
	}

	for len(auto) > 0 {
		n := min(maxPerLine, len(auto))
		out = append(out, Line{Kind: KindTopics, Group: group, Items: auto[:n]})
		auto = auto[n:]
	}

	return out
}
