package dag

import (
	"sort"
	"strings"
)

// Link is one component of a cycle and the kind of edge leading from it to
// the next component.
type Link struct {
	Component string `json:"component" yaml:"component"`
	TestOnly  bool   `json:"test_only" yaml:"test_only"`
}

// Cycle is a closed walk through the dependency graph. The last link leads
// back to the first.
type Cycle []Link

// HasTestOnlyEdge reports whether any edge of the cycle is test-only.
func (c Cycle) HasTestOnlyEdge() bool {
	for _, l := range c {
		if l.TestOnly {
			return true
		}
	}
	return false
}

// Rotate returns a copy of the cycle starting at position i.
func (c Cycle) Rotate(i int) Cycle {
	out := make(Cycle, 0, len(c))
	out = append(out, c[i:]...)
	return append(out, c[:i]...)
}

// Names returns the component names of the cycle, closed by repeating the
// first name.
func (c Cycle) Names() []string {
	if len(c) == 0 {
		return nil
	}
	names := make([]string, 0, len(c)+1)
	for _, l := range c {
		names = append(names, l.Component)
	}
	return append(names, c[0].Component)
}

// String renders the cycle as "a -> b T-> c -> a", where "T->" marks a
// test-only edge.
func (c Cycle) String() string {
	if len(c) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range c {
		b.WriteString(l.Component)
		if l.TestOnly {
			b.WriteString(" T-> ")
		} else {
			b.WriteString(" -> ")
		}
	}
	b.WriteString(c[0].Component)
	return b.String()
}

// CycleSet holds distinct cycles. The zero value is empty and ready to use.
type CycleSet struct {
	seen   map[string]bool
	cycles []Cycle
}

// Add inserts c unless an identical cycle is already present.
func (s *CycleSet) Add(c Cycle) bool {
	key := c.String()
	if s.seen[key] {
		return false
	}
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	s.seen[key] = true
	s.cycles = append(s.cycles, c)
	return true
}

// Len returns the number of cycles in the set.
func (s *CycleSet) Len() int {
	return len(s.cycles)
}

// Cycles returns the cycles sorted by their rendering.
func (s *CycleSet) Cycles() []Cycle {
	out := make([]Cycle, len(s.cycles))
	copy(out, s.cycles)
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}
