// Package dag builds and walks the component dependency graph.
//
// A Graph owns one record per component, created lazily the first time a
// name is seen and addressed by a stable index. Walking a component computes
// its direct dependencies once, descends depth-first through production and
// then test-only dependencies, assigns levelization numbers and records every
// cycle closed by the traversal with each of its participants.
package dag

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/levelcheck/internal/component"
	"github.com/leapstack-labs/levelcheck/internal/include"
)

// State is the traversal state of a component.
type State int

// Traversal states. A component moves Unvisited -> Visiting -> Visited
// exactly once per run, or ends in Failed when its subtree could not be read.
const (
	Unvisited State = iota
	Visiting
	Visited
	Failed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case Visiting:
		return "visiting"
	case Visited:
		return "visited"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolver returns the source files of a component.
type Resolver interface {
	Resolve(name string) (component.Files, error)
}

// Extractor returns the component references made by one file.
type Extractor interface {
	Extract(path, self string) ([]include.Ref, error)
}

// Component is the analysis record of one component.
type Component struct {
	// Name is the unique, package-prefixed component name.
	Name string
	// Index is the component's stable position in its graph.
	Index int

	// ProductionDeps are referenced from the interface or implementation.
	ProductionDeps []string
	// TestOnlyDeps are referenced only for testing.
	TestOnlyDeps []string
	// ExcessTestDeps are test driver dependencies that were not declared
	// or annotated by the interface or implementation.
	ExcessTestDeps []string
	// FalseTestDeps are annotated "for testing only" but are also genuine
	// production dependencies.
	FalseTestDeps []string

	// ComponentLevel is the longest production dependency chain, counting
	// this component.
	ComponentLevel int
	// TestOnlyLevel additionally counts the test driver's dependencies.
	TestOnlyLevel int

	ProductionCycles CycleSet
	TestOnlyCycles   CycleSet

	State State
	// Err is set when State is Failed.
	Err error

	computed bool
	prodIdx  []int
	testIdx  []int
}

// LevelInverted reports whether the test driver sits at a higher level than
// the component itself.
func (c *Component) LevelInverted() bool {
	return c.ComponentLevel < c.TestOnlyLevel
}

// Options configures a Graph.
type Options struct {
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Graph is the component registry for one run over one package.
type Graph struct {
	resolver  Resolver
	extractor Extractor
	logger    *slog.Logger

	nodes []*Component
	index map[string]int
}

// NewGraph creates an empty graph that reads components through resolver
// and extractor.
func NewGraph(resolver Resolver, extractor Extractor, opts Options) *Graph {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Graph{
		resolver:  resolver,
		extractor: extractor,
		logger:    logger,
		index:     make(map[string]int),
	}
}

// Component returns the record for name, if it has been seen.
func (g *Graph) Component(name string) (*Component, bool) {
	idx, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.nodes[idx], true
}

// Components returns every record in the graph, sorted by name.
func (g *Graph) Components() []*Component {
	out := make([]*Component, len(g.nodes))
	copy(out, g.nodes)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of components in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// node returns the index of name, creating its record on first use.
func (g *Graph) node(name string) int {
	if idx, ok := g.index[name]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, &Component{Name: name, Index: idx})
	g.index[name] = idx
	return idx
}

// Analyze walks the named component and everything it depends on. The
// returned record is complete unless an error is returned.
func (g *Graph) Analyze(name string) (*Component, error) {
	idx := g.node(name)
	if err := g.visit(idx, nil); err != nil {
		return g.nodes[idx], fmt.Errorf("analyze %s: %w", name, err)
	}
	return g.nodes[idx], nil
}

// set is a string set with sorted extraction.
type set map[string]bool

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
