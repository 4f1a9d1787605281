package engine

import (
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/levelcheck/internal/dag"
	"github.com/leapstack-labs/levelcheck/internal/include"
)

// FileGraph builds a plain adjacency map from the given source files. Each
// file contributes to the node named by its base name up to the first dot,
// with an edge to every header it includes. No package scoping or test
// classification is applied.
func (e *Engine) FileGraph(paths []string) (map[string][]string, error) {
	extractor, err := include.NewUnscoped(include.Options{
		TestMarker: e.testMarker,
		Cache:      e.cache,
		Logger:     e.logger,
	})
	if err != nil {
		return nil, err
	}

	edges := make(map[string]map[string]bool)
	for _, path := range paths {
		node, _, _ := strings.Cut(filepath.Base(path), ".")
		if edges[node] == nil {
			edges[node] = make(map[string]bool)
		}

		names, err := extractor.Names(path, "")
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			edges[node][name] = true
		}
	}

	adjacency := make(map[string][]string, len(edges))
	for node, targets := range edges {
		adjacency[node] = make([]string, 0, len(targets))
		for t := range targets {
			adjacency[node] = append(adjacency[node], t)
		}
	}
	return adjacency, nil
}

// Cycles returns the normalized cycles among the given source files.
func (e *Engine) Cycles(paths []string) ([][]string, error) {
	adjacency, err := e.FileGraph(paths)
	if err != nil {
		return nil, err
	}
	cycles := dag.FindCycles(adjacency)
	e.logger.Debug("searched for cycles", "files", len(paths), "nodes", len(adjacency), "cycles", len(cycles))
	return cycles, nil
}
