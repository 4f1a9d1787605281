package dag

import "fmt"

// step is one hop of the traversal path: the component being left and
// whether the edge taken out of it is test-only.
type step struct {
	node     int
	testOnly bool
}

// visit walks the component at idx. path leads from the traversal root to
// the caller.
func (g *Graph) visit(idx int, path []step) error {
	c := g.nodes[idx]

	switch c.State {
	case Visited:
		return nil
	case Failed:
		return c.Err
	case Visiting:
		g.recordCycle(idx, path)
		return nil
	}

	if err := g.ComputeDirectDeps(c); err != nil {
		return g.fail(c, err)
	}

	c.State = Visiting

	// A component's level is at least one more than the test driver level of
	// each dependency, even along production edges, so that level
	// differences only reflect this component's own test driver.
	level := 1
	prodPath := extend(path, step{node: idx})
	for _, dep := range c.prodIdx {
		if err := g.visit(dep, prodPath); err != nil {
			return g.fail(c, fmt.Errorf("dependency %s: %w", g.nodes[dep].Name, err))
		}
		level = max(level, g.nodes[dep].TestOnlyLevel+1)
	}
	c.ComponentLevel = level

	testPath := extend(path, step{node: idx, testOnly: true})
	for _, dep := range c.testIdx {
		if err := g.visit(dep, testPath); err != nil {
			return g.fail(c, fmt.Errorf("test dependency %s: %w", g.nodes[dep].Name, err))
		}
		level = max(level, g.nodes[dep].TestOnlyLevel+1)
	}
	c.TestOnlyLevel = level

	c.State = Visited
	return nil
}

func (g *Graph) fail(c *Component, err error) error {
	c.State = Failed
	c.Err = err
	g.logger.Debug("component failed", "component", c.Name, "error", err)
	return err
}

// extend returns a copy of path with s appended, never sharing the
// caller's backing array.
func extend(path []step, s step) []step {
	out := make([]step, len(path), len(path)+1)
	copy(out, path)
	return append(out, s)
}

// recordCycle records the cycle closed by re-entering idx. The cycle is the
// suffix of path starting at idx's first occurrence. It is stored, rotated
// to start at each participant, in every participant's test-only cycles
// when any of its edges is test-only, and in their production cycles
// otherwise.
func (g *Graph) recordCycle(idx int, path []step) {
	start := -1
	for i, s := range path {
		if s.node == idx {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}

	cycle := make(Cycle, 0, len(path)-start)
	for _, s := range path[start:] {
		cycle = append(cycle, Link{Component: g.nodes[s.node].Name, TestOnly: s.testOnly})
	}

	testOnly := cycle.HasTestOnlyEdge()
	for i, s := range path[start:] {
		participant := g.nodes[s.node]
		rotated := cycle.Rotate(i)
		if testOnly {
			participant.TestOnlyCycles.Add(rotated)
		} else {
			participant.ProductionCycles.Add(rotated)
		}
	}

	g.logger.Debug("recorded cycle", "cycle", cycle.String(), "test_only", testOnly)
}
