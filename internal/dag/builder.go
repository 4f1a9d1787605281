package dag

import "fmt"

// ComputeDirectDeps fills in the dependency sets of c from its source files.
// It runs at most once per component; later calls are no-ops.
//
// Interface and implementation references are production dependencies
// unless annotated as test-only. Test driver references that are neither
// production dependencies nor annotated are test-only and excess. Annotated
// names that are also production dependencies are false test dependencies
// and are removed from the test-only set.
func (g *Graph) ComputeDirectDeps(c *Component) error {
	if c.computed {
		return nil
	}

	files, err := g.resolver.Resolve(c.Name)
	if err != nil {
		return err
	}

	production := make(set)
	annotated := make(set)
	for _, path := range []string{files.Interface, files.Implementation} {
		refs, err := g.extractor.Extract(path, c.Name)
		if err != nil {
			return fmt.Errorf("component %s: %w", c.Name, err)
		}
		for _, ref := range refs {
			if ref.TestOnly {
				annotated[ref.Name] = true
			} else {
				production[ref.Name] = true
			}
		}
	}

	testOnly := make(set, len(annotated))
	for name := range annotated {
		testOnly[name] = true
	}
	excess := make(set)
	for _, path := range files.TestDrivers {
		refs, err := g.extractor.Extract(path, c.Name)
		if err != nil {
			return fmt.Errorf("component %s: %w", c.Name, err)
		}
		for _, ref := range refs {
			if production[ref.Name] || testOnly[ref.Name] {
				continue
			}
			testOnly[ref.Name] = true
			excess[ref.Name] = true
		}
	}

	falseDeps := make(set)
	for name := range annotated {
		if production[name] {
			falseDeps[name] = true
			delete(testOnly, name)
		}
	}

	c.ProductionDeps = production.sorted()
	c.TestOnlyDeps = testOnly.sorted()
	c.ExcessTestDeps = excess.sorted()
	c.FalseTestDeps = falseDeps.sorted()

	c.prodIdx = make([]int, len(c.ProductionDeps))
	for i, name := range c.ProductionDeps {
		c.prodIdx[i] = g.node(name)
	}
	c.testIdx = make([]int, len(c.TestOnlyDeps))
	for i, name := range c.TestOnlyDeps {
		c.testIdx[i] = g.node(name)
	}
	c.computed = true

	g.logger.Debug("computed direct dependencies",
		"component", c.Name,
		"production", len(c.ProductionDeps),
		"test_only", len(c.TestOnlyDeps),
		"excess", len(c.ExcessTestDeps),
		"false", len(c.FalseTestDeps))
	return nil
}
