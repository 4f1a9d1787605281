// Package report turns analyzed components into diagnostics.
//
// Each component yields at most one finding per anomaly class. The severity
// of a finding comes from a core.Policy; anomalies whose severity is off are
// neither printed nor counted.
package report

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/levelcheck/internal/dag"
	"github.com/leapstack-labs/levelcheck/pkg/core"
)

// DefaultWidth is the line width cycles are wrapped to.
const DefaultWidth = 79

// Finding is one anomaly present in a component.
type Finding struct {
	Anomaly  core.Anomaly  `json:"anomaly" yaml:"anomaly"`
	Severity core.Severity `json:"severity" yaml:"severity"`
	// Items are the offending cycles or component names, if the anomaly has any.
	Items []string `json:"items,omitempty" yaml:"items,omitempty"`

	cycles []dag.Cycle
}

// Title returns the report heading of an anomaly class.
func Title(a core.Anomaly) string {
	switch a {
	case core.ProductionCycle:
		return "Dependency cycles detected:"
	case core.ExcessTestDeps:
		return "Undocumented test-only dependencies:"
	case core.TestOnlyCycle:
		return "Test-only dependency cycles:"
	case core.LevelInversion:
		return "test driver has larger level number than component"
	case core.FalseTestDeps:
		return "dependencies incorrectly marked 'for testing only':"
	default:
		return string(a)
	}
}

// Findings returns the anomalies of c in report order, skipping those the
// policy turns off.
func Findings(c *dag.Component, policy core.Policy) []Finding {
	var out []Finding
	add := func(a core.Anomaly, present bool, items []string, cycles []dag.Cycle) {
		if !present {
			return
		}
		sev := policy.Severity(a)
		if sev == core.SeverityOff {
			return
		}
		out = append(out, Finding{Anomaly: a, Severity: sev, Items: items, cycles: cycles})
	}

	prodCycles := c.ProductionCycles.Cycles()
	testCycles := c.TestOnlyCycles.Cycles()

	add(core.ProductionCycle, len(prodCycles) > 0, cycleStrings(prodCycles), prodCycles)
	add(core.ExcessTestDeps, len(c.ExcessTestDeps) > 0, c.ExcessTestDeps, nil)
	add(core.TestOnlyCycle, len(testCycles) > 0, cycleStrings(testCycles), testCycles)
	add(core.LevelInversion, c.LevelInverted(), nil, nil)
	add(core.FalseTestDeps, len(c.FalseTestDeps) > 0, c.FalseTestDeps, nil)
	return out
}

// Count returns the number of error and warning findings of c.
func Count(c *dag.Component, policy core.Policy) (errors, warnings int) {
	return countFindings(Findings(c, policy))
}

func countFindings(findings []Finding) (errors, warnings int) {
	for _, f := range findings {
		switch f.Severity {
		case core.SeverityError:
			errors++
		case core.SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}

// HasFindings reports whether c has any finding under policy.
func HasFindings(c *dag.Component, policy core.Policy) bool {
	return len(Findings(c, policy)) > 0
}

// Totals accumulates error and warning counts over a run.
type Totals struct {
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
}

// Add adds the findings of c.
func (t *Totals) Add(c *dag.Component, policy core.Policy) {
	e, w := Count(c, policy)
	t.Errors += e
	t.Warnings += w
}

// AddError counts one error that is not tied to a finding, such as a root
// whose files could not be read.
func (t *Totals) AddError() {
	t.Errors++
}

// String renders the totals as printed at the end of a run.
func (t Totals) String() string {
	return fmt.Sprintf("Total: %d errors, %d warnings", t.Errors, t.Warnings)
}

// Aggregate sums the findings of every component.
func Aggregate(components []*dag.Component, policy core.Policy) Totals {
	var t Totals
	for _, c := range components {
		t.Add(c, policy)
	}
	return t
}

// Render returns the diagnostic block of c. Cycles are wrapped to width
// columns; a width too small to hold the indentation uses DefaultWidth.
func Render(c *dag.Component, policy core.Policy, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Component %s:\n", c.Name)
	fmt.Fprintf(&b, "    Level number = %d, Test driver level number = %d\n", c.ComponentLevel, c.TestOnlyLevel)

	findings := Findings(c, policy)
	for _, f := range findings {
		fmt.Fprintf(&b, "    %s: %s\n", f.Severity.Label(), Title(f.Anomaly))
		switch {
		case f.cycles != nil:
			for _, cycle := range f.cycles {
				b.WriteString(WrapCycle(cycle.String(), width))
				b.WriteByte('\n')
			}
		default:
			for _, item := range f.Items {
				b.WriteString(itemIndent + item + "\n")
			}
		}
	}

	errors, warnings := countFindings(findings)
	if errors > 0 || warnings > 0 {
		fmt.Fprintf(&b, "    %d Errors, %d Warnings\n", errors, warnings)
	} else {
		b.WriteString("    No errors or warnings\n")
	}
	return b.String()
}

func cycleStrings(cycles []dag.Cycle) []string {
	if len(cycles) == 0 {
		return nil
	}
	out := make([]string, len(cycles))
	for i, c := range cycles {
		out[i] = c.String()
	}
	return out
}
