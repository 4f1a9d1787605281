package core

import (
	"fmt"
	"sort"
)

// =============================================================================
// Anomaly
// =============================================================================

// Anomaly identifies one class of finding reported for a component.
type Anomaly string

// Anomaly classes, in report order.
const (
	// ProductionCycle is a dependency cycle made only of production edges.
	ProductionCycle Anomaly = "production_cycles"
	// ExcessTestDeps are test driver dependencies not declared by the component.
	ExcessTestDeps Anomaly = "excess_test_deps"
	// TestOnlyCycle is a dependency cycle that contains a test-only edge.
	TestOnlyCycle Anomaly = "test_only_cycles"
	// LevelInversion means the test driver level exceeds the component level.
	LevelInversion Anomaly = "level_inversion"
	// FalseTestDeps are "for testing only" annotations on production dependencies.
	FalseTestDeps Anomaly = "false_test_deps"
)

// Anomalies returns every anomaly class in report order.
func Anomalies() []Anomaly {
	return []Anomaly{ProductionCycle, ExcessTestDeps, TestOnlyCycle, LevelInversion, FalseTestDeps}
}

// Valid reports whether a is a known anomaly class.
func (a Anomaly) Valid() bool {
	for _, known := range Anomalies() {
		if a == known {
			return true
		}
	}
	return false
}

// =============================================================================
// Policy
// =============================================================================

// Policy maps each anomaly class to the severity it is reported with.
type Policy struct {
	severities map[Anomaly]Severity
}

// DefaultPolicy returns the lenient policy: production cycles are errors,
// everything else is a warning.
func DefaultPolicy() Policy {
	return Policy{severities: map[Anomaly]Severity{
		ProductionCycle: SeverityError,
		ExcessTestDeps:  SeverityWarning,
		TestOnlyCycle:   SeverityWarning,
		LevelInversion:  SeverityWarning,
		FalseTestDeps:   SeverityWarning,
	}}
}

// StrictPolicy returns a policy in which every anomaly is an error.
func StrictPolicy() Policy {
	return DefaultPolicy().Strict()
}

// NewPolicy builds a policy from the default with string overrides keyed by
// anomaly name, as found in configuration files.
func NewPolicy(overrides map[string]string) (Policy, error) {
	p := DefaultPolicy()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		a := Anomaly(k)
		if !a.Valid() {
			return Policy{}, fmt.Errorf("unknown anomaly %q", k)
		}
		sev, ok := ParseSeverity(overrides[k])
		if !ok {
			return Policy{}, fmt.Errorf("invalid severity %q for %s (want error, warning or off)", overrides[k], k)
		}
		p = p.With(a, sev)
	}
	return p, nil
}

// Severity returns the severity configured for a.
func (p Policy) Severity(a Anomaly) Severity {
	if sev, ok := p.severities[a]; ok {
		return sev
	}
	return DefaultPolicy().severities[a]
}

// With returns a copy of p with a set to sev.
func (p Policy) With(a Anomaly, sev Severity) Policy {
	next := make(map[Anomaly]Severity, len(p.severities)+1)
	for k, v := range p.severities {
		next[k] = v
	}
	next[a] = sev
	return Policy{severities: next}
}

// Strict returns a copy of p with every warning promoted to an error.
func (p Policy) Strict() Policy {
	next := p
	for _, a := range Anomalies() {
		if p.Severity(a) == SeverityWarning {
			next = next.With(a, SeverityError)
		}
	}
	return next
}
