package report

import (
	"encoding/json"
	"io"

	"github.com/leapstack-labs/levelcheck/internal/dag"
	"github.com/leapstack-labs/levelcheck/pkg/core"
	"gopkg.in/yaml.v3"
)

// ComponentReport is the machine-readable form of one component's result.
type ComponentReport struct {
	Name           string    `json:"name" yaml:"name"`
	ComponentLevel int       `json:"component_level" yaml:"component_level"`
	TestOnlyLevel  int       `json:"test_only_level" yaml:"test_only_level"`
	ProductionDeps []string  `json:"production_deps" yaml:"production_deps"`
	TestOnlyDeps   []string  `json:"test_only_deps" yaml:"test_only_deps"`
	Findings       []Finding `json:"findings" yaml:"findings"`
	Errors         int       `json:"errors" yaml:"errors"`
	Warnings       int       `json:"warnings" yaml:"warnings"`
}

// Failure is a root whose analysis was aborted by an input error.
type Failure struct {
	Component string `json:"component" yaml:"component"`
	Error     string `json:"error" yaml:"error"`
}

// Document is the full result of a run.
type Document struct {
	RunID      string            `json:"run_id" yaml:"run_id"`
	Components []ComponentReport `json:"components" yaml:"components"`
	Failures   []Failure         `json:"failures,omitempty" yaml:"failures,omitempty"`
	Totals     Totals            `json:"totals" yaml:"totals"`
}

// NewComponentReport builds the report of c under policy.
func NewComponentReport(c *dag.Component, policy core.Policy) ComponentReport {
	findings := Findings(c, policy)
	errors, warnings := countFindings(findings)
	if findings == nil {
		findings = []Finding{}
	}
	return ComponentReport{
		Name:           c.Name,
		ComponentLevel: c.ComponentLevel,
		TestOnlyLevel:  c.TestOnlyLevel,
		ProductionDeps: nonNil(c.ProductionDeps),
		TestOnlyDeps:   nonNil(c.TestOnlyDeps),
		Findings:       findings,
		Errors:         errors,
		Warnings:       warnings,
	}
}

// NewDocument starts an empty document for a run.
func NewDocument(runID string) *Document {
	return &Document{RunID: runID, Components: []ComponentReport{}}
}

// AddComponent appends the report of c and counts its findings.
func (d *Document) AddComponent(c *dag.Component, policy core.Policy) {
	cr := NewComponentReport(c, policy)
	d.Components = append(d.Components, cr)
	d.Totals.Errors += cr.Errors
	d.Totals.Warnings += cr.Warnings
}

// AddFailure records a failed root and counts it as one error.
func (d *Document) AddFailure(name string, err error) {
	d.Failures = append(d.Failures, Failure{Component: name, Error: err.Error()})
	d.Totals.AddError()
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteYAML writes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
