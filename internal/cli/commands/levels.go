package commands

import (
	"github.com/leapstack-labs/levelcheck/internal/cli/output"
	"github.com/leapstack-labs/levelcheck/internal/engine"
	"github.com/spf13/cobra"
)

// LevelRow is the JSON output for one component of the levels command.
type LevelRow struct {
	Component      string `json:"component" yaml:"component"`
	ComponentLevel int    `json:"component_level" yaml:"component_level"`
	TestOnlyLevel  int    `json:"test_only_level" yaml:"test_only_level"`
	ProductionDeps int    `json:"production_deps" yaml:"production_deps"`
	TestOnlyDeps   int    `json:"test_only_deps" yaml:"test_only_deps"`
	Error          string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewLevelsCommand creates the levels command.
func NewLevelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels <component|package>...",
		Short: "Show component and test driver level numbers",
		Long: `Print a table of level numbers for the given components.

A component with no dependencies in its package is at level 1. Every other
component is one level above the highest test driver level among its
dependencies. The test driver level also counts test-only dependencies.`,
		Example: `  # Levels of every member of a package
  levelcheck levels groups/grp

  # As JSON
  levelcheck levels groups/grp --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevels(cmd, args)
		},
	}
	return cmd
}

func runLevels(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	run, err := cmdCtx.Engine.Analyze(contextOf(cmd), args)
	if err != nil {
		return err
	}
	rows := levelRows(run)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(rows)
	case output.ModeYAML:
		err = r.YAML(rows)
	default:
		levelsTable(r, rows)
	}
	if err != nil {
		return err
	}

	printFailures(r, run)
	return exitStatus(len(run.Failed()))
}

func levelRows(run *engine.Run) []LevelRow {
	rows := make([]LevelRow, 0, len(run.Results))
	for _, res := range run.Results {
		row := LevelRow{Component: res.Root.Name}
		if res.Err != nil {
			row.Error = res.Err.Error()
			rows = append(rows, row)
			continue
		}
		c := res.Component
		row.ComponentLevel = c.ComponentLevel
		row.TestOnlyLevel = c.TestOnlyLevel
		row.ProductionDeps = len(c.ProductionDeps)
		row.TestOnlyDeps = len(c.TestOnlyDeps)
		rows = append(rows, row)
	}
	return rows
}

func levelsTable(r *output.Renderer, rows []LevelRow) {
	tableRows := make([][]any, 0, len(rows))
	for _, row := range rows {
		if row.Error != "" {
			tableRows = append(tableRows, []any{row.Component, "-", "-", "-", "-"})
			continue
		}
		tableRows = append(tableRows, []any{
			row.Component, row.ComponentLevel, row.TestOnlyLevel, row.ProductionDeps, row.TestOnlyDeps,
		})
	}
	r.Table([]string{"Component", "Level", "Test Driver Level", "Production Deps", "Test-only Deps"}, tableRows)
}
