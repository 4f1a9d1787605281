package commands

import (
	"github.com/leapstack-labs/levelcheck/internal/cli/output"
	"github.com/spf13/cobra"
)

// TestDeps is the JSON output for one component of the testdeps command.
type TestDeps struct {
	Component string   `json:"component" yaml:"component"`
	Includes  []string `json:"includes" yaml:"includes"`
}

// NewTestDepsCommand creates the testdeps command.
func NewTestDepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testdeps <component|package>...",
		Short: "Suggest annotated includes for undocumented test driver dependencies",
		Long: `For each component whose test driver depends on components that the
component itself neither includes nor declares, print the include lines to add
to the implementation file:

  #include <grp_other.h>  // for testing only`,
		Example: `  # Suggestions for a whole package
  levelcheck testdeps groups/grp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestDeps(cmd, args)
		},
	}
	return cmd
}

func runTestDeps(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	run, err := cmdCtx.Engine.Analyze(contextOf(cmd), args)
	if err != nil {
		return err
	}

	var out []TestDeps
	for _, c := range run.Components() {
		if len(c.ExcessTestDeps) == 0 {
			continue
		}
		td := TestDeps{Component: c.Name}
		for _, dep := range c.ExcessTestDeps {
			td.Includes = append(td.Includes, "#include <"+dep+".h>  // for testing only")
		}
		out = append(out, td)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(nonNilTestDeps(out))
	case output.ModeYAML:
		err = r.YAML(nonNilTestDeps(out))
	case output.ModeMarkdown:
		for _, td := range out {
			r.Header(2, td.Component)
			r.Println("```cpp")
			for _, line := range td.Includes {
				r.Println(line)
			}
			r.Println("```")
			r.Println("")
		}
	default:
		for _, td := range out {
			r.Printf("\nExcess test-driver dependencies for %s:\n", td.Component)
			for _, line := range td.Includes {
				r.Println(line)
			}
		}
	}
	if err != nil {
		return err
	}

	printFailures(r, run)
	return exitStatus(len(run.Failed()))
}

func nonNilTestDeps(td []TestDeps) []TestDeps {
	if td == nil {
		return []TestDeps{}
	}
	return td
}
