package commands

import (
	"strings"

	"github.com/leapstack-labs/levelcheck/internal/cli/output"
	"github.com/spf13/cobra"
)

// CyclesOutput is the JSON output for the cycles command.
type CyclesOutput struct {
	Cycles [][]string `json:"cycles" yaml:"cycles"`
}

// NewCyclesCommand creates the cycles command.
func NewCyclesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycles <file>...",
		Short: "Find include cycles among source files",
		Long: `Build a plain include graph from the given files and list every cycle.

Each file contributes the includes it makes to the node named by its file
name up to the first dot, so foo.h and foo.cpp form one node. Includes of any
header are followed, there is no package scoping and no test-only
classification. Each cycle starts at its alphabetically lowest node.`,
		Example: `  # Cycles within a package directory
  levelcheck cycles groups/grp/*.h groups/grp/*.cpp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycles(cmd, args)
		},
	}
	return cmd
}

func runCycles(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cycles, err := cmdCtx.Engine.Cycles(args)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(CyclesOutput{Cycles: cycles})
	case output.ModeYAML:
		return r.YAML(CyclesOutput{Cycles: cycles})
	case output.ModeMarkdown:
		r.Header(1, "Cycles")
		if len(cycles) == 0 {
			r.Println("No cycles found")
			return nil
		}
		for _, c := range cycles {
			r.Printf("- `%s`\n", strings.Join(c, " -> "))
		}
	default:
		if len(cycles) == 0 {
			r.Println("No cycles found")
			return nil
		}
		r.Println("Cycles found:")
		for _, c := range cycles {
			r.Println(strings.Join(c, " -> "))
		}
	}
	return nil
}
