package commands

import (
	"strings"

	"github.com/leapstack-labs/levelcheck/internal/cli/output"
	"github.com/leapstack-labs/levelcheck/internal/component"
	"github.com/spf13/cobra"
)

// ComponentFiles is the JSON output for one path of the files command.
type ComponentFiles struct {
	Component string   `json:"component" yaml:"component"`
	Files     []string `json:"files" yaml:"files"`
}

// NewFilesCommand creates the files command.
func NewFilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files <path>...",
		Short: "List the files of components",
		Long: `Print the interface, implementation and test driver files of each component.

A path may be a component name or any of its files. Numbered test drivers
(name.0.t.cpp, name.1.t.cpp, ...) are listed when present, otherwise the
single name.t.cpp. Files are not required to exist. In text mode each
component's files are printed on one line, ready for use in shell commands.`,
		Example: `  # Open a component in an editor
  $EDITOR $(levelcheck files groups/grp/grp_widget.h)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd, args)
		},
	}
	return cmd
}

func runFiles(cmd *cobra.Command, args []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	out := make([]ComponentFiles, 0, len(args))
	for _, arg := range args {
		dir, name := component.Split(arg, nil)
		files := component.NewResolver(dir).Files(name)
		out = append(out, ComponentFiles{Component: name, Files: files.All()})
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeYAML:
		return r.YAML(out)
	default:
		for _, cf := range out {
			r.Println(strings.Join(cf.Files, " "))
		}
	}
	return nil
}
