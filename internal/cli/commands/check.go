package commands

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"

	"github.com/leapstack-labs/levelcheck/internal/cli/output"
	"github.com/leapstack-labs/levelcheck/internal/engine"
	"github.com/leapstack-labs/levelcheck/internal/report"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <component|package>...",
		Short: "Check component dependencies for cycles and test-only anomalies",
		Long: `Analyze the dependency graph of the given components and report, for each one:
  - Level numbers of the component and of its test driver
  - Dependency cycles (errors)
  - Undocumented test-only dependencies of the test driver
  - Cycles that involve a test-only dependency
  - Test drivers with a higher level number than their component
  - Includes marked "for testing only" that are real dependencies

Arguments are component names or paths to any component file, or package
directories, which expand to every member of their package/*.mem manifest.

Only components with findings are printed unless --verbose is set. The total
is printed to stderr and the exit status is the number of errors.

Output adapts to environment:
  - Terminal: the classic report
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json, yaml`,
		Example: `  # Check one component
  levelcheck check groups/grp/grp_widget

  # Check every member of a package
  levelcheck check groups/grp

  # Fail on warnings too
  levelcheck check --strict groups/grp

  # Re-check whenever a component file changes
  levelcheck check --watch groups/grp`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	AddCheckFlags(cmd, opts)
	return cmd
}

// AddCheckFlags registers the check flags on cmd. The root command carries
// them too, since it runs a check when given arguments.
func AddCheckFlags(cmd *cobra.Command, opts *CheckOptions) {
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the check when component files change")
	cmd.Flags().Bool("strict", false, "Report every warning as an error")
	cmd.Flags().Duration("debounce", 0, "Quiet period before re-running in watch mode (default 100ms)")
}

// RunCheck runs the check command logic for cmd.
func RunCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	return runCheck(cmd, args, opts)
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	if opts.Watch {
		return watchCheck(cmd, cmdCtx, args)
	}

	run, err := cmdCtx.Engine.Analyze(contextOf(cmd), args)
	if err != nil {
		return err
	}

	totals, err := renderCheck(cmdCtx, run)
	if err != nil {
		return err
	}
	return exitStatus(totals.Errors)
}

func watchCheck(cmd *cobra.Command, cmdCtx *CommandContext, args []string) error {
	ctx, stop := signal.NotifyContext(contextOf(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := cmdCtx.Renderer
	return cmdCtx.Engine.Watch(ctx, args, engine.WatchOptions{
		Debounce: cmdCtx.Cfg.Watch.Debounce,
		OnRun: func(run *engine.Run, err error) {
			if err != nil {
				r.Errorf("Error: %v\n", err)
				return
			}
			if _, err := renderCheck(cmdCtx, run); err != nil {
				r.Errorf("Error: %v\n", err)
			}
			r.Errorf("%s\n", r.Styles().Muted.Render("Watching for changes (Ctrl+C to stop)..."))
		},
	})
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// renderCheck prints a run in the effective output mode and returns its
// totals, failed roots included.
func renderCheck(cmdCtx *CommandContext, run *engine.Run) (report.Totals, error) {
	doc := report.NewDocument(run.ID)
	for _, res := range run.Results {
		if res.Err != nil {
			doc.AddFailure(res.Root.Name, res.Err)
			continue
		}
		doc.AddComponent(res.Component, cmdCtx.Policy)
	}

	r := cmdCtx.Renderer
	var err error
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = r.JSON(doc)
	case output.ModeYAML:
		err = r.YAML(doc)
	case output.ModeMarkdown:
		checkMarkdown(cmdCtx, run, doc)
	default:
		checkText(cmdCtx, run)
	}
	if err != nil {
		return doc.Totals, err
	}

	printFailures(r, run)
	printTotals(r, doc.Totals)
	return doc.Totals, nil
}

// checkText prints the classic per-component report blocks.
func checkText(cmdCtx *CommandContext, run *engine.Run) {
	r := cmdCtx.Renderer
	for _, c := range run.Components() {
		if !cmdCtx.Cfg.Verbose && !report.HasFindings(c, cmdCtx.Policy) {
			continue
		}
		r.Print(report.Render(c, cmdCtx.Policy, cmdCtx.Cfg.Width))
	}
}

func checkMarkdown(cmdCtx *CommandContext, run *engine.Run, doc *report.Document) {
	r := cmdCtx.Renderer
	r.Header(1, "Dependency Check")
	r.Printf("- **Components**: %d\n", len(doc.Components))
	r.Printf("- **Errors**: %d\n", doc.Totals.Errors)
	r.Printf("- **Warnings**: %d\n", doc.Totals.Warnings)
	r.Println("")

	if len(doc.Components) > 0 {
		rows := make([][]any, 0, len(doc.Components))
		for _, cr := range doc.Components {
			rows = append(rows, []any{cr.Name, cr.ComponentLevel, cr.TestOnlyLevel, cr.Errors, cr.Warnings, findingNames(cr.Findings)})
		}
		r.Table([]string{"Component", "Level", "Test Driver Level", "Errors", "Warnings", "Findings"}, rows)
		r.Println("")
	}

	for _, c := range run.Components() {
		if !cmdCtx.Cfg.Verbose && !report.HasFindings(c, cmdCtx.Policy) {
			continue
		}
		r.Header(2, c.Name)
		r.Printf("Level number %d, test driver level number %d.\n\n", c.ComponentLevel, c.TestOnlyLevel)

		findings := report.Findings(c, cmdCtx.Policy)
		if len(findings) == 0 {
			r.Println("No errors or warnings.")
		}
		for _, f := range findings {
			r.Printf("- **%s**: %s\n", f.Severity.Label(), strings.TrimSuffix(report.Title(f.Anomaly), ":"))
			for _, item := range f.Items {
				r.Printf("  - `%s`\n", item)
			}
		}
		r.Println("")
	}
}

// findingNames lists the anomaly classes of findings as short headings.
func findingNames(findings []report.Finding) string {
	names := make([]string, 0, len(findings))
	for _, f := range findings {
		names = append(names, output.Title(string(f.Anomaly)))
	}
	return strings.Join(names, ", ")
}

func printFailures(r *output.Renderer, run *engine.Run) {
	for _, res := range run.Failed() {
		r.Errorf("%s %v\n", r.Styles().Error.Render("Error:"), res.Err)
	}
}

func printTotals(r *output.Renderer, totals report.Totals) {
	style := r.Styles().Success
	switch {
	case totals.Errors > 0:
		style = r.Styles().Error
	case totals.Warnings > 0:
		style = r.Styles().Warning
	}
	r.Errorf("%s\n", style.Render(totals.String()))
}

// IsExitError reports whether err only carries an exit status.
func IsExitError(err error) (*ExitError, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr, true
	}
	return nil, false
}
