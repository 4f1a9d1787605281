package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/levelcheck/internal/cli/config"
	"github.com/leapstack-labs/levelcheck/internal/cli/output"
	"github.com/leapstack-labs/levelcheck/internal/engine"
	"github.com/leapstack-labs/levelcheck/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
	Policy   core.Policy
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	policy, err := cfg.Policy()
	if err != nil {
		return nil, fmt.Errorf("invalid severity configuration: %w", err)
	}

	eng, err := engine.New(engine.Config{
		Variants:   cfg.ExcludeSuffixes,
		TestMarker: cfg.TestMarker,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
		Policy:   policy,
	}, nil
}

// getConfig returns the current configuration, or the defaults when none
// has been loaded (e.g. a command executed on its own in tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}
