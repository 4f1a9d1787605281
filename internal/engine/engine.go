// Package engine runs dependency analyses over component trees.
//
// A run expands its arguments into roots, groups them by package directory
// and analyzes each group with its own graph, so results never depend on the
// process working directory. Include scans are cached across runs; a cached
// scan is reused only while the file's size and modification time match.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/levelcheck/internal/component"
	"github.com/leapstack-labs/levelcheck/internal/dag"
	"github.com/leapstack-labs/levelcheck/internal/include"
)

// DefaultVariants are the alternate-implementation suffixes ignored by
// default.
var DefaultVariants = []string{"_cpp03"}

// Engine analyzes component dependencies.
type Engine struct {
	variants   []string
	testMarker string
	cache      *include.Cache
	logger     *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Variants are component name suffixes of alternate implementations.
	// Nil uses DefaultVariants; an empty slice disables variant handling.
	Variants []string
	// TestMarker is the comment word that marks an include as test-only.
	TestMarker string
	// CacheSize bounds the include scan cache (0 uses the default size).
	CacheSize int
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	variants := cfg.Variants
	if variants == nil {
		variants = DefaultVariants
	}
	marker := cfg.TestMarker
	if marker == "" {
		marker = include.DefaultTestMarker
	}

	cache, err := include.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create include cache: %w", err)
	}

	logger.Debug("initializing engine", "variants", variants, "test_marker", marker)

	return &Engine{
		variants:   variants,
		testMarker: marker,
		cache:      cache,
		logger:     logger,
	}, nil
}

// Variants returns the variant suffixes the engine ignores.
func (e *Engine) Variants() []string {
	return e.variants
}

// Result is the outcome of analyzing one root.
type Result struct {
	Root component.Root
	// Component is the analyzed record. It is nil only when the root's
	// package could not be set up.
	Component *dag.Component
	// Err is set when the root's subtree could not be read.
	Err error
}

// Run is the outcome of one analysis over a set of arguments.
type Run struct {
	ID      string
	Results []Result
}

// Failed returns the results that carry an error.
func (r *Run) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Components returns the analyzed record of every root that succeeded.
func (r *Run) Components() []*dag.Component {
	var out []*dag.Component
	for _, res := range r.Results {
		if res.Err == nil && res.Component != nil {
			out = append(out, res.Component)
		}
	}
	return out
}

// Analyze expands args and analyzes every resulting root. Argument errors
// (an unreadable package manifest) fail the whole run; a root whose files
// cannot be read is reported in its Result and the run continues.
func (e *Engine) Analyze(ctx context.Context, args []string) (*Run, error) {
	roots, err := component.ExpandArgs(args, e.variants)
	if err != nil {
		return nil, err
	}

	run := &Run{ID: uuid.NewString()}
	logger := e.logger.With("run_id", run.ID)
	logger.Debug("starting analysis", "roots", len(roots))

	graphs := make(map[string]*dag.Graph)
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := filepath.Clean(root.Dir) + string(filepath.Separator) + root.Package()
		g, ok := graphs[key]
		if !ok {
			g, err = e.newGraph(root, logger)
			if err != nil {
				run.Results = append(run.Results, Result{Root: root, Err: err})
				continue
			}
			graphs[key] = g
		}

		c, err := g.Analyze(root.Name)
		if err != nil {
			logger.Debug("analysis failed", "component", root.Name, "error", err)
		}
		run.Results = append(run.Results, Result{Root: root, Component: c, Err: err})
	}

	logger.Info("analysis complete",
		"roots", len(run.Results),
		"failed", len(run.Failed()),
		"packages", len(graphs),
		"cached_scans", e.cache.Len())
	return run, nil
}

func (e *Engine) newGraph(root component.Root, logger *slog.Logger) (*dag.Graph, error) {
	pkg := root.Package()
	if pkg == "" || !strings.Contains(root.Name, "_") {
		return nil, fmt.Errorf("component %s has no package prefix", root.Name)
	}

	extractor, err := include.New(pkg, include.Options{
		TestMarker: e.testMarker,
		Variants:   e.variants,
		Cache:      e.cache,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("analyzing package", "package", pkg, "dir", root.Dir)
	return dag.NewGraph(component.NewResolver(root.Dir), extractor, dag.Options{Logger: logger}), nil
}
