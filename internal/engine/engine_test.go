package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/levelcheck/internal/component"
	"github.com/leapstack-labs/levelcheck/internal/include"
	"github.com/leapstack-labs/levelcheck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(Config{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return eng
}

func writeCyclicPackage(t *testing.T, dir string) {
	t.Helper()
	testutil.WritePackage(t, dir, "grp", map[string]testutil.Spec{
		"grp_a": {Impl: []string{"grp_b"}},
		"grp_b": {Impl: []string{"grp_a"}},
		"grp_c": {Test: []string{"grp_a"}},
	})
}

func TestNew(t *testing.T) {
	eng, err := New(Config{})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if eng.testMarker != include.DefaultTestMarker {
		t.Errorf("testMarker = %q, want %q", eng.testMarker, include.DefaultTestMarker)
	}
	if len(eng.Variants()) != 1 || eng.Variants()[0] != "_cpp03" {
		t.Errorf("Variants() = %v, want [_cpp03]", eng.Variants())
	}
	if eng.logger == nil {
		t.Error("logger should default to a discard logger")
	}
}

func TestNew_NoVariants(t *testing.T) {
	eng, err := New(Config{Variants: []string{}, TestMarker: "test"})
	require.NoError(t, err)
	assert.Empty(t, eng.Variants())
	assert.Equal(t, "test", eng.testMarker)
}

func TestAnalyze_Package(t *testing.T) {
	dir := t.TempDir()
	writeCyclicPackage(t, dir)

	run, err := newTestEngine(t).Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	require.Len(t, run.Results, 3)
	assert.Empty(t, run.Failed())

	names := make([]string, 0, len(run.Results))
	for _, res := range run.Results {
		names = append(names, res.Root.Name)
	}
	assert.Equal(t, []string{"grp_a", "grp_b", "grp_c"}, names)

	a := run.Results[0].Component
	assert.Equal(t, 1, a.ProductionCycles.Len())
	c := run.Results[2].Component
	assert.Equal(t, []string{"grp_a"}, c.ExcessTestDeps)
	assert.Len(t, run.Components(), 3)
}

func TestAnalyze_LogsRunID(t *testing.T) {
	dir := t.TempDir()
	writeCyclicPackage(t, dir)

	logger, logs := testutil.NewRecordingLogger()
	eng, err := New(Config{Logger: logger})
	require.NoError(t, err)

	run, err := eng.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "msg=\"analysis complete\"")
	assert.Contains(t, out, "run_id="+run.ID)
	assert.Contains(t, out, "recorded cycle")
}

func TestAnalyze_ComponentArguments(t *testing.T) {
	dir := t.TempDir()
	writeCyclicPackage(t, dir)

	args := []string{
		filepath.Join(dir, "grp_b.t.cpp"),
		filepath.Join(dir, "grp_a.h"),
		filepath.Join(dir, "grp_a_cpp03.cpp"),
	}
	run, err := newTestEngine(t).Analyze(context.Background(), args)
	require.NoError(t, err)

	require.Len(t, run.Results, 2)
	assert.Equal(t, "grp_a", run.Results[0].Root.Name)
	assert.Equal(t, "grp_b", run.Results[1].Root.Name)
	assert.Equal(t, []string{"grp_b"}, run.Results[0].Component.ProductionDeps)
}

func TestAnalyze_SeparatePackages(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "first")
	second := filepath.Join(root, "second")
	testutil.WritePackage(t, first, "one", map[string]testutil.Spec{
		"one_a": {Impl: []string{"one_b"}},
		"one_b": {},
	})
	testutil.WritePackage(t, second, "two", map[string]testutil.Spec{
		"two_a": {Header: []string{"two_b", "one_a"}},
		"two_b": {},
	})

	run, err := newTestEngine(t).Analyze(context.Background(), []string{second, first})
	require.NoError(t, err)
	require.Len(t, run.Results, 4)
	assert.Empty(t, run.Failed())

	byName := make(map[string]Result)
	for _, res := range run.Results {
		byName[res.Root.Name] = res
	}
	assert.Equal(t, 2, byName["one_a"].Component.ComponentLevel)
	// Includes of other packages are not followed.
	assert.Equal(t, []string{"two_b"}, byName["two_a"].Component.ProductionDeps)
}

func TestAnalyze_FailedRootDoesNotStopRun(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteComponent(t, dir, "grp_a", testutil.Spec{Impl: []string{"grp_gone"}})
	testutil.WriteComponent(t, dir, "grp_b", testutil.Spec{})

	args := []string{
		filepath.Join(dir, "grp_a"),
		filepath.Join(dir, "grp_b"),
		filepath.Join(dir, "nopackage"),
	}
	run, err := newTestEngine(t).Analyze(context.Background(), args)
	require.NoError(t, err)
	require.Len(t, run.Results, 3)

	failed := run.Failed()
	require.Len(t, failed, 2)
	assert.Equal(t, "grp_a", failed[0].Root.Name)
	assert.ErrorIs(t, failed[0].Err, component.ErrMissingFile)
	assert.Equal(t, "nopackage", failed[1].Root.Name)
	assert.Nil(t, failed[1].Component)

	require.Len(t, run.Components(), 1)
	assert.Equal(t, "grp_b", run.Components()[0].Name)
}

func TestAnalyze_BadManifest(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteComponent(t, dir, "grp_a", testutil.Spec{})

	_, err := newTestEngine(t).Analyze(context.Background(), []string{dir})
	assert.ErrorIs(t, err, component.ErrManifest)
}

func TestAnalyze_MissingPackageDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nosuchdir") + string(filepath.Separator)

	_, err := newTestEngine(t).Analyze(context.Background(), []string{missing})
	assert.ErrorIs(t, err, component.ErrMissingPackage)
	assert.NotContains(t, err.Error(), "package prefix")
}

func TestAnalyze_SameNameInTwoDirectories(t *testing.T) {
	dir := t.TempDir()
	one := filepath.Join(dir, "one")
	two := filepath.Join(dir, "two")
	testutil.WriteComponent(t, one, "grp_a", testutil.Spec{})
	testutil.WriteComponent(t, one, "grp_b", testutil.Spec{})
	testutil.WriteComponent(t, two, "grp_a", testutil.Spec{Impl: []string{"grp_b"}})
	testutil.WriteComponent(t, two, "grp_b", testutil.Spec{})

	run, err := newTestEngine(t).Analyze(context.Background(), []string{
		filepath.Join(one, "grp_a.h"),
		filepath.Join(two, "grp_a.h"),
	})
	require.NoError(t, err)

	require.Len(t, run.Results, 2)
	assert.Equal(t, one, run.Results[0].Root.Dir)
	assert.Empty(t, run.Results[0].Component.ProductionDeps)
	assert.Equal(t, two, run.Results[1].Root.Dir)
	assert.Equal(t, []string{"grp_b"}, run.Results[1].Component.ProductionDeps)
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeCyclicPackage(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(t).Analyze(ctx, []string{dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_Repeatable(t *testing.T) {
	dir := t.TempDir()
	writeCyclicPackage(t, dir)
	eng := newTestEngine(t)

	first, err := eng.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)
	second, err := eng.Analyze(context.Background(), []string{dir})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		a, b := first.Results[i].Component, second.Results[i].Component
		assert.NotSame(t, a, b)
		assert.Equal(t, a.ComponentLevel, b.ComponentLevel)
		assert.Equal(t, a.TestOnlyLevel, b.TestOnlyLevel)
		assert.Equal(t, a.ProductionCycles.Cycles(), b.ProductionCycles.Cycles())
		assert.Equal(t, a.TestOnlyCycles.Cycles(), b.TestOnlyCycles.Cycles())
	}
	assert.Positive(t, eng.cache.Len())
}

func TestCycles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"x.h":   `#include "y.h"` + "\n",
		"y.cpp": "#include <y.h>\n#include <z.h>\n",
		"z.h":   "#include <x.h>\n#include <vector>\n",
		"w.h":   "#include <x.h>\n",
	})
	paths := []string{
		filepath.Join(dir, "x.h"),
		filepath.Join(dir, "y.cpp"),
		filepath.Join(dir, "z.h"),
		filepath.Join(dir, "w.h"),
	}
	eng := newTestEngine(t)

	graph, err := eng.FileGraph(paths)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"y", "z"}, graph["y"])
	assert.Equal(t, []string{"x"}, graph["w"])

	cycles, err := eng.Cycles(paths)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "y", "z", "x"}}, cycles)
}

func TestCycles_MissingFile(t *testing.T) {
	_, err := newTestEngine(t).Cycles([]string{filepath.Join(t.TempDir(), "nope.h")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePackage(t, dir, "grp", map[string]testutil.Spec{
		"grp_a": {Impl: []string{"grp_b"}},
		"grp_b": {},
	})
	eng := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runs := make(chan *Run, 8)
	done := make(chan error, 1)
	go func() {
		done <- eng.Watch(ctx, []string{dir}, WatchOptions{
			Debounce: 10 * time.Millisecond,
			OnRun: func(run *Run, err error) {
				if err == nil {
					runs <- run
				}
			},
		})
	}()

	first := waitFor(t, runs, func(*Run) bool { return true })
	assert.Zero(t, first.Results[0].Component.ProductionCycles.Len())

	testutil.WriteComponent(t, dir, "grp_b", testutil.Spec{Impl: []string{"grp_a"}})

	// A rerun may start between two file writes; wait for one that sees both.
	waitFor(t, runs, func(run *Run) bool {
		return run.Results[0].Component.ProductionCycles.Len() == 1
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchTargets(t *testing.T) {
	dir := t.TempDir()
	testutil.WritePackage(t, dir, "grp", map[string]testutil.Spec{"grp_a": {}})

	targets := watchTargets([]string{dir, filepath.Join(dir, "grp_a.h"), "other/grp_x"}, DefaultVariants)
	assert.Equal(t, []watchTarget{
		{dir: filepath.Clean(dir), recursive: true},
		{dir: "other"},
	}, targets)

	assert.True(t, isWatchedFile("a/b/grp_a.t.cpp"))
	assert.True(t, isWatchedFile("package/grp.mem"))
	assert.False(t, isWatchedFile("notes.txt"))
}

func waitFor(t *testing.T, runs <-chan *Run, match func(*Run) bool) *Run {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case run := <-runs:
			if match(run) {
				return run
			}
		case <-deadline:
			t.Fatal("timed out waiting for analysis")
			return nil
		}
	}
}
