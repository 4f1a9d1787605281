package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clitestutil "github.com/leapstack-labs/levelcheck/internal/cli/testutil"
	"github.com/leapstack-labs/levelcheck/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func executeRoot(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = ExecuteArgs(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "levelcheck [component|package]...", cmd.Use)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"version", "check", "levels", "cycles", "files", "testdeps", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"config", "verbose", "output", "log-level", "width", "test-marker", "exclude-suffix"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
	for _, flag := range []string{"watch", "strict", "debounce"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestExecute_NoArgsShowsHelp(t *testing.T) {
	t.Chdir(t.TempDir())

	code, stdout, _ := executeRoot(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage:")
}

func TestExecute_DefaultCheck(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	code, stdout, stderr := executeRoot(t, "--output", "text", dir)
	assert.Equal(t, 2, code)
	assert.Contains(t, stdout, "Component grp_loop2:\n")
	assert.Contains(t, stdout, "        grp_loop2 -> grp_loop1 -> grp_loop2\n")
	assert.Contains(t, stderr, "Total: 2 errors, 2 warnings")
}

func TestExecute_CheckSubcommandMatchesRoot(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	rootCode, rootOut, _ := executeRoot(t, "-o", "text", dir)
	checkCode, checkOut, _ := executeRoot(t, "check", "-o", "text", dir)
	assert.Equal(t, rootCode, checkCode)
	assert.Equal(t, rootOut, checkOut)
}

func TestExecute_StrictFlag(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	code, _, stderr := executeRoot(t, "--strict", "-o", "text", dir)
	assert.Equal(t, 4, code)
	assert.Contains(t, stderr, "Total: 4 errors, 0 warnings")
}

func TestExecute_ConfigFile(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, "levelcheck.yaml"), []byte(`output: text
severity:
  level_inversion: error
  excess_test_deps: "off"
`), 0o644))
	t.Chdir(work)

	code, stdout, stderr := executeRoot(t, dir)
	assert.Equal(t, 3, code)
	assert.Contains(t, stdout, "    Error: test driver has larger level number than component\n")
	assert.NotContains(t, stdout, "Undocumented test-only dependencies")
	assert.Contains(t, stderr, "Total: 3 errors, 0 warnings")
}

func TestExecute_InvalidConfig(t *testing.T) {
	work := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(work, "levelcheck.yaml"), []byte("output: xml\n"), 0o644))
	t.Chdir(work)

	code, _, stderr := executeRoot(t, "check", "grp_x")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: ")
}

func TestExecute_MissingPackageDirectory(t *testing.T) {
	t.Chdir(t.TempDir())

	code, _, stderr := executeRoot(t, "nosuchdir/")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error: missing package directory: nosuchdir/")
	assert.NotContains(t, stderr, "package prefix")
}

func TestExecute_Verbose(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	_, stdout, stderr := executeRoot(t, "-v", "-o", "text", dir)
	assert.Contains(t, stdout, "Component grp_base:\n")
	assert.Contains(t, stdout, "    No errors or warnings\n")
	assert.Contains(t, stderr, "level=DEBUG")
}

func TestExecute_JSON(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	code, stdout, _ := executeRoot(t, "-o", "json", dir)
	assert.Equal(t, 2, code)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Len(t, doc.Components, 5)
	assert.Empty(t, doc.Failures)
	assert.Equal(t, report.Totals{Errors: 2, Warnings: 2}, doc.Totals)
}

func TestExecute_YAML(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	_, stdout, _ := executeRoot(t, "-o", "yaml", dir)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
	assert.Contains(t, doc, "run_id")
	assert.Contains(t, doc, "components")
}

func TestExecute_Levels(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	code, stdout, _ := executeRoot(t, "levels", "-o", "text", dir)
	assert.Equal(t, 0, code)
	for _, name := range []string{"grp_base", "grp_loop1", "grp_loop2", "grp_tested", "grp_util"} {
		assert.Contains(t, stdout, name)
	}
}

func TestExecute_TestDeps(t *testing.T) {
	dir := clitestutil.SetupTestPackage(t)
	t.Chdir(t.TempDir())

	code, stdout, _ := executeRoot(t, "testdeps", "-o", "text", dir)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "#include <grp_util.h>  // for testing only")
}

func TestExecute_Completion(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		code, stdout, _ := executeRoot(t, "completion", shell)
		assert.Equal(t, 0, code, shell)
		assert.True(t, strings.Contains(stdout, "levelcheck"), shell)
	}

	code, _, _ := executeRoot(t, "completion", "tcsh")
	assert.Equal(t, 1, code)
}

func TestGetConfig_Default(t *testing.T) {
	cfg := GetConfig(t.Context())
	require.NotNil(t, cfg)
	assert.Equal(t, "auto", cfg.OutputFormat)
}
