package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// WriteFiles creates each file of files (relative path -> content) below dir.
func WriteFiles(t testing.TB, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
}

// Include renders an include directive for a component. A non-empty comment
// is appended as a trailing // comment.
func Include(name, comment string) string {
	line := fmt.Sprintf("#include <%s.h>", name)
	if comment != "" {
		line += "  // " + comment
	}
	return line + "\n"
}

// Spec describes a component fixture by the components each file includes.
type Spec struct {
	Header   []string
	Impl     []string
	Test     []string
	Numbered [][]string // numbered test drivers; replaces Test when set

	// TestingOnly are annotated "for testing only" in the implementation.
	TestingOnly []string
}

// WriteComponent writes name.h, name.cpp and its test driver(s) below dir.
func WriteComponent(t testing.TB, dir, name string, spec Spec) {
	t.Helper()

	files := map[string]string{
		name + ".h":   includes(spec.Header, ""),
		name + ".cpp": includes(append([]string{name}, spec.Impl...), "") + includes(spec.TestingOnly, "for testing only"),
	}
	if spec.Numbered != nil {
		for i, deps := range spec.Numbered {
			files[fmt.Sprintf("%s.%d.t.cpp", name, i)] = includes(append([]string{name}, deps...), "")
		}
	} else {
		files[name+".t.cpp"] = includes(append([]string{name}, spec.Test...), "")
	}
	WriteFiles(t, dir, files)
}

// WritePackage writes every component of specs plus a package manifest
// listing them below dir/package/<pkg>.mem.
func WritePackage(t testing.TB, dir, pkg string, specs map[string]Spec) {
	t.Helper()

	names := make([]string, 0, len(specs))
	for name, spec := range specs {
		WriteComponent(t, dir, name, spec)
		names = append(names, name)
	}
	sort.Strings(names)

	manifest := "# members of " + pkg + "\n" + strings.Join(names, "\n") + "\n"
	WriteFiles(t, dir, map[string]string{
		filepath.Join("package", pkg+".mem"): manifest,
	})
}

func includes(names []string, comment string) string {
	var b strings.Builder
	for _, n := range names {
		b.WriteString(Include(n, comment))
	}
	return b.String()
}
