// Package include extracts component references from #include directives.
//
// Only directives naming a component of the enclosing package are
// considered, e.g. for package "pkg":
//
//	#include <pkg_widget.h>
//	#include "pkg_gadget.h"  // for testing only
//
// A trailing // comment containing the test marker word (default "testing")
// tags the reference as test-only.
package include

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// DefaultTestMarker is the word that marks an include as test-only.
const DefaultTestMarker = "testing"

// Ref is a reference from one file to a component.
type Ref struct {
	Name     string
	TestOnly bool
}

// Options configures an Extractor.
type Options struct {
	// TestMarker is the word that marks an include as test-only.
	TestMarker string
	// Variants are name suffixes of alternate implementations (e.g. "_cpp03")
	// whose references are discarded.
	Variants []string
	// Cache, if set, stores scan results across extractors and runs.
	Cache *Cache
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Extractor finds the component references in files of one package.
type Extractor struct {
	pkg      string
	re       *regexp.Regexp
	variants []string
	cache    *Cache
	logger   *slog.Logger
}

// Pattern returns the include pattern for components of pkg. An empty pkg
// matches any header name.
func Pattern(pkg, marker string) string {
	if marker == "" {
		marker = DefaultTestMarker
	}
	name := `\w+`
	if pkg != "" {
		name = regexp.QuoteMeta(pkg) + `_\w+`
	}
	return `(?m)^\s*#\s*include\s+["<](` + name + `)\.h[">]( *//.*\b` + regexp.QuoteMeta(marker) + `\b)?`
}

// New creates an extractor for the components of pkg.
func New(pkg string, opts Options) (*Extractor, error) {
	if pkg == "" {
		return nil, fmt.Errorf("package name is required")
	}
	return newExtractor(pkg, opts)
}

// NewUnscoped creates an extractor that matches includes of any header,
// regardless of package.
func NewUnscoped(opts Options) (*Extractor, error) {
	return newExtractor("", opts)
}

func newExtractor(pkg string, opts Options) (*Extractor, error) {
	re, err := regexp.Compile(Pattern(pkg, opts.TestMarker))
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern for package %s: %w", pkg, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Extractor{
		pkg:      pkg,
		re:       re,
		variants: opts.Variants,
		cache:    opts.Cache,
		logger:   logger,
	}, nil
}

// Package returns the package the extractor matches.
func (e *Extractor) Package() string {
	return e.pkg
}

// Extract returns the references made by the file at path, excluding
// references to self and to excluded variants. Each (name, test-only) pair
// appears once, in first-occurrence order.
func (e *Extractor) Extract(path, self string) ([]Ref, error) {
	refs, err := e.scan(path)
	if err != nil {
		return nil, err
	}

	out := make([]Ref, 0, len(refs))
	for _, ref := range refs {
		if ref.Name == self || e.isVariant(ref.Name) {
			continue
		}
		out = append(out, ref)
	}
	return out, nil
}

// Names returns the distinct component names referenced by the file at path,
// ignoring test-only markers.
func (e *Extractor) Names(path, self string) ([]string, error) {
	refs, err := e.Extract(path, self)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(refs))
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if !seen[ref.Name] {
			seen[ref.Name] = true
			names = append(names, ref.Name)
		}
	}
	return names, nil
}

func (e *Extractor) scan(path string) ([]Ref, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	key := cacheKey{pattern: e.re.String(), path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if refs, ok := e.cache.get(key); ok {
		e.logger.Debug("include scan cache hit", "file", path)
		return refs, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	refs := e.Parse(string(content))
	e.cache.add(key, refs)
	e.logger.Debug("scanned includes", "file", path, "refs", len(refs))
	return refs, nil
}

// Parse returns the references found in content, without self or variant
// filtering.
func (e *Extractor) Parse(content string) []Ref {
	type seenKey struct {
		name     string
		testOnly bool
	}
	seen := make(map[seenKey]bool)

	var refs []Ref
	for _, m := range e.re.FindAllStringSubmatch(content, -1) {
		ref := Ref{Name: m[1], TestOnly: m[2] != ""}
		k := seenKey{ref.Name, ref.TestOnly}
		if seen[k] {
			continue
		}
		seen[k] = true
		refs = append(refs, ref)
	}
	return refs
}

func (e *Extractor) isVariant(name string) bool {
	for _, v := range e.variants {
		if v != "" && strings.HasSuffix(name, v) {
			return true
		}
	}
	return false
}
