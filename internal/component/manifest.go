package component

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ErrManifest is returned when a package manifest is missing or ambiguous.
var ErrManifest = errors.New("package manifest")

// ErrMissingPackage is returned for an argument that names a package
// directory that does not exist.
var ErrMissingPackage = errors.New("missing package directory")

var (
	manifestCommentRe = regexp.MustCompile(`(?m)#.*$`)
	manifestNameRe    = regexp.MustCompile(`\w+`)
)

// Root is a component requested for analysis.
type Root struct {
	// Name is the component name, e.g. "pkg_widget".
	Name string
	// Dir is the directory holding the component's files.
	Dir string
}

// Package returns the package prefix of the root's name.
func (r Root) Package() string {
	return PackageOf(r.Name)
}

// ReadManifest returns the member names listed in the single package/*.mem
// file below the package directory dir.
func ReadManifest(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "package", "*.mem"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrManifest, err)
	}
	if len(matches) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one package/*.mem in %s, found %d", ErrManifest, dir, len(matches))
	}

	content, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	return ParseManifest(string(content)), nil
}

// ParseManifest extracts member names from manifest text. Names are
// whitespace separated; "#" starts a comment that runs to the end of the line.
func ParseManifest(content string) []string {
	stripped := manifestCommentRe.ReplaceAllString(content, "")
	return manifestNameRe.FindAllString(stripped, -1)
}

// ExpandArgs turns command line arguments into analysis roots. Directories
// expand to every member of their package manifest; anything else names a
// single component. An argument that can only be a directory (a trailing
// separator, or neither a file suffix nor a package prefix) must exist.
// Roots are deduplicated by directory and name and returned sorted by name,
// then directory.
func ExpandArgs(args []string, variants []string) ([]Root, error) {
	seen := make(map[Root]bool)
	var roots []Root

	add := func(arg string) {
		if arg == "" {
			return
		}
		dir, name := Split(arg, variants)
		r := Root{Name: name, Dir: filepath.Clean(dir)}
		if !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			if err != nil && isPackageArg(arg) {
				return nil, fmt.Errorf("%w: %s", ErrMissingPackage, arg)
			}
			add(arg)
			continue
		}

		members, err := ReadManifest(arg)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			add(filepath.Join(arg, m))
		}
	}

	sort.Slice(roots, func(i, j int) bool {
		if roots[i].Name != roots[j].Name {
			return roots[i].Name < roots[j].Name
		}
		return roots[i].Dir < roots[j].Dir
	})
	return roots, nil
}

// isPackageArg reports whether arg can only name a package directory.
func isPackageArg(arg string) bool {
	if strings.HasSuffix(arg, "/") || strings.HasSuffix(arg, string(filepath.Separator)) {
		return true
	}
	return StripSuffix(arg) == arg && !strings.Contains(filepath.Base(arg), "_")
}
