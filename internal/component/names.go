package component

import (
	"path/filepath"
	"regexp"
	"strings"
)

// suffixRe matches the file suffixes of component files.
var suffixRe = regexp.MustCompile(`\.(h|cpp|([0-9]+\.)?t\.cpp)?$`)

// StripSuffix removes a component file suffix (.h, .cpp, .t.cpp, .N.t.cpp)
// from path.
func StripSuffix(path string) string {
	return suffixRe.ReplaceAllString(path, "")
}

// Split turns a component argument (a bare name or a path to any of the
// component's files) into the directory holding the component and its name.
// Any of the given variant suffixes (e.g. "_cpp03") is stripped from the name.
func Split(arg string, variants []string) (dir, name string) {
	path := StripSuffix(arg)
	for _, v := range variants {
		if v != "" && strings.HasSuffix(path, v) {
			path = strings.TrimSuffix(path, v)
			break
		}
	}
	return filepath.Dir(path), filepath.Base(path)
}

// PackageOf returns the package prefix of a component name.
// The prefix is everything before the first underscore.
func PackageOf(name string) string {
	pkg, _, _ := strings.Cut(name, "_")
	return pkg
}
