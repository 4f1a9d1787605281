package component

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrMissingFile is returned when a component file does not exist.
var ErrMissingFile = errors.New("missing component file")

// Files holds the source files of one component.
type Files struct {
	Interface      string
	Implementation string
	TestDrivers    []string
}

// All returns every file of the component in scan order.
func (f Files) All() []string {
	all := make([]string, 0, 2+len(f.TestDrivers))
	all = append(all, f.Interface, f.Implementation)
	return append(all, f.TestDrivers...)
}

// Resolver finds component files inside a single package directory.
type Resolver struct {
	// Dir is the package directory. Empty means the current directory.
	Dir string
}

// NewResolver creates a resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Files returns the files that make up the named component without checking
// that they exist. Numbered test drivers are used when name.0.t.cpp exists.
func (r *Resolver) Files(name string) Files {
	base := filepath.Join(r.Dir, name)
	files := Files{
		Interface:      base + ".h",
		Implementation: base + ".cpp",
	}

	if !exists(base + ".0.t.cpp") {
		files.TestDrivers = []string{base + ".t.cpp"}
		return files
	}

	for i := 0; ; i++ {
		driver := base + "." + strconv.Itoa(i) + ".t.cpp"
		if !exists(driver) {
			break
		}
		files.TestDrivers = append(files.TestDrivers, driver)
	}
	return files
}

// Resolve returns the files of the named component, failing with
// ErrMissingFile if any of them is absent.
func (r *Resolver) Resolve(name string) (Files, error) {
	files := r.Files(name)
	for _, path := range files.All() {
		if !exists(path) {
			return Files{}, fmt.Errorf("%w: %s (component %s)", ErrMissingFile, path, name)
		}
	}
	return files, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
