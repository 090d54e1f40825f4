// Package index locates installed package resources the way an ament-style
// install tree lays them out: each prefix root contains share/<package> for
// data files and lib/<package> for executables.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PrefixPathEnv is the environment variable listing install prefix roots,
// separated by the platform's path list separator.
const PrefixPathEnv = "AMENT_PREFIX_PATH"

// PackageNotFoundError reports a package whose share directory exists under
// none of the searched prefix roots.
type PackageNotFoundError struct {
	Package string
	Roots   []string
}

// Error implements the error interface.
func (e *PackageNotFoundError) Error() string {
	if len(e.Roots) == 0 {
		return fmt.Sprintf("package %q not found: no prefix roots configured (set %s or pass --prefix-path)", e.Package, PrefixPathEnv)
	}
	return fmt.Sprintf("package %q not found under prefix roots [%s]", e.Package, strings.Join(e.Roots, ", "))
}

// Index resolves package share and executable paths over an ordered list of
// prefix roots. Lookups are deterministic and uncached; the first root that
// contains the package wins.
type Index struct {
	roots []string
}

// New builds an index from the given extra roots followed by the roots in
// PrefixPathEnv. Extra roots take precedence so a CLI flag can shadow an
// installed tree.
func New(extraRoots ...string) *Index {
	roots := make([]string, 0, len(extraRoots))
	roots = append(roots, extraRoots...)
	for _, root := range filepath.SplitList(os.Getenv(PrefixPathEnv)) {
		if root != "" {
			roots = append(roots, root)
		}
	}
	return &Index{roots: roots}
}

// NewWithRoots builds an index over exactly the given roots, ignoring the
// environment. Used by tests and embedded callers.
func NewWithRoots(roots ...string) *Index {
	return &Index{roots: roots}
}

// Roots returns the search roots in precedence order.
func (ix *Index) Roots() []string {
	out := make([]string, len(ix.roots))
	copy(out, ix.roots)
	return out
}

// ShareDirectory returns the share directory of an installed package.
func (ix *Index) ShareDirectory(pkg string) (string, error) {
	for _, root := range ix.roots {
		dir := filepath.Join(root, "share", pkg)
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", &PackageNotFoundError{Package: pkg, Roots: ix.Roots()}
}

// Executable returns the path of a package's installed executable under
// lib/<package>/<name>.
func (ix *Index) Executable(pkg, name string) (string, error) {
	for _, root := range ix.roots {
		path := filepath.Join(root, "lib", pkg, name)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0 {
			return path, nil
		}
	}
	return "", &PackageNotFoundError{Package: pkg, Roots: ix.Roots()}
}
