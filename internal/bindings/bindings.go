//go:build !ios && !android && (amd64 || arm64)

// Package bindings loads a built libffboundary and binds its exported
// symbols into an abi.Table using purego. This is how Go plays the foreign
// caller: every call goes through the C ABI exactly as a C program's would.
package bindings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/ffboundary/abi"
	"github.com/obinnaokechukwu/ffboundary/internal/platform"
)

// ErrLibraryNotFound is returned when libffboundary cannot be found.
var ErrLibraryNotFound = errors.New("ffboundary: library not found")

// EnvLibDir overrides the library search with a single directory.
const EnvLibDir = "FFBOUNDARY_LIB_DIR"

// LibraryName is the base name of the shared library.
const LibraryName = "ffboundary"

var libraryVersions = []int{1}

// Library is a loaded libffboundary.
type Library struct {
	Path   string
	Handle uintptr
	Table  *abi.Table

	// Unbound lists symbols that were skipped or absent.
	Unbound []string
}

// Open loads the library at path, or searches for it when path is empty.
// extraDirs are searched before the platform defaults.
func Open(path string, extraDirs []string) (*Library, error) {
	if path == "" {
		found, err := FindLibrary(LibraryName, libraryVersions, extraDirs)
		if err != nil {
			return nil, err
		}
		path = found
	}

	lib, err := tryOpen(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	l := &Library{Path: path, Handle: lib, Table: &abi.Table{}}
	l.register()
	return l, nil
}

// Close unloads the library. Handles and sequences obtained from it must not
// be used afterwards.
func (l *Library) Close() error {
	if l == nil || l.Handle == 0 {
		return nil
	}
	err := purego.Dlclose(l.Handle)
	l.Handle = 0
	return err
}

func (l *Library) register() {
	for _, sym := range l.Table.Symbols() {
		if sym.ByValue && !platform.SupportsStructByValue {
			l.Unbound = append(l.Unbound, sym.Name)
			continue
		}
		if !registerOptionalLibFunc(sym.Fn, l.Handle, sym.Name) {
			l.Unbound = append(l.Unbound, sym.Name)
		}
	}
}

func registerOptionalLibFunc(fptr any, handle uintptr, name string) (ok bool) {
	defer func() {
		if recover() != nil { // purego.RegisterLibFunc panics if symbol is missing
			ok = false
		}
	}()
	purego.RegisterLibFunc(fptr, handle, name)
	return true
}

// tryOpen opens a library with RTLD_NOW so missing dependencies fail here.
func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// FindLibrary searches for a library and returns its full path.
// If FFBOUNDARY_LIB_DIR is set, only that directory is searched.
func FindLibrary(name string, versions []int, extraDirs []string) (string, error) {
	if dir := os.Getenv(EnvLibDir); dir != "" {
		if p, ok := findIn(dir, name, versions); ok {
			return p, nil
		}
		return "", fmt.Errorf("%w: %s=%s does not contain %s",
			ErrLibraryNotFound, EnvLibDir, dir, platform.FormatLibraryName(name, 0))
	}

	dirs := append(append([]string{}, extraDirs...), LibrarySearchPaths()...)
	for _, dir := range dirs {
		if p, ok := findIn(dir, name, versions); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, name)
}

// findIn tries versioned names first (more specific), then the plain name.
func findIn(dir, name string, versions []int) (string, bool) {
	for _, ver := range versions {
		p := filepath.Join(dir, platform.FormatLibraryName(name, ver))
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	p := filepath.Join(dir, platform.FormatLibraryName(name, 0))
	if _, err := os.Stat(p); err == nil {
		return p, true
	}
	return "", false
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	switch runtime.GOOS {
	case "darwin":
		if p := os.Getenv("DYLD_LIBRARY_PATH"); p != "" {
			paths = append(paths, filepath.SplitList(p)...)
		}
		paths = append(paths, "/opt/homebrew/lib", "/usr/local/lib")
	case "windows":
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Dir(exe))
		}
		if p := os.Getenv("PATH"); p != "" {
			paths = append(paths, filepath.SplitList(p)...)
		}
	default:
		if p := os.Getenv("LD_LIBRARY_PATH"); p != "" {
			paths = append(paths, filepath.SplitList(p)...)
		}
		paths = append(paths, "/usr/local/lib", "/usr/lib", "/lib")
	}

	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, wd, filepath.Join(wd, "build"))
	}
	return paths
}
