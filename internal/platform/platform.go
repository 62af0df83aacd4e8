//go:build !ios && !android && (amd64 || arm64)

// Package platform reports what the current OS/arch can do at the C boundary:
// whether purego can move structs by value, how shared libraries are named,
// and where the C runtime lives.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// SupportsStructByValue indicates whether purego can pass and return C structs
// by value. Only Darwin amd64/arm64 supports this; elsewhere the pointer
// variants of the boundary surface must be used.
const SupportsStructByValue = runtime.GOOS == "darwin" &&
	(runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64")

// Is64Bit indicates whether the platform is 64-bit. The descriptor layout
// assumes size_t and uintptr are the same width.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension string

// LibraryPrefix is the prefix for shared library names on this platform.
var LibraryPrefix string

func init() {
	switch runtime.GOOS {
	case "darwin":
		LibraryExtension = ".dylib"
		LibraryPrefix = "lib"
	case "windows":
		LibraryExtension = ".dll"
		LibraryPrefix = ""
	default:
		LibraryExtension = ".so"
		LibraryPrefix = "lib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("ffboundary", 1) -> "libffboundary.so.1"
//   - macOS:   FormatLibraryName("ffboundary", 1) -> "libffboundary.1.dylib"
//   - Windows: FormatLibraryName("ffboundary", 0) -> "ffboundary.dll"
func FormatLibraryName(name string, version int) string {
	switch runtime.GOOS {
	case "darwin":
		if version > 0 {
			return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	case "windows":
		if version > 0 {
			return fmt.Sprintf("%s%s-%d%s", LibraryPrefix, name, version, LibraryExtension)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	default:
		if version > 0 {
			return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
		}
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
}

// LibcCandidates returns the names to try, in order, when opening the C
// runtime that owns malloc and free.
func LibcCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"/usr/lib/libSystem.B.dylib", "libSystem.B.dylib"}
	case "windows":
		return []string{"ucrtbase.dll", "msvcrt.dll"}
	case "freebsd":
		return []string{"libc.so.7", "libc.so"}
	default:
		return []string{"libc.so.6", "libc.so"}
	}
}

// GOOS returns the current operating system.
func GOOS() string {
	return runtime.GOOS
}

// GOARCH returns the current architecture.
func GOARCH() string {
	return runtime.GOARCH
}
