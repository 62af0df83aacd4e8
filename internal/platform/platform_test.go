//go:build !ios && !android && (amd64 || arm64)

package platform

import (
	"runtime"
	"strings"
	"testing"
)

func TestSupportsStructByValue(t *testing.T) {
	if runtime.GOOS == "darwin" && (runtime.GOARCH == "amd64" || runtime.GOARCH == "arm64") {
		if !SupportsStructByValue {
			t.Error("Darwin amd64/arm64 should support struct by value")
		}
	} else {
		if SupportsStructByValue {
			t.Errorf("%s/%s should not support struct by value", runtime.GOOS, runtime.GOARCH)
		}
	}
}

func TestIs64Bit(t *testing.T) {
	if !Is64Bit {
		t.Error("Platform should be 64-bit")
	}
}

func TestFormatLibraryName(t *testing.T) {
	tests := []struct {
		name    string
		version int
		goos    string
		want    string
	}{
		{"ffboundary", 1, "linux", "libffboundary.so.1"},
		{"ffboundary", 0, "linux", "libffboundary.so"},
		{"ffboundary", 1, "darwin", "libffboundary.1.dylib"},
		{"ffboundary", 0, "darwin", "libffboundary.dylib"},
		{"ffboundary", 1, "windows", "ffboundary-1.dll"},
		{"ffboundary", 0, "windows", "ffboundary.dll"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_"+tt.goos, func(t *testing.T) {
			if runtime.GOOS != tt.goos {
				t.Skipf("test only applies to %s", tt.goos)
			}
			got := FormatLibraryName(tt.name, tt.version)
			if got != tt.want {
				t.Errorf("FormatLibraryName(%q, %d) = %q, want %q", tt.name, tt.version, got, tt.want)
			}
		})
	}
}

func TestLibcCandidates(t *testing.T) {
	names := LibcCandidates()
	if len(names) == 0 {
		t.Fatal("LibcCandidates should not be empty")
	}
	if runtime.GOOS == "linux" && !strings.HasPrefix(names[0], "libc.so") {
		t.Errorf("expected libc.so first on linux, got %s", names[0])
	}
}

func TestGOOSAndGOARCH(t *testing.T) {
	if GOOS() != runtime.GOOS {
		t.Errorf("GOOS() = %q, want %q", GOOS(), runtime.GOOS)
	}
	if GOARCH() != runtime.GOARCH {
		t.Errorf("GOARCH() = %q, want %q", GOARCH(), runtime.GOARCH)
	}
}
