// Package minecraft implements version definitions and rule evaluation
// This file contains tests for platform classifier matching
package minecraft

import "testing"

// TestClassifierMatchesPlatform tests the natives-<os>[-<arch>] matcher and
// its per-platform suffix quirks
func TestClassifierMatchesPlatform(t *testing.T) {
	testCases := []struct {
		classifier string
		osName     string
		goarch     string
		expected   bool
	}{
		// Bare OS classifiers cover every architecture
		{"natives-linux", "linux", "amd64", true},
		{"natives-linux", "linux", "arm64", true},
		{"natives-windows", "windows", "amd64", true},
		{"natives-linux", "windows", "amd64", false},

		// macOS aliases both ways
		{"natives-macos", "osx", "amd64", true},
		{"natives-osx", "osx", "amd64", true},
		{"natives-macos", "macos", "arm64", true},
		{"natives-macos", "linux", "amd64", false},

		// Arch-suffixed classifiers
		{"natives-macos-arm64", "osx", "arm64", true},
		{"natives-macos-arm64", "osx", "amd64", false},
		{"natives-windows-x86", "windows", "386", true},
		{"natives-windows-x86", "windows", "amd64", false},
		{"natives-windows-64", "windows", "amd64", true},
		{"natives-linux-aarch64", "linux", "arm64", true},
		{"natives-linux-arm32", "linux", "arm", true},

		// 32-bit macOS does not exist in the suffix tables
		{"natives-macos-32", "osx", "386", false},

		// Not a natives classifier at all
		{"sources", "linux", "amd64", false},
		{"", "linux", "amd64", false},
	}

	for _, tc := range testCases {
		t.Run(tc.classifier+"/"+tc.osName+"/"+tc.goarch, func(t *testing.T) {
			got := ClassifierMatchesPlatform(tc.classifier, tc.osName, tc.goarch)
			if got != tc.expected {
				t.Errorf("ClassifierMatchesPlatform(%q, %q, %q) = %v, expected %v",
					tc.classifier, tc.osName, tc.goarch, got, tc.expected)
			}
		})
	}
}

// TestNativeArchToken tests ${arch} token mapping
func TestNativeArchToken(t *testing.T) {
	testCases := []struct {
		goarch   string
		expected string
	}{
		{"amd64", "64"},
		{"386", "32"},
		{"arm64", "arm64"},
		{"arm", "arm32"},
		{"riscv64", "riscv64"},
	}

	for _, tc := range testCases {
		if got := NativeArchToken(tc.goarch); got != tc.expected {
			t.Errorf("NativeArchToken(%q) = %q, expected %q", tc.goarch, got, tc.expected)
		}
	}
}
