// This file contains tests for checksum parsing and verification
package download

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestParseChecksum tests prefixed and bare checksum formats
func TestParseChecksum(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedAlgo  ChecksumAlgorithm
		expectedValue string
		expectErr     bool
	}{
		{
			name:          "prefixed sha1",
			input:         "sha1:da39a3ee5e6b4b0d3255bfef95601890afd80709",
			expectedAlgo:  ChecksumSHA1,
			expectedValue: "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
		{
			name:          "prefixed sha256",
			input:         "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			expectedAlgo:  ChecksumSHA256,
			expectedValue: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:          "bare 40-char hex guesses sha1",
			input:         "da39a3ee5e6b4b0d3255bfef95601890afd80709",
			expectedAlgo:  ChecksumSHA1,
			expectedValue: "da39a3ee5e6b4b0d3255bfef95601890afd80709",
		},
		{
			name:          "bare 64-char hex guesses sha256",
			input:         "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			expectedAlgo:  ChecksumSHA256,
			expectedValue: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:      "unknown algorithm",
			input:     "md5:abc",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			algo, value, err := ParseChecksum(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if algo != tc.expectedAlgo {
				t.Errorf("algorithm = %s, expected %s", algo, tc.expectedAlgo)
			}
			if value != tc.expectedValue {
				t.Errorf("value = %s, expected %s", value, tc.expectedValue)
			}
		})
	}
}

// TestVerifyFile tests checksum verification against files on disk
func TestVerifyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	// Known digests of "hello world"
	sha1Hex := "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"
	sha256Hex := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

	testCases := []struct {
		name     string
		checksum string
		expected bool
	}{
		{"bare sha1 match", sha1Hex, true},
		{"prefixed sha1 match", "sha1:" + sha1Hex, true},
		{"bare sha256 match", sha256Hex, true},
		{"uppercase hex matches", strings.ToUpper(sha1Hex), true},
		{"sha1 mismatch", "0000000000000000000000000000000000000000", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			match, err := VerifyFile(path, tc.checksum)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if match != tc.expected {
				t.Errorf("match = %v, expected %v", match, tc.expected)
			}
		})
	}
}

// TestVerifyFileMissing tests that verifying a missing file errors
func TestVerifyFileMissing(t *testing.T) {
	_, err := VerifyFile(filepath.Join(t.TempDir(), "missing.bin"), "sha1:00")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
