// Checksum utilities supporting multiple algorithms with prefixed format.
//
// Format: "algorithm:hexvalue" (e.g. "sha1:c0ffee123..."). Bare hex values
// are accepted for compatibility with upstream manifests, which carry plain
// SHA-1 strings; the algorithm is then guessed from the digest length.
package download

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ChecksumAlgorithm represents supported checksum algorithms
type ChecksumAlgorithm int

const (
	ChecksumSHA1 ChecksumAlgorithm = iota
	ChecksumSHA256
)

func (c ChecksumAlgorithm) String() string {
	switch c {
	case ChecksumSHA1:
		return "sha1"
	case ChecksumSHA256:
		return "sha256"
	default:
		return "unknown"
	}
}

func (c ChecksumAlgorithm) newHash() hash.Hash {
	switch c {
	case ChecksumSHA256:
		return sha256.New()
	default:
		return sha1.New()
	}
}

// ParseChecksum parses a checksum string that may or may not have a prefix
func ParseChecksum(checksumStr string) (ChecksumAlgorithm, string, error) {
	if strings.Contains(checksumStr, ":") {
		algoName, value, _ := strings.Cut(checksumStr, ":")
		switch algoName {
		case "sha1":
			return ChecksumSHA1, value, nil
		case "sha256":
			return ChecksumSHA256, value, nil
		default:
			return ChecksumSHA1, "", fmt.Errorf("unknown checksum algorithm: %s", algoName)
		}
	}

	// Bare format - guess based on length
	switch len(checksumStr) {
	case 64:
		return ChecksumSHA256, checksumStr, nil
	default:
		return ChecksumSHA1, checksumStr, nil
	}
}

// HashReader computes the hex digest of a stream
func HashReader(r io.Reader, algorithm ChecksumAlgorithm) (string, error) {
	h := algorithm.newHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hashing stream: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile computes the hex digest of a file's contents
func HashFile(path string, algorithm ChecksumAlgorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer f.Close()
	return HashReader(f, algorithm)
}

// VerifyFile verifies a file against a checksum string
func VerifyFile(path string, checksumStr string) (bool, error) {
	algo, expected, err := ParseChecksum(checksumStr)
	if err != nil {
		return false, err
	}
	actual, err := HashFile(path, algo)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(actual, expected), nil
}
