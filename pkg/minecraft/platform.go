package minecraft

import (
	"runtime"
	"strings"
)

// Platform name used by version definitions for macOS. Older definitions say
// "osx", newer tooling says "macos"; both normalize to "osx" here because the
// upstream rule data predominantly uses it.
const (
	OSWindows = "windows"
	OSLinux   = "linux"
	OSOSX     = "osx"
)

// NormalizeOSName maps the historical platform name aliases onto one bucket.
// Unknown names pass through lowercased so rule comparison stays exact.
func NormalizeOSName(name string) string {
	switch strings.ToLower(name) {
	case "macos", "osx", "darwin", "mac":
		return OSOSX
	default:
		return strings.ToLower(name)
	}
}

// CurrentOSName returns the definition-vocabulary name for the running OS
func CurrentOSName() string {
	switch runtime.GOOS {
	case "darwin":
		return OSOSX
	default:
		return runtime.GOOS
	}
}

// CurrentOSArch returns the definition-vocabulary architecture for the
// running process. Rule data uses "x86" for 32-bit Intel.
func CurrentOSArch() string {
	switch runtime.GOARCH {
	case "386":
		return "x86"
	case "amd64":
		return "x86_64"
	default:
		return runtime.GOARCH
	}
}

// nativeArchTokens maps GOARCH onto the token substituted for ${arch} in
// native classifier templates. Upstream data spells 64-bit as plain "64".
var nativeArchTokens = map[string]string{
	"amd64": "64",
	"386":   "32",
	"arm64": "arm64",
	"arm":   "arm32",
}

// NativeArchToken returns the ${arch} substitution token for a GOARCH value
func NativeArchToken(goarch string) string {
	if tok, ok := nativeArchTokens[goarch]; ok {
		return tok
	}
	return goarch
}

// classifierArchSuffixes lists, per OS and GOARCH, the architecture suffixes
// accepted on a "natives-<os>[-<arch>]" classifier. The spellings differ per
// platform in upstream data; the sets are quirky on purpose and must not be
// collapsed into generic 32/64-bit inference.
var classifierArchSuffixes = map[string]map[string][]string{
	OSWindows: {
		"amd64": {"64", "x64", "x86_64"},
		"386":   {"32", "x86"},
		"arm64": {"arm64", "aarch64"},
	},
	OSLinux: {
		"amd64": {"64", "x64", "x86_64"},
		"386":   {"32", "x86"},
		"arm64": {"arm64", "aarch64"},
		"arm":   {"arm32"},
	},
	OSOSX: {
		"amd64": {"64", "x64", "x86_64"},
		"arm64": {"arm64", "aarch64"},
	},
}

// ClassifierMatchesPlatform reports whether a library classifier such as
// "natives-windows" or "natives-macos-arm64" denotes a native payload for
// the given OS (definition vocabulary) and GOARCH.
func ClassifierMatchesPlatform(classifier, osName, goarch string) bool {
	rest, ok := strings.CutPrefix(classifier, "natives-")
	if !ok {
		return false
	}

	osName = NormalizeOSName(osName)

	// The OS token may itself be an alias ("macos" vs "osx")
	var archSuffix string
	switch {
	case strings.HasPrefix(rest, "macos"):
		if osName != OSOSX {
			return false
		}
		archSuffix = strings.TrimPrefix(strings.TrimPrefix(rest, "macos"), "-")
	case strings.HasPrefix(rest, "osx"):
		if osName != OSOSX {
			return false
		}
		archSuffix = strings.TrimPrefix(strings.TrimPrefix(rest, "osx"), "-")
	case strings.HasPrefix(rest, osName):
		archSuffix = strings.TrimPrefix(strings.TrimPrefix(rest, osName), "-")
	default:
		return false
	}

	// No arch suffix means the payload covers every architecture for that OS
	if archSuffix == "" {
		return true
	}

	accepted := classifierArchSuffixes[osName][goarch]
	for _, tok := range accepted {
		if archSuffix == tok {
			return true
		}
	}
	return false
}
