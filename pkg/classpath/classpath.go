// Package classpath assembles the ordered, deduplicated execution classpath
// for a resolved version definition.
package classpath

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/pkg/minecraft"
)

// Build returns the ordered classpath entries for a resolved definition.
// Native-only artifacts are skipped (they belong under java.library.path,
// never on the classpath), entries dedupe by group:artifact with the later
// declaration winning, and the base client archive is appended last. Missing
// files are logged and excluded; the result is deterministic for a fixed
// definition and filesystem state.
func Build(def *minecraft.VersionDefinition, ctx minecraft.RuleContext, paths *gamepaths.GamePaths, logger hclog.Logger) []string {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	var entries []string
	position := make(map[string]int)

	for _, lib := range def.Libraries {
		if !minecraft.EvaluateRules(lib.Rules, ctx) {
			continue
		}
		if isNativeOnly(lib) {
			continue
		}

		relPath := lib.ArtifactPath()
		if relPath == "" {
			logger.Debug("Skipping library with no resolvable artifact path", "library", lib.Name)
			continue
		}

		path := paths.LibraryArtifact(relPath)
		key := lib.GroupArtifact()

		if idx, seen := position[key]; seen {
			// Later declaration wins; keeps override semantics from merging
			entries[idx] = path
			continue
		}
		position[key] = len(entries)
		entries = append(entries, path)
	}

	// Drop entries whose files are missing
	kept := entries[:0]
	for _, path := range entries {
		if _, err := os.Stat(path); err != nil {
			logger.Warn("⚠️ Classpath entry missing on disk, excluding", "path", path)
			continue
		}
		kept = append(kept, path)
	}
	entries = kept

	clientJar := paths.VersionJar(def.BaseID)
	if !contains(entries, clientJar) {
		if _, err := os.Stat(clientJar); err != nil {
			logger.Error("🚨 Base client archive missing; launch is almost certainly unviable", "path", clientJar)
		} else {
			entries = append(entries, clientJar)
		}
	}

	return entries
}

// Join renders entries with the platform path-list separator (';' vs ':')
func Join(entries []string) string {
	return strings.Join(entries, string(os.PathListSeparator))
}

// isNativeOnly identifies artifacts that carry native binaries rather than
// classes: by name classifier, by file-name classifier, or by the presence
// of a native-classifier mapping.
func isNativeOnly(lib minecraft.Library) bool {
	if strings.HasPrefix(lib.NameClassifier(), "natives-") {
		return true
	}
	if len(lib.Natives) > 0 {
		return true
	}
	if rel := lib.ArtifactPath(); strings.Contains(rel, "-natives-") {
		return true
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
