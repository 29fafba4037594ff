// Package natives materializes platform-specific native binaries out of
// downloaded library archives into a per-version scratch directory.
package natives

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/pkg/minecraft"
)

// Result reports what a materialization pass did. Extracted == 0 while
// NativeBearing > 0 is a warning condition: the launch proceeds but the
// child process may fail with a link error at runtime.
type Result struct {
	Extracted     int
	Failed        int
	NativeBearing int
}

// Materializer extracts native payloads for the concrete runtime platform
type Materializer struct {
	paths  *gamepaths.GamePaths
	logger hclog.Logger
}

// New creates a Materializer
func New(paths *gamepaths.GamePaths, logger hclog.Logger) *Materializer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Materializer{paths: paths, logger: logger}
}

// Materialize clears and recreates destDir, then extracts every native
// payload the definition declares for the context's platform. Per-library
// extraction failures are recorded and do not abort the pass; only a
// filesystem failure on destDir itself does.
func (m *Materializer) Materialize(def *minecraft.VersionDefinition, ctx minecraft.RuleContext, destDir string) (Result, error) {
	var res Result

	if err := os.RemoveAll(destDir); err != nil {
		return res, fmt.Errorf("clearing natives directory: %w", err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return res, fmt.Errorf("creating natives directory: %w", err)
	}

	for _, lib := range def.Libraries {
		if !minecraft.EvaluateRules(lib.Rules, ctx) {
			continue
		}

		archive, excludes, matched := m.nativeArchive(lib, ctx)
		if !matched {
			continue
		}
		res.NativeBearing++

		m.logger.Debug("📦 Extracting natives", "library", lib.Name, "archive", archive)
		if err := extractZip(archive, destDir, excludes); err != nil {
			m.logger.Error("❌ Native extraction failed", "library", lib.Name, "error", err)
			res.Failed++
			continue
		}
		res.Extracted++
	}

	if res.NativeBearing > 0 && res.Extracted == 0 {
		m.logger.Warn("⚠️ No natives extracted although native-bearing libraries are present",
			"libraries", res.NativeBearing)
	} else {
		m.logger.Info("✅ Natives materialized", "extracted", res.Extracted, "failed", res.Failed)
	}

	m.writeMarker(destDir, def, res)
	return res, nil
}

// nativeArchive decides whether a library is a native package for the
// context's platform and returns the archive path to extract. Two detection
// paths exist because upstream data is inconsistent across versions: (a) a
// platform classifier embedded in the library name, (b) a natives mapping
// with a per-OS classifier template. Path (a) wins when both would match.
func (m *Materializer) nativeArchive(lib minecraft.Library, ctx minecraft.RuleContext) (archive string, excludes []string, matched bool) {
	if lib.Extract != nil {
		excludes = lib.Extract.Exclude
	}

	if cls := lib.NameClassifier(); cls != "" {
		if minecraft.ClassifierMatchesPlatform(cls, ctx.OSName, goarchOf(ctx)) {
			if rel := lib.ArtifactPath(); rel != "" {
				return m.paths.LibraryArtifact(rel), excludes, true
			}
		}
		return "", nil, false
	}

	if classifier := minecraft.NativeClassifier(lib, ctx); classifier != "" {
		if rel := lib.ClassifierPath(classifier); rel != "" {
			return m.paths.LibraryArtifact(rel), excludes, true
		}
	}

	return "", nil, false
}

func goarchOf(ctx minecraft.RuleContext) string {
	switch ctx.OSArch {
	case "x86":
		return "386"
	case "x86_64":
		return "amd64"
	default:
		return ctx.OSArch
	}
}

// extractZip extracts a jar/zip archive into destDir, skipping entries whose
// path starts with an excluded prefix.
func extractZip(archive, destDir string, excludes []string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archive, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		name := filepath.ToSlash(entry.Name)
		if excluded(name, excludes) {
			continue
		}

		target := filepath.Join(destDir, filepath.FromSlash(name))
		// Zip-slip guard
		if rel, err := filepath.Rel(destDir, target); err != nil || strings.HasPrefix(rel, "..") {
			return fmt.Errorf("archive entry %q escapes destination", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", target, err)
		}
		if err := writeEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("extracting %s: %w", entry.Name, err)
	}
	return nil
}

func excluded(name string, excludes []string) bool {
	for _, prefix := range excludes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
