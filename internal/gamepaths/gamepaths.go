// Package gamepaths manages the on-disk directory layout for game data:
// libraries, versions, assets and per-version natives scratch directories.
package gamepaths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Directory and file names under the data root
const (
	LibrariesDir    = "libraries"
	VersionsDir     = "versions"
	AssetsDir       = "assets"
	AssetIndexesDir = "indexes"
	AssetObjectsDir = "objects"
	LogConfigsDir   = "log_configs"
	NativesSuffix   = "-natives"
)

// GamePaths resolves all paths under a single data root directory
type GamePaths struct {
	root string
}

// New creates a GamePaths rooted at dir. An empty dir falls back to the
// platform default data root.
func New(dir string) *GamePaths {
	if dir == "" {
		dir = DefaultRoot()
	}
	return &GamePaths{root: dir}
}

// Root returns the data root directory
func (p *GamePaths) Root() string {
	return p.root
}

// Libraries returns the library archive tree root
func (p *GamePaths) Libraries() string {
	return filepath.Join(p.root, LibrariesDir)
}

// Versions returns the per-version directory tree root
func (p *GamePaths) Versions() string {
	return filepath.Join(p.root, VersionsDir)
}

// VersionDir returns the directory holding one version's files
func (p *GamePaths) VersionDir(id string) string {
	return filepath.Join(p.Versions(), id)
}

// VersionJSON returns the cached raw definition path for a version
func (p *GamePaths) VersionJSON(id string) string {
	return filepath.Join(p.VersionDir(id), id+".json")
}

// VersionJar returns the client archive path for a version
func (p *GamePaths) VersionJar(id string) string {
	return filepath.Join(p.VersionDir(id), id+".jar")
}

// Natives returns the per-version natives scratch directory
func (p *GamePaths) Natives(id string) string {
	return filepath.Join(p.VersionDir(id), id+NativesSuffix)
}

// Assets returns the asset tree root
func (p *GamePaths) Assets() string {
	return filepath.Join(p.root, AssetsDir)
}

// AssetIndex returns the asset index file path for an index id
func (p *GamePaths) AssetIndex(indexID string) string {
	return filepath.Join(p.Assets(), AssetIndexesDir, indexID+".json")
}

// AssetObject returns the content-addressed path for an asset hash:
// objects/<first two hex chars>/<hash>
func (p *GamePaths) AssetObject(hash string) string {
	return filepath.Join(p.Assets(), AssetObjectsDir, hash[:2], hash)
}

// LogConfig returns the path for a downloaded logging configuration file
func (p *GamePaths) LogConfig(id string) string {
	return filepath.Join(p.Assets(), LogConfigsDir, id)
}

// LibraryArtifact returns the path for a library artifact's relative path
func (p *GamePaths) LibraryArtifact(relPath string) string {
	return filepath.Join(p.Libraries(), filepath.FromSlash(relPath))
}

// DefaultRoot returns the platform default data root directory
func DefaultRoot() string {
	if dir := os.Getenv("CRAFT_DATA_DIR"); dir != "" {
		return dir
	}

	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", "craftlaunch")
		}
	case "linux":
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "craftlaunch")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".local", "share", "craftlaunch")
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "craftlaunch")
		}
	}

	// Last resort: relative to the working directory
	return "craftlaunch-data"
}

// ValidateVersionID rejects version identifiers that would escape the
// versions tree when joined into a path. Upstream ids are plain strings
// like "1.20.1" or "1.20.1-modded".
func ValidateVersionID(id string) error {
	if id == "" {
		return fmt.Errorf("empty version id")
	}
	if strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("version id %q contains a path separator", id)
	}
	if id == "." || id == ".." || strings.HasPrefix(id, "..") {
		return fmt.Errorf("version id %q is a traversal segment", id)
	}
	return nil
}
