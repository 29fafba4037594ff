package minecraft

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/provide-io/craftlaunch/internal/gamepaths"
)

// DefinitionCache persists raw version definitions under the versions tree,
// one JSON file per version id (versions/<id>/<id>.json).
type DefinitionCache struct {
	paths *gamepaths.GamePaths
}

// NewDefinitionCache creates a cache over a GamePaths layout
func NewDefinitionCache(paths *gamepaths.GamePaths) *DefinitionCache {
	return &DefinitionCache{paths: paths}
}

// Load returns the cached raw definition for id. ok is false on a miss.
func (c *DefinitionCache) Load(id string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(c.paths.VersionJSON(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached definition for %s: %w", id, err)
	}
	return data, true, nil
}

// Store persists a raw definition for id
func (c *DefinitionCache) Store(id string, data []byte) error {
	path := c.paths.VersionJSON(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating version directory for %s: %w", id, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing cached definition for %s: %w", id, err)
	}
	return nil
}
