package natives

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/provide-io/craftlaunch/pkg/minecraft"
)

// markerFile records what the last materialization pass did. Purely
// diagnostic: the directory is cleared and re-extracted on every launch.
const markerFile = ".extraction.complete"

// Marker is the extraction completion record
type Marker struct {
	Timestamp     time.Time `json:"timestamp"`
	VersionID     string    `json:"version_id"`
	Extracted     int       `json:"extracted"`
	Failed        int       `json:"failed"`
	NativeBearing int       `json:"native_bearing"`
}

func (m *Materializer) writeMarker(destDir string, def *minecraft.VersionDefinition, res Result) {
	marker := Marker{
		Timestamp:     time.Now().UTC(),
		VersionID:     def.ID,
		Extracted:     res.Extracted,
		Failed:        res.Failed,
		NativeBearing: res.NativeBearing,
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(filepath.Join(destDir, markerFile), data, 0o644); err != nil {
		m.logger.Debug("Failed to write extraction marker", "error", err)
	}
}

// ReadMarker loads the completion record from a natives directory, if any
func ReadMarker(destDir string) (*Marker, bool) {
	data, err := os.ReadFile(filepath.Join(destDir, markerFile))
	if err != nil {
		return nil, false
	}
	var marker Marker
	if err := json.Unmarshal(data, &marker); err != nil {
		return nil, false
	}
	return &marker, true
}
