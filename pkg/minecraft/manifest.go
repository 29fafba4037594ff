package minecraft

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/provide-io/craftlaunch/pkg/fetch"
)

// ManifestVersion is one entry of the remote version list
type ManifestVersion struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Time        string `json:"time,omitempty"`
	ReleaseTime string `json:"releaseTime,omitempty"`
	SHA1        string `json:"sha1,omitempty"`
}

// Manifest is the remote version list
type Manifest struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []ManifestVersion `json:"versions"`
}

// DefinitionURLResolver maps a version id to the URL of its raw definition
type DefinitionURLResolver interface {
	DefinitionURL(ctx context.Context, versionID string) (string, error)
}

// ManifestResolver resolves definition URLs through the remote version
// manifest, fetching the manifest at most once per instance.
type ManifestResolver struct {
	fetcher     fetch.Fetcher
	manifestURL string
	manifest    *Manifest
}

// NewManifestResolver creates a ManifestResolver
func NewManifestResolver(fetcher fetch.Fetcher, manifestURL string) *ManifestResolver {
	return &ManifestResolver{fetcher: fetcher, manifestURL: manifestURL}
}

// Load fetches and parses the version manifest (cached per instance)
func (m *ManifestResolver) Load(ctx context.Context) (*Manifest, error) {
	if m.manifest != nil {
		return m.manifest, nil
	}
	data, err := m.fetcher.Fetch(ctx, m.manifestURL)
	if err != nil {
		return nil, fmt.Errorf("fetching version manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing version manifest: %w", err)
	}
	m.manifest = &manifest
	return m.manifest, nil
}

// DefinitionURL looks up the raw definition URL for a version id
func (m *ManifestResolver) DefinitionURL(ctx context.Context, versionID string) (string, error) {
	manifest, err := m.Load(ctx)
	if err != nil {
		return "", err
	}
	for _, v := range manifest.Versions {
		if v.ID == versionID {
			return v.URL, nil
		}
	}
	return "", fmt.Errorf("version %s: %w", versionID, fetch.ErrNotFound)
}
