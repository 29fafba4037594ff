package minecraft

import (
	"encoding/json"
	"fmt"
	"sort"
)

// AssetObject is one content-addressed asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// AssetIndex maps logical asset names to content hashes. Virtual and
// map_to_resources layouts exist in very old indexes; they are parsed but
// not materialized.
type AssetIndex struct {
	Virtual        bool                   `json:"virtual,omitempty"`
	MapToResources bool                   `json:"map_to_resources,omitempty"`
	Objects        map[string]AssetObject `json:"objects"`
}

// ParseAssetIndex decodes an asset index file
func ParseAssetIndex(data []byte) (*AssetIndex, error) {
	var index AssetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parsing asset index: %w", err)
	}
	if index.Objects == nil {
		return nil, fmt.Errorf("asset index has no objects")
	}
	return &index, nil
}

// SortedNames returns asset names in deterministic order
func (a *AssetIndex) SortedNames() []string {
	names := make([]string, 0, len(a.Objects))
	for name := range a.Objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
