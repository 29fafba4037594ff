package minecraft

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/pkg/fetch"
)

// Resolver loads raw version definitions (cache-first, fetch-through) and
// flattens inheritance chains into one resolved definition.
type Resolver struct {
	fetcher fetch.Fetcher
	urls    DefinitionURLResolver
	cache   *DefinitionCache
	logger  hclog.Logger
}

// NewResolver creates a Resolver
func NewResolver(fetcher fetch.Fetcher, urls DefinitionURLResolver, cache *DefinitionCache, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{fetcher: fetcher, urls: urls, cache: cache, logger: logger}
}

// Resolve returns the fully resolved definition for versionID. Any
// unresolvable ancestor fails the whole resolution; a child definition alone
// is typically non-executable.
func (r *Resolver) Resolve(ctx context.Context, versionID string) (*VersionDefinition, error) {
	return r.resolve(ctx, versionID, map[string]bool{})
}

func (r *Resolver) resolve(ctx context.Context, versionID string, visiting map[string]bool) (*VersionDefinition, error) {
	if err := gamepaths.ValidateVersionID(versionID); err != nil {
		return nil, fmt.Errorf("invalid version id: %w", err)
	}
	if visiting[versionID] {
		return nil, fmt.Errorf("version %s: inheritance cycle detected", versionID)
	}
	visiting[versionID] = true

	raw, err := r.loadRaw(ctx, versionID)
	if err != nil {
		return nil, err
	}

	def, err := ParseDefinition(raw)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", versionID, err)
	}

	if def.InheritsFrom == "" {
		def.BaseID = def.ID
		return def, nil
	}

	r.logger.Debug("🧬 Resolving parent definition", "version", versionID, "parent", def.InheritsFrom)
	parent, err := r.resolve(ctx, def.InheritsFrom, visiting)
	if err != nil {
		return nil, fmt.Errorf("resolving ancestor %s of %s: %w", def.InheritsFrom, versionID, err)
	}

	return mergeDefinitions(parent, def), nil
}

// loadRaw returns the cached raw definition, fetching and persisting it on a
// cache miss.
func (r *Resolver) loadRaw(ctx context.Context, versionID string) ([]byte, error) {
	raw, ok, err := r.cache.Load(versionID)
	if err != nil {
		return nil, err
	}
	if ok {
		r.logger.Debug("📖 Definition cache hit", "version", versionID)
		return raw, nil
	}

	url, err := r.urls.DefinitionURL(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("locating definition for %s: %w", versionID, err)
	}

	r.logger.Info("🌐 Fetching version definition", "version", versionID, "url", url)
	raw, err = r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching definition for %s: %w", versionID, err)
	}

	if err := r.cache.Store(versionID, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// mergeDefinitions merges a child definition onto its fully resolved parent.
// Scalars are overridden where the child defines them, libraries merge by
// full-name key (child wins on collision, union otherwise) and argument
// lists concatenate parent-then-child.
func mergeDefinitions(parent, child *VersionDefinition) *VersionDefinition {
	merged := *parent
	merged.ID = child.ID
	merged.InheritsFrom = ""
	merged.BaseID = parent.BaseID

	if child.MainClass != "" {
		merged.MainClass = child.MainClass
	}
	if child.Type != "" {
		merged.Type = child.Type
	}
	if child.Time != "" {
		merged.Time = child.Time
	}
	if child.ReleaseTime != "" {
		merged.ReleaseTime = child.ReleaseTime
	}
	if child.ComplianceLevel != 0 {
		merged.ComplianceLevel = child.ComplianceLevel
	}
	if child.MinimumLauncherVersion != 0 {
		merged.MinimumLauncherVersion = child.MinimumLauncherVersion
	}
	if child.Assets != "" {
		merged.Assets = child.Assets
	}
	if child.AssetIndex != nil {
		merged.AssetIndex = child.AssetIndex
	}
	if child.Downloads != nil {
		merged.Downloads = child.Downloads
	}
	if child.Logging != nil {
		merged.Logging = child.Logging
	}
	if child.JavaVersion != nil {
		merged.JavaVersion = child.JavaVersion
	}
	if child.MinecraftArguments != "" {
		merged.MinecraftArguments = child.MinecraftArguments
	}

	merged.Libraries = mergeLibraries(parent.Libraries, child.Libraries)
	merged.Arguments = mergeArguments(parent.Arguments, child.Arguments)

	return &merged
}

// mergeLibraries keys libraries by group:artifact plus any classifier, so a
// child's newer version overrides the parent's in place (preserving order)
// while OS-specific native variants of the same artifact still coexist.
func mergeLibraries(parent, child []Library) []Library {
	merged := make([]Library, len(parent))
	copy(merged, parent)

	index := make(map[string]int, len(parent))
	for i, lib := range merged {
		index[libraryKey(lib)] = i
	}

	for _, lib := range child {
		key := libraryKey(lib)
		if i, ok := index[key]; ok {
			merged[i] = lib
			continue
		}
		index[key] = len(merged)
		merged = append(merged, lib)
	}
	return merged
}

// libraryKey is the merge identity of a library: version excluded so child
// definitions override, classifier included so native variants stay distinct.
func libraryKey(lib Library) string {
	key := lib.GroupArtifact()
	if key == "" {
		// Malformed name; fall back to the full string so nothing collides
		return lib.Name
	}
	if cls := lib.NameClassifier(); cls != "" {
		key += ":" + cls
	}
	return key
}

// mergeArguments concatenates parent-then-child, never deduplicating
func mergeArguments(parent, child *Arguments) *Arguments {
	if parent == nil && child == nil {
		return nil
	}
	merged := &Arguments{}
	if parent != nil {
		merged.JVM = append(merged.JVM, parent.JVM...)
		merged.Game = append(merged.Game, parent.Game...)
	}
	if child != nil {
		merged.JVM = append(merged.JVM, child.JVM...)
		merged.Game = append(merged.Game, child.Game...)
	}
	return merged
}
