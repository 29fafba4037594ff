// Package minecraft models game version definitions: the descriptor of one
// launchable build (entry class, libraries, arguments, download locations)
// and the rule predicates gating its platform-conditional parts.
package minecraft

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DownloadInfo locates one remote file with its integrity data
type DownloadInfo struct {
	URL  string `json:"url"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
	Path string `json:"path,omitempty"`
}

// AssetIndexRef locates the asset index for a version
type AssetIndexRef struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SHA1      string `json:"sha1,omitempty"`
	Size      int64  `json:"size,omitempty"`
	TotalSize int64  `json:"totalSize,omitempty"`
}

// LibraryDownloads holds the primary artifact and any classifier-specific
// variants (typically per-platform native payloads).
type LibraryDownloads struct {
	Artifact    *DownloadInfo           `json:"artifact,omitempty"`
	Classifiers map[string]DownloadInfo `json:"classifiers,omitempty"`
}

// ExtractSpec declares path prefixes to skip while extracting a native
// archive (e.g. "META-INF/").
type ExtractSpec struct {
	Exclude []string `json:"exclude,omitempty"`
}

// Library is one classpath or native dependency of a version
type Library struct {
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	Rules     []Rule            `json:"rules,omitempty"`
	Natives   map[string]string `json:"natives,omitempty"`
	Extract   *ExtractSpec      `json:"extract,omitempty"`
	URL       string            `json:"url,omitempty"`
}

// nameParts splits "group:artifact:version[:classifier]"
func (l Library) nameParts() []string {
	return strings.Split(l.Name, ":")
}

// GroupArtifact returns the "group:artifact" dedup key, or "" for a
// malformed name.
func (l Library) GroupArtifact() string {
	parts := l.nameParts()
	if len(parts) < 2 {
		return ""
	}
	return parts[0] + ":" + parts[1]
}

// NameClassifier returns the classifier component of the library name, or ""
func (l Library) NameClassifier() string {
	parts := l.nameParts()
	if len(parts) < 4 {
		return ""
	}
	return parts[3]
}

// ArtifactPath returns the library-tree relative path of the primary
// artifact. Prefers the declared download path, falling back to the
// maven-style path derived from the name. Returns "" when neither is
// resolvable; such a library is skipped without aborting the pipeline.
func (l Library) ArtifactPath() string {
	if l.Downloads != nil && l.Downloads.Artifact != nil && l.Downloads.Artifact.Path != "" {
		return l.Downloads.Artifact.Path
	}
	return l.derivedPath("")
}

// ClassifierPath returns the library-tree relative path for a classifier
// variant, or "" when unresolvable.
func (l Library) ClassifierPath(classifier string) string {
	if l.Downloads != nil {
		if info, ok := l.Downloads.Classifiers[classifier]; ok && info.Path != "" {
			return info.Path
		}
	}
	return l.derivedPath(classifier)
}

// derivedPath builds group/artifact/version/artifact-version[-classifier].jar
func (l Library) derivedPath(classifier string) string {
	parts := l.nameParts()
	if len(parts) < 3 {
		return ""
	}
	group, artifact, version := parts[0], parts[1], parts[2]
	if classifier == "" && len(parts) >= 4 {
		classifier = parts[3]
	}
	file := artifact + "-" + version
	if classifier != "" {
		file += "-" + classifier
	}
	return strings.ReplaceAll(group, ".", "/") + "/" + artifact + "/" + version + "/" + file + ".jar"
}

// ArgumentEntry is one JVM or game argument template entry: either a literal
// string or a rule-gated group of literal strings.
type ArgumentEntry struct {
	Rules  []Rule
	Values []string
}

// Conditional reports whether the entry carries rules
func (e ArgumentEntry) Conditional() bool {
	return len(e.Rules) > 0
}

// UnmarshalJSON accepts both the bare-string and the {rules, value} forms;
// value itself may be a string or a list of strings.
func (e *ArgumentEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Values = []string{s}
		e.Rules = nil
		return nil
	}

	var cond struct {
		Rules []Rule          `json:"rules,omitempty"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &cond); err != nil {
		return fmt.Errorf("argument entry is neither string nor object: %w", err)
	}

	e.Rules = cond.Rules
	e.Values = nil
	if len(cond.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(cond.Value, &s); err == nil {
		e.Values = []string{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(cond.Value, &list); err != nil {
		return fmt.Errorf("argument entry value is neither string nor string list: %w", err)
	}
	e.Values = list
	return nil
}

// Arguments holds the JVM and game argument templates
type Arguments struct {
	JVM  []ArgumentEntry `json:"jvm,omitempty"`
	Game []ArgumentEntry `json:"game,omitempty"`
}

// LoggingFile locates a downloadable logging configuration
type LoggingFile struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// LoggingClient is the client-side logging configuration stanza
type LoggingClient struct {
	Argument string       `json:"argument,omitempty"`
	File     *LoggingFile `json:"file,omitempty"`
	Type     string       `json:"type,omitempty"`
}

// Logging wraps per-side logging configuration
type Logging struct {
	Client *LoggingClient `json:"client,omitempty"`
}

// JavaVersion names the Java runtime a version wants
type JavaVersion struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion,omitempty"`
}

// VersionDefinition is the full descriptor of one launchable build.
// A raw definition may inherit from a parent; a resolved definition has no
// remaining InheritsFrom, with BaseID naming the root ancestor whose client
// archive the launch uses.
type VersionDefinition struct {
	ID                     string                  `json:"id"`
	InheritsFrom           string                  `json:"inheritsFrom,omitempty"`
	MainClass              string                  `json:"mainClass,omitempty"`
	Type                   string                  `json:"type,omitempty"`
	Time                   string                  `json:"time,omitempty"`
	ReleaseTime            string                  `json:"releaseTime,omitempty"`
	ComplianceLevel        int                     `json:"complianceLevel,omitempty"`
	MinimumLauncherVersion int                     `json:"minimumLauncherVersion,omitempty"`
	Assets                 string                  `json:"assets,omitempty"`
	AssetIndex             *AssetIndexRef          `json:"assetIndex,omitempty"`
	Downloads              map[string]DownloadInfo `json:"downloads,omitempty"`
	Libraries              []Library               `json:"libraries,omitempty"`
	Arguments              *Arguments              `json:"arguments,omitempty"`
	MinecraftArguments     string                  `json:"minecraftArguments,omitempty"`
	Logging                *Logging                `json:"logging,omitempty"`
	JavaVersion            *JavaVersion            `json:"javaVersion,omitempty"`

	// BaseID is set during resolution; not part of the wire format
	BaseID string `json:"-"`
}

// ParseDefinition decodes a raw version definition
func ParseDefinition(data []byte) (*VersionDefinition, error) {
	var def VersionDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing version definition: %w", err)
	}
	if def.ID == "" {
		return nil, fmt.Errorf("version definition has no id")
	}
	return &def, nil
}
