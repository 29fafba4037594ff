package minecraft

import (
	"fmt"
	"strings"

	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/pkg/download"
)

// CoreTasks enumerates the initial download set for a resolved definition:
// client archive, library artifacts (plus the current platform's native
// classifier variants), the asset index file and any logging configuration.
// Rule evaluation here is permissive: feature-gated entries are included.
func CoreTasks(def *VersionDefinition, paths *gamepaths.GamePaths, ctx RuleContext) []download.Task {
	var tasks []download.Task

	if client, ok := def.Downloads["client"]; ok && client.URL != "" {
		tasks = append(tasks, download.Task{
			URL:         client.URL,
			Destination: paths.VersionJar(def.BaseID),
			Checksum:    client.SHA1,
			Size:        client.Size,
			Label:       def.BaseID + ".jar",
		})
	}

	for _, lib := range def.Libraries {
		if !EvaluateOSRules(lib.Rules, ctx) {
			continue
		}
		tasks = append(tasks, libraryTasks(lib, paths, ctx)...)
	}

	if def.AssetIndex != nil && def.AssetIndex.URL != "" {
		tasks = append(tasks, download.Task{
			URL:         def.AssetIndex.URL,
			Destination: paths.AssetIndex(def.AssetIndex.ID),
			Checksum:    def.AssetIndex.SHA1,
			Size:        def.AssetIndex.Size,
			Label:       "asset index " + def.AssetIndex.ID,
		})
	}

	if def.Logging != nil && def.Logging.Client != nil && def.Logging.Client.File != nil {
		file := def.Logging.Client.File
		tasks = append(tasks, download.Task{
			URL:         file.URL,
			Destination: paths.LogConfig(file.ID),
			Checksum:    file.SHA1,
			Size:        file.Size,
			Label:       "log config " + file.ID,
		})
	}

	return tasks
}

// libraryTasks enumerates the downloads one library contributes: its primary
// artifact and, when the library declares a native-classifier mapping, the
// concrete classifier variant for the current platform.
func libraryTasks(lib Library, paths *gamepaths.GamePaths, ctx RuleContext) []download.Task {
	var tasks []download.Task

	relPath := lib.ArtifactPath()
	if relPath != "" {
		task := download.Task{
			Destination: paths.LibraryArtifact(relPath),
			Label:       lib.Name,
		}
		if lib.Downloads != nil && lib.Downloads.Artifact != nil && lib.Downloads.Artifact.URL != "" {
			task.URL = lib.Downloads.Artifact.URL
			task.Checksum = lib.Downloads.Artifact.SHA1
			task.Size = lib.Downloads.Artifact.Size
		} else if lib.URL != "" {
			// Custom-repository library (modded definitions): url is a maven root
			task.URL = strings.TrimSuffix(lib.URL, "/") + "/" + relPath
		}
		if task.URL != "" {
			tasks = append(tasks, task)
		}
	}

	if classifier := NativeClassifier(lib, ctx); classifier != "" {
		if lib.Downloads != nil {
			if info, ok := lib.Downloads.Classifiers[classifier]; ok && info.URL != "" {
				tasks = append(tasks, download.Task{
					URL:         info.URL,
					Destination: paths.LibraryArtifact(lib.ClassifierPath(classifier)),
					Checksum:    info.SHA1,
					Size:        info.Size,
					Label:       lib.Name + ":" + classifier,
				})
			}
		}
	}

	return tasks
}

// NativeClassifier resolves a library's native-classifier mapping for the
// context's OS, substituting the ${arch} placeholder. Returns "" when the
// library has no native mapping for that OS.
func NativeClassifier(lib Library, ctx RuleContext) string {
	if len(lib.Natives) == 0 {
		return ""
	}
	osName := NormalizeOSName(ctx.OSName)
	template, ok := lib.Natives[osName]
	if !ok && osName == OSOSX {
		// Some definitions key macOS natives as "macos"
		template, ok = lib.Natives["macos"]
	}
	if !ok {
		return ""
	}
	return strings.ReplaceAll(template, "${arch}", NativeArchToken(ctxGoarch(ctx)))
}

// ctxGoarch maps the context's definition-vocabulary arch back to GOARCH
// for the native token tables.
func ctxGoarch(ctx RuleContext) string {
	switch ctx.OSArch {
	case "x86":
		return "386"
	case "x86_64":
		return "amd64"
	default:
		return ctx.OSArch
	}
}

// AssetTasks enumerates one download task per distinct content hash in an
// index. Assets live at content-addressed paths: the first two hex characters
// of the hash form a subdirectory, both remotely and locally. Indexes map
// many names onto one hash, so tasks dedupe by hash (the first name in sorted
// order labels the task) to keep destinations unique within a batch.
func AssetTasks(index *AssetIndex, paths *gamepaths.GamePaths, baseURL string) []download.Task {
	baseURL = strings.TrimSuffix(baseURL, "/")
	tasks := make([]download.Task, 0, len(index.Objects))
	seen := make(map[string]bool, len(index.Objects))
	for _, name := range index.SortedNames() {
		obj := index.Objects[name]
		if len(obj.Hash) < 2 || seen[obj.Hash] {
			continue
		}
		seen[obj.Hash] = true
		tasks = append(tasks, download.Task{
			URL:         fmt.Sprintf("%s/%s/%s", baseURL, obj.Hash[:2], obj.Hash),
			Destination: paths.AssetObject(obj.Hash),
			Checksum:    obj.Hash,
			Size:        obj.Size,
			Label:       name,
		})
	}
	return tasks
}
