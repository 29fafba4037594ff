// Package minecraft implements version definitions and rule evaluation
// This file contains tests for inheritance resolution
package minecraft

import (
	"context"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/pkg/fetch"
)

// mapFetcher serves definitions out of memory and counts hits per URL
type mapFetcher struct {
	entries map[string][]byte
	hits    map[string]int
}

func newMapFetcher() *mapFetcher {
	return &mapFetcher{entries: map[string][]byte{}, hits: map[string]int{}}
}

func (f *mapFetcher) add(id string, body string) {
	f.entries["mem://"+id] = []byte(body)
}

func (f *mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.hits[url]++
	data, ok := f.entries[url]
	if !ok {
		return nil, fmt.Errorf("fetching %s: %w", url, fetch.ErrNotFound)
	}
	return data, nil
}

// mapURLs maps any known id to a mem:// URL
type mapURLs struct {
	fetcher *mapFetcher
}

func (u mapURLs) DefinitionURL(_ context.Context, versionID string) (string, error) {
	url := "mem://" + versionID
	if _, ok := u.fetcher.entries[url]; !ok {
		return "", fmt.Errorf("version %s: %w", versionID, fetch.ErrNotFound)
	}
	return url, nil
}

func newTestResolver(t *testing.T, fetcher *mapFetcher) *Resolver {
	t.Helper()
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "resolver_test",
		Level: hclog.Debug,
	})
	paths := gamepaths.New(t.TempDir())
	return NewResolver(fetcher, mapURLs{fetcher}, NewDefinitionCache(paths), logger)
}

// TestResolveStandalone tests resolving a definition with no parent
func TestResolveStandalone(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("1.20.1", `{
		"id": "1.20.1",
		"type": "release",
		"mainClass": "net.minecraft.client.main.Main",
		"assets": "8",
		"libraries": [{"name": "org.lwjgl:lwjgl:3.3.1"}]
	}`)

	resolver := newTestResolver(t, fetcher)
	def, err := resolver.Resolve(context.Background(), "1.20.1")
	require.NoError(t, err)

	assert.Equal(t, "1.20.1", def.ID)
	assert.Equal(t, "1.20.1", def.BaseID)
	assert.Equal(t, "net.minecraft.client.main.Main", def.MainClass)
	assert.Empty(t, def.InheritsFrom)
	assert.Len(t, def.Libraries, 1)
}

// TestResolveInheritance tests child-over-parent merge semantics
func TestResolveInheritance(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("1.20.1", `{
		"id": "1.20.1",
		"type": "release",
		"mainClass": "net.minecraft.client.main.Main",
		"assets": "8",
		"assetIndex": {"id": "8", "url": "mem://assets/8"},
		"libraries": [
			{"name": "com.example:alpha:1"},
			{"name": "com.example:beta:1"}
		],
		"arguments": {
			"jvm": ["-Xss1M"],
			"game": ["--username", "${auth_player_name}"]
		}
	}`)
	fetcher.add("1.20.1-modded", `{
		"id": "1.20.1-modded",
		"inheritsFrom": "1.20.1",
		"mainClass": "org.modloader.Main",
		"libraries": [
			{"name": "com.example:beta:2"},
			{"name": "com.example:gamma:1"}
		],
		"arguments": {
			"jvm": ["-Dloader.style=modern"],
			"game": ["--launchTarget", "client"]
		}
	}`)

	resolver := newTestResolver(t, fetcher)
	def, err := resolver.Resolve(context.Background(), "1.20.1-modded")
	require.NoError(t, err)

	assert.Equal(t, "1.20.1-modded", def.ID)
	assert.Equal(t, "1.20.1", def.BaseID, "base id must be the root ancestor")
	assert.Empty(t, def.InheritsFrom, "resolved definitions carry no parent reference")
	assert.Equal(t, "org.modloader.Main", def.MainClass)
	assert.Equal(t, "release", def.Type, "unset child scalars keep the parent value")
	assert.Equal(t, "8", def.Assets)
	require.NotNil(t, def.AssetIndex)

	// Library merge: collision replaced in place, new entries appended
	require.Len(t, def.Libraries, 3)
	assert.Equal(t, "com.example:alpha:1", def.Libraries[0].Name)
	assert.Equal(t, "com.example:beta:2", def.Libraries[1].Name)
	assert.Equal(t, "com.example:gamma:1", def.Libraries[2].Name)

	// Arguments concatenate parent-then-child
	require.NotNil(t, def.Arguments)
	require.Len(t, def.Arguments.JVM, 2)
	assert.Equal(t, "-Xss1M", def.Arguments.JVM[0].Values[0])
	assert.Equal(t, "-Dloader.style=modern", def.Arguments.JVM[1].Values[0])
	require.Len(t, def.Arguments.Game, 4)
	assert.Equal(t, "--launchTarget", def.Arguments.Game[2].Values[0])
}

// TestResolveLibraryOverride tests the library merge identity: the child's
// newer version replaces the parent's regardless of version, while native
// classifier variants of the same artifact survive as distinct entries
func TestResolveLibraryOverride(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("base", `{
		"id": "base",
		"mainClass": "net.minecraft.client.main.Main",
		"libraries": [
			{"name": "org.lwjgl:lwjgl:3.3.1"},
			{"name": "org.lwjgl:lwjgl:3.3.1:natives-linux"},
			{"name": "com.example:shared:1"}
		]
	}`)
	fetcher.add("base-modded", `{
		"id": "base-modded",
		"inheritsFrom": "base",
		"libraries": [
			{"name": "com.example:shared:3"}
		]
	}`)

	resolver := newTestResolver(t, fetcher)
	def, err := resolver.Resolve(context.Background(), "base-modded")
	require.NoError(t, err)

	require.Len(t, def.Libraries, 3)
	assert.Equal(t, "org.lwjgl:lwjgl:3.3.1", def.Libraries[0].Name)
	assert.Equal(t, "org.lwjgl:lwjgl:3.3.1:natives-linux", def.Libraries[1].Name,
		"native classifier variant must survive the merge")
	assert.Equal(t, "com.example:shared:3", def.Libraries[2].Name,
		"child version must replace the parent's in place")
}

// TestResolveCacheFirst tests that resolution reads the local cache before
// the network and that repeated resolution stays offline
func TestResolveCacheFirst(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("1.20.1", `{"id": "1.20.1", "mainClass": "net.minecraft.client.main.Main"}`)

	resolver := newTestResolver(t, fetcher)

	_, err := resolver.Resolve(context.Background(), "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.hits["mem://1.20.1"])

	// Second resolve must come from disk
	_, err = resolver.Resolve(context.Background(), "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.hits["mem://1.20.1"], "second resolve must not refetch")
}

// TestResolveMissingAncestor tests that an unresolvable parent fails the
// whole resolution rather than yielding a partial definition
func TestResolveMissingAncestor(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("child", `{"id": "child", "inheritsFrom": "ghost"}`)

	resolver := newTestResolver(t, fetcher)
	_, err := resolver.Resolve(context.Background(), "child")
	require.Error(t, err)
	assert.ErrorIs(t, err, fetch.ErrNotFound)
	assert.Contains(t, err.Error(), "ghost")
}

// TestResolveCycle tests inheritance cycle detection
func TestResolveCycle(t *testing.T) {
	fetcher := newMapFetcher()
	fetcher.add("a", `{"id": "a", "inheritsFrom": "b"}`)
	fetcher.add("b", `{"id": "b", "inheritsFrom": "a"}`)

	resolver := newTestResolver(t, fetcher)
	_, err := resolver.Resolve(context.Background(), "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

// TestResolveInvalidVersionID tests path-hostile version ids are rejected
// before any filesystem or network activity
func TestResolveInvalidVersionID(t *testing.T) {
	testCases := []string{"", "..", "../1.20.1", "a/b", `a\b`}

	resolver := newTestResolver(t, newMapFetcher())
	for _, id := range testCases {
		t.Run(fmt.Sprintf("%q", id), func(t *testing.T) {
			_, err := resolver.Resolve(context.Background(), id)
			require.Error(t, err)
		})
	}
}

// TestArgumentEntryUnmarshal tests the two wire shapes of an argument entry
func TestArgumentEntryUnmarshal(t *testing.T) {
	def, err := ParseDefinition([]byte(`{
		"id": "x",
		"arguments": {
			"jvm": [
				"-Xss1M",
				{"rules": [{"action": "allow", "os": {"name": "windows"}}], "value": "-Dwin=1"},
				{"rules": [{"action": "allow"}], "value": ["-Da=1", "-Db=2"]}
			]
		}
	}`))
	require.NoError(t, err)
	require.Len(t, def.Arguments.JVM, 3)

	plain := def.Arguments.JVM[0]
	assert.False(t, plain.Conditional())
	assert.Equal(t, []string{"-Xss1M"}, plain.Values)

	scalar := def.Arguments.JVM[1]
	assert.True(t, scalar.Conditional())
	assert.Equal(t, []string{"-Dwin=1"}, scalar.Values)

	list := def.Arguments.JVM[2]
	assert.Equal(t, []string{"-Da=1", "-Db=2"}, list.Values)
}
