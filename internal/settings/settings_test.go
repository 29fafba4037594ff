// Package settings loads the launcher settings file
// This file contains tests for defaults, parsing and validation
package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMissingFile tests that a missing settings file yields defaults
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, "java", cfg.JavaPath)
	assert.Equal(t, 512, cfg.MemoryMinMB)
	assert.Equal(t, 2048, cfg.MemoryMaxMB)
	assert.Equal(t, 4, cfg.ParallelDownloads)
	assert.Equal(t, 16, cfg.AssetParallelDownloads)
	assert.Equal(t, "Player", cfg.Auth.PlayerName)
	assert.Equal(t, "offline", cfg.Auth.UserType)
	assert.False(t, cfg.HasCustomResolution())
}

// TestLoadFile tests parsing a settings file over defaults
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftlaunch.toml")
	content := `
java_path = "/opt/jdk17/bin/java"
memory_max_mb = 4096
extra_jvm_args = "-XX:+UseG1GC -Dfml.ignoreInvalidMinecraftCertificates=true"
parallel_downloads = 8
resolution_width = 1920
resolution_height = 1080

[auth]
player_name = "Steve"
uuid = "00000000-0000-0000-0000-000000000000"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/jdk17/bin/java", cfg.JavaPath)
	assert.Equal(t, 4096, cfg.MemoryMaxMB)
	assert.Equal(t, 512, cfg.MemoryMinMB, "unset keys keep defaults")
	assert.Equal(t, 8, cfg.ParallelDownloads)
	assert.Equal(t, "Steve", cfg.Auth.PlayerName)
	assert.True(t, cfg.HasCustomResolution())
}

// TestLoadInvalid tests validation failures
func TestLoadInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"negative memory", "memory_max_mb = -1"},
		{"min above max", "memory_min_mb = 4096\nmemory_max_mb = 1024"},
		{"zero workers", "parallel_downloads = -2"},
		{"malformed toml", "memory_max_mb = ["},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "craftlaunch.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

// TestEnvOverrides tests that environment variables win over the file
func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "craftlaunch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`java_path = "/file/java"`), 0o644))

	t.Setenv("CRAFT_JAVA_PATH", "/env/java")
	t.Setenv("CRAFT_PARALLEL_DOWNLOADS", "12")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/env/java", cfg.JavaPath)
	assert.Equal(t, 12, cfg.ParallelDownloads)
}
