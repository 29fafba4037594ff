// Package settings loads the launcher settings file. A Settings value is an
// immutable snapshot taken once per launch attempt.
package settings

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Auth carries the opaque authentication identity for a launch attempt.
// Token acquisition happens elsewhere; this is pass-through data.
type Auth struct {
	PlayerName  string `toml:"player_name"`
	UUID        string `toml:"uuid"`
	AccessToken string `toml:"access_token"`
	UserType    string `toml:"user_type"`
}

// Settings is the launcher configuration snapshot
type Settings struct {
	JavaPath               string   `toml:"java_path"`
	MemoryMinMB            int      `toml:"memory_min_mb"`
	MemoryMaxMB            int      `toml:"memory_max_mb"`
	ExtraJVMArgs           string   `toml:"extra_jvm_args"`
	GameDirectory          string   `toml:"game_directory"`
	ParallelDownloads      int      `toml:"parallel_downloads"`
	AssetParallelDownloads int      `toml:"asset_parallel_downloads"`
	ResolutionWidth        int      `toml:"resolution_width"`
	ResolutionHeight       int      `toml:"resolution_height"`
	KeepWindowOpen         bool     `toml:"keep_window_open"`
	DemoUser               bool     `toml:"demo_user"`
	VersionManifestURL     string   `toml:"version_manifest_url"`
	AssetBaseURL           string   `toml:"asset_base_url"`
	Auth                   Auth     `toml:"auth"`
}

// Default returns Settings with default values
func Default() Settings {
	return Settings{
		JavaPath:               "java",
		MemoryMinMB:            512,
		MemoryMaxMB:            2048,
		ParallelDownloads:      4,
		AssetParallelDownloads: 16,
		VersionManifestURL:     "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json",
		AssetBaseURL:           "https://resources.download.minecraft.net",
		Auth: Auth{
			PlayerName: "Player",
			UserType:   "offline",
		},
	}
}

// Load reads and parses a settings file, applying defaults and environment
// overrides. A missing file is not an error; defaults are returned.
func Load(path string) (Settings, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, cfg.validate()
		}
		return cfg, fmt.Errorf("reading settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings file: %w", err)
	}

	applyEnvOverrides(&cfg)
	return cfg, cfg.validate()
}

func (s Settings) validate() error {
	if s.MemoryMinMB <= 0 || s.MemoryMaxMB <= 0 {
		return fmt.Errorf("memory limits must be positive (min=%d, max=%d)", s.MemoryMinMB, s.MemoryMaxMB)
	}
	if s.MemoryMinMB > s.MemoryMaxMB {
		return fmt.Errorf("memory_min_mb %d exceeds memory_max_mb %d", s.MemoryMinMB, s.MemoryMaxMB)
	}
	if s.ParallelDownloads <= 0 {
		return fmt.Errorf("parallel_downloads must be positive, got %d", s.ParallelDownloads)
	}
	if s.AssetParallelDownloads <= 0 {
		return fmt.Errorf("asset_parallel_downloads must be positive, got %d", s.AssetParallelDownloads)
	}
	return nil
}

// HasCustomResolution reports whether both resolution dimensions are set
func (s Settings) HasCustomResolution() bool {
	return s.ResolutionWidth > 0 && s.ResolutionHeight > 0
}

func applyEnvOverrides(cfg *Settings) {
	if v := os.Getenv("CRAFT_JAVA_PATH"); v != "" {
		cfg.JavaPath = v
	}
	if v := os.Getenv("CRAFT_GAME_DIR"); v != "" {
		cfg.GameDirectory = v
	}
	if v := os.Getenv("CRAFT_PARALLEL_DOWNLOADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ParallelDownloads = n
		}
	}
}
