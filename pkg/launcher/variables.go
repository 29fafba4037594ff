package launcher

import (
	"strconv"

	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/internal/settings"
	"github.com/provide-io/craftlaunch/pkg/minecraft"
)

// buildVariables assembles the flat substitution map the argument templates
// consume. Built once per launch attempt and never mutated afterwards.
func buildVariables(def *minecraft.VersionDefinition, cfg settings.Settings, paths *gamepaths.GamePaths, classpathStr, nativesDir, gameDir string) map[string]string {
	assetsIndexName := def.Assets
	if assetsIndexName == "" && def.AssetIndex != nil {
		assetsIndexName = def.AssetIndex.ID
	}

	vars := map[string]string{
		"auth_player_name":  cfg.Auth.PlayerName,
		"auth_uuid":         cfg.Auth.UUID,
		"auth_access_token": cfg.Auth.AccessToken,
		"auth_session":      "token:" + cfg.Auth.AccessToken,
		"auth_xuid":         "",
		"clientid":          "",
		"user_type":         cfg.Auth.UserType,
		"user_properties":   "{}",
		"version_name":      def.ID,
		"version_type":      def.Type,
		"game_directory":    gameDir,
		"assets_root":       paths.Assets(),
		"game_assets":       paths.Assets(),
		"assets_index_name": assetsIndexName,
		"natives_directory": nativesDir,
		"classpath":         classpathStr,
		"launcher_name":     "craftlaunch",
		"launcher_version":  Version,
	}

	if cfg.HasCustomResolution() {
		vars["resolution_width"] = strconv.Itoa(cfg.ResolutionWidth)
		vars["resolution_height"] = strconv.Itoa(cfg.ResolutionHeight)
	}

	return vars
}

// featureFlags derives the rule-engine feature flags from settings
func featureFlags(cfg settings.Settings) map[string]bool {
	return map[string]bool{
		"has_custom_resolution": cfg.HasCustomResolution(),
		"is_demo_user":          cfg.DemoUser,
	}
}
