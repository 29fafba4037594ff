package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/internal/settings"
	"github.com/provide-io/craftlaunch/pkg/download"
	"github.com/provide-io/craftlaunch/pkg/fetch"
	"github.com/provide-io/craftlaunch/pkg/launcher"
	"github.com/provide-io/craftlaunch/pkg/logging"
	"github.com/provide-io/craftlaunch/pkg/minecraft"
)

// Exit codes per failure class
const (
	ExitOK              = 0
	ExitError           = 1
	ExitInvalidArgs     = 2
	ExitResolutionError = 3
	ExitDownloadError   = 4
	ExitLaunchError     = 5
	ExitPanic           = 9
)

var (
	settingsPath string
	dataDir      string
	logLevel     string
	rootCmd      *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "craftlaunch",
		Short: "Prepare and launch game versions",
		Long: "craftlaunch resolves a version definition, downloads and validates its\n" +
			"files, extracts native libraries and launches the game process.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "craftlaunch.toml", "settings file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data root directory (default: platform data dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(newLaunchCmd(), newPrepareCmd(), newInfoCmd(), newVersionCmd())
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(ExitPanic)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, launcher.ErrDefinitionResolution):
		return ExitResolutionError
	case errors.Is(err, launcher.ErrTransportFailure), errors.Is(err, launcher.ErrIntegrityFailure):
		return ExitDownloadError
	case errors.Is(err, launcher.ErrProcessSpawn), errors.Is(err, launcher.ErrAlreadyRunning):
		return ExitLaunchError
	default:
		return ExitError
	}
}

// newLogger builds the root logger from flags and environment
func newLogger() hclog.Logger {
	level := logLevel
	if level == "" {
		level = logging.GetLogLevel()
	}
	return logging.NewLogger("craftlaunch", level, nil)
}

// buildSupervisor wires the pipeline from settings and flags
func buildSupervisor(logger hclog.Logger) (*launcher.Supervisor, settings.Settings, error) {
	cfg, err := settings.Load(settingsPath)
	if err != nil {
		return nil, cfg, fmt.Errorf("loading settings: %w", err)
	}

	paths := gamepaths.New(dataDir)
	logger.Debug("📁 Data root", "path", paths.Root())

	fetcher := fetch.NewHTTPFetcher(30 * time.Second)
	urls := minecraft.NewManifestResolver(fetcher, cfg.VersionManifestURL)
	cache := minecraft.NewDefinitionCache(paths)
	resolver := minecraft.NewResolver(fetcher, urls, cache, logger.Named("resolver"))

	sink := launcher.LogSink{Logger: logger.Named("events")}
	dl := download.New(logger.Named("download"), download.WithProgress(sink.Progress))

	return launcher.New(cfg, paths, resolver, dl, sink, logger.Named("supervisor")), cfg, nil
}

func newLaunchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "launch VERSION",
		Short: "Prepare and launch a version, waiting for the game to exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			sup, cfg, err := buildSupervisor(logger)
			if err != nil {
				return err
			}

			if err := sup.Launch(cmd.Context(), args[0]); err != nil {
				return err
			}

			proc := sup.Running()
			if proc == nil {
				return nil
			}
			<-proc.Done()
			if code := proc.ExitCode(); code != 0 {
				logger.Warn("⚠️ Game exited with non-zero code", "code", code)
				if cfg.KeepWindowOpen {
					fmt.Fprintln(os.Stderr, "Press Enter to close...")
					bufio.NewReader(os.Stdin).ReadString('\n')
				}
				os.Exit(code)
			}
			return nil
		},
	}
}

func newPrepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare VERSION",
		Short: "Download and validate everything a version needs, without launching",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			sup, _, err := buildSupervisor(logger)
			if err != nil {
				return err
			}
			return sup.Prepare(cmd.Context(), args[0])
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info VERSION",
		Short: "Show the resolved definition of a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := settings.Load(settingsPath)
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}

			paths := gamepaths.New(dataDir)
			fetcher := fetch.NewHTTPFetcher(30 * time.Second)
			urls := minecraft.NewManifestResolver(fetcher, cfg.VersionManifestURL)
			cache := minecraft.NewDefinitionCache(paths)
			resolver := minecraft.NewResolver(fetcher, urls, cache, logger.Named("resolver"))

			def, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", launcher.ErrDefinitionResolution, err)
			}

			fmt.Printf("Version:    %s (%s)\n", def.ID, def.Type)
			fmt.Printf("Base:       %s\n", def.BaseID)
			fmt.Printf("Main class: %s\n", def.MainClass)
			fmt.Printf("Libraries:  %d\n", len(def.Libraries))
			if def.AssetIndex != nil {
				fmt.Printf("Assets:     %s\n", def.AssetIndex.ID)
			}
			if def.JavaVersion != nil {
				fmt.Printf("Java:       %s (major %d)\n", def.JavaVersion.Component, def.JavaVersion.MajorVersion)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show launcher version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("craftlaunch %s (built %s)\n", launcher.Version, buildTimestamp())
		},
	}
}

func buildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	return "unknown"
}
