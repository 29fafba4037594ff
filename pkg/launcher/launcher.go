// Package launcher sequences the launch preparation pipeline and supervises
// the spawned game process: resolve the version definition, download and
// validate the file fan-out, materialize natives, assemble the classpath and
// argument vector, then spawn and watch the child process.
package launcher

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/craftlaunch/internal/gamepaths"
	"github.com/provide-io/craftlaunch/internal/settings"
	"github.com/provide-io/craftlaunch/pkg/arguments"
	"github.com/provide-io/craftlaunch/pkg/classpath"
	"github.com/provide-io/craftlaunch/pkg/download"
	"github.com/provide-io/craftlaunch/pkg/minecraft"
	"github.com/provide-io/craftlaunch/pkg/natives"
	"github.com/provide-io/craftlaunch/pkg/utils/shellparse"
)

// Version is the launcher version reported to the game
const Version = "0.1.0"

// Supervisor owns the launch state machine. At most one launch is in flight
// at a time; a second request is rejected outright rather than queued.
type Supervisor struct {
	cfg        settings.Settings
	paths      *gamepaths.GamePaths
	resolver   *minecraft.Resolver
	downloader *download.Downloader
	natives    *natives.Materializer
	sink       Sink
	logger     hclog.Logger

	mu      sync.Mutex
	stage   Stage
	running *RunningProcess
}

// New creates a Supervisor
func New(cfg settings.Settings, paths *gamepaths.GamePaths, resolver *minecraft.Resolver, downloader *download.Downloader, sink Sink, logger hclog.Logger) *Supervisor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Supervisor{
		cfg:        cfg,
		paths:      paths,
		resolver:   resolver,
		downloader: downloader,
		natives:    natives.New(paths, logger.Named("natives")),
		sink:       sink,
		logger:     logger,
		stage:      StageIdle,
	}
}

// Stage returns the current lifecycle state
func (s *Supervisor) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// Running returns the tracked process, if any
func (s *Supervisor) Running() *RunningProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Launch runs the full preparation pipeline for versionID and spawns the
// game process. It returns once the process is running (or on the first
// pipeline failure); process exit is reported through the sink and Done.
func (s *Supervisor) Launch(ctx context.Context, versionID string) error {
	if err := s.begin(versionID); err != nil {
		return err
	}

	plan, err := s.prepare(ctx, versionID)
	if err != nil {
		s.fail(err)
		return err
	}

	s.setStage(StageLaunching, "Launching "+versionID)

	proc, err := spawnProcess(s.cfg.JavaPath, plan.argv, plan.workDir, s.sink, s.logger)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrProcessSpawn, err)
		s.fail(err)
		return err
	}

	s.mu.Lock()
	s.running = proc
	s.stage = StageRunning
	s.mu.Unlock()
	s.sink.Status(StatusEvent{Stage: StageRunning, Message: "Game process running"})

	go s.watch(proc)
	return nil
}

// Prepare runs the pipeline for versionID without spawning: resolve,
// download, validate and materialize.
func (s *Supervisor) Prepare(ctx context.Context, versionID string) error {
	if err := s.begin(versionID); err != nil {
		return err
	}
	if _, err := s.prepare(ctx, versionID); err != nil {
		s.fail(err)
		return err
	}
	s.setStage(StageIdle, "Prepared "+versionID)
	return nil
}

// Kill requests termination of the tracked process and clears the handle
// immediately without waiting for confirmation. No tracked process is a
// no-op, not an error.
func (s *Supervisor) Kill() {
	s.mu.Lock()
	proc := s.running
	s.running = nil
	if proc != nil {
		s.stage = StageClosed
	}
	s.mu.Unlock()

	if proc == nil {
		s.logger.Debug("Kill requested with no tracked process")
		return
	}
	s.logger.Info("🛑 Terminating game process")
	proc.Terminate(s.logger)
}

// launchPlan is everything prepare() produces for the spawn step
type launchPlan struct {
	def     *minecraft.VersionDefinition
	argv    []string
	workDir string
}

func (s *Supervisor) prepare(ctx context.Context, versionID string) (*launchPlan, error) {
	ruleCtx := minecraft.CurrentContext(featureFlags(s.cfg))

	// Resolve the full definition (inheritance flattened)
	s.setStage(StagePreparing, "Resolving version "+versionID)
	def, err := s.resolver.Resolve(ctx, versionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionResolution, err)
	}
	if def.MainClass == "" {
		return nil, fmt.Errorf("%w: resolved definition %s has no main class", ErrDefinitionResolution, def.ID)
	}

	// Core files: client archive, libraries, asset index, logging config
	tasks := minecraft.CoreTasks(def, s.paths, ruleCtx)
	s.setStageFiles(StageDownloading, "Downloading core files", len(tasks))
	if err := s.downloadBatch(ctx, tasks, s.cfg.ParallelDownloads); err != nil {
		return nil, err
	}

	// Asset fan-out, enumerated from the downloaded index
	if def.AssetIndex != nil {
		assetTasks, err := s.enumerateAssets(def)
		if err != nil {
			return nil, err
		}
		s.setStageFiles(StageDownloading, "Downloading assets", len(assetTasks))
		if err := s.downloadBatch(ctx, assetTasks, s.cfg.AssetParallelDownloads); err != nil {
			return nil, err
		}
	}

	// Native binaries
	s.setStage(StagePreparing, "Materializing natives")
	nativesDir := s.paths.Natives(def.ID)
	if _, err := s.natives.Materialize(def, ruleCtx, nativesDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNativeExtraction, err)
	}

	// Classpath, variables, argument vector
	cp := classpath.Build(def, ruleCtx, s.paths, s.logger.Named("classpath"))
	workDir := s.cfg.GameDirectory
	if workDir == "" {
		workDir = s.paths.Root()
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating game directory: %v", ErrFilesystemFailure, err)
	}

	vars := buildVariables(def, s.cfg, s.paths, classpath.Join(cp), nativesDir, workDir)
	argv, err := s.assembleArgv(def, vars, ruleCtx)
	if err != nil {
		return nil, err
	}

	return &launchPlan{def: def, argv: argv, workDir: workDir}, nil
}

func (s *Supervisor) downloadBatch(ctx context.Context, tasks []download.Task, concurrency int) error {
	agg := s.downloader.DownloadAll(ctx, tasks, concurrency)
	switch {
	case agg.ValidationFailureCount > 0:
		return fmt.Errorf("%w: %d file(s) failed integrity validation", ErrIntegrityFailure, agg.ValidationFailureCount)
	case agg.FailureCount > 0:
		return fmt.Errorf("%w: %d file(s) failed to download", ErrTransportFailure, agg.FailureCount)
	}
	return nil
}

func (s *Supervisor) enumerateAssets(def *minecraft.VersionDefinition) ([]download.Task, error) {
	indexPath := s.paths.AssetIndex(def.AssetIndex.ID)
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading asset index: %v", ErrFilesystemFailure, err)
	}
	index, err := minecraft.ParseAssetIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefinitionResolution, err)
	}
	if index.Virtual || index.MapToResources {
		s.logger.Warn("⚠️ Legacy virtual asset layout declared; objects are fetched content-addressed only",
			"index", def.AssetIndex.ID)
	}
	return minecraft.AssetTasks(index, s.paths, s.cfg.AssetBaseURL), nil
}

// assembleArgv builds the final argument vector: memory flags, rendered JVM
// args, the logging-config arg, user extra flags, an explicit classpath flag
// only when the template did not already embed one, main class, game args.
func (s *Supervisor) assembleArgv(def *minecraft.VersionDefinition, vars map[string]string, ruleCtx minecraft.RuleContext) ([]string, error) {
	argv := []string{
		fmt.Sprintf("-Xms%dM", s.cfg.MemoryMinMB),
		fmt.Sprintf("-Xmx%dM", s.cfg.MemoryMaxMB),
	}

	jvmEntries := arguments.DefaultJVMEntries()
	var gameEntries []minecraft.ArgumentEntry
	if def.Arguments != nil && len(def.Arguments.JVM) > 0 {
		jvmEntries = def.Arguments.JVM
	}
	switch {
	case def.Arguments != nil && len(def.Arguments.Game) > 0:
		gameEntries = def.Arguments.Game
	case def.MinecraftArguments != "":
		gameEntries = arguments.LegacyGameEntries(def.MinecraftArguments)
	}

	jvmArgs := arguments.Render(jvmEntries, vars, ruleCtx)
	argv = append(argv, jvmArgs...)

	if arg := s.loggingArgument(def, vars); arg != "" {
		argv = append(argv, arg)
	}

	extra, err := shellparse.Split(s.cfg.ExtraJVMArgs)
	if err != nil {
		return nil, fmt.Errorf("parsing extra JVM args %q: %w", s.cfg.ExtraJVMArgs, err)
	}
	argv = append(argv, extra...)

	if !hasClasspathFlag(jvmArgs) {
		argv = append(argv, "-cp", vars["classpath"])
	}

	argv = append(argv, def.MainClass)
	argv = append(argv, arguments.Render(gameEntries, vars, ruleCtx)...)
	return argv, nil
}

// loggingArgument renders the logging-config JVM argument with ${path}
// bound to the downloaded configuration file.
func (s *Supervisor) loggingArgument(def *minecraft.VersionDefinition, vars map[string]string) string {
	if def.Logging == nil || def.Logging.Client == nil {
		return ""
	}
	client := def.Logging.Client
	if client.Argument == "" || client.File == nil {
		return ""
	}
	path := s.paths.LogConfig(client.File.ID)
	if _, err := os.Stat(path); err != nil {
		s.logger.Warn("⚠️ Logging config missing on disk, omitting argument", "path", path)
		return ""
	}
	withPath := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		withPath[k] = v
	}
	withPath["path"] = path
	return arguments.Substitute(client.Argument, withPath)
}

func hasClasspathFlag(jvmArgs []string) bool {
	for _, arg := range jvmArgs {
		if arg == "-cp" || arg == "-classpath" || strings.HasPrefix(arg, "-Djava.class.path=") {
			return true
		}
	}
	return false
}

// begin enforces the single-in-flight-launch invariant and enters PREPARING
func (s *Supervisor) begin(versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.stage {
	case StageIdle, StageClosed, StageError:
		// free to start
	default:
		return fmt.Errorf("%w (stage %s)", ErrAlreadyRunning, s.stage)
	}
	s.stage = StagePreparing
	s.logger.Info("🎬 Starting launch attempt", "version", versionID)
	return nil
}

// fail records a terminal pipeline error and reports it as one ERROR status.
// The cause is logged; the UI boundary only sees the message string.
func (s *Supervisor) fail(err error) {
	s.mu.Lock()
	s.stage = StageError
	s.mu.Unlock()
	s.logger.Error("❌ Launch failed", "error", err)
	s.sink.Status(StatusEvent{Stage: StageError, Message: err.Error()})
}

func (s *Supervisor) setStage(stage Stage, message string) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
	s.logger.Info("🚦 " + message)
	s.sink.Status(StatusEvent{Stage: stage, Message: message})
}

func (s *Supervisor) setStageFiles(stage Stage, message string, totalFiles int) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
	s.logger.Info("🚦 "+message, "files", totalFiles)
	s.sink.Status(StatusEvent{Stage: stage, Message: message, TotalFiles: totalFiles})
}

// watch clears the slot and reports CLOSED when the process exits
func (s *Supervisor) watch(proc *RunningProcess) {
	<-proc.Done()
	code := proc.ExitCode()

	s.mu.Lock()
	// Kill() may have already cleared the slot
	if s.running == proc {
		s.running = nil
		s.stage = StageClosed
	}
	s.mu.Unlock()

	s.sink.Status(StatusEvent{Stage: StageClosed, Message: fmt.Sprintf("Game exited with code %d", code)})
}
