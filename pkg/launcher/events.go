package launcher

import (
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/craftlaunch/pkg/download"
)

// Stage is the supervisor's lifecycle state
type Stage string

const (
	StageIdle        Stage = "idle"
	StagePreparing   Stage = "preparing"
	StageDownloading Stage = "downloading"
	StageLaunching   Stage = "launching"
	StageRunning     Stage = "running"
	StageClosed      Stage = "closed"
	StageError       Stage = "error"
)

// StatusEvent reports a stage transition to the UI boundary
type StatusEvent struct {
	Stage      Stage
	Message    string
	TotalFiles int
}

// OutputEvent carries a chunk of the child process's output
type OutputEvent struct {
	Stream string // "stdout" or "stderr"
	Chunk  string
}

// Sink is the one-way event boundary toward the UI. Calls are
// fire-and-forget: implementations must never block the pipeline.
type Sink interface {
	Status(StatusEvent)
	Progress(download.Progress)
	ProcessOutput(OutputEvent)
}

// NopSink discards all events
type NopSink struct{}

func (NopSink) Status(StatusEvent)            {}
func (NopSink) Progress(download.Progress)    {}
func (NopSink) ProcessOutput(OutputEvent)     {}

// LogSink forwards events to an hclog logger
type LogSink struct {
	Logger hclog.Logger
}

func (s LogSink) Status(e StatusEvent) {
	if e.TotalFiles > 0 {
		s.Logger.Info("🚦 "+e.Message, "stage", e.Stage, "files", e.TotalFiles)
		return
	}
	s.Logger.Info("🚦 "+e.Message, "stage", e.Stage)
}

func (s LogSink) Progress(p download.Progress) {
	if p.Done {
		s.Logger.Debug("📥 Completed", "file", p.Label, "bytes", p.Bytes)
		return
	}
	if pct := p.Percent(); pct >= 0 {
		s.Logger.Debug("📥 Progress", "file", p.Label, "percent", int(pct))
	} else {
		s.Logger.Debug("📥 Progress", "file", p.Label, "bytes", p.Bytes)
	}
}

func (s LogSink) ProcessOutput(e OutputEvent) {
	s.Logger.Debug("🎮 Game output", "stream", e.Stream, "line", e.Chunk)
}
