package launcher

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"github.com/hashicorp/go-hclog"
)

// RunningProcess tracks the one spawned game process. Created on successful
// spawn, cleared on exit or kill; the UI boundary only ever observes status,
// never this handle.
type RunningProcess struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

// Done returns a channel closed once the process has exited
func (p *RunningProcess) Done() <-chan struct{} {
	return p.done
}

// ExitCode is valid only after Done is closed
func (p *RunningProcess) ExitCode() int {
	return p.exitCode
}

// Terminate requests a non-forceful shutdown. It does not wait for the
// process to confirm. Platforms without SIGTERM delivery fall back to a
// hard kill.
func (p *RunningProcess) Terminate(logger hclog.Logger) {
	if err := p.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		logger.Debug("SIGTERM failed, falling back to kill", "error", err)
		if err := p.cmd.Process.Kill(); err != nil {
			logger.Warn("⚠️ Failed to kill process", "error", err)
		}
	}
}

// spawnProcess starts the game process with the rendered argument vector.
// Child stdout/stderr are forwarded line-wise to the sink as observational
// events; the pipeline never synchronously awaits them.
func spawnProcess(javaPath string, argv []string, workDir string, sink Sink, logger hclog.Logger) (*RunningProcess, error) {
	cmd := exec.Command(javaPath, argv...)
	cmd.Dir = workDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("wiring stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("wiring stderr: %w", err)
	}

	logger.Info("🚀 Executing command", "path", javaPath)
	logger.Debug("🎯 Command details", "args", argv, "cwd", workDir)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}

	proc := &RunningProcess{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	var streams sync.WaitGroup
	for stream, pipe := range map[string]io.Reader{
		"stdout": stdout,
		"stderr": stderr,
	} {
		stream, pipe := stream, pipe
		streams.Add(1)
		go func() {
			defer streams.Done()
			scanner := bufio.NewScanner(pipe)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				sink.ProcessOutput(OutputEvent{Stream: stream, Chunk: scanner.Text()})
			}
		}()
	}

	go func() {
		streams.Wait()
		code := 0
		if err := cmd.Wait(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				code = exitErr.ExitCode()
			} else {
				logger.Error("❌ Process wait failed", "error", err)
				code = -1
			}
		}
		logger.Info("⏹️ Process exited", "code", code)
		proc.exitCode = code
		close(proc.done)
	}()

	return proc, nil
}
