package download

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/sync/errgroup"
)

// ErrIntegrity marks a hash mismatch that survived the full retry budget
var ErrIntegrity = errors.New("❌ integrity check failed")

// A task gets maxAttempts total tries; transport errors, bad statuses and
// hash mismatches all consume an attempt.
const maxAttempts = 3

func isIntegrityErr(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// Downloader fetches and validates files. Safe for concurrent use.
type Downloader struct {
	client     *http.Client
	logger     hclog.Logger
	progress   ProgressFunc
	newBackOff func() backoff.BackOff
}

// Option configures a Downloader
type Option func(*Downloader)

// WithProgress installs a progress event receiver
func WithProgress(fn ProgressFunc) Option {
	return func(d *Downloader) { d.progress = fn }
}

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) { d.client = c }
}

// WithBackOff overrides the retry delay policy; tests inject a zero backoff
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(d *Downloader) { d.newBackOff = factory }
}

// New creates a Downloader with the standard retry policy (exponential
// delays starting at 1s) and a connection-bounded HTTP client.
func New(logger hclog.Logger, opts ...Option) *Downloader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	d := &Downloader{
		logger:     logger,
		newBackOff: defaultBackOff,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 15 * time.Second,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   16,
				IdleConnTimeout:       90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 30 * time.Second
	return bo
}

// DownloadAll drains tasks through a worker pool of the given size; at most
// concurrency tasks are in flight at once and each task is submitted exactly
// once. Outcome counters update under a single lock.
func (d *Downloader) DownloadAll(ctx context.Context, tasks []Task, concurrency int) Aggregate {
	if concurrency <= 0 {
		concurrency = 1
	}

	d.logger.Info("⬇️ Starting downloads", "files", len(tasks), "workers", concurrency)

	var (
		mu  sync.Mutex
		agg Aggregate
	)

	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			out := d.DownloadOne(ctx, task)
			if out.Err != nil {
				d.logger.Error("❌ Download failed", "file", out.Task.Label, "error", out.Err)
			}
			mu.Lock()
			agg.add(out)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	d.logger.Info("⬇️ Downloads finished",
		"ok", agg.SuccessCount,
		"transport_failures", agg.FailureCount,
		"integrity_failures", agg.ValidationFailureCount)
	return agg
}

// DownloadOne runs a single task through its state machine: check the
// existing file, then download, validate and retry up to the attempt budget.
func (d *Downloader) DownloadOne(ctx context.Context, task Task) Outcome {
	out := Outcome{Task: task}

	if existing, err := os.Stat(task.Destination); err == nil {
		if task.Checksum == "" {
			// Nothing to validate against; an existing file is accepted
			out.Validated = true
			return out
		}
		match, err := VerifyFile(task.Destination, task.Checksum)
		if err == nil && match {
			d.logger.Debug("✅ Already valid, skipping", "file", task.Label, "size", existing.Size())
			out.Validated = true
			return out
		}
		d.logger.Debug("🔁 Existing file failed validation, re-downloading", "file", task.Label)
	}

	attempt := 0
	op := func() error {
		attempt++
		err := d.fetchAndValidate(ctx, task, attempt)
		if err != nil {
			d.logger.Warn("⚠️ Download attempt failed", "file", task.Label, "attempt", attempt, "error", err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithMaxRetries(d.newBackOff(), maxAttempts-1))
	out.Fetched = attempt > 0
	if err != nil {
		out.Err = err
		return out
	}
	out.Validated = true
	return out
}

// fetchAndValidate performs one download attempt: stream to a .part file
// while hashing, verify, then rename into place. Any failure removes the
// partial file so the next attempt starts clean.
func (d *Downloader) fetchAndValidate(ctx context.Context, task Task, attempt int) error {
	if err := os.MkdirAll(filepath.Dir(task.Destination), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", task.Label, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", task.URL, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", task.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetching %s: unexpected status %s", task.URL, resp.Status)
	}

	total := task.Size
	if resp.ContentLength > 0 {
		total = resp.ContentLength
	}

	partPath := task.Destination + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", partPath, err)
	}

	pw := newProgressWriter(task.Label, total, d.progress)
	dest := io.MultiWriter(file, pw)

	var algo ChecksumAlgorithm
	var expected string
	var h hash.Hash
	if task.Checksum != "" {
		var perr error
		algo, expected, perr = ParseChecksum(task.Checksum)
		if perr != nil {
			file.Close()
			os.Remove(partPath)
			return fmt.Errorf("task %s: %w", task.Label, perr)
		}
		h = algo.newHash()
		dest = io.MultiWriter(file, h, pw)
	}

	if _, err := io.Copy(dest, resp.Body); err != nil {
		file.Close()
		os.Remove(partPath)
		return fmt.Errorf("streaming %s: %w", task.URL, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("closing %s: %w", partPath, err)
	}

	if h != nil {
		actual := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(actual, expected) {
			os.Remove(partPath)
			return fmt.Errorf("%w: %s expected %s:%s got %s (attempt %d)",
				ErrIntegrity, task.Label, algo, expected, actual, attempt)
		}
	}

	if err := os.Rename(partPath, task.Destination); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("moving %s into place: %w", task.Label, err)
	}

	pw.finish()
	d.logger.Debug("📦 Downloaded", "file", task.Label, "bytes", pw.bytes, "attempt", attempt)
	return nil
}
