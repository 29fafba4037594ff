// Package download implements the fetch-and-validate engine: a bounded
// worker pool draining download tasks with integrity checking, retry with
// exponential backoff, and rate-limited progress reporting.
package download

// Task describes one file to fetch and validate. Re-running a task whose
// destination already matches Checksum is a no-op.
type Task struct {
	URL         string
	Destination string
	Checksum    string // "" means no integrity check; see checksum.go for format
	Size        int64  // expected size, 0 when unknown
	Label       string
}

// Outcome is the terminal result of one task
type Outcome struct {
	Task      Task
	Fetched   bool // a network transfer happened
	Validated bool // integrity confirmed (or no checksum expected)
	Err       error
}

// Aggregate summarizes a batch of outcomes, distinguishing transport from
// integrity failures so the caller can judge launch viability.
type Aggregate struct {
	SuccessCount           int
	FailureCount           int
	ValidationFailureCount int
}

func (a *Aggregate) add(o Outcome) {
	switch {
	case o.Err == nil:
		a.SuccessCount++
	case isIntegrityErr(o.Err):
		a.ValidationFailureCount++
	default:
		a.FailureCount++
	}
}

// Failed reports whether any task failed for any reason
func (a Aggregate) Failed() bool {
	return a.FailureCount > 0 || a.ValidationFailureCount > 0
}
