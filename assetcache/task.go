package assetcache

import "context"

// Outcome classifies how an upload request finished.
type Outcome uint8

const (
	// OutcomeStored means the bytes were transferred and cached.
	OutcomeStored Outcome = iota
	// OutcomeDeduplicated means identical content was already cached; no
	// transfer happened.
	OutcomeDeduplicated
	// OutcomeThrottled means the admission check refused the upload. Not an
	// error; the caller may retry later.
	OutcomeThrottled
	// OutcomeFailed means the transfer failed. No entry remains; the upload
	// can be retried.
	OutcomeFailed
)

// String returns the outcome's name.
func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeDeduplicated:
		return "deduplicated"
	case OutcomeThrottled:
		return "throttled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the settled outcome of an upload task. Entry is valid for
// OutcomeStored and OutcomeDeduplicated; Err is set for OutcomeFailed.
type Result struct {
	Outcome Outcome
	Entry   Entry
	Err     error
}

// Task is a pending upload. The rendering loop polls Done or hands the task
// to a goroutine that calls Wait; either way the upload never blocks a frame.
type Task struct {
	done chan struct{}
	res  Result
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func resolvedTask(r Result) *Task {
	t := newTask()
	t.resolve(r)
	return t
}

func (t *Task) resolve(r Result) {
	t.res = r
	close(t.done)
}

// Done is closed when the task settles.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task settles or the context ends.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Result returns the settled result. Valid only after Done is closed.
func (t *Task) Result() Result { return t.res }
