// Package asyncop implements the request lifecycle every data view follows:
// idle -> pending -> success|error, with stale-response protection and
// self-clearing transient notices.
package asyncop

import (
	"sync"
	"time"
)

// Status of an operation.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Operation tracks one network-triggered action and its result. Each Start
// hands out a monotonic sequence number; completions carrying anything but
// the latest sequence are discarded, so a slow early response can never
// overwrite the result of a later trigger (last-write-wins by trigger order,
// not by resolution order).
type Operation[T any] struct {
	mu     sync.Mutex
	status Status
	seq    uint64
	data   T
	err    error
}

// Start transitions to pending and clears the prior error. It refuses (ok ==
// false) while another trigger is still pending, which is how duplicate
// triggers are suppressed.
func (o *Operation[T]) Start() (seq uint64, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status == StatusPending {
		return 0, false
	}
	o.seq++
	o.status = StatusPending
	o.err = nil
	return o.seq, true
}

// Complete records a successful result for the given trigger. Stale
// sequences are ignored.
func (o *Operation[T]) Complete(seq uint64, data T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.seq {
		return false
	}
	o.status = StatusSuccess
	o.data = data
	o.err = nil
	return true
}

// Fail records a failed result for the given trigger. Stale sequences are
// ignored.
func (o *Operation[T]) Fail(seq uint64, err error) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if seq != o.seq {
		return false
	}
	o.status = StatusError
	o.err = err
	return true
}

// Reset returns the operation to idle, keeping the sequence counter so that
// in-flight completions from before the reset stay stale.
func (o *Operation[T]) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status = StatusIdle
	o.err = nil
	var zero T
	o.data = zero
}

// Status reports the current lifecycle state.
func (o *Operation[T]) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Data returns the last successful result.
func (o *Operation[T]) Data() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.data
}

// Err returns the last failure, nil unless status is error.
func (o *Operation[T]) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}

// Run executes fn under a fresh trigger and applies its outcome, honoring
// the staleness guard. The second return is false when the operation was
// already pending and nothing ran.
func (o *Operation[T]) Run(fn func() (T, error)) (applied, started bool) {
	seq, ok := o.Start()
	if !ok {
		return false, false
	}
	data, err := fn()
	if err != nil {
		return o.Fail(seq, err), true
	}
	return o.Complete(seq, data), true
}

// DefaultNoticeTTL is how long transient messages stay visible.
const DefaultNoticeTTL = 4 * time.Second

// Notice is a transient confirmation or background-error message that
// expires on its own, unlike persistent form-validation errors which remain
// until the user acts.
type Notice struct {
	Text    string
	IsError bool
	expiry  time.Time
}

// NewNotice creates a notice expiring after ttl (DefaultNoticeTTL when ttl
// is zero).
func NewNotice(text string, isError bool, ttl time.Duration) Notice {
	if ttl == 0 {
		ttl = DefaultNoticeTTL
	}
	return Notice{Text: text, IsError: isError, expiry: time.Now().Add(ttl)}
}

// Active reports whether the notice should still be shown at now.
func (n Notice) Active(now time.Time) bool {
	return n.Text != "" && now.Before(n.expiry)
}
