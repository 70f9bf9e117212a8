// Package sandbox runs untrusted competitor callbacks under a wall-clock
// budget and contains any panic they raise.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

var (
	// ErrTimeout is returned when a call does not finish within its budget
	ErrTimeout = errors.New("sandbox: call exceeded time budget")
	// ErrNoBudget is returned without running fn when the timeout is not
	// positive
	ErrNoBudget = errors.New("sandbox: time budget must be positive")
)

// Fault wraps a panic recovered from inside a sandboxed call
type Fault struct {
	Value interface{}
	Stack []byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("sandbox: call panicked: %v", f.Value)
}

// Unwrap exposes the panic value when it was itself an error
func (f *Fault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}

// Call runs fn on its own goroutine and waits at most timeout for it.
//
// A call that overruns is abandoned: the goroutine keeps running until fn
// returns, so callers must not read anything fn writes after a non-nil error.
// Every call is bounded; a non-positive timeout is rejected with ErrNoBudget.
func Call(ctx context.Context, timeout time.Duration, fn func()) error {
	if timeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrNoBudget, timeout)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so an abandoned call never blocks on send
	done := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &Fault{Value: r, Stack: debug.Stack()}
			}
		}()
		fn()
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// IsFault reports whether err came from a panic inside the sandboxed call
func IsFault(err error) bool {
	var f *Fault
	return errors.As(err, &f)
}
