package layout

import (
	"fmt"
	"sync"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/observability"
)

// guard is the single reader/writer lock protecting a tree. A panic inside
// an exclusive section poisons it: the panicking call and every later call
// fail with LOCK_UNAVAILABLE instead of touching possibly inconsistent state.
type guard struct {
	mu       sync.RWMutex
	poisoned bool
}

// read runs fn with shared access.
func (g *guard) read(fn func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.poisoned {
		return ErrLockUnavailable
	}
	return fn()
}

// write runs fn with exclusive access. op names the operation for hooks.
func (g *guard) write(op string, fn func() error) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		return ErrLockUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			observability.Layout().OnPoisoned(op, r)
			err = errors.Wrap(errors.ErrCodeLockUnavailable, panicError{r}, "%s panicked", op)
		}
	}()
	return fn()
}

// panicError carries a recovered panic value through the error chain.
type panicError struct{ value any }

func (p panicError) Error() string { return fmt.Sprintf("panic: %v", p.value) }

// readValue is read for operations returning a value.
func readValue[T any](g *guard, fn func() (T, error)) (T, error) {
	var out T
	err := g.read(func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}

// writeValue is write for operations returning a value.
func writeValue[T any](g *guard, op string, fn func() (T, error)) (T, error) {
	var out T
	err := g.write(op, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}
