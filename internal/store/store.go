// Package store caches API resources for a client and keeps the caches
// fresh.  Every successful mutation refetches the affected lists; the
// refetch is the only way cached state changes.  Each operation reports
// its outcome twice: as a returned error the caller uses to decide what
// to do next, and as a Notice meant for the user.
//
// Stores are safe for concurrent use.  Once closed they drop refetch
// results and stop emitting notices.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/codewithtechno/techno-hub/internal/apperr"
)

// Kind classifies a notice.
type Kind int

const (
	Success Kind = iota
	Failure
)

func (k Kind) String() string {
	if k == Success {
		return "success"
	}
	return "error"
}

// Notice is a user-facing message about a finished operation.  Err is
// set on failures.
type Notice struct {
	Kind    Kind
	Title   string
	Message string
	Err     error
}

// Notifier receives notices.  It is called synchronously from the
// goroutine that ran the operation.
type Notifier func(Notice)

type core struct {
	notify Notifier
	closed atomic.Bool
}

func orDiscard(n Notifier) Notifier {
	if n == nil {
		return func(Notice) {}
	}
	return n
}

// Close detaches the store.  Results of requests still in flight are
// discarded.
func (c *core) Close() { c.closed.Store(true) }

func (c *core) emit(n Notice) {
	if c.closed.Load() {
		return
	}
	c.notify(n)
}

func (c *core) success(msg string) {
	c.emit(Notice{Kind: Success, Title: "Success", Message: msg})
}

// failure reports a failed operation, e.g. op "create sprint".
func (c *core) failure(op string, err error) {
	c.emit(Notice{Kind: Failure, Title: "Error", Message: fmt.Sprintf("Failed to %s: %s", op, reason(err)), Err: err})
}

// reason is the user-facing cause of err.  Authorization failures get
// their own wording so they are never mistaken for a generic error.
func reason(err error) string {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, apperr.ErrUnauthenticated):
		return "please sign in first"
	case errors.Is(err, apperr.ErrForbidden):
		return "you do not have permission to do this"
	case errors.Is(err, apperr.ErrNotFound):
		return "it no longer exists"
	case errors.Is(err, apperr.ErrConflict):
		return "it conflicts with a change made elsewhere, refresh and try again"
	case errors.Is(err, apperr.ErrValidation):
		return err.Error()
	case errors.Is(err, apperr.ErrTransient):
		return "network error, please try again"
	default:
		return "something went wrong, please try again"
	}
}

// cache is a list snapshot guarded by its own lock.
type cache[T any] struct {
	mu    sync.RWMutex
	items []T
}

func (c *cache[T]) get() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *cache[T]) set(items []T) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *cache[T]) contains(pred func(T) bool) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.ContainsFunc(c.items, pred)
}
