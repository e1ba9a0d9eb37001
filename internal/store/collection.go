// Package store holds the client-side collections of users and posts. Each
// store mirrors one REST resource, tracks its load status and last error, and
// applies the result of every successful mutation to its collection.
package store

import (
	"context"
	"slices"
	"sync"

	"github.com/fivetwenty-io/crudadmin/internal/events"
	"github.com/fivetwenty-io/crudadmin/pkg/admin"
)

// collection is a mutex-guarded ordered slice keyed by an integer id.
type collection[T any] struct {
	mu      sync.RWMutex
	items   []T
	status  admin.Status
	errMsg  string
	version uint64
	idOf    func(T) int

	resource  string
	publisher events.Publisher
	logger    admin.Logger
}

func newCollection[T any](resource string, idOf func(T) int, opts *Options) *collection[T] {
	c := &collection[T]{
		items:     []T{},
		status:    admin.StatusIdle,
		idOf:      idOf,
		resource:  resource,
		publisher: events.NewNoOpPublisher(),
	}

	if opts != nil {
		if opts.Publisher != nil {
			c.publisher = opts.Publisher
		}

		c.logger = opts.Logger
	}

	return c
}

// Items returns a copy of the collection.
func (c *collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.items)
}

// Len returns the number of items.
func (c *collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Status returns the load status.
func (c *collection[T]) Status() admin.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.status
}

// Err returns the last error message, empty when the last operation succeeded.
func (c *collection[T]) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.errMsg
}

// Version changes every time the collection changes.
func (c *collection[T]) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.version
}

// NeedsLoad reports whether the collection has never loaded successfully.
func (c *collection[T]) NeedsLoad() bool {
	status := c.Status()

	return status == admin.StatusIdle || status == admin.StatusError
}

// Find returns the item with the given id.
func (c *collection[T]) Find(id int) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if c.idOf(item) == id {
			return item, true
		}
	}

	var zero T

	return zero, false
}

func (c *collection[T]) startLoad() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = admin.StatusLoading
	c.errMsg = ""
}

func (c *collection[T]) finishLoad(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if items == nil {
		items = []T{}
	}

	c.items = items
	c.status = admin.StatusSuccess
	c.version++
}

func (c *collection[T]) failLoad(err error, fallback string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = admin.ErrorMessage(err, fallback)
	c.status = admin.StatusError
}

func (c *collection[T]) clearErr() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = ""
}

func (c *collection[T]) fail(err error, fallback string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errMsg = admin.ErrorMessage(err, fallback)
}

func (c *collection[T]) appendItem(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = append(c.items, item)
	c.version++
}

// replace applies fn to every item with the given id.
func (c *collection[T]) replace(id int, fn func(T) T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]T, len(c.items))
	for i, item := range c.items {
		if c.idOf(item) == id {
			item = fn(item)
		}

		next[i] = item
	}

	c.items = next
	c.version++
}

func (c *collection[T]) removeID(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = slices.DeleteFunc(slices.Clone(c.items), func(item T) bool {
		return c.idOf(item) == id
	})
	c.version++
}

// publish sends a change event. Failures are logged only.
func (c *collection[T]) publish(ctx context.Context, action events.Action, id int, data interface{}) {
	err := c.publisher.Publish(ctx, events.New(c.resource, action, id, data))
	if err != nil && c.logger != nil {
		c.logger.Warn("failed to publish change event", map[string]interface{}{
			"resource": c.resource,
			"action":   string(action),
			"id":       id,
			"error":    err.Error(),
		})
	}
}

// Options configures a store.
type Options struct {
	// Publisher receives an event after every successful mutation.
	Publisher events.Publisher
	// Logger reports publish failures.
	Logger admin.Logger
}
