package admin

import "sync"

// PendingCounter counts in-flight requests. It drives the global loading
// indicator: the indicator is visible while Pending() > 0.
type PendingCounter struct {
	mu        sync.Mutex
	pending   int
	nextID    int
	observers map[int]func(pending int)
}

// NewPendingCounter creates a counter at zero.
func NewPendingCounter() *PendingCounter {
	return &PendingCounter{
		observers: make(map[int]func(pending int)),
	}
}

// Show records the start of a request.
func (c *PendingCounter) Show() {
	c.mu.Lock()
	c.pending++
	pending := c.pending
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, pending)
}

// Hide records the end of a request. The count never drops below zero.
func (c *PendingCounter) Hide() {
	c.mu.Lock()
	if c.pending > 0 {
		c.pending--
	}

	pending := c.pending
	observers := c.snapshot()
	c.mu.Unlock()

	notify(observers, pending)
}

// Pending returns the number of in-flight requests.
func (c *PendingCounter) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending
}

// Busy reports whether the loading indicator should be visible.
func (c *PendingCounter) Busy() bool {
	return c.Pending() > 0
}

// Subscribe registers fn to be called with the new count after every change.
// The returned function removes the subscription.
func (c *PendingCounter) Subscribe(fn func(pending int)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.observers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.observers, id)
	}
}

func (c *PendingCounter) snapshot() []func(pending int) {
	observers := make([]func(pending int), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}

	return observers
}

func notify(observers []func(pending int), pending int) {
	for _, fn := range observers {
		fn(pending)
	}
}
