// Package events publishes change notifications for users and posts.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Action is the kind of change that happened to a resource.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionReloaded Action = "reloaded"
)

// Resource names used in subjects.
const (
	ResourceUser = "user"
	ResourcePost = "post"
)

// Event describes a successful mutation.
type Event struct {
	Resource  string      `json:"resource"`
	Action    Action      `json:"action"`
	ID        int         `json:"id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(resource string, action Action, id int, data interface{}) Event {
	return Event{
		Resource:  resource,
		Action:    action,
		ID:        id,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Subject returns the subject the event is published on, e.g.
// "crudadmin.user.created".
func (e Event) Subject(prefix string) string {
	parts := make([]string, 0, 3)

	if prefix = strings.Trim(prefix, "."); prefix != "" {
		parts = append(parts, prefix)
	}

	parts = append(parts, e.Resource, string(e.Action))

	return strings.Join(parts, ".")
}

// Key identifies the affected entity, e.g. "user/3".
func (e Event) Key() string {
	return e.Resource + "/" + strconv.Itoa(e.ID)
}

// Encode returns the JSON wire form of the event.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", e.Key(), err)
	}

	return data, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoOpPublisher discards every event.
type NoOpPublisher struct{}

// NewNoOpPublisher creates a publisher that does nothing.
func NewNoOpPublisher() *NoOpPublisher {
	return &NoOpPublisher{}
}

// Publish does nothing.
func (p *NoOpPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}

// Close does nothing.
func (p *NoOpPublisher) Close() error {
	return nil
}
