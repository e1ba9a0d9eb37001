package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrNATSURLRequired  = errors.New("NATS URL is required")
	ErrPublisherClosed  = errors.New("publisher is closed")
	ErrNATSConnRequired = errors.New("NATS connection is required")
)

const defaultConnectTimeout = 2 * time.Second

// NATSConfig configures the NATS publisher.
type NATSConfig struct {
	URL            string
	SubjectPrefix  string
	Name           string
	ConnectTimeout time.Duration
}

// natsConn is the subset of *nats.Conn used by the publisher.
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
	Close()
}

// NATSPublisher publishes events as JSON messages on NATS core subjects.
type NATSPublisher struct {
	conn   natsConn
	prefix string

	mu     sync.Mutex
	closed bool
}

// NewNATSPublisher connects to the NATS server at config.URL.
func NewNATSPublisher(config *NATSConfig) (*NATSPublisher, error) {
	if config == nil || config.URL == "" {
		return nil, ErrNATSURLRequired
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	name := config.Name
	if name == "" {
		name = "crudadmin"
	}

	conn, err := nats.Connect(config.URL,
		nats.Name(name),
		nats.Timeout(timeout),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", config.URL, err)
	}

	return newNATSPublisher(conn, config.SubjectPrefix)
}

func newNATSPublisher(conn natsConn, prefix string) (*NATSPublisher, error) {
	if conn == nil {
		return nil, ErrNATSConnRequired
	}

	return &NATSPublisher{
		conn:   conn,
		prefix: prefix,
	}, nil
}

// Publish implements Publisher.Publish.
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("publishing %s: %w", event.Key(), err)
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return ErrPublisherClosed
	}

	data, err := event.Encode()
	if err != nil {
		return err
	}

	err = p.conn.Publish(event.Subject(p.prefix), data)
	if err != nil {
		return fmt.Errorf("publishing %s: %w", event.Key(), err)
	}

	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	err := p.conn.Drain()
	if err != nil {
		p.conn.Close()

		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}
