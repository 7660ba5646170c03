package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix namespaces every subject the engine publishes on.
const SubjectPrefix = "surety"

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
	RequestWithContext(ctx context.Context, subject string, data []byte) (*nats.Msg, error)
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Config holds NATS configuration
type Config struct {
	URL            string
	Name           string
	ReconnectWait  time.Duration
	MaxReconnects  int
	ConnectTimeout time.Duration
	FlushTimeout   time.Duration
}

// Client wraps a NATS connection and tracks its health.
type Client struct {
	conn         Conn
	flushTimeout time.Duration

	mu         sync.RWMutex
	connected  bool
	reconnects int
}

// Connect dials NATS with the given configuration.
func Connect(cfg Config) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = "flightsurety"
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}

	client := &Client{flushTimeout: cfg.FlushTimeout, connected: true}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.Timeout(cfg.ConnectTimeout),
		nats.ReconnectHandler(func(*nats.Conn) {
			client.mu.Lock()
			client.reconnects++
			client.connected = true
			client.mu.Unlock()
		}),
		nats.DisconnectErrHandler(func(*nats.Conn, error) {
			client.mu.Lock()
			client.connected = false
			client.mu.Unlock()
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	client.conn = conn
	return client, nil
}

// NewClient wraps an existing connection.
func NewClient(conn Conn, flushTimeout time.Duration) *Client {
	return &Client{conn: conn, flushTimeout: flushTimeout, connected: true}
}

// Publish marshals data as JSON and publishes it on subject.
func (c *Client) Publish(ctx context.Context, subject string, data any) error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

// Request publishes data and waits for one reply.
func (c *Client) Request(ctx context.Context, subject string, data any) (*nats.Msg, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("not connected")
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data: %w", err)
	}
	return c.conn.RequestWithContext(ctx, subject, payload)
}

// Flush waits until the server has processed everything published so far.
func (c *Client) Flush() error {
	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	timeout := c.flushTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return c.conn.FlushTimeout(timeout)
}

// IsConnected reports the last known connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) Reconnects() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconnects
}

func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
