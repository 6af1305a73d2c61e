// Package events publishes quote domain events over NATS core subjects.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jsamuelsen/quotebox/internal/domain"
	"github.com/jsamuelsen/quotebox/internal/platform/logging"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

const (
	serviceName = "nats"

	defaultConnectWait = 2 * time.Second
)

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	IsConnected() bool
	Drain() error
}

// Config configures a Publisher.
type Config struct {
	URL           string
	SubjectPrefix string
	ConnectWait   time.Duration

	// Name is sent to the server as the connection name.
	Name string

	Logger *slog.Logger
}

// Publisher implements ports.EventPublisher. Each event goes to
// "<prefix>.<event type>" as a JSON document.
type Publisher struct {
	conn   conn
	prefix string
	logger *slog.Logger
}

// Connect dials the NATS server and returns a publisher on it.
func Connect(cfg Config) (*Publisher, error) {
	wait := cfg.ConnectWait
	if wait <= 0 {
		wait = defaultConnectWait
	}

	name := cfg.Name
	if name == "" {
		name = "quotebox"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "events.Publisher"))

	nc, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.Timeout(wait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, domain.NewUnavailableError(serviceName, fmt.Sprintf("connecting to %s: %v", cfg.URL, err))
	}

	return newPublisher(nc, cfg.SubjectPrefix, logger), nil
}

func newPublisher(c conn, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   c,
		prefix: strings.TrimSuffix(prefix, "."),
		logger: logger,
	}
}

// Subject returns the subject an event type is published on.
func (p *Publisher) Subject(eventType string) string {
	if p.prefix == "" {
		return eventType
	}

	return p.prefix + "." + eventType
}

// Publish implements ports.EventPublisher.
func (p *Publisher) Publish(ctx context.Context, event ports.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", event.EventType(), err)
	}

	subject := p.Subject(event.EventType())

	err = p.conn.Publish(subject, data)
	if err != nil {
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("publishing to %s: %v", subject, err))
	}

	logging.Trace(ctx, logging.FromContextOr(ctx, p.logger), "published event",
		slog.String("subject", subject),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// Name implements ports.HealthChecker.
func (p *Publisher) Name() string {
	return serviceName
}

// Check implements ports.HealthChecker.
func (p *Publisher) Check(context.Context) error {
	if !p.conn.IsConnected() {
		return domain.NewUnavailableError(serviceName, "not connected")
	}

	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining nats connection: %w", err)
	}

	return nil
}
