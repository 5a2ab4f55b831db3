package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
)

const (
	// SOSStream holds recent distress broadcasts.
	SOSStream = "SOS_SIGNALS"
	// SOSSubjects matches every SOS subject.
	SOSSubjects = "survivetrack.sos.>"
)

// SOSSubject is the subject a signal of the given priority is published on,
// e.g. survivetrack.sos.critical.
func SOSSubject(p domain.Priority) string {
	return "survivetrack.sos." + strings.ToLower(string(p))
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

var _ ports.EventPublisher = (*Publisher)(nil)

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure stream exists
	cfg := nats.StreamConfig{
		Name:      SOSStream,
		Subjects:  []string{SOSSubjects},
		Retention: nats.LimitsPolicy,
		MaxAge:    1 * time.Hour,
		Storage:   nats.MemoryStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishSOS broadcasts a distress signal.
func (p *Publisher) PublishSOS(ctx context.Context, s *domain.SOSSignal) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SOSSubject(s.Priority), data, nats.Context(ctx), nats.MsgId(s.ID))
	return err
}

// Conn exposes the connection for relays and readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("survivetrack"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
