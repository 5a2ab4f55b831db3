package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

// Subscriber follows SOS broadcasts from the JetStream stream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeSOS delivers signals published from now on. Malformed messages and
// handler errors are negatively acknowledged.
func (s *Subscriber) SubscribeSOS(ctx context.Context, handler func(ctx context.Context, sig *domain.SOSSignal) error) error {
	sub, err := s.js.Subscribe(SOSSubjects, func(msg *nats.Msg) {
		var sig domain.SOSSignal
		if err := json.Unmarshal(msg.Data, &sig); err != nil {
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &sig); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
