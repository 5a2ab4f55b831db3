package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/survivetrack/internal/adapters/nats"
	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
	"github.com/samirrijal/survivetrack/internal/pkg/metrics"
)

// wsMessage is sent from client to drive the console or manage feeds.
type wsMessage struct {
	Action   string `json:"action"`   // "chat" | "quick" | "scan" | "sos" | "aid" | "subscribe" | "unsubscribe"
	Message  string `json:"message"`  // chat text
	Zone     string `json:"zone"`     // zone key for "quick"
	Channel  string `json:"channel"`  // "sos" (only feed)
	Priority string `json:"priority"` // optional SOS priority filter
}

// wsEvent is sent from server to client.
type wsEvent struct {
	Type    string          `json:"type"` // "status" | "reply" | "sos" | "ack" | "error"
	Message string          `json:"message,omitempty"`
	Reply   *usecases.Reply `json:"reply,omitempty"`
	Signal  json.RawMessage `json:"signal,omitempty"`
}

// WebSocketHandler returns a handler that upgrades to WebSocket, answers chat
// actions through the briefing service and relays SOS broadcasts from NATS.
// Clients send JSON such as {"action":"chat","message":"zone a?"} or
// {"action":"subscribe","channel":"sos","priority":"CRITICAL"}.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		log := slog.With("remote", remoteAddr)
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // subject -> subscription

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		banner := "ARIA online. Tactical assistance ready."
		if !deps.ARIA.Online() {
			banner = "ARIA running in offline mode. Cached protocols active."
		}
		_ = writeJSON(wsEvent{Type: "status", Message: usecases.StatusLine(time.Now(), "online", banner, "")})

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(wsEvent{Type: "error", Message: "invalid JSON"})
				continue
			}

			switch m.Action {
			case "chat", "quick", "scan", "sos", "aid":
				reply, ok := runAction(deps, m)
				if !ok {
					_ = writeJSON(wsEvent{Type: "error", Message: "message too long"})
					continue
				}
				_ = writeJSON(wsEvent{Type: "reply", Reply: &reply})

			case "subscribe":
				subject, errMsg := sosSubject(deps, m)
				if errMsg != "" {
					_ = writeJSON(wsEvent{Type: "error", Message: errMsg})
					continue
				}
				if _, exists := subs[subject]; exists {
					_ = writeJSON(wsEvent{Type: "ack", Message: "already subscribed to " + subject})
					continue
				}
				s, err := deps.NATS.Subscribe(subject, func(msg *nats.Msg) {
					_ = writeJSON(wsEvent{Type: "sos", Signal: json.RawMessage(msg.Data)})
				})
				if err != nil {
					_ = writeJSON(wsEvent{Type: "error", Message: "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(wsEvent{Type: "ack", Message: "subscribed to " + subject})

			case "unsubscribe":
				subject, errMsg := sosSubject(deps, m)
				if errMsg != "" {
					_ = writeJSON(wsEvent{Type: "error", Message: errMsg})
					continue
				}
				if s, exists := subs[subject]; exists {
					_ = s.Unsubscribe()
					delete(subs, subject)
					_ = writeJSON(wsEvent{Type: "ack", Message: "unsubscribed from " + subject})
				} else {
					_ = writeJSON(wsEvent{Type: "error", Message: "not subscribed to " + subject})
				}

			default:
				_ = writeJSON(wsEvent{Type: "error", Message: "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Info("ws client disconnected")
	}
}

func runAction(deps *Dependencies, m wsMessage) (usecases.Reply, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), deps.requestTimeout())
	defer cancel()

	switch m.Action {
	case "chat":
		if len([]rune(m.Message)) > maxMessageLength {
			return usecases.Reply{}, false
		}
		return deps.Briefing.Message(ctx, m.Message), true
	case "quick":
		return deps.Briefing.QuickSelect(ctx, m.Zone), true
	case "scan":
		return deps.Briefing.ResourceScan(ctx), true
	case "sos":
		return deps.Briefing.RequestAid(ctx), true
	default:
		return deps.Briefing.LocateAid(ctx), true
	}
}

// sosSubject maps a subscribe request to a NATS subject. The second value is
// a client-facing error.
func sosSubject(deps *Dependencies, m wsMessage) (string, string) {
	if deps.NATS == nil {
		return "", "SOS relay not available"
	}
	channel := m.Channel
	if channel == "" {
		channel = "sos"
	}
	if channel != "sos" {
		return "", "unknown channel: " + channel
	}
	if m.Priority == "" {
		return natsadapter.SOSSubjects, ""
	}
	p := domain.Priority(strings.ToUpper(m.Priority))
	if p.Rank() == len(domain.Priorities) {
		return "", "unknown priority: " + m.Priority
	}
	return natsadapter.SOSSubject(p), ""
}
