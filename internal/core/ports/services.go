package ports

import (
	"context"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

// Responder produces ARIA text for a prompt. Live implementations call a
// hosted text-generation API; the offline one answers from canned text.
type Responder interface {
	Respond(ctx context.Context, prompt Prompt) (string, error)
	// Online reports whether the responder reaches a live model.
	Online() bool
	// Model names the backing model, or "Offline".
	Model() string
}

// Prompt is the input handed to a Responder.
type Prompt struct {
	System string       // fixed ARIA system prompt
	User   string       // raw user text
	Zone   *domain.Zone // optional zone context
}

// MapRenderer turns zones and points into map markup. Implementations never
// fail; they fall back to placeholder markup instead.
type MapRenderer interface {
	RenderOverview(zones []domain.Zone) string
	RenderZone(zone domain.Zone) string
	RenderPoint(lat, lon float64, label string) string
	RenderSignals(signals []domain.SOSSignal) string
	// Name identifies the renderer ("leaflet" or "placeholder").
	Name() string
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSOS(ctx context.Context, signal *domain.SOSSignal) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
