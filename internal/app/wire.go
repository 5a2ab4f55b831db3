// Package app assembles SurviveTrack services from configuration.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/survivetrack/internal/adapters/anthropic"
	"github.com/samirrijal/survivetrack/internal/adapters/gemini"
	"github.com/samirrijal/survivetrack/internal/adapters/leaflet"
	natsadapter "github.com/samirrijal/survivetrack/internal/adapters/nats"
	"github.com/samirrijal/survivetrack/internal/adapters/valkey"
	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
	"github.com/samirrijal/survivetrack/internal/pkg/config"
)

// Services is the assembled application.
type Services struct {
	Atlas    *domain.Atlas
	ARIA     *usecases.ARIAService
	Briefing *usecases.BriefingService
	Maps     ports.MapRenderer
	Cache    *valkey.Cache // nil unless enabled and reachable
	NATS     *nats.Conn    // nil unless enabled

	closers []func()
}

// Close releases backend connections in reverse order.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Build wires the atlas, ARIA, map renderer and optional backends. Optional
// backends that fail to connect are logged and skipped.
func Build(ctx context.Context, cfg *config.Config) (*Services, error) {
	atlas, err := domain.NewAtlas()
	if err != nil {
		return nil, err
	}
	s := &Services{Atlas: atlas}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		c, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			s.Cache = c
			s.closers = append(s.closers, c.Close)
			cache = c
		}
	}

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		p, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, SOS broadcasts disabled", "error", err)
		} else {
			s.NATS = p.Conn()
			s.closers = append(s.closers, p.Close)
			publisher = p
		}
	}

	center := domain.GeoPoint{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon}
	s.Maps = leaflet.NewRenderer(leaflet.Options{
		Center:      center,
		Zoom:        cfg.Map.Zoom,
		ZoneZoom:    cfg.Map.ZoneZoom,
		PointZoom:   cfg.Map.PointZoom,
		Tiles:       cfg.Map.Tiles,
		Attribution: cfg.Map.Attribution,
		LeafletJS:   cfg.Map.LeafletJS,
		LeafletCSS:  cfg.Map.LeafletCSS,
		Cinematic:   cfg.Map.Cinematic,
	})

	s.ARIA = usecases.NewARIAService(NewResponder(ctx, cfg.ARIA), nil, cache, usecases.ARIASettings{
		MaxTokens:   cfg.ARIA.MaxTokens,
		Temperature: cfg.ARIA.Temperature,
		CacheTTL:    cfg.ARIA.CacheTTL,
	})
	s.Briefing = usecases.NewBriefingService(atlas, s.ARIA, s.Maps, publisher, usecases.BriefingOptions{
		Center:     center,
		ScanRadius: cfg.Map.ScanRadius,
	})
	return s, nil
}

// NewResponder returns the live responder for the configured provider, or nil
// when the provider is offline or has no credentials.
func NewResponder(ctx context.Context, cfg config.ARIAConfig) ports.Responder {
	if !cfg.Enabled() {
		return nil
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewClient(anthropic.Options{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     time.Duration(cfg.Timeout) * time.Second,
			BaseURL:     cfg.BaseURL,
		})
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, gemini.Options{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			slog.Warn("gemini client unavailable", "error", err)
			return nil
		}
		return c
	}
	return nil
}
