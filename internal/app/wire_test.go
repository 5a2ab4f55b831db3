package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/survivetrack/internal/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ARIA: config.ARIAConfig{
			Provider:    config.ProviderOffline,
			Model:       "claude-3-haiku-20240307",
			MaxTokens:   250,
			Temperature: 0.7,
			Timeout:     30,
		},
		Map: config.MapConfig{
			CenterLat:  24.8607,
			CenterLon:  67.0011,
			Zoom:       11,
			ZoneZoom:   16,
			PointZoom:  15,
			Tiles:      "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
			LeafletJS:  "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js",
			LeafletCSS: "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css",
			ScanRadius: 11132,
		},
	}
}

func TestBuild_Offline(t *testing.T) {
	s, err := Build(context.Background(), testConfig())
	require.NoError(t, err)
	defer s.Close()

	assert.False(t, s.ARIA.Online())
	assert.Equal(t, "leaflet", s.Maps.Name())
	assert.Nil(t, s.Cache)
	assert.Nil(t, s.NATS)
	assert.Len(t, s.Atlas.Keys(), 3)

	reply := s.Briefing.Message(context.Background(), "zone b")
	require.NotNil(t, reply.Zone)
	assert.Equal(t, "Zone B", reply.Zone.Key)
}

func TestBuild_PlaceholderWithoutAssets(t *testing.T) {
	cfg := testConfig()
	cfg.Map.LeafletJS = ""

	s, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "placeholder", s.Maps.Name())
}

func TestNewResponder(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, NewResponder(ctx, config.ARIAConfig{Provider: config.ProviderOffline, APIKey: "k"}))
	assert.Nil(t, NewResponder(ctx, config.ARIAConfig{Provider: config.ProviderAnthropic}))

	r := NewResponder(ctx, config.ARIAConfig{
		Provider:  config.ProviderAnthropic,
		APIKey:    "sk-test",
		Model:     "claude-3-haiku-20240307",
		MaxTokens: 250,
		Timeout:   5,
		BaseURL:   "http://127.0.0.1:1",
	})
	require.NotNil(t, r)
	assert.True(t, r.Online())
	assert.Equal(t, "claude-3-haiku-20240307", r.Model())
}
