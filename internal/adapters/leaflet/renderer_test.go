package leaflet

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/pkg/geospatial"
)

func testOptions() Options {
	return Options{
		Center:      domain.GeoPoint{Lat: 24.8607, Lon: 67.0011},
		Zoom:        11,
		ZoneZoom:    16,
		PointZoom:   15,
		Tiles:       "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Attribution: "&copy; OpenStreetMap contributors",
		LeafletJS:   "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js",
		LeafletCSS:  "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css",
		Cinematic:   true,
		Now:         func() time.Time { return time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC) },
	}
}

func testAtlas(t *testing.T) *domain.Atlas {
	t.Helper()
	a, err := domain.NewAtlas()
	require.NoError(t, err)
	return a
}

func TestNewRenderer_SelectsImplementation(t *testing.T) {
	assert.Equal(t, "leaflet", NewRenderer(testOptions()).Name())

	noAssets := testOptions()
	noAssets.LeafletJS = ""
	assert.Equal(t, "placeholder", NewRenderer(noAssets).Name())
}

func TestZoneScene_MarkerCounts(t *testing.T) {
	atlas := testAtlas(t)

	tests := []struct {
		key                string
		resources, zombies int
	}{
		{"Zone A", 7, 0},
		{"Zone B", 4, 4},
		{"Zone C", 3, 8},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			z, _ := atlas.Get(tt.key)
			s := zoneScene(z, 16, false)
			assert.Equal(t, 1, s.count(kindZone))
			assert.Equal(t, tt.resources, s.count(kindResource))
			assert.Equal(t, tt.zombies, s.count(kindInfected))
			assert.Equal(t, 2, s.count(kindDanger))
			assert.Nil(t, s.FlyTo)
		})
	}
}

func TestZoneScene_HighDangerHasMoreInfected(t *testing.T) {
	atlas := testAtlas(t)
	low, _ := atlas.Get("Zone A")
	high, _ := atlas.Get("Zone C")

	assert.Greater(t, zoneScene(high, 16, true).count(kindInfected), zoneScene(low, 16, true).count(kindInfected))
}

func TestOverviewScene(t *testing.T) {
	atlas := testAtlas(t)
	s := overviewScene(atlas.Ordered(), domain.GeoPoint{}, 11)

	assert.Equal(t, 3, s.count(kindZone))
	assert.Equal(t, 4+2+2, s.count(kindResource))
	assert.Equal(t, 4, s.count(kindInfected)) // only the high danger zone
	assert.Len(t, s.Circles, 3)

	// Low danger overview resources cycle through the zone's resource glyphs.
	var glyphs []string
	for _, m := range s.Markers {
		if m.Kind == kindResource && strings.Contains(m.Popup, "Boat Basin") {
			glyphs = append(glyphs, m.Tooltip)
		}
	}
	assert.Equal(t, []string{"💧 Resource", "🍞 Resource", "🏠 Resource", "💧 Resource"}, glyphs)
}

func TestPointScene_PerimeterIsDeterministic(t *testing.T) {
	a := pointScene(24.87, 67.07, "YOU", "15:04:05", 15)
	b := pointScene(24.87, 67.07, "YOU", "15:04:05", 15)
	assert.Equal(t, a, b)

	assert.Equal(t, 1, a.count(kindBeacon))
	assert.Equal(t, sosPerimeter, a.count(kindInfected))
	require.Len(t, a.Circles, 1)
	assert.True(t, a.Circles[0].Meters)
	assert.InDelta(t, 1000, a.Circles[0].Radius, 1e-9)

	for _, m := range a.Markers {
		if m.Kind != kindInfected {
			continue
		}
		d := geospatial.Haversine(24.87, 67.07, m.Lat, m.Lon)
		assert.InDelta(t, 1000, d, 15, "perimeter marker should sit on the emergency radius")
	}
}

func TestSignalsScene(t *testing.T) {
	signals := []domain.SOSSignal{
		{Name: "A", Priority: domain.PriorityCritical, Location: domain.GeoPoint{Lat: 24.9, Lon: 67.0}},
		{Name: "B", Priority: domain.PriorityHigh, Location: domain.GeoPoint{Lat: 24.8, Lon: 67.1}},
		{Name: "C", Priority: domain.PriorityMedium, Location: domain.GeoPoint{Lat: 24.85, Lon: 67.05}},
	}
	s := signalsScene(signals, domain.GeoPoint{}, 11)

	assert.Equal(t, 3, s.count(kindBeacon))
	assert.Equal(t, 8+5, s.count(kindInfected))
	require.Len(t, s.Circles, 3)
	assert.Equal(t, 800.0, s.Circles[0].Radius)
	assert.Equal(t, 600.0, s.Circles[1].Radius)
	assert.Equal(t, 400.0, s.Circles[2].Radius)
	assert.Equal(t, "#FF6600", s.Circles[1].Color)
}

func TestRenderer_ZoneOutput(t *testing.T) {
	atlas := testAtlas(t)
	r := NewRenderer(testOptions())

	for _, z := range atlas.Ordered() {
		out := r.RenderZone(z)
		assert.Contains(t, out, z.Name)
		assert.Contains(t, out, z.ResourceList())
		assert.Contains(t, out, "leaflet@1.9.4/dist/leaflet.js")
		assert.Contains(t, out, "L.map(")
	}
}

func TestRenderer_OverviewOutput(t *testing.T) {
	atlas := testAtlas(t)
	out := NewRenderer(testOptions()).RenderOverview(atlas.Ordered())

	for _, z := range atlas.Ordered() {
		assert.Contains(t, out, z.Name)
		assert.Contains(t, out, z.ResourceList())
	}
	assert.NotContains(t, out, "SURVIVETRACK MAP SYSTEM")
}

func TestRenderer_PointEscapesLabel(t *testing.T) {
	out := NewRenderer(testOptions()).RenderPoint(24.87, 67.07, "<script>x</script>")
	assert.NotContains(t, out, "<script>x</script>")
}

func TestPlaceholderRenderer(t *testing.T) {
	atlas := testAtlas(t)
	p := NewPlaceholderRenderer()
	z, _ := atlas.Get("Zone B")

	out := p.RenderZone(z)
	assert.Contains(t, out, "SURVIVETRACK MAP SYSTEM")
	assert.Contains(t, out, z.Name)
	assert.Contains(t, out, z.ResourceList())

	sig := p.RenderSignals([]domain.SOSSignal{{Name: "Distress Signal #1", Priority: domain.PriorityHigh, Survivors: 3}})
	assert.Contains(t, sig, "Distress Signal #1 - HIGH - 3 survivors")

	pt := p.RenderPoint(1.5, 2.25, "YOUR LOCATION")
	assert.Contains(t, pt, "YOUR LOCATION (1.5000, 2.2500)")
}
