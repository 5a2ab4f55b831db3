package main

import (
	"bytes"
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/survivetrack/internal/adapters/leaflet"
	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
)

var fixed = time.Date(2025, 3, 14, 15, 4, 0, 0, time.UTC)

func newConsole(t *testing.T, mapOut string) (*console, *bytes.Buffer) {
	t.Helper()
	atlas, err := domain.NewAtlas()
	require.NoError(t, err)

	aria := usecases.NewARIAService(nil, nil, nil, usecases.ARIASettings{MaxTokens: 250, Temperature: 0.7})
	briefing := usecases.NewBriefingService(atlas, aria, leaflet.NewPlaceholderRenderer(), nil, usecases.BriefingOptions{
		Center: domain.GeoPoint{Lat: 24.8607, Lon: 67.0011},
		Rand:   rand.New(rand.NewPCG(3, 4)),
		Now:    func() time.Time { return fixed },
	})

	var out bytes.Buffer
	return &console{
		briefing: briefing,
		aria:     aria,
		atlas:    atlas,
		out:      &out,
		mapOut:   mapOut,
		now:      func() time.Time { return fixed },
	}, &out
}

func TestConsole_Session(t *testing.T) {
	c, out := newConsole(t, "")

	in := strings.NewReader("tell me about zone c\n/scan\n/status\n/quit\nnever read\n")
	require.NoError(t, c.run(context.Background(), in))

	got := out.String()
	assert.Contains(t, got, "📡 *[1504 hrs] OFFLINE:* ARIA running on offline protocols")
	assert.Contains(t, got, "Gillani Railway Station")
	assert.Contains(t, got, "RESOURCE LOCATOR SCAN COMPLETE")
	assert.Contains(t, got, "🤖 *[1504 hrs] OFFLINE MODE:* model Offline, 4 messages in memory")
	assert.Contains(t, got, "Comms link closed.")
	assert.NotContains(t, got, "never read")
}

func TestConsole_ZoneCommand(t *testing.T) {
	c, out := newConsole(t, "")

	for _, arg := range []string{"b", "Zone B", "zone b"} {
		out.Reset()
		assert.True(t, c.handle(context.Background(), "/zone "+arg))
		assert.Contains(t, out.String(), "Quick Access: 📍 Zone B – Lyari", arg)
	}

	out.Reset()
	c.handle(context.Background(), "/zone q")
	assert.Contains(t, out.String(), `unknown zone "q"`)
}

func TestConsole_HistoryAndHelp(t *testing.T) {
	c, out := newConsole(t, "")

	c.handle(context.Background(), "where can I find water")
	out.Reset()
	c.handle(context.Background(), "/history")
	assert.Contains(t, out.String(), "[user] where can I find water")
	assert.Contains(t, out.String(), "[assistant] ")

	out.Reset()
	c.handle(context.Background(), "/help")
	assert.Contains(t, out.String(), "/sos")
}

func TestConsole_WritesMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.html")
	c, out := newConsole(t, path)

	c.handle(context.Background(), "/aid")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Aid map not available")
	assert.Contains(t, out.String(), "AID LOCATION SCAN COMPLETE")
	assert.Contains(t, out.String(), "updated "+path)
}

func TestConsole_PrintSignal(t *testing.T) {
	c, out := newConsole(t, "")

	c.printSignal(&domain.SOSSignal{
		Name:      "Distress Signal #2",
		Location:  domain.GeoPoint{Lat: 24.9, Lon: 67.05},
		Priority:  domain.PriorityHigh,
		Survivors: 3,
	})
	assert.Contains(t, out.String(), "🆘 *[1504 hrs] SOS:* Distress Signal #2 at 24.9000, 67.0500 - HIGH - 3 survivors")
}

func TestConsole_RenderHook(t *testing.T) {
	c, out := newConsole(t, "")
	c.render = strings.ToUpper

	c.handle(context.Background(), "/scan")
	assert.Contains(t, out.String(), "ARIA RESOURCE ANALYSIS")
}

func TestMarkdownRenderer(t *testing.T) {
	render := markdownRenderer()
	require.NotNil(t, render)
	assert.Contains(t, render("🎯 **Zone A** status"), "Zone A")
}
