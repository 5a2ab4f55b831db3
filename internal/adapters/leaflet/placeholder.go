package leaflet

import (
	"fmt"
	"html"
	"strings"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/pkg/metrics"
)

// PlaceholderRenderer draws a static panel instead of a map. Used when the
// Leaflet assets are unavailable or rendering fails.
type PlaceholderRenderer struct{}

var _ ports.MapRenderer = (*PlaceholderRenderer)(nil)

// NewPlaceholderRenderer creates a PlaceholderRenderer.
func NewPlaceholderRenderer() *PlaceholderRenderer { return &PlaceholderRenderer{} }

// Name implements ports.MapRenderer.
func (p *PlaceholderRenderer) Name() string { return "placeholder" }

// RenderOverview implements ports.MapRenderer.
func (p *PlaceholderRenderer) RenderOverview(zones []domain.Zone) string {
	lines := make([]string, 0, len(zones))
	for _, z := range zones {
		lines = append(lines, z.Name+": "+z.ResourceList())
	}
	return p.panel("overview", "Overview map not available", lines...)
}

// RenderZone implements ports.MapRenderer.
func (p *PlaceholderRenderer) RenderZone(z domain.Zone) string {
	return p.panel("zone", fmt.Sprintf("%s map not available", z.Key), z.Name, z.ResourceList(), z.AlertText)
}

// RenderPoint implements ports.MapRenderer.
func (p *PlaceholderRenderer) RenderPoint(lat, lon float64, label string) string {
	return p.panel("sos", "SOS map not available", fmt.Sprintf("🆘 %s (%.4f, %.4f)", label, lat, lon))
}

// RenderSignals implements ports.MapRenderer.
func (p *PlaceholderRenderer) RenderSignals(signals []domain.SOSSignal) string {
	lines := make([]string, 0, len(signals))
	for _, s := range signals {
		lines = append(lines, fmt.Sprintf("🆘 %s - %s - %d survivors", s.Name, s.Priority, s.Survivors))
	}
	return p.panel("aid", "Aid map not available", lines...)
}

func (p *PlaceholderRenderer) panel(kind, message string, lines ...string) string {
	metrics.MapsRendered.WithLabelValues(kind, p.Name()).Inc()

	var b strings.Builder
	b.WriteString(`<div class="survivetrack-map-placeholder" style="width:100%;height:400px;background:linear-gradient(135deg,#2c1810 0%,#1a0f08 100%);border:2px solid #8B4513;border-radius:8px;display:flex;flex-direction:column;justify-content:center;align-items:center;color:#d4af37;font-family:'Share Tech Mono',monospace;text-align:center;">`)
	b.WriteString(`<div style="font-size:48px;margin-bottom:20px;">🗺️</div>`)
	b.WriteString(`<div style="font-size:18px;font-weight:bold;margin-bottom:10px;">📡 SURVIVETRACK MAP SYSTEM</div>`)
	fmt.Fprintf(&b, `<div style="font-size:14px;color:#cd853f;margin-bottom:20px;">%s</div>`, html.EscapeString(message))
	for _, l := range lines {
		fmt.Fprintf(&b, `<div style="font-size:12px;">%s</div>`, html.EscapeString(l))
	}
	b.WriteString(`<div style="font-size:12px;color:#8B4513;">🔧 Check system dependencies</div></div>`)
	return b.String()
}
