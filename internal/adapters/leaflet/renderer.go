// Package leaflet renders zone, SOS and distress-scan maps as self-contained
// Leaflet markup.
package leaflet

import (
	"bytes"
	"html/template"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/pkg/metrics"
)

// Options configures the Leaflet renderer.
type Options struct {
	Center      domain.GeoPoint
	Zoom        int
	ZoneZoom    int
	PointZoom   int
	Tiles       string
	Attribution string
	LeafletJS   string
	LeafletCSS  string
	Cinematic   bool
	Now         func() time.Time
}

const mapTemplate = `<div class="survivetrack-map" style="position:relative;width:100%;height:500px;">
<link rel="stylesheet" href="{{.CSS}}">
<div class="st-map-caption">{{range .Caption}}<div>{{.}}</div>{{end}}</div>
<div id="{{.ID}}" style="width:100%;height:100%;"></div>
<script src="{{.JS}}"></script>
<script>
(function() {
  var scene = {{.Scene}};
  var map = L.map({{.ID}}).setView([scene.center.lat, scene.center.lon], scene.zoom);
  L.tileLayer({{.Tiles}}, {attribution: {{.Attribution}}, maxZoom: 19}).addTo(map);
  (scene.circles || []).forEach(function(c) {
    var opts = {color: c.color, fill: true, fillOpacity: c.fill_opacity, weight: 2};
    if (c.meters) {
      L.circle([c.lat, c.lon], Object.assign({radius: c.radius}, opts)).addTo(map);
    } else {
      L.circleMarker([c.lat, c.lon], Object.assign({radius: c.radius}, opts)).addTo(map);
    }
  });
  (scene.markers || []).forEach(function(m) {
    var opts = {};
    if (m.icon) {
      opts.icon = L.divIcon({html: m.icon, className: "st-" + m.kind, iconSize: null});
    }
    var mk = L.marker([m.lat, m.lon], opts).addTo(map);
    if (m.popup) { mk.bindPopup(m.popup); }
    if (m.tooltip) { mk.bindTooltip(m.tooltip); }
  });
  if (scene.fly_to) {
    setTimeout(function() {
      map.flyTo([scene.fly_to.lat, scene.fly_to.lon], scene.fly_to.zoom, {animate: true, duration: 2.5, easeLinearity: 0.1});
      var el = map.getContainer();
      setTimeout(function() {
        el.style.transform = "perspective(1000px) rotateX(15deg)";
        el.style.transformOrigin = "center bottom";
        el.style.transition = "transform 1s ease-out";
        el.style.filter = "contrast(1.1) saturate(1.2)";
        el.style.boxShadow = "inset 0 0 50px rgba(255,0,0,0.1)";
      }, 1000);
      setTimeout(function() { el.style.transform = "perspective(1000px) rotateX(5deg)"; }, 4000);
    }, 500);
  }
})();
</script>
<style>
.st-beacon{color:#fff;padding:8px 12px;font-weight:bold;border-radius:50%;text-align:center;animation:st-pulse 1.5s infinite;border:2px solid rgba(255,255,255,0.3);}
@keyframes st-pulse{0%,100%{transform:scale(1);opacity:1;}50%{transform:scale(1.2);opacity:0.8;}}
</style>
</div>`

type page struct {
	ID          string
	CSS         string
	JS          string
	Tiles       string
	Attribution string
	Caption     []string
	Scene       *scene
}

// Renderer draws maps with Leaflet.
type Renderer struct {
	opts     Options
	tmpl     *template.Template
	fallback *PlaceholderRenderer
}

var _ ports.MapRenderer = (*Renderer)(nil)

// NewRenderer returns the Leaflet renderer when the map assets are configured
// and the page template parses, otherwise the placeholder renderer.
func NewRenderer(opts Options) ports.MapRenderer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tiles == "" || opts.LeafletJS == "" || opts.LeafletCSS == "" {
		slog.Warn("map assets not configured, using placeholder maps")
		return NewPlaceholderRenderer()
	}
	tmpl, err := template.New("map").Parse(mapTemplate)
	if err != nil {
		slog.Error("map template failed to parse, using placeholder maps", "error", err)
		return NewPlaceholderRenderer()
	}
	return &Renderer{opts: opts, tmpl: tmpl, fallback: NewPlaceholderRenderer()}
}

// Name implements ports.MapRenderer.
func (r *Renderer) Name() string { return "leaflet" }

// RenderOverview implements ports.MapRenderer.
func (r *Renderer) RenderOverview(zones []domain.Zone) string {
	caption := make([]string, 0, len(zones))
	for _, z := range zones {
		caption = append(caption, z.Name+": "+z.ResourceList())
	}
	out, err := r.render(overviewScene(zones, r.opts.Center, r.opts.Zoom), caption)
	if err != nil {
		slog.Error("failed to render overview map", "error", err)
		return r.fallback.RenderOverview(zones)
	}
	metrics.MapsRendered.WithLabelValues("overview", r.Name()).Inc()
	return out
}

// RenderZone implements ports.MapRenderer.
func (r *Renderer) RenderZone(z domain.Zone) string {
	out, err := r.render(zoneScene(z, r.opts.ZoneZoom, r.opts.Cinematic), []string{z.Name, z.ResourceList(), z.AlertText})
	if err != nil {
		slog.Error("failed to render zone map", "zone", z.Key, "error", err)
		return r.fallback.RenderZone(z)
	}
	metrics.MapsRendered.WithLabelValues("zone", r.Name()).Inc()
	return out
}

// RenderPoint implements ports.MapRenderer.
func (r *Renderer) RenderPoint(lat, lon float64, label string) string {
	s := pointScene(lat, lon, label, r.opts.Now().Format("15:04:05"), r.opts.PointZoom)
	out, err := r.render(s, []string{"🆘 " + label})
	if err != nil {
		slog.Error("failed to render SOS map", "error", err)
		return r.fallback.RenderPoint(lat, lon, label)
	}
	metrics.MapsRendered.WithLabelValues("sos", r.Name()).Inc()
	return out
}

// RenderSignals implements ports.MapRenderer.
func (r *Renderer) RenderSignals(signals []domain.SOSSignal) string {
	out, err := r.render(signalsScene(signals, r.opts.Center, r.opts.Zoom), []string{"🔍 Active SOS signals"})
	if err != nil {
		slog.Error("failed to render aid map", "error", err)
		return r.fallback.RenderSignals(signals)
	}
	metrics.MapsRendered.WithLabelValues("aid", r.Name()).Inc()
	return out
}

func (r *Renderer) render(s *scene, caption []string) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, page{
		ID:          "map-" + uuid.NewString()[:8],
		CSS:         r.opts.LeafletCSS,
		JS:          r.opts.LeafletJS,
		Tiles:       r.opts.Tiles,
		Attribution: r.opts.Attribution,
		Caption:     caption,
		Scene:       s,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
