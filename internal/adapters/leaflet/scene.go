package leaflet

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/pkg/geospatial"
)

// Marker kinds, used for counting in tests and in the client script.
const (
	kindZone     = "zone"
	kindResource = "resource"
	kindInfected = "infected"
	kindDanger   = "danger"
	kindBeacon   = "beacon"
)

const (
	sosRadiusMeters = 1000.0
	sosPerimeter    = 12
)

// scene is everything the client script draws. It is serialized to JSON into
// the page.
type scene struct {
	Center  domain.GeoPoint `json:"center"`
	Zoom    int             `json:"zoom"`
	Markers []marker        `json:"markers"`
	Circles []circle        `json:"circles"`
	FlyTo   *flyTo          `json:"fly_to,omitempty"`
}

type marker struct {
	Kind    string  `json:"kind"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Icon    string  `json:"icon,omitempty"` // div icon html; empty means a default pin
	Popup   string  `json:"popup,omitempty"`
	Tooltip string  `json:"tooltip,omitempty"`
}

type circle struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Radius      float64 `json:"radius"`
	Meters      bool    `json:"meters"` // false: radius is in pixels
	Color       string  `json:"color"`
	FillOpacity float64 `json:"fill_opacity"`
}

type flyTo struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

func (s *scene) count(kind string) int {
	n := 0
	for _, m := range s.Markers {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// offset is a marker position relative to a zone center in degrees, plus the
// index of the zone resource whose glyph it shows.
type offset struct {
	dLat, dLon float64
	resource   int
}

var overviewResources = map[domain.Level][]offset{
	domain.LevelLow: {
		{0.0008, -0.0008, 0}, {-0.0008, 0.0008, 1}, {0.0006, 0.0006, 2}, {-0.0006, -0.0006, 0},
	},
	domain.LevelMedium: {
		{0.0008, -0.0008, 0}, {-0.0008, 0.0008, 1},
	},
	domain.LevelHigh: {
		{0.0008, -0.0008, 0}, {-0.0008, 0.0008, 1},
	},
}

var overviewInfected = []offset{
	{dLat: 0.002, dLon: -0.002}, {dLat: -0.002, dLon: 0.002}, {dLat: 0.001, dLon: 0.001}, {dLat: -0.001, dLon: -0.001},
}

var detailedResources = map[domain.Level][]offset{
	domain.LevelLow: {
		{0.001, -0.001, 0}, {-0.002, 0.003, 0}, {0.003, 0.002, 0},
		{0.002, -0.003, 1}, {-0.003, -0.001, 1},
		{0.002, 0.002, 2}, {-0.002, -0.002, 2},
	},
	domain.LevelMedium: {
		{0.002, -0.002, 0}, {-0.003, 0.002, 0},
		{0.001, 0.003, 1}, {-0.002, -0.003, 1},
	},
	domain.LevelHigh: {
		{0.001, -0.002, 0}, {-0.002, 0.001, 0},
		{0.003, 0.002, 1},
	},
}

var detailedInfected = map[domain.Level][]offset{
	domain.LevelLow: nil,
	domain.LevelMedium: {
		{dLat: 0.003, dLon: -0.003}, {dLat: -0.003, dLon: 0.003}, {dLat: 0.005, dLon: 0.002}, {dLat: -0.002, dLon: -0.005},
	},
	domain.LevelHigh: {
		{dLat: 0.003, dLon: -0.003}, {dLat: -0.003, dLon: 0.003}, {dLat: 0.005, dLon: 0.002}, {dLat: -0.002, dLon: -0.005},
		{dLat: 0.001, dLon: 0.006}, {dLat: -0.006, dLon: -0.001}, {dLat: 0.004, dLon: -0.001}, {dLat: -0.001, dLon: 0.004},
	},
}

var dangerIndicators = []offset{{dLat: 0.005, dLon: 0.005}, {dLat: -0.005, dLon: -0.005}}

var dangerColors = map[domain.Level]string{
	domain.LevelLow:    "green",
	domain.LevelMedium: "orange",
	domain.LevelHigh:   "red",
}

var priorityColors = map[domain.Priority]string{
	domain.PriorityCritical: "#FF0000",
	domain.PriorityHigh:     "#FF6600",
	domain.PriorityMedium:   "#FFAA00",
}

var priorityRadius = map[domain.Priority]float64{
	domain.PriorityCritical: 800,
	domain.PriorityHigh:     600,
	domain.PriorityMedium:   400,
}

var priorityInfected = map[domain.Priority]int{
	domain.PriorityCritical: 8,
	domain.PriorityHigh:     5,
}

func dangerColor(l domain.Level) string {
	if c, ok := dangerColors[l]; ok {
		return c
	}
	return "red"
}

// glyph returns the leading emoji of the i-th resource, cycling through the
// list. "💧 Water" yields "💧".
func glyph(z domain.Zone, i int) string {
	if len(z.Resources) == 0 {
		return "📦"
	}
	f := strings.Fields(z.Resources[i%len(z.Resources)])
	if len(f) == 0 {
		return "📦"
	}
	return f[0]
}

func zonePopup(z domain.Zone) string {
	return fmt.Sprintf("<b>%s</b><br>%s<br>Resources: %s", z.Name, z.AlertText, z.ResourceList())
}

func divIcon(size int, glyph, extra string) string {
	return fmt.Sprintf(`<div style="font-size:%dpx;text-shadow:1px 1px 2px black;%s">%s</div>`, size, extra, glyph)
}

func zoneMarkers(s *scene, z domain.Zone, detailed bool) {
	c := z.Coordinates
	color := dangerColor(z.Danger)
	s.Markers = append(s.Markers, marker{
		Kind: kindZone, Lat: c.Lat, Lon: c.Lon,
		Popup: zonePopup(z), Tooltip: z.Name,
	})
	s.Circles = append(s.Circles, circle{Lat: c.Lat, Lon: c.Lon, Radius: 40, Color: color, FillOpacity: 0.3})

	resources, infected := overviewResources[z.Danger], overviewInfected
	size, style := 12, "opacity:0.8;"
	if detailed {
		resources, infected = detailedResources[z.Danger], detailedInfected[z.Danger]
		size, style = 16, "background:rgba(0,0,0,0.7);border-radius:50%;padding:4px;border:1px solid #daa520;"
	} else if z.Danger != domain.LevelHigh {
		infected = nil
	}

	for _, o := range resources {
		p := c.Offset(o.dLat, o.dLon)
		g := glyph(z, o.resource)
		s.Markers = append(s.Markers, marker{
			Kind: kindResource, Lat: p.Lat, Lon: p.Lon,
			Icon:    divIcon(size, g, style),
			Popup:   fmt.Sprintf("<b>📦 Resource</b><br>Zone: %s<br>Type: %s", z.Name, g),
			Tooltip: g + " Resource",
		})
	}
	for _, o := range infected {
		p := c.Offset(o.dLat, o.dLon)
		s.Markers = append(s.Markers, marker{
			Kind: kindInfected, Lat: p.Lat, Lon: p.Lon,
			Icon:    divIcon(size+4, "🧟", ""),
			Popup:   "Zombie threat in " + z.Name,
			Tooltip: "🧟 Infected",
		})
	}
}

func overviewScene(zones []domain.Zone, center domain.GeoPoint, zoom int) *scene {
	s := &scene{Center: center, Zoom: zoom}
	for _, z := range zones {
		zoneMarkers(s, z, false)
	}
	return s
}

func zoneScene(z domain.Zone, zoom int, cinematic bool) *scene {
	s := &scene{Center: z.Coordinates, Zoom: zoom}
	zoneMarkers(s, z, true)
	for _, o := range dangerIndicators {
		p := z.Coordinates.Offset(o.dLat, o.dLon)
		s.Markers = append(s.Markers, marker{
			Kind: kindDanger, Lat: p.Lat, Lon: p.Lon,
			Icon:    divIcon(24, "❗", "color:red;"),
			Popup:   "Danger Zone Warning",
			Tooltip: "⚠️ Danger",
		})
	}
	if cinematic {
		s.FlyTo = &flyTo{Lat: z.Coordinates.Lat, Lon: z.Coordinates.Lon, Zoom: 18}
	}
	return s
}

// pointScene draws an SOS beacon ringed by infected at fixed 30 degree steps
// on the emergency radius.
func pointScene(lat, lon float64, label, clock string, zoom int) *scene {
	label = html.EscapeString(label)
	s := &scene{Center: domain.GeoPoint{Lat: lat, Lon: lon}, Zoom: zoom}
	s.Markers = append(s.Markers, marker{
		Kind: kindBeacon, Lat: lat, Lon: lon,
		Icon:  beaconIcon("#ff0000", "🆘 SOS", label, 12),
		Popup: fmt.Sprintf("<b>🚨 SOS SIGNAL</b><br><b>%s</b><br>Time: %s<br>Priority: CRITICAL", label, clock),
	})
	s.Circles = append(s.Circles, circle{Lat: lat, Lon: lon, Radius: sosRadiusMeters, Meters: true, Color: "#FF0000", FillOpacity: 0.1})

	for i := 0; i < sosPerimeter; i++ {
		pLat, pLon := geospatial.Project(lat, lon, sosRadiusMeters, float64(i)*360/sosPerimeter)
		s.Markers = append(s.Markers, marker{
			Kind: kindInfected, Lat: pLat, Lon: pLon,
			Icon:  divIcon(18, "🧟", "color:#FF0000;"),
			Popup: fmt.Sprintf("Zombie threat - %.0fm from SOS signal", sosRadiusMeters),
		})
	}
	return s
}

// signalsScene draws one beacon per distress signal. Infected are spread on
// three rings around HIGH and CRITICAL signals.
func signalsScene(signals []domain.SOSSignal, center domain.GeoPoint, zoom int) *scene {
	s := &scene{Center: center, Zoom: zoom}
	for _, sig := range signals {
		color, ok := priorityColors[sig.Priority]
		if !ok {
			color = "#FF0000"
		}
		radius, ok := priorityRadius[sig.Priority]
		if !ok {
			radius = 500
		}
		lat, lon := sig.Location.Lat, sig.Location.Lon

		s.Markers = append(s.Markers, marker{
			Kind: kindBeacon, Lat: lat, Lon: lon,
			Icon: beaconIcon(color, "🆘", string(sig.Priority), 10),
			Popup: fmt.Sprintf("<b>🚨 %s</b><br>Priority: %s<br>Survivors: %d<br>Time: %s",
				sig.Name, sig.Priority, sig.Survivors, sig.Clock),
		})
		s.Circles = append(s.Circles, circle{Lat: lat, Lon: lon, Radius: radius, Meters: true, Color: color, FillOpacity: 0.2})

		n := priorityInfected[sig.Priority]
		for i := 0; i < n; i++ {
			dist := 0.001 * float64(1+i%3)
			p := sig.Location.Offset(dist*cosDeg(float64(i)*360/float64(n)), dist*sinDeg(float64(i)*360/float64(n)))
			s.Markers = append(s.Markers, marker{
				Kind: kindInfected, Lat: p.Lat, Lon: p.Lon,
				Icon:  divIcon(16, "🧟", "color:"+color+";"),
				Popup: fmt.Sprintf("Zombie near %s (%s priority)", sig.Name, sig.Priority),
			})
		}
	}
	return s
}

func beaconIcon(color, head, label string, size int) string {
	return fmt.Sprintf(`<div class="st-beacon" style="background:radial-gradient(circle,%[1]s 0%%,%[1]s80 50%%,%[1]s60 100%%);font-size:%[4]dpx;box-shadow:0 0 20px %[1]s;">%[2]s<br><span style="font-size:%[5]dpx;">%[3]s</span></div>`,
		color, head, label, size, size-2)
}

func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }
func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
