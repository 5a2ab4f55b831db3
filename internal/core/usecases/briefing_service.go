package usecases

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/pkg/geospatial"
	"github.com/samirrijal/survivetrack/internal/pkg/metrics"
)

// Reply kinds.
const (
	KindOverview = "overview"
	KindZone     = "zone"
	KindResource = "resource_scan"
	KindGeneral  = "general"
	KindSOS      = "sos"
	KindAid      = "aid_scan"
)

// demoLocation is the fixed survivor position used by RequestAid.
var demoLocation = domain.GeoPoint{Lat: 24.87366765011169, Lon: 67.073671736837}

const distressSignalCount = 5

// Reply is the outcome of one UI action: chat text plus map markup.
type Reply struct {
	Kind    string             `json:"kind"`
	Prompt  string             `json:"prompt,omitempty"` // what the chat shows as the user turn
	Text    string             `json:"text,omitempty"`
	Markup  string             `json:"markup"`
	Zone    *domain.Zone       `json:"zone,omitempty"`
	Signals []domain.SOSSignal `json:"signals,omitempty"`
}

// BriefingOptions configures a BriefingService.
type BriefingOptions struct {
	Center     domain.GeoPoint // scan center for distress signals
	ScanRadius float64         // meters
	Rand       *rand.Rand      // nil seeds from the runtime
	Now        func() time.Time
}

// BriefingService wires zone lookup, ARIA and map rendering for each UI event.
type BriefingService struct {
	atlas     *domain.Atlas
	aria      *ARIAService
	maps      ports.MapRenderer
	publisher ports.EventPublisher
	center    domain.GeoPoint
	radius    float64
	now       func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewBriefingService creates a new BriefingService. publisher may be nil.
func NewBriefingService(atlas *domain.Atlas, aria *ARIAService, maps ports.MapRenderer, publisher ports.EventPublisher, opts BriefingOptions) *BriefingService {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ScanRadius <= 0 {
		opts.ScanRadius = 11132
	}
	return &BriefingService{
		atlas:     atlas,
		aria:      aria,
		maps:      maps,
		publisher: publisher,
		center:    opts.Center,
		radius:    opts.ScanRadius,
		now:       opts.Now,
		rng:       opts.Rand,
	}
}

// Overview returns the overview map with every zone.
func (s *BriefingService) Overview() Reply {
	return Reply{Kind: KindOverview, Markup: s.maps.RenderOverview(s.atlas.Ordered())}
}

// ZoneMap returns the detailed map for a zone key.
func (s *BriefingService) ZoneMap(key string) (string, bool) {
	z, ok := s.atlas.Get(key)
	if !ok {
		return "", false
	}
	return s.maps.RenderZone(z), true
}

// Message handles free text from the chat box.
func (s *BriefingService) Message(ctx context.Context, text string) Reply {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Overview()
	}

	if z, ok := s.atlas.Detect(text); ok {
		analysis := s.aria.Respond(ctx,
			fmt.Sprintf("User is asking about %s. Provide tactical intel and survival advice.", z.Key), &z)

		var b strings.Builder
		fmt.Fprintf(&b, "🎯 **%s**\n\n📦 **Resources Available:**\n", z.Name)
		for _, r := range z.Resources {
			fmt.Fprintf(&b, "   • %s\n", r)
		}
		fmt.Fprintf(&b, "\n🚨 **Current Status:** %s\n\n🤖 **ARIA Analysis:**\n%s\n\n📡 Zooming to location...", z.AlertText, analysis)

		return Reply{Kind: KindZone, Prompt: text, Text: b.String(), Markup: s.maps.RenderZone(z), Zone: &z}
	}

	if strings.Contains(strings.ToLower(text), "resource") {
		return s.resourceScan(ctx, text)
	}

	answer := s.aria.Respond(ctx, text, nil)
	return Reply{
		Kind:   KindGeneral,
		Prompt: text,
		Text:   "🤖 **ARIA Response:**\n\n" + answer,
		Markup: s.maps.RenderOverview(s.atlas.Ordered()),
	}
}

// QuickSelect handles a per-zone quick access button.
func (s *BriefingService) QuickSelect(ctx context.Context, key string) Reply {
	z, ok := s.atlas.Get(key)
	if !ok {
		return s.Overview()
	}

	brief := s.aria.Respond(ctx, fmt.Sprintf("Provide a quick tactical brief for %s access.", key), &z)
	text := fmt.Sprintf("⚡ **Quick Access: %s**\n\n📦 Resources: %s\n🚨 Status: %s\n\n🤖 **ARIA Brief:** %s\n\n🎯 Initiating tactical zoom...",
		z.Name, z.ResourceList(), z.AlertText, brief)

	return Reply{
		Kind:   KindZone,
		Prompt: fmt.Sprintf("[Quick Select %s]", key),
		Text:   text,
		Markup: s.maps.RenderZone(z),
		Zone:   &z,
	}
}

// ResourceScan reveals every resource location.
func (s *BriefingService) ResourceScan(ctx context.Context) Reply {
	return s.resourceScan(ctx, "resources")
}

func (s *BriefingService) resourceScan(ctx context.Context, prompt string) Reply {
	analysis := s.aria.Respond(ctx,
		"All resource locations are now visible across Karachi. Provide tactical analysis of resource distribution.", nil)

	var b strings.Builder
	b.WriteString("📦 **RESOURCE LOCATOR SCAN COMPLETE**\n\n")
	b.WriteString("🌍 **Scan Radius:** Full Karachi Zone\n")
	fmt.Fprintf(&b, "📍 **Zones Scanned:** %d Active\n", len(s.atlas.Keys()))
	b.WriteString("⏰ **Scan Time:** Live\n\n📦 **Resource Summary:**\n")
	for _, z := range s.atlas.Ordered() {
		fmt.Fprintf(&b, "   • %s: %s density - %s\n", z.Name, strings.ToUpper(string(z.ResourceDensity)), z.ResourceList())
	}
	fmt.Fprintf(&b, "\n🤖 **ARIA Resource Analysis:**\n%s", analysis)

	return Reply{
		Kind:   KindResource,
		Prompt: prompt,
		Text:   b.String(),
		Markup: s.maps.RenderOverview(s.atlas.Ordered()),
	}
}

// RequestAid broadcasts an SOS from the survivor's position.
func (s *BriefingService) RequestAid(ctx context.Context) Reply {
	now := s.now()
	loc := demoLocation
	signal := domain.SOSSignal{
		ID:        uuid.NewString(),
		Name:      "YOUR LOCATION",
		Location:  loc,
		Priority:  domain.PriorityCritical,
		Survivors: 1,
		Timestamp: now,
		Clock:     now.Format("15:04"),
	}
	s.publish(ctx, &signal)
	metrics.SOSSignals.WithLabelValues(string(signal.Priority)).Inc()

	assessment := s.aria.Respond(ctx, fmt.Sprintf(
		"A survivor is requesting emergency aid at coordinates %.4f, %.4f. Provide emergency response guidance and survival tips.",
		loc.Lat, loc.Lon), nil)

	text := fmt.Sprintf(`🚨 **SOS SIGNAL TRANSMITTED**

📍 **Your Location:** %.4f, %.4f
⏰ **Time:** %s
📡 **Signal Strength:** EXCELLENT
🆘 **Aid Request:** ACTIVE

💬 **Message:** 'Survivor in distress. Need immediate assistance.'
🎯 **Priority:** %s

🤖 **ARIA Emergency Protocol:**
%s

⚠️ **Warning:** Stay hidden. Help is on the way.`,
		loc.Lat, loc.Lon, now.Format("15:04:05"), signal.Priority, assessment)

	return Reply{
		Kind:    KindSOS,
		Prompt:  "[SOS REQUEST]",
		Text:    text,
		Markup:  s.maps.RenderPoint(loc.Lat, loc.Lon, signal.Name),
		Signals: []domain.SOSSignal{signal},
	}
}

// LocateAid scans for distress signals around the map center.
func (s *BriefingService) LocateAid(ctx context.Context) Reply {
	signals := s.DistressSignals(distressSignalCount)

	recommendation := s.aria.Respond(ctx, fmt.Sprintf(
		"Multiple SOS signals detected across Karachi. %d active distress calls with varying priority levels. Provide tactical recommendation for aid response prioritization.",
		len(signals)), nil)

	var b strings.Builder
	b.WriteString("🔍 **AID LOCATION SCAN COMPLETE**\n\n")
	fmt.Fprintf(&b, "📡 **Active SOS Signals:** %d\n", len(signals))
	fmt.Fprintf(&b, "🌍 **Scan Radius:** %.0fkm\n", s.radius/1000)
	fmt.Fprintf(&b, "⏰ **Scan Time:** %s\n\n🚨 **Priority Signals:**", s.now().Format("15:04:05"))
	for _, sig := range signals[:min(3, len(signals))] {
		fmt.Fprintf(&b, "\n   • %s - %s - %d survivors", sig.Name, sig.Priority, sig.Survivors)
	}
	fmt.Fprintf(&b, "\n\n🤖 **ARIA Tactical Recommendation:**\n%s", recommendation)

	return Reply{
		Kind:    KindAid,
		Prompt:  "[AID LOCATOR]",
		Text:    b.String(),
		Markup:  s.maps.RenderSignals(signals),
		Signals: signals,
	}
}

// DistressSignals generates n random signals inside the scan box, most urgent
// and then nearest first. Signals are never stored.
func (s *BriefingService) DistressSignals(n int) []domain.SOSSignal {
	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(s.center.Lat, s.center.Lon, s.radius)
	now := s.now()

	s.rngMu.Lock()
	signals := make([]domain.SOSSignal, 0, n)
	for i := 0; i < n; i++ {
		loc := domain.GeoPoint{
			Lat: minLat + s.rng.Float64()*(maxLat-minLat),
			Lon: minLon + s.rng.Float64()*(maxLon-minLon),
		}
		dist := geospatial.Haversine(s.center.Lat, s.center.Lon, loc.Lat, loc.Lon)
		signals = append(signals, domain.SOSSignal{
			ID:        uuid.NewString(),
			Name:      fmt.Sprintf("Distress Signal #%d", i+1),
			Location:  loc,
			Priority:  domain.Priorities[s.rng.IntN(len(domain.Priorities))],
			Survivors: 1 + s.rng.IntN(8),
			Timestamp: now,
			Clock:     fmt.Sprintf("%02d:%02d", s.rng.IntN(24), s.rng.IntN(60)),
			Distance:  &dist,
		})
	}
	s.rngMu.Unlock()

	slices.SortStableFunc(signals, func(a, b domain.SOSSignal) int {
		if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(*a.Distance, *b.Distance)
	})
	for _, sig := range signals {
		metrics.SOSSignals.WithLabelValues(string(sig.Priority)).Inc()
	}
	return signals
}

func (s *BriefingService) publish(ctx context.Context, signal *domain.SOSSignal) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSOS(ctx, signal); err != nil {
		slog.Warn("SOS broadcast failed", "signal", signal.ID, "error", err)
	}
}
