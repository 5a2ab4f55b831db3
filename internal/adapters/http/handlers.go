package http

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

const maxMessageLength = 2000

// chatRequest is the body of POST /v1/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// zoneFromParam resolves the :key route parameter. Besides the exact key
// ("Zone A", URL encoded) it accepts compact forms such as "zone-a" or "zonea".
func zoneFromParam(c *fiber.Ctx, atlas *domain.Atlas) (domain.Zone, bool) {
	raw := c.Params("key")
	if key, err := url.PathUnescape(raw); err == nil {
		raw = key
	}
	if z, ok := atlas.Get(raw); ok {
		return z, true
	}
	want := compactKey(raw)
	for _, k := range atlas.Keys() {
		if compactKey(k) == want {
			return atlas.Get(k)
		}
	}
	return domain.Zone{}, false
}

func compactKey(s string) string {
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(s))
}

func sendMarkup(c *fiber.Ctx, markup string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(markup)
}

// ListZonesHandler returns every zone in precedence order.
func ListZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones := deps.Atlas.Ordered()
		return c.JSON(fiber.Map{"data": zones, "count": len(zones)})
	}
}

// GetZoneHandler returns a single zone.
func GetZoneHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		z, ok := zoneFromParam(c, deps.Atlas)
		if !ok {
			return errNotFound(c, "zone not found")
		}
		return c.JSON(z)
	}
}

// ZoneMapHandler returns the detailed map markup for a zone.
func ZoneMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		z, ok := zoneFromParam(c, deps.Atlas)
		if !ok {
			return errNotFound(c, "zone not found")
		}
		return sendMarkup(c, deps.Maps.RenderZone(z))
	}
}

// OverviewMapHandler returns the overview map markup.
func OverviewMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return sendMarkup(c, deps.Briefing.Overview().Markup)
	}
}

// ResourceMarkersHandler returns the resource marker table.
func ResourceMarkersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Atlas.ResourceMarkers())
	}
}

// ChatHandler answers a free-text message from the chat box.
func ChatHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req chatRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if utf8.RuneCountInString(req.Message) > maxMessageLength {
			return errBadRequest(c, "message too long (max 2000 characters)")
		}
		return c.JSON(deps.Briefing.Message(c.UserContext(), req.Message))
	}
}

// ZoneBriefHandler runs the quick-access brief for a zone.
func ZoneBriefHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		z, ok := zoneFromParam(c, deps.Atlas)
		if !ok {
			return errNotFound(c, "zone not found")
		}
		return c.JSON(deps.Briefing.QuickSelect(c.UserContext(), z.Key))
	}
}

// ResourceScanHandler reveals all resource locations.
func ResourceScanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Briefing.ResourceScan(c.UserContext()))
	}
}

// SOSHandler broadcasts an SOS from the survivor's position.
func SOSHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reply := deps.Briefing.RequestAid(c.UserContext())
		return c.Status(fiber.StatusCreated).JSON(reply)
	}
}

// AidHandler scans for nearby distress signals.
func AidHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(deps.Briefing.LocateAid(c.UserContext()))
	}
}

// ARIAStatusHandler reports whether ARIA is live and its settings.
func ARIAStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.ARIA.Status())
	}
}

// ARIAHistoryHandler returns the recent conversation, oldest first.
func ARIAHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries := deps.ARIA.History()
		offset, limit := parsePagination(c, domain.MaxConversationEntries, domain.MaxConversationEntries)

		pg := Pagination{Offset: offset, Limit: limit, Total: len(entries)}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page(entries, offset, limit), Pagination: pg})
	}
}
