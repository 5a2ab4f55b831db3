package http

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/survivetrack/internal/adapters/valkey"
	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Atlas    *domain.Atlas
	Briefing *usecases.BriefingService
	ARIA     *usecases.ARIAService
	Maps     ports.MapRenderer
	NATS     *nats.Conn    // optional, enables the SOS relay
	Cache    *valkey.Cache // optional
	Version  string

	// RequestTimeout bounds handlers that call ARIA. Defaults to 35s.
	RequestTimeout time.Duration
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return 35 * time.Second
}
