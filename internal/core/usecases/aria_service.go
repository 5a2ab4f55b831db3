package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/pkg/metrics"
	"github.com/samirrijal/survivetrack/internal/pkg/telemetry"
)

var errEmptyReply = errors.New("empty reply from live model")

// ARIASettings are the generation knobs reported by Status.
type ARIASettings struct {
	MaxTokens   int
	Temperature float64
	CacheTTL    int // seconds; 0 disables caching of live replies
}

// ARIAStatus describes the assistant for status panels.
type ARIAStatus struct {
	Online             bool    `json:"ai_online"`
	Model              string  `json:"model"`
	ConversationLength int     `json:"conversation_length"`
	MaxTokens          int     `json:"max_tokens"`
	Temperature        float64 `json:"temperature"`
	Status             string  `json:"status"`
}

// ARIAService answers survivor queries. It uses the live responder chosen at
// construction and falls back to canned text on any failure.
type ARIAService struct {
	live     ports.Responder
	offline  *OfflineResponder
	cache    ports.CacheService
	history  *domain.ConversationLog
	settings ARIASettings
}

// NewARIAService creates an ARIAService. A nil or offline live responder puts
// the service in offline mode; cache may be nil.
func NewARIAService(live ports.Responder, offline *OfflineResponder, cache ports.CacheService, settings ARIASettings) *ARIAService {
	if offline == nil {
		offline = NewOfflineResponder()
	}
	if live != nil && !live.Online() {
		live = nil
	}
	if live == nil {
		slog.Warn("ARIA running in offline mode")
	} else {
		slog.Info("ARIA online", "model", live.Model())
	}
	return &ARIAService{
		live:     live,
		offline:  offline,
		cache:    cache,
		history:  domain.NewConversationLog(domain.MaxConversationEntries),
		settings: settings,
	}
}

// Respond returns ARIA's reply to userText with optional zone context.
// It never fails and always records the exchange.
func (s *ARIAService) Respond(ctx context.Context, userText string, zone *domain.Zone) string {
	prompt := ports.Prompt{System: SystemPrompt, User: userText, Zone: zone}

	reply, source := s.respond(ctx, prompt)
	metrics.ARIAResponses.WithLabelValues(source).Inc()
	s.history.Record(userText, reply)

	slog.Debug("ARIA responded", "source", source, "query", truncate(userText, 50))
	return reply
}

func (s *ARIAService) respond(ctx context.Context, p ports.Prompt) (string, string) {
	if s.live == nil {
		reply, _ := s.offline.Respond(ctx, p)
		return reply, "offline"
	}

	key := cacheKey(s.live.Model(), p)
	if reply, ok := s.cached(ctx, key); ok {
		return reply, "cache"
	}

	reply, err := s.callLive(ctx, p)
	if err != nil {
		metrics.ARIALiveErrors.WithLabelValues(s.live.Model()).Inc()
		slog.Warn("ARIA live response failed, using offline protocol",
			"model", s.live.Model(), "error", err)
		reply, _ = s.offline.Respond(ctx, p)
		return reply, "offline"
	}

	s.store(ctx, key, reply)
	return reply, "live"
}

func (s *ARIAService) callLive(ctx context.Context, p ports.Prompt) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "aria.live")
	defer span.End()
	span.SetAttributes(
		attribute.String("aria.model", s.live.Model()),
		attribute.Bool("aria.zone_context", p.Zone != nil),
	)

	start := time.Now()
	reply, err := s.live.Respond(ctx, p)
	metrics.ARIALiveDuration.WithLabelValues(s.live.Model()).Observe(time.Since(start).Seconds())

	reply = strings.TrimSpace(reply)
	if err == nil && reply == "" {
		err = errEmptyReply
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return reply, nil
}

func (s *ARIAService) cached(ctx context.Context, key string) (string, bool) {
	if s.cache == nil || s.settings.CacheTTL <= 0 {
		return "", false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || len(data) == 0 {
		metrics.CacheMisses.WithLabelValues("aria").Inc()
		return "", false
	}
	metrics.CacheHits.WithLabelValues("aria").Inc()
	return string(data), true
}

func (s *ARIAService) store(ctx context.Context, key, reply string) {
	if s.cache == nil || s.settings.CacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, []byte(reply), s.settings.CacheTTL); err != nil {
		slog.Debug("ARIA cache write failed", "error", err)
	}
}

// Online reports whether a live model is configured.
func (s *ARIAService) Online() bool {
	return s.live != nil
}

// History returns the recent conversation, oldest first.
func (s *ARIAService) History() []domain.Entry {
	return s.history.Entries()
}

// Status reports the assistant state.
func (s *ARIAService) Status() ARIAStatus {
	st := ARIAStatus{
		Online:             s.Online(),
		Model:              "Offline",
		ConversationLength: s.history.Len(),
		MaxTokens:          s.settings.MaxTokens,
		Temperature:        s.settings.Temperature,
		Status:             "OFFLINE MODE",
	}
	if s.live != nil {
		st.Model = s.live.Model()
		st.Status = "OPERATIONAL"
	}
	return st
}

// cacheKey identifies a prompt for the live reply cache.
func cacheKey(model string, p ports.Prompt) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(UserMessage(p.User, p.Zone)))
	return "aria:reply:" + hex.EncodeToString(h.Sum(nil)[:16])
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
