package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	ARIA      ARIAConfig      `mapstructure:"aria"`
	Map       MapConfig       `mapstructure:"map"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int  `mapstructure:"port"`
	Share        bool `mapstructure:"share"`
	ReadTimeout  int  `mapstructure:"read_timeout"`
	WriteTimeout int  `mapstructure:"write_timeout"`
}

// Host is the bind address: all interfaces when sharing, loopback otherwise.
func (s ServerConfig) Host() string {
	if s.Share {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}

// Addr is host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host(), s.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Text-generation providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOffline   = "offline"
)

type ARIAConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	GeminiAPIKey string  `mapstructure:"gemini_api_key"`
	Model        string  `mapstructure:"model"`
	MaxTokens    int     `mapstructure:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature"`
	Timeout      int     `mapstructure:"timeout"` // seconds
	BaseURL      string  `mapstructure:"base_url"`
	CacheTTL     int     `mapstructure:"cache_ttl"` // seconds, 0 disables
}

// Enabled reports whether a live provider has credentials.
func (a ARIAConfig) Enabled() bool {
	switch a.Provider {
	case ProviderAnthropic:
		return a.APIKey != ""
	case ProviderGemini:
		return a.GeminiAPIKey != ""
	}
	return false
}

type MapConfig struct {
	CenterLat   float64 `mapstructure:"center_lat"`
	CenterLon   float64 `mapstructure:"center_lon"`
	Zoom        int     `mapstructure:"zoom"`
	ZoneZoom    int     `mapstructure:"zone_zoom"`
	PointZoom   int     `mapstructure:"point_zoom"`
	Tiles       string  `mapstructure:"tiles"`
	Attribution string  `mapstructure:"attribution"`
	LeafletJS   string  `mapstructure:"leaflet_js"`
	LeafletCSS  string  `mapstructure:"leaflet_css"`
	Cinematic   bool    `mapstructure:"cinematic"`
	ScanRadius  float64 `mapstructure:"scan_radius"` // meters
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr    string `mapstructure:"addr"`
	Enabled bool   `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string  `mapstructure:"service_name"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Enabled     bool    `mapstructure:"enabled"`
}

// legacyEnv maps config keys to the plain variable names used by older
// deployments. They are accepted alongside the SURVIVETRACK_ prefixed ones.
var legacyEnv = map[string]string{
	"aria.api_key":        "ANTHROPIC_API_KEY",
	"aria.gemini_api_key": "GEMINI_API_KEY",
	"aria.model":          "AI_MODEL",
	"aria.max_tokens":     "AI_MAX_TOKENS",
	"aria.temperature":    "AI_TEMPERATURE",
	"server.port":         "SERVER_PORT",
	"server.share":        "SHARE_GRADIO",
	"log.level":           "LOG_LEVEL",
	"map.zoom":            "DEFAULT_ZOOM",
}

// Load reads configuration from .env, config file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 7860)
	v.SetDefault("server.share", false)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("aria.provider", ProviderAnthropic)
	v.SetDefault("aria.api_key", "")
	v.SetDefault("aria.gemini_api_key", "")
	v.SetDefault("aria.model", "claude-3-haiku-20240307")
	v.SetDefault("aria.max_tokens", 250)
	v.SetDefault("aria.temperature", 0.7)
	v.SetDefault("aria.timeout", 30)
	v.SetDefault("aria.base_url", "https://api.anthropic.com/v1")
	v.SetDefault("aria.cache_ttl", 600)
	v.SetDefault("map.center_lat", 24.8607)
	v.SetDefault("map.center_lon", 67.0011)
	v.SetDefault("map.zoom", 11)
	v.SetDefault("map.zone_zoom", 16)
	v.SetDefault("map.point_zoom", 15)
	v.SetDefault("map.tiles", "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors &copy; CARTO")
	v.SetDefault("map.leaflet_js", "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js")
	v.SetDefault("map.leaflet_css", "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css")
	v.SetDefault("map.cinematic", true)
	v.SetDefault("map.scan_radius", 11132.0)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.exporter", "otlp")
	v.SetDefault("telemetry.endpoint", "tempo:4317")
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SURVIVETRACK_ARIA_MODEL → aria.model
	v.SetEnvPrefix("SURVIVETRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := "SURVIVETRACK_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", legacy, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ARIA.Provider = strings.ToLower(strings.TrimSpace(cfg.ARIA.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	switch c.ARIA.Provider {
	case ProviderAnthropic, ProviderGemini, ProviderOffline:
	default:
		errs = append(errs, fmt.Sprintf("aria.provider must be anthropic, gemini or offline, got %q", c.ARIA.Provider))
	}
	if c.ARIA.MaxTokens <= 0 {
		errs = append(errs, "aria.max_tokens must be positive")
	}
	if c.ARIA.Temperature < 0 || c.ARIA.Temperature > 1 {
		errs = append(errs, fmt.Sprintf("aria.temperature must be 0-1, got %.2f", c.ARIA.Temperature))
	}
	if c.ARIA.Timeout <= 0 {
		errs = append(errs, "aria.timeout must be positive")
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 20 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 1-20, got %d", c.Map.Zoom))
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		errs = append(errs, "map center is out of range")
	}
	if c.Map.ScanRadius <= 0 {
		errs = append(errs, "map.scan_radius must be positive")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	if !c.ARIA.Enabled() {
		slog.Warn("no text-generation API key configured, ARIA will run in offline mode",
			"provider", c.ARIA.Provider)
	}
	return nil
}
