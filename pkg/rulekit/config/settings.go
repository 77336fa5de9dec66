package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "RULEKIT_"

// Settings is the resolved configuration for the rulekit service and CLI.
type Settings struct {
	// Addr is the HTTP listen address.
	Addr string
	// ReadTimeout bounds reading a request, headers included.
	ReadTimeout time.Duration
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is text, logfmt or json.
	LogFormat string

	// MaxRules caps how many rules one combine request may contain.
	MaxRules int
	// MaxDepth caps the height of a tree accepted for evaluation.
	MaxDepth int

	// Metrics enables OpenTelemetry metrics and the /metrics endpoint.
	Metrics bool
	// Tracing enables OpenTelemetry spans.
	Tracing bool
	// OTLPEndpoint, when set, exports spans over OTLP/gRPC.
	OTLPEndpoint string
	// ServiceName identifies the service in telemetry.
	ServiceName string
}

// Accepted values for LogLevel and LogFormat.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "logfmt", "json"}
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
		MaxRules:        100,
		MaxDepth:        128,
		Metrics:         true,
		Tracing:         false,
		ServiceName:     "rulekit",
	}
}

// SettingsFrom reads settings from a config document laid out as
//
//	server:    {addr, read_timeout, shutdown_timeout}
//	log:       {level, format}
//	engine:    {max_rules, max_depth}
//	telemetry: {metrics, tracing, otlp_endpoint, service_name}
//
// Missing keys keep their default.
func SettingsFrom(cfg Config) Settings {
	s := DefaultSettings()

	server := cfg.Section("server")
	s.Addr = server.String("addr", s.Addr)
	s.ReadTimeout = server.Duration("read_timeout", s.ReadTimeout)
	s.ShutdownTimeout = server.Duration("shutdown_timeout", s.ShutdownTimeout)

	log := cfg.Section("log")
	s.LogLevel = log.String("level", s.LogLevel)
	s.LogFormat = log.String("format", s.LogFormat)

	engine := cfg.Section("engine")
	s.MaxRules = engine.Int("max_rules", s.MaxRules)
	s.MaxDepth = engine.Int("max_depth", s.MaxDepth)

	telemetry := cfg.Section("telemetry")
	s.Metrics = telemetry.Bool("metrics", s.Metrics)
	s.Tracing = telemetry.Bool("tracing", s.Tracing)
	s.OTLPEndpoint = telemetry.String("otlp_endpoint", s.OTLPEndpoint)
	s.ServiceName = telemetry.String("service_name", s.ServiceName)

	return s
}

// ApplyEnv overrides settings from RULEKIT_* variables found by lookup,
// typically os.LookupEnv. Unparseable values are ignored.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) {
	env := make(map[string]any)
	for _, name := range []string{
		"ADDR", "READ_TIMEOUT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
		"MAX_RULES", "MAX_DEPTH", "METRICS", "TRACING", "OTLP_ENDPOINT", "SERVICE_NAME",
	} {
		if v, ok := lookup(EnvPrefix + name); ok {
			env[name] = v
		}
	}
	cfg := New(env)

	s.Addr = cfg.String("ADDR", s.Addr)
	s.ReadTimeout = cfg.Duration("READ_TIMEOUT", s.ReadTimeout)
	s.ShutdownTimeout = cfg.Duration("SHUTDOWN_TIMEOUT", s.ShutdownTimeout)
	s.LogLevel = cfg.String("LOG_LEVEL", s.LogLevel)
	s.LogFormat = cfg.String("LOG_FORMAT", s.LogFormat)
	s.MaxRules = cfg.Int("MAX_RULES", s.MaxRules)
	s.MaxDepth = cfg.Int("MAX_DEPTH", s.MaxDepth)
	s.Metrics = cfg.Bool("METRICS", s.Metrics)
	s.Tracing = cfg.Bool("TRACING", s.Tracing)
	s.OTLPEndpoint = cfg.String("OTLP_ENDPOINT", s.OTLPEndpoint)
	s.ServiceName = cfg.String("SERVICE_NAME", s.ServiceName)
}

// Validate reports every invalid field at once.
func (s Settings) Validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if s.MaxRules <= 0 {
		errs = append(errs, fmt.Errorf("max_rules must be positive, got %d", s.MaxRules))
	}
	if s.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", s.MaxDepth))
	}
	if !slices.Contains(LogLevels, strings.ToLower(s.LogLevel)) {
		errs = append(errs, fmt.Errorf("log level %q must be one of %v", s.LogLevel, LogLevels))
	}
	if !slices.Contains(LogFormats, strings.ToLower(s.LogFormat)) {
		errs = append(errs, fmt.Errorf("log format %q must be one of %v", s.LogFormat, LogFormats))
	}
	if s.ShutdownTimeout < 0 || s.ReadTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}
