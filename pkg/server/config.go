package server

import (
	"log/slog"
	"time"

	"github.com/swipekit-dev/swipekit/pkg/swipe"
)

// SessionConfig holds per-session tuning.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a client message.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// IdleTimeout closes sessions with no client activity.
	// Default: 5 minutes.
	IdleTimeout time.Duration

	// HeartbeatInterval is the time between pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum incoming WebSocket message size.
	// Default: 4KB; pointer events are a few dozen bytes.
	MaxMessageSize int64

	// EventQueueSize is the buffered capacity of the event channel.
	// Events beyond it are dropped with a rate-limit error.
	// Default: 256.
	EventQueueSize int
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       5 * time.Minute,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    4 * 1024,
		EventQueueSize:    256,
	}
}

// Config holds server-wide configuration.
type Config struct {
	// Addr is the listen address. Default: ":8080".
	Addr string

	// Session is the per-session configuration.
	// Default: DefaultSessionConfig().
	Session *SessionConfig

	// MaxSessions caps concurrent sessions; 0 means unlimited.
	MaxSessions int

	// Gate optionally gates whether interactions may begin at all.
	Gate swipe.BeginPolicy

	// SetupSession populates a new session with its rows. Required for
	// the WebSocket endpoint to do anything useful.
	SetupSession func(s *Session)

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger

	// Metrics exposes the Prometheus handler at /metrics when true.
	Metrics bool
}

// withDefaults fills unset fields.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.Addr == "" {
		out.Addr = ":8080"
	}
	if out.Session == nil {
		out.Session = DefaultSessionConfig()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
