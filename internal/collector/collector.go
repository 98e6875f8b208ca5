// Package collector defines the outbound interface to the analytics
// backend and a WebSocket client transport for it. Batching, retry, and
// delivery guarantees are the backend's concern, not the shim's.
package collector

import (
	"log"

	"github.com/playsight/shim/internal/event"
)

// InitConfig carries the per-session configuration handed to the collector
// at session start.
type InitConfig struct {
	// Metadata holds static dimensions (player software name/version,
	// plugin version, viewer environment) attached to the whole session.
	Metadata map[string]string

	// PlayheadTime lets the collector poll the current playhead position
	// in milliseconds for its own buffering detection. ok=false means the
	// playhead is not available right now. May be nil.
	PlayheadTime func() (int64, bool)
}

// HLSRegistration carries the engine handle and library reference for the
// collector's built-in HLS instrumentation.
type HLSRegistration struct {
	Engine  any
	Library any
}

// Collector accepts canonical analytics events for one or more sessions.
// Implementations must tolerate Emit calls from the host's event-dispatch
// goroutine without blocking it.
type Collector interface {
	// Init opens the session. Called exactly once per session, before any
	// Emit for that session.
	Init(sessionID string, cfg InitConfig)

	// Emit forwards one canonical event.
	Emit(sessionID string, name event.Name, data event.Payload)

	// AttachHLS registers an HLS engine with the collector's built-in
	// instrumentation; DetachHLS removes a previous registration. The
	// shim calls DetachHLS before the engine handle is replaced.
	AttachHLS(sessionID string, reg HLSRegistration)
	DetachHLS(sessionID string)
}

// Logger is a Collector that writes events to the process log. Used in
// dry-run mode when no collector endpoint is configured.
type Logger struct{}

func (Logger) Init(sessionID string, cfg InitConfig) {
	log.Printf("[collector] init session=%s metadata=%v", sessionID, cfg.Metadata)
}

func (Logger) Emit(sessionID string, name event.Name, data event.Payload) {
	log.Printf("[collector] emit session=%s event=%s fields=%d", sessionID, name, len(data))
}

func (Logger) AttachHLS(sessionID string, reg HLSRegistration) {
	log.Printf("[collector] hls attach session=%s", sessionID)
}

func (Logger) DetachHLS(sessionID string) {
	log.Printf("[collector] hls detach session=%s", sessionID)
}
