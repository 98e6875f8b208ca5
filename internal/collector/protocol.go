package collector

import "github.com/playsight/shim/internal/event"

type FrameType string

const (
	FrameInit      FrameType = "init"
	FrameEvent     FrameType = "event"
	FrameHeartbeat FrameType = "heartbeat"
	FrameHLSAttach FrameType = "hls_attach"
	FrameHLSDetach FrameType = "hls_detach"
)

// Frame is one message on the collector feed.
type Frame struct {
	Type      FrameType         `json:"type"`
	SessionID string            `json:"sessionId"`
	Event     event.Name        `json:"event,omitempty"`
	Data      event.Payload     `json:"data,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
