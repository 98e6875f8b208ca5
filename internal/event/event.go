// Package event defines the canonical analytics vocabulary shared by all
// translators and the collector: the closed set of outbound event names and
// the wire names of their payload fields. It carries no behavior beyond
// payload bookkeeping.
package event

// Name identifies a canonical analytics event. The set is closed: the
// collector only understands the names declared below.
type Name string

// Playback and lifecycle events.
const (
	PlayerReady Name = "playerready"
	Play        Name = "play"
	Playing     Name = "playing"
	Pause       Name = "pause"
	Seeking     Name = "seeking"
	Seeked      Name = "seeked"
	TimeUpdate  Name = "timeupdate"
	Ended       Name = "ended"
	VideoChange Name = "videochange"
	Error       Name = "error"
	Destroy     Name = "destroy"
)

// Ad lifecycle events.
const (
	AdResponse      Name = "adresponse"
	AdBreakStart    Name = "adbreakstart"
	AdBreakEnd      Name = "adbreakend"
	AdPlay          Name = "adplay"
	AdPlaying       Name = "adplaying"
	AdPause         Name = "adpause"
	AdFirstQuartile Name = "adfirstquartile"
	AdMidpoint      Name = "admidpoint"
	AdThirdQuartile Name = "adthirdquartile"
	AdEnded         Name = "adended"
	AdSkipped       Name = "adskipped"
	AdError         Name = "aderror"
)

// Adaptive-engine events.
const (
	RenditionChange  Name = "renditionchange"
	RequestCompleted Name = "requestcompleted"
	RequestFailed    Name = "requestfailed"
)

// Payload field keys, matching the collector's wire names. Optional fields
// are simply absent from the payload when not derivable.
const (
	FieldPlayerIsPaused      = "player_is_paused"
	FieldPlayerWidth         = "player_width"
	FieldPlayerHeight        = "player_height"
	FieldPlayerIsFullscreen  = "player_is_fullscreen"
	FieldPlayerAutoplayOn    = "player_autoplay_on"
	FieldPlayerPreloadOn     = "player_preload_on"
	FieldPlayerPlayheadTime  = "player_playhead_time"
	FieldPlayerErrorCode     = "player_error_code"
	FieldPlayerErrorMessage  = "player_error_message"
	FieldViewerTime          = "viewer_time"
	FieldVideoSourceURL      = "video_source_url"
	FieldVideoSourceMimeType = "video_source_mime_type"
	FieldVideoSourceDuration = "video_source_duration"
	FieldVideoSourceWidth    = "video_source_width"
	FieldVideoSourceHeight   = "video_source_height"
	FieldVideoSourceBitrate  = "video_source_bitrate"
	FieldVideoPosterURL      = "video_poster_url"

	FieldAdTagURL   = "ad_tag_url"
	FieldAdAssetURL = "ad_asset_url"

	FieldRequestBytesLoaded     = "request_bytes_loaded"
	FieldRequestHostname        = "request_hostname"
	FieldRequestResponseHeaders = "request_response_headers"
	FieldRequestType            = "request_type"
	FieldRequestStart           = "request_start"
	FieldRequestResponseEnd     = "request_response_end"
	FieldRequestError           = "request_error"
	FieldRequestErrorCode       = "request_error_code"
	FieldRequestErrorText       = "request_error_text"
)

// Payload maps field keys to values (numbers, strings, or booleans).
// A missing key means the field could not be derived at emit time.
type Payload map[string]any

// Merge copies every field of other into p, overwriting existing keys.
// Event-specific fields therefore win over snapshot fields.
func (p Payload) Merge(other Payload) {
	for k, v := range other {
		p[k] = v
	}
}

// Clone returns a shallow copy of p. Values are never mutated after emit,
// so a shallow copy is sufficient for retaining payloads.
func (p Payload) Clone() Payload {
	c := make(Payload, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// IsErrorEvent reports whether n is an error-class event, whose payload must
// carry at least one of the error code/message fields.
func (n Name) IsErrorEvent() bool {
	return n == Error || n == AdError
}

// ValidErrorPayload reports whether p satisfies the error-event payload
// requirement: at least one of player_error_code or player_error_message
// is present.
func ValidErrorPayload(p Payload) bool {
	if _, ok := p[FieldPlayerErrorCode]; ok {
		return true
	}
	_, ok := p[FieldPlayerErrorMessage]
	return ok
}
