package player

import "time"

// Kind classifies the engine backing the current source.
type Kind int

const (
	KindProgressive Kind = iota // plain media element, nothing to observe
	KindDash
	KindHLS
)

var kindNames = map[Kind]string{
	KindProgressive: "progressive",
	KindDash:        "dash",
	KindHLS:         "hls",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Engine is the adaptive engine variant returned by Player.AdaptiveEngine.
// Exactly one of Dash/HLS is non-nil, matching Kind; both are nil for a
// progressive source.
type Engine struct {
	Kind Kind
	Dash DashEngine
	HLS  HLSStream
}

// VariantTrack describes one variant/rendition track of a DASH engine.
type VariantTrack struct {
	Active    bool
	Bandwidth int64 // bits per second
}

// EngineStats exposes the engine's aggregate playback statistics.
type EngineStats struct {
	Width  int
	Height int
}

// DashEngine is the observer surface of a DASH-capable engine. Handles
// returned by the host are replaced wholesale on source change; observers
// attached to a stale handle silently stop firing.
type DashEngine interface {
	VariantTracks() []VariantTrack
	Stats() EngineStats

	// OnAdaptation fires when the engine makes an automatic adaptation
	// decision; OnVariantChanged fires when the active variant switches
	// for any reason. Both can signal the same underlying change.
	OnAdaptation(func()) Unsubscribe
	OnVariantChanged(func()) Unsubscribe

	// OnResponse fires for every completed network fetch, including
	// cache hits (the handler filters those).
	OnResponse(func(NetworkResponse)) Unsubscribe
	// OnError fires for engine-level faults of any severity.
	OnError(func(EngineError)) Unsubscribe
}

// HLSStream carries the handle and library reference the collector's
// built-in HLS instrumentation needs. The shim never inspects either.
type HLSStream interface {
	Handle() any
	Library() any
}

// RequestType classifies a network fetch by what it retrieved. Values
// mirror the engine's own request-type enumeration; adapters translate.
type RequestType int

const (
	RequestTypeManifest RequestType = iota
	RequestTypeSegment
	RequestTypeLicense
	RequestTypeApp
	RequestTypeTiming
	RequestTypeUnknown
)

var requestTypeNames = map[RequestType]string{
	RequestTypeManifest: "manifest",
	RequestTypeSegment:  "segment",
	RequestTypeLicense:  "license",
	RequestTypeApp:      "app",
	RequestTypeTiming:   "timing",
}

func (t RequestType) String() string {
	if s, ok := requestTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// NetworkResponse describes one completed engine fetch.
type NetworkResponse struct {
	URI         string
	BytesLoaded int64
	Headers     map[string]string
	Type        RequestType
	FromCache   bool
	// Duration is the reported fetch time; zero means the engine did not
	// report one, in which case the request start cannot be derived.
	Duration time.Duration
	// ReceivedAt is the response-end timestamp.
	ReceivedAt time.Time
}

// ErrorSeverity mirrors the engine's severity enumeration.
type ErrorSeverity int

const (
	SeverityRecoverable ErrorSeverity = 1
	SeverityCritical    ErrorSeverity = 2
)

// ErrorCategory mirrors the engine's error category enumeration.
type ErrorCategory int

const (
	CategoryNetwork   ErrorCategory = 1
	CategoryText      ErrorCategory = 2
	CategoryMedia     ErrorCategory = 3
	CategoryManifest  ErrorCategory = 4
	CategoryStreaming ErrorCategory = 5
	CategoryDRM       ErrorCategory = 6
	CategoryPlayer    ErrorCategory = 7
	CategoryCast      ErrorCategory = 8
	CategoryStorage   ErrorCategory = 9
)

var categoryNames = map[ErrorCategory]string{
	CategoryNetwork:   "NETWORK",
	CategoryText:      "TEXT",
	CategoryMedia:     "MEDIA",
	CategoryManifest:  "MANIFEST",
	CategoryStreaming: "STREAMING",
	CategoryDRM:       "DRM",
	CategoryPlayer:    "PLAYER",
	CategoryCast:      "CAST",
	CategoryStorage:   "STORAGE",
}

func (c ErrorCategory) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// CodeVideoError is the engine code for a generic media element failure.
// The host reports the same fault through its own error event, so the
// engine-side occurrence is suppressed to avoid duplicates.
const CodeVideoError = 3016

// Error codes the shim can classify back into their enumeration names.
// The set covers the network and media codes seen in practice; unlisted
// codes fall back to the category label.
var errorCodeNames = map[int]string{
	1001: "BAD_HTTP_STATUS",
	1002: "HTTP_ERROR",
	1003: "TIMEOUT",
	1004: "MALFORMED_DATA_URI",
	1006: "REQUEST_FILTER_ERROR",
	1007: "RESPONSE_FILTER_ERROR",
	1008: "MALFORMED_TEST_URI",
	1009: "UNEXPECTED_TEST_REQUEST",
	3014: "MEDIA_SOURCE_OPERATION_FAILED",
	3015: "MEDIA_SOURCE_OPERATION_THREW",
	3016: "VIDEO_ERROR",
	4012: "UNABLE_TO_GUESS_MANIFEST_TYPE",
	6001: "NO_LICENSE_SERVER_GIVEN",
	6007: "LICENSE_REQUEST_FAILED",
}

// ErrorCodeName returns the enumeration name for a classified engine error
// code. ok=false means the code is not in the classified set.
func ErrorCodeName(code int) (string, bool) {
	s, ok := errorCodeNames[code]
	return s, ok
}

// EngineError describes one engine-level fault.
type EngineError struct {
	Severity ErrorSeverity
	Category ErrorCategory
	Code     int
	Message  string
	At       time.Time
}
