// Package player defines the narrow capability surface the shim needs from
// a host media player. Host integrations implement these interfaces with a
// thin adapter over the real player object; the shim never reaches into
// host internals itself.
package player

// Host event names, as surfaced by the adapter. Adapters normalize their
// player's native vocabulary (whatever casing or namespacing it uses) into
// these subscription keys.
const (
	CorePlay         = "play"
	CorePlaying      = "playing"
	CorePause        = "pause"
	CoreTimeUpdate   = "timeupdate"
	CoreSeeking      = "seeking"
	CoreSeeked       = "seeked"
	CoreEnded        = "ended"
	CoreError        = "error"
	CoreSourceChange = "changesourcestarted"

	AdLoaded        = "adloaded"
	AdBreakStarted  = "adbreakstart"
	AdBreakEnded    = "adbreakend"
	AdStarted       = "adstarted"
	AdPaused        = "adpaused"
	AdFirstQuartile = "adfirstquartile"
	AdMidpoint      = "admidpoint"
	AdThirdQuartile = "adthirdquartile"
	AdCompleted     = "adcompleted"
	AdSkipped       = "adskipped"
	AdError         = "aderror"
)

// Event carries a raw host player signal to subscribers. ErrorCode and
// ErrorMessage are populated only for error-class signals; a zero code with
// an empty message means the host attached no error body to the event.
type Event struct {
	Type         string
	ErrorCode    int
	ErrorMessage string
}

// Unsubscribe removes the handler registered by the On call that returned
// it. Calling it more than once is a no-op.
type Unsubscribe func()

// Source describes the currently selected media source.
type Source struct {
	URL      string
	MimeType string
}

// PlaybackConfig exposes the host's playback configuration flags.
type PlaybackConfig struct {
	Autoplay bool
	Preload  string // "auto", "metadata", "none"
}

// Player is the inbound capability interface consumed by the shim.
//
// State accessors use the (value, ok) shape: ok=false means the host does
// not expose that property at this moment (e.g. no source selected yet).
// Absence must never abort derivation of the remaining fields, so callers
// check each accessor independently.
//
// Handlers are invoked from the host's single event-dispatch goroutine.
// Accessors must be safe to call from within a handler.
type Player interface {
	// TargetID returns the opaque player/target identifier used as the
	// analytics session ID.
	TargetID() string

	// On registers handler for the named host event and returns a function
	// that removes the registration.
	On(event string, handler func(Event)) Unsubscribe

	// Ready returns a channel that is closed once, when the host player
	// reaches its ready point. Some host versions never signal ready and
	// go straight to play; callers must not rely on the channel closing.
	Ready() <-chan struct{}

	// CurrentTime returns the playhead position in seconds.
	CurrentTime() (float64, bool)

	Paused() bool
	Ended() bool

	// PlayerSize returns the rendered element dimensions in pixels.
	PlayerSize() (width, height int, ok bool)
	// VideoSize returns the intrinsic video dimensions, available only
	// after media metadata has loaded.
	VideoSize() (width, height int, ok bool)

	Fullscreen() bool
	Playback() PlaybackConfig

	Source() (Source, bool)
	// Duration returns the media duration in seconds.
	Duration() (float64, bool)
	Poster() (string, bool)

	// AdaptiveEngine returns the engine currently backing playback.
	// ok=false means the host has not created an engine yet; callers
	// should retry later rather than treat the source as progressive.
	// The returned handle is only valid until the next source change.
	AdaptiveEngine() (Engine, bool)

	// AdTagURL returns the ad request URL from the ad-serving
	// configuration, when one is configured.
	AdTagURL() (string, bool)
	// AdAssetURL returns the asset URL of the ad currently rendering.
	AdAssetURL() (string, bool)
}
