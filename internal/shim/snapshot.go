package shim

import (
	"math"

	"github.com/playsight/shim/internal/event"
	"github.com/playsight/shim/internal/player"
)

// captureState reads the player's queryable state into a point-in-time
// payload. Each accessor is consulted independently: a property the host
// does not expose right now (no source selected, metadata not loaded)
// stays absent without aborting the rest. Called once per outbound event,
// never cached.
func captureState(p player.Player) event.Payload {
	data := event.Payload{
		event.FieldPlayerIsPaused:     p.Paused() || p.Ended(),
		event.FieldPlayerIsFullscreen: p.Fullscreen(),
	}

	if w, h, ok := p.PlayerSize(); ok {
		data[event.FieldPlayerWidth] = w
		data[event.FieldPlayerHeight] = h
	}
	if w, h, ok := p.VideoSize(); ok {
		data[event.FieldVideoSourceWidth] = w
		data[event.FieldVideoSourceHeight] = h
	}

	pb := p.Playback()
	data[event.FieldPlayerAutoplayOn] = pb.Autoplay
	data[event.FieldPlayerPreloadOn] = pb.Preload == "auto"

	if src, ok := p.Source(); ok {
		data[event.FieldVideoSourceURL] = src.URL
		data[event.FieldVideoSourceMimeType] = src.MimeType
	}
	if dur, ok := p.Duration(); ok {
		data[event.FieldVideoSourceDuration] = secondsToMs(dur)
	}
	if poster, ok := p.Poster(); ok {
		data[event.FieldVideoPosterURL] = poster
	}

	return data
}

func secondsToMs(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
