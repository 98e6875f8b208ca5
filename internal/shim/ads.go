package shim

import (
	"github.com/playsight/shim/internal/event"
	"github.com/playsight/shim/internal/player"
)

// adBinding maps one host ad signal to its canonical event. A few signals
// need more than a rename; those are special-cased in handleAd.
type adBinding struct {
	trigger string
	name    event.Name
}

func adBindings() []adBinding {
	return []adBinding{
		{player.AdLoaded, event.AdResponse},
		{player.AdBreakStarted, event.AdBreakStart},
		{player.AdBreakEnded, event.AdBreakEnd},
		{player.AdStarted, event.AdPlaying},
		{player.AdPaused, event.AdPause},
		{player.AdFirstQuartile, event.AdFirstQuartile},
		{player.AdMidpoint, event.AdMidpoint},
		{player.AdThirdQuartile, event.AdThirdQuartile},
		{player.AdCompleted, event.AdEnded},
		{player.AdSkipped, event.AdSkipped},
		{player.AdError, event.AdError},
	}
}

func (s *Session) subscribeAds() {
	for _, b := range adBindings() {
		b := b
		s.subs = append(s.subs, s.player.On(b.trigger, func(ev player.Event) {
			s.handleAd(b, ev)
		}))
	}
}

// handleAd forwards ad lifecycle signals. Ad events bypass the readiness
// gate on purpose: pre-roll ads play before the main content ever reaches
// its ready point, and suppressing them would lose the whole break.
func (s *Session) handleAd(b adBinding, ev player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}

	switch b.trigger {
	case player.AdLoaded:
		data := event.Payload{}
		if url, ok := s.player.AdTagURL(); ok {
			data[event.FieldAdTagURL] = url
		}
		s.emitLocked(event.AdResponse, data)

	case player.AdStarted:
		s.emitLocked(event.AdPlay, nil)
		data := event.Payload{}
		if url, ok := s.player.AdAssetURL(); ok {
			data[event.FieldAdAssetURL] = url
		}
		s.emitLocked(event.AdPlaying, data)

	case player.AdSkipped:
		s.emitLocked(event.AdSkipped, nil)
		s.emitLocked(event.AdEnded, nil)

	case player.AdError:
		data := event.Payload{}
		if ev.ErrorCode != 0 {
			data[event.FieldPlayerErrorCode] = ev.ErrorCode
		}
		if ev.ErrorMessage != "" {
			data[event.FieldPlayerErrorMessage] = ev.ErrorMessage
		}
		if len(data) == 0 {
			// Load failure before any playback started: the tag URL is
			// the only context available.
			if url, ok := s.player.AdTagURL(); ok {
				data[event.FieldAdTagURL] = url
			}
		}
		s.emitLocked(event.AdError, data)

	default:
		s.emitLocked(b.name, nil)
	}
}
