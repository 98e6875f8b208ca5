package shim

import (
	"github.com/playsight/shim/internal/event"
	"github.com/playsight/shim/internal/player"
)

// playbackBinding maps one host playback signal to its canonical event.
// transform may reshape or suppress the emission; nil forwards with an
// empty payload (the snapshot is attached by emitLocked either way).
type playbackBinding struct {
	trigger   string
	name      event.Name
	transform func(s *Session, ev player.Event) (event.Payload, bool)
}

// playbackBindings builds the mapping table, once per session at start.
// The slice is never mutated afterwards; iteration order is the
// subscription order.
func (s *Session) playbackBindings() []playbackBinding {
	bindings := []playbackBinding{
		{player.CorePlay, event.Play, nil},
		{player.CoreSourceChange, event.VideoChange, nil},
		{player.CorePlaying, event.Playing, nil},
		{player.CorePause, event.Pause, nil},
		{player.CoreTimeUpdate, event.TimeUpdate, transformTimeUpdate},
		{player.CoreSeeking, event.Seeking, nil},
		{player.CoreSeeked, event.Seeked, nil},
		{player.CoreEnded, event.Ended, nil},
		{player.CoreError, event.Error, transformError},
	}

	if !s.opts.DerivePlayingFromProgress {
		return bindings
	}
	// The playing emission comes from the progress monitor instead.
	filtered := bindings[:0]
	for _, b := range bindings {
		if b.trigger != player.CorePlaying {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

func (s *Session) subscribePlayback() {
	for _, b := range s.playbackBindings() {
		b := b
		s.subs = append(s.subs, s.player.On(b.trigger, func(ev player.Event) {
			s.handlePlayback(b, ev)
		}))
	}
}

func (s *Session) handlePlayback(b playbackBinding, ev player.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}

	// The ready signal and the first play race across host versions;
	// whichever lands first opens the gate.
	if b.trigger == player.CorePlay && !s.readySent {
		s.markReadyLocked()
	}
	if !s.ready {
		s.opts.Metrics.EventSuppressed("not_ready")
		return
	}

	// The host swaps adaptive engines around this signal. Mark the
	// binding stale before forwarding so the videochange emit already
	// re-derives against whatever engine exists by then.
	if b.trigger == player.CoreSourceChange {
		s.invalidateEngineLocked()
	}

	var data event.Payload
	if b.transform != nil {
		var ok bool
		data, ok = b.transform(s, ev)
		if !ok {
			s.opts.Metrics.EventSuppressed("transform")
			return
		}
	}
	s.emitLocked(b.name, data)

	if b.trigger == player.CorePlay && s.opts.DerivePlayingFromProgress {
		s.armPlayingMonitorLocked()
	}
}

func transformTimeUpdate(s *Session, _ player.Event) (event.Payload, bool) {
	data := event.Payload{}
	if ms, ok := s.playheadMs(); ok {
		data[event.FieldPlayerPlayheadTime] = ms
	}
	return data, true
}

// transformError drops message-less error events. The engine-level error
// observer already reported the same fault with its message attached; the
// host's secondary report carries none, and forwarding it would duplicate
// the error for one underlying cause.
func transformError(_ *Session, ev player.Event) (event.Payload, bool) {
	if ev.ErrorMessage == "" {
		return nil, false
	}
	return event.Payload{
		event.FieldPlayerErrorCode:    ev.ErrorCode,
		event.FieldPlayerErrorMessage: ev.ErrorMessage,
	}, true
}
