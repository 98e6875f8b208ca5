package shim

import (
	"sync"

	"github.com/playsight/shim/internal/event"
	"github.com/playsight/shim/internal/player"
)

// armOneshot registers one qualifying observer and a set of disqualifying
// observers on p. Whichever fires first removes every registration; if it
// was the qualifying event (and qualifies accepted it), fire runs after
// the teardown. The returned function cancels the whole arrangement early.
func armOneshot(p player.Player, qualifying string, qualifies func(player.Event) bool, disqualifying []string, fire func(player.Event)) player.Unsubscribe {
	var mu sync.Mutex
	var subs []player.Unsubscribe
	done := false

	// teardown reports whether this call was the one that won the race.
	teardown := func() bool {
		mu.Lock()
		defer mu.Unlock()
		if done {
			return false
		}
		done = true
		for _, u := range subs {
			u()
		}
		subs = nil
		return true
	}
	register := func(u player.Unsubscribe) {
		mu.Lock()
		defer mu.Unlock()
		if done {
			// Lost the race during registration; drop immediately.
			u()
			return
		}
		subs = append(subs, u)
	}

	register(p.On(qualifying, func(ev player.Event) {
		if qualifies != nil && !qualifies(ev) {
			return
		}
		if teardown() {
			fire(ev)
		}
	}))
	for _, d := range disqualifying {
		register(p.On(d, func(player.Event) {
			teardown()
		}))
	}
	return func() { teardown() }
}

// armPlayingMonitorLocked derives the playing emission from playhead
// progress: the first tick past the position at play time fires it, with
// viewer_time backdated by however far the playhead had already advanced.
// Pause, error, seeking, or ended arriving first disarms without emitting.
func (s *Session) armPlayingMonitorLocked() {
	startMs, ok := s.playheadMs()
	if !ok {
		startMs = 0
	}

	cancel := armOneshot(s.player,
		player.CoreTimeUpdate,
		func(player.Event) bool {
			cur, ok := s.playheadMs()
			return ok && cur > startMs
		},
		[]string{player.CorePause, player.CoreError, player.CoreSeeking, player.CoreEnded},
		func(player.Event) {
			s.mu.Lock()
			defer s.mu.Unlock()
			cur, ok := s.playheadMs()
			if !ok {
				return
			}
			s.emitLocked(event.Playing, event.Payload{
				event.FieldViewerTime: s.now().UnixMilli() - (cur - startMs),
			})
		})
	s.subs = append(s.subs, cancel)
}
