// Package shim translates a host media player's lifecycle and playback
// events into the canonical analytics vocabulary and forwards them to a
// collector. One Session brackets everything between init and destroy:
// the readiness gate, the playback and ad translators, and the adaptive
// engine bindings.
package shim

import (
	"log"
	"sync"
	"time"

	"github.com/playsight/shim/internal/collector"
	"github.com/playsight/shim/internal/event"
	"github.com/playsight/shim/internal/metrics"
	"github.com/playsight/shim/internal/player"
)

const (
	shimName    = "playsight-shim"
	shimVersion = "1.2.0"
)

// Options configure a session.
type Options struct {
	// Metadata is merged into the static dimensions sent to the collector
	// at init (player software name/version, viewer environment, custom
	// dimensions). Keys here win over the shim's own defaults.
	Metadata map[string]string

	// DerivePlayingFromProgress replaces the host's native playing signal
	// with a playhead-progress monitor armed on each play. For host
	// versions whose playing event is unreliable or missing; the derived
	// emission carries a backdated viewer_time.
	DerivePlayingFromProgress bool

	// Metrics receives self-observability counters. May be nil.
	Metrics *metrics.Metrics
}

// Session owns the per-player translation state. All mutable state lives
// here rather than on the player handle, and is guarded by mu: handlers
// arrive on the host's dispatch goroutine while the ready signal resolves
// on another.
type Session struct {
	id     string
	player player.Player
	sink   collector.Collector
	opts   Options
	now    func() time.Time

	mu        sync.Mutex
	ready     bool // readiness gate; monotonic, never reverts
	readySent bool
	destroyed bool

	// Adaptive engine binding. bindingsCurrent is cleared by the
	// source-change handler before the videochange emit is processed, so
	// the next emit re-derives against the new engine.
	bindingsCurrent bool
	hlsAttached     bool
	lastBitrate     int64
	engineSubs      []player.Unsubscribe

	subs []player.Unsubscribe
	done chan struct{}
}

// Start initializes the collector session and wires all translators.
// Returns nil when no valid player or collector was provided; in that case
// a warning is logged and nothing is ever emitted.
func Start(p player.Player, sink collector.Collector, opts Options) *Session {
	if p == nil || sink == nil {
		log.Printf("[shim] a valid player and collector are required; analytics disabled")
		return nil
	}

	s := &Session{
		id:     p.TargetID(),
		player: p,
		sink:   sink,
		opts:   opts,
		now:    time.Now,
		done:   make(chan struct{}),
	}

	metadata := map[string]string{
		"player_shim_name":    shimName,
		"player_shim_version": shimVersion,
	}
	for k, v := range opts.Metadata {
		metadata[k] = v
	}

	sink.Init(s.id, collector.InitConfig{
		Metadata:     metadata,
		PlayheadTime: s.playheadMs,
	})

	s.subscribePlayback()
	s.subscribeAds()
	go s.watchReady()

	log.Printf("[shim] session %s started", s.id)
	return s
}

// watchReady opens the gate when the host's ready signal resolves. Some
// host versions never signal ready and go straight to play; the play
// handler covers that path, whichever lands first wins.
func (s *Session) watchReady() {
	select {
	case <-s.player.Ready():
	case <-s.done:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markReadyLocked()
}

// markReadyLocked performs the NOT_READY -> READY transition. Idempotent:
// the second trigger (ready signal vs first play) is a no-op.
func (s *Session) markReadyLocked() {
	if s.readySent {
		return
	}
	s.ready = true
	s.readySent = true
	s.emitLocked(event.PlayerReady, nil)
}

// emitLocked is the single forwarding primitive. It attaches a fresh state
// snapshot, ships the event, and lazily re-derives the adaptive engine
// bindings when a source change has made them stale. Engine events can
// occur before the host ever signals ready, which is why rebinding hangs
// off emission rather than off the ready path.
func (s *Session) emitLocked(name event.Name, data event.Payload) {
	if s.destroyed {
		return
	}
	payload := captureState(s.player)
	payload.Merge(data)
	s.sink.Emit(s.id, name, payload)
	s.opts.Metrics.EventEmitted(string(name))

	if !s.bindingsCurrent {
		s.bindEngineLocked()
	}
}

// playheadMs returns the current playhead position in milliseconds.
func (s *Session) playheadMs() (int64, bool) {
	sec, ok := s.player.CurrentTime()
	if !ok {
		return 0, false
	}
	return secondsToMs(sec), true
}

// Destroy closes the session: it emits the final destroy event, removes
// every subscription, and suppresses all further forwarding. Safe to call
// more than once; only the first call emits.
func (s *Session) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.emitLocked(event.Destroy, nil)
	s.destroyed = true
	close(s.done)

	for _, u := range s.subs {
		u()
	}
	s.subs = nil
	for _, u := range s.engineSubs {
		u()
	}
	s.engineSubs = nil
	// The HLS registration dies with the collector session; no detach
	// frame is sent after destroy.
	s.hlsAttached = false

	log.Printf("[shim] session %s destroyed", s.id)
}

// Status describes the session for the debug endpoint.
type Status struct {
	ID          string `json:"id"`
	Ready       bool   `json:"ready"`
	Destroyed   bool   `json:"destroyed"`
	HLSAttached bool   `json:"hlsAttached"`
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:          s.id,
		Ready:       s.ready,
		Destroyed:   s.destroyed,
		HLSAttached: s.hlsAttached,
	}
}
