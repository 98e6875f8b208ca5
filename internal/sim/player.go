// Package sim provides a scripted in-process player used for dry runs and
// integration testing of the shim without a real host player attached.
package sim

import (
	"sync"

	"github.com/playsight/shim/internal/player"
)

// Player is a hand-driven player.Player implementation. Test and scenario
// code mutates its state through the setters and pushes events with Fire;
// the shim observes it exactly as it would a real host adapter.
type Player struct {
	mu       sync.Mutex
	targetID string

	ready     chan struct{}
	readyOnce sync.Once

	nextID   int
	handlers map[string]map[int]func(player.Event)

	currentTime float64
	hasTime     bool
	paused      bool
	ended       bool

	playerW, playerH int
	videoW, videoH   int
	hasVideoSize     bool
	fullscreen       bool
	playback         player.PlaybackConfig

	source      player.Source
	hasSource   bool
	duration    float64
	hasDuration bool
	poster      string

	engine    player.Engine
	hasEngine bool

	adTagURL   string
	adAssetURL string
}

func NewPlayer(targetID string) *Player {
	return &Player{
		targetID: targetID,
		ready:    make(chan struct{}),
		handlers: make(map[string]map[int]func(player.Event)),
		paused:   true,
	}
}

func (p *Player) TargetID() string { return p.targetID }

func (p *Player) On(event string, handler func(player.Event)) player.Unsubscribe {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handlers[event] == nil {
		p.handlers[event] = make(map[int]func(player.Event))
	}
	id := p.nextID
	p.nextID++
	p.handlers[event][id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers[event], id)
	}
}

func (p *Player) Ready() <-chan struct{} { return p.ready }

// SignalReady closes the ready channel. Safe to call more than once.
func (p *Player) SignalReady() {
	p.readyOnce.Do(func() { close(p.ready) })
}

// Fire dispatches a plain event to every subscriber. Handlers run with the
// player lock released so they can call back into the accessors.
func (p *Player) Fire(event string) {
	p.dispatch(player.Event{Type: event})
}

// FireError dispatches an error event with the given body.
func (p *Player) FireError(code int, message string) {
	p.dispatch(player.Event{Type: player.CoreError, ErrorCode: code, ErrorMessage: message})
}

// FireAdError dispatches an ad error event with the given body.
func (p *Player) FireAdError(code int, message string) {
	p.dispatch(player.Event{Type: player.AdError, ErrorCode: code, ErrorMessage: message})
}

func (p *Player) dispatch(ev player.Event) {
	p.mu.Lock()
	hs := make([]func(player.Event), 0, len(p.handlers[ev.Type]))
	for _, h := range p.handlers[ev.Type] {
		hs = append(hs, h)
	}
	p.mu.Unlock()
	for _, h := range hs {
		h(ev)
	}
}

func (p *Player) CurrentTime() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentTime, p.hasTime
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *Player) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ended
}

func (p *Player) PlayerSize() (int, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playerW == 0 && p.playerH == 0 {
		return 0, 0, false
	}
	return p.playerW, p.playerH, true
}

func (p *Player) VideoSize() (int, int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.videoW, p.videoH, p.hasVideoSize
}

func (p *Player) Fullscreen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fullscreen
}

func (p *Player) Playback() player.PlaybackConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playback
}

func (p *Player) Source() (player.Source, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source, p.hasSource
}

func (p *Player) Duration() (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration, p.hasDuration
}

func (p *Player) Poster() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.poster, p.poster != ""
}

func (p *Player) AdaptiveEngine() (player.Engine, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine, p.hasEngine
}

func (p *Player) AdTagURL() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.adTagURL, p.adTagURL != ""
}

func (p *Player) AdAssetURL() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.adAssetURL, p.adAssetURL != ""
}

func (p *Player) SetCurrentTime(sec float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentTime = sec
	p.hasTime = true
}

func (p *Player) SetPaused(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = v
}

func (p *Player) SetEnded(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = v
}

func (p *Player) SetPlayerSize(w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playerW, p.playerH = w, h
}

func (p *Player) SetVideoSize(w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.videoW, p.videoH = w, h
	p.hasVideoSize = true
}

func (p *Player) SetFullscreen(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fullscreen = v
}

func (p *Player) SetPlayback(cfg player.PlaybackConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playback = cfg
}

func (p *Player) SetSource(src player.Source) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = src
	p.hasSource = true
}

func (p *Player) SetDuration(sec float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duration = sec
	p.hasDuration = true
}

func (p *Player) SetPoster(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.poster = url
}

func (p *Player) SetEngine(eng player.Engine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine = eng
	p.hasEngine = true
}

// ClearEngine puts the player back into the engine-not-created state.
func (p *Player) ClearEngine() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine = player.Engine{}
	p.hasEngine = false
}

func (p *Player) SetAdTagURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.adTagURL = url
}

func (p *Player) SetAdAssetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.adAssetURL = url
}
