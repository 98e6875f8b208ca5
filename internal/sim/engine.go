package sim

import (
	"sync"

	"github.com/playsight/shim/internal/player"
)

// DashEngine is a hand-driven player.DashEngine. Scenario code sets the
// track list and stats, then pushes adaptation and network signals.
type DashEngine struct {
	mu     sync.Mutex
	tracks []player.VariantTrack
	stats  player.EngineStats

	nextID     int
	adaptation map[int]func()
	variant    map[int]func()
	response   map[int]func(player.NetworkResponse)
	errs       map[int]func(player.EngineError)
}

func NewDashEngine() *DashEngine {
	return &DashEngine{
		adaptation: make(map[int]func()),
		variant:    make(map[int]func()),
		response:   make(map[int]func(player.NetworkResponse)),
		errs:       make(map[int]func(player.EngineError)),
	}
}

func (d *DashEngine) VariantTracks() []player.VariantTrack {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]player.VariantTrack, len(d.tracks))
	copy(out, d.tracks)
	return out
}

func (d *DashEngine) Stats() player.EngineStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

func (d *DashEngine) SetTracks(tracks []player.VariantTrack) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tracks = tracks
}

func (d *DashEngine) SetStats(s player.EngineStats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = s
}

func (d *DashEngine) OnAdaptation(f func()) player.Unsubscribe {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.adaptation[id] = f
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.adaptation, id)
	}
}

func (d *DashEngine) OnVariantChanged(f func()) player.Unsubscribe {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.variant[id] = f
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.variant, id)
	}
}

func (d *DashEngine) OnResponse(f func(player.NetworkResponse)) player.Unsubscribe {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.response[id] = f
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.response, id)
	}
}

func (d *DashEngine) OnError(f func(player.EngineError)) player.Unsubscribe {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextID
	d.nextID++
	d.errs[id] = f
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.errs, id)
	}
}

func (d *DashEngine) FireAdaptation() {
	for _, f := range d.snapshotPlain(d.adaptation) {
		f()
	}
}

func (d *DashEngine) FireVariantChanged() {
	for _, f := range d.snapshotPlain(d.variant) {
		f()
	}
}

func (d *DashEngine) FireResponse(r player.NetworkResponse) {
	d.mu.Lock()
	fs := make([]func(player.NetworkResponse), 0, len(d.response))
	for _, f := range d.response {
		fs = append(fs, f)
	}
	d.mu.Unlock()
	for _, f := range fs {
		f(r)
	}
}

func (d *DashEngine) FireError(e player.EngineError) {
	d.mu.Lock()
	fs := make([]func(player.EngineError), 0, len(d.errs))
	for _, f := range d.errs {
		fs = append(fs, f)
	}
	d.mu.Unlock()
	for _, f := range fs {
		f(e)
	}
}

func (d *DashEngine) snapshotPlain(m map[int]func()) []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fs := make([]func(), 0, len(m))
	for _, f := range m {
		fs = append(fs, f)
	}
	return fs
}

// HLSStream is a trivial player.HLSStream carrying opaque handles.
type HLSStream struct {
	Eng any
	Lib any
}

func (h HLSStream) Handle() any  { return h.Eng }
func (h HLSStream) Library() any { return h.Lib }
