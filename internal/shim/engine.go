package shim

import (
	"log"
	"net/url"

	"github.com/playsight/shim/internal/collector"
	"github.com/playsight/shim/internal/event"
	"github.com/playsight/shim/internal/player"
)

// bindEngineLocked derives the engine backing the current source and
// attaches the matching observers. Called from emitLocked whenever the
// binding is stale; detection is lazy because the host only announces
// that a source change happened, not that the engine object itself was
// replaced.
func (s *Session) bindEngineLocked() {
	eng, ok := s.player.AdaptiveEngine()
	if !ok {
		// Engine not created yet. Stay stale and retry on the next emit.
		return
	}
	s.bindingsCurrent = true

	switch eng.Kind {
	case player.KindDash:
		s.attachDashLocked(eng.Dash)
	case player.KindHLS:
		s.sink.AttachHLS(s.id, collector.HLSRegistration{
			Engine:  eng.HLS.Handle(),
			Library: eng.HLS.Library(),
		})
		s.hlsAttached = true
	case player.KindProgressive:
		// Nothing to observe on a plain media element.
	}
	log.Printf("[shim] session %s bound %s engine", s.id, eng.Kind)
}

// invalidateEngineLocked tears down the previous binding ahead of a source
// change. The HLS registration must be detached explicitly; the old DASH
// observers are unsubscribed so a still-referenced stale handle can never
// fire into this session again.
func (s *Session) invalidateEngineLocked() {
	if s.hlsAttached {
		s.sink.DetachHLS(s.id)
		s.hlsAttached = false
	}
	for _, u := range s.engineSubs {
		u()
	}
	s.engineSubs = nil
	s.lastBitrate = 0
	s.bindingsCurrent = false
}

func (s *Session) attachDashLocked(d player.DashEngine) {
	s.lastBitrate = 0

	renditionChange := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.destroyed {
			return
		}
		bitrate := aggregateBitrate(d.VariantTracks())
		// Zero means no active track yet; unchanged means the adaptation
		// decision kept the same variant set.
		if bitrate == 0 || bitrate == s.lastBitrate {
			return
		}
		s.lastBitrate = bitrate
		stats := d.Stats()
		s.emitLocked(event.RenditionChange, event.Payload{
			event.FieldVideoSourceBitrate: bitrate,
			event.FieldVideoSourceWidth:   stats.Width,
			event.FieldVideoSourceHeight:  stats.Height,
		})
	}

	s.engineSubs = append(s.engineSubs,
		d.OnAdaptation(renditionChange),
		d.OnVariantChanged(renditionChange),
		d.OnResponse(s.handleDashResponse),
		d.OnError(s.handleDashError),
	)
}

func (s *Session) handleDashResponse(r player.NetworkResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	if r.FromCache {
		return
	}
	reqType, ok := classifyRequest(r.Type)
	if !ok {
		return
	}

	data := event.Payload{
		event.FieldRequestBytesLoaded: r.BytesLoaded,
		event.FieldRequestType:        reqType,
		event.FieldRequestResponseEnd: r.ReceivedAt.UnixMilli(),
	}
	if host := hostnameOf(r.URI); host != "" {
		data[event.FieldRequestHostname] = host
	}
	if len(r.Headers) > 0 {
		data[event.FieldRequestResponseHeaders] = r.Headers
	}
	if r.Duration > 0 {
		data[event.FieldRequestStart] = r.ReceivedAt.Add(-r.Duration).UnixMilli()
	}
	s.emitLocked(event.RequestCompleted, data)
}

func (s *Session) handleDashError(e player.EngineError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	// A generic video-element error reaches us twice: once here and once
	// through the host's own error event, which carries the message. Only
	// that path reports it.
	if e.Code == player.CodeVideoError {
		s.opts.Metrics.EventSuppressed("duplicate_error")
		return
	}
	if e.Severity == player.SeverityRecoverable {
		s.opts.Metrics.EventSuppressed("recoverable")
		return
	}

	name, ok := player.ErrorCodeName(e.Code)
	if !ok {
		name = e.Category.String()
	}
	msg := e.Message
	if msg == "" {
		msg = "Category: " + e.Category.String()
	}
	at := e.At
	if at.IsZero() {
		at = s.now()
	}
	s.emitLocked(event.RequestFailed, event.Payload{
		event.FieldRequestStart:     at.UnixMilli(),
		event.FieldRequestError:     name,
		event.FieldRequestErrorCode: e.Code,
		event.FieldRequestErrorText: msg,
	})
}

func aggregateBitrate(tracks []player.VariantTrack) int64 {
	var total int64
	for _, t := range tracks {
		if t.Active {
			total += t.Bandwidth
		}
	}
	return total
}

// classifyRequest maps the engine's request type onto the collector's
// manifest/media vocabulary. Other fetch types are not reported.
func classifyRequest(t player.RequestType) (string, bool) {
	switch t {
	case player.RequestTypeManifest:
		return "manifest", true
	case player.RequestTypeSegment:
		return "media", true
	default:
		return "", false
	}
}

func hostnameOf(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
