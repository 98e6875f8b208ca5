package sim

import (
	"context"
	"log"
	"time"

	"github.com/playsight/shim/internal/player"
)

// step is one scripted action applied to the player on a tick.
type step func(*Player)

// Run drives p through a scripted viewing session, one step per tick.
// The "full" scenario covers a progressive start, a mid-session switch to
// DASH with adaptation and network traffic, an ad break, a switch to HLS,
// a playback error, and a clean ending. Run returns when the script ends
// or ctx is cancelled.
func Run(ctx context.Context, p *Player, tick time.Duration, scenario string) {
	var script []step
	switch scenario {
	case "short":
		script = shortScript()
	default:
		script = fullScript()
	}

	log.Printf("[sim] running %q scenario, %d steps at %v", scenario, len(script), tick)

	t := time.NewTicker(tick)
	defer t.Stop()
	for _, s := range script {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s(p)
		}
	}
	log.Printf("[sim] scenario complete")
}

func shortScript() []step {
	return []step{
		func(p *Player) {
			p.SetSource(player.Source{URL: "https://cdn.example.com/clip.mp4", MimeType: "video/mp4"})
			p.SetDuration(30)
			p.SetPlayerSize(1280, 720)
			p.SignalReady()
		},
		func(p *Player) { p.SetPaused(false); p.Fire(player.CorePlay) },
		func(p *Player) { p.Fire(player.CorePlaying) },
		func(p *Player) { p.SetCurrentTime(1.0); p.Fire(player.CoreTimeUpdate) },
		func(p *Player) { p.SetCurrentTime(30); p.SetEnded(true); p.Fire(player.CoreEnded) },
	}
}

func fullScript() []step {
	dash := NewDashEngine()

	advance := func(sec float64) step {
		return func(p *Player) { p.SetCurrentTime(sec); p.Fire(player.CoreTimeUpdate) }
	}

	return []step{
		// Progressive warm-up.
		func(p *Player) {
			p.SetSource(player.Source{URL: "https://cdn.example.com/intro.mp4", MimeType: "video/mp4"})
			p.SetDuration(600)
			p.SetPlayerSize(1280, 720)
			p.SetPoster("https://cdn.example.com/poster.jpg")
			p.SetPlayback(player.PlaybackConfig{Preload: "auto"})
			p.SignalReady()
		},
		func(p *Player) {
			p.SetEngine(player.Engine{Kind: player.KindProgressive})
			p.SetPaused(false)
			p.Fire(player.CorePlay)
		},
		func(p *Player) {
			p.SetVideoSize(1920, 1080)
			p.Fire(player.CorePlaying)
		},
		advance(0.5),
		advance(1.0),
		func(p *Player) { p.SetPaused(true); p.Fire(player.CorePause) },
		func(p *Player) { p.SetPaused(false); p.Fire(player.CorePlay) },
		func(p *Player) { p.Fire(player.CorePlaying) },
		advance(1.5),

		// Switch to a DASH source. The engine appears one tick after the
		// change, exercising the not-yet-created retry.
		func(p *Player) {
			p.ClearEngine()
			p.SetSource(player.Source{URL: "https://cdn.example.com/feature.mpd", MimeType: "application/dash+xml"})
			p.SetDuration(5400)
			p.Fire(player.CoreSourceChange)
		},
		func(p *Player) {
			dash.SetTracks([]player.VariantTrack{
				{Active: true, Bandwidth: 800_000},
				{Active: false, Bandwidth: 2_400_000},
			})
			dash.SetStats(player.EngineStats{Width: 854, Height: 480})
			p.SetEngine(player.Engine{Kind: player.KindDash, Dash: dash})
			p.SetPaused(false)
			p.Fire(player.CorePlay)
		},
		func(p *Player) { p.Fire(player.CorePlaying) },
		func(p *Player) {
			dash.FireResponse(player.NetworkResponse{
				URI:         "https://cdn.example.com/feature.mpd",
				BytesLoaded: 18_204,
				Type:        player.RequestTypeManifest,
				Duration:    45 * time.Millisecond,
				ReceivedAt:  time.Now(),
			})
		},
		advance(2.0),
		func(p *Player) {
			dash.FireResponse(player.NetworkResponse{
				URI:         "https://cdn.example.com/seg/0001.m4s",
				BytesLoaded: 512_330,
				Type:        player.RequestTypeSegment,
				Duration:    120 * time.Millisecond,
				ReceivedAt:  time.Now(),
			})
		},
		func(p *Player) {
			dash.SetTracks([]player.VariantTrack{
				{Active: false, Bandwidth: 800_000},
				{Active: true, Bandwidth: 2_400_000},
			})
			dash.SetStats(player.EngineStats{Width: 1280, Height: 720})
			dash.FireAdaptation()
		},
		advance(4.0),
		func(p *Player) { p.Fire(player.CoreSeeking) },
		func(p *Player) {
			p.SetCurrentTime(60)
			p.Fire(player.CoreSeeked)
		},
		advance(60.5),
		func(p *Player) {
			dash.FireError(player.EngineError{
				Severity: player.SeverityCritical,
				Category: player.CategoryNetwork,
				Code:     1001,
				Message:  "HTTP 503 on segment fetch",
				At:       time.Now(),
			})
		},

		// Mid-roll break with a skipped ad.
		func(p *Player) {
			p.SetAdTagURL("https://ads.example.com/vast?pod=midroll")
			p.Fire(player.AdLoaded)
		},
		func(p *Player) { p.Fire(player.AdBreakStarted) },
		func(p *Player) {
			p.SetAdAssetURL("https://ads.example.com/creative/772.mp4")
			p.Fire(player.AdStarted)
		},
		func(p *Player) { p.Fire(player.AdFirstQuartile) },
		func(p *Player) { p.Fire(player.AdPaused) },
		func(p *Player) { p.Fire(player.AdMidpoint) },
		func(p *Player) { p.Fire(player.AdThirdQuartile) },
		func(p *Player) { p.Fire(player.AdSkipped) },
		func(p *Player) { p.Fire(player.AdBreakEnded) },

		// Switch to HLS; binding is delegated to the collector.
		func(p *Player) {
			p.ClearEngine()
			p.SetSource(player.Source{URL: "https://cdn.example.com/live.m3u8", MimeType: "application/x-mpegurl"})
			p.Fire(player.CoreSourceChange)
		},
		func(p *Player) {
			p.SetEngine(player.Engine{Kind: player.KindHLS, HLS: HLSStream{Eng: "hls-handle", Lib: "hls-lib"}})
			p.SetPaused(false)
			p.Fire(player.CorePlay)
		},
		func(p *Player) { p.Fire(player.CorePlaying) },
		advance(6.0),

		// A post-roll that never loads.
		func(p *Player) {
			p.SetAdTagURL("https://ads.example.com/vast?pod=postroll")
			p.Fire(player.AdLoaded)
		},
		func(p *Player) { p.FireAdError(0, "") },

		// Playback fault, then recovery to the end of the session.
		func(p *Player) { p.FireError(2002, "MEDIA_ERR_NETWORK while buffering") },
		func(p *Player) { p.SetPaused(false); p.Fire(player.CorePlay) },
		func(p *Player) { p.Fire(player.CorePlaying) },
		advance(8.0),
		func(p *Player) {
			p.SetEnded(true)
			p.SetPaused(true)
			p.Fire(player.CoreEnded)
		},
	}
}
