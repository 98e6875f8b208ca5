package shim

import (
	"testing"
	"time"

	"github.com/playsight/shim/internal/event"
)

func TestTimeUpdateCarriesPlayhead(t *testing.T) {
	p, rec, _ := newSession(t, Options{})
	p.Fire("play")

	p.SetCurrentTime(12.345)
	p.Fire("timeupdate")

	data, ok := rec.last(event.TimeUpdate)
	if !ok {
		t.Fatal("timeupdate not recorded")
	}
	if data[event.FieldPlayerPlayheadTime] != int64(12345) {
		t.Errorf("playhead = %v, want 12345", data[event.FieldPlayerPlayheadTime])
	}
}

func TestErrorWithoutMessageSuppressed(t *testing.T) {
	p, rec, _ := newSession(t, Options{})
	p.Fire("play")

	p.FireError(4, "")

	if got := rec.count(event.Error); got != 0 {
		t.Errorf("message-less error forwarded, got %v", rec.names())
	}
}

func TestErrorWithMessageForwarded(t *testing.T) {
	p, rec, _ := newSession(t, Options{})
	p.Fire("play")

	p.FireError(2002, "MEDIA_ERR_NETWORK")

	data, ok := rec.last(event.Error)
	if !ok {
		t.Fatal("error not recorded")
	}
	if data[event.FieldPlayerErrorCode] != 2002 {
		t.Errorf("error code = %v, want 2002", data[event.FieldPlayerErrorCode])
	}
	if data[event.FieldPlayerErrorMessage] != "MEDIA_ERR_NETWORK" {
		t.Errorf("error message = %v", data[event.FieldPlayerErrorMessage])
	}
	if !event.ValidErrorPayload(data) {
		t.Error("forwarded error payload should satisfy the error-field requirement")
	}
}

func TestSourceChangeEmitsVideoChange(t *testing.T) {
	p, rec, _ := newSession(t, Options{})
	p.Fire("play")

	p.Fire("changesourcestarted")

	if got := rec.count(event.VideoChange); got != 1 {
		t.Errorf("videochange count = %d, want 1", got)
	}
}

func TestSeekPairForwarded(t *testing.T) {
	p, rec, _ := newSession(t, Options{})
	p.Fire("play")

	p.Fire("seeking")
	p.Fire("seeked")

	if rec.count(event.Seeking) != 1 || rec.count(event.Seeked) != 1 {
		t.Errorf("seek events = %v", rec.names())
	}
}

func TestDerivedPlayingReplacesNative(t *testing.T) {
	p, rec, _ := newSession(t, Options{DerivePlayingFromProgress: true})

	p.SetCurrentTime(0)
	p.Fire("play")
	p.Fire("playing")

	if got := rec.count(event.Playing); got != 0 {
		t.Fatalf("native playing should be ignored in derived mode, got %v", rec.names())
	}

	// No progress yet: the monitor must not fire.
	p.Fire("timeupdate")
	if got := rec.count(event.Playing); got != 0 {
		t.Fatal("monitor fired without playhead progress")
	}

	before := time.Now().UnixMilli()
	p.SetCurrentTime(0.25)
	p.Fire("timeupdate")
	after := time.Now().UnixMilli()

	data, ok := rec.last(event.Playing)
	if !ok {
		t.Fatal("derived playing not emitted after progress")
	}
	vt, ok := data[event.FieldViewerTime].(int64)
	if !ok {
		t.Fatalf("viewer_time missing or mistyped: %v", data[event.FieldViewerTime])
	}
	// Backdated by the 250ms the playhead advanced.
	if vt < before-250 || vt > after-250 {
		t.Errorf("viewer_time = %d, want within [%d, %d]", vt, before-250, after-250)
	}
}

func TestDerivedPlayingDisarmedByPause(t *testing.T) {
	p, rec, _ := newSession(t, Options{DerivePlayingFromProgress: true})

	p.SetCurrentTime(0)
	p.Fire("play")
	p.Fire("pause")

	p.SetCurrentTime(0.5)
	p.Fire("timeupdate")

	if got := rec.count(event.Playing); got != 0 {
		t.Errorf("monitor should be disarmed by pause, got %v", rec.names())
	}
}

func TestDerivedPlayingFiresOncePerPlay(t *testing.T) {
	p, rec, _ := newSession(t, Options{DerivePlayingFromProgress: true})

	p.SetCurrentTime(0)
	p.Fire("play")
	p.SetCurrentTime(0.25)
	p.Fire("timeupdate")
	p.SetCurrentTime(0.5)
	p.Fire("timeupdate")

	if got := rec.count(event.Playing); got != 1 {
		t.Errorf("playing count = %d, want 1 per play", got)
	}
}
