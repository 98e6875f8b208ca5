package collector

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playsight/shim/internal/event"
)

// feedServer accepts one WebSocket connection and forwards every frame it
// reads onto a channel.
func feedServer(t *testing.T) (*httptest.Server, <-chan Frame) {
	t.Helper()
	frames := make(chan Frame, 64)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var f Frame
			if err := json.Unmarshal(msg, &f); err != nil {
				t.Errorf("unmarshal frame: %v", err)
				return
			}
			frames <- f
		}
	}))
	t.Cleanup(srv.Close)
	return srv, frames
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recvFrame(t *testing.T, frames <-chan Frame) Frame {
	t.Helper()
	select {
	case f := <-frames:
		return f
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received before deadline")
		return Frame{}
	}
}

func TestClientInitFrameFirst(t *testing.T) {
	srv, frames := feedServer(t)
	c, err := Dial(wsURL(srv), ClientOptions{})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	c.Init("s1", InitConfig{Metadata: map[string]string{"property_key": "k"}})
	c.Emit("s1", event.Play, event.Payload{event.FieldPlayerIsPaused: false})

	f := recvFrame(t, frames)
	if f.Type != FrameInit || f.SessionID != "s1" {
		t.Fatalf("first frame = %+v, want init for s1", f)
	}
	if f.Metadata["property_key"] != "k" {
		t.Errorf("init metadata = %v", f.Metadata)
	}

	f = recvFrame(t, frames)
	if f.Type != FrameEvent || f.Event != event.Play {
		t.Fatalf("second frame = %+v, want play event", f)
	}
	if f.Data[event.FieldPlayerIsPaused] != false {
		t.Errorf("event data = %v", f.Data)
	}
}

func TestClientPreservesEmitOrder(t *testing.T) {
	srv, frames := feedServer(t)
	c, err := Dial(wsURL(srv), ClientOptions{})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	want := []event.Name{event.PlayerReady, event.Play, event.Playing, event.TimeUpdate, event.Ended}
	for _, name := range want {
		c.Emit("s1", name, nil)
	}

	for i, w := range want {
		f := recvFrame(t, frames)
		if f.Event != w {
			t.Errorf("frame %d = %s, want %s", i, f.Event, w)
		}
	}
}

func TestClientHLSFrames(t *testing.T) {
	srv, frames := feedServer(t)
	c, err := Dial(wsURL(srv), ClientOptions{})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	c.AttachHLS("s1", HLSRegistration{Engine: "eng", Library: "lib"})
	if !c.HLSRegistered("s1") {
		t.Error("registration not held after attach")
	}
	c.DetachHLS("s1")
	if c.HLSRegistered("s1") {
		t.Error("registration held after detach")
	}

	if f := recvFrame(t, frames); f.Type != FrameHLSAttach {
		t.Errorf("frame = %+v, want hls_attach", f)
	}
	if f := recvFrame(t, frames); f.Type != FrameHLSDetach {
		t.Errorf("frame = %+v, want hls_detach", f)
	}
}

func TestClientHeartbeat(t *testing.T) {
	srv, frames := feedServer(t)
	c, err := Dial(wsURL(srv), ClientOptions{Heartbeat: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	c.Init("s1", InitConfig{
		PlayheadTime: func() (int64, bool) { return 4200, true },
	})

	if f := recvFrame(t, frames); f.Type != FrameInit {
		t.Fatalf("first frame = %+v, want init", f)
	}

	f := recvFrame(t, frames)
	if f.Type != FrameHeartbeat || f.SessionID != "s1" {
		t.Fatalf("frame = %+v, want heartbeat for s1", f)
	}
	// JSON numbers decode as float64.
	if f.Data[event.FieldPlayerPlayheadTime] != float64(4200) {
		t.Errorf("heartbeat playhead = %v, want 4200", f.Data[event.FieldPlayerPlayheadTime])
	}
}

func TestClientHeartbeatSkipsUnknownPlayhead(t *testing.T) {
	srv, frames := feedServer(t)
	c, err := Dial(wsURL(srv), ClientOptions{Heartbeat: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	c.Init("s1", InitConfig{
		PlayheadTime: func() (int64, bool) { return 0, false },
	})

	if f := recvFrame(t, frames); f.Type != FrameInit {
		t.Fatalf("first frame = %+v, want init", f)
	}

	select {
	case f := <-frames:
		t.Errorf("unexpected frame %+v while playhead unavailable", f)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestClientCloseIsIdempotent(t *testing.T) {
	srv, _ := feedServer(t)
	c, err := Dial(wsURL(srv), ClientOptions{})
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	c.Close()
	c.Close()

	// Frames after close are silently discarded, not a panic.
	c.Emit("s1", event.Play, nil)
	if c.Dropped() != 0 {
		t.Errorf("post-close emits should not count as drops, got %d", c.Dropped())
	}
}
