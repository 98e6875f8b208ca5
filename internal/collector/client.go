package collector

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playsight/shim/internal/event"
)

const defaultSendBuffer = 256

// Client ships frames to the collector backend over a WebSocket feed.
//
// Sends are queued on a buffered channel drained by a single write pump;
// when the backend cannot keep up the frame is dropped rather than stalling
// the host's event-dispatch goroutine. Drops are counted and logged at most
// once per 10 seconds.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	mu          sync.Mutex
	playhead    map[string]func() (int64, bool)
	hls         map[string]HLSRegistration
	dropped     int64
	lastDropLog time.Time
	closed      bool

	heartbeat time.Duration
	stopPing  chan struct{}
}

// ClientOptions tune the transport. Zero values select defaults.
type ClientOptions struct {
	SendBuffer  int
	Heartbeat   time.Duration // 0 disables the heartbeat loop
	DialTimeout time.Duration
	Header      http.Header
}

// Dial connects to the collector feed at url (ws:// or wss://).
func Dial(url string, opts ClientOptions) (*Client, error) {
	dialer := *websocket.DefaultDialer
	if opts.DialTimeout > 0 {
		dialer.HandshakeTimeout = opts.DialTimeout
	}
	conn, _, err := dialer.Dial(url, opts.Header)
	if err != nil {
		return nil, err
	}

	buffer := opts.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	c := &Client{
		conn:      conn,
		send:      make(chan []byte, buffer),
		playhead:  make(map[string]func() (int64, bool)),
		hls:       make(map[string]HLSRegistration),
		heartbeat: opts.Heartbeat,
		stopPing:  make(chan struct{}),
	}
	go c.writePump()
	if c.heartbeat > 0 {
		go c.heartbeatLoop()
	}
	return c, nil
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("[collector] write error: %v", err)
			return
		}
	}
}

// heartbeatLoop periodically reports the playhead position of every open
// session so the backend can detect rebuffering between events.
func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopPing:
			return
		case <-ticker.C:
			c.mu.Lock()
			for id, fn := range c.playhead {
				if fn == nil {
					continue
				}
				ms, ok := fn()
				if !ok {
					continue
				}
				c.queueLocked(Frame{
					Type:      FrameHeartbeat,
					SessionID: id,
					Data:      event.Payload{event.FieldPlayerPlayheadTime: ms},
				})
			}
			c.mu.Unlock()
		}
	}
}

func (c *Client) Init(sessionID string, cfg InitConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playhead[sessionID] = cfg.PlayheadTime
	c.queueLocked(Frame{
		Type:      FrameInit,
		SessionID: sessionID,
		Metadata:  cfg.Metadata,
	})
}

func (c *Client) Emit(sessionID string, name event.Name, data event.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queueLocked(Frame{
		Type:      FrameEvent,
		SessionID: sessionID,
		Event:     name,
		Data:      data,
	})
}

func (c *Client) AttachHLS(sessionID string, reg HLSRegistration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hls[sessionID] = reg
	c.queueLocked(Frame{Type: FrameHLSAttach, SessionID: sessionID})
}

func (c *Client) DetachHLS(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.hls, sessionID)
	c.queueLocked(Frame{Type: FrameHLSDetach, SessionID: sessionID})
}

// HLSRegistered reports whether an HLS registration is currently held for
// the session. The engine handle itself is only meaningful to the backend's
// instrumentation.
func (c *Client) HLSRegistered(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.hls[sessionID]
	return ok
}

// Dropped returns the number of frames dropped because the send buffer was
// full.
func (c *Client) Dropped() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// Close stops the heartbeat loop and tears down the connection after the
// queued frames drain.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.stopPing)
	close(c.send)
}

func (c *Client) queueLocked(f Frame) {
	if c.closed {
		return
	}
	data, err := json.Marshal(f)
	if err != nil {
		log.Printf("[collector] marshal error: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.dropped++
		now := time.Now()
		if c.lastDropLog.IsZero() || now.Sub(c.lastDropLog) >= 10*time.Second {
			log.Printf("[collector] frames dropped: %d (send buffer full)", c.dropped)
			c.lastDropLog = now
		}
	}
}
