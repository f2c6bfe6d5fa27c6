package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RishithaRamesh/wolfcafeplus/pkg/contracts"
)

const (
	writeTimeout = 10 * time.Second
	pingPeriod   = 50 * time.Second
	sendBuffer   = 32
)

// Hub fans events out to websocket connections. Every connection is
// registered under one or more scopes (its own user scope, plus "staff" for
// staff dashboards); Emit addresses a scope, never the whole room.
type Hub struct {
	mu    sync.RWMutex
	conns map[*hubConn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: map[*hubConn]struct{}{}}
}

type hubConn struct {
	wc     *websocket.Conn
	scopes map[string]struct{}
	send   chan []byte
}

// HandleConn registers the connection and blocks until it closes. Callers
// run it from the HTTP handler goroutine after the upgrade.
func (h *Hub) HandleConn(wc *websocket.Conn, scopes []string) {
	c := &hubConn{wc: wc, scopes: make(map[string]struct{}, len(scopes)), send: make(chan []byte, sendBuffer)}
	for _, s := range scopes {
		c.scopes[s] = struct{}{}
	}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	c.readPump()

	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	close(c.send)
}

// Emit pushes the event to every connection registered under scope. Slow
// consumers are skipped rather than blocking the dispatcher.
func (h *Hub) Emit(scope string, event contracts.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if _, ok := c.scopes[scope]; !ok {
			continue
		}
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

func (c *hubConn) writePump() {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	defer c.wc.Close()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
				_ = c.wc.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-t.C:
			c.wc.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.wc.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// readPump drains incoming frames; clients only listen, but reading is what
// surfaces close frames and keeps control messages flowing.
func (c *hubConn) readPump() {
	c.wc.SetReadLimit(1 << 16)
	for {
		if _, _, err := c.wc.ReadMessage(); err != nil {
			return
		}
	}
}
