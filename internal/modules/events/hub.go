package events

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"stadium/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

// conn is one subscriber. Only writePump writes to ws.
type conn struct {
	facility domain.FacilityType
	ws       *websocket.Conn
	send     chan []byte
}

func newConn(facility domain.FacilityType, ws *websocket.Conn) *conn {
	return &conn{facility: facility, ws: ws, send: make(chan []byte, sendBuffer)}
}

// Hub fans schedule events out to websocket subscribers. An empty facility
// key subscribes to every facility.
type Hub struct {
	subscribers map[domain.FacilityType]map[*conn]struct{}
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[domain.FacilityType]map[*conn]struct{}),
	}
}

func (h *Hub) register(c *conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.subscribers[c.facility] == nil {
		h.subscribers[c.facility] = make(map[*conn]struct{})
	}
	h.subscribers[c.facility][c] = struct{}{}
}

// unregister drops c and closes its send channel, which stops writePump.
func (h *Hub) unregister(c *conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if subs, ok := h.subscribers[c.facility]; ok {
		if _, ok := subs[c]; ok {
			delete(subs, c)
			close(c.send)
		}
		if len(subs) == 0 {
			delete(h.subscribers, c.facility)
		}
	}
}

// Publish queues ev for subscribers of its facility and for catch-all
// subscribers. It never blocks: a subscriber whose buffer is full misses
// the event.
func (h *Hub) Publish(ev domain.ScheduleEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws_publish_failed type=%s error=%v", ev.Type, err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, key := range []domain.FacilityType{ev.Facility, ""} {
		for c := range h.subscribers[key] {
			select {
			case c.send <- data:
			default:
				log.Printf("ws_subscriber_slow facility=%q type=%s", c.facility, ev.Type)
			}
		}
		if ev.Facility == "" {
			break
		}
	}
}

// SubscriberCount returns the number of open connections.
func (h *Hub) SubscriberCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	n := 0
	for _, subs := range h.subscribers {
		n += len(subs)
	}
	return n
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for facility, subs := range h.subscribers {
		for c := range subs {
			close(c.send)
		}
		delete(h.subscribers, facility)
	}
}

func (h *Hub) writePump(c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
