package events

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"stadium/internal/domain"
	"stadium/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts connections from allowedOrigins, or from any origin
// when the list is empty.
func NewHandler(hub *Hub, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/schedule", h.Subscribe)
}

// Subscribe upgrades to a websocket that receives schedule events.
//
// Endpoint: GET /ws/schedule?facility=track-6
func (h *Handler) Subscribe(c *gin.Context) {
	facility := domain.FacilityType(c.Query("facility"))
	if facility != "" {
		if _, ok := domain.Facility(facility); !ok {
			response.Error(c, http.StatusNotFound, "UNKNOWN_FACILITY", "Unknown facility")
			return
		}
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed client_ip=%s error=%v", c.ClientIP(), err)
		return
	}

	sub := newConn(facility, ws)
	h.hub.register(sub)
	log.Printf("ws_subscribed facility=%q client_ip=%s", facility, c.ClientIP())

	go h.hub.writePump(sub)
	defer func() {
		h.hub.unregister(sub)
		log.Printf("ws_unsubscribed facility=%q client_ip=%s", facility, c.ClientIP())
	}()

	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	// clients never send anything meaningful; reading drives pong handling
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws_read_error facility=%q error=%v", facility, err)
			}
			return
		}
	}
}
