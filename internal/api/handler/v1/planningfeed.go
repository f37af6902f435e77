package v1

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lbonnet/formatrack-api/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type feedClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// PlanningFeedHandler pushes seance schedule changes to connected planning
// views. The feed is one-way; client messages are read only to detect
// disconnects.
type PlanningFeedHandler struct {
	uSvc         UserService
	clients      map[uint]*feedClient
	clientsMutex sync.RWMutex
	broadcast    chan []byte
	register     chan *feedClient
	unregister   chan *feedClient
}

func NewPlanningFeedHandler(uSvc UserService) *PlanningFeedHandler {
	return &PlanningFeedHandler{
		uSvc:       uSvc,
		clients:    make(map[uint]*feedClient),
		broadcast:  make(chan []byte),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
	}
}

func (h *PlanningFeedHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client.userID] = client
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client.userID)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// PublishSeanceEvent satisfies the planning service's publisher. A marshal
// failure is logged and the event dropped; the schedule change itself has
// already been persisted.
func (h *PlanningFeedHandler) PublishSeanceEvent(event domain.SeanceEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("failed to marshal seance event", zap.Error(err))

		return
	}

	h.broadcast <- message
}

// HandleFeed godoc
// @Summary      Subscribe to the planning feed
// @Description  WebSocket stream of seance created/rescheduled/status_changed/deleted events
// @Tags         planning
// @Success      101 {string} string "Switching Protocols to WebSocket"
// @Failure      401 {object} response.Err
// @Router       /planning/feed [get]
// @Security     BearerAuth
func (h *PlanningFeedHandler) HandleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	user, respErr := getUserFromContext(c, h.uSvc)
	if respErr != nil {
		conn.Close()

		return
	}

	client := &feedClient{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: user.ID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *feedClient) readPump(h *PlanningFeedHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("planning feed client closed", zap.Error(err))
			}
			break
		}
	}
}
