// internal/api/websocket.go
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/meditrain/simstudio/internal/metrics"
	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/studio"
	"github.com/meditrain/simstudio/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The studio is served same-origin; dev servers connect cross-origin.
		return true
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WSMessage is the frame exchanged with studio clients.
type WSMessage struct {
	Type       string          `json:"type"`
	ScenarioID string          `json:"scenario_id,omitempty"`
	ClientID   string          `json:"client_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// wsClient is one connected studio tab. Each tab owns an editing session
// over the scenario document, so hover highlights, the highlight lock,
// selection panels and drag state live per connection.
type wsClient struct {
	hub        *WSHub
	conn       *websocket.Conn
	scenarioID string
	clientID   string
	session    *studio.Session
	send       chan []byte
}

// WSHub groups clients by scenario so document updates reach every tab
// editing the same scenario and nobody else.
type WSHub struct {
	rooms      map[string]map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	mu         sync.RWMutex
	logger     *utils.Logger
}

// NewWSHub creates the hub and starts its event loop.
func NewWSHub() *WSHub {
	hub := &WSHub{
		rooms:      make(map[string]map[*wsClient]bool),
		register:   make(chan *wsClient, 64),
		unregister: make(chan *wsClient, 64),
		logger:     utils.GetLogger(),
	}
	go hub.run()
	return hub
}

func (h *WSHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.scenarioID] == nil {
				h.rooms[client.scenarioID] = make(map[*wsClient]bool)
			}
			h.rooms[client.scenarioID][client] = true
			h.mu.Unlock()
			metrics.WebsocketSessions.Inc()
			h.BroadcastPresence(client.scenarioID)

		case client := <-h.unregister:
			// A client can be unregistered twice: once by a slow-client
			// drop in Broadcast and once by its read loop exiting. The
			// gauge and presence only move on the first removal.
			h.mu.Lock()
			removed := false
			if room, ok := h.rooms[client.scenarioID]; ok {
				if _, ok := room[client]; ok {
					delete(room, client)
					close(client.send)
					removed = true
					if len(room) == 0 {
						delete(h.rooms, client.scenarioID)
					}
				}
			}
			h.mu.Unlock()
			if removed {
				metrics.WebsocketSessions.Dec()
				h.BroadcastPresence(client.scenarioID)
			}
		}
	}
}

// Broadcast sends a message to every client in the scenario's room. Clients
// too slow to drain their queue are dropped rather than blocking the hub.
func (h *WSHub) Broadcast(scenarioID string, msg WSMessage) {
	msg.ScenarioID = scenarioID
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("marshal ws message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[scenarioID] {
		select {
		case client.send <- data:
		default:
			go func(c *wsClient) { h.unregister <- c }(client)
		}
	}
}

// BroadcastDocumentUpdated tells a scenario's room that the document
// changed; payload carries the new document. Connected sessions are
// replaced with the saved document first, so a stale session cannot
// resurrect pre-save state.
func (h *WSHub) BroadcastDocumentUpdated(scenarioID string, doc models.ScenarioData) {
	h.mu.RLock()
	for client := range h.rooms[scenarioID] {
		if client.session != nil {
			client.session.Replace(doc)
		}
	}
	h.mu.RUnlock()

	payload, err := json.Marshal(doc)
	if err != nil {
		h.logger.Errorf("marshal document update: %v", err)
		return
	}
	h.Broadcast(scenarioID, WSMessage{Type: "document_updated", Payload: payload})
}

// BroadcastPresence tells a room how many editors it currently has.
func (h *WSHub) BroadcastPresence(scenarioID string) {
	h.mu.RLock()
	count := len(h.rooms[scenarioID])
	h.mu.RUnlock()

	payload, _ := json.Marshal(map[string]int{"editors": count})
	h.Broadcast(scenarioID, WSMessage{Type: "presence", Payload: payload})
}

// HandleWebSocket upgrades GET /ws/scenarios/:id to a websocket connection
// joined to that scenario's room, with an editing session seeded from the
// stored document. Unknown scenarios are rejected before the upgrade.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	sc, err := h.scenarios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.logger.Warnf("websocket upgrade: %v", err)
		return
	}

	client := &wsClient{
		hub:        h.hub,
		conn:       conn,
		scenarioID: sc.ID,
		clientID:   c.Query("client_id"),
		session:    studio.NewSession(sc.Data),
		send:       make(chan []byte, 64),
	}
	h.hub.register <- client

	go client.writeLoop()
	go client.readLoop()
}

func (c *wsClient) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		c.handleMessage(msg)
	}
}

// selectionPayload addresses an event or task inside the document.
type selectionPayload struct {
	StateID string `json:"state_id"`
	EventID string `json:"event_id"`
	TodoID  string `json:"todo_id"`
}

type dragBeginPayload struct {
	ContainerID string  `json:"container_id"`
	SectionID   string  `json:"section_id"`
	UID         string  `json:"uid"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

type dragMovePayload struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	ContainerWidth  float64 `json:"container_width"`
	ContainerHeight float64 `json:"container_height"`
}

// handleMessage routes one inbound frame. Cursor and drag previews relay
// straight to the other tabs; hover, lock, panel and drag frames drive this
// client's editing session. The document itself only changes through the
// HTTP API.
func (c *wsClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "cursor", "drag_preview", "selection":
		msg.ClientID = c.clientID
		c.hub.Broadcast(c.scenarioID, msg)
		return
	}
	if c.session == nil {
		return
	}

	switch msg.Type {
	case "hover":
		var p selectionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		switch {
		case p.TodoID != "":
			c.session.HoverTodo(p.StateID, p.EventID, p.TodoID)
		case p.EventID != "":
			c.session.HoverEvent(p.StateID, p.EventID)
		default:
			c.session.ClearHover()
		}
		c.replyHighlights()

	case "toggle_highlight_lock":
		targets, _ := c.session.Highlights()
		c.session.ToggleLock(targets)
		c.replyHighlights()

	case "open_event":
		var p selectionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.session.OpenEvent(p.StateID, p.EventID)

	case "open_todo":
		var p selectionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.session.OpenTodo(p.StateID, p.EventID, p.TodoID)

	case "open_dialogue":
		var p selectionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.session.OpenDialogue(p.StateID, p.EventID)

	case "close_panels":
		c.session.CloseSelections()

	case "drag_begin":
		var p dragBeginPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.session.BeginDrag(p.ContainerID, p.SectionID, p.UID, p.X, p.Y)

	case "drag_move":
		var p dragMovePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		_, result := c.session.MoveDrag(p.X, p.Y, p.ContainerWidth, p.ContainerHeight)
		if result.Colliding {
			metrics.PlacementCollisions.Inc()
		}
		payload, _ := json.Marshal(result)
		c.reply(WSMessage{Type: "drag_state", Payload: payload})

	case "drag_end":
		c.session.EndDrag()
	}
}

func (c *wsClient) replyHighlights() {
	targets, locked := c.session.Highlights()
	payload, _ := json.Marshal(map[string]interface{}{"targets": targets, "locked": locked})
	c.reply(WSMessage{Type: "highlights", Payload: payload})
}

// reply queues a frame for this client only, dropping it when the client is
// too slow to drain its queue.
func (c *wsClient) reply(msg WSMessage) {
	msg.ScenarioID = c.scenarioID
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *wsClient) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
