package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Skufu/vitalrisk/internal/triage"
)

// EmergencyMessage is the banner text pushed with every emergency.
const EmergencyMessage = "EMERGENCY: Critical vital signs detected. Immediate medical attention required!"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

type Alert struct {
	SessionID string           `json:"sessionId"`
	Message   string           `json:"message"`
	Disease   triage.Disease   `json:"disease"`
	RiskLevel triage.RiskLevel `json:"riskLevel"`
	RiskScore int              `json:"riskScore"`
	Alerts    []string         `json:"alerts"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewEmergency builds the alert for an emergency prediction.
func NewEmergency(sessionID string, r triage.PredictionResult, at time.Time) Alert {
	return Alert{
		SessionID: sessionID,
		Message:   EmergencyMessage,
		Disease:   r.Disease,
		RiskLevel: r.RiskLevel,
		RiskScore: r.RiskScore,
		Alerts:    append([]string{}, r.Alerts...),
		Timestamp: at.UTC(),
	}
}

// Hub fans emergency alerts out to websocket subscribers. A subscriber that
// names a session only receives alerts for that session.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan Alert
	done       chan struct{}
	mu         sync.RWMutex
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Alert, sendBuffer),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "alerts").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.log.Debug().Str("session_id", c.sessionID).Msg("subscriber registered")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case a := <-h.broadcast:
			msg, err := json.Marshal(a)
			if err != nil {
				h.log.Error().Err(err).Msg("marshal alert")
				continue
			}
			h.mu.Lock()
			for c := range h.clients {
				if c.sessionID != "" && c.sessionID != a.SessionID {
					continue
				}
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a for delivery. It never blocks; a full queue drops the alert.
func (h *Hub) Publish(a Alert) {
	select {
	case h.broadcast <- a:
	default:
		h.log.Warn().Str("session_id", a.SessionID).Msg("alert queue full, dropping alert")
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and subscribes it. The optional
// session_id query parameter filters alerts.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: r.URL.Query().Get("session_id"),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Msg("websocket read")
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.log.Warn().Err(err).Msg("websocket write")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
