// Package gateway runs practice boards over WebSocket. Each connection owns
// one session and, optionally, a robot table filling the other seats.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"bridge-lite/internal/api"
	"bridge-lite/internal/logging"
	"bridge-lite/robot"
	"bridge-lite/session"
)

const (
	readLimit    = 65536
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to the UI origin once it is served separately
	},
}

// Connection is one WebSocket client. sess and table are only touched by
// the read loop.
type Connection struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	Gateway  *Gateway
	LastPing time.Time

	sess  *session.Session
	table *robot.Table
}

// Gateway manages WebSocket connections.
type Gateway struct {
	mu            sync.RWMutex
	connections   map[string]*Connection
	rec           *api.Recommender
	defaultSystem string
	logger        *zap.Logger
}

func New(rec *api.Recommender, defaultSystem string, logger *zap.Logger) *Gateway {
	logger = logging.Or(logger)
	return &Gateway{
		connections:   make(map[string]*Connection),
		rec:           rec,
		defaultSystem: defaultSystem,
		logger:        logger,
	}
}

// HandleWebSocket upgrades the request and starts the connection pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	c := g.newConnection(conn)

	g.mu.Lock()
	g.connections[c.ID] = c
	total := len(g.connections)
	g.mu.Unlock()
	g.logger.Info("client connected", zap.String("conn", c.ID), zap.Int("total", total))

	go c.readPump()
	go c.writePump()
}

func (g *Gateway) newConnection(conn *websocket.Conn) *Connection {
	return &Connection{
		ID:       uuid.NewString(),
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Gateway:  g,
		LastPing: time.Now(),
	}
}

// Count returns the number of open connections.
func (g *Gateway) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	total := len(g.connections)
	g.mu.Unlock()
	g.logger.Info("client disconnected", zap.String("conn", c.ID), zap.Int("total", total))
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		close(c.Send)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(readLimit)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.LastPing = time.Now()
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Gateway.logger.Warn("read failed", zap.String("conn", c.ID), zap.Error(err))
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleMessage(context.Background(), message)
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// send queues v; a full queue drops the message.
func (c *Connection) send(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.Gateway.logger.Error("marshal outbound message", zap.Error(err))
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Gateway.logger.Warn("send queue full, dropping message", zap.String("conn", c.ID))
	}
}
