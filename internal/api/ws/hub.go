package ws

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/webdesk/internal/apps"
	"github.com/GriffinCanCode/webdesk/internal/domain/interaction"
	"github.com/GriffinCanCode/webdesk/internal/domain/window"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webdesk/internal/shared/id"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/GriffinCanCode/webdesk/internal/shared/utils"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer = 64
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the renderer may be served from another port
	},
}

// Message is a frame sent to clients
type Message struct {
	Type       string                 `json:"type"`
	Message    string                 `json:"message,omitempty"`
	Windows    []types.WindowInstance `json:"windows,omitempty"`
	ActiveID   string                 `json:"active_id,omitempty"`
	InstanceID string                 `json:"instance_id,omitempty"`
	View       any                    `json:"view,omitempty"`
	Result     *interaction.Result    `json:"result,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
}

// Hub fans window snapshots and app updates out to every connection and
// feeds pointer and chat input back into the desktop.
type Hub struct {
	windows *window.Manager
	pointer *interaction.Controller
	apps    *apps.Host
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	clients map[*client]struct{} // Protected by mu
	closed  bool                 // Protected by mu

	// controller pointer ids are hub-wide; each client maps its own onto them
	nextPointer atomic.Int64
}

// Option configures a Hub
type Option func(*Hub)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(h *Hub) { h.logger = l.Named("ws") }
}

// WithMetrics counts connections and frames
func WithMetrics(m *monitoring.Metrics) Option {
	return func(h *Hub) { h.metrics = m }
}

// NewHub creates a hub and subscribes it to window and app changes
func NewHub(windows *window.Manager, pointer *interaction.Controller, host *apps.Host, opts ...Option) *Hub {
	h := &Hub{
		windows: windows,
		pointer: pointer,
		apps:    host,
		logger:  zap.NewNop(),
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}

	windows.OnChange(func(snapshot []types.WindowInstance) {
		h.broadcast(snapshotMessage(snapshot))
	})
	host.OnUpdate(func(instanceID string) {
		view, err := host.View(instanceID)
		if err != nil {
			return
		}
		h.broadcast(Message{Type: "app_update", InstanceID: instanceID, View: view})
	})
	return h
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

// HandleConnection upgrades the request and serves the client until it leaves
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:       id.NewConnID().String(),
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		done:     make(chan struct{}),
		closing:  make(chan struct{}),
		pointers: make(map[int]int),
	}
	if !h.register(cl) {
		conn.Close()
		return
	}
	defer h.unregister(cl)

	cl.enqueue(Message{Type: "system", Message: "Connected to webdesk"})
	cl.enqueue(snapshotMessage(h.windows.Windows()))

	go cl.readLoop()
	cl.writeLoop()
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	h.logger.Debug("client connected", zap.String("conn_id", c.id))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.conn.Close()
	<-c.done
	for _, p := range c.pointers {
		h.pointer.Forget(p)
	}
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	h.logger.Debug("client disconnected", zap.String("conn_id", c.id))
}

// broadcast encodes msg once and queues it on every client. Slow clients
// miss frames rather than stall the sender.
func (h *Hub) broadcast(msg Message) {
	data, err := encode(msg)
	if err != nil {
		h.logger.Error("encode broadcast", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
			h.countOut(msg.Type)
		default:
			h.logger.Debug("dropping frame for slow client", zap.String("conn_id", c.id), zap.String("type", msg.Type))
		}
	}
}

func (h *Hub) countOut(msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage("out", msgType)
	}
}

func snapshotMessage(windows []types.WindowInstance) Message {
	msg := Message{Type: "snapshot", Windows: windows}
	if msg.Windows == nil {
		msg.Windows = []types.WindowInstance{}
	}
	if active, ok := window.Active(windows); ok {
		msg.ActiveID = active.InstanceID
	}
	return msg
}

func encode(msg Message) ([]byte, error) {
	msg.Timestamp = time.Now().Unix()
	return sonic.Marshal(msg)
}

type client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{} // closed when the read loop exits
	closing chan struct{} // closed when the write loop exits

	pointers map[int]int // client pointer id to controller id; read loop only until done
}

// pointerKey returns the controller pointer id for one of this client's
// pointers, allocating it on first use.
func (c *client) pointerKey(pointerID int) int {
	if key, ok := c.pointers[pointerID]; ok {
		return key
	}
	key := int(c.hub.nextPointer.Add(1))
	c.pointers[pointerID] = key
	return key
}

// enqueue queues a direct reply, waiting for room while the writer runs
func (c *client) enqueue(msg Message) {
	data, err := encode(msg)
	if err != nil {
		c.hub.logger.Error("encode reply", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	select {
	case c.send <- data:
		c.hub.countOut(msg.Type)
	case <-c.closing:
	}
}

func (c *client) error(text string) {
	c.enqueue(Message{Type: "error", Message: text})
}

func (c *client) readLoop() {
	defer close(c.done)

	c.conn.SetReadLimit(utils.MaxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.String("conn_id", c.id), zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			c.error("malformed message")
			continue
		}
		if c.hub.metrics != nil {
			c.hub.metrics.RecordWSMessage("in", msg.Type)
		}
		c.handle(msg)
	}
}

func (c *client) handle(msg types.WSMessage) {
	switch msg.Type {
	case "ping":
		c.enqueue(Message{Type: "pong"})
	case "pointer":
		if msg.Pointer == nil {
			c.error("pointer message without event")
			return
		}
		ev, ok := interaction.EventFrom(*msg.Pointer)
		if !ok {
			c.error("unknown pointer event kind: " + msg.Pointer.Kind)
			return
		}
		ev.PointerID = c.pointerKey(ev.PointerID)
		res := c.hub.pointer.Handle(ev)
		c.enqueue(Message{Type: "pointer_result", Result: &res})
	case "chat":
		if err := utils.ValidateMessage(msg.Message); err != nil {
			c.error(err.Error())
			return
		}
		session, err := c.hub.apps.Chat(msg.InstanceID)
		if err != nil {
			c.error(err.Error())
			return
		}
		if err := session.Send(msg.Message); err != nil {
			c.error(err.Error())
			return
		}
		c.enqueue(Message{Type: "app_update", InstanceID: msg.InstanceID, View: session.View()})
	default:
		c.error("unknown message type")
	}
}

// writeLoop is the only writer on the connection
func (c *client) writeLoop() {
	defer close(c.closing)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
