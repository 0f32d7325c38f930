package app

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"

	"github.com/haierkeys/fast-drive-service/pkg/code"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second

	sessionKeyClient = "client"
)

// WSConfig configures the websocket server.
type WSConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
	// OnCountChange is called with +1 / -1 whenever a client joins or leaves.
	OnCountChange func(delta int)
}

// WebsocketClient is one authenticated feed connection.
type WebsocketClient struct {
	conn    *gws.Conn
	done    chan struct{}
	once    sync.Once
	User    *UserEntity
	TraceID string
}

func (c *WebsocketClient) close() {
	c.once.Do(func() { close(c.done) })
}

// pingLoop 定期发送 Ping 消息
func (c *WebsocketClient) pingLoop(interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				logger.Debug("WebsocketServer ping failed", zap.Int64("uid", c.User.UID), zap.Error(err))
				return
			}
		}
	}
}

// WebsocketServer fans messages out to the connections of each user. It only
// pushes; inbound text other than pings is ignored.
type WebsocketServer struct {
	config  WSConfig
	logger  *zap.Logger
	up      *gws.Upgrader
	mu      sync.RWMutex
	clients map[int64]map[*gws.Conn]*WebsocketClient
}

func NewWebsocketServer(c WSConfig, logger *zap.Logger) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WebsocketServer{
		config:  c,
		logger:  logger,
		clients: make(map[int64]map[*gws.Conn]*WebsocketClient),
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Run upgrades an authenticated request. It must sit behind the user auth
// middleware.
func (w *WebsocketServer) Run(traceID func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			NewResponse(c).ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Warn("WebsocketServer upgrade failed", zap.Error(err))
			return
		}
		client := &WebsocketClient{conn: socket, done: make(chan struct{}), User: user}
		if traceID != nil {
			client.TraceID = traceID(c)
		}
		socket.Session().Store(sessionKeyClient, client)
		w.add(client)

		go client.pingLoop(w.config.PingInterval, w.logger)
		go socket.ReadLoop()
	}
}

func (w *WebsocketServer) add(c *WebsocketClient) {
	w.mu.Lock()
	conns := w.clients[c.User.UID]
	if conns == nil {
		conns = make(map[*gws.Conn]*WebsocketClient)
		w.clients[c.User.UID] = conns
	}
	conns[c.conn] = c
	n := len(conns)
	w.mu.Unlock()

	if w.config.OnCountChange != nil {
		w.config.OnCountChange(1)
	}
	w.logger.Info("WebsocketServer user enters", zap.Int64("uid", c.User.UID), zap.Int("count", n), zap.String("traceId", c.TraceID))
}

func (w *WebsocketServer) remove(c *WebsocketClient) {
	w.mu.Lock()
	conns := w.clients[c.User.UID]
	_, existed := conns[c.conn]
	delete(conns, c.conn)
	if len(conns) == 0 {
		delete(w.clients, c.User.UID)
	}
	w.mu.Unlock()

	if existed && w.config.OnCountChange != nil {
		w.config.OnCountChange(-1)
	}
}

// Count returns the open connections of uid.
func (w *WebsocketServer) Count(uid int64) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients[uid])
}

// Broadcast writes payload as a text frame to every connection of uid and
// returns how many were attempted.
func (w *WebsocketServer) Broadcast(uid int64, payload []byte) int {
	w.mu.RLock()
	conns := make([]*gws.Conn, 0, len(w.clients[uid]))
	for conn := range w.clients[uid] {
		conns = append(conns, conn)
	}
	w.mu.RUnlock()
	if len(conns) == 0 {
		return 0
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()
	for _, conn := range conns {
		_ = b.Broadcast(conn)
	}
	return len(conns)
}

func clientOf(conn *gws.Conn) *WebsocketClient {
	v, ok := conn.Session().Load(sessionKeyClient)
	if !ok {
		return nil
	}
	c, _ := v.(*WebsocketClient)
	return c
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	c := clientOf(conn)
	if c == nil {
		return
	}
	c.close()
	w.remove(c)
	w.logger.Info("WebsocketServer user leave", zap.Int64("uid", c.User.UID), zap.NamedError("reason", err))
}

func (w *WebsocketServer) OnPing(conn *gws.Conn, payload []byte) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = conn.WritePong(nil)
}

func (w *WebsocketServer) OnPong(conn *gws.Conn, payload []byte) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
	if message.Opcode != gws.OpcodeText {
		return
	}
	switch message.Data.String() {
	case "close":
		conn.WriteClose(1000, []byte("ClientClose"))
	case "ping":
		_ = conn.WriteString("pong")
	}
}
