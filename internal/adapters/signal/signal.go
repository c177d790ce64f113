package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/chatline/chatline/internal/app"
	"github.com/chatline/chatline/internal/auth"
	"github.com/chatline/chatline/internal/config"
	"github.com/chatline/chatline/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller owns the WebSocket surface: one connection per authenticated
// client, upgraded after the auth middleware has attached an identity.
type Controller struct {
	Relay *app.Relay
	Cfg   *config.Config

	upgrader websocket.Upgrader
}

func NewController(relay *app.Relay, cfg *config.Config) *Controller {
	ctl := &Controller{Relay: relay, Cfg: cfg}
	ctl.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if cfg.ClientOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == cfg.ClientOrigin
		},
	}
	return ctl
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and brings the connection to its active
// state: registered in presence, online set broadcast, pumps running. The
// connection id is minted here and lives exactly as long as the socket.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	cred, ok := auth.Identity(c)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	connID := core.ConnID(uuid.NewString())
	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.Cfg.SendBuffer),
	}
	log.Info().Str("module", "signal").Str("uid", string(cred.UserID)).Str("conn", string(connID)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	ctl.Relay.Attach(cred.User(), connID, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, cred.UserID, connID, conn)
}
