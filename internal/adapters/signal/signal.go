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

	"github.com/avetrov/Tandem/internal/app"
	"github.com/avetrov/Tandem/internal/config"
	"github.com/avetrov/Tandem/internal/core"
	"github.com/avetrov/Tandem/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Hub *app.Coordinator

	cfg      *config.Config
	limiter  *EventRateLimiter
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, hub *app.Coordinator) *Controller {
	return &Controller{
		Hub:     hub,
		cfg:     cfg,
		limiter: NewEventRateLimiter(cfg.MsgRate, cfg.MsgInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if cfg.AllowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == cfg.AllowedOrigin
			},
		},
	}
}

// WsConn owns the outbound half of one websocket. All writes go through
// the buffered send channel so per-connection emission order is the
// order events were handled in.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
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

func (c *WsConn) Close() {
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

// HandleWS upgrades the request and brings one connection to life. Each
// transport link gets a fresh uuid; ids are never reused across
// reconnects. The session identity, when the cookie carries one, rides
// along as an opaque tag.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	id := domain.ConnID(uuid.NewString())
	identity := c.GetString("identity")
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("new WS connection")

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Hub.Connect(id, identity, conn)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}
