package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/chatline/chatline/internal/core"
	"github.com/chatline/chatline/internal/domain"
)

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.Cfg.WriteTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the connection until the transport drops, for whatever
// reason. Teardown is unconditional: unregister from presence, re-broadcast
// the online set, close the socket. A reconnecting client starts from
// scratch; there is no resume.
func (ctl *Controller) readPump(ctx context.Context, cancel context.CancelFunc, uid domain.UserID, connID core.ConnID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("uid", string(uid)).Str("conn", string(connID)).Msg("readPump closing")
		cancel()
		c.Close()
		ctl.Relay.Detach(uid, connID)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("uid", string(uid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "signal").Str("uid", string(uid)).Msg("readPump read error")
				return
			}
			ctl.handleSignal(uid, data)
		}
	}
}

func (ctl *Controller) handleSignal(uid domain.UserID, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "call-user":
		ctl.handleCallUser(uid, data)
	case "answer-call":
		ctl.handleAnswerCall(uid, data)
	case "ice-candidate":
		ctl.handleCandidate(uid, data)
	case "end-call":
		ctl.handleEndCall(uid, data)
	case "reject-call":
		ctl.handleRejectCall(uid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
	}
}
