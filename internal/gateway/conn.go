package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/BenjaminWFox/certified-js13k/internal/game"
)

// actionFrame is the single inbound message shape:
// {"action": "ready" | "warn" | "react"}.
type actionFrame struct {
	Action string `json:"action"`
}

// conn is one client's transport. It implements game.Sink: sends are
// buffered and never block, and a client that stops draining its buffer
// is closed rather than allowed to stall a session's tick loop.
type conn struct {
	gateway     *Gateway
	ws          *websocket.Conn
	send        chan []byte
	done        chan struct{}
	participant *game.Participant

	closeOnce sync.Once
}

func newConn(g *Gateway, ws *websocket.Conn) *conn {
	return &conn{
		gateway: g,
		ws:      ws,
		send:    make(chan []byte, g.config.SendBufferSize),
		done:    make(chan struct{}),
	}
}

// Send queues an event for the client. Fire-and-forget: a full buffer
// means the client is too slow and the connection is dropped.
func (c *conn) Send(ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", string(ev.Type)).Msg("failed to marshal event")
		return
	}
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		log.Warn().
			Str("participant_id", c.participant.ID.String()).
			Str("event", string(ev.Type)).
			Msg("send buffer full, closing connection")
		c.close()
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// writePump drains the send buffer onto the socket and keeps the
// connection alive with pings.
func (c *conn) writePump() {
	ticker := time.NewTicker(c.gateway.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(c.gateway.config.WriteTimeout))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.gateway.config.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug().Err(err).Msg("failed to write message to WebSocket")
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.gateway.config.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump parses inbound action frames and dispatches them. When the
// socket drops for any reason the participant is released, which ends its
// session and requeues the partner.
func (c *conn) readPump() {
	defer func() {
		c.close()
		c.gateway.matchmaker.Release(c.participant)
		c.ws.Close()
		log.Info().
			Str("participant_id", c.participant.ID.String()).
			Msg("client disconnected")
	}()

	c.ws.SetReadLimit(c.gateway.config.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.gateway.config.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.gateway.config.ReadTimeout))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("unexpected WebSocket close")
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(c.gateway.config.ReadTimeout))

		var frame actionFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			log.Debug().
				Str("participant_id", c.participant.ID.String()).
				Msg("dropping malformed action frame")
			continue
		}
		game.Dispatch(c.participant, game.Action(frame.Action))
	}
}
