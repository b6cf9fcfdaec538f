package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/BenjaminWFox/certified-js13k/internal/game"
)

// Config holds WebSocket connection tuning.
type Config struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConfig returns the standard WebSocket settings.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  512,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			// Allow all origins in development - restrict in production
			return true
		},
	}
}

// Gateway accepts WebSocket connections and bridges them to the game core:
// each accepted socket becomes one participant admitted to the matchmaker,
// inbound action frames are dispatched to its session, and session events
// flow back out through a buffered per-connection send channel.
type Gateway struct {
	matchmaker *game.Matchmaker
	upgrader   websocket.Upgrader
	config     Config
}

// New creates a gateway in front of the given matchmaker.
func New(matchmaker *game.Matchmaker, config Config) *Gateway {
	return &Gateway{
		matchmaker: matchmaker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config: config,
	}
}

// HandleConnection upgrades an HTTP request and admits the client.
func (g *Gateway) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	conn := newConn(g, ws)
	conn.participant = game.NewParticipant(conn)

	go conn.writePump()

	// Admit before reading from the socket: readPump's teardown releases
	// the participant, and a client that drops the instant the upgrade
	// completes must not release itself before it is registered.
	g.matchmaker.Admit(conn.participant)
	go conn.readPump()

	log.Info().
		Str("participant_id", conn.participant.ID.String()).
		Str("remote_addr", ws.RemoteAddr().String()).
		Msg("client connected")
}
