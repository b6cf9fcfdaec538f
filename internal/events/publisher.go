// Package events publishes session lifecycle events to NATS for external
// consumers (stats dashboards, replay collectors). Publishing is optional;
// a nil publisher is a no-op so the game core never has to care.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/BenjaminWFox/certified-js13k/internal/game"
)

// Config holds NATS connection settings.
type Config struct {
	URL           string
	Subject       string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultConfig returns the standard NATS settings.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Subject:       "certified.sessions.completed",
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

// Publisher emits one message per completed session.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher connects to NATS with reconnect handling.
func NewPublisher(cfg Config) (*Publisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return &Publisher{nc: nc, subject: cfg.Subject}, nil
}

// PublishCompletion sends a session completion. Safe on a nil receiver.
func (p *Publisher) PublishCompletion(c game.Completion) error {
	if p == nil {
		return nil
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal completion: %w", err)
	}
	if err := p.nc.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish completion: %w", err)
	}
	log.Debug().
		Str("subject", p.subject).
		Str("session_id", c.SessionID.String()).
		Msg("published session completion")
	return nil
}

// Close drains and closes the connection. Safe on a nil receiver.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		log.Warn().Err(err).Msg("failed to drain NATS connection")
	}
}
