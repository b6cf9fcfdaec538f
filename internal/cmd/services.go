package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/BenjaminWFox/certified-js13k/internal/events"
	"github.com/BenjaminWFox/certified-js13k/internal/game"
	"github.com/BenjaminWFox/certified-js13k/internal/gateway"
	"github.com/BenjaminWFox/certified-js13k/internal/stats"
)

type Services struct {
	Store      stats.Store
	Publisher  *events.Publisher
	Matchmaker *game.Matchmaker
	Gateway    *gateway.Gateway
}

// setupServices wires the stats store, event publisher, matchmaker and
// websocket gateway together. The returned cleanup releases external
// connections.
func setupServices(cfg *Config) (*Services, func(), error) {
	var store stats.Store = stats.NewMemoryStore()
	var pgStore *stats.PostgresStore
	if cfg.Database.Enabled {
		var err error
		pgStore, err = stats.OpenPostgres(stats.NewConfigFromEnv())
		if err != nil {
			return nil, nil, err
		}
		store = pgStore
		log.Info().Msg("stats store: postgres")
	} else {
		log.Info().Msg("stats store: in-memory")
	}

	var publisher *events.Publisher
	if cfg.NATS.Enabled {
		natsCfg := events.DefaultConfig()
		if cfg.NATS.URL != "" {
			natsCfg.URL = cfg.NATS.URL
		}
		if cfg.NATS.Subject != "" {
			natsCfg.Subject = cfg.NATS.Subject
		}
		var err error
		publisher, err = events.NewPublisher(natsCfg)
		if err != nil {
			if pgStore != nil {
				pgStore.Close()
			}
			return nil, nil, err
		}
		log.Info().Str("url", natsCfg.URL).Msg("session completion publisher connected")
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	matchmaker := game.NewMatchmaker(cfg.gameConfig(), clockwork.NewRealClock(), rng)
	matchmaker.OnCompletion(func(c game.Completion) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.IncrementGamesPlayed(ctx); err != nil {
			log.Error().Err(err).Msg("failed to record completed game")
		}
		if err := publisher.PublishCompletion(c); err != nil {
			log.Error().Err(err).Msg("failed to publish completed game")
		}
	})

	services := &Services{
		Store:      store,
		Publisher:  publisher,
		Matchmaker: matchmaker,
		Gateway:    gateway.New(matchmaker, gateway.DefaultConfig()),
	}

	cleanup := func() {
		publisher.Close()
		if pgStore != nil {
			pgStore.Close()
		}
	}
	return services, cleanup, nil
}
