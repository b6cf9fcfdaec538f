package stats

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the games-played counter in a single-row table so
// the count survives process restarts.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the given DSN, verifies the connection and
// ensures the counter table exists.
func OpenPostgres(cfg Config) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return store, nil
}

func (p *PostgresStore) createTables() error {
	_, err := p.db.Exec(`CREATE TABLE IF NOT EXISTS game_stats (
		id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
		games_played BIGINT NOT NULL DEFAULT 0
	)`)
	return err
}

func (p *PostgresStore) IncrementGamesPlayed(ctx context.Context) error {
	query := `INSERT INTO game_stats (id, games_played) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET games_played = game_stats.games_played + 1`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to increment games played: %w", err)
	}
	return nil
}

func (p *PostgresStore) GamesPlayed(ctx context.Context) (int64, error) {
	var games int64
	err := p.db.QueryRowContext(ctx, `SELECT games_played FROM game_stats WHERE id = 1`).Scan(&games)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read games played: %w", err)
	}
	return games, nil
}

// Close releases the underlying connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
