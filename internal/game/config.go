package game

import "time"

// Config holds the tunables for one session's clock and hazard machine.
type Config struct {
	// TickRate is the authoritative clock's update interval.
	TickRate time.Duration
	// SessionLength is the shared countdown both participants play against.
	SessionLength time.Duration
	// ReactionWindow is how long the impacted role has to react to a hazard.
	ReactionWindow time.Duration
	// SpawnRange sets the per-tick hazard odds: each tick with no active
	// hazard draws a uniform integer in [1, SpawnRange] and spawns on 1.
	SpawnRange int
	// EndOnHazardTimeout ends the session when a hazard's reaction window
	// lapses. When false the missed hazard is logged and play continues.
	EndOnHazardTimeout bool
}

// DefaultConfig returns the standard game parameters.
func DefaultConfig() Config {
	return Config{
		TickRate:           50 * time.Millisecond,
		SessionLength:      60 * time.Second,
		ReactionWindow:     5 * time.Second,
		SpawnRange:         100,
		EndOnHazardTimeout: true,
	}
}
