package game

import (
	"math/rand/v2"
	"time"
)

// HazardKind identifies one of the threats a session can spawn.
type HazardKind int

const (
	HazardPowerSurge HazardKind = iota
	HazardFreightTrain
)

// hazardInfo is the data record backing a hazard kind. ObservedBy is the
// role that can see the hazard coming and must warn; Impacts is the role
// that must react before the deadline.
type hazardInfo struct {
	Name        string
	Description string
	ObservedBy  Role
	Impacts     Role
}

var hazardTable = map[HazardKind]hazardInfo{
	HazardPowerSurge: {
		Name:        "power_surge",
		Description: "A power surge is travelling down the line!",
		ObservedBy:  RoleGroundWorker,
		Impacts:     RoleLineWorker,
	},
	HazardFreightTrain: {
		Name:        "freight_train",
		Description: "A freight train is barreling toward the crossing!",
		ObservedBy:  RoleLineWorker,
		Impacts:     RoleGroundWorker,
	},
}

func (k HazardKind) String() string {
	return hazardTable[k].Name
}

// Description returns the renderer-facing text for the hazard kind.
func (k HazardKind) Description() string {
	return hazardTable[k].Description
}

// ObservedBy returns the role that receives the spawn notification.
func (k HazardKind) ObservedBy() Role {
	return hazardTable[k].ObservedBy
}

// Impacts returns the role that must react to clear the hazard.
func (k HazardKind) Impacts() Role {
	return hazardTable[k].Impacts
}

// randomHazardKind draws one of the hazard kinds uniformly.
func randomHazardKind(rng *rand.Rand) HazardKind {
	if rng.IntN(2) == 0 {
		return HazardPowerSurge
	}
	return HazardFreightTrain
}

// Hazard is a single spawned threat. A session holds at most one live
// Hazard at a time; it is cleared on a successful in-window reaction or
// discarded when the reaction window expires.
type Hazard struct {
	Kind           HazardKind
	SpawnedAt      time.Time
	ReactionWindow time.Duration

	// Timing stamps, each set at most once and never before SpawnedAt.
	WarnedAt  *time.Time
	ReactedAt *time.Time
}

// NewHazard spawns a hazard of the given kind at now.
func NewHazard(kind HazardKind, now time.Time, window time.Duration) *Hazard {
	return &Hazard{
		Kind:           kind,
		SpawnedAt:      now,
		ReactionWindow: window,
	}
}

// Deadline is the instant after which a reaction no longer counts.
func (h *Hazard) Deadline() time.Time {
	return h.SpawnedAt.Add(h.ReactionWindow)
}

// Expired reports whether the reaction window has elapsed without a
// reaction recorded in time.
func (h *Hazard) Expired(now time.Time) bool {
	if h.ReactedInTime() {
		return false
	}
	return now.After(h.Deadline())
}

// RecordWarning stamps WarnedAt once. Later warnings are ignored.
func (h *Hazard) RecordWarning(now time.Time) {
	if h.WarnedAt != nil || now.Before(h.SpawnedAt) {
		return
	}
	t := now
	h.WarnedAt = &t
}

// RecordReaction stamps ReactedAt once and reports whether the reaction
// landed inside the window.
func (h *Hazard) RecordReaction(now time.Time) bool {
	if h.ReactedAt == nil && !now.Before(h.SpawnedAt) {
		t := now
		h.ReactedAt = &t
	}
	return h.ReactedInTime()
}

// ReactedInTime reports whether a reaction was recorded strictly before
// the deadline.
func (h *Hazard) ReactedInTime() bool {
	return h.ReactedAt != nil && h.ReactedAt.Before(h.Deadline())
}
