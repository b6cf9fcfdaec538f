package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// State is a session's position in its lifecycle.
type State int

const (
	StateForming State = iota
	StateAwaitingReady
	StateRunning
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateForming:
		return "forming"
	case StateAwaitingReady:
		return "awaiting_ready"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EndReason says why a session ended.
type EndReason string

const (
	ReasonTimeUp        EndReason = "timeup"
	ReasonHazardTimeout EndReason = "hazard_timeout"
	ReasonDisconnect    EndReason = "disconnect"
)

// Completion is the summary handed to the end hook when a session closes.
type Completion struct {
	SessionID      uuid.UUID     `json:"session_id"`
	Reason         EndReason     `json:"reason"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
	HazardsCleared int           `json:"hazards_cleared"`
}

// Session owns exactly two participants, the authoritative countdown, and
// the single active hazard. All state transitions happen under one mutex;
// the tick loop, action dispatch and disconnect teardown are serialized
// against each other. Outbound sends are fire-and-forget so a slow client
// can never stall the clock.
type Session struct {
	id    uuid.UUID
	cfg   Config
	clock clockwork.Clock
	rng   *rand.Rand
	onEnd func(*Session, Completion)

	mu             sync.Mutex
	state          State
	p1, p2         *Participant
	remaining      time.Duration
	hazard         *Hazard
	hazardsCleared int
	loopStarted    bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSession pairs two participants under the given clock. The onEnd hook
// fires exactly once, after both participants are detached.
func NewSession(cfg Config, clock clockwork.Clock, rng *rand.Rand, p1, p2 *Participant, onEnd func(*Session, Completion)) *Session {
	return &Session{
		id:        uuid.New(),
		cfg:       cfg,
		clock:     clock,
		rng:       rng,
		onEnd:     onEnd,
		state:     StateForming,
		p1:        p1,
		p2:        p2,
		remaining: cfg.SessionLength,
		stopCh:    make(chan struct{}),
	}
}

// ID returns the session's identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the countdown's current value.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// ActiveHazard returns the live hazard, or nil.
func (s *Session) ActiveHazard() *Hazard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hazard
}

// Participants returns the two paired participants in slot order.
func (s *Session) Participants() (*Participant, *Participant) {
	return s.p1, s.p2
}

// Init moves the session from Forming to AwaitingReady: both participants
// are attached with distinct roles and cleared readiness, each receives
// its start notification, and the first readiness broadcast goes out.
func (s *Session) Init() {
	s.mu.Lock()
	if s.state != StateForming {
		s.mu.Unlock()
		return
	}
	s.state = StateAwaitingReady

	s.p1.attach(s, s.p2, 1)
	s.p2.attach(s, s.p1, 2)
	s.p1.setRole(RoleUnassigned)
	s.p2.setRole(RoleUnassigned)
	s.p1.assignRole(s.p2, s.rng)
	s.p2.assignRole(s.p1, s.rng)

	s.p1.Send(Event{Type: EventStart, Payload: startPayloadLocked(s.p1)})
	s.p2.Send(Event{Type: EventStart, Payload: startPayloadLocked(s.p2)})
	s.broadcastReadinessLocked()
	s.mu.Unlock()

	log.Info().
		Str("session_id", s.id.String()).
		Str("p1_role", s.p1.Role().String()).
		Str("p2_role", s.p2.Role().String()).
		Msg("session formed, awaiting ready")
}

// UpdateReadyStatus rebroadcasts both readiness flags and, once both are
// true while awaiting, starts the countdown and announces gameon.
func (s *Session) UpdateReadyStatus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded || s.state == StateForming {
		return
	}

	s.broadcastReadinessLocked()

	if s.state != StateAwaitingReady || !s.p1.Ready() || !s.p2.Ready() {
		return
	}
	s.state = StateRunning
	if !s.loopStarted {
		s.loopStarted = true
		go s.run()
	}
	s.broadcastLocked(Event{Type: EventGameOn})
	log.Info().
		Str("session_id", s.id.String()).
		Dur("session_length", s.cfg.SessionLength).
		Dur("tick_rate", s.cfg.TickRate).
		Msg("both participants ready, countdown running")
}

// run is the session's tick loop. One goroutine per session; it exits when
// the session ends.
func (s *Session) run() {
	ticker := s.clock.NewTicker(s.cfg.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.Chan():
			s.Tick()
		case <-s.stopCh:
			return
		}
	}
}

// Tick advances the countdown by one tick: decrement and clamp, spawn roll
// or timeout check on the active hazard, then broadcast the remaining time.
// No-op unless the session is Running.
func (s *Session) Tick() {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()

	s.remaining -= s.cfg.TickRate
	if s.remaining <= 0 {
		s.remaining = 0
		s.mu.Unlock()
		log.Info().Str("session_id", s.id.String()).Msg("countdown reached zero")
		s.End(ReasonTimeUp)
		return
	}

	if s.hazard == nil {
		s.rollForHazardLocked(now)
	} else if s.hazard.Expired(now) {
		expired := s.hazard
		s.hazard = nil
		log.Info().
			Str("session_id", s.id.String()).
			Str("hazard", expired.Kind.String()).
			Time("deadline", expired.Deadline()).
			Bool("warned", expired.WarnedAt != nil).
			Msg("hazard reaction window lapsed")
		if s.cfg.EndOnHazardTimeout {
			s.mu.Unlock()
			s.End(ReasonHazardTimeout)
			return
		}
	}

	s.broadcastLocked(Event{Type: EventTick, Payload: formatRemaining(s.remaining)})
	s.mu.Unlock()
}

// rollForHazardLocked draws the per-tick spawn roll and, on a hit, spawns
// a hazard and notifies only the observing role. The impacted participant
// is deliberately kept uninformed until its partner warns.
func (s *Session) rollForHazardLocked(now time.Time) {
	if s.rng.IntN(s.cfg.SpawnRange) != 0 {
		return
	}
	kind := randomHazardKind(s.rng)
	s.hazard = NewHazard(kind, now, s.cfg.ReactionWindow)

	observer := s.participantWithRoleLocked(kind.ObservedBy())
	if observer != nil {
		observer.Send(Event{Type: EventHazard, Payload: HazardPayload{
			Kind:        kind.String(),
			Description: kind.Description(),
			WindowMS:    s.cfg.ReactionWindow.Milliseconds(),
		}})
	}
	log.Debug().
		Str("session_id", s.id.String()).
		Str("hazard", kind.String()).
		Str("observed_by", kind.ObservedBy().String()).
		Str("impacts", kind.Impacts().String()).
		Msg("hazard spawned")
}

// RouteMessage applies a warning or reaction from sender against the
// active hazard, then forwards the signal to the partner regardless of
// whether it changed state, so the renderer always sees partner activity.
func (s *Session) RouteMessage(kind MsgKind, sender *Participant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded || s.state == StateForming {
		return
	}
	now := s.clock.Now()

	resolved := false
	if s.hazard != nil {
		switch kind {
		case MsgWarning:
			if sender.Role() == s.hazard.Kind.ObservedBy() {
				s.hazard.RecordWarning(now)
			}
		case MsgReaction:
			if sender.Role() == s.hazard.Kind.Impacts() && now.Before(s.hazard.Deadline()) {
				s.hazard.RecordReaction(now)
				s.hazard = nil
				s.hazardsCleared++
				resolved = true
			}
		}
	}

	partner := s.partnerOfLocked(sender)
	if partner != nil {
		partner.Send(Event{Type: EventMsg, Payload: MsgPayload{
			Kind:    kind,
			Message: messageText(kind, sender.Role()),
		}})
	}
	if resolved {
		s.broadcastLocked(Event{Type: EventAvoided})
		log.Info().
			Str("session_id", s.id.String()).
			Str("reacted_by", sender.Role().String()).
			Int("hazards_cleared", s.hazardsCleared).
			Msg("hazard avoided")
	}
}

// End tears the session down: idempotent, cancels the tick loop, clears
// the hazard, notifies and detaches both participants, then fires the end
// hook outside the session lock.
func (s *Session) End(reason EndReason) {
	s.mu.Lock()
	if s.state == StateEnded {
		s.mu.Unlock()
		return
	}
	s.state = StateEnded
	s.hazard = nil
	completion := Completion{
		SessionID:      s.id,
		Reason:         reason,
		Duration:       s.cfg.SessionLength - s.remaining,
		DurationMS:     (s.cfg.SessionLength - s.remaining).Milliseconds(),
		HazardsCleared: s.hazardsCleared,
	}
	s.mu.Unlock()

	s.stopOnce.Do(func() { close(s.stopCh) })

	for _, p := range []*Participant{s.p1, s.p2} {
		p.Send(Event{Type: EventEnd, Payload: EndPayload{Reason: string(reason)}})
		p.detach()
	}

	log.Info().
		Str("session_id", s.id.String()).
		Str("reason", string(reason)).
		Dur("duration", completion.Duration).
		Int("hazards_cleared", completion.HazardsCleared).
		Msg("session ended")

	if s.onEnd != nil {
		s.onEnd(s, completion)
	}
}

func (s *Session) broadcastLocked(ev Event) {
	s.p1.Send(ev)
	s.p2.Send(ev)
}

// broadcastReadinessLocked emits both flags in slot order; the client
// matches them against the id it was given at start time.
func (s *Session) broadcastReadinessLocked() {
	s.broadcastLocked(Event{Type: EventUsers, Payload: []bool{s.p1.Ready(), s.p2.Ready()}})
}

func (s *Session) participantWithRoleLocked(role Role) *Participant {
	if s.p1.Role() == role {
		return s.p1
	}
	if s.p2.Role() == role {
		return s.p2
	}
	return nil
}

func (s *Session) partnerOfLocked(p *Participant) *Participant {
	switch p {
	case s.p1:
		return s.p2
	case s.p2:
		return s.p1
	default:
		return nil
	}
}

func messageText(kind MsgKind, role Role) string {
	if kind == MsgWarning {
		return role.WarnPhrase()
	}
	return role.ReactPhrase()
}

func startPayloadLocked(p *Participant) StartPayload {
	role := p.Role()
	return StartPayload{ID: p.Number(), Role: role.String(), Title: role.Title()}
}

// formatRemaining renders the countdown as mm:ss:cc for the tick event.
func formatRemaining(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", ms/60000, (ms%60000)/1000, (ms%1000)/10)
}
