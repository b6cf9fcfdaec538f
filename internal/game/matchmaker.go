package game

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Matchmaker is the process-wide pairing authority. It owns the ordered
// registry of connected participants and the set of live sessions; all
// admission, pairing and release decisions are serialized under one mutex
// so two participants can never land in two sessions at once.
type Matchmaker struct {
	cfg   Config
	clock clockwork.Clock
	rng   *rand.Rand

	mu           sync.Mutex
	participants []*Participant
	sessions     map[uuid.UUID]*Session

	onCompletion func(Completion)
}

// NewMatchmaker builds an empty registry. The rng seeds every session's
// role and hazard draws.
func NewMatchmaker(cfg Config, clock clockwork.Clock, rng *rand.Rand) *Matchmaker {
	return &Matchmaker{
		cfg:      cfg,
		clock:    clock,
		rng:      rng,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// OnCompletion registers a hook fired for every session that finishes on
// gameplay terms (countdown or hazard timeout, not disconnect). Called
// outside the registry lock; set it before admitting participants.
func (m *Matchmaker) OnCompletion(fn func(Completion)) {
	m.onCompletion = fn
}

// Admit registers a newly connected participant and immediately tries to
// pair it with the first waiting partnerless participant.
func (m *Matchmaker) Admit(p *Participant) {
	m.mu.Lock()
	m.participants = append(m.participants, p)
	sess := m.pairLocked(p)
	waiting := m.waitingLocked()
	m.mu.Unlock()

	log.Info().
		Str("participant_id", p.ID.String()).
		Bool("paired", sess != nil).
		Int("waiting", waiting).
		Msg("participant admitted")
}

// Release drops a participant from the registry. If it was mid-session the
// session ends, the surviving partner is returned to the waiting pool, and
// pairing is re-attempted for it before Release returns.
func (m *Matchmaker) Release(p *Participant) {
	m.mu.Lock()
	m.removeLocked(p)
	m.mu.Unlock()

	// Ending outside the lock lets the session's end hook re-enter the
	// registry to drop the session and re-pair the survivor.
	if sess := p.Session(); sess != nil {
		sess.End(ReasonDisconnect)
	}

	log.Info().
		Str("participant_id", p.ID.String()).
		Msg("participant released")
}

// Waiting returns how many registered participants have no partner.
func (m *Matchmaker) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.waitingLocked()
}

// ActiveSessions returns the number of live sessions.
func (m *Matchmaker) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// pairLocked scans the registry in admission order for another partnerless
// participant and, if one exists, spins up a session for the two. Pairing
// is first-available: sessions are symmetric so scan order carries no bias.
func (m *Matchmaker) pairLocked(p *Participant) *Session {
	if p.Partner() != nil {
		return nil
	}
	for _, other := range m.participants {
		if other == p || other.Partner() != nil {
			continue
		}
		// Each session ticks on its own goroutine, so it gets a private
		// rng seeded from the registry's.
		rng := rand.New(rand.NewPCG(m.rng.Uint64(), m.rng.Uint64()))
		sess := NewSession(m.cfg, m.clock, rng, p, other, m.handleSessionEnd)
		m.sessions[sess.ID()] = sess
		sess.Init()
		return sess
	}
	return nil
}

// handleSessionEnd is every session's end hook: forget the session, try to
// re-pair whichever of its participants is still connected, then report
// gameplay completions.
func (m *Matchmaker) handleSessionEnd(s *Session, c Completion) {
	p1, p2 := s.Participants()

	m.mu.Lock()
	delete(m.sessions, s.ID())
	for _, p := range []*Participant{p1, p2} {
		if m.registeredLocked(p) {
			m.pairLocked(p)
		}
	}
	m.mu.Unlock()

	if c.Reason != ReasonDisconnect && m.onCompletion != nil {
		m.onCompletion(c)
	}
}

func (m *Matchmaker) removeLocked(p *Participant) {
	for i, other := range m.participants {
		if other == p {
			m.participants = append(m.participants[:i], m.participants[i+1:]...)
			return
		}
	}
}

func (m *Matchmaker) registeredLocked(p *Participant) bool {
	for _, other := range m.participants {
		if other == p {
			return true
		}
	}
	return false
}

func (m *Matchmaker) waitingLocked() int {
	n := 0
	for _, p := range m.participants {
		if p.Partner() == nil {
			n++
		}
	}
	return n
}
