package game

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
)

// Participant is one connected player's server-side state. It is created
// on connect, paired into sessions by the Matchmaker, and destroyed on
// disconnect. Session, partner and readiness are cleared whenever its
// session ends; the role is rerolled at each pairing.
type Participant struct {
	ID uuid.UUID

	mu      sync.Mutex
	number  int
	role    Role
	ready   bool
	session *Session
	partner *Participant
	sink    Sink
}

// NewParticipant wraps one connected client's outbound sink.
func NewParticipant(sink Sink) *Participant {
	return &Participant{
		ID:   uuid.New(),
		sink: sink,
	}
}

// Number is the participant's 1-based slot in its current session, or 0
// when unpaired. The client uses it to index the readiness broadcast.
func (p *Participant) Number() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.number
}

// Role returns the participant's current role.
func (p *Participant) Role() Role {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.role
}

// Ready reports whether the participant has readied up for its session.
func (p *Participant) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// SetReady flips the readiness flag.
func (p *Participant) SetReady(ready bool) {
	p.mu.Lock()
	p.ready = ready
	p.mu.Unlock()
}

// Session returns the participant's current session, or nil when waiting.
func (p *Participant) Session() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session
}

// Partner returns the paired participant, or nil when waiting.
func (p *Participant) Partner() *Participant {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.partner
}

// Send delivers an event to the participant's client. Nil sinks are
// tolerated so detached participants can be notified without checks.
func (p *Participant) Send(ev Event) {
	p.mu.Lock()
	sink := p.sink
	p.mu.Unlock()
	if sink != nil {
		sink.Send(ev)
	}
}

func (p *Participant) setRole(r Role) {
	p.mu.Lock()
	p.role = r
	p.mu.Unlock()
}

// assignRole gives the participant the complement of its partner's role,
// or a random role when the partner has none yet. Called once per pairing,
// so roles may change across sessions but never within one.
func (p *Participant) assignRole(partner *Participant, rng *rand.Rand) {
	role := RoleUnassigned
	if partner != nil {
		role = partner.Role().Complement()
	}
	if role == RoleUnassigned {
		role = randomRole(rng)
	}
	p.mu.Lock()
	p.role = role
	p.mu.Unlock()
}

// attach binds the participant into a session slot and resets readiness.
func (p *Participant) attach(s *Session, partner *Participant, number int) {
	p.mu.Lock()
	p.session = s
	p.partner = partner
	p.number = number
	p.ready = false
	p.mu.Unlock()
}

// detach clears all session state, returning the participant to the
// waiting pool's partnerless state.
func (p *Participant) detach() {
	p.mu.Lock()
	p.session = nil
	p.partner = nil
	p.number = 0
	p.ready = false
	p.mu.Unlock()
}
