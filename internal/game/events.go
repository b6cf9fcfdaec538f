package game

// EventType identifies an outbound event pushed to a participant's client.
type EventType string

const (
	// EventStart carries the participant's number and role when a session forms.
	EventStart EventType = "start"
	// EventUsers carries both readiness flags, in participant order, to both sides.
	EventUsers EventType = "users"
	// EventGameOn signals both sides that the countdown is running.
	EventGameOn EventType = "gameon"
	// EventTick carries the remaining time string every tick.
	EventTick EventType = "tick"
	// EventHazard notifies only the observing role of a fresh hazard.
	EventHazard EventType = "hazard"
	// EventMsg forwards a partner's warning or reaction for rendering.
	EventMsg EventType = "msg"
	// EventAvoided tells both sides the active hazard was cleared in time.
	EventAvoided EventType = "avoided"
	// EventEnd tells both sides the session is over.
	EventEnd EventType = "end"
)

// Event is the envelope delivered to a participant's outbound sink.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// StartPayload is sent to each participant when its session forms.
type StartPayload struct {
	ID    int    `json:"id"`
	Role  string `json:"role"`
	Title string `json:"title"`
}

// HazardPayload describes a freshly spawned hazard to the observing role.
type HazardPayload struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	WindowMS    int64  `json:"window_ms"`
}

// MsgKind distinguishes the two partner-to-partner signal types.
type MsgKind string

const (
	MsgWarning  MsgKind = "warning"
	MsgReaction MsgKind = "reaction"
)

// MsgPayload is a partner's signal, forwarded verbatim for rendering.
type MsgPayload struct {
	Kind    MsgKind `json:"type"`
	Message string  `json:"message"`
}

// EndPayload carries the reason a session ended.
type EndPayload struct {
	Reason string `json:"reason"`
}

// Sink receives events bound for one participant's client. Implementations
// must not block: the session tick loop treats sends as fire-and-forget.
type Sink interface {
	Send(ev Event)
}
