package game

import "github.com/rs/zerolog/log"

// Action is one of the three inputs a client can send.
type Action string

const (
	ActionReady Action = "ready"
	ActionWarn  Action = "warn"
	ActionReact Action = "react"
)

// Dispatch routes a participant's inbound action to its session. Unknown
// actions, and actions arriving while the participant has no session, are
// dropped without any state change.
func Dispatch(p *Participant, action Action) {
	sess := p.Session()
	if sess == nil {
		log.Debug().
			Str("participant_id", p.ID.String()).
			Str("action", string(action)).
			Msg("dropping action from participant with no session")
		return
	}

	switch action {
	case ActionReady:
		p.SetReady(true)
		sess.UpdateReadyStatus()
	case ActionWarn:
		sess.RouteMessage(MsgWarning, p)
	case ActionReact:
		sess.RouteMessage(MsgReaction, p)
	default:
		log.Debug().
			Str("participant_id", p.ID.String()).
			Str("action", string(action)).
			Msg("dropping unknown action")
	}
}
