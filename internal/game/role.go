package game

import "math/rand/v2"

// Role is the job a participant holds for the duration of one session.
// The two roles in a session are always complementary: whatever one
// participant observes, the other is impacted by.
type Role int

const (
	RoleUnassigned Role = iota
	RoleLineWorker
	RoleGroundWorker
)

// roleInfo is the data record backing a role: display title plus the
// phrases sent to the partner when the participant warns or reacts.
type roleInfo struct {
	Name        string
	Title       string
	WarnPhrase  string
	ReactPhrase string
}

var roleTable = map[Role]roleInfo{
	RoleLineWorker: {
		Name:        "line",
		Title:       "Line Worker",
		WarnPhrase:  "Heads up! Something's coming down the line!",
		ReactPhrase: "Clearing the line now!",
	},
	RoleGroundWorker: {
		Name:        "ground",
		Title:       "Ground Worker",
		WarnPhrase:  "Watch out down there!",
		ReactPhrase: "Getting clear of the tracks!",
	},
}

func (r Role) String() string {
	if info, ok := roleTable[r]; ok {
		return info.Name
	}
	return "unassigned"
}

// Title returns the human-readable job title for the role.
func (r Role) Title() string {
	return roleTable[r].Title
}

// WarnPhrase is the message text a participant of this role sends when warning.
func (r Role) WarnPhrase() string {
	return roleTable[r].WarnPhrase
}

// ReactPhrase is the message text a participant of this role sends when reacting.
func (r Role) ReactPhrase() string {
	return roleTable[r].ReactPhrase
}

// Complement returns the other role of the two-role set.
func (r Role) Complement() Role {
	switch r {
	case RoleLineWorker:
		return RoleGroundWorker
	case RoleGroundWorker:
		return RoleLineWorker
	default:
		return RoleUnassigned
	}
}

// randomRole draws one of the two assignable roles uniformly.
func randomRole(rng *rand.Rand) Role {
	if rng.IntN(2) == 0 {
		return RoleLineWorker
	}
	return RoleGroundWorker
}
