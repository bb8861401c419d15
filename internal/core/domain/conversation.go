package domain

import "time"

// Role identifies the author of a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Title returns the role with its first letter capitalised, as used
// when formatting history into prompts ("User:", "Assistant:").
func (r Role) Title() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Turn is a single message within a session's conversation history.
type Turn struct {
	// Role is who authored the turn.
	Role Role

	// Content is the message text.
	Content string

	// Timestamp is when the turn was recorded.
	Timestamp time.Time
}
