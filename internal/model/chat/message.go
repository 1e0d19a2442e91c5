package chat

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn on the completion wire. Ordering is
// conversation order; the first element of a history is always the system
// prompt.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Delta is one incremental text fragment of a streamed response. Deltas are
// transient: they are folded into the accumulator and never stored.
type Delta struct {
	Text string
}
