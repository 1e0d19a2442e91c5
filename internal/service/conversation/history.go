package conversation

import "github.com/plottwist/yngo/backend/internal/model/chat"

// History is the ordered, append-only log of turns owned by a single session.
// Index 0 is always the system prompt; it survives every operation except a
// re-seed. History does no validation of content; any string is accepted.
type History struct {
	turns []chat.Message
}

// NewHistory seeds a history with the system prompt.
func NewHistory(systemPrompt string) *History {
	return &History{
		turns: []chat.Message{{Role: chat.RoleSystem, Content: systemPrompt}},
	}
}

// Append adds a turn at the end of the log.
func (h *History) Append(role chat.Role, content string) {
	h.turns = append(h.turns, chat.Message{Role: role, Content: content})
}

// Reset truncates the log back to the system prompt.
func (h *History) Reset() {
	h.turns = h.turns[:1]
}

// Snapshot returns a copy of the log in conversation order.
func (h *History) Snapshot() []chat.Message {
	out := make([]chat.Message, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports the number of turns including the system prompt.
func (h *History) Len() int {
	return len(h.turns)
}

// truncate rolls the log back to n turns. Used by the session to undo a user
// turn whose request failed, so a failed round-trip leaves no trace.
func (h *History) truncate(n int) {
	if n < 1 {
		n = 1
	}
	if n < len(h.turns) {
		h.turns = h.turns[:n]
	}
}
