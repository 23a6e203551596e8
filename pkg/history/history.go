// Package history holds the in-memory conversation state for a single
// interactive session. The shell owns the History value and passes it
// explicitly into each turn; nothing here is global or persisted.
package history

import (
	"fmt"
	"strings"
)

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one exchange unit in the conversation, attributed to a speaker.
type Turn struct {
	Role    Role
	Content string
}

// History is an append-only ordered sequence of turns. Insertion order is
// meaningful. Bounding to the prompt window is not done here; callers apply
// the budgeter when assembling a prompt, so the stored history may grow past
// the window while the prompt window never does.
type History struct {
	turns []Turn
}

// New creates an empty conversation history.
func New() *History {
	return &History{turns: make([]Turn, 0)}
}

// Add appends a turn to the history.
func (h *History) Add(role Role, content string) {
	h.turns = append(h.turns, Turn{Role: role, Content: content})
}

// Turns returns the full ordered turn sequence.
func (h *History) Turns() []Turn {
	return h.turns
}

// Len returns the number of stored turns.
func (h *History) Len() int {
	return len(h.turns)
}

// Clear discards all stored turns.
func (h *History) Clear() {
	h.turns = h.turns[:0]
}

// Transcript renders turns as "User:"/"Assistant:" lines for prompt
// assembly. The trailing newline is included so a prompt can append the
// current user message directly.
func Transcript(turns []Turn) string {
	var b strings.Builder
	for _, t := range turns {
		switch t.Role {
		case RoleAssistant:
			fmt.Fprintf(&b, "Assistant: %s\n", t.Content)
		default:
			fmt.Fprintf(&b, "User: %s\n", t.Content)
		}
	}
	return b.String()
}
