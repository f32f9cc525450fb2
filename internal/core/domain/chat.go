package domain

// Message roles. The transcript only ever contains user and assistant
// turns; system content is synthesized per call, never stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	// Role is RoleUser or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// StreamFragment is the single normalized unit every provider emits.
// A lazy, finite, non-restartable sequence of these constitutes one answer.
type StreamFragment struct {
	// Content is the answer increment.
	Content string
}

// WindowTranscript returns the last maxTurns user+assistant pairs of the
// transcript (i.e. up to maxTurns*2 trailing messages), preserving order,
// with a new user message holding prompt appended. The input slice is
// never mutated.
func WindowTranscript(transcript []ChatMessage, prompt string, maxTurns int) []ChatMessage {
	if maxTurns < 0 {
		maxTurns = 0
	}

	keep := maxTurns * 2
	start := len(transcript) - keep
	if start < 0 {
		start = 0
	}

	messages := make([]ChatMessage, 0, len(transcript)-start+1)
	messages = append(messages, transcript[start:]...)
	messages = append(messages, ChatMessage{Role: RoleUser, Content: prompt})
	return messages
}
