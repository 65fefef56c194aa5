package chat

// Sender identifies who produced a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// Turn is a single message within a conversation.
type Turn struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Reply is the outcome of one handled turn. ConversationID is always
// usable, even when Text is a fallback message.
type Reply struct {
	Text           string `json:"reply"`
	ConversationID string `json:"sessionId"`
}

// Fixed user-facing replies for failure paths. The end user never sees
// a raw error.
const (
	// FallbackUnavailable is returned when no completion provider answered.
	FallbackUnavailable = "Support agent unavailable. Please try again later."

	// FallbackNoAnswer replaces a blank completion before it is persisted.
	FallbackNoAnswer = "I'm unable to answer that right now. Please contact support."
)
