package port

import "context"

// Event is the payload published to a conversation's private channel after
// a message is persisted. CreatedAt is an RFC3339 string so subscribers on
// any stack parse it the same way.
type Event struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Sender         Sender `json:"sender"`
	Message        string `json:"message"`
	CreatedAt      string `json:"created_at"`
}

// Sender is the minimal identity summary carried on an Event.
type Sender struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Publisher fans an Event out to all live subscribers of the conversation's
// channel, excluding excludeUserID's own connection (the sender's UI updates
// optimistically from the send response). Delivery is at-most-once and
// best-effort; a publish error must never fail the send that triggered it.
type Publisher interface {
	Publish(ctx context.Context, event Event, excludeUserID string) error
}
