package chat

import "time"

// ConversationType discriminates what a conversation is attached to:
// a booking (customer <-> store about one rental) or a store (pre-booking
// enquiries).
type ConversationType string

const (
	ConversationTypeBooking ConversationType = "booking"
	ConversationTypeStore   ConversationType = "store"
)

// Conversation is a persistent thread between a user and a counterpart
// entity. Identity is the tuple (UserID, Type, BookingID|StoreID); exactly
// one of BookingID/StoreID is set, consistent with Type. UpdatedAt is bumped
// whenever a message is appended and drives conversation-list ordering.
type Conversation struct {
	ID        string           `db:"id"`
	Type      ConversationType `db:"type"`
	UserID    string           `db:"user_id"`
	BookingID *int64           `db:"booking_id"`
	StoreID   *int64           `db:"store_id"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// ConversationSummary is a conversation-list entry: the conversation plus
// its most recent message and the viewer's unread tally. LastMessage is nil
// for a conversation with no messages yet.
type ConversationSummary struct {
	Conversation
	LastMessage *Message
	UnreadCount int64
}

// NewConversation validates the identity tuple for a get-or-create request.
// Exactly one counterpart id must be supplied and it must match the type.
func NewConversation(userID string, typ ConversationType, bookingID, storeID *int64) (*Conversation, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	switch typ {
	case ConversationTypeBooking:
		if bookingID == nil || storeID != nil {
			return nil, ErrCounterpartMismatch
		}
	case ConversationTypeStore:
		if storeID == nil || bookingID != nil {
			return nil, ErrCounterpartMismatch
		}
	default:
		return nil, ErrInvalidConversationType
	}
	return &Conversation{
		Type:      typ,
		UserID:    userID,
		BookingID: bookingID,
		StoreID:   storeID,
	}, nil
}
