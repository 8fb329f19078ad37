package chat

import (
	"errors"
	"testing"
)

func int64ptr(v int64) *int64 { return &v }

func TestNewConversation_Tuple(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		typ       ConversationType
		bookingID *int64
		storeID   *int64
		wantErr   error
	}{
		{"booking conversation", "u1", ConversationTypeBooking, int64ptr(7), nil, nil},
		{"store conversation", "u1", ConversationTypeStore, nil, int64ptr(3), nil},
		{"booking without booking_id", "u1", ConversationTypeBooking, nil, nil, ErrCounterpartMismatch},
		{"store without store_id", "u1", ConversationTypeStore, nil, nil, ErrCounterpartMismatch},
		{"booking with store_id too", "u1", ConversationTypeBooking, int64ptr(7), int64ptr(3), ErrCounterpartMismatch},
		{"store with booking_id too", "u1", ConversationTypeStore, int64ptr(7), int64ptr(3), ErrCounterpartMismatch},
		{"booking type with only store_id", "u1", ConversationTypeBooking, nil, int64ptr(3), ErrCounterpartMismatch},
		{"unknown type", "u1", ConversationType("support"), int64ptr(7), nil, ErrInvalidConversationType},
		{"missing user", "", ConversationTypeBooking, int64ptr(7), nil, ErrUserRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := NewConversation(tt.userID, tt.typ, tt.bookingID, tt.storeID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewConversation error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if conv.Type != tt.typ || conv.UserID != tt.userID {
				t.Errorf("conversation = %+v, want type %s user %s", conv, tt.typ, tt.userID)
			}
		})
	}
}
