package chat

import (
	"errors"
	"strings"
	"testing"
)

func TestNewMessage_Valid(t *testing.T) {
	msg, err := NewMessage("conv-1", "user-1", "Hello")
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if msg.Body != "Hello" {
		t.Errorf("Body = %q, want %q", msg.Body, "Hello")
	}
	if msg.IsRead {
		t.Error("new message must start unread")
	}
	if msg.ConversationID != "conv-1" || msg.SenderID != "user-1" {
		t.Errorf("identity not carried over: %+v", msg)
	}
}

func TestNewMessage_TrimsWhitespace(t *testing.T) {
	msg, err := NewMessage("conv-1", "user-1", "  hi there \n")
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	if msg.Body != "hi there" {
		t.Errorf("Body = %q, want trimmed %q", msg.Body, "hi there")
	}
}

func TestNewMessage_LengthBoundary(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"exactly 2000 chars", strings.Repeat("a", 2000), nil},
		{"2001 chars", strings.Repeat("a", 2001), ErrMessageTooLong},
		{"2000 multibyte runes", strings.Repeat("ä", 2000), nil},
		{"2001 multibyte runes", strings.Repeat("ä", 2001), ErrMessageTooLong},
		{"empty", "", ErrEmptyMessage},
		{"whitespace only", "   \t\n", ErrEmptyMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage("conv-1", "user-1", tt.body)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewMessage error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewMessage_RequiresIdentity(t *testing.T) {
	if _, err := NewMessage("", "user-1", "hi"); !errors.Is(err, ErrInvalidConversation) {
		t.Errorf("missing conversation id: error = %v, want ErrInvalidConversation", err)
	}
	if _, err := NewMessage("conv-1", "", "hi"); !errors.Is(err, ErrInvalidConversation) {
		t.Errorf("missing sender id: error = %v, want ErrInvalidConversation", err)
	}
}
