package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	bport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/broadcast/port"
	identityport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/identity/port"
	qport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/queue/port"
	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/task"
	repository "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to append a message.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Body           string
}

// SendMessageUseCase appends a message and fans it out. The sender's display
// name is resolved through the identity port so the stored message and the
// broadcast event carry it. Persistence commits first; the broadcast publish
// is best-effort and never fails the send, since offline subscribers catch up
// on their next open. The badge recount enqueue is equally best-effort.
type SendMessageUseCase struct {
	Repo      repository.ChatRepository
	Identity  identityport.Provider // optional; sender name is left empty when nil
	Publisher bport.Publisher
	Queue     qport.Client // optional; recount enqueue is skipped when nil
}

func NewSendMessageUseCase(repo repository.ChatRepository, identity identityport.Provider, publisher bport.Publisher, queue qport.Client) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Identity: identity, Publisher: publisher, Queue: queue}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.Body)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Identity != nil {
		if sender, err := uc.Identity.Lookup(ctx, in.SenderID); err == nil {
			msg.SenderName = sender.Name
		} else {
			// Name is cosmetic on the payload; the send still goes through.
			log.Printf("chat: sender lookup failed for user %s: %v", in.SenderID, err)
		}
	}

	stored, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Publisher != nil {
		event := bport.Event{
			ID:             stored.ID,
			ConversationID: stored.ConversationID,
			Sender:         bport.Sender{ID: stored.SenderID, Name: stored.SenderName},
			Message:        stored.Body,
			CreatedAt:      stored.CreatedAt.Format(time.RFC3339),
		}
		if err := uc.Publisher.Publish(ctx, event, stored.SenderID); err != nil {
			// The message is durable; subscribers catch up via open.
			log.Printf("chat: broadcast publish failed for conversation %s: %v", stored.ConversationID, err)
		}
	}

	if uc.Queue != nil && conv.UserID != stored.SenderID {
		if err := task.EnqueueRecountUnread(ctx, uc.Queue, conv.UserID); err != nil {
			log.Printf("chat: recount enqueue failed for user %s: %v", conv.UserID, err)
		}
	}

	return &stored, nil
}
