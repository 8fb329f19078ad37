package adapter

import (
	"context"
	"encoding/json"

	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/broadcast/port"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/realtime"
)

// LocalPublisher delivers events straight to the in-process hub. It is the
// single-node mode, used when no Redis is configured.
type LocalPublisher struct {
	hub *realtime.Hub
}

func NewLocalPublisher(hub *realtime.Hub) *LocalPublisher {
	return &LocalPublisher{hub: hub}
}

var _ port.Publisher = (*LocalPublisher)(nil)

func (p *LocalPublisher) Publish(_ context.Context, event port.Event, excludeUserID string) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.hub.Broadcast(realtime.ChannelName(event.ConversationID), payload, excludeUserID)
	return nil
}
