package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chat "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/domain"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/usecase"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/presentation/middleware"
)

// ListConversationsController handles the conversation list endpoint (one
// controller per endpoint).
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(uc *usecase.ListConversationsUseCase) *ListConversationsController {
	return &ListConversationsController{UC: uc}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, usecase.ListConversationsInput{UserID: user.ID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(summaries))
		for _, s := range summaries {
			out = append(out, conversationSummaryJSON(s))
		}

		c.JSON(http.StatusOK, gin.H{
			"conversations": out,
			"count":         len(out),
		})
	}
}

func conversationSummaryJSON(s chat.ConversationSummary) gin.H {
	entry := conversationJSON(s.Conversation)
	entry["unread_count"] = s.UnreadCount
	if s.LastMessage != nil {
		entry["last_message"] = messageJSON(*s.LastMessage)
	}
	return entry
}

func conversationJSON(conv chat.Conversation) gin.H {
	entry := gin.H{
		"id":         conv.ID,
		"type":       conv.Type,
		"user_id":    conv.UserID,
		"created_at": conv.CreatedAt,
		"updated_at": conv.UpdatedAt,
	}
	// Exactly one counterpart ref is present, matching the type.
	if conv.BookingID != nil {
		entry["booking_id"] = *conv.BookingID
	}
	if conv.StoreID != nil {
		entry["store_id"] = *conv.StoreID
	}
	return entry
}

func messageJSON(m chat.Message) gin.H {
	return gin.H{
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender": gin.H{
			"id":   m.SenderID,
			"name": m.SenderName,
		},
		"message":    m.Body,
		"is_read":    m.IsRead,
		"created_at": m.CreatedAt,
	}
}
