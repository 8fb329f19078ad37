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

// GetMessagesController handles listing a conversation's messages (one
// controller per endpoint). Opening the list is the read-receipt trigger:
// unread messages from other senders are marked read before the response is
// built.
type GetMessagesController struct {
	UC *usecase.OpenConversationUseCase
}

func NewGetMessagesController(uc *usecase.OpenConversationUseCase) *GetMessagesController {
	return &GetMessagesController{UC: uc}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.OpenConversationInput{
			ConversationID: conversationID,
			UserID:         user.ID,
		})
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, messageJSON(m))
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": out,
			"count":    len(out),
		})
	}
}

// statusForError maps the error taxonomy onto HTTP statuses: validation
// errors are 400, a missing conversation is 404, infrastructure failures
// are 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
