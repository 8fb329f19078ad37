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

// CreateConversationController handles get-or-create for a conversation
// (one controller per endpoint).
type CreateConversationController struct {
	UC *usecase.GetOrCreateConversationUseCase
}

func NewCreateConversationController(uc *usecase.GetOrCreateConversationUseCase) *CreateConversationController {
	return &CreateConversationController{UC: uc}
}

// createConversationRequest is the DTO for the HTTP request body.
type createConversationRequest struct {
	Type      string `json:"type" binding:"required"`
	BookingID *int64 `json:"booking_id"`
	StoreID   *int64 `json:"store_id"`
}

func (h *CreateConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var req createConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.GetOrCreateConversationInput{
			UserID:    user.ID,
			Type:      chat.ConversationType(req.Type),
			BookingID: req.BookingID,
			StoreID:   req.StoreID,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"conversation": conversationJSON(*conv)})
	}
}
