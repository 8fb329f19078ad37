package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	bport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/broadcast/port"
	cacheport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/port"
	identity "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/identity/port"
	qport "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/queue/port"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/realtime"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/usecase"
	repoAdapter "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/adapter"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/presentation/controller"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/presentation/middleware"
)

// Deps bundles the infrastructure the chat endpoints need. Cache and Queue
// may be nil (single-node, no-Redis development mode); the use cases degrade
// gracefully.
type Deps struct {
	Pool      *pgxpool.Pool
	Hub       *realtime.Hub
	Publisher bport.Publisher
	Queue     qport.Client
	Cache     cacheport.Cache
	Identity  identity.Provider
}

// RegisterRoutes registers chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them behind bearer-token
// authentication.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	repo := repoAdapter.NewPgChatRepository(deps.Pool)

	listCtl := controller.NewListConversationsController(usecase.NewListConversationsUseCase(repo))
	createCtl := controller.NewCreateConversationController(usecase.NewGetOrCreateConversationUseCase(repo))
	messagesCtl := controller.NewGetMessagesController(usecase.NewOpenConversationUseCase(repo, deps.Cache))
	sendCtl := controller.NewSendMessageController(usecase.NewSendMessageUseCase(repo, deps.Identity, deps.Publisher, deps.Queue))
	unreadCtl := controller.NewUnreadCountController(usecase.NewUnreadCountUseCase(repo, deps.Cache))
	socketCtl := controller.NewChannelSocketController(deps.Hub)

	chat := g.Group("/chat", middleware.Authenticate(deps.Identity))

	chat.GET("/conversations", listCtl.Handle())
	chat.POST("/conversations", createCtl.Handle())
	chat.GET("/conversations/:conversationId/messages", messagesCtl.Handle())
	chat.POST("/conversations/:conversationId/messages", sendCtl.Handle())
	chat.GET("/unread-count", unreadCtl.Handle())

	// Websocket endpoint for realtime conversation events.
	chat.GET("/ws", socketCtl.Handle())
}
