package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	cacheAdapter "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/adapter"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/database"
	queueAdapter "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/queue/adapter"
	"github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/application/task"
	repoAdapter "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/persistence/repository/adapter"
)

// The worker consumes background chat tasks, currently just the unread-badge
// recount enqueued after message sends.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisCacheFromEnv()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer cache.Close()

	srv, err := queueAdapter.NewAsynqServerFromEnv()
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}

	repo := repoAdapter.NewPgChatRepository(pool)
	task.RegisterRecountUnreadTask(srv, repo, cache)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("worker started")
	if err := srv.Run(runCtx); err != nil {
		log.Fatalf("worker error: %v", err)
	}
}
