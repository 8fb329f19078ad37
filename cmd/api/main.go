package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	v1 "github.com/AbdurRehman26/asaancar-chat/cmd/api/router/v1"
	broadcastAdapter "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/broadcast/adapter"
	cacheAdapter "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/cache/adapter"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/database"
	identityAdapter "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/identity/adapter"
	queueAdapter "github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/queue/adapter"
	"github.com/AbdurRehman26/asaancar-chat/internal/infrastructure/realtime"
	httpHandler "github.com/AbdurRehman26/asaancar-chat/internal/pkg/chat/presentation/http"
)

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

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := database.ApplyMigrations(ctx, pool, migrationsDir); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	hub := realtime.NewHub()
	defer hub.Close()

	deps := httpHandler.Deps{Pool: pool, Hub: hub}

	// Redis powers cross-node fan-out, the unread badge cache and the
	// recount queue. Without it the node still works: local fan-out only,
	// badge served straight from Postgres.
	if url := os.Getenv("REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url)
		if err != nil {
			log.Fatalf("failed to parse REDIS_URL: %v", err)
		}
		client := redis.NewClient(opt)
		defer client.Close()

		deps.Cache = cacheAdapter.NewRedisCache(client)
		deps.Publisher = broadcastAdapter.NewRedisPublisher(client)

		listener := broadcastAdapter.NewListener(client, hub)
		listener.Start(context.Background())
		defer listener.Stop()

		queueClient, err := queueAdapter.NewAsynqClientFromEnv()
		if err != nil {
			log.Fatalf("failed to create queue client: %v", err)
		}
		defer queueClient.Close()
		deps.Queue = queueClient
	} else {
		log.Printf("Warning: REDIS_URL not set; running single-node with local fan-out only")
		deps.Publisher = broadcastAdapter.NewLocalPublisher(hub)
	}

	provider := identityAdapter.NewPgIdentityProvider(pool)
	if deps.Cache != nil {
		deps.Identity = identityAdapter.NewCachedProvider(provider, deps.Cache)
	} else {
		deps.Identity = provider
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, deps)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
