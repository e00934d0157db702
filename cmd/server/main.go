package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/emoji-explainer/internal/config"
	"github.com/iliyamo/emoji-explainer/internal/database"
	"github.com/iliyamo/emoji-explainer/internal/handler"
	"github.com/iliyamo/emoji-explainer/internal/middleware"
	"github.com/iliyamo/emoji-explainer/internal/provider"
	"github.com/iliyamo/emoji-explainer/internal/queue"
	"github.com/iliyamo/emoji-explainer/internal/repository"
	"github.com/iliyamo/emoji-explainer/internal/router"
	"github.com/iliyamo/emoji-explainer/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config (.env aware)

	// Storage: one process-wide pool, opened before the first request and
	// closed after the server stops.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	emojis := repository.NewEmojiRepo(db)

	// Redis is optional: a nil client disables the explanation fast path and
	// the rate limiter.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	groq := provider.NewGroqClient(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel)
	explainer := service.NewExplainer(emojis, groq, rdb)
	explainer.Publish = service.PublishExplanationCreated

	// Background consumer records explanation.created events; it reconnects
	// forever on broker trouble and never takes the server down.
	go func() {
		if err := queue.StartExplanationConsumer(); err != nil {
			log.Printf("explanation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Logger())  // request logging
	e.Use(echomw.Recover()) // convert panics into 500s

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterHealth(e, handler.NewHealthHandler(db))
	router.RegisterEmoji(e, handler.NewEmojiHandler(explainer), limiter)
	router.RegisterUsers(e, handler.NewAuthHandler(cfg, users, sessions), sessions, users)
	router.RegisterServer(e, handler.NewServerHandler(service.NewResourceManager(), explainer))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
