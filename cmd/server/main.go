package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/config"
	"github.com/iliyamo/event-ticketing/internal/database"
	"github.com/iliyamo/event-ticketing/internal/handler"
	"github.com/iliyamo/event-ticketing/internal/middleware"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	"github.com/iliyamo/event-ticketing/internal/router"
	"github.com/iliyamo/event-ticketing/internal/token"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	// Repositories over the shared pool
	users := repository.NewUserRepo(db)
	revocations := repository.NewRevocationRepo(db)
	events := repository.NewEventRepo(db)
	tickets := repository.NewTicketRepo(db)

	tokens := token.NewService(cfg.TokenSecret,
		time.Duration(cfg.TokenTTLSeconds)*time.Second, revocations)

	// Redis is optional: a nil client disables rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled")
	}
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Background consumer writing redemption logs from the broker.
	go func() {
		if err := queue.StartRedemptionConsumer(); err != nil {
			log.Printf("redemption consumer stopped: %v", err)
		}
	}()

	// Periodically drop revocation entries whose token has expired
	// anyway; the set would otherwise grow with every logout forever.
	go func() {
		for {
			time.Sleep(time.Hour)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := revocations.PruneExpired(ctx, time.Now().UTC())
			cancel()
			if err != nil {
				log.Printf("prune revoked tokens: %v", err)
			} else if n > 0 {
				log.Printf("pruned %d expired revocation entries", n)
			}
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg.BcryptCost, users, tokens), tokens, limit)
	router.RegisterEvents(e, handler.NewEventHandler(events), handler.NewTicketHandler(tickets), tokens, limit)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
