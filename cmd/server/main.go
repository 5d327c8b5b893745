package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/soundvest/soundvest-api/internal/bootstrap"
	"github.com/soundvest/soundvest-api/internal/config"
	"github.com/soundvest/soundvest-api/internal/database"
	"github.com/soundvest/soundvest-api/internal/handler"
	"github.com/soundvest/soundvest-api/internal/queue"
	"github.com/soundvest/soundvest-api/internal/repository"
	"github.com/soundvest/soundvest-api/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	content := repository.NewContentRepo(db)

	if err := bootstrap.EnsureAdmin(context.Background(), cfg, users); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	// Redis backs the shared login limiter window and the content response
	// cache; both degrade gracefully when it is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable: response cache disabled, login limiter runs in-process")
	}

	if cfg.EventsEnabled {
		go func() {
			if err := queue.StartContentConsumer(); err != nil {
				log.Printf("content consumer stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e, cfg, rdb,
		handler.NewAuthHandler(cfg, users),
		handler.NewContentHandler(content, cfg.EventsEnabled),
		handler.NewUploadHandler(cfg.UploadDir, cfg.MaxUploadBytes),
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
