package main

import (
	"context"
	"log"

	"survey-bot-be/internal/bootstrap"
	"survey-bot-be/internal/config"
	"survey-bot-be/internal/server"
	"survey-bot-be/internal/tracer"
	"survey-bot-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Register the webhook so Telegram starts delivering updates
	if cfg.Telegram.WebhookURL != "" {
		if err := container.BotClient.SetWebhook(context.Background(), cfg.Telegram.WebhookURL); err != nil {
			log.Printf("[WARN] Failed to register Telegram webhook: %v", err)
		} else {
			log.Printf("[INFO] Telegram webhook registered: %s", cfg.Telegram.WebhookURL)
		}
	}

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Initialize Server
	srv := server.New(cfg, container)

	// 7. Run Server
	log.Fatal(srv.Run())
}
