package bootstrap

import (
	"context"
	"log"

	"survey-bot-be/internal/config"
	"survey-bot-be/internal/controller"
	"survey-bot-be/internal/pkg/logger"
	"survey-bot-be/internal/repository/memory"
	"survey-bot-be/internal/repository/unitofwork"
	"survey-bot-be/internal/service"
	pktNats "survey-bot-be/pkg/nats"
	"survey-bot-be/pkg/storage"
	"survey-bot-be/pkg/survey/evidence"
	"survey-bot-be/pkg/survey/flow"
	"survey-bot-be/pkg/telegram"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	ReportController  controller.IReportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Bot API client, exposed for webhook registration at startup
	BotClient *telegram.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	botLogger := logger.NewIsolatedLogger(cfg.App.BotLogFilePath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis backs webhook update dedup; without it a per-process cache is used.
	var deduper service.UpdateDeduper
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		deduper = service.NewRedisDeduper(rdb)
	} else {
		log.Printf("[INFO] REDIS_URL not set, using in-memory update dedup")
		deduper = service.NewMemoryDeduper()
	}

	// Evidence storage
	var evidenceStore storage.Store
	if cfg.Storage.Provider == "supabase" {
		evidenceStore = storage.NewSupabaseStore(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey, cfg.Storage.Bucket)
		log.Printf("[INFO] Using Evidence Storage: SUPABASE (bucket %s)", cfg.Storage.Bucket)
	} else {
		evidenceStore = storage.NewLocalStore(cfg.Storage.LocalDir)
		log.Printf("[INFO] Using Evidence Storage: LOCAL (%s)", cfg.Storage.LocalDir)
	}

	// 3. Services
	botClient := telegram.NewClient(cfg.Telegram.APIBaseURL, cfg.Telegram.BotToken)
	collector := evidence.NewCollector(botClient, evidenceStore)

	catalogGateway := service.NewCatalogGateway(uowFactory)
	draftStore := service.NewDraftStore(uowFactory)

	var geocoder flow.Geocoder
	if cfg.Keys.Geoapify != "" {
		geocoder = service.NewGeocodeService(cfg.Keys.Geoapify)
	} else {
		log.Printf("[INFO] GEOAPIFY_API_KEY not set, reports keep raw coordinates")
	}

	sessionRegistry := memory.NewSessionRegistry(cfg.Session.TTL)
	engine := flow.NewEngine(catalogGateway, draftStore, draftStore, collector, geocoder, botLogger)

	publisherService := service.NewPublisherService(cfg.Keys.ReportFinalizedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.ReportFinalizedTopic,
		uowFactory,
		natsPub,
	)

	botService := service.NewBotService(
		sessionRegistry,
		engine,
		botClient,
		deduper,
		publisherService,
		cfg.Session.AcquireTimeout,
		botLogger,
	)
	reportService := service.NewReportService(uowFactory)

	sysLogger.Info("bootstrap", "Container initialized", map[string]interface{}{
		"storage_provider": cfg.Storage.Provider,
		"nats_connected":   natsPub != nil,
	})

	// 4. Controllers
	return &Container{
		WebhookController: controller.NewWebhookController(botService),
		ReportController:  controller.NewReportController(reportService),

		ConsumerService: consumerService,
		BotClient:       botClient,
	}
}
