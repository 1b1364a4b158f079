package bootstrap

import (
	"context"
	"log"

	"study-assistant-be/internal/config"
	"study-assistant-be/internal/controller"
	"study-assistant-be/internal/handler"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/cache"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/file"
	"study-assistant-be/internal/repository/memory"
	"study-assistant-be/internal/repository/unitofwork"
	"study-assistant-be/internal/service"
	"study-assistant-be/internal/websocket"
	"study-assistant-be/pkg/events"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/llm/factory"
	"study-assistant-be/pkg/rag/search"

	pktNats "study-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	NotesController   controller.INotesController
	ChatController    controller.IChatController
	QuizController    controller.IQuizController

	// Background Services (Exposed for main.go to run)
	ConsumerService   service.IConsumerService
	QuizResultService service.IQuizResultService
	NatsEnabled       bool

	// WebSockets
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	serverutils.ConfigureJwt(cfg.App.JwtSecret)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model access
	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		GoogleAPIKey:  cfg.Ai.GoogleAPIKey,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	pacer := llm.NewPacer(cfg.Ai.MinInterval)
	llmClient := llm.NewClient(llmProvider, pacer)

	selector, err := search.NewSelector(search.Config{
		MaxChars: cfg.Retrieval.ChunkMaxChars,
		Overlap:  cfg.Retrieval.ChunkOverlap,
		TopK:     cfg.Retrieval.TopK,
	})
	if err != nil {
		log.Fatalf("[FATAL] Invalid retrieval settings: %v", err)
	}

	// 4. Infrastructure
	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// Session storage
	var (
		sessionRepo   contract.SessionRepository
		sessionLocker contract.SessionLocker
	)
	if cfg.Session.Store == "redis" {
		if !redisUp {
			log.Fatalf("[FATAL] SESSION_STORE=redis but Redis is unreachable")
		}
		sessionRepo = cache.NewSessionRepository(rdb, cfg.Session.TTL)
		sessionLocker = cache.NewSessionLocker(rdb, cache.DefaultLockTTL)
	} else {
		sessionRepo = memory.NewSessionRepository(cfg.Session.TTL)
		sessionLocker = memory.NewSessionLocker()
	}
	access := service.NewSessionAccess(sessionRepo, sessionLocker)

	// NATS, with an in-process fallback so domain events still reach their handlers
	natsPub, natsSub, err := pktNats.Connect(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS: %v", err)
	}
	natsEnabled := err == nil

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	var hubRedis *redis.Client
	if redisUp {
		hubRedis = rdb
	}
	wsHub := websocket.NewHub(hubRedis, wsLogger)
	go wsHub.Run()

	quizResultService := service.NewQuizResultService(uowFactory, natsSub, wsHub, sysLogger)

	var eventPublisher events.Publisher
	if natsEnabled {
		eventPublisher = natsPub
	} else {
		local := service.NewLocalEventDispatcher()
		local.Handle(events.QuizCompleted, quizResultService.Record)
		eventPublisher = local
		log.Printf("[WARN] NATS unavailable, dispatching events in-process")
	}

	// 5. Services
	notesFiles := file.NewNotesFileRepository(cfg.Notes.Dir)
	publisherService := service.NewPublisherService(pubSub, cfg.Notes.ArchiveTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Notes.ArchiveTopic,
		uowFactory,
		notesFiles,
		sysLogger,
	)

	sessionService := service.NewSessionService(access, sysLogger)
	notesService := service.NewNotesService(
		access,
		llmClient,
		selector,
		publisherService,
		eventPublisher,
		notesFiles,
		uowFactory,
		sysLogger,
	)
	chatService := service.NewChatService(access, llmClient, uowFactory, sysLogger)
	quizService := service.NewQuizService(access, llmClient, eventPublisher, sysLogger)

	// 6. Controllers
	return &Container{
		SessionController: controller.NewSessionController(sessionService),
		NotesController:   controller.NewNotesController(notesService),
		ChatController:    controller.NewChatController(chatService),
		QuizController:    controller.NewQuizController(quizService, quizResultService),

		ConsumerService:   consumerService,
		QuizResultService: quizResultService,
		NatsEnabled:       natsEnabled,

		StreamHandler: handler.NewStreamHandler(chatService, notesService, wsHub, wsLogger),
		WebSocketHub:  wsHub,

		Logger: sysLogger,
	}
}
