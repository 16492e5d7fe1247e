package bootstrap

import (
	"context"
	"log"
	"time"

	"career-mentor-be/internal/config"
	"career-mentor-be/internal/controller"
	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/internal/repository/contract"
	"career-mentor-be/internal/repository/implementation"
	"career-mentor-be/internal/repository/memory"
	redisRepo "career-mentor-be/internal/repository/redis"
	"career-mentor-be/internal/service"
	"career-mentor-be/pkg/embedding"
	"career-mentor-be/pkg/events"
	"career-mentor-be/pkg/llm/factory"
	memstore "career-mentor-be/pkg/memory"
	"career-mentor-be/pkg/mentor/action"
	"career-mentor-be/pkg/mentor/intent"
	"career-mentor-be/pkg/mentor/pipeline"
	"career-mentor-be/pkg/mentor/profile"
	"career-mentor-be/pkg/mentor/response"

	pktNats "career-mentor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	eventTopic        = "mentor.events"
	hashEmbeddingDims = 1024
)

type Container struct {
	MentorController controller.IMentorController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// NewContainer wires the mentor core. A nil db selects the in-memory repositories.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	c := &Container{}

	// 1. Logging
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	eventLogger := logger.NewIsolatedLogger(cfg.App.EventLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() { _ = eventLogger.Sync(); _ = sysLogger.Sync() })

	// 2. Repositories
	var (
		memoryRepo      contract.MemoryRepository
		profileRepo     contract.UserProfileRepository
		applicationRepo contract.ApplicationRepository
	)
	if db != nil {
		memoryRepo = implementation.NewMemoryRepository(db)
		profileRepo = implementation.NewUserProfileRepository(db)
		applicationRepo = implementation.NewApplicationRepository(db)
	} else {
		log.Println("Warning: DB_CONNECTION_STRING not set, using in-memory repositories")
		memoryRepo = memory.NewMemoryRepository()
		profileRepo = memory.NewUserProfileRepository()
		applicationRepo = memory.NewApplicationRepository()
	}

	// 3. AI providers
	embedder := c.newEmbedder(cfg)

	llmProvider, err := factory.NewLLMProvider(factory.Params{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   llmAPIKey(cfg),
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	// 4. Events
	publisher, subscriber := c.newEventBus(cfg, sysLogger)

	// 5. Mentor core
	memoryStore := memstore.NewStore(memoryRepo, embedder, memstore.Config{
		SimilarityThreshold:     cfg.Memory.SimilarityThreshold,
		HighImportanceThreshold: cfg.Memory.HighImportanceThreshold,
		FeedbackWindow:          cfg.Memory.FeedbackWindow,
		DefaultTopK:             cfg.Memory.TopK,
	}, sysLogger)

	accessor := profile.NewAccessor(profileRepo, applicationRepo, sysLogger)

	turns := pipeline.New(pipeline.Dependencies{
		Profiles:     accessor,
		Memory:       memoryStore,
		Classifier:   intent.NewClassifier(llmProvider, sysLogger),
		Executor:     action.NewExecutor(llmProvider, action.NewStaticMarketAnalyzer(), sysLogger),
		Synthesizer:  response.NewSynthesizer(llmProvider, sysLogger),
		Checkpointer: c.newCheckpointer(cfg),
		Publisher:    publisher,
		Logger:       sysLogger,
	}, pipeline.Config{
		TopK:                  cfg.Memory.TopK,
		RecentApplications:    pipeline.DefaultConfig().RecentApplications,
		UserMessageImportance: cfg.Memory.UserMessageImportance,
		AgentReplyImportance:  cfg.Memory.AgentReplyImportance,
		ActionImportance:      cfg.Memory.ActionImportance,
		MarketLocation:        cfg.App.MarketLocation,
	})

	// 6. Services & Controllers
	mentorService := service.NewMentorService(turns, memoryStore, accessor, service.InsightsConfig{
		MinImportance: cfg.Memory.HighImportanceThreshold,
		RecentDays:    7,
		Limit:         10,
	})

	c.MentorController = controller.NewMentorController(mentorService)
	c.ConsumerService = service.NewConsumerService(subscriber, eventLogger)

	return c
}

// Close releases background resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func (c *Container) newEmbedder(cfg *config.Config) embedding.EmbeddingProvider {
	var base embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "voyage":
		base = embedding.NewVoyageProvider(cfg.Ai.VoyageAPIKey, cfg.Ai.VoyageBaseURL, cfg.Ai.EmbeddingModel)
	case "ollama":
		base = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	default:
		log.Printf("Warning: unknown embedding provider %q, using hash embeddings", cfg.Ai.EmbeddingProvider)
		base = embedding.NewHashProvider(hashEmbeddingDims)
	}

	timed := embedding.WithTimeout(base, cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingTimeout)

	cached, err := embedding.NewCachedProvider(timed, cfg.Ai.EmbeddingCacheSize)
	if err != nil {
		log.Printf("Warning: embedding cache disabled: %v", err)
		return timed
	}
	c.closers = append(c.closers, cached.Close)
	return cached
}

func (c *Container) newCheckpointer(cfg *config.Config) pipeline.Checkpointer {
	switch cfg.App.CheckpointBackend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("Warning: invalid REDIS_URL (%v), checkpointing in memory", err)
			return memory.NewCheckpointRepository(cfg.App.CheckpointTTL)
		}
		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: redis unreachable (%v), checkpointing in memory", err)
			_ = rdb.Close()
			return memory.NewCheckpointRepository(cfg.App.CheckpointTTL)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		return redisRepo.NewCheckpointRepository(rdb, cfg.App.CheckpointTTL)
	case "none":
		return nil
	default:
		return memory.NewCheckpointRepository(cfg.App.CheckpointTTL)
	}
}

func (c *Container) newEventBus(cfg *config.Config, sysLogger logger.ILogger) (events.Publisher, events.Subscriber) {
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err == nil {
			natsSub, subErr := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
			if subErr == nil {
				c.closers = append(c.closers, natsPub.Close, natsSub.Close)
				return natsPub, natsSub
			}
			natsPub.Close()
			err = subErr
		}
		log.Printf("Warning: NATS unavailable (%v), falling back to in-process events", err)
	}

	bus := events.NewGoChannelBus(eventTopic, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = bus.Close() })
	return bus, bus
}

func llmAPIKey(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "anthropic":
		return cfg.Ai.AnthropicAPIKey
	case "openai":
		return cfg.Ai.OpenAIAPIKey
	case "huggingface":
		return cfg.Ai.HuggingFaceAPIKey
	default:
		return ""
	}
}

func llmBaseURL(cfg *config.Config) string {
	switch cfg.Ai.LLMProvider {
	case "ollama":
		return cfg.Ai.OllamaBaseURL
	case "openai":
		return cfg.Ai.OpenAIBaseURL
	default:
		return ""
	}
}
