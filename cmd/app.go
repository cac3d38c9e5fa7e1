package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/ai"
	"github.com/spigell/career-navigator/internal/ai/gemini"
	"github.com/spigell/career-navigator/internal/ai/groq"
	"github.com/spigell/career-navigator/internal/chat"
	"github.com/spigell/career-navigator/internal/enrich"
	"github.com/spigell/career-navigator/internal/github"
	"github.com/spigell/career-navigator/internal/lexicon"
	"github.com/spigell/career-navigator/internal/logger"
	"github.com/spigell/career-navigator/internal/navigator"
	"github.com/spigell/career-navigator/internal/notify"
	"github.com/spigell/career-navigator/internal/secrets"
	"github.com/spigell/career-navigator/internal/store"
)

// application is everything a command needs, built once from the config.
type application struct {
	config    *Config
	logger    *zap.Logger
	lexicon   *lexicon.Lexicon
	store     store.Store
	hub       *notify.Hub
	service   *navigator.Service
	assistant *chat.Assistant
}

func newApplication(ctx context.Context) *application {
	zlog, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	lex, err := loadLexicon(config)
	if err != nil {
		zlog.Fatal("loading lexicon", zap.Error(err), zap.String("file", config.LexiconFile))
	}

	st, err := store.Open(ctx, config.Store)
	if err != nil {
		zlog.Fatal("opening store", zap.Error(err), zap.String("driver", config.Store.Driver))
	}

	hub := notify.NewHub(zlog)
	hub.Subscribe(notify.LogSubscriber(zlog))

	if redisStore, ok := st.(*store.Redis); ok {
		publisher, err := notify.NewRedisPublisher(redisStore.Client(), config.Store.Redis.Channel, zlog)
		if err != nil {
			zlog.Fatal("creating redis publisher", zap.Error(err))
		}
		hub.Subscribe(publisher.Subscriber())
	}

	enricher, err := newEnricher(ctx, config.AI, lex, zlog)
	if err != nil {
		zlog.Fatal("configuring enrichment", zap.Error(err))
	}

	service := navigator.New(lex, st, enricher, hub, zlog)
	assistant := chat.NewAssistant(service, zlog)
	hub.Subscribe(assistant.Observe)

	zlog.Debug("runtime ready",
		zap.String(logger.FieldDriver, config.Store.Driver),
		zap.Bool("enrichment", enricher.Enabled()),
		zap.String("default_role", lex.DefaultRole()),
	)

	return &application{
		config:    config,
		logger:    zlog,
		lexicon:   lex,
		store:     st,
		hub:       hub,
		service:   service,
		assistant: assistant,
	}
}

func (r *application) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("closing store", zap.Error(err))
	}
	_ = r.logger.Sync()
}

func loadLexicon(config *Config) (*lexicon.Lexicon, error) {
	if strings.TrimSpace(config.LexiconFile) == "" {
		lex := lexicon.Default()
		if config.DefaultRole != "" {
			return lex.WithDefaultRole(config.DefaultRole), nil
		}
		return lex, nil
	}

	lex, err := lexicon.Load(config.LexiconFile)
	if err != nil {
		return nil, err
	}
	if config.DefaultRole != "" {
		lex = lex.WithDefaultRole(config.DefaultRole)
	}
	return lex, nil
}

func newEnricher(ctx context.Context, cfg *AIConfig, lex *lexicon.Lexicon, logger *zap.Logger) (*enrich.Adapter, error) {
	if cfg == nil || !cfg.Enabled {
		return enrich.New(nil, lex, enrich.Options{}, logger), nil
	}

	generator, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	maxLog := 0
	if cfg.Gemini != nil {
		maxLog = cfg.Gemini.MaxLogLength
	}

	return enrich.New(generator, lex, enrich.Options{Timeout: cfg.Timeout, MaxLogLength: maxLog}, logger), nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	switch provider := strings.TrimSpace(strings.ToLower(cfg.Provider)); provider {
	case "", ai.ProviderGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  gc.APIKeyFile,
			Value: gc.APIKey,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		return gemini.NewGenerator(ctx, gemini.Options{
			APIKey:      apiKey,
			Model:       gc.Model,
			MaxRetries:  gc.MaxRetries,
			Temperature: gc.Temperature,
		}, logger)
	case ai.ProviderGroq:
		gc := cfg.Groq
		if gc == nil {
			gc = &GroqConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "groq api key",
			File:  gc.APIKeyFile,
			Value: gc.APIKey,
			Env:   "GROQ_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.groq.api-key-file or GROQ_API_KEY_FILE)", err)
		}

		return groq.New(groq.Options{
			APIKey:      apiKey,
			Model:       gc.Model,
			Endpoint:    gc.Endpoint,
			Temperature: gc.Temperature,
			UserAgent:   app + "/" + version,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newGitHubClient(config *Config, logger *zap.Logger) *github.Client {
	token := ""
	if config.GitHub != nil && config.GitHub.TokenFile != "" {
		loaded, err := secrets.Load(secrets.Source{Name: "github token", File: config.GitHub.TokenFile})
		if err != nil {
			logger.Warn("github token not loaded, using anonymous requests", zap.Error(err))
		} else {
			token = loaded
		}
	}
	return github.New(logger, token)
}
