package app

import (
	"fmt"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/openai"
	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/ingestion/extractor"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/localmedia"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Clients struct {
	Cache     redis.Cache
	LLM       openai.Client
	Extractor *extractor.Extractor
	Uploads   localmedia.Store
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	cache, err := redis.NewCache(log, cfg.RedisAddr, "adaptivequiz:")
	if err != nil {
		return Clients{}, fmt.Errorf("init cache: %w", err)
	}

	// The LLM generator is optional; without a key the rule generator runs alone.
	var llm openai.Client
	if key := cfg.LLMKey(); key != "" {
		llm, err = openai.NewClient(log, openai.Config{
			APIKey:      key,
			BaseURL:     cfg.LLMBaseURL,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
		})
		if err != nil {
			_ = cache.Close()
			return Clients{}, fmt.Errorf("init llm client: %w", err)
		}
	} else {
		log.Info("LLM_API_KEY not set; using rule-based question generation only")
	}

	return Clients{
		Cache:     cache,
		LLM:       llm,
		Extractor: extractor.New(log, extractor.Options{FetchTimeout: cfg.URLFetchTimeout}),
		Uploads:   localmedia.New(log, cfg.UploadDir),
	}, nil
}

func (c Clients) Close() error {
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}
