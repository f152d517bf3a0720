package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"

	DefaultTemperature = 0.3
)

// Client is the chat completion surface used by the question generator.
type Client interface {
	// GenerateJSON runs a JSON-mode completion and returns the raw content.
	GenerateJSON(ctx context.Context, system string, user string) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	MaxTries    uint
	RetryDelay  time.Duration
}

type client struct {
	log  *logger.Logger
	api  oa.Client
	conf Config
}

// NewClient builds an OpenAI-compatible client. Groq is the default endpoint.
func NewClient(log *logger.Logger, conf Config) (Client, error) {
	if strings.TrimSpace(conf.APIKey) == "" {
		return nil, errors.New("missing LLM api key")
	}
	if strings.TrimSpace(conf.BaseURL) == "" {
		conf.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(conf.Model) == "" {
		conf.Model = DefaultModel
	}
	if conf.Temperature <= 0 {
		conf.Temperature = DefaultTemperature
	}
	if conf.Timeout <= 0 {
		conf.Timeout = 30 * time.Second
	}
	if conf.MaxTries == 0 {
		conf.MaxTries = 3
	}
	if conf.RetryDelay <= 0 {
		conf.RetryDelay = 1500 * time.Millisecond
	}

	api := oa.NewClient(
		option.WithAPIKey(conf.APIKey),
		option.WithBaseURL(conf.BaseURL),
		option.WithRequestTimeout(conf.Timeout),
		option.WithMaxRetries(0),
	)
	return &client{
		log:  log.With("client", "OpenAIClient", "model", conf.Model),
		api:  api,
		conf: conf,
	}, nil
}

func (c *client) GenerateJSON(ctx context.Context, system string, user string) (string, error) {
	params := oa.ChatCompletionNewParams{
		Model: oa.ChatModel(c.conf.Model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(system),
			oa.UserMessage(user),
		},
		Temperature: oa.Float(c.conf.Temperature),
		ResponseFormat: oa.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	attempt := 0
	operation := func() (string, error) {
		attempt++
		resp, err := c.api.Chat.Completions.New(ctx, params)
		if err != nil {
			if ctx.Err() != nil {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	}

	out, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(c.conf.RetryDelay)),
		backoff.WithMaxTries(c.conf.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Warn("llm attempt failed", "attempt", attempt, "error", err, "next", next)
		}),
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return out, nil
}
