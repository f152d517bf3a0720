package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`
	Version string `env:"APP_VERSION" envDefault:"dev"`

	LogRedactionEnabled bool   `env:"LOG_REDACTION_ENABLED" envDefault:"true"`
	LogHashSalt         string `env:"LOG_HASH_SALT"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://adaptive_quiz.db"`

	JWTSecretKey    string        `env:"JWT_SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`
	AdminEmails     []string      `env:"ADMIN_EMAILS" envSeparator:","`

	UploadDir      string   `env:"UPLOAD_DIR" envDefault:"/tmp/uploads"`
	MaxUploadBytes int64    `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`

	RedisAddr string `env:"REDIS_ADDR"`

	LLMAPIKey      string  `env:"LLM_API_KEY"`
	GroqAPIKey     string  `env:"GROQ_API_KEY"`
	LLMBaseURL     string  `env:"LLM_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	LLMModel       string  `env:"LLM_MODEL" envDefault:"llama-3.3-70b-versatile"`
	LLMTemperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.3"`

	LoginRatePerMinute   int           `env:"LOGIN_RATE_PER_MINUTE" envDefault:"20"`
	TokenCleanupSchedule string        `env:"TOKEN_CLEANUP_SCHEDULE" envDefault:"@every 1h"`
	URLFetchTimeout      time.Duration `env:"URL_FETCH_TIMEOUT" envDefault:"15s"`

	OtelEnabled     bool    `env:"OTEL_ENABLED"`
	OtelServiceName string  `env:"OTEL_SERVICE_NAME" envDefault:"adaptivequiz"`
	OtelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelHeaders     string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	OtelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE"`
	OtelSampleRatio float64 `env:"OTEL_SAMPLER_RATIO" envDefault:"0.1"`
}

// LoadConfig reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && len(envFiles) > 0 {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.AdminEmails = cleanList(c.AdminEmails)
	c.CORSOrigins = cleanList(c.CORSOrigins)
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if c.JWTSecretKey == "" && !c.IsProduction() {
		c.JWTSecretKey = "dev-secret-change-me"
	}
}

func (c Config) Validate() error {
	if c.IsProduction() && strings.TrimSpace(c.JWTSecretKey) == "" {
		return errors.New("JWT_SECRET_KEY is required in production")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token ttls must be positive")
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogMode)) {
	case "prod", "production":
		return true
	}
	return false
}

// LLMKey prefers LLM_API_KEY and falls back to GROQ_API_KEY.
func (c Config) LLMKey() string {
	if k := strings.TrimSpace(c.LLMAPIKey); k != "" {
		return k
	}
	return strings.TrimSpace(c.GroqAPIKey)
}

func (c Config) Addr() string { return ":" + c.Port }

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
