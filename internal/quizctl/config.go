// Package quizctl implements the terminal client for the adaptive quiz API.
package quizctl

import (
	"errors"
	"flag"
	"strings"

	"github.com/yungbote/adaptivequiz-backend/internal/client"
)

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

type Config struct {
	BaseURL   string
	TokenPath string
	Verbose   bool

	Command string
	Args    []string
}

var ErrUsage = errors.New("usage: quizctl [-server URL] [-token-file PATH] [-v] <command> [args]\n" +
	"commands: login, register, logout, upload, contents, play, history, recommend, flag, admin-stats")

// ParseConfig reads global flags; the first positional argument is the
// command and the rest are its arguments.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	base := envOr(lookup, "ADAPTIVEQUIZ_URL", client.DefaultBaseURL)
	tokenPath := envOr(lookup, "ADAPTIVEQUIZ_TOKEN_FILE", "")

	var cfg Config
	fs.StringVar(&cfg.BaseURL, "server", base, "API base URL")
	fs.StringVar(&cfg.TokenPath, "token-file", tokenPath, "token file (default ~/.adaptivequiz/token)")
	fs.BoolVar(&cfg.Verbose, "v", false, "log requests to stderr")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return Config{}, ErrUsage
	}
	cfg.Command = strings.ToLower(rest[0])
	cfg.Args = rest[1:]
	if cfg.TokenPath == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			return Config{}, err
		}
		cfg.TokenPath = p
	}
	return cfg, nil
}

func envOr(lookup EnvLookup, key, fallback string) string {
	if lookup == nil {
		return fallback
	}
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
