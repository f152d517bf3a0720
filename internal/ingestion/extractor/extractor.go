package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	DefaultUserAgent    = "AdaptiveQuiz/1.0"
	DefaultFetchTimeout = 15 * time.Second
	DefaultMaxFetchSize = 8 << 20
	defaultFetchTries   = 3
)

// Extractor turns remote pages and uploaded documents into plain text.
type Extractor struct {
	Log *logger.Logger

	HTTPClient   *http.Client
	UserAgent    string
	MaxBytes     int64
	MaxTries     uint
	RetryBackoff time.Duration
}

type Options struct {
	FetchTimeout time.Duration
	UserAgent    string
	MaxBytes     int64
	MaxTries     uint
}

func New(log *logger.Logger, opts Options) *Extractor {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxFetchSize
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = defaultFetchTries
	}
	return &Extractor{
		Log:          log.With("service", "Extractor"),
		HTTPClient:   &http.Client{Timeout: opts.FetchTimeout},
		UserAgent:    opts.UserAgent,
		MaxBytes:     opts.MaxBytes,
		MaxTries:     opts.MaxTries,
		RetryBackoff: 500 * time.Millisecond,
	}
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

// FetchURL downloads rawURL and returns its visible text. Network errors and
// 5xx/429 responses are retried; other non-2xx responses fail immediately.
func (e *Extractor) FetchURL(ctx context.Context, rawURL string) (string, error) {
	ctx = defaultCtx(ctx)
	u, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	operation := func() ([]byte, error) {
		return e.fetchOnce(ctx, u.String())
	}

	body, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(e.newBackOff()),
		backoff.WithMaxTries(e.MaxTries),
		backoff.WithNotify(func(err error, next time.Duration) {
			e.Log.Warn("url fetch retry", "url", u.Redacted(), "error", err, "next", next)
		}),
	)
	if err != nil {
		return "", err
	}
	return ExtractHTML(body)
}

func (e *Extractor) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.RetryBackoff
	b.MaxInterval = 4 * e.RetryBackoff
	return b
}

func (e *Extractor) fetchOnce(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", e.UserAgent)

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), target)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > e.MaxBytes {
		return nil, backoff.Permanent(fmt.Errorf("response larger than %d bytes", e.MaxBytes))
	}
	return body, nil
}
