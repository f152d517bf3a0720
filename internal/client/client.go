// Package client is a typed HTTP client for the adaptive quiz API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 60 * time.Second
	maxBodyBytes   = 16 << 20
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Tokens     TokenStore
	Log        *logger.Logger
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        *logger.Logger
}

func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	tokens := cfg.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore("")
	}
	log := cfg.Log
	if log == nil {
		var err error
		if log, err = logger.New("test"); err != nil {
			return nil, err
		}
	}
	return &Client{
		baseURL:    base,
		httpClient: hc,
		tokens:     tokens,
		log:        log.With("client", "AdaptiveQuizClient"),
	}, nil
}

func (c *Client) LoggedIn() bool {
	tok, err := c.tokens.Load()
	return err == nil && tok != ""
}

// ---------- auth ----------

func (c *Client) Register(ctx context.Context, req apitypes.RegisterRequest) (*apitypes.User, error) {
	var out apitypes.UserResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", false, req, &out, "Registration failed"); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login stores the returned access token.
func (c *Client) Login(ctx context.Context, email, password string) (*apitypes.TokenResponse, error) {
	var out apitypes.TokenResponse
	req := apitypes.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", false, req, &out, "Login failed"); err != nil {
		return nil, err
	}
	if err := c.tokens.Save(out.AccessToken); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the token server side and always forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", true, nil, nil, "Logout failed")
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Profile(ctx context.Context) (*apitypes.User, error) {
	var out apitypes.UserResponse
	if err := c.doJSON(ctx, http.MethodGet, "/auth/profile", true, nil, &out, "Failed to load profile"); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req apitypes.UpdateProfileRequest) (*apitypes.User, error) {
	var out apitypes.UserResponse
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", true, req, &out, "Update failed"); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ---------- content ----------

func (c *Client) UploadText(ctx context.Context, title, text string) (*apitypes.Content, error) {
	var out apitypes.ContentResponse
	req := apitypes.UploadTextRequest{Title: title, Text: text}
	if err := c.doJSON(ctx, http.MethodPost, "/content/upload/text", true, req, &out, "Upload failed"); err != nil {
		return nil, err
	}
	return &out.Content, nil
}

func (c *Client) UploadURL(ctx context.Context, rawURL, title string) (*apitypes.Content, error) {
	var out apitypes.ContentResponse
	req := apitypes.UploadURLRequest{URL: rawURL, Title: title}
	if err := c.doJSON(ctx, http.MethodPost, "/content/upload/url", true, req, &out, "Upload failed"); err != nil {
		return nil, err
	}
	return &out.Content, nil
}

func (c *Client) UploadPDF(ctx context.Context, filename string, r io.Reader, title string) (*apitypes.Content, error) {
	const fallback = "Upload failed"
	token, err := c.requireToken()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if title != "" {
		if err := mw.WriteField("title", title); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/content/upload/pdf", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	var out apitypes.ContentResponse
	if err := c.send(req, &out, fallback); err != nil {
		return nil, err
	}
	return &out.Content, nil
}

func (c *Client) ListContent(ctx context.Context) ([]apitypes.Content, error) {
	var out apitypes.ContentListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/content/list", true, nil, &out, "Failed to load content"); err != nil {
		return nil, err
	}
	return out.Contents, nil
}

func (c *Client) GetContent(ctx context.Context, id uint) (*apitypes.Content, error) {
	var out apitypes.ContentResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/content/%d", id), true, nil, &out, "Failed to load content"); err != nil {
		return nil, err
	}
	return &out.Content, nil
}

func (c *Client) DeleteContent(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/content/%d", id), true, nil, nil, "Delete failed")
}

// ---------- quiz ----------

func (c *Client) GenerateQuiz(ctx context.Context, req apitypes.GenerateQuizRequest) (*apitypes.GenerateQuizResponse, error) {
	var out apitypes.GenerateQuizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quiz/generate", true, req, &out, "Failed to generate quiz"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitQuiz(ctx context.Context, req apitypes.SubmitQuizRequest) (*apitypes.SubmitQuizResponse, error) {
	var out apitypes.SubmitQuizResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quiz/submit", true, req, &out, "Failed to submit"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) History(ctx context.Context) ([]apitypes.Attempt, error) {
	var out apitypes.HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/quiz/history", true, nil, &out, "Failed to load history"); err != nil {
		return nil, err
	}
	return out.Attempts, nil
}

func (c *Client) Attempt(ctx context.Context, id uint) (*apitypes.AttemptDetailResponse, error) {
	var out apitypes.AttemptDetailResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", id), true, nil, &out, "Failed to load attempt"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Recommend(ctx context.Context) (*apitypes.RecommendResponse, error) {
	var out apitypes.RecommendResponse
	if err := c.doJSON(ctx, http.MethodGet, "/quiz/recommend", true, nil, &out, "Failed to load recommendation"); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---------- admin ----------

func (c *Client) AdminStats(ctx context.Context) (*apitypes.StatsResponse, error) {
	var out apitypes.StatsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/stats", true, nil, &out, "Failed to load stats"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUsers(ctx context.Context) ([]apitypes.User, error) {
	var out apitypes.UsersResponse
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", true, nil, &out, "Failed to load users"); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) AdminQuestions(ctx context.Context, flagged bool) ([]apitypes.Question, error) {
	var out apitypes.QuestionsResponse
	path := fmt.Sprintf("/admin/questions?flagged=%t", flagged)
	if err := c.doJSON(ctx, http.MethodGet, path, true, nil, &out, "Failed to load questions"); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (c *Client) FlagQuestion(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/admin/questions/%d/flag", id), true, nil, nil, "Failed to flag question")
}

func (c *Client) DeleteQuestion(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/questions/%d", id), true, nil, nil, "Failed to delete question")
}

func (c *Client) SubmitFeedback(ctx context.Context, req apitypes.FeedbackRequest) (*apitypes.Feedback, error) {
	var out apitypes.FeedbackResponse
	if err := c.doJSON(ctx, http.MethodPost, "/admin/feedback", true, req, &out, "Failed to submit feedback"); err != nil {
		return nil, err
	}
	return &out.Feedback, nil
}

// ---------- HTTP helpers ----------

func (c *Client) requireToken() (string, error) {
	tok, err := c.tokens.Load()
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", ErrLoginRequired
	}
	return tok, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, auth bool, body, out any, fallback string) error {
	var token string
	if auth {
		tok, err := c.requireToken()
		if err != nil {
			return err
		}
		token = tok
	} else if tok, err := c.tokens.Load(); err == nil {
		token = tok
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.send(req, out, fallback)
}

func (c *Client) send(req *http.Request, out any, fallback string) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return &Error{Message: fallback, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: err}
	}
	c.log.Debug("request done",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: messageFromBody(raw, fallback)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
