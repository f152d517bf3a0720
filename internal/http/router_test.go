package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	httpH "github.com/yungbote/adaptivequiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adaptivequiz-backend/internal/http/middleware"
	"github.com/yungbote/adaptivequiz-backend/internal/quizgen"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

type fixedGenerator struct{ questions []quizgen.Question }

func (g fixedGenerator) Generate(_ context.Context, _ string, opts quizgen.Options) ([]quizgen.Question, error) {
	out := g.questions
	if opts.MaxQuestions > 0 && len(out) > opts.MaxQuestions {
		out = out[:opts.MaxQuestions]
	}
	return out, nil
}

type staticFetcher struct{}

func (staticFetcher) FetchURL(context.Context, string) (string, error) {
	return "Page text. Another sentence.", nil
}

type testRouter struct {
	engine *gin.Engine
}

func newTestRouter(t *testing.T, loginPerMinute int, maxUpload int64) *testRouter {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	cache := redis.NewMemoryCache()

	userRepo := repos.NewUserRepo(db, log)
	contentRepo := repos.NewContentRepo(db, log)
	chunkRepo := repos.NewContentChunkRepo(db, log)
	questionRepo := repos.NewQuestionRepo(db, log)
	attemptRepo := repos.NewQuizAttemptRepo(db, log)

	gen := fixedGenerator{questions: []quizgen.Question{
		{Type: types.QuestionTypeFillBlank, Text: "______ is red.", Answer: "Mars", Difficulty: types.DifficultyMedium},
		{Type: types.QuestionTypeTrueFalse, Text: "True or False: Venus is hot.", Options: []string{"True", "False"}, Answer: "True", Difficulty: types.DifficultyMedium},
	}}

	auth := services.NewAuthService(db, log, userRepo, repos.NewUserTokenRepo(db, log), services.AuthConfig{
		JWTSecretKey: "router-secret",
		AccessTTL:    time.Hour,
		RefreshTTL:   24 * time.Hour,
		AdminEmails:  []string{"root@example.com"},
	})
	recs := services.NewRecommendationService(db, log, userRepo, attemptRepo, cache)
	users := services.NewUserService(db, log, userRepo, recs)
	contents := services.NewContentService(db, log, contentRepo, chunkRepo, staticFetcher{}, nil)
	quizzes := services.NewQuizService(db, log, userRepo, contentRepo, chunkRepo, questionRepo, attemptRepo,
		repos.NewQuizResponseRepo(db, log), gen, recs)
	admin := services.NewAdminService(db, log, userRepo, contentRepo, questionRepo, attemptRepo, cache)
	feedback := services.NewFeedbackService(db, log, questionRepo, repos.NewFeedbackRepo(db, log))

	engine := NewRouter(RouterConfig{
		Log:             log,
		AuthHandler:     httpH.NewAuthHandler(auth, users),
		AuthMiddleware:  httpMW.NewAuthMiddleware(log, auth),
		ContentHandler:  httpH.NewContentHandler(contents, maxUpload),
		QuizHandler:     httpH.NewQuizHandler(quizzes),
		AdminHandler:    httpH.NewAdminHandler(admin),
		FeedbackHandler: httpH.NewFeedbackHandler(feedback),
		HealthHandler:   httpH.NewHealthHandler("test"),
		LoginLimiter:    httpMW.NewRateLimiter(loginPerMinute),
	})
	return &testRouter{engine: engine}
}

func (tr *testRouter) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	tr.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func (tr *testRouter) login(t *testing.T, email string) string {
	t.Helper()
	w := tr.do(t, http.MethodPost, "/auth/register", "", apitypes.RegisterRequest{Email: email, Password: "secret"})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}
	w = tr.do(t, http.MethodPost, "/auth/login", "", apitypes.LoginRequest{Email: email, Password: "secret"})
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	tok := decode[apitypes.TokenResponse](t, w)
	if tok.AccessToken == "" || tok.TokenType != "Bearer" || tok.ExpiresIn != 3600 {
		t.Fatalf("unexpected token response %+v", tok)
	}
	return tok.AccessToken
}

func TestHealthAndIndex(t *testing.T) {
	tr := newTestRouter(t, 0, 0)

	w := tr.do(t, http.MethodGet, "/healthcheck", "", nil)
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("healthcheck status=%d body=%q", w.Code, w.Body.String())
	}
	w = tr.do(t, http.MethodGet, "/", "", nil)
	idx := decode[apitypes.IndexResponse](t, w)
	if idx.Name != "adaptivequiz" || idx.Endpoints["quiz"] == "" {
		t.Fatalf("unexpected index %+v", idx)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	tr := newTestRouter(t, 0, 0)
	for _, path := range []string{"/content/list", "/quiz/history", "/quiz/recommend", "/auth/profile", "/admin/stats"} {
		w := tr.do(t, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s status=%d", path, w.Code)
		}
		if body := decode[apitypes.ErrorResponse](t, w); body.Msg == "" || body.Error.Message != body.Msg {
			t.Fatalf("%s unexpected error body %+v", path, body)
		}
	}
	w := tr.do(t, http.MethodGet, "/content/list", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status=%d", w.Code)
	}
}

func TestQuizFlowOverHTTP(t *testing.T) {
	tr := newTestRouter(t, 0, 0)
	token := tr.login(t, "player@example.com")

	w := tr.do(t, http.MethodPost, "/content/upload/text", token, apitypes.UploadTextRequest{Title: "Planets", Text: "Mars is red. Venus is hot."})
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status=%d body=%s", w.Code, w.Body.String())
	}
	content := decode[apitypes.ContentResponse](t, w).Content
	if content.ID == 0 || content.ChunkCount != 1 || content.SourceType != types.SourceText {
		t.Fatalf("unexpected content %+v", content)
	}

	w = tr.do(t, http.MethodGet, "/content/list", token, nil)
	if list := decode[apitypes.ContentListResponse](t, w); len(list.Contents) != 1 {
		t.Fatalf("list=%+v", list)
	}
	w = tr.do(t, http.MethodGet, fmt.Sprintf("/content/%d", content.ID), token, nil)
	if got := decode[apitypes.ContentResponse](t, w).Content; len(got.Chunks) != 1 {
		t.Fatalf("content detail %+v", got)
	}

	w = tr.do(t, http.MethodPost, "/quiz/generate", token, apitypes.GenerateQuizRequest{ContentID: content.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate status=%d body=%s", w.Code, w.Body.String())
	}
	gen := decode[apitypes.GenerateQuizResponse](t, w)
	if gen.AttemptID == 0 || len(gen.Questions) != 2 || gen.Difficulty != types.DifficultyMedium {
		t.Fatalf("unexpected generate response %+v", gen)
	}
	for _, q := range gen.Questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("answers must not be sent while playing: %+v", q)
		}
	}

	w = tr.do(t, http.MethodPost, "/quiz/submit", token, apitypes.SubmitQuizRequest{
		AttemptID: gen.AttemptID,
		Answers: []apitypes.SubmitAnswer{
			{QuestionID: gen.Questions[0].ID, Answer: "mars", TimeSpentSeconds: 3},
			{QuestionID: gen.Questions[1].ID, Answer: "True", TimeSpentSeconds: 2},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit status=%d body=%s", w.Code, w.Body.String())
	}
	sub := decode[apitypes.SubmitQuizResponse](t, w)
	if sub.Attempt.ScorePercent != 100 || sub.RecommendedDifficulty != types.DifficultyHard || len(sub.Results) != 2 {
		t.Fatalf("unexpected submit response %+v", sub)
	}

	w = tr.do(t, http.MethodPost, "/quiz/submit", token, apitypes.SubmitQuizRequest{AttemptID: gen.AttemptID})
	if w.Code != http.StatusConflict {
		t.Fatalf("double submit status=%d", w.Code)
	}

	w = tr.do(t, http.MethodGet, "/quiz/history", token, nil)
	if h := decode[apitypes.HistoryResponse](t, w); len(h.Attempts) != 1 {
		t.Fatalf("history=%+v", h)
	}
	w = tr.do(t, http.MethodGet, fmt.Sprintf("/quiz/attempt/%d", gen.AttemptID), token, nil)
	if d := decode[apitypes.AttemptDetailResponse](t, w); len(d.Responses) != 2 {
		t.Fatalf("attempt detail=%+v", d)
	}
	w = tr.do(t, http.MethodGet, "/quiz/recommend", token, nil)
	rec := decode[apitypes.RecommendResponse](t, w)
	if rec.RecommendedDifficulty != types.DifficultyHard || rec.TotalQuizzesTaken != 1 {
		t.Fatalf("recommend=%+v", rec)
	}

	w = tr.do(t, http.MethodGet, "/auth/profile", token, nil)
	if u := decode[apitypes.UserResponse](t, w).User; u.PreferredDifficulty != types.DifficultyHard {
		t.Fatalf("profile not updated: %+v", u)
	}

	w = tr.do(t, http.MethodDelete, fmt.Sprintf("/content/%d", content.ID), token, nil)
	if w.Code != http.StatusOK || decode[apitypes.MessageResponse](t, w).Msg != "content deleted" {
		t.Fatalf("delete status=%d body=%s", w.Code, w.Body.String())
	}

	w = tr.do(t, http.MethodPost, "/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status=%d", w.Code)
	}
	w = tr.do(t, http.MethodGet, "/quiz/history", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status=%d", w.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	tr := newTestRouter(t, 0, 0)
	rootToken := tr.login(t, "root@example.com")
	userToken := tr.login(t, "user@example.com")

	w := tr.do(t, http.MethodGet, "/admin/stats", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin stats status=%d", w.Code)
	}

	w = tr.do(t, http.MethodGet, "/admin/stats", rootToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin stats status=%d body=%s", w.Code, w.Body.String())
	}
	if stats := decode[apitypes.StatsResponse](t, w); stats.TotalUsers != 2 {
		t.Fatalf("stats=%+v", stats)
	}

	w = tr.do(t, http.MethodGet, "/admin/users", rootToken, nil)
	users := decode[apitypes.UsersResponse](t, w).Users
	if len(users) != 2 {
		t.Fatalf("users=%+v", users)
	}
	var plain apitypes.User
	for _, u := range users {
		if u.Email == "user@example.com" {
			plain = u
		}
	}

	w = tr.do(t, http.MethodPost, fmt.Sprintf("/admin/promote/%d", plain.ID), rootToken, nil)
	if msg := decode[apitypes.UserResponse](t, w).Msg; msg != "user@example.com is now admin" {
		t.Fatalf("promote msg=%q", msg)
	}

	w = tr.do(t, http.MethodPost, "/admin/questions/999/flag", userToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("flag missing question status=%d", w.Code)
	}
	w = tr.do(t, http.MethodPost, "/admin/feedback", userToken, apitypes.FeedbackRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty feedback status=%d", w.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	tr := newTestRouter(t, 2, 0)
	body := apitypes.LoginRequest{Email: "nobody@example.com", Password: "x"}
	for i := 0; i < 2; i++ {
		if w := tr.do(t, http.MethodPost, "/auth/login", "", body); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status=%d", i, w.Code)
		}
	}
	w := tr.do(t, http.MethodPost, "/auth/login", "", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestUploadPDFLimits(t *testing.T) {
	tr := newTestRouter(t, 0, 64)
	token := tr.login(t, "pdf@example.com")

	upload := func(filename string, data []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if filename != "" {
			fw, err := mw.CreateFormFile("file", filename)
			if err != nil {
				t.Fatalf("CreateFormFile: %v", err)
			}
			_, _ = fw.Write(data)
		}
		_ = mw.WriteField("title", "Notes")
		_ = mw.Close()
		req := httptest.NewRequest(http.MethodPost, "/content/upload/pdf", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		tr.engine.ServeHTTP(w, req)
		return w
	}

	if w := upload("", nil); w.Code != http.StatusBadRequest || decode[apitypes.ErrorResponse](t, w).Msg != "PDF file is required" {
		t.Fatalf("missing file status=%d body=%s", w.Code, w.Body.String())
	}
	if w := upload("big.pdf", bytes.Repeat([]byte("x"), 200)); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized status=%d body=%s", w.Code, w.Body.String())
	}
	if w := upload("notes.txt", []byte("hello")); w.Code != http.StatusBadRequest {
		t.Fatalf("non-pdf status=%d", w.Code)
	}
}
