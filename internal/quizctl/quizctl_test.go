package quizctl

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/client"
)

type fakeAPI struct {
	questions []apitypes.Question
	generated apitypes.GenerateQuizRequest
	submitted apitypes.SubmitQuizRequest
	uploads   []string
	flagged   []uint
	loginErr  error
}

func (f *fakeAPI) Register(_ context.Context, req apitypes.RegisterRequest) (*apitypes.User, error) {
	return &apitypes.User{ID: 1, Email: req.Email, Subjects: req.Subjects}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (*apitypes.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &apitypes.TokenResponse{AccessToken: "tok", User: &apitypes.User{Email: email, Name: "Ada"}}, nil
}

func (f *fakeAPI) Logout(context.Context) error { return client.ErrLoginRequired }

func (f *fakeAPI) UploadText(_ context.Context, title, text string) (*apitypes.Content, error) {
	f.uploads = append(f.uploads, "text:"+title+":"+text)
	return &apitypes.Content{ID: 7, Title: title, ChunkCount: 1}, nil
}

func (f *fakeAPI) UploadURL(_ context.Context, rawURL, title string) (*apitypes.Content, error) {
	f.uploads = append(f.uploads, "url:"+rawURL)
	return &apitypes.Content{ID: 8, Title: title, ChunkCount: 2}, nil
}

func (f *fakeAPI) UploadPDF(_ context.Context, filename string, r io.Reader, _ string) (*apitypes.Content, error) {
	b, _ := io.ReadAll(r)
	f.uploads = append(f.uploads, "pdf:"+filename+":"+string(b))
	return &apitypes.Content{ID: 9, Title: filename, ChunkCount: 3}, nil
}

func (f *fakeAPI) ListContent(context.Context) ([]apitypes.Content, error) {
	return []apitypes.Content{{ID: 1, Title: "Planets", SourceType: "text", ChunkCount: 2}}, nil
}

func (f *fakeAPI) GenerateQuiz(_ context.Context, req apitypes.GenerateQuizRequest) (*apitypes.GenerateQuizResponse, error) {
	f.generated = req
	if len(f.questions) == 0 {
		return &apitypes.GenerateQuizResponse{Msg: "could not generate questions from this content", Questions: []apitypes.Question{}}, nil
	}
	return &apitypes.GenerateQuizResponse{AttemptID: 42, Difficulty: "medium", Questions: f.questions}, nil
}

func (f *fakeAPI) SubmitQuiz(_ context.Context, req apitypes.SubmitQuizRequest) (*apitypes.SubmitQuizResponse, error) {
	f.submitted = req
	results := make([]apitypes.AnswerResult, 0, len(req.Answers))
	correct := 0
	for _, a := range req.Answers {
		ok := a.Answer == "Mars" || a.Answer == "True"
		if ok {
			correct++
		}
		results = append(results, apitypes.AnswerResult{QuestionID: a.QuestionID, YourAnswer: a.Answer, CorrectAnswer: "Mars", IsCorrect: ok})
	}
	return &apitypes.SubmitQuizResponse{
		Attempt:               apitypes.Attempt{ID: req.AttemptID, CorrectCount: correct, TotalQuestions: len(req.Answers), ScorePercent: 100},
		Results:               results,
		RecommendedDifficulty: "hard",
	}, nil
}

func (f *fakeAPI) History(context.Context) ([]apitypes.Attempt, error) { return nil, nil }

func (f *fakeAPI) Recommend(context.Context) (*apitypes.RecommendResponse, error) {
	return &apitypes.RecommendResponse{RecommendedDifficulty: "easy", RecentAverageScore: 42.5, TotalQuizzesTaken: 3}, nil
}

func (f *fakeAPI) FlagQuestion(_ context.Context, id uint) error {
	f.flagged = append(f.flagged, id)
	return nil
}

func (f *fakeAPI) AdminStats(context.Context) (*apitypes.StatsResponse, error) {
	return &apitypes.StatsResponse{TotalUsers: 5, FlaggedQuestions: 1}, nil
}

func run(t *testing.T, api API, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := Dispatch(context.Background(), api, args[0], args[1:], strings.NewReader(input), &out, io.Discard)
	return out.String(), err
}

func TestParseConfig(t *testing.T) {
	env := map[string]string{"ADAPTIVEQUIZ_URL": "http://quiz.test", "ADAPTIVEQUIZ_TOKEN_FILE": "/tmp/tok"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg, err := ParseConfig(flag.NewFlagSet("quizctl", flag.ContinueOnError), []string{"-v", "PLAY", "-content", "3"}, lookup)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.BaseURL != "http://quiz.test" || cfg.TokenPath != "/tmp/tok" || !cfg.Verbose {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Command != "play" || len(cfg.Args) != 2 || cfg.Args[1] != "3" {
		t.Fatalf("unexpected command %q %v", cfg.Command, cfg.Args)
	}

	cfg, err = ParseConfig(flag.NewFlagSet("quizctl", flag.ContinueOnError), []string{"-server", "http://other", "history"}, lookup)
	if err != nil || cfg.BaseURL != "http://other" {
		t.Fatalf("flag should override env: %v %+v", err, cfg)
	}

	_, err = ParseConfig(flag.NewFlagSet("quizctl", flag.ContinueOnError), nil, nil)
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestPlayFlow(t *testing.T) {
	api := &fakeAPI{questions: []apitypes.Question{
		{ID: 1, QuestionType: "fill_blank", QuestionText: "______ is red.", Difficulty: "medium"},
		{ID: 2, QuestionType: "true_false", QuestionText: "Venus is hot.", Options: []string{"True", "False"}, Difficulty: "medium"},
		{ID: 3, QuestionType: "fill_blank", QuestionText: "Jupiter is ______.", Difficulty: "medium"},
	}}
	// Answer q1, pick option 2 on q2, walk back to q1, keep it, change q2 to
	// option 1, try to skip q3 blank, then answer it.
	input := "Mars\n2\n<\n<\n\n1\n\nbig\n"
	out, err := run(t, api, input, "play", "-content", "5", "-n", "3", "-types", "fill_blank, true_false")
	if err != nil {
		t.Fatalf("play: %v\n%s", err, out)
	}
	if api.generated.ContentID != 5 || *api.generated.NumQuestions != 3 || api.generated.Difficulty != "auto" || len(api.generated.Types) != 2 {
		t.Fatalf("unexpected generate request %+v", api.generated)
	}
	got := api.submitted
	if got.AttemptID != 42 || len(got.Answers) != 3 {
		t.Fatalf("unexpected submission %+v", got)
	}
	want := []string{"Mars", "True", "big"}
	for i, a := range got.Answers {
		if a.Answer != want[i] || a.QuestionID != uint(i+1) {
			t.Fatalf("answer %d = %+v, want %q", i, a, want[i])
		}
	}
	for _, s := range []string{"Question 1 of 3", "2) False", "answer the current question first", "(current answer: Mars)", "Score: 2/3", "Recommended next difficulty: hard", "Jupiter is ______."} {
		if !strings.Contains(out, s) {
			t.Fatalf("output missing %q:\n%s", s, out)
		}
	}
}

func TestPlayAbandonedOnEOF(t *testing.T) {
	api := &fakeAPI{questions: []apitypes.Question{{ID: 1, QuestionText: "Q?"}, {ID: 2, QuestionText: "R?"}}}
	_, err := run(t, api, "first\n", "play", "-content", "1")
	if !errors.Is(err, errQuit) {
		t.Fatalf("expected abandoned quiz, got %v", err)
	}
	if api.submitted.AttemptID != 0 {
		t.Fatalf("abandoned quiz should not be submitted")
	}
}

func TestPlayNoQuestions(t *testing.T) {
	out, err := run(t, &fakeAPI{}, "", "play", "-content", "1")
	if err != nil || !strings.Contains(out, "could not generate questions") {
		t.Fatalf("unexpected result %v %q", err, out)
	}
	if _, err := run(t, &fakeAPI{}, "", "play"); err == nil {
		t.Fatalf("expected error without -content")
	}
}

func TestUploadVariants(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	pdf := filepath.Join(dir, "paper.PDF")
	if err := os.WriteFile(txt, []byte("Mars is red."), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}

	api := &fakeAPI{}
	for _, args := range [][]string{
		{"upload", "-file", txt},
		{"upload", "-file", pdf},
		{"upload", "-url", "https://example.com"},
		{"upload", "-title", "T", "-text", "inline"},
	} {
		if _, err := run(t, api, "", args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}
	want := []string{"text:notes:Mars is red.", "pdf:paper.PDF:%PDF-1.4", "url:https://example.com", "text:T:inline"}
	if strings.Join(api.uploads, "|") != strings.Join(want, "|") {
		t.Fatalf("uploads=%v", api.uploads)
	}
	if _, err := run(t, api, "", "upload"); err == nil {
		t.Fatalf("expected error with no source")
	}
}

func TestSimpleCommands(t *testing.T) {
	api := &fakeAPI{}
	cases := []struct {
		args  []string
		input string
		want  string
	}{
		{[]string{"login"}, "ada@example.com\nsecret\n", "Logged in as Ada."},
		{[]string{"register", "-email", "a@b.c", "-password", "pw", "-subjects", "math, ,physics"}, "", "Registered a@b.c."},
		{[]string{"logout"}, "", "Logged out."},
		{[]string{"contents"}, "", "Planets"},
		{[]string{"history"}, "", "No quizzes taken yet."},
		{[]string{"recommend"}, "", "Recent average: 42.5%"},
		{[]string{"flag", "12"}, "", "Flagged question #12."},
		{[]string{"admin-stats"}, "", "Flagged"},
	}
	for _, tc := range cases {
		out, err := run(t, api, tc.input, tc.args...)
		if err != nil {
			t.Fatalf("%v: %v", tc.args, err)
		}
		if !strings.Contains(out, tc.want) {
			t.Fatalf("%v: output %q missing %q", tc.args, out, tc.want)
		}
	}
	if len(api.flagged) != 1 || api.flagged[0] != 12 {
		t.Fatalf("flagged=%v", api.flagged)
	}
	if _, err := run(t, api, "", "flag", "abc"); err == nil {
		t.Fatalf("expected invalid id error")
	}
	if _, err := run(t, api, "", "dance"); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestLoginError(t *testing.T) {
	api := &fakeAPI{loginErr: &client.Error{Status: 401, Message: "invalid credentials"}}
	_, err := run(t, api, "", "login", "-email", "x@y.z", "-password", "bad")
	if err == nil || err.Error() != "invalid credentials" {
		t.Fatalf("unexpected error %v", err)
	}
}
