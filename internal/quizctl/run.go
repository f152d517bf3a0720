package quizctl

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/client"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// API is the part of *client.Client the commands use.
type API interface {
	Register(ctx context.Context, req apitypes.RegisterRequest) (*apitypes.User, error)
	Login(ctx context.Context, email, password string) (*apitypes.TokenResponse, error)
	Logout(ctx context.Context) error
	UploadText(ctx context.Context, title, text string) (*apitypes.Content, error)
	UploadURL(ctx context.Context, rawURL, title string) (*apitypes.Content, error)
	UploadPDF(ctx context.Context, filename string, r io.Reader, title string) (*apitypes.Content, error)
	ListContent(ctx context.Context) ([]apitypes.Content, error)
	GenerateQuiz(ctx context.Context, req apitypes.GenerateQuizRequest) (*apitypes.GenerateQuizResponse, error)
	SubmitQuiz(ctx context.Context, req apitypes.SubmitQuizRequest) (*apitypes.SubmitQuizResponse, error)
	History(ctx context.Context) ([]apitypes.Attempt, error)
	Recommend(ctx context.Context) (*apitypes.RecommendResponse, error)
	FlagQuestion(ctx context.Context, id uint) error
	AdminStats(ctx context.Context) (*apitypes.StatsResponse, error)
}

// Run builds an API client from cfg and executes the command.
func Run(ctx context.Context, cfg Config, in io.Reader, out, errOut io.Writer) error {
	mode := "test"
	if cfg.Verbose {
		mode = "development"
	}
	log, err := logger.NewWithOptions(mode, logger.Options{Level: "debug"})
	if err != nil {
		return err
	}
	defer log.Sync()

	api, err := client.New(client.Config{
		BaseURL: cfg.BaseURL,
		Tokens:  client.NewFileTokenStore(cfg.TokenPath),
		Log:     log,
	})
	if err != nil {
		return err
	}
	return Dispatch(ctx, api, cfg.Command, cfg.Args, in, out, errOut)
}

type runner struct {
	api    API
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func Dispatch(ctx context.Context, api API, command string, args []string, in io.Reader, out, errOut io.Writer) error {
	if in == nil {
		in = strings.NewReader("")
	}
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	r := &runner{api: api, in: bufio.NewReader(in), out: out, errOut: errOut}
	switch command {
	case "login":
		return r.login(ctx, args)
	case "register":
		return r.register(ctx, args)
	case "logout":
		if err := r.api.Logout(ctx); err != nil && !errors.Is(err, client.ErrLoginRequired) {
			return err
		}
		fmt.Fprintln(r.out, "Logged out.")
		return nil
	case "upload":
		return r.upload(ctx, args)
	case "contents":
		return r.contents(ctx)
	case "play":
		return r.play(ctx, args)
	case "history":
		return r.history(ctx)
	case "recommend":
		return r.recommend(ctx)
	case "flag":
		return r.flagQuestion(ctx, args)
	case "admin-stats":
		return r.adminStats(ctx)
	}
	return fmt.Errorf("unknown command %q\n%w", command, ErrUsage)
}

func newFlagSet(name string, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errOut)
	return fs
}

// readLine returns io.EOF only when input ends before any text.
func (r *runner) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.out, prompt)
	}
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *runner) login(ctx context.Context, args []string) error {
	fs := newFlagSet("login", r.errOut)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		v, err := r.readLine("Email: ")
		if err != nil {
			return err
		}
		*email = strings.TrimSpace(v)
	}
	if *password == "" {
		v, err := r.readLine("Password: ")
		if err != nil {
			return err
		}
		*password = v
	}
	tok, err := r.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	name := *email
	if tok.User != nil && tok.User.Name != "" {
		name = tok.User.Name
	}
	fmt.Fprintf(r.out, "Logged in as %s.\n", name)
	return nil
}

func (r *runner) register(ctx context.Context, args []string) error {
	fs := newFlagSet("register", r.errOut)
	var req apitypes.RegisterRequest
	var subjects string
	fs.StringVar(&req.Email, "email", "", "account email")
	fs.StringVar(&req.Password, "password", "", "account password")
	fs.StringVar(&req.Name, "name", "", "display name")
	fs.StringVar(&req.PreferredDifficulty, "difficulty", "", "easy, medium or hard")
	fs.StringVar(&subjects, "subjects", "", "comma separated subjects")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.Email == "" || req.Password == "" {
		return errors.New("register needs -email and -password")
	}
	req.Subjects = splitList(subjects)
	u, err := r.api.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Registered %s. Run `quizctl login -email %s` next.\n", u.Email, u.Email)
	return nil
}

func (r *runner) upload(ctx context.Context, args []string) error {
	fs := newFlagSet("upload", r.errOut)
	title := fs.String("title", "", "content title")
	file := fs.String("file", "", "text or PDF file to upload")
	rawURL := fs.String("url", "", "web page to import")
	text := fs.String("text", "", "inline text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		content *apitypes.Content
		err     error
	)
	switch {
	case *rawURL != "":
		content, err = r.api.UploadURL(ctx, *rawURL, *title)
	case *file != "" && strings.EqualFold(filepath.Ext(*file), ".pdf"):
		f, openErr := os.Open(*file)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		content, err = r.api.UploadPDF(ctx, filepath.Base(*file), f, *title)
	case *file != "":
		b, readErr := os.ReadFile(*file)
		if readErr != nil {
			return readErr
		}
		t := *title
		if t == "" {
			t = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
		}
		content, err = r.api.UploadText(ctx, t, string(b))
	case *text != "":
		content, err = r.api.UploadText(ctx, *title, *text)
	default:
		return errors.New("upload needs one of -file, -url or -text")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved content #%d %q (%d chunks).\n", content.ID, content.Title, content.ChunkCount)
	return nil
}

func (r *runner) contents(ctx context.Context) error {
	list, err := r.api.ListContent(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(r.out, "No content yet. Upload some with `quizctl upload`.")
		return nil
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSOURCE\tCHUNKS\tCREATED")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", c.ID, c.Title, c.SourceType, c.ChunkCount, c.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (r *runner) history(ctx context.Context) error {
	attempts, err := r.api.History(ctx)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Fprintln(r.out, "No quizzes taken yet.")
		return nil
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCONTENT\tDIFFICULTY\tSCORE\tTIME\tSTARTED")
	for _, a := range attempts {
		score := "-"
		if a.CompletedAt != nil {
			score = fmt.Sprintf("%d/%d (%.1f%%)", a.CorrectCount, a.TotalQuestions, a.ScorePercent)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.1fs\t%s\n", a.ID, a.ContentID, a.Difficulty, score, a.TimeTakenSeconds, a.StartedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func (r *runner) recommend(ctx context.Context) error {
	rec, err := r.api.Recommend(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Recommended difficulty: %s\nRecent average: %.1f%%\nQuizzes taken: %d\n",
		rec.RecommendedDifficulty, rec.RecentAverageScore, rec.TotalQuizzesTaken)
	return nil
}

func (r *runner) flagQuestion(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("flag needs a question id")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := r.api.FlagQuestion(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Flagged question #%d.\n", id)
	return nil
}

func (r *runner) adminStats(ctx context.Context) error {
	s, err := r.api.AdminStats(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Users\t%d\n", s.TotalUsers)
	fmt.Fprintf(tw, "Contents\t%d\n", s.TotalContents)
	fmt.Fprintf(tw, "Questions\t%d\n", s.TotalQuestions)
	fmt.Fprintf(tw, "Quizzes\t%d\n", s.TotalQuizzes)
	fmt.Fprintf(tw, "Flagged\t%d\n", s.FlaggedQuestions)
	return tw.Flush()
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
