package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
	"github.com/yungbote/adaptivequiz-backend/internal/quizgen"
)

const (
	DefaultNumQuestions = 10
	MaxNumQuestions     = 50
	HistoryLimit        = 50
)

type GenerateInput struct {
	ContentID    uint
	NumQuestions *int
	Difficulty   string
	Types        []string
}

type GenerateResult struct {
	Attempt    *types.QuizAttempt
	Difficulty string
	Questions  []*types.Question
}

type SubmittedAnswer struct {
	QuestionID       uint
	Answer           string
	TimeSpentSeconds float64
}

type AnswerResult struct {
	QuestionID    uint
	YourAnswer    string
	CorrectAnswer string
	IsCorrect     bool
	Explanation   string
}

type SubmitResult struct {
	Attempt               *types.QuizAttempt
	Results               []AnswerResult
	RecommendedDifficulty string
}

type QuizService interface {
	Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error)
	Submit(ctx context.Context, attemptID uint, answers []SubmittedAnswer) (*SubmitResult, error)
	History(ctx context.Context) ([]*types.QuizAttempt, error)
	Attempt(ctx context.Context, attemptID uint) (*types.QuizAttempt, []*types.QuizResponse, error)
	Recommend(ctx context.Context) (*Recommendation, error)
}

type quizService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	contents    repos.ContentRepo
	chunks      repos.ContentChunkRepo
	questions   repos.QuestionRepo
	attempts    repos.QuizAttemptRepo
	responses   repos.QuizResponseRepo
	generator   quizgen.Generator
	recommender RecommendationService
	now         func() time.Time
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	contents repos.ContentRepo,
	chunks repos.ContentChunkRepo,
	questions repos.QuestionRepo,
	attempts repos.QuizAttemptRepo,
	responses repos.QuizResponseRepo,
	generator quizgen.Generator,
	recommender RecommendationService,
) QuizService {
	return &quizService{
		db:          db,
		log:         log.With("service", "QuizService"),
		userRepo:    userRepo,
		contents:    contents,
		chunks:      chunks,
		questions:   questions,
		attempts:    attempts,
		responses:   responses,
		generator:   generator,
		recommender: recommender,
		now:         time.Now,
	}
}

func (qs *quizService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if in.ContentID == 0 {
		return nil, apierr.BadRequest("content_id is required")
	}
	num := DefaultNumQuestions
	if in.NumQuestions != nil {
		num = clampInt(*in.NumQuestions, 1, MaxNumQuestions)
	}
	difficulty := types.NormalizeDifficulty(in.Difficulty)
	if difficulty == "" {
		difficulty = types.DifficultyAuto
	}
	if !types.IsDifficultyLevel(difficulty) && difficulty != types.DifficultyAuto && difficulty != types.DifficultyMixed {
		return nil, apierr.BadRequest("difficulty must be one of easy, medium, hard, auto, mixed")
	}
	qtypes := quizgen.NormalizeTypes(in.Types)
	if len(qtypes) == 0 {
		return nil, apierr.BadRequest("types must include mcq, fill_blank, true_false or short_answer")
	}

	dbc := dbctx.Context{Ctx: ctx}
	c, err := qs.contents.GetByID(dbc, in.ContentID)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound("content not found")
	}
	if c.UserID != rd.UserID && !rd.IsAdmin {
		return nil, apierr.Forbidden("forbidden")
	}
	chunks, err := qs.chunks.GetByContentIDs(dbc, []uint{c.ID})
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	parts := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		parts = append(parts, ch.ChunkText)
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return nil, apierr.BadRequest("content has no text")
	}

	if difficulty == types.DifficultyAuto {
		rec, err := qs.recommender.Recommend(ctx, rd.UserID)
		if err != nil {
			return nil, err
		}
		difficulty = rec.Difficulty
	}
	filter := difficulty
	if filter == types.DifficultyMixed {
		filter = ""
	}

	generated, err := qs.generator.Generate(ctx, text, quizgen.Options{
		Types:        qtypes,
		Difficulty:   filter,
		MaxQuestions: num,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	if len(generated) == 0 {
		qs.log.Info("no questions generated", "content_id", c.ID, "difficulty", difficulty)
		return &GenerateResult{Difficulty: difficulty, Questions: []*types.Question{}}, nil
	}

	rows := make([]*types.Question, 0, len(generated))
	for _, g := range generated {
		q := &types.Question{
			ContentID:     c.ID,
			QuestionType:  g.Type,
			Difficulty:    g.Difficulty,
			QuestionText:  g.Text,
			CorrectAnswer: g.Answer,
			Explanation:   g.Explanation,
		}
		if len(g.Options) > 0 {
			q.Options = datatypes.JSONSlice[string](g.Options)
		}
		rows = append(rows, q)
	}
	attempt := &types.QuizAttempt{
		UserID:         rd.UserID,
		ContentID:      c.ID,
		Difficulty:     difficulty,
		TotalQuestions: len(rows),
		StartedAt:      qs.now().UTC(),
	}
	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := qs.attempts.Create(txc, []*types.QuizAttempt{attempt}); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}
		for _, q := range rows {
			q.AttemptID = &attempt.ID
		}
		if _, err := qs.questions.Create(txc, rows); err != nil {
			return fmt.Errorf("create questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	qs.log.Info("quiz generated", "attempt_id", attempt.ID, "content_id", c.ID, "questions", len(rows), "difficulty", difficulty)
	return &GenerateResult{Attempt: attempt, Difficulty: difficulty, Questions: rows}, nil
}

func (qs *quizService) Submit(ctx context.Context, attemptID uint, answers []SubmittedAnswer) (*SubmitResult, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if attemptID == 0 {
		return nil, apierr.BadRequest("attempt_id is required")
	}

	var out *SubmitResult
	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		attempt, err := qs.loadOwnedAttempt(dbc, rd.UserID, attemptID)
		if err != nil {
			return err
		}
		if attempt.Completed() {
			return apierr.Conflict("quiz attempt already submitted")
		}

		ids := make([]uint, 0, len(answers))
		for _, a := range answers {
			ids = append(ids, a.QuestionID)
		}
		qrows, err := qs.questions.GetByIDs(dbc, ids)
		if err != nil {
			return fmt.Errorf("load questions: %w", err)
		}
		byID := make(map[uint]*types.Question, len(qrows))
		// Only questions issued with this attempt count toward its score.
		for _, q := range qrows {
			if q.AttemptID != nil && *q.AttemptID == attempt.ID {
				byID[q.ID] = q
			}
		}

		seen := make(map[uint]bool, len(answers))
		responses := make([]*types.QuizResponse, 0, len(answers))
		results := make([]AnswerResult, 0, len(answers))
		correct := 0
		var elapsed float64
		for _, a := range answers {
			q := byID[a.QuestionID]
			if q == nil || seen[q.ID] {
				continue
			}
			seen[q.ID] = true
			ok := AnswerMatches(a.Answer, q.CorrectAnswer)
			if ok {
				correct++
			}
			spent := a.TimeSpentSeconds
			if spent < 0 {
				spent = 0
			}
			elapsed += spent
			responses = append(responses, &types.QuizResponse{
				AttemptID:        attempt.ID,
				QuestionID:       q.ID,
				UserAnswer:       a.Answer,
				IsCorrect:        ok,
				TimeSpentSeconds: spent,
			})
			results = append(results, AnswerResult{
				QuestionID:    q.ID,
				YourAnswer:    a.Answer,
				CorrectAnswer: q.CorrectAnswer,
				IsCorrect:     ok,
				Explanation:   q.Explanation,
			})
		}
		if len(responses) > 0 {
			if _, err := qs.responses.Create(dbc, responses); err != nil {
				return fmt.Errorf("create responses: %w", err)
			}
		}

		completedAt := qs.now().UTC()
		attempt.CorrectCount = correct
		attempt.ScorePercent = ScorePercent(correct, attempt.TotalQuestions)
		attempt.TimeTakenSeconds = elapsed
		attempt.CompletedAt = &completedAt
		updated, err := qs.attempts.MarkCompleted(dbc, attempt)
		if err != nil {
			return fmt.Errorf("complete attempt: %w", err)
		}
		if !updated {
			return apierr.Conflict("quiz attempt already submitted")
		}

		users, err := qs.userRepo.GetByIDs(dbc, []uint{rd.UserID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		var user *types.User
		if len(users) > 0 {
			user = users[0]
		}
		rec, err := qs.recommender.Compute(dbc, user)
		if err != nil {
			return err
		}
		if user != nil {
			if err := qs.userRepo.UpdatePreferredDifficulty(dbc, user.ID, rec.Difficulty); err != nil {
				return fmt.Errorf("update preferred difficulty: %w", err)
			}
		}
		out = &SubmitResult{Attempt: attempt, Results: results, RecommendedDifficulty: rec.Difficulty}
		return nil
	})
	if err != nil {
		return nil, err
	}
	qs.recommender.Invalidate(ctx, rd.UserID)
	qs.log.Info("quiz submitted",
		"attempt_id", out.Attempt.ID,
		"score", out.Attempt.ScorePercent,
		"recommended", out.RecommendedDifficulty,
	)
	return out, nil
}

func (qs *quizService) History(ctx context.Context) ([]*types.QuizAttempt, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	out, err := qs.attempts.ListByUserID(dbctx.Context{Ctx: ctx}, rd.UserID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return out, nil
}

func (qs *quizService) Attempt(ctx context.Context, attemptID uint) (*types.QuizAttempt, []*types.QuizResponse, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	attempt, err := qs.loadOwnedAttempt(dbc, rd.UserID, attemptID)
	if err != nil {
		return nil, nil, err
	}
	responses, err := qs.responses.GetByAttemptIDs(dbc, []uint{attempt.ID})
	if err != nil {
		return nil, nil, fmt.Errorf("load responses: %w", err)
	}
	return attempt, responses, nil
}

func (qs *quizService) Recommend(ctx context.Context) (*Recommendation, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	return qs.recommender.Recommend(ctx, rd.UserID)
}

func (qs *quizService) loadOwnedAttempt(dbc dbctx.Context, userID, attemptID uint) (*types.QuizAttempt, error) {
	attempt, err := qs.attempts.GetByID(dbc, attemptID)
	if err != nil {
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	if attempt == nil {
		return nil, apierr.NotFound("quiz attempt not found")
	}
	if attempt.UserID != userID {
		return nil, apierr.Forbidden("forbidden")
	}
	return attempt, nil
}

// AnswerMatches compares answers ignoring case and surrounding whitespace.
func AnswerMatches(given, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(given), strings.TrimSpace(expected))
}

func ScorePercent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
