package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNextDifficulty(t *testing.T) {
	attempts := func(level string, scores ...float64) []*types.QuizAttempt {
		out := make([]*types.QuizAttempt, 0, len(scores))
		for _, s := range scores {
			out = append(out, &types.QuizAttempt{Difficulty: level, ScorePercent: s})
		}
		return out
	}
	cases := []struct {
		name      string
		recent    []*types.QuizAttempt
		preferred string
		want      string
	}{
		{"no_history_pref", nil, types.DifficultyHard, types.DifficultyHard},
		{"no_history_default", nil, "", types.DifficultyMedium},
		{"step_up_easy", attempts(types.DifficultyEasy, 90, 85), "", types.DifficultyMedium},
		{"step_up_medium", attempts(types.DifficultyMedium, 80), "", types.DifficultyHard},
		{"stay_hard", attempts(types.DifficultyHard, 100), "", types.DifficultyHard},
		{"step_down_hard", attempts(types.DifficultyHard, 10, 20), "", types.DifficultyMedium},
		{"step_down_easy", attempts(types.DifficultyEasy, 0), "", types.DifficultyEasy},
		{"keep", attempts(types.DifficultyMedium, 50, 79), "", types.DifficultyMedium},
		{"mixed_high_score_is_medium", attempts(types.DifficultyMixed, 95), types.DifficultyEasy, types.DifficultyMedium},
		{"mixed_low_score_is_medium", attempts(types.DifficultyMixed, 20), types.DifficultyEasy, types.DifficultyMedium},
		{"unknown_pref_is_medium", attempts("", 95), "legendary", types.DifficultyMedium},
		{"empty_level_uses_pref", attempts("", 60), types.DifficultyEasy, types.DifficultyEasy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextDifficulty(tc.recent, tc.preferred); got != tc.want {
				t.Fatalf("NextDifficulty=%q want %q", got, tc.want)
			}
		})
	}
}

func TestAnswerMatchesAndScore(t *testing.T) {
	if !AnswerMatches("  mars ", "Mars") {
		t.Fatalf("expected case-insensitive trimmed match")
	}
	if AnswerMatches("Marsh", "Mars") {
		t.Fatalf("unexpected match")
	}
	if got := ScorePercent(1, 2); got != 50 {
		t.Fatalf("ScorePercent=%v", got)
	}
	if got := ScorePercent(3, 0); got != 0 {
		t.Fatalf("ScorePercent with zero total=%v", got)
	}
}

func TestGenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "quiz@example.com")

	_, err := env.quizzes.Generate(ctx, GenerateInput{})
	wantMessage(t, err, "content_id is required")

	_, err = env.quizzes.Generate(ctx, GenerateInput{ContentID: 99})
	wantStatus(t, err, http.StatusNotFound)

	_, err = env.quizzes.Generate(ctx, GenerateInput{ContentID: 1, Difficulty: "brutal"})
	wantStatus(t, err, http.StatusBadRequest)

	_, err = env.quizzes.Generate(ctx, GenerateInput{ContentID: 1, Types: []string{"essay"}})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestGenerateAndSubmit(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "quiz@example.com")

	c, err := env.contents.CreateFromText(ctx, "planets", sevenSentences)
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	res, err := env.quizzes.Generate(ctx, GenerateInput{ContentID: c.ID, NumQuestions: intPtr(500), Difficulty: "mixed"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if env.gen.lastOpts.MaxQuestions != MaxNumQuestions || env.gen.lastOpts.Difficulty != "" {
		t.Fatalf("unexpected generator options %+v", env.gen.lastOpts)
	}
	if env.gen.lastText != "One. Two! Three? Four. Five. Six. Seven." {
		t.Fatalf("generator got %q", env.gen.lastText)
	}
	if res.Attempt == nil || res.Attempt.TotalQuestions != 2 || res.Difficulty != types.DifficultyMixed {
		t.Fatalf("unexpected generate result %+v", res)
	}
	if len(res.Questions) != 2 || res.Questions[0].ID == 0 {
		t.Fatalf("questions not stored: %+v", res.Questions)
	}

	q1, q2 := res.Questions[0], res.Questions[1]
	sub, err := env.quizzes.Submit(ctx, res.Attempt.ID, []SubmittedAnswer{
		{QuestionID: q1.ID, Answer: " mars ", TimeSpentSeconds: 4.5},
		{QuestionID: q2.ID, Answer: "False", TimeSpentSeconds: 2},
		{QuestionID: 9999, Answer: "ignored", TimeSpentSeconds: 100},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Attempt.CorrectCount != 1 || sub.Attempt.ScorePercent != 50 || sub.Attempt.TimeTakenSeconds != 6.5 {
		t.Fatalf("unexpected attempt %+v", sub.Attempt)
	}
	if sub.Attempt.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}
	if len(sub.Results) != 2 || !sub.Results[0].IsCorrect || sub.Results[1].CorrectAnswer != "True" {
		t.Fatalf("unexpected results %+v", sub.Results)
	}
	// mixed is not a level, so the recommendation is medium.
	if sub.RecommendedDifficulty != types.DifficultyMedium {
		t.Fatalf("recommended=%q", sub.RecommendedDifficulty)
	}

	_, err = env.quizzes.Submit(ctx, res.Attempt.ID, nil)
	wantStatus(t, err, http.StatusConflict)

	attempt, responses, err := env.quizzes.Attempt(ctx, res.Attempt.ID)
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if attempt.ID != res.Attempt.ID || len(responses) != 2 {
		t.Fatalf("unexpected attempt detail %+v %d", attempt, len(responses))
	}

	other, _ := env.register(t, "other@example.com")
	_, _, err = env.quizzes.Attempt(asUser(other), res.Attempt.ID)
	wantStatus(t, err, http.StatusForbidden)
	_, err = env.quizzes.Submit(asUser(other), res.Attempt.ID, nil)
	wantStatus(t, err, http.StatusForbidden)

	history, err := env.quizzes.History(ctx)
	if err != nil || len(history) != 1 {
		t.Fatalf("History: %v %d", err, len(history))
	}
}

func TestSubmitCountsOnlyAttemptQuestions(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "scoped@example.com")
	c, err := env.contents.CreateFromText(ctx, "planets", sevenSentences)
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	first, err := env.quizzes.Generate(ctx, GenerateInput{ContentID: c.ID, Difficulty: "easy"})
	if err != nil {
		t.Fatalf("Generate first: %v", err)
	}
	second, err := env.quizzes.Generate(ctx, GenerateInput{ContentID: c.ID, Difficulty: "easy"})
	if err != nil {
		t.Fatalf("Generate second: %v", err)
	}
	for _, q := range second.Questions {
		if q.AttemptID == nil || *q.AttemptID != second.Attempt.ID {
			t.Fatalf("question %d not linked to attempt %d", q.ID, second.Attempt.ID)
		}
	}

	var answers []SubmittedAnswer
	for _, q := range append(append([]*types.Question{}, first.Questions...), second.Questions...) {
		answers = append(answers, SubmittedAnswer{QuestionID: q.ID, Answer: q.CorrectAnswer, TimeSpentSeconds: 1})
	}
	sub, err := env.quizzes.Submit(ctx, second.Attempt.ID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Attempt.CorrectCount != len(second.Questions) || sub.Attempt.ScorePercent != 100 {
		t.Fatalf("unexpected attempt %+v", sub.Attempt)
	}
	if len(sub.Results) != len(second.Questions) || sub.Attempt.TimeTakenSeconds != float64(len(second.Questions)) {
		t.Fatalf("foreign questions scored: %d results, %v seconds", len(sub.Results), sub.Attempt.TimeTakenSeconds)
	}
	for _, r := range sub.Results {
		for _, q := range first.Questions {
			if r.QuestionID == q.ID {
				t.Fatalf("question %d from another attempt was scored", q.ID)
			}
		}
	}
}

func TestSubmitUpdatesPreferenceAndRecommendation(t *testing.T) {
	env := newTestEnv(t)
	u, ctx := env.register(t, "adaptive@example.com")
	c, err := env.contents.CreateFromText(ctx, "planets", sevenSentences)
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}

	rec, err := env.quizzes.Recommend(ctx)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.Difficulty != types.DifficultyMedium || rec.TotalQuizzesTaken != 0 {
		t.Fatalf("unexpected initial recommendation %+v", rec)
	}

	res, err := env.quizzes.Generate(ctx, GenerateInput{ContentID: c.ID})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Difficulty != types.DifficultyMedium || env.gen.lastOpts.Difficulty != types.DifficultyMedium {
		t.Fatalf("auto should resolve to medium, got %q / %q", res.Difficulty, env.gen.lastOpts.Difficulty)
	}
	if env.gen.lastOpts.MaxQuestions != DefaultNumQuestions {
		t.Fatalf("default num questions not applied: %d", env.gen.lastOpts.MaxQuestions)
	}

	answers := make([]SubmittedAnswer, 0, len(res.Questions))
	for _, q := range res.Questions {
		answers = append(answers, SubmittedAnswer{QuestionID: q.ID, Answer: q.CorrectAnswer})
	}
	sub, err := env.quizzes.Submit(ctx, res.Attempt.ID, answers)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Attempt.ScorePercent != 100 || sub.RecommendedDifficulty != types.DifficultyHard {
		t.Fatalf("unexpected submit result %+v / %q", sub.Attempt, sub.RecommendedDifficulty)
	}

	users, err := env.userRepo.GetByIDs(dbcFor(ctx), []uint{u.ID})
	if err != nil || len(users) != 1 || users[0].PreferredDifficulty != types.DifficultyHard {
		t.Fatalf("preferred difficulty not updated: %v %+v", err, users)
	}

	rec, err = env.quizzes.Recommend(ctx)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.Difficulty != types.DifficultyHard || rec.RecentAverageScore != 100 || rec.TotalQuizzesTaken != 1 {
		t.Fatalf("cache not invalidated after submit: %+v", rec)
	}
}

func TestRecommendIgnoresIncompleteAttempts(t *testing.T) {
	env := newTestEnv(t)
	u, ctx := env.register(t, "window@example.com")
	c := testutil.SeedContent(t, context.Background(), env.db, u.ID, sevenSentences)
	base := time.Now().Add(-time.Hour)
	for i, score := range []float64{20, 30, 40, 90, 95, 100} {
		testutil.SeedAttempt(t, context.Background(), env.db, u.ID, c.ID, types.DifficultyEasy, score, base.Add(time.Duration(i)*time.Minute))
	}
	if _, err := env.attempts.Create(dbcFor(ctx), []*types.QuizAttempt{{
		UserID: u.ID, ContentID: c.ID, Difficulty: types.DifficultyHard, TotalQuestions: 5, StartedAt: time.Now(),
	}}); err != nil {
		t.Fatalf("create open attempt: %v", err)
	}

	rec, err := env.recs.Recommend(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	// Last five completed: 30,40,90,95,100 -> 71, newest level easy.
	if rec.Difficulty != types.DifficultyEasy || rec.RecentAverageScore != 71 || rec.TotalQuizzesTaken != 6 {
		t.Fatalf("unexpected recommendation %+v", rec)
	}
}

func TestGenerateNoQuestions(t *testing.T) {
	env := newTestEnv(t)
	_, ctx := env.register(t, "empty@example.com")
	c, err := env.contents.CreateFromText(ctx, "x", "Tiny.")
	if err != nil {
		t.Fatalf("CreateFromText: %v", err)
	}
	env.gen.questions = nil
	res, err := env.quizzes.Generate(ctx, GenerateInput{ContentID: c.ID, Difficulty: "easy"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Attempt != nil || len(res.Questions) != 0 {
		t.Fatalf("expected no attempt and no questions, got %+v", res)
	}
}
