package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/testutil"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
)

func TestQuestionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewQuestionRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "questionrepo@example.com")
	c := testutil.SeedContent(t, ctx, tx, u.ID, "The sky is blue.")

	q1 := &types.Question{ContentID: c.ID, QuestionType: types.QuestionTypeMCQ, Difficulty: "easy", QuestionText: "q1", Options: []string{"a", "b"}, CorrectAnswer: "a"}
	q2 := &types.Question{ContentID: c.ID, QuestionType: types.QuestionTypeTrueFalse, Difficulty: "easy", QuestionText: "q2", Options: []string{"True", "False"}, CorrectAnswer: "True"}
	if _, err := repo.Create(dbc, []*types.Question{q1, q2}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, q1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if opts := got.OptionList(); len(opts) != 2 || opts[1] != "b" {
		t.Fatalf("options did not round trip: %v", opts)
	}

	if err := repo.SetFlagged(dbc, []uint{q2.ID}, true); err != nil {
		t.Fatalf("SetFlagged: %v", err)
	}
	flagged := true
	rows, err := repo.List(dbc, QuestionFilter{Flagged: &flagged, Limit: 100})
	if err != nil || len(rows) != 1 || rows[0].ID != q2.ID {
		t.Fatalf("List(flagged): err=%v rows=%v", err, rows)
	}
	if all, err := repo.List(dbc, QuestionFilter{Limit: 1}); err != nil || len(all) != 1 {
		t.Fatalf("List(limit): err=%v len=%d", err, len(all))
	}
	if n, err := repo.Count(dbc); err != nil || n != 2 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
	if n, err := repo.CountFlagged(dbc); err != nil || n != 1 {
		t.Fatalf("CountFlagged: n=%d err=%v", n, err)
	}

	fb := &types.Feedback{UserID: u.ID, QuestionID: q2.ID, Rating: 2}
	if err := tx.Create(fb).Error; err != nil {
		t.Fatalf("seed feedback: %v", err)
	}
	if err := repo.FullDeleteByIDs(dbc, []uint{q2.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if got, err := repo.GetByID(dbc, q2.ID); err != nil || got != nil {
		t.Fatalf("question should be gone: err=%v got=%v", err, got)
	}
	var fbCount int64
	tx.Model(&types.Feedback{}).Where("question_id = ?", q2.ID).Count(&fbCount)
	if fbCount != 0 {
		t.Fatalf("feedback should be deleted with question, have %d", fbCount)
	}
}

func TestQuizAttemptRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	attempts := NewQuizAttemptRepo(db, testutil.Logger(t))
	responses := NewQuizResponseRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "attemptrepo@example.com")
	c := testutil.SeedContent(t, ctx, tx, u.ID, "text")
	q := testutil.SeedQuestion(t, ctx, tx, c.ID, "sky")

	base := time.Now().Add(-time.Hour)
	old := testutil.SeedAttempt(t, ctx, tx, u.ID, c.ID, "easy", 40, base)
	newer := testutil.SeedAttempt(t, ctx, tx, u.ID, c.ID, "medium", 90, base.Add(10*time.Minute))

	open := &types.QuizAttempt{UserID: u.ID, ContentID: c.ID, Difficulty: "hard", TotalQuestions: 1, StartedAt: base.Add(20 * time.Minute)}
	if _, err := attempts.Create(dbc, []*types.QuizAttempt{open}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := attempts.ListByUserID(dbc, u.ID, 50)
	if err != nil || len(list) != 3 || list[0].ID != open.ID {
		t.Fatalf("ListByUserID: err=%v list=%v", err, list)
	}
	recent, err := attempts.RecentCompletedByUserID(dbc, u.ID, 5)
	if err != nil || len(recent) != 2 || recent[0].ID != newer.ID || recent[1].ID != old.ID {
		t.Fatalf("RecentCompletedByUserID: err=%v recent=%v", err, recent)
	}
	if n, err := attempts.CountCompletedByUserID(dbc, u.ID); err != nil || n != 2 {
		t.Fatalf("CountCompletedByUserID: n=%d err=%v", n, err)
	}

	done := time.Now()
	open.CorrectCount = 1
	open.ScorePercent = 100
	open.TimeTakenSeconds = 4.5
	open.CompletedAt = &done
	ok, err := attempts.MarkCompleted(dbc, open)
	if err != nil || !ok {
		t.Fatalf("MarkCompleted: ok=%v err=%v", ok, err)
	}
	ok, err = attempts.MarkCompleted(dbc, open)
	if err != nil || ok {
		t.Fatalf("second MarkCompleted should be a no-op: ok=%v err=%v", ok, err)
	}

	reloaded, err := attempts.GetByID(dbc, open.ID)
	if err != nil || reloaded == nil || !reloaded.Completed() || reloaded.ScorePercent != 100 {
		t.Fatalf("GetByID after completion: err=%v got=%+v", err, reloaded)
	}
	if missing, err := attempts.GetByID(dbc, 424242); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	if _, err := responses.Create(dbc, []*types.QuizResponse{
		{AttemptID: open.ID, QuestionID: q.ID, UserAnswer: "Sky", IsCorrect: true, TimeSpentSeconds: 4.5},
	}); err != nil {
		t.Fatalf("responses.Create: %v", err)
	}
	rs, err := responses.GetByAttemptIDs(dbc, []uint{open.ID})
	if err != nil || len(rs) != 1 || !rs[0].IsCorrect {
		t.Fatalf("GetByAttemptIDs: err=%v rs=%v", err, rs)
	}

	if n, err := attempts.Count(dbc); err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}
}
