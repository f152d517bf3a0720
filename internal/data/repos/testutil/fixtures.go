package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		Email:               email,
		Password:            "pw",
		Name:                "A",
		PreferredDifficulty: types.DifficultyMedium,
		Subjects:            datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint, text string) *types.Content {
	tb.Helper()
	c := &types.Content{
		UserID:     userID,
		Title:      "content",
		SourceType: types.SourceText,
		RawText:    text,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed content: %v", err)
	}
	return c
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, contentID uint, answer string) *types.Question {
	tb.Helper()
	q := &types.Question{
		ContentID:     contentID,
		QuestionType:  types.QuestionTypeFillBlank,
		Difficulty:    types.DifficultyMedium,
		QuestionText:  "Complete the sentence: The ______ is blue.",
		Options:       datatypes.JSONSlice[string]{},
		CorrectAnswer: answer,
		Explanation:   "The sky is blue.",
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

// SeedAttempt stores a completed attempt with the given difficulty and score.
func SeedAttempt(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, contentID uint, difficulty string, score float64, startedAt time.Time) *types.QuizAttempt {
	tb.Helper()
	done := startedAt.Add(time.Minute)
	a := &types.QuizAttempt{
		UserID:         userID,
		ContentID:      contentID,
		Difficulty:     difficulty,
		TotalQuestions: 10,
		CorrectCount:   int(score / 10),
		ScorePercent:   score,
		StartedAt:      startedAt,
		CompletedAt:    &done,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed attempt: %v", err)
	}
	return a
}
