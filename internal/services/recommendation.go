package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	RecentAttemptWindow   = 5
	StepUpScore           = 80.0
	StepDownScore         = 50.0
	recommendationTTL     = 10 * time.Minute
	recommendationKeyBase = "recommendation:"
)

type Recommendation struct {
	Difficulty         string  `json:"recommended_difficulty"`
	RecentAverageScore float64 `json:"recent_average_score"`
	TotalQuizzesTaken  int64   `json:"total_quizzes_taken"`
}

type RecommendationService interface {
	// Recommend returns the cached recommendation for userID, computing it on a miss.
	Recommend(ctx context.Context, userID uint) (*Recommendation, error)
	// Compute always reads from the database; dbc may carry a transaction.
	Compute(dbc dbctx.Context, user *types.User) (*Recommendation, error)
	Invalidate(ctx context.Context, userID uint)
}

type recommendationService struct {
	db          *gorm.DB
	log         *logger.Logger
	userRepo    repos.UserRepo
	attemptRepo repos.QuizAttemptRepo
	cache       redis.Cache
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	attemptRepo repos.QuizAttemptRepo,
	cache redis.Cache,
) RecommendationService {
	return &recommendationService{
		db:          db,
		log:         log.With("service", "RecommendationService"),
		userRepo:    userRepo,
		attemptRepo: attemptRepo,
		cache:       cache,
	}
}

func recommendationKey(userID uint) string {
	return fmt.Sprintf("%s%d", recommendationKeyBase, userID)
}

func (rs *recommendationService) Recommend(ctx context.Context, userID uint) (*Recommendation, error) {
	if rs.cache != nil {
		var cached Recommendation
		ok, err := rs.cache.GetJSON(ctx, recommendationKey(userID), &cached)
		if err != nil {
			rs.log.Warn("recommendation cache read failed", "error", err, "user_id", userID)
		} else if ok {
			return &cached, nil
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	users, err := rs.userRepo.GetByIDs(dbc, []uint{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	var user *types.User
	if len(users) > 0 {
		user = users[0]
	}
	rec, err := rs.Compute(dbc, user)
	if err != nil {
		return nil, err
	}
	if user != nil && rs.cache != nil {
		if err := rs.cache.SetJSON(ctx, recommendationKey(userID), rec, recommendationTTL); err != nil {
			rs.log.Warn("recommendation cache write failed", "error", err, "user_id", userID)
		}
	}
	return rec, nil
}

func (rs *recommendationService) Compute(dbc dbctx.Context, user *types.User) (*Recommendation, error) {
	if user == nil {
		return &Recommendation{Difficulty: types.DifficultyMedium}, nil
	}
	preferred := user.PreferredDifficulty
	recent, err := rs.attemptRepo.RecentCompletedByUserID(dbc, user.ID, RecentAttemptWindow)
	if err != nil {
		return nil, fmt.Errorf("load recent attempts: %w", err)
	}
	total, err := rs.attemptRepo.CountCompletedByUserID(dbc, user.ID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}
	return &Recommendation{
		Difficulty:         NextDifficulty(recent, preferred),
		RecentAverageScore: round1(averageScore(recent)),
		TotalQuizzesTaken:  total,
	}, nil
}

func (rs *recommendationService) Invalidate(ctx context.Context, userID uint) {
	if rs.cache == nil {
		return
	}
	if err := rs.cache.Delete(ctx, recommendationKey(userID)); err != nil {
		rs.log.Warn("recommendation cache delete failed", "error", err, "user_id", userID)
	}
}

// NextDifficulty picks the next level from attempts ordered newest first.
// With no attempts the preference (or medium) is returned unchanged. A
// current level outside easy/medium/hard, such as mixed, yields medium
// regardless of score.
func NextDifficulty(recent []*types.QuizAttempt, preferred string) string {
	if len(recent) == 0 {
		if types.IsDifficultyLevel(preferred) {
			return preferred
		}
		return types.DifficultyMedium
	}
	current := recent[0].Difficulty
	if current == "" {
		current = preferred
	}
	if current == "" {
		current = types.DifficultyMedium
	}
	if !types.IsDifficultyLevel(current) {
		return types.DifficultyMedium
	}
	avg := averageScore(recent)
	switch {
	case avg >= StepUpScore:
		return stepUp(current)
	case avg < StepDownScore:
		return stepDown(current)
	default:
		return current
	}
}

func stepUp(level string) string {
	switch level {
	case types.DifficultyEasy:
		return types.DifficultyMedium
	default:
		return types.DifficultyHard
	}
}

func stepDown(level string) string {
	switch level {
	case types.DifficultyHard:
		return types.DifficultyMedium
	default:
		return types.DifficultyEasy
	}
}

func averageScore(attempts []*types.QuizAttempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	var sum float64
	for _, a := range attempts {
		sum += a.ScorePercent
	}
	return sum / float64(len(attempts))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
