package quiz

import (
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error)
	GetByID(dbc dbctx.Context, attemptID uint) (*types.QuizAttempt, error)
	ListByUserID(dbc dbctx.Context, userID uint, limit int) ([]*types.QuizAttempt, error)
	RecentCompletedByUserID(dbc dbctx.Context, userID uint, limit int) ([]*types.QuizAttempt, error)
	CountCompletedByUserID(dbc dbctx.Context, userID uint) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
	// MarkCompleted stores the scored attempt only if it is still open and
	// reports whether this call completed it.
	MarkCompleted(dbc dbctx.Context, attempt *types.QuizAttempt) (bool, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	repoLog := baseLog.With("repo", "QuizAttemptRepo")
	return &quizAttemptRepo{db: db, log: repoLog}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, attempts []*types.QuizAttempt) ([]*types.QuizAttempt, error) {
	if len(attempts) == 0 {
		return []*types.QuizAttempt{}, nil
	}
	if err := dbc.DB(r.db).Omit("Responses").Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

// GetByID returns nil without error when the row does not exist.
func (r *quizAttemptRepo) GetByID(dbc dbctx.Context, attemptID uint) (*types.QuizAttempt, error) {
	var results []*types.QuizAttempt
	if err := dbc.DB(r.db).
		Where("id = ?", attemptID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *quizAttemptRepo) ListByUserID(dbc dbctx.Context, userID uint, limit int) ([]*types.QuizAttempt, error) {
	var results []*types.QuizAttempt
	q := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("started_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizAttemptRepo) RecentCompletedByUserID(dbc dbctx.Context, userID uint, limit int) ([]*types.QuizAttempt, error) {
	var results []*types.QuizAttempt
	q := dbc.DB(r.db).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("started_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *quizAttemptRepo) CountCompletedByUserID(dbc dbctx.Context, userID uint) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *quizAttemptRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := dbc.DB(r.db).Model(&types.QuizAttempt{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *quizAttemptRepo) MarkCompleted(dbc dbctx.Context, attempt *types.QuizAttempt) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.QuizAttempt{}).
		Where("id = ? AND completed_at IS NULL", attempt.ID).
		Updates(map[string]interface{}{
			"correct_count":      attempt.CorrectCount,
			"score_percent":      attempt.ScorePercent,
			"time_taken_seconds": attempt.TimeTakenSeconds,
			"completed_at":       attempt.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
