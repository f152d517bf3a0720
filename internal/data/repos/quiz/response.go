package quiz

import (
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type QuizResponseRepo interface {
	Create(dbc dbctx.Context, responses []*types.QuizResponse) ([]*types.QuizResponse, error)
	GetByAttemptIDs(dbc dbctx.Context, attemptIDs []uint) ([]*types.QuizResponse, error)
}

type quizResponseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResponseRepo(db *gorm.DB, baseLog *logger.Logger) QuizResponseRepo {
	repoLog := baseLog.With("repo", "QuizResponseRepo")
	return &quizResponseRepo{db: db, log: repoLog}
}

func (r *quizResponseRepo) Create(dbc dbctx.Context, responses []*types.QuizResponse) ([]*types.QuizResponse, error) {
	if len(responses) == 0 {
		return []*types.QuizResponse{}, nil
	}
	if err := dbc.DB(r.db).Create(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *quizResponseRepo) GetByAttemptIDs(dbc dbctx.Context, attemptIDs []uint) ([]*types.QuizResponse, error) {
	var results []*types.QuizResponse
	if len(attemptIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("attempt_id IN ?", attemptIDs).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
