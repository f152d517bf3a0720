package feedback

import (
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type FeedbackRepo interface {
	Create(dbc dbctx.Context, items []*types.Feedback) ([]*types.Feedback, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.Feedback, error)
	GetByQuestionIDs(dbc dbctx.Context, questionIDs []uint) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (r *feedbackRepo) Create(dbc dbctx.Context, items []*types.Feedback) ([]*types.Feedback, error) {
	if len(items) == 0 {
		return []*types.Feedback{}, nil
	}
	if err := dbc.DB(r.db).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *feedbackRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.Feedback, error) {
	var results []*types.Feedback
	q := dbc.DB(r.db).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *feedbackRepo) GetByQuestionIDs(dbc dbctx.Context, questionIDs []uint) ([]*types.Feedback, error) {
	var results []*types.Feedback
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("question_id IN ?", questionIDs).
		Order("created_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
