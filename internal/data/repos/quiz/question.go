package quiz

import (
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// QuestionFilter narrows List. A nil Flagged matches every question.
type QuestionFilter struct {
	Flagged *bool
	Limit   int
}

type QuestionRepo interface {
	Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error)
	GetByIDs(dbc dbctx.Context, questionIDs []uint) ([]*types.Question, error)
	GetByID(dbc dbctx.Context, questionID uint) (*types.Question, error)
	List(dbc dbctx.Context, filter QuestionFilter) ([]*types.Question, error)
	Count(dbc dbctx.Context) (int64, error)
	CountFlagged(dbc dbctx.Context) (int64, error)
	SetFlagged(dbc dbctx.Context, questionIDs []uint, flagged bool) error
	FullDeleteByIDs(dbc dbctx.Context, questionIDs []uint) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	repoLog := baseLog.With("repo", "QuestionRepo")
	return &questionRepo{db: db, log: repoLog}
}

func (qr *questionRepo) Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error) {
	if len(questions) == 0 {
		return []*types.Question{}, nil
	}
	if err := dbc.DB(qr.db).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (qr *questionRepo) GetByIDs(dbc dbctx.Context, questionIDs []uint) ([]*types.Question, error) {
	var results []*types.Question
	if len(questionIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(qr.db).
		Where("id IN ?", questionIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil without error when the row does not exist.
func (qr *questionRepo) GetByID(dbc dbctx.Context, questionID uint) (*types.Question, error) {
	rows, err := qr.GetByIDs(dbc, []uint{questionID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (qr *questionRepo) List(dbc dbctx.Context, filter QuestionFilter) ([]*types.Question, error) {
	var results []*types.Question
	q := dbc.DB(qr.db).Order("created_at DESC, id DESC")
	if filter.Flagged != nil {
		q = q.Where("is_flagged = ?", *filter.Flagged)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (qr *questionRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := dbc.DB(qr.db).Model(&types.Question{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (qr *questionRepo) CountFlagged(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := dbc.DB(qr.db).
		Model(&types.Question{}).
		Where("is_flagged = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (qr *questionRepo) SetFlagged(dbc dbctx.Context, questionIDs []uint, flagged bool) error {
	if len(questionIDs) == 0 {
		return nil
	}
	return dbc.DB(qr.db).
		Model(&types.Question{}).
		Where("id IN ?", questionIDs).
		Update("is_flagged", flagged).Error
}

// FullDeleteByIDs removes the questions along with the responses and
// feedback that point at them.
func (qr *questionRepo) FullDeleteByIDs(dbc dbctx.Context, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}
	tx := dbc.DB(qr.db)
	if err := tx.Where("question_id IN ?", questionIDs).Delete(&types.QuizResponse{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id IN ?", questionIDs).Delete(&types.Feedback{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", questionIDs).Delete(&types.Question{}).Error
}
