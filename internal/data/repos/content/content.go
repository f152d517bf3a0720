package content

import (
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type ContentRepo interface {
	Create(dbc dbctx.Context, contents []*types.Content) ([]*types.Content, error)
	GetByIDs(dbc dbctx.Context, contentIDs []uint) ([]*types.Content, error)
	GetByID(dbc dbctx.Context, contentID uint) (*types.Content, error)
	ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Content, error)
	Count(dbc dbctx.Context) (int64, error)
	FullDeleteByIDs(dbc dbctx.Context, contentIDs []uint) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (cr *contentRepo) Create(dbc dbctx.Context, contents []*types.Content) ([]*types.Content, error) {
	if len(contents) == 0 {
		return []*types.Content{}, nil
	}
	if err := dbc.DB(cr.db).Omit("Chunks").Create(&contents).Error; err != nil {
		return nil, err
	}
	return contents, nil
}

func (cr *contentRepo) GetByIDs(dbc dbctx.Context, contentIDs []uint) ([]*types.Content, error) {
	var results []*types.Content
	if len(contentIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(cr.db).
		Where("id IN ?", contentIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID returns nil without error when the row does not exist.
func (cr *contentRepo) GetByID(dbc dbctx.Context, contentID uint) (*types.Content, error) {
	rows, err := cr.GetByIDs(dbc, []uint{contentID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (cr *contentRepo) ListByUserID(dbc dbctx.Context, userID uint) ([]*types.Content, error) {
	var results []*types.Content
	if err := dbc.DB(cr.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contentRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := dbc.DB(cr.db).Model(&types.Content{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FullDeleteByIDs removes the content rows together with their chunks.
func (cr *contentRepo) FullDeleteByIDs(dbc dbctx.Context, contentIDs []uint) error {
	if len(contentIDs) == 0 {
		return nil
	}
	tx := dbc.DB(cr.db)
	if err := tx.Where("content_id IN ?", contentIDs).Delete(&types.ContentChunk{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", contentIDs).Delete(&types.Content{}).Error
}
