package content

import (
	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type ContentChunkRepo interface {
	Create(dbc dbctx.Context, chunks []*types.ContentChunk) ([]*types.ContentChunk, error)
	GetByContentIDs(dbc dbctx.Context, contentIDs []uint) ([]*types.ContentChunk, error)
}

type contentChunkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentChunkRepo(db *gorm.DB, baseLog *logger.Logger) ContentChunkRepo {
	repoLog := baseLog.With("repo", "ContentChunkRepo")
	return &contentChunkRepo{db: db, log: repoLog}
}

func (r *contentChunkRepo) Create(dbc dbctx.Context, chunks []*types.ContentChunk) ([]*types.ContentChunk, error) {
	if len(chunks) == 0 {
		return []*types.ContentChunk{}, nil
	}
	if err := dbc.DB(r.db).CreateInBatches(&chunks, 200).Error; err != nil {
		return nil, err
	}
	return chunks, nil
}

// GetByContentIDs returns chunks ordered by content then chunk index.
func (r *contentChunkRepo) GetByContentIDs(dbc dbctx.Context, contentIDs []uint) ([]*types.ContentChunk, error) {
	var results []*types.ContentChunk
	if len(contentIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("content_id IN ?", contentIDs).
		Order("content_id ASC, chunk_index ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
