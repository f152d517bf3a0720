package content

import (
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/domain/user"
)

const (
	SourceText = "text"
	SourceURL  = "url"
	SourcePDF  = "pdf"
)

type Content struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	SourceType string         `gorm:"column:source_type;not null" json:"source_type"`
	SourceURL  string         `gorm:"column:source_url" json:"source_url,omitempty"`
	RawText    string         `gorm:"column:raw_text" json:"-"`
	FilePath   string         `gorm:"column:file_path" json:"-"`
	ChunkCount int            `gorm:"column:chunk_count;not null;default:0" json:"chunk_count"`
	Chunks     []ContentChunk `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"-"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Content) TableName() string { return "content" }

type ContentChunk struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ContentID  uint   `gorm:"not null;index:idx_content_chunk_order,priority:1" json:"content_id"`
	ChunkIndex int    `gorm:"column:chunk_index;not null;index:idx_content_chunk_order,priority:2" json:"chunk_index"`
	ChunkText  string `gorm:"column:chunk_text;not null" json:"chunk_text"`
}

func (ContentChunk) TableName() string { return "content_chunk" }
