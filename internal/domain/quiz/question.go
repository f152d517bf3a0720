package quiz

import (
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/adaptivequiz-backend/internal/domain/content"
)

type Question struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	ContentID     uint                        `gorm:"not null;index" json:"content_id"`
	Content       *content.Content            `gorm:"constraint:OnDelete:CASCADE;foreignKey:ContentID;references:ID" json:"-"`
	AttemptID     *uint                       `gorm:"column:attempt_id;index" json:"attempt_id,omitempty"`
	QuestionType  string                      `gorm:"column:question_type;not null" json:"question_type"`
	Difficulty    string                      `gorm:"column:difficulty;not null;default:medium" json:"difficulty"`
	QuestionText  string                      `gorm:"column:question_text;not null" json:"question_text"`
	Options       datatypes.JSONSlice[string] `gorm:"column:options" json:"options"`
	CorrectAnswer string                      `gorm:"column:correct_answer;not null" json:"correct_answer"`
	Explanation   string                      `gorm:"column:explanation" json:"explanation"`
	IsFlagged     bool                        `gorm:"column:is_flagged;not null;default:false;index" json:"is_flagged"`
	CreatedAt     time.Time                   `gorm:"not null;index" json:"created_at"`
}

func (Question) TableName() string { return "question" }

func (q *Question) OptionList() []string {
	if q == nil || len(q.Options) == 0 {
		return []string{}
	}
	return []string(q.Options)
}
