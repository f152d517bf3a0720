package feedback

import "time"

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Rating     int       `gorm:"column:rating;not null;default:3" json:"rating"`
	Comment    string    `gorm:"column:comment" json:"comment"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (Feedback) TableName() string { return "feedback" }
