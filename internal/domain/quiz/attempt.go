package quiz

import (
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/domain/user"
)

type QuizAttempt struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	User             *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	ContentID        uint           `gorm:"not null;index" json:"content_id"`
	Difficulty       string         `gorm:"column:difficulty;not null" json:"difficulty"`
	TotalQuestions   int            `gorm:"column:total_questions;not null;default:0" json:"total_questions"`
	CorrectCount     int            `gorm:"column:correct_count;not null;default:0" json:"correct_count"`
	ScorePercent     float64        `gorm:"column:score_percent;not null;default:0" json:"score_percent"`
	TimeTakenSeconds float64        `gorm:"column:time_taken_seconds;not null;default:0" json:"time_taken_seconds"`
	StartedAt        time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	Responses        []QuizResponse `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"-"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

func (a *QuizAttempt) Completed() bool {
	return a != nil && a.CompletedAt != nil
}

type QuizResponse struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	AttemptID        uint    `gorm:"not null;index" json:"attempt_id"`
	QuestionID       uint    `gorm:"not null;index" json:"question_id"`
	UserAnswer       string  `gorm:"column:user_answer" json:"user_answer"`
	IsCorrect        bool    `gorm:"column:is_correct;not null" json:"is_correct"`
	TimeSpentSeconds float64 `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`
}

func (QuizResponse) TableName() string { return "quiz_response" }
