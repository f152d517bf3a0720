// Package apitypes holds the JSON shapes exchanged between the API server and
// its clients.
package apitypes

import "time"

type User struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PreferredDifficulty string    `json:"preferred_difficulty"`
	Subjects            []string  `json:"subjects"`
	IsAdmin             bool      `json:"is_admin"`
	CreatedAt           time.Time `json:"created_at"`
}

type Chunk struct {
	ID         uint   `json:"id"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkText  string `json:"chunk_text"`
}

type Content struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	SourceType string    `json:"source_type"`
	SourceURL  string    `json:"source_url,omitempty"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	Chunks     []Chunk   `json:"chunks,omitempty"`
}

// Question omits CorrectAnswer and Explanation while a quiz is being played.
type Question struct {
	ID            uint     `json:"id"`
	ContentID     uint     `json:"content_id"`
	QuestionType  string   `json:"question_type"`
	Difficulty    string   `json:"difficulty"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
	IsFlagged     bool     `json:"is_flagged"`
}

type Attempt struct {
	ID               uint       `json:"id"`
	ContentID        uint       `json:"content_id"`
	Difficulty       string     `json:"difficulty"`
	ScorePercent     float64    `json:"score_percent"`
	CorrectCount     int        `json:"correct_count"`
	TotalQuestions   int        `json:"total_questions"`
	TimeTakenSeconds float64    `json:"time_taken_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

type Response struct {
	ID               uint    `json:"id"`
	QuestionID       uint    `json:"question_id"`
	UserAnswer       string  `json:"user_answer"`
	IsCorrect        bool    `json:"is_correct"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

type Feedback struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	QuestionID uint      `json:"question_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
