package apitypes

type RegisterRequest struct {
	Email               string   `json:"email"`
	Password            string   `json:"password"`
	Name                string   `json:"name,omitempty"`
	PreferredDifficulty string   `json:"preferred_difficulty,omitempty"`
	Subjects            []string `json:"subjects,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest leaves a field unchanged when it is null or absent.
type UpdateProfileRequest struct {
	Name                *string   `json:"name,omitempty"`
	PreferredDifficulty *string   `json:"preferred_difficulty,omitempty"`
	Subjects            *[]string `json:"subjects,omitempty"`
}

type UploadTextRequest struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

type UploadURLRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type GenerateQuizRequest struct {
	ContentID    uint     `json:"content_id"`
	NumQuestions *int     `json:"num_questions,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
	Types        []string `json:"types,omitempty"`
}

type SubmitAnswer struct {
	QuestionID       uint    `json:"question_id"`
	Answer           string  `json:"answer"`
	TimeSpentSeconds float64 `json:"time_spent_seconds"`
}

type SubmitQuizRequest struct {
	AttemptID uint           `json:"attempt_id"`
	Answers   []SubmitAnswer `json:"answers"`
}

type FeedbackRequest struct {
	QuestionID uint   `json:"question_id"`
	Rating     *int   `json:"rating,omitempty"`
	Comment    string `json:"comment,omitempty"`
}
