package apitypes

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse carries the human message twice: Msg for simple clients and
// Error for structured ones.
type ErrorResponse struct {
	Msg   string   `json:"msg"`
	Error APIError `json:"error"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

type UserResponse struct {
	Msg  string `json:"msg,omitempty"`
	User User   `json:"user"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user,omitempty"`
}

type ContentResponse struct {
	Msg     string  `json:"msg,omitempty"`
	Content Content `json:"content"`
}

type ContentListResponse struct {
	Contents []Content `json:"contents"`
}

type GenerateQuizResponse struct {
	Msg        string     `json:"msg,omitempty"`
	AttemptID  uint       `json:"attempt_id,omitempty"`
	Difficulty string     `json:"difficulty,omitempty"`
	Questions  []Question `json:"questions"`
}

type AnswerResult struct {
	QuestionID    uint   `json:"question_id"`
	YourAnswer    string `json:"your_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation"`
}

type SubmitQuizResponse struct {
	Attempt               Attempt        `json:"attempt"`
	Results               []AnswerResult `json:"results"`
	RecommendedDifficulty string         `json:"recommended_difficulty"`
}

type HistoryResponse struct {
	Attempts []Attempt `json:"attempts"`
}

type AttemptDetailResponse struct {
	Attempt   Attempt    `json:"attempt"`
	Responses []Response `json:"responses"`
}

type RecommendResponse struct {
	RecommendedDifficulty string  `json:"recommended_difficulty"`
	RecentAverageScore    float64 `json:"recent_average_score"`
	TotalQuizzesTaken     int64   `json:"total_quizzes_taken"`
}

type StatsResponse struct {
	TotalUsers       int64 `json:"total_users"`
	TotalContents    int64 `json:"total_contents"`
	TotalQuestions   int64 `json:"total_questions"`
	TotalQuizzes     int64 `json:"total_quizzes"`
	FlaggedQuestions int64 `json:"flagged_questions"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type QuestionsResponse struct {
	Questions []Question `json:"questions"`
}

type FeedbackResponse struct {
	Msg      string   `json:"msg"`
	Feedback Feedback `json:"feedback"`
}

type FeedbackListResponse struct {
	Feedback []Feedback `json:"feedback"`
}

type IndexResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
