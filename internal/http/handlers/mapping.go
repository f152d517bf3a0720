package handlers

import (
	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

func toUser(u *types.User) apitypes.User {
	if u == nil {
		return apitypes.User{}
	}
	return apitypes.User{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		PreferredDifficulty: u.PreferredDifficulty,
		Subjects:            u.SubjectList(),
		IsAdmin:             u.IsAdmin,
		CreatedAt:           u.CreatedAt,
	}
}

func toUsers(in []*types.User) []apitypes.User {
	out := make([]apitypes.User, 0, len(in))
	for _, u := range in {
		out = append(out, toUser(u))
	}
	return out
}

func toContent(c *types.Content) apitypes.Content {
	out := apitypes.Content{
		ID:         c.ID,
		Title:      c.Title,
		SourceType: c.SourceType,
		SourceURL:  c.SourceURL,
		ChunkCount: c.ChunkCount,
		CreatedAt:  c.CreatedAt,
	}
	if c.Chunks != nil {
		out.Chunks = make([]apitypes.Chunk, 0, len(c.Chunks))
		for _, ch := range c.Chunks {
			out.Chunks = append(out.Chunks, apitypes.Chunk{ID: ch.ID, ChunkIndex: ch.ChunkIndex, ChunkText: ch.ChunkText})
		}
	}
	return out
}

func toContents(in []*types.Content) []apitypes.Content {
	out := make([]apitypes.Content, 0, len(in))
	for _, c := range in {
		out = append(out, toContent(c))
	}
	return out
}

// toQuestion hides the answer and explanation unless withAnswer is set.
func toQuestion(q *types.Question, withAnswer bool) apitypes.Question {
	out := apitypes.Question{
		ID:           q.ID,
		ContentID:    q.ContentID,
		QuestionType: q.QuestionType,
		Difficulty:   q.Difficulty,
		QuestionText: q.QuestionText,
		Options:      q.OptionList(),
		IsFlagged:    q.IsFlagged,
	}
	if withAnswer {
		out.CorrectAnswer = q.CorrectAnswer
		out.Explanation = q.Explanation
	}
	return out
}

func toQuestions(in []*types.Question, withAnswer bool) []apitypes.Question {
	out := make([]apitypes.Question, 0, len(in))
	for _, q := range in {
		out = append(out, toQuestion(q, withAnswer))
	}
	return out
}

func toAttempt(a *types.QuizAttempt) apitypes.Attempt {
	return apitypes.Attempt{
		ID:               a.ID,
		ContentID:        a.ContentID,
		Difficulty:       a.Difficulty,
		ScorePercent:     a.ScorePercent,
		CorrectCount:     a.CorrectCount,
		TotalQuestions:   a.TotalQuestions,
		TimeTakenSeconds: a.TimeTakenSeconds,
		StartedAt:        a.StartedAt,
		CompletedAt:      a.CompletedAt,
	}
}

func toAttempts(in []*types.QuizAttempt) []apitypes.Attempt {
	out := make([]apitypes.Attempt, 0, len(in))
	for _, a := range in {
		out = append(out, toAttempt(a))
	}
	return out
}

func toResponses(in []*types.QuizResponse) []apitypes.Response {
	out := make([]apitypes.Response, 0, len(in))
	for _, r := range in {
		out = append(out, apitypes.Response{
			ID:               r.ID,
			QuestionID:       r.QuestionID,
			UserAnswer:       r.UserAnswer,
			IsCorrect:        r.IsCorrect,
			TimeSpentSeconds: r.TimeSpentSeconds,
		})
	}
	return out
}

func toAnswerResults(in []services.AnswerResult) []apitypes.AnswerResult {
	out := make([]apitypes.AnswerResult, 0, len(in))
	for _, r := range in {
		out = append(out, apitypes.AnswerResult{
			QuestionID:    r.QuestionID,
			YourAnswer:    r.YourAnswer,
			CorrectAnswer: r.CorrectAnswer,
			IsCorrect:     r.IsCorrect,
			Explanation:   r.Explanation,
		})
	}
	return out
}

func toFeedback(f *types.Feedback) apitypes.Feedback {
	return apitypes.Feedback{
		ID:         f.ID,
		UserID:     f.UserID,
		QuestionID: f.QuestionID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		CreatedAt:  f.CreatedAt,
	}
}

func toFeedbackList(in []*types.Feedback) []apitypes.Feedback {
	out := make([]apitypes.Feedback, 0, len(in))
	for _, f := range in {
		out = append(out, toFeedback(f))
	}
	return out
}
