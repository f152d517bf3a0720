package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

const noQuestionsMsg = "could not generate questions from this content"

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

func (qh *QuizHandler) Generate(c *gin.Context) {
	var req apitypes.GenerateQuizRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	res, err := qh.quizService.Generate(c.Request.Context(), services.GenerateInput{
		ContentID:    req.ContentID,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
		Types:        req.Types,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	if res.Attempt == nil || len(res.Questions) == 0 {
		response.RespondOK(c, apitypes.GenerateQuizResponse{Msg: noQuestionsMsg, Questions: []apitypes.Question{}})
		return
	}
	response.RespondCreated(c, apitypes.GenerateQuizResponse{
		AttemptID:  res.Attempt.ID,
		Difficulty: res.Difficulty,
		Questions:  toQuestions(res.Questions, false),
	})
}

func (qh *QuizHandler) Submit(c *gin.Context) {
	var req apitypes.SubmitQuizRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	answers := make([]services.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, services.SubmittedAnswer{
			QuestionID:       a.QuestionID,
			Answer:           a.Answer,
			TimeSpentSeconds: a.TimeSpentSeconds,
		})
	}
	res, err := qh.quizService.Submit(c.Request.Context(), req.AttemptID, answers)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.SubmitQuizResponse{
		Attempt:               toAttempt(res.Attempt),
		Results:               toAnswerResults(res.Results),
		RecommendedDifficulty: res.RecommendedDifficulty,
	})
}

func (qh *QuizHandler) History(c *gin.Context) {
	attempts, err := qh.quizService.History(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.HistoryResponse{Attempts: toAttempts(attempts)})
}

func (qh *QuizHandler) Attempt(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("quiz attempt not found"))
		return
	}
	attempt, responses, err := qh.quizService.Attempt(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.AttemptDetailResponse{Attempt: toAttempt(attempt), Responses: toResponses(responses)})
}

func (qh *QuizHandler) Recommend(c *gin.Context) {
	rec, err := qh.quizService.Recommend(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.RecommendResponse{
		RecommendedDifficulty: rec.Difficulty,
		RecentAverageScore:    rec.RecentAverageScore,
		TotalQuizzesTaken:     rec.TotalQuizzesTaken,
	})
}
