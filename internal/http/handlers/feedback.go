package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func (fh *FeedbackHandler) Submit(c *gin.Context) {
	var req apitypes.FeedbackRequest
	if err := bindJSON(c, &req); err != nil {
		response.RespondErr(c, err)
		return
	}
	fb, err := fh.feedbackService.Submit(c.Request.Context(), req.QuestionID, req.Rating, req.Comment)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, apitypes.FeedbackResponse{Msg: "feedback submitted", Feedback: toFeedback(fb)})
}

func (fh *FeedbackHandler) List(c *gin.Context) {
	list, err := fh.feedbackService.List(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.FeedbackListResponse{Feedback: toFeedbackList(list)})
}
