package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (ah *AdminHandler) Stats(c *gin.Context) {
	stats, err := ah.adminService.Stats(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.StatsResponse{
		TotalUsers:       stats.TotalUsers,
		TotalContents:    stats.TotalContents,
		TotalQuestions:   stats.TotalQuestions,
		TotalQuizzes:     stats.TotalQuizzes,
		FlaggedQuestions: stats.FlaggedQuestions,
	})
}

func (ah *AdminHandler) Users(c *gin.Context) {
	users, err := ah.adminService.Users(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.UsersResponse{Users: toUsers(users)})
}

func (ah *AdminHandler) Questions(c *gin.Context) {
	questions, err := ah.adminService.Questions(c.Request.Context(), boolQuery(c, "flagged"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.QuestionsResponse{Questions: toQuestions(questions, true)})
}

func (ah *AdminHandler) Flag(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("question not found"))
		return
	}
	if err := ah.adminService.FlagQuestion(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "question flagged")
}

func (ah *AdminHandler) Unflag(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("question not found"))
		return
	}
	if err := ah.adminService.UnflagQuestion(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "question unflagged")
}

func (ah *AdminHandler) DeleteQuestion(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("question not found"))
		return
	}
	if err := ah.adminService.DeleteQuestion(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, http.StatusOK, "question deleted")
}

func (ah *AdminHandler) Promote(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		response.RespondErr(c, apierr.NotFound("user not found"))
		return
	}
	user, err := ah.adminService.Promote(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, apitypes.UserResponse{Msg: fmt.Sprintf("%s is now admin", user.Email), User: toUser(user)})
}
