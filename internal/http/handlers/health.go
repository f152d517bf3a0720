package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/http/response"
)

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	if version == "" {
		version = "dev"
	}
	return &HealthHandler{version: version}
}

func (hh *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (hh *HealthHandler) Index(c *gin.Context) {
	response.RespondOK(c, apitypes.IndexResponse{
		Name:    "adaptivequiz",
		Version: hh.version,
		Endpoints: map[string]string{
			"auth":    "/auth/register, /auth/login, /auth/refresh, /auth/logout, /auth/profile",
			"content": "/content/upload/text, /content/upload/url, /content/upload/pdf, /content/list, /content/:id",
			"quiz":    "/quiz/generate, /quiz/submit, /quiz/history, /quiz/attempt/:id, /quiz/recommend",
			"admin":   "/admin/stats, /admin/users, /admin/questions, /admin/promote/:id",
			"health":  "/healthcheck",
		},
	})
}
