package app

import (
	httpH "github.com/yungbote/adaptivequiz-backend/internal/http/handlers"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Content  *httpH.ContentHandler
	Quiz     *httpH.QuizHandler
	Admin    *httpH.AdminHandler
	Feedback *httpH.FeedbackHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(cfg.Version),
		Auth:     httpH.NewAuthHandler(services.Auth, services.User),
		Content:  httpH.NewContentHandler(services.Content, cfg.MaxUploadBytes),
		Quiz:     httpH.NewQuizHandler(services.Quiz),
		Admin:    httpH.NewAdminHandler(services.Admin),
		Feedback: httpH.NewFeedbackHandler(services.Feedback),
	}
}
