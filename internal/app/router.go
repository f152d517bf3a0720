package app

import (
	"github.com/gin-gonic/gin"

	httpserver "github.com/yungbote/adaptivequiz-backend/internal/http"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

func routerConfig(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) httpserver.RouterConfig {
	rc := httpserver.RouterConfig{
		Log:             log,
		HealthHandler:   handlers.Health,
		AuthHandler:     handlers.Auth,
		AuthMiddleware:  middleware.Auth,
		ContentHandler:  handlers.Content,
		QuizHandler:     handlers.Quiz,
		AdminHandler:    handlers.Admin,
		FeedbackHandler: handlers.Feedback,
		LoginLimiter:    middleware.LoginLimiter,
		CORSOrigins:     cfg.CORSOrigins,
	}
	if cfg.OtelEnabled {
		rc.TracingService = cfg.OtelServiceName
	}
	return rc
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *httpserver.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpserver.NewServer(log, routerConfig(log, cfg, handlers, middleware))
}
