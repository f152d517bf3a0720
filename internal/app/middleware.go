package app

import (
	httpMW "github.com/yungbote/adaptivequiz-backend/internal/http/middleware"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Middleware struct {
	Auth         *httpMW.AuthMiddleware
	LoginLimiter *httpMW.RateLimiter
}

func wireMiddleware(log *logger.Logger, cfg Config, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth:         httpMW.NewAuthMiddleware(log, services.Auth),
		LoginLimiter: httpMW.NewRateLimiter(cfg.LoginRatePerMinute),
	}
}
