package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/adaptivequiz-backend/internal/http/handlers"
	httpMW "github.com/yungbote/adaptivequiz-backend/internal/http/middleware"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthHandler     *httpH.AuthHandler
	AuthMiddleware  *httpMW.AuthMiddleware
	ContentHandler  *httpH.ContentHandler
	QuizHandler     *httpH.QuizHandler
	AdminHandler    *httpH.AdminHandler
	FeedbackHandler *httpH.FeedbackHandler
	HealthHandler   *httpH.HealthHandler

	// LoginLimiter throttles register and login per client IP when set.
	LoginLimiter *httpMW.RateLimiter

	CORSOrigins []string

	// TracingService enables otelgin spans under this service name.
	TracingService string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Index)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	requireAuth := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthMiddleware == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth(), h}
	}
	requireAdmin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthMiddleware == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin(), h}
	}
	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.LoginLimiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{cfg.LoginLimiter.Middleware(), h}
	}

	// Auth
	if cfg.AuthHandler != nil {
		auth := r.Group("/auth")
		auth.POST("/register", limited(cfg.AuthHandler.Register)...)
		auth.POST("/login", limited(cfg.AuthHandler.Login)...)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
		auth.POST("/logout", requireAuth(cfg.AuthHandler.Logout)...)
		auth.GET("/profile", requireAuth(cfg.AuthHandler.Profile)...)
		auth.PUT("/profile", requireAuth(cfg.AuthHandler.UpdateProfile)...)
	}

	// Content
	if cfg.ContentHandler != nil {
		content := r.Group("/content")
		content.POST("/upload/text", requireAuth(cfg.ContentHandler.UploadText)...)
		content.POST("/upload/url", requireAuth(cfg.ContentHandler.UploadURL)...)
		content.POST("/upload/pdf", requireAuth(cfg.ContentHandler.UploadPDF)...)
		content.GET("/list", requireAuth(cfg.ContentHandler.List)...)
		content.GET("/:id", requireAuth(cfg.ContentHandler.Get)...)
		content.DELETE("/:id", requireAuth(cfg.ContentHandler.Delete)...)
	}

	// Quiz
	if cfg.QuizHandler != nil {
		quiz := r.Group("/quiz")
		quiz.POST("/generate", requireAuth(cfg.QuizHandler.Generate)...)
		quiz.POST("/submit", requireAuth(cfg.QuizHandler.Submit)...)
		quiz.GET("/history", requireAuth(cfg.QuizHandler.History)...)
		quiz.GET("/attempt/:id", requireAuth(cfg.QuizHandler.Attempt)...)
		quiz.GET("/recommend", requireAuth(cfg.QuizHandler.Recommend)...)
	}

	// Admin
	admin := r.Group("/admin")
	if cfg.AdminHandler != nil {
		admin.GET("/stats", requireAdmin(cfg.AdminHandler.Stats)...)
		admin.GET("/users", requireAdmin(cfg.AdminHandler.Users)...)
		admin.GET("/questions", requireAdmin(cfg.AdminHandler.Questions)...)
		admin.POST("/questions/:id/flag", requireAuth(cfg.AdminHandler.Flag)...)
		admin.POST("/questions/:id/unflag", requireAdmin(cfg.AdminHandler.Unflag)...)
		admin.DELETE("/questions/:id", requireAdmin(cfg.AdminHandler.DeleteQuestion)...)
		admin.POST("/promote/:id", requireAdmin(cfg.AdminHandler.Promote)...)
	}
	if cfg.FeedbackHandler != nil {
		admin.POST("/feedback", requireAuth(cfg.FeedbackHandler.Submit)...)
		admin.GET("/feedback", requireAdmin(cfg.FeedbackHandler.List)...)
	}

	return r
}
