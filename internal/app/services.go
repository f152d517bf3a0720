package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
	"github.com/yungbote/adaptivequiz-backend/internal/quizgen"
	"github.com/yungbote/adaptivequiz-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	User           services.UserService
	Content        services.ContentService
	Quiz           services.QuizService
	Recommendation services.RecommendationService
	Admin          services.AdminService
	Feedback       services.FeedbackService

	Generator quizgen.Generator
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, repos Repos) Services {
	log.Info("Wiring services...")

	generator := wireGenerator(log, clients)
	recs := services.NewRecommendationService(db, log, repos.User, repos.QuizAttempt, clients.Cache)

	return Services{
		Auth: services.NewAuthService(db, log, repos.User, repos.UserToken, services.AuthConfig{
			JWTSecretKey: cfg.JWTSecretKey,
			AccessTTL:    cfg.AccessTokenTTL,
			RefreshTTL:   cfg.RefreshTokenTTL,
			AdminEmails:  cfg.AdminEmails,
		}),
		User:           services.NewUserService(db, log, repos.User, recs),
		Content:        services.NewContentService(db, log, repos.Content, repos.ContentChunk, clients.Extractor, clients.Uploads),
		Quiz:           services.NewQuizService(db, log, repos.User, repos.Content, repos.ContentChunk, repos.Question, repos.QuizAttempt, repos.QuizResponse, generator, recs),
		Recommendation: recs,
		Admin:          services.NewAdminService(db, log, repos.User, repos.Content, repos.Question, repos.QuizAttempt, clients.Cache),
		Feedback:       services.NewFeedbackService(db, log, repos.Question, repos.Feedback),
		Generator:      generator,
	}
}

// wireGenerator prefers the LLM when configured and falls back to rules.
func wireGenerator(log *logger.Logger, clients Clients) quizgen.Generator {
	rules := quizgen.NewRuleGenerator(quizgen.NewProseTagger(), nil)
	if clients.LLM == nil {
		return rules
	}
	return quizgen.NewFallbackGenerator(quizgen.NewLLMGenerator(clients.LLM), rules, log)
}
