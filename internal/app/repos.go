package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	Content      repos.ContentRepo
	ContentChunk repos.ContentChunkRepo
	Question     repos.QuestionRepo
	QuizAttempt  repos.QuizAttemptRepo
	QuizResponse repos.QuizResponseRepo
	Feedback     repos.FeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		Content:      repos.NewContentRepo(db, log),
		ContentChunk: repos.NewContentChunkRepo(db, log),
		Question:     repos.NewQuestionRepo(db, log),
		QuizAttempt:  repos.NewQuizAttemptRepo(db, log),
		QuizResponse: repos.NewQuizResponseRepo(db, log),
		Feedback:     repos.NewFeedbackRepo(db, log),
	}
}
