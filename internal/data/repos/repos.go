package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/auth"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/content"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/feedback"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/quiz"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos/user"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserProfilePatch = user.ProfilePatch
type UserTokenRepo = auth.UserTokenRepo

type ContentRepo = content.ContentRepo
type ContentChunkRepo = content.ContentChunkRepo

type QuestionRepo = quiz.QuestionRepo
type QuestionFilter = quiz.QuestionFilter
type QuizAttemptRepo = quiz.QuizAttemptRepo
type QuizResponseRepo = quiz.QuizResponseRepo

type FeedbackRepo = feedback.FeedbackRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return content.NewContentRepo(db, baseLog)
}

func NewContentChunkRepo(db *gorm.DB, baseLog *logger.Logger) ContentChunkRepo {
	return content.NewContentChunkRepo(db, baseLog)
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return quiz.NewQuestionRepo(db, baseLog)
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return quiz.NewQuizAttemptRepo(db, baseLog)
}

func NewQuizResponseRepo(db *gorm.DB, baseLog *logger.Logger) QuizResponseRepo {
	return quiz.NewQuizResponseRepo(db, baseLog)
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return feedback.NewFeedbackRepo(db, baseLog)
}
