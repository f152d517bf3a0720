package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// identity + auth
		&types.User{},
		&types.UserToken{},

		// ingested material
		&types.Content{},
		&types.ContentChunk{},

		// quizzes
		&types.Question{},
		&types.QuizAttempt{},
		&types.QuizResponse{},

		&types.Feedback{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
