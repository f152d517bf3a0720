package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/feedback"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const FeedbackListLimit = 100

type FeedbackService interface {
	Submit(ctx context.Context, questionID uint, rating *int, comment string) (*types.Feedback, error)
	List(ctx context.Context) ([]*types.Feedback, error)
}

type feedbackService struct {
	db        *gorm.DB
	log       *logger.Logger
	questions repos.QuestionRepo
	feedback  repos.FeedbackRepo
}

func NewFeedbackService(db *gorm.DB, log *logger.Logger, questions repos.QuestionRepo, fb repos.FeedbackRepo) FeedbackService {
	return &feedbackService{
		db:        db,
		log:       log.With("service", "FeedbackService"),
		questions: questions,
		feedback:  fb,
	}
}

func (fs *feedbackService) Submit(ctx context.Context, questionID uint, rating *int, comment string) (*types.Feedback, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if questionID == 0 {
		return nil, apierr.BadRequest("question_id required")
	}
	r := feedback.DefaultRating
	if rating != nil {
		r = *rating
	}
	if r < feedback.MinRating || r > feedback.MaxRating {
		return nil, apierr.BadRequest(fmt.Sprintf("rating must be between %d and %d", feedback.MinRating, feedback.MaxRating))
	}

	row := &types.Feedback{
		UserID:     rd.UserID,
		QuestionID: questionID,
		Rating:     r,
		Comment:    strings.TrimSpace(comment),
	}
	err = fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := loadQuestion(dbc, fs.questions, questionID); err != nil {
			return err
		}
		if _, err := fs.feedback.Create(dbc, []*types.Feedback{row}); err != nil {
			return fmt.Errorf("create feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (fs *feedbackService) List(ctx context.Context) ([]*types.Feedback, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	out, err := fs.feedback.ListRecent(dbctx.Context{Ctx: ctx}, FeedbackListLimit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return out, nil
}
