package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/redis"
	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

const (
	AdminQuestionLimit = 100
	adminStatsKey      = "admin:stats"
	adminStatsTTL      = 30 * time.Second
)

type AdminStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalContents    int64 `json:"total_contents"`
	TotalQuestions   int64 `json:"total_questions"`
	TotalQuizzes     int64 `json:"total_quizzes"`
	FlaggedQuestions int64 `json:"flagged_questions"`
}

type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	Users(ctx context.Context) ([]*types.User, error)
	Questions(ctx context.Context, flagged *bool) ([]*types.Question, error)
	// FlagQuestion is open to any authenticated user.
	FlagQuestion(ctx context.Context, questionID uint) error
	UnflagQuestion(ctx context.Context, questionID uint) error
	DeleteQuestion(ctx context.Context, questionID uint) error
	Promote(ctx context.Context, userID uint) (*types.User, error)
}

type adminService struct {
	db        *gorm.DB
	log       *logger.Logger
	users     repos.UserRepo
	contents  repos.ContentRepo
	questions repos.QuestionRepo
	attempts  repos.QuizAttemptRepo
	cache     redis.Cache
}

func NewAdminService(
	db *gorm.DB,
	log *logger.Logger,
	users repos.UserRepo,
	contents repos.ContentRepo,
	questions repos.QuestionRepo,
	attempts repos.QuizAttemptRepo,
	cache redis.Cache,
) AdminService {
	return &adminService{
		db:        db,
		log:       log.With("service", "AdminService"),
		users:     users,
		contents:  contents,
		questions: questions,
		attempts:  attempts,
		cache:     cache,
	}
}

func requireAdmin(ctx context.Context) (*ctxutil.RequestData, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if !rd.IsAdmin {
		return nil, apierr.New(http.StatusForbidden, "admin_required", errors.New("admin access required"))
	}
	return rd, nil
}

func (as *adminService) Stats(ctx context.Context) (*AdminStats, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if as.cache != nil {
		var cached AdminStats
		ok, err := as.cache.GetJSON(ctx, adminStatsKey, &cached)
		if err != nil {
			as.log.Warn("stats cache read failed", "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	var stats AdminStats
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	count := func(dst *int64, name string, fn func(dbctx.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(dbc)
			if err != nil {
				return fmt.Errorf("count %s: %w", name, err)
			}
			*dst = n
			return nil
		})
	}
	count(&stats.TotalUsers, "users", as.users.Count)
	count(&stats.TotalContents, "contents", as.contents.Count)
	count(&stats.TotalQuestions, "questions", as.questions.Count)
	count(&stats.TotalQuizzes, "quizzes", as.attempts.Count)
	count(&stats.FlaggedQuestions, "flagged questions", as.questions.CountFlagged)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if as.cache != nil {
		if err := as.cache.SetJSON(ctx, adminStatsKey, &stats, adminStatsTTL); err != nil {
			as.log.Warn("stats cache write failed", "error", err)
		}
	}
	return &stats, nil
}

func (as *adminService) Users(ctx context.Context) ([]*types.User, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	out, err := as.users.ListAll(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (as *adminService) Questions(ctx context.Context, flagged *bool) ([]*types.Question, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	out, err := as.questions.List(dbctx.Context{Ctx: ctx}, repos.QuestionFilter{Flagged: flagged, Limit: AdminQuestionLimit})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

func (as *adminService) FlagQuestion(ctx context.Context, questionID uint) error {
	rd, err := requireCaller(ctx)
	if err != nil {
		return err
	}
	if err := as.setFlag(ctx, questionID, true); err != nil {
		return err
	}
	as.log.Info("question flagged", "question_id", questionID, "user_id", rd.UserID)
	return nil
}

func (as *adminService) UnflagQuestion(ctx context.Context, questionID uint) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return as.setFlag(ctx, questionID, false)
}

func (as *adminService) setFlag(ctx context.Context, questionID uint, flagged bool) error {
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := loadQuestion(dbc, as.questions, questionID); err != nil {
			return err
		}
		if err := as.questions.SetFlagged(dbc, []uint{questionID}, flagged); err != nil {
			return fmt.Errorf("set flagged: %w", err)
		}
		return nil
	})
}

func (as *adminService) DeleteQuestion(ctx context.Context, questionID uint) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := loadQuestion(dbc, as.questions, questionID); err != nil {
			return err
		}
		if err := as.questions.FullDeleteByIDs(dbc, []uint{questionID}); err != nil {
			return fmt.Errorf("delete question: %w", err)
		}
		return nil
	})
}

func (as *adminService) Promote(ctx context.Context, userID uint) (*types.User, error) {
	rd, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	var user *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		users, err := as.users.GetByIDs(dbc, []uint{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return apierr.NotFound("user not found")
		}
		user = users[0]
		if err := as.users.SetAdmin(dbc, user.ID, true); err != nil {
			return fmt.Errorf("set admin: %w", err)
		}
		user.IsAdmin = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("user promoted", "user_id", user.ID, "by", rd.UserID)
	return user, nil
}

func loadQuestion(dbc dbctx.Context, questions repos.QuestionRepo, questionID uint) (*types.Question, error) {
	q, err := questions.GetByID(dbc, questionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if q == nil {
		return nil, apierr.NotFound("question not found")
	}
	return q, nil
}
