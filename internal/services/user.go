package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/adaptivequiz-backend/internal/data/repos"
	types "github.com/yungbote/adaptivequiz-backend/internal/domain"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/apierr"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/ctxutil"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/dbctx"
	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, patch repos.UserProfilePatch) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
	recs     RecommendationService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, recs RecommendationService) UserService {
	return &userService{
		db:       db,
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
		recs:     recs,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	return us.loadUser(dbctx.Context{Ctx: ctx}, rd.UserID)
}

func (us *userService) UpdateProfile(ctx context.Context, patch repos.UserProfilePatch) (*types.User, error) {
	rd, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	if patch.PreferredDifficulty != nil {
		d := types.NormalizeDifficulty(*patch.PreferredDifficulty)
		if !types.IsDifficultyLevel(d) {
			return nil, apierr.BadRequest("preferred_difficulty must be one of easy, medium, hard")
		}
		patch.PreferredDifficulty = &d
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}

	var user *types.User
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := us.userRepo.UpdateProfile(dbc, rd.UserID, patch); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		var err error
		user, err = us.loadUser(dbc, rd.UserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if patch.PreferredDifficulty != nil && us.recs != nil {
		us.recs.Invalidate(ctx, rd.UserID)
	}
	return user, nil
}

func (us *userService) loadUser(dbc dbctx.Context, userID uint) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(dbc, []uint{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("user not found")
	}
	return users[0], nil
}

// requireCaller returns the authenticated caller or a 401.
func requireCaller(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return nil, apierr.Unauthorized("authentication required")
	}
	return rd, nil
}
