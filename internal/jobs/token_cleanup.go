package jobs

import (
	"context"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// TokenCleanup deletes user tokens whose refresh window has passed.
type TokenCleanup struct {
	log    *logger.Logger
	purger TokenPurger
}

func NewTokenCleanup(baseLog *logger.Logger, purger TokenPurger) *TokenCleanup {
	return &TokenCleanup{log: baseLog.With("job", "TokenCleanup"), purger: purger}
}

func (j *TokenCleanup) Name() string { return "token_cleanup" }

func (j *TokenCleanup) Run(ctx context.Context) error {
	n, err := j.purger.PurgeExpiredTokens(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.log.Info("expired tokens purged", "count", n)
	}
	return nil
}
