package quizgen

import (
	"context"

	"github.com/yungbote/adaptivequiz-backend/internal/platform/logger"
)

// FallbackGenerator tries Primary and uses Fallback when Primary errors or
// yields nothing.
type FallbackGenerator struct {
	Primary  Generator
	Fallback Generator
	Log      *logger.Logger
}

func NewFallbackGenerator(primary, fallback Generator, log *logger.Logger) *FallbackGenerator {
	return &FallbackGenerator{Primary: primary, Fallback: fallback, Log: log.With("service", "QuestionGenerator")}
}

func (g *FallbackGenerator) Generate(ctx context.Context, text string, opts Options) ([]Question, error) {
	if g.Primary != nil {
		qs, err := g.Primary.Generate(ctx, text, opts)
		if err == nil && len(qs) > 0 {
			return qs, nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.Log.Warn("primary question generator failed, using rules", "error", err)
		}
	}
	return g.Fallback.Generate(ctx, text, opts)
}
