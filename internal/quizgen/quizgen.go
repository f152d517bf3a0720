// Package quizgen turns source text into quiz questions.
package quizgen

import (
	"context"
	"strings"

	"github.com/yungbote/adaptivequiz-backend/internal/domain/quiz"
)

type Question struct {
	Type        string
	Text        string
	Options     []string
	Answer      string
	Difficulty  string
	Explanation string
}

// Options controls a generation run. An empty Difficulty keeps every
// difficulty; empty Types means every supported type.
type Options struct {
	Types        []string
	Difficulty   string
	MaxQuestions int
}

type Generator interface {
	Generate(ctx context.Context, text string, opts Options) ([]Question, error)
}

// NormalizeTypes drops unknown and duplicate types, keeping request order.
func NormalizeTypes(types []string) []string {
	if len(types) == 0 {
		return append([]string(nil), quiz.AllTypes...)
	}
	seen := make(map[string]bool, len(types))
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if !quiz.IsType(t) || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// DifficultyForSentence rates a sentence by its whitespace-separated word count.
func DifficultyForSentence(sentence string) string {
	n := len(strings.Fields(sentence))
	switch {
	case n <= 10:
		return quiz.DifficultyEasy
	case n <= 25:
		return quiz.DifficultyMedium
	default:
		return quiz.DifficultyHard
	}
}
