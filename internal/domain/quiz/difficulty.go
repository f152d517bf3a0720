package quiz

import "strings"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	// Request-only modes. Auto resolves through the recommender, mixed skips
	// the difficulty filter.
	DifficultyAuto  = "auto"
	DifficultyMixed = "mixed"
)

const (
	TypeMCQ         = "mcq"
	TypeFillBlank   = "fill_blank"
	TypeTrueFalse   = "true_false"
	TypeShortAnswer = "short_answer"
)

// AllTypes is the generation order used when a request names no types.
var AllTypes = []string{TypeMCQ, TypeFillBlank, TypeTrueFalse, TypeShortAnswer}

func NormalizeDifficulty(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsLevel reports whether s is one of easy, medium or hard.
func IsLevel(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

func IsType(s string) bool {
	switch s {
	case TypeMCQ, TypeFillBlank, TypeTrueFalse, TypeShortAnswer:
		return true
	}
	return false
}

// HasChoices reports whether questions of type t carry an options list.
func HasChoices(t string) bool {
	return t == TypeMCQ || t == TypeTrueFalse
}
