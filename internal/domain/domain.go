package domain

import (
	"github.com/yungbote/adaptivequiz-backend/internal/domain/auth"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/content"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/feedback"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/quiz"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Content = content.Content
type ContentChunk = content.ContentChunk

type Question = quiz.Question
type QuizAttempt = quiz.QuizAttempt
type QuizResponse = quiz.QuizResponse

type Feedback = feedback.Feedback

const (
	DifficultyEasy   = quiz.DifficultyEasy
	DifficultyMedium = quiz.DifficultyMedium
	DifficultyHard   = quiz.DifficultyHard
	DifficultyAuto   = quiz.DifficultyAuto
	DifficultyMixed  = quiz.DifficultyMixed

	QuestionTypeMCQ         = quiz.TypeMCQ
	QuestionTypeFillBlank   = quiz.TypeFillBlank
	QuestionTypeTrueFalse   = quiz.TypeTrueFalse
	QuestionTypeShortAnswer = quiz.TypeShortAnswer

	SourceText = content.SourceText
	SourceURL  = content.SourceURL
	SourcePDF  = content.SourcePDF
)

var AllQuestionTypes = quiz.AllTypes

func NormalizeDifficulty(s string) string { return quiz.NormalizeDifficulty(s) }

func IsDifficultyLevel(s string) bool { return quiz.IsLevel(s) }

func IsQuestionType(s string) bool { return quiz.IsType(s) }
