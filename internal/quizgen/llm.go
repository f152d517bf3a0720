package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/yungbote/adaptivequiz-backend/internal/clients/openai"
	"github.com/yungbote/adaptivequiz-backend/internal/domain/quiz"
)

const maxPromptChars = 4000

const llmSystemPrompt = `You are an expert academic examiner. Output ONLY valid JSON. ` +
	`Structure: {"questions": [{"question": "...", "options": ` +
	`{"A": "...", "B": "...", "C": "...", "D": "..."}, ` +
	`"correct_answer": "A", "explanation": "..."}]}`

var difficultyGuide = map[string]string{
	quiz.DifficultyEasy:   "simple recall and basic understanding",
	quiz.DifficultyMedium: "application and analysis level",
	quiz.DifficultyHard:   "synthesis, evaluation, and critical thinking",
}

// LLMGenerator asks a chat model for multiple choice or true/false
// questions. Other question types are not produced.
type LLMGenerator struct {
	client openai.Client
}

func NewLLMGenerator(client openai.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

type llmPayload struct {
	Questions []llmQuestion `json:"questions"`
}

type llmQuestion struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

func (g *LLMGenerator) Generate(ctx context.Context, text string, opts Options) ([]Question, error) {
	format := llmFormat(NormalizeTypes(opts.Types))
	if format == "" {
		return []Question{}, nil
	}
	count := opts.MaxQuestions
	if count <= 0 {
		count = 5
	}
	difficulty := opts.Difficulty
	if !quiz.IsLevel(difficulty) {
		difficulty = quiz.DifficultyMedium
	}

	raw, err := g.client.GenerateJSON(ctx, llmSystemPrompt, buildUserPrompt(text, count, format, difficulty))
	if err != nil {
		return nil, err
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode llm questions: %w", err)
	}

	out := make([]Question, 0, len(payload.Questions))
	for _, lq := range payload.Questions {
		q, ok := convertLLMQuestion(lq, difficulty)
		if !ok {
			continue
		}
		out = append(out, q)
		if len(out) >= count {
			break
		}
	}
	return out, nil
}

// llmFormat picks "mcq" when multiple choice is wanted, "tf" when only
// true/false is, and "" when neither is requested.
func llmFormat(types []string) string {
	hasTF := false
	for _, t := range types {
		if t == quiz.TypeMCQ {
			return "mcq"
		}
		if t == quiz.TypeTrueFalse {
			hasTF = true
		}
	}
	if hasTF {
		return "tf"
	}
	return ""
}

func buildUserPrompt(text string, count int, format, difficulty string) string {
	rule := "Generate MCQs with 4 options (A, B, C, D). 'correct_answer' must be the key letter (A, B, C, or D)."
	if format == "tf" {
		rule = `Generate True/False questions. 'options' must be {"A": "True", "B": "False"}. 'correct_answer' must be 'A' or 'B'.`
	}
	content := []rune(text)
	if len(content) > maxPromptChars {
		content = content[:maxPromptChars]
	}
	return fmt.Sprintf("TASK: Generate exactly %d %s questions.\nDIFFICULTY: %s - focus on %s.\nRULE: %s\nCONTENT:\n%s",
		count, strings.ToUpper(format), difficulty, difficultyGuide[difficulty], rule, string(content))
}

// convertLLMQuestion resolves the answer letter into option text so answers
// can be graded by string comparison.
func convertLLMQuestion(lq llmQuestion, difficulty string) (Question, bool) {
	text := strings.TrimSpace(lq.Question)
	if text == "" || len(lq.Options) < 2 {
		return Question{}, false
	}
	keys := make([]string, 0, len(lq.Options))
	for k := range lq.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	options := make([]string, 0, len(keys))
	answer := ""
	letter := strings.ToUpper(strings.TrimSpace(lq.CorrectAnswer))
	for _, k := range keys {
		opt := strings.TrimSpace(lq.Options[k])
		options = append(options, opt)
		if strings.ToUpper(k) == letter || strings.EqualFold(opt, lq.CorrectAnswer) {
			answer = opt
		}
	}
	if answer == "" {
		return Question{}, false
	}

	qtype := quiz.TypeMCQ
	if len(options) == 2 && strings.EqualFold(options[0], "True") && strings.EqualFold(options[1], "False") {
		qtype = quiz.TypeTrueFalse
		options = []string{"True", "False"}
		if strings.EqualFold(answer, "true") {
			answer = "True"
		} else {
			answer = "False"
		}
	}
	return Question{
		Type:        qtype,
		Text:        text,
		Options:     options,
		Answer:      answer,
		Difficulty:  difficulty,
		Explanation: strings.TrimSpace(lq.Explanation),
	}, true
}
