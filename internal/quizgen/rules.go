package quizgen

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/domain/quiz"
)

const (
	blank           = "______"
	keywordsPerLine = 5
	distractorCount = 3
	minSentenceLen  = 5
)

var genericDistractors = []string{
	"None of the above",
	"All of the above",
	"Not enough information",
	"Cannot be determined",
	"Unknown",
}

// RuleGenerator builds questions from noun keywords without any model calls.
// It is safe for concurrent use.
type RuleGenerator struct {
	tagger Tagger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRuleGenerator uses rng for every random choice so runs can be replayed.
// A nil rng is seeded from the clock.
func NewRuleGenerator(tagger Tagger, rng *rand.Rand) *RuleGenerator {
	if tagger == nil {
		tagger = NewProseTagger()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RuleGenerator{tagger: tagger, rng: rng}
}

func (g *RuleGenerator) Generate(ctx context.Context, text string, opts Options) ([]Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	types := NormalizeTypes(opts.Types)
	limit := opts.MaxQuestions
	if limit <= 0 {
		limit = 20
	}

	sentences := g.tagger.Sentences(text)
	if len(sentences) == 0 {
		return []Question{}, nil
	}

	keywordCache := make(map[string][]string, len(sentences))
	keywordsOf := func(s string) []string {
		if kw, ok := keywordCache[s]; ok {
			return kw
		}
		kw := extractKeywords(g.tagger.Tokens(s), keywordsPerLine)
		keywordCache[s] = kw
		return kw
	}

	var all []string
	for _, s := range sentences {
		all = append(all, keywordsOf(s)...)
	}
	all = dedupFold(all)

	g.rng.Shuffle(len(sentences), func(i, j int) { sentences[i], sentences[j] = sentences[j], sentences[i] })

	out := make([]Question, 0, limit)
	for _, sentence := range sentences {
		if len(out) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sentence = strings.TrimSpace(sentence)
		if len(strings.Fields(sentence)) < minSentenceLen {
			continue
		}
		kw := keywordsOf(sentence)

		for _, t := range types {
			if len(out) >= limit {
				break
			}
			var (
				q  Question
				ok bool
			)
			switch t {
			case quiz.TypeMCQ:
				q, ok = g.mcq(sentence, kw, all)
			case quiz.TypeFillBlank:
				q, ok = fillBlank(sentence, kw)
			case quiz.TypeTrueFalse:
				q, ok = g.trueFalse(sentence, kw, all)
			case quiz.TypeShortAnswer:
				q, ok = shortAnswer(sentence, kw)
			}
			if !ok {
				continue
			}
			if opts.Difficulty != "" && q.Difficulty != opts.Difficulty {
				continue
			}
			out = append(out, q)
		}
	}
	return out, nil
}

func (g *RuleGenerator) mcq(sentence string, kw, all []string) (Question, bool) {
	if len(kw) == 0 {
		return Question{}, false
	}
	answer := kw[0]
	blanked := strings.Replace(sentence, answer, blank, 1)
	if blanked == sentence {
		return Question{}, false
	}
	options := append(g.distractors(answer, all, distractorCount), answer)
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return Question{
		Type:        quiz.TypeMCQ,
		Text:        "Fill in the blank: " + blanked,
		Options:     options,
		Answer:      answer,
		Difficulty:  DifficultyForSentence(sentence),
		Explanation: fmt.Sprintf("The correct answer is '%s' as stated in the source material.", answer),
	}, true
}

func fillBlank(sentence string, kw []string) (Question, bool) {
	if len(kw) == 0 {
		return Question{}, false
	}
	answer := kw[0]
	blanked := strings.Replace(sentence, answer, blank, 1)
	if blanked == sentence {
		return Question{}, false
	}
	return Question{
		Type:        quiz.TypeFillBlank,
		Text:        "Complete the sentence: " + blanked,
		Options:     []string{},
		Answer:      answer,
		Difficulty:  DifficultyForSentence(sentence),
		Explanation: fmt.Sprintf("The missing word is '%s'.", answer),
	}, true
}

func (g *RuleGenerator) trueFalse(sentence string, kw, all []string) (Question, bool) {
	if len(kw) == 0 {
		return Question{}, false
	}
	makeFalse := g.rng.Intn(2) == 0
	if makeFalse && len(all) > 1 {
		original := kw[0]
		pool := make([]string, 0, len(all))
		for _, k := range all {
			if !strings.EqualFold(k, original) {
				pool = append(pool, k)
			}
		}
		if len(pool) == 0 {
			pool = []string{original}
		}
		replacement := pool[g.rng.Intn(len(pool))]
		return Question{
			Type:        quiz.TypeTrueFalse,
			Text:        "True or False: " + strings.Replace(sentence, original, replacement, 1),
			Options:     []string{"True", "False"},
			Answer:      "False",
			Difficulty:  DifficultyForSentence(sentence),
			Explanation: fmt.Sprintf("The statement is false. The original text says '%s' not '%s'.", original, replacement),
		}, true
	}
	return Question{
		Type:        quiz.TypeTrueFalse,
		Text:        "True or False: " + sentence,
		Options:     []string{"True", "False"},
		Answer:      "True",
		Difficulty:  DifficultyForSentence(sentence),
		Explanation: "The statement is true as per the source material.",
	}, true
}

func shortAnswer(sentence string, kw []string) (Question, bool) {
	if len(kw) == 0 {
		return Question{}, false
	}
	answer := kw[0]
	return Question{
		Type:        quiz.TypeShortAnswer,
		Text:        fmt.Sprintf("Based on the following statement, what is the key concept?\n\"%s\"", sentence),
		Options:     []string{},
		Answer:      answer,
		Difficulty:  DifficultyForSentence(sentence),
		Explanation: fmt.Sprintf("The key concept mentioned is '%s'.", answer),
	}, true
}

// distractors prefers other keywords from the text and pads with shuffled
// generic answers.
func (g *RuleGenerator) distractors(answer string, all []string, n int) []string {
	candidates := make([]string, 0, len(all)+len(genericDistractors))
	for _, k := range all {
		if !strings.EqualFold(k, answer) {
			candidates = append(candidates, k)
		}
	}
	generic := append([]string(nil), genericDistractors...)
	g.rng.Shuffle(len(generic), func(i, j int) { generic[i], generic[j] = generic[j], generic[i] })
	candidates = append(candidates, generic...)
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

func isNounTag(tag string) bool {
	switch tag {
	case "NN", "NNS", "NNP", "NNPS":
		return true
	}
	return false
}

// extractKeywords keeps nouns longer than two characters, first spelling
// wins on case-insensitive duplicates.
func extractKeywords(tokens []Token, topN int) []string {
	var words []string
	for _, tok := range tokens {
		if isNounTag(tok.Tag) && len([]rune(tok.Text)) > 2 {
			words = append(words, tok.Text)
		}
	}
	words = dedupFold(words)
	if len(words) > topN {
		words = words[:topN]
	}
	return words
}

func dedupFold(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, w := range in {
		low := strings.ToLower(w)
		if seen[low] {
			continue
		}
		seen[low] = true
		out = append(out, w)
	}
	return out
}
