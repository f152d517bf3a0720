package quizgen

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

type Token struct {
	Text string
	Tag  string
}

// Tagger segments text into sentences and assigns Penn Treebank tags.
type Tagger interface {
	Sentences(text string) []string
	Tokens(sentence string) []Token
}

type proseTagger struct{}

// NewProseTagger returns a Tagger backed by prose's segmenter and
// perceptron tagger.
func NewProseTagger() Tagger { return proseTagger{} }

func (proseTagger) Sentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (proseTagger) Tokens(sentence string) []Token {
	doc, err := prose.NewDocument(sentence,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}
	toks := doc.Tokens()
	out := make([]Token, 0, len(toks))
	for _, tok := range toks {
		out = append(out, Token{Text: tok.Text, Tag: tok.Tag})
	}
	return out
}
