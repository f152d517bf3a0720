// Package chunker splits ingested text into the sentence groups stored as
// content chunks.
package chunker

import (
	"strings"
	"unicode"
)

// DefaultSentencesPerChunk is the grouping used for stored content.
const DefaultSentencesPerChunk = 5

// SplitSentences breaks text after '.', '!' or '?' whenever that mark is
// followed by whitespace. The whitespace run is consumed; every other
// character, including inner newlines, stays in its sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{""}
	}

	runes := []rune(text)
	var (
		out   []string
		start int
	)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		start = j
		i = j - 1
	}
	out = append(out, string(runes[start:]))
	return out
}

// Chunk groups sentences n at a time, joined by a single space. Blank groups
// are dropped. n <= 0 falls back to DefaultSentencesPerChunk.
func Chunk(text string, n int) []string {
	if n <= 0 {
		n = DefaultSentencesPerChunk
	}
	sentences := SplitSentences(text)
	chunks := make([]string, 0, len(sentences)/n+1)
	for i := 0; i < len(sentences); i += n {
		end := i + n
		if end > len(sentences) {
			end = len(sentences)
		}
		chunk := strings.TrimSpace(strings.Join(sentences[i:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
