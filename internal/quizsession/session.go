// Package quizsession tracks one player's progress through a generated quiz.
// A Session is owned by a single goroutine and does no locking.
package quizsession

import (
	"errors"
	"time"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
)

var (
	ErrNoQuestions = errors.New("no questions")
	ErrUnanswered  = errors.New("answer the current question first")
)

type entry struct {
	answer   string
	answered bool
	seconds  float64
}

type Session struct {
	attemptID uint
	questions []apitypes.Question
	entries   []entry
	shownAt   []time.Time
	idx       int
	now       func() time.Time
}

// New starts the clock for every question. A nil now uses time.Now.
func New(attemptID uint, questions []apitypes.Question, now func() time.Time) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if now == nil {
		now = time.Now
	}
	start := now()
	shown := make([]time.Time, len(questions))
	for i := range shown {
		shown[i] = start
	}
	return &Session{
		attemptID: attemptID,
		questions: append([]apitypes.Question(nil), questions...),
		entries:   make([]entry, len(questions)),
		shownAt:   shown,
		now:       now,
	}, nil
}

func (s *Session) AttemptID() uint { return s.attemptID }
func (s *Session) Index() int      { return s.idx }
func (s *Session) Total() int      { return len(s.questions) }
func (s *Session) IsLast() bool    { return s.idx == len(s.questions)-1 }

func (s *Session) Current() apitypes.Question { return s.questions[s.idx] }

// Progress is the percentage of the quiz reached, counting the current
// question.
func (s *Session) Progress() float64 {
	return float64(s.idx+1) / float64(len(s.questions)) * 100
}

// Answer records text for the current question along with the seconds
// since it was shown. Answering again overwrites both.
func (s *Session) Answer(text string) {
	elapsed := s.now().Sub(s.shownAt[s.idx]).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	s.entries[s.idx] = entry{answer: text, answered: true, seconds: elapsed}
}

// CurrentAnswer reports the recorded answer for the current question.
func (s *Session) CurrentAnswer() (string, bool) {
	e := s.entries[s.idx]
	return e.answer, e.answered
}

// Next advances when the current question is answered. On the last
// question it is a no-op.
func (s *Session) Next() error {
	if !s.entries[s.idx].answered {
		return ErrUnanswered
	}
	if s.IsLast() {
		return nil
	}
	s.idx++
	s.shownAt[s.idx] = s.now()
	return nil
}

// Prev moves back one question; on the first question it is a no-op.
func (s *Session) Prev() {
	if s.idx > 0 {
		s.idx--
	}
}

// CanFinish reports whether the player is on the last question and has
// answered it.
func (s *Session) CanFinish() bool {
	return s.IsLast() && s.entries[s.idx].answered
}

// Submission lists every question in order; unanswered ones carry an empty
// answer and zero time.
func (s *Session) Submission() apitypes.SubmitQuizRequest {
	answers := make([]apitypes.SubmitAnswer, 0, len(s.questions))
	for i, q := range s.questions {
		e := s.entries[i]
		answers = append(answers, apitypes.SubmitAnswer{
			QuestionID:       q.ID,
			Answer:           e.answer,
			TimeSpentSeconds: e.seconds,
		})
	}
	return apitypes.SubmitQuizRequest{AttemptID: s.attemptID, Answers: answers}
}
