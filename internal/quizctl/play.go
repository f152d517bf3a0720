package quizctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yungbote/adaptivequiz-backend/internal/apitypes"
	"github.com/yungbote/adaptivequiz-backend/internal/quizsession"
)

const playHelp = "Type an answer (or an option number) and press enter. " +
	"\"<\" goes back, an empty line keeps the current answer, \":q\" quits."

var errQuit = errors.New("quiz abandoned")

func (r *runner) play(ctx context.Context, args []string) error {
	fs := newFlagSet("play", r.errOut)
	var req apitypes.GenerateQuizRequest
	var contentID uint
	var num int
	var types string
	fs.UintVar(&contentID, "content", 0, "content id to quiz on")
	fs.IntVar(&num, "n", 10, "number of questions")
	fs.StringVar(&req.Difficulty, "difficulty", "auto", "easy, medium, hard, auto or mixed")
	fs.StringVar(&types, "types", "", "comma separated: mcq, fill_blank, true_false, short_answer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if contentID == 0 {
		return errors.New("play needs -content ID")
	}
	req.ContentID = contentID
	req.NumQuestions = &num
	req.Types = splitList(types)

	gen, err := r.api.GenerateQuiz(ctx, req)
	if err != nil {
		return err
	}
	if len(gen.Questions) == 0 {
		msg := gen.Msg
		if msg == "" {
			msg = "No questions"
		}
		fmt.Fprintln(r.out, msg)
		return nil
	}

	sess, err := quizsession.New(gen.AttemptID, gen.Questions, nil)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Quiz #%d: %d questions at %s difficulty.\n%s\n", gen.AttemptID, sess.Total(), gen.Difficulty, playHelp)

	if err := r.runSession(sess); err != nil {
		return err
	}
	res, err := r.api.SubmitQuiz(ctx, sess.Submission())
	if err != nil {
		return err
	}
	r.printResults(gen.Questions, res)
	return nil
}

func (r *runner) runSession(sess *quizsession.Session) error {
	for {
		q := sess.Current()
		fmt.Fprintf(r.out, "\nQuestion %d of %d [%s] %.0f%%\n%s\n", sess.Index()+1, sess.Total(), q.Difficulty, sess.Progress(), q.QuestionText)
		for i, opt := range q.Options {
			fmt.Fprintf(r.out, "  %d) %s\n", i+1, opt)
		}
		if ans, ok := sess.CurrentAnswer(); ok {
			fmt.Fprintf(r.out, "  (current answer: %s)\n", ans)
		}

		line, err := r.readLine("> ")
		if errors.Is(err, io.EOF) {
			return errQuit
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)

		switch line {
		case ":q":
			return errQuit
		case "<":
			sess.Prev()
			continue
		case "":
			if _, ok := sess.CurrentAnswer(); !ok {
				fmt.Fprintln(r.out, quizsession.ErrUnanswered.Error())
				continue
			}
		default:
			sess.Answer(resolveOption(q, line))
		}

		if sess.CanFinish() {
			return nil
		}
		if err := sess.Next(); err != nil {
			fmt.Fprintln(r.out, err.Error())
		}
	}
}

// resolveOption maps "2" to the second option for choice questions.
func resolveOption(q apitypes.Question, input string) string {
	if len(q.Options) == 0 {
		return input
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < 1 || n > len(q.Options) {
		return input
	}
	return q.Options[n-1]
}

func (r *runner) printResults(questions []apitypes.Question, res *apitypes.SubmitQuizResponse) {
	a := res.Attempt
	fmt.Fprintf(r.out, "\nScore: %d/%d (%.1f%%)\nTime: %.1fs\nRecommended next difficulty: %s\n",
		a.CorrectCount, a.TotalQuestions, a.ScorePercent, a.TimeTakenSeconds, res.RecommendedDifficulty)

	text := make(map[uint]string, len(questions))
	for _, q := range questions {
		text[q.ID] = q.QuestionText
	}
	fmt.Fprintln(r.out, "\nReview")
	for i, rr := range res.Results {
		mark := "x"
		if rr.IsCorrect {
			mark = "ok"
		}
		answer := rr.YourAnswer
		if answer == "" {
			answer = "(blank)"
		}
		fmt.Fprintf(r.out, "[%s] Q%d (#%d): %s\n    Your answer: %s\n    Correct: %s\n",
			mark, i+1, rr.QuestionID, text[rr.QuestionID], answer, rr.CorrectAnswer)
		if rr.Explanation != "" {
			fmt.Fprintf(r.out, "    %s\n", rr.Explanation)
		}
	}
	fmt.Fprintln(r.out, "\nFlag a bad question with `quizctl flag <id>`.")
}
