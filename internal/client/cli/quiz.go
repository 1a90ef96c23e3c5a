package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crambrain/cram/internal/client/api"
	"github.com/crambrain/cram/internal/client/models"
)

func newQuizCmd(app *App) *cobra.Command {
	var docID, topic string
	var n int

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Generate a quiz from your documents and take it in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuiz(app, cmd, api.QuizRequest{DocID: docID, Topic: topic, N: n})
		},
	}
	cmd.Flags().StringVar(&docID, "doc", "", "restrict the quiz to one document id")
	cmd.Flags().StringVar(&topic, "topic", "", "narrow the quiz to a topic")
	cmd.Flags().IntVarP(&n, "questions", "n", 5, "number of questions (1-20)")
	return cmd
}

func runQuiz(app *App, cmd *cobra.Command, req api.QuizRequest) error {
	res, err := app.API.GenerateQuiz(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to generate quiz: %w", err)
	}
	if len(res.Questions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No questions came back. Upload a document first?")
		return nil
	}

	if isTTY() {
		return takeQuiz(cmd.OutOrStdout(), cmd.InOrStdin(), res.Questions)
	}
	printQuizSheet(cmd.OutOrStdout(), res.Questions)
	return nil
}

// takeQuiz runs the quiz interactively: one question at a time, graded on
// the spot, score at the end.
func takeQuiz(w io.Writer, in io.Reader, questions []models.Question) error {
	scanner := bufio.NewScanner(in)
	correct := 0

	for i := range questions {
		q := &questions[i]
		printQuestion(w, i+1, q)

		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			break
		}
		response := scanner.Text()

		if q.Grade(response) {
			correct++
			fmt.Fprintln(w, "Correct!")
		} else {
			fmt.Fprintf(w, "Not quite. The answer is: %s\n", answerText(q.Detail))
		}
		if q.Explanation != "" {
			fmt.Fprintln(w, q.Explanation)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Score: %d/%d\n", correct, len(questions))
	return scanner.Err()
}

// printQuizSheet prints questions with answers inline for piped output.
func printQuizSheet(w io.Writer, questions []models.Question) {
	for i := range questions {
		q := &questions[i]
		printQuestion(w, i+1, q)
		fmt.Fprintf(w, "Answer: %s\n\n", answerText(q.Detail))
	}
}

func printQuestion(w io.Writer, num int, q *models.Question) {
	fmt.Fprintf(w, "%d. %s", num, q.Prompt)
	if q.Page > 0 {
		fmt.Fprintf(w, " [p.%d]", q.Page)
	}
	if q.Difficulty != "" {
		fmt.Fprintf(w, " (%s)", q.Difficulty)
	}
	fmt.Fprintln(w)

	if mc, ok := q.Detail.(models.MultipleChoice); ok {
		for i, opt := range mc.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'a'+i, opt)
		}
	}
}

// answerText renders the correct answer per question kind. The switch is
// exhaustive over the closed detail union.
func answerText(d models.QuestionDetail) string {
	switch v := d.(type) {
	case models.MultipleChoice:
		return v.Answer
	case models.ShortAnswer:
		return v.Answer
	case models.Cloze:
		return fmt.Sprintf("%s (fill the blank)", v.Answer)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", d))
	}
}
