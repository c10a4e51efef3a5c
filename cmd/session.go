package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/generate"
	"github.com/abhisek/vocabz/internal/progress"
	"github.com/abhisek/vocabz/internal/ui/theme"
	"github.com/abhisek/vocabz/internal/vocab"
)

// practice describes one session kind for the shared subcommands.
type practice struct {
	kind     progress.Kind
	noun     string
	generate func(ctx context.Context, cmd *cobra.Command, a *app.App) (int, error)
	answer   func(a *app.App, text string) (app.Outcome, error)
	show     func(cmd *cobra.Command, st progress.State)
}

var quizCmd = newPracticeCmd("quiz", "Multiple-choice practice on the selected words", practice{
	kind: progress.KindQuiz,
	noun: "question",
	generate: func(ctx context.Context, cmd *cobra.Command, a *app.App) (int, error) {
		typ, _ := cmd.Flags().GetString("type")
		qt, err := generate.ParseQuestionType(typ)
		if err != nil {
			return 0, err
		}
		qs, err := a.NewQuiz(ctx, qt)
		return len(qs), err
	},
	answer: (*app.App).AnswerQuiz,
	show:   showQuiz,
})

var writingCmd = newPracticeCmd("writing", "Translate Vietnamese sentences using the selected words", practice{
	kind: progress.KindWriting,
	noun: "exercise",
	generate: func(ctx context.Context, cmd *cobra.Command, a *app.App) (int, error) {
		exs, err := a.NewWriting(ctx)
		return len(exs), err
	},
	answer: (*app.App).AnswerWriting,
	show:   showWriting,
})

func newPracticeCmd(use, short string, p practice) *cobra.Command {
	root := &cobra.Command{Use: use, Short: short}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: fmt.Sprintf("Generate a new set of %ss", p.noun),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				n, err := p.generate(ctx, cmd, a)
				if err != nil {
					return err
				}
				outf(cmd, "Generated %d %s(s).\n\n", n, p.noun)
				p.show(cmd, a.Store.Snapshot())
				return nil
			})
		},
	}
	if p.kind == progress.KindQuiz {
		newCmd.Flags().String("type", string(generate.QuestionMeaning), "Question type: meaning, fill-blank or synonym")
	}

	answerCmd := &cobra.Command{
		Use:   "answer <text>",
		Short: fmt.Sprintf("Answer the current %s", p.noun),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				out, err := p.answer(a, strings.Join(args, " "))
				if err != nil {
					return err
				}
				outln(cmd, verdict(out.Correct))
				if !out.Correct || p.kind == progress.KindWriting {
					outf(cmd, "Expected: %s\n", out.Expected)
				}
				if out.Record != nil {
					outf(cmd, "%s mastery: %s\n", out.Record.Word,
						theme.Mastery(out.Record.Mastery).Render(fmt.Sprintf("%d%%", out.Record.Mastery)))
				}
				outln(cmd)
				if out.Finished {
					summary(cmd, a.Store.Snapshot(), p.kind)
					return nil
				}
				p.show(cmd, a.Store.Snapshot())
				return nil
			})
		},
	}

	move := func(use, short string, delta int) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, func(ctx context.Context, a *app.App) error {
					a.Move(p.kind, delta)
					p.show(cmd, a.Store.Snapshot())
					return nil
				})
			},
		}
	}

	retryCmd := &cobra.Command{
		Use:   "retry",
		Short: "Clear answers and start the same set again",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.Store.ResetProgress(p.kind)
				p.show(cmd, a.Store.Snapshot())
				return nil
			})
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: fmt.Sprintf("Discard the current %ss and answers", p.noun),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.Store.ResetSession(p.kind)
				outf(cmd, "Cleared the %s session.\n", p.kind)
				return nil
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: fmt.Sprintf("Show the current %s", p.noun),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				p.show(cmd, a.Store.Snapshot())
				return nil
			})
		},
	}

	root.AddCommand(newCmd, answerCmd,
		move("next", fmt.Sprintf("Go to the next %s", p.noun), 1),
		move("prev", fmt.Sprintf("Go to the previous %s", p.noun), -1),
		retryCmd, resetCmd, showCmd)
	return root
}

func showQuiz(cmd *cobra.Command, st progress.State) {
	q, ok := st.Quiz.Current()
	if !ok {
		hint(cmd, "No quiz yet; run `vocabz quiz new`.")
		return
	}
	position(cmd, "Question", st.Quiz.Cursor, st.Quiz.Len())
	outln(cmd, theme.Body.Render(q.Question))
	for i, opt := range q.Options {
		outf(cmd, "  %c) %s\n", 'A'+i, opt)
	}
	previous(cmd, st.Quiz.Answers, st.Quiz.Cursor)
}

func showWriting(cmd *cobra.Command, st progress.State) {
	ex, ok := st.Writing.Current()
	if !ok {
		hint(cmd, "No exercises yet; run `vocabz writing new`.")
		return
	}
	position(cmd, "Exercise", st.Writing.Cursor, st.Writing.Len())
	outln(cmd, theme.Body.Render(ex.VietnameseTranslation))
	hint(cmd, "Write the English sentence using %q.", ex.Word)
	previous(cmd, st.Writing.Answers, st.Writing.Cursor)
}

func position(cmd *cobra.Command, label string, cursor, n int) {
	outln(cmd, theme.Subtitle.Render(fmt.Sprintf("%s %d/%d", label, cursor+1, n)))
}

func previous(cmd *cobra.Command, answers map[int]vocab.Answer, pos int) {
	if a, ok := answers[pos]; ok {
		outf(cmd, "Your answer: %s (%s)\n", a.Submitted, verdict(a.Correct))
	}
}

func summary(cmd *cobra.Command, st progress.State, kind progress.Kind) {
	answered, correct, total := 0, 0, 0
	if kind == progress.KindWriting {
		answered, correct = st.Writing.Score()
		total = st.Writing.Len()
	} else {
		answered, correct = st.Quiz.Score()
		total = st.Quiz.Len()
	}
	heading(cmd, "Session complete")
	outf(cmd, "%d/%d correct, %d of %d answered.\n", correct, answered, answered, total)
	pct := 0
	if total > 0 {
		pct = 100 * correct / total
	}
	outln(cmd, theme.Bar(pct, 30))
	hint(cmd, "`vocabz %s retry` repeats this set; `vocabz %s new` generates another.", kind, kind)
}
