package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/generate"
	"github.com/abhisek/vocabz/internal/ui/theme"
)

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Write a short story using the selected words",
	RunE: func(cmd *cobra.Command, args []string) error {
		last, _ := cmd.Flags().GetBool("last")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if last {
				story := a.Store.Snapshot().Story
				if story == "" {
					hint(cmd, "No story yet; run `vocabz story`.")
					return nil
				}
				outln(cmd, theme.Card.Render(story))
				return nil
			}
			story, err := a.Story(ctx)
			if err != nil {
				return err
			}
			outln(cmd, theme.Card.Render(story))
			return nil
		})
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <topic>",
	Short: "Suggest new words for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		add, _ := cmd.Flags().GetBool("add")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			words, err := a.Suggest(ctx, strings.Join(args, " "), count)
			if err != nil {
				return err
			}
			if len(words) == 0 {
				hint(cmd, "No new words suggested.")
				return nil
			}
			for _, w := range words {
				outln(cmd, "  "+w)
			}
			if !add {
				return nil
			}
			added := a.AddWords(words)
			outf(cmd, "Saved %d word(s).\n", len(added))
			return enrich(ctx, cmd, a)
		})
	},
}

var essayCmd = &cobra.Command{
	Use:   "essay",
	Short: "IELTS writing feedback",
}

var essayScoreCmd = &cobra.Command{
	Use:   "score [text]",
	Short: "Band-score an essay from args, --file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskFlag(cmd)
		if err != nil {
			return err
		}
		prompt, _ := cmd.Flags().GetString("prompt")
		text, err := textInput(cmd, args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			gen, err := a.Generator(ctx)
			if err != nil {
				return err
			}
			report, _, err := gen.ScoreEssay(ctx, text, task, prompt)
			if err != nil {
				return err
			}
			heading(cmd, fmt.Sprintf("Overall band %.1f", report.OverallBand))
			t := theme.Table("Criterion", "Band", "Comment")
			for _, c := range report.Criteria {
				t.Row(c.Name, fmt.Sprintf("%.1f", c.Band), truncate(c.Comment, 60))
			}
			outln(cmd, t.String())
			bullets(cmd, "Strengths", report.Strengths)
			bullets(cmd, "Improvements", report.Improvements)
			return nil
		})
	},
}

var essayModelCmd = &cobra.Command{
	Use:   "model <topic>",
	Short: "Write a model essay for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskFlag(cmd)
		if err != nil {
			return err
		}
		band, _ := cmd.Flags().GetFloat64("band")
		if band < 4 || band > 9 {
			return fmt.Errorf("--band must be between 4 and 9, got %.1f", band)
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			gen, err := a.Generator(ctx)
			if err != nil {
				return err
			}
			essay, _, err := gen.ModelEssay(ctx, strings.Join(args, " "), task, band)
			if err != nil {
				return err
			}
			outln(cmd, theme.Card.Render(essay.Essay))
			if essay.Analysis != "" {
				heading(cmd, "Why it works")
				outln(cmd, essay.Analysis)
			}
			return nil
		})
	},
}

var grammarCmd = &cobra.Command{
	Use:   "grammar [text]",
	Short: "Check grammar of text from args, --file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textInput(cmd, args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			gen, err := a.Generator(ctx)
			if err != nil {
				return err
			}
			issues, _, err := gen.CheckGrammar(ctx, text)
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				outln(cmd, theme.Correct.Render("No issues found."))
				return nil
			}
			for i, is := range issues {
				outf(cmd, "%d. %s → %s  %s\n", i+1,
					theme.Incorrect.Render(is.Original),
					theme.Correct.Render(is.Replacement),
					theme.Subtitle.Render("["+is.Category+"]"))
				if is.Explanation != "" {
					hint(cmd, "   %s", is.Explanation)
				}
			}
			return nil
		})
	},
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [text]",
	Short: "Rewrite text in another style",
	RunE: func(cmd *cobra.Command, args []string) error {
		style, _ := cmd.Flags().GetString("style")
		text, err := textInput(cmd, args)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			gen, err := a.Generator(ctx)
			if err != nil {
				return err
			}
			out, _, err := gen.Rewrite(ctx, text, style)
			if err != nil {
				return err
			}
			outln(cmd, out)
			return nil
		})
	},
}

func taskFlag(cmd *cobra.Command) (generate.TaskType, error) {
	v, _ := cmd.Flags().GetString("task")
	return generate.ParseTaskType(v)
}

func bullets(cmd *cobra.Command, title string, items []string) {
	if len(items) == 0 {
		return
	}
	heading(cmd, title)
	for _, it := range items {
		outln(cmd, "  • "+it)
	}
}

func init() {
	storyCmd.Flags().Bool("last", false, "Show the last generated story instead of writing a new one")

	suggestCmd.Flags().IntP("count", "n", 10, "Number of words to suggest")
	suggestCmd.Flags().Bool("add", false, "Save the suggested words")

	essayScoreCmd.Flags().String("task", "task2", "IELTS task: task1 or task2")
	essayScoreCmd.Flags().String("prompt", "", "The essay question")
	essayScoreCmd.Flags().String("file", "", "Read the essay from a file")
	essayModelCmd.Flags().String("task", "task2", "IELTS task: task1 or task2")
	essayModelCmd.Flags().Float64("band", 7, "Target band")
	essayCmd.AddCommand(essayScoreCmd, essayModelCmd)

	grammarCmd.Flags().String("file", "", "Read the text from a file")

	rewriteCmd.Flags().String("style", "formal", "Target style, e.g. formal, academic, casual")
	rewriteCmd.Flags().String("file", "", "Read the text from a file")
}
