package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/importer"
	"github.com/abhisek/vocabz/internal/ui/theme"
	"github.com/abhisek/vocabz/internal/views"
	"github.com/abhisek/vocabz/internal/vocab"
)

var addCmd = &cobra.Command{
	Use:   "add [words...]",
	Short: "Save words and generate their definitions",
	Long: `Save words to the ledger and generate definitions for every word that has
none yet. Words may be separated by spaces, commas, semicolons or newlines.
With no arguments, only pending words are enriched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noGenerate, _ := cmd.Flags().GetBool("no-generate")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			added := a.AddWords(vocab.ParseWords(strings.Join(args, ",")))
			if len(added) > 0 {
				outf(cmd, "Saved %d new word(s): %s\n", len(added), strings.Join(added, ", "))
			} else if len(args) > 0 {
				hint(cmd, "All words were already saved.")
			}
			if noGenerate {
				return nil
			}
			return enrich(ctx, cmd, a)
		})
	},
}

func enrich(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	pending := a.Pending()
	if len(pending) == 0 {
		return nil
	}
	outf(cmd, "Generating definitions for %d word(s)...\n", len(pending))
	n, err := a.Enrich(ctx)
	if n > 0 {
		outf(cmd, "Enriched %d word(s).\n", n)
	}
	if err != nil {
		hint(cmd, "%d word(s) still pending; run `vocabz add` to retry.", len(a.Pending()))
		return fmt.Errorf("generate definitions: %w", err)
	}
	return nil
}

var removeCmd = &cobra.Command{
	Use:     "remove <word>...",
	Aliases: []string{"rm"},
	Short:   "Delete words locally and from the mirror",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			for _, w := range args {
				a.Store.RemoveWord(w)
				outf(cmd, "Removed %s\n", w)
			}
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved words",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		sortFlag, _ := cmd.Flags().GetString("sort")
		mode, err := views.ParseSortMode(sortFlag)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			entries := views.MergedList(a.Store.Snapshot(), query, mode)
			if len(entries) == 0 {
				hint(cmd, "No words found.")
				return nil
			}

			t := theme.Table("Word", "Definition", "Mastery", "Tries")
			for _, e := range entries {
				mastery, tries := "-", "-"
				if !e.Pending {
					mastery = theme.Mastery(e.Mastery).Render(fmt.Sprintf("%3d%%", e.Mastery)) + " " + theme.Bar(e.Mastery, 10)
					tries = fmt.Sprintf("%d/%d", e.Correct, e.Attempts)
				}
				def := truncate(e.Definition, 48)
				if e.Pending {
					def = theme.Hint.Render(def)
				}
				t.Row(e.Word, def, mastery, tries)
			}
			outln(cmd, t.String())
			hint(cmd, "%d word(s)", len(entries))
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mastery statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			st := a.Store.Snapshot()
			agg := views.MasteryAggregates(st)
			total := len(views.DetailedList(st))

			heading(cmd, "Progress")
			outf(cmd, "Saved words:  %d (%d with definitions)\n", len(st.Ledger), total)
			outf(cmd, "Mastered:     %s\n", theme.Correct.Render(strconv.Itoa(len(agg.Mastered))))
			outf(cmd, "Learning:     %s\n", theme.Warning.Render(strconv.Itoa(len(agg.Learning))))
			outf(cmd, "New:          %d\n", len(agg.New))
			if total > 0 {
				outf(cmd, "              %s\n", theme.Bar(100*len(agg.Mastered)/total, 30))
			}

			if len(agg.NeedsPractice) > 0 {
				outln(cmd)
				heading(cmd, "Needs practice")
				for _, r := range agg.NeedsPractice {
					outf(cmd, "  %-20s %s\n", r.Word, theme.Mastery(r.Mastery).Render(fmt.Sprintf("%d%%", r.Mastery)))
				}
			}
			outln(cmd)
			outf(cmd, "Spend:        $%.4f\n", views.UsageTotal(st))
			return nil
		})
	},
}

var selectCmd = &cobra.Command{
	Use:   "select [words...]",
	Short: "Choose the words used by quiz, writing and story",
	Long: `Replace the active word set. Words may be separated by spaces, commas,
semicolons or newlines and need not be saved first. With no arguments the
current selection is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearSel, _ := cmd.Flags().GetBool("clear")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			switch {
			case clearSel:
				a.Store.ReplaceActive(nil)
				outln(cmd, "Selection cleared.")
			case len(args) > 0:
				words := a.Select(strings.Join(args, ","))
				outf(cmd, "Selected %d word(s): %s\n", len(words), strings.Join(words, ", "))
			default:
				active := a.Store.Snapshot().Active
				if len(active) == 0 {
					hint(cmd, "No words selected.")
					return nil
				}
				outln(cmd, strings.Join(active, ", "))
			}
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import words from the first column of a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		column, _ := cmd.Flags().GetInt("column")
		noGenerate, _ := cmd.Flags().GetBool("no-generate")
		if column < 1 {
			return fmt.Errorf("--column must be 1 or greater")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			res, added, err := a.Import(args[0], importer.Config{Sheet: sheet, Column: column - 1})
			if err != nil {
				return err
			}
			outf(cmd, "Read %d row(s) from sheet %q: %d new word(s), %d skipped.\n",
				res.Rows, res.Sheet, len(added), res.Skipped+len(res.Words)-len(added))
			if noGenerate {
				return nil
			}
			return enrich(ctx, cmd, a)
		})
	},
}

func init() {
	addCmd.Flags().Bool("no-generate", false, "Only save the words, do not generate definitions")

	listCmd.Flags().StringP("query", "q", "", "Filter by word or definition")
	listCmd.Flags().StringP("sort", "s", "newest", "Sort: newest, oldest, alpha-asc or alpha-desc")

	selectCmd.Flags().Bool("clear", false, "Clear the selection")

	importCmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	importCmd.Flags().Int("column", 1, "Column holding the words, 1 for A")
	importCmd.Flags().Bool("no-generate", false, "Only save the words, do not generate definitions")
}
