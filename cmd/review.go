package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/spacedrep"
	"github.com/abhisek/vocabz/internal/ui/theme"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show words due for review",
	Long: `Show which practiced words are due for review. Intervals grow from 1 to 60
days with each correct answer; words with weak mastery start over.
Use --select to make the due words the active set for quiz and writing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		selectDue, _ := cmd.Flags().GetBool("select")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			now := time.Now()
			plan := spacedrep.Schedule(a.Store.Snapshot(), now)

			if len(plan.Due) == 0 {
				outln(cmd, theme.Correct.Render("Nothing due."))
			} else {
				t := theme.Table("Word", "Mastery", "Status", "Overdue")
				for i, rs := range plan.Due {
					if limit > 0 && i >= limit {
						break
					}
					t.Row(rs.Word,
						theme.Mastery(rs.Mastery).Render(fmt.Sprintf("%d%%", rs.Mastery)),
						string(rs.Status(now)),
						fmt.Sprintf("%.0fd", rs.OverdueDays(now)))
				}
				outln(cmd, t.String())
			}
			if len(plan.Upcoming) > 0 {
				next := plan.Upcoming[0]
				hint(cmd, "Next: %s in %d day(s). %d word(s) scheduled.", next.Word, next.DaysUntilReview(now), len(plan.Upcoming))
			}
			if len(plan.New) > 0 {
				hint(cmd, "%d word(s) never practiced.", len(plan.New))
			}

			if selectDue && len(plan.Due) > 0 {
				words := plan.Words(limit)
				a.Store.ReplaceActive(words)
				outf(cmd, "Selected %d word(s): %s\n", len(words), strings.Join(words, ", "))
			}
			return nil
		})
	},
}

func init() {
	reviewCmd.Flags().IntP("limit", "n", 10, "Maximum number of due words to show or select")
	reviewCmd.Flags().Bool("select", false, "Make the due words the active set")
}
