package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/ui/theme"
)

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	return string(data), err
}

// outln writes to the command's stdout, dropping colors when it is not a
// terminal.
func outln(cmd *cobra.Command, v ...any) {
	_, _ = lipgloss.Fprintln(cmd.OutOrStdout(), v...)
}

func outf(cmd *cobra.Command, format string, v ...any) {
	_, _ = lipgloss.Fprintf(cmd.OutOrStdout(), format, v...)
}

func heading(cmd *cobra.Command, title string) {
	outln(cmd, theme.Title.Render(title))
}

func hint(cmd *cobra.Command, format string, v ...any) {
	outln(cmd, theme.Hint.Render(fmt.Sprintf(format, v...)))
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) > n-1 {
		r = r[:n-1]
	}
	return string(r) + "…"
}

func verdict(correct bool) string {
	if correct {
		return theme.Correct.Render("✓ correct")
	}
	return theme.Incorrect.Render("✗ incorrect")
}
