package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/views"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show LLM spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			model := a.Store.ActiveModel()
			cost, known := a.Config.Prices().Lookup(model)

			outf(cmd, "Total spend: $%.4f\n", views.UsageTotal(a.Store.Snapshot()))
			outf(cmd, "Model:       %s\n", model)
			outf(cmd, "Price:       $%.2f in / $%.2f out per 1M tokens\n", cost.InputPerMTok, cost.OutputPerMTok)
			if !known {
				hint(cmd, "Model not in the price table; using the default rate.")
			}
			return nil
		})
	},
}
