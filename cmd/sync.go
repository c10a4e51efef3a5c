package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/autosync"
	"github.com/abhisek/vocabz/internal/progress"
	"github.com/abhisek/vocabz/internal/remote"
	"github.com/abhisek/vocabz/internal/ui/theme"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace local words and progress with the remote copy",
	Long: `Pull the full vocabulary table from the remote mirror. The remote copy wins:
local records and the ledger are overwritten and selected words without a
record are dropped. When the table does not exist, the SQL to create it is
printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, _ := cmd.Flags().GetBool("setup")
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			_, table := a.RemoteTarget(a.Store.Snapshot().Settings)
			if setup {
				outln(cmd, remote.SetupSQLFor(table))
				return nil
			}
			if !a.HasRemote() {
				return errors.New("no remote configured; set VOCABZ_REMOTE_DSN or run `vocabz config set remote-dsn <dsn>`")
			}

			n, err := a.Store.SyncFromRemote(ctx)
			if errors.Is(err, progress.ErrSchemaMissing) {
				printSetup(cmd, table)
				return err
			}
			if err != nil {
				return err
			}
			outf(cmd, "Synced %d word(s) from the remote.\n", n)
			return nil
		})
	},
}

func printSetup(cmd *cobra.Command, table string) {
	outln(cmd, theme.Warning.Render(fmt.Sprintf("The remote table %q does not exist. Create it with:", table)))
	outln(cmd)
	outln(cmd, remote.SetupSQLFor(table))
	outln(cmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep pulling the remote copy on an interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if !a.HasRemote() {
				return errors.New("no remote configured")
			}
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval == 0 {
				interval = a.Config.Sync.Interval
			}

			runner := autosync.New(a.Store, interval, a.Log)
			runner.OnResult = func(r autosync.Result) {
				if r.Err == nil {
					outf(cmd, "%s  synced %d word(s)\n", r.At.Local().Format(time.TimeOnly), r.Records)
				}
			}
			if err := runner.Start(ctx); err != nil {
				return fmt.Errorf("start auto-sync: %w", err)
			}

			select {
			case <-ctx.Done():
				runner.Stop()
				return nil
			case <-runner.Done():
			}
			err := runner.Err()
			if errors.Is(err, progress.ErrSchemaMissing) {
				_, table := a.RemoteTarget(a.Store.Snapshot().Settings)
				printSetup(cmd, table)
			}
			return err
		})
	},
}

func init() {
	syncCmd.Flags().Bool("setup", false, "Only print the SQL that creates the remote table")
	watchCmd.Flags().Duration("interval", 0, "Sync interval (default: sync.interval from config)")
}
