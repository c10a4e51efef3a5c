package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/config"
	"github.com/abhisek/vocabz/internal/logger"
)

// closeTimeout bounds how long a command waits for mirror writes on exit.
const closeTimeout = 10 * time.Second

var rootCmd = &cobra.Command{
	Use:   "vocabz",
	Short: "AI vocabulary trainer",
	Long: `vocabz keeps a personal vocabulary ledger, generates definitions, quizzes,
writing exercises and stories with an LLM, and mirrors your progress to a
Postgres table.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides VOCABZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides VOCABZ_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(writingCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(essayCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with the persistent flags applied.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadPath(path)
	if err != nil {
		return config.Config{}, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// withApp opens the runtime, runs fn and closes it, waiting for background
// mirror writes to finish.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.New(logger.WithOutput(cmd.ErrOrStderr()), logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	logger.SetDefault(log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.NewContext(ctx, log)

	dbPath, _ := cmd.Flags().GetString("db")
	a, err := app.Open(ctx, app.Options{Config: cfg, DBPath: dbPath, Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			log.Warn("close: %v", err)
		}
	}()

	return fn(ctx, a)
}

// textInput returns the joined args, the contents of --file, or stdin.
func textInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	data, err := readAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(data)
	if text == "" {
		return "", fmt.Errorf("no text given: pass it as arguments, with --file or on stdin")
	}
	return text, nil
}
