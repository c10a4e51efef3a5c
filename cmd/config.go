package cmd

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/vocabz/internal/app"
	"github.com/abhisek/vocabz/internal/progress"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
}

// settingKeys maps `config set` keys to the persisted settings they change.
var settingKeys = map[string]func(s *progress.Settings, v string){
	"provider":     func(s *progress.Settings, v string) { s.Provider = v },
	"model":        func(s *progress.Settings, v string) { s.Model = v },
	"api-key":      func(s *progress.Settings, v string) { s.APIKey = v },
	"remote-dsn":   func(s *progress.Settings, v string) { s.RemoteDSN = v },
	"remote-table": func(s *progress.Settings, v string) { s.RemoteTable = v },
}

func settingNames() string {
	names := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			cfg := a.Config
			cfg.Remote.DSN = redactDSN(cfg.Remote.DSN)
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if cfg.Path != "" {
				hint(cmd, "# from %s", cfg.Path)
			}
			outln(cmd, strings.TrimRight(string(data), "\n"))

			s := a.Store.Snapshot().Settings
			lc := a.ProviderConfig()
			heading(cmd, "Saved settings")
			outf(cmd, "provider:     %s\n", orDefault(s.Provider, lc.Provider))
			outf(cmd, "model:        %s\n", orDefault(s.Model, lc.ActiveModel()))
			outf(cmd, "api-key:      %s\n", orDefault(redactKey(s.APIKey), "(from environment)"))
			outf(cmd, "remote-dsn:   %s\n", orDefault(redactDSN(s.RemoteDSN), "(from config)"))
			outf(cmd, "remote-table: %s\n", orDefault(s.RemoteTable, "(from config)"))
			return nil
		})
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a setting; an empty value restores the default",
	Long:  "Save a setting in the local database. Keys: " + settingNames() + ".",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := strings.ToLower(args[0]), strings.TrimSpace(args[1])
		set, ok := settingKeys[key]
		if !ok {
			return fmt.Errorf("unknown setting %q; valid keys: %s", args[0], settingNames())
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.UpdateSettings(func(s *progress.Settings) { set(s, value) }); err != nil {
				return err
			}
			if value == "" {
				outf(cmd, "Cleared %s.\n", key)
			} else {
				outf(cmd, "Saved %s.\n", key)
			}
			return nil
		})
	},
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func redactKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:3] + "…" + key[len(key)-4:]
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return "(set)"
	}
	return u.Redacted()
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
