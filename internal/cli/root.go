// Package cli implements the geminer commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/geminer/client/throttle"
	"github.com/adamwoolhether/geminer/internal/validate"
)

const (
	envKnownHosts = "GEMINER_KNOWN_HOSTS"
	envHistoryDB  = "GEMINER_HISTORY_DB"
)

var (
	knownHostsPath string
	historyDBPath  string
	formatFlag     string
	timeoutFlag    time.Duration
	verboseFlag    bool

	// dialer replaces the network dialer in tests.
	dialer throttle.Dialer
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "geminer",
	Short:         "Fetch Gemini capsules",
	Long:          "A small Gemini client. Server certificates are trusted on first use and pinned in a known hosts file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := currentSettings()
		if err != nil {
			return err
		}
		return checkSettings(s)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&knownHostsPath, "known-hosts", "", "Trust store path, .json/.yaml/.toml (default: $"+envKnownHosts+" or ~/.geminer/known_hosts.json)")
	RootCmd.PersistentFlags().StringVar(&historyDBPath, "history-db", "", "History database path (default: $"+envHistoryDB+" or ~/.geminer/history.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text, json, yaml or body")
	RootCmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "Request timeout, 0 for none")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log requests and trust decisions to stderr")
}

// settings are the resolved global flags.
type settings struct {
	KnownHosts string        `name:"known-hosts" validate:"required"`
	HistoryDB  string        `name:"history-db" validate:"required"`
	Format     string        `name:"format" validate:"oneof=text json yaml body"`
	Timeout    time.Duration `name:"timeout" validate:"gte=0"`
}

func currentSettings() (settings, error) {
	knownHosts, err := getKnownHostsPath()
	if err != nil {
		return settings{}, err
	}
	historyDB, err := getHistoryDBPath()
	if err != nil {
		return settings{}, err
	}

	return settings{
		KnownHosts: knownHosts,
		HistoryDB:  historyDB,
		Format:     formatFlag,
		Timeout:    timeoutFlag,
	}, nil
}

func checkSettings(s settings) error {
	if err := validate.Check(s); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func getKnownHostsPath() (string, error) {
	return resolvePath("known-hosts", knownHostsPath, envKnownHosts, "known_hosts.json")
}

func getHistoryDBPath() (string, error) {
	return resolvePath("history-db", historyDBPath, envHistoryDB, "history.db")
}

// resolvePath picks the flag, then the environment, then ~/.geminer/name.
func resolvePath(flagName, flagValue, env, name string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(env); v != "" {
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no --%s or $%s set and home dir unknown: %w", flagName, env, err)
	}
	return filepath.Join(home, ".geminer", name), nil
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
