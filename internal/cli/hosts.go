package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/geminer/gemurl"
	"github.com/adamwoolhether/geminer/tofu"
)

func init() {
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List pinned hosts and their certificate fingerprints",
		Args:  cobra.NoArgs,
		RunE:  runHosts,
	}

	RootCmd.AddCommand(cmd)
}

func runHosts(cmd *cobra.Command, args []string) error {
	path, err := getKnownHostsPath()
	if err != nil {
		return err
	}
	store, err := tofu.Load(path)
	if err != nil {
		return err
	}

	out, err := formatHosts(store.Hosts(), formatFlag)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	return nil
}

// hostOf returns the hostname of rawURL, or "" if it has none.
func hostOf(rawURL string) string {
	u, err := gemurl.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
