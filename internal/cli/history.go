package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/geminer/history"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded fetches, newest first",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().String("host", "", "Filter by hostname")
	cmd.Flags().IntP("limit", "l", history.DefaultLimit, "Max results")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	host, _ := cmd.Flags().GetString("host")
	limit, _ := cmd.Flags().GetInt("limit")

	path, err := getHistoryDBPath()
	if err != nil {
		return err
	}
	s, err := history.NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer s.Close()

	entries, err := s.List(cmd.Context(), history.ListParams{Host: host, Limit: limit})
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	out, err := formatHistory(entries, formatFlag)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	return nil
}
