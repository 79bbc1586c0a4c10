package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/geminer/client"
	"github.com/adamwoolhether/geminer/history"
	"github.com/adamwoolhether/geminer/response"
)

func init() {
	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a Gemini URL and print the response",
		Long: "Fetch a Gemini URL. A bare domain such as example.com/page is accepted. " +
			"Redirects are reported, not followed.",
		Args: cobra.ExactArgs(1),
		RunE: runFetch,
	}

	cmd.Flags().Bool("history", false, "Record the fetch in the history database")
	cmd.Flags().Int64("max-size", 0, "Fail responses larger than this many bytes, 0 for no limit")
	cmd.Flags().Int("rate", 0, "Limit new connections per second, 0 for no limit")

	RootCmd.AddCommand(cmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	record, _ := cmd.Flags().GetBool("history")
	maxSize, _ := cmd.Flags().GetInt64("max-size")
	rate, _ := cmd.Flags().GetInt("rate")

	if maxSize < 0 {
		return errors.New("max-size must not be negative")
	}

	logger := newLogger(cmd)

	c, err := newClient(logger, maxSize, rate)
	if err != nil {
		return err
	}

	rawURL := args[0]
	start := time.Now()

	resp, fetchErr := c.Get(cmd.Context(), rawURL)
	took := time.Since(start)

	if record {
		if err := recordFetch(cmd.Context(), rawURL, resp, fetchErr, took); err != nil {
			logger.Warn("recording history", "error", err)
		}
	}

	if fetchErr != nil {
		return fetchErr
	}

	out, err := formatOutput(newResult(rawURL, resp, took), formatFlag)
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	return nil
}

func newClient(logger *slog.Logger, maxSize int64, rate int) (*client.Client, error) {
	path, err := getKnownHostsPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create known hosts dir: %w", err)
	}

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithKnownHosts(path),
		client.WithTimeout(timeoutFlag),
		client.WithMaxResponseSize(maxSize),
	}
	if dialer != nil {
		opts = append(opts, client.WithDialer(dialer))
	}
	if rate > 0 {
		opts = append(opts, client.WithThrottle(rate, 1))
	}

	return client.Build(opts...)
}

func recordFetch(ctx context.Context, rawURL string, resp response.Response, fetchErr error, took time.Duration) error {
	path, err := getHistoryDBPath()
	if err != nil {
		return err
	}
	s, err := history.NewSQLiteStore(path)
	if err != nil {
		return err
	}
	defer s.Close()

	e := history.Entry{
		URL:      rawURL,
		Duration: took,
	}

	var cErr *client.Error
	if errors.As(fetchErr, &cErr) {
		e.Host = cErr.Host
	}

	switch {
	case fetchErr != nil:
		e.Error = fetchErr.Error()
	default:
		e.Status = resp.Status()
		e.Meta = resp.Meta()
		if success, ok := resp.(response.Success); ok {
			e.BodySize = len(success.Body)
		}
	}

	if e.Host == "" {
		e.Host = hostOf(rawURL)
	}

	_, err = s.Record(ctx, e)
	return err
}
