package geminer_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adamwoolhether/geminer"
	"github.com/adamwoolhether/geminer/client"
	"github.com/adamwoolhether/geminer/internal/gemtest"
	"github.com/adamwoolhether/geminer/response"
)

func ExampleNewClient() {
	srv, err := gemtest.NewServer(gemtest.Respond("20 text/gemini\r\n# hello\n"))
	if err != nil {
		fmt.Println("server error:", err)
		return
	}
	defer srv.Close()

	dir, err := os.MkdirTemp("", "geminer-example")
	if err != nil {
		fmt.Println("temp dir error:", err)
		return
	}
	defer os.RemoveAll(dir)

	c, err := geminer.NewClient(filepath.Join(dir, "known_hosts.json"),
		client.WithTimeout(5*time.Second),
		client.WithDialer(srv),
		client.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	resp, err := c.Get(context.Background(), "gemini://gemini.test/")
	if err != nil {
		fmt.Println("get error:", err)
		return
	}

	if s, ok := resp.(response.Success); ok {
		fmt.Print(s.Body)
	}
	// Output: # hello
}
