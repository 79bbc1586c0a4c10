package client_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adamwoolhether/geminer/client"
	"github.com/adamwoolhether/geminer/gemurl"
)

func ExampleBuild() {
	dir, err := os.MkdirTemp("", "client-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	c, err := client.Build(
		client.WithKnownHosts(filepath.Join(dir, "known_hosts.json")),
		client.WithTimeout(10*time.Second),
		client.WithThrottle(2, 4),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	_ = c
	fmt.Println("client built")
	// Output: client built
}

func ExampleNewRequest() {
	u, err := gemurl.Build(gemurl.Config{Hostname: "example.com", Path: "/search", Query: ptr("gemini")})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	req, err := client.NewRequest(u)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%q\n", req.String())
	// Output: "gemini://example.com/search?gemini\r\n"
}

func ExampleClient_Get_requestTooLong() {
	dir, err := os.MkdirTemp("", "client-example")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer os.RemoveAll(dir)

	c, err := client.Build(client.WithKnownHosts(filepath.Join(dir, "known_hosts.json")))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	long := make([]byte, 1100)
	for i := range long {
		long[i] = 'a'
	}

	_, err = c.Get(context.Background(), "gemini://example.com/"+string(long))
	fmt.Println(errors.Is(err, client.ErrRequestTooLong))
	// Output: true
}

func ptr[T any](v T) *T { return &v }
