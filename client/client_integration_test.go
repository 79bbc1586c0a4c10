//go:build integration

package client_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adamwoolhether/geminer/client"
	"github.com/adamwoolhether/geminer/response"
)

func TestIntegration_Get_Capsule(t *testing.T) {
	store := newStore(t)

	c, err := client.Build(
		client.WithTrustStore(store),
		client.WithTimeout(15*time.Second),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	resp, err := c.Get(t.Context(), "gemini://geminiprotocol.net/")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	success, ok := resp.(response.Success)
	if !ok {
		t.Fatalf("exp success, got %s", resp.Status())
	}
	if success.MIME.Type != response.MediaTypeGemini {
		t.Errorf("exp %s, got %s", response.MediaTypeGemini, success.MIME.Type)
	}
	if !strings.Contains(success.Body, "Gemini") {
		t.Errorf("exp body to mention Gemini, got %d bytes", len(success.Body))
	}

	if _, ok := store.Lookup("geminiprotocol.net"); !ok {
		t.Error("exp host pinned after first contact")
	}

	// A second fetch must match the pin.
	if _, err := c.Get(t.Context(), "gemini://geminiprotocol.net/"); err != nil {
		t.Fatalf("second get failed: %v", err)
	}
}

func TestIntegration_Get_UnknownHost(t *testing.T) {
	c, err := client.Build(
		client.WithKnownHosts(filepath.Join(t.TempDir(), "known_hosts.toml")),
		client.WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	_, err = c.Get(t.Context(), "gemini://does-not-exist.invalid/")
	if !errors.Is(err, client.ErrTransport) {
		t.Fatalf("exp err %v; got: %v", client.ErrTransport, err)
	}
}
