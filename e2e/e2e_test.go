//go:build integration

package e2e_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/geminer"
	"github.com/adamwoolhether/geminer/client"
	"github.com/adamwoolhether/geminer/history"
	"github.com/adamwoolhether/geminer/internal/gemtest"
	"github.com/adamwoolhether/geminer/response"
	"github.com/adamwoolhether/geminer/tofu"
)

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func capsule() gemtest.Handler {
	pages := map[string]string{
		"gemini://gemini.test/":        "20 text/gemini\r\n# Capsule\r\n=> /about About\r\n",
		"gemini://gemini.test/about":   "20 text/plain;charset=us-ascii\r\nabout this capsule",
		"gemini://gemini.test/old":     "31 gemini://gemini.test/about\r\n",
		"gemini://gemini.test/search":  "10 Query\r\n",
		"gemini://gemini.test/private": "60 certificate required\r\n",
	}

	return gemtest.HandlerFunc(func(w io.Writer, url string) {
		raw, ok := pages[url]
		if !ok {
			raw = "51 not found\r\n"
		}
		io.WriteString(w, raw)
	})
}

func newServer(t *testing.T, h gemtest.Handler) *gemtest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := gemtest.NewServer(h, gemtest.WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Close() })

	return srv
}

func newClient(t *testing.T, knownHosts string, srv *gemtest.Server) *client.Client {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	c, err := geminer.NewClient(knownHosts,
		client.WithDialer(srv),
		client.WithLogger(log),
		client.WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	return c
}

// -------------------------------------------------------------------------
// Tests
// -------------------------------------------------------------------------

func TestE2E_BrowseCapsule(t *testing.T) {
	srv := newServer(t, capsule())
	c := newClient(t, filepath.Join(t.TempDir(), "known_hosts.toml"), srv)

	testCases := []struct {
		url string
		exp response.Response
	}{
		{
			url: "gemini.test",
			exp: response.Success{MIME: response.NewMIMEType(response.MediaTypeGemini, ""), Body: "# Capsule\r\n=> /about About\r\n"},
		},
		{
			url: "gemini://gemini.test/about",
			exp: response.Success{MIME: response.NewMIMEType(response.MediaTypePlain, response.CharsetUSASCII), Body: "about this capsule"},
		},
		{
			url: "gemini://gemini.test:1965/old",
			exp: response.Redirect{Code: response.StatusPermanentRedirect, URL: "gemini://gemini.test/about"},
		},
		{
			url: "gemini://gemini.test/search",
			exp: response.Input{Code: response.StatusInput, Prompt: "Query"},
		},
		{
			url: "gemini://gemini.test/private",
			exp: response.CertificateRequired{Code: response.StatusClientCertificateRequired, Info: "certificate required"},
		},
		{
			url: "gemini://gemini.test/missing",
			exp: response.PermanentFailure{Code: response.StatusNotFound, Info: "not found"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			got, err := c.Get(t.Context(), tc.url)
			if err != nil {
				t.Fatalf("get %s: %v", tc.url, err)
			}
			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("response mismatch (-exp +got):\n%s", diff)
			}
		})
	}
}

func TestE2E_PinSurvivesRestart(t *testing.T) {
	knownHosts := filepath.Join(t.TempDir(), "known_hosts.yaml")
	srv := newServer(t, capsule())

	if _, err := newClient(t, knownHosts, srv).Get(t.Context(), "gemini://gemini.test/"); err != nil {
		t.Fatalf("first fetch: %v", err)
	}

	// A new client reloads the pin from disk.
	if _, err := newClient(t, knownHosts, srv).Get(t.Context(), "gemini://gemini.test/"); err != nil {
		t.Fatalf("fetch after reload: %v", err)
	}

	impostor := newServer(t, capsule())
	_, err := newClient(t, knownHosts, impostor).Get(t.Context(), "gemini://gemini.test/")
	if !errors.Is(err, client.ErrUntrusted) || !errors.Is(err, tofu.ErrMismatch) {
		t.Fatalf("exp untrusted mismatch, got: %v", err)
	}

	store, err := tofu.Load(knownHosts)
	if err != nil {
		t.Fatal(err)
	}
	exp := []tofu.Host{{Name: "gemini.test", Fingerprint: tofu.Fingerprint(srv.Leaf().Raw)}}
	if diff := cmp.Diff(exp, store.Hosts()); diff != "" {
		t.Errorf("pins mismatch (-exp +got):\n%s", diff)
	}
}

func TestE2E_ConcurrentFirstContact(t *testing.T) {
	srv := newServer(t, capsule())
	c := newClient(t, filepath.Join(t.TempDir(), "known_hosts.json"), srv)

	const n = 8

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Get(t.Context(), "gemini://gemini.test/")
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d: %v", i, err)
		}
	}
	if got := len(c.TrustStore().Hosts()); got != 1 {
		t.Errorf("exp one pinned host, got %d", got)
	}
}

func TestE2E_RecordHistory(t *testing.T) {
	srv := newServer(t, capsule())
	c := newClient(t, filepath.Join(t.TempDir(), "known_hosts.json"), srv)

	h, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { h.Close() })

	for _, url := range []string{"gemini://gemini.test/", "gemini://gemini.test/missing"} {
		resp, err := c.Get(t.Context(), url)
		if err != nil {
			t.Fatalf("get %s: %v", url, err)
		}
		if _, err := h.Record(t.Context(), history.Entry{URL: url, Host: "gemini.test", Status: resp.Status(), Meta: resp.Meta()}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	entries, err := h.List(t.Context(), history.ListParams{Host: "gemini.test"})
	if err != nil {
		t.Fatal(err)
	}

	got := make([]response.Status, 0, len(entries))
	for _, e := range entries {
		got = append(got, e.Status)
	}
	if diff := cmp.Diff([]response.Status{response.StatusNotFound, response.StatusSuccess}, got); diff != "" {
		t.Errorf("history mismatch (-exp +got):\n%s", diff)
	}
}
