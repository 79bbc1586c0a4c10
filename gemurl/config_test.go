package gemurl_test

import (
	"testing"

	"github.com/adamwoolhether/geminer/gemurl"
	"github.com/adamwoolhether/geminer/internal/validate"
)

func TestBuild_Defaults(t *testing.T) {
	u, err := gemurl.Build(gemurl.Config{Hostname: "geminiprotocol.net"})
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	if u.Scheme() != gemurl.SchemeGemini {
		t.Errorf("exp scheme %q, got %q", gemurl.SchemeGemini, u.Scheme())
	}
	host, ok := u.Host()
	if !ok || host.Port != gemurl.DefaultPort {
		t.Errorf("exp port %d, got %d (present=%v)", gemurl.DefaultPort, host.Port, ok)
	}
	if u.Path() != "/" {
		t.Errorf("exp path /, got %q", u.Path())
	}
	if _, ok := u.Query(); ok {
		t.Error("exp no query")
	}
}

func TestBuild_OutputParses(t *testing.T) {
	testCases := []gemurl.Config{
		{Hostname: "example.com", Port: 1966, Path: "/x"},
		{Hostname: "a-b.example.org", Query: ptr("")},
		{Scheme: gemurl.SchemeAbout, Path: "blank"},
		{Path: "docs/index.gmi"},
	}

	for _, cfg := range testCases {
		u, err := gemurl.Build(cfg)
		if err != nil {
			t.Fatalf("%+v: exp nil err, got: %v", cfg, err)
		}

		got, err := gemurl.Parse(u.String())
		if err != nil {
			t.Fatalf("parse %q: %v", u.String(), err)
		}
		if !got.Equal(u) {
			t.Errorf("%q: exp %#v, got %#v", u.String(), u, got)
		}
	}
}

func TestBuild_Invalid(t *testing.T) {
	testCases := []struct {
		name     string
		cfg      gemurl.Config
		expField string
	}{
		{
			name:     "unknown scheme",
			cfg:      gemurl.Config{Scheme: "https", Hostname: "example.com"},
			expField: "scheme",
		},
		{
			name:     "bad hostname",
			cfg:      gemurl.Config{Hostname: "exa mple.com"},
			expField: "hostname",
		},
		{
			name:     "single label hostname",
			cfg:      gemurl.Config{Hostname: "localhost", Port: 1966},
			expField: "hostname",
		},
		{
			name:     "about with hostname",
			cfg:      gemurl.Config{Scheme: gemurl.SchemeAbout, Hostname: "example.com"},
			expField: "hostname",
		},
		{
			name:     "port without hostname",
			cfg:      gemurl.Config{Port: 70},
			expField: "port",
		},
		{
			name:     "question mark in path",
			cfg:      gemurl.Config{Hostname: "example.com", Path: "/a?b"},
			expField: "path",
		},
		{
			name:     "relative path with host",
			cfg:      gemurl.Config{Hostname: "example.com", Path: "docs"},
			expField: "path",
		},
		{
			name:     "space in path",
			cfg:      gemurl.Config{Path: "/a b"},
			expField: "path",
		},
		{
			name:     "newline in query",
			cfg:      gemurl.Config{Hostname: "example.com", Query: ptr("a\nb")},
			expField: "query",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gemurl.Build(tc.cfg)
			if err == nil {
				t.Fatal("exp error, got nil")
			}

			fe := validate.GetFieldErrors(err)
			if _, ok := fe.Fields()[tc.expField]; !ok {
				t.Errorf("exp %q field error, got: %v", tc.expField, err)
			}
		})
	}
}
