package gemurl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adamwoolhether/geminer/internal/validate"
)

// Config describes a URL field by field. Zero values take the defaults:
//
//	Scheme   gemini
//	Port     1965 (only meaningful with a Hostname)
//	Path     "/"
//	Query    absent when nil
//
// A Config without a Hostname yields a URL without an authority, and then
// Port must be zero. The about scheme takes no Hostname. A Hostname needs at
// least two labels, as in [Parse].
type Config struct {
	Scheme   Scheme  `name:"scheme" validate:"omitempty,oneof=gemini about"`
	Hostname string  `name:"hostname" validate:"omitempty,hostname_rfc1123"`
	Port     uint16  `name:"port"`
	Path     string  `name:"path" validate:"omitempty,excludesall=?#"`
	Query    *string `name:"query"`
}

// Build validates cfg and constructs the URL it describes.
func Build(cfg Config) (URL, error) {
	if err := validate.Check(cfg); err != nil {
		return URL{}, fmt.Errorf("validating url config: %w", err)
	}
	if err := cfg.check(); err != nil {
		return URL{}, fmt.Errorf("validating url config: %w", err)
	}

	u := URL{
		scheme: SchemeGemini,
		path:   DefaultPath,
	}
	if cfg.Scheme != "" {
		u.scheme = cfg.Scheme
	}
	if cfg.Hostname != "" {
		u.host = Host{Name: cfg.Hostname, Port: DefaultPort}
		u.hasHost = true
		if cfg.Port != 0 {
			u.host.Port = cfg.Port
		}
	}
	if cfg.Path != "" {
		u.path = cfg.Path
	}
	if cfg.Query != nil {
		u.query, u.hasQuery = *cfg.Query, true
	}

	return u, nil
}

// check covers the rules that can't be written as tags.
func (cfg Config) check() error {
	if cfg.Hostname != "" && scanHostname(cfg.Hostname) != len(cfg.Hostname) {
		return validate.NewFieldError("hostname", errors.New("hostname must have at least two dot-separated labels"))
	}
	if cfg.Hostname != "" && cfg.Scheme == SchemeAbout {
		return validate.NewFieldError("hostname", errors.New("about urls take no hostname"))
	}
	if cfg.Hostname == "" && cfg.Port != 0 {
		return validate.NewFieldError("port", errors.New("port requires a hostname"))
	}
	if strings.ContainsFunc(cfg.Path, func(r rune) bool { return r < 0x80 && !isSegmentByte(byte(r)) && r != '/' }) {
		return validate.NewFieldError("path", errors.New("path must not contain spaces or control characters"))
	}
	if cfg.Hostname != "" && cfg.Path != "" && !strings.HasPrefix(cfg.Path, "/") {
		return validate.NewFieldError("path", errors.New("path must start with / when a hostname is set"))
	}
	if cfg.Query != nil && strings.ContainsFunc(*cfg.Query, func(r rune) bool { return r < 0x80 && isCTL(byte(r)) }) {
		return validate.NewFieldError("query", errors.New("query must not contain control characters"))
	}
	return nil
}
