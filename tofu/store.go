package tofu

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Decision is the outcome of checking a fingerprint against the store.
type Decision uint8

const (
	// Match means the host is pinned to this fingerprint.
	Match Decision = iota + 1
	// Mismatch means the host is pinned to a different fingerprint.
	// The store is not changed.
	Mismatch
	// New means the host was unknown and is now pinned.
	New
)

func (d Decision) String() string {
	switch d {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case New:
		return "new"
	}
	return "unknown"
}

// Host is a pinned hostname and its fingerprint.
type Host struct {
	Name        string `json:"host" yaml:"host"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// Store is a persistent hostname to fingerprint map. It is safe for
// concurrent use.
type Store struct {
	path  string
	codec codec

	// hostLocks queues first contacts per hostname. An entry lives only
	// while its host is being learned, so the map does not grow with the
	// number of hosts seen.
	hostLocks sync.Map

	// mu guards entries and the file write.
	mu      sync.Mutex
	entries map[string]string
}

// Load opens the store at path. A missing file yields an empty store that
// is created on the first learned host. A file that exists must decode to
// the full document: unknown keys, a missing known_hosts table or a
// malformed fingerprint fail with [ErrCorruptStore] rather than starting
// empty and overwriting the pins on the next write.
func Load(path string) (*Store, error) {
	c, err := codecFor(path)
	if err != nil {
		return nil, err
	}

	s := Store{
		path:    path,
		codec:   c,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &s, nil
	case err != nil:
		return nil, fmt.Errorf("reading trust store: %w", err)
	}

	var doc document
	if err := c.unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStore, path, err)
	}

	if doc.KnownHosts == nil {
		return nil, fmt.Errorf("%w: %s: missing known_hosts", ErrCorruptStore, path)
	}

	for host, fp := range doc.KnownHosts {
		host, fp = normalizeHost(host), strings.ToLower(fp)
		if host == "" {
			return nil, fmt.Errorf("%w: %s: empty host", ErrCorruptStore, path)
		}
		if !validFingerprint(fp) {
			return nil, fmt.Errorf("%w: %s: host %s: fingerprint %q is not a hex SHA-256", ErrCorruptStore, path, host, fp)
		}
		s.entries[host] = fp
	}

	return &s, nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the fingerprint pinned for host.
func (s *Store) Lookup(host string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, ok := s.entries[normalizeHost(host)]
	return fp, ok
}

// Hosts returns a snapshot of the store sorted by hostname.
func (s *Store) Hosts() []Host {
	s.mu.Lock()
	defer s.mu.Unlock()

	hosts := make([]Host, 0, len(s.entries))
	for _, name := range slices.Sorted(maps.Keys(s.entries)) {
		hosts = append(hosts, Host{Name: name, Fingerprint: s.entries[name]})
	}
	return hosts
}

// CheckAndLearn compares fp with the fingerprint pinned for host. An
// unknown host is pinned to fp and the store is written before New is
// returned. If the write fails the host stays unknown.
func (s *Store) CheckAndLearn(host, fp string) (Decision, error) {
	host, fp = normalizeHost(host), strings.ToLower(fp)
	if host == "" {
		return 0, fmt.Errorf("%w: empty host", ErrInvalidIdentity)
	}
	if !validFingerprint(fp) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFingerprint, fp)
	}

	if d, ok := s.check(host, fp); ok {
		return d, nil
	}

	lock := s.hostLock(host)
	lock.Lock()
	defer func() {
		s.hostLocks.CompareAndDelete(host, lock)
		lock.Unlock()
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	// A caller queued on a released lock may find the host learned.
	if d, ok := s.decide(host, fp); ok {
		return d, nil
	}

	s.entries[host] = fp
	if err := s.persist(); err != nil {
		delete(s.entries, host)
		return 0, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return New, nil
}

func (s *Store) check(host, fp string) (Decision, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.decide(host, fp)
}

// decide reports Match or Mismatch for a pinned host. The caller must
// hold mu.
func (s *Store) decide(host, fp string) (Decision, bool) {
	pinned, ok := s.entries[host]
	switch {
	case !ok:
		return 0, false
	case pinned == fp:
		return Match, true
	default:
		return Mismatch, true
	}
}

func (s *Store) hostLock(host string) *sync.Mutex {
	lock, _ := s.hostLocks.LoadOrStore(host, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// persist writes every entry to a temp file beside path and renames it
// into place. The caller must hold mu.
func (s *Store) persist() error {
	data, err := s.codec.marshal(document{Path: s.path, KnownHosts: s.entries})
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.codec.name, err)
	}

	file, err := os.CreateTemp(filepath.Dir(s.path), ".geminer-hosts-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if !successful {
			file.Close()
			os.Remove(file.Name())
		}
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), s.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return nil
}

// Fingerprint returns the lowercase hex SHA-256 of a DER certificate.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:])
}

// validFingerprint reports whether fp is the lowercase hex form of a
// SHA-256 digest.
func validFingerprint(fp string) bool {
	if len(fp) != hex.EncodedLen(sha256.Size) || strings.ToLower(fp) != fp {
		return false
	}
	_, err := hex.DecodeString(fp)
	return err == nil
}

func normalizeHost(host string) string {
	return strings.ToLower(strings.TrimSuffix(host, "."))
}
