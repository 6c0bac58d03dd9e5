package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// identitySanitizer matches characters of a mailbox identity that are
// unsafe or awkward as directory names, including "@" and ".".
var identitySanitizer = regexp.MustCompile(`[<>:"/\\|?*@.]`)

// SanitizeIdentity maps a mailbox identity (usually an email address) to a
// filesystem-safe directory name. The mapping is deterministic, so the same
// identity always resolves to the same directory.
func SanitizeIdentity(identity string) string {
	return identitySanitizer.ReplaceAllString(identity, "_")
}

// DefaultRoot returns the default cache root for message storage.
func DefaultRoot() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user cache directory: %w", err)
	}
	return filepath.Join(dir, "mailtrim", "messages"), nil
}

// Store is a write-once, on-disk store for raw messages, keyed by mailbox
// identity and message ID. Entries are immutable: once a message is stored,
// later writes for the same key are ignored.
type Store struct {
	root string
}

// NewStore returns a Store rooted at the given directory. The directory is
// created lazily on first write.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Check verifies the store's root directory exists and is usable, creating
// it if needed. Health probes call this to report cache availability.
func (s *Store) Check() error {
	if err := os.MkdirAll(s.root, 0700); err != nil {
		return fmt.Errorf("message cache unavailable: %w", err)
	}
	return nil
}

func (s *Store) identityDir(identity string) string {
	return filepath.Join(s.root, SanitizeIdentity(identity))
}

// MessagePath returns the path a message is cached at. The file may or may
// not exist.
func (s *Store) MessagePath(identity, id string) string {
	return filepath.Join(s.identityDir(identity), id+".eml")
}

// ExtractionDir returns the directory attachments of a message are
// extracted into. The directory may or may not exist.
func (s *Store) ExtractionDir(identity, id string) string {
	return filepath.Join(s.identityDir(identity), id)
}

// EnsureExtractionDir creates the extraction directory for a message and
// returns its path.
func (s *Store) EnsureExtractionDir(identity, id string) (string, error) {
	if err := validateKey(identity, id); err != nil {
		return "", err
	}
	dir := s.ExtractionDir(identity, id)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	return dir, nil
}

// Get returns the cached raw message for the key. The second return value
// reports whether an entry exists; a missing entry is not an error.
func (s *Store) Get(identity, id string) ([]byte, bool, error) {
	if err := validateKey(identity, id); err != nil {
		return nil, false, err
	}
	raw, err := os.ReadFile(s.MessagePath(identity, id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return raw, true, nil
}

// Put stores a raw message under the key. If an entry already exists it is
// left untouched and Put returns nil, so the first stored copy always wins.
func (s *Store) Put(identity, id string, raw []byte) error {
	if err := validateKey(identity, id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.identityDir(identity), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := s.MessagePath(identity, id)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		return fmt.Errorf("failed to create cache entry: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// validateKey rejects keys that would escape the store's directory layout.
// Message IDs come from the mailbox service, but they also pass through the
// command line, so they are checked like any other untrusted input.
func validateKey(identity, id string) error {
	if identity == "" {
		return fmt.Errorf("mailbox identity must not be empty")
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid message id %q", id)
	}
	return nil
}
