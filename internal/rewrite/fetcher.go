package rewrite

import (
	"fmt"
	"sync"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/mailtrim/mailtrim/internal/cache"
	"github.com/mailtrim/mailtrim/internal/email"
	"github.com/mailtrim/mailtrim/internal/logging"
)

// Gateway is the slice of the mailbox service the rewrite workflow needs.
// *gmail.Client satisfies it.
type Gateway interface {
	GetRawMessage(messageID string) ([]byte, error)
	InsertMessage(raw []byte) (*gmail.Message, error)
	TrashMessage(messageID string) error
	ProfileEmailAddress() (string, error)
}

// Fetcher retrieves messages cache-first. A message is downloaded from the
// gateway at most once; after that the cached copy serves every request,
// which also keeps the original bytes around after a destructive rewrite.
type Fetcher struct {
	gateway Gateway
	store   *cache.Store
	logger  logging.Logger

	mu       sync.Mutex
	identity string
}

// NewFetcher creates a Fetcher backed by the given gateway and store. A nil
// logger falls back to the default logger.
func NewFetcher(gateway Gateway, store *cache.Store, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Fetcher{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
}

// Identity returns the mailbox identity used for cache placement, resolved
// from the gateway profile on first use.
func (f *Fetcher) Identity() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.identity != "" {
		return f.identity, nil
	}
	addr, err := f.gateway.ProfileEmailAddress()
	if err != nil {
		return "", fmt.Errorf("failed to resolve mailbox identity: %w", err)
	}
	if addr == "" {
		return "", fmt.Errorf("mailbox profile has no email address")
	}
	f.identity = addr
	return addr, nil
}

// Store returns the underlying cache store.
func (f *Fetcher) Store() *cache.Store {
	return f.store
}

// Fetch returns the message with the given ID, serving it from the cache
// when possible. The second return value reports whether the cache served
// the request. A fresh download is stored before it is returned, so by the
// time a caller sees message bytes they are already safe on disk.
func (f *Fetcher) Fetch(id string) (*email.Message, bool, error) {
	identity, err := f.Identity()
	if err != nil {
		return nil, false, err
	}

	raw, ok, err := f.store.Get(identity, id)
	if err != nil {
		return nil, false, err
	}
	if ok {
		f.logger.Debug("cache hit", logging.KeyMessageID, id)
		return email.NewMessage(id, raw), true, nil
	}

	raw, err = f.gateway.GetRawMessage(id)
	if err != nil {
		return nil, false, err
	}
	if err := f.store.Put(identity, id, raw); err != nil {
		return nil, false, err
	}
	f.logger.Debug("message fetched and cached",
		logging.KeyMessageID, id, "size", len(raw))
	return email.NewMessage(id, raw), false, nil
}
