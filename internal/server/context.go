package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mailtrim/mailtrim/internal/cache"
	"github.com/mailtrim/mailtrim/internal/gmail"
	"github.com/mailtrim/mailtrim/internal/google"
	"github.com/mailtrim/mailtrim/internal/instrumentation"
	"github.com/mailtrim/mailtrim/internal/rewrite"
)

// ServerContext holds the shared state for the MCP server
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	tokens       google.TokenProvider
	store        *cache.Store
	gmailClients map[string]*gmail.Client    // Maps account name to Gmail client
	fetchers     map[string]*rewrite.Fetcher // Maps account name to cache-backed fetcher
	metrics      *instrumentation.Metrics
	auditLogger  *instrumentation.AuditLogger
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context backed by file-based tokens.
// A nil store selects the default message cache location.
func NewServerContext(ctx context.Context, store *cache.Store) (*ServerContext, error) {
	return NewServerContextWithProvider(ctx, store, google.NewFileTokenProvider())
}

// NewServerContextWithProvider creates a new server context with a custom
// token provider
func NewServerContextWithProvider(ctx context.Context, store *cache.Store, tokens google.TokenProvider) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if store == nil {
		root, err := cache.DefaultRoot()
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to resolve message cache directory: %w", err)
		}
		store = cache.NewStore(root)
	}
	if tokens == nil {
		tokens = google.NewFileTokenProvider()
	}

	sc := &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		tokens:       tokens,
		store:        store,
		gmailClients: make(map[string]*gmail.Client),
		fetchers:     make(map[string]*rewrite.Fetcher),
	}

	// Try to create default Gmail client, but don't fail if token is missing
	// Clients will be lazily initialized when first needed
	if tokens.HasTokenForAccount("default") {
		client, err := gmail.NewClientForAccountWithProvider(shutdownCtx, "default", tokens)
		if err != nil {
			// Log but don't fail - will be re-attempted on first use
			slog.Warn("failed to create Gmail client for default account", "error", err)
		} else {
			sc.gmailClients["default"] = client
		}
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the message cache store
func (sc *ServerContext) Store() *cache.Store {
	return sc.store
}

// TokenProvider returns the token provider used for client construction
func (sc *ServerContext) TokenProvider() google.TokenProvider {
	return sc.tokens
}

// GmailClientForAccount returns the Gmail client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) GmailClientForAccount(account string) *gmail.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Check if client already exists
	if client, ok := sc.gmailClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !gmail.HasTokenForAccountWithProvider(account, sc.tokens) {
		return nil
	}

	client, err := gmail.NewClientForAccountWithProvider(sc.ctx, account, sc.tokens)
	if err != nil {
		slog.Warn("failed to create Gmail client", "account", account, "error", err)
		return nil
	}

	sc.gmailClients[account] = client
	return client
}

// GmailClient returns the Gmail client for the default account
func (sc *ServerContext) GmailClient() *gmail.Client {
	return sc.GmailClientForAccount("default")
}

// SetGmailClientForAccount sets the Gmail client for a specific account
func (sc *ServerContext) SetGmailClientForAccount(account string, client *gmail.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailClients[account] = client
}

// SetGmailClient sets the Gmail client for the default account
func (sc *ServerContext) SetGmailClient(client *gmail.Client) {
	sc.SetGmailClientForAccount("default", client)
}

// FetcherForAccount returns the cache-backed message fetcher for a specific
// account. Creates and caches the fetcher if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) FetcherForAccount(account string) *rewrite.Fetcher {
	sc.mu.RLock()
	if f, ok := sc.fetchers[account]; ok {
		sc.mu.RUnlock()
		return f
	}
	sc.mu.RUnlock()

	// The client lookup takes the write lock itself
	client := sc.GmailClientForAccount(account)
	if client == nil {
		return nil
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if f, ok := sc.fetchers[account]; ok {
		return f
	}
	f := rewrite.NewFetcher(client, sc.store, nil)
	sc.fetchers[account] = f
	return f
}

// RewriterForAccount returns a rewrite orchestrator for a specific account.
// When makeChanges is false the rewriter previews without touching the mailbox.
// Returns nil if the account has no token.
func (sc *ServerContext) RewriterForAccount(account string, makeChanges bool) *rewrite.Rewriter {
	client := sc.GmailClientForAccount(account)
	fetcher := sc.FetcherForAccount(account)
	if client == nil || fetcher == nil {
		return nil
	}
	return rewrite.NewRewriter(client, fetcher, makeChanges, nil)
}

// Metrics returns the metrics recorder, or nil when instrumentation is disabled
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by instrumented tool handlers
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// AuditLogger returns the audit logger, or nil when audit logging is disabled
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger used by instrumented tool handlers
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
