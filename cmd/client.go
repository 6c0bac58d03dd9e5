package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/mailtrim/mailtrim/internal/cache"
	"github.com/mailtrim/mailtrim/internal/gmail"
	"github.com/mailtrim/mailtrim/internal/google"
	"github.com/mailtrim/mailtrim/internal/rewrite"
)

// resolveCacheRoot returns the cache root directory, preferring the
// --cache-dir flag, then the MAILTRIM_CACHE_DIR environment variable, then
// the per-user default.
func resolveCacheRoot() (string, error) {
	if cacheDir != "" {
		return cacheDir, nil
	}
	if env := os.Getenv("MAILTRIM_CACHE_DIR"); env != "" {
		return env, nil
	}
	return cache.DefaultRoot()
}

func newStore() (*cache.Store, error) {
	root, err := resolveCacheRoot()
	if err != nil {
		return nil, err
	}
	return cache.NewStore(root), nil
}

// newGmailClient creates a Gmail client for the account selected with
// --account. When no token is stored yet the error carries the full
// authorization walkthrough instead of a bare failure.
func newGmailClient(ctx context.Context) (*gmail.Client, error) {
	_ = google.MigrateDefaultToken()

	if !gmail.HasTokenForAccount(account) {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}
	return gmail.NewClientForAccount(ctx, account)
}

// newFetcher wires a cache-first message fetcher for the selected account.
// The client is returned as well because some commands talk to the mailbox
// directly.
func newFetcher(ctx context.Context) (*rewrite.Fetcher, *gmail.Client, error) {
	client, err := newGmailClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	store, err := newStore()
	if err != nil {
		return nil, nil, err
	}
	return rewrite.NewFetcher(client, store, nil), client, nil
}
