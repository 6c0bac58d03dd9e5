package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/google"
	"github.com/mailtrim/mailtrim/internal/server"
)

// RegisterServerResources registers resources describing local server state.
// Both resources are served from disk, so they work without any mailbox
// credentials.
func RegisterServerResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	accountsResource := mcp.NewResource(
		"mailtrim://accounts",
		"Authorized Accounts",
		mcp.WithResourceDescription("Google accounts with a stored OAuth token"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(accountsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccounts(ctx, request, sc)
	})

	cacheResource := mcp.NewResource(
		"mailtrim://cache",
		"Message Cache",
		mcp.WithResourceDescription("Location and contents of the local message cache"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(cacheResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCacheInfo(ctx, request, sc)
	})

	return nil
}

// handleAccounts lists the accounts that have completed the OAuth flow
func handleAccounts(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	accounts, err := google.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accountsData := map[string]interface{}{
		"accounts":    accounts,
		"count":       len(accounts),
		"description": "Google accounts with a stored OAuth token. Use google_save_auth_code to add more.",
	}

	jsonData, err := json.MarshalIndent(accountsData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal accounts data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// mailboxInfo summarizes one identity directory in the cache.
type mailboxInfo struct {
	Identity string `json:"identity"`
	Messages int    `json:"messages"`
}

// handleCacheInfo reports the cache root and the number of cached messages
// per mailbox identity
func handleCacheInfo(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	root := sc.Store().Root()

	mailboxes := []mailboxInfo{}
	total := 0

	entries, err := os.ReadDir(root)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read cache root: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		messages, err := countCachedMessages(root, entry.Name())
		if err != nil {
			return nil, err
		}
		mailboxes = append(mailboxes, mailboxInfo{
			Identity: entry.Name(),
			Messages: messages,
		})
		total += messages
	}

	cacheData := map[string]interface{}{
		"root":          root,
		"mailboxes":     mailboxes,
		"totalMessages": total,
		"description":   "Write-once cache of raw messages; entries survive mailbox rewrites.",
	}

	jsonData, err := json.MarshalIndent(cacheData, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func countCachedMessages(root, identity string) (int, error) {
	entries, err := os.ReadDir(filepath.Join(root, identity))
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory for %s: %w", identity, err)
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".eml") {
			count++
		}
	}
	return count, nil
}
