package resources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/mailtrim/mailtrim/internal/cache"
	"github.com/mailtrim/mailtrim/internal/server"
)

func newTestContext(t *testing.T, store *cache.Store) *server.ServerContext {
	t.Helper()

	sc, err := server.NewServerContext(context.Background(), store)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func readResourceText(t *testing.T, contents []mcp.ResourceContents) string {
	t.Helper()

	if len(contents) != 1 {
		t.Fatalf("expected 1 resource content, got %d", len(contents))
	}
	text, ok := contents[0].(*mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	return text.Text
}

func TestRegisterServerResources(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	sc := newTestContext(t, cache.NewStore(t.TempDir()))

	s := mcpserver.NewMCPServer("test-server", "1.0.0",
		mcpserver.WithResourceCapabilities(false, false),
	)

	if err := RegisterServerResources(s, sc); err != nil {
		t.Fatalf("RegisterServerResources() error = %v", err)
	}
}

func TestHandleAccounts(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	tokenDir := filepath.Join(xdg, "mailtrim")
	if err := os.MkdirAll(tokenDir, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	for _, account := range []string{"work", "personal"} {
		path := filepath.Join(tokenDir, "google-"+account+".token")
		if err := os.WriteFile(path, []byte("access refresh"), 0600); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	sc := newTestContext(t, cache.NewStore(t.TempDir()))

	request := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "mailtrim://accounts"},
	}
	contents, err := handleAccounts(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAccounts() error = %v", err)
	}

	var data struct {
		Accounts []string `json:"accounts"`
		Count    int      `json:"count"`
	}
	if err := json.Unmarshal([]byte(readResourceText(t, contents)), &data); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if data.Count != 2 {
		t.Errorf("count = %d, want 2", data.Count)
	}
	// ListAccounts sorts alphabetically
	want := []string{"personal", "work"}
	if len(data.Accounts) != len(want) {
		t.Fatalf("accounts = %v, want %v", data.Accounts, want)
	}
	for i, account := range want {
		if data.Accounts[i] != account {
			t.Errorf("accounts[%d] = %q, want %q", i, data.Accounts[i], account)
		}
	}
}

func TestHandleAccounts_Empty(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	sc := newTestContext(t, cache.NewStore(t.TempDir()))

	request := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "mailtrim://accounts"},
	}
	contents, err := handleAccounts(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleAccounts() error = %v", err)
	}

	var data struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(readResourceText(t, contents)), &data); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if data.Count != 0 {
		t.Errorf("count = %d, want 0", data.Count)
	}
}

func TestHandleCacheInfo(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	store := cache.NewStore(t.TempDir())
	if err := store.Put("alice@example.com", "msg1", []byte("raw one")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put("alice@example.com", "msg2", []byte("raw two")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := store.Put("bob@example.com", "msg3", []byte("raw three")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	sc := newTestContext(t, store)

	request := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "mailtrim://cache"},
	}
	contents, err := handleCacheInfo(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleCacheInfo() error = %v", err)
	}

	var data struct {
		Root      string `json:"root"`
		Mailboxes []struct {
			Identity string `json:"identity"`
			Messages int    `json:"messages"`
		} `json:"mailboxes"`
		TotalMessages int `json:"totalMessages"`
	}
	if err := json.Unmarshal([]byte(readResourceText(t, contents)), &data); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if data.Root != store.Root() {
		t.Errorf("root = %q, want %q", data.Root, store.Root())
	}
	if data.TotalMessages != 3 {
		t.Errorf("totalMessages = %d, want 3", data.TotalMessages)
	}
	if len(data.Mailboxes) != 2 {
		t.Fatalf("mailboxes = %+v, want 2 entries", data.Mailboxes)
	}

	counts := make(map[string]int)
	for _, mb := range data.Mailboxes {
		counts[mb.Identity] = mb.Messages
	}
	if counts[cache.SanitizeIdentity("alice@example.com")] != 2 {
		t.Errorf("alice mailbox messages = %d, want 2", counts[cache.SanitizeIdentity("alice@example.com")])
	}
	if counts[cache.SanitizeIdentity("bob@example.com")] != 1 {
		t.Errorf("bob mailbox messages = %d, want 1", counts[cache.SanitizeIdentity("bob@example.com")])
	}
}

func TestHandleCacheInfo_EmptyCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	sc := newTestContext(t, cache.NewStore(filepath.Join(t.TempDir(), "does-not-exist-yet")))

	request := mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "mailtrim://cache"},
	}
	contents, err := handleCacheInfo(context.Background(), request, sc)
	if err != nil {
		t.Fatalf("handleCacheInfo() error = %v", err)
	}

	var data struct {
		TotalMessages int `json:"totalMessages"`
	}
	if err := json.Unmarshal([]byte(readResourceText(t, contents)), &data); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if data.TotalMessages != 0 {
		t.Errorf("totalMessages = %d, want 0", data.TotalMessages)
	}
}
